package pipeline_test

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/penny-vault/marketdash/data"
	"github.com/penny-vault/marketdash/dataframe"
	"github.com/penny-vault/marketdash/pipeline"
	"github.com/penny-vault/marketdash/render"
	"github.com/penny-vault/marketdash/table"
	"github.com/penny-vault/marketdash/tradecron"
	"github.com/penny-vault/marketdash/universe"
)

const testUniverses = `
[[universe]]
name = "SP 500"
table = "sectors"
source = "yahoo"
history_days = 730
instruments = [
  { label = "Energy", symbol = "XLE" },
  { label = "Utilities", symbol = "XLU" },
]

[[universe]]
name = "Stoxx 600"
table = "sectors"
source = "yahoo"
history_days = 730
instruments = [
  { label = "Banks", symbol = "EXV1.DE" },
]

[[universe]]
name = "Changes"
table = "macro"
source = "yahoo"
history_days = 370
instruments = [
  { label = "EUR/USD", symbol = "EURUSD=X" },
]

[[universe]]
name = "Rates"
table = "rates"
source = "fred"
start = "2010-01-01"
instruments = [
  { label = "US_2Y", symbol = "DGS2" },
  { label = "US_10Y", symbol = "DGS10" },
  { label = "Bund_10Y", symbol = "IRLTLT01DEM156N" },
]

[[universe]]
name = "Credit"
table = "credit"
source = "fred"
start = "2010-01-01"
instruments = [
  { label = "US_HY_OAS", symbol = "BAMLH0A0HYM2" },
]
`

// stubLoader returns the same rising series for every instrument, except
// for the universes listed in failures or empty
type stubLoader struct {
	failures map[string]error
	empty    map[string]bool
	calls    []string
}

func risingSeries(label string, begin, end time.Time) *dataframe.DataFrame {
	df := dataframe.Empty(label)
	val := 100.0
	for dt := begin; !dt.After(end); dt = dt.AddDate(0, 0, 1) {
		if tradecron.IsBusinessDay(dt) {
			df.InsertRow(dt, val)
			val += 0.5
		}
	}
	return df
}

func (s *stubLoader) Universe(ctx context.Context, u *universe.Universe, now time.Time) (dataframe.Map, error) {
	s.calls = append(s.calls, u.Name)
	if err, ok := s.failures[u.Name]; ok {
		return nil, err
	}

	res := make(dataframe.Map)
	for _, inst := range u.Instruments {
		if s.empty[u.Name] {
			res[inst.Label] = dataframe.Empty(inst.Label)
			continue
		}
		res[inst.Label] = risingSeries(inst.Label, time.Date(2023, 11, 1, 0, 0, 0, 0, time.UTC), time.Date(2024, 4, 30, 0, 0, 0, 0, time.UTC))
	}
	return res, nil
}

func listDir(dir, pattern string) []string {
	matches, err := filepath.Glob(filepath.Join(dir, pattern))
	Expect(err).To(BeNil())
	names := make([]string, len(matches))
	for idx, m := range matches {
		names[idx] = filepath.Base(m)
	}
	return names
}

var _ = Describe("Pipeline", func() {
	var (
		dataDir   string
		outputDir string
		loader    *stubLoader
		pipe      *pipeline.Pipeline
	)

	BeforeEach(func() {
		root, err := os.MkdirTemp("", "marketdash-pipeline")
		Expect(err).To(BeNil())
		DeferCleanup(os.RemoveAll, root)

		dataDir = filepath.Join(root, "data")
		outputDir = filepath.Join(root, "output")

		universes, err := universe.Parse([]byte(testUniverses))
		Expect(err).To(BeNil())

		loader = &stubLoader{failures: map[string]error{}, empty: map[string]bool{}}
		pipe = pipeline.New(pipeline.Config{
			DataDir:   dataDir,
			OutputDir: outputDir,
			Now: func() time.Time {
				return time.Date(2024, 4, 30, 19, 0, 0, 0, time.UTC)
			},
		}, loader, universes)
	})

	It("lists the stages in build order", func() {
		names := make([]string, 0)
		for _, stage := range pipe.Stages() {
			names = append(names, stage.Name)
		}
		Expect(names).To(Equal([]string{
			"data sectors", "data macro", "data rates", "data credit",
			"visu sectors", "visu macro", "visu rates", "visu credit",
		}))
	})

	It("rejects unknown stages", func() {
		_, err := pipe.Stage("data bonds")
		Expect(err).To(MatchError(pipeline.ErrUnknownStage))
	})

	It("builds every table and image", func() {
		Expect(pipe.Build(context.Background())).To(Succeed())

		Expect(listDir(dataDir, "*.csv")).To(ConsistOf(table.SectorFile, table.MacroFile, table.RatesFile, table.CreditFile))
		Expect(listDir(outputDir, "*.png")).To(ConsistOf(
			render.SectorsImage, render.MacroImage,
			render.RatesCurveImage, render.Rates10YImage, render.RatesSpreadDEImage, render.RatesSpreadUSImage, render.RatesDashboardImage,
			render.CreditEURHYImage, render.CreditUSHYImage, render.CreditUSIGImage, render.CreditEMHYImage, render.CreditDashboardImage,
		))
		Expect(loader.calls).To(Equal([]string{"SP 500", "Stoxx 600", "Changes", "Rates", "Credit"}))
	})

	It("writes the sector table in universe order", func() {
		stage, err := pipe.Stage(pipeline.DataSectors)
		Expect(err).To(BeNil())
		Expect(pipe.Run(context.Background(), stage)).To(Succeed())

		rows, err := table.ReadSectors(filepath.Join(dataDir, table.SectorFile))
		Expect(err).To(BeNil())
		Expect(rows).To(HaveLen(3))
		Expect(rows[0].Universe).To(Equal("SP 500"))
		Expect(rows[0].Label).To(Equal("Energy"))
		Expect(rows[2].Universe).To(Equal("Stoxx 600"))
		Expect(rows[0].Level).To(BeNumerically(">", 100))
		Expect(rows[0].Perf5D).To(BeNumerically(">", 0))
		Expect(rows[0].PerfYTD).To(BeNumerically(">", rows[0].Perf3M))
	})

	It("fails a visu stage when its table is missing", func() {
		stage, err := pipe.Stage(pipeline.VisuSectors)
		Expect(err).To(BeNil())

		err = pipe.Run(context.Background(), stage)
		Expect(err).To(MatchError(table.ErrMissingTable))
		Expect(err.Error()).To(ContainSubstring("marketdash data sectors"))
	})

	It("stops the build at the first failing stage", func() {
		loader.failures["Changes"] = data.ErrRateLimited

		err := pipe.Build(context.Background())
		Expect(err).To(MatchError(data.ErrRateLimited))
		Expect(err.Error()).To(HavePrefix("data macro"))

		Expect(listDir(dataDir, "*.csv")).To(ConsistOf(table.SectorFile))
		Expect(listDir(outputDir, "*.png")).To(BeEmpty())
		Expect(loader.calls).To(Equal([]string{"SP 500", "Stoxx 600", "Changes"}))
	})

	It("does not write a rates table without data", func() {
		loader.empty["Rates"] = true

		stage, err := pipe.Stage(pipeline.DataRates)
		Expect(err).To(BeNil())
		Expect(pipe.Run(context.Background(), stage)).To(Succeed())
		Expect(listDir(dataDir, "*.csv")).To(BeEmpty())

		stage, err = pipe.Stage(pipeline.VisuRates)
		Expect(err).To(BeNil())
		err = pipe.Run(context.Background(), stage)
		Expect(errors.Is(err, table.ErrMissingTable)).To(BeTrue())
	})

	It("writes undefined values for empty series", func() {
		loader.empty["Changes"] = true

		stage, err := pipe.Stage(pipeline.DataMacro)
		Expect(err).To(BeNil())
		Expect(pipe.Run(context.Background(), stage)).To(Succeed())

		rows, err := table.ReadMacro(filepath.Join(dataDir, table.MacroFile))
		Expect(err).To(BeNil())
		Expect(rows).To(HaveLen(1))
		Expect(math.IsNaN(rows[0].Level)).To(BeTrue())

		stage, err = pipe.Stage(pipeline.VisuMacro)
		Expect(err).To(BeNil())
		Expect(pipe.Run(context.Background(), stage)).To(Succeed())
	})

	Describe("Clean", func() {
		It("removes tables and images only", func() {
			Expect(os.MkdirAll(dataDir, 0o755)).To(Succeed())
			Expect(os.MkdirAll(outputDir, 0o755)).To(Succeed())
			Expect(os.WriteFile(filepath.Join(dataDir, table.SectorFile), []byte("x"), 0o644)).To(Succeed())
			Expect(os.WriteFile(filepath.Join(dataDir, "notes.txt"), []byte("x"), 0o644)).To(Succeed())
			Expect(os.WriteFile(filepath.Join(outputDir, render.MacroImage), []byte("x"), 0o644)).To(Succeed())

			removed, err := pipeline.Clean(dataDir, outputDir)
			Expect(err).To(BeNil())
			Expect(removed).To(HaveLen(2))
			Expect(filepath.Join(dataDir, "notes.txt")).To(BeAnExistingFile())
		})

		It("accepts missing directories", func() {
			removed, err := pipeline.Clean(dataDir, outputDir)
			Expect(err).To(BeNil())
			Expect(removed).To(BeEmpty())
		})
	})
})
