package render_test

import (
	"image"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/penny-vault/marketdash/dataframe"
	"github.com/penny-vault/marketdash/performance"
	"github.com/penny-vault/marketdash/render"
	"github.com/penny-vault/marketdash/table"
)

func decodePNG(path string) image.Image {
	fh, err := os.Open(path)
	Expect(err).To(BeNil())
	defer fh.Close()

	img, err := png.Decode(fh)
	Expect(err).To(BeNil())
	return img
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func undefinedRow(universe, label string) performance.Row {
	return performance.Row{
		Universe: universe,
		Label:    label,
		Level:    math.NaN(),
		Perf5D:   math.NaN(),
		Perf1M:   math.NaN(),
		Perf3M:   math.NaN(),
		PerfYTD:  math.NaN(),
	}
}

var _ = Describe("Render", func() {
	var dir string

	BeforeEach(func() {
		var err error
		dir, err = os.MkdirTemp("", "marketdash-render")
		Expect(err).To(BeNil())
		DeferCleanup(os.RemoveAll, dir)
	})

	Describe("sector panels", func() {
		It("renders an all undefined table", func() {
			rows := []performance.Row{
				undefinedRow("SP 500", "Energy"),
				undefinedRow("SP 500", "Utilities"),
				undefinedRow("Stoxx 600", "Banks"),
			}

			path, err := render.SectorPanels(rows, dir)
			Expect(err).To(BeNil())
			Expect(path).To(Equal(filepath.Join(dir, render.SectorsImage)))
			Expect(decodePNG(path).Bounds().Dx()).To(Equal(1082))
		})

		It("grows to fit long panels", func() {
			rows := make([]performance.Row, 0, 30)
			for ii := 0; ii < 30; ii++ {
				rows = append(rows, performance.Row{
					Universe: "Stoxx 600", Label: "Sector", Level: 10,
					Perf5D: float64(ii) - 15, Perf1M: 20, Perf3M: -20, PerfYTD: 1,
				})
			}

			path, err := render.SectorPanels(rows, dir)
			Expect(err).To(BeNil())
			Expect(decodePNG(path).Bounds().Dy()).To(BeNumerically(">", 560))
		})

		It("renders an empty table", func() {
			path, err := render.SectorPanels(nil, dir)
			Expect(err).To(BeNil())
			Expect(decodePNG(path).Bounds().Dx()).To(Equal(1082))
		})
	})

	Describe("macro dashboard", func() {
		It("renders groups with defined and undefined values", func() {
			rows := []table.MacroRow{
				{Group: "Actions Monde", Label: "MSCI WORLD", Level: 3456.78, LastWeek: 0.5, PerfYTD: 7.5},
				{Group: "Actions Monde", Label: "Vix Index", Level: 14.2, LastWeek: -3.1, PerfYTD: -12},
				{Group: "Changes", Label: "EUR/USD", Level: math.NaN(), LastWeek: math.NaN(), PerfYTD: math.NaN()},
			}

			path, err := render.MacroDashboard(rows, dir)
			Expect(err).To(BeNil())
			Expect(path).To(Equal(filepath.Join(dir, render.MacroImage)))
			decodePNG(path)
		})

		It("renders an all undefined table", func() {
			rows := []table.MacroRow{
				{Group: "Taux", Label: "US 10 Y", Level: math.NaN(), LastWeek: math.NaN(), PerfYTD: math.NaN()},
			}

			path, err := render.MacroDashboard(rows, dir)
			Expect(err).To(BeNil())
			decodePNG(path)
		})
	})

	Describe("weekly resampling", func() {
		It("keeps the last value of each week from the start date", func() {
			df := dataframe.Empty("US_10Y", "Bund_10Y")
			df.InsertRow(day(2020, 9, 30), 0.6, -0.5)
			df.InsertRow(day(2020, 10, 5), 0.7, -0.5)
			df.InsertRow(day(2020, 10, 7), 0.8, math.NaN())
			df.InsertRow(day(2020, 10, 9), math.NaN(), -0.6)
			df.InsertRow(day(2020, 10, 12), 0.9, -0.55)

			weekly, err := render.Weekly(df, render.DefaultChartStart)
			Expect(err).To(BeNil())
			Expect(weekly.Dates).To(Equal([]time.Time{day(2020, 10, 9), day(2020, 10, 16)}))
			Expect(weekly.Vals[0]).To(Equal([]float64{0.8, 0.9}))
			Expect(weekly.Vals[1]).To(Equal([]float64{-0.6, -0.55}))
		})
	})

	Describe("rates charts", func() {
		It("writes every chart and the dashboard", func() {
			df := dataframe.Empty("US_2Y", "US_10Y", "Bund_10Y", "OAT_10Y")
			df.InsertRow(day(2024, 1, 5), 4.38, 4.05, 2.16, 2.71)
			df.InsertRow(day(2024, 1, 12), 4.14, 3.94, 2.22, 2.77)
			df.InsertRow(day(2024, 1, 19), 4.39, 4.15, 2.34, 2.87)

			paths, err := render.RatesCharts(df, dir)
			Expect(err).To(BeNil())
			Expect(paths).To(HaveLen(5))
			Expect(paths[len(paths)-1]).To(Equal(filepath.Join(dir, render.RatesDashboardImage)))
			for _, path := range paths {
				decodePNG(path)
			}
		})

		It("tolerates missing columns", func() {
			df := dataframe.Empty("US_10Y")
			df.InsertRow(day(2024, 1, 5), 4.05)

			paths, err := render.RatesCharts(df, dir)
			Expect(err).To(BeNil())
			Expect(paths).To(HaveLen(5))
		})
	})

	Describe("credit charts", func() {
		It("writes every chart and the dashboard", func() {
			df := dataframe.Empty("US_IG_OAS", "US_HY_OAS", "EU_HY_OAS", "EM_HY_OAS")
			df.InsertRow(day(2024, 1, 5), 1.01, 3.39, 3.95, math.NaN())
			df.InsertRow(day(2024, 1, 12), 1.0, 3.44, 3.9, 5.1)

			paths, err := render.CreditCharts(df, dir)
			Expect(err).To(BeNil())
			Expect(paths).To(ConsistOf(
				filepath.Join(dir, render.CreditEURHYImage),
				filepath.Join(dir, render.CreditUSHYImage),
				filepath.Join(dir, render.CreditUSIGImage),
				filepath.Join(dir, render.CreditEMHYImage),
				filepath.Join(dir, render.CreditDashboardImage),
			))
			for _, path := range paths {
				decodePNG(path)
			}
		})
	})
})
