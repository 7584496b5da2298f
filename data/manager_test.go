package data_test

import (
	"context"
	"fmt"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/penny-vault/marketdash/data"
	"github.com/penny-vault/marketdash/dataframe"
	"github.com/penny-vault/marketdash/universe"
)

// stubProvider serves canned series and counts requests per symbol
type stubProvider struct {
	name   string
	series map[string]*dataframe.DataFrame
	errs   map[string]error
	calls  map[string]int
}

func newStubProvider(name string) *stubProvider {
	return &stubProvider{
		name:   name,
		series: make(map[string]*dataframe.DataFrame),
		errs:   make(map[string]error),
		calls:  make(map[string]int),
	}
}

func (s *stubProvider) Name() string {
	return s.name
}

func (s *stubProvider) Series(ctx context.Context, symbol string, begin, end time.Time) (*dataframe.DataFrame, error) {
	s.calls[symbol]++
	if err, ok := s.errs[symbol]; ok {
		return nil, err
	}
	if df, ok := s.series[symbol]; ok {
		return df, nil
	}
	return dataframe.Empty(symbol), nil
}

var _ = Describe("Manager", func() {
	var (
		manager *data.Manager
		stub    *stubProvider
		now     time.Time
		sectors *universe.Universe
	)

	BeforeEach(func() {
		manager = data.NewManager(data.NewClient(data.ClientOptions{}), data.Credentials{}, 0)
		stub = newStubProvider(data.SourceYahoo)
		manager.Register(stub)

		xlk, err := dataframe.New("XLK", []time.Time{day(2024, 1, 2), day(2024, 1, 3)}, []float64{200, 202})
		Expect(err).To(BeNil())
		stub.series["XLK"] = xlk

		xlu, err := dataframe.New("XLU", []time.Time{day(2024, 1, 2), day(2024, 1, 3)}, []float64{60, 59})
		Expect(err).To(BeNil())
		stub.series["XLU"] = xlu

		now = day(2024, 1, 5)
		sectors = &universe.Universe{
			Name:        "SP 500",
			Table:       universe.Sectors,
			Source:      data.SourceYahoo,
			HistoryDays: 30,
			Instruments: []universe.Instrument{
				{Label: "Information Technology", Symbol: "XLK"},
				{Label: "Utilities", Symbol: "XLU"},
			},
		}
	})

	Describe("Series", func() {
		It("fetches a symbol once for the same range", func() {
			for ii := 0; ii < 3; ii++ {
				df, err := manager.Series(context.Background(), data.SourceYahoo, "XLK", day(2024, 1, 1), now)
				Expect(err).To(BeNil())
				Expect(df.Len()).To(Equal(2))
			}
			Expect(stub.calls["XLK"]).To(Equal(1))
		})

		It("fetches again when the range changes", func() {
			_, err := manager.Series(context.Background(), data.SourceYahoo, "XLK", day(2024, 1, 1), now)
			Expect(err).To(BeNil())
			_, err = manager.Series(context.Background(), data.SourceYahoo, "XLK", day(2023, 1, 1), now)
			Expect(err).To(BeNil())
			Expect(stub.calls["XLK"]).To(Equal(2))
		})

		It("rejects unknown sources", func() {
			_, err := manager.Series(context.Background(), "bloomberg", "XLK", day(2024, 1, 1), now)
			Expect(err).To(MatchError(data.ErrUnknownSource))
		})
	})

	Describe("Require", func() {
		It("accepts sources without a credential", func() {
			Expect(manager.Require(data.SourceYahoo)).To(Succeed())
			Expect(manager.Require(data.SourceTradingEconomics)).To(Succeed())
		})

		It("reports missing credentials", func() {
			Expect(manager.Require(data.SourceFred)).To(MatchError(data.ErrMissingAPIKey))
			Expect(manager.Require(data.SourceTiingo)).To(MatchError(data.ErrMissingAPIKey))
		})

		It("passes once the credential is configured", func() {
			withKeys := data.NewManager(data.NewClient(data.ClientOptions{}), data.Credentials{Fred: "TEST", Tiingo: "TEST"}, 0)
			Expect(withKeys.Require(data.SourceFred)).To(Succeed())
			Expect(withKeys.Require(data.SourceTiingo)).To(Succeed())
		})
	})

	Describe("Universe", func() {
		It("names each series by its instrument label", func() {
			res, err := manager.Universe(context.Background(), sectors, now)
			Expect(err).To(BeNil())
			Expect(res).To(HaveLen(2))
			Expect(res).To(HaveKey("Information Technology"))
			Expect(res["Information Technology"].ColNames).To(Equal([]string{"Information Technology"}))
			Expect(res["Utilities"].Vals[0]).To(Equal([]float64{60, 59}))
		})

		It("skips instruments that fail", func() {
			stub.errs["XLU"] = data.ErrInvalidStatus

			res, err := manager.Universe(context.Background(), sectors, now)
			Expect(err).To(BeNil())
			Expect(res).To(HaveLen(1))
			Expect(res).ToNot(HaveKey("Utilities"))
		})

		It("keeps instruments that return no rows", func() {
			sectors.Instruments = append(sectors.Instruments, universe.Instrument{Label: "Energy", Symbol: "XLE"})

			res, err := manager.Universe(context.Background(), sectors, now)
			Expect(err).To(BeNil())
			Expect(res).To(HaveKey("Energy"))
			Expect(res["Energy"].Len()).To(Equal(0))
		})

		It("aborts when rate limited", func() {
			stub.errs["XLK"] = fmt.Errorf("%w: https://example.com", data.ErrRateLimited)

			_, err := manager.Universe(context.Background(), sectors, now)
			Expect(err).To(MatchError(data.ErrRateLimited))
			Expect(stub.calls["XLU"]).To(Equal(0))
		})

		It("aborts when the context is cancelled", func() {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			stub.errs["XLK"] = context.Canceled

			_, err := manager.Universe(ctx, sectors, now)
			Expect(err).To(MatchError(context.Canceled))
		})

		It("fails before fetching when a credential is missing", func() {
			sectors.Source = data.SourceFred

			_, err := manager.Universe(context.Background(), sectors, now)
			Expect(err).To(MatchError(data.ErrMissingAPIKey))
		})
	})
})
