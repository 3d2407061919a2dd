package recorder

import (
	"time"

	"FwdProjector/internal/analyzer"
	"FwdProjector/internal/model"
)

// RunStat is one horizon's aggregate within a recorded run.
type RunStat struct {
	Months int
	Count  int
	Mean   float64
	Median float64
	StdDev float64
	Min    float64
	Max    float64
}

// RunRecord captures one completed analysis run for the history tables.
type RunRecord struct {
	Symbol      string
	Trigger     string
	Resolution  string
	ReserveTail int
	MatchCount  int
	Stats       []RunStat
}

// NewRunRecord flattens an analysis result into its recordable form.
func NewRunRecord(res *analyzer.Result) *RunRecord {
	rec := &RunRecord{
		Symbol:      res.Symbol,
		Trigger:     res.Params.Condition.Describe(),
		Resolution:  string(res.Params.Resolution),
		ReserveTail: res.Params.ReserveTail,
		MatchCount:  len(res.Matches),
	}
	for _, st := range res.Summary {
		rec.Stats = append(rec.Stats, RunStat{
			Months: st.Months, Count: st.Count,
			Mean: st.Mean, Median: st.Median, StdDev: st.StdDev,
			Min: st.Min, Max: st.Max,
		})
	}
	return rec
}

// Recorder persists fetched bars and analysis history. The bar methods also
// satisfy collector.BarCache.
type Recorder interface {
	SaveDailyBars(symbol string, bars []model.PriceBar) error
	LoadDailyBars(symbol string) ([]model.PriceBar, time.Time, error)
	RecordRun(rec *RunRecord) error
	Close() error
}
