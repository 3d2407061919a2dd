package analyzer

import (
	"time"

	"FwdProjector/internal/model"
)

// HorizonResolution selects how a month horizon maps onto the series.
// A run uses exactly one resolution; the two are never mixed.
type HorizonResolution string

const (
	// ResolutionTradingDays counts TradingDaysPerMonth entries per month.
	ResolutionTradingDays HorizonResolution = "trading_days"
	// ResolutionCalendarMonths adds calendar months to the match date and
	// takes the first trading day at or after the target.
	ResolutionCalendarMonths HorizonResolution = "calendar_months"
)

// TradingDaysPerMonth is a deliberate approximation, not a calendar computation.
const TradingDaysPerMonth = 21

// ForwardReturns computes, for each match date, the percent price change from
// that date's close to the close at each horizon. Horizons that run past the
// series are left out of the row's map. Match dates absent from the series are
// skipped defensively. Rows where no horizon resolved are dropped unless
// keepEmptyRows is set.
func ForwardReturns(series *model.PriceSeries, matches []time.Time, horizons []int, res HorizonResolution, keepEmptyRows bool) []model.ForwardReturnRow {
	rows := make([]model.ForwardReturnRow, 0, len(matches))
	for _, d := range matches {
		idx, ok := series.IndexOf(d)
		if !ok {
			continue
		}
		priceNow := series.Bars[idx].Close
		row := model.ForwardReturnRow{
			Date:    series.Bars[idx].Date,
			Returns: make(map[int]float64, len(horizons)),
		}
		for _, m := range horizons {
			future, ok := resolveHorizon(series, idx, m, res)
			if !ok {
				continue
			}
			row.Returns[m] = (series.Bars[future].Close/priceNow - 1) * 100
		}
		if len(row.Returns) == 0 && !keepEmptyRows {
			continue
		}
		rows = append(rows, row)
	}
	return rows
}

// resolveHorizon maps (match index, months) to a future bar index, reporting
// whether the horizon resolves within the series. Calendar resolution never
// falls back to an earlier date: nothing at or after the target means
// unavailable.
func resolveHorizon(series *model.PriceSeries, idx, months int, res HorizonResolution) (int, bool) {
	switch res {
	case ResolutionCalendarMonths:
		target := series.Bars[idx].Date.AddDate(0, months, 0)
		i := series.SearchDate(target)
		if i >= series.Len() {
			return 0, false
		}
		return i, true
	default:
		i := idx + TradingDaysPerMonth*months
		if i >= series.Len() {
			return 0, false
		}
		return i, true
	}
}
