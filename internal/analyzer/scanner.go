package analyzer

import (
	"fmt"
	"time"

	"FwdProjector/internal/model"
)

// DefaultReserveTail is roughly one trading year. Excluding that many trailing
// entries from matching guarantees every match has enough room for a 12-month
// forward horizon to possibly resolve.
const DefaultReserveTail = 252

// Scan slides across the series and returns the dates where cond held,
// ascending. The final reserveTail entries never match, for either trigger
// kind. An empty result is a valid outcome, not an error.
func Scan(series *model.PriceSeries, cond model.TriggerCondition, reserveTail int) ([]time.Time, error) {
	if err := cond.Validate(); err != nil {
		return nil, err
	}
	if reserveTail < 0 {
		return nil, fmt.Errorf("reserve tail must be non-negative, got %d", reserveTail)
	}
	switch cond.Kind {
	case model.TriggerCumulativeMove:
		return scanCumulativeMove(series, cond, reserveTail), nil
	default:
		return scanOpenCloseReversal(series, cond, reserveTail), nil
	}
}

// scanCumulativeMove matches windows whose close-to-close cumulative return
// crosses the threshold in the threshold's direction. Windows overlap freely:
// a long decline produces many adjacent matches, recorded at each window's
// end date.
func scanCumulativeMove(series *model.PriceSeries, cond model.TriggerCondition, reserveTail int) []time.Time {
	bars := series.Bars
	var matches []time.Time
	end := len(bars) - cond.WindowDays - reserveTail
	for i := 0; i < end; i++ {
		cum := (bars[i+cond.WindowDays].Close/bars[i].Close - 1) * 100
		matched := false
		if cond.ThresholdPct < 0 {
			matched = cum <= cond.ThresholdPct
		} else {
			matched = cum >= cond.ThresholdPct
		}
		if matched {
			matches = append(matches, bars[i+cond.WindowDays].Date)
		}
	}
	return matches
}

// scanOpenCloseReversal matches single days that gapped up at the open and
// closed below that open by the configured amounts.
func scanOpenCloseReversal(series *model.PriceSeries, cond model.TriggerCondition, reserveTail int) []time.Time {
	bars := series.Bars
	var matches []time.Time
	end := len(bars) - reserveTail
	for i := 1; i < end; i++ {
		openChange := (bars[i].Open - bars[i-1].Close) / bars[i-1].Close * 100
		closeChange := (bars[i].Close - bars[i].Open) / bars[i].Open * 100
		if openChange >= cond.OpenUpPct && closeChange <= -cond.CloseDownPct {
			matches = append(matches, bars[i].Date)
		}
	}
	return matches
}
