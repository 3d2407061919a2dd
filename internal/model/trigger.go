package model

import "fmt"

// TriggerKind tags which price pattern a condition describes.
type TriggerKind string

const (
	TriggerCumulativeMove    TriggerKind = "CUMULATIVE_MOVE"
	TriggerOpenCloseReversal TriggerKind = "OPEN_CLOSE_REVERSAL"
)

// TriggerCondition is a predicate over a price window identifying a historical
// pattern of interest. Kind selects which field group applies.
type TriggerCondition struct {
	Kind TriggerKind `json:"kind"`

	// CUMULATIVE_MOVE: close-to-close move over WindowDays trading days
	// crossing ThresholdPct (negative threshold means "at or below").
	WindowDays   int     `json:"window_days,omitempty"`
	ThresholdPct float64 `json:"threshold_pct,omitempty"`

	// OPEN_CLOSE_REVERSAL: open gapped up at least OpenUpPct over the prior
	// close AND the close fell at least CloseDownPct below that day's open.
	OpenUpPct    float64 `json:"open_up_pct,omitempty"`
	CloseDownPct float64 `json:"close_down_pct,omitempty"`
}

// Validate checks the field group selected by Kind.
func (c TriggerCondition) Validate() error {
	switch c.Kind {
	case TriggerCumulativeMove:
		if c.WindowDays < 1 {
			return fmt.Errorf("cumulative move: window must be at least 1 day, got %d", c.WindowDays)
		}
	case TriggerOpenCloseReversal:
		if c.OpenUpPct < 0 || c.CloseDownPct < 0 {
			return fmt.Errorf("open/close reversal: thresholds must be non-negative, got %.2f / %.2f", c.OpenUpPct, c.CloseDownPct)
		}
	default:
		return fmt.Errorf("unknown trigger kind %q", c.Kind)
	}
	return nil
}

// Describe renders a short human-readable description for reports and run records.
func (c TriggerCondition) Describe() string {
	switch c.Kind {
	case TriggerCumulativeMove:
		return fmt.Sprintf("%+.1f%% move in %d days", c.ThresholdPct, c.WindowDays)
	case TriggerOpenCloseReversal:
		return fmt.Sprintf("open up >=%.1f%%, close down >=%.1f%%", c.OpenUpPct, c.CloseDownPct)
	default:
		return string(c.Kind)
	}
}
