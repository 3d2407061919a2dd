package analyzer

import (
	"errors"
	"fmt"
	"time"

	"FwdProjector/internal/model"
)

// DefaultHorizons are the forward horizons, in months, used when none are configured.
var DefaultHorizons = []int{1, 3, 6, 12}

// Params configures one analysis run.
type Params struct {
	Condition   model.TriggerCondition `json:"condition"`
	Horizons    []int                  `json:"horizons,omitempty"`
	ReserveTail int                    `json:"reserve_tail,omitempty"`
	Resolution  HorizonResolution      `json:"resolution,omitempty"`
	// KeepEmptyRows retains match rows where no horizon resolved. Default is
	// to drop them (the valid_row gate).
	KeepEmptyRows bool `json:"keep_empty_rows,omitempty"`
}

// WithDefaults fills unset fields. A zero ReserveTail is treated as unset;
// callers needing a literal zero use Scan directly.
func (p Params) WithDefaults() Params {
	if len(p.Horizons) == 0 {
		p.Horizons = append([]int(nil), DefaultHorizons...)
	}
	if p.ReserveTail == 0 {
		p.ReserveTail = DefaultReserveTail
	}
	if p.Resolution == "" {
		p.Resolution = ResolutionTradingDays
	}
	return p
}

// Validate checks the condition and horizon set.
func (p Params) Validate() error {
	if err := p.Condition.Validate(); err != nil {
		return err
	}
	if len(p.Horizons) == 0 {
		return errors.New("at least one horizon is required")
	}
	prev := 0
	for _, m := range p.Horizons {
		if m <= prev {
			return fmt.Errorf("horizons must be positive and ascending, got %v", p.Horizons)
		}
		prev = m
	}
	if p.ReserveTail < 0 {
		return fmt.Errorf("reserve tail must be non-negative, got %d", p.ReserveTail)
	}
	if p.Resolution != ResolutionTradingDays && p.Resolution != ResolutionCalendarMonths {
		return fmt.Errorf("unknown horizon resolution %q", p.Resolution)
	}
	return nil
}

// Result is the full output of one analysis run. All fields are derived,
// transient values rebuilt from scratch every run.
type Result struct {
	Symbol  string
	Params  Params
	Matches []time.Time
	Rows    []model.ForwardReturnRow
	Summary []model.HorizonStats
}

// NoMatches reports the distinct empty outcome: the scan succeeded and the
// condition never held.
func (r *Result) NoMatches() bool { return len(r.Matches) == 0 }

// Run executes scan, forward-return calculation and aggregation over one
// immutable series. Identical inputs produce identical results.
func Run(series *model.PriceSeries, p Params) (*Result, error) {
	p = p.WithDefaults()
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("analysis params: %w", err)
	}
	matches, err := Scan(series, p.Condition, p.ReserveTail)
	if err != nil {
		return nil, err
	}
	rows := ForwardReturns(series, matches, p.Horizons, p.Resolution, p.KeepEmptyRows)
	return &Result{
		Symbol:  series.Symbol,
		Params:  p,
		Matches: matches,
		Rows:    rows,
		Summary: Summarize(rows, p.Horizons),
	}, nil
}
