package analyzer

import (
	"bytes"
	"reflect"
	"testing"

	"FwdProjector/internal/exporter"
	"FwdProjector/internal/model"
)

// Scenario: the full pipeline over 300 constant days with one 3-day 10% drop.
// One match, and 0% forward return at every horizon that resolves in range.
func TestRun_SingleDropPipeline(t *testing.T) {
	closes := constant(300, 100)
	closes[31] = 96
	closes[32] = 93
	for i := 33; i < 300; i++ {
		closes[i] = 90
	}
	series := dailySeries(t, closes)

	res, err := Run(series, Params{
		Condition: model.TriggerCondition{Kind: model.TriggerCumulativeMove, WindowDays: 3, ThresholdPct: -8},
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if res.NoMatches() {
		t.Fatal("expected a match")
	}
	if len(res.Rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(res.Rows))
	}
	for _, m := range DefaultHorizons {
		v, ok := res.Rows[0].Return(m)
		if !ok {
			if 33+TradingDaysPerMonth*m < series.Len() {
				t.Errorf("%dM: should resolve in range", m)
			}
			continue
		}
		if v != 0 {
			t.Errorf("%dM: forward return %.4f, want 0 (price constant after drop)", m, v)
		}
	}
}

// Running the whole pipeline twice over identical inputs yields byte-identical
// rendered output.
func TestRun_Idempotent(t *testing.T) {
	closes := constant(400, 100)
	for i := 40; i < 50; i++ {
		closes[i] = closes[i-1] * 0.97
	}
	for i := 50; i < 400; i++ {
		closes[i] = closes[49] * (1 + float64(i%7)*0.001)
	}
	series := dailySeries(t, closes)
	params := Params{
		Condition: model.TriggerCondition{Kind: model.TriggerCumulativeMove, WindowDays: 2, ThresholdPct: -5},
	}

	render := func() ([]byte, *Result) {
		res, err := Run(series, params)
		if err != nil {
			t.Fatalf("run: %v", err)
		}
		var buf bytes.Buffer
		if err := exporter.WriteRows(&buf, res.Rows, res.Params.Horizons); err != nil {
			t.Fatalf("write rows: %v", err)
		}
		return buf.Bytes(), res
	}

	first, res1 := render()
	second, res2 := render()
	if !bytes.Equal(first, second) {
		t.Error("rendered CSV differs between identical runs")
	}
	if !reflect.DeepEqual(res1.Summary, res2.Summary) {
		t.Error("summary stats differ between identical runs")
	}
	if res1.NoMatches() {
		t.Fatal("fixture should produce matches")
	}
}

func TestRun_NoMatchesOutcome(t *testing.T) {
	series := dailySeries(t, constant(300, 100))
	res, err := Run(series, Params{
		Condition: model.TriggerCondition{Kind: model.TriggerCumulativeMove, WindowDays: 2, ThresholdPct: -6},
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !res.NoMatches() {
		t.Errorf("expected the distinct no-matches outcome, got %d matches", len(res.Matches))
	}
	if len(res.Summary) != len(DefaultHorizons) {
		t.Errorf("summary should still cover all horizons, got %d", len(res.Summary))
	}
	for _, st := range res.Summary {
		if st.HasSamples() {
			t.Errorf("%dM: expected unavailable stats with no matches", st.Months)
		}
	}
}

func TestParams_Validate(t *testing.T) {
	good := Params{
		Condition: model.TriggerCondition{Kind: model.TriggerCumulativeMove, WindowDays: 2, ThresholdPct: -6},
	}.WithDefaults()
	if err := good.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
	if good.ReserveTail != DefaultReserveTail || good.Resolution != ResolutionTradingDays {
		t.Errorf("unexpected defaults: %+v", good)
	}

	bad := good
	bad.Horizons = []int{3, 1}
	if err := bad.Validate(); err == nil {
		t.Error("expected error for unordered horizons")
	}
	bad = good
	bad.Horizons = []int{0, 1}
	if err := bad.Validate(); err == nil {
		t.Error("expected error for non-positive horizon")
	}
	bad = good
	bad.Resolution = "weeks"
	if err := bad.Validate(); err == nil {
		t.Error("expected error for unknown resolution")
	}
}
