package analyzer

import (
	"math"
	"testing"
	"time"

	"FwdProjector/internal/model"
)

func TestForwardReturns_TradingDayFormula(t *testing.T) {
	closes := make([]float64, 120)
	for i := range closes {
		closes[i] = 100 + float64(i) // strictly rising so every return is distinct
	}
	series := dailySeries(t, closes)
	match := series.Bars[10].Date

	rows := ForwardReturns(series, []time.Time{match}, []int{1, 3}, ResolutionTradingDays, false)
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}

	for _, m := range []int{1, 3} {
		got, ok := rows[0].Return(m)
		if !ok {
			t.Fatalf("%dM: expected available return", m)
		}
		want := (closes[10+21*m]/closes[10] - 1) * 100
		if math.Abs(got-want) > 1e-12 {
			t.Errorf("%dM: got %.6f, want %.6f", m, got, want)
		}
	}
}

func TestForwardReturns_OutOfRangeUnavailable(t *testing.T) {
	series := dailySeries(t, constant(30, 100))
	match := series.Bars[5].Date

	rows := ForwardReturns(series, []time.Time{match}, []int{1, 3}, ResolutionTradingDays, false)
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	if _, ok := rows[0].Return(1); !ok {
		t.Error("1M (index 26) should resolve in a 30-bar series")
	}
	if _, ok := rows[0].Return(3); ok {
		t.Error("3M (index 68) should be unavailable in a 30-bar series")
	}
}

// A match date the series does not contain is dropped without a row.
func TestForwardReturns_UnknownDateSkipped(t *testing.T) {
	series := dailySeries(t, constant(60, 100))
	bogus := time.Date(1990, 5, 1, 0, 0, 0, 0, time.UTC)

	rows := ForwardReturns(series, []time.Time{bogus, series.Bars[3].Date}, []int{1}, ResolutionTradingDays, false)
	if len(rows) != 1 {
		t.Fatalf("expected only the known date to produce a row, got %d rows", len(rows))
	}
	if !rows[0].Date.Equal(series.Bars[3].Date) {
		t.Errorf("row date %s, want %s", rows[0].Date, series.Bars[3].Date)
	}
}

// The valid_row gate: all-missing rows are dropped by default, kept on request.
func TestForwardReturns_EmptyRowGate(t *testing.T) {
	series := dailySeries(t, constant(25, 100))
	match := series.Bars[20].Date // only 4 bars of future data

	dropped := ForwardReturns(series, []time.Time{match}, []int{1, 3}, ResolutionTradingDays, false)
	if len(dropped) != 0 {
		t.Errorf("expected all-missing row to be dropped, got %d rows", len(dropped))
	}

	kept := ForwardReturns(series, []time.Time{match}, []int{1, 3}, ResolutionTradingDays, true)
	if len(kept) != 1 {
		t.Fatalf("expected all-missing row to be kept, got %d rows", len(kept))
	}
	if len(kept[0].Returns) != 0 {
		t.Errorf("expected no available horizons, got %v", kept[0].Returns)
	}
}

func TestForwardReturns_CalendarResolution(t *testing.T) {
	day := func(y int, m time.Month, d int) time.Time {
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	}
	dates := []time.Time{
		day(2020, 1, 2), day(2020, 1, 3), day(2020, 1, 31),
		day(2020, 2, 3), day(2020, 2, 28),
	}
	bars := make([]model.PriceBar, len(dates))
	for i, d := range dates {
		p := 100 + float64(i)*10
		bars[i] = model.PriceBar{Date: d, Open: p, High: p, Low: p, Close: p}
	}
	series, err := model.NewPriceSeries("TEST", bars)
	if err != nil {
		t.Fatalf("build series: %v", err)
	}

	// 2020-01-02 + 1M = 2020-02-02, a Sunday with no bar: resolves forward to
	// 2020-02-03, never back to 2020-01-31.
	rows := ForwardReturns(series, []time.Time{dates[0]}, []int{1}, ResolutionCalendarMonths, false)
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	got, ok := rows[0].Return(1)
	if !ok {
		t.Fatal("1M should resolve")
	}
	want := (130.0/100.0 - 1) * 100 // close at 2020-02-03
	if math.Abs(got-want) > 1e-12 {
		t.Errorf("1M calendar return %.4f, want %.4f", got, want)
	}

	// 2020-02-03 + 1M = 2020-03-03: nothing at or after, so unavailable even
	// though 2020-02-28 exists before the target.
	rows = ForwardReturns(series, []time.Time{dates[3]}, []int{1}, ResolutionCalendarMonths, true)
	if len(rows) != 1 {
		t.Fatalf("expected 1 kept row, got %d", len(rows))
	}
	if _, ok := rows[0].Return(1); ok {
		t.Error("1M past the series end should be unavailable")
	}
}
