package model

import (
	"testing"
	"time"
)

func bar(y int, m time.Month, d int, price float64) PriceBar {
	return PriceBar{Date: time.Date(y, m, d, 0, 0, 0, 0, time.UTC), Open: price, High: price, Low: price, Close: price}
}

func TestNewPriceSeries_Validation(t *testing.T) {
	ok := []PriceBar{bar(2020, 1, 2, 100), bar(2020, 1, 3, 101), bar(2020, 1, 6, 102)}
	if _, err := NewPriceSeries("SPY", ok); err != nil {
		t.Fatalf("valid series rejected: %v", err)
	}

	dup := []PriceBar{bar(2020, 1, 2, 100), bar(2020, 1, 2, 101)}
	if _, err := NewPriceSeries("SPY", dup); err == nil {
		t.Error("expected error for duplicate dates")
	}

	unordered := []PriceBar{bar(2020, 1, 3, 100), bar(2020, 1, 2, 101)}
	if _, err := NewPriceSeries("SPY", unordered); err == nil {
		t.Error("expected error for descending dates")
	}

	zero := []PriceBar{bar(2020, 1, 2, 100), bar(2020, 1, 3, 0)}
	if _, err := NewPriceSeries("SPY", zero); err == nil {
		t.Error("expected error for non-positive price")
	}
}

func TestPriceSeries_IndexOf(t *testing.T) {
	s, err := NewPriceSeries("SPY", []PriceBar{
		bar(2020, 1, 2, 100), bar(2020, 1, 3, 101), bar(2020, 1, 6, 102),
	})
	if err != nil {
		t.Fatal(err)
	}

	if i, ok := s.IndexOf(time.Date(2020, 1, 3, 0, 0, 0, 0, time.UTC)); !ok || i != 1 {
		t.Errorf("IndexOf hit: got (%d, %v), want (1, true)", i, ok)
	}
	// Timestamps within the day resolve to the same trading date.
	if i, ok := s.IndexOf(time.Date(2020, 1, 6, 15, 30, 0, 0, time.UTC)); !ok || i != 2 {
		t.Errorf("IndexOf intraday: got (%d, %v), want (2, true)", i, ok)
	}
	// Weekend between bars: no exact match.
	if _, ok := s.IndexOf(time.Date(2020, 1, 4, 0, 0, 0, 0, time.UTC)); ok {
		t.Error("IndexOf should miss an absent date")
	}
}

func TestPriceSeries_SearchDate(t *testing.T) {
	s, err := NewPriceSeries("SPY", []PriceBar{
		bar(2020, 1, 2, 100), bar(2020, 1, 3, 101), bar(2020, 1, 6, 102),
	})
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		target time.Time
		want   int
	}{
		{time.Date(2019, 12, 30, 0, 0, 0, 0, time.UTC), 0}, // before start
		{time.Date(2020, 1, 3, 0, 0, 0, 0, time.UTC), 1},   // exact
		{time.Date(2020, 1, 4, 0, 0, 0, 0, time.UTC), 2},   // gap rolls forward
		{time.Date(2020, 1, 7, 0, 0, 0, 0, time.UTC), 3},   // past the end
	}
	for _, tt := range tests {
		if got := s.SearchDate(tt.target); got != tt.want {
			t.Errorf("SearchDate(%s) = %d, want %d", tt.target.Format("2006-01-02"), got, tt.want)
		}
	}
}
