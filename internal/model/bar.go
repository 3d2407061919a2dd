package model

import (
	"fmt"
	"sort"
	"time"
)

// PriceBar is a single trading day. The analysis core only reads Date, Open
// and Close; High/Low/Volume ride along because every data source returns them.
type PriceBar struct {
	Date   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// Day truncates t to midnight UTC, the granularity all series dates use.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// PriceSeries holds one symbol's daily history. Invariants: dates strictly
// ascending and unique, open/close positive. Read-only after construction.
type PriceSeries struct {
	Symbol    string
	Bars      []PriceBar
	FetchedAt time.Time
}

// NewPriceSeries validates bars and wraps them into a series. Dates are
// normalized to midnight UTC. Non-trading days are simply absent; no gap
// structure is assumed.
func NewPriceSeries(symbol string, bars []PriceBar) (*PriceSeries, error) {
	for i := range bars {
		bars[i].Date = Day(bars[i].Date)
		if bars[i].Open <= 0 || bars[i].Close <= 0 {
			return nil, fmt.Errorf("series %s: non-positive price at %s", symbol, bars[i].Date.Format("2006-01-02"))
		}
		if i > 0 && !bars[i-1].Date.Before(bars[i].Date) {
			return nil, fmt.Errorf("series %s: dates not strictly ascending at %s", symbol, bars[i].Date.Format("2006-01-02"))
		}
	}
	return &PriceSeries{Symbol: symbol, Bars: bars, FetchedAt: time.Now()}, nil
}

func (s *PriceSeries) Len() int { return len(s.Bars) }

// IndexOf returns the position of an exact trading date.
func (s *PriceSeries) IndexOf(date time.Time) (int, bool) {
	d := Day(date)
	i := sort.Search(len(s.Bars), func(i int) bool { return !s.Bars[i].Date.Before(d) })
	if i < len(s.Bars) && s.Bars[i].Date.Equal(d) {
		return i, true
	}
	return 0, false
}

// SearchDate returns the first position whose date is at or after target,
// or Len() when no such bar exists.
func (s *PriceSeries) SearchDate(target time.Time) int {
	d := Day(target)
	return sort.Search(len(s.Bars), func(i int) bool { return !s.Bars[i].Date.Before(d) })
}

// LastDate returns the date of the final bar, zero when the series is empty.
func (s *PriceSeries) LastDate() time.Time {
	if len(s.Bars) == 0 {
		return time.Time{}
	}
	return s.Bars[len(s.Bars)-1].Date
}
