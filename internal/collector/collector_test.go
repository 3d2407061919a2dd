package collector

import (
	"errors"
	"testing"
	"time"

	"FwdProjector/internal/model"
)

func TestClean(t *testing.T) {
	d := func(day int) time.Time { return time.Date(2020, 1, day, 0, 0, 0, 0, time.UTC) }
	raw := []model.PriceBar{
		{Date: d(3), Open: 101, Close: 101},
		{Date: d(2), Open: 100, Close: 100},
		{Date: d(2), Open: 999, Close: 999}, // duplicate date, first wins after sort
		{Date: d(4), Open: 0, Close: 102},   // null open dropped
		{Date: d(5), Open: 103, Close: 103},
	}
	cleaned := Clean(raw)
	if len(cleaned) != 3 {
		t.Fatalf("expected 3 bars, got %d", len(cleaned))
	}
	if !cleaned[0].Date.Equal(d(2)) || cleaned[0].Open != 100 {
		t.Errorf("first bar %v, want 2020-01-02 open=100", cleaned[0])
	}
	if !cleaned[1].Date.Equal(d(3)) || !cleaned[2].Date.Equal(d(5)) {
		t.Errorf("unexpected order: %v", cleaned)
	}
}

type fakeCache struct {
	bars      []model.PriceBar
	fetchedAt time.Time
	saved     [][]model.PriceBar
}

func (c *fakeCache) LoadDailyBars(string) ([]model.PriceBar, time.Time, error) {
	return c.bars, c.fetchedAt, nil
}

func (c *fakeCache) SaveDailyBars(_ string, bars []model.PriceBar) error {
	c.saved = append(c.saved, bars)
	return nil
}

func TestLoadSeries_StaleCacheFallback(t *testing.T) {
	start := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	cache := &fakeCache{
		bars:      GenerateBars(100, 10, start),
		fetchedAt: time.Now().Add(-72 * time.Hour), // stale, forces a fetch attempt
	}
	col := NewCollector(&MockFetcher{Err: errors.New("network down")}, cache, time.Hour)

	series, err := col.LoadSeries("SPY", start, false)
	if err != nil {
		t.Fatalf("expected stale-cache fallback, got error: %v", err)
	}
	if series.Len() != 10 {
		t.Errorf("series length %d, want 10", series.Len())
	}
}

func TestLoadSeries_FetchPopulatesCache(t *testing.T) {
	start := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	cache := &fakeCache{}
	col := NewCollector(&MockFetcher{}, cache, time.Hour)

	series, err := col.LoadSeries("SPY", start, false)
	if err != nil {
		t.Fatalf("load series: %v", err)
	}
	if series.Len() == 0 {
		t.Fatal("expected bars from the mock fetcher")
	}
	if len(cache.saved) != 1 {
		t.Errorf("expected one cache write, got %d", len(cache.saved))
	}
}
