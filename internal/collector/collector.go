package collector

import (
	"fmt"
	"log"
	"sort"
	"time"

	"FwdProjector/internal/model"
)

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Bars map[string][]model.PriceBar
	Err  error
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchDailyHistory(symbol string, start time.Time) ([]model.PriceBar, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if bars, ok := m.Bars[symbol]; ok {
		return bars, nil
	}
	return GenerateBars(100, 300, start), nil
}

// GenerateBars builds count sequential daily bars drifting around basePrice.
func GenerateBars(basePrice float64, count int, start time.Time) []model.PriceBar {
	bars := make([]model.PriceBar, count)
	for i := 0; i < count; i++ {
		p := basePrice * (1 + float64(i-count/2)*0.001)
		bars[i] = model.PriceBar{
			Date:   model.Day(start.AddDate(0, 0, i)),
			Open:   p * 0.999,
			High:   p * 1.005,
			Low:    p * 0.995,
			Close:  p,
			Volume: 1000000,
		}
	}
	return bars
}

// BarCache persists fetched daily bars between runs. Satisfied by the
// SQLite recorder.
type BarCache interface {
	LoadDailyBars(symbol string) ([]model.PriceBar, time.Time, error)
	SaveDailyBars(symbol string, bars []model.PriceBar) error
}

// Collector loads cleaned price series for analysis, preferring a fresh local
// cache over the network and falling back to a stale cache when the fetch
// fails.
type Collector struct {
	Fetcher Fetcher
	Cache   BarCache
	MaxAge  time.Duration
}

// NewCollector creates a new Collector. cache may be nil.
func NewCollector(fetcher Fetcher, cache BarCache, maxAge time.Duration) *Collector {
	return &Collector{Fetcher: fetcher, Cache: cache, MaxAge: maxAge}
}

// LoadSeries produces the validated series for one symbol from start onward.
// forceRefresh bypasses the cache freshness check.
func (c *Collector) LoadSeries(symbol string, start time.Time, forceRefresh bool) (*model.PriceSeries, error) {
	if c.Cache != nil && !forceRefresh {
		bars, fetchedAt, err := c.Cache.LoadDailyBars(symbol)
		if err != nil {
			log.Printf("[WARN] %s: bar cache read failed: %v", symbol, err)
		} else if len(bars) > 0 && time.Since(fetchedAt) < c.MaxAge {
			log.Printf("[INFO] %s: using %d cached bars fetched %s", symbol, len(bars), fetchedAt.Format(time.RFC3339))
			return buildSeries(symbol, bars, fetchedAt, start)
		}
	}

	fetched, err := c.Fetcher.FetchDailyHistory(symbol, start)
	if err != nil {
		if c.Cache != nil {
			if bars, fetchedAt, cerr := c.Cache.LoadDailyBars(symbol); cerr == nil && len(bars) > 0 {
				log.Printf("[WARN] %s: fetch failed (%v), falling back to cache from %s", symbol, err, fetchedAt.Format(time.RFC3339))
				return buildSeries(symbol, bars, fetchedAt, start)
			}
		}
		return nil, fmt.Errorf("fetch %s history: %w", symbol, err)
	}

	cleaned := Clean(fetched)
	if c.Cache != nil {
		if err := c.Cache.SaveDailyBars(symbol, cleaned); err != nil {
			log.Printf("[WARN] %s: bar cache write failed: %v", symbol, err)
		}
	}
	return buildSeries(symbol, cleaned, time.Now(), start)
}

// Clean sorts bars, drops rows without usable prices and collapses duplicate
// dates (first occurrence wins), so the strict series constructor accepts
// whatever a provider returned.
func Clean(bars []model.PriceBar) []model.PriceBar {
	out := make([]model.PriceBar, 0, len(bars))
	for _, b := range bars {
		if b.Open <= 0 || b.Close <= 0 {
			continue
		}
		b.Date = model.Day(b.Date)
		out = append(out, b)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })

	dedup := out[:0]
	for _, b := range out {
		if len(dedup) > 0 && dedup[len(dedup)-1].Date.Equal(b.Date) {
			continue
		}
		dedup = append(dedup, b)
	}
	return dedup
}

func buildSeries(symbol string, bars []model.PriceBar, fetchedAt, start time.Time) (*model.PriceSeries, error) {
	from := model.Day(start)
	trimmed := make([]model.PriceBar, 0, len(bars))
	for _, b := range bars {
		if b.Date.Before(from) {
			continue
		}
		trimmed = append(trimmed, b)
	}
	series, err := model.NewPriceSeries(symbol, trimmed)
	if err != nil {
		return nil, err
	}
	series.FetchedAt = fetchedAt
	return series, nil
}
