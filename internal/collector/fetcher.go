package collector

import (
	"time"

	"FwdProjector/internal/model"
)

// Fetcher retrieves a symbol's full daily price history from a market data
// provider, ascending by date.
type Fetcher interface {
	FetchDailyHistory(symbol string, start time.Time) ([]model.PriceBar, error)
	Name() string
}
