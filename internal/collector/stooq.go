package collector

import (
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"FwdProjector/internal/model"
)

// StooqFetcher implements Fetcher using stooq.com's daily CSV endpoint,
// as an alternate source when Yahoo is unavailable.
type StooqFetcher struct {
	BaseURL   string
	Client    *http.Client
	SymbolMap map[string]string
}

// NewStooqFetcher creates a new fetcher with optional proxy support.
// baseURL defaults to the public stooq.com host.
func NewStooqFetcher(baseURL, proxyURL string) *StooqFetcher {
	if baseURL == "" {
		baseURL = "https://stooq.com"
	}
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &StooqFetcher{
		BaseURL: baseURL,
		Client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
		SymbolMap: map[string]string{
			"SPX": "^spx",
		},
	}
}

func (f *StooqFetcher) Name() string { return "stooq" }

// stooqSymbol maps e.g. "SPY" to stooq's "spy.us" convention.
func (f *StooqFetcher) stooqSymbol(symbol string) string {
	if mapped, ok := f.SymbolMap[symbol]; ok {
		return mapped
	}
	s := strings.ToLower(symbol)
	if strings.Contains(s, ".") || strings.HasPrefix(s, "^") {
		return s
	}
	return s + ".us"
}

func (f *StooqFetcher) FetchDailyHistory(symbol string, start time.Time) ([]model.PriceBar, error) {
	endpoint := fmt.Sprintf("%s/q/d/l/?s=%s&d1=%s&d2=%s&i=d",
		f.BaseURL, url.QueryEscape(f.stooqSymbol(symbol)),
		start.Format("20060102"), time.Now().Format("20060102"))

	req, err := http.NewRequest("GET", endpoint, nil)
	if err != nil {
		return nil, err
	}
	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("stooq fetch: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("stooq: status %d, body: %s", resp.StatusCode, string(body))
	}

	bars, err := parseStooqCSV(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("stooq parse: %w", err)
	}
	if len(bars) == 0 {
		return nil, fmt.Errorf("stooq: no data returned for %s", symbol)
	}
	sort.Slice(bars, func(i, j int) bool { return bars[i].Date.Before(bars[j].Date) })
	return bars, nil
}

// parseStooqCSV reads the Date,Open,High,Low,Close,Volume layout. Rows with
// unparseable fields are skipped, matching the null-bar handling of the
// Yahoo fetcher.
func parseStooqCSV(r io.Reader) ([]model.PriceBar, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	if len(header) < 5 || !strings.EqualFold(header[0], "Date") {
		return nil, fmt.Errorf("unexpected header %v", header)
	}

	var bars []model.PriceBar
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		if len(rec) < 5 {
			continue
		}
		date, err := time.Parse("2006-01-02", rec[0])
		if err != nil {
			continue
		}
		o, err1 := strconv.ParseFloat(rec[1], 64)
		h, err2 := strconv.ParseFloat(rec[2], 64)
		l, err3 := strconv.ParseFloat(rec[3], 64)
		c, err4 := strconv.ParseFloat(rec[4], 64)
		if err1 != nil || err2 != nil || err3 != nil || err4 != nil {
			continue
		}
		var vol float64
		if len(rec) > 5 {
			vol, _ = strconv.ParseFloat(rec[5], 64)
		}
		bars = append(bars, model.PriceBar{
			Date: date, Open: o, High: h, Low: l, Close: c, Volume: vol,
		})
	}
	return bars, nil
}
