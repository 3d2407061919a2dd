package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.DataSource.Provider != "yahoo" {
		t.Errorf("default provider = %q", cfg.DataSource.Provider)
	}
	if len(cfg.DataSource.Tickers) != 3 || cfg.DataSource.Tickers[0] != "SPY" {
		t.Errorf("default tickers = %v", cfg.DataSource.Tickers)
	}
	if cfg.Analysis.ReserveTail != 252 {
		t.Errorf("default reserve_tail = %d", cfg.Analysis.ReserveTail)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoad_FileAndEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := `
data_source:
  provider: stooq
  tickers: [IWM]
  start_date: "2010-06-01"
analysis:
  horizons: [1, 6]
  reserve_tail: 100
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("RESERVE_TAIL", "63")
	t.Setenv("TICKERS", "SPY, DIA")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.DataSource.Provider != "stooq" {
		t.Errorf("provider = %q", cfg.DataSource.Provider)
	}
	if cfg.Analysis.ReserveTail != 63 {
		t.Errorf("env override lost, reserve_tail = %d", cfg.Analysis.ReserveTail)
	}
	if len(cfg.DataSource.Tickers) != 2 || cfg.DataSource.Tickers[1] != "DIA" {
		t.Errorf("tickers = %v", cfg.DataSource.Tickers)
	}
	start, err := cfg.StartTime()
	if err != nil {
		t.Fatalf("start time: %v", err)
	}
	if start.Year() != 2010 {
		t.Errorf("start = %v", start)
	}
}

func TestValidate_Rejects(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	cfg.DataSource.Provider = "bloomberg"
	if err := cfg.Validate(); err == nil {
		t.Error("expected unknown provider error")
	}
	cfg.DataSource.Provider = "yahoo"

	cfg.Analysis.Horizons = []int{3, 1}
	if err := cfg.Validate(); err == nil {
		t.Error("expected descending horizons error")
	}
	cfg.Analysis.Horizons = []int{1, 3}

	cfg.Analysis.Resolution = "weeks"
	if err := cfg.Validate(); err == nil {
		t.Error("expected unknown resolution error")
	}
}
