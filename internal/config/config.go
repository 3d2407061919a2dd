package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"FwdProjector/internal/analyzer"
)

// Config holds all application configuration.
type Config struct {
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	DataSource struct {
		Provider    string   `yaml:"provider"` // yahoo or stooq
		Tickers     []string `yaml:"tickers"`
		StartDate   string   `yaml:"start_date"` // 2006-01-02
		MaxAgeHours int      `yaml:"max_age_hours"`
	} `yaml:"data_source"`
	Analysis struct {
		Horizons    []int  `yaml:"horizons"`
		ReserveTail int    `yaml:"reserve_tail"`
		Resolution  string `yaml:"resolution"` // trading_days or calendar_months
	} `yaml:"analysis"`
	Schedule struct {
		DailyCron string `yaml:"daily_cron"`
	} `yaml:"schedule"`
	Presets struct {
		StateFile string   `yaml:"state_file"`
		Watch     []string `yaml:"watch"` // preset names checked in watch mode
	} `yaml:"presets"`
	Export struct {
		Dir string `yaml:"dir"`
	} `yaml:"export"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies environment variable overrides.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("DATA_PROVIDER"); v != "" {
		cfg.DataSource.Provider = v
	}
	if v := os.Getenv("TICKERS"); v != "" {
		cfg.DataSource.Tickers = splitList(v)
	}
	if v := os.Getenv("START_DATE"); v != "" {
		cfg.DataSource.StartDate = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("CRON_DAILY"); v != "" {
		cfg.Schedule.DailyCron = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("RESERVE_TAIL"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Analysis.ReserveTail = n
		}
	}

	// Defaults
	if cfg.DataSource.Provider == "" {
		cfg.DataSource.Provider = "yahoo"
	}
	if len(cfg.DataSource.Tickers) == 0 {
		cfg.DataSource.Tickers = []string{"SPY", "QQQ", "DIA"}
	}
	if cfg.DataSource.StartDate == "" {
		cfg.DataSource.StartDate = "2000-01-01"
	}
	if cfg.DataSource.MaxAgeHours == 0 {
		cfg.DataSource.MaxAgeHours = 12
	}
	if len(cfg.Analysis.Horizons) == 0 {
		cfg.Analysis.Horizons = append([]int(nil), analyzer.DefaultHorizons...)
	}
	if cfg.Analysis.ReserveTail == 0 {
		cfg.Analysis.ReserveTail = analyzer.DefaultReserveTail
	}
	if cfg.Analysis.Resolution == "" {
		cfg.Analysis.Resolution = string(analyzer.ResolutionTradingDays)
	}
	if cfg.Schedule.DailyCron == "" {
		// Weekdays shortly after the US close.
		cfg.Schedule.DailyCron = "0 30 16 * * 1-5"
	}
	if cfg.Presets.StateFile == "" {
		cfg.Presets.StateFile = "data/presets.json"
	}
	if len(cfg.Presets.Watch) == 0 {
		cfg.Presets.Watch = []string{"crash-2d", "gap-reversal"}
	}
	if cfg.Export.Dir == "" {
		cfg.Export.Dir = "data/exports"
	}
	if cfg.Database.SQLitePath == "" {
		cfg.Database.SQLitePath = "data/fwdprojector.db"
	}

	return cfg, nil
}

// Validate checks that all required fields are well formed. Telegram
// credentials are only required for watch mode and are checked separately.
func (c *Config) Validate() error {
	switch c.DataSource.Provider {
	case "yahoo", "stooq":
	default:
		return fmt.Errorf("data_source.provider must be yahoo or stooq, got %q", c.DataSource.Provider)
	}
	if _, err := c.StartTime(); err != nil {
		return err
	}
	if c.Analysis.ReserveTail < 0 {
		return fmt.Errorf("analysis.reserve_tail must not be negative")
	}
	switch analyzer.HorizonResolution(c.Analysis.Resolution) {
	case analyzer.ResolutionTradingDays, analyzer.ResolutionCalendarMonths:
	default:
		return fmt.Errorf("analysis.resolution must be %s or %s, got %q",
			analyzer.ResolutionTradingDays, analyzer.ResolutionCalendarMonths, c.Analysis.Resolution)
	}
	prev := 0
	for _, m := range c.Analysis.Horizons {
		if m <= prev {
			return fmt.Errorf("analysis.horizons must be positive and ascending")
		}
		prev = m
	}
	return nil
}

// ValidateTelegram checks the credentials watch mode needs.
func (c *Config) ValidateTelegram() error {
	if c.Telegram.BotToken == "" {
		return fmt.Errorf("telegram.bot_token is required")
	}
	if c.Telegram.ChatID == "" {
		return fmt.Errorf("telegram.chat_id is required")
	}
	return nil
}

// StartTime parses data_source.start_date.
func (c *Config) StartTime() (time.Time, error) {
	t, err := time.Parse("2006-01-02", c.DataSource.StartDate)
	if err != nil {
		return time.Time{}, fmt.Errorf("data_source.start_date: %w", err)
	}
	return t, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
