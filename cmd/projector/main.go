package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"FwdProjector/internal/analyzer"
	"FwdProjector/internal/collector"
	"FwdProjector/internal/config"
	"FwdProjector/internal/exporter"
	"FwdProjector/internal/model"
	"FwdProjector/internal/notifier"
	"FwdProjector/internal/preset"
	"FwdProjector/internal/recorder"
	"FwdProjector/internal/scheduler"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	var (
		cfgPath    = flag.String("config", "configs/config.yaml", "path to YAML config")
		ticker     = flag.String("ticker", "", "symbol to analyze (default: first configured ticker)")
		trigger    = flag.String("trigger", "", "trigger kind: move or reversal")
		movePct    = flag.Float64("move-pct", 0, "signed cumulative move threshold in percent")
		window     = flag.Int("window", 0, "cumulative move window in trading days")
		openUp     = flag.Float64("open-up", 1, "reversal: minimum open gap up in percent")
		closeDown  = flag.Float64("close-down", 1, "reversal: minimum close-below-open drop in percent")
		presetName = flag.String("preset", "", "run a saved preset instead of building a trigger from flags")
		horizons   = flag.String("horizons", "", "comma-separated forward horizons in months (default from config)")
		csvPath    = flag.String("csv", "", "write the per-occurrence table to this CSV file")
		refresh    = flag.Bool("refresh", false, "bypass the bar cache and refetch history")
		watch      = flag.Bool("watch", false, "run as a daily watch service with Telegram alerts")
	)
	flag.Parse()

	// .env is optional, real env vars win either way.
	if err := godotenv.Load(); err == nil {
		log.Println("[INFO] loaded .env")
	}

	if v := os.Getenv("CONFIG_PATH"); v != "" && *cfgPath == "configs/config.yaml" {
		*cfgPath = v
	}
	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatalf("[FATAL] load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[FATAL] config validation: %v", err)
	}
	start, err := cfg.StartTime()
	if err != nil {
		log.Fatalf("[FATAL] %v", err)
	}

	// Data source
	var fetcher collector.Fetcher
	switch cfg.DataSource.Provider {
	case "stooq":
		fetcher = collector.NewStooqFetcher("", cfg.Proxy)
	default:
		fetcher = collector.NewYahooFetcher(cfg.Proxy)
	}
	log.Printf("[INFO] data source: %s", fetcher.Name())

	// Recorder doubles as the bar cache; a broken database degrades to noop.
	var rec recorder.Recorder
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
		if err != nil {
			log.Printf("[WARN] init sqlite recorder failed, using noop: %v", err)
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
			defer sr.Close()
		}
	} else {
		rec = recorder.NewNoopRecorder()
	}

	col := collector.NewCollector(fetcher, rec, time.Duration(cfg.DataSource.MaxAgeHours)*time.Hour)

	store, err := preset.NewStore(cfg.Presets.StateFile)
	if err != nil {
		log.Fatalf("[FATAL] init preset store: %v", err)
	}

	if *watch {
		runWatch(cfg, col, store, rec, start)
		return
	}

	// One-shot analysis
	symbol := *ticker
	if symbol == "" {
		symbol = cfg.DataSource.Tickers[0]
	}
	symbol = strings.ToUpper(symbol)

	params, err := resolveParams(cfg, store, *presetName, *trigger, *movePct, *window, *openUp, *closeDown, *horizons)
	if err != nil {
		log.Fatalf("[FATAL] %v", err)
	}

	series, err := col.LoadSeries(symbol, start, *refresh)
	if err != nil {
		log.Fatalf("[FATAL] load %s: %v", symbol, err)
	}
	if series.Len() == 0 {
		log.Fatalf("[FATAL] %s: no price history from %s", symbol, start.Format("2006-01-02"))
	}
	log.Printf("[INFO] %s: %d bars, %s to %s", symbol, series.Len(),
		series.Bars[0].Date.Format("2006-01-02"), series.LastDate().Format("2006-01-02"))

	res, err := analyzer.Run(series, params)
	if err != nil {
		log.Fatalf("[FATAL] analysis: %v", err)
	}

	fmt.Print(notifier.FormatRunReport(res))

	if err := rec.RecordRun(recorder.NewRunRecord(res)); err != nil {
		log.Printf("[ERROR] record run: %v", err)
	}

	if *csvPath != "" && !res.NoMatches() {
		path := *csvPath
		if filepath.Dir(path) == "." && cfg.Export.Dir != "" {
			path = filepath.Join(cfg.Export.Dir, path)
		}
		if err := exporter.ExportFile(path, res.Rows, res.Params.Horizons); err != nil {
			log.Fatalf("[FATAL] export csv: %v", err)
		}
		log.Printf("[INFO] wrote %s (%d rows)", path, len(res.Rows))
	}
}

// resolveParams builds run parameters from a preset or from trigger flags,
// with configured analysis settings filling whatever is left unset.
func resolveParams(cfg *config.Config, store *preset.Store, presetName, trigger string,
	movePct float64, window int, openUp, closeDown float64, horizonsFlag string) (analyzer.Params, error) {

	var params analyzer.Params
	switch {
	case presetName != "":
		p, ok := store.Get(presetName)
		if !ok {
			return params, fmt.Errorf("unknown preset %q (have: %s)", presetName, strings.Join(store.Names(), ", "))
		}
		params = p
	case trigger == "move":
		if window <= 0 || movePct == 0 {
			return params, fmt.Errorf("-trigger move requires -window and a non-zero -move-pct")
		}
		params.Condition = model.TriggerCondition{
			Kind: model.TriggerCumulativeMove, WindowDays: window, ThresholdPct: movePct,
		}
	case trigger == "reversal":
		params.Condition = model.TriggerCondition{
			Kind: model.TriggerOpenCloseReversal, OpenUpPct: openUp, CloseDownPct: closeDown,
		}
	default:
		return params, fmt.Errorf("either -preset or -trigger move|reversal is required")
	}

	if horizonsFlag != "" {
		hs, err := parseHorizons(horizonsFlag)
		if err != nil {
			return params, err
		}
		params.Horizons = hs
	}
	if len(params.Horizons) == 0 {
		params.Horizons = append([]int(nil), cfg.Analysis.Horizons...)
	}
	if params.ReserveTail == 0 {
		params.ReserveTail = cfg.Analysis.ReserveTail
	}
	if params.Resolution == "" {
		params.Resolution = analyzer.HorizonResolution(cfg.Analysis.Resolution)
	}
	params = params.WithDefaults()
	return params, params.Validate()
}

func parseHorizons(s string) ([]int, error) {
	var out []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		m, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("invalid horizon %q: %w", part, err)
		}
		out = append(out, m)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no horizons in %q", s)
	}
	return out, nil
}

func runWatch(cfg *config.Config, col *collector.Collector, store *preset.Store, rec recorder.Recorder, start time.Time) {
	if err := cfg.ValidateTelegram(); err != nil {
		log.Fatalf("[FATAL] watch mode: %v", err)
	}

	tn := notifier.NewNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sched := scheduler.NewScheduler(ctx, col, store, tn, rec, scheduler.Options{
		Tickers:      cfg.DataSource.Tickers,
		Start:        start,
		WatchPresets: cfg.Presets.Watch,
		Horizons:     cfg.Analysis.Horizons,
		ReserveTail:  cfg.Analysis.ReserveTail,
		Resolution:   analyzer.HorizonResolution(cfg.Analysis.Resolution),
	})
	if err := sched.Register(cfg.Schedule.DailyCron); err != nil {
		log.Fatalf("[FATAL] register cron task: %v", err)
	}
	sched.Start()
	defer sched.Stop()

	go tn.Poll(ctx, sched.HandleCommand)
	log.Println("[INFO] Telegram polling started")

	if os.Getenv("RUN_ON_START") == "true" {
		log.Println("[INFO] RUN_ON_START enabled, executing daily task now")
		go sched.RunDailyNow()
	}

	log.Println("[INFO] FwdProjector watch mode is running. Press Ctrl+C to stop.")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[INFO] shutdown signal received, stopping...")
	cancel()
	log.Println("[INFO] FwdProjector stopped")
}
