package scheduler

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"FwdProjector/internal/analyzer"
	"FwdProjector/internal/collector"
	"FwdProjector/internal/notifier"
	"FwdProjector/internal/preset"
	"FwdProjector/internal/recorder"

	"github.com/robfig/cron/v3"
)

// Options carries the analysis settings the scheduled runs share.
type Options struct {
	Tickers      []string
	Start        time.Time
	WatchPresets []string
	Horizons     []int
	ReserveTail  int
	Resolution   analyzer.HorizonResolution
}

// Scheduler runs the daily watch task and serves Telegram commands.
type Scheduler struct {
	Cron      *cron.Cron
	Collector *collector.Collector
	Presets   *preset.Store
	Notifier  *notifier.Notifier
	Recorder  recorder.Recorder
	Opts      Options
	Ctx       context.Context
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, col *collector.Collector, ps *preset.Store, tn *notifier.Notifier, rec recorder.Recorder, opts Options) *Scheduler {
	return &Scheduler{
		Cron:      cron.New(cron.WithSeconds()),
		Collector: col,
		Presets:   ps,
		Notifier:  tn,
		Recorder:  rec,
		Opts:      opts,
		Ctx:       ctx,
	}
}

// Register registers the daily watch task.
func (s *Scheduler) Register(dailyCron string) error {
	if _, err := s.Cron.AddFunc(dailyCron, s.dailyTask); err != nil {
		return fmt.Errorf("register daily task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler gracefully.
func (s *Scheduler) Stop() {
	s.Cron.Stop()
	log.Println("[INFO] scheduler stopped")
}

// RunDailyNow executes the daily task immediately (for manual trigger / RUN_ON_START).
func (s *Scheduler) RunDailyNow() {
	s.dailyTask()
}

// dailyTask refreshes every watched ticker and re-runs the watch presets. When
// a condition also holds on the latest completed bar, the historical summary
// for that condition is pushed as an alert.
func (s *Scheduler) dailyTask() {
	log.Println("[INFO] running daily watch task")
	for _, ticker := range s.Opts.Tickers {
		series, err := s.Collector.LoadSeries(ticker, s.Opts.Start, true)
		if err != nil {
			log.Printf("[ERROR] %s: load series: %v", ticker, err)
			s.trySend(fmt.Sprintf("❌ %s: data refresh failed: %v", ticker, err))
			continue
		}

		for _, name := range s.Opts.WatchPresets {
			params, ok := s.Presets.Get(name)
			if !ok {
				log.Printf("[WARN] watch preset %q not found", name)
				continue
			}
			params = s.applyDefaults(params)

			res, err := analyzer.Run(series, params)
			if err != nil {
				log.Printf("[ERROR] %s/%s: analysis: %v", ticker, name, err)
				continue
			}
			if err := s.Recorder.RecordRun(recorder.NewRunRecord(res)); err != nil {
				log.Printf("[ERROR] %s/%s: record run: %v", ticker, name, err)
			}

			// The reserved tail hides recent matches from the historical scan,
			// so the latest bar is checked with no reserve.
			recent, err := analyzer.Scan(series, params.Condition, 0)
			if err != nil {
				log.Printf("[ERROR] %s/%s: latest-bar scan: %v", ticker, name, err)
				continue
			}
			if len(recent) > 0 && recent[len(recent)-1].Equal(series.LastDate()) {
				log.Printf("[INFO] %s/%s: condition holds on latest bar %s", ticker, name, series.LastDate().Format("2006-01-02"))
				s.trySend(notifier.FormatTriggerAlert(ticker, name, params.Condition, series.LastDate(), res))
			}
		}
	}
}

// applyDefaults fills analysis settings a preset leaves unset from the
// configured run options.
func (s *Scheduler) applyDefaults(p analyzer.Params) analyzer.Params {
	if len(p.Horizons) == 0 {
		p.Horizons = append([]int(nil), s.Opts.Horizons...)
	}
	if p.ReserveTail == 0 {
		p.ReserveTail = s.Opts.ReserveTail
	}
	if p.Resolution == "" {
		p.Resolution = s.Opts.Resolution
	}
	return p.WithDefaults()
}

// HandleCommand processes a user command and returns a reply.
func (s *Scheduler) HandleCommand(command string) string {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return ""
	}
	switch fields[0] {
	case "/run":
		if len(fields) != 3 {
			return "Usage: /run TICKER PRESET"
		}
		return s.runCommand(strings.ToUpper(fields[1]), fields[2])
	case "/presets":
		var b strings.Builder
		b.WriteString("Available presets:\n")
		for _, name := range s.Presets.Names() {
			p, _ := s.Presets.Get(name)
			b.WriteString(fmt.Sprintf("• %s: %s\n", name, p.Condition.Describe()))
		}
		return b.String()
	case "/daily":
		go s.dailyTask()
		return "Daily watch task started."
	default:
		return "Commands:\n• /run TICKER PRESET\n• /presets\n• /daily"
	}
}

func (s *Scheduler) runCommand(ticker, presetName string) string {
	params, ok := s.Presets.Get(presetName)
	if !ok {
		return fmt.Sprintf("Unknown preset %q. Try /presets.", presetName)
	}
	params = s.applyDefaults(params)

	series, err := s.Collector.LoadSeries(ticker, s.Opts.Start, false)
	if err != nil {
		return fmt.Sprintf("❌ %s: load series failed: %v", ticker, err)
	}
	res, err := analyzer.Run(series, params)
	if err != nil {
		return fmt.Sprintf("❌ %s: analysis failed: %v", ticker, err)
	}
	if err := s.Recorder.RecordRun(recorder.NewRunRecord(res)); err != nil {
		log.Printf("[ERROR] %s/%s: record run: %v", ticker, presetName, err)
	}
	return "<pre>" + notifier.FormatRunReport(res) + "</pre>"
}

func (s *Scheduler) trySend(text string) {
	if err := s.Notifier.SendWithRetry(s.Ctx, text, 3); err != nil {
		log.Printf("[ERROR] send notification: %v", err)
	}
}
