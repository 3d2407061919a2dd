package recorder

import (
	"database/sql"
	"fmt"
	"log"
	"sync"
	"time"

	"FwdProjector/internal/model"

	_ "modernc.org/sqlite"
)

// SQLiteRecorder persists bar caches and run history to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode so ad-hoc reads don't block a running analysis.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] sqlite recorder opened: %s", dbPath)
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS daily_bars (
			symbol  TEXT NOT NULL,
			date    TEXT NOT NULL,
			open    REAL,
			high    REAL,
			low     REAL,
			close   REAL,
			volume  REAL,
			PRIMARY KEY (symbol, date)
		)`,
		`CREATE TABLE IF NOT EXISTS bar_meta (
			symbol     TEXT PRIMARY KEY,
			fetched_at INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS runs (
			id           INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp    INTEGER NOT NULL,
			symbol       TEXT,
			trigger_desc TEXT,
			resolution   TEXT,
			reserve_tail INTEGER,
			match_count  INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_ts ON runs(timestamp)`,
		`CREATE TABLE IF NOT EXISTS run_stats (
			run_id         INTEGER NOT NULL,
			horizon_months INTEGER NOT NULL,
			sample_count   INTEGER,
			mean_pct       REAL,
			median_pct     REAL,
			std_dev_pct    REAL,
			min_pct        REAL,
			max_pct        REAL
		)`,
	}
	for _, stmt := range stmts {
		if _, err := r.db.Exec(stmt); err != nil {
			return fmt.Errorf("exec migration: %w", err)
		}
	}
	return nil
}

// SaveDailyBars replaces the cached history for a symbol atomically.
func (r *SQLiteRecorder) SaveDailyBars(symbol string, bars []model.PriceBar) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM daily_bars WHERE symbol = ?`, symbol); err != nil {
		return fmt.Errorf("clear bars: %w", err)
	}
	stmt, err := tx.Prepare(`INSERT INTO daily_bars (symbol, date, open, high, low, close, volume)
		VALUES (?,?,?,?,?,?,?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()
	for _, b := range bars {
		if _, err := stmt.Exec(symbol, b.Date.Format("2006-01-02"), b.Open, b.High, b.Low, b.Close, b.Volume); err != nil {
			return fmt.Errorf("insert bar: %w", err)
		}
	}
	if _, err := tx.Exec(`INSERT INTO bar_meta (symbol, fetched_at) VALUES (?,?)
		ON CONFLICT(symbol) DO UPDATE SET fetched_at = excluded.fetched_at`,
		symbol, time.Now().Unix()); err != nil {
		return fmt.Errorf("update meta: %w", err)
	}
	return tx.Commit()
}

// LoadDailyBars returns the cached history and when it was fetched.
// A symbol with no cache yields an empty slice and zero time, not an error.
func (r *SQLiteRecorder) LoadDailyBars(symbol string) ([]model.PriceBar, time.Time, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var fetchedUnix int64
	err := r.db.QueryRow(`SELECT fetched_at FROM bar_meta WHERE symbol = ?`, symbol).Scan(&fetchedUnix)
	if err == sql.ErrNoRows {
		return nil, time.Time{}, nil
	}
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("query meta: %w", err)
	}

	rows, err := r.db.Query(`SELECT date, open, high, low, close, volume
		FROM daily_bars WHERE symbol = ? ORDER BY date`, symbol)
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("query bars: %w", err)
	}
	defer rows.Close()

	var bars []model.PriceBar
	for rows.Next() {
		var dateStr string
		var b model.PriceBar
		if err := rows.Scan(&dateStr, &b.Open, &b.High, &b.Low, &b.Close, &b.Volume); err != nil {
			return nil, time.Time{}, fmt.Errorf("scan bar: %w", err)
		}
		date, err := time.Parse("2006-01-02", dateStr)
		if err != nil {
			return nil, time.Time{}, fmt.Errorf("parse cached date %q: %w", dateStr, err)
		}
		b.Date = date
		bars = append(bars, b)
	}
	if err := rows.Err(); err != nil {
		return nil, time.Time{}, fmt.Errorf("iterate bars: %w", err)
	}
	return bars, time.Unix(fetchedUnix, 0), nil
}

// RecordRun appends one run and its per-horizon aggregates.
func (r *SQLiteRecorder) RecordRun(rec *RunRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.Exec(`INSERT INTO runs (timestamp, symbol, trigger_desc, resolution, reserve_tail, match_count)
		VALUES (?,?,?,?,?,?)`,
		time.Now().Unix(), rec.Symbol, rec.Trigger, rec.Resolution, rec.ReserveTail, rec.MatchCount)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	runID, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("run id: %w", err)
	}
	for _, st := range rec.Stats {
		if _, err := tx.Exec(`INSERT INTO run_stats
			(run_id, horizon_months, sample_count, mean_pct, median_pct, std_dev_pct, min_pct, max_pct)
			VALUES (?,?,?,?,?,?,?,?)`,
			runID, st.Months, st.Count, st.Mean, st.Median, st.StdDev, st.Min, st.Max); err != nil {
			return fmt.Errorf("insert run stat: %w", err)
		}
	}
	return tx.Commit()
}

func (r *SQLiteRecorder) Close() error {
	log.Println("[INFO] closing sqlite recorder")
	return r.db.Close()
}
