package exporter

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"FwdProjector/internal/model"
)

// WriteRows writes the per-occurrence table as CSV: a "Match Date" column
// followed by one "<m>M Forward Return" column per horizon. Available returns
// are formatted with two decimals and a percent sign; missing values are the
// literal N/A. This is the presentation boundary: upstream the values are
// numeric throughout.
func WriteRows(w io.Writer, rows []model.ForwardReturnRow, horizons []int) error {
	cw := csv.NewWriter(w)

	header := make([]string, 0, len(horizons)+1)
	header = append(header, "Match Date")
	for _, m := range horizons {
		header = append(header, fmt.Sprintf("%dM Forward Return", m))
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	rec := make([]string, 0, len(horizons)+1)
	for _, row := range rows {
		rec = rec[:0]
		rec = append(rec, row.Date.Format("2006-01-02"))
		for _, m := range horizons {
			if v, ok := row.Return(m); ok {
				rec = append(rec, fmt.Sprintf("%.2f%%", v))
			} else {
				rec = append(rec, "N/A")
			}
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// ExportFile writes the table to path, creating parent directories as needed.
func ExportFile(path string, rows []model.ForwardReturnRow, horizons []int) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create export dir: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create export file: %w", err)
	}
	defer f.Close()
	if err := WriteRows(f, rows, horizons); err != nil {
		return err
	}
	return f.Close()
}
