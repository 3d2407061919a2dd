package notifier

import (
	"strings"
	"testing"
	"time"

	"FwdProjector/internal/analyzer"
	"FwdProjector/internal/model"
)

func TestFormatRunReport_NoMatches(t *testing.T) {
	res := &analyzer.Result{
		Symbol: "SPY",
		Params: analyzer.Params{
			Condition: model.TriggerCondition{Kind: model.TriggerCumulativeMove, WindowDays: 2, ThresholdPct: -6},
		}.WithDefaults(),
	}
	out := FormatRunReport(res)
	if !strings.Contains(out, "No matching periods found.") {
		t.Errorf("expected the no-matches message, got:\n%s", out)
	}
}

func TestFormatSummaryTable_Availability(t *testing.T) {
	stats := []model.HorizonStats{
		{Months: 1, Count: 3, Mean: 1.5, Median: 1, StdDev: 0.5, Min: -1, Max: 4},
		{Months: 3, Count: 1, Mean: 2, Median: 2, Min: 2, Max: 2}, // std dev undefined
		{Months: 12},
	}
	out := FormatSummaryTable(stats)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected header + 3 rows, got %d", len(lines))
	}
	if strings.Contains(lines[1], "N/A") {
		t.Errorf("fully available horizon should have no N/A: %q", lines[1])
	}
	if !strings.Contains(lines[2], "N/A") {
		t.Errorf("single-sample horizon must show N/A std dev: %q", lines[2])
	}
	if strings.Count(lines[3], "N/A") != 5 {
		t.Errorf("empty horizon must show N/A for every statistic: %q", lines[3])
	}
}

func TestFormatMatchTable_Limit(t *testing.T) {
	rows := make([]model.ForwardReturnRow, 30)
	base := time.Date(2010, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := range rows {
		rows[i] = model.ForwardReturnRow{Date: base.AddDate(0, 0, i), Returns: map[int]float64{1: float64(i)}}
	}
	out := FormatMatchTable(rows, []int{1}, 25)
	if !strings.Contains(out, "and 5 more rows") {
		t.Errorf("expected overflow note, got:\n%s", out)
	}
}
