package notifier

import (
	"fmt"
	"strings"
	"time"

	"FwdProjector/internal/analyzer"
	"FwdProjector/internal/model"
)

// matchTableLimit caps the per-occurrence table in rendered reports; the full
// table is available through the CSV export.
const matchTableLimit = 25

// FormatRunReport renders a complete analysis result as a text report.
func FormatRunReport(res *analyzer.Result) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("FWD Projector | %s | %s | reserve %d | %s\n",
		res.Symbol, res.Params.Condition.Describe(), res.Params.ReserveTail, res.Params.Resolution))

	if res.NoMatches() {
		b.WriteString("No matching periods found.\n")
		return b.String()
	}

	b.WriteString(fmt.Sprintf("Found %d matches (%d rows with forward data).\n\n", len(res.Matches), len(res.Rows)))
	b.WriteString("Summary of forward returns:\n")
	b.WriteString(FormatSummaryTable(res.Summary))
	b.WriteString("\nMatches:\n")
	b.WriteString(FormatMatchTable(res.Rows, res.Params.Horizons, matchTableLimit))
	return b.String()
}

// FormatSummaryTable renders per-horizon statistics. Unavailable values are
// shown as N/A: a horizon with no samples has no statistics, and a single
// sample leaves the standard deviation undefined.
func FormatSummaryTable(stats []model.HorizonStats) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("%-8s %6s %9s %9s %9s %9s %9s\n",
		"Horizon", "Count", "Mean%", "Median%", "StdDev", "Min%", "Max%"))
	for _, st := range stats {
		if !st.HasSamples() {
			b.WriteString(fmt.Sprintf("%-8s %6d %9s %9s %9s %9s %9s\n",
				fmt.Sprintf("%dM", st.Months), 0, "N/A", "N/A", "N/A", "N/A", "N/A"))
			continue
		}
		std := "N/A"
		if st.HasStdDev() {
			std = fmt.Sprintf("%.2f", st.StdDev)
		}
		b.WriteString(fmt.Sprintf("%-8s %6d %9.2f %9.2f %9s %9.2f %9.2f\n",
			fmt.Sprintf("%dM", st.Months), st.Count, st.Mean, st.Median, std, st.Min, st.Max))
	}
	return b.String()
}

// FormatMatchTable renders up to limit per-occurrence rows.
func FormatMatchTable(rows []model.ForwardReturnRow, horizons []int, limit int) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("%-12s", "Match Date"))
	for _, m := range horizons {
		b.WriteString(fmt.Sprintf(" %9s", fmt.Sprintf("%dM", m)))
	}
	b.WriteString("\n")

	shown := rows
	if limit > 0 && len(shown) > limit {
		shown = shown[:limit]
	}
	for _, row := range shown {
		b.WriteString(row.Date.Format("2006-01-02"))
		b.WriteString("  ")
		for _, m := range horizons {
			if v, ok := row.Return(m); ok {
				b.WriteString(fmt.Sprintf(" %8.2f%%", v))
			} else {
				b.WriteString(fmt.Sprintf(" %9s", "N/A"))
			}
		}
		b.WriteString("\n")
	}
	if len(rows) > len(shown) {
		b.WriteString(fmt.Sprintf("... and %d more rows (see CSV export)\n", len(rows)-len(shown)))
	}
	return b.String()
}

// FormatTriggerAlert renders the watch-mode push message sent when a condition
// also holds on the latest completed bar.
func FormatTriggerAlert(symbol, presetName string, cond model.TriggerCondition, firedOn time.Time, res *analyzer.Result) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("🔭 <b>Trigger fired</b> | %s | %s\n", symbol, presetName))
	b.WriteString(fmt.Sprintf("%s held on %s\n\n", cond.Describe(), firedOn.Format("2006-01-02")))
	b.WriteString(fmt.Sprintf("Historical occurrences: %d\n", len(res.Matches)))
	b.WriteString("<pre>")
	b.WriteString(FormatSummaryTable(res.Summary))
	b.WriteString("</pre>")
	return b.String()
}
