package model

import "time"

// ForwardReturnRow holds the forward returns measured after one match date.
// Returns maps horizon months to a signed percent change; a horizon absent
// from the map had insufficient future data. Values stay numeric here;
// formatting happens only at the presentation boundary.
type ForwardReturnRow struct {
	Date    time.Time
	Returns map[int]float64
}

// Return looks up the forward return for a horizon, reporting availability.
func (r ForwardReturnRow) Return(months int) (float64, bool) {
	v, ok := r.Returns[months]
	return v, ok
}

// HorizonStats summarizes the available forward returns at one horizon.
// Count==0 means every statistic is unavailable; Count==1 leaves StdDev
// undefined (sample standard deviation, n-1 divisor).
type HorizonStats struct {
	Months int
	Count  int
	Mean   float64
	Median float64
	StdDev float64
	Min    float64
	Max    float64
}

// HasSamples reports whether any return resolved at this horizon.
func (h HorizonStats) HasSamples() bool { return h.Count > 0 }

// HasStdDev reports whether the sample standard deviation is defined.
func (h HorizonStats) HasStdDev() bool { return h.Count > 1 }
