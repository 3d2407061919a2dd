package analyzer

import (
	"math"
	"sort"

	"FwdProjector/internal/model"
)

// Summarize reduces the per-occurrence rows into descriptive statistics per
// horizon, over available returns only. A horizon with zero samples yields
// zero-Count stats; aggregation always continues for the other horizons.
func Summarize(rows []model.ForwardReturnRow, horizons []int) []model.HorizonStats {
	out := make([]model.HorizonStats, 0, len(horizons))
	for _, m := range horizons {
		var samples []float64
		for _, r := range rows {
			if v, ok := r.Returns[m]; ok {
				samples = append(samples, v)
			}
		}
		out = append(out, summarizeHorizon(m, samples))
	}
	return out
}

func summarizeHorizon(months int, samples []float64) model.HorizonStats {
	st := model.HorizonStats{Months: months, Count: len(samples)}
	if len(samples) == 0 {
		return st
	}

	sum := 0.0
	st.Min, st.Max = samples[0], samples[0]
	for _, v := range samples {
		sum += v
		if v < st.Min {
			st.Min = v
		}
		if v > st.Max {
			st.Max = v
		}
	}
	st.Mean = sum / float64(len(samples))
	st.Median = median(samples)

	// Sample standard deviation; undefined for n < 2.
	if len(samples) > 1 {
		ss := 0.0
		for _, v := range samples {
			d := v - st.Mean
			ss += d * d
		}
		st.StdDev = math.Sqrt(ss / float64(len(samples)-1))
	}
	return st
}

func median(samples []float64) float64 {
	sorted := append([]float64(nil), samples...)
	sort.Float64s(sorted)
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}
