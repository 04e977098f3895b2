package grid

import "sort"

// median returns the middle value of a non-empty sequence. The input is
// not modified.
func median(values []float64) float64 {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

// mode returns the most frequent value of a non-empty sequence. Ties are
// broken toward the larger value, preferring the fuller grid interpretation
// when occlusion makes the counts ambiguous.
func mode(values []int) int {
	counts := make(map[int]int, len(values))
	for _, v := range values {
		counts[v]++
	}
	best, bestCount := values[0], 0
	for v, count := range counts {
		if count > bestCount || (count == bestCount && v > best) {
			best, bestCount = v, count
		}
	}
	return best
}

// maxAbsDeviation returns the largest |v - center| over the sequence.
func maxAbsDeviation(values []float64, center float64) float64 {
	worst := 0.0
	for _, v := range values {
		d := v - center
		if d < 0 {
			d = -d
		}
		if d > worst {
			worst = d
		}
	}
	return worst
}
