package segmentation

import "sort"

// rankScores partitions values into bins equal-sized quantile groups and
// returns a 1-based score per input position. Ranking is by value with ties
// broken by first-occurrence order (stable sort), so heavily tied metrics
// such as order frequency still split into balanced bins. With invert set,
// the lowest values receive the highest scores (used for recency, where
// fewer days since the last order is better).
func rankScores(values []float64, bins int, invert bool) []int {
	n := len(values)
	if n == 0 || bins <= 0 {
		return nil
	}
	if bins > n {
		bins = n
	}

	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return values[order[a]] < values[order[b]]
	})

	scores := make([]int, n)
	for pos, idx := range order {
		bin := pos * bins / n
		if invert {
			scores[idx] = bins - bin
		} else {
			scores[idx] = bin + 1
		}
	}
	return scores
}
