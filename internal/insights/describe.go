package insights

import (
	"math"
	"sort"

	"salescope/internal/dataset"
)

// ColumnStats holds descriptive statistics for one numeric column, computed
// over its non-missing values.
type ColumnStats struct {
	Column string
	Count  int
	Mean   float64
	Std    float64 // sample standard deviation
	Min    float64
	Max    float64
}

// CategoryStats holds the cardinality summary for one categorical column.
type CategoryStats struct {
	Column   string
	Unique   int
	Top      string // most frequent value
	TopCount int
}

// Describe computes per-column descriptive statistics for every numeric
// source column present in the dataset.
func Describe(ds *dataset.Dataset) []ColumnStats {
	var stats []ColumnStats
	for _, name := range ds.NumericColumnNames() {
		values, _ := ds.NumericValues(name)
		if len(values) == 0 {
			stats = append(stats, ColumnStats{Column: name})
			continue
		}

		var sum float64
		min, max := values[0], values[0]
		for _, v := range values {
			sum += v
			if v < min {
				min = v
			}
			if v > max {
				max = v
			}
		}
		mean := sum / float64(len(values))

		var sq float64
		for _, v := range values {
			d := v - mean
			sq += d * d
		}
		std := 0.0
		if len(values) > 1 {
			std = math.Sqrt(sq / float64(len(values)-1))
		}

		stats = append(stats, ColumnStats{
			Column: name,
			Count:  len(values),
			Mean:   mean,
			Std:    std,
			Min:    min,
			Max:    max,
		})
	}
	return stats
}

// DescribeCategorical summarizes the cardinality of every categorical
// source column present in the dataset.
func DescribeCategorical(ds *dataset.Dataset) []CategoryStats {
	var stats []CategoryStats
	for _, name := range ds.TextColumnNames() {
		values, _ := ds.TextValues(name)

		counts := make(map[string]int, len(values))
		for _, v := range values {
			counts[v]++
		}

		keys := make([]string, 0, len(counts))
		for k := range counts {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		top := ""
		topCount := 0
		for _, k := range keys {
			if counts[k] > topCount {
				top, topCount = k, counts[k]
			}
		}

		stats = append(stats, CategoryStats{
			Column:   name,
			Unique:   len(counts),
			Top:      top,
			TopCount: topCount,
		})
	}
	return stats
}
