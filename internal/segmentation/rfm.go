package segmentation

import (
	"fmt"
	"log/slog"
	"time"

	"salescope/internal/dataset"
	"salescope/pkg/contracts/domain"
)

// rfmBins is the quantile bin count for R/F/M scoring. When fewer customers
// than bins exist, the bin count degrades to the customer count instead of
// failing the run.
const rfmBins = 5

// RFMResult is the output of one RFM segmentation run.
type RFMResult struct {
	SnapshotDate time.Time
	Bins         int // effective bin count after any degraded-mode reduction
	Profiles     []domain.RFMProfile
}

// SegmentCounts returns the number of customers per segment label.
func (r *RFMResult) SegmentCounts() map[string]int {
	counts := make(map[string]int)
	for _, p := range r.Profiles {
		counts[p.Segment]++
	}
	return counts
}

// segmentRule is one row of the RFM decision table: a predicate over the
// (R, F, M) score triple and the label it assigns.
type segmentRule struct {
	label string
	match func(r, f, m int) bool
}

// segmentRules is evaluated top to bottom; the first match wins.
var segmentRules = []segmentRule{
	{domain.SegmentChampions, func(r, f, m int) bool { return r >= 4 && f >= 4 && m >= 4 }},
	{domain.SegmentLoyal, func(r, f, m int) bool { return r >= 3 && f >= 3 && m >= 3 }},
	{domain.SegmentNew, func(r, f, m int) bool { return r >= 4 && f <= 2 && m <= 2 }},
	{domain.SegmentPromising, func(r, f, m int) bool { return r >= 3 && f <= 2 && m <= 2 }},
	{domain.SegmentNeedAttention, func(r, f, m int) bool { return r <= 2 && f >= 3 && m >= 3 }},
	{domain.SegmentHibernating, func(r, f, m int) bool { return r <= 2 && f <= 2 && m <= 2 }},
}

func assignSegment(r, f, m int) string {
	for _, rule := range segmentRules {
		if rule.match(r, f, m) {
			return rule.label
		}
	}
	return domain.SegmentRegular
}

// customerAccum accumulates per-customer order history while scanning rows.
type customerAccum struct {
	key       string
	lastOrder time.Time
	orders    map[string]struct{}
	monetary  float64
}

// ComputeRFM derives one RFM profile per customer from the enriched
// dataset. The snapshot date is the day after the most recent order date in
// the data, so recency is always non-negative. Every row with a customer key
// contributes to frequency and monetary; only the recency side needs an
// order date. Customers with no dated rows at all are excluded since their
// recency is undefined.
func ComputeRFM(ds *dataset.Dataset, logger *slog.Logger) (*RFMResult, error) {
	if !ds.HasColumn(dataset.ColOrderDate) {
		return nil, fmt.Errorf("dataset has no %s column", dataset.ColOrderDate)
	}

	var allKeys []string // customer keys in first-occurrence order
	accums := make(map[string]*customerAccum)
	var maxOrderDate time.Time

	for i := range ds.Rows {
		row := &ds.Rows[i]
		if row.CustomerKey == "" {
			continue
		}
		acc, ok := accums[row.CustomerKey]
		if !ok {
			acc = &customerAccum{key: row.CustomerKey, orders: make(map[string]struct{})}
			accums[row.CustomerKey] = acc
			allKeys = append(allKeys, row.CustomerKey)
		}
		if row.OrderNumber != "" {
			acc.orders[row.OrderNumber] = struct{}{}
		}
		acc.monetary += row.Revenue()
		if row.OrderDate == nil {
			continue
		}
		if row.OrderDate.After(acc.lastOrder) {
			acc.lastOrder = *row.OrderDate
		}
		if row.OrderDate.After(maxOrderDate) {
			maxOrderDate = *row.OrderDate
		}
	}

	keys := make([]string, 0, len(allKeys))
	for _, key := range allKeys {
		if accums[key].lastOrder.IsZero() {
			logger.Warn("customer has no dated orders, excluding from segmentation",
				slog.String("customer_key", key))
			continue
		}
		keys = append(keys, key)
	}

	if len(keys) == 0 {
		return nil, fmt.Errorf("no dated orders to segment")
	}

	snapshot := maxOrderDate.AddDate(0, 0, 1)

	recency := make([]float64, len(keys))
	frequency := make([]float64, len(keys))
	monetary := make([]float64, len(keys))
	for i, key := range keys {
		acc := accums[key]
		recency[i] = snapshot.Sub(acc.lastOrder).Hours() / 24
		frequency[i] = float64(len(acc.orders))
		monetary[i] = acc.monetary
	}

	bins := rfmBins
	if len(keys) < bins {
		bins = len(keys)
		logger.Warn("fewer customers than quantile bins, reducing bin count",
			slog.Int("customers", len(keys)),
			slog.Int("bins", bins))
	}

	rScores := rankScores(recency, bins, true)
	fScores := rankScores(frequency, bins, false)
	mScores := rankScores(monetary, bins, false)

	result := &RFMResult{
		SnapshotDate: snapshot,
		Bins:         bins,
		Profiles:     make([]domain.RFMProfile, len(keys)),
	}
	for i, key := range keys {
		acc := accums[key]
		result.Profiles[i] = domain.RFMProfile{
			CustomerKey: key,
			Recency:     int(recency[i]),
			Frequency:   len(acc.orders),
			Monetary:    acc.monetary,
			RScore:      rScores[i],
			FScore:      fScores[i],
			MScore:      mScores[i],
			Segment:     assignSegment(rScores[i], fScores[i], mScores[i]),
		}
	}

	logger.Info("computed RFM profiles",
		slog.Int("customers", len(result.Profiles)),
		slog.Int("bins", bins),
		slog.Time("snapshot_date", snapshot))

	return result, nil
}
