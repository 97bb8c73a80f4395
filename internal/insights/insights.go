package insights

import (
	"fmt"
	"log/slog"
	"sort"
	"time"

	"salescope/internal/dataset"
)

// Finding is one labeled, human-readable insight.
type Finding struct {
	Label string
	Value string
}

// Summary holds the headline business metrics extracted from the enriched
// dataset. Optional fields stay zero-valued when their source columns were
// absent; the corresponding findings are then omitted.
type Summary struct {
	TotalRevenue   float64
	TotalOrders    int
	TotalCustomers int
	TotalProducts  int
	AvgOrderValue  float64 // mean of per-order revenue sums, not per-line

	TopCustomerShare float64 // revenue share of the top 20% of customers, percent

	BestRegion         string
	BestRegionRevenue  float64
	BestCategory       string
	BestCategoryRev    float64
	BestMonth          time.Month
	BestMonthRevenue   float64
	WorstMonth         time.Month
	WorstMonthRevenue  float64

	TotalProfit   float64
	BlendedMargin float64 // total profit / total revenue, percent
}

// Extract computes the summary and its findings list. Pure aggregation over
// the dataset; no side effects.
func Extract(ds *dataset.Dataset, logger *slog.Logger) (*Summary, []Finding) {
	s := &Summary{}
	var findings []Finding

	orders := make(map[string]float64)
	customers := make(map[string]float64)
	products := make(map[string]struct{})
	regions := make(map[string]float64)
	categories := make(map[string]float64)
	monthly := make(map[time.Month]float64)
	hasProfit := ds.HasColumn(dataset.ColProfit)

	for i := range ds.Rows {
		row := &ds.Rows[i]
		rev := row.Revenue()
		s.TotalRevenue += rev
		if row.OrderNumber != "" {
			orders[row.OrderNumber] += rev
		}
		if row.CustomerKey != "" {
			customers[row.CustomerKey] += rev
		}
		if row.ProductKey != "" {
			products[row.ProductKey] = struct{}{}
		}
		if row.Region != nil {
			regions[*row.Region] += rev
		}
		if row.Category != nil {
			categories[*row.Category] += rev
		}
		if row.OrderDate != nil {
			monthly[row.OrderDate.Month()] += rev
		}
		if hasProfit && row.Profit != nil {
			s.TotalProfit += *row.Profit
		}
	}

	s.TotalOrders = len(orders)
	s.TotalCustomers = len(customers)
	s.TotalProducts = len(products)
	if len(orders) > 0 {
		var orderTotal float64
		for _, v := range orders {
			orderTotal += v
		}
		s.AvgOrderValue = orderTotal / float64(len(orders))
	}

	findings = append(findings,
		Finding{"Total revenue", fmt.Sprintf("$%.0f", s.TotalRevenue)},
		Finding{"Customers", fmt.Sprintf("%d", s.TotalCustomers)},
		Finding{"Products", fmt.Sprintf("%d", s.TotalProducts)},
		Finding{"Average order value", fmt.Sprintf("$%.0f", s.AvgOrderValue)},
	)

	if share, ok := topCustomerShare(customers, s.TotalRevenue); ok {
		s.TopCustomerShare = share
		findings = append(findings, Finding{
			"Customer concentration",
			fmt.Sprintf("top 20%% of customers generate %.1f%% of revenue", share),
		})
	}

	if name, rev, ok := maxEntry(regions); ok {
		s.BestRegion, s.BestRegionRevenue = name, rev
		findings = append(findings, Finding{
			"Best region", fmt.Sprintf("%s ($%.0f)", name, rev),
		})
	}

	if name, rev, ok := maxEntry(categories); ok {
		s.BestCategory, s.BestCategoryRev = name, rev
		findings = append(findings, Finding{
			"Best category", fmt.Sprintf("%s ($%.0f)", name, rev),
		})
	}

	if best, worst, ok := monthExtremes(monthly); ok {
		s.BestMonth, s.BestMonthRevenue = best, monthly[best]
		s.WorstMonth, s.WorstMonthRevenue = worst, monthly[worst]
		findings = append(findings,
			Finding{"Best month", fmt.Sprintf("%s ($%.0f)", best, monthly[best])},
			Finding{"Worst month", fmt.Sprintf("%s ($%.0f)", worst, monthly[worst])},
		)
	}

	if hasProfit {
		if s.TotalRevenue != 0 {
			s.BlendedMargin = s.TotalProfit / s.TotalRevenue * 100
		}
		findings = append(findings,
			Finding{"Total profit", fmt.Sprintf("$%.0f", s.TotalProfit)},
			Finding{"Blended margin", fmt.Sprintf("%.1f%%", s.BlendedMargin)},
		)
	}

	logger.Info("extracted insights",
		slog.Int("findings", len(findings)),
		slog.Float64("total_revenue", s.TotalRevenue),
		slog.Int("orders", s.TotalOrders))

	return s, findings
}

// topCustomerShare computes the revenue share of the top 20% of customers.
// Meaningless for fewer than five customers; ok is false then.
func topCustomerShare(customers map[string]float64, totalRevenue float64) (float64, bool) {
	topN := len(customers) / 5
	if topN == 0 || totalRevenue == 0 {
		return 0, false
	}

	values := make([]float64, 0, len(customers))
	for _, v := range customers {
		values = append(values, v)
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(values)))

	var top float64
	for _, v := range values[:topN] {
		top += v
	}
	return top / totalRevenue * 100, true
}

// maxEntry returns the key with the highest value. Ties resolve to the
// lexicographically smallest key for determinism.
func maxEntry(m map[string]float64) (string, float64, bool) {
	if len(m) == 0 {
		return "", 0, false
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	best := keys[0]
	for _, k := range keys[1:] {
		if m[k] > m[best] {
			best = k
		}
	}
	return best, m[best], true
}

func monthExtremes(monthly map[time.Month]float64) (best, worst time.Month, ok bool) {
	if len(monthly) == 0 {
		return 0, 0, false
	}
	for m := time.January; m <= time.December; m++ {
		rev, present := monthly[m]
		if !present {
			continue
		}
		if !ok {
			best, worst, ok = m, m, true
			continue
		}
		if rev > monthly[best] {
			best = m
		}
		if rev < monthly[worst] {
			worst = m
		}
	}
	return best, worst, ok
}
