package segmentation

import (
	"fmt"
	"log/slog"
	"math"
	"sort"

	"salescope/internal/dataset"
	"salescope/pkg/contracts/domain"
)

// ABC cumulative revenue-share boundaries, in percent. Boundaries are
// inclusive and evaluated on the running cumulative total including the
// current product: a product landing exactly on 80.0% is still "A".
const (
	abcBoundaryA = 80.0
	abcBoundaryB = 95.0
)

// XYZ coefficient-of-variation boundaries.
const (
	xyzBoundaryX = 0.3
	xyzBoundaryY = 0.6
)

// cvEpsilon stabilizes the CV division for products with a zero monthly
// mean. Inherited from the reference analysis; any small positive constant
// keeps results stable under small input perturbations.
const cvEpsilon = 1e-4

// ABCXYZResult is the output of one product segmentation run.
type ABCXYZResult struct {
	Profiles []domain.ProductProfile

	// XYZDegraded is set when the monthly pivot was structurally impossible
	// (fewer than two calendar months of data); every profile then carries
	// the "Unknown" XYZ category while the ABC classification stands.
	XYZDegraded bool
	Months      int
}

// ABCCounts returns per-ABC-category product counts.
func (r *ABCXYZResult) ABCCounts() map[string]int {
	counts := make(map[string]int)
	for _, p := range r.Profiles {
		counts[p.ABCCategory]++
	}
	return counts
}

// XYZCounts returns per-XYZ-category product counts.
func (r *ABCXYZResult) XYZCounts() map[string]int {
	counts := make(map[string]int)
	for _, p := range r.Profiles {
		counts[p.XYZCategory]++
	}
	return counts
}

// productAccum accumulates per-product sales while scanning rows.
type productAccum struct {
	key     string
	name    string
	revenue float64
	qty     float64
	profit  float64
	orders  map[string]struct{}
	monthly map[string]float64 // "2006-01" -> quantity
}

// ComputeABCXYZ derives one profile per product: ABC banding over cumulative
// revenue share and XYZ banding over the coefficient of variation of monthly
// order quantity. A failed XYZ pivot degrades to "Unknown" categories; it
// never aborts the ABC result.
func ComputeABCXYZ(ds *dataset.Dataset, logger *slog.Logger) (*ABCXYZResult, error) {
	var keys []string
	accums := make(map[string]*productAccum)
	months := make(map[string]struct{})

	for i := range ds.Rows {
		row := &ds.Rows[i]
		if row.ProductKey == "" {
			continue
		}
		acc, ok := accums[row.ProductKey]
		if !ok {
			acc = &productAccum{
				key:     row.ProductKey,
				orders:  make(map[string]struct{}),
				monthly: make(map[string]float64),
			}
			accums[row.ProductKey] = acc
			keys = append(keys, row.ProductKey)
		}
		if acc.name == "" && row.ProductName != nil {
			acc.name = *row.ProductName
		}
		acc.revenue += row.Revenue()
		acc.qty += row.Quantity()
		if row.Profit != nil {
			acc.profit += *row.Profit
		}
		if row.OrderNumber != "" {
			acc.orders[row.OrderNumber] = struct{}{}
		}
		if row.OrderDate != nil {
			month := row.OrderDate.Format("2006-01")
			months[month] = struct{}{}
			acc.monthly[month] += row.Quantity()
		}
	}

	if len(keys) == 0 {
		return nil, fmt.Errorf("no products to segment")
	}

	// Sort descending by revenue; ties keep first-occurrence order so the
	// cumulative banding is deterministic.
	sort.SliceStable(keys, func(a, b int) bool {
		return accums[keys[a]].revenue > accums[keys[b]].revenue
	})

	var total float64
	for _, key := range keys {
		total += accums[key].revenue
	}

	result := &ABCXYZResult{
		Profiles: make([]domain.ProductProfile, len(keys)),
		Months:   len(months),
	}

	// XYZ needs at least two calendar months for a meaningful variation
	// measure; with less the pivot degrades rather than aborting.
	result.XYZDegraded = len(months) < 2
	if result.XYZDegraded {
		logger.Warn("monthly pivot degraded, XYZ categories unknown",
			slog.Int("months", len(months)))
	}

	monthKeys := make([]string, 0, len(months))
	for m := range months {
		monthKeys = append(monthKeys, m)
	}
	sort.Strings(monthKeys)

	var cumulative float64
	for i, key := range keys {
		acc := accums[key]
		cumulative += acc.revenue

		share := 0.0
		if total > 0 {
			share = cumulative / total * 100
		}

		profile := domain.ProductProfile{
			ProductKey:      acc.key,
			ProductName:     acc.name,
			Revenue:         acc.revenue,
			Quantity:        acc.qty,
			Profit:          acc.profit,
			OrderCount:      len(acc.orders),
			CumulativeShare: share,
			ABCCategory:     abcCategory(share),
			XYZCategory:     domain.XYZCategoryUnknown,
		}

		if !result.XYZDegraded {
			profile.CV = variationCoefficient(acc.monthly, monthKeys)
			profile.XYZCategory = xyzCategory(profile.CV)
		}
		profile.Label = profile.ABCCategory + "-" + profile.XYZCategory

		result.Profiles[i] = profile
	}

	logger.Info("computed product segmentation",
		slog.Int("products", len(result.Profiles)),
		slog.Int("months", len(months)),
		slog.Bool("xyz_degraded", result.XYZDegraded))

	return result, nil
}

func abcCategory(cumulativeShare float64) string {
	switch {
	case cumulativeShare <= abcBoundaryA:
		return domain.ABCCategoryA
	case cumulativeShare <= abcBoundaryB:
		return domain.ABCCategoryB
	default:
		return domain.ABCCategoryC
	}
}

func xyzCategory(cv float64) string {
	switch {
	case cv <= xyzBoundaryX:
		return domain.XYZCategoryX
	case cv <= xyzBoundaryY:
		return domain.XYZCategoryY
	default:
		return domain.XYZCategoryZ
	}
}

// variationCoefficient computes sample-stddev / (mean + epsilon) over the
// product's quantity for every calendar month present in the data, with
// missing product-month combinations counted as zero.
func variationCoefficient(monthly map[string]float64, monthKeys []string) float64 {
	n := len(monthKeys)
	if n < 2 {
		return 0
	}

	var sum float64
	for _, m := range monthKeys {
		sum += monthly[m]
	}
	mean := sum / float64(n)

	var sq float64
	for _, m := range monthKeys {
		d := monthly[m] - mean
		sq += d * d
	}
	std := math.Sqrt(sq / float64(n-1))

	return std / (mean + cvEpsilon)
}
