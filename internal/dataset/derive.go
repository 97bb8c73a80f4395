package dataset

import (
	"time"

	"salescope/pkg/contracts/domain"
)

// Income segment breakpoints, in yearly-income units.
const (
	incomeLowMax    = 50000
	incomeMediumMax = 80000
	incomeHighMax   = 100000
)

// derivation declares one derived column: its name, the source columns it
// needs, and how to compute it for a single row. A derivation whose source
// columns are absent from the run's schema is skipped entirely; its column
// is simply not produced.
type derivation struct {
	name     string
	requires []string
	apply    func(t *domain.Transaction, now time.Time)
}

var derivations = []derivation{
	{
		name:     ColOrderYear,
		requires: []string{ColOrderDate},
		apply: func(t *domain.Transaction, _ time.Time) {
			if t.OrderDate != nil {
				y := t.OrderDate.Year()
				t.OrderYear = &y
			}
		},
	},
	{
		name:     ColOrderMonth,
		requires: []string{ColOrderDate},
		apply: func(t *domain.Transaction, _ time.Time) {
			if t.OrderDate != nil {
				m := int(t.OrderDate.Month())
				t.OrderMonth = &m
			}
		},
	},
	{
		name:     ColOrderQuarter,
		requires: []string{ColOrderDate},
		apply: func(t *domain.Transaction, _ time.Time) {
			if t.OrderDate != nil {
				q := (int(t.OrderDate.Month())-1)/3 + 1
				t.OrderQuarter = &q
			}
		},
	},
	{
		name:     ColOrderDayOfWeek,
		requires: []string{ColOrderDate},
		apply: func(t *domain.Transaction, _ time.Time) {
			if t.OrderDate != nil {
				d := t.OrderDate.Weekday().String()
				t.OrderDayOfWeek = &d
			}
		},
	},
	{
		name:     ColDeliveryDays,
		requires: []string{ColOrderDate, ColShipDate},
		apply: func(t *domain.Transaction, _ time.Time) {
			// May be negative for bad source data; not clamped.
			if t.OrderDate != nil && t.ShipDate != nil {
				days := int(t.ShipDate.Sub(*t.OrderDate) / (24 * time.Hour))
				t.DeliveryDays = &days
			}
		},
	},
	{
		name:     ColIncomeSegment,
		requires: []string{ColYearlyIncome},
		apply: func(t *domain.Transaction, _ time.Time) {
			if t.YearlyIncome != nil {
				seg := incomeSegment(*t.YearlyIncome)
				t.IncomeSegment = &seg
			}
		},
	},
	{
		name:     ColAge,
		requires: []string{ColBirthDate},
		apply: func(t *domain.Transaction, now time.Time) {
			if t.BirthDate != nil {
				age := int(now.Sub(*t.BirthDate)/(24*time.Hour)) / 365
				t.Age = &age
			}
		},
	},
	{
		name:     ColProfit,
		requires: []string{ColSalesAmount, ColTotalProductCost},
		apply: func(t *domain.Transaction, _ time.Time) {
			if t.SalesAmount != nil && t.ProductCost != nil {
				p := *t.SalesAmount - *t.ProductCost
				t.Profit = &p
			}
		},
	},
	{
		name:     ColProfitMargin,
		requires: []string{ColSalesAmount, ColTotalProductCost},
		apply: func(t *domain.Transaction, _ time.Time) {
			// Undefined when the sale amount is zero, not a division error.
			if t.SalesAmount != nil && t.ProductCost != nil && *t.SalesAmount != 0 {
				m := (*t.SalesAmount - *t.ProductCost) / *t.SalesAmount * 100
				t.ProfitMargin = &m
			}
		},
	},
}

// derive runs every derivation whose required source columns are present,
// records the produced columns in the dataset schema, and returns their
// names in declaration order.
func derive(ds *Dataset, now time.Time) []string {
	var produced []string
	for _, d := range derivations {
		if !hasAll(ds.Columns, d.requires) {
			continue
		}
		for i := range ds.Rows {
			d.apply(&ds.Rows[i], now)
		}
		ds.Columns[d.name] = true
		produced = append(produced, d.name)
	}
	return produced
}

func hasAll(columns map[string]bool, names []string) bool {
	for _, name := range names {
		if !columns[name] {
			return false
		}
	}
	return true
}

func incomeSegment(income float64) string {
	switch {
	case income <= incomeLowMax:
		return "Low"
	case income <= incomeMediumMax:
		return "Medium"
	case income <= incomeHighMax:
		return "High"
	default:
		return "Very High"
	}
}
