package segmentation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salescope/internal/dataset"
	"salescope/pkg/contracts/domain"
)

// productRow builds one order line for product segmentation tests.
func productRow(product, order string, orderDate *time.Time, sales, qty float64) domain.Transaction {
	return domain.Transaction{
		ProductKey:    product,
		OrderNumber:   order,
		OrderDate:     orderDate,
		SalesAmount:   amount(sales),
		OrderQuantity: amount(qty),
	}
}

func productDataset(rows ...domain.Transaction) *dataset.Dataset {
	return &dataset.Dataset{
		Rows: rows,
		Columns: map[string]bool{
			dataset.ColOrderDate:     true,
			dataset.ColSalesAmount:   true,
			dataset.ColOrderQuantity: true,
		},
	}
}

func TestABCCategoryBoundaries(t *testing.T) {
	tests := []struct {
		share    float64
		category string
	}{
		{0, domain.ABCCategoryA},
		{60, domain.ABCCategoryA},
		{80.0, domain.ABCCategoryA}, // boundary is inclusive
		{80.01, domain.ABCCategoryB},
		{95.0, domain.ABCCategoryB},
		{95.01, domain.ABCCategoryC},
		{100, domain.ABCCategoryC},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.category, abcCategory(tt.share), "share %.2f", tt.share)
	}
}

func TestXYZCategoryBoundaries(t *testing.T) {
	tests := []struct {
		cv       float64
		category string
	}{
		{0, domain.XYZCategoryX},
		{0.3, domain.XYZCategoryX},
		{0.31, domain.XYZCategoryY},
		{0.6, domain.XYZCategoryY},
		{0.61, domain.XYZCategoryZ},
		{2.5, domain.XYZCategoryZ},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.category, xyzCategory(tt.cv), "cv %.2f", tt.cv)
	}
}

func TestComputeABCXYZCumulativeBanding(t *testing.T) {
	// Revenues 600/300/100 over a 1000 total: cumulative 60%, 90%, 100%.
	ds := productDataset(
		productRow("P1", "SO1", date(2024, 1, 5), 100, 1),
		productRow("P2", "SO2", date(2024, 1, 6), 300, 1),
		productRow("P3", "SO3", date(2024, 2, 7), 600, 1),
	)

	res, err := ComputeABCXYZ(ds, testLogger())
	require.NoError(t, err)
	require.Len(t, res.Profiles, 3)

	assert.Equal(t, "P3", res.Profiles[0].ProductKey)
	assert.InDelta(t, 60.0, res.Profiles[0].CumulativeShare, 1e-9)
	assert.Equal(t, domain.ABCCategoryA, res.Profiles[0].ABCCategory)

	assert.Equal(t, "P2", res.Profiles[1].ProductKey)
	assert.InDelta(t, 90.0, res.Profiles[1].CumulativeShare, 1e-9)
	assert.Equal(t, domain.ABCCategoryB, res.Profiles[1].ABCCategory)

	assert.Equal(t, "P1", res.Profiles[2].ProductKey)
	assert.InDelta(t, 100.0, res.Profiles[2].CumulativeShare, 1e-9)
	assert.Equal(t, domain.ABCCategoryC, res.Profiles[2].ABCCategory)
}

func TestComputeABCXYZCumulativeMonotonic(t *testing.T) {
	ds := productDataset(
		productRow("P1", "SO1", date(2024, 1, 1), 20, 1),
		productRow("P2", "SO2", date(2024, 1, 2), 500, 1),
		productRow("P3", "SO3", date(2024, 2, 3), 500, 1), // revenue tie with P2
		productRow("P4", "SO4", date(2024, 2, 4), 80, 1),
	)

	res, err := ComputeABCXYZ(ds, testLogger())
	require.NoError(t, err)

	prev := 0.0
	for _, p := range res.Profiles {
		assert.GreaterOrEqual(t, p.CumulativeShare, prev, "product %s", p.ProductKey)
		prev = p.CumulativeShare
	}
	// Tied revenues keep first-occurrence order.
	assert.Equal(t, "P2", res.Profiles[0].ProductKey)
	assert.Equal(t, "P3", res.Profiles[1].ProductKey)
}

func TestComputeABCXYZVariation(t *testing.T) {
	// P1 sells 10 units in each of two months: CV 0, category X.
	// P2 sells 10 units in January only: high CV, category Z.
	ds := productDataset(
		productRow("P1", "SO1", date(2024, 1, 1), 1000, 10),
		productRow("P1", "SO2", date(2024, 2, 1), 1000, 10),
		productRow("P2", "SO3", date(2024, 1, 15), 500, 10),
	)

	res, err := ComputeABCXYZ(ds, testLogger())
	require.NoError(t, err)
	require.Len(t, res.Profiles, 2)
	assert.False(t, res.XYZDegraded)
	assert.Equal(t, 2, res.Months)

	byKey := make(map[string]domain.ProductProfile)
	for _, p := range res.Profiles {
		byKey[p.ProductKey] = p
	}

	p1 := byKey["P1"]
	assert.InDelta(t, 0.0, p1.CV, 1e-6)
	assert.Equal(t, domain.XYZCategoryX, p1.XYZCategory)
	assert.Equal(t, "A-X", p1.Label)

	p2 := byKey["P2"]
	// Monthly quantities {10, 0}: mean 5, sample std ~7.07, CV ~1.41.
	assert.InDelta(t, 1.414, p2.CV, 0.01)
	assert.Equal(t, domain.XYZCategoryZ, p2.XYZCategory)
}

func TestComputeABCXYZDegradedPivot(t *testing.T) {
	// A single calendar month cannot support a variation measure: XYZ
	// degrades to Unknown while ABC still classifies.
	ds := productDataset(
		productRow("P1", "SO1", date(2024, 1, 1), 900, 5),
		productRow("P2", "SO2", date(2024, 1, 20), 100, 5),
	)

	res, err := ComputeABCXYZ(ds, testLogger())
	require.NoError(t, err)
	assert.True(t, res.XYZDegraded)

	for _, p := range res.Profiles {
		assert.Equal(t, domain.XYZCategoryUnknown, p.XYZCategory)
		assert.Equal(t, p.ABCCategory+"-Unknown", p.Label)
		assert.NotEmpty(t, p.ABCCategory)
	}
}

func TestComputeABCXYZAggregation(t *testing.T) {
	profit := 40.0
	row := productRow("P1", "SO1", date(2024, 1, 1), 100, 2)
	row.Profit = &profit
	row.ProductName = func() *string { s := "Mountain Bike"; return &s }()

	again := productRow("P1", "SO2", date(2024, 2, 1), 50, 1)

	res, err := ComputeABCXYZ(productDataset(row, again), testLogger())
	require.NoError(t, err)
	require.Len(t, res.Profiles, 1)

	p := res.Profiles[0]
	assert.Equal(t, "Mountain Bike", p.ProductName)
	assert.InDelta(t, 150.0, p.Revenue, 1e-9)
	assert.InDelta(t, 3.0, p.Quantity, 1e-9)
	assert.InDelta(t, 40.0, p.Profit, 1e-9)
	assert.Equal(t, 2, p.OrderCount)
}

func TestComputeABCXYZNoProducts(t *testing.T) {
	_, err := ComputeABCXYZ(productDataset(), testLogger())
	assert.Error(t, err)
}
