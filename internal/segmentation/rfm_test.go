package segmentation

import (
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salescope/internal/dataset"
	"salescope/pkg/contracts/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func date(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func amount(v float64) *float64 {
	return &v
}

// saleRow builds one order line for segmentation tests.
func saleRow(customer, order string, orderDate *time.Time, sales float64) domain.Transaction {
	return domain.Transaction{
		CustomerKey: customer,
		OrderNumber: order,
		OrderDate:   orderDate,
		SalesAmount: amount(sales),
	}
}

func salesDataset(rows ...domain.Transaction) *dataset.Dataset {
	return &dataset.Dataset{
		Rows: rows,
		Columns: map[string]bool{
			dataset.ColOrderDate:   true,
			dataset.ColSalesAmount: true,
		},
	}
}

func TestAssignSegment(t *testing.T) {
	tests := []struct {
		name    string
		r, f, m int
		segment string
	}{
		{"all top scores", 5, 5, 5, domain.SegmentChampions},
		{"champions boundary", 4, 4, 4, domain.SegmentChampions},
		{"loyal customers", 3, 3, 3, domain.SegmentLoyal},
		{"recent low spender", 4, 2, 1, domain.SegmentNew},
		{"promising", 3, 1, 2, domain.SegmentPromising},
		{"lapsed high value", 2, 4, 4, domain.SegmentNeedAttention},
		{"hibernating", 1, 1, 1, domain.SegmentHibernating},
		{"mixed scores fall through", 5, 3, 1, domain.SegmentRegular},
		{"priority: loyal beats need attention ordering", 3, 5, 5, domain.SegmentLoyal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.segment, assignSegment(tt.r, tt.f, tt.m))
		})
	}
}

func TestComputeRFMMetrics(t *testing.T) {
	ds := salesDataset(
		saleRow("C1", "SO1", date(2024, 1, 10), 100),
		saleRow("C1", "SO1", date(2024, 1, 10), 50), // second line, same order
		saleRow("C1", "SO2", date(2024, 3, 1), 200),
		saleRow("C2", "SO3", date(2024, 2, 15), 75),
	)

	res, err := ComputeRFM(ds, testLogger())
	require.NoError(t, err)
	require.Len(t, res.Profiles, 2)

	// Snapshot is the day after the latest order date.
	assert.Equal(t, time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC), res.SnapshotDate)

	c1 := res.Profiles[0]
	assert.Equal(t, "C1", c1.CustomerKey)
	assert.Equal(t, 1, c1.Recency)
	assert.Equal(t, 2, c1.Frequency) // distinct orders, not lines
	assert.InDelta(t, 350.0, c1.Monetary, 1e-9)

	c2 := res.Profiles[1]
	assert.Equal(t, "C2", c2.CustomerKey)
	assert.Equal(t, 16, c2.Recency)
	assert.Equal(t, 1, c2.Frequency)
	assert.InDelta(t, 75.0, c2.Monetary, 1e-9)
}

func TestComputeRFMRecencyNonNegative(t *testing.T) {
	ds := salesDataset(
		saleRow("C1", "SO1", date(2024, 5, 1), 10),
		saleRow("C2", "SO2", date(2024, 5, 1), 10),
	)

	res, err := ComputeRFM(ds, testLogger())
	require.NoError(t, err)
	for _, p := range res.Profiles {
		assert.GreaterOrEqual(t, p.Recency, 1, "customer %s", p.CustomerKey)
	}
}

func TestComputeRFMMonetaryRanking(t *testing.T) {
	// Three customers with equal recency and frequency: the biggest spender
	// must get the top monetary score among the three.
	ds := salesDataset(
		saleRow("C1", "SO1", date(2024, 1, 1), 100),
		saleRow("C2", "SO2", date(2024, 1, 1), 500),
		saleRow("C3", "SO3", date(2024, 1, 1), 1000),
	)

	res, err := ComputeRFM(ds, testLogger())
	require.NoError(t, err)
	require.Len(t, res.Profiles, 3)
	assert.Equal(t, 3, res.Bins, "bin count degrades to population size")

	byKey := make(map[string]domain.RFMProfile)
	for _, p := range res.Profiles {
		byKey[p.CustomerKey] = p
	}
	assert.Equal(t, res.Bins, byKey["C3"].MScore)
	assert.Greater(t, byKey["C3"].MScore, byKey["C2"].MScore)
	assert.Greater(t, byKey["C2"].MScore, byKey["C1"].MScore)
}

func TestComputeRFMQuintilePartition(t *testing.T) {
	var rows []domain.Transaction
	for i := 0; i < 20; i++ {
		key := fmt.Sprintf("C%02d", i)
		order := fmt.Sprintf("SO%02d", i)
		rows = append(rows, saleRow(key, order, date(2024, 1, 1+i), float64(10*(i+1))))
	}

	res, err := ComputeRFM(salesDataset(rows...), testLogger())
	require.NoError(t, err)
	require.Len(t, res.Profiles, 20)
	assert.Equal(t, 5, res.Bins)

	rCounts := make(map[int]int)
	mCounts := make(map[int]int)
	segTotal := 0
	for _, p := range res.Profiles {
		rCounts[p.RScore]++
		mCounts[p.MScore]++
		assert.NotEmpty(t, p.Segment)
		segTotal++
	}
	for score := 1; score <= 5; score++ {
		assert.Equal(t, 4, rCounts[score], "R score %d", score)
		assert.Equal(t, 4, mCounts[score], "M score %d", score)
	}

	counts := res.SegmentCounts()
	sum := 0
	for _, c := range counts {
		sum += c
	}
	assert.Equal(t, len(res.Profiles), sum, "segment counts cover every customer")
}

func TestComputeRFMUndatedRowsStillCount(t *testing.T) {
	// An undated line cannot move recency, but its revenue and order still
	// belong to the customer.
	ds := salesDataset(
		saleRow("C1", "SO1", date(2024, 1, 1), 100),
		saleRow("C1", "SO2", nil, 999),
	)

	res, err := ComputeRFM(ds, testLogger())
	require.NoError(t, err)
	require.Len(t, res.Profiles, 1)

	c1 := res.Profiles[0]
	assert.Equal(t, 2, c1.Frequency)
	assert.InDelta(t, 1099.0, c1.Monetary, 1e-9)
	assert.Equal(t, 1, c1.Recency)
	assert.Equal(t, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), res.SnapshotDate)
}

func TestComputeRFMExcludesFullyUndatedCustomers(t *testing.T) {
	ds := salesDataset(
		saleRow("C1", "SO1", date(2024, 1, 1), 100),
		saleRow("C2", "SO2", nil, 999),
	)

	res, err := ComputeRFM(ds, testLogger())
	require.NoError(t, err)
	require.Len(t, res.Profiles, 1)
	assert.Equal(t, "C1", res.Profiles[0].CustomerKey)
}

func TestComputeRFMErrors(t *testing.T) {
	t.Run("missing order date column", func(t *testing.T) {
		ds := &dataset.Dataset{Columns: map[string]bool{dataset.ColSalesAmount: true}}
		_, err := ComputeRFM(ds, testLogger())
		assert.Error(t, err)
	})

	t.Run("no dated orders", func(t *testing.T) {
		ds := salesDataset(saleRow("C1", "SO1", nil, 10))
		_, err := ComputeRFM(ds, testLogger())
		assert.Error(t, err)
	})
}
