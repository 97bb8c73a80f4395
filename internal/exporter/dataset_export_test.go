package exporter

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salescope/internal/dataset"
	"salescope/internal/insights"
	"salescope/internal/segmentation"
	"salescope/pkg/contracts/domain"
)

func TestWriteDatasetSkipsAbsentColumns(t *testing.T) {
	dir := t.TempDir()
	w := NewCSVWriter(dir)

	amount := 99.5
	orderDate := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	ds := &dataset.Dataset{
		Columns: map[string]bool{
			dataset.ColSalesOrderNumber: true,
			dataset.ColOrderDate:        true,
			dataset.ColSalesAmount:      true,
		},
		Rows: []domain.Transaction{
			{OrderNumber: "SO1", OrderDate: &orderDate, SalesAmount: &amount},
			{OrderNumber: "SO2"},
		},
	}

	require.NoError(t, w.WriteDataset(ds, "cleaned.csv"))

	records := readCSVFile(t, filepath.Join(dir, "cleaned.csv"))
	require.Len(t, records, 3)
	assert.Equal(t, []string{
		dataset.ColSalesOrderNumber, dataset.ColOrderDate, dataset.ColSalesAmount,
	}, records[0])
	assert.Equal(t, []string{"SO1", "2024-03-01", "99.50"}, records[1])
	// Missing values render as empty cells.
	assert.Equal(t, []string{"SO2", "", ""}, records[2])
}

func TestWriteRFM(t *testing.T) {
	dir := t.TempDir()
	w := NewCSVWriter(dir)

	res := &segmentation.RFMResult{
		SnapshotDate: time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC),
		Bins:         5,
		Profiles: []domain.RFMProfile{
			{
				CustomerKey: "C1", Recency: 3, Frequency: 12, Monetary: 1500.5,
				RScore: 5, FScore: 5, MScore: 4, Segment: domain.SegmentChampions,
			},
		},
	}

	require.NoError(t, w.WriteRFM(res, "rfm.csv"))

	records := readCSVFile(t, filepath.Join(dir, "rfm.csv"))
	require.Len(t, records, 2)
	assert.Equal(t, []string{
		"CustomerKey", "Recency", "Frequency", "Monetary",
		"R_Score", "F_Score", "M_Score", "RFM_Score", "Segment",
	}, records[0])
	assert.Equal(t, []string{
		"C1", "3", "12", "1500.50", "5", "5", "4", "554", "Champions",
	}, records[1])
}

func TestWriteProducts(t *testing.T) {
	dir := t.TempDir()
	w := NewCSVWriter(dir)

	res := &segmentation.ABCXYZResult{
		Profiles: []domain.ProductProfile{
			{
				ProductKey: "P1", ProductName: "Mountain-100",
				Revenue: 600, Quantity: 4, Profit: 240, OrderCount: 3,
				CumulativeShare: 60, ABCCategory: domain.ABCCategoryA,
				CV: 0.1234, XYZCategory: domain.XYZCategoryX, Label: "A-X",
			},
		},
	}

	require.NoError(t, w.WriteProducts(res, "products.csv"))

	records := readCSVFile(t, filepath.Join(dir, "products.csv"))
	require.Len(t, records, 2)
	assert.Equal(t, []string{
		"P1", "Mountain-100", "600.00", "4.00", "240.00", "3",
		"60.00", "A", "0.1234", "X", "A-X",
	}, records[1])
}

func TestWriteReport(t *testing.T) {
	dir := t.TempDir()
	w := NewCSVWriter(dir)

	amount := 100.0
	ds := &dataset.Dataset{
		Columns:           map[string]bool{dataset.ColSalesAmount: true},
		Rows:              []domain.Transaction{{OrderNumber: "SO1", SalesAmount: &amount}},
		DuplicatesRemoved: 2,
		Missing: []dataset.MissingColumn{
			{Column: dataset.ColShipDate, Count: 1, Percent: 100},
		},
	}
	summary := &insights.Summary{BestRegion: "Northwest"}
	rfm := &segmentation.RFMResult{
		SnapshotDate: time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC),
		Bins:         5,
		Profiles: []domain.RFMProfile{
			{CustomerKey: "C1", Segment: domain.SegmentChampions},
			{CustomerKey: "C2", Segment: domain.SegmentHibernating},
		},
	}
	products := &segmentation.ABCXYZResult{
		XYZDegraded: true,
		Profiles: []domain.ProductProfile{
			{ProductKey: "P1", Revenue: 600, ABCCategory: domain.ABCCategoryA,
				XYZCategory: domain.XYZCategoryUnknown, Label: "A-Unknown"},
		},
	}

	err := w.WriteReport("report.txt", ReportData{
		GeneratedAt: time.Date(2024, 4, 2, 10, 30, 0, 0, time.UTC),
		Dataset:     ds,
		Summary:     summary,
		Findings:    []insights.Finding{{Label: "Total revenue", Value: "$100"}},
		RFM:         rfm,
		Products:    products,
	})
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "report.txt"))
	require.NoError(t, err)
	report := string(data)

	assert.Contains(t, report, "SALES ANALYSIS REPORT")
	assert.Contains(t, report, "Generated: 2024-04-02 10:30:00")
	assert.Contains(t, report, "Duplicates removed: 2")
	assert.Contains(t, report, dataset.ColShipDate)
	assert.Contains(t, report, "1. Total revenue: $100")
	assert.Contains(t, report, "Snapshot date: 2024-04-01")
	assert.Contains(t, report, "Champions")
	assert.Contains(t, report, "XYZ analysis unavailable")
	assert.Contains(t, report, "reactivation campaign for the 1 Hibernating")
	assert.Contains(t, report, "A-category products (100.0% of revenue)")
	assert.Contains(t, report, "Northwest region")
}
