package exporter

import (
	"fmt"

	"salescope/internal/dataset"
	"salescope/internal/segmentation"
	"salescope/pkg/contracts/domain"
)

// datasetColumn describes one column of the cleaned-dataset export: its
// header plus the cell renderer. Columns absent from the run's schema are
// skipped so the CSV mirrors what the pipeline actually produced.
type datasetColumn struct {
	name string
	cell func(*domain.Transaction) string
}

var datasetColumns = []datasetColumn{
	{dataset.ColSalesOrderNumber, func(t *domain.Transaction) string { return t.OrderNumber }},
	{dataset.ColOrderDate, func(t *domain.Transaction) string { return formatDatePtr(t.OrderDate) }},
	{dataset.ColShipDate, func(t *domain.Transaction) string { return formatDatePtr(t.ShipDate) }},
	{dataset.ColCustomerKey, func(t *domain.Transaction) string { return t.CustomerKey }},
	{dataset.ColProductKey, func(t *domain.Transaction) string { return t.ProductKey }},
	{dataset.ColSalesTerritoryKey, func(t *domain.Transaction) string { return t.TerritoryKey }},
	{dataset.ColOrderQuantity, func(t *domain.Transaction) string { return formatFloatPtr(t.OrderQuantity) }},
	{dataset.ColUnitPrice, func(t *domain.Transaction) string { return formatFloatPtr(t.UnitPrice) }},
	{dataset.ColSalesAmount, func(t *domain.Transaction) string { return formatFloatPtr(t.SalesAmount) }},
	{dataset.ColTotalProductCost, func(t *domain.Transaction) string { return formatFloatPtr(t.ProductCost) }},
	{dataset.ColTaxAmt, func(t *domain.Transaction) string { return formatFloatPtr(t.TaxAmount) }},
	{dataset.ColCustomerName, func(t *domain.Transaction) string { return formatStringPtr(t.CustomerName) }},
	{dataset.ColBirthDate, func(t *domain.Transaction) string { return formatDatePtr(t.BirthDate) }},
	{dataset.ColYearlyIncome, func(t *domain.Transaction) string { return formatFloatPtr(t.YearlyIncome) }},
	{dataset.ColTotalChildren, func(t *domain.Transaction) string { return formatFloatPtr(t.TotalChildren) }},
	{dataset.ColNumberCarsOwned, func(t *domain.Transaction) string { return formatFloatPtr(t.CarsOwned) }},
	{dataset.ColOccupation, func(t *domain.Transaction) string { return formatStringPtr(t.Occupation) }},
	{dataset.ColProductName, func(t *domain.Transaction) string { return formatStringPtr(t.ProductName) }},
	{dataset.ColCategory, func(t *domain.Transaction) string { return formatStringPtr(t.Category) }},
	{dataset.ColSubCategory, func(t *domain.Transaction) string { return formatStringPtr(t.SubCategory) }},
	{dataset.ColColor, func(t *domain.Transaction) string { return formatStringPtr(t.Color) }},
	{dataset.ColListPrice, func(t *domain.Transaction) string { return formatFloatPtr(t.ListPrice) }},
	{dataset.ColStandardCost, func(t *domain.Transaction) string { return formatFloatPtr(t.StandardCost) }},
	{dataset.ColRegion, func(t *domain.Transaction) string { return formatStringPtr(t.Region) }},
	{dataset.ColCountry, func(t *domain.Transaction) string { return formatStringPtr(t.Country) }},
	{dataset.ColContinent, func(t *domain.Transaction) string { return formatStringPtr(t.Continent) }},
	{dataset.ColOrderYear, func(t *domain.Transaction) string { return formatIntPtr(t.OrderYear) }},
	{dataset.ColOrderMonth, func(t *domain.Transaction) string { return formatIntPtr(t.OrderMonth) }},
	{dataset.ColOrderQuarter, func(t *domain.Transaction) string { return formatIntPtr(t.OrderQuarter) }},
	{dataset.ColOrderDayOfWeek, func(t *domain.Transaction) string { return formatStringPtr(t.OrderDayOfWeek) }},
	{dataset.ColDeliveryDays, func(t *domain.Transaction) string { return formatIntPtr(t.DeliveryDays) }},
	{dataset.ColIncomeSegment, func(t *domain.Transaction) string { return formatStringPtr(t.IncomeSegment) }},
	{dataset.ColAge, func(t *domain.Transaction) string { return formatIntPtr(t.Age) }},
	{dataset.ColProfit, func(t *domain.Transaction) string { return formatFloatPtr(t.Profit) }},
	{dataset.ColProfitMargin, func(t *domain.Transaction) string { return formatFloatPtr(t.ProfitMargin) }},
}

// WriteDataset streams the cleaned, enriched dataset to a CSV file.
func (w *CSVWriter) WriteDataset(ds *dataset.Dataset, name string) error {
	var columns []datasetColumn
	var headers []string
	for _, col := range datasetColumns {
		if ds.HasColumn(col.name) {
			columns = append(columns, col)
			headers = append(headers, col.name)
		}
	}

	stream, err := w.CreateStreamWriter(name, headers)
	if err != nil {
		return fmt.Errorf("create dataset stream: %w", err)
	}

	record := make([]string, len(columns))
	for i := range ds.Rows {
		for j, col := range columns {
			record[j] = col.cell(&ds.Rows[i])
		}
		if err := stream.WriteRecord(record); err != nil {
			stream.Close()
			return fmt.Errorf("write dataset row %d: %w", i, err)
		}
	}

	return stream.Close()
}

// WriteRFM writes one row per customer RFM profile.
func (w *CSVWriter) WriteRFM(res *segmentation.RFMResult, name string) error {
	headers := []string{
		"CustomerKey", "Recency", "Frequency", "Monetary",
		"R_Score", "F_Score", "M_Score", "RFM_Score", "Segment",
	}

	records := make([][]string, 0, len(res.Profiles))
	for _, p := range res.Profiles {
		records = append(records, []string{
			p.CustomerKey,
			formatInt(p.Recency),
			formatInt(p.Frequency),
			formatFloat(p.Monetary),
			formatInt(p.RScore),
			formatInt(p.FScore),
			formatInt(p.MScore),
			p.ScoreCode(),
			p.Segment,
		})
	}

	return w.WriteSimpleCSV(name, headers, records)
}

// WriteProducts writes one row per product ABC-XYZ profile, in descending
// revenue order as produced by the segmentation engine.
func (w *CSVWriter) WriteProducts(res *segmentation.ABCXYZResult, name string) error {
	headers := []string{
		"ProductKey", "ProductName", "Revenue", "Quantity", "Profit",
		"OrderCount", "CumulativePercentage", "ABC_Category",
		"CV", "XYZ_Category", "ABC_XYZ",
	}

	records := make([][]string, 0, len(res.Profiles))
	for _, p := range res.Profiles {
		records = append(records, []string{
			p.ProductKey,
			p.ProductName,
			formatFloat(p.Revenue),
			formatFloat(p.Quantity),
			formatFloat(p.Profit),
			formatInt(p.OrderCount),
			formatFloat(p.CumulativeShare),
			p.ABCCategory,
			fmt.Sprintf("%.4f", p.CV),
			p.XYZCategory,
			p.Label,
		})
	}

	return w.WriteSimpleCSV(name, headers, records)
}
