package dataset

import (
	"time"

	"salescope/pkg/contracts/domain"
)

// Source column names, as they appear in the input tables.
const (
	ColSalesOrderNumber  = "SalesOrderNumber"
	ColOrderDate         = "OrderDate"
	ColShipDate          = "ShipDate"
	ColCustomerKey       = "CustomerKey"
	ColProductKey        = "ProductKey"
	ColSalesTerritoryKey = "SalesTerritoryKey"
	ColOrderQuantity     = "OrderQuantity"
	ColUnitPrice         = "UnitPrice"
	ColSalesAmount       = "SalesAmount"
	ColTotalProductCost  = "TotalProductCost"
	ColTaxAmt            = "TaxAmt"

	ColCustomerName    = "CustomerName"
	ColBirthDate       = "BirthDate"
	ColYearlyIncome    = "YearlyIncome"
	ColTotalChildren   = "TotalChildren"
	ColNumberCarsOwned = "NumberCarsOwned"
	ColOccupation      = "Occupation"

	ColProductName  = "ProductName"
	ColCategory     = "Category"
	ColSubCategory  = "SubCategory"
	ColColor        = "Color"
	ColListPrice    = "ListPrice"
	ColStandardCost = "StandardCost"

	ColRegion    = "Region"
	ColCountry   = "Country"
	ColContinent = "Continent"
)

// Derived column names.
const (
	ColOrderYear      = "OrderYear"
	ColOrderMonth     = "OrderMonth"
	ColOrderQuarter   = "OrderQuarter"
	ColOrderDayOfWeek = "OrderDayOfWeek"
	ColDeliveryDays   = "DeliveryDays"
	ColIncomeSegment  = "IncomeSegment"
	ColAge            = "Age"
	ColProfit         = "Profit"
	ColProfitMargin   = "ProfitMargin"
)

// dateField maps a date-typed source column onto its Transaction field.
type dateField struct {
	name string
	ref  func(*domain.Transaction) **time.Time
}

// numericField maps a numeric source column onto its Transaction field.
type numericField struct {
	name string
	ref  func(*domain.Transaction) **float64
}

// textField maps a categorical source column onto its Transaction field.
type textField struct {
	name string
	ref  func(*domain.Transaction) **string
}

var dateFields = []dateField{
	{ColOrderDate, func(t *domain.Transaction) **time.Time { return &t.OrderDate }},
	{ColShipDate, func(t *domain.Transaction) **time.Time { return &t.ShipDate }},
	{ColBirthDate, func(t *domain.Transaction) **time.Time { return &t.BirthDate }},
}

var numericFields = []numericField{
	{ColOrderQuantity, func(t *domain.Transaction) **float64 { return &t.OrderQuantity }},
	{ColUnitPrice, func(t *domain.Transaction) **float64 { return &t.UnitPrice }},
	{ColSalesAmount, func(t *domain.Transaction) **float64 { return &t.SalesAmount }},
	{ColTotalProductCost, func(t *domain.Transaction) **float64 { return &t.ProductCost }},
	{ColTaxAmt, func(t *domain.Transaction) **float64 { return &t.TaxAmount }},
	{ColYearlyIncome, func(t *domain.Transaction) **float64 { return &t.YearlyIncome }},
	{ColTotalChildren, func(t *domain.Transaction) **float64 { return &t.TotalChildren }},
	{ColNumberCarsOwned, func(t *domain.Transaction) **float64 { return &t.CarsOwned }},
	{ColListPrice, func(t *domain.Transaction) **float64 { return &t.ListPrice }},
	{ColStandardCost, func(t *domain.Transaction) **float64 { return &t.StandardCost }},
}

var textFields = []textField{
	{ColCustomerName, func(t *domain.Transaction) **string { return &t.CustomerName }},
	{ColOccupation, func(t *domain.Transaction) **string { return &t.Occupation }},
	{ColProductName, func(t *domain.Transaction) **string { return &t.ProductName }},
	{ColCategory, func(t *domain.Transaction) **string { return &t.Category }},
	{ColSubCategory, func(t *domain.Transaction) **string { return &t.SubCategory }},
	{ColColor, func(t *domain.Transaction) **string { return &t.Color }},
	{ColRegion, func(t *domain.Transaction) **string { return &t.Region }},
	{ColCountry, func(t *domain.Transaction) **string { return &t.Country }},
	{ColContinent, func(t *domain.Transaction) **string { return &t.Continent }},
}
