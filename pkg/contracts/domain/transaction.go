package domain

import "time"

// Transaction is one denormalized sales-order line after joining the sales
// table with its customer, product and territory dimensions. Attribute
// fields are pointers: nil means the value was missing in the source, failed
// type coercion, or the foreign key did not resolve. Transactions are never
// mutated after the enrichment stage.
type Transaction struct {
	// Order identifiers
	OrderNumber string     `json:"order_number"`
	OrderDate   *time.Time `json:"order_date,omitempty"`
	ShipDate    *time.Time `json:"ship_date,omitempty"`

	// Foreign keys (raw source values, preserved even when unresolved)
	CustomerKey  string `json:"customer_key"`
	ProductKey   string `json:"product_key"`
	TerritoryKey string `json:"territory_key"`

	// Line measures
	OrderQuantity *float64 `json:"order_quantity,omitempty"`
	UnitPrice     *float64 `json:"unit_price,omitempty"`
	SalesAmount   *float64 `json:"sales_amount,omitempty"`
	ProductCost   *float64 `json:"product_cost,omitempty"`
	TaxAmount     *float64 `json:"tax_amount,omitempty"`

	// Customer attributes
	CustomerName  *string    `json:"customer_name,omitempty"`
	BirthDate     *time.Time `json:"birth_date,omitempty"`
	YearlyIncome  *float64   `json:"yearly_income,omitempty"`
	TotalChildren *float64   `json:"total_children,omitempty"`
	CarsOwned     *float64   `json:"cars_owned,omitempty"`
	Occupation    *string    `json:"occupation,omitempty"`

	// Product attributes
	ProductName  *string  `json:"product_name,omitempty"`
	Category     *string  `json:"category,omitempty"`
	SubCategory  *string  `json:"sub_category,omitempty"`
	Color        *string  `json:"color,omitempty"`
	ListPrice    *float64 `json:"list_price,omitempty"`
	StandardCost *float64 `json:"standard_cost,omitempty"`

	// Territory attributes
	Region    *string `json:"region,omitempty"`
	Country   *string `json:"country,omitempty"`
	Continent *string `json:"continent,omitempty"`

	// Derived fields, produced by the enrichment stage when their source
	// columns are present
	OrderYear      *int     `json:"order_year,omitempty"`
	OrderMonth     *int     `json:"order_month,omitempty"`
	OrderQuarter   *int     `json:"order_quarter,omitempty"`
	OrderDayOfWeek *string  `json:"order_day_of_week,omitempty"`
	DeliveryDays   *int     `json:"delivery_days,omitempty"`
	IncomeSegment  *string  `json:"income_segment,omitempty"`
	Age            *int     `json:"age,omitempty"`
	Profit         *float64 `json:"profit,omitempty"`
	ProfitMargin   *float64 `json:"profit_margin,omitempty"`
}

// HasDates reports whether both order and ship dates are known.
func (t Transaction) HasDates() bool {
	return t.OrderDate != nil && t.ShipDate != nil
}

// Revenue returns the sales amount, treating missing values as zero.
func (t Transaction) Revenue() float64 {
	if t.SalesAmount == nil {
		return 0
	}
	return *t.SalesAmount
}

// Quantity returns the order quantity, treating missing values as zero.
func (t Transaction) Quantity() float64 {
	if t.OrderQuantity == nil {
		return 0
	}
	return *t.OrderQuantity
}
