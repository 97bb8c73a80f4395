package domain

// ABC revenue-concentration categories.
const (
	ABCCategoryA = "A" // top sellers, cumulative revenue share <= 80%
	ABCCategoryB = "B" // cumulative revenue share <= 95%
	ABCCategoryC = "C" // long tail
)

// XYZ demand-variability categories.
const (
	XYZCategoryX       = "X" // stable demand, CV <= 0.3
	XYZCategoryY       = "Y" // moderate demand variability, CV <= 0.6
	XYZCategoryZ       = "Z" // erratic demand
	XYZCategoryUnknown = "Unknown"
)

// ProductProfile holds aggregated sales figures and the ABC-XYZ
// classification for a single product. Computed once per analysis run and
// immutable afterward.
type ProductProfile struct {
	ProductKey  string `json:"product_key"`
	ProductName string `json:"product_name"`

	Revenue    float64 `json:"revenue"`
	Quantity   float64 `json:"quantity"`
	Profit     float64 `json:"profit"`
	OrderCount int     `json:"order_count"` // distinct orders the product appeared on

	CumulativeShare float64 `json:"cumulative_share"` // running revenue share, percent
	ABCCategory     string  `json:"abc_category"`

	CV          float64 `json:"cv"` // coefficient of variation of monthly quantity
	XYZCategory string  `json:"xyz_category"`

	Label string `json:"label"` // combined "ABC-XYZ", e.g. "A-X"
}
