package domain

// Customer segment labels produced by the RFM decision table.
const (
	SegmentChampions     = "Champions"
	SegmentLoyal         = "Loyal Customers"
	SegmentNew           = "New Customers"
	SegmentPromising     = "Promising"
	SegmentNeedAttention = "Need Attention"
	SegmentHibernating   = "Hibernating"
	SegmentRegular       = "Regular"
)

// RFMProfile holds the recency/frequency/monetary metrics and scores for a
// single customer. Computed once per analysis run and immutable afterward.
type RFMProfile struct {
	CustomerKey string  `json:"customer_key"`
	Recency     int     `json:"recency"`   // days since last order, relative to the snapshot date
	Frequency   int     `json:"frequency"` // distinct order count
	Monetary    float64 `json:"monetary"`  // total sales amount

	RScore  int    `json:"r_score"` // 1..bins, higher = more recent
	FScore  int    `json:"f_score"` // 1..bins, higher = more frequent
	MScore  int    `json:"m_score"` // 1..bins, higher = more spent
	Segment string `json:"segment"`
}

// ScoreCode returns the concatenated "RFM" score string, e.g. "545".
func (p RFMProfile) ScoreCode() string {
	digits := "0123456789"
	code := make([]byte, 0, 3)
	for _, s := range []int{p.RScore, p.FScore, p.MScore} {
		if s >= 0 && s <= 9 {
			code = append(code, digits[s])
		} else {
			code = append(code, '?')
		}
	}
	return string(code)
}
