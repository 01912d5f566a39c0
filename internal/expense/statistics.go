package expense

// Statistics is the cost sum for one category over a bounded date range.
// It is derived, never persisted.
type Statistics struct {
	Category Category `json:"category"`
	Total    float64  `json:"total"`
}

// MonthStatistics is a Statistics labelled with the "YYYY-MM" month it
// was computed for.
type MonthStatistics struct {
	Statistics
	Month string `json:"month"`
}
