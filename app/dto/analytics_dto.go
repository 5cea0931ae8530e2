package dto

// HistoryPoint is one month of a history series, oldest first
type HistoryPoint struct {
	Month string  `json:"month"`
	Value float64 `json:"value"`
}

// Metric is the standard KPI envelope. Delta is nil when the previous period
// had no data; Target is only present on KPIs that carry a synthetic target.
type Metric struct {
	Actual  float64        `json:"actual"`
	Delta   *float64       `json:"delta"`
	Target  *float64       `json:"target,omitempty"`
	History []HistoryPoint `json:"history,omitempty"`
}

// LabelCount is a generic label/count pair used by composition breakdowns
type LabelCount struct {
	Label string `json:"label"`
	Count int64  `json:"count"`
}

// AnalyticsQuery is the shared query surface of the analytics endpoints.
// Location selectors follow most-specific-wins; band always intersects.
// Unparseable dates are treated as absent.
type AnalyticsQuery struct {
	Mode     string `query:"mode" validate:"omitempty,oneof=monthly range"`
	Year     int    `query:"year" validate:"omitempty,min=2000,max=2100"`
	Month    int    `query:"month" validate:"omitempty,min=1,max=12"`
	FromDate string `query:"from_date"`
	ToDate   string `query:"to_date"`
	Date     string `query:"date"`

	State            string `query:"state"`
	District         string `query:"district"`
	BusinessDistrict string `query:"business_district"`
	Substation       string `query:"substation"`
	Feeder           string `query:"feeder"`
	Transformer      string `query:"transformer"`
	Band             string `query:"band"`

	SortBy string `query:"sort_by"`
	Top    int    `query:"top" validate:"omitempty,min=1,max=500"`
	Bottom int    `query:"bottom" validate:"omitempty,min=1,max=500"`
	Limit  int    `query:"limit" validate:"omitempty,min=1,max=1000"`
	Offset int    `query:"offset" validate:"omitempty,min=0"`
}
