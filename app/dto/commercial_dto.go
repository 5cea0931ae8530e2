package dto

// CommercialKPIs is the metric block shared by the commercial slices
type CommercialKPIs struct {
	EnergyDelivered      Metric `json:"energy_delivered"`
	EnergyBilled         Metric `json:"energy_billed"`
	RevenueBilled        Metric `json:"revenue_billed"`
	RevenueCollected     Metric `json:"revenue_collected"`
	BillingEfficiency    Metric `json:"billing_efficiency"`
	CollectionEfficiency Metric `json:"collection_efficiency"`
	ATCC                 Metric `json:"atcc"`
	EnergyCollected      Metric `json:"energy_collected"`
	CustomerResponseRate Metric `json:"customer_response_rate"`
}

// StateCommercialRow is one state of the all-states summary
type StateCommercialRow struct {
	State   string `json:"state"`
	Slug    string `json:"slug"`
	Formula string `json:"formula"`
	CommercialKPIs
}

// AllStatesCommercialResponse is the all-states commercial summary
type AllStatesCommercialResponse struct {
	Period PeriodInfo           `json:"period"`
	States []StateCommercialRow `json:"states"`
}

// MonthCommercialPoint is one month of the state-over-months series
type MonthCommercialPoint struct {
	Month                string  `json:"month"`
	EnergyDelivered      float64 `json:"energy_delivered"`
	EnergyBilled         float64 `json:"energy_billed"`
	RevenueBilled        float64 `json:"revenue_billed"`
	RevenueCollected     float64 `json:"revenue_collected"`
	BillingEfficiency    float64 `json:"billing_efficiency"`
	CollectionEfficiency float64 `json:"collection_efficiency"`
	ATCC                 float64 `json:"atcc"`
}

// StateCommercialSeriesResponse is the five-month series for one state
type StateCommercialSeriesResponse struct {
	State   string                 `json:"state"`
	Slug    string                 `json:"slug"`
	Formula string                 `json:"formula"`
	Series  []MonthCommercialPoint `json:"series"`
}

// DistrictCommercialRow is one district of the per-state breakdown
type DistrictCommercialRow struct {
	District string `json:"district"`
	Slug     string `json:"slug"`
	Formula  string `json:"formula"`
	CommercialKPIs
}

// DistrictsCommercialResponse lists the districts of one state
type DistrictsCommercialResponse struct {
	State     string                  `json:"state"`
	Period    PeriodInfo              `json:"period"`
	Districts []DistrictCommercialRow `json:"districts"`
}

// FeederCommercialRow is one feeder of the feeder drill-down, sortable by ATCC
type FeederCommercialRow struct {
	Feeder               string  `json:"feeder"`
	Slug                 string  `json:"slug"`
	VoltageLevel         string  `json:"voltage_level"`
	Band                 string  `json:"band,omitempty"`
	EnergyDelivered      float64 `json:"energy_delivered"`
	EnergyBilled         float64 `json:"energy_billed"`
	RevenueBilled        float64 `json:"revenue_billed"`
	RevenueCollected     float64 `json:"revenue_collected"`
	BillingEfficiency    float64 `json:"billing_efficiency"`
	CollectionEfficiency float64 `json:"collection_efficiency"`
	ATCC                 float64 `json:"atcc"`
}

// FeedersCommercialResponse is the feeder drill-down
type FeedersCommercialResponse struct {
	Period  PeriodInfo            `json:"period"`
	Formula string                `json:"formula"`
	Feeders []FeederCommercialRow `json:"feeders"`
}

// TransformerCommercialRow is one transformer of the transformer drill-down
type TransformerCommercialRow struct {
	Transformer   string  `json:"transformer"`
	Slug          string  `json:"slug"`
	Feeder        string  `json:"feeder"`
	CustomerCount int64   `json:"customer_count"`
	Collections   float64 `json:"collections"`
}

// TransformersCommercialResponse is the transformer drill-down
type TransformersCommercialResponse struct {
	Period       PeriodInfo                 `json:"period"`
	Transformers []TransformerCommercialRow `json:"transformers"`
}

// ServiceBandRow is one band of the service-band drill-down. The two quality
// metrics are simulated pending real outage telemetry per band.
type ServiceBandRow struct {
	Band                   string  `json:"band"`
	FeederCount            int     `json:"feeder_count"`
	CustomerCount          int64   `json:"customer_count"`
	AvgPeakLoad            float64 `json:"avg_peak_load"`
	DurationOfInterruption float64 `json:"duration_of_interruption"`
	TurnaroundTime         float64 `json:"turnaround_time"`
}

// ServiceBandsResponse groups feeders by regulatory band
type ServiceBandsResponse struct {
	Period PeriodInfo       `json:"period"`
	Bands  []ServiceBandRow `json:"bands"`
}

// SalesRepSummaryResponse sums the monthly commercial summaries of the sales
// representatives working the scoped feeders
type SalesRepSummaryResponse struct {
	Period               PeriodInfo `json:"period"`
	RepCount             int        `json:"rep_count"`
	CustomersBilled      Metric     `json:"customers_billed"`
	CustomersResponded   Metric     `json:"customers_responded"`
	ResponseRate         Metric     `json:"response_rate"`
	RevenueBilled        Metric     `json:"revenue_billed"`
	RevenueCollected     Metric     `json:"revenue_collected"`
	CollectionEfficiency Metric     `json:"collection_efficiency"`
}

// PeriodInfo echoes the resolved reporting window back to the caller
type PeriodInfo struct {
	Start         string `json:"start"`
	End           string `json:"end"`
	PreviousStart string `json:"previous_start"`
	PreviousEnd   string `json:"previous_end"`
}
