package dto

// OverviewSnapshot is the KPI set of one reporting window. ATCC here is the
// complementary (loss) form.
type OverviewSnapshot struct {
	EnergyDelivered      float64 `json:"energy_delivered"`
	EnergyBilled         float64 `json:"energy_billed"`
	RevenueBilled        float64 `json:"revenue_billed"`
	RevenueCollected     float64 `json:"revenue_collected"`
	BillingEfficiency    float64 `json:"billing_efficiency"`
	CollectionEfficiency float64 `json:"collection_efficiency"`
	ATCC                 float64 `json:"atcc"`
	ATCCDerivedLoss      float64 `json:"atcc_derived_loss"`
	EnergyCollected      float64 `json:"energy_collected"`
	CustomerResponseRate float64 `json:"customer_response_rate"`
}

// OverviewMonthPoint is one month of the overview history
type OverviewMonthPoint struct {
	Month string           `json:"month"`
	KPIs  OverviewSnapshot `json:"kpis"`
}

// OverviewResponse is the top-level dashboard payload
type OverviewResponse struct {
	Period  PeriodInfo           `json:"period"`
	Formula string               `json:"formula"`
	Current OverviewSnapshot     `json:"current"`
	History []OverviewMonthPoint `json:"history"`
}
