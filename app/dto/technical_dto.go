package dto

// InterruptionSourceRow is one fault type of the interruption-source breakdown
type InterruptionSourceRow struct {
	Type    string         `json:"type"`
	Count   int64          `json:"count"`
	History []HistoryPoint `json:"history"`
}

// LoadTrendRow is one day of the load trend
type LoadTrendRow struct {
	Date     string  `json:"date"`
	AvgLoad  float64 `json:"avg_load"`
	PeakLoad float64 `json:"peak_load"`
}

// TechnicalHighlights carries the headline technical metrics of a window
type TechnicalHighlights struct {
	SupplyHours             Metric `json:"supply_hours"`
	AvgInterruptionDuration Metric `json:"avg_interruption_duration"`
	TurnaroundTime          Metric `json:"turnaround_time"`
	PeakLoad                Metric `json:"peak_load"`
	InterruptionCount       Metric `json:"interruption_count"`
}

// SupplyAndQuality compares the two hours-of-supply sources
type SupplyAndQuality struct {
	HoursOfSupply         float64 `json:"hours_of_supply"`
	HoursFromLoadReadings float64 `json:"hours_from_load_readings"`
}

// TechnicalOverviewResponse is the technical overview of a window
type TechnicalOverviewResponse struct {
	Period              PeriodInfo              `json:"period"`
	Highlights          TechnicalHighlights     `json:"highlights"`
	SupplyAndQuality    SupplyAndQuality        `json:"supply_and_quality"`
	InterruptionSources []InterruptionSourceRow `json:"interruption_sources"`
	LoadTrend           []LoadTrendRow          `json:"load_trend"`
}

// StateTechnicalRow is one state of the per-state technical breakdown
type StateTechnicalRow struct {
	State                   string  `json:"state"`
	Slug                    string  `json:"slug"`
	SupplyHours             float64 `json:"supply_hours"`
	AvgInterruptionDuration float64 `json:"avg_interruption_duration"`
	InterruptionCount       int64   `json:"interruption_count"`
	PeakLoad                float64 `json:"peak_load"`
}

// StatesTechnicalResponse is the all-states technical breakdown
type StatesTechnicalResponse struct {
	Period PeriodInfo          `json:"period"`
	States []StateTechnicalRow `json:"states"`
}

// DistrictTechnicalRow is one district of the per-district technical breakdown
type DistrictTechnicalRow struct {
	District                string  `json:"district"`
	Slug                    string  `json:"slug"`
	SupplyHours             float64 `json:"supply_hours"`
	AvgInterruptionDuration float64 `json:"avg_interruption_duration"`
	InterruptionCount       int64   `json:"interruption_count"`
	PeakLoad                float64 `json:"peak_load"`
}

// DistrictsTechnicalResponse lists the districts of one state
type DistrictsTechnicalResponse struct {
	State     string                 `json:"state"`
	Period    PeriodInfo             `json:"period"`
	Districts []DistrictTechnicalRow `json:"districts"`
}

// FeederTechnicalRow is one feeder of the technical feeder drill-down
type FeederTechnicalRow struct {
	Feeder            string  `json:"feeder"`
	Slug              string  `json:"slug"`
	VoltageLevel      string  `json:"voltage_level"`
	Band              string  `json:"band,omitempty"`
	SupplyHours       float64 `json:"supply_hours"`
	PeakLoad          float64 `json:"peak_load"`
	InterruptionCount int64   `json:"interruption_count"`
}

// FeedersTechnicalResponse is the technical feeder drill-down
type FeedersTechnicalResponse struct {
	Period  PeriodInfo           `json:"period"`
	Feeders []FeederTechnicalRow `json:"feeders"`
}

// BandTechnicalRow is one band of the technical service-band view
type BandTechnicalRow struct {
	Band                   string  `json:"band"`
	FeederCount            int     `json:"feeder_count"`
	AvgSupplyHours         float64 `json:"avg_supply_hours"`
	AvgPeakLoad            float64 `json:"avg_peak_load"`
	DurationOfInterruption float64 `json:"duration_of_interruption"`
	TurnaroundTime         float64 `json:"turnaround_time"`
}

// BandsTechnicalResponse is the technical service-band view
type BandsTechnicalResponse struct {
	Period PeriodInfo         `json:"period"`
	Bands  []BandTechnicalRow `json:"bands"`
}
