package dto

// EnergyDeliveredRow is one feeder-day of delivered energy
type EnergyDeliveredRow struct {
	Feeder    string  `json:"feeder" validate:"required"`
	Date      string  `json:"date" validate:"required"`
	EnergyMWh float64 `json:"energy_mwh" validate:"min=0"`
}

// EnergyDeliveredIngestRequest is the body of the delivered-energy stream
type EnergyDeliveredIngestRequest struct {
	Rows []EnergyDeliveredRow `json:"rows" validate:"required,min=1,dive"`
}

// EnergyBilledRow is one feeder-month of billed energy
type EnergyBilledRow struct {
	Feeder    string  `json:"feeder" validate:"required"`
	Month     string  `json:"month" validate:"required"`
	EnergyMWh float64 `json:"energy_mwh" validate:"min=0"`
}

// EnergyBilledIngestRequest is the body of the billed-energy stream
type EnergyBilledIngestRequest struct {
	Rows []EnergyBilledRow `json:"rows" validate:"required,min=1,dive"`
}

// RevenueCollectedRow is one feeder-day of collected revenue
type RevenueCollectedRow struct {
	Feeder string  `json:"feeder" validate:"required"`
	Date   string  `json:"date" validate:"required"`
	Amount float64 `json:"amount" validate:"min=0"`
}

// RevenueCollectedIngestRequest is the body of the collected-revenue stream
type RevenueCollectedIngestRequest struct {
	Rows []RevenueCollectedRow `json:"rows" validate:"required,min=1,dive"`
}

// RevenueBilledRow is one feeder-month of billed revenue
type RevenueBilledRow struct {
	Feeder string  `json:"feeder" validate:"required"`
	Month  string  `json:"month" validate:"required"`
	Amount float64 `json:"amount" validate:"min=0"`
}

// RevenueBilledIngestRequest is the body of the billed-revenue stream
type RevenueBilledIngestRequest struct {
	Rows []RevenueBilledRow `json:"rows" validate:"required,min=1,dive"`
}

// CustomerStatsRow is one feeder-month of customer counters
type CustomerStatsRow struct {
	Feeder             string `json:"feeder" validate:"required"`
	Month              string `json:"month" validate:"required"`
	CustomerCount      int64  `json:"customer_count" validate:"min=0"`
	CustomersBilled    int64  `json:"customers_billed" validate:"min=0"`
	CustomersResponded int64  `json:"customers_responded" validate:"min=0"`
}

// CustomerStatsIngestRequest is the body of the customer-stats stream
type CustomerStatsIngestRequest struct {
	Rows []CustomerStatsRow `json:"rows" validate:"required,min=1,dive"`
}

// HourlyLoadRow is one feeder-hour load reading
type HourlyLoadRow struct {
	Feeder string  `json:"feeder" validate:"required"`
	Date   string  `json:"date" validate:"required"`
	Hour   int     `json:"hour" validate:"min=0,max=23"`
	LoadMW float64 `json:"load_mw" validate:"min=0"`
}

// HourlyLoadIngestRequest is the body of the hourly-load stream
type HourlyLoadIngestRequest struct {
	Rows []HourlyLoadRow `json:"rows" validate:"required,min=1,dive"`
}

// HoursOfSupplyRow is one feeder-day of energized hours
type HoursOfSupplyRow struct {
	Feeder string  `json:"feeder" validate:"required"`
	Date   string  `json:"date" validate:"required"`
	Hours  float64 `json:"hours" validate:"min=0,max=24"`
}

// HoursOfSupplyIngestRequest is the body of the hours-of-supply stream
type HoursOfSupplyIngestRequest struct {
	Rows []HoursOfSupplyRow `json:"rows" validate:"required,min=1,dive"`
}

// InterruptionRow is one feeder outage; RestoredAt stays empty for open faults
type InterruptionRow struct {
	Feeder     string `json:"feeder" validate:"required"`
	Type       string `json:"interruption_type" validate:"required"`
	OccurredAt string `json:"occurred_at" validate:"required"`
	RestoredAt string `json:"restored_at,omitempty"`
}

// InterruptionIngestRequest is the body of the interruption stream
type InterruptionIngestRequest struct {
	Rows []InterruptionRow `json:"rows" validate:"required,min=1,dive"`
}

// CommercialSummaryRow is one sales representative's counters for one month
type CommercialSummaryRow struct {
	SalesRep           string  `json:"sales_rep" validate:"required"`
	Month              string  `json:"month" validate:"required"`
	CustomersBilled    int64   `json:"customers_billed" validate:"min=0"`
	CustomersResponded int64   `json:"customers_responded" validate:"min=0"`
	RevenueBilled      float64 `json:"revenue_billed" validate:"min=0"`
	RevenueCollected   float64 `json:"revenue_collected" validate:"min=0"`
}

// CommercialSummaryIngestRequest is the body of the commercial-summary stream
type CommercialSummaryIngestRequest struct {
	Rows []CommercialSummaryRow `json:"rows" validate:"required,min=1,dive"`
}

// IngestRowError records why one row of an ingest batch was skipped
type IngestRowError struct {
	Index   int    `json:"index"`
	Message string `json:"message"`
}

// IngestResponse reports the outcome of an ingest batch. Skipped rows carry
// one error detail each; accepted rows were created or overwrote an existing
// fact with the same natural key.
type IngestResponse struct {
	Accepted     int              `json:"accepted"`
	Skipped      int              `json:"skipped"`
	ErrorDetails []IngestRowError `json:"error_details,omitempty"`
}
