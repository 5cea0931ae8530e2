package dto

// OpexCategoryRow is one category of the OPEX breakdown
type OpexCategoryRow struct {
	Category  string  `json:"category"`
	IsSpecial bool    `json:"is_special"`
	Amount    float64 `json:"amount"`
}

// CollectionChannelRow is the collected amount of one payment channel
type CollectionChannelRow struct {
	Type   string  `json:"type"`
	Amount float64 `json:"amount"`
}

// FinancialOverviewResponse is the financial overview of a window
type FinancialOverviewResponse struct {
	Period               PeriodInfo             `json:"period"`
	RevenueBilled        Metric                 `json:"revenue_billed"`
	RevenueCollected     Metric                 `json:"revenue_collected"`
	CollectionEfficiency Metric                 `json:"collection_efficiency"`
	OpexTotal            Metric                 `json:"opex_total"`
	HQInflow             Metric                 `json:"hq_inflow"`
	OpexBreakdown        []OpexCategoryRow      `json:"opex_breakdown"`
	SpecialCategories    []OpexCategoryRow      `json:"special_categories"`
	CollectionsByType    []CollectionChannelRow `json:"collections_by_type"`
}

// StateFinancialRow is one state of the per-state financial breakdown
type StateFinancialRow struct {
	State                string  `json:"state"`
	Slug                 string  `json:"slug"`
	RevenueBilled        float64 `json:"revenue_billed"`
	RevenueCollected     float64 `json:"revenue_collected"`
	CollectionEfficiency float64 `json:"collection_efficiency"`
	OpexTotal            float64 `json:"opex_total"`
}

// StatesFinancialResponse is the all-states financial breakdown
type StatesFinancialResponse struct {
	Period PeriodInfo          `json:"period"`
	States []StateFinancialRow `json:"states"`
}

// DistrictFinancialRow is one district of the per-district financial breakdown
type DistrictFinancialRow struct {
	District             string  `json:"district"`
	Slug                 string  `json:"slug"`
	RevenueBilled        float64 `json:"revenue_billed"`
	RevenueCollected     float64 `json:"revenue_collected"`
	CollectionEfficiency float64 `json:"collection_efficiency"`
	OpexTotal            float64 `json:"opex_total"`
}

// DistrictsFinancialResponse lists the districts of one state
type DistrictsFinancialResponse struct {
	State     string                 `json:"state"`
	Period    PeriodInfo             `json:"period"`
	Districts []DistrictFinancialRow `json:"districts"`
}

// FeederFinancialRow is one feeder of the financial feeder drill-down
type FeederFinancialRow struct {
	Feeder               string  `json:"feeder"`
	Slug                 string  `json:"slug"`
	RevenueBilled        float64 `json:"revenue_billed"`
	RevenueCollected     float64 `json:"revenue_collected"`
	CollectionEfficiency float64 `json:"collection_efficiency"`
}

// FeedersFinancialResponse is the financial feeder drill-down
type FeedersFinancialResponse struct {
	Period  PeriodInfo           `json:"period"`
	Feeders []FeederFinancialRow `json:"feeders"`
}

// BandFinancialRow is one band of the financial service-band view
type BandFinancialRow struct {
	Band                 string  `json:"band"`
	FeederCount          int     `json:"feeder_count"`
	RevenueBilled        float64 `json:"revenue_billed"`
	RevenueCollected     float64 `json:"revenue_collected"`
	CollectionEfficiency float64 `json:"collection_efficiency"`
}

// BandsFinancialResponse is the financial service-band view
type BandsFinancialResponse struct {
	Period PeriodInfo         `json:"period"`
	Bands  []BandFinancialRow `json:"bands"`
}

// DailyCollectionRow is one row of the daily-collections listing
type DailyCollectionRow struct {
	ID          uint    `json:"id"`
	Date        string  `json:"date"`
	Feeder      string  `json:"feeder,omitempty"`
	SalesRep    string  `json:"sales_rep,omitempty"`
	Transformer string  `json:"transformer,omitempty"`
	Amount      float64 `json:"amount"`
	Type        string  `json:"type"`
	VendorName  string  `json:"vendor_name,omitempty"`
}

// DailyCollectionsResponse is the daily-collections listing with channel totals
type DailyCollectionsResponse struct {
	Period      PeriodInfo             `json:"period"`
	Collections []DailyCollectionRow   `json:"collections"`
	Totals      []CollectionChannelRow `json:"totals"`
}

// TransformerFinancialRow is one transformer of the financial transformer view
type TransformerFinancialRow struct {
	Transformer string  `json:"transformer"`
	Slug        string  `json:"slug"`
	Feeder      string  `json:"feeder"`
	Collections float64 `json:"collections"`
}

// TransformersFinancialResponse is the financial transformer view
type TransformersFinancialResponse struct {
	Period       PeriodInfo                `json:"period"`
	Transformers []TransformerFinancialRow `json:"transformers"`
}

// RepPerformanceRow is one month of a sales representative's performance
type RepPerformanceRow struct {
	Month                    string  `json:"month"`
	OutstandingBilled        float64 `json:"outstanding_billed"`
	CurrentBilled            float64 `json:"current_billed"`
	Collections              float64 `json:"collections"`
	DailyRunRate             float64 `json:"daily_run_rate"`
	CollectionsOnOutstanding float64 `json:"collections_on_outstanding"`
	ActiveAccounts           int64   `json:"active_accounts"`
	SuspendedAccounts        int64   `json:"suspended_accounts"`
}

// RepPerformanceResponse lists a sales representative's monthly performance
type RepPerformanceResponse struct {
	SalesRep string              `json:"sales_rep"`
	Slug     string              `json:"slug"`
	Months   []RepPerformanceRow `json:"months"`
}

// MergeGroupReport is the outcome of consolidating one duplicate-name group
type MergeGroupReport struct {
	Name                   string   `json:"name"`
	PrimarySlug            string   `json:"primary_slug"`
	MergedSlugs            []string `json:"merged_slugs"`
	TransformersReassigned int      `json:"transformers_reassigned"`
	SummariesMerged        int      `json:"summaries_merged"`
	SummariesReassigned    int      `json:"summaries_reassigned"`
	FactsReassigned        int64    `json:"facts_reassigned"`
}

// MergeSalesRepsResponse reports a full consolidation run
type MergeSalesRepsResponse struct {
	DryRun       bool               `json:"dry_run"`
	GroupsFound  int                `json:"groups_found"`
	GroupsMerged int                `json:"groups_merged"`
	Groups       []MergeGroupReport `json:"groups"`
}

// MaterializerResponse reports a derived-fact rebuild run
type MaterializerResponse struct {
	Mode         string `json:"mode"`
	DailyRows    int    `json:"daily_rows"`
	MonthlyRows  int    `json:"monthly_rows"`
	DurationMsec int64  `json:"duration_msec"`
}
