// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"
	"time"

	"github.com/powergridhq/disco-analytics/models"
	"github.com/shopspring/decimal"
)

// contextKey is the type for transaction keys stored in context
type contextKey string

// TxContextKey carries an open transaction through a context
const TxContextKey contextKey = "tx"

// Repository is the generic contract shared by reference-entity repositories
type Repository[T any] interface {
	ByID(ctx context.Context, id uint) (*T, error)
	List(ctx context.Context, limit, offset int) ([]*T, error)
	Save(ctx context.Context, entity *T) error
	SaveBatch(ctx context.Context, entities []*T) error
	Update(ctx context.Context, entity *T) error
	Delete(ctx context.Context, id uint) error
	Count(ctx context.Context) (int64, error)
}

// LocationRepository resolves the five-level location hierarchy to feeder sets
// and serves hierarchy listings. Name lookups are case-insensitive; slug
// lookups are exact.
type LocationRepository interface {
	ListStates(ctx context.Context) ([]*models.State, error)
	StateByNameOrSlug(ctx context.Context, key string) (*models.State, error)
	DistrictsOfState(ctx context.Context, stateID uint) ([]*models.BusinessDistrict, error)
	DistrictByNameOrSlug(ctx context.Context, key string) (*models.BusinessDistrict, error)
	ListBands(ctx context.Context) ([]*models.Band, error)

	FeederIDsOfState(ctx context.Context, key string) ([]uint, error)
	FeederIDsOfDistrict(ctx context.Context, key string) ([]uint, error)
	FeederIDsOfSubstation(ctx context.Context, key string) ([]uint, error)
	FeederIDsOfFeeder(ctx context.Context, key string) ([]uint, error)
	FeederIDsOfTransformer(ctx context.Context, key string) ([]uint, error)
	FeederIDsOfBand(ctx context.Context, key string) ([]uint, error)
	FeederIDsOfDistrictIDs(ctx context.Context, districtIDs []uint) ([]uint, error)

	FeedersInScope(ctx context.Context, scope models.FeederScope) ([]*models.Feeder, error)
	TransformersInScope(ctx context.Context, scope models.FeederScope) ([]*models.DistributionTransformer, error)
	DistrictIDsInScope(ctx context.Context, scope models.FeederScope) ([]uint, error)
}

// FeederEnergyRow is a per-feeder energy aggregate
type FeederEnergyRow struct {
	FeederID uint            `json:"feeder_id"`
	Total    decimal.Decimal `json:"total"`
}

// FeederDateEnergyRow is a per-(feeder, date) energy aggregate used by the
// derived-fact materializer.
type FeederDateEnergyRow struct {
	FeederID  uint            `json:"feeder_id"`
	Date      time.Time       `json:"date"`
	EnergyMWh decimal.Decimal `json:"energy_mwh"`
}

// EnergyRepository aggregates the energy fact tables
type EnergyRepository interface {
	Repository[models.DailyEnergyDelivered]

	SumDelivered(ctx context.Context, scope models.FeederScope, window models.Window) (decimal.Decimal, error)
	SumBilled(ctx context.Context, scope models.FeederScope, window models.Window) (decimal.Decimal, error)
	SumDeliveredByFeeder(ctx context.Context, scope models.FeederScope, window models.Window) ([]FeederEnergyRow, error)
	SumBilledByFeeder(ctx context.Context, scope models.FeederScope, window models.Window) ([]FeederEnergyRow, error)
	UpsertDelivered(ctx context.Context, row *models.DailyEnergyDelivered) error
	UpsertMonthlyBilled(ctx context.Context, row *models.MonthlyEnergyBilled) error

	// Derived-fact materializer support
	DeliveredPerFeederDate(ctx context.Context, from, to *time.Time) ([]FeederDateEnergyRow, error)
	DailyRollupPerFeederMonth(ctx context.Context, month *time.Time) ([]FeederDateEnergyRow, error)
	TruncateDerived(ctx context.Context) error
	UpsertFeederEnergyDaily(ctx context.Context, rows []models.FeederEnergyDaily) error
	UpsertFeederEnergyMonthly(ctx context.Context, rows []models.FeederEnergyMonthly) error
	SumDerivedDailyByFeeder(ctx context.Context) ([]FeederEnergyRow, error)
	SumDerivedMonthlyByFeeder(ctx context.Context) ([]FeederEnergyRow, error)
}

// CollectionTypeRow is a per-payment-channel collection aggregate
type CollectionTypeRow struct {
	Type   models.CollectionType `json:"collection_type"`
	Amount decimal.Decimal       `json:"amount"`
}

// RevenueRepository aggregates the revenue fact tables
type RevenueRepository interface {
	Repository[models.DailyRevenueCollected]

	SumCollected(ctx context.Context, scope models.FeederScope, window models.Window) (decimal.Decimal, error)
	SumBilledRevenue(ctx context.Context, scope models.FeederScope, window models.Window) (decimal.Decimal, error)
	SumCollectedByFeeder(ctx context.Context, scope models.FeederScope, window models.Window) ([]FeederEnergyRow, error)
	SumBilledRevenueByFeeder(ctx context.Context, scope models.FeederScope, window models.Window) ([]FeederEnergyRow, error)
	UpsertCollected(ctx context.Context, row *models.DailyRevenueCollected) error
	UpsertMonthlyBilled(ctx context.Context, row *models.MonthlyRevenueBilled) error

	ListDailyCollections(ctx context.Context, scope models.FeederScope, window models.Window, limit, offset int) ([]*models.DailyCollection, error)
	SumDailyCollectionsByType(ctx context.Context, scope models.FeederScope, window models.Window) ([]CollectionTypeRow, error)
	SumDailyCollectionsByTransformer(ctx context.Context, scope models.FeederScope, window models.Window) (map[uint]decimal.Decimal, error)
}

// CustomerStatsTotals aggregates MonthlyCustomerStats counters over a window
type CustomerStatsTotals struct {
	CustomerCount   int64 `json:"customer_count"`
	CustomersBilled int64 `json:"customers_billed"`
	ResponseCount   int64 `json:"customer_response_count"`
}

// CommercialSummaryTotals is the four-counter tuple summed from
// MonthlyCommercialSummary rows.
type CommercialSummaryTotals struct {
	RevenueBilled      decimal.Decimal `json:"revenue_billed"`
	RevenueCollected   decimal.Decimal `json:"revenue_collected"`
	CustomersBilled    int64           `json:"customers_billed"`
	CustomersResponded int64           `json:"customers_responded"`
}

// CommercialRepository aggregates commercial counters
type CommercialRepository interface {
	CustomerStatsTotals(ctx context.Context, scope models.FeederScope, window models.Window) (CustomerStatsTotals, error)
	UpsertCustomerStats(ctx context.Context, row *models.MonthlyCustomerStats) error
	SummaryTotals(ctx context.Context, repIDs []uint, window models.Window) (CommercialSummaryTotals, error)
	CustomerCountInScope(ctx context.Context, scope models.FeederScope) (int64, error)
	CustomerCountsByTransformer(ctx context.Context, scope models.FeederScope) (map[uint]int64, error)
}

// InterruptionTypeCount counts interruptions per fault type
type InterruptionTypeCount struct {
	Type  models.InterruptionType `json:"interruption_type"`
	Count int64                   `json:"count"`
}

// LoadTrendPoint is one point of the daily load trend
type LoadTrendPoint struct {
	Date    time.Time       `json:"date"`
	AvgLoad decimal.Decimal `json:"avg_load"`
	Peak    decimal.Decimal `json:"peak_load"`
}

// FeederHoursRow is a per-feeder hours aggregate
type FeederHoursRow struct {
	FeederID uint    `json:"feeder_id"`
	Hours    float64 `json:"hours"`
}

// TechnicalRepository aggregates the technical fact tables
type TechnicalRepository interface {
	AvgHoursOfSupply(ctx context.Context, scope models.FeederScope, window models.Window) (decimal.Decimal, error)
	AvgHoursOfSupplyByFeeder(ctx context.Context, scope models.FeederScope, window models.Window) ([]FeederHoursRow, error)
	HoursOfSupplyFromHourlyLoad(ctx context.Context, scope models.FeederScope, window models.Window) (float64, error)
	AvgInterruptionDuration(ctx context.Context, scope models.FeederScope, window models.Window) (float64, error)
	InterruptionCount(ctx context.Context, scope models.FeederScope, window models.Window) (int64, error)
	InterruptionCountsByType(ctx context.Context, scope models.FeederScope, window models.Window) ([]InterruptionTypeCount, error)
	PeakLoad(ctx context.Context, scope models.FeederScope, window models.Window) (decimal.Decimal, error)
	PeakLoadByFeeder(ctx context.Context, scope models.FeederScope, window models.Window) ([]FeederEnergyRow, error)
	LoadTrend(ctx context.Context, scope models.FeederScope, window models.Window) ([]LoadTrendPoint, error)
	UpsertHourlyLoad(ctx context.Context, row *models.HourlyLoad) error
	UpsertHoursOfSupply(ctx context.Context, row *models.DailyHoursOfSupply) error
	UpsertInterruption(ctx context.Context, row *models.FeederInterruption) error
}

// CategoryAmountRow is a per-category expense aggregate
type CategoryAmountRow struct {
	Category  string          `json:"category"`
	IsSpecial bool            `json:"is_special"`
	Amount    decimal.Decimal `json:"amount"`
}

// ExpenseRepository aggregates the expense ledger
type ExpenseRepository interface {
	Repository[models.Expense]

	SumBySide(ctx context.Context, districtIDs []uint, window models.Window, side models.ExpenseSide) (decimal.Decimal, error)
	BreakdownByCategory(ctx context.Context, districtIDs []uint, window models.Window, side models.ExpenseSide) ([]CategoryAmountRow, error)
}

// SalesRepRepository manages sales representatives and their commercial facts
type SalesRepRepository interface {
	Repository[models.SalesRepresentative]

	BySlug(ctx context.Context, slug string) (*models.SalesRepresentative, error)
	DuplicateNameGroups(ctx context.Context) ([][]*models.SalesRepresentative, error)
	TransformerIDs(ctx context.Context, repID uint) ([]uint, error)
	AssignTransformers(ctx context.Context, repID uint, transformerIDs []uint) error
	ClearTransformers(ctx context.Context, repID uint) error
	SummariesOfRep(ctx context.Context, repID uint) ([]*models.MonthlyCommercialSummary, error)
	SummaryOfRepMonth(ctx context.Context, repID uint, month time.Time) (*models.MonthlyCommercialSummary, error)
	SaveSummary(ctx context.Context, summary *models.MonthlyCommercialSummary) error
	UpdateSummary(ctx context.Context, summary *models.MonthlyCommercialSummary) error
	DeleteSummary(ctx context.Context, summaryID uint) error
	ReassignFacts(ctx context.Context, fromRepID, toRepID uint) error
	CountFacts(ctx context.Context, repID uint) (int64, error)
	PerformanceOfRep(ctx context.Context, repID uint, window models.Window) ([]*models.SalesRepPerformance, error)
	RepIDsForScope(ctx context.Context, scope models.FeederScope) ([]uint, error)
}

// StaffCountRow is a label/count pair for staff composition breakdowns
type StaffCountRow struct {
	Label string `json:"label"`
	Count int64  `json:"count"`
}

// StaffRepository manages employees and their aggregates
type StaffRepository interface {
	Repository[models.Staff]

	ByCompositeKey(ctx context.Context, districtID uint, fullName string, hireDate time.Time) (*models.Staff, error)
	ListByFilter(ctx context.Context, filter models.StaffFilter, limit, offset int) ([]*models.Staff, error)
	CountByFilter(ctx context.Context, filter models.StaffFilter) (int64, error)
	CountByGender(ctx context.Context, filter models.StaffFilter) ([]StaffCountRow, error)
	CountByDepartment(ctx context.Context, filter models.StaffFilter) ([]StaffCountRow, error)
	CountByState(ctx context.Context, filter models.StaffFilter) ([]StaffCountRow, error)
	SumSalaries(ctx context.Context, filter models.StaffFilter) (decimal.Decimal, error)
	DeleteByCompositeKey(ctx context.Context, districtID uint, fullName string, hireDate time.Time) (int64, error)
}

// AdminRepository manages operator accounts
type AdminRepository interface {
	Repository[models.Admin]

	ByUsername(ctx context.Context, username string) (*models.Admin, error)
	UpdateLastLogin(ctx context.Context, adminID uint, at time.Time) error
}
