package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/powergridhq/disco-analytics/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// EnergyRepositoryImpl implements EnergyRepository
type EnergyRepositoryImpl struct {
	*BaseRepository[models.DailyEnergyDelivered]
}

// NewEnergyRepository creates a new energy repository
func NewEnergyRepository(db *gorm.DB) EnergyRepository {
	return &EnergyRepositoryImpl{
		BaseRepository: NewBaseRepository[models.DailyEnergyDelivered](db),
	}
}

// SumDelivered sums daily delivered energy (MWh) over the window and scope
func (r *EnergyRepositoryImpl) SumDelivered(ctx context.Context, scope models.FeederScope, window models.Window) (decimal.Decimal, error) {
	if scope.IsEmpty() {
		return decimal.Zero, nil
	}
	query := r.getDB(ctx).Model(&models.DailyEnergyDelivered{}).
		Where("date >= ? AND date < ?", window.Start, window.End)
	if !scope.Unrestricted {
		query = scopeFeeders(query, "feeder_id", scope.FeederIDs)
	}

	var row struct{ Total decimal.Decimal }
	if err := query.Select("COALESCE(SUM(energy_mwh), 0) AS total").Scan(&row).Error; err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum delivered energy: %w", err)
	}
	return row.Total, nil
}

// SumBilled sums monthly billed energy (MWh) whose month start falls in the window
func (r *EnergyRepositoryImpl) SumBilled(ctx context.Context, scope models.FeederScope, window models.Window) (decimal.Decimal, error) {
	if scope.IsEmpty() {
		return decimal.Zero, nil
	}
	query := r.getDB(ctx).Model(&models.MonthlyEnergyBilled{}).
		Where("month >= ? AND month < ?", window.Start, window.End)
	if !scope.Unrestricted {
		query = scopeFeeders(query, "feeder_id", scope.FeederIDs)
	}

	var row struct{ Total decimal.Decimal }
	if err := query.Select("COALESCE(SUM(energy_mwh), 0) AS total").Scan(&row).Error; err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum billed energy: %w", err)
	}
	return row.Total, nil
}

// SumDeliveredByFeeder sums delivered energy per feeder over the window
func (r *EnergyRepositoryImpl) SumDeliveredByFeeder(ctx context.Context, scope models.FeederScope, window models.Window) ([]FeederEnergyRow, error) {
	if scope.IsEmpty() {
		return nil, nil
	}
	query := r.getDB(ctx).Model(&models.DailyEnergyDelivered{}).
		Where("date >= ? AND date < ?", window.Start, window.End)
	if !scope.Unrestricted {
		query = scopeFeeders(query, "feeder_id", scope.FeederIDs)
	}

	var rows []FeederEnergyRow
	err := query.Select("feeder_id, COALESCE(SUM(energy_mwh), 0) AS total").
		Group("feeder_id").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to sum delivered energy by feeder: %w", err)
	}
	return rows, nil
}

// SumBilledByFeeder sums billed energy per feeder over the window
func (r *EnergyRepositoryImpl) SumBilledByFeeder(ctx context.Context, scope models.FeederScope, window models.Window) ([]FeederEnergyRow, error) {
	if scope.IsEmpty() {
		return nil, nil
	}
	query := r.getDB(ctx).Model(&models.MonthlyEnergyBilled{}).
		Where("month >= ? AND month < ?", window.Start, window.End)
	if !scope.Unrestricted {
		query = scopeFeeders(query, "feeder_id", scope.FeederIDs)
	}

	var rows []FeederEnergyRow
	err := query.Select("feeder_id, COALESCE(SUM(energy_mwh), 0) AS total").
		Group("feeder_id").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to sum billed energy by feeder: %w", err)
	}
	return rows, nil
}

// UpsertDelivered inserts or replaces a daily delivered-energy reading on its
// (feeder, date) natural key.
func (r *EnergyRepositoryImpl) UpsertDelivered(ctx context.Context, row *models.DailyEnergyDelivered) error {
	db := r.getDB(ctx)
	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "feeder_id"}, {Name: "date"}},
		DoUpdates: clause.AssignmentColumns([]string{"energy_mwh", "updated_at"}),
	}).Create(row).Error
	if err != nil {
		return fmt.Errorf("failed to upsert delivered energy: %w", err)
	}
	return nil
}

// UpsertMonthlyBilled inserts or replaces a monthly billed-energy fact on its
// (feeder, month) natural key.
func (r *EnergyRepositoryImpl) UpsertMonthlyBilled(ctx context.Context, row *models.MonthlyEnergyBilled) error {
	db := r.getDB(ctx)
	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "feeder_id"}, {Name: "month"}},
		DoUpdates: clause.AssignmentColumns([]string{"energy_mwh", "updated_at"}),
	}).Create(row).Error
	if err != nil {
		return fmt.Errorf("failed to upsert monthly billed energy: %w", err)
	}
	return nil
}

// DeliveredPerFeederDate sums the delivered-energy stream per (feeder, date).
// Nil bounds leave that side of the date range open.
func (r *EnergyRepositoryImpl) DeliveredPerFeederDate(ctx context.Context, from, to *time.Time) ([]FeederDateEnergyRow, error) {
	query := r.getDB(ctx).Model(&models.DailyEnergyDelivered{})
	if from != nil {
		query = query.Where("date >= ?", *from)
	}
	if to != nil {
		query = query.Where("date < ?", *to)
	}

	var rows []FeederDateEnergyRow
	err := query.Select("feeder_id, date, COALESCE(SUM(energy_mwh), 0) AS energy_mwh").
		Group("feeder_id, date").
		Order("feeder_id, date").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to roll up delivered energy: %w", err)
	}
	return rows, nil
}

// DailyRollupPerFeederMonth sums the materialized daily rows per
// (feeder, first-of-month). A nil month rolls up every month.
func (r *EnergyRepositoryImpl) DailyRollupPerFeederMonth(ctx context.Context, month *time.Time) ([]FeederDateEnergyRow, error) {
	query := r.getDB(ctx).Model(&models.FeederEnergyDaily{})
	if month != nil {
		start := time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, time.UTC)
		query = query.Where("date >= ? AND date < ?", start, start.AddDate(0, 1, 0))
	}

	var rows []FeederDateEnergyRow
	err := query.Select("feeder_id, DATE_TRUNC('month', date)::date AS date, COALESCE(SUM(energy_mwh), 0) AS energy_mwh").
		Group("feeder_id, DATE_TRUNC('month', date)").
		Order("feeder_id, date").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to roll up daily energy to months: %w", err)
	}
	return rows, nil
}

// TruncateDerived clears both materialized energy tables
func (r *EnergyRepositoryImpl) TruncateDerived(ctx context.Context) error {
	db := r.getDB(ctx)
	if err := db.Exec("DELETE FROM feeder_energy_daily").Error; err != nil {
		return fmt.Errorf("failed to truncate feeder_energy_daily: %w", err)
	}
	if err := db.Exec("DELETE FROM feeder_energy_monthly").Error; err != nil {
		return fmt.Errorf("failed to truncate feeder_energy_monthly: %w", err)
	}
	return nil
}

// UpsertFeederEnergyDaily writes materialized daily rows on their natural key
func (r *EnergyRepositoryImpl) UpsertFeederEnergyDaily(ctx context.Context, rows []models.FeederEnergyDaily) error {
	if len(rows) == 0 {
		return nil
	}
	db := r.getDB(ctx)
	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "feeder_id"}, {Name: "date"}},
		DoUpdates: clause.AssignmentColumns([]string{"energy_mwh", "updated_at"}),
	}).CreateInBatches(rows, 100).Error
	if err != nil {
		return fmt.Errorf("failed to upsert feeder_energy_daily: %w", err)
	}
	return nil
}

// UpsertFeederEnergyMonthly writes materialized monthly rows on their natural key
func (r *EnergyRepositoryImpl) UpsertFeederEnergyMonthly(ctx context.Context, rows []models.FeederEnergyMonthly) error {
	if len(rows) == 0 {
		return nil
	}
	db := r.getDB(ctx)
	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "feeder_id"}, {Name: "period"}},
		DoUpdates: clause.AssignmentColumns([]string{"energy_mwh", "updated_at"}),
	}).CreateInBatches(rows, 100).Error
	if err != nil {
		return fmt.Errorf("failed to upsert feeder_energy_monthly: %w", err)
	}
	return nil
}

// SumDerivedDailyByFeeder totals the materialized daily table per feeder
func (r *EnergyRepositoryImpl) SumDerivedDailyByFeeder(ctx context.Context) ([]FeederEnergyRow, error) {
	var rows []FeederEnergyRow
	err := r.getDB(ctx).Model(&models.FeederEnergyDaily{}).
		Select("feeder_id, COALESCE(SUM(energy_mwh), 0) AS total").
		Group("feeder_id").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to sum feeder_energy_daily: %w", err)
	}
	return rows, nil
}

// SumDerivedMonthlyByFeeder totals the materialized monthly table per feeder
func (r *EnergyRepositoryImpl) SumDerivedMonthlyByFeeder(ctx context.Context) ([]FeederEnergyRow, error) {
	var rows []FeederEnergyRow
	err := r.getDB(ctx).Model(&models.FeederEnergyMonthly{}).
		Select("feeder_id, COALESCE(SUM(energy_mwh), 0) AS total").
		Group("feeder_id").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to sum feeder_energy_monthly: %w", err)
	}
	return rows, nil
}
