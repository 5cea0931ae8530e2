package repository

import (
	"context"
	"fmt"

	"github.com/powergridhq/disco-analytics/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TechnicalRepositoryImpl implements TechnicalRepository
type TechnicalRepositoryImpl struct {
	*BaseRepository[models.HourlyLoad]
}

// NewTechnicalRepository creates a new technical repository
func NewTechnicalRepository(db *gorm.DB) TechnicalRepository {
	return &TechnicalRepositoryImpl{
		BaseRepository: NewBaseRepository[models.HourlyLoad](db),
	}
}

// AvgHoursOfSupply averages the daily hours-of-supply facts over the window
func (r *TechnicalRepositoryImpl) AvgHoursOfSupply(ctx context.Context, scope models.FeederScope, window models.Window) (decimal.Decimal, error) {
	if scope.IsEmpty() {
		return decimal.Zero, nil
	}
	query := r.getDB(ctx).Model(&models.DailyHoursOfSupply{}).
		Where("date >= ? AND date < ?", window.Start, window.End)
	if !scope.Unrestricted {
		query = scopeFeeders(query, "feeder_id", scope.FeederIDs)
	}

	var row struct{ Total decimal.Decimal }
	if err := query.Select("COALESCE(AVG(hours_supplied), 0) AS total").Scan(&row).Error; err != nil {
		return decimal.Zero, fmt.Errorf("failed to average hours of supply: %w", err)
	}
	return row.Total, nil
}

// AvgHoursOfSupplyByFeeder averages hours of supply per feeder over the window
func (r *TechnicalRepositoryImpl) AvgHoursOfSupplyByFeeder(ctx context.Context, scope models.FeederScope, window models.Window) ([]FeederHoursRow, error) {
	if scope.IsEmpty() {
		return nil, nil
	}
	query := r.getDB(ctx).Model(&models.DailyHoursOfSupply{}).
		Where("date >= ? AND date < ?", window.Start, window.End)
	if !scope.Unrestricted {
		query = scopeFeeders(query, "feeder_id", scope.FeederIDs)
	}

	var rows []FeederHoursRow
	err := query.Select("feeder_id, COALESCE(AVG(hours_supplied), 0) AS hours").
		Group("feeder_id").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to average hours of supply by feeder: %w", err)
	}
	return rows, nil
}

// HoursOfSupplyFromHourlyLoad derives supply hours from the hourly load
// stream: the average over (feeder, date) pairs of the count of hours with a
// positive load. Days whose readings are all zero stay in the denominator
// and count as zero supply hours.
func (r *TechnicalRepositoryImpl) HoursOfSupplyFromHourlyLoad(ctx context.Context, scope models.FeederScope, window models.Window) (float64, error) {
	if scope.IsEmpty() {
		return 0, nil
	}
	query := r.getDB(ctx).Model(&models.HourlyLoad{}).
		Where("date >= ? AND date < ?", window.Start, window.End)
	if !scope.Unrestricted {
		query = scopeFeeders(query, "feeder_id", scope.FeederIDs)
	}

	var rows []struct {
		FeederID uint
		Hours    int64
	}
	err := query.Select("feeder_id, date, SUM(CASE WHEN load_mw > 0 THEN 1 ELSE 0 END) AS hours").
		Group("feeder_id, date").
		Scan(&rows).Error
	if err != nil {
		return 0, fmt.Errorf("failed to derive hours of supply from hourly load: %w", err)
	}
	if len(rows) == 0 {
		return 0, nil
	}

	var total int64
	for _, row := range rows {
		total += row.Hours
	}
	return float64(total) / float64(len(rows)), nil
}

// AvgInterruptionDuration averages restored outage durations in hours over the
// window. Durations come from timestamp pairs, so rows are walked directly;
// open faults contribute zero.
func (r *TechnicalRepositoryImpl) AvgInterruptionDuration(ctx context.Context, scope models.FeederScope, window models.Window) (float64, error) {
	if scope.IsEmpty() {
		return 0, nil
	}
	query := r.getDB(ctx).Model(&models.FeederInterruption{}).
		Where("occurred_at >= ? AND occurred_at < ?", window.Start, window.End)
	if !scope.Unrestricted {
		query = scopeFeeders(query, "feeder_id", scope.FeederIDs)
	}

	var interruptions []models.FeederInterruption
	if err := query.Find(&interruptions).Error; err != nil {
		return 0, fmt.Errorf("failed to load interruptions: %w", err)
	}
	if len(interruptions) == 0 {
		return 0, nil
	}

	var total float64
	for _, i := range interruptions {
		total += i.DurationHours()
	}
	return total / float64(len(interruptions)), nil
}

// InterruptionCount counts interruptions that began inside the window
func (r *TechnicalRepositoryImpl) InterruptionCount(ctx context.Context, scope models.FeederScope, window models.Window) (int64, error) {
	if scope.IsEmpty() {
		return 0, nil
	}
	query := r.getDB(ctx).Model(&models.FeederInterruption{}).
		Where("occurred_at >= ? AND occurred_at < ?", window.Start, window.End)
	if !scope.Unrestricted {
		query = scopeFeeders(query, "feeder_id", scope.FeederIDs)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count interruptions: %w", err)
	}
	return count, nil
}

// InterruptionCountsByType counts interruptions per fault type over the window
func (r *TechnicalRepositoryImpl) InterruptionCountsByType(ctx context.Context, scope models.FeederScope, window models.Window) ([]InterruptionTypeCount, error) {
	if scope.IsEmpty() {
		return nil, nil
	}
	query := r.getDB(ctx).Model(&models.FeederInterruption{}).
		Where("occurred_at >= ? AND occurred_at < ?", window.Start, window.End)
	if !scope.Unrestricted {
		query = scopeFeeders(query, "feeder_id", scope.FeederIDs)
	}

	var rows []InterruptionTypeCount
	err := query.Select("type, COUNT(*) AS count").
		Group("type").
		Order("count DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count interruptions by type: %w", err)
	}
	return rows, nil
}

// PeakLoad returns the maximum hourly load in the window
func (r *TechnicalRepositoryImpl) PeakLoad(ctx context.Context, scope models.FeederScope, window models.Window) (decimal.Decimal, error) {
	if scope.IsEmpty() {
		return decimal.Zero, nil
	}
	query := r.getDB(ctx).Model(&models.HourlyLoad{}).
		Where("date >= ? AND date < ?", window.Start, window.End)
	if !scope.Unrestricted {
		query = scopeFeeders(query, "feeder_id", scope.FeederIDs)
	}

	var row struct{ Total decimal.Decimal }
	if err := query.Select("COALESCE(MAX(load_mw), 0) AS total").Scan(&row).Error; err != nil {
		return decimal.Zero, fmt.Errorf("failed to compute peak load: %w", err)
	}
	return row.Total, nil
}

// PeakLoadByFeeder returns the maximum hourly load per feeder in the window
func (r *TechnicalRepositoryImpl) PeakLoadByFeeder(ctx context.Context, scope models.FeederScope, window models.Window) ([]FeederEnergyRow, error) {
	if scope.IsEmpty() {
		return nil, nil
	}
	query := r.getDB(ctx).Model(&models.HourlyLoad{}).
		Where("date >= ? AND date < ?", window.Start, window.End)
	if !scope.Unrestricted {
		query = scopeFeeders(query, "feeder_id", scope.FeederIDs)
	}

	var rows []FeederEnergyRow
	err := query.Select("feeder_id, COALESCE(MAX(load_mw), 0) AS total").
		Group("feeder_id").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to compute peak load by feeder: %w", err)
	}
	return rows, nil
}

// LoadTrend returns per-day average and peak load across the scope
func (r *TechnicalRepositoryImpl) LoadTrend(ctx context.Context, scope models.FeederScope, window models.Window) ([]LoadTrendPoint, error) {
	if scope.IsEmpty() {
		return nil, nil
	}
	query := r.getDB(ctx).Model(&models.HourlyLoad{}).
		Where("date >= ? AND date < ?", window.Start, window.End)
	if !scope.Unrestricted {
		query = scopeFeeders(query, "feeder_id", scope.FeederIDs)
	}

	var rows []LoadTrendPoint
	err := query.Select("date, COALESCE(AVG(load_mw), 0) AS avg_load, COALESCE(MAX(load_mw), 0) AS peak").
		Group("date").
		Order("date").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to compute load trend: %w", err)
	}
	return rows, nil
}

// UpsertHourlyLoad writes an hourly load reading on its natural key
func (r *TechnicalRepositoryImpl) UpsertHourlyLoad(ctx context.Context, row *models.HourlyLoad) error {
	db := r.getDB(ctx)
	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "feeder_id"}, {Name: "date"}, {Name: "hour"}},
		DoUpdates: clause.AssignmentColumns([]string{"load_mw", "updated_at"}),
	}).Create(row).Error
	if err != nil {
		return fmt.Errorf("failed to upsert hourly load: %w", err)
	}
	return nil
}

// UpsertHoursOfSupply writes a daily hours-of-supply fact on its natural key
func (r *TechnicalRepositoryImpl) UpsertHoursOfSupply(ctx context.Context, row *models.DailyHoursOfSupply) error {
	db := r.getDB(ctx)
	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "feeder_id"}, {Name: "date"}},
		DoUpdates: clause.AssignmentColumns([]string{"hours_supplied", "updated_at"}),
	}).Create(row).Error
	if err != nil {
		return fmt.Errorf("failed to upsert hours of supply: %w", err)
	}
	return nil
}

// UpsertInterruption writes an interruption on its natural key
func (r *TechnicalRepositoryImpl) UpsertInterruption(ctx context.Context, row *models.FeederInterruption) error {
	db := r.getDB(ctx)
	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "feeder_id"}, {Name: "occurred_at"}, {Name: "type"}},
		DoUpdates: clause.AssignmentColumns([]string{"restored_at", "updated_at"}),
	}).Create(row).Error
	if err != nil {
		return fmt.Errorf("failed to upsert interruption: %w", err)
	}
	return nil
}
