package repository

import (
	"context"
	"fmt"

	"github.com/powergridhq/disco-analytics/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RevenueRepositoryImpl implements RevenueRepository
type RevenueRepositoryImpl struct {
	*BaseRepository[models.DailyRevenueCollected]
}

// NewRevenueRepository creates a new revenue repository
func NewRevenueRepository(db *gorm.DB) RevenueRepository {
	return &RevenueRepositoryImpl{
		BaseRepository: NewBaseRepository[models.DailyRevenueCollected](db),
	}
}

// SumCollected sums daily collected revenue over the window and scope
func (r *RevenueRepositoryImpl) SumCollected(ctx context.Context, scope models.FeederScope, window models.Window) (decimal.Decimal, error) {
	if scope.IsEmpty() {
		return decimal.Zero, nil
	}
	query := r.getDB(ctx).Model(&models.DailyRevenueCollected{}).
		Where("date >= ? AND date < ?", window.Start, window.End)
	if !scope.Unrestricted {
		query = scopeFeeders(query, "feeder_id", scope.FeederIDs)
	}

	var row struct{ Total decimal.Decimal }
	if err := query.Select("COALESCE(SUM(amount), 0) AS total").Scan(&row).Error; err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum collected revenue: %w", err)
	}
	return row.Total, nil
}

// SumBilledRevenue sums monthly billed revenue whose month start falls in the window
func (r *RevenueRepositoryImpl) SumBilledRevenue(ctx context.Context, scope models.FeederScope, window models.Window) (decimal.Decimal, error) {
	if scope.IsEmpty() {
		return decimal.Zero, nil
	}
	query := r.getDB(ctx).Model(&models.MonthlyRevenueBilled{}).
		Where("month >= ? AND month < ?", window.Start, window.End)
	if !scope.Unrestricted {
		query = scopeFeeders(query, "feeder_id", scope.FeederIDs)
	}

	var row struct{ Total decimal.Decimal }
	if err := query.Select("COALESCE(SUM(amount), 0) AS total").Scan(&row).Error; err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum billed revenue: %w", err)
	}
	return row.Total, nil
}

// SumCollectedByFeeder sums collected revenue per feeder over the window
func (r *RevenueRepositoryImpl) SumCollectedByFeeder(ctx context.Context, scope models.FeederScope, window models.Window) ([]FeederEnergyRow, error) {
	if scope.IsEmpty() {
		return nil, nil
	}
	query := r.getDB(ctx).Model(&models.DailyRevenueCollected{}).
		Where("date >= ? AND date < ?", window.Start, window.End)
	if !scope.Unrestricted {
		query = scopeFeeders(query, "feeder_id", scope.FeederIDs)
	}

	var rows []FeederEnergyRow
	err := query.Select("feeder_id, COALESCE(SUM(amount), 0) AS total").
		Group("feeder_id").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to sum collected revenue by feeder: %w", err)
	}
	return rows, nil
}

// SumBilledRevenueByFeeder sums billed revenue per feeder over the window
func (r *RevenueRepositoryImpl) SumBilledRevenueByFeeder(ctx context.Context, scope models.FeederScope, window models.Window) ([]FeederEnergyRow, error) {
	if scope.IsEmpty() {
		return nil, nil
	}
	query := r.getDB(ctx).Model(&models.MonthlyRevenueBilled{}).
		Where("month >= ? AND month < ?", window.Start, window.End)
	if !scope.Unrestricted {
		query = scopeFeeders(query, "feeder_id", scope.FeederIDs)
	}

	var rows []FeederEnergyRow
	err := query.Select("feeder_id, COALESCE(SUM(amount), 0) AS total").
		Group("feeder_id").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to sum billed revenue by feeder: %w", err)
	}
	return rows, nil
}

// UpsertCollected inserts or replaces a daily collected-revenue fact on its
// (feeder, date) natural key.
func (r *RevenueRepositoryImpl) UpsertCollected(ctx context.Context, row *models.DailyRevenueCollected) error {
	db := r.getDB(ctx)
	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "feeder_id"}, {Name: "date"}},
		DoUpdates: clause.AssignmentColumns([]string{"amount", "updated_at"}),
	}).Create(row).Error
	if err != nil {
		return fmt.Errorf("failed to upsert collected revenue: %w", err)
	}
	return nil
}

// UpsertMonthlyBilled inserts or replaces a monthly billed-revenue fact on its
// (feeder, month) natural key.
func (r *RevenueRepositoryImpl) UpsertMonthlyBilled(ctx context.Context, row *models.MonthlyRevenueBilled) error {
	db := r.getDB(ctx)
	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "feeder_id"}, {Name: "month"}},
		DoUpdates: clause.AssignmentColumns([]string{"amount", "updated_at"}),
	}).Create(row).Error
	if err != nil {
		return fmt.Errorf("failed to upsert monthly billed revenue: %w", err)
	}
	return nil
}

// ListDailyCollections returns individual collection rows in the scope and window
func (r *RevenueRepositoryImpl) ListDailyCollections(ctx context.Context, scope models.FeederScope, window models.Window, limit, offset int) ([]*models.DailyCollection, error) {
	if scope.IsEmpty() {
		return nil, nil
	}
	query := r.getDB(ctx).Model(&models.DailyCollection{}).
		Preload("Feeder").Preload("SalesRep").Preload("Transformer").
		Where("date >= ? AND date < ?", window.Start, window.End).
		Order("date DESC, id DESC")
	if !scope.Unrestricted {
		query = scopeFeeders(query, "feeder_id", scope.FeederIDs)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var rows []*models.DailyCollection
	if err := query.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list daily collections: %w", err)
	}
	return rows, nil
}

// SumDailyCollectionsByType sums daily collections per payment channel
func (r *RevenueRepositoryImpl) SumDailyCollectionsByType(ctx context.Context, scope models.FeederScope, window models.Window) ([]CollectionTypeRow, error) {
	if scope.IsEmpty() {
		return nil, nil
	}
	query := r.getDB(ctx).Model(&models.DailyCollection{}).
		Where("date >= ? AND date < ?", window.Start, window.End)
	if !scope.Unrestricted {
		query = scopeFeeders(query, "feeder_id", scope.FeederIDs)
	}

	var rows []CollectionTypeRow
	err := query.Select("type, COALESCE(SUM(amount), 0) AS amount").
		Group("type").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to sum daily collections by type: %w", err)
	}
	return rows, nil
}

// SumDailyCollectionsByTransformer sums daily collections per transformer
func (r *RevenueRepositoryImpl) SumDailyCollectionsByTransformer(ctx context.Context, scope models.FeederScope, window models.Window) (map[uint]decimal.Decimal, error) {
	if scope.IsEmpty() {
		return nil, nil
	}
	query := r.getDB(ctx).Model(&models.DailyCollection{}).
		Where("transformer_id IS NOT NULL").
		Where("date >= ? AND date < ?", window.Start, window.End)
	if !scope.Unrestricted {
		query = scopeFeeders(query, "feeder_id", scope.FeederIDs)
	}

	var rows []struct {
		TransformerID uint
		Amount        decimal.Decimal
	}
	err := query.Select("transformer_id, COALESCE(SUM(amount), 0) AS amount").
		Group("transformer_id").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to sum collections by transformer: %w", err)
	}

	totals := make(map[uint]decimal.Decimal, len(rows))
	for _, row := range rows {
		totals[row.TransformerID] = row.Amount
	}
	return totals, nil
}
