package repository

import (
	"context"
	"fmt"

	"github.com/powergridhq/disco-analytics/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CommercialRepositoryImpl implements CommercialRepository
type CommercialRepositoryImpl struct {
	*BaseRepository[models.MonthlyCustomerStats]
}

// NewCommercialRepository creates a new commercial repository
func NewCommercialRepository(db *gorm.DB) CommercialRepository {
	return &CommercialRepositoryImpl{
		BaseRepository: NewBaseRepository[models.MonthlyCustomerStats](db),
	}
}

// CustomerStatsTotals sums per-feeder customer counters over the window
func (r *CommercialRepositoryImpl) CustomerStatsTotals(ctx context.Context, scope models.FeederScope, window models.Window) (CustomerStatsTotals, error) {
	var totals CustomerStatsTotals
	if scope.IsEmpty() {
		return totals, nil
	}
	query := r.getDB(ctx).Model(&models.MonthlyCustomerStats{}).
		Where("month >= ? AND month < ?", window.Start, window.End)
	if !scope.Unrestricted {
		query = scopeFeeders(query, "feeder_id", scope.FeederIDs)
	}

	err := query.Select(
		"COALESCE(SUM(customer_count), 0) AS customer_count, " +
			"COALESCE(SUM(customers_billed), 0) AS customers_billed, " +
			"COALESCE(SUM(customer_response_count), 0) AS response_count").
		Scan(&totals).Error
	if err != nil {
		return CustomerStatsTotals{}, fmt.Errorf("failed to sum customer stats: %w", err)
	}
	return totals, nil
}

// UpsertCustomerStats writes monthly customer counters on their natural key
func (r *CommercialRepositoryImpl) UpsertCustomerStats(ctx context.Context, row *models.MonthlyCustomerStats) error {
	db := r.getDB(ctx)
	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "feeder_id"}, {Name: "month"}},
		DoUpdates: clause.AssignmentColumns([]string{"customer_count", "customers_billed", "customer_response_count", "updated_at"}),
	}).Create(row).Error
	if err != nil {
		return fmt.Errorf("failed to upsert customer stats: %w", err)
	}
	return nil
}

// SummaryTotals sums the four commercial counters over the window, optionally
// restricted to specific sales representatives. Nil repIDs means all reps.
func (r *CommercialRepositoryImpl) SummaryTotals(ctx context.Context, repIDs []uint, window models.Window) (CommercialSummaryTotals, error) {
	var totals CommercialSummaryTotals
	query := r.getDB(ctx).Model(&models.MonthlyCommercialSummary{}).
		Where("month >= ? AND month < ?", window.Start, window.End)
	if repIDs != nil {
		if len(repIDs) == 0 {
			return totals, nil
		}
		query = query.Where("sales_rep_id IN ?", repIDs)
	}

	err := query.Select(
		"COALESCE(SUM(revenue_billed), 0) AS revenue_billed, " +
			"COALESCE(SUM(revenue_collected), 0) AS revenue_collected, " +
			"COALESCE(SUM(customers_billed), 0) AS customers_billed, " +
			"COALESCE(SUM(customers_responded), 0) AS customers_responded").
		Scan(&totals).Error
	if err != nil {
		return CommercialSummaryTotals{}, fmt.Errorf("failed to sum commercial summaries: %w", err)
	}
	return totals, nil
}

// CustomerCountsByTransformer counts customers per transformer within the scope
func (r *CommercialRepositoryImpl) CustomerCountsByTransformer(ctx context.Context, scope models.FeederScope) (map[uint]int64, error) {
	counts := make(map[uint]int64)
	if scope.IsEmpty() {
		return counts, nil
	}
	query := r.getDB(ctx).Model(&models.Customer{}).
		Joins("JOIN distribution_transformers ON distribution_transformers.id = customers.transformer_id")
	if !scope.Unrestricted {
		query = query.Where("distribution_transformers.feeder_id IN ?", scope.FeederIDs)
	}

	var rows []struct {
		TransformerID uint
		Count         int64
	}
	err := query.Select("customers.transformer_id AS transformer_id, COUNT(*) AS count").
		Group("customers.transformer_id").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count customers by transformer: %w", err)
	}
	for _, row := range rows {
		counts[row.TransformerID] = row.Count
	}
	return counts, nil
}

// CustomerCountInScope counts customers attached to transformers of the scope's feeders
func (r *CommercialRepositoryImpl) CustomerCountInScope(ctx context.Context, scope models.FeederScope) (int64, error) {
	if scope.IsEmpty() {
		return 0, nil
	}
	query := r.getDB(ctx).Model(&models.Customer{}).
		Joins("JOIN distribution_transformers ON distribution_transformers.id = customers.transformer_id")
	if !scope.Unrestricted {
		query = query.Where("distribution_transformers.feeder_id IN ?", scope.FeederIDs)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count customers in scope: %w", err)
	}
	return count, nil
}
