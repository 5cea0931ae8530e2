package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/powergridhq/disco-analytics/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SalesRepRepositoryImpl implements SalesRepRepository
type SalesRepRepositoryImpl struct {
	*BaseRepository[models.SalesRepresentative]
}

// NewSalesRepRepository creates a new sales representative repository
func NewSalesRepRepository(db *gorm.DB) SalesRepRepository {
	return &SalesRepRepositoryImpl{
		BaseRepository: NewBaseRepository[models.SalesRepresentative](db),
	}
}

// BySlug finds a sales representative by exact slug
func (r *SalesRepRepositoryImpl) BySlug(ctx context.Context, slug string) (*models.SalesRepresentative, error) {
	db := r.getDB(ctx)
	var rep models.SalesRepresentative
	err := db.Where("slug = ?", slug).First(&rep).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rep, nil
}

// DuplicateNameGroups returns groups of representatives sharing an exact name,
// one group per duplicated name, members ordered by created_at then ID so the
// first member is the merge primary.
func (r *SalesRepRepositoryImpl) DuplicateNameGroups(ctx context.Context) ([][]*models.SalesRepresentative, error) {
	db := r.getDB(ctx)

	var names []string
	err := db.Model(&models.SalesRepresentative{}).
		Select("name").
		Group("name").
		Having("COUNT(*) > 1").
		Pluck("name", &names).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find duplicated rep names: %w", err)
	}
	if len(names) == 0 {
		return nil, nil
	}

	var reps []*models.SalesRepresentative
	err = db.Where("name IN ?", names).
		Order("name, created_at, id").
		Find(&reps).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load duplicated reps: %w", err)
	}

	groups := make([][]*models.SalesRepresentative, 0, len(names))
	var current []*models.SalesRepresentative
	for _, rep := range reps {
		if len(current) > 0 && current[0].Name != rep.Name {
			groups = append(groups, current)
			current = nil
		}
		current = append(current, rep)
	}
	if len(current) > 0 {
		groups = append(groups, current)
	}
	return groups, nil
}

// TransformerIDs returns the IDs of transformers assigned to a representative
func (r *SalesRepRepositoryImpl) TransformerIDs(ctx context.Context, repID uint) ([]uint, error) {
	db := r.getDB(ctx)
	var ids []uint
	err := db.Table("sales_rep_transformers").
		Where("sales_representative_id = ?", repID).
		Pluck("distribution_transformer_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load rep transformers: %w", err)
	}
	return ids, nil
}

// AssignTransformers adds transformer assignments, ignoring ones already present
func (r *SalesRepRepositoryImpl) AssignTransformers(ctx context.Context, repID uint, transformerIDs []uint) error {
	if len(transformerIDs) == 0 {
		return nil
	}
	db := r.getDB(ctx)
	rows := make([]map[string]any, 0, len(transformerIDs))
	for _, id := range transformerIDs {
		rows = append(rows, map[string]any{
			"sales_representative_id":     repID,
			"distribution_transformer_id": id,
		})
	}
	err := db.Table("sales_rep_transformers").
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(rows).Error
	if err != nil {
		return fmt.Errorf("failed to assign transformers: %w", err)
	}
	return nil
}

// ClearTransformers removes all transformer assignments from a representative
func (r *SalesRepRepositoryImpl) ClearTransformers(ctx context.Context, repID uint) error {
	db := r.getDB(ctx)
	err := db.Table("sales_rep_transformers").
		Where("sales_representative_id = ?", repID).
		Delete(nil).Error
	if err != nil {
		return fmt.Errorf("failed to clear rep transformers: %w", err)
	}
	return nil
}

// SummariesOfRep returns every monthly commercial summary of a representative
func (r *SalesRepRepositoryImpl) SummariesOfRep(ctx context.Context, repID uint) ([]*models.MonthlyCommercialSummary, error) {
	db := r.getDB(ctx)
	var summaries []*models.MonthlyCommercialSummary
	err := db.Where("sales_rep_id = ?", repID).Order("month").Find(&summaries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load rep summaries: %w", err)
	}
	return summaries, nil
}

// SummaryOfRepMonth returns the summary of one representative for one month
func (r *SalesRepRepositoryImpl) SummaryOfRepMonth(ctx context.Context, repID uint, month time.Time) (*models.MonthlyCommercialSummary, error) {
	db := r.getDB(ctx)
	var summary models.MonthlyCommercialSummary
	err := db.Where("sales_rep_id = ? AND month = ?", repID, month).First(&summary).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &summary, nil
}

// SaveSummary inserts a monthly commercial summary
func (r *SalesRepRepositoryImpl) SaveSummary(ctx context.Context, summary *models.MonthlyCommercialSummary) error {
	db := r.getDB(ctx)
	if err := db.Create(summary).Error; err != nil {
		return fmt.Errorf("failed to save summary: %w", err)
	}
	return nil
}

// UpdateSummary persists changes to an existing summary
func (r *SalesRepRepositoryImpl) UpdateSummary(ctx context.Context, summary *models.MonthlyCommercialSummary) error {
	db := r.getDB(ctx)
	if err := db.Save(summary).Error; err != nil {
		return fmt.Errorf("failed to update summary: %w", err)
	}
	return nil
}

// DeleteSummary removes a summary by ID
func (r *SalesRepRepositoryImpl) DeleteSummary(ctx context.Context, summaryID uint) error {
	db := r.getDB(ctx)
	if err := db.Delete(&models.MonthlyCommercialSummary{}, summaryID).Error; err != nil {
		return fmt.Errorf("failed to delete summary: %w", err)
	}
	return nil
}

// ReassignFacts moves every fact referencing fromRepID onto toRepID
func (r *SalesRepRepositoryImpl) ReassignFacts(ctx context.Context, fromRepID, toRepID uint) error {
	db := r.getDB(ctx)
	tables := []string{"daily_collections", "daily_revenue_collected", "monthly_revenue_billed"}
	for _, table := range tables {
		err := db.Table(table).
			Where("sales_rep_id = ?", fromRepID).
			Update("sales_rep_id", toRepID).Error
		if err != nil {
			return fmt.Errorf("failed to reassign %s: %w", table, err)
		}
	}
	return nil
}

// CountFacts counts rows still referencing a representative
func (r *SalesRepRepositoryImpl) CountFacts(ctx context.Context, repID uint) (int64, error) {
	db := r.getDB(ctx)
	var total int64
	tables := []string{"daily_collections", "daily_revenue_collected", "monthly_revenue_billed", "monthly_commercial_summaries"}
	for _, table := range tables {
		var count int64
		if err := db.Table(table).Where("sales_rep_id = ?", repID).Count(&count).Error; err != nil {
			return 0, fmt.Errorf("failed to count %s: %w", table, err)
		}
		total += count
	}
	return total, nil
}

// PerformanceOfRep returns monthly performance snapshots inside the window
func (r *SalesRepRepositoryImpl) PerformanceOfRep(ctx context.Context, repID uint, window models.Window) ([]*models.SalesRepPerformance, error) {
	db := r.getDB(ctx)
	var rows []*models.SalesRepPerformance
	err := db.Where("sales_rep_id = ? AND month >= ? AND month < ?", repID, window.Start, window.End).
		Order("month").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load rep performance: %w", err)
	}
	return rows, nil
}

// RepIDsForScope returns representatives whose assigned transformers hang off
// the scope's feeders. An unrestricted scope returns nil, meaning all reps.
func (r *SalesRepRepositoryImpl) RepIDsForScope(ctx context.Context, scope models.FeederScope) ([]uint, error) {
	if scope.Unrestricted {
		return nil, nil
	}
	if scope.IsEmpty() {
		return []uint{}, nil
	}
	db := r.getDB(ctx)
	var ids []uint
	err := db.Table("sales_rep_transformers").
		Joins("JOIN distribution_transformers ON distribution_transformers.id = sales_rep_transformers.distribution_transformer_id").
		Where("distribution_transformers.feeder_id IN ?", scope.FeederIDs).
		Distinct().
		Pluck("sales_rep_transformers.sales_representative_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to resolve reps for scope: %w", err)
	}
	// A restricted scope with no assigned reps must stay non-nil; nil means
	// unrestricted to the summary aggregate.
	if ids == nil {
		ids = []uint{}
	}
	return ids, nil
}
