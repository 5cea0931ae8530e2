package businessflow

import (
	"context"
	"log"
	"strings"

	"github.com/powergridhq/disco-analytics/app/dto"
	"github.com/powergridhq/disco-analytics/models"
	"github.com/powergridhq/disco-analytics/repository"
	"gorm.io/gorm"
)

// SalesRepMergeFlow consolidates duplicate sales representatives
type SalesRepMergeFlow interface {
	Merge(ctx context.Context, dryRun bool) (*dto.MergeSalesRepsResponse, error)
}

// SalesRepMergeFlowImpl merges every duplicate-name group inside its own
// SERIALIZABLE transaction. The rep with the earliest created_at (tie-break
// by ID) is kept as the primary; transformers are unioned, summaries are
// merged or reassigned, and facts are moved before the duplicates go.
type SalesRepMergeFlowImpl struct {
	db           *gorm.DB
	salesRepRepo repository.SalesRepRepository
}

// NewSalesRepMergeFlow creates a new merge flow
func NewSalesRepMergeFlow(db *gorm.DB, salesRepRepo repository.SalesRepRepository) SalesRepMergeFlow {
	return &SalesRepMergeFlowImpl{
		db:           db,
		salesRepRepo: salesRepRepo,
	}
}

func (f *SalesRepMergeFlowImpl) Merge(ctx context.Context, dryRun bool) (*dto.MergeSalesRepsResponse, error) {
	groups, err := f.salesRepRepo.DuplicateNameGroups(ctx)
	if err != nil {
		return nil, NewBusinessError("MERGE_SCAN_FAILED", "Failed to scan for duplicate reps", err)
	}

	resp := &dto.MergeSalesRepsResponse{
		DryRun:      dryRun,
		GroupsFound: len(groups),
	}

	for _, group := range groups {
		report, err := f.mergeGroup(ctx, group, dryRun)
		if err != nil {
			if isSerializationExhausted(err) {
				return nil, NewBusinessError("MERGE_CONFLICT", "Merge failed after retries", ErrMergeConflict)
			}
			return nil, NewBusinessError("MERGE_FAILED", "Failed to merge duplicate reps", err)
		}
		resp.Groups = append(resp.Groups, *report)
		if !dryRun {
			resp.GroupsMerged++
		}
	}

	return resp, nil
}

// isSerializationExhausted detects the wrapped error produced when
// WithSerializableTransaction gives up after its final retry.
func isSerializationExhausted(err error) bool {
	return err != nil && strings.Contains(err.Error(), "failed after")
}

// mergeGroup consolidates one duplicate-name group. The group slice is
// ordered by created_at then ID, so the first member is the primary.
func (f *SalesRepMergeFlowImpl) mergeGroup(ctx context.Context, group []*models.SalesRepresentative, dryRun bool) (*dto.MergeGroupReport, error) {
	primary := group[0]
	duplicates := group[1:]

	report := &dto.MergeGroupReport{
		Name:        primary.Name,
		PrimarySlug: primary.Slug,
	}

	if dryRun {
		for _, dup := range duplicates {
			report.MergedSlugs = append(report.MergedSlugs, dup.Slug)
			ids, err := f.salesRepRepo.TransformerIDs(ctx, dup.ID)
			if err != nil {
				return nil, err
			}
			report.TransformersReassigned += len(ids)
			summaries, err := f.salesRepRepo.SummariesOfRep(ctx, dup.ID)
			if err != nil {
				return nil, err
			}
			report.SummariesReassigned += len(summaries)
			facts, err := f.salesRepRepo.CountFacts(ctx, dup.ID)
			if err != nil {
				return nil, err
			}
			report.FactsReassigned += facts
		}
		return report, nil
	}

	err := repository.WithSerializableTransaction(ctx, f.db, func(txCtx context.Context) error {
		for _, dup := range duplicates {
			if err := f.mergeOne(txCtx, primary, dup, report); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("merged %d duplicate reps into %s", len(duplicates), primary.Slug)
	return report, nil
}

func (f *SalesRepMergeFlowImpl) mergeOne(ctx context.Context, primary, dup *models.SalesRepresentative, report *dto.MergeGroupReport) error {
	// Union the duplicate's transformers into the primary.
	dupTransformers, err := f.salesRepRepo.TransformerIDs(ctx, dup.ID)
	if err != nil {
		return err
	}
	if err := f.salesRepRepo.AssignTransformers(ctx, primary.ID, dupTransformers); err != nil {
		return err
	}
	if err := f.salesRepRepo.ClearTransformers(ctx, dup.ID); err != nil {
		return err
	}
	report.TransformersReassigned += len(dupTransformers)

	// Fold monthly summaries into the primary's, month by month.
	summaries, err := f.salesRepRepo.SummariesOfRep(ctx, dup.ID)
	if err != nil {
		return err
	}
	for _, summary := range summaries {
		existing, err := f.salesRepRepo.SummaryOfRepMonth(ctx, primary.ID, summary.Month)
		if err != nil {
			return err
		}
		if existing != nil {
			existing.CustomersBilled += summary.CustomersBilled
			existing.CustomersResponded += summary.CustomersResponded
			existing.RevenueBilled = existing.RevenueBilled.Add(summary.RevenueBilled)
			existing.RevenueCollected = existing.RevenueCollected.Add(summary.RevenueCollected)
			if err := f.salesRepRepo.UpdateSummary(ctx, existing); err != nil {
				return err
			}
			if err := f.salesRepRepo.DeleteSummary(ctx, summary.ID); err != nil {
				return err
			}
			report.SummariesMerged++
		} else {
			summary.SalesRepID = primary.ID
			if err := f.salesRepRepo.UpdateSummary(ctx, summary); err != nil {
				return err
			}
			report.SummariesReassigned++
		}
	}

	// Move remaining facts, then the duplicate itself can go.
	facts, err := f.salesRepRepo.CountFacts(ctx, dup.ID)
	if err != nil {
		return err
	}
	if err := f.salesRepRepo.ReassignFacts(ctx, dup.ID, primary.ID); err != nil {
		return err
	}
	report.FactsReassigned += facts

	if err := f.salesRepRepo.Delete(ctx, dup.ID); err != nil {
		return err
	}
	report.MergedSlugs = append(report.MergedSlugs, dup.Slug)
	return nil
}
