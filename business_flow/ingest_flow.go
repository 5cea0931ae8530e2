package businessflow

import (
	"context"
	"fmt"
	"time"

	"github.com/powergridhq/disco-analytics/app/dto"
	"github.com/powergridhq/disco-analytics/models"
	"github.com/powergridhq/disco-analytics/repository"
	"github.com/powergridhq/disco-analytics/utils"
	"github.com/shopspring/decimal"
)

// IngestFlow accepts fact batches from the field reporting pipelines. Each
// stream upserts on its natural key, so re-sending a batch is safe.
type IngestFlow interface {
	EnergyDelivered(ctx context.Context, req *dto.EnergyDeliveredIngestRequest) (*dto.IngestResponse, error)
	EnergyBilled(ctx context.Context, req *dto.EnergyBilledIngestRequest) (*dto.IngestResponse, error)
	RevenueCollected(ctx context.Context, req *dto.RevenueCollectedIngestRequest) (*dto.IngestResponse, error)
	RevenueBilled(ctx context.Context, req *dto.RevenueBilledIngestRequest) (*dto.IngestResponse, error)
	CustomerStats(ctx context.Context, req *dto.CustomerStatsIngestRequest) (*dto.IngestResponse, error)
	HourlyLoads(ctx context.Context, req *dto.HourlyLoadIngestRequest) (*dto.IngestResponse, error)
	HoursOfSupply(ctx context.Context, req *dto.HoursOfSupplyIngestRequest) (*dto.IngestResponse, error)
	Interruptions(ctx context.Context, req *dto.InterruptionIngestRequest) (*dto.IngestResponse, error)
	CommercialSummaries(ctx context.Context, req *dto.CommercialSummaryIngestRequest) (*dto.IngestResponse, error)
}

// IngestFlowImpl implements the fact ingest streams. A row naming an unknown
// feeder or representative is skipped and recorded; the rest of the batch
// continues.
type IngestFlowImpl struct {
	locationRepo   repository.LocationRepository
	energyRepo     repository.EnergyRepository
	revenueRepo    repository.RevenueRepository
	commercialRepo repository.CommercialRepository
	technicalRepo  repository.TechnicalRepository
	salesRepRepo   repository.SalesRepRepository
}

// NewIngestFlow creates a new ingest flow
func NewIngestFlow(
	locationRepo repository.LocationRepository,
	energyRepo repository.EnergyRepository,
	revenueRepo repository.RevenueRepository,
	commercialRepo repository.CommercialRepository,
	technicalRepo repository.TechnicalRepository,
	salesRepRepo repository.SalesRepRepository,
) IngestFlow {
	return &IngestFlowImpl{
		locationRepo:   locationRepo,
		energyRepo:     energyRepo,
		revenueRepo:    revenueRepo,
		commercialRepo: commercialRepo,
		technicalRepo:  technicalRepo,
		salesRepRepo:   salesRepRepo,
	}
}

// ingestOutcome accumulates per-row results the way the bulk staff flow does
type ingestOutcome struct {
	resp dto.IngestResponse
}

func (o *ingestOutcome) accept() {
	o.resp.Accepted++
}

func (o *ingestOutcome) skip(index int, err error) {
	o.resp.Skipped++
	o.resp.ErrorDetails = append(o.resp.ErrorDetails, dto.IngestRowError{
		Index:   index,
		Message: err.Error(),
	})
}

// feederIDOf resolves a feeder name or slug to its ID
func (f *IngestFlowImpl) feederIDOf(ctx context.Context, key string) (uint, error) {
	ids, err := f.locationRepo.FeederIDsOfFeeder(ctx, key)
	if err != nil {
		return 0, err
	}
	if len(ids) == 0 {
		return 0, fmt.Errorf("unknown feeder %q", key)
	}
	return ids[0], nil
}

// parseMonth accepts any date within the month and normalizes it to the first
func parseMonth(s string) (time.Time, error) {
	t, err := parseDate(s)
	if err != nil {
		return time.Time{}, err
	}
	return utils.FirstOfMonth(t), nil
}

// parseTimestamp accepts RFC3339 or YYYY-MM-DD, keeping the time component
func parseTimestamp(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	if t, err := time.Parse(utils.DateLayout, s); err == nil {
		return t.UTC(), nil
	}
	return time.Time{}, fmt.Errorf("unparseable timestamp %q", s)
}

// EnergyDelivered upserts daily delivered-energy rows keyed by (feeder, date)
func (f *IngestFlowImpl) EnergyDelivered(ctx context.Context, req *dto.EnergyDeliveredIngestRequest) (*dto.IngestResponse, error) {
	out := &ingestOutcome{}
	for i, row := range req.Rows {
		feederID, err := f.feederIDOf(ctx, row.Feeder)
		if err != nil {
			out.skip(i, err)
			continue
		}
		date, err := parseDate(row.Date)
		if err != nil {
			out.skip(i, err)
			continue
		}
		err = f.energyRepo.UpsertDelivered(ctx, &models.DailyEnergyDelivered{
			FeederID:  feederID,
			Date:      date,
			EnergyMWh: decimal.NewFromFloat(row.EnergyMWh),
		})
		if err != nil {
			out.skip(i, err)
			continue
		}
		out.accept()
	}
	return &out.resp, nil
}

// EnergyBilled upserts monthly billed-energy rows keyed by (feeder, month)
func (f *IngestFlowImpl) EnergyBilled(ctx context.Context, req *dto.EnergyBilledIngestRequest) (*dto.IngestResponse, error) {
	out := &ingestOutcome{}
	for i, row := range req.Rows {
		feederID, err := f.feederIDOf(ctx, row.Feeder)
		if err != nil {
			out.skip(i, err)
			continue
		}
		month, err := parseMonth(row.Month)
		if err != nil {
			out.skip(i, err)
			continue
		}
		err = f.energyRepo.UpsertMonthlyBilled(ctx, &models.MonthlyEnergyBilled{
			FeederID:  feederID,
			Month:     month,
			EnergyMWh: decimal.NewFromFloat(row.EnergyMWh),
		})
		if err != nil {
			out.skip(i, err)
			continue
		}
		out.accept()
	}
	return &out.resp, nil
}

// RevenueCollected upserts daily collected-revenue rows keyed by (feeder, date)
func (f *IngestFlowImpl) RevenueCollected(ctx context.Context, req *dto.RevenueCollectedIngestRequest) (*dto.IngestResponse, error) {
	out := &ingestOutcome{}
	for i, row := range req.Rows {
		feederID, err := f.feederIDOf(ctx, row.Feeder)
		if err != nil {
			out.skip(i, err)
			continue
		}
		date, err := parseDate(row.Date)
		if err != nil {
			out.skip(i, err)
			continue
		}
		err = f.revenueRepo.UpsertCollected(ctx, &models.DailyRevenueCollected{
			FeederID: feederID,
			Date:     date,
			Amount:   decimal.NewFromFloat(row.Amount),
		})
		if err != nil {
			out.skip(i, err)
			continue
		}
		out.accept()
	}
	return &out.resp, nil
}

// RevenueBilled upserts monthly billed-revenue rows keyed by (feeder, month)
func (f *IngestFlowImpl) RevenueBilled(ctx context.Context, req *dto.RevenueBilledIngestRequest) (*dto.IngestResponse, error) {
	out := &ingestOutcome{}
	for i, row := range req.Rows {
		feederID, err := f.feederIDOf(ctx, row.Feeder)
		if err != nil {
			out.skip(i, err)
			continue
		}
		month, err := parseMonth(row.Month)
		if err != nil {
			out.skip(i, err)
			continue
		}
		err = f.revenueRepo.UpsertMonthlyBilled(ctx, &models.MonthlyRevenueBilled{
			FeederID: feederID,
			Month:    month,
			Amount:   decimal.NewFromFloat(row.Amount),
		})
		if err != nil {
			out.skip(i, err)
			continue
		}
		out.accept()
	}
	return &out.resp, nil
}

// CustomerStats upserts monthly customer counters keyed by (feeder, month).
// The response count may not exceed the billed count.
func (f *IngestFlowImpl) CustomerStats(ctx context.Context, req *dto.CustomerStatsIngestRequest) (*dto.IngestResponse, error) {
	out := &ingestOutcome{}
	for i, row := range req.Rows {
		if row.CustomersResponded > row.CustomersBilled {
			out.skip(i, fmt.Errorf("responded count %d exceeds billed count %d", row.CustomersResponded, row.CustomersBilled))
			continue
		}
		feederID, err := f.feederIDOf(ctx, row.Feeder)
		if err != nil {
			out.skip(i, err)
			continue
		}
		month, err := parseMonth(row.Month)
		if err != nil {
			out.skip(i, err)
			continue
		}
		err = f.commercialRepo.UpsertCustomerStats(ctx, &models.MonthlyCustomerStats{
			FeederID:              feederID,
			Month:                 month,
			CustomerCount:         row.CustomerCount,
			CustomersBilled:       row.CustomersBilled,
			CustomerResponseCount: row.CustomersResponded,
		})
		if err != nil {
			out.skip(i, err)
			continue
		}
		out.accept()
	}
	return &out.resp, nil
}

// HourlyLoads upserts load readings keyed by (feeder, date, hour)
func (f *IngestFlowImpl) HourlyLoads(ctx context.Context, req *dto.HourlyLoadIngestRequest) (*dto.IngestResponse, error) {
	out := &ingestOutcome{}
	for i, row := range req.Rows {
		feederID, err := f.feederIDOf(ctx, row.Feeder)
		if err != nil {
			out.skip(i, err)
			continue
		}
		date, err := parseDate(row.Date)
		if err != nil {
			out.skip(i, err)
			continue
		}
		err = f.technicalRepo.UpsertHourlyLoad(ctx, &models.HourlyLoad{
			FeederID: feederID,
			Date:     date,
			Hour:     row.Hour,
			LoadMW:   decimal.NewFromFloat(row.LoadMW),
		})
		if err != nil {
			out.skip(i, err)
			continue
		}
		out.accept()
	}
	return &out.resp, nil
}

// HoursOfSupply upserts daily energized-hours rows keyed by (feeder, date)
func (f *IngestFlowImpl) HoursOfSupply(ctx context.Context, req *dto.HoursOfSupplyIngestRequest) (*dto.IngestResponse, error) {
	out := &ingestOutcome{}
	for i, row := range req.Rows {
		feederID, err := f.feederIDOf(ctx, row.Feeder)
		if err != nil {
			out.skip(i, err)
			continue
		}
		date, err := parseDate(row.Date)
		if err != nil {
			out.skip(i, err)
			continue
		}
		err = f.technicalRepo.UpsertHoursOfSupply(ctx, &models.DailyHoursOfSupply{
			FeederID:      feederID,
			Date:          date,
			HoursSupplied: decimal.NewFromFloat(row.Hours),
		})
		if err != nil {
			out.skip(i, err)
			continue
		}
		out.accept()
	}
	return &out.resp, nil
}

// Interruptions upserts outages keyed by (feeder, occurred_at, type). A row
// without a restoration time records an open fault.
func (f *IngestFlowImpl) Interruptions(ctx context.Context, req *dto.InterruptionIngestRequest) (*dto.IngestResponse, error) {
	out := &ingestOutcome{}
	for i, row := range req.Rows {
		typ := models.InterruptionType(row.Type)
		if !typ.Valid() {
			out.skip(i, fmt.Errorf("unknown interruption type %q", row.Type))
			continue
		}
		feederID, err := f.feederIDOf(ctx, row.Feeder)
		if err != nil {
			out.skip(i, err)
			continue
		}
		occurredAt, err := parseTimestamp(row.OccurredAt)
		if err != nil {
			out.skip(i, err)
			continue
		}
		var restoredAt *time.Time
		if row.RestoredAt != "" {
			restored, err := parseTimestamp(row.RestoredAt)
			if err != nil {
				out.skip(i, err)
				continue
			}
			if restored.Before(occurredAt) {
				out.skip(i, fmt.Errorf("restoration %s precedes occurrence %s", row.RestoredAt, row.OccurredAt))
				continue
			}
			restoredAt = &restored
		}
		err = f.technicalRepo.UpsertInterruption(ctx, &models.FeederInterruption{
			FeederID:   feederID,
			Type:       typ,
			OccurredAt: occurredAt,
			RestoredAt: restoredAt,
		})
		if err != nil {
			out.skip(i, err)
			continue
		}
		out.accept()
	}
	return &out.resp, nil
}

// CommercialSummaries creates or updates per-representative monthly counters
// keyed by (sales_rep, month). Representatives are matched by slug.
func (f *IngestFlowImpl) CommercialSummaries(ctx context.Context, req *dto.CommercialSummaryIngestRequest) (*dto.IngestResponse, error) {
	out := &ingestOutcome{}
	for i, row := range req.Rows {
		if row.CustomersResponded > row.CustomersBilled {
			out.skip(i, fmt.Errorf("responded count %d exceeds billed count %d", row.CustomersResponded, row.CustomersBilled))
			continue
		}
		rep, err := f.salesRepRepo.BySlug(ctx, row.SalesRep)
		if err != nil {
			out.skip(i, err)
			continue
		}
		if rep == nil {
			out.skip(i, fmt.Errorf("unknown sales representative %q", row.SalesRep))
			continue
		}
		month, err := parseMonth(row.Month)
		if err != nil {
			out.skip(i, err)
			continue
		}

		existing, err := f.salesRepRepo.SummaryOfRepMonth(ctx, rep.ID, month)
		if err != nil {
			out.skip(i, err)
			continue
		}

		summary := existing
		if summary == nil {
			summary = &models.MonthlyCommercialSummary{SalesRepID: rep.ID, Month: month}
		}
		summary.CustomersBilled = row.CustomersBilled
		summary.CustomersResponded = row.CustomersResponded
		summary.RevenueBilled = decimal.NewFromFloat(row.RevenueBilled)
		summary.RevenueCollected = decimal.NewFromFloat(row.RevenueCollected)

		if existing == nil {
			err = f.salesRepRepo.SaveSummary(ctx, summary)
		} else {
			err = f.salesRepRepo.UpdateSummary(ctx, summary)
		}
		if err != nil {
			out.skip(i, err)
			continue
		}
		out.accept()
	}
	return &out.resp, nil
}
