package businessflow

import (
	"context"
	"encoding/json"
	"log"

	"github.com/powergridhq/disco-analytics/app/dto"
	"github.com/powergridhq/disco-analytics/models"
	"github.com/powergridhq/disco-analytics/repository"
	"github.com/powergridhq/disco-analytics/utils"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

// OverviewFlow serves the cached top-level dashboard
type OverviewFlow interface {
	Overview(ctx context.Context, query dto.AnalyticsQuery, fingerprint string) (*dto.OverviewResponse, error)
}

// OverviewFlowImpl computes the dashboard KPIs with a best-effort redis
// cache keyed by the request's full query string. Cache failures fall
// through to computation.
type OverviewFlowImpl struct {
	resolver       LocationResolver
	energyRepo     repository.EnergyRepository
	revenueRepo    repository.RevenueRepository
	commercialRepo repository.CommercialRepository
	redisClient    *redis.Client
	tariffPerMWh   decimal.Decimal
}

// NewOverviewFlow creates a new overview flow
func NewOverviewFlow(
	resolver LocationResolver,
	energyRepo repository.EnergyRepository,
	revenueRepo repository.RevenueRepository,
	commercialRepo repository.CommercialRepository,
	redisClient *redis.Client,
	tariffPerMWh float64,
) OverviewFlow {
	return &OverviewFlowImpl{
		resolver:       resolver,
		energyRepo:     energyRepo,
		revenueRepo:    revenueRepo,
		commercialRepo: commercialRepo,
		redisClient:    redisClient,
		tariffPerMWh:   decimal.NewFromFloat(tariffPerMWh),
	}
}

func (f *OverviewFlowImpl) Overview(ctx context.Context, query dto.AnalyticsQuery, fingerprint string) (*dto.OverviewResponse, error) {
	cacheKey := utils.OverviewCacheKeyPrefix + fingerprint

	if f.redisClient != nil {
		if cached, err := f.redisClient.Get(ctx, cacheKey).Result(); err == nil {
			var resp dto.OverviewResponse
			if err := json.Unmarshal([]byte(cached), &resp); err == nil {
				return &resp, nil
			}
		}
	}

	resp, err := f.compute(ctx, query)
	if err != nil {
		return nil, err
	}

	if f.redisClient != nil {
		if payload, err := json.Marshal(resp); err == nil {
			if err := f.redisClient.Set(ctx, cacheKey, payload, utils.OverviewCacheTTL).Err(); err != nil {
				log.Printf("overview cache write failed: %v", err)
			}
		}
	}
	return resp, nil
}

func (f *OverviewFlowImpl) compute(ctx context.Context, query dto.AnalyticsQuery) (*dto.OverviewResponse, error) {
	period := ResolvePeriod(PeriodInputFrom(query), utils.UTCNow())
	scope, err := f.resolver.Resolve(ctx, LocationFilterFrom(query))
	if err != nil {
		return nil, NewBusinessError("SCOPE_RESOLUTION_FAILED", "Failed to resolve location filter", err)
	}

	current, err := f.snapshot(ctx, scope, period.Current)
	if err != nil {
		return nil, err
	}

	history := make([]dto.OverviewMonthPoint, 0, len(period.History))
	for _, monthStart := range period.History {
		snap, err := f.snapshot(ctx, scope, MonthWindow(monthStart))
		if err != nil {
			return nil, err
		}
		history = append(history, dto.OverviewMonthPoint{
			Month: MonthAbbr(monthStart),
			KPIs:  snap,
		})
	}

	return &dto.OverviewResponse{
		Period:  ToPeriodInfo(period),
		Formula: FormulaATCCComplementary,
		Current: current,
		History: history,
	}, nil
}

// snapshot derives the overview KPI set for one window. ATCC uses the
// complementary form; energy collected is derived from delivered energy.
func (f *OverviewFlowImpl) snapshot(ctx context.Context, scope models.FeederScope, window models.Window) (dto.OverviewSnapshot, error) {
	var snap dto.OverviewSnapshot

	delivered, err := f.energyRepo.SumDelivered(ctx, scope, window)
	if err != nil {
		return snap, NewBusinessError("AGGREGATION_FAILED", "Failed to aggregate energy delivered", err)
	}
	billed, err := f.energyRepo.SumBilled(ctx, scope, window)
	if err != nil {
		return snap, NewBusinessError("AGGREGATION_FAILED", "Failed to aggregate energy billed", err)
	}
	revBilled, err := f.revenueRepo.SumBilledRevenue(ctx, scope, window)
	if err != nil {
		return snap, NewBusinessError("AGGREGATION_FAILED", "Failed to aggregate revenue billed", err)
	}
	revColl, err := f.revenueRepo.SumCollected(ctx, scope, window)
	if err != nil {
		return snap, NewBusinessError("AGGREGATION_FAILED", "Failed to aggregate revenue collected", err)
	}
	stats, err := f.commercialRepo.CustomerStatsTotals(ctx, scope, window)
	if err != nil {
		return snap, NewBusinessError("AGGREGATION_FAILED", "Failed to aggregate customer stats", err)
	}

	be := BillingEfficiency(billed, delivered)
	ce := CollectionEfficiency(revColl, revBilled)

	return dto.OverviewSnapshot{
		EnergyDelivered:      utils.Round2Float(delivered),
		EnergyBilled:         utils.Round2Float(billed),
		RevenueBilled:        utils.Round2Float(revBilled),
		RevenueCollected:     utils.Round2Float(revColl),
		BillingEfficiency:    utils.Round2Float(be),
		CollectionEfficiency: utils.Round2Float(ce),
		ATCC:                 utils.Round2Float(ATCCComplementary(be, ce)),
		ATCCDerivedLoss:      utils.Round2Float(ATCCDerivedLoss(be, ce)),
		EnergyCollected:      utils.Round2Float(EnergyCollectedFromDelivered(delivered, ce)),
		CustomerResponseRate: utils.Round2Float(CustomerResponseRate(stats.ResponseCount, stats.CustomersBilled)),
	}, nil
}
