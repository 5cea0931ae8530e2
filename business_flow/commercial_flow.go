package businessflow

import (
	"context"
	"math/rand"
	"sort"

	"github.com/powergridhq/disco-analytics/app/dto"
	"github.com/powergridhq/disco-analytics/models"
	"github.com/powergridhq/disco-analytics/repository"
	"github.com/powergridhq/disco-analytics/utils"
	"github.com/shopspring/decimal"
)

// CommercialFlow serves the commercial KPI slices
type CommercialFlow interface {
	AllStates(ctx context.Context, query dto.AnalyticsQuery) (*dto.AllStatesCommercialResponse, error)
	StateSeries(ctx context.Context, query dto.AnalyticsQuery) (*dto.StateCommercialSeriesResponse, error)
	Districts(ctx context.Context, query dto.AnalyticsQuery) (*dto.DistrictsCommercialResponse, error)
	Feeders(ctx context.Context, query dto.AnalyticsQuery) (*dto.FeedersCommercialResponse, error)
	Transformers(ctx context.Context, query dto.AnalyticsQuery) (*dto.TransformersCommercialResponse, error)
	ServiceBands(ctx context.Context, query dto.AnalyticsQuery) (*dto.ServiceBandsResponse, error)
	SalesRepSummary(ctx context.Context, query dto.AnalyticsQuery) (*dto.SalesRepSummaryResponse, error)
}

// CommercialFlowImpl combines fact aggregates into commercial KPI envelopes
type CommercialFlowImpl struct {
	locationRepo   repository.LocationRepository
	resolver       LocationResolver
	energyRepo     repository.EnergyRepository
	revenueRepo    repository.RevenueRepository
	commercialRepo repository.CommercialRepository
	technicalRepo  repository.TechnicalRepository
	salesRepRepo   repository.SalesRepRepository
	tariffPerMWh   decimal.Decimal
}

// NewCommercialFlow creates a new commercial flow
func NewCommercialFlow(
	locationRepo repository.LocationRepository,
	resolver LocationResolver,
	energyRepo repository.EnergyRepository,
	revenueRepo repository.RevenueRepository,
	commercialRepo repository.CommercialRepository,
	technicalRepo repository.TechnicalRepository,
	salesRepRepo repository.SalesRepRepository,
	tariffPerMWh float64,
) CommercialFlow {
	return &CommercialFlowImpl{
		locationRepo:   locationRepo,
		resolver:       resolver,
		energyRepo:     energyRepo,
		revenueRepo:    revenueRepo,
		commercialRepo: commercialRepo,
		technicalRepo:  technicalRepo,
		salesRepRepo:   salesRepRepo,
		tariffPerMWh:   decimal.NewFromFloat(tariffPerMWh),
	}
}

// PeriodInputFrom extracts period parameters from an analytics query
func PeriodInputFrom(q dto.AnalyticsQuery) PeriodInput {
	return PeriodInput{
		Mode:     q.Mode,
		Year:     q.Year,
		Month:    q.Month,
		FromDate: q.FromDate,
		ToDate:   q.ToDate,
		Date:     q.Date,
	}
}

// LocationFilterFrom extracts geographic selectors from an analytics query
func LocationFilterFrom(q dto.AnalyticsQuery) models.LocationFilter {
	return models.LocationFilter{
		State:            q.State,
		District:         q.District,
		BusinessDistrict: q.BusinessDistrict,
		Substation:       q.Substation,
		Feeder:           q.Feeder,
		Transformer:      q.Transformer,
		Band:             q.Band,
	}
}

// windowAggregates is the raw aggregate tuple one KPI block is built from
type windowAggregates struct {
	delivered decimal.Decimal
	billed    decimal.Decimal
	revBilled decimal.Decimal
	revColl   decimal.Decimal
	stats     repository.CustomerStatsTotals
}

func (f *CommercialFlowImpl) aggregates(ctx context.Context, scope models.FeederScope, window models.Window) (windowAggregates, error) {
	var agg windowAggregates
	var err error
	if agg.delivered, err = f.energyRepo.SumDelivered(ctx, scope, window); err != nil {
		return agg, err
	}
	if agg.billed, err = f.energyRepo.SumBilled(ctx, scope, window); err != nil {
		return agg, err
	}
	if agg.revBilled, err = f.revenueRepo.SumBilledRevenue(ctx, scope, window); err != nil {
		return agg, err
	}
	if agg.revColl, err = f.revenueRepo.SumCollected(ctx, scope, window); err != nil {
		return agg, err
	}
	if agg.stats, err = f.commercialRepo.CustomerStatsTotals(ctx, scope, window); err != nil {
		return agg, err
	}
	return agg, nil
}

type atccForm int

const (
	atccMultiplicative atccForm = iota
	atccComplementary
)

func atccOf(form atccForm, be, ce decimal.Decimal) decimal.Decimal {
	if form == atccComplementary {
		return ATCCComplementary(be, ce)
	}
	return ATCCMultiplicative(be, ce)
}

// kpisOf derives the commercial KPI block from current and previous
// aggregates. Targets go on the four headline efficiencies.
func (f *CommercialFlowImpl) kpisOf(cur, prev windowAggregates, form atccForm, rng *rand.Rand) dto.CommercialKPIs {
	be := BillingEfficiency(cur.billed, cur.delivered)
	ce := CollectionEfficiency(cur.revColl, cur.revBilled)
	prevBE := BillingEfficiency(prev.billed, prev.delivered)
	prevCE := CollectionEfficiency(prev.revColl, prev.revBilled)

	return dto.CommercialKPIs{
		EnergyDelivered:      MetricOf(cur.delivered, prev.delivered),
		EnergyBilled:         MetricOf(cur.billed, prev.billed),
		RevenueBilled:        MetricOf(cur.revBilled, prev.revBilled),
		RevenueCollected:     MetricOf(cur.revColl, prev.revColl),
		BillingEfficiency:    WithTarget(MetricOf(be, prevBE), rng),
		CollectionEfficiency: WithTarget(MetricOf(ce, prevCE), rng),
		ATCC:                 WithTarget(MetricOf(atccOf(form, be, ce), atccOf(form, prevBE, prevCE)), rng),
		EnergyCollected:      MetricOf(EnergyCollectedFromTariff(cur.revColl, f.tariffPerMWh), EnergyCollectedFromTariff(prev.revColl, f.tariffPerMWh)),
		CustomerResponseRate: WithTarget(MetricOf(
			CustomerResponseRate(cur.stats.ResponseCount, cur.stats.CustomersBilled),
			CustomerResponseRate(prev.stats.ResponseCount, prev.stats.CustomersBilled)), rng),
	}
}

// AllStates returns one KPI row per state using the multiplicative ATCC form
func (f *CommercialFlowImpl) AllStates(ctx context.Context, query dto.AnalyticsQuery) (*dto.AllStatesCommercialResponse, error) {
	period := ResolvePeriod(PeriodInputFrom(query), utils.UTCNow())
	states, err := f.locationRepo.ListStates(ctx)
	if err != nil {
		return nil, NewBusinessError("STATE_LIST_FAILED", "Failed to list states", err)
	}

	rng := NewTargetRand()
	rows := make([]dto.StateCommercialRow, 0, len(states))
	for _, state := range states {
		ids, err := f.locationRepo.FeederIDsOfState(ctx, state.Slug)
		if err != nil {
			return nil, NewBusinessError("STATE_SCOPE_FAILED", "Failed to resolve state feeders", err)
		}
		scope := models.ScopeOf(ids...)

		cur, err := f.aggregates(ctx, scope, period.Current)
		if err != nil {
			return nil, NewBusinessError("AGGREGATION_FAILED", "Failed to aggregate state facts", err)
		}
		prev, err := f.aggregates(ctx, scope, period.Previous)
		if err != nil {
			return nil, NewBusinessError("AGGREGATION_FAILED", "Failed to aggregate state facts", err)
		}

		rows = append(rows, dto.StateCommercialRow{
			State:          state.Name,
			Slug:           state.Slug,
			Formula:        FormulaATCCMultiplicative,
			CommercialKPIs: f.kpisOf(cur, prev, atccMultiplicative, rng),
		})
	}

	return &dto.AllStatesCommercialResponse{
		Period: ToPeriodInfo(period),
		States: rows,
	}, nil
}

// StateSeries returns the five-month series for one state
func (f *CommercialFlowImpl) StateSeries(ctx context.Context, query dto.AnalyticsQuery) (*dto.StateCommercialSeriesResponse, error) {
	if query.State == "" {
		return nil, NewBusinessError("INVALID_STATE", "Invalid state", ErrStateRequired)
	}
	state, err := f.locationRepo.StateByNameOrSlug(ctx, query.State)
	if err != nil {
		return nil, NewBusinessError("STATE_LOOKUP_FAILED", "Failed to lookup state", err)
	}
	if state == nil {
		return nil, NewBusinessError("INVALID_STATE", "Invalid state", ErrStateNotFound)
	}

	period := ResolvePeriod(PeriodInputFrom(query), utils.UTCNow())
	ids, err := f.locationRepo.FeederIDsOfState(ctx, state.Slug)
	if err != nil {
		return nil, NewBusinessError("STATE_SCOPE_FAILED", "Failed to resolve state feeders", err)
	}
	scope := models.ScopeOf(ids...)

	series := make([]dto.MonthCommercialPoint, 0, len(period.History))
	for _, monthStart := range period.History {
		window := MonthWindow(monthStart)
		agg, err := f.aggregates(ctx, scope, window)
		if err != nil {
			return nil, NewBusinessError("AGGREGATION_FAILED", "Failed to aggregate state facts", err)
		}
		be := BillingEfficiency(agg.billed, agg.delivered)
		ce := CollectionEfficiency(agg.revColl, agg.revBilled)
		series = append(series, dto.MonthCommercialPoint{
			Month:                MonthAbbr(monthStart),
			EnergyDelivered:      utils.Round2Float(agg.delivered),
			EnergyBilled:         utils.Round2Float(agg.billed),
			RevenueBilled:        utils.Round2Float(agg.revBilled),
			RevenueCollected:     utils.Round2Float(agg.revColl),
			BillingEfficiency:    utils.Round2Float(be),
			CollectionEfficiency: utils.Round2Float(ce),
			ATCC:                 utils.Round2Float(ATCCMultiplicative(be, ce)),
		})
	}

	return &dto.StateCommercialSeriesResponse{
		State:   state.Name,
		Slug:    state.Slug,
		Formula: FormulaATCCMultiplicative,
		Series:  series,
	}, nil
}

// Districts returns one KPI row per district of a state, multiplicative ATCC
func (f *CommercialFlowImpl) Districts(ctx context.Context, query dto.AnalyticsQuery) (*dto.DistrictsCommercialResponse, error) {
	if query.State == "" {
		return nil, NewBusinessError("INVALID_STATE", "Invalid state", ErrStateRequired)
	}
	state, err := f.locationRepo.StateByNameOrSlug(ctx, query.State)
	if err != nil {
		return nil, NewBusinessError("STATE_LOOKUP_FAILED", "Failed to lookup state", err)
	}
	if state == nil {
		return nil, NewBusinessError("INVALID_STATE", "Invalid state", ErrStateNotFound)
	}

	period := ResolvePeriod(PeriodInputFrom(query), utils.UTCNow())
	districts, err := f.locationRepo.DistrictsOfState(ctx, state.ID)
	if err != nil {
		return nil, NewBusinessError("DISTRICT_LIST_FAILED", "Failed to list districts", err)
	}

	rng := NewTargetRand()
	rows := make([]dto.DistrictCommercialRow, 0, len(districts))
	for _, district := range districts {
		ids, err := f.locationRepo.FeederIDsOfDistrictIDs(ctx, []uint{district.ID})
		if err != nil {
			return nil, NewBusinessError("DISTRICT_SCOPE_FAILED", "Failed to resolve district feeders", err)
		}
		scope := models.ScopeOf(ids...)

		cur, err := f.aggregates(ctx, scope, period.Current)
		if err != nil {
			return nil, NewBusinessError("AGGREGATION_FAILED", "Failed to aggregate district facts", err)
		}
		prev, err := f.aggregates(ctx, scope, period.Previous)
		if err != nil {
			return nil, NewBusinessError("AGGREGATION_FAILED", "Failed to aggregate district facts", err)
		}

		rows = append(rows, dto.DistrictCommercialRow{
			District:       district.Name,
			Slug:           district.Slug,
			Formula:        FormulaATCCMultiplicative,
			CommercialKPIs: f.kpisOf(cur, prev, atccMultiplicative, rng),
		})
	}

	return &dto.DistrictsCommercialResponse{
		State:     state.Name,
		Period:    ToPeriodInfo(period),
		Districts: rows,
	}, nil
}

// Feeders returns per-feeder KPI rows with the complementary ATCC form,
// sorted by ATCC with optional top-N / bottom-N slicing.
func (f *CommercialFlowImpl) Feeders(ctx context.Context, query dto.AnalyticsQuery) (*dto.FeedersCommercialResponse, error) {
	period := ResolvePeriod(PeriodInputFrom(query), utils.UTCNow())
	scope, err := f.resolver.Resolve(ctx, LocationFilterFrom(query))
	if err != nil {
		return nil, NewBusinessError("SCOPE_RESOLUTION_FAILED", "Failed to resolve location filter", err)
	}

	feeders, err := f.locationRepo.FeedersInScope(ctx, scope)
	if err != nil {
		return nil, NewBusinessError("FEEDER_LIST_FAILED", "Failed to list feeders", err)
	}

	delivered, err := f.energyRepo.SumDeliveredByFeeder(ctx, scope, period.Current)
	if err != nil {
		return nil, NewBusinessError("AGGREGATION_FAILED", "Failed to aggregate energy delivered", err)
	}
	billed, err := f.energyRepo.SumBilledByFeeder(ctx, scope, period.Current)
	if err != nil {
		return nil, NewBusinessError("AGGREGATION_FAILED", "Failed to aggregate energy billed", err)
	}
	revBilled, err := f.revenueRepo.SumBilledRevenueByFeeder(ctx, scope, period.Current)
	if err != nil {
		return nil, NewBusinessError("AGGREGATION_FAILED", "Failed to aggregate revenue billed", err)
	}
	revColl, err := f.revenueRepo.SumCollectedByFeeder(ctx, scope, period.Current)
	if err != nil {
		return nil, NewBusinessError("AGGREGATION_FAILED", "Failed to aggregate revenue collected", err)
	}

	deliveredBy := indexRows(delivered)
	billedBy := indexRows(billed)
	revBilledBy := indexRows(revBilled)
	revCollBy := indexRows(revColl)

	rows := make([]dto.FeederCommercialRow, 0, len(feeders))
	for _, feeder := range feeders {
		d := deliveredBy[feeder.ID]
		eb := billedBy[feeder.ID]
		rb := revBilledBy[feeder.ID]
		rc := revCollBy[feeder.ID]
		be := BillingEfficiency(eb, d)
		ce := CollectionEfficiency(rc, rb)

		row := dto.FeederCommercialRow{
			Feeder:               feeder.Name,
			Slug:                 feeder.Slug,
			VoltageLevel:         feeder.VoltageLevel.String(),
			EnergyDelivered:      utils.Round2Float(d),
			EnergyBilled:         utils.Round2Float(eb),
			RevenueBilled:        utils.Round2Float(rb),
			RevenueCollected:     utils.Round2Float(rc),
			BillingEfficiency:    utils.Round2Float(be),
			CollectionEfficiency: utils.Round2Float(ce),
			ATCC:                 utils.Round2Float(ATCCComplementary(be, ce)),
		}
		if feeder.Band != nil {
			row.Band = feeder.Band.Name
		}
		rows = append(rows, row)
	}

	sort.SliceStable(rows, func(i, j int) bool { return rows[i].ATCC > rows[j].ATCC })
	rows = sliceTopBottom(rows, query.Top, query.Bottom)

	return &dto.FeedersCommercialResponse{
		Period:  ToPeriodInfo(period),
		Formula: FormulaATCCComplementary,
		Feeders: rows,
	}, nil
}

// Transformers returns per-transformer customer counts and collections
func (f *CommercialFlowImpl) Transformers(ctx context.Context, query dto.AnalyticsQuery) (*dto.TransformersCommercialResponse, error) {
	period := ResolvePeriod(PeriodInputFrom(query), utils.UTCNow())
	scope, err := f.resolver.Resolve(ctx, LocationFilterFrom(query))
	if err != nil {
		return nil, NewBusinessError("SCOPE_RESOLUTION_FAILED", "Failed to resolve location filter", err)
	}

	transformers, err := f.locationRepo.TransformersInScope(ctx, scope)
	if err != nil {
		return nil, NewBusinessError("TRANSFORMER_LIST_FAILED", "Failed to list transformers", err)
	}
	collections, err := f.revenueRepo.SumDailyCollectionsByTransformer(ctx, scope, period.Current)
	if err != nil {
		return nil, NewBusinessError("AGGREGATION_FAILED", "Failed to aggregate collections", err)
	}
	customers, err := f.commercialRepo.CustomerCountsByTransformer(ctx, scope)
	if err != nil {
		return nil, NewBusinessError("AGGREGATION_FAILED", "Failed to count customers", err)
	}

	rows := make([]dto.TransformerCommercialRow, 0, len(transformers))
	for _, t := range transformers {
		rows = append(rows, dto.TransformerCommercialRow{
			Transformer:   t.Name,
			Slug:          t.Slug,
			Feeder:        t.Feeder.Name,
			CustomerCount: customers[t.ID],
			Collections:   utils.Round2Float(collections[t.ID]),
		})
	}

	return &dto.TransformersCommercialResponse{
		Period:       ToPeriodInfo(period),
		Transformers: rows,
	}, nil
}

// ServiceBands groups feeders by regulatory band with per-band counts, the
// average peak load, and the two simulated quality metrics.
func (f *CommercialFlowImpl) ServiceBands(ctx context.Context, query dto.AnalyticsQuery) (*dto.ServiceBandsResponse, error) {
	period := ResolvePeriod(PeriodInputFrom(query), utils.UTCNow())
	scope, err := f.resolver.Resolve(ctx, LocationFilterFrom(query))
	if err != nil {
		return nil, NewBusinessError("SCOPE_RESOLUTION_FAILED", "Failed to resolve location filter", err)
	}

	bands, err := f.locationRepo.ListBands(ctx)
	if err != nil {
		return nil, NewBusinessError("BAND_LIST_FAILED", "Failed to list bands", err)
	}

	rows := make([]dto.ServiceBandRow, 0, len(bands))
	for _, band := range bands {
		bandIDs, err := f.locationRepo.FeederIDsOfBand(ctx, band.Name)
		if err != nil {
			return nil, NewBusinessError("BAND_SCOPE_FAILED", "Failed to resolve band feeders", err)
		}
		if !scope.Unrestricted {
			bandIDs = intersectIDs(scope.FeederIDs, bandIDs)
		}
		bandScope := models.ScopeOf(bandIDs...)

		customerCount, err := f.commercialRepo.CustomerCountInScope(ctx, bandScope)
		if err != nil {
			return nil, NewBusinessError("AGGREGATION_FAILED", "Failed to count customers", err)
		}
		peaks, err := f.technicalRepo.PeakLoadByFeeder(ctx, bandScope, period.Current)
		if err != nil {
			return nil, NewBusinessError("AGGREGATION_FAILED", "Failed to aggregate peak load", err)
		}

		rows = append(rows, dto.ServiceBandRow{
			Band:                   band.Name,
			FeederCount:            len(bandIDs),
			CustomerCount:          customerCount,
			AvgPeakLoad:            avgOfRows(peaks),
			DurationOfInterruption: BandInterruptionDuration(band.Name),
			TurnaroundTime:         BandTurnaroundTime(band.Name),
		})
	}

	return &dto.ServiceBandsResponse{
		Period: ToPeriodInfo(period),
		Bands:  rows,
	}, nil
}

// SalesRepSummary sums the monthly commercial summaries of every sales
// representative working the scoped feeders, with deltas against the
// previous window.
func (f *CommercialFlowImpl) SalesRepSummary(ctx context.Context, query dto.AnalyticsQuery) (*dto.SalesRepSummaryResponse, error) {
	period := ResolvePeriod(PeriodInputFrom(query), utils.UTCNow())
	scope, err := f.resolver.Resolve(ctx, LocationFilterFrom(query))
	if err != nil {
		return nil, NewBusinessError("SCOPE_RESOLUTION_FAILED", "Failed to resolve location filter", err)
	}

	repIDs, err := f.salesRepRepo.RepIDsForScope(ctx, scope)
	if err != nil {
		return nil, NewBusinessError("REP_SCOPE_FAILED", "Failed to resolve sales representatives", err)
	}

	cur, err := f.commercialRepo.SummaryTotals(ctx, repIDs, period.Current)
	if err != nil {
		return nil, NewBusinessError("AGGREGATION_FAILED", "Failed to aggregate commercial summaries", err)
	}
	prev, err := f.commercialRepo.SummaryTotals(ctx, repIDs, period.Previous)
	if err != nil {
		return nil, NewBusinessError("AGGREGATION_FAILED", "Failed to aggregate commercial summaries", err)
	}

	repCount := len(repIDs)
	if repIDs == nil {
		total, err := f.salesRepRepo.Count(ctx)
		if err != nil {
			return nil, NewBusinessError("REP_SCOPE_FAILED", "Failed to count sales representatives", err)
		}
		repCount = int(total)
	}

	return &dto.SalesRepSummaryResponse{
		Period:             ToPeriodInfo(period),
		RepCount:           repCount,
		CustomersBilled:    MetricOf(decimal.NewFromInt(cur.CustomersBilled), decimal.NewFromInt(prev.CustomersBilled)),
		CustomersResponded: MetricOf(decimal.NewFromInt(cur.CustomersResponded), decimal.NewFromInt(prev.CustomersResponded)),
		ResponseRate: MetricOf(
			CustomerResponseRate(cur.CustomersResponded, cur.CustomersBilled),
			CustomerResponseRate(prev.CustomersResponded, prev.CustomersBilled)),
		RevenueBilled:    MetricOf(cur.RevenueBilled, prev.RevenueBilled),
		RevenueCollected: MetricOf(cur.RevenueCollected, prev.RevenueCollected),
		CollectionEfficiency: MetricOf(
			CollectionEfficiency(cur.RevenueCollected, cur.RevenueBilled),
			CollectionEfficiency(prev.RevenueCollected, prev.RevenueBilled)),
	}, nil
}

func indexRows(rows []repository.FeederEnergyRow) map[uint]decimal.Decimal {
	byID := make(map[uint]decimal.Decimal, len(rows))
	for _, row := range rows {
		byID[row.FeederID] = row.Total
	}
	return byID
}

func avgOfRows(rows []repository.FeederEnergyRow) float64 {
	if len(rows) == 0 {
		return 0
	}
	sum := decimal.Zero
	for _, row := range rows {
		sum = sum.Add(row.Total)
	}
	return utils.Round2Float(sum.Div(decimal.NewFromInt(int64(len(rows)))))
}

func sliceTopBottom[T any](rows []T, top, bottom int) []T {
	if top > 0 && top < len(rows) {
		return rows[:top]
	}
	if bottom > 0 && bottom < len(rows) {
		return rows[len(rows)-bottom:]
	}
	return rows
}
