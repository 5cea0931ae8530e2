package businessflow

import (
	"context"

	"github.com/powergridhq/disco-analytics/app/dto"
	"github.com/powergridhq/disco-analytics/models"
	"github.com/powergridhq/disco-analytics/repository"
	"github.com/powergridhq/disco-analytics/utils"
	"github.com/shopspring/decimal"
)

// FinancialFlow serves the financial KPI slices and the collections ledger
type FinancialFlow interface {
	Overview(ctx context.Context, query dto.AnalyticsQuery) (*dto.FinancialOverviewResponse, error)
	AllStates(ctx context.Context, query dto.AnalyticsQuery) (*dto.StatesFinancialResponse, error)
	Districts(ctx context.Context, query dto.AnalyticsQuery) (*dto.DistrictsFinancialResponse, error)
	Feeders(ctx context.Context, query dto.AnalyticsQuery) (*dto.FeedersFinancialResponse, error)
	ServiceBands(ctx context.Context, query dto.AnalyticsQuery) (*dto.BandsFinancialResponse, error)
	DailyCollections(ctx context.Context, query dto.AnalyticsQuery) (*dto.DailyCollectionsResponse, error)
	Transformers(ctx context.Context, query dto.AnalyticsQuery) (*dto.TransformersFinancialResponse, error)
	RepPerformance(ctx context.Context, repID uint, query dto.AnalyticsQuery) (*dto.RepPerformanceResponse, error)
}

// FinancialFlowImpl combines revenue and expense aggregates
type FinancialFlowImpl struct {
	locationRepo repository.LocationRepository
	resolver     LocationResolver
	revenueRepo  repository.RevenueRepository
	expenseRepo  repository.ExpenseRepository
	salesRepRepo repository.SalesRepRepository
}

// NewFinancialFlow creates a new financial flow
func NewFinancialFlow(
	locationRepo repository.LocationRepository,
	resolver LocationResolver,
	revenueRepo repository.RevenueRepository,
	expenseRepo repository.ExpenseRepository,
	salesRepRepo repository.SalesRepRepository,
) FinancialFlow {
	return &FinancialFlowImpl{
		locationRepo: locationRepo,
		resolver:     resolver,
		revenueRepo:  revenueRepo,
		expenseRepo:  expenseRepo,
		salesRepRepo: salesRepRepo,
	}
}

// expenseDistricts maps a feeder scope onto the districts expenses live on.
// Nil means all districts.
func (f *FinancialFlowImpl) expenseDistricts(ctx context.Context, scope models.FeederScope) ([]uint, error) {
	if scope.Unrestricted {
		return nil, nil
	}
	if scope.IsEmpty() {
		return []uint{}, nil
	}
	return f.locationRepo.DistrictIDsInScope(ctx, scope)
}

// Overview returns billed/collected revenue, the OPEX breakdown split into
// regular and special categories, and the per-channel collection totals.
func (f *FinancialFlowImpl) Overview(ctx context.Context, query dto.AnalyticsQuery) (*dto.FinancialOverviewResponse, error) {
	period := ResolvePeriod(PeriodInputFrom(query), utils.UTCNow())
	scope, err := f.resolver.Resolve(ctx, LocationFilterFrom(query))
	if err != nil {
		return nil, NewBusinessError("SCOPE_RESOLUTION_FAILED", "Failed to resolve location filter", err)
	}
	districtIDs, err := f.expenseDistricts(ctx, scope)
	if err != nil {
		return nil, NewBusinessError("SCOPE_RESOLUTION_FAILED", "Failed to resolve scope districts", err)
	}

	type windowTotals struct {
		revBilled decimal.Decimal
		revColl   decimal.Decimal
		opex      decimal.Decimal
		inflow    decimal.Decimal
	}
	totalsOf := func(window models.Window) (windowTotals, error) {
		var t windowTotals
		var err error
		if t.revBilled, err = f.revenueRepo.SumBilledRevenue(ctx, scope, window); err != nil {
			return t, err
		}
		if t.revColl, err = f.revenueRepo.SumCollected(ctx, scope, window); err != nil {
			return t, err
		}
		if t.opex, err = f.expenseRepo.SumBySide(ctx, districtIDs, window, models.ExpenseSideCredit); err != nil {
			return t, err
		}
		if t.inflow, err = f.expenseRepo.SumBySide(ctx, districtIDs, window, models.ExpenseSideDebit); err != nil {
			return t, err
		}
		return t, nil
	}

	cur, err := totalsOf(period.Current)
	if err != nil {
		return nil, NewBusinessError("AGGREGATION_FAILED", "Failed to aggregate financials", err)
	}
	prev, err := totalsOf(period.Previous)
	if err != nil {
		return nil, NewBusinessError("AGGREGATION_FAILED", "Failed to aggregate financials", err)
	}

	breakdown, err := f.expenseRepo.BreakdownByCategory(ctx, districtIDs, period.Current, models.ExpenseSideCredit)
	if err != nil {
		return nil, NewBusinessError("AGGREGATION_FAILED", "Failed to break down OPEX", err)
	}
	byType, err := f.revenueRepo.SumDailyCollectionsByType(ctx, scope, period.Current)
	if err != nil {
		return nil, NewBusinessError("AGGREGATION_FAILED", "Failed to aggregate collections by channel", err)
	}

	regular := make([]dto.OpexCategoryRow, 0, len(breakdown))
	special := make([]dto.OpexCategoryRow, 0)
	for _, row := range breakdown {
		out := dto.OpexCategoryRow{
			Category:  row.Category,
			IsSpecial: row.IsSpecial,
			Amount:    utils.Round2Float(row.Amount),
		}
		if row.IsSpecial {
			special = append(special, out)
		} else {
			regular = append(regular, out)
		}
	}

	channels := make([]dto.CollectionChannelRow, 0, len(byType))
	for _, row := range byType {
		channels = append(channels, dto.CollectionChannelRow{
			Type:   row.Type.String(),
			Amount: utils.Round2Float(row.Amount),
		})
	}

	return &dto.FinancialOverviewResponse{
		Period:           ToPeriodInfo(period),
		RevenueBilled:    MetricOf(cur.revBilled, prev.revBilled),
		RevenueCollected: MetricOf(cur.revColl, prev.revColl),
		CollectionEfficiency: MetricOf(
			CollectionEfficiency(cur.revColl, cur.revBilled),
			CollectionEfficiency(prev.revColl, prev.revBilled)),
		OpexTotal:         MetricOf(cur.opex, prev.opex),
		HQInflow:          MetricOf(cur.inflow, prev.inflow),
		OpexBreakdown:     regular,
		SpecialCategories: special,
		CollectionsByType: channels,
	}, nil
}

// AllStates returns one financial row per state
func (f *FinancialFlowImpl) AllStates(ctx context.Context, query dto.AnalyticsQuery) (*dto.StatesFinancialResponse, error) {
	period := ResolvePeriod(PeriodInputFrom(query), utils.UTCNow())
	states, err := f.locationRepo.ListStates(ctx)
	if err != nil {
		return nil, NewBusinessError("STATE_LIST_FAILED", "Failed to list states", err)
	}

	rows := make([]dto.StateFinancialRow, 0, len(states))
	for _, state := range states {
		ids, err := f.locationRepo.FeederIDsOfState(ctx, state.Slug)
		if err != nil {
			return nil, NewBusinessError("STATE_SCOPE_FAILED", "Failed to resolve state feeders", err)
		}
		scope := models.ScopeOf(ids...)
		billed, collected, opex, err := f.rowTotals(ctx, scope, period.Current)
		if err != nil {
			return nil, err
		}
		rows = append(rows, dto.StateFinancialRow{
			State:                state.Name,
			Slug:                 state.Slug,
			RevenueBilled:        utils.Round2Float(billed),
			RevenueCollected:     utils.Round2Float(collected),
			CollectionEfficiency: utils.Round2Float(CollectionEfficiency(collected, billed)),
			OpexTotal:            utils.Round2Float(opex),
		})
	}

	return &dto.StatesFinancialResponse{Period: ToPeriodInfo(period), States: rows}, nil
}

func (f *FinancialFlowImpl) rowTotals(ctx context.Context, scope models.FeederScope, window models.Window) (billed, collected, opex decimal.Decimal, err error) {
	if billed, err = f.revenueRepo.SumBilledRevenue(ctx, scope, window); err != nil {
		return billed, collected, opex, NewBusinessError("AGGREGATION_FAILED", "Failed to aggregate revenue billed", err)
	}
	if collected, err = f.revenueRepo.SumCollected(ctx, scope, window); err != nil {
		return billed, collected, opex, NewBusinessError("AGGREGATION_FAILED", "Failed to aggregate revenue collected", err)
	}
	districtIDs, derr := f.expenseDistricts(ctx, scope)
	if derr != nil {
		return billed, collected, opex, NewBusinessError("SCOPE_RESOLUTION_FAILED", "Failed to resolve scope districts", derr)
	}
	if opex, err = f.expenseRepo.SumBySide(ctx, districtIDs, window, models.ExpenseSideCredit); err != nil {
		return billed, collected, opex, NewBusinessError("AGGREGATION_FAILED", "Failed to aggregate OPEX", err)
	}
	return billed, collected, opex, nil
}

// Districts returns one financial row per district of a state
func (f *FinancialFlowImpl) Districts(ctx context.Context, query dto.AnalyticsQuery) (*dto.DistrictsFinancialResponse, error) {
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

	rows := make([]dto.DistrictFinancialRow, 0, len(districts))
	for _, district := range districts {
		ids, err := f.locationRepo.FeederIDsOfDistrictIDs(ctx, []uint{district.ID})
		if err != nil {
			return nil, NewBusinessError("DISTRICT_SCOPE_FAILED", "Failed to resolve district feeders", err)
		}
		scope := models.ScopeOf(ids...)
		billed, collected, err := f.scopeRevenue(ctx, scope, period.Current)
		if err != nil {
			return nil, err
		}
		opex, err := f.expenseRepo.SumBySide(ctx, []uint{district.ID}, period.Current, models.ExpenseSideCredit)
		if err != nil {
			return nil, NewBusinessError("AGGREGATION_FAILED", "Failed to aggregate OPEX", err)
		}
		rows = append(rows, dto.DistrictFinancialRow{
			District:             district.Name,
			Slug:                 district.Slug,
			RevenueBilled:        utils.Round2Float(billed),
			RevenueCollected:     utils.Round2Float(collected),
			CollectionEfficiency: utils.Round2Float(CollectionEfficiency(collected, billed)),
			OpexTotal:            utils.Round2Float(opex),
		})
	}

	return &dto.DistrictsFinancialResponse{
		State:     state.Name,
		Period:    ToPeriodInfo(period),
		Districts: rows,
	}, nil
}

func (f *FinancialFlowImpl) scopeRevenue(ctx context.Context, scope models.FeederScope, window models.Window) (billed, collected decimal.Decimal, err error) {
	if billed, err = f.revenueRepo.SumBilledRevenue(ctx, scope, window); err != nil {
		return billed, collected, NewBusinessError("AGGREGATION_FAILED", "Failed to aggregate revenue billed", err)
	}
	if collected, err = f.revenueRepo.SumCollected(ctx, scope, window); err != nil {
		return billed, collected, NewBusinessError("AGGREGATION_FAILED", "Failed to aggregate revenue collected", err)
	}
	return billed, collected, nil
}

// Feeders returns billed/collected/efficiency rows per feeder
func (f *FinancialFlowImpl) Feeders(ctx context.Context, query dto.AnalyticsQuery) (*dto.FeedersFinancialResponse, error) {
	period := ResolvePeriod(PeriodInputFrom(query), utils.UTCNow())
	scope, err := f.resolver.Resolve(ctx, LocationFilterFrom(query))
	if err != nil {
		return nil, NewBusinessError("SCOPE_RESOLUTION_FAILED", "Failed to resolve location filter", err)
	}

	feeders, err := f.locationRepo.FeedersInScope(ctx, scope)
	if err != nil {
		return nil, NewBusinessError("FEEDER_LIST_FAILED", "Failed to list feeders", err)
	}
	billedRows, err := f.revenueRepo.SumBilledRevenueByFeeder(ctx, scope, period.Current)
	if err != nil {
		return nil, NewBusinessError("AGGREGATION_FAILED", "Failed to aggregate revenue billed", err)
	}
	collectedRows, err := f.revenueRepo.SumCollectedByFeeder(ctx, scope, period.Current)
	if err != nil {
		return nil, NewBusinessError("AGGREGATION_FAILED", "Failed to aggregate revenue collected", err)
	}

	billedBy := indexRows(billedRows)
	collectedBy := indexRows(collectedRows)

	rows := make([]dto.FeederFinancialRow, 0, len(feeders))
	for _, feeder := range feeders {
		billed := billedBy[feeder.ID]
		collected := collectedBy[feeder.ID]
		rows = append(rows, dto.FeederFinancialRow{
			Feeder:               feeder.Name,
			Slug:                 feeder.Slug,
			RevenueBilled:        utils.Round2Float(billed),
			RevenueCollected:     utils.Round2Float(collected),
			CollectionEfficiency: utils.Round2Float(CollectionEfficiency(collected, billed)),
		})
	}

	return &dto.FeedersFinancialResponse{Period: ToPeriodInfo(period), Feeders: rows}, nil
}

// ServiceBands returns billed/collected per regulatory band
func (f *FinancialFlowImpl) ServiceBands(ctx context.Context, query dto.AnalyticsQuery) (*dto.BandsFinancialResponse, error) {
	period := ResolvePeriod(PeriodInputFrom(query), utils.UTCNow())
	scope, err := f.resolver.Resolve(ctx, LocationFilterFrom(query))
	if err != nil {
		return nil, NewBusinessError("SCOPE_RESOLUTION_FAILED", "Failed to resolve location filter", err)
	}

	bands, err := f.locationRepo.ListBands(ctx)
	if err != nil {
		return nil, NewBusinessError("BAND_LIST_FAILED", "Failed to list bands", err)
	}

	rows := make([]dto.BandFinancialRow, 0, len(bands))
	for _, band := range bands {
		bandIDs, err := f.locationRepo.FeederIDsOfBand(ctx, band.Name)
		if err != nil {
			return nil, NewBusinessError("BAND_SCOPE_FAILED", "Failed to resolve band feeders", err)
		}
		if !scope.Unrestricted {
			bandIDs = intersectIDs(scope.FeederIDs, bandIDs)
		}
		bandScope := models.ScopeOf(bandIDs...)

		billed, collected, err := f.scopeRevenue(ctx, bandScope, period.Current)
		if err != nil {
			return nil, err
		}
		rows = append(rows, dto.BandFinancialRow{
			Band:                 band.Name,
			FeederCount:          len(bandIDs),
			RevenueBilled:        utils.Round2Float(billed),
			RevenueCollected:     utils.Round2Float(collected),
			CollectionEfficiency: utils.Round2Float(CollectionEfficiency(collected, billed)),
		})
	}

	return &dto.BandsFinancialResponse{Period: ToPeriodInfo(period), Bands: rows}, nil
}

// DailyCollections lists the collections ledger with per-channel totals
func (f *FinancialFlowImpl) DailyCollections(ctx context.Context, query dto.AnalyticsQuery) (*dto.DailyCollectionsResponse, error) {
	period := ResolvePeriod(PeriodInputFrom(query), utils.UTCNow())
	scope, err := f.resolver.Resolve(ctx, LocationFilterFrom(query))
	if err != nil {
		return nil, NewBusinessError("SCOPE_RESOLUTION_FAILED", "Failed to resolve location filter", err)
	}

	limit := query.Limit
	if limit == 0 {
		limit = 100
	}
	collections, err := f.revenueRepo.ListDailyCollections(ctx, scope, period.Current, limit, query.Offset)
	if err != nil {
		return nil, NewBusinessError("LISTING_FAILED", "Failed to list daily collections", err)
	}
	byType, err := f.revenueRepo.SumDailyCollectionsByType(ctx, scope, period.Current)
	if err != nil {
		return nil, NewBusinessError("AGGREGATION_FAILED", "Failed to aggregate collections by channel", err)
	}

	rows := make([]dto.DailyCollectionRow, 0, len(collections))
	for _, c := range collections {
		row := dto.DailyCollectionRow{
			ID:     c.ID,
			Date:   c.Date.Format(utils.DateLayout),
			Amount: utils.Round2Float(c.Amount),
			Type:   c.Type.String(),
		}
		if c.Feeder != nil {
			row.Feeder = c.Feeder.Name
		}
		if c.SalesRep != nil {
			row.SalesRep = c.SalesRep.Name
		}
		if c.Transformer != nil {
			row.Transformer = c.Transformer.Name
		}
		if c.VendorName != nil {
			row.VendorName = *c.VendorName
		}
		rows = append(rows, row)
	}

	totals := make([]dto.CollectionChannelRow, 0, len(byType))
	for _, t := range byType {
		totals = append(totals, dto.CollectionChannelRow{
			Type:   t.Type.String(),
			Amount: utils.Round2Float(t.Amount),
		})
	}

	return &dto.DailyCollectionsResponse{
		Period:      ToPeriodInfo(period),
		Collections: rows,
		Totals:      totals,
	}, nil
}

// Transformers returns per-transformer collection totals
func (f *FinancialFlowImpl) Transformers(ctx context.Context, query dto.AnalyticsQuery) (*dto.TransformersFinancialResponse, error) {
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

	rows := make([]dto.TransformerFinancialRow, 0, len(transformers))
	for _, t := range transformers {
		rows = append(rows, dto.TransformerFinancialRow{
			Transformer: t.Name,
			Slug:        t.Slug,
			Feeder:      t.Feeder.Name,
			Collections: utils.Round2Float(collections[t.ID]),
		})
	}

	return &dto.TransformersFinancialResponse{Period: ToPeriodInfo(period), Transformers: rows}, nil
}

// RepPerformance lists monthly performance snapshots of one representative
func (f *FinancialFlowImpl) RepPerformance(ctx context.Context, repID uint, query dto.AnalyticsQuery) (*dto.RepPerformanceResponse, error) {
	rep, err := f.salesRepRepo.ByID(ctx, repID)
	if err != nil {
		return nil, NewBusinessError("REP_LOOKUP_FAILED", "Failed to lookup sales representative", err)
	}
	if rep == nil {
		return nil, NewBusinessError("REP_NOT_FOUND", "Sales representative not found", ErrSalesRepNotFound)
	}

	period := ResolvePeriod(PeriodInputFrom(query), utils.UTCNow())
	window := models.Window{Start: period.History[0], End: period.Current.End}
	snapshots, err := f.salesRepRepo.PerformanceOfRep(ctx, repID, window)
	if err != nil {
		return nil, NewBusinessError("LISTING_FAILED", "Failed to list rep performance", err)
	}

	months := make([]dto.RepPerformanceRow, 0, len(snapshots))
	for _, s := range snapshots {
		months = append(months, dto.RepPerformanceRow{
			Month:                    MonthAbbr(s.Month),
			OutstandingBilled:        utils.Round2Float(s.OutstandingBilled),
			CurrentBilled:            utils.Round2Float(s.CurrentBilled),
			Collections:              utils.Round2Float(s.Collections),
			DailyRunRate:             utils.Round2Float(s.DailyRunRate),
			CollectionsOnOutstanding: utils.Round2Float(s.CollectionsOutstanding),
			ActiveAccounts:           s.ActiveAccounts,
			SuspendedAccounts:        s.SuspendedAccounts,
		})
	}

	return &dto.RepPerformanceResponse{
		SalesRep: rep.Name,
		Slug:     rep.Slug,
		Months:   months,
	}, nil
}
