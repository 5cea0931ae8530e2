package businessflow

import (
	"context"

	"github.com/powergridhq/disco-analytics/app/dto"
	"github.com/powergridhq/disco-analytics/models"
	"github.com/powergridhq/disco-analytics/repository"
	"github.com/powergridhq/disco-analytics/utils"
	"github.com/shopspring/decimal"
)

// TechnicalFlow serves the technical KPI slices
type TechnicalFlow interface {
	Overview(ctx context.Context, query dto.AnalyticsQuery) (*dto.TechnicalOverviewResponse, error)
	AllStates(ctx context.Context, query dto.AnalyticsQuery) (*dto.StatesTechnicalResponse, error)
	Districts(ctx context.Context, query dto.AnalyticsQuery) (*dto.DistrictsTechnicalResponse, error)
	Feeders(ctx context.Context, query dto.AnalyticsQuery) (*dto.FeedersTechnicalResponse, error)
	ServiceBands(ctx context.Context, query dto.AnalyticsQuery) (*dto.BandsTechnicalResponse, error)
}

// TechnicalFlowImpl combines supply, load and interruption aggregates
type TechnicalFlowImpl struct {
	locationRepo  repository.LocationRepository
	resolver      LocationResolver
	technicalRepo repository.TechnicalRepository
}

// NewTechnicalFlow creates a new technical flow
func NewTechnicalFlow(
	locationRepo repository.LocationRepository,
	resolver LocationResolver,
	technicalRepo repository.TechnicalRepository,
) TechnicalFlow {
	return &TechnicalFlowImpl{
		locationRepo:  locationRepo,
		resolver:      resolver,
		technicalRepo: technicalRepo,
	}
}

// Overview returns highlight metrics, the supply comparison, the
// interruption-source breakdown with four-month history, and the load trend.
func (f *TechnicalFlowImpl) Overview(ctx context.Context, query dto.AnalyticsQuery) (*dto.TechnicalOverviewResponse, error) {
	period := ResolvePeriod(PeriodInputFrom(query), utils.UTCNow())
	scope, err := f.resolver.Resolve(ctx, LocationFilterFrom(query))
	if err != nil {
		return nil, NewBusinessError("SCOPE_RESOLUTION_FAILED", "Failed to resolve location filter", err)
	}

	curSupply, err := f.technicalRepo.AvgHoursOfSupply(ctx, scope, period.Current)
	if err != nil {
		return nil, NewBusinessError("AGGREGATION_FAILED", "Failed to aggregate hours of supply", err)
	}
	prevSupply, err := f.technicalRepo.AvgHoursOfSupply(ctx, scope, period.Previous)
	if err != nil {
		return nil, NewBusinessError("AGGREGATION_FAILED", "Failed to aggregate hours of supply", err)
	}
	curDuration, err := f.technicalRepo.AvgInterruptionDuration(ctx, scope, period.Current)
	if err != nil {
		return nil, NewBusinessError("AGGREGATION_FAILED", "Failed to aggregate interruption duration", err)
	}
	prevDuration, err := f.technicalRepo.AvgInterruptionDuration(ctx, scope, period.Previous)
	if err != nil {
		return nil, NewBusinessError("AGGREGATION_FAILED", "Failed to aggregate interruption duration", err)
	}
	curPeak, err := f.technicalRepo.PeakLoad(ctx, scope, period.Current)
	if err != nil {
		return nil, NewBusinessError("AGGREGATION_FAILED", "Failed to aggregate peak load", err)
	}
	prevPeak, err := f.technicalRepo.PeakLoad(ctx, scope, period.Previous)
	if err != nil {
		return nil, NewBusinessError("AGGREGATION_FAILED", "Failed to aggregate peak load", err)
	}
	curCount, err := f.technicalRepo.InterruptionCount(ctx, scope, period.Current)
	if err != nil {
		return nil, NewBusinessError("AGGREGATION_FAILED", "Failed to count interruptions", err)
	}
	prevCount, err := f.technicalRepo.InterruptionCount(ctx, scope, period.Previous)
	if err != nil {
		return nil, NewBusinessError("AGGREGATION_FAILED", "Failed to count interruptions", err)
	}
	hoursFromLoad, err := f.technicalRepo.HoursOfSupplyFromHourlyLoad(ctx, scope, period.Current)
	if err != nil {
		return nil, NewBusinessError("AGGREGATION_FAILED", "Failed to derive supply from load readings", err)
	}
	trend, err := f.technicalRepo.LoadTrend(ctx, scope, period.Current)
	if err != nil {
		return nil, NewBusinessError("AGGREGATION_FAILED", "Failed to build load trend", err)
	}
	sources, err := f.interruptionSources(ctx, scope, period)
	if err != nil {
		return nil, err
	}

	curDur := decimal.NewFromFloat(curDuration)
	prevDur := decimal.NewFromFloat(prevDuration)
	durationMetric := MetricOf(curDur, prevDur)

	trendRows := make([]dto.LoadTrendRow, 0, len(trend))
	for _, point := range trend {
		trendRows = append(trendRows, dto.LoadTrendRow{
			Date:     point.Date.Format(utils.DateLayout),
			AvgLoad:  utils.Round2Float(point.AvgLoad),
			PeakLoad: utils.Round2Float(point.Peak),
		})
	}

	return &dto.TechnicalOverviewResponse{
		Period: ToPeriodInfo(period),
		Highlights: dto.TechnicalHighlights{
			SupplyHours:             MetricOf(curSupply, prevSupply),
			AvgInterruptionDuration: durationMetric,
			// Turnaround mirrors interruption duration until repair
			// timestamps are captured separately.
			TurnaroundTime:    durationMetric,
			PeakLoad:          MetricOf(curPeak, prevPeak),
			InterruptionCount: MetricOf(decimal.NewFromInt(curCount), decimal.NewFromInt(prevCount)),
		},
		SupplyAndQuality: dto.SupplyAndQuality{
			HoursOfSupply:         utils.Round2Float(curSupply),
			HoursFromLoadReadings: utils.Round2Float(decimal.NewFromFloat(hoursFromLoad)),
		},
		InterruptionSources: sources,
		LoadTrend:           trendRows,
	}, nil
}

// interruptionSources builds the per-fault-type counts of the current window
// with an InterruptionHistoryMonths deep monthly history per type.
func (f *TechnicalFlowImpl) interruptionSources(ctx context.Context, scope models.FeederScope, period Period) ([]dto.InterruptionSourceRow, error) {
	current, err := f.technicalRepo.InterruptionCountsByType(ctx, scope, period.Current)
	if err != nil {
		return nil, NewBusinessError("AGGREGATION_FAILED", "Failed to count interruptions by type", err)
	}

	anchor := utils.FirstOfMonth(period.Current.Start)
	months := make([]models.Window, utils.InterruptionHistoryMonths)
	for i := 0; i < utils.InterruptionHistoryMonths; i++ {
		start := anchor.AddDate(0, i-utils.InterruptionHistoryMonths+1, 0)
		months[i] = MonthWindow(start)
	}

	history := make(map[models.InterruptionType][]dto.HistoryPoint)
	for _, window := range months {
		counts, err := f.technicalRepo.InterruptionCountsByType(ctx, scope, window)
		if err != nil {
			return nil, NewBusinessError("AGGREGATION_FAILED", "Failed to count interruptions by type", err)
		}
		byType := make(map[models.InterruptionType]int64, len(counts))
		for _, c := range counts {
			byType[c.Type] = c.Count
		}
		for _, t := range allInterruptionTypes {
			history[t] = append(history[t], dto.HistoryPoint{
				Month: MonthAbbr(window.Start),
				Value: float64(byType[t]),
			})
		}
	}

	currentByType := make(map[models.InterruptionType]int64, len(current))
	for _, c := range current {
		currentByType[c.Type] = c.Count
	}

	rows := make([]dto.InterruptionSourceRow, 0, len(allInterruptionTypes))
	for _, t := range allInterruptionTypes {
		rows = append(rows, dto.InterruptionSourceRow{
			Type:    t.String(),
			Count:   currentByType[t],
			History: history[t],
		})
	}
	return rows, nil
}

var allInterruptionTypes = []models.InterruptionType{
	models.InterruptionTypeEarthFault,
	models.InterruptionTypeOverCurrent,
	models.InterruptionTypePlannedOutage,
	models.InterruptionTypeLoadShedding,
	models.InterruptionTypeUpstreamFailure,
	models.InterruptionTypeOther,
}

// technicalRowOf aggregates the four per-location technical numbers
func (f *TechnicalFlowImpl) technicalRowOf(ctx context.Context, scope models.FeederScope, window models.Window) (supply float64, duration float64, count int64, peak float64, err error) {
	supplyDec, err := f.technicalRepo.AvgHoursOfSupply(ctx, scope, window)
	if err != nil {
		return 0, 0, 0, 0, err
	}
	duration, err = f.technicalRepo.AvgInterruptionDuration(ctx, scope, window)
	if err != nil {
		return 0, 0, 0, 0, err
	}
	count, err = f.technicalRepo.InterruptionCount(ctx, scope, window)
	if err != nil {
		return 0, 0, 0, 0, err
	}
	peakDec, err := f.technicalRepo.PeakLoad(ctx, scope, window)
	if err != nil {
		return 0, 0, 0, 0, err
	}
	return utils.Round2Float(supplyDec), utils.Round2Float(decimal.NewFromFloat(duration)), count, utils.Round2Float(peakDec), nil
}

// AllStates returns one technical row per state
func (f *TechnicalFlowImpl) AllStates(ctx context.Context, query dto.AnalyticsQuery) (*dto.StatesTechnicalResponse, error) {
	period := ResolvePeriod(PeriodInputFrom(query), utils.UTCNow())
	states, err := f.locationRepo.ListStates(ctx)
	if err != nil {
		return nil, NewBusinessError("STATE_LIST_FAILED", "Failed to list states", err)
	}

	rows := make([]dto.StateTechnicalRow, 0, len(states))
	for _, state := range states {
		ids, err := f.locationRepo.FeederIDsOfState(ctx, state.Slug)
		if err != nil {
			return nil, NewBusinessError("STATE_SCOPE_FAILED", "Failed to resolve state feeders", err)
		}
		supply, duration, count, peak, err := f.technicalRowOf(ctx, models.ScopeOf(ids...), period.Current)
		if err != nil {
			return nil, NewBusinessError("AGGREGATION_FAILED", "Failed to aggregate state technicals", err)
		}
		rows = append(rows, dto.StateTechnicalRow{
			State:                   state.Name,
			Slug:                    state.Slug,
			SupplyHours:             supply,
			AvgInterruptionDuration: duration,
			InterruptionCount:       count,
			PeakLoad:                peak,
		})
	}

	return &dto.StatesTechnicalResponse{Period: ToPeriodInfo(period), States: rows}, nil
}

// Districts returns one technical row per district of a state
func (f *TechnicalFlowImpl) Districts(ctx context.Context, query dto.AnalyticsQuery) (*dto.DistrictsTechnicalResponse, error) {
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

	rows := make([]dto.DistrictTechnicalRow, 0, len(districts))
	for _, district := range districts {
		ids, err := f.locationRepo.FeederIDsOfDistrictIDs(ctx, []uint{district.ID})
		if err != nil {
			return nil, NewBusinessError("DISTRICT_SCOPE_FAILED", "Failed to resolve district feeders", err)
		}
		supply, duration, count, peak, err := f.technicalRowOf(ctx, models.ScopeOf(ids...), period.Current)
		if err != nil {
			return nil, NewBusinessError("AGGREGATION_FAILED", "Failed to aggregate district technicals", err)
		}
		rows = append(rows, dto.DistrictTechnicalRow{
			District:                district.Name,
			Slug:                    district.Slug,
			SupplyHours:             supply,
			AvgInterruptionDuration: duration,
			InterruptionCount:       count,
			PeakLoad:                peak,
		})
	}

	return &dto.DistrictsTechnicalResponse{
		State:     state.Name,
		Period:    ToPeriodInfo(period),
		Districts: rows,
	}, nil
}

// Feeders returns per-feeder supply hours, peak load and interruption counts
func (f *TechnicalFlowImpl) Feeders(ctx context.Context, query dto.AnalyticsQuery) (*dto.FeedersTechnicalResponse, error) {
	period := ResolvePeriod(PeriodInputFrom(query), utils.UTCNow())
	scope, err := f.resolver.Resolve(ctx, LocationFilterFrom(query))
	if err != nil {
		return nil, NewBusinessError("SCOPE_RESOLUTION_FAILED", "Failed to resolve location filter", err)
	}

	feeders, err := f.locationRepo.FeedersInScope(ctx, scope)
	if err != nil {
		return nil, NewBusinessError("FEEDER_LIST_FAILED", "Failed to list feeders", err)
	}
	supplyRows, err := f.technicalRepo.AvgHoursOfSupplyByFeeder(ctx, scope, period.Current)
	if err != nil {
		return nil, NewBusinessError("AGGREGATION_FAILED", "Failed to aggregate hours of supply", err)
	}
	peakRows, err := f.technicalRepo.PeakLoadByFeeder(ctx, scope, period.Current)
	if err != nil {
		return nil, NewBusinessError("AGGREGATION_FAILED", "Failed to aggregate peak load", err)
	}

	supplyBy := make(map[uint]float64, len(supplyRows))
	for _, row := range supplyRows {
		supplyBy[row.FeederID] = row.Hours
	}
	peakBy := indexRows(peakRows)

	rows := make([]dto.FeederTechnicalRow, 0, len(feeders))
	for _, feeder := range feeders {
		count, err := f.technicalRepo.InterruptionCount(ctx, models.ScopeOf(feeder.ID), period.Current)
		if err != nil {
			return nil, NewBusinessError("AGGREGATION_FAILED", "Failed to count interruptions", err)
		}
		row := dto.FeederTechnicalRow{
			Feeder:            feeder.Name,
			Slug:              feeder.Slug,
			VoltageLevel:      feeder.VoltageLevel.String(),
			SupplyHours:       utils.Round2Float(decimal.NewFromFloat(supplyBy[feeder.ID])),
			PeakLoad:          utils.Round2Float(peakBy[feeder.ID]),
			InterruptionCount: count,
		}
		if feeder.Band != nil {
			row.Band = feeder.Band.Name
		}
		rows = append(rows, row)
	}

	return &dto.FeedersTechnicalResponse{Period: ToPeriodInfo(period), Feeders: rows}, nil
}

// ServiceBands returns the technical per-band view
func (f *TechnicalFlowImpl) ServiceBands(ctx context.Context, query dto.AnalyticsQuery) (*dto.BandsTechnicalResponse, error) {
	period := ResolvePeriod(PeriodInputFrom(query), utils.UTCNow())
	scope, err := f.resolver.Resolve(ctx, LocationFilterFrom(query))
	if err != nil {
		return nil, NewBusinessError("SCOPE_RESOLUTION_FAILED", "Failed to resolve location filter", err)
	}

	bands, err := f.locationRepo.ListBands(ctx)
	if err != nil {
		return nil, NewBusinessError("BAND_LIST_FAILED", "Failed to list bands", err)
	}

	rows := make([]dto.BandTechnicalRow, 0, len(bands))
	for _, band := range bands {
		bandIDs, err := f.locationRepo.FeederIDsOfBand(ctx, band.Name)
		if err != nil {
			return nil, NewBusinessError("BAND_SCOPE_FAILED", "Failed to resolve band feeders", err)
		}
		if !scope.Unrestricted {
			bandIDs = intersectIDs(scope.FeederIDs, bandIDs)
		}
		bandScope := models.ScopeOf(bandIDs...)

		supply, err := f.technicalRepo.AvgHoursOfSupply(ctx, bandScope, period.Current)
		if err != nil {
			return nil, NewBusinessError("AGGREGATION_FAILED", "Failed to aggregate hours of supply", err)
		}
		peaks, err := f.technicalRepo.PeakLoadByFeeder(ctx, bandScope, period.Current)
		if err != nil {
			return nil, NewBusinessError("AGGREGATION_FAILED", "Failed to aggregate peak load", err)
		}

		rows = append(rows, dto.BandTechnicalRow{
			Band:                   band.Name,
			FeederCount:            len(bandIDs),
			AvgSupplyHours:         utils.Round2Float(supply),
			AvgPeakLoad:            avgOfRows(peaks),
			DurationOfInterruption: BandInterruptionDuration(band.Name),
			TurnaroundTime:         BandTurnaroundTime(band.Name),
		})
	}

	return &dto.BandsTechnicalResponse{Period: ToPeriodInfo(period), Bands: rows}, nil
}
