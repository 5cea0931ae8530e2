package businessflow

import (
	"context"
	"log"

	"github.com/powergridhq/disco-analytics/app/dto"
	"github.com/powergridhq/disco-analytics/models"
	"github.com/powergridhq/disco-analytics/repository"
	"github.com/powergridhq/disco-analytics/utils"
	"gorm.io/gorm"
)

// Materializer modes
const (
	MaterializeFull        = "full"
	MaterializeIncremental = "incremental"
)

// MaterializerFlow rebuilds the derived per-feeder energy rollups
type MaterializerFlow interface {
	Run(ctx context.Context, mode string) (*dto.MaterializerResponse, error)
}

// MaterializerFlowImpl rebuilds FeederEnergyDaily and FeederEnergyMonthly
// from the delivered-energy fact stream. Full mode truncates and rebuilds
// everything; incremental mode refreshes yesterday and the last calendar
// month only. Both run inside a SERIALIZABLE transaction with retries.
type MaterializerFlowImpl struct {
	db         *gorm.DB
	energyRepo repository.EnergyRepository
}

// NewMaterializerFlow creates a new materializer flow
func NewMaterializerFlow(db *gorm.DB, energyRepo repository.EnergyRepository) MaterializerFlow {
	return &MaterializerFlowImpl{
		db:         db,
		energyRepo: energyRepo,
	}
}

func (f *MaterializerFlowImpl) Run(ctx context.Context, mode string) (*dto.MaterializerResponse, error) {
	started := utils.UTCNow()

	var daily, monthly int
	var err error
	switch mode {
	case MaterializeFull, "":
		mode = MaterializeFull
		daily, monthly, err = f.runFull(ctx)
	case MaterializeIncremental:
		daily, monthly, err = f.runIncremental(ctx)
	default:
		return nil, NewBusinessError("INVALID_MODE", "Unknown materializer mode", ErrUnknownMaterializer)
	}
	if err != nil {
		return nil, NewBusinessError("MATERIALIZE_FAILED", "Failed to rebuild derived facts", err)
	}

	elapsed := utils.UTCNow().Sub(started)
	log.Printf("materializer %s run: %d daily rows, %d monthly rows in %s", mode, daily, monthly, elapsed)

	return &dto.MaterializerResponse{
		Mode:         mode,
		DailyRows:    daily,
		MonthlyRows:  monthly,
		DurationMsec: elapsed.Milliseconds(),
	}, nil
}

func (f *MaterializerFlowImpl) runFull(ctx context.Context) (daily, monthly int, err error) {
	err = repository.WithSerializableTransaction(ctx, f.db, func(txCtx context.Context) error {
		if err := f.energyRepo.TruncateDerived(txCtx); err != nil {
			return err
		}

		dailyRows, err := f.energyRepo.DeliveredPerFeederDate(txCtx, nil, nil)
		if err != nil {
			return err
		}
		if err := f.energyRepo.UpsertFeederEnergyDaily(txCtx, toDailyModels(dailyRows)); err != nil {
			return err
		}
		daily = len(dailyRows)

		monthlyRows, err := f.energyRepo.DailyRollupPerFeederMonth(txCtx, nil)
		if err != nil {
			return err
		}
		if err := f.energyRepo.UpsertFeederEnergyMonthly(txCtx, toMonthlyModels(monthlyRows)); err != nil {
			return err
		}
		monthly = len(monthlyRows)
		return nil
	})
	return daily, monthly, err
}

func (f *MaterializerFlowImpl) runIncremental(ctx context.Context) (daily, monthly int, err error) {
	today := utils.DateOnly(utils.UTCNow())
	yesterday := today.AddDate(0, 0, -1)
	lastMonth := utils.FirstOfMonth(today.AddDate(0, -1, 0))

	err = repository.WithSerializableTransaction(ctx, f.db, func(txCtx context.Context) error {
		dayEnd := yesterday.AddDate(0, 0, 1)
		dailyRows, err := f.energyRepo.DeliveredPerFeederDate(txCtx, &yesterday, &dayEnd)
		if err != nil {
			return err
		}
		if err := f.energyRepo.UpsertFeederEnergyDaily(txCtx, toDailyModels(dailyRows)); err != nil {
			return err
		}
		daily = len(dailyRows)

		monthlyRows, err := f.energyRepo.DailyRollupPerFeederMonth(txCtx, &lastMonth)
		if err != nil {
			return err
		}
		if err := f.energyRepo.UpsertFeederEnergyMonthly(txCtx, toMonthlyModels(monthlyRows)); err != nil {
			return err
		}
		monthly = len(monthlyRows)
		return nil
	})
	return daily, monthly, err
}

func toDailyModels(rows []repository.FeederDateEnergyRow) []models.FeederEnergyDaily {
	out := make([]models.FeederEnergyDaily, 0, len(rows))
	for _, row := range rows {
		out = append(out, models.FeederEnergyDaily{
			FeederID:  row.FeederID,
			Date:      utils.DateOnly(row.Date),
			EnergyMWh: row.EnergyMWh,
		})
	}
	return out
}

func toMonthlyModels(rows []repository.FeederDateEnergyRow) []models.FeederEnergyMonthly {
	out := make([]models.FeederEnergyMonthly, 0, len(rows))
	for _, row := range rows {
		out = append(out, models.FeederEnergyMonthly{
			FeederID:  row.FeederID,
			Period:    utils.FirstOfMonth(row.Date),
			EnergyMWh: row.EnergyMWh,
		})
	}
	return out
}
