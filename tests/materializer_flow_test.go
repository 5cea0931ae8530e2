package tests

import (
	"testing"

	businessflow "github.com/powergridhq/disco-analytics/business_flow"
	"github.com/powergridhq/disco-analytics/models"
	"github.com/powergridhq/disco-analytics/repository"
	testingutil "github.com/powergridhq/disco-analytics/testing"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMaterializerFullRebuild(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fix, err := testingutil.SeedLocationTree(testDB.DB)
		require.NoError(t, err)

		flow := businessflow.NewMaterializerFlow(testDB.DB, repository.NewEnergyRepository(testDB.DB))
		ctx := testingutil.CreateTestContext()

		require.NoError(t, testingutil.InsertDailyEnergy(testDB.DB, fix.DalaF1.ID, testingutil.Date(2025, 3, 1), 100))
		require.NoError(t, testingutil.InsertDailyEnergy(testDB.DB, fix.DalaF1.ID, testingutil.Date(2025, 3, 2), 150))
		require.NoError(t, testingutil.InsertDailyEnergy(testDB.DB, fix.DalaF1.ID, testingutil.Date(2025, 4, 1), 90))
		require.NoError(t, testingutil.InsertDailyEnergy(testDB.DB, fix.DalaF2.ID, testingutil.Date(2025, 3, 1), 70))

		t.Run("DerivedRowsMirrorSourceTotals", func(t *testing.T) {
			resp, err := flow.Run(ctx, businessflow.MaterializeFull)
			require.NoError(t, err)

			assert.Equal(t, businessflow.MaterializeFull, resp.Mode)
			assert.Equal(t, 4, resp.DailyRows)
			assert.Equal(t, 3, resp.MonthlyRows)

			// Per-feeder daily totals equal the delivered-energy source rows.
			var dalaF1Total decimal.Decimal
			require.NoError(t, testDB.DB.Model(&models.FeederEnergyDaily{}).
				Where("feeder_id = ?", fix.DalaF1.ID).
				Select("COALESCE(SUM(energy_mwh), 0)").Scan(&dalaF1Total).Error)
			assert.True(t, dalaF1Total.Equal(decimal.NewFromInt(340)), "got %s", dalaF1Total)

			// Monthly rollups sum the daily rows of that month.
			var marchRow models.FeederEnergyMonthly
			require.NoError(t, testDB.DB.
				Where("feeder_id = ? AND period = ?", fix.DalaF1.ID, testingutil.MonthStart(2025, 3)).
				First(&marchRow).Error)
			assert.True(t, marchRow.EnergyMWh.Equal(decimal.NewFromInt(250)), "got %s", marchRow.EnergyMWh)

			var aprilRow models.FeederEnergyMonthly
			require.NoError(t, testDB.DB.
				Where("feeder_id = ? AND period = ?", fix.DalaF1.ID, testingutil.MonthStart(2025, 4)).
				First(&aprilRow).Error)
			assert.True(t, aprilRow.EnergyMWh.Equal(decimal.NewFromInt(90)), "got %s", aprilRow.EnergyMWh)
		})

		t.Run("RerunReplacesInsteadOfAccumulating", func(t *testing.T) {
			resp, err := flow.Run(ctx, "")
			require.NoError(t, err)
			assert.Equal(t, businessflow.MaterializeFull, resp.Mode)

			var dailyCount int64
			require.NoError(t, testDB.DB.Model(&models.FeederEnergyDaily{}).Count(&dailyCount).Error)
			assert.EqualValues(t, 4, dailyCount)

			var monthlyCount int64
			require.NoError(t, testDB.DB.Model(&models.FeederEnergyMonthly{}).Count(&monthlyCount).Error)
			assert.EqualValues(t, 3, monthlyCount)
		})

		t.Run("UnknownModeRejected", func(t *testing.T) {
			_, err := flow.Run(ctx, "hourly")
			require.Error(t, err)
			assert.True(t, businessflow.IsUnknownMaterializerMode(err))
		})

		return nil
	})
	require.NoError(t, err)
}
