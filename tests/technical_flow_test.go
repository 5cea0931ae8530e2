package tests

import (
	"testing"
	"time"

	"github.com/powergridhq/disco-analytics/app/dto"
	businessflow "github.com/powergridhq/disco-analytics/business_flow"
	"github.com/powergridhq/disco-analytics/models"
	"github.com/powergridhq/disco-analytics/repository"
	testingutil "github.com/powergridhq/disco-analytics/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTechnicalFlow(testDB *testingutil.TestDB) businessflow.TechnicalFlow {
	locationRepo := repository.NewLocationRepository(testDB.DB)
	return businessflow.NewTechnicalFlow(
		locationRepo,
		businessflow.NewLocationResolver(locationRepo),
		repository.NewTechnicalRepository(testDB.DB),
	)
}

func sourceRow(t *testing.T, rows []dto.InterruptionSourceRow, typ models.InterruptionType) dto.InterruptionSourceRow {
	t.Helper()
	for _, row := range rows {
		if row.Type == typ.String() {
			return row
		}
	}
	t.Fatalf("interruption type %q not in response", typ)
	return dto.InterruptionSourceRow{}
}

func TestTechnicalOverview(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fix, err := testingutil.SeedLocationTree(testDB.DB)
		require.NoError(t, err)

		flow := newTechnicalFlow(testDB)
		ctx := testingutil.CreateTestContext()
		march := dto.AnalyticsQuery{Year: 2025, Month: 3}

		t.Run("SupplyHoursAveragedAgainstPreviousMonth", func(t *testing.T) {
			require.NoError(t, testDB.ClearFactTables())
			require.NoError(t, testingutil.InsertHoursOfSupply(testDB.DB, fix.DalaF1.ID, testingutil.Date(2025, 3, 10), 20))
			require.NoError(t, testingutil.InsertHoursOfSupply(testDB.DB, fix.DalaF1.ID, testingutil.Date(2025, 3, 11), 22))
			require.NoError(t, testingutil.InsertHoursOfSupply(testDB.DB, fix.DalaF1.ID, testingutil.Date(2025, 2, 10), 18))

			resp, err := flow.Overview(ctx, march)
			require.NoError(t, err)

			assert.Equal(t, 21.00, resp.Highlights.SupplyHours.Actual)
			require.NotNil(t, resp.Highlights.SupplyHours.Delta)
			assert.Equal(t, 16.67, *resp.Highlights.SupplyHours.Delta)
			assert.Equal(t, 21.00, resp.SupplyAndQuality.HoursOfSupply)
		})

		t.Run("OpenFaultsDragTheAverageDuration", func(t *testing.T) {
			require.NoError(t, testDB.ClearFactTables())
			restored := testingutil.Date(2025, 3, 10).Add(14 * time.Hour)
			require.NoError(t, testingutil.InsertInterruption(testDB.DB, fix.DalaF1.ID, models.InterruptionTypeEarthFault,
				testingutil.Date(2025, 3, 10).Add(10*time.Hour), &restored))
			require.NoError(t, testingutil.InsertInterruption(testDB.DB, fix.DalaF1.ID, models.InterruptionTypeOverCurrent,
				testingutil.Date(2025, 3, 12).Add(8*time.Hour), nil))

			resp, err := flow.Overview(ctx, march)
			require.NoError(t, err)

			assert.Equal(t, 2.00, resp.Highlights.AvgInterruptionDuration.Actual)
			assert.Equal(t, 2.00, resp.Highlights.InterruptionCount.Actual)
		})

		t.Run("LoadReadingsDriveSupplyPeakAndTrend", func(t *testing.T) {
			require.NoError(t, testDB.ClearFactTables())
			day := testingutil.Date(2025, 3, 10)
			loads := []float64{5, 10, 0, 8}
			for hour, mw := range loads {
				require.NoError(t, testingutil.InsertHourlyLoad(testDB.DB, fix.DalaF1.ID, day, hour, mw))
			}

			resp, err := flow.Overview(ctx, march)
			require.NoError(t, err)

			assert.Equal(t, 3.00, resp.SupplyAndQuality.HoursFromLoadReadings)
			assert.Equal(t, 10.00, resp.Highlights.PeakLoad.Actual)

			require.Len(t, resp.LoadTrend, 1)
			assert.Equal(t, "2025-03-10", resp.LoadTrend[0].Date)
			assert.Equal(t, 5.75, resp.LoadTrend[0].AvgLoad)
			assert.Equal(t, 10.00, resp.LoadTrend[0].PeakLoad)
		})

		t.Run("BlackoutDaysCountAsZeroSupplyHours", func(t *testing.T) {
			require.NoError(t, testDB.ClearFactTables())
			lit := testingutil.Date(2025, 3, 10)
			for hour, mw := range []float64{5, 10, 0, 8} {
				require.NoError(t, testingutil.InsertHourlyLoad(testDB.DB, fix.DalaF1.ID, lit, hour, mw))
			}
			dark := testingutil.Date(2025, 3, 11)
			for hour := 0; hour < 4; hour++ {
				require.NoError(t, testingutil.InsertHourlyLoad(testDB.DB, fix.DalaF1.ID, dark, hour, 0))
			}

			resp, err := flow.Overview(ctx, march)
			require.NoError(t, err)

			assert.Equal(t, 1.50, resp.SupplyAndQuality.HoursFromLoadReadings)
			require.Len(t, resp.LoadTrend, 2)
			assert.Equal(t, "2025-03-11", resp.LoadTrend[1].Date)
			assert.Equal(t, 0.00, resp.LoadTrend[1].PeakLoad)
		})

		t.Run("InterruptionSourcesCarryFourMonthHistory", func(t *testing.T) {
			require.NoError(t, testDB.ClearFactTables())
			require.NoError(t, testingutil.InsertInterruption(testDB.DB, fix.DalaF1.ID, models.InterruptionTypeEarthFault,
				testingutil.Date(2025, 3, 5).Add(6*time.Hour), nil))
			require.NoError(t, testingutil.InsertInterruption(testDB.DB, fix.DalaF1.ID, models.InterruptionTypeEarthFault,
				testingutil.Date(2025, 3, 18).Add(9*time.Hour), nil))
			require.NoError(t, testingutil.InsertInterruption(testDB.DB, fix.DalaF1.ID, models.InterruptionTypeOverCurrent,
				testingutil.Date(2025, 1, 9).Add(7*time.Hour), nil))

			resp, err := flow.Overview(ctx, march)
			require.NoError(t, err)

			earthFault := sourceRow(t, resp.InterruptionSources, models.InterruptionTypeEarthFault)
			assert.Equal(t, int64(2), earthFault.Count)
			require.Len(t, earthFault.History, 4)
			assert.Equal(t, "Dec", earthFault.History[0].Month)
			assert.Equal(t, "Mar", earthFault.History[3].Month)
			assert.Equal(t, 2.00, earthFault.History[3].Value)

			overCurrent := sourceRow(t, resp.InterruptionSources, models.InterruptionTypeOverCurrent)
			assert.Equal(t, int64(0), overCurrent.Count)
			assert.Equal(t, "Jan", overCurrent.History[1].Month)
			assert.Equal(t, 1.00, overCurrent.History[1].Value)
		})

		t.Run("DistrictFilterNarrowsTheScope", func(t *testing.T) {
			require.NoError(t, testDB.ClearFactTables())
			require.NoError(t, testingutil.InsertInterruption(testDB.DB, fix.DalaF1.ID, models.InterruptionTypeLoadShedding,
				testingutil.Date(2025, 3, 5).Add(6*time.Hour), nil))
			require.NoError(t, testingutil.InsertInterruption(testDB.DB, fix.DutseF1.ID, models.InterruptionTypeLoadShedding,
				testingutil.Date(2025, 3, 5).Add(6*time.Hour), nil))

			resp, err := flow.Overview(ctx, dto.AnalyticsQuery{Year: 2025, Month: 3, District: "dala"})
			require.NoError(t, err)

			assert.Equal(t, 1.00, resp.Highlights.InterruptionCount.Actual)
		})

		return nil
	})
	require.NoError(t, err)
}
