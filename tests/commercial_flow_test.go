// Package tests contains DB-backed integration tests for the analytics flows
package tests

import (
	"testing"

	"github.com/powergridhq/disco-analytics/app/dto"
	businessflow "github.com/powergridhq/disco-analytics/business_flow"
	"github.com/powergridhq/disco-analytics/repository"
	testingutil "github.com/powergridhq/disco-analytics/testing"
	"github.com/powergridhq/disco-analytics/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCommercialFlow(testDB *testingutil.TestDB) businessflow.CommercialFlow {
	locationRepo := repository.NewLocationRepository(testDB.DB)
	return businessflow.NewCommercialFlow(
		locationRepo,
		businessflow.NewLocationResolver(locationRepo),
		repository.NewEnergyRepository(testDB.DB),
		repository.NewRevenueRepository(testDB.DB),
		repository.NewCommercialRepository(testDB.DB),
		repository.NewTechnicalRepository(testDB.DB),
		repository.NewSalesRepRepository(testDB.DB),
		utils.DefaultTariffPerMWh,
	)
}

func stateRow(t *testing.T, resp *dto.AllStatesCommercialResponse, slug string) dto.StateCommercialRow {
	t.Helper()
	for _, row := range resp.States {
		if row.Slug == slug {
			return row
		}
	}
	t.Fatalf("state %q not in response", slug)
	return dto.StateCommercialRow{}
}

func TestCommercialAllStates(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fix, err := testingutil.SeedLocationTree(testDB.DB)
		require.NoError(t, err)

		flow := newCommercialFlow(testDB)
		ctx := testingutil.CreateTestContext()
		march := dto.AnalyticsQuery{Year: 2025, Month: 3}

		t.Run("CollectionEfficiencyBasic", func(t *testing.T) {
			require.NoError(t, testDB.ClearFactTables())
			require.NoError(t, testingutil.InsertMonthlyRevenueBilled(testDB.DB, fix.DalaF1.ID, testingutil.MonthStart(2025, 3), 100000))
			require.NoError(t, testingutil.InsertDailyRevenue(testDB.DB, fix.DalaF1.ID, testingutil.Date(2025, 3, 5), 80000))

			resp, err := flow.AllStates(ctx, march)
			require.NoError(t, err)

			kano := stateRow(t, resp, "kano")
			assert.Equal(t, 80.00, kano.CollectionEfficiency.Actual)
			assert.Equal(t, 100000.00, kano.RevenueBilled.Actual)
			assert.Equal(t, 80000.00, kano.RevenueCollected.Actual)
		})

		t.Run("DivideByZeroSafety", func(t *testing.T) {
			require.NoError(t, testDB.ClearFactTables())
			require.NoError(t, testingutil.InsertDailyRevenue(testDB.DB, fix.DalaF1.ID, testingutil.Date(2025, 3, 5), 80000))

			resp, err := flow.AllStates(ctx, march)
			require.NoError(t, err)

			kano := stateRow(t, resp, "kano")
			assert.Equal(t, 0.00, kano.CollectionEfficiency.Actual)
			assert.Nil(t, kano.CollectionEfficiency.Delta)
		})

		t.Run("ATCCMultiplicative", func(t *testing.T) {
			require.NoError(t, testDB.ClearFactTables())
			require.NoError(t, testingutil.InsertDailyEnergy(testDB.DB, fix.DalaF1.ID, testingutil.Date(2025, 3, 10), 1000))
			require.NoError(t, testingutil.InsertMonthlyEnergyBilled(testDB.DB, fix.DalaF1.ID, testingutil.MonthStart(2025, 3), 800))
			require.NoError(t, testingutil.InsertMonthlyRevenueBilled(testDB.DB, fix.DalaF1.ID, testingutil.MonthStart(2025, 3), 100000))
			require.NoError(t, testingutil.InsertDailyRevenue(testDB.DB, fix.DalaF1.ID, testingutil.Date(2025, 3, 5), 75000))

			resp, err := flow.AllStates(ctx, march)
			require.NoError(t, err)

			kano := stateRow(t, resp, "kano")
			assert.Equal(t, businessflow.FormulaATCCMultiplicative, kano.Formula)
			assert.Equal(t, 80.00, kano.BillingEfficiency.Actual)
			assert.Equal(t, 75.00, kano.CollectionEfficiency.Actual)
			assert.Equal(t, 60.00, kano.ATCC.Actual)
		})

		t.Run("FactsStayWithinTheirState", func(t *testing.T) {
			require.NoError(t, testDB.ClearFactTables())
			require.NoError(t, testingutil.InsertMonthlyRevenueBilled(testDB.DB, fix.DalaF1.ID, testingutil.MonthStart(2025, 3), 100000))
			require.NoError(t, testingutil.InsertDailyRevenue(testDB.DB, fix.DalaF1.ID, testingutil.Date(2025, 3, 5), 80000))

			resp, err := flow.AllStates(ctx, march)
			require.NoError(t, err)

			jigawa := stateRow(t, resp, "jigawa")
			assert.Equal(t, 0.00, jigawa.RevenueBilled.Actual)
			assert.Equal(t, 0.00, jigawa.RevenueCollected.Actual)
		})

		return nil
	})
	require.NoError(t, err)
}

func TestCommercialStateSeries(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fix, err := testingutil.SeedLocationTree(testDB.DB)
		require.NoError(t, err)

		flow := newCommercialFlow(testDB)
		ctx := testingutil.CreateTestContext()

		t.Run("FiveMonthHistoryOrder", func(t *testing.T) {
			resp, err := flow.StateSeries(ctx, dto.AnalyticsQuery{State: "kano", Year: 2025, Month: 5})
			require.NoError(t, err)

			require.Len(t, resp.Series, 5)
			months := make([]string, 0, 5)
			for _, point := range resp.Series {
				months = append(months, point.Month)
			}
			assert.Equal(t, []string{"Jan", "Feb", "Mar", "Apr", "May"}, months)
		})

		t.Run("SeriesValuesPerMonth", func(t *testing.T) {
			require.NoError(t, testDB.ClearFactTables())
			require.NoError(t, testingutil.InsertMonthlyRevenueBilled(testDB.DB, fix.DalaF1.ID, testingutil.MonthStart(2025, 3), 100000))
			require.NoError(t, testingutil.InsertDailyRevenue(testDB.DB, fix.DalaF1.ID, testingutil.Date(2025, 3, 5), 80000))

			resp, err := flow.StateSeries(ctx, dto.AnalyticsQuery{State: "Kano", Year: 2025, Month: 5})
			require.NoError(t, err)

			assert.Equal(t, 80.00, resp.Series[2].CollectionEfficiency)
			assert.Equal(t, 0.00, resp.Series[3].CollectionEfficiency)
		})

		t.Run("MissingStateRejected", func(t *testing.T) {
			_, err := flow.StateSeries(ctx, dto.AnalyticsQuery{Year: 2025, Month: 5})
			require.Error(t, err)
			assert.True(t, businessflow.IsStateRequired(err))
		})

		t.Run("UnknownStateRejected", func(t *testing.T) {
			_, err := flow.StateSeries(ctx, dto.AnalyticsQuery{State: "atlantis", Year: 2025, Month: 5})
			require.Error(t, err)
			assert.True(t, businessflow.IsStateNotFound(err))
		})

		return nil
	})
	require.NoError(t, err)
}

func TestCommercialFeedersLocationPrecedence(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fix, err := testingutil.SeedLocationTree(testDB.DB)
		require.NoError(t, err)

		require.NoError(t, testingutil.InsertDailyEnergy(testDB.DB, fix.DalaF1.ID, testingutil.Date(2025, 3, 10), 500))
		require.NoError(t, testingutil.InsertDailyEnergy(testDB.DB, fix.DalaF2.ID, testingutil.Date(2025, 3, 10), 300))
		require.NoError(t, testingutil.InsertMonthlyRevenueBilled(testDB.DB, fix.DalaF1.ID, testingutil.MonthStart(2025, 3), 40000))
		require.NoError(t, testingutil.InsertDailyRevenue(testDB.DB, fix.DalaF1.ID, testingutil.Date(2025, 3, 5), 30000))

		flow := newCommercialFlow(testDB)
		ctx := testingutil.CreateTestContext()

		t.Run("MostSpecificFilterWins", func(t *testing.T) {
			broad, err := flow.Feeders(ctx, dto.AnalyticsQuery{
				Year: 2025, Month: 3,
				State: "kano", District: "dala", Feeder: "dala-f1",
			})
			require.NoError(t, err)

			narrow, err := flow.Feeders(ctx, dto.AnalyticsQuery{
				Year: 2025, Month: 3,
				Feeder: "dala-f1",
			})
			require.NoError(t, err)

			assert.Equal(t, narrow.Feeders, broad.Feeders)
			require.Len(t, broad.Feeders, 1)
			assert.Equal(t, "dala-f1", broad.Feeders[0].Slug)
		})

		t.Run("UnknownNameYieldsEmptySet", func(t *testing.T) {
			resp, err := flow.Feeders(ctx, dto.AnalyticsQuery{Year: 2025, Month: 3, Feeder: "no-such-feeder"})
			require.NoError(t, err)
			assert.Empty(t, resp.Feeders)
		})

		t.Run("BandIntersectsDistrict", func(t *testing.T) {
			resp, err := flow.Feeders(ctx, dto.AnalyticsQuery{
				Year: 2025, Month: 3,
				District: "dala", Band: "Band A",
			})
			require.NoError(t, err)

			require.Len(t, resp.Feeders, 1)
			assert.Equal(t, "dala-f1", resp.Feeders[0].Slug)
		})

		return nil
	})
	require.NoError(t, err)
}

func TestCommercialSalesRepSummary(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fix, err := testingutil.SeedLocationTree(testDB.DB)
		require.NoError(t, err)

		salesRepRepo := repository.NewSalesRepRepository(testDB.DB)
		ctx := testingutil.CreateTestContext()

		aisha, err := testingutil.InsertSalesRep(testDB.DB, "Aisha Bello", "aisha-bello")
		require.NoError(t, err)
		musa, err := testingutil.InsertSalesRep(testDB.DB, "Musa Danjuma", "musa-danjuma")
		require.NoError(t, err)
		require.NoError(t, salesRepRepo.AssignTransformers(ctx, aisha.ID, []uint{fix.DalaF1T1.ID}))
		require.NoError(t, salesRepRepo.AssignTransformers(ctx, musa.ID, []uint{fix.DutseF1T.ID}))

		flow := newCommercialFlow(testDB)
		march := dto.AnalyticsQuery{Year: 2025, Month: 3}

		t.Run("UnrestrictedScopeSumsEveryRep", func(t *testing.T) {
			require.NoError(t, testDB.ClearFactTables())
			require.NoError(t, testingutil.InsertCommercialSummary(testDB.DB, aisha.ID, testingutil.MonthStart(2025, 3), 100, 80, 50000, 40000))
			require.NoError(t, testingutil.InsertCommercialSummary(testDB.DB, musa.ID, testingutil.MonthStart(2025, 3), 50, 10, 20000, 10000))

			resp, err := flow.SalesRepSummary(ctx, march)
			require.NoError(t, err)

			assert.Equal(t, 2, resp.RepCount)
			assert.Equal(t, 150.00, resp.CustomersBilled.Actual)
			assert.Equal(t, 90.00, resp.CustomersResponded.Actual)
			assert.Equal(t, 60.00, resp.ResponseRate.Actual)
			assert.Equal(t, 70000.00, resp.RevenueBilled.Actual)
			assert.Equal(t, 50000.00, resp.RevenueCollected.Actual)
			assert.Equal(t, 71.43, resp.CollectionEfficiency.Actual)
		})

		t.Run("StateFilterNarrowsToAssignedReps", func(t *testing.T) {
			require.NoError(t, testDB.ClearFactTables())
			require.NoError(t, testingutil.InsertCommercialSummary(testDB.DB, aisha.ID, testingutil.MonthStart(2025, 3), 100, 80, 50000, 40000))
			require.NoError(t, testingutil.InsertCommercialSummary(testDB.DB, musa.ID, testingutil.MonthStart(2025, 3), 50, 10, 20000, 10000))

			resp, err := flow.SalesRepSummary(ctx, dto.AnalyticsQuery{Year: 2025, Month: 3, State: "kano"})
			require.NoError(t, err)

			assert.Equal(t, 1, resp.RepCount)
			assert.Equal(t, 100.00, resp.CustomersBilled.Actual)
			assert.Equal(t, 50000.00, resp.RevenueBilled.Actual)
			assert.Equal(t, 80.00, resp.CollectionEfficiency.Actual)
		})

		t.Run("PreviousMonthDrivesDeltas", func(t *testing.T) {
			require.NoError(t, testDB.ClearFactTables())
			require.NoError(t, testingutil.InsertCommercialSummary(testDB.DB, aisha.ID, testingutil.MonthStart(2025, 2), 100, 50, 40000, 30000))
			require.NoError(t, testingutil.InsertCommercialSummary(testDB.DB, aisha.ID, testingutil.MonthStart(2025, 3), 100, 80, 50000, 40000))

			resp, err := flow.SalesRepSummary(ctx, march)
			require.NoError(t, err)

			require.NotNil(t, resp.RevenueBilled.Delta)
			assert.Equal(t, 25.00, *resp.RevenueBilled.Delta)
			require.NotNil(t, resp.CustomersResponded.Delta)
			assert.Equal(t, 60.00, *resp.CustomersResponded.Delta)
		})

		t.Run("ScopeWithoutRepsYieldsZeroTotals", func(t *testing.T) {
			require.NoError(t, testDB.ClearFactTables())
			require.NoError(t, testingutil.InsertCommercialSummary(testDB.DB, aisha.ID, testingutil.MonthStart(2025, 3), 100, 80, 50000, 40000))

			resp, err := flow.SalesRepSummary(ctx, dto.AnalyticsQuery{Year: 2025, Month: 3, Feeder: "kumbotso-f1"})
			require.NoError(t, err)

			assert.Equal(t, 0, resp.RepCount)
			assert.Equal(t, 0.00, resp.CustomersBilled.Actual)
			assert.Equal(t, 0.00, resp.RevenueBilled.Actual)
			assert.Nil(t, resp.RevenueBilled.Delta)
		})

		return nil
	})
	require.NoError(t, err)
}
