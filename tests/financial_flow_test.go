package tests

import (
	"testing"

	"github.com/powergridhq/disco-analytics/app/dto"
	businessflow "github.com/powergridhq/disco-analytics/business_flow"
	"github.com/powergridhq/disco-analytics/models"
	"github.com/powergridhq/disco-analytics/repository"
	testingutil "github.com/powergridhq/disco-analytics/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFinancialFlow(testDB *testingutil.TestDB) businessflow.FinancialFlow {
	locationRepo := repository.NewLocationRepository(testDB.DB)
	return businessflow.NewFinancialFlow(
		locationRepo,
		businessflow.NewLocationResolver(locationRepo),
		repository.NewRevenueRepository(testDB.DB),
		repository.NewExpenseRepository(testDB.DB),
		repository.NewSalesRepRepository(testDB.DB),
	)
}

func opexRow(rows []dto.OpexCategoryRow, category string) (dto.OpexCategoryRow, bool) {
	for _, row := range rows {
		if row.Category == category {
			return row, true
		}
	}
	return dto.OpexCategoryRow{}, false
}

func channelAmount(rows []dto.CollectionChannelRow, typ string) float64 {
	for _, row := range rows {
		if row.Type == typ {
			return row.Amount
		}
	}
	return 0
}

func TestFinancialOverview(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fix, err := testingutil.SeedLocationTree(testDB.DB)
		require.NoError(t, err)

		fuel := &models.ExpenseCategory{Name: "Diesel and Fuel"}
		require.NoError(t, testDB.DB.Create(fuel).Error)
		levy := &models.ExpenseCategory{Name: "Regulatory Levy", IsSpecial: true}
		require.NoError(t, testDB.DB.Create(levy).Error)

		flow := newFinancialFlow(testDB)
		ctx := testingutil.CreateTestContext()
		march := dto.AnalyticsQuery{Year: 2025, Month: 3}

		t.Run("RevenueAndEfficiency", func(t *testing.T) {
			require.NoError(t, testDB.ClearFactTables())
			require.NoError(t, testingutil.InsertMonthlyRevenueBilled(testDB.DB, fix.DalaF1.ID, testingutil.MonthStart(2025, 3), 200000))
			require.NoError(t, testingutil.InsertDailyRevenue(testDB.DB, fix.DalaF1.ID, testingutil.Date(2025, 3, 12), 150000))

			resp, err := flow.Overview(ctx, march)
			require.NoError(t, err)

			assert.Equal(t, 200000.00, resp.RevenueBilled.Actual)
			assert.Equal(t, 150000.00, resp.RevenueCollected.Actual)
			assert.Equal(t, 75.00, resp.CollectionEfficiency.Actual)
		})

		t.Run("LedgerSidesAreSeparated", func(t *testing.T) {
			require.NoError(t, testDB.ClearFactTables())
			require.NoError(t, testingutil.InsertExpense(testDB.DB, fix.Dala.ID, testingutil.Date(2025, 3, 4), &fuel.ID, 0, 50000))
			require.NoError(t, testingutil.InsertExpense(testDB.DB, fix.Dala.ID, testingutil.Date(2025, 3, 8), &levy.ID, 0, 20000))
			require.NoError(t, testingutil.InsertExpense(testDB.DB, fix.Dala.ID, testingutil.Date(2025, 3, 2), &fuel.ID, 30000, 0))

			resp, err := flow.Overview(ctx, march)
			require.NoError(t, err)

			assert.Equal(t, 70000.00, resp.OpexTotal.Actual)
			assert.Equal(t, 30000.00, resp.HQInflow.Actual)

			row, ok := opexRow(resp.OpexBreakdown, "Diesel and Fuel")
			require.True(t, ok)
			assert.Equal(t, 50000.00, row.Amount)
			assert.False(t, row.IsSpecial)
			_, inRegular := opexRow(resp.OpexBreakdown, "Regulatory Levy")
			assert.False(t, inRegular)

			special, ok := opexRow(resp.SpecialCategories, "Regulatory Levy")
			require.True(t, ok)
			assert.Equal(t, 20000.00, special.Amount)
			assert.True(t, special.IsSpecial)
		})

		t.Run("UncategorizedLinesGetTheirOwnBucket", func(t *testing.T) {
			require.NoError(t, testDB.ClearFactTables())
			require.NoError(t, testingutil.InsertExpense(testDB.DB, fix.Dala.ID, testingutil.Date(2025, 3, 15), nil, 0, 12500))

			resp, err := flow.Overview(ctx, march)
			require.NoError(t, err)

			row, ok := opexRow(resp.OpexBreakdown, "Uncategorized")
			require.True(t, ok)
			assert.Equal(t, 12500.00, row.Amount)
		})

		t.Run("FeederFilterReachesDistrictExpenses", func(t *testing.T) {
			require.NoError(t, testDB.ClearFactTables())
			require.NoError(t, testingutil.InsertExpense(testDB.DB, fix.Dala.ID, testingutil.Date(2025, 3, 4), &fuel.ID, 0, 50000))
			require.NoError(t, testingutil.InsertExpense(testDB.DB, fix.Dutse.ID, testingutil.Date(2025, 3, 4), &fuel.ID, 0, 9000))

			scoped, err := flow.Overview(ctx, dto.AnalyticsQuery{Year: 2025, Month: 3, Feeder: "dala-f1"})
			require.NoError(t, err)
			assert.Equal(t, 50000.00, scoped.OpexTotal.Actual)

			other, err := flow.Overview(ctx, dto.AnalyticsQuery{Year: 2025, Month: 3, District: "dutse"})
			require.NoError(t, err)
			assert.Equal(t, 9000.00, other.OpexTotal.Actual)
		})

		t.Run("PreviousMonthDrivesDeltas", func(t *testing.T) {
			require.NoError(t, testDB.ClearFactTables())
			require.NoError(t, testingutil.InsertDailyRevenue(testDB.DB, fix.DalaF1.ID, testingutil.Date(2025, 2, 20), 100000))
			require.NoError(t, testingutil.InsertDailyRevenue(testDB.DB, fix.DalaF1.ID, testingutil.Date(2025, 3, 20), 120000))

			resp, err := flow.Overview(ctx, march)
			require.NoError(t, err)

			require.NotNil(t, resp.RevenueCollected.Delta)
			assert.Equal(t, 20.00, *resp.RevenueCollected.Delta)
		})

		return nil
	})
	require.NoError(t, err)
}

func TestFinancialDailyCollections(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fix, err := testingutil.SeedLocationTree(testDB.DB)
		require.NoError(t, err)

		flow := newFinancialFlow(testDB)
		ctx := testingutil.CreateTestContext()
		march := dto.AnalyticsQuery{Year: 2025, Month: 3}

		t.Run("ChannelTotals", func(t *testing.T) {
			require.NoError(t, testDB.ClearFactTables())
			require.NoError(t, testingutil.InsertDailyCollection(testDB.DB, &fix.DalaF1.ID, nil, nil, testingutil.Date(2025, 3, 3), 1000, models.CollectionTypePrepaid))
			require.NoError(t, testingutil.InsertDailyCollection(testDB.DB, &fix.DalaF2.ID, nil, nil, testingutil.Date(2025, 3, 5), 500, models.CollectionTypePrepaid))
			require.NoError(t, testingutil.InsertDailyCollection(testDB.DB, &fix.DalaF1.ID, nil, &fix.DalaF1T1.ID, testingutil.Date(2025, 3, 10), 700, models.CollectionTypePostpaid))

			resp, err := flow.DailyCollections(ctx, march)
			require.NoError(t, err)

			assert.Len(t, resp.Collections, 3)
			assert.Equal(t, 1500.00, channelAmount(resp.Totals, "Prepaid"))
			assert.Equal(t, 700.00, channelAmount(resp.Totals, "Postpaid"))
		})

		t.Run("ListingIsNewestFirstAndPaged", func(t *testing.T) {
			require.NoError(t, testDB.ClearFactTables())
			require.NoError(t, testingutil.InsertDailyCollection(testDB.DB, &fix.DalaF1.ID, nil, nil, testingutil.Date(2025, 3, 3), 100, models.CollectionTypePrepaid))
			require.NoError(t, testingutil.InsertDailyCollection(testDB.DB, &fix.DalaF1.ID, nil, nil, testingutil.Date(2025, 3, 5), 200, models.CollectionTypePrepaid))
			require.NoError(t, testingutil.InsertDailyCollection(testDB.DB, &fix.DalaF1.ID, nil, nil, testingutil.Date(2025, 3, 10), 300, models.CollectionTypePrepaid))

			resp, err := flow.DailyCollections(ctx, dto.AnalyticsQuery{Year: 2025, Month: 3, Limit: 2})
			require.NoError(t, err)

			require.Len(t, resp.Collections, 2)
			assert.Equal(t, "2025-03-10", resp.Collections[0].Date)
			assert.Equal(t, "2025-03-05", resp.Collections[1].Date)
			assert.Equal(t, fix.DalaF1.Name, resp.Collections[0].Feeder)
		})

		t.Run("FeederFilterExcludesOtherFeeders", func(t *testing.T) {
			require.NoError(t, testDB.ClearFactTables())
			require.NoError(t, testingutil.InsertDailyCollection(testDB.DB, &fix.DalaF1.ID, nil, nil, testingutil.Date(2025, 3, 3), 100, models.CollectionTypePrepaid))
			require.NoError(t, testingutil.InsertDailyCollection(testDB.DB, &fix.DutseF1.ID, nil, nil, testingutil.Date(2025, 3, 3), 900, models.CollectionTypePrepaid))

			resp, err := flow.DailyCollections(ctx, dto.AnalyticsQuery{Year: 2025, Month: 3, Feeder: "dala-f1"})
			require.NoError(t, err)

			require.Len(t, resp.Collections, 1)
			assert.Equal(t, 100.00, resp.Collections[0].Amount)
		})

		return nil
	})
	require.NoError(t, err)
}

func TestFinancialRepPerformance(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		_, err := testingutil.SeedLocationTree(testDB.DB)
		require.NoError(t, err)

		flow := newFinancialFlow(testDB)
		ctx := testingutil.CreateTestContext()

		rep, err := testingutil.InsertSalesRep(testDB.DB, "Binta Sule", "binta-sule")
		require.NoError(t, err)

		t.Run("MonthsAreListedOldestFirst", func(t *testing.T) {
			require.NoError(t, testDB.ClearFactTables())
			require.NoError(t, testingutil.InsertRepPerformance(testDB.DB, rep.ID, testingutil.MonthStart(2025, 3), 5000, 2000, 1500))
			require.NoError(t, testingutil.InsertRepPerformance(testDB.DB, rep.ID, testingutil.MonthStart(2025, 1), 4000, 1800, 1200))
			require.NoError(t, testingutil.InsertRepPerformance(testDB.DB, rep.ID, testingutil.MonthStart(2025, 2), 4500, 1900, 1300))

			resp, err := flow.RepPerformance(ctx, rep.ID, dto.AnalyticsQuery{Year: 2025, Month: 3})
			require.NoError(t, err)

			assert.Equal(t, "Binta Sule", resp.SalesRep)
			assert.Equal(t, "binta-sule", resp.Slug)
			require.Len(t, resp.Months, 3)
			assert.Equal(t, "Jan", resp.Months[0].Month)
			assert.Equal(t, "Feb", resp.Months[1].Month)
			assert.Equal(t, "Mar", resp.Months[2].Month)
			assert.Equal(t, 5000.00, resp.Months[2].OutstandingBilled)
			assert.Equal(t, 2000.00, resp.Months[2].CurrentBilled)
			assert.Equal(t, 1500.00, resp.Months[2].Collections)
		})

		t.Run("MonthsOutsideTheHistoryWindowAreDropped", func(t *testing.T) {
			require.NoError(t, testDB.ClearFactTables())
			require.NoError(t, testingutil.InsertRepPerformance(testDB.DB, rep.ID, testingutil.MonthStart(2024, 6), 9000, 3000, 2500))
			require.NoError(t, testingutil.InsertRepPerformance(testDB.DB, rep.ID, testingutil.MonthStart(2025, 3), 5000, 2000, 1500))

			resp, err := flow.RepPerformance(ctx, rep.ID, dto.AnalyticsQuery{Year: 2025, Month: 3})
			require.NoError(t, err)

			require.Len(t, resp.Months, 1)
			assert.Equal(t, "Mar", resp.Months[0].Month)
		})

		t.Run("UnknownRepRejected", func(t *testing.T) {
			_, err := flow.RepPerformance(ctx, 999999, dto.AnalyticsQuery{Year: 2025, Month: 3})
			require.Error(t, err)
			assert.True(t, businessflow.IsSalesRepNotFound(err))
		})

		return nil
	})
	require.NoError(t, err)
}
