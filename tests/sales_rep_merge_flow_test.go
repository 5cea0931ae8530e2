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

func TestSalesRepMerge(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fix, err := testingutil.SeedLocationTree(testDB.DB)
		require.NoError(t, err)

		salesRepRepo := repository.NewSalesRepRepository(testDB.DB)
		flow := businessflow.NewSalesRepMergeFlow(testDB.DB, salesRepRepo)
		ctx := testingutil.CreateTestContext()
		march := testingutil.MonthStart(2025, 3)

		seedAlicePair := func(t *testing.T) (a1, a2 *models.SalesRepresentative) {
			t.Helper()
			require.NoError(t, testDB.DB.Exec("TRUNCATE TABLE sales_rep_transformers, monthly_commercial_summaries RESTART IDENTITY CASCADE").Error)
			require.NoError(t, testDB.DB.Exec("DELETE FROM sales_representatives").Error)

			a1, err := testingutil.InsertSalesRep(testDB.DB, "Alice", "a1")
			require.NoError(t, err)
			a2, err = testingutil.InsertSalesRep(testDB.DB, "Alice", "a2")
			require.NoError(t, err)

			require.NoError(t, salesRepRepo.AssignTransformers(ctx, a1.ID, []uint{fix.DalaF1T1.ID}))
			require.NoError(t, salesRepRepo.AssignTransformers(ctx, a2.ID, []uint{fix.DalaF1T1.ID, fix.DalaF1T2.ID}))

			require.NoError(t, testingutil.InsertCommercialSummary(testDB.DB, a1.ID, march, 10, 5, 1000, 600))
			require.NoError(t, testingutil.InsertCommercialSummary(testDB.DB, a2.ID, march, 4, 2, 400, 200))
			return a1, a2
		}

		t.Run("DuplicatesFoldIntoEarliestRep", func(t *testing.T) {
			a1, _ := seedAlicePair(t)

			resp, err := flow.Merge(ctx, false)
			require.NoError(t, err)

			assert.False(t, resp.DryRun)
			assert.Equal(t, 1, resp.GroupsFound)
			assert.Equal(t, 1, resp.GroupsMerged)
			require.Len(t, resp.Groups, 1)
			assert.Equal(t, "a1", resp.Groups[0].PrimarySlug)
			assert.Equal(t, []string{"a2"}, resp.Groups[0].MergedSlugs)

			// One rep survives, holding the transformer union.
			var repCount int64
			require.NoError(t, testDB.DB.Model(&models.SalesRepresentative{}).Count(&repCount).Error)
			assert.EqualValues(t, 1, repCount)

			ids, err := salesRepRepo.TransformerIDs(ctx, a1.ID)
			require.NoError(t, err)
			assert.ElementsMatch(t, []uint{fix.DalaF1T1.ID, fix.DalaF1T2.ID}, ids)

			// Summaries for the same month sum counter by counter.
			summary, err := salesRepRepo.SummaryOfRepMonth(ctx, a1.ID, march)
			require.NoError(t, err)
			require.NotNil(t, summary)
			assert.EqualValues(t, 14, summary.CustomersBilled)
			assert.EqualValues(t, 7, summary.CustomersResponded)
			assert.True(t, summary.RevenueBilled.Equal(decimal.NewFromInt(1400)), "got %s", summary.RevenueBilled)
			assert.True(t, summary.RevenueCollected.Equal(decimal.NewFromInt(800)), "got %s", summary.RevenueCollected)

			var summaryCount int64
			require.NoError(t, testDB.DB.Model(&models.MonthlyCommercialSummary{}).Count(&summaryCount).Error)
			assert.EqualValues(t, 1, summaryCount)
		})

		t.Run("DistinctMonthsAreReassignedNotSummed", func(t *testing.T) {
			a1, a2 := seedAlicePair(t)
			april := testingutil.MonthStart(2025, 4)
			require.NoError(t, testingutil.InsertCommercialSummary(testDB.DB, a2.ID, april, 6, 3, 600, 300))

			resp, err := flow.Merge(ctx, false)
			require.NoError(t, err)
			require.Len(t, resp.Groups, 1)
			assert.Equal(t, 1, resp.Groups[0].SummariesMerged)
			assert.Equal(t, 1, resp.Groups[0].SummariesReassigned)

			aprilSummary, err := salesRepRepo.SummaryOfRepMonth(ctx, a1.ID, april)
			require.NoError(t, err)
			require.NotNil(t, aprilSummary)
			assert.EqualValues(t, 6, aprilSummary.CustomersBilled)
		})

		t.Run("DryRunReportsWithoutWriting", func(t *testing.T) {
			_, a2 := seedAlicePair(t)

			resp, err := flow.Merge(ctx, true)
			require.NoError(t, err)

			assert.True(t, resp.DryRun)
			assert.Equal(t, 1, resp.GroupsFound)
			assert.Equal(t, 0, resp.GroupsMerged)
			require.Len(t, resp.Groups, 1)
			assert.Equal(t, 2, resp.Groups[0].TransformersReassigned)
			assert.Equal(t, 1, resp.Groups[0].SummariesReassigned)

			// Nothing was touched.
			var repCount int64
			require.NoError(t, testDB.DB.Model(&models.SalesRepresentative{}).Count(&repCount).Error)
			assert.EqualValues(t, 2, repCount)

			stillThere, err := salesRepRepo.ByID(ctx, a2.ID)
			require.NoError(t, err)
			assert.NotNil(t, stillThere)
		})

		t.Run("UniqueNamesAreLeftAlone", func(t *testing.T) {
			require.NoError(t, testDB.DB.Exec("TRUNCATE TABLE sales_rep_transformers, monthly_commercial_summaries RESTART IDENTITY CASCADE").Error)
			require.NoError(t, testDB.DB.Exec("DELETE FROM sales_representatives").Error)
			_, err := testingutil.InsertSalesRep(testDB.DB, "Bob", "bob")
			require.NoError(t, err)

			resp, err := flow.Merge(ctx, false)
			require.NoError(t, err)
			assert.Equal(t, 0, resp.GroupsFound)
			assert.Empty(t, resp.Groups)
		})

		return nil
	})
	require.NoError(t, err)
}
