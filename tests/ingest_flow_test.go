package tests

import (
	"testing"

	"github.com/powergridhq/disco-analytics/app/dto"
	businessflow "github.com/powergridhq/disco-analytics/business_flow"
	"github.com/powergridhq/disco-analytics/models"
	"github.com/powergridhq/disco-analytics/repository"
	testingutil "github.com/powergridhq/disco-analytics/testing"
	"github.com/powergridhq/disco-analytics/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newIngestFlow(testDB *testingutil.TestDB) businessflow.IngestFlow {
	return businessflow.NewIngestFlow(
		repository.NewLocationRepository(testDB.DB),
		repository.NewEnergyRepository(testDB.DB),
		repository.NewRevenueRepository(testDB.DB),
		repository.NewCommercialRepository(testDB.DB),
		repository.NewTechnicalRepository(testDB.DB),
		repository.NewSalesRepRepository(testDB.DB),
	)
}

func TestIngestEnergyDelivered(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fix, err := testingutil.SeedLocationTree(testDB.DB)
		require.NoError(t, err)

		flow := newIngestFlow(testDB)
		energyRepo := repository.NewEnergyRepository(testDB.DB)
		ctx := testingutil.CreateTestContext()
		march := businessflow.MonthWindow(testingutil.MonthStart(2025, 3))
		scope := models.ScopeOf(fix.DalaF1.ID)

		t.Run("ResendOverwritesOnNaturalKey", func(t *testing.T) {
			require.NoError(t, testDB.ClearFactTables())

			resp, err := flow.EnergyDelivered(ctx, &dto.EnergyDeliveredIngestRequest{
				Rows: []dto.EnergyDeliveredRow{{Feeder: "dala-f1", Date: "2025-03-10", EnergyMWh: 500}},
			})
			require.NoError(t, err)
			assert.Equal(t, 1, resp.Accepted)
			assert.Equal(t, 0, resp.Skipped)

			resp, err = flow.EnergyDelivered(ctx, &dto.EnergyDeliveredIngestRequest{
				Rows: []dto.EnergyDeliveredRow{{Feeder: "dala-f1", Date: "2025-03-10", EnergyMWh: 650}},
			})
			require.NoError(t, err)
			assert.Equal(t, 1, resp.Accepted)

			total, err := energyRepo.SumDelivered(ctx, scope, march)
			require.NoError(t, err)
			assert.Equal(t, 650.00, utils.Round2Float(total))
		})

		t.Run("UnknownFeederSkipsRowOnly", func(t *testing.T) {
			require.NoError(t, testDB.ClearFactTables())

			resp, err := flow.EnergyDelivered(ctx, &dto.EnergyDeliveredIngestRequest{
				Rows: []dto.EnergyDeliveredRow{
					{Feeder: "no-such-feeder", Date: "2025-03-10", EnergyMWh: 100},
					{Feeder: "Dala F1", Date: "2025-03-10", EnergyMWh: 200},
				},
			})
			require.NoError(t, err)

			assert.Equal(t, 1, resp.Accepted)
			assert.Equal(t, 1, resp.Skipped)
			require.Len(t, resp.ErrorDetails, 1)
			assert.Equal(t, 0, resp.ErrorDetails[0].Index)
			assert.Contains(t, resp.ErrorDetails[0].Message, "unknown feeder")

			total, err := energyRepo.SumDelivered(ctx, scope, march)
			require.NoError(t, err)
			assert.Equal(t, 200.00, utils.Round2Float(total))
		})

		t.Run("UnparseableDateRecorded", func(t *testing.T) {
			require.NoError(t, testDB.ClearFactTables())

			resp, err := flow.EnergyDelivered(ctx, &dto.EnergyDeliveredIngestRequest{
				Rows: []dto.EnergyDeliveredRow{{Feeder: "dala-f1", Date: "March 10th", EnergyMWh: 100}},
			})
			require.NoError(t, err)

			assert.Equal(t, 0, resp.Accepted)
			assert.Equal(t, 1, resp.Skipped)
		})

		return nil
	})
	require.NoError(t, err)
}

func TestIngestMonthlyStreams(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fix, err := testingutil.SeedLocationTree(testDB.DB)
		require.NoError(t, err)

		flow := newIngestFlow(testDB)
		revenueRepo := repository.NewRevenueRepository(testDB.DB)
		commercialRepo := repository.NewCommercialRepository(testDB.DB)
		ctx := testingutil.CreateTestContext()
		march := businessflow.MonthWindow(testingutil.MonthStart(2025, 3))
		scope := models.ScopeOf(fix.DalaF1.ID)

		t.Run("MidMonthDateNormalizesToFirst", func(t *testing.T) {
			require.NoError(t, testDB.ClearFactTables())

			resp, err := flow.RevenueBilled(ctx, &dto.RevenueBilledIngestRequest{
				Rows: []dto.RevenueBilledRow{{Feeder: "dala-f1", Month: "2025-03-17", Amount: 90000}},
			})
			require.NoError(t, err)
			assert.Equal(t, 1, resp.Accepted)

			total, err := revenueRepo.SumBilledRevenue(ctx, scope, march)
			require.NoError(t, err)
			assert.Equal(t, 90000.00, utils.Round2Float(total))
		})

		t.Run("RespondedAboveBilledRejected", func(t *testing.T) {
			require.NoError(t, testDB.ClearFactTables())

			resp, err := flow.CustomerStats(ctx, &dto.CustomerStatsIngestRequest{
				Rows: []dto.CustomerStatsRow{{
					Feeder: "dala-f1", Month: "2025-03-01",
					CustomerCount: 100, CustomersBilled: 40, CustomersResponded: 60,
				}},
			})
			require.NoError(t, err)

			assert.Equal(t, 0, resp.Accepted)
			assert.Equal(t, 1, resp.Skipped)
			require.Len(t, resp.ErrorDetails, 1)
			assert.Contains(t, resp.ErrorDetails[0].Message, "exceeds billed count")

			totals, err := commercialRepo.CustomerStatsTotals(ctx, scope, march)
			require.NoError(t, err)
			assert.Equal(t, int64(0), totals.CustomersBilled)
		})

		return nil
	})
	require.NoError(t, err)
}

func TestIngestInterruptions(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fix, err := testingutil.SeedLocationTree(testDB.DB)
		require.NoError(t, err)

		flow := newIngestFlow(testDB)
		technicalRepo := repository.NewTechnicalRepository(testDB.DB)
		ctx := testingutil.CreateTestContext()
		march := businessflow.MonthWindow(testingutil.MonthStart(2025, 3))
		scope := models.ScopeOf(fix.DalaF1.ID)

		t.Run("OpenFaultAccepted", func(t *testing.T) {
			require.NoError(t, testDB.ClearFactTables())

			resp, err := flow.Interruptions(ctx, &dto.InterruptionIngestRequest{
				Rows: []dto.InterruptionRow{{
					Feeder: "dala-f1", Type: "earth_fault",
					OccurredAt: "2025-03-12T06:30:00Z",
				}},
			})
			require.NoError(t, err)
			assert.Equal(t, 1, resp.Accepted)

			count, err := technicalRepo.InterruptionCount(ctx, scope, march)
			require.NoError(t, err)
			assert.Equal(t, int64(1), count)
		})

		t.Run("UnknownTypeRejected", func(t *testing.T) {
			require.NoError(t, testDB.ClearFactTables())

			resp, err := flow.Interruptions(ctx, &dto.InterruptionIngestRequest{
				Rows: []dto.InterruptionRow{{
					Feeder: "dala-f1", Type: "solar_flare",
					OccurredAt: "2025-03-12T06:30:00Z",
				}},
			})
			require.NoError(t, err)

			assert.Equal(t, 1, resp.Skipped)
			require.Len(t, resp.ErrorDetails, 1)
			assert.Contains(t, resp.ErrorDetails[0].Message, "unknown interruption type")
		})

		t.Run("RestorationBeforeOccurrenceRejected", func(t *testing.T) {
			require.NoError(t, testDB.ClearFactTables())

			resp, err := flow.Interruptions(ctx, &dto.InterruptionIngestRequest{
				Rows: []dto.InterruptionRow{{
					Feeder: "dala-f1", Type: "over_current",
					OccurredAt: "2025-03-12T06:30:00Z",
					RestoredAt: "2025-03-12T05:00:00Z",
				}},
			})
			require.NoError(t, err)

			assert.Equal(t, 1, resp.Skipped)
			count, err := technicalRepo.InterruptionCount(ctx, scope, march)
			require.NoError(t, err)
			assert.Equal(t, int64(0), count)
		})

		return nil
	})
	require.NoError(t, err)
}

func TestIngestCommercialSummaries(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		_, err := testingutil.SeedLocationTree(testDB.DB)
		require.NoError(t, err)

		salesRepRepo := repository.NewSalesRepRepository(testDB.DB)
		flow := newIngestFlow(testDB)
		ctx := testingutil.CreateTestContext()

		rep, err := testingutil.InsertSalesRep(testDB.DB, "Garba Idris", "garba-idris")
		require.NoError(t, err)

		t.Run("CreateThenUpdateOnRepMonthKey", func(t *testing.T) {
			require.NoError(t, testDB.ClearFactTables())

			resp, err := flow.CommercialSummaries(ctx, &dto.CommercialSummaryIngestRequest{
				Rows: []dto.CommercialSummaryRow{{
					SalesRep: "garba-idris", Month: "2025-03-01",
					CustomersBilled: 120, CustomersResponded: 90,
					RevenueBilled: 50000, RevenueCollected: 35000,
				}},
			})
			require.NoError(t, err)
			assert.Equal(t, 1, resp.Accepted)

			resp, err = flow.CommercialSummaries(ctx, &dto.CommercialSummaryIngestRequest{
				Rows: []dto.CommercialSummaryRow{{
					SalesRep: "garba-idris", Month: "2025-03-01",
					CustomersBilled: 120, CustomersResponded: 100,
					RevenueBilled: 50000, RevenueCollected: 42000,
				}},
			})
			require.NoError(t, err)
			assert.Equal(t, 1, resp.Accepted)

			summary, err := salesRepRepo.SummaryOfRepMonth(ctx, rep.ID, testingutil.MonthStart(2025, 3))
			require.NoError(t, err)
			require.NotNil(t, summary)
			assert.Equal(t, int64(100), summary.CustomersResponded)
			assert.Equal(t, 42000.00, utils.Round2Float(summary.RevenueCollected))

			count, err := salesRepRepo.CountFacts(ctx, rep.ID)
			require.NoError(t, err)
			assert.Equal(t, int64(1), count)
		})

		t.Run("UnknownRepSkipped", func(t *testing.T) {
			require.NoError(t, testDB.ClearFactTables())

			resp, err := flow.CommercialSummaries(ctx, &dto.CommercialSummaryIngestRequest{
				Rows: []dto.CommercialSummaryRow{{
					SalesRep: "nobody-here", Month: "2025-03-01",
					CustomersBilled: 10, CustomersResponded: 5,
				}},
			})
			require.NoError(t, err)

			assert.Equal(t, 1, resp.Skipped)
			require.Len(t, resp.ErrorDetails, 1)
			assert.Contains(t, resp.ErrorDetails[0].Message, "unknown sales representative")
		})

		return nil
	})
	require.NoError(t, err)
}
