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

func TestHRFlowBulkStaff(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		_, err := testingutil.SeedLocationTree(testDB.DB)
		require.NoError(t, err)

		flow := businessflow.NewHRFlow(
			testDB.DB,
			repository.NewStaffRepository(testDB.DB),
			repository.NewLocationRepository(testDB.DB),
		)
		ctx := testingutil.CreateTestContext()

		t.Run("CreateThenUpdateByCompositeKey", func(t *testing.T) {
			resp, err := flow.BulkUpsert(ctx, &dto.BulkStaffRequest{Staff: []dto.BulkStaffItem{
				{
					FullName: "Aisha Bello",
					Gender:   "female",
					Salary:   250000,
					HireDate: "2020-01-15",
					District: "Dala",
					Role:     "Revenue Officer",
				},
			}})
			require.NoError(t, err)
			assert.Equal(t, 1, resp.Created)
			assert.Equal(t, 0, resp.Updated)
			assert.Equal(t, 0, resp.Errors)

			// A second run with the same key updates instead of duplicating.
			resp, err = flow.BulkUpsert(ctx, &dto.BulkStaffRequest{Staff: []dto.BulkStaffItem{
				{
					FullName: "Aisha Bello",
					Gender:   "female",
					Salary:   300000,
					HireDate: "2020-01-15",
					District: "Dala",
				},
			}})
			require.NoError(t, err)
			assert.Equal(t, 0, resp.Created)
			assert.Equal(t, 1, resp.Updated)

			var count int64
			require.NoError(t, testDB.DB.Model(&models.Staff{}).Where("full_name = ?", "Aisha Bello").Count(&count).Error)
			assert.EqualValues(t, 1, count)

			var staff models.Staff
			require.NoError(t, testDB.DB.Where("full_name = ?", "Aisha Bello").First(&staff).Error)
			assert.Equal(t, 300000.0, utils.Round2Float(staff.Salary))
		})

		t.Run("HireDateTimePartTruncated", func(t *testing.T) {
			resp, err := flow.BulkUpsert(ctx, &dto.BulkStaffRequest{Staff: []dto.BulkStaffItem{
				{
					FullName: "Musa Ibrahim",
					Gender:   "male",
					Salary:   180000,
					HireDate: "2021-06-01T09:30:00Z",
					District: "dutse",
				},
			}})
			require.NoError(t, err)
			assert.Equal(t, 1, resp.Created)

			var staff models.Staff
			require.NoError(t, testDB.DB.Where("full_name = ?", "Musa Ibrahim").First(&staff).Error)
			assert.Equal(t, "2021-06-01", staff.HireDate.Format(utils.DateLayout))
		})

		t.Run("CompositeKeyOverrideRenames", func(t *testing.T) {
			resp, err := flow.BulkUpsert(ctx, &dto.BulkStaffRequest{Staff: []dto.BulkStaffItem{
				{
					FullName: "Musa A. Ibrahim",
					Gender:   "male",
					Salary:   180000,
					HireDate: "2021-06-01",
					District: "dutse",
					CompositeKey: &dto.StaffCompositeKey{
						District: "dutse",
						FullName: "Musa Ibrahim",
						HireDate: "2021-06-01",
					},
				},
			}})
			require.NoError(t, err)
			assert.Equal(t, 1, resp.Updated)

			var count int64
			require.NoError(t, testDB.DB.Model(&models.Staff{}).Where("full_name = ?", "Musa A. Ibrahim").Count(&count).Error)
			assert.EqualValues(t, 1, count)
		})

		t.Run("PerItemErrorsDoNotAbortBatch", func(t *testing.T) {
			resp, err := flow.BulkUpsert(ctx, &dto.BulkStaffRequest{Staff: []dto.BulkStaffItem{
				{
					FullName: "Grace Obi",
					Gender:   "female",
					Salary:   210000,
					HireDate: "2022-02-01",
					District: "no-such-district",
				},
				{
					FullName: "Grace Obi",
					Gender:   "female",
					Salary:   210000,
					HireDate: "2022-02-01",
					District: "Kumbotso",
				},
				{
					FullName: "Bad Date",
					Gender:   "male",
					Salary:   100000,
					HireDate: "01/02/2022",
					District: "Kumbotso",
				},
			}})
			require.NoError(t, err)
			assert.Equal(t, 1, resp.Created)
			assert.Equal(t, 2, resp.Errors)
			require.Len(t, resp.ErrorDetails, 2)
			assert.Equal(t, 0, resp.ErrorDetails[0].Index)
			assert.Equal(t, 2, resp.ErrorDetails[1].Index)
		})

		t.Run("BulkDeleteByCompositeKey", func(t *testing.T) {
			resp, err := flow.BulkDelete(ctx, &dto.BulkStaffRequest{Staff: []dto.BulkStaffItem{
				{
					FullName: "Grace Obi",
					Gender:   "female",
					HireDate: "2022-02-01",
					District: "Kumbotso",
				},
				{
					FullName: "Never Hired",
					Gender:   "male",
					HireDate: "2022-02-01",
					District: "Kumbotso",
				},
			}})
			require.NoError(t, err)
			assert.Equal(t, 1, resp.Deleted)

			var count int64
			require.NoError(t, testDB.DB.Model(&models.Staff{}).Where("full_name = ?", "Grace Obi").Count(&count).Error)
			assert.EqualValues(t, 0, count)
		})

		return nil
	})
	require.NoError(t, err)
}

func TestHRFlowReporting(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		_, err := testingutil.SeedLocationTree(testDB.DB)
		require.NoError(t, err)

		flow := businessflow.NewHRFlow(
			testDB.DB,
			repository.NewStaffRepository(testDB.DB),
			repository.NewLocationRepository(testDB.DB),
		)
		ctx := testingutil.CreateTestContext()

		exit := "2024-12-31"
		_, err = flow.BulkUpsert(ctx, &dto.BulkStaffRequest{Staff: []dto.BulkStaffItem{
			{FullName: "Aisha Bello", Gender: "female", Salary: 250000, HireDate: "2020-01-15", District: "Dala", Department: "Commercial"},
			{FullName: "Musa Ibrahim", Gender: "male", Salary: 180000, HireDate: "2021-06-01", District: "Kumbotso", Department: "Technical"},
			{FullName: "Sani Garba", Gender: "male", Salary: 150000, HireDate: "2019-03-01", ExitDate: &exit, District: "Dutse"},
		}})
		require.NoError(t, err)

		t.Run("Summary", func(t *testing.T) {
			resp, err := flow.Summary(ctx)
			require.NoError(t, err)

			assert.EqualValues(t, 3, resp.TotalStaff)
			assert.EqualValues(t, 2, resp.ActiveStaff)
			assert.EqualValues(t, 1, resp.ExitedStaff)
			// Salary bill covers active staff only.
			assert.Equal(t, 430000.0, resp.SalaryBill)

			genders := map[string]int64{}
			for _, lc := range resp.ByGender {
				genders[lc.Label] = lc.Count
			}
			assert.EqualValues(t, 1, genders["female"])
			assert.EqualValues(t, 1, genders["male"])
		})

		t.Run("StateOverview", func(t *testing.T) {
			resp, err := flow.StateOverview(ctx)
			require.NoError(t, err)

			byShortSlug := map[string]dto.StaffStateOverviewRow{}
			for _, row := range resp.States {
				byShortSlug[row.Slug] = row
			}

			kano := byShortSlug["kano"]
			assert.EqualValues(t, 2, kano.TotalStaff)
			assert.EqualValues(t, 2, kano.ActiveStaff)

			jigawa := byShortSlug["jigawa"]
			assert.EqualValues(t, 1, jigawa.TotalStaff)
			assert.EqualValues(t, 0, jigawa.ActiveStaff)
		})

		t.Run("StaffOfState", func(t *testing.T) {
			resp, err := flow.StaffOfState(ctx, "kano")
			require.NoError(t, err)

			assert.Equal(t, "Kano", resp.State)
			assert.EqualValues(t, 2, resp.Total)
			require.Len(t, resp.Staff, 2)
			for _, row := range resp.Staff {
				assert.True(t, row.IsActive)
				assert.NotEmpty(t, row.District)
			}
		})

		t.Run("UnknownStateRejected", func(t *testing.T) {
			_, err := flow.StaffOfState(ctx, "atlantis")
			require.Error(t, err)
			assert.True(t, businessflow.IsStateNotFound(err))
		})

		t.Run("ExportProducesWorkbook", func(t *testing.T) {
			data, err := flow.ExportXLSX(ctx)
			require.NoError(t, err)
			require.NotEmpty(t, data)
			// xlsx files are zip containers.
			assert.Equal(t, byte('P'), data[0])
			assert.Equal(t, byte('K'), data[1])
		})

		return nil
	})
	require.NoError(t, err)
}
