package tests

import (
	"testing"

	businessflow "github.com/powergridhq/disco-analytics/business_flow"
	"github.com/powergridhq/disco-analytics/models"
	"github.com/powergridhq/disco-analytics/repository"
	testingutil "github.com/powergridhq/disco-analytics/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocationResolver(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fix, err := testingutil.SeedLocationTree(testDB.DB)
		require.NoError(t, err)

		resolver := businessflow.NewLocationResolver(repository.NewLocationRepository(testDB.DB))
		ctx := testingutil.CreateTestContext()

		resolve := func(t *testing.T, filter models.LocationFilter) models.FeederScope {
			t.Helper()
			scope, err := resolver.Resolve(ctx, filter)
			require.NoError(t, err)
			return scope
		}

		t.Run("EmptyFilterIsUnrestricted", func(t *testing.T) {
			scope := resolve(t, models.LocationFilter{})
			assert.True(t, scope.Unrestricted)
		})

		t.Run("EachLevelNarrowsToItsFeeders", func(t *testing.T) {
			scope := resolve(t, models.LocationFilter{State: "kano"})
			assert.ElementsMatch(t, []uint{fix.DalaF1.ID, fix.DalaF2.ID, fix.KumboF1.ID}, scope.FeederIDs)

			scope = resolve(t, models.LocationFilter{District: "dala"})
			assert.ElementsMatch(t, []uint{fix.DalaF1.ID, fix.DalaF2.ID}, scope.FeederIDs)

			scope = resolve(t, models.LocationFilter{Substation: fix.DalaSub.Slug})
			assert.ElementsMatch(t, []uint{fix.DalaF1.ID, fix.DalaF2.ID}, scope.FeederIDs)

			scope = resolve(t, models.LocationFilter{Feeder: "dala-f1"})
			assert.ElementsMatch(t, []uint{fix.DalaF1.ID}, scope.FeederIDs)

			scope = resolve(t, models.LocationFilter{Transformer: fix.DutseF1T.Slug})
			assert.ElementsMatch(t, []uint{fix.DutseF1.ID}, scope.FeederIDs)
		})

		t.Run("MostSpecificSelectorWins", func(t *testing.T) {
			// A broad state plus a narrow feeder must equal the feeder alone.
			narrow := resolve(t, models.LocationFilter{Feeder: "dutse-f1"})
			broad := resolve(t, models.LocationFilter{State: "kano", District: "dala", Feeder: "dutse-f1"})
			assert.Equal(t, narrow, broad)
			assert.ElementsMatch(t, []uint{fix.DutseF1.ID}, broad.FeederIDs)
		})

		t.Run("NamesAreCaseInsensitive", func(t *testing.T) {
			upper := resolve(t, models.LocationFilter{State: "KANO"})
			lower := resolve(t, models.LocationFilter{State: "kano"})
			assert.ElementsMatch(t, upper.FeederIDs, lower.FeederIDs)
		})

		t.Run("UnknownNameYieldsEmptyScope", func(t *testing.T) {
			scope := resolve(t, models.LocationFilter{State: "atlantis"})
			assert.False(t, scope.Unrestricted)
			assert.True(t, scope.IsEmpty())
		})

		t.Run("BandAloneRestricts", func(t *testing.T) {
			scope := resolve(t, models.LocationFilter{Band: "Band A"})
			assert.ElementsMatch(t, []uint{fix.DalaF1.ID, fix.KumboF1.ID, fix.DutseF1.ID}, scope.FeederIDs)
		})

		t.Run("BandIntersectsGeography", func(t *testing.T) {
			scope := resolve(t, models.LocationFilter{District: "dala", Band: "Band A"})
			assert.ElementsMatch(t, []uint{fix.DalaF1.ID}, scope.FeederIDs)

			scope = resolve(t, models.LocationFilter{District: "dala", Band: "Band B"})
			assert.ElementsMatch(t, []uint{fix.DalaF2.ID}, scope.FeederIDs)

			// A disjoint pairing resolves to the genuinely empty scope.
			scope = resolve(t, models.LocationFilter{Feeder: "dala-f1", Band: "Band B"})
			assert.True(t, scope.IsEmpty())
		})

		return nil
	})
	require.NoError(t, err)
}
