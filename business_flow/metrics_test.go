package businessflow

import (
	"math/rand"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v)
}

func TestEfficiencies(t *testing.T) {
	t.Run("CollectionEfficiencyBasic", func(t *testing.T) {
		ce := CollectionEfficiency(dec(80000), dec(100000))
		assert.True(t, ce.Equal(dec(80)), "got %s", ce)
	})

	t.Run("ZeroDenominatorYieldsZero", func(t *testing.T) {
		assert.True(t, CollectionEfficiency(dec(80000), decimal.Zero).IsZero())
		assert.True(t, BillingEfficiency(dec(500), decimal.Zero).IsZero())
	})

	t.Run("ZeroNumeratorYieldsZero", func(t *testing.T) {
		assert.True(t, CollectionEfficiency(decimal.Zero, dec(100000)).IsZero())
	})

	t.Run("CollectionEfficiencyAbove100NotCapped", func(t *testing.T) {
		ce := CollectionEfficiency(dec(120000), dec(100000))
		assert.True(t, ce.Equal(dec(120)), "got %s", ce)
	})
}

func TestATCCForms(t *testing.T) {
	be := dec(80)
	ce := dec(75)

	t.Run("Multiplicative", func(t *testing.T) {
		atcc := ATCCMultiplicative(be, ce)
		assert.True(t, atcc.Equal(dec(60)), "got %s", atcc)
	})

	t.Run("Complementary", func(t *testing.T) {
		atcc := ATCCComplementary(be, ce)
		assert.True(t, atcc.Equal(dec(40)), "got %s", atcc)
	})

	t.Run("FormsSumToHundred", func(t *testing.T) {
		sum := ATCCMultiplicative(be, ce).Add(ATCCComplementary(be, ce))
		assert.True(t, sum.Equal(dec(100)), "got %s", sum)
	})

	t.Run("DerivedLossFraction", func(t *testing.T) {
		loss := ATCCDerivedLoss(be, ce)
		assert.True(t, loss.Equal(dec(0.4)), "got %s", loss)
	})
}

func TestDelta(t *testing.T) {
	t.Run("NilOnZeroPrevious", func(t *testing.T) {
		assert.Nil(t, Delta(dec(50), decimal.Zero))
	})

	t.Run("ZeroOnEqualValues", func(t *testing.T) {
		d := Delta(dec(50), dec(50))
		require.NotNil(t, d)
		assert.Equal(t, 0.0, *d)
	})

	t.Run("PercentageChange", func(t *testing.T) {
		d := Delta(dec(120), dec(100))
		require.NotNil(t, d)
		assert.Equal(t, 20.0, *d)

		d = Delta(dec(75), dec(100))
		require.NotNil(t, d)
		assert.Equal(t, -25.0, *d)
	})
}

func TestEnergyCollected(t *testing.T) {
	t.Run("FromTariff", func(t *testing.T) {
		mwh := EnergyCollectedFromTariff(dec(5200000), dec(52000))
		assert.True(t, mwh.Equal(dec(100)), "got %s", mwh)
	})

	t.Run("FromTariffZeroTariff", func(t *testing.T) {
		assert.True(t, EnergyCollectedFromTariff(dec(5200000), decimal.Zero).IsZero())
	})

	t.Run("FromDelivered", func(t *testing.T) {
		mwh := EnergyCollectedFromDelivered(dec(1000), dec(75))
		assert.True(t, mwh.Equal(dec(750)), "got %s", mwh)
	})
}

func TestCustomerResponseRate(t *testing.T) {
	rate := CustomerResponseRate(40, 50)
	assert.True(t, rate.Equal(dec(80)), "got %s", rate)

	assert.True(t, CustomerResponseRate(40, 0).IsZero())
}

func TestSyntheticTarget(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 1000; i++ {
		target := SyntheticTarget(100, rng)
		assert.GreaterOrEqual(t, target, 90.0)
		assert.LessOrEqual(t, target, 110.0)
	}
}

func TestWithTarget(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	m := MetricOf(dec(80), dec(100))
	withTarget := WithTarget(m, rng)

	require.NotNil(t, withTarget.Target)
	// The target never perturbs the actual or the delta.
	assert.Equal(t, m.Actual, withTarget.Actual)
	require.NotNil(t, withTarget.Delta)
	assert.Equal(t, *m.Delta, *withTarget.Delta)
}

func TestSimulatedBandQualityMetrics(t *testing.T) {
	t.Run("Deterministic", func(t *testing.T) {
		assert.Equal(t, BandInterruptionDuration("Band A"), BandInterruptionDuration("Band A"))
		assert.Equal(t, BandTurnaroundTime("Band A"), BandTurnaroundTime("Band A"))
	})

	t.Run("WithinDocumentedRanges", func(t *testing.T) {
		for _, band := range []string{"Band A", "Band B", "Band C", "Band D", "Band E"} {
			dur := BandInterruptionDuration(band)
			assert.GreaterOrEqual(t, dur, 20.0)
			assert.Less(t, dur, 30.0)

			tat := BandTurnaroundTime(band)
			assert.GreaterOrEqual(t, tat, 10.0)
			assert.Less(t, tat, 25.0)
		}
	})
}
