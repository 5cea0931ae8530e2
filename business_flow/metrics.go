package businessflow

import (
	"hash/fnv"
	"math/rand"
	"time"

	"github.com/powergridhq/disco-analytics/app/dto"
	"github.com/powergridhq/disco-analytics/utils"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// BillingEfficiency returns 100 * energyBilled / energyDelivered, zero when
// nothing was delivered.
func BillingEfficiency(energyBilled, energyDelivered decimal.Decimal) decimal.Decimal {
	return utils.Percent(energyBilled, energyDelivered)
}

// CollectionEfficiency returns 100 * revenueCollected / revenueBilled, zero
// when nothing was billed. Values above 100 are legitimate (arrears recovery)
// and are not capped.
func CollectionEfficiency(revenueCollected, revenueBilled decimal.Decimal) decimal.Decimal {
	return utils.Percent(revenueCollected, revenueBilled)
}

// ATCCMultiplicative returns billingEff * collectionEff / 100
func ATCCMultiplicative(billingEff, collectionEff decimal.Decimal) decimal.Decimal {
	return billingEff.Mul(collectionEff).Div(hundred)
}

// ATCCComplementary returns 100 - billingEff * collectionEff / 100
func ATCCComplementary(billingEff, collectionEff decimal.Decimal) decimal.Decimal {
	return hundred.Sub(ATCCMultiplicative(billingEff, collectionEff))
}

// ATCCDerivedLoss returns 1 - billingEff/100 * collectionEff/100
func ATCCDerivedLoss(billingEff, collectionEff decimal.Decimal) decimal.Decimal {
	return decimal.NewFromInt(1).Sub(billingEff.Div(hundred).Mul(collectionEff.Div(hundred)))
}

// EnergyCollectedFromTariff converts collected revenue into MWh at the tariff
func EnergyCollectedFromTariff(revenueCollected, tariffPerMWh decimal.Decimal) decimal.Decimal {
	return utils.SafeDiv(revenueCollected, tariffPerMWh)
}

// EnergyCollectedFromDelivered returns energyDelivered * collectionEff / 100
func EnergyCollectedFromDelivered(energyDelivered, collectionEff decimal.Decimal) decimal.Decimal {
	return energyDelivered.Mul(collectionEff).Div(hundred)
}

// CustomerResponseRate returns 100 * responded / billed, zero when none billed
func CustomerResponseRate(responded, billed int64) decimal.Decimal {
	return utils.Percent(decimal.NewFromInt(responded), decimal.NewFromInt(billed))
}

// Delta returns 100 * (cur - prev) / prev rounded to two places, or nil when
// the previous value is zero.
func Delta(cur, prev decimal.Decimal) *float64 {
	if prev.IsZero() {
		return nil
	}
	d := utils.Round2Float(cur.Sub(prev).Mul(hundred).Div(prev))
	return &d
}

// MetricOf assembles the standard envelope from a current and previous value
func MetricOf(cur, prev decimal.Decimal) dto.Metric {
	return dto.Metric{
		Actual: utils.Round2Float(cur),
		Delta:  Delta(cur, prev),
	}
}

// WithTarget attaches a synthetic target to a metric. Targets are cosmetic,
// never persisted, and stable only within a single response.
func WithTarget(m dto.Metric, rng *rand.Rand) dto.Metric {
	t := SyntheticTarget(m.Actual, rng)
	m.Target = &t
	return m
}

// SyntheticTarget returns actual * (1 + U) with U uniform in [-v, v]
func SyntheticTarget(actual float64, rng *rand.Rand) float64 {
	jitter := (rng.Float64()*2 - 1) * utils.TargetJitter
	return utils.Round2Float(decimal.NewFromFloat(actual * (1 + jitter)))
}

// NewTargetRand returns the per-response PRNG used for synthetic targets
func NewTargetRand() *rand.Rand {
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}

// BandInterruptionDuration is the simulated per-band interruption duration,
// a deterministic function of the band name so responses are reproducible.
func BandInterruptionDuration(band string) float64 {
	return float64(20 + bandHash(band)%10)
}

// BandTurnaroundTime is the simulated per-band turnaround time, derived from
// the reversed band name.
func BandTurnaroundTime(band string) float64 {
	return float64(10 + bandHash(reverseString(band))%15)
}

func bandHash(s string) uint32 {
	h := fnv.New32a()
	h.Write([]byte(s))
	return h.Sum32()
}

func reverseString(s string) string {
	runes := []rune(s)
	for i, j := 0, len(runes)-1; i < j; i, j = i+1, j-1 {
		runes[i], runes[j] = runes[j], runes[i]
	}
	return string(runes)
}

// MonthAbbr formats a month-start for history labels
func MonthAbbr(t time.Time) string {
	return t.Format(utils.MonthAbbrLayout)
}
