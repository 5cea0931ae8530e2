package businessflow

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, time.June, 15, 10, 30, 0, 0, time.UTC)

func TestResolvePeriodMonthly(t *testing.T) {
	t.Run("ExplicitYearMonth", func(t *testing.T) {
		p := ResolvePeriod(PeriodInput{Mode: ModeMonthly, Year: 2025, Month: 5}, testNow)

		assert.Equal(t, time.Date(2025, time.May, 1, 0, 0, 0, 0, time.UTC), p.Current.Start)
		assert.Equal(t, time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC), p.Current.End)
		assert.Equal(t, time.Date(2025, time.April, 1, 0, 0, 0, 0, time.UTC), p.Previous.Start)
		assert.Equal(t, p.Current.Start, p.Previous.End)
	})

	t.Run("DefaultsToCurrentMonth", func(t *testing.T) {
		p := ResolvePeriod(PeriodInput{}, testNow)

		assert.Equal(t, time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC), p.Current.Start)
		assert.Equal(t, time.Date(2025, time.July, 1, 0, 0, 0, 0, time.UTC), p.Current.End)
	})

	t.Run("InvalidMonthFallsBackToNow", func(t *testing.T) {
		p := ResolvePeriod(PeriodInput{Year: 2025, Month: 13}, testNow)

		assert.Equal(t, time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC), p.Current.Start)
	})

	t.Run("FiveMonthHistoryEndsAtCurrentMonth", func(t *testing.T) {
		p := ResolvePeriod(PeriodInput{Year: 2025, Month: 5}, testNow)

		require.Len(t, p.History, 5)
		expected := []time.Month{time.January, time.February, time.March, time.April, time.May}
		for i, monthStart := range p.History {
			assert.Equal(t, 2025, monthStart.Year())
			assert.Equal(t, expected[i], monthStart.Month())
			assert.Equal(t, 1, monthStart.Day())
		}
		assert.Equal(t, p.Current.Start, p.History[4])
	})

	t.Run("HistoryCrossesYearBoundary", func(t *testing.T) {
		p := ResolvePeriod(PeriodInput{Year: 2025, Month: 2}, testNow)

		require.Len(t, p.History, 5)
		assert.Equal(t, time.Date(2024, time.October, 1, 0, 0, 0, 0, time.UTC), p.History[0])
		assert.Equal(t, time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC), p.History[4])
	})
}

func TestResolvePeriodRange(t *testing.T) {
	t.Run("PreviousWindowHasEqualLength", func(t *testing.T) {
		p := ResolvePeriod(PeriodInput{Mode: ModeRange, FromDate: "2025-03-10", ToDate: "2025-03-19"}, testNow)

		assert.Equal(t, time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC), p.Current.Start)
		assert.Equal(t, time.Date(2025, time.March, 20, 0, 0, 0, 0, time.UTC), p.Current.End)
		assert.Equal(t, p.Current.Length(), p.Previous.Length())
		assert.Equal(t, p.Current.Start, p.Previous.End)
	})

	t.Run("DatesImplyRangeWithoutMode", func(t *testing.T) {
		p := ResolvePeriod(PeriodInput{FromDate: "2025-03-10", ToDate: "2025-03-19"}, testNow)

		assert.Equal(t, time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC), p.Current.Start)
	})

	t.Run("ToBeforeFromCollapsesToSingleDay", func(t *testing.T) {
		p := ResolvePeriod(PeriodInput{Mode: ModeRange, FromDate: "2025-03-19", ToDate: "2025-03-10"}, testNow)

		assert.Equal(t, time.Date(2025, time.March, 19, 0, 0, 0, 0, time.UTC), p.Current.Start)
		assert.Equal(t, time.Date(2025, time.March, 20, 0, 0, 0, 0, time.UTC), p.Current.End)
	})

	t.Run("OpenEndBoundedByToday", func(t *testing.T) {
		p := ResolvePeriod(PeriodInput{Mode: ModeRange, FromDate: "2025-06-01"}, testNow)

		assert.Equal(t, time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC), p.Current.Start)
		assert.Equal(t, time.Date(2025, time.June, 16, 0, 0, 0, 0, time.UTC), p.Current.End)
	})

	t.Run("OpenStartAnchorsOneYearBack", func(t *testing.T) {
		p := ResolvePeriod(PeriodInput{Mode: ModeRange, ToDate: "2025-06-01"}, testNow)

		assert.Equal(t, time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC), p.Current.Start)
		assert.Equal(t, time.Date(2025, time.June, 2, 0, 0, 0, 0, time.UTC), p.Current.End)
	})

	t.Run("RangeModeWithoutDatesIsToday", func(t *testing.T) {
		p := ResolvePeriod(PeriodInput{Mode: ModeRange}, testNow)

		assert.Equal(t, time.Date(2025, time.June, 15, 0, 0, 0, 0, time.UTC), p.Current.Start)
		assert.Equal(t, time.Date(2025, time.June, 16, 0, 0, 0, 0, time.UTC), p.Current.End)
	})
}

func TestResolvePeriodSingleDate(t *testing.T) {
	t.Run("DateWinsOverOtherSelectors", func(t *testing.T) {
		p := ResolvePeriod(PeriodInput{Date: "2025-04-07", Year: 2025, Month: 1}, testNow)

		assert.Equal(t, time.Date(2025, time.April, 7, 0, 0, 0, 0, time.UTC), p.Current.Start)
		assert.Equal(t, time.Date(2025, time.April, 8, 0, 0, 0, 0, time.UTC), p.Current.End)
	})

	t.Run("UnparseableDateIgnored", func(t *testing.T) {
		p := ResolvePeriod(PeriodInput{Date: "07/04/2025"}, testNow)

		// Falls through to the monthly default.
		assert.Equal(t, time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC), p.Current.Start)
	})

	t.Run("UnparseableRangeDatesTreatedAsAbsent", func(t *testing.T) {
		p := ResolvePeriod(PeriodInput{Mode: ModeRange, FromDate: "not-a-date", ToDate: "also-bad"}, testNow)

		assert.Equal(t, time.Date(2025, time.June, 15, 0, 0, 0, 0, time.UTC), p.Current.Start)
	})
}

func TestMonthWindow(t *testing.T) {
	w := MonthWindow(time.Date(2025, time.February, 17, 13, 0, 0, 0, time.UTC))

	assert.Equal(t, time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC), w.Start)
	assert.Equal(t, time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC), w.End)
}
