package businessflow

import (
	"time"

	"github.com/powergridhq/disco-analytics/models"
	"github.com/powergridhq/disco-analytics/utils"
)

// Period is a resolved reporting period: the current window, a comparable
// previous window of equal length ending where the current one starts, and
// the month-starts of the history series, oldest first.
type Period struct {
	Current  models.Window
	Previous models.Window
	History  []time.Time
}

// PeriodInput carries raw caller input for period resolution. Dates are
// YYYY-MM-DD; unparseable values are treated as absent.
type PeriodInput struct {
	Mode     string
	Year     int
	Month    int
	FromDate string
	ToDate   string
	Date     string
}

// ModeMonthly and ModeRange are the two period modes
const (
	ModeMonthly = "monthly"
	ModeRange   = "range"
)

// ResolvePeriod converts caller input into a Period relative to now.
// Monthly mode uses calendar months; range mode places the previous window
// immediately before the current one with equal length. A single supplied
// date becomes an open-ended filter bounded by now.
func ResolvePeriod(in PeriodInput, now time.Time) Period {
	today := utils.DateOnly(now)

	if in.Date != "" {
		if d, ok := parsePeriodDate(in.Date); ok {
			return finishPeriod(dayWindow(d))
		}
	}

	from, hasFrom := parsePeriodDate(in.FromDate)
	to, hasTo := parsePeriodDate(in.ToDate)
	wantRange := in.Mode == ModeRange || ((hasFrom || hasTo) && in.Mode != ModeMonthly)

	if wantRange {
		switch {
		case hasFrom && hasTo:
			if to.Before(from) {
				to = from
			}
			return finishPeriod(models.Window{Start: from, End: to.AddDate(0, 0, 1)})
		case hasFrom:
			end := today.AddDate(0, 0, 1)
			if end.Before(from) {
				end = from.AddDate(0, 0, 1)
			}
			return finishPeriod(models.Window{Start: from, End: end})
		case hasTo:
			// Open start is bounded to the year before the end date, not
			// all recorded history. The previous window mirrors the
			// current one, so an unbounded start would force equally
			// unbounded comparison scans.
			return finishPeriod(models.Window{Start: to.AddDate(-1, 0, 0), End: to.AddDate(0, 0, 1)})
		default:
			return finishPeriod(dayWindow(today))
		}
	}

	anchor := today
	if in.Year != 0 && in.Month >= 1 && in.Month <= 12 {
		anchor = time.Date(in.Year, time.Month(in.Month), 1, 0, 0, 0, 0, time.UTC)
	}
	return monthlyPeriod(anchor)
}

// MonthWindow returns the calendar-month window containing t
func MonthWindow(t time.Time) models.Window {
	return models.Window{Start: utils.FirstOfMonth(t), End: utils.FirstOfNextMonth(t)}
}

func monthlyPeriod(anchor time.Time) Period {
	current := MonthWindow(anchor)
	previous := MonthWindow(current.Start.AddDate(0, 0, -1))
	return Period{
		Current:  current,
		Previous: previous,
		History:  historyMonths(current.Start),
	}
}

func finishPeriod(current models.Window) Period {
	length := current.Length()
	return Period{
		Current:  current,
		Previous: models.Window{Start: current.Start.Add(-length), End: current.Start},
		History:  historyMonths(utils.FirstOfMonth(current.Start)),
	}
}

func dayWindow(d time.Time) models.Window {
	return models.Window{Start: d, End: d.AddDate(0, 0, 1)}
}

// historyMonths returns HistoryMonths consecutive month-starts ending at
// (and including) anchor, oldest first.
func historyMonths(anchor time.Time) []time.Time {
	months := make([]time.Time, utils.HistoryMonths)
	for i := 0; i < utils.HistoryMonths; i++ {
		months[utils.HistoryMonths-1-i] = anchor.AddDate(0, -i, 0)
	}
	return months
}

func parsePeriodDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(utils.DateLayout, s)
	if err != nil {
		return time.Time{}, false
	}
	return t.UTC(), true
}
