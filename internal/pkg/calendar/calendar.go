package calendar

import (
	"time"
)

// JST is the single timezone the whole system operates in. All stored
// instants and all punch times are fixed to +09:00; there is no DST.
var JST = time.FixedZone("JST", 9*60*60)

// Clock supplies the current time. Every punch goes through this seam so
// "now" is never client-supplied.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time {
	return time.Now().In(JST)
}

// NewSystemClock returns a Clock backed by the wall clock in JST.
func NewSystemClock() Clock {
	return systemClock{}
}

// FixedClock always returns the same instant. Test use.
type FixedClock struct {
	T time.Time
}

func (c FixedClock) Now() time.Time {
	return c.T.In(JST)
}

// DateOf truncates an instant to its JST calendar date (midnight JST).
func DateOf(t time.Time) time.Time {
	local := t.In(JST)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, JST)
}

// InclusiveDayCount returns the number of calendar days in [start, end],
// counting both endpoints. start == end yields 1. Time-of-day is ignored.
func InclusiveDayCount(start, end time.Time) int {
	s := DateOf(start)
	e := DateOf(end)
	return int(e.Sub(s).Hours()/24) + 1
}

// FiscalYearOf buckets a date into the April-to-March accounting year:
// April or later belongs to the calendar year, January-March to the prior.
func FiscalYearOf(date time.Time) int {
	local := date.In(JST)
	if local.Month() >= time.April {
		return local.Year()
	}
	return local.Year() - 1
}

// FiscalYearRange returns the first and last calendar dates of a fiscal
// year: April 1 of fy through March 31 of fy+1.
func FiscalYearRange(fy int) (start, end time.Time) {
	start = time.Date(fy, time.April, 1, 0, 0, 0, 0, JST)
	end = time.Date(fy+1, time.March, 31, 0, 0, 0, 0, JST)
	return start, end
}
