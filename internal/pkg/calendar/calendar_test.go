package calendar

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, JST)
}

func TestInclusiveDayCount(t *testing.T) {
	cases := []struct {
		start, end time.Time
		want       int
	}{
		{date(2024, 4, 1), date(2024, 4, 1), 1},
		{date(2024, 4, 1), date(2024, 4, 2), 2},
		{date(2024, 4, 1), date(2024, 4, 10), 10},
		{date(2024, 2, 28), date(2024, 3, 1), 3}, // leap year
		{date(2024, 12, 30), date(2025, 1, 2), 4},
	}
	for _, c := range cases {
		got := InclusiveDayCount(c.start, c.end)
		if got != c.want {
			t.Errorf("InclusiveDayCount(%s, %s) = %d, want %d",
				c.start.Format("2006-01-02"), c.end.Format("2006-01-02"), got, c.want)
		}
	}
}

func TestInclusiveDayCountIgnoresTimeOfDay(t *testing.T) {
	start := time.Date(2024, 4, 1, 23, 59, 0, 0, JST)
	end := time.Date(2024, 4, 2, 0, 1, 0, 0, JST)
	if got := InclusiveDayCount(start, end); got != 2 {
		t.Errorf("InclusiveDayCount across midnight = %d, want 2", got)
	}
}

func TestFiscalYearOf(t *testing.T) {
	cases := []struct {
		date time.Time
		want int
	}{
		{date(2024, 3, 31), 2023},
		{date(2024, 4, 1), 2024},
		{date(2024, 12, 31), 2024},
		{date(2025, 1, 1), 2024},
	}
	for _, c := range cases {
		if got := FiscalYearOf(c.date); got != c.want {
			t.Errorf("FiscalYearOf(%s) = %d, want %d", c.date.Format("2006-01-02"), got, c.want)
		}
	}
}

func TestFiscalYearRange(t *testing.T) {
	start, end := FiscalYearRange(2024)
	if !start.Equal(date(2024, 4, 1)) {
		t.Errorf("FiscalYearRange(2024) start = %s, want 2024-04-01", start.Format("2006-01-02"))
	}
	if !end.Equal(date(2025, 3, 31)) {
		t.Errorf("FiscalYearRange(2024) end = %s, want 2025-03-31", end.Format("2006-01-02"))
	}
}

func TestDateOf(t *testing.T) {
	instant := time.Date(2024, 6, 15, 18, 30, 45, 0, JST)
	got := DateOf(instant)
	if !got.Equal(date(2024, 6, 15)) {
		t.Errorf("DateOf(%s) = %s, want 2024-06-15 midnight JST", instant, got)
	}
}

func TestFixedClockReturnsJST(t *testing.T) {
	utc := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)
	c := FixedClock{T: utc}
	now := c.Now()
	if now.Hour() != 9 {
		t.Errorf("FixedClock.Now() hour = %d, want 9 (UTC midnight in JST)", now.Hour())
	}
}
