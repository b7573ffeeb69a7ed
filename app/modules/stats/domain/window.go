package statsdomain

import "time"

// DefaultResetHourUTC is the hour at which a stat day rolls over. Viewer
// attribution and daily statistics anchor to this boundary, not to UTC
// midnight, so late-night streams stay on one stat day.
const DefaultResetHourUTC = 7

// DateLayout is the canonical stat-date key format.
const DateLayout = "2006-01-02"

// Scope distinguishes the two statistics windows a channel row can belong to.
type Scope string

const (
	ScopeAllTime Scope = "all_time"
	ScopeDaily   Scope = "daily"
)

// Window identifies the period a statistics row covers: the unbounded
// all-time window, or one canonical stat day.
type Window struct {
	Scope Scope
	// Date is the canonical stat-date key; empty for the all-time window.
	Date string
}

// AllTime returns the unbounded window.
func AllTime() Window {
	return Window{Scope: ScopeAllTime}
}

// Day returns the window for one canonical stat date.
func Day(date string) Window {
	return Window{Scope: ScopeDaily, Date: date}
}

// Clock computes canonical stat dates from a fixed daily reset hour.
type Clock struct {
	ResetHourUTC int
}

// NewClock returns a Clock for the given reset hour; out-of-range values
// fall back to the default.
func NewClock(resetHourUTC int) Clock {
	if resetHourUTC < 0 || resetHourUTC > 23 {
		resetHourUTC = DefaultResetHourUTC
	}
	return Clock{ResetHourUTC: resetHourUTC}
}

// StatDate returns the canonical stat date for the given instant: the UTC
// calendar date, or the previous date when the instant falls before the
// reset hour.
func (c Clock) StatDate(now time.Time) string {
	utc := now.UTC()
	if utc.Hour() < c.ResetHourUTC {
		utc = utc.AddDate(0, 0, -1)
	}
	return utc.Format(DateLayout)
}

// CurrentWindow returns the daily window the given instant belongs to.
func (c Clock) CurrentWindow(now time.Time) Window {
	return Day(c.StatDate(now))
}
