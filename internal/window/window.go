package window

import "time"

// DateLayout is the layout used for report dates.
const DateLayout = "2006-01-02"

// Window is the [Since, Until] range of one calendar day in a fixed zone.
type Window struct {
	Since time.Time
	Until time.Time
}

// Yesterday returns the window covering the calendar day before now in loc.
func Yesterday(now time.Time, loc *time.Location) Window {
	if loc == nil {
		loc = time.UTC
	}
	local := now.In(loc)
	y, m, d := local.Date()
	return Window{
		Since: time.Date(y, m, d-1, 0, 0, 0, 0, loc),
		Until: time.Date(y, m, d-1, 23, 59, 59, 999999000, loc),
	}
}

// Date returns the window's day as YYYY-MM-DD.
func (w Window) Date() string {
	return w.Since.Format(DateLayout)
}

// Contains reports whether t falls inside the window, both ends inclusive.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Since) && !t.After(w.Until)
}
