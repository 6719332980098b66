package attendance

import "time"

// DayKey returns the calendar-date key (YYYY-MM-DD) for t in its own
// location. The key buckets attendance records for dedupe; the store keeps a
// unique constraint over (user, day key).
func DayKey(t time.Time) string {
	return t.Format("2006-01-02")
}

// DayWindow returns the inclusive [start, end] bounds of t's calendar day in
// t's location. Every timestamp inside the window shares t's DayKey.
func DayWindow(t time.Time) (start, end time.Time) {
	y, m, d := t.Date()
	start = time.Date(y, m, d, 0, 0, 0, 0, t.Location())
	end = start.AddDate(0, 0, 1).Add(-time.Nanosecond)
	return start, end
}
