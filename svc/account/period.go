package account

import "time"

// AddMonths adds months to t. When the day does not exist in the target month
// it is clamped to the month's last day, so Jan 31 + 1 month is Feb 28 (or 29).
func AddMonths(t time.Time, months int) time.Time {
	year, month, day := t.Date()
	first := time.Date(year, month+time.Month(months), 1, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())

	// Day 0 of the following month is the last day of this one.
	lastDay := time.Date(first.Year(), first.Month()+1, 0, 0, 0, 0, 0, first.Location()).Day()
	if day > lastDay {
		day = lastDay
	}
	return time.Date(first.Year(), first.Month(), day, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

// nextPeriodEnd advances end by whole months, always counted from the
// original end, until the result is after now.
func nextPeriodEnd(end, now time.Time) time.Time {
	next := end
	for n := 1; !next.After(now); n++ {
		next = AddMonths(end, n)
	}
	return next
}
