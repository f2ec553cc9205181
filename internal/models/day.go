package models

import "time"

// StartOfDay truncates t to midnight in its own location. Calendar-day
// comparisons across the pipeline go through this helper so no value is ever
// shifted through UTC.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// SameDay reports whether a and b fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	return StartOfDay(a).Equal(StartOfDay(b))
}
