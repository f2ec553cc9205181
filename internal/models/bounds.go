package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Bounds anchors the slot on a calendar date and returns its absolute start
// and end instants in the date's location.
//
// An end time of "00:00" (or the literal "24:00") means end-of-current-day and
// is mapped to 23:59:59 of the same date; it never rolls into the next day.
// The parser keeps extracted slots literal, so this is the single place the
// midnight rule is applied.
func (t TimeSlot) Bounds(date time.Time) (time.Time, time.Time, error) {
	start, err := timeOnDate(date, t.Start)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("slot start: %w", err)
	}

	if t.End == "00:00" || t.End == "24:00" {
		end := time.Date(date.Year(), date.Month(), date.Day(), 23, 59, 59, 0, date.Location())
		return start, end, nil
	}

	end, err := timeOnDate(date, t.End)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("slot end: %w", err)
	}
	return start, end, nil
}

// Duration returns the slot length on the given date, with the midnight rule
// applied. A malformed slot reports zero.
func (t TimeSlot) Duration(date time.Time) time.Duration {
	start, end, err := t.Bounds(date)
	if err != nil || end.Before(start) {
		return 0
	}
	return end.Sub(start)
}

func timeOnDate(date time.Time, hhmm string) (time.Time, error) {
	parts := strings.Split(hhmm, ":")
	if len(parts) != 2 {
		return time.Time{}, fmt.Errorf("invalid time format: %s", hhmm)
	}

	hour, err := strconv.Atoi(parts[0])
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid hour: %w", err)
	}

	minute, err := strconv.Atoi(parts[1])
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid minute: %w", err)
	}

	return time.Date(date.Year(), date.Month(), date.Day(), hour, minute, 0, 0, date.Location()), nil
}
