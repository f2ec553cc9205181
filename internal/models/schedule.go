package models

import "time"

// ScheduleType classifies a schedule relative to the day it was parsed on.
type ScheduleType string

const (
	// TypeCurrent marks a schedule for today.
	TypeCurrent ScheduleType = "current"
	// TypeFuture marks a schedule for tomorrow.
	TypeFuture ScheduleType = "future"
)

// TimeSlot is a single outage period within a day, both ends as "HH:MM"
// local time-of-day strings.
type TimeSlot struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// QueueInfo holds the outage periods announced for one rotation queue.
// TimeSlots keeps the order of appearance in the source text, which is not
// guaranteed to be chronological.
type QueueInfo struct {
	QueueNumber float64    `json:"queue_number"`
	TimeSlots   []TimeSlot `json:"time_slots"`
	Description string     `json:"description"`
}

// Schedule is one parsed outage announcement. It is immutable after
// construction except for the Archived flag, which the store flips exactly
// once when the record is superseded or expires.
type Schedule struct {
	ID          string       `json:"id"`
	Type        ScheduleType `json:"type"`
	Date        time.Time    `json:"date"`
	Queues      []QueueInfo  `json:"queues"`
	RawText     string       `json:"raw_text"`
	PublishedAt time.Time    `json:"published_at"`
	MessageID   int          `json:"message_id"`
	ChannelID   string       `json:"channel_id"`
	Archived    bool         `json:"archived"`
}

// DateKey returns the calendar day as YYYY-MM-DD, the form used inside
// schedule IDs.
func (s *Schedule) DateKey() string {
	return s.Date.Format("2006-01-02")
}
