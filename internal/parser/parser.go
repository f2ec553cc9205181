// Package parser turns free-form Ukrainian outage announcements into
// structured schedule records. All functions are pure: they operate on the
// given text and an explicit reference instant and keep no state.
package parser

import (
	"fmt"
	"strings"
	"time"

	"github.com/Lion-killer/FiatLux/internal/models"
)

// scheduleKeywords gate the expensive extraction steps; a message without any
// of them is not a schedule.
var scheduleKeywords = []string{
	"графік",
	"черга",
	"група",
	"відключення",
	"вимкнення",
	"знеструмлення",
}

// Message is the upstream channel-monitor contract: raw text plus provenance.
type Message struct {
	ID       int
	Text     string
	UnixTime int64
	ChatID   string
}

// IsScheduleMessage is the cheap pre-filter: case-insensitive substring match
// against the keyword set.
func IsScheduleMessage(text string) bool {
	lower := strings.ToLower(text)
	for _, kw := range scheduleKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// DetermineScheduleType classifies date against the reference day: today is
// current, tomorrow is future, anything else falls back to current.
func DetermineScheduleType(date, now time.Time) models.ScheduleType {
	today := models.StartOfDay(now)
	day := models.StartOfDay(date)

	if day.Equal(today.AddDate(0, 0, 1)) {
		return models.TypeFuture
	}
	return models.TypeCurrent
}

// IsRelevantDate reports whether date falls in the half-open two-day window
// [today, today+2d), i.e. is exactly today or tomorrow.
func IsRelevantDate(date, now time.Time) bool {
	today := models.StartOfDay(now)
	day := models.StartOfDay(date)
	return !day.Before(today) && day.Before(today.AddDate(0, 0, 2))
}

// ParseMessage runs the full pipeline over one message. It returns nil for
// anything that is not a usable schedule: missing keywords, no resolvable
// date, no queues with time slots, or (in strict mode) a date outside the
// relevant window. A nil result is routine, not an error.
func ParseMessage(msg Message, now time.Time, strict bool) *models.Schedule {
	if !IsScheduleMessage(msg.Text) {
		return nil
	}

	date, ok := ResolveDate(msg.Text, now)
	if !ok {
		return nil
	}

	queues := ExtractQueues(msg.Text)
	if len(queues) == 0 || !anyTimeSlots(queues) {
		return nil
	}

	if strict && !IsRelevantDate(date, now) {
		return nil
	}

	return &models.Schedule{
		ID:          fmt.Sprintf("%d-%s", msg.ID, date.Format("2006-01-02")),
		Type:        DetermineScheduleType(date, now),
		Date:        date,
		Queues:      queues,
		RawText:     msg.Text,
		PublishedAt: time.Unix(msg.UnixTime, 0).In(now.Location()),
		MessageID:   msg.ID,
		ChannelID:   msg.ChatID,
	}
}

// ParseMessages applies ParseMessage to a batch, dropping the rejects.
func ParseMessages(msgs []Message, now time.Time, strict bool) []*models.Schedule {
	var schedules []*models.Schedule
	for _, msg := range msgs {
		if s := ParseMessage(msg, now, strict); s != nil {
			schedules = append(schedules, s)
		}
	}
	return schedules
}

func anyTimeSlots(queues []models.QueueInfo) bool {
	for _, q := range queues {
		if len(q.TimeSlots) > 0 {
			return true
		}
	}
	return false
}
