package parser

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/Lion-killer/FiatLux/internal/models"
)

// timeSlotRe matches "HH:MM" ranges joined by a hyphen, en dash or em dash,
// with optional spaces around the dash.
var timeSlotRe = regexp.MustCompile(`(\d{1,2}):(\d{2})\s*[-–—]\s*(\d{1,2}):(\d{2})`)

// maxHour admits the literal "24:00" that some announcements use for
// end-of-day; normalization of that value happens downstream.
const maxHour = 24

// ExtractTimeSlots returns every time range found in the line, left to right,
// duplicates preserved. Hours are zero-padded on output. Ranges with an hour
// field above 24 are skipped rather than reported as errors.
func ExtractTimeSlots(line string) []models.TimeSlot {
	var slots []models.TimeSlot
	for _, m := range timeSlotRe.FindAllStringSubmatch(line, -1) {
		startHour, _ := strconv.Atoi(m[1])
		endHour, _ := strconv.Atoi(m[3])
		if startHour > maxHour || endHour > maxHour {
			continue
		}

		slots = append(slots, models.TimeSlot{
			Start: fmt.Sprintf("%02d:%s", startHour, m[2]),
			End:   fmt.Sprintf("%02d:%s", endHour, m[4]),
		})
	}
	return slots
}
