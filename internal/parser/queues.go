package parser

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"

	"github.com/Lion-killer/FiatLux/internal/models"
)

// queueLineRe matches lines of the form "<main>.<sub>: <rest>", one rotation
// sub-queue per line.
var queueLineRe = regexp.MustCompile(`(?m)^\s*(\d+)\.(\d+)\s*:\s*(.*)$`)

// ExtractQueues groups the time ranges of a message by rotation sub-queue.
// When the same sub-queue key repeats, the last occurrence wins. Entries
// without a single time slot are dropped. The result is sorted ascending by
// queue number.
func ExtractQueues(text string) []models.QueueInfo {
	type entry struct {
		main  int
		sub   int
		slots []models.TimeSlot
	}

	byKey := make(map[string]entry)
	for _, m := range queueLineRe.FindAllStringSubmatch(text, -1) {
		main, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		sub, err := strconv.Atoi(m[2])
		if err != nil {
			continue
		}

		key := m[1] + "." + m[2]
		byKey[key] = entry{main: main, sub: sub, slots: ExtractTimeSlots(m[3])}
	}

	queues := make([]models.QueueInfo, 0, len(byKey))
	for key, e := range byKey {
		if len(e.slots) == 0 {
			continue
		}
		queues = append(queues, models.QueueInfo{
			// Sub-queue "1.2" becomes 1.2, not 1.02.
			QueueNumber: float64(e.main) + float64(e.sub)/10,
			TimeSlots:   e.slots,
			Description: fmt.Sprintf("Черга %s", key),
		})
	}

	sort.Slice(queues, func(i, j int) bool {
		return queues[i].QueueNumber < queues[j].QueueNumber
	})
	return queues
}
