package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	messagesProcessed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fiatlux",
			Name:      "messages_processed_total",
			Help:      "Count of channel messages processed by result.",
		},
		[]string{"result"},
	)

	schedulesSaved = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fiatlux",
			Name:      "schedules_saved_total",
			Help:      "Count of schedules saved by type.",
		},
		[]string{"type"},
	)

	schedulesArchived = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "fiatlux",
			Name:      "schedules_archived_total",
			Help:      "Count of schedules archived during reconciliation.",
		},
	)

	schedulesCleaned = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "fiatlux",
			Name:      "schedules_cleaned_total",
			Help:      "Count of archived schedules removed by cleanup.",
		},
	)

	storeSize = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "fiatlux",
			Name:      "store_size",
			Help:      "Schedule records currently retained, archived included.",
		},
	)
)

// Register registers metrics (idempotent).
func Register() {
	once.Do(func() {
		prometheus.MustRegister(messagesProcessed, schedulesSaved, schedulesArchived, schedulesCleaned, storeSize)
	})
}

func IncMessageProcessed(result string) {
	messagesProcessed.WithLabelValues(result).Inc()
}

func IncScheduleSaved(scheduleType string) {
	schedulesSaved.WithLabelValues(scheduleType).Inc()
}

func AddSchedulesArchived(n int) {
	schedulesArchived.Add(float64(n))
}

func AddSchedulesCleaned(n int) {
	schedulesCleaned.Add(float64(n))
}

func SetStoreSize(n int) {
	storeSize.Set(float64(n))
}
