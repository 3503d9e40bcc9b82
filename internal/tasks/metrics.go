package tasks

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	tasksCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tasks_created_total",
		Help: "Total number of tasks added to the collection",
	})

	tasksDeleted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tasks_deleted_total",
		Help: "Total number of tasks removed from the collection",
	})

	validationFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tasks_validation_failures_total",
		Help: "Total number of rejected form submissions",
	})

	// Общий на процесс; при нескольких Service показывает последний изменённый.
	tasksInCollection = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "tasks_in_collection",
		Help: "Current number of tasks in the collection",
	})
)
