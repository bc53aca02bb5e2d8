package domain

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var cascadedTasks = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "taskboard",
	Name:      "category_cascade_tasks_total",
	Help:      "Tasks detached from a category because the category was deleted.",
})
