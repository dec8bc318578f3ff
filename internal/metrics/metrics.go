// Package metrics holds the Prometheus collectors of the service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequestDuration records request latency by method, route pattern and status.
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "couple_http_request_duration_seconds",
		Help:    "HTTP request latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route", "status"})

	// NotificationsCreated counts generated notifications by type.
	NotificationsCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "couple_notifications_created_total",
		Help: "Total number of generated notifications",
	}, []string{"type"})

	// NotificationFailures counts users whose anniversary could not be processed.
	NotificationFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "couple_notification_generation_failures_total",
		Help: "Total number of per-user anniversary generation failures",
	})

	// DailyQuestionsCreated counts persisted daily questions.
	DailyQuestionsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "couple_daily_questions_created_total",
		Help: "Total number of daily questions persisted",
	})

	// PartnerLinks counts successful partner links.
	PartnerLinks = promauto.NewCounter(prometheus.CounterOpts{
		Name: "couple_partner_links_total",
		Help: "Total number of partner links established",
	})
)
