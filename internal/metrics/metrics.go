// Package metrics содержит счётчики Prometheus сервиса habitquest.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RemindersProcessed считает результаты обработки напоминаний диспетчером.
	// outcome: sent, send_failed, no_token, claim_lost.
	RemindersProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "habitquest_reminders_processed_total",
			Help: "Total number of due reminders processed by outcome",
		},
		[]string{"outcome"},
	)

	// CompletionsRecorded считает записанные выполнения привычек.
	CompletionsRecorded = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "habitquest_completions_recorded_total",
			Help: "Total number of habit completions recorded",
		},
	)

	// ShieldsConsumed считает щиты, автоматически потраченные на защиту серии.
	ShieldsConsumed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "habitquest_shields_consumed_total",
			Help: "Total number of streak shields consumed by auto-protection",
		},
	)
)
