// Package observability holds the Prometheus metrics exported on /metrics
// and the helpers that record them.
package observability

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/phrazzld/uranai-api/internal/events"
)

const namespace = "uranai"

// Outcome label values.
const (
	OutcomeSuccess  = "success"
	OutcomeError    = "error"
	OutcomeFallback = "fallback"
)

var (
	calculationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "divination",
		Name:      "calculations_total",
		Help:      "Profiles calculated, by system and outcome.",
	}, []string{"system", "outcome"})
	comparisonsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "comparison",
		Name:      "comparisons_total",
		Help:      "Comparisons performed, by system and outcome.",
	}, []string{"system", "outcome"})
	feedbackTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "feedback",
		Name:      "generations_total",
		Help:      "Feedback requests, by outcome.",
	}, []string{"outcome"})
	resultEventsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "results",
		Name:      "events_total",
		Help:      "Result lifecycle events emitted, by event type.",
	}, []string{"type"})
	lastResultSavedGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "results",
		Name:      "last_saved_timestamp_seconds",
		Help:      "Unix timestamp of the most recent saved result.",
	})
	httpRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency, by method, route pattern and status.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route", "status"})
)

func init() {
	prometheus.MustRegister(
		calculationsTotal,
		comparisonsTotal,
		feedbackTotal,
		resultEventsTotal,
		lastResultSavedGauge,
		httpRequestDuration,
	)
}

func outcome(err error) string {
	if err != nil {
		return OutcomeError
	}
	return OutcomeSuccess
}

// RecordCalculation counts one calculator invocation.
func RecordCalculation(system string, err error) {
	calculationsTotal.WithLabelValues(system, outcome(err)).Inc()
}

// RecordComparison counts one comparison request.
func RecordComparison(system string, err error) {
	comparisonsTotal.WithLabelValues(system, outcome(err)).Inc()
}

// RecordFeedback counts one feedback request. Fallback feedback is counted
// separately from generator success.
func RecordFeedback(fallback bool) {
	if fallback {
		feedbackTotal.WithLabelValues(OutcomeFallback).Inc()
		return
	}
	feedbackTotal.WithLabelValues(OutcomeSuccess).Inc()
}

// EventsHandler returns an events.EventHandler that counts result events.
func EventsHandler() events.EventHandler {
	return events.HandlerFunc(func(_ context.Context, event *events.Event) error {
		resultEventsTotal.WithLabelValues(event.Type).Inc()
		if event.Type == events.TypeResultSaved {
			recordResultSaved(event.CreatedAt)
		}
		return nil
	})
}

func recordResultSaved(ts time.Time) {
	if ts.IsZero() {
		return
	}
	lastResultSavedGauge.Set(float64(ts.Unix()))
}
