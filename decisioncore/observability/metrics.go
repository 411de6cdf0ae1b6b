// Package observability provides Prometheus metrics, OpenTelemetry tracing,
// and the shared logger for the decision core.
//
// The engine itself is a pure function and records nothing; all
// instrumentation happens in the orchestrator around Decide calls.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// =============================================================================
// DECISION METRICS
// =============================================================================

var (
	decisionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "voicecore_decisions_total",
			Help: "Total number of turn decisions",
		},
		[]string{"directive", "reason"},
	)

	decisionDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "voicecore_decision_duration_seconds",
			Help:    "Decide call duration in seconds",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
		},
		[]string{"directive"},
	)

	contractViolationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "voicecore_contract_violations_total",
			Help: "Turn requests rejected at the contract boundary",
		},
		[]string{"code"},
	)
)

// =============================================================================
// CONVERSATION METRICS
// =============================================================================

var (
	activeConversations = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "voicecore_active_conversations",
			Help: "Conversations currently holding cross-turn state",
		},
	)

	pendingInteractionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "voicecore_pending_interactions_total",
			Help: "Pending interactions created, by kind",
		},
		[]string{"kind"},
	)

	speechCancelsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "voicecore_speech_cancels_total",
			Help: "Turns that cancelled in-flight speech",
		},
	)
)

// RecordDecision records a completed Decide call.
func RecordDecision(directiveKind, reason string, duration time.Duration) {
	decisionsTotal.WithLabelValues(directiveKind, reason).Inc()
	decisionDurationSeconds.WithLabelValues(directiveKind).Observe(duration.Seconds())
}

// RecordContractViolation records a rejected turn request.
func RecordContractViolation(code string) {
	contractViolationsTotal.WithLabelValues(code).Inc()
}

// RecordPendingInteraction records a newly created pending interaction.
func RecordPendingInteraction(kind string) {
	pendingInteractionsTotal.WithLabelValues(kind).Inc()
}

// RecordSpeechCancel records a speech-cancel signal.
func RecordSpeechCancel() {
	speechCancelsTotal.Inc()
}

// SetActiveConversations updates the live conversation gauge.
func SetActiveConversations(n int) {
	activeConversations.Set(float64(n))
}
