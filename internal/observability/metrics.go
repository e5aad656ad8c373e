package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ModerationDecisions counts terminal moderation decisions by entity and
// outcome.
var ModerationDecisions = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "moderation_decisions_total",
	Help: "Terminal moderation decisions recorded, by entity and outcome.",
}, []string{"entity", "decision"})

// RecordModerationDecision increments the decision counter.
func RecordModerationDecision(entity, decision string) {
	ModerationDecisions.WithLabelValues(entity, decision).Inc()
}
