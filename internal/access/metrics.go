package access

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	outcomeAuthorized      = "authorized"
	outcomeUnauthenticated = "unauthenticated"
	outcomeInactive        = "inactive"
	outcomeForbidden       = "forbidden"
	outcomeError           = "error"
)

// DecisionsTotal counts guard decisions by outcome.
var DecisionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "docdraft_access_decisions_total",
		Help: "Total number of access guard decisions",
	},
	[]string{"outcome"},
)

func recordDecision(outcome string) {
	DecisionsTotal.WithLabelValues(outcome).Inc()
}
