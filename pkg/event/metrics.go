package event

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var transitionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "delegation_event_transitions_total",
	Help: "Number of applied event transitions by kind and resulting status.",
}, []string{"kind", "status"})
