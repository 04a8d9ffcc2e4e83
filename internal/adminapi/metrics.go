package adminapi

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	mutationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "warden_channel_mutations_total",
		Help: "Channel mutations persisted, by operation.",
	}, []string{"op"})

	reloadFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "warden_reload_failures_total",
		Help: "Mutations persisted whose gateway reload failed.",
	})
)
