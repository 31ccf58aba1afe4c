package imapwatch

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	metricReconnects = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "imapengine_watch_reconnects_total",
			Help: "Number of reconnections after a lost connection.",
		},
		[]string{
			"mode", // idle, poll
		},
	)
	metricDispatched = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "imapengine_watch_dispatched_total",
			Help: "Number of new message notifications passed to the handler.",
		},
		[]string{
			"mode", // idle, poll
		},
	)
	metricIdleRestarts = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "imapengine_watch_idle_restarts_total",
			Help: "Number of IDLE commands restarted after the idle timeout.",
		},
	)
)
