package imapclient

import (
	"errors"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/directorytree/go-imapengine"
)

var (
	metricCommands = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "imapengine_client_command_duration_seconds",
			Help:    "IMAP client command duration and result in seconds.",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.100, 0.5, 1, 5, 10, 20, 30, 60, 120},
		},
		[]string{
			"cmd",    // e.g. "UID FETCH"
			"result", // ok, no, bad, bye, timeout, closed, error
		},
	)
)

func observeCommand(verb string, start time.Time, err error) {
	metricCommands.WithLabelValues(strings.ToUpper(verb), commandResult(err)).Observe(float64(time.Since(start)) / float64(time.Second))
}

func commandResult(err error) string {
	if err == nil {
		return "ok"
	}
	var imapErr *imap.Error
	switch {
	case errors.As(err, &imapErr):
		return strings.ToLower(string(imapErr.Type))
	case errors.Is(err, imap.ErrTimeout):
		return "timeout"
	case errors.Is(err, imap.ErrConnectionClosed):
		return "closed"
	default:
		return "error"
	}
}
