package imapwatch

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/directorytree/go-imapengine"
	"github.com/directorytree/go-imapengine/imapclient"
)

// IdleHandler is called with the message count of each EXISTS notification,
// i.e. the sequence number of the newest message. Returning an error stops
// the Idler.
type IdleHandler func(seqNum uint32) error

// Idler watches a mailbox with the IDLE command.
type Idler struct {
	config Config
	logger logrus.FieldLogger
}

// NewIdler creates a new Idler.
func NewIdler(config *Config) *Idler {
	return &Idler{
		config: *config,
		logger: config.logger().WithField("mode", "idle"),
	}
}

// Run connects, selects the mailbox and idles until ctx is done or handler
// returns an error.
//
// IDLE is restarted with DONE when no new message arrives before the idle
// timeout. When the connection is lost, a new one is opened and idling
// resumes.
func (w *Idler) Run(ctx context.Context, handler IdleHandler) error {
	return runSessions(ctx, &w.config, "idle", w.logger, func(ctx context.Context, connected func()) error {
		return w.session(ctx, handler, connected)
	})
}

func (w *Idler) session(ctx context.Context, handler IdleHandler, connected func()) error {
	client, data, err := w.config.connect(ctx)
	if err != nil {
		return err
	}
	connected()

	stop := context.AfterFunc(ctx, func() {
		client.Transport().Close()
	})
	defer stop()
	defer teardown(client, w.logger)

	w.logger.WithField("messages", data.NumMessages).Info("idling")
	for {
		if err := w.idle(client, handler); err != nil {
			return err
		}
		metricIdleRestarts.Inc()
		w.logger.Debug("restarting IDLE")
	}
}

// idle runs a single IDLE command, until the deadline elapses or the server
// ends it.
func (w *Idler) idle(client *imapclient.Client, handler IdleHandler) error {
	res, err := client.Idle()
	// EXISTS may arrive before the server accepts IDLE
	if dispatchErr := w.dispatchResult(res, handler); dispatchErr != nil {
		return dispatchErr
	}
	if err != nil {
		return err
	}

	timeout := w.config.idleTimeout()
	deadline := time.Now().Add(timeout)
	for {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			break
		}
		client.SetTimeout(remaining)

		resp, err := client.ReadResponse()
		if errors.Is(err, imap.ErrTimeout) {
			if !client.Idling() {
				// The timeout hit in the middle of a response
				return err
			}
			break
		} else if err != nil {
			return err
		}

		switch resp := resp.(type) {
		case *imap.UntaggedResponse:
			if ok, err := w.dispatch(resp, handler); err != nil {
				return err
			} else if ok {
				deadline = time.Now().Add(timeout)
			}
		case *imap.TaggedResponse:
			if client.Idling() {
				w.logger.WithField("tag", resp.Tag()).Debug("ignoring stale tagged response")
				continue
			}
			// The server ended IDLE on its own
			client.SetTimeout(client.Timeout())
			return nil
		}
	}

	client.SetTimeout(client.Timeout())
	res, err = client.Done()
	if dispatchErr := w.dispatchResult(res, handler); dispatchErr != nil {
		return dispatchErr
	}
	return err
}

// dispatch calls handler if resp is a non-zero EXISTS.
func (w *Idler) dispatch(resp *imap.UntaggedResponse, handler IdleHandler) (bool, error) {
	if resp.Type() != "EXISTS" {
		return false, nil
	}
	n, ok := resp.Number()
	if !ok || n == 0 {
		return false, nil
	}
	metricDispatched.WithLabelValues("idle").Inc()
	return true, handler(n)
}

func (w *Idler) dispatchResult(res *imap.Result, handler IdleHandler) error {
	if res == nil {
		return nil
	}
	for _, resp := range res.UntaggedOfType("EXISTS") {
		if _, err := w.dispatch(resp, handler); err != nil {
			return err
		}
	}
	return nil
}
