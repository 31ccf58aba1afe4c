package imapwatch

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/directorytree/go-imapengine"
	"github.com/directorytree/go-imapengine/imapclient"
)

// PollHandler is called with the UID of each new message, in ascending
// order. The client can be used to fetch the message. Returning an error
// stops the Poller; the watermark is left before the UID.
type PollHandler func(client *imapclient.Client, uid imap.UID) error

// Poller watches a mailbox by searching for UIDs above a watermark.
//
// Delivery is at-least-once: the watermark is saved after the handler
// returns, so a crash in between redelivers the message.
type Poller struct {
	config Config
	store  WatermarkStore
	logger logrus.FieldLogger
}

// NewPoller creates a new Poller. A nil store keeps the watermark in
// memory.
func NewPoller(config *Config, store WatermarkStore) *Poller {
	if store == nil {
		store = NewMemoryStore()
	}
	return &Poller{
		config: *config,
		store:  store,
		logger: config.logger().WithField("mode", "poll"),
	}
}

// Run connects, selects the mailbox and polls until ctx is done or handler
// returns an error.
//
// Without a saved watermark, only messages arriving after the first
// connection are reported.
func (p *Poller) Run(ctx context.Context, handler PollHandler) error {
	return runSessions(ctx, &p.config, "poll", p.logger, func(ctx context.Context, connected func()) error {
		return p.session(ctx, handler, connected)
	})
}

func (p *Poller) session(ctx context.Context, handler PollHandler, connected func()) error {
	client, data, err := p.config.connect(ctx)
	if err != nil {
		return err
	}
	connected()

	stop := context.AfterFunc(ctx, func() {
		client.Transport().Close()
	})
	defer stop()
	defer teardown(client, p.logger)

	mark, err := p.watermark(client, data)
	if err != nil {
		return err
	}
	p.logger.WithField("uid", mark.UID).Info("polling")

	ticker := time.NewTicker(p.config.pollInterval())
	defer ticker.Stop()
	for {
		if mark, err = p.poll(client, mark, handler); err != nil {
			return err
		}

		select {
		case <-ticker.C:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// watermark loads the saved watermark. It's reset when the mailbox
// UIDVALIDITY changed, since old UIDs don't refer to the same messages
// anymore.
func (p *Poller) watermark(client *imapclient.Client, data *imap.SelectData) (Watermark, error) {
	mailbox := p.config.mailbox()
	mark, ok, err := p.store.Load(mailbox)
	if err != nil {
		return Watermark{}, fmt.Errorf("imapwatch: failed to load watermark: %w", err)
	}
	if ok && mark.UIDValidity == data.UIDValidity {
		return mark, nil
	}
	if ok {
		p.logger.WithFields(logrus.Fields{
			"saved":       mark.UIDValidity,
			"uidvalidity": data.UIDValidity,
		}).Warn("UIDVALIDITY changed, resetting watermark")
	}

	mark = Watermark{UIDValidity: data.UIDValidity}
	if data.UIDNext > 0 {
		mark.UID = data.UIDNext - 1
	} else {
		// UIDNEXT is optional in RFC 2060
		uids, err := client.UIDSearch("ALL")
		if err != nil {
			return Watermark{}, err
		}
		if len(uids) > 0 {
			mark.UID = uids[len(uids)-1]
		}
	}

	if err := p.store.Save(mailbox, mark); err != nil {
		return Watermark{}, fmt.Errorf("imapwatch: failed to save watermark: %w", err)
	}
	return mark, nil
}

// poll searches for new messages and dispatches them. The updated watermark
// is returned, even on failure.
func (p *Poller) poll(client *imapclient.Client, mark Watermark, handler PollHandler) (Watermark, error) {
	uids, err := client.UIDSearch(fmt.Sprintf("UID %v:*", mark.UID+1))
	if err != nil {
		return mark, err
	}

	for _, uid := range uids {
		// "n:*" always matches the last message, even if its UID is below n
		if uid <= mark.UID {
			continue
		}
		metricDispatched.WithLabelValues("poll").Inc()
		if err := handler(client, uid); err != nil {
			return mark, err
		}
		mark.UID = uid
		if err := p.store.Save(p.config.mailbox(), mark); err != nil {
			return mark, fmt.Errorf("imapwatch: failed to save watermark: %w", err)
		}
	}
	return mark, nil
}
