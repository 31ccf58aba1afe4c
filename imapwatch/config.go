// Package imapwatch watches a mailbox for new messages.
//
// An Idler holds an IDLE command open and reports EXISTS notifications; a
// Poller periodically searches for UIDs above a watermark. Both reconnect
// when the connection is lost.
package imapwatch

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/emersion/go-sasl"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/directorytree/go-imapengine"
	"github.com/directorytree/go-imapengine/imapclient"
)

const (
	defaultIdleTimeout  = 25 * time.Minute
	defaultPollInterval = time.Minute
	defaultMailbox      = "INBOX"
)

// Auth is an authentication mechanism.
type Auth string

const (
	// AuthLogin uses the LOGIN command.
	AuthLogin Auth = "login"
	// AuthPlain uses the PLAIN SASL mechanism.
	AuthPlain Auth = "plain"
	// AuthXOAuth2 uses the XOAUTH2 SASL mechanism. The password is the
	// OAuth2 access token.
	AuthXOAuth2 Auth = "xoauth2"
)

// ParseAuth parses an authentication mechanism name, case-insensitively.
func ParseAuth(s string) (Auth, error) {
	switch auth := Auth(strings.ToLower(s)); auth {
	case "":
		return AuthLogin, nil
	case AuthLogin, AuthPlain, AuthXOAuth2:
		return auth, nil
	default:
		return "", fmt.Errorf("imapwatch: unknown authentication mechanism %q", s)
	}
}

// DialFunc opens a transport to the server.
type DialFunc func(ctx context.Context) (imapclient.Transport, error)

// Config describes the mailbox to watch and how to connect to it.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	Auth     Auth
	// Mailbox defaults to INBOX.
	Mailbox string

	// Options are passed to the client on each connection.
	Options *imapclient.Options
	// Dial replaces the default TCP dialer, e.g. in tests.
	Dial DialFunc

	// IdleTimeout is the soft deadline after which IDLE is restarted when
	// no new message arrives. Defaults to 25 minutes, below the 29 minutes
	// after which servers may drop idle clients.
	IdleTimeout time.Duration
	// PollInterval is the delay between two searches of the Poller.
	// Defaults to 1 minute.
	PollInterval time.Duration
	// Reconnect throttles reconnections. Defaults to one per second with a
	// burst of 3.
	Reconnect *rate.Limiter

	Logger logrus.FieldLogger
}

func (cfg *Config) mailbox() string {
	if cfg.Mailbox != "" {
		return cfg.Mailbox
	}
	return defaultMailbox
}

func (cfg *Config) idleTimeout() time.Duration {
	if cfg.IdleTimeout > 0 {
		return cfg.IdleTimeout
	}
	return defaultIdleTimeout
}

func (cfg *Config) pollInterval() time.Duration {
	if cfg.PollInterval > 0 {
		return cfg.PollInterval
	}
	return defaultPollInterval
}

func (cfg *Config) logger() logrus.FieldLogger {
	if cfg.Logger != nil {
		return cfg.Logger
	}
	return logrus.StandardLogger()
}

func (cfg *Config) options() *imapclient.Options {
	var options imapclient.Options
	if cfg.Options != nil {
		options = *cfg.Options
	}
	if options.Logger == nil {
		options.Logger = cfg.logger()
	}
	return &options
}

// connect opens a new connection, authenticates and selects the mailbox.
func (cfg *Config) connect(ctx context.Context) (*imapclient.Client, *imap.SelectData, error) {
	options := cfg.options()

	var (
		client *imapclient.Client
		err    error
	)
	if cfg.Dial != nil {
		var transport imapclient.Transport
		if transport, err = cfg.Dial(ctx); err != nil {
			return nil, nil, err
		}
		client, err = imapclient.New(transport, options)
	} else {
		client, err = imapclient.Dial(ctx, cfg.Host, cfg.Port, options)
	}
	if err != nil {
		return nil, nil, err
	}

	if err := cfg.authenticate(client); err != nil {
		client.Close()
		return nil, nil, fmt.Errorf("imapwatch: authentication failed: %w", err)
	}

	data, err := client.Select(cfg.mailbox(), nil)
	if err != nil {
		client.Close()
		return nil, nil, fmt.Errorf("imapwatch: cannot select %q: %w", cfg.mailbox(), err)
	}
	return client, data, nil
}

func (cfg *Config) authenticate(client *imapclient.Client) error {
	if client.State() == imap.ConnStateAuthenticated {
		return nil
	}
	switch cfg.Auth {
	case AuthPlain:
		return client.Authenticate(sasl.NewPlainClient("", cfg.Username, cfg.Password))
	case AuthXOAuth2:
		return client.Authenticate(imapclient.NewXOAuth2Client(cfg.Username, cfg.Password))
	default:
		return client.Login(cfg.Username, cfg.Password)
	}
}

func (cfg *Config) reconnectLimiter() *rate.Limiter {
	if cfg.Reconnect != nil {
		return cfg.Reconnect
	}
	return rate.NewLimiter(rate.Every(time.Second), 3)
}

// teardown stops IDLE and logs out, ignoring failures, then closes the
// connection.
func teardown(client *imapclient.Client, logger logrus.FieldLogger) {
	if client.Idling() {
		client.SetTimeout(client.Timeout())
		if _, err := client.Done(); err != nil {
			logger.WithError(err).Debug("failed to stop IDLE")
		}
	}
	if client.State() != imap.ConnStateDisconnected {
		if err := client.Logout(); err != nil {
			logger.WithError(err).Debug("failed to log out")
		}
	}
	client.Close()
}

// isConnectionLost returns true if err means the connection can't be used
// anymore, and a new one should be opened.
func isConnectionLost(err error) bool {
	var imapErr *imap.Error
	switch {
	case errors.Is(err, imap.ErrConnectionClosed),
		errors.Is(err, imap.ErrTimeout),
		errors.Is(err, imap.ErrWriteFailed),
		errors.Is(err, imap.ErrConnectionRefused):
		return true
	case errors.As(err, &imapErr):
		return imapErr.Type == imap.StatusResponseTypeBye
	default:
		return false
	}
}

// watchSession is one connection of a watch loop.
type watchSession func(ctx context.Context, connected func()) error

// runSessions runs session until it fails with an error other than a lost
// connection, or until ctx is done. Errors before the first connection
// succeeds are returned as-is.
func runSessions(ctx context.Context, cfg *Config, mode string, logger logrus.FieldLogger, session watchSession) error {
	limiter := cfg.reconnectLimiter()
	everConnected := false
	for {
		err := session(ctx, func() { everConnected = true })
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if !everConnected || !isConnectionLost(err) {
			return err
		}

		logger.WithError(err).Warn("connection lost, reconnecting")
		metricReconnects.WithLabelValues(mode).Inc()
		if err := limiter.Wait(ctx); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return err
		}
	}
}
