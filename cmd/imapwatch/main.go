// Command imapwatch reports new messages arriving in a mailbox, using IDLE
// or by polling.
package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/directorytree/go-imapengine"
	"github.com/directorytree/go-imapengine/imapclient"
	"github.com/directorytree/go-imapengine/imapwatch"
)

var (
	envFile      string
	mode         string
	idleTimeout  time.Duration
	pollInterval time.Duration
	statePath    string
	metricsAddr  string
	logLevel     string
	debug        bool
)

func main() {
	flag.StringVar(&envFile, "env", ".env", "File with IMAP_* environment variables")
	flag.StringVar(&mode, "mode", "idle", "Watch mode: idle or poll")
	flag.DurationVar(&idleTimeout, "idle-timeout", 25*time.Minute, "Restart IDLE after this delay without new messages")
	flag.DurationVar(&pollInterval, "poll-interval", time.Minute, "Delay between two searches in poll mode")
	flag.StringVar(&statePath, "state", "", "Database file keeping the last seen UID in poll mode")
	flag.StringVar(&metricsAddr, "metrics", "", "Listening address for Prometheus metrics, e.g. localhost:9090")
	flag.StringVar(&logLevel, "log-level", "info", "Log level")
	flag.BoolVar(&debug, "debug", false, "Print all commands and responses")
	flag.Parse()

	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		logrus.WithError(err).Fatal("Invalid log level")
	}
	logrus.SetLevel(level)

	cfg := loadConfig(envFile)
	security, err := imapclient.ParseSecurity(cfg.Security)
	if err != nil {
		logrus.WithError(err).Fatal("Invalid IMAP_SECURITY")
	}
	auth, err := imapwatch.ParseAuth(cfg.Auth)
	if err != nil {
		logrus.WithError(err).Fatal("Invalid IMAP_AUTH")
	}

	options := &imapclient.Options{
		Security: security,
		Logger:   logrus.StandardLogger(),
	}
	if debug {
		options.DebugWriter = os.Stderr
	}

	watchConfig := &imapwatch.Config{
		Host:         cfg.Host,
		Port:         cfg.Port,
		Username:     cfg.Username,
		Password:     cfg.Password,
		Auth:         auth,
		Mailbox:      cfg.Mailbox,
		Options:      options,
		IdleTimeout:  idleTimeout,
		PollInterval: pollInterval,
		Logger:       logrus.StandardLogger(),
	}

	if metricsAddr != "" {
		go serveMetrics(metricsAddr)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch mode {
	case "idle":
		err = runIdle(ctx, watchConfig)
	case "poll":
		err = runPoll(ctx, watchConfig)
	default:
		logrus.Fatalf("Unknown mode %q", mode)
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		logrus.WithError(err).Fatal("Watch failed")
	}
}

func serveMetrics(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	logrus.WithField("addr", addr).Info("Serving metrics")
	if err := http.ListenAndServe(addr, mux); err != nil {
		logrus.WithError(err).Error("Metrics server failed")
	}
}

func runIdle(ctx context.Context, cfg *imapwatch.Config) error {
	return imapwatch.NewIdler(cfg).Run(ctx, func(seqNum uint32) error {
		logrus.WithField("seq", seqNum).Info("New message")
		return nil
	})
}

func runPoll(ctx context.Context, cfg *imapwatch.Config) error {
	var store imapwatch.WatermarkStore
	if statePath != "" {
		boltStore, err := imapwatch.OpenBoltStore(statePath)
		if err != nil {
			return err
		}
		defer boltStore.Close()
		store = boltStore
	}

	return imapwatch.NewPoller(cfg, store).Run(ctx, func(client *imapclient.Client, uid imap.UID) error {
		log := logrus.WithField("uid", uid)

		msgs, err := client.Fetch(imap.UIDSetNum(uid), imapclient.FetchItemFlags, imapclient.FetchItemBodyHeader)
		if err != nil {
			return err
		} else if len(msgs) == 0 {
			log.Warn("New message expunged before it could be fetched")
			return nil
		}

		header, err := msgs[0].Header("HEADER")
		if err != nil {
			log.WithError(err).Warn("Failed to parse message header")
			return nil
		}
		log.WithFields(logrus.Fields{
			"from":    header.Get("From"),
			"subject": header.Get("Subject"),
		}).Info("New message")
		return nil
	})
}
