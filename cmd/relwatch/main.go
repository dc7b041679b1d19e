package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/coreos/go-systemd/v22/daemon"

	"relwatch/internal/config"
	"relwatch/internal/monitor"
	"relwatch/internal/notify"
	"relwatch/internal/release"
	"relwatch/internal/statestore"
	logx "relwatch/pkg/logx"
)

func main() {
	var cfgPath string
	flag.StringVar(&cfgPath, "config", "./config.yaml", "path to config file (json or yaml)")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, cfgPath); err != nil && !errors.Is(err, context.Canceled) {
		fmt.Println("fatal:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfgPath string) error {
	mgr := config.NewManager(cfgPath)
	cfg, err := mgr.Load()
	if err != nil {
		return err
	}

	logSvc, log := logx.New(loggingConfig(cfg))
	defer logSvc.Close()
	mgr.SetLogger(log.With(logx.String("comp", "config")))

	spec, err := monitor.ParseSchedule(cfg.Schedule)
	if err != nil {
		return err
	}
	feedTimeout, err := config.ParseDurationField("feed.timeout", cfg.Feed.Timeout)
	if err != nil {
		return err
	}
	sendTimeout, err := config.ParseDurationField("telegram.send_timeout", cfg.Telegram.SendTimeout)
	if err != nil {
		return err
	}
	busyTimeout, err := config.ParseDurationField("storage.busy_timeout", cfg.Storage.BusyTimeout)
	if err != nil {
		return err
	}

	store, err := statestore.Open(statestore.Config{
		Driver:      cfg.Storage.Driver,
		Path:        cfg.Storage.Path,
		BusyTimeout: busyTimeout,
	}, log.With(logx.String("comp", "statestore")))
	if err != nil {
		return err
	}
	if store != nil {
		defer store.Close()
	}

	sender, err := notify.NewTelegram(notify.TelegramConfig{
		Token:       cfg.Telegram.Token,
		ChatID:      cfg.Telegram.ChatID,
		ThreadID:    cfg.Telegram.ThreadID,
		SendTimeout: sendTimeout,
	}, log.With(logx.String("comp", "telegram")))
	if err != nil {
		return err
	}
	notifier := notify.New(notify.Config{RatePerSec: cfg.Telegram.RatePerSec}, sender,
		log.With(logx.String("comp", "notify")))

	feed, err := release.NewClient(release.ClientConfig{
		URL:     cfg.Feed.URL,
		Timeout: feedTimeout,
	}, log.With(logx.String("comp", "feed")))
	if err != nil {
		return err
	}

	checker := monitor.NewChecker(ctx, cfg.Feed.Project, feed, store, notifier,
		log.With(logx.String("comp", "checker")))
	mon := monitor.New(cfg.Feed.Project, spec, checker, notifier,
		log.With(logx.String("comp", "monitor")))

	// Hot reload: schedule, notification rate and logging only. Credentials
	// and the feed URL need a restart.
	go func() {
		err := mgr.Watch(ctx, func(c *config.Config) {
			logSvc.Apply(loggingConfig(c))
			notifier.Apply(notify.Config{RatePerSec: c.Telegram.RatePerSec})
			if sp, err := monitor.ParseSchedule(c.Schedule); err == nil {
				mon.Apply(sp)
			} else {
				log.Warn("ignoring reloaded schedule", logx.Err(err))
			}
		})
		if err != nil && !errors.Is(err, context.Canceled) {
			log.Warn("config watch stopped", logx.Err(err))
		}
	}()

	_, _ = daemon.SdNotify(false, daemon.SdNotifyReady)
	defer func() { _, _ = daemon.SdNotify(false, daemon.SdNotifyStopping) }()

	return mon.Run(ctx)
}

func loggingConfig(cfg *config.Config) logx.Config {
	return logx.Config{
		Level:   cfg.Logging.Level,
		Console: cfg.Logging.Console,
		File: logx.FileConfig{
			Enabled: cfg.Logging.File.Enabled,
			Path:    cfg.Logging.File.Path,
		},
	}
}
