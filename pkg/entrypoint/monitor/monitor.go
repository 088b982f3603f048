package monitor

// Copyright (c) the dnssteer authors.
// Licensed under the Apache License 2.0.

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"github.com/dnssteer/dnssteer/pkg/capacity"
	"github.com/dnssteer/dnssteer/pkg/dns"
	"github.com/dnssteer/dnssteer/pkg/env"
	metricsprometheus "github.com/dnssteer/dnssteer/pkg/metrics/prometheus"
	pkgmonitor "github.com/dnssteer/dnssteer/pkg/monitor"
	"github.com/dnssteer/dnssteer/pkg/notify"
	"github.com/dnssteer/dnssteer/pkg/status"
	"github.com/dnssteer/dnssteer/pkg/util/cloudflare"
	utillog "github.com/dnssteer/dnssteer/pkg/util/log"
	"github.com/dnssteer/dnssteer/pkg/util/retry"
	"github.com/dnssteer/dnssteer/pkg/util/version"
)

const notifierGrace = 5 * time.Second

func start(ctx context.Context, log *logrus.Entry, cfg *Config) error {
	log.Printf("starting, git commit %s", version.GitCommit)

	_env, err := env.New(log, cfg.ConfigFile)
	if err != nil {
		return err
	}

	if cfg.LogLevel == "" {
		log = utillog.GetLogger(_env.LogLevel())
	}

	m := metricsprometheus.New(prometheus.DefaultRegisterer)
	policy := retry.DefaultPolicy()

	statusClient := status.NewClient(log.WithField("component", "status"), _env.StatusAPIURL(), _env.StatusAPIToken(), policy)

	records, err := cloudflare.NewRecordsClient(log.WithField("component", "cloudflare"), _env.CloudflareToken(), policy)
	if err != nil {
		return err
	}

	var sender notify.Sender
	if _env.Telegram().Enabled {
		sender, err = notify.NewTelegramSender(_env.Telegram().BotToken, _env.Telegram().ChatID, _env.Telegram().TopicID)
		if err != nil {
			return err
		}
	}

	notifier := notify.New(log.WithField("component", "notify"), _env.Telegram(), sender)
	notifier.Start()
	defer notifier.Close(notifierGrace)

	filter := capacity.NewFilter(log.WithField("component", "capacity"), _env.LoadBalancing(), m, notifier)
	dnsManager := dns.NewManager(log.WithField("component", "dns"), records, m, notifier)

	mon := pkgmonitor.NewMonitor(log.WithField("component", "monitor"), _env, statusClient, records, dnsManager, filter, m, notifier)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	notifier.Enqueue(notify.ServiceStarted{})
	defer notifier.Enqueue(notify.ServiceStopped{})

	return mon.Run(ctx)
}
