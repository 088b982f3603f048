package monitor

// Copyright (c) the dnssteer authors.
// Licensed under the Apache License 2.0.

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/dnssteer/dnssteer/pkg/capacity"
	"github.com/dnssteer/dnssteer/pkg/dns"
	"github.com/dnssteer/dnssteer/pkg/env"
	"github.com/dnssteer/dnssteer/pkg/metrics"
	"github.com/dnssteer/dnssteer/pkg/notify"
	"github.com/dnssteer/dnssteer/pkg/status"
	"github.com/dnssteer/dnssteer/pkg/util/cloudflare"
	"github.com/dnssteer/dnssteer/pkg/util/heartbeat"
)

type monitor struct {
	baseLog *logrus.Entry
	env     env.Interface

	status  status.Client
	records cloudflare.RecordsClient
	dns     dns.Manager
	filter  *capacity.Filter

	m    metrics.Emitter
	sink notify.Sink

	mu      sync.Mutex
	zoneIDs map[string]string // domain -> provider zone id, successes only

	previousHealth  map[string]bool
	previousAllDown bool

	startTime time.Time
	lastCycle atomic.Value // time.Time
}

type Runnable interface {
	Run(context.Context) error
}

// NewMonitor builds the monitoring orchestrator. All cross-cycle state
// (zone-id cache, previous health, the filter's overload set) lives in the
// returned instance and is reset on restart.
func NewMonitor(log *logrus.Entry, _env env.Interface, statusClient status.Client, records cloudflare.RecordsClient, dnsManager dns.Manager, filter *capacity.Filter, m metrics.Emitter, sink notify.Sink) Runnable {
	return &monitor{
		baseLog: log,
		env:     _env,

		status:  statusClient,
		records: records,
		dns:     dnsManager,
		filter:  filter,

		m:    m,
		sink: sink,

		zoneIDs:        map[string]string{},
		previousHealth: map[string]bool{},

		startTime: time.Now(),
	}
}

// Run drives health-check cycles at the configured interval until ctx is
// cancelled. At most one cycle is ever in flight; a failed cycle is reported
// and the next one starts after the normal interval.
func (mon *monitor) Run(ctx context.Context) error {
	if err := LogZoneInventory(ctx, mon.baseLog, mon.env, mon.records); err != nil {
		mon.baseLog.Warnf("zone inventory: %s", err)
	}

	go heartbeat.EmitHeartbeat(mon.baseLog, mon.m, "monitor.heartbeat", ctx.Done(), mon.checkReady)
	go mon.serveHealthz(ctx)

	interval := mon.env.CheckInterval()
	mon.baseLog.Printf("starting monitoring loop, interval %s", interval)

	t := time.NewTicker(interval)
	defer t.Stop()

	for {
		if err := mon.runCycle(ctx); err != nil && ctx.Err() == nil {
			mon.baseLog.Errorf("health check failed: %s", err)
		}

		select {
		case <-t.C:
		case <-ctx.Done():
			mon.baseLog.Print("monitoring loop stopped")
			return nil
		}
	}
}

func (mon *monitor) runCycle(ctx context.Context) error {
	mon.baseLog.Print("starting health check cycle")
	start := time.Now()

	err := mon.cycle(ctx)

	mon.m.EmitFloat("monitor.cycle.duration", time.Since(start).Seconds(), nil)

	if err != nil {
		mon.sink.Enqueue(notify.HealthCheckError{Message: err.Error()})
		return err
	}

	mon.lastCycle.Store(time.Now())
	mon.baseLog.Print("health check cycle completed")
	return nil
}

// checkReady reports whether the loop is making progress: at least one
// successful cycle, and the last one not older than three intervals. A
// startup grace of two intervals avoids flapping before the first cycle
// lands.
func (mon *monitor) checkReady() bool {
	last, ok := mon.lastCycle.Load().(time.Time)
	if !ok {
		return time.Since(mon.startTime) < 2*mon.env.CheckInterval()
	}
	return time.Since(last) <= 3*mon.env.CheckInterval()
}

func (mon *monitor) zoneID(ctx context.Context, domain string) (string, error) {
	mon.mu.Lock()
	id, ok := mon.zoneIDs[domain]
	mon.mu.Unlock()
	if ok {
		return id, nil
	}

	id, err := mon.records.ZoneIDByName(ctx, domain)
	if err != nil {
		return "", err
	}

	mon.mu.Lock()
	mon.zoneIDs[domain] = id
	mon.mu.Unlock()

	return id, nil
}
