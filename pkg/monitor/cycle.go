package monitor

// Copyright (c) the dnssteer authors.
// Licensed under the Apache License 2.0.

import (
	"context"
	"strconv"
	"sync"

	"github.com/hashicorp/go-multierror"
	"golang.org/x/sync/errgroup"

	"github.com/dnssteer/dnssteer/pkg/api"
	"github.com/dnssteer/dnssteer/pkg/util/recover"
)

// cycle runs one full health check: fetch snapshots, classify, detect
// transitions, then filter and reconcile every zone. Zones are processed
// concurrently; a zone failure never aborts the others.
func (mon *monitor) cycle(ctx context.Context) error {
	configuredIPs := mon.configuredIPs()

	nodes, err := mon.status.ListNodes(ctx)
	if err != nil {
		return err
	}

	var configured []api.NodeStatus
	for _, n := range nodes {
		if _, ok := configuredIPs[n.Address]; ok {
			configured = append(configured, n)
		}
	}

	healthy := map[string]struct{}{}
	usersByIP := make(map[string]int, len(configured))
	nodesByIP := make(map[string]api.NodeStatus, len(configured))
	var unhealthy []api.NodeStatus

	for _, n := range configured {
		nodesByIP[n.Address] = n
		usersByIP[n.Address] = n.UsersOnline

		if n.IsHealthy() {
			healthy[n.Address] = struct{}{}
		} else {
			unhealthy = append(unhealthy, n)
		}
	}

	mon.baseLog.Printf("nodes: %d/%d healthy", len(healthy), len(configured))
	for _, n := range unhealthy {
		mon.baseLog.Printf("unhealthy: %s (%s)", n.Address, n.UnhealthyReason())
	}

	mon.emitNodeMetrics(configured, len(healthy))

	mon.checkTransitions(configured)
	mon.checkCriticalState(configured, unhealthy)

	var mu sync.Mutex
	var errs *multierror.Error
	var g errgroup.Group

	for _, zone := range mon.env.Zones() {
		zone := zone
		g.Go(func() error {
			defer recover.Panic(mon.baseLog)

			if err := mon.syncZone(ctx, zone, healthy, usersByIP, nodesByIP); err != nil {
				mu.Lock()
				errs = multierror.Append(errs, err)
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()

	return errs.ErrorOrNil()
}

// syncZone resolves the zone id, applies the admission filter and
// reconciles DNS. An unresolvable zone is skipped for this cycle with a
// warning; the cache only ever stores successes, so it is retried next
// cycle.
func (mon *monitor) syncZone(ctx context.Context, zone api.Zone, healthy map[string]struct{}, usersByIP map[string]int, nodesByIP map[string]api.NodeStatus) error {
	zoneID, err := mon.zoneID(ctx, zone.Domain)
	if err != nil {
		mon.baseLog.Warnf("could not resolve zone id for domain %s, skipping: %s", zone.Domain, err)
		return nil
	}

	effective := mon.filter.Apply(zone, healthy, usersByIP, nodesByIP)

	return mon.dns.Sync(ctx, zoneID, zone, effective)
}

func (mon *monitor) configuredIPs() map[string]struct{} {
	ips := map[string]struct{}{}
	for _, zone := range mon.env.Zones() {
		for _, ip := range zone.IPs {
			ips[ip] = struct{}{}
		}
	}
	return ips
}

func (mon *monitor) emitNodeMetrics(configured []api.NodeStatus, healthy int) {
	mon.m.EmitGauge("monitor.nodes.count", int64(len(configured)), nil)
	mon.m.EmitGauge("monitor.nodes.healthy", int64(healthy), nil)

	for _, n := range configured {
		mon.m.EmitGauge("monitor.node.users", int64(n.UsersOnline), map[string]string{
			"address": n.Address,
			"healthy": strconv.FormatBool(n.IsHealthy()),
		})
	}
}
