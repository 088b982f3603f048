package capacity

// Copyright (c) the dnssteer authors.
// Licensed under the Apache License 2.0.

import (
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/dnssteer/dnssteer/pkg/api"
	"github.com/dnssteer/dnssteer/pkg/env"
	"github.com/dnssteer/dnssteer/pkg/metrics"
	"github.com/dnssteer/dnssteer/pkg/notify"
)

// Filter narrows a zone's healthy address set by capacity. It holds the only
// cross-cycle mutable state of the load-balancing logic: the set of
// addresses currently throttled. Hysteresis: an address is throttled when
// its user count strictly exceeds MaxUsers and restored when it drops
// strictly below RecoverUsers; in between, its state does not change.
type Filter struct {
	log  *logrus.Entry
	cfg  env.LoadBalancing
	m    metrics.Emitter
	sink notify.Sink

	mu         sync.Mutex
	overloaded map[string]struct{}
}

// NewFilter builds a Filter with an empty overload set.
func NewFilter(log *logrus.Entry, cfg env.LoadBalancing, m metrics.Emitter, sink notify.Sink) *Filter {
	return &Filter{
		log:  log,
		cfg:  cfg,
		m:    m,
		sink: sink,

		overloaded: map[string]struct{}{},
	}
}

// Apply returns the effective eligible address set for zone. Addresses not
// configured in this zone pass through untouched; zone addresses are removed
// when they cross the throttle threshold and restored when they cross the
// recovery threshold, subject to the min-active-nodes floor. When load
// balancing is disabled the healthy set is returned unchanged.
func (f *Filter) Apply(zone api.Zone, healthy map[string]struct{}, usersByIP map[string]int, nodesByIP map[string]api.NodeStatus) map[string]struct{} {
	if !f.cfg.Enabled {
		return healthy
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	effective := make(map[string]struct{}, len(healthy))
	for addr := range healthy {
		effective[addr] = struct{}{}
	}

	var zoneHealthy []string
	for _, ip := range zone.IPs {
		if _, ok := healthy[ip]; ok {
			zoneHealthy = append(zoneHealthy, ip)
		}
	}

	f.logCapacity(zone, zoneHealthy, usersByIP)

	// throttle phase
	for _, ip := range zoneHealthy {
		users := usersByIP[ip]
		if users <= f.cfg.MaxUsers {
			continue
		}
		if _, ok := f.overloaded[ip]; ok {
			continue
		}

		active := 0
		for _, other := range zoneHealthy {
			_, eligible := effective[other]
			_, over := f.overloaded[other]
			if eligible && !over {
				active++
			}
		}
		if active <= f.cfg.MinActiveNodes {
			f.log.Warnf("%s: %s overloaded (%d users) but keeping active (min-active-nodes=%d)", zone.FullDomain(), ip, users, f.cfg.MinActiveNodes)
			f.m.EmitGauge("capacity.floor.held", 1, map[string]string{
				"zone":    zone.FullDomain(),
				"address": ip,
			})
			continue
		}

		f.overloaded[ip] = struct{}{}
		delete(effective, ip)
		f.log.Printf("%s: throttled %s (%d users > %d max)", zone.FullDomain(), ip, users, f.cfg.MaxUsers)

		f.sink.Enqueue(notify.CapacityChange{
			NodeName:    f.nodeName(nodesByIP, ip),
			NodeAddress: ip,
			UsersOnline: users,
			Threshold:   f.cfg.MaxUsers,
			Action:      notify.CapacityThrottled,
			ZoneName:    zone.Name,
			Domain:      zone.Domain,
		})
	}

	// recovery phase; throttled addresses outside this zone's configuration,
	// and unhealthy ones, are left to ordinary health logic
	for ip := range f.overloaded {
		if !zoneContains(zone.IPs, ip) {
			continue
		}
		if _, ok := healthy[ip]; !ok {
			continue
		}

		users := usersByIP[ip]
		if users >= f.cfg.RecoverUsers {
			// still inside the hysteresis band
			delete(effective, ip)
			continue
		}

		delete(f.overloaded, ip)
		f.log.Printf("%s: restored %s (%d users < %d recover)", zone.FullDomain(), ip, users, f.cfg.RecoverUsers)

		f.sink.Enqueue(notify.CapacityChange{
			NodeName:    f.nodeName(nodesByIP, ip),
			NodeAddress: ip,
			UsersOnline: users,
			Threshold:   f.cfg.RecoverUsers,
			Action:      notify.CapacityRestored,
			ZoneName:    zone.Name,
			Domain:      zone.Domain,
		})
	}

	return effective
}

// Overloaded returns a snapshot of the throttled address set.
func (f *Filter) Overloaded() map[string]struct{} {
	f.mu.Lock()
	defer f.mu.Unlock()

	snapshot := make(map[string]struct{}, len(f.overloaded))
	for addr := range f.overloaded {
		snapshot[addr] = struct{}{}
	}
	return snapshot
}

func (f *Filter) logCapacity(zone api.Zone, zoneHealthy []string, usersByIP map[string]int) {
	for _, ip := range zoneHealthy {
		state := "ok"
		if _, ok := f.overloaded[ip]; ok {
			state = "throttled"
		}
		f.log.Debugf("%s: %s %d users (%s)", zone.FullDomain(), ip, usersByIP[ip], state)
	}
}

func (f *Filter) nodeName(nodesByIP map[string]api.NodeStatus, ip string) string {
	if node, ok := nodesByIP[ip]; ok && node.Name != "" {
		return node.Name
	}
	return ip
}

func zoneContains(ips []string, ip string) bool {
	for _, candidate := range ips {
		if candidate == ip {
			return true
		}
	}
	return false
}
