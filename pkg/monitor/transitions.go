package monitor

// Copyright (c) the dnssteer authors.
// Licensed under the Apache License 2.0.

import (
	"github.com/dnssteer/dnssteer/pkg/api"
	"github.com/dnssteer/dnssteer/pkg/notify"
)

// checkTransitions compares each node's health against the previous cycle
// and emits a state-change event on every Healthy⇄Unhealthy edge. A node's
// first observation only records its state, so a restart does not produce a
// notification storm.
func (mon *monitor) checkTransitions(nodes []api.NodeStatus) {
	stats := notify.NodeStats{Total: len(nodes)}
	for _, n := range nodes {
		if n.IsHealthy() {
			stats.Online++
		}
		if n.IsDisabled {
			stats.Disabled++
		}
	}

	for _, n := range nodes {
		curr := n.IsHealthy()
		prev, seen := mon.previousHealth[n.Address]
		mon.previousHealth[n.Address] = curr

		if !seen || prev == curr {
			continue
		}

		state := "healthy"
		reason := ""
		if !curr {
			state = "unhealthy"
			reason = n.UnhealthyReason()
		}
		mon.baseLog.Printf("node %s (%s) became %s", n.Name, n.Address, state)

		mon.sink.Enqueue(notify.NodeStateChange{
			NodeName:       n.Name,
			NodeAddress:    n.Address,
			CurrentHealthy: curr,
			Stats:          stats,
			Reason:         reason,
		})
	}
}

// checkCriticalState fires the all-down alert on the edge into the fully
// down state and re-arms it only once at least one node has recovered.
func (mon *monitor) checkCriticalState(configured, unhealthy []api.NodeStatus) {
	allDown := len(configured) > 0 && len(unhealthy) == len(configured)

	if allDown && !mon.previousAllDown {
		down := make([]string, 0, len(unhealthy))
		for _, n := range unhealthy {
			down = append(down, n.Address)
		}

		mon.baseLog.Errorf("all %d configured nodes are down", len(configured))

		mon.sink.Enqueue(notify.CriticalState{
			TotalNodes: len(configured),
			DownNodes:  down,
		})
	}

	mon.previousAllDown = allDown
}
