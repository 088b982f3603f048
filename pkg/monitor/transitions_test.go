package monitor

// Copyright (c) the dnssteer authors.
// Licensed under the Apache License 2.0.

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dnssteer/dnssteer/pkg/api"
	"github.com/dnssteer/dnssteer/pkg/notify"
)

func transitionMonitor(sink *fakeSink) *monitor {
	return &monitor{
		baseLog:        testLog(),
		sink:           sink,
		previousHealth: map[string]bool{},
	}
}

func TestCheckTransitionsFirstObservationSilent(t *testing.T) {
	sink := &fakeSink{}
	mon := transitionMonitor(sink)

	mon.checkTransitions([]api.NodeStatus{
		healthyNode("node-1", "10.0.0.1", 0),
		downNode("node-2", "10.0.0.2"),
	})

	assert.Empty(t, sink.all())
}

func TestCheckTransitionsEmitsOnEdge(t *testing.T) {
	sink := &fakeSink{}
	mon := transitionMonitor(sink)

	mon.checkTransitions([]api.NodeStatus{healthyNode("node-1", "10.0.0.1", 0)})
	mon.checkTransitions([]api.NodeStatus{downNode("node-1", "10.0.0.1")})

	events := sink.all()
	require.Len(t, events, 1)

	change, ok := events[0].(notify.NodeStateChange)
	require.True(t, ok)
	assert.Equal(t, "node-1", change.NodeName)
	assert.Equal(t, "10.0.0.1", change.NodeAddress)
	assert.False(t, change.CurrentHealthy)
	assert.Equal(t, "disconnected, no core", change.Reason)
}

func TestCheckTransitionsStableStateSilent(t *testing.T) {
	sink := &fakeSink{}
	mon := transitionMonitor(sink)

	nodes := []api.NodeStatus{downNode("node-1", "10.0.0.1")}
	mon.checkTransitions(nodes)
	mon.checkTransitions(nodes)
	mon.checkTransitions(nodes)

	assert.Empty(t, sink.all())
}

func TestCheckTransitionsRecovery(t *testing.T) {
	sink := &fakeSink{}
	mon := transitionMonitor(sink)

	mon.checkTransitions([]api.NodeStatus{downNode("node-1", "10.0.0.1")})
	mon.checkTransitions([]api.NodeStatus{healthyNode("node-1", "10.0.0.1", 3)})

	events := sink.all()
	require.Len(t, events, 1)

	change, ok := events[0].(notify.NodeStateChange)
	require.True(t, ok)
	assert.True(t, change.CurrentHealthy)
	assert.Empty(t, change.Reason)
}

func TestCheckTransitionsStats(t *testing.T) {
	sink := &fakeSink{}
	mon := transitionMonitor(sink)

	disabled := api.NodeStatus{
		Name:        "node-3",
		Address:     "10.0.0.3",
		IsConnected: true,
		IsDisabled:  true,
		CoreVersion: "1.8.0",
	}

	first := []api.NodeStatus{
		healthyNode("node-1", "10.0.0.1", 0),
		healthyNode("node-2", "10.0.0.2", 0),
		disabled,
	}
	mon.checkTransitions(first)

	second := []api.NodeStatus{
		healthyNode("node-1", "10.0.0.1", 0),
		downNode("node-2", "10.0.0.2"),
		disabled,
	}
	mon.checkTransitions(second)

	events := sink.all()
	require.Len(t, events, 1)

	change := events[0].(notify.NodeStateChange)
	assert.Equal(t, notify.NodeStats{Total: 3, Online: 1, Disabled: 1}, change.Stats)
}

func TestCheckCriticalStateFiresOnce(t *testing.T) {
	sink := &fakeSink{}
	mon := transitionMonitor(sink)

	nodes := []api.NodeStatus{
		downNode("node-1", "10.0.0.1"),
		downNode("node-2", "10.0.0.2"),
	}

	mon.checkCriticalState(nodes, nodes)
	mon.checkCriticalState(nodes, nodes)

	events := sink.all()
	require.Len(t, events, 1)

	critical, ok := events[0].(notify.CriticalState)
	require.True(t, ok)
	assert.Equal(t, 2, critical.TotalNodes)
	assert.ElementsMatch(t, []string{"10.0.0.1", "10.0.0.2"}, critical.DownNodes)
}

func TestCheckCriticalStateRearmsAfterRecovery(t *testing.T) {
	sink := &fakeSink{}
	mon := transitionMonitor(sink)

	down := []api.NodeStatus{downNode("node-1", "10.0.0.1"), downNode("node-2", "10.0.0.2")}

	mon.checkCriticalState(down, down)
	require.Len(t, sink.all(), 1)

	// one node back: state clears, alert re-armed
	mon.checkCriticalState(down, down[1:])
	require.Len(t, sink.all(), 1)

	mon.checkCriticalState(down, down)
	assert.Len(t, sink.all(), 2)
}

func TestCheckCriticalStatePartialOutageSilent(t *testing.T) {
	sink := &fakeSink{}
	mon := transitionMonitor(sink)

	configured := []api.NodeStatus{
		healthyNode("node-1", "10.0.0.1", 0),
		downNode("node-2", "10.0.0.2"),
	}

	mon.checkCriticalState(configured, configured[1:])
	assert.Empty(t, sink.all())
}

func TestCheckCriticalStateNoNodes(t *testing.T) {
	sink := &fakeSink{}
	mon := transitionMonitor(sink)

	mon.checkCriticalState(nil, nil)
	assert.Empty(t, sink.all())
}
