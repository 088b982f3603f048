package prometheus

// Copyright (c) the dnssteer authors.
// Licensed under the Apache License 2.0.

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmitGauge(t *testing.T) {
	registry := prometheus.NewRegistry()
	e := New(registry)

	e.EmitGauge("monitor.nodes.count", 3, nil)

	err := testutil.CollectAndCompare(registry, strings.NewReader(`
# TYPE monitor_nodes_count gauge
monitor_nodes_count 3
`), "monitor_nodes_count")
	require.NoError(t, err)
}

func TestEmitGaugeWithDims(t *testing.T) {
	registry := prometheus.NewRegistry()
	e := New(registry)

	e.EmitGauge("monitor.node.users", 12, map[string]string{"address": "10.0.0.1", "healthy": "true"})
	e.EmitGauge("monitor.node.users", 4, map[string]string{"address": "10.0.0.2", "healthy": "false"})

	err := testutil.CollectAndCompare(registry, strings.NewReader(`
# TYPE monitor_node_users gauge
monitor_node_users{address="10.0.0.1",healthy="true"} 12
monitor_node_users{address="10.0.0.2",healthy="false"} 4
`), "monitor_node_users")
	require.NoError(t, err)
}

func TestEmitGaugeOverwritesValue(t *testing.T) {
	registry := prometheus.NewRegistry()
	e := New(registry)

	e.EmitGauge("monitor.nodes.healthy", 3, nil)
	e.EmitGauge("monitor.nodes.healthy", 1, nil)

	err := testutil.CollectAndCompare(registry, strings.NewReader(`
# TYPE monitor_nodes_healthy gauge
monitor_nodes_healthy 1
`), "monitor_nodes_healthy")
	require.NoError(t, err)
}

func TestEmitFloat(t *testing.T) {
	registry := prometheus.NewRegistry()
	e := New(registry)

	e.EmitFloat("monitor.cycle.duration", 1.5, nil)

	assert.Equal(t, 1, testutil.CollectAndCount(registry, "monitor_cycle_duration"))
}
