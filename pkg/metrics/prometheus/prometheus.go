package prometheus

// Copyright (c) the dnssteer authors.
// Licensed under the Apache License 2.0.

import (
	"sort"
	"strings"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/dnssteer/dnssteer/pkg/metrics"
)

// emitter adapts the metrics.Emitter interface onto a prometheus registry.
// Gauge vectors are created lazily on first emission; the label key set of a
// metric is fixed by that first emission.
type emitter struct {
	mu sync.Mutex

	registerer prometheus.Registerer
	gauges     map[string]*prometheus.GaugeVec
}

// New returns an Emitter backed by the given registerer.
func New(registerer prometheus.Registerer) metrics.Emitter {
	return &emitter{
		registerer: registerer,
		gauges:     map[string]*prometheus.GaugeVec{},
	}
}

func (e *emitter) EmitFloat(name string, value float64, dims map[string]string) {
	e.emit(name, value, dims)
}

func (e *emitter) EmitGauge(name string, value int64, dims map[string]string) {
	e.emit(name, float64(value), dims)
}

func (e *emitter) emit(name string, value float64, dims map[string]string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	promName := strings.ReplaceAll(name, ".", "_")

	gv, ok := e.gauges[promName]
	if !ok {
		gv = prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: promName,
		}, labelKeys(dims))
		e.registerer.MustRegister(gv)
		e.gauges[promName] = gv
	}

	gv.With(prometheus.Labels(dims)).Set(value)
}

func labelKeys(dims map[string]string) []string {
	keys := make([]string, 0, len(dims))
	for k := range dims {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
