package metrics

// Copyright (c) the dnssteer authors.
// Licensed under the Apache License 2.0.

// Emitter emits metrics to the configured backend.
type Emitter interface {
	EmitFloat(string, float64, map[string]string)
	EmitGauge(string, int64, map[string]string)
}
