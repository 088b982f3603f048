package monitor

// Copyright (c) the dnssteer authors.
// Licensed under the Apache License 2.0.

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dnssteer/dnssteer/pkg/util/recover"
)

// serveHealthz exposes readiness and metrics for the monitoring loop. The
// server lives for the lifetime of ctx.
func (mon *monitor) serveHealthz(ctx context.Context) {
	defer recover.Panic(mon.baseLog)

	r := chi.NewRouter()
	r.Get("/healthz/ready", func(w http.ResponseWriter, r *http.Request) {
		if !mon.checkReady() {
			http.Error(w, "not ready", http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
	})
	r.Handle("/metrics", promhttp.Handler())

	s := &http.Server{
		Addr:         mon.env.ListenAddress(),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.Shutdown(shutdownCtx)
	}()

	if err := s.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		mon.baseLog.Error(err)
	}
}
