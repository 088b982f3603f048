package retry

// Copyright (c) the dnssteer authors.
// Licensed under the Apache License 2.0.

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sirupsen/logrus"
)

// Policy is a capped exponential backoff shared by the outbound API
// adapters. The zero value is not useful; use DefaultPolicy or set the
// fields explicitly.
type Policy struct {
	BaseDelay  time.Duration
	Cap        time.Duration
	MaxRetries uint64 // 0 means retry until the context is cancelled
}

// DefaultPolicy returns the policy used by the API adapters unless
// configured otherwise.
func DefaultPolicy() Policy {
	return Policy{
		BaseDelay:  time.Second,
		Cap:        30 * time.Second,
		MaxRetries: 5,
	}
}

func (p Policy) backOff(ctx context.Context) backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = p.BaseDelay
	b.MaxInterval = p.Cap
	b.MaxElapsedTime = 0

	var bo backoff.BackOff = backoff.WithContext(b, ctx)
	if p.MaxRetries > 0 {
		bo = backoff.WithMaxRetries(bo, p.MaxRetries)
	}
	return bo
}

// Do runs op under the policy, logging each transient failure before the
// next attempt. Errors wrapped with Permanent stop the retries immediately.
func (p Policy) Do(ctx context.Context, log *logrus.Entry, name string, op func() error) error {
	return backoff.RetryNotify(op, p.backOff(ctx), func(err error, d time.Duration) {
		log.Warnf("%s: %s, retrying in %s", name, err, d)
	})
}

// Permanent marks err as non-retryable.
func Permanent(err error) error {
	return backoff.Permanent(err)
}
