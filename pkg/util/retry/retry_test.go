package retry

// Copyright (c) the dnssteer authors.
// Licensed under the Apache License 2.0.

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastPolicy(maxRetries uint64) Policy {
	return Policy{
		BaseDelay:  time.Millisecond,
		Cap:        time.Millisecond,
		MaxRetries: maxRetries,
	}
}

func retryLog() *logrus.Entry {
	return logrus.NewEntry(logrus.StandardLogger())
}

func TestDoSucceedsFirstTry(t *testing.T) {
	calls := 0
	err := fastPolicy(3).Do(context.Background(), retryLog(), "op", func() error {
		calls++
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestDoRetriesTransientErrors(t *testing.T) {
	calls := 0
	err := fastPolicy(3).Do(context.Background(), retryLog(), "op", func() error {
		calls++
		if calls < 3 {
			return fmt.Errorf("transient")
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestDoExhaustsRetries(t *testing.T) {
	calls := 0
	err := fastPolicy(2).Do(context.Background(), retryLog(), "op", func() error {
		calls++
		return fmt.Errorf("always failing")
	})
	require.Error(t, err)
	assert.Equal(t, "always failing", err.Error())
	// initial attempt plus two retries
	assert.Equal(t, 3, calls)
}

func TestDoPermanentStopsImmediately(t *testing.T) {
	calls := 0
	err := fastPolicy(5).Do(context.Background(), retryLog(), "op", func() error {
		calls++
		return Permanent(fmt.Errorf("bad request"))
	})
	require.Error(t, err)
	assert.Equal(t, "bad request", err.Error())
	assert.Equal(t, 1, calls)
}

func TestDoRespectsContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	calls := 0
	err := Policy{BaseDelay: time.Hour, Cap: time.Hour}.Do(ctx, retryLog(), "op", func() error {
		calls++
		cancel()
		return fmt.Errorf("transient")
	})
	require.Error(t, err)
	assert.Equal(t, 1, calls)
}
