package notify

// Copyright (c) the dnssteer authors.
// Licensed under the Apache License 2.0.

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dnssteer/dnssteer/pkg/env"
)

type fakeSender struct {
	mu       sync.Mutex
	messages []string
	err      error
}

func (s *fakeSender) Send(ctx context.Context, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.messages = append(s.messages, text)
	return nil
}

func (s *fakeSender) sent() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string{}, s.messages...)
}

func allOn() env.Telegram {
	return env.Telegram{
		Enabled:           true,
		Locale:            "en",
		NotifyDNSChanges:  true,
		NotifyNodeChanges: true,
		NotifyErrors:      true,
		NotifyCritical:    true,
	}
}

func notifierLog() *logrus.Entry {
	return logrus.NewEntry(logrus.StandardLogger())
}

func TestNotifierDelivers(t *testing.T) {
	sender := &fakeSender{}
	n := New(notifierLog(), allOn(), sender)
	n.Start()

	n.Enqueue(ServiceStarted{})
	n.Enqueue(DNSChange{Domain: "example.com", ZoneName: "vpn", IPAddress: "10.0.0.1", Action: DNSAdded})

	n.Close(5 * time.Second)

	messages := sender.sent()
	require.Len(t, messages, 2)
	assert.Equal(t, "🟢 DNS steering service started", messages[0])
	assert.Contains(t, messages[1], "vpn.example.com")
}

func TestNotifierDisabledDiscards(t *testing.T) {
	sender := &fakeSender{}
	cfg := allOn()
	cfg.Enabled = false

	n := New(notifierLog(), cfg, sender)
	n.Start()

	n.Enqueue(ServiceStarted{})
	n.Close(time.Second)

	assert.Empty(t, sender.sent())
}

func TestNotifierNilSenderDiscards(t *testing.T) {
	n := New(notifierLog(), allOn(), nil)
	n.Start()

	n.Enqueue(ServiceStarted{})
	n.Close(time.Second)
}

func TestNotifierCategoryGating(t *testing.T) {
	for _, tt := range []struct {
		name      string
		configure func(*env.Telegram)
		event     Event
	}{
		{
			name:      "node changes",
			configure: func(cfg *env.Telegram) { cfg.NotifyNodeChanges = false },
			event:     NodeStateChange{NodeName: "node-1", NodeAddress: "10.0.0.1"},
		},
		{
			name:      "dns changes",
			configure: func(cfg *env.Telegram) { cfg.NotifyDNSChanges = false },
			event:     DNSChange{Domain: "example.com", ZoneName: "vpn", IPAddress: "10.0.0.1", Action: DNSAdded},
		},
		{
			name:      "dns errors",
			configure: func(cfg *env.Telegram) { cfg.NotifyErrors = false },
			event:     DNSError{Domain: "example.com", ZoneName: "vpn", IPAddress: "10.0.0.1", Action: DNSAdded, Message: "boom"},
		},
		{
			name:      "health check errors",
			configure: func(cfg *env.Telegram) { cfg.NotifyErrors = false },
			event:     HealthCheckError{Message: "boom"},
		},
		{
			name:      "critical",
			configure: func(cfg *env.Telegram) { cfg.NotifyCritical = false },
			event:     CriticalState{TotalNodes: 1, DownNodes: []string{"10.0.0.1"}},
		},
	} {
		t.Run(tt.name, func(t *testing.T) {
			sender := &fakeSender{}
			cfg := allOn()
			tt.configure(&cfg)

			n := New(notifierLog(), cfg, sender)
			n.Start()

			n.Enqueue(tt.event)
			n.Close(5 * time.Second)

			assert.Empty(t, sender.sent())
		})
	}
}

func TestNotifierLifecycleEventsAlwaysAllowed(t *testing.T) {
	sender := &fakeSender{}
	cfg := allOn()
	cfg.NotifyDNSChanges = false
	cfg.NotifyNodeChanges = false
	cfg.NotifyErrors = false
	cfg.NotifyCritical = false

	n := New(notifierLog(), cfg, sender)
	n.Start()

	n.Enqueue(ServiceStarted{})
	n.Enqueue(ServiceStopped{})
	n.Close(5 * time.Second)

	assert.Len(t, sender.sent(), 2)
}

func TestNotifierEnqueueAfterCloseIsSafe(t *testing.T) {
	sender := &fakeSender{}
	n := New(notifierLog(), allOn(), sender)
	n.Start()

	n.Close(time.Second)

	// must not panic on the closed queue
	n.Enqueue(ServiceStarted{})
	n.Close(time.Second)
}

func TestNotifierSendFailureDoesNotStopWorker(t *testing.T) {
	sender := &fakeSender{err: fmt.Errorf("telegram down")}
	n := New(notifierLog(), allOn(), sender)
	n.policy.BaseDelay = time.Millisecond
	n.policy.Cap = time.Millisecond
	n.policy.MaxRetries = 1
	n.Start()

	n.Enqueue(ServiceStarted{})

	// worker drops the message after retries and keeps draining
	sender.mu.Lock()
	sender.err = nil
	sender.mu.Unlock()

	n.Enqueue(ServiceStopped{})
	n.Close(5 * time.Second)

	messages := sender.sent()
	require.NotEmpty(t, messages)
	assert.Equal(t, "🔴 DNS steering service stopped", messages[len(messages)-1])
}
