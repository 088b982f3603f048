package notify

// Copyright (c) the dnssteer authors.
// Licensed under the Apache License 2.0.

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/dnssteer/dnssteer/pkg/env"
	"github.com/dnssteer/dnssteer/pkg/util/recover"
	"github.com/dnssteer/dnssteer/pkg/util/retry"
)

const (
	queueSize      = 100
	rateLimitDelay = 100 * time.Millisecond
)

// Sink is what event producers see: fire-and-forget enqueueing that never
// blocks and never fails the caller.
type Sink interface {
	Enqueue(Event)
}

// Notifier formats events and delivers them to a chat backend from a single
// background worker. The queue is bounded; when it is full the newest
// message is dropped rather than blocking a health-check cycle.
type Notifier struct {
	log       *logrus.Entry
	cfg       env.Telegram
	formatter *Formatter
	sender    Sender
	policy    retry.Policy
	enabled   bool

	mu     sync.Mutex
	closed bool
	queue  chan string
	done   chan struct{}
	cancel context.CancelFunc
}

// New builds a Notifier. A nil sender or disabled config yields a no-op
// notifier whose Enqueue discards everything.
func New(log *logrus.Entry, cfg env.Telegram, sender Sender) *Notifier {
	return &Notifier{
		log:       log,
		cfg:       cfg,
		formatter: NewFormatter(cfg.Locale),
		sender:    sender,
		policy:    retry.Policy{BaseDelay: time.Second, Cap: 30 * time.Second, MaxRetries: 3},
		enabled:   cfg.Enabled && sender != nil,
		queue:     make(chan string, queueSize),
		done:      make(chan struct{}),
	}
}

// Start launches the delivery worker.
func (n *Notifier) Start() {
	if !n.enabled {
		close(n.done)
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	n.cancel = cancel

	go n.worker(ctx)

	n.log.Printf("notifier started, locale %s", n.cfg.Locale)
}

func (n *Notifier) worker(ctx context.Context) {
	defer recover.Panic(n.log)
	defer close(n.done)

	for msg := range n.queue {
		err := n.policy.Do(ctx, n.log, "notification send", func() error {
			return n.sender.Send(ctx, msg)
		})
		if err != nil {
			n.log.Errorf("dropping notification after retries: %s", err)
		}

		time.Sleep(rateLimitDelay)
	}
}

// Enqueue formats e and queues it for delivery. Events in disabled
// categories and empty renderings are discarded.
func (n *Notifier) Enqueue(e Event) {
	if !n.enabled || !n.allowed(e) {
		return
	}

	msg := n.formatter.Format(e)
	if msg == "" {
		return
	}

	n.mu.Lock()
	defer n.mu.Unlock()

	if n.closed {
		return
	}

	select {
	case n.queue <- msg:
	default:
		n.log.Warn("notification queue full, dropping message")
	}
}

func (n *Notifier) allowed(e Event) bool {
	switch e.(type) {
	case NodeStateChange:
		return n.cfg.NotifyNodeChanges
	case DNSChange:
		return n.cfg.NotifyDNSChanges
	case DNSError, HealthCheckError:
		return n.cfg.NotifyErrors
	case CriticalState:
		return n.cfg.NotifyCritical
	}
	return true
}

// Close stops accepting events and gives the worker a bounded grace period
// to drain the queue before its in-flight sends are cancelled.
func (n *Notifier) Close(grace time.Duration) {
	n.mu.Lock()
	if n.closed {
		n.mu.Unlock()
		return
	}
	n.closed = true
	close(n.queue)
	n.mu.Unlock()

	if !n.enabled {
		return
	}

	select {
	case <-n.done:
	case <-time.After(grace):
		n.cancel()
		<-n.done
	}

	n.log.Print("notifier stopped")
}
