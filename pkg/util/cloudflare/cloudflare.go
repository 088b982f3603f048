package cloudflare

// Copyright (c) the dnssteer authors.
// Licensed under the Apache License 2.0.

import (
	"context"
	"errors"
	"sync"
	"time"

	cf "github.com/cloudflare/cloudflare-go"
	"github.com/sirupsen/logrus"

	"github.com/dnssteer/dnssteer/pkg/api"
	"github.com/dnssteer/dnssteer/pkg/util/retry"
)

//go:generate go run go.uber.org/mock/mockgen -destination=../mocks/$GOPACKAGE/$GOPACKAGE.go github.com/dnssteer/dnssteer/pkg/util/$GOPACKAGE RecordsClient

// RecordsClient is the DNS provider surface the reconciler needs. Reads are
// never cached: a list issued after a create in the same process observes
// the created record.
type RecordsClient interface {
	DNSRecords(ctx context.Context, zoneID, name, recordType string) ([]api.Record, error)
	CreateDNSRecord(ctx context.Context, zoneID string, record api.Record) error
	DeleteDNSRecord(ctx context.Context, zoneID, recordID string) error
	ZoneIDByName(ctx context.Context, domain string) (string, error)
}

type client struct {
	log    *logrus.Entry
	cf     *cf.API
	policy retry.Policy

	// minimum spacing between outbound calls, to stay under the provider's
	// rate limit
	spacing time.Duration
	mu      sync.Mutex
	last    time.Time
}

// NewRecordsClient builds a RecordsClient for the given API token.
func NewRecordsClient(log *logrus.Entry, token string, policy retry.Policy) (RecordsClient, error) {
	capi, err := cf.NewWithAPIToken(token)
	if err != nil {
		return nil, err
	}

	return &client{
		log:    log,
		cf:     capi,
		policy: policy,

		spacing: 250 * time.Millisecond,
	}, nil
}

func (c *client) pace() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if wait := c.spacing - time.Since(c.last); wait > 0 {
		time.Sleep(wait)
	}
	c.last = time.Now()
}

func (c *client) DNSRecords(ctx context.Context, zoneID, name, recordType string) ([]api.Record, error) {
	var records []api.Record

	err := c.policy.Do(ctx, c.log, "list dns records", func() error {
		c.pace()

		rrs, err := c.cf.DNSRecords(ctx, zoneID, cf.DNSRecord{
			Type: recordType,
			Name: name,
		})
		if err != nil {
			return err
		}

		records = records[:0]
		for _, rr := range rrs {
			records = append(records, fromProvider(rr))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	c.log.Debugf("found %d dns records for zone %s", len(records), zoneID)

	return records, nil
}

func (c *client) CreateDNSRecord(ctx context.Context, zoneID string, record api.Record) error {
	proxied := record.Proxied

	return c.policy.Do(ctx, c.log, "create dns record", func() error {
		c.pace()

		_, err := c.cf.CreateDNSRecord(ctx, zoneID, cf.DNSRecord{
			Type:    record.Type,
			Name:    record.Name,
			Content: record.Content,
			TTL:     record.TTL,
			Proxied: &proxied,
		})
		if isClientError(err) {
			return retry.Permanent(err)
		}
		return err
	})
}

func (c *client) DeleteDNSRecord(ctx context.Context, zoneID, recordID string) error {
	return c.policy.Do(ctx, c.log, "delete dns record", func() error {
		c.pace()

		return c.cf.DeleteDNSRecord(ctx, zoneID, recordID)
	})
}

func (c *client) ZoneIDByName(ctx context.Context, domain string) (string, error) {
	var zoneID string

	err := c.policy.Do(ctx, c.log, "resolve zone id", func() error {
		c.pace()

		id, err := c.cf.ZoneIDByName(domain)
		if err != nil {
			return err
		}
		zoneID = id
		return nil
	})
	if err != nil {
		return "", err
	}

	return zoneID, nil
}

// isClientError reports whether err is a non-retryable 4xx from the
// provider. Rate limiting is excluded: a 429 is worth retrying after
// backoff.
func isClientError(err error) bool {
	var reqErr *cf.APIRequestError
	if errors.As(err, &reqErr) {
		return reqErr.ClientError() && !reqErr.ClientRateLimited()
	}
	return false
}

func fromProvider(rr cf.DNSRecord) api.Record {
	proxied := false
	if rr.Proxied != nil {
		proxied = *rr.Proxied
	}

	return api.Record{
		ID:      rr.ID,
		Name:    rr.Name,
		Content: rr.Content,
		Type:    rr.Type,
		TTL:     rr.TTL,
		Proxied: proxied,
	}
}
