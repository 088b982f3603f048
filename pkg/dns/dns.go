package dns

// Copyright (c) the dnssteer authors.
// Licensed under the Apache License 2.0.

import (
	"context"
	"fmt"

	"github.com/hashicorp/go-multierror"
	"github.com/sirupsen/logrus"

	"github.com/dnssteer/dnssteer/pkg/api"
	"github.com/dnssteer/dnssteer/pkg/metrics"
	"github.com/dnssteer/dnssteer/pkg/notify"
	"github.com/dnssteer/dnssteer/pkg/util/cloudflare"
)

// Manager reconciles a zone's provider records against its effective
// eligible address set.
type Manager interface {
	Sync(ctx context.Context, zoneID string, zone api.Zone, effective map[string]struct{}) error
}

type manager struct {
	log    *logrus.Entry
	client cloudflare.RecordsClient
	m      metrics.Emitter
	sink   notify.Sink
}

// NewManager builds a Manager on top of the given records client.
func NewManager(log *logrus.Entry, client cloudflare.RecordsClient, m metrics.Emitter, sink notify.Sink) Manager {
	return &manager{
		log:    log,
		client: client,
		m:      m,
		sink:   sink,
	}
}

// Sync makes the provider's A-record set for the zone equal the effective
// address set: create missing eligible addresses, delete configured but
// ineligible ones and strays no longer in configuration, leave the rest
// untouched. Idempotent and safe to run every cycle. Individual record
// failures are reported and aggregated; they never abort the rest of the
// zone.
func (m *manager) Sync(ctx context.Context, zoneID string, zone api.Zone, effective map[string]struct{}) error {
	fullDomain := zone.FullDomain()

	existing, err := m.client.DNSRecords(ctx, zoneID, fullDomain, "A")
	if err != nil {
		return fmt.Errorf("list records for %s: %w", fullDomain, err)
	}

	existingByIP := make(map[string]api.Record, len(existing))
	for _, record := range existing {
		existingByIP[record.Content] = record
	}

	configured := make(map[string]struct{}, len(zone.IPs))
	for _, ip := range zone.IPs {
		configured[ip] = struct{}{}
	}

	var errs *multierror.Error
	added, removed := 0, 0

	// create records for eligible addresses missing from the provider
	for _, ip := range zone.IPs {
		if _, ok := effective[ip]; !ok {
			continue
		}
		if _, ok := existingByIP[ip]; ok {
			continue
		}

		if err := m.addRecord(ctx, zoneID, zone, ip); err != nil {
			errs = multierror.Append(errs, err)
			continue
		}
		added++
	}

	// delete records for configured addresses no longer eligible
	for _, ip := range zone.IPs {
		if _, ok := effective[ip]; ok {
			continue
		}
		record, ok := existingByIP[ip]
		if !ok {
			continue
		}

		if err := m.removeRecord(ctx, zoneID, zone, ip, record); err != nil {
			errs = multierror.Append(errs, err)
			continue
		}
		removed++
	}

	// delete stray records for addresses not in configuration at all
	for ip, record := range existingByIP {
		if _, ok := configured[ip]; ok {
			continue
		}

		if err := m.removeRecord(ctx, zoneID, zone, ip, record); err != nil {
			errs = multierror.Append(errs, err)
			continue
		}
		removed++
	}

	if added > 0 || removed > 0 {
		m.log.Printf("%s: %d records added, %d removed", fullDomain, added, removed)
	}

	m.m.EmitGauge("dns.records.added", int64(added), map[string]string{"zone": fullDomain})
	m.m.EmitGauge("dns.records.removed", int64(removed), map[string]string{"zone": fullDomain})

	return errs.ErrorOrNil()
}

func (m *manager) addRecord(ctx context.Context, zoneID string, zone api.Zone, ip string) error {
	fullDomain := zone.FullDomain()

	err := m.client.CreateDNSRecord(ctx, zoneID, api.Record{
		Name:    fullDomain,
		Content: ip,
		Type:    "A",
		TTL:     zone.TTL,
		Proxied: zone.Proxied,
	})
	if err != nil {
		m.log.Errorf("%s: failed to add %s: %s", fullDomain, ip, err)
		m.sink.Enqueue(notify.DNSError{
			Domain:    zone.Domain,
			ZoneName:  zone.Name,
			IPAddress: ip,
			Action:    notify.DNSAdded,
			Message:   err.Error(),
		})
		return fmt.Errorf("add %s to %s: %w", ip, fullDomain, err)
	}

	m.log.Printf("%s: added %s", fullDomain, ip)
	m.sink.Enqueue(notify.DNSChange{
		Domain:    zone.Domain,
		ZoneName:  zone.Name,
		IPAddress: ip,
		Action:    notify.DNSAdded,
	})
	return nil
}

func (m *manager) removeRecord(ctx context.Context, zoneID string, zone api.Zone, ip string, record api.Record) error {
	fullDomain := zone.FullDomain()

	err := m.client.DeleteDNSRecord(ctx, zoneID, record.ID)
	if err != nil {
		m.log.Errorf("%s: failed to remove %s: %s", fullDomain, ip, err)
		m.sink.Enqueue(notify.DNSError{
			Domain:    zone.Domain,
			ZoneName:  zone.Name,
			IPAddress: ip,
			Action:    notify.DNSRemoved,
			Message:   err.Error(),
		})
		return fmt.Errorf("remove %s from %s: %w", ip, fullDomain, err)
	}

	m.log.Printf("%s: removed %s", fullDomain, ip)
	m.sink.Enqueue(notify.DNSChange{
		Domain:    zone.Domain,
		ZoneName:  zone.Name,
		IPAddress: ip,
		Action:    notify.DNSRemoved,
	})
	return nil
}
