package monitor

// Copyright (c) the dnssteer authors.
// Licensed under the Apache License 2.0.

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/dnssteer/dnssteer/pkg/env"
	"github.com/dnssteer/dnssteer/pkg/util/cloudflare"
)

// LogZoneInventory logs each configured domain's provider zone id and each
// zone's configuration alongside its current A records. Used at monitor
// startup and by the zones subcommand; failures are per-domain and never
// fatal.
func LogZoneInventory(ctx context.Context, log *logrus.Entry, _env env.Interface, records cloudflare.RecordsClient) error {
	log.Print("zone inventory")

	zoneIDs := map[string]string{}
	for _, zone := range _env.Zones() {
		zoneID, ok := zoneIDs[zone.Domain]
		if !ok {
			id, err := records.ZoneIDByName(ctx, zone.Domain)
			if err != nil {
				log.Warnf("could not resolve zone id for domain %s: %s", zone.Domain, err)
				zoneIDs[zone.Domain] = ""
				continue
			}
			log.Printf("domain %s, zone id %s", zone.Domain, id)
			zoneIDs[zone.Domain] = id
			zoneID = id
		}
		if zoneID == "" {
			continue
		}

		log.Printf("  zone %s: ttl %d, proxied %t", zone.FullDomain(), zone.TTL, zone.Proxied)
		log.Printf("  configured ips: %s", strings.Join(zone.IPs, ", "))

		existing, err := records.DNSRecords(ctx, zoneID, zone.FullDomain(), "A")
		if err != nil {
			log.Warnf("  could not list records for %s: %s", zone.FullDomain(), err)
			continue
		}

		if len(existing) == 0 {
			log.Print("  existing records: none")
			continue
		}

		ips := make([]string, 0, len(existing))
		for _, record := range existing {
			ips = append(ips, record.Content)
		}
		log.Printf("  existing records: %s", strings.Join(ips, ", "))
	}

	log.Print("zone inventory complete")

	return nil
}
