package api

// Copyright (c) the dnssteer authors.
// Licensed under the Apache License 2.0.

import "strings"

// NodeStatus is the normalized per-node verdict for one health-check cycle.
// Instances are built fresh from the status source each cycle and are never
// mutated.
type NodeStatus struct {
	Name        string `json:"name"`
	Address     string `json:"address"`
	IsConnected bool   `json:"isConnected"`
	IsDisabled  bool   `json:"isDisabled"`
	CoreVersion string `json:"coreVersion"`
	UsersOnline int    `json:"usersOnline"`
}

// IsHealthy reports whether the node is eligible for DNS traffic on health
// grounds alone: connected, running a core and not administratively disabled.
func (n NodeStatus) IsHealthy() bool {
	return n.IsConnected && n.CoreVersion != "" && !n.IsDisabled
}

// UnhealthyReason returns a human-readable explanation for an unhealthy
// node, empty for a healthy one.
func (n NodeStatus) UnhealthyReason() string {
	var reasons []string
	if !n.IsConnected {
		reasons = append(reasons, "disconnected")
	}
	if n.IsDisabled {
		reasons = append(reasons, "disabled")
	}
	if n.CoreVersion == "" {
		reasons = append(reasons, "no core")
	}
	return strings.Join(reasons, ", ")
}

// Zone is one managed DNS name under a domain, backed by one or more A
// records. Loaded once at startup and immutable for the process lifetime.
type Zone struct {
	Domain  string   `json:"domain" mapstructure:"domain"`
	Name    string   `json:"name" mapstructure:"name"`
	TTL     int      `json:"ttl" mapstructure:"ttl"`
	Proxied bool     `json:"proxied" mapstructure:"proxied"`
	IPs     []string `json:"ips" mapstructure:"ips"`
}

// FullDomain returns the fully qualified record name for the zone.
func (z Zone) FullDomain() string {
	return z.Name + "." + z.Domain
}

// Record is a DNS record as held by the provider. The reconciler only ever
// reads the current set and issues creates and deletes; records are
// re-fetched every cycle, never cached.
type Record struct {
	ID      string
	Name    string
	Content string
	Type    string
	TTL     int
	Proxied bool
}
