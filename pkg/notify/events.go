package notify

// Copyright (c) the dnssteer authors.
// Licensed under the Apache License 2.0.

// Event is the closed set of notification events. The formatter pattern
// matches on the concrete type to pick a message.
type Event interface {
	event()
}

// NodeStats is a fleet summary attached to node state changes.
type NodeStats struct {
	Total    int
	Online   int
	Disabled int
}

// NodeStateChange fires on a Healthy⇄Unhealthy edge, never on a node's
// first observation.
type NodeStateChange struct {
	NodeName       string
	NodeAddress    string
	CurrentHealthy bool
	Stats          NodeStats
	Reason         string // set when the node went unhealthy
}

// DNSAction distinguishes record creation from deletion.
type DNSAction string

const (
	DNSAdded   DNSAction = "added"
	DNSRemoved DNSAction = "removed"
)

// DNSChange fires on each successful record create or delete.
type DNSChange struct {
	Domain    string
	ZoneName  string
	IPAddress string
	Action    DNSAction
}

// DNSError fires on each failed record create or delete.
type DNSError struct {
	Domain    string
	ZoneName  string
	IPAddress string
	Action    DNSAction
	Message   string
}

// CapacityAction distinguishes throttling from restoring.
type CapacityAction string

const (
	CapacityThrottled CapacityAction = "throttled"
	CapacityRestored  CapacityAction = "restored"
)

// CapacityChange fires on each admission filter state transition.
type CapacityChange struct {
	NodeName    string
	NodeAddress string
	UsersOnline int
	Threshold   int
	Action      CapacityAction
	ZoneName    string
	Domain      string
}

// CriticalState fires once when every configured node is unhealthy.
type CriticalState struct {
	TotalNodes int
	DownNodes  []string
}

// HealthCheckError fires when a whole cycle fails.
type HealthCheckError struct {
	Message string
}

// ServiceStarted fires once at process start.
type ServiceStarted struct{}

// ServiceStopped fires once at shutdown.
type ServiceStopped struct{}

func (NodeStateChange) event()  {}
func (DNSChange) event()        {}
func (DNSError) event()         {}
func (CapacityChange) event()   {}
func (CriticalState) event()    {}
func (HealthCheckError) event() {}
func (ServiceStarted) event()   {}
func (ServiceStopped) event()   {}
