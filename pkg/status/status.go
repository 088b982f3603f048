package status

// Copyright (c) the dnssteer authors.
// Licensed under the Apache License 2.0.

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/dnssteer/dnssteer/pkg/api"
	"github.com/dnssteer/dnssteer/pkg/util/retry"
)

// Client fetches node snapshots from the status API.
type Client interface {
	ListNodes(ctx context.Context) ([]api.NodeStatus, error)
}

type client struct {
	log        *logrus.Entry
	baseURL    string
	token      string
	httpClient *http.Client
	policy     retry.Policy
}

// NewClient builds a status API client for the given base URL and bearer
// token.
func NewClient(log *logrus.Entry, baseURL, token string, policy retry.Policy) Client {
	return &client{
		log:        log,
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		policy:     policy,
	}
}

type nodeDTO struct {
	Name        string `json:"name"`
	Address     string `json:"address"`
	IsConnected bool   `json:"isConnected"`
	IsDisabled  bool   `json:"isDisabled"`
	CoreVersion string `json:"coreVersion"`
	UsersOnline *int   `json:"usersOnline"`
}

type nodesResponse struct {
	Response []nodeDTO `json:"response"`
}

// ListNodes returns one normalized snapshot per node. Network errors and
// 5xx responses are retried under the client's backoff policy; 4xx
// responses fail fast.
func (c *client) ListNodes(ctx context.Context) ([]api.NodeStatus, error) {
	var payload nodesResponse

	err := c.policy.Do(ctx, c.log, "list nodes", func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/nodes", nil)
		if err != nil {
			return retry.Permanent(err)
		}
		req.Header.Set("Authorization", "Bearer "+c.token)
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		switch {
		case resp.StatusCode >= 500:
			return fmt.Errorf("status api returned %d", resp.StatusCode)
		case resp.StatusCode != http.StatusOK:
			return retry.Permanent(fmt.Errorf("status api returned %d", resp.StatusCode))
		}

		payload = nodesResponse{}
		return json.NewDecoder(resp.Body).Decode(&payload)
	})
	if err != nil {
		return nil, fmt.Errorf("fetch nodes: %w", err)
	}

	nodes := make([]api.NodeStatus, 0, len(payload.Response))
	for _, dto := range payload.Response {
		if dto.Address == "" {
			c.log.Warnf("skipping node %q with empty address", dto.Name)
			continue
		}

		users := 0
		if dto.UsersOnline != nil {
			users = *dto.UsersOnline
		}

		nodes = append(nodes, api.NodeStatus{
			Name:        dto.Name,
			Address:     dto.Address,
			IsConnected: dto.IsConnected,
			IsDisabled:  dto.IsDisabled,
			CoreVersion: dto.CoreVersion,
			UsersOnline: users,
		})
	}

	healthy := 0
	for _, n := range nodes {
		if n.IsHealthy() {
			healthy++
		}
	}
	c.log.Printf("fetched %d nodes: %d healthy, %d unhealthy", len(nodes), healthy, len(nodes)-healthy)

	return nodes, nil
}
