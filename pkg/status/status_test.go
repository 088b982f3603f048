package status

// Copyright (c) the dnssteer authors.
// Licensed under the Apache License 2.0.

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dnssteer/dnssteer/pkg/api"
	"github.com/dnssteer/dnssteer/pkg/util/retry"
)

func testPolicy() retry.Policy {
	return retry.Policy{
		BaseDelay:  time.Millisecond,
		Cap:        time.Millisecond,
		MaxRetries: 2,
	}
}

func testClient(t *testing.T, handler http.HandlerFunc) Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return NewClient(logrus.NewEntry(logrus.StandardLogger()), srv.URL+"/", "secret", testPolicy())
}

func TestListNodes(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/nodes", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"response": [
				{"name": "node-1", "address": "10.0.0.1", "isConnected": true, "coreVersion": "1.8.0", "usersOnline": 12},
				{"name": "node-2", "address": "10.0.0.2", "isConnected": false, "coreVersion": ""}
			]
		}`))
	})

	nodes, err := c.ListNodes(context.Background())
	require.NoError(t, err)

	require.Len(t, nodes, 2)
	assert.Equal(t, api.NodeStatus{
		Name:        "node-1",
		Address:     "10.0.0.1",
		IsConnected: true,
		CoreVersion: "1.8.0",
		UsersOnline: 12,
	}, nodes[0])
	assert.True(t, nodes[0].IsHealthy())
	assert.False(t, nodes[1].IsHealthy())
}

func TestListNodesMissingUsersOnline(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"response": [{"name": "node-1", "address": "10.0.0.1", "isConnected": true, "coreVersion": "1.8.0", "usersOnline": null}]}`))
	})

	nodes, err := c.ListNodes(context.Background())
	require.NoError(t, err)

	require.Len(t, nodes, 1)
	assert.Equal(t, 0, nodes[0].UsersOnline)
}

func TestListNodesSkipsEmptyAddress(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"response": [
			{"name": "ghost", "address": "", "isConnected": true, "coreVersion": "1.8.0"},
			{"name": "node-1", "address": "10.0.0.1", "isConnected": true, "coreVersion": "1.8.0"}
		]}`))
	})

	nodes, err := c.ListNodes(context.Background())
	require.NoError(t, err)

	require.Len(t, nodes, 1)
	assert.Equal(t, "node-1", nodes[0].Name)
}

func TestListNodesRetriesServerErrors(t *testing.T) {
	var calls int32
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`{"response": [{"name": "node-1", "address": "10.0.0.1", "isConnected": true, "coreVersion": "1.8.0"}]}`))
	})

	nodes, err := c.ListNodes(context.Background())
	require.NoError(t, err)
	require.Len(t, nodes, 1)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestListNodesClientErrorFailsFast(t *testing.T) {
	var calls int32
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusUnauthorized)
	})

	_, err := c.ListNodes(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestListNodesRetriesExhausted(t *testing.T) {
	var calls int32
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := c.ListNodes(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fetch nodes")
	// initial attempt plus two retries
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}
