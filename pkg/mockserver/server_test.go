package mockserver_test

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pactgo/pact/pkg/mockserver"
	"github.com/pactgo/pact/pkg/pact"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func examplePact() *pact.Pact {
	p := pact.NewPact("OrderService", "InventoryService", pact.V3)
	req := pact.NewRequest()
	req.Method = "GET"
	req.Path = "/products/42"
	resp := pact.NewResponse()
	resp.Status = 200
	resp.Body = pact.Present([]byte(`{"id":42}`), "application/json")
	p.Interactions = append(p.Interactions, &pact.Interaction{
		Type:        pact.InteractionHTTP,
		Description: "a request for product 42",
		Request:     req,
		Response:    resp,
	})
	return p
}

func TestMockServer_MatchesConfiguredInteraction(t *testing.T) {
	srv := mockserver.New(examplePact())
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	port, err := srv.Start(ctx, 0)
	require.NoError(t, err)
	defer func() { _ = srv.Shutdown(context.Background()) }()

	resp, err := http.Get(srv.BaseURL() + "/products/42")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, port, srv.Port())
	assert.True(t, srv.Matched())
	mismatches := srv.Mismatches()
	require.Len(t, mismatches, 1)
	assert.Equal(t, mockserver.RequestMatch, mismatches[0].Kind)
}

func TestMockServer_UnknownRequestReportsNotFound(t *testing.T) {
	srv := mockserver.New(examplePact())
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, err := srv.Start(ctx, 0)
	require.NoError(t, err)
	defer func() { _ = srv.Shutdown(context.Background()) }()

	resp, err := http.Get(srv.BaseURL() + "/nowhere")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "true", resp.Header.Get("X-Pact-Unrecognized-Request"))
	assert.False(t, srv.Matched())

	mismatches := srv.Mismatches()
	var sawNotFound, sawMissing bool
	for _, m := range mismatches {
		switch m.Kind {
		case mockserver.RequestNotFound:
			sawNotFound = true
		case mockserver.MissingRequest:
			sawMissing = true
		}
	}
	assert.True(t, sawNotFound)
	assert.True(t, sawMissing)
}

func TestMockServer_WritePact(t *testing.T) {
	srv := mockserver.New(examplePact())
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, err := srv.Start(ctx, 0)
	require.NoError(t, err)
	defer func() { _ = srv.Shutdown(context.Background()) }()

	_, err = http.Get(srv.BaseURL() + "/products/42")
	require.NoError(t, err)

	dir := t.TempDir()
	require.NoError(t, srv.WritePact(dir))

	path := mockserver.PactFilePath(dir, "OrderService", "InventoryService")
	assert.Equal(t, filepath.Join(dir, "orderservice-inventoryservice.json"), path)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "a request for product 42")
}
