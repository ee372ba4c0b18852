package registry_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/pactgo/pact/pkg/pact"
	"github.com/pactgo/pact/pkg/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func examplePact() *pact.Pact {
	p := pact.NewPact("ConsumerA", "ProviderA", pact.V3)
	req := pact.NewRequest()
	req.Method = "GET"
	req.Path = "/ping"
	resp := pact.NewResponse()
	resp.Status = 200
	p.Interactions = append(p.Interactions, &pact.Interaction{
		Type:        pact.InteractionHTTP,
		Description: "a ping",
		Request:     req,
		Response:    resp,
	})
	return p
}

func TestRegistry_StartLookupRemove(t *testing.T) {
	reg := registry.New()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	id, port, err := reg.Start(ctx, examplePact(), 0)
	require.NoError(t, err)
	assert.Equal(t, 1, reg.Len())

	byID, err := reg.LookupByID(id)
	require.NoError(t, err)
	assert.Equal(t, port, byID.Port())

	byPort, err := reg.LookupByPort(port)
	require.NoError(t, err)
	assert.Equal(t, id, byPort.ID())

	resp, err := http.Get(byID.BaseURL() + "/ping")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	removed, err := reg.Remove(ctx, id)
	require.NoError(t, err)
	assert.True(t, removed)
	assert.Equal(t, 0, reg.Len())

	_, err = reg.LookupByID(id)
	var unknown *registry.UnknownMockServer
	assert.ErrorAs(t, err, &unknown)
}

func TestRegistry_ShutdownAll(t *testing.T) {
	reg := registry.New()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, _, err := reg.Start(ctx, examplePact(), 0)
	require.NoError(t, err)
	_, _, err = reg.Start(ctx, examplePact(), 0)
	require.NoError(t, err)
	assert.Equal(t, 2, reg.Len())

	reg.ShutdownAll(ctx)
	assert.Equal(t, 0, reg.Len())
}

func TestRegistry_Global_IsSingleton(t *testing.T) {
	assert.Same(t, registry.Global(), registry.Global())
}
