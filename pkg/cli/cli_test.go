package cli

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/pactgo/pact/pkg/controlapi"
	"github.com/pactgo/pact/pkg/pact"
	"github.com/pactgo/pact/pkg/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func examplePactJSON(t *testing.T) []byte {
	t.Helper()
	p := pact.NewPact("OrderService", "InventoryService", pact.V3)
	req := pact.NewRequest()
	req.Method = "GET"
	req.Path = "/ping"
	resp := pact.NewResponse()
	resp.Status = 200
	p.Interactions = append(p.Interactions, &pact.Interaction{
		Type: pact.InteractionHTTP, Description: "a ping", Request: req, Response: resp,
	})
	data, err := pact.Marshal(p)
	require.NoError(t, err)
	return data
}

// runCLI executes rootCmd with args against a temporary control API
// server, returning whatever was written to stdout.
func runCLI(t *testing.T, baseURL string, args ...string) (string, error) {
	t.Helper()
	r, w, err := os.Pipe()
	require.NoError(t, err)
	origStdout := os.Stdout
	os.Stdout = w
	defer func() { os.Stdout = origStdout }()

	// Persistent flags are bound to package-level vars once at init()
	// time; reset them so one test's --json doesn't leak into the next
	// invocation the way it never could across separate process runs.
	jsonOutput = false
	rootCmd.SetArgs(append([]string{"--admin-url", baseURL}, args...))
	runErr := rootCmd.Execute()

	require.NoError(t, w.Close())
	os.Stdout = origStdout
	out, readErr := io.ReadAll(r)
	require.NoError(t, readErr)
	return string(out), runErr
}

func TestCLI_StartListGetVerifyShutdown(t *testing.T) {
	reg := registry.New()
	pactDir := t.TempDir()
	srv := httptest.NewServer(controlapi.New(reg, controlapi.WithPactDir(pactDir)))
	defer srv.Close()

	pactFile := pactDir + "/consumer.json"
	require.NoError(t, os.WriteFile(pactFile, examplePactJSON(t), 0o644))

	startOut, err := runCLI(t, srv.URL, "start", pactFile, "--json")
	require.NoError(t, err)
	var created CreateResult
	require.NoError(t, json.Unmarshal([]byte(startOut), &created))
	require.NotEmpty(t, created.ID)

	listOut, err := runCLI(t, srv.URL, "list", "--json")
	require.NoError(t, err)
	var servers []MockServerStatus
	require.NoError(t, json.Unmarshal([]byte(listOut), &servers))
	require.Len(t, servers, 1)
	assert.Equal(t, created.ID, servers[0].ID)

	getOut, err := runCLI(t, srv.URL, "get", created.ID, "--json")
	require.NoError(t, err)
	var status MockServerStatus
	require.NoError(t, json.Unmarshal([]byte(getOut), &status))
	assert.Equal(t, "OrderService", status.Consumer)

	pingResp, err := http.Get(status.BaseURL + "/ping")
	require.NoError(t, err)
	_ = pingResp.Body.Close()
	assert.Equal(t, 200, pingResp.StatusCode)

	_, err = runCLI(t, srv.URL, "verify", created.ID, "--json")
	require.NoError(t, err)

	_, err = runCLI(t, srv.URL, "shutdown", created.ID, "--json")
	require.NoError(t, err)

	_, err = runCLI(t, srv.URL, "get", created.ID)
	require.Error(t, err)
	assert.Equal(t, 3, exitCodeFor(err))
}

func TestCLI_VerifyMismatchExitsTwo(t *testing.T) {
	reg := registry.New()
	srv := httptest.NewServer(controlapi.New(reg))
	defer srv.Close()

	pactFile := t.TempDir() + "/consumer.json"
	require.NoError(t, os.WriteFile(pactFile, examplePactJSON(t), 0o644))

	startOut, err := runCLI(t, srv.URL, "start", pactFile, "--json")
	require.NoError(t, err)
	var created CreateResult
	require.NoError(t, json.Unmarshal([]byte(startOut), &created))

	_, err = runCLI(t, srv.URL, "verify", created.ID)
	require.Error(t, err)
	assert.Equal(t, 2, exitCodeFor(err))
}

func TestCLI_GetUnknownIDExitsThree(t *testing.T) {
	reg := registry.New()
	srv := httptest.NewServer(controlapi.New(reg))
	defer srv.Close()

	_, err := runCLI(t, srv.URL, "get", "does-not-exist")
	require.Error(t, err)
	assert.Equal(t, 3, exitCodeFor(err))
}

func TestCLI_ConnectionErrorExitsOne(t *testing.T) {
	_, err := runCLI(t, "http://127.0.0.1:1", "list")
	require.Error(t, err)
	assert.Equal(t, 1, exitCodeFor(err))
}

