package controlapi_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/pactgo/pact/pkg/controlapi"
	"github.com/pactgo/pact/pkg/pact"
	"github.com/pactgo/pact/pkg/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func examplePactJSON(t *testing.T) []byte {
	t.Helper()
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
	data, err := pact.Marshal(p)
	require.NoError(t, err)
	return data
}

func TestControlAPI_CreateGetVerifyDelete(t *testing.T) {
	reg := registry.New()
	pactDir := t.TempDir()
	srv := httptest.NewServer(controlapi.New(reg, controlapi.WithPactDir(pactDir)))
	defer srv.Close()

	createResp, err := http.Post(srv.URL+"/", "application/json", bytes.NewReader(examplePactJSON(t)))
	require.NoError(t, err)
	defer createResp.Body.Close()
	require.Equal(t, http.StatusOK, createResp.StatusCode)

	var created struct {
		ID   string `json:"id"`
		Port int    `json:"port"`
	}
	require.NoError(t, json.NewDecoder(createResp.Body).Decode(&created))
	require.NotEmpty(t, created.ID)

	getResp, err := http.Get(srv.URL + "/mockserver/" + created.ID)
	require.NoError(t, err)
	defer getResp.Body.Close()
	assert.Equal(t, http.StatusOK, getResp.StatusCode)

	mockBaseURL := "http://127.0.0.1:" + strconv.Itoa(created.Port)
	pingResp, err := http.Get(mockBaseURL + "/ping")
	require.NoError(t, err)
	_ = pingResp.Body.Close()
	assert.Equal(t, http.StatusOK, pingResp.StatusCode)

	verifyResp, err := http.Post(srv.URL+"/mockserver/"+created.ID+"/verify", "application/json", nil)
	require.NoError(t, err)
	defer verifyResp.Body.Close()
	assert.Equal(t, http.StatusOK, verifyResp.StatusCode)

	req, err := http.NewRequest(http.MethodDelete, srv.URL+"/mockserver/"+created.ID, nil)
	require.NoError(t, err)
	deleteResp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer deleteResp.Body.Close()
	assert.Equal(t, http.StatusNoContent, deleteResp.StatusCode)

	assert.Equal(t, 0, reg.Len())
}

func TestControlAPI_VerifyUnmatchedReportsMismatches(t *testing.T) {
	reg := registry.New()
	srv := httptest.NewServer(controlapi.New(reg))
	defer srv.Close()

	createResp, err := http.Post(srv.URL+"/", "application/json", bytes.NewReader(examplePactJSON(t)))
	require.NoError(t, err)
	defer createResp.Body.Close()
	var created struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.NewDecoder(createResp.Body).Decode(&created))

	verifyResp, err := http.Post(srv.URL+"/mockserver/"+created.ID+"/verify", "application/json", nil)
	require.NoError(t, err)
	defer verifyResp.Body.Close()
	assert.Equal(t, http.StatusUnprocessableEntity, verifyResp.StatusCode)
}

func TestControlAPI_GetUnknownID(t *testing.T) {
	reg := registry.New()
	srv := httptest.NewServer(controlapi.New(reg))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/mockserver/does-not-exist")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
