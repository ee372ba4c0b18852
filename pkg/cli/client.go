package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// APIError represents an error response from the control API, or a
// transport-level failure to reach it at all.
type APIError struct {
	StatusCode int
	ErrorCode  string
	Message    string
}

func (e *APIError) Error() string { return e.Message }

// MockServerStatus mirrors controlapi's mockServerStatus response
// shape for GET / and GET /mockserver/{id}.
type MockServerStatus struct {
	ID       string `json:"id"`
	Port     int    `json:"port"`
	Consumer string `json:"consumer"`
	Provider string `json:"provider"`
	State    string `json:"state"`
	Matched  bool   `json:"matched"`
	BaseURL  string `json:"baseUrl"`
}

// CreateResult is the response body of POST /.
type CreateResult struct {
	ID   string `json:"id"`
	Port int    `json:"port"`
}

// VerifyResult is the response body of a failed POST
// /mockserver/{id}/verify (422): the mock server's status plus the
// mismatches that kept it from verifying clean.
type VerifyResult struct {
	MockServer MockServerStatus         `json:"mockServer"`
	Mismatches []map[string]interface{} `json:"mismatches"`
}

// AdminClient talks to a pkg/controlapi Server over HTTP.
type AdminClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewAdminClient creates a client bound to the given control API base
// URL (e.g. "http://localhost:4290").
func NewAdminClient(baseURL string) *AdminClient {
	return &AdminClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// List returns every live mock server (GET /).
func (c *AdminClient) List() ([]MockServerStatus, error) {
	resp, err := c.doRequest(http.MethodGet, "/", nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return nil, c.parseError(resp)
	}
	var out []MockServerStatus
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	return out, nil
}

// Create starts a mock server for the pact document in pactJSON,
// optionally on a specific port (0 lets the OS choose) (POST /).
func (c *AdminClient) Create(pactJSON []byte, port int) (*CreateResult, error) {
	path := "/"
	if port != 0 {
		path += "?port=" + url.QueryEscape(fmt.Sprint(port))
	}
	resp, err := c.doRequest(http.MethodPost, path, pactJSON)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return nil, c.parseError(resp)
	}
	var out CreateResult
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	return &out, nil
}

// Get snapshots one mock server's status (GET /mockserver/{id}). id
// may be a UUID or a decimal port number.
func (c *AdminClient) Get(id string) (*MockServerStatus, error) {
	resp, err := c.doRequest(http.MethodGet, "/mockserver/"+url.PathEscape(id), nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode == http.StatusNotFound {
		return nil, &APIError{StatusCode: resp.StatusCode, ErrorCode: "not_found", Message: fmt.Sprintf("no mock server with id %q", id)}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, c.parseError(resp)
	}
	var out MockServerStatus
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	return &out, nil
}

// Verify checks a mock server's interactions for mismatches and, on a
// clean run, writes its pact file (POST /mockserver/{id}/verify). ok
// is false when mismatches were found; status is populated whenever
// err is nil, and mismatches only when ok is false.
func (c *AdminClient) Verify(id string) (ok bool, status *MockServerStatus, mismatches []map[string]interface{}, err error) {
	resp, doErr := c.doRequest(http.MethodPost, "/mockserver/"+url.PathEscape(id)+"/verify", nil)
	if doErr != nil {
		return false, nil, nil, doErr
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		return false, nil, nil, &APIError{StatusCode: resp.StatusCode, ErrorCode: "not_found", Message: fmt.Sprintf("no mock server with id %q", id)}
	}
	if resp.StatusCode == http.StatusUnprocessableEntity {
		var result VerifyResult
		if decErr := json.NewDecoder(resp.Body).Decode(&result); decErr != nil {
			return false, nil, nil, fmt.Errorf("failed to parse response: %w", decErr)
		}
		return false, &result.MockServer, result.Mismatches, nil
	}
	if resp.StatusCode != http.StatusOK {
		return false, nil, nil, c.parseError(resp)
	}
	var result MockServerStatus
	if decErr := json.NewDecoder(resp.Body).Decode(&result); decErr != nil {
		return false, nil, nil, fmt.Errorf("failed to parse response: %w", decErr)
	}
	return true, &result, nil, nil
}

// Shutdown stops a mock server and removes it from the registry
// (DELETE /mockserver/{id}).
func (c *AdminClient) Shutdown(id string) error {
	resp, err := c.doRequest(http.MethodDelete, "/mockserver/"+url.PathEscape(id), nil)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode == http.StatusNotFound {
		return &APIError{StatusCode: resp.StatusCode, ErrorCode: "not_found", Message: fmt.Sprintf("no mock server with id %q", id)}
	}
	if resp.StatusCode != http.StatusNoContent {
		return c.parseError(resp)
	}
	return nil
}

func (c *AdminClient) doRequest(method, path string, body []byte) (*http.Response, error) {
	var bodyReader io.Reader
	if body != nil {
		bodyReader = bytes.NewReader(body)
	}
	req, err := http.NewRequest(method, c.baseURL+path, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &APIError{
			ErrorCode: "connection_error",
			Message:   fmt.Sprintf("cannot connect to control API at %s: %v", c.baseURL, err),
		}
	}
	return resp, nil
}

func (c *AdminClient) parseError(resp *http.Response) error {
	body, _ := io.ReadAll(resp.Body)
	var errResp struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error != "" {
		return &APIError{StatusCode: resp.StatusCode, ErrorCode: "error", Message: errResp.Error}
	}
	return &APIError{StatusCode: resp.StatusCode, ErrorCode: "unknown_error", Message: fmt.Sprintf("server returned status %d", resp.StatusCode)}
}
