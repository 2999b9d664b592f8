//go:build e2e

package e2e_test

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"os"
	"testing"
	"time"
)

// Environment variable names for E2E test configuration.
const (
	EnvServerURL = "E2E_SERVER_URL"
	EnvAPIKey    = "E2E_API_KEY"
	EnvBasicUser = "E2E_BASIC_USER"
	EnvBasicPass = "E2E_BASIC_PASS"
)

// Default configuration values.
const (
	DefaultServerURL = "http://localhost:8080"
	DefaultTimeout   = 15 * time.Second
	SessionHeader    = "X-Session-ID"
)

// getEnvOrDefault returns the value of the environment variable
// identified by key, or defaultVal if the variable is not set.
func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

// e2eServerURL returns the base URL of the server under test.
func e2eServerURL() string {
	return getEnvOrDefault(EnvServerURL, DefaultServerURL)
}

// skipIfServerUnavailable checks whether the server is reachable
// and skips the test if it is not.
func skipIfServerUnavailable(t *testing.T) {
	t.Helper()

	base := e2eServerURL()
	client := &http.Client{Timeout: 3 * time.Second}
	resp, err := client.Get(base + "/health")
	if err != nil {
		t.Skipf("Server unavailable at %s: %v", base, err)
	}
	resp.Body.Close()
}

// apiResponse is a generic API response envelope.
type apiResponse struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// cartResponse is the cart view returned by the API.
type cartResponse struct {
	Items []struct {
		ID       string `json:"id"`
		Quantity int    `json:"quantity"`
	} `json:"items"`
	IsOpen     bool   `json:"isOpen"`
	TotalItems int    `json:"totalItems"`
	TotalPrice string `json:"totalPrice"`
}

type product struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Price string `json:"price"`
}

type chatTurn struct {
	Answer struct {
		Text string `json:"text"`
	} `json:"answer"`
	Strategy string `json:"strategy"`
	Matched  bool   `json:"matched"`
}

// visitor is one browser: an HTTP client that keeps the session ID the
// server hands out.
type visitor struct {
	t         *testing.T
	client    *http.Client
	base      string
	headers   map[string]string
	sessionID string
}

func newVisitor(t *testing.T) *visitor {
	t.Helper()
	return &visitor{
		t:       t,
		client:  &http.Client{Timeout: DefaultTimeout},
		base:    e2eServerURL(),
		headers: buildAuthHeaders(t),
	}
}

// do performs a request under the visitor's session and returns the
// status code and body.
func (v *visitor) do(method, path string, payload any) (int, []byte) {
	v.t.Helper()

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			v.t.Fatalf("Failed to encode payload: %v", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, v.base+path, body)
	if err != nil {
		v.t.Fatalf("Failed to create request: %v", err)
	}
	for k, val := range v.headers {
		req.Header.Set(k, val)
	}
	if v.sessionID != "" {
		req.Header.Set(SessionHeader, v.sessionID)
	}

	resp, err := v.client.Do(req)
	if err != nil {
		v.t.Fatalf("Request %s %s failed: %v", method, path, err)
	}
	defer resp.Body.Close()

	if id := resp.Header.Get(SessionHeader); id != "" {
		v.sessionID = id
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		v.t.Fatalf("Failed to read response body: %v", err)
	}
	return resp.StatusCode, respBody
}

// call performs a request, requires wantStatus and decodes the envelope
// data into out.
func (v *visitor) call(method, path string, payload any, wantStatus int, out any) {
	v.t.Helper()

	status, body := v.do(method, path, payload)
	if status != wantStatus {
		v.t.Fatalf("%s %s: expected %d, got %d. Body: %s", method, path, wantStatus, status, body)
	}
	if out == nil {
		return
	}

	var resp apiResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		v.t.Fatalf("Failed to parse response: %v", err)
	}
	if err := json.Unmarshal(resp.Data, out); err != nil {
		v.t.Fatalf("Failed to parse data %s: %v", resp.Data, err)
	}
}

// buildAuthHeaders returns a header map populated with authentication
// credentials from environment variables, if available.
func buildAuthHeaders(t *testing.T) map[string]string {
	t.Helper()

	headers := map[string]string{
		"Content-Type": "application/json",
	}

	if apiKey := os.Getenv(EnvAPIKey); apiKey != "" {
		headers["X-API-Key"] = apiKey
		return headers
	}

	user := os.Getenv(EnvBasicUser)
	pass := os.Getenv(EnvBasicPass)
	if user != "" && pass != "" {
		creds := base64.StdEncoding.EncodeToString(
			[]byte(user + ":" + pass),
		)
		headers["Authorization"] = "Basic " + creds
	}

	return headers
}
