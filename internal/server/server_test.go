package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/vyrodovalexey/zuice-storefront/internal/auth"
	"github.com/vyrodovalexey/zuice-storefront/internal/catalog"
	"github.com/vyrodovalexey/zuice-storefront/internal/config"
	"github.com/vyrodovalexey/zuice-storefront/internal/faq"
	"github.com/vyrodovalexey/zuice-storefront/internal/handler"
	"github.com/vyrodovalexey/zuice-storefront/internal/model"
	"github.com/vyrodovalexey/zuice-storefront/internal/persist"
	"github.com/vyrodovalexey/zuice-storefront/internal/session"
)

func testConfig(port int, metricsEnabled bool) *config.Config {
	return &config.Config{
		ServerPort:      port,
		LogLevel:        "info",
		ShutdownTimeout: 5 * time.Second,
		MetricsEnabled:  metricsEnabled,
	}
}

func newTestServer(t *testing.T, cfg *config.Config, authenticator auth.Authenticator) *Server {
	t.Helper()
	sessions := session.NewManager(persist.NewMemoryStore(), session.Config{
		ChatStrategy: faq.StrategyFuzzy,
		Products:     catalog.SeedProducts(),
	}, zap.NewNop())
	t.Cleanup(sessions.Close)

	assistant, err := handler.NewAssistant(faq.StrategyFuzzy, faq.DefaultThreshold)
	if err != nil {
		t.Fatalf("NewAssistant() error = %v", err)
	}
	return New(cfg, zap.NewNop(), sessions, authenticator, assistant)
}

func serve(s *Server, method, path, body string, header http.Header) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	for k, v := range header {
		req.Header[k] = v
	}
	rr := httptest.NewRecorder()
	s.Handler().ServeHTTP(rr, req)
	return rr
}

func TestNew(t *testing.T) {
	// Act
	server := newTestServer(t, testConfig(8080, true), nil)

	// Assert
	if server.router == nil || server.handler == nil {
		t.Fatal("router and handler should be set")
	}
	if server.wsHandler == nil {
		t.Error("wsHandler should be set")
	}
	if server.Router() != server.router {
		t.Error("Router() should return the underlying router")
	}
}

func TestServer_HTTPServerConfiguration(t *testing.T) {
	// Arrange & Act
	server := newTestServer(t, testConfig(8080, true), nil)

	// Assert
	if server.httpServer.Addr != ":8080" {
		t.Errorf("httpServer.Addr = %s, want :8080", server.httpServer.Addr)
	}
	if server.httpServer.ReadHeaderTimeout != 5*time.Second {
		t.Errorf("httpServer.ReadHeaderTimeout = %v, want 5s", server.httpServer.ReadHeaderTimeout)
	}
	if server.httpServer.MaxHeaderBytes != 1<<20 {
		t.Errorf("httpServer.MaxHeaderBytes = %d, want %d", server.httpServer.MaxHeaderBytes, 1<<20)
	}
}

func TestServer_ProbesAndMetrics(t *testing.T) {
	tests := []struct {
		name           string
		metricsEnabled bool
		path           string
		wantStatus     int
	}{
		{"health", false, "/health", http.StatusOK},
		{"ready", false, "/ready", http.StatusOK},
		{"metrics enabled", true, "/metrics", http.StatusOK},
		{"metrics disabled", false, "/metrics", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			server := newTestServer(t, testConfig(8080, tt.metricsEnabled), nil)

			// Act
			rr := serve(server, http.MethodGet, tt.path, "", nil)

			// Assert
			if rr.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rr.Code, tt.wantStatus)
			}
			if rr.Header().Get("X-Request-ID") == "" {
				t.Error("every response should carry a request ID")
			}
		})
	}
}

func TestServer_SessionLifecycle(t *testing.T) {
	// Arrange
	server := newTestServer(t, testConfig(8080, false), nil)
	product := catalog.SeedProducts()[0]

	// Act
	first := serve(server, http.MethodPost, "/api/v1/cart/items", `{"id":"`+product.ID+`"}`, nil)
	id := first.Header().Get("X-Session-ID")
	second := serve(server, http.MethodGet, "/api/v1/cart", "", http.Header{"X-Session-Id": {id}})
	other := serve(server, http.MethodGet, "/api/v1/cart", "", nil)

	// Assert
	if first.Code != http.StatusCreated || id == "" {
		t.Fatalf("first response = %d, session %q", first.Code, id)
	}

	var got model.APIResponse[handler.CartResponse]
	if err := json.NewDecoder(second.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if second.Header().Get("X-Session-ID") != id {
		t.Errorf("session = %q, want %q", second.Header().Get("X-Session-ID"), id)
	}
	if got.Data.TotalItems != 1 {
		t.Errorf("totalItems = %d, want 1", got.Data.TotalItems)
	}

	if other.Header().Get("X-Session-ID") == id {
		t.Error("a request without a session should get a new one")
	}
}

func TestServer_InvalidSession(t *testing.T) {
	// Arrange
	server := newTestServer(t, testConfig(8080, false), nil)

	// Act
	rr := serve(server, http.MethodGet, "/api/v1/cart", "", http.Header{"X-Session-Id": {"not-a-uuid"}})

	// Assert
	if rr.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rr.Code, http.StatusBadRequest)
	}
}

func TestServer_CORSPreflight(t *testing.T) {
	// Arrange
	server := newTestServer(t, testConfig(8080, false), nil)
	header := http.Header{
		"Origin":                        {"http://shop.example.com"},
		"Access-Control-Request-Method": {http.MethodPatch},
	}

	// Act
	rr := serve(server, http.MethodOptions, "/api/v1/catalog/filters", "", header)

	// Assert
	if rr.Code != http.StatusNoContent {
		t.Errorf("status = %d, want %d", rr.Code, http.StatusNoContent)
	}
	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "http://shop.example.com" {
		t.Errorf("Access-Control-Allow-Origin = %q", got)
	}
	if got := rr.Header().Get("Access-Control-Expose-Headers"); !strings.Contains(got, "X-Session-ID") {
		t.Errorf("Access-Control-Expose-Headers = %q, want X-Session-ID", got)
	}
}

func TestServer_Authentication(t *testing.T) {
	// Arrange
	authenticator, err := auth.New("apikey", "", "key-1:storefront-ops")
	if err != nil {
		t.Fatalf("auth.New() error = %v", err)
	}
	server := newTestServer(t, testConfig(8080, false), authenticator)

	tests := []struct {
		name       string
		path       string
		header     http.Header
		wantStatus int
	}{
		{"probe is public", "/health", nil, http.StatusOK},
		{"api without key", "/api/v1/cart", nil, http.StatusUnauthorized},
		{"api with wrong key", "/api/v1/cart", http.Header{"X-Api-Key": {"nope"}}, http.StatusUnauthorized},
		{"api with key", "/api/v1/cart", http.Header{"X-Api-Key": {"key-1"}}, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Act
			rr := serve(server, http.MethodGet, tt.path, "", tt.header)

			// Assert
			if rr.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rr.Code, tt.wantStatus)
			}
		})
	}
}

func TestServer_ShutdownClosesWebSockets(t *testing.T) {
	// Arrange
	server := newTestServer(t, testConfig(0, false), nil)
	ts := httptest.NewServer(server.Handler())
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	defer conn.Close()

	// Act
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		t.Fatalf("Shutdown() error = %v", err)
	}

	// Assert
	if err := conn.SetReadDeadline(time.Now().Add(5 * time.Second)); err != nil {
		t.Fatalf("SetReadDeadline: %v", err)
	}
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure) {
				t.Errorf("ReadMessage() error = %v, want normal closure", err)
			}
			return
		}
	}
}

func TestServer_StartAndShutdown(t *testing.T) {
	// Arrange
	server := newTestServer(t, testConfig(18091, false), nil)
	errs := make(chan error, 1)
	go func() {
		errs <- server.Start()
	}()
	time.Sleep(100 * time.Millisecond)

	// Act
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err := server.Shutdown(ctx)

	// Assert
	if err != nil {
		t.Errorf("Shutdown() error = %v", err)
	}
	if err := <-errs; err != nil {
		t.Errorf("Start() error = %v", err)
	}
}
