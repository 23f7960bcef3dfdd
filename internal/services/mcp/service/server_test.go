package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/louisbranch/modal-mcp/internal/services/mcp/domain"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type stubRunner struct {
	output string
}

func (s stubRunner) Run(ctx context.Context, timeout time.Duration, args ...string) (string, error) {
	return s.output, nil
}

func (s stubRunner) RunJSON(ctx context.Context, timeout time.Duration, args ...string) (string, error) {
	return s.output, nil
}

func (s stubRunner) Stream(ctx context.Context, window time.Duration, args ...string) (string, error) {
	return s.output, nil
}

func (s stubRunner) RunScript(ctx context.Context, timeout time.Duration, script string) (string, string, error) {
	return s.output, "", nil
}

func TestNewRegistersAllModules(t *testing.T) {
	runner := stubRunner{output: "ok"}
	server, err := New(runner, runner)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if server == nil || server.mcpServer == nil {
		t.Fatal("New() returned unconfigured server")
	}
}

func TestAddToolRejectsUnknownHandlerType(t *testing.T) {
	server := mcp.NewServer(&mcp.Implementation{Name: "test", Version: "0.0.0"}, nil)
	tool := &mcp.Tool{Name: "mystery_tool", Description: "unsupported"}

	err := addTool(server, tool, func() {})
	if err == nil {
		t.Fatal("addTool() accepted unsupported handler type")
	}
	if !strings.Contains(err.Error(), "mystery_tool") {
		t.Errorf("addTool() error = %q, want tool name in message", err)
	}
}

func TestRegistrationModulesCoverEveryArea(t *testing.T) {
	runner := stubRunner{}
	modules := newRegistrationModules(runner, runner)
	want := []string{
		appToolsModuleName,
		containerToolsModuleName,
		volumeToolsModuleName,
		sandboxToolsModuleName,
		secretToolsModuleName,
		queueToolsModuleName,
		dictToolsModuleName,
		environmentToolsModuleName,
		workspaceToolsModuleName,
	}
	if len(modules) != len(want) {
		t.Fatalf("newRegistrationModules() returned %d modules, want %d", len(modules), len(want))
	}
	for i, module := range modules {
		if module.name != want[i] {
			t.Errorf("module[%d].name = %q, want %q", i, module.name, want[i])
		}
	}
}

func TestRegisterToolValidatesArguments(t *testing.T) {
	runner := stubRunner{}
	if err := registerTool(nil, domain.ListAppsTool(), domain.ListAppsHandler(runner)); err == nil {
		t.Error("registerTool() accepted nil registrar")
	}
	server := mcp.NewServer(&mcp.Implementation{Name: "test", Version: "0.0.0"}, nil)
	if err := registerTool(serverRegistrationAdapter{server: server}, nil, domain.ListAppsHandler(runner)); err == nil {
		t.Error("registerTool() accepted nil tool")
	}
}

func TestCompletionHandlerReturnsEmptyValues(t *testing.T) {
	result, err := completionHandler(context.Background(), &mcp.CompleteRequest{})
	if err != nil {
		t.Fatalf("completionHandler() error = %v", err)
	}
	if len(result.Completion.Values) != 0 {
		t.Errorf("completionHandler() values = %v, want empty", result.Completion.Values)
	}
}

func TestRunRejectsUnknownTransport(t *testing.T) {
	err := Run(context.Background(), Config{Transport: "carrier-pigeon"})
	if err == nil {
		t.Fatal("Run() accepted unknown transport")
	}
	if !strings.Contains(err.Error(), "carrier-pigeon") {
		t.Errorf("Run() error = %q, want transport name in message", err)
	}
}

func newTestTransport(t *testing.T, cfg Config) *HTTPTransport {
	t.Helper()
	runner := stubRunner{}
	server, err := New(runner, runner)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return NewHTTPTransport(cfg, server.mcpServer)
}

func TestHTTPTransportRejectsUnknownHost(t *testing.T) {
	transport := newTestTransport(t, Config{})

	req := httptest.NewRequest(http.MethodPost, "http://evil.example.com/", nil)
	rec := httptest.NewRecorder()
	transport.handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusForbidden)
	}
}

func TestHTTPTransportAllowsConfiguredHost(t *testing.T) {
	transport := newTestTransport(t, Config{AllowedHosts: []string{"mcp.internal"}})

	req := httptest.NewRequest(http.MethodPost, "http://mcp.internal:8081/", nil)
	rec := httptest.NewRecorder()
	transport.handler.ServeHTTP(rec, req)

	if rec.Code == http.StatusForbidden {
		t.Error("configured host was rejected")
	}
}

func TestHTTPTransportRequiresBearerToken(t *testing.T) {
	transport := newTestTransport(t, Config{AuthToken: "sesame"})

	req := httptest.NewRequest(http.MethodPost, "http://localhost:8081/", nil)
	rec := httptest.NewRecorder()
	transport.handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status without token = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
	if rec.Header().Get("WWW-Authenticate") == "" {
		t.Error("missing WWW-Authenticate challenge header")
	}

	req = httptest.NewRequest(http.MethodPost, "http://localhost:8081/", nil)
	req.Header.Set("Authorization", "Bearer sesame")
	rec = httptest.NewRecorder()
	transport.handler.ServeHTTP(rec, req)

	if rec.Code == http.StatusUnauthorized || rec.Code == http.StatusForbidden {
		t.Errorf("status with token = %d, want request to reach the protocol handler", rec.Code)
	}
}

func TestHostAllowed(t *testing.T) {
	transport := &HTTPTransport{allowedHosts: map[string]struct{}{"mcp.internal": {}}}

	cases := []struct {
		host string
		want bool
	}{
		{"localhost:8081", true},
		{"127.0.0.1:9000", true},
		{"[::1]:8081", true},
		{"mcp.internal", true},
		{"MCP.Internal:443", true},
		{"attacker.example.com", false},
	}
	for _, tc := range cases {
		if got := transport.hostAllowed(tc.host); got != tc.want {
			t.Errorf("hostAllowed(%q) = %v, want %v", tc.host, got, tc.want)
		}
	}
}
