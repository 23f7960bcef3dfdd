package service

import (
	"context"
	"crypto/subtle"
	"log"
	"net"
	"net/http"
	"strings"

	"github.com/louisbranch/modal-mcp/internal/platform/timeouts"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const defaultHTTPAddr = "localhost:8081"

// HTTPTransport serves MCP over streamable HTTP with bearer-token auth and a
// Host-header allowlist in front of the protocol handler.
type HTTPTransport struct {
	addr         string
	authToken    string
	allowedHosts map[string]struct{}
	handler      http.Handler
}

// NewHTTPTransport wraps the MCP server in the HTTP protocol handler plus the
// access middleware configured by cfg.
func NewHTTPTransport(cfg Config, server *mcp.Server) *HTTPTransport {
	addr := cfg.HTTPAddr
	if addr == "" {
		addr = defaultHTTPAddr
	}
	allowed := make(map[string]struct{}, len(cfg.AllowedHosts))
	for _, host := range cfg.AllowedHosts {
		host = strings.ToLower(strings.TrimSpace(host))
		if host != "" {
			allowed[host] = struct{}{}
		}
	}
	t := &HTTPTransport{
		addr:         addr,
		authToken:    cfg.AuthToken,
		allowedHosts: allowed,
	}
	streamable := mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return server
	}, nil)
	t.handler = t.withAccessChecks(streamable)
	return t
}

// Start serves MCP over HTTP until the context ends, then shuts the server
// down gracefully.
func (t *HTTPTransport) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:              t.addr,
		Handler:           t.handler,
		ReadHeaderTimeout: timeouts.ReadHeader,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("HTTP transport listening on %s", t.addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeouts.Shutdown)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return nil
	}
}

// withAccessChecks rejects requests from unexpected hosts and, when an auth
// token is configured, requests without the matching bearer token. The host
// check blocks DNS-rebinding attacks against local deployments.
func (t *HTTPTransport) withAccessChecks(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !t.hostAllowed(r.Host) {
			http.Error(w, "host not allowed", http.StatusForbidden)
			return
		}
		if t.authToken != "" && !t.authorized(r) {
			w.Header().Set("WWW-Authenticate", "Bearer")
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (t *HTTPTransport) hostAllowed(hostport string) bool {
	host := hostport
	if h, _, err := net.SplitHostPort(hostport); err == nil {
		host = h
	}
	host = strings.ToLower(strings.Trim(host, "[]"))
	switch host {
	case "localhost", "127.0.0.1", "::1":
		return true
	}
	_, ok := t.allowedHosts[host]
	return ok
}

func (t *HTTPTransport) authorized(r *http.Request) bool {
	auth := r.Header.Get("Authorization")
	token, ok := strings.CutPrefix(auth, "Bearer ")
	if !ok {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(token), []byte(t.authToken)) == 1
}
