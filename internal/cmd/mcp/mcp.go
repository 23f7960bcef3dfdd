// Package mcp parses MCP command flags and selects stdio or HTTP transport.
package mcp

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/louisbranch/modal-mcp/internal/platform/config"
	"github.com/louisbranch/modal-mcp/internal/platform/modalcli"
	"github.com/louisbranch/modal-mcp/internal/platform/otel"
	"github.com/louisbranch/modal-mcp/internal/services/mcp/service"
)

// Config holds MCP command configuration.
type Config struct {
	Transport    string   `env:"MODAL_MCP_TRANSPORT"     envDefault:"stdio"`
	HTTPAddr     string   `env:"MODAL_MCP_HTTP_ADDR"     envDefault:"localhost:8081"`
	Binary       string   `env:"MODAL_MCP_BINARY"        envDefault:"modal"`
	Python       string   `env:"MODAL_MCP_PYTHON"        envDefault:"python3"`
	AuthToken    string   `env:"MODAL_MCP_AUTH_TOKEN"`
	AllowedHosts []string `env:"MODAL_MCP_ALLOWED_HOSTS" envSeparator:","`
	TokenID      string   `env:"MODAL_TOKEN_ID"`
	TokenSecret  string   `env:"MODAL_TOKEN_SECRET"`
}

// ParseConfig parses environment and flags into a Config. Flags win over
// environment values.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := config.ParseEnv(&cfg); err != nil {
		return Config{}, err
	}

	fs.StringVar(&cfg.Transport, "transport", cfg.Transport, "Transport type: stdio or http")
	fs.StringVar(&cfg.HTTPAddr, "http-addr", cfg.HTTPAddr, "HTTP server address (for HTTP transport)")
	fs.StringVar(&cfg.Binary, "modal-binary", cfg.Binary, "modal CLI binary name or path")
	fs.StringVar(&cfg.Python, "python", cfg.Python, "Python interpreter for sandbox drivers")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the MCP adapter.
func Run(ctx context.Context, cfg Config) error {
	shutdown, err := otel.Setup(ctx, "mcp")
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			log.Printf("otel shutdown: %v", err)
		}
	}()

	return service.Run(ctx, service.Config{
		Transport:    service.TransportKind(cfg.Transport),
		HTTPAddr:     cfg.HTTPAddr,
		AuthToken:    cfg.AuthToken,
		AllowedHosts: cfg.AllowedHosts,
		CLI: modalcli.Options{
			Binary:      cfg.Binary,
			Python:      cfg.Python,
			TokenID:     cfg.TokenID,
			TokenSecret: cfg.TokenSecret,
		},
	})
}
