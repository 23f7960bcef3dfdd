package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/louisbranch/modal-mcp/internal/platform/branding"
	"github.com/louisbranch/modal-mcp/internal/platform/modalcli"
	"github.com/louisbranch/modal-mcp/internal/services/mcp/domain"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// serverVersion identifies the MCP server version.
const serverVersion = "0.1.0"

// serverName identifies this MCP server to clients.
var serverName = branding.AppName

// TransportKind identifies the MCP transport implementation.
type TransportKind string

const (
	// TransportStdio uses standard input/output for MCP.
	TransportStdio TransportKind = "stdio"
	// TransportHTTP runs MCP over HTTP for remote clients.
	TransportHTTP TransportKind = "http"
)

// Config configures the MCP server.
type Config struct {
	Transport TransportKind
	HTTPAddr  string // HTTP server address. Defaults to localhost:8081 for HTTP transport.
	// AuthToken, when set, requires HTTP clients to present it as a bearer
	// token. Stdio runs are trusted local transport and skip it.
	AuthToken string
	// AllowedHosts broadens the Host-header allowlist beyond localhost.
	AllowedHosts []string
	// CLI configures the modal binary the tools shell out to.
	CLI modalcli.Options
}

type registrationModule struct {
	name     string
	register func(registrationTarget) error
}

const (
	appToolsModuleName         = "app-tools"
	containerToolsModuleName   = "container-tools"
	volumeToolsModuleName      = "volume-tools"
	sandboxToolsModuleName     = "sandbox-tools"
	secretToolsModuleName      = "secret-tools"
	queueToolsModuleName       = "queue-tools"
	dictToolsModuleName        = "dict-tools"
	environmentToolsModuleName = "environment-tools"
	workspaceToolsModuleName   = "workspace-tools"
)

type serverRegistrationAdapter struct {
	server *mcp.Server
}

func (r serverRegistrationAdapter) AddTool(tool *mcp.Tool, handler any) error {
	return addTool(r.server, tool, handler)
}

type toolRegistrar struct {
	matches func(any) bool
	add     func(*mcp.Server, *mcp.Tool, any)
}

func newToolRegistrar[I any, O any]() toolRegistrar {
	return toolRegistrar{
		matches: func(handler any) bool {
			_, ok := handler.(mcp.ToolHandlerFor[I, O])
			return ok
		},
		add: func(server *mcp.Server, tool *mcp.Tool, handler any) {
			mcp.AddTool(server, tool, handler.(mcp.ToolHandlerFor[I, O]))
		},
	}
}

var toolRegistrars = []toolRegistrar{
	newToolRegistrar[domain.DeployAppInput, domain.DeployAppResult](),
	newToolRegistrar[domain.RunAppInput, domain.RunAppResult](),
	newToolRegistrar[domain.ListAppsInput, domain.ListAppsResult](),
	newToolRegistrar[domain.StopAppInput, domain.StopAppResult](),
	newToolRegistrar[domain.AppLogsInput, domain.AppLogsResult](),
	newToolRegistrar[domain.ListContainersInput, domain.ListContainersResult](),
	newToolRegistrar[domain.ContainerLogsInput, domain.ContainerLogsResult](),
	newToolRegistrar[domain.StopContainerInput, domain.StopContainerResult](),
	newToolRegistrar[domain.ListVolumesInput, domain.ListVolumesResult](),
	newToolRegistrar[domain.ListVolumeContentsInput, domain.ListVolumeContentsResult](),
	newToolRegistrar[domain.CreateVolumeInput, domain.CreateVolumeResult](),
	newToolRegistrar[domain.DeleteVolumeInput, domain.DeleteVolumeResult](),
	newToolRegistrar[domain.RenameVolumeInput, domain.RenameVolumeResult](),
	newToolRegistrar[domain.UploadToVolumeInput, domain.UploadToVolumeResult](),
	newToolRegistrar[domain.DownloadFromVolumeInput, domain.DownloadFromVolumeResult](),
	newToolRegistrar[domain.RemoveVolumeFileInput, domain.RemoveVolumeFileResult](),
	newToolRegistrar[domain.RunSandboxCommandInput, domain.RunSandboxCommandResult](),
	newToolRegistrar[domain.RunPythonInSandboxInput, domain.RunPythonInSandboxResult](),
	newToolRegistrar[domain.ListSecretsInput, domain.ListSecretsResult](),
	newToolRegistrar[domain.CreateSecretInput, domain.CreateSecretResult](),
	newToolRegistrar[domain.DeleteSecretInput, domain.DeleteSecretResult](),
	newToolRegistrar[domain.ListQueuesInput, domain.ListQueuesResult](),
	newToolRegistrar[domain.CreateQueueInput, domain.CreateQueueResult](),
	newToolRegistrar[domain.DeleteQueueInput, domain.DeleteQueueResult](),
	newToolRegistrar[domain.ClearQueueInput, domain.ClearQueueResult](),
	newToolRegistrar[domain.PeekQueueInput, domain.PeekQueueResult](),
	newToolRegistrar[domain.QueueLengthInput, domain.QueueLengthResult](),
	newToolRegistrar[domain.ListDictsInput, domain.ListDictsResult](),
	newToolRegistrar[domain.CreateDictInput, domain.CreateDictResult](),
	newToolRegistrar[domain.DeleteDictInput, domain.DeleteDictResult](),
	newToolRegistrar[domain.ClearDictInput, domain.ClearDictResult](),
	newToolRegistrar[domain.GetDictValueInput, domain.GetDictValueResult](),
	newToolRegistrar[domain.ListDictItemsInput, domain.ListDictItemsResult](),
	newToolRegistrar[domain.ListEnvironmentsInput, domain.ListEnvironmentsResult](),
	newToolRegistrar[domain.CreateEnvironmentInput, domain.CreateEnvironmentResult](),
	newToolRegistrar[domain.DeleteEnvironmentInput, domain.DeleteEnvironmentResult](),
	newToolRegistrar[domain.CurrentProfileInput, domain.CurrentProfileResult](),
	newToolRegistrar[domain.TokenInfoInput, domain.TokenInfoResult](),
	newToolRegistrar[domain.BillingUsageInput, domain.BillingUsageResult](),
}

func addTool(server *mcp.Server, tool *mcp.Tool, handler any) error {
	for _, registrar := range toolRegistrars {
		if registrar.matches(handler) {
			registrar.add(server, tool, handler)
			return nil
		}
	}
	toolName := "<nil>"
	if tool != nil {
		toolName = tool.Name
	}
	return fmt.Errorf("mcp registration adapter does not support handler type %T for tool %q", handler, toolName)
}

func newRegistrationModules(runner domain.Runner, scripts domain.ScriptRunner) []registrationModule {
	return []registrationModule{
		{
			name: appToolsModuleName,
			register: func(registrar registrationTarget) error {
				return registerAppTools(registrar, runner)
			},
		},
		{
			name: containerToolsModuleName,
			register: func(registrar registrationTarget) error {
				return registerContainerTools(registrar, runner)
			},
		},
		{
			name: volumeToolsModuleName,
			register: func(registrar registrationTarget) error {
				return registerVolumeTools(registrar, runner)
			},
		},
		{
			name: sandboxToolsModuleName,
			register: func(registrar registrationTarget) error {
				return registerSandboxTools(registrar, scripts)
			},
		},
		{
			name: secretToolsModuleName,
			register: func(registrar registrationTarget) error {
				return registerSecretTools(registrar, runner)
			},
		},
		{
			name: queueToolsModuleName,
			register: func(registrar registrationTarget) error {
				return registerQueueTools(registrar, runner)
			},
		},
		{
			name: dictToolsModuleName,
			register: func(registrar registrationTarget) error {
				return registerDictTools(registrar, runner)
			},
		},
		{
			name: environmentToolsModuleName,
			register: func(registrar registrationTarget) error {
				return registerEnvironmentTools(registrar, runner)
			},
		},
		{
			name: workspaceToolsModuleName,
			register: func(registrar registrationTarget) error {
				return registerWorkspaceTools(registrar, runner)
			},
		},
	}
}

// Server hosts the MCP server.
type Server struct {
	mcpServer *mcp.Server
}

// New builds an MCP server with every tool bound to the given runners.
func New(runner domain.Runner, scripts domain.ScriptRunner) (*Server, error) {
	mcpServer := mcp.NewServer(&mcp.Implementation{Name: serverName, Version: serverVersion}, &mcp.ServerOptions{
		CompletionHandler: completionHandler,
	})

	for _, module := range newRegistrationModules(runner, scripts) {
		if err := module.register(serverRegistrationAdapter{server: mcpServer}); err != nil {
			return nil, fmt.Errorf("register MCP module %q: %w", module.name, err)
		}
	}

	return &Server{mcpServer: mcpServer}, nil
}

// completionHandler handles completion/complete requests with empty results.
// Tool arguments are free-form platform identifiers that only Modal can
// enumerate, so completions stay empty rather than guessing.
func completionHandler(ctx context.Context, req *mcp.CompleteRequest) (*mcp.CompleteResult, error) {
	return &mcp.CompleteResult{
		Completion: mcp.CompletionResultDetails{
			Values: []string{},
		},
	}, nil
}

// Run is the service entrypoint for MCP and blocks until context cancellation.
// It is intentionally transport-agnostic so startup can choose stdio for local
// tools and HTTP for remote integrations.
func Run(ctx context.Context, cfg Config) error {
	if cfg.Transport == "" {
		cfg.Transport = TransportStdio
	}

	client := modalcli.New(cfg.CLI)
	server, err := New(client, client)
	if err != nil {
		return err
	}

	switch cfg.Transport {
	case TransportStdio:
		return server.serveWithTransport(ctx, &mcp.StdioTransport{})
	case TransportHTTP:
		return NewHTTPTransport(cfg, server.mcpServer).Start(ctx)
	default:
		return fmt.Errorf("transport %q is not supported", cfg.Transport)
	}
}

// Serve starts the MCP server on stdio and blocks until it stops or the
// context ends.
func (s *Server) Serve(ctx context.Context) error {
	return s.serveWithTransport(ctx, &mcp.StdioTransport{})
}

// serveWithTransport starts the MCP server using the provided transport.
// Context cancellation is the normal shutdown path, not an error.
func (s *Server) serveWithTransport(ctx context.Context, transport mcp.Transport) error {
	if s == nil || s.mcpServer == nil {
		return fmt.Errorf("MCP server is not configured")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	err := s.mcpServer.Run(ctx, transport)
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("serve MCP: %w", err)
	}
	return nil
}
