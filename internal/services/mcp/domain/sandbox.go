package domain

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// sandboxImages lists the base images the sandbox driver knows how to build.
// The image name becomes a Python attribute lookup in the driver script, so
// it is allow-listed rather than interpolated freely.
var sandboxImages = map[string]struct{}{
	"debian_slim": {},
	"ubuntu":      {},
}

const (
	defaultSandboxImage         = "debian_slim"
	defaultSandboxPythonVersion = "3.12"
	defaultSandboxTimeoutSecs   = 120

	// sandboxDriverHeadroom is added on top of the sandbox's own timeout so
	// the driver process can report the result before being killed itself.
	sandboxDriverHeadroom = 60 * time.Second
)

// RunSandboxCommandInput represents the MCP tool input for a sandbox command.
type RunSandboxCommandInput struct {
	Command       string   `json:"command" jsonschema:"shell command to execute (e.g. \"python -c 'print(1+1)'\" or \"ls /\")"`
	Image         string   `json:"image,omitempty" jsonschema:"base image: debian_slim (default) or ubuntu"`
	PythonVersion string   `json:"python_version,omitempty" jsonschema:"Python version (default 3.12)"`
	PipPackages   []string `json:"pip_packages,omitempty" jsonschema:"optional pip packages to install (e.g. [\"numpy\", \"pandas\"])"`
	Timeout       int      `json:"timeout,omitempty" jsonschema:"max seconds for the sandbox (default 120)"`
	GPU           string   `json:"gpu,omitempty" jsonschema:"optional GPU type (e.g. T4, A10G, A100, H100)"`
	Environment   string   `json:"environment,omitempty" jsonschema:"optional Modal environment"`
}

// RunSandboxCommandResult represents the MCP tool output for a sandbox command.
type RunSandboxCommandResult struct {
	Stdout   string `json:"stdout" jsonschema:"stdout captured inside the sandbox"`
	Stderr   string `json:"stderr,omitempty" jsonschema:"stderr captured inside the sandbox"`
	ExitCode int    `json:"exit_code" jsonschema:"sandbox command exit code"`
	Runner   string `json:"runner_output,omitempty" jsonschema:"driver-side diagnostics, if any"`
}

// RunPythonInSandboxInput represents the MCP tool input for sandboxed Python.
type RunPythonInSandboxInput struct {
	Code          string   `json:"code" jsonschema:"Python code to execute"`
	PipPackages   []string `json:"pip_packages,omitempty" jsonschema:"optional pip packages to install"`
	PythonVersion string   `json:"python_version,omitempty" jsonschema:"Python version (default 3.12)"`
	Timeout       int      `json:"timeout,omitempty" jsonschema:"max seconds for the sandbox (default 120)"`
	GPU           string   `json:"gpu,omitempty" jsonschema:"optional GPU type (e.g. T4, A10G, A100, H100)"`
}

// RunPythonInSandboxResult represents the MCP tool output for sandboxed Python.
type RunPythonInSandboxResult struct {
	Stdout   string `json:"stdout" jsonschema:"stdout captured inside the sandbox"`
	Stderr   string `json:"stderr,omitempty" jsonschema:"stderr captured inside the sandbox"`
	ExitCode int    `json:"exit_code" jsonschema:"sandbox command exit code"`
	Runner   string `json:"runner_output,omitempty" jsonschema:"driver-side diagnostics, if any"`
}

// RunSandboxCommandTool defines the MCP tool schema for a sandbox command.
func RunSandboxCommandTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "run_sandbox_command",
		Description: "Run a command in a Modal sandbox (ephemeral cloud container)",
	}
}

// RunPythonInSandboxTool defines the MCP tool schema for sandboxed Python.
func RunPythonInSandboxTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "run_python_in_sandbox",
		Description: "Run Python code in a Modal sandbox",
	}
}

// sandboxParams is the normalized form of a sandbox request.
type sandboxParams struct {
	command       string
	image         string
	pythonVersion string
	pipPackages   []string
	timeoutSecs   int
	gpu           string
	environment   string
}

func (p *sandboxParams) normalize() error {
	if strings.TrimSpace(p.command) == "" {
		return fmt.Errorf("command is required")
	}
	if p.image == "" {
		p.image = defaultSandboxImage
	}
	if _, ok := sandboxImages[p.image]; !ok {
		return fmt.Errorf("unsupported image %q (use debian_slim or ubuntu)", p.image)
	}
	if p.pythonVersion == "" {
		p.pythonVersion = defaultSandboxPythonVersion
	}
	if p.timeoutSecs <= 0 {
		p.timeoutSecs = defaultSandboxTimeoutSecs
	}
	return nil
}

// pyString renders a Go string as a Python string literal. JSON string
// syntax is a subset of Python's, so marshaling is enough to keep arbitrary
// commands from escaping the driver source.
func pyString(s string) string {
	raw, _ := json.Marshal(s)
	return string(raw)
}

// buildSandboxScript renders the Python driver that creates the sandbox,
// waits for it, and reports the result between fixed markers.
func buildSandboxScript(p sandboxParams) string {
	var b strings.Builder

	b.WriteString("import modal\n\n")
	fmt.Fprintf(&b, "image = modal.Image.%s(python_version=%s)\n", p.image, pyString(p.pythonVersion))
	if len(p.pipPackages) > 0 {
		quoted := make([]string, 0, len(p.pipPackages))
		for _, pkg := range p.pipPackages {
			quoted = append(quoted, pyString(pkg))
		}
		fmt.Fprintf(&b, "image = image.pip_install([%s])\n", strings.Join(quoted, ", "))
	}

	b.WriteString("\nsb = modal.Sandbox.create(\n")
	fmt.Fprintf(&b, "    \"bash\", \"-c\", %s,\n", pyString(p.command))
	b.WriteString("    image=image,\n")
	fmt.Fprintf(&b, "    timeout=%d,\n", p.timeoutSecs)
	if p.gpu != "" {
		fmt.Fprintf(&b, "    gpu=%s,\n", pyString(p.gpu))
	}
	if p.environment != "" {
		fmt.Fprintf(&b, "    environment_name=%s,\n", pyString(p.environment))
	}
	b.WriteString(")\n")
	b.WriteString("sb.wait()\n\n")
	b.WriteString("print(\"===STDOUT===\")\n")
	b.WriteString("print(sb.stdout.read())\n")
	b.WriteString("print(\"===STDERR===\")\n")
	b.WriteString("print(sb.stderr.read())\n")
	b.WriteString("print(\"===RC=%d===\" % sb.returncode)\n")

	return b.String()
}

var sandboxRCMarker = regexp.MustCompile(`===RC=(-?\d+)===`)

// parseSandboxOutput splits the driver's marker-delimited output back into
// the sandbox's stdout, stderr, and exit code.
func parseSandboxOutput(out string) (stdout, stderr string, exitCode int, ok bool) {
	_, rest, found := strings.Cut(out, "===STDOUT===")
	if !found {
		return "", "", 0, false
	}
	stdout, rest, found = strings.Cut(rest, "===STDERR===")
	if !found {
		return "", "", 0, false
	}
	match := sandboxRCMarker.FindStringSubmatchIndex(rest)
	if match == nil {
		return "", "", 0, false
	}
	stderr = rest[:match[0]]
	exitCode, err := strconv.Atoi(rest[match[2]:match[3]])
	if err != nil {
		return "", "", 0, false
	}
	return strings.TrimSpace(stdout), strings.TrimSpace(stderr), exitCode, true
}

// runSandbox executes a normalized sandbox request through the script runner.
func runSandbox(ctx context.Context, scripts ScriptRunner, p sandboxParams) (RunSandboxCommandResult, error) {
	if err := p.normalize(); err != nil {
		return RunSandboxCommandResult{}, err
	}

	script := buildSandboxScript(p)
	timeout := time.Duration(p.timeoutSecs)*time.Second + sandboxDriverHeadroom

	out, driverErr, err := scripts.RunScript(ctx, timeout, script)
	if err != nil {
		return RunSandboxCommandResult{}, fmt.Errorf("run sandbox: %w", err)
	}

	stdout, stderr, exitCode, ok := parseSandboxOutput(out)
	if !ok {
		if driverErr != "" {
			return RunSandboxCommandResult{}, fmt.Errorf("sandbox driver failed: %s", driverErr)
		}
		return RunSandboxCommandResult{}, fmt.Errorf("sandbox driver produced no result")
	}

	return RunSandboxCommandResult{
		Stdout:   stdout,
		Stderr:   stderr,
		ExitCode: exitCode,
		Runner:   driverErr,
	}, nil
}

// RunSandboxCommandHandler executes a shell command in an ephemeral sandbox.
func RunSandboxCommandHandler(scripts ScriptRunner) mcp.ToolHandlerFor[RunSandboxCommandInput, RunSandboxCommandResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input RunSandboxCommandInput) (*mcp.CallToolResult, RunSandboxCommandResult, error) {
		invocationID, err := NewInvocationID()
		if err != nil {
			return nil, RunSandboxCommandResult{}, fmt.Errorf("generate invocation id: %w", err)
		}

		result, err := runSandbox(ctx, scripts, sandboxParams{
			command:       input.Command,
			image:         input.Image,
			pythonVersion: input.PythonVersion,
			pipPackages:   input.PipPackages,
			timeoutSecs:   input.Timeout,
			gpu:           input.GPU,
			environment:   input.Environment,
		})
		if err != nil {
			return nil, RunSandboxCommandResult{}, err
		}
		return CallToolResultWithMetadata(invocationID), result, nil
	}
}

// RunPythonInSandboxHandler executes Python code in an ephemeral sandbox by
// delegating to the command path with a python3 -c invocation.
func RunPythonInSandboxHandler(scripts ScriptRunner) mcp.ToolHandlerFor[RunPythonInSandboxInput, RunPythonInSandboxResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input RunPythonInSandboxInput) (*mcp.CallToolResult, RunPythonInSandboxResult, error) {
		invocationID, err := NewInvocationID()
		if err != nil {
			return nil, RunPythonInSandboxResult{}, fmt.Errorf("generate invocation id: %w", err)
		}

		if strings.TrimSpace(input.Code) == "" {
			return nil, RunPythonInSandboxResult{}, fmt.Errorf("code is required")
		}

		result, err := runSandbox(ctx, scripts, sandboxParams{
			command:       "python3 -c " + pyString(input.Code),
			pythonVersion: input.PythonVersion,
			pipPackages:   input.PipPackages,
			timeoutSecs:   input.Timeout,
			gpu:           input.GPU,
		})
		if err != nil {
			return nil, RunPythonInSandboxResult{}, err
		}
		return CallToolResultWithMetadata(invocationID), RunPythonInSandboxResult(result), nil
	}
}
