package domain

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/louisbranch/modal-mcp/internal/platform/timeouts"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// volumeDeleteSafetyMessage is returned when delete_volume lacks confirmation.
const volumeDeleteSafetyMessage = "Safety check: set confirm=true to actually delete the volume. This cannot be undone."

// ListVolumesInput represents the MCP tool input for listing volumes.
type ListVolumesInput struct {
	Environment string `json:"environment,omitempty" jsonschema:"optional Modal environment to filter by"`
}

// ListVolumesResult represents the MCP tool output for listing volumes.
type ListVolumesResult struct {
	Output string `json:"output" jsonschema:"volumes, one block per volume"`
}

// ListVolumeContentsInput represents the MCP tool input for browsing a volume.
type ListVolumeContentsInput struct {
	VolumeName  string `json:"volume_name" jsonschema:"name of the Modal volume"`
	Path        string `json:"path,omitempty" jsonschema:"path within the volume (default \"/\")"`
	Environment string `json:"environment,omitempty" jsonschema:"optional Modal environment"`
}

// ListVolumeContentsResult represents the MCP tool output for browsing a volume.
type ListVolumeContentsResult struct {
	Output string `json:"output" jsonschema:"files and directories at the given path"`
}

// CreateVolumeInput represents the MCP tool input for creating a volume.
type CreateVolumeInput struct {
	VolumeName  string `json:"volume_name" jsonschema:"name for the new volume"`
	Environment string `json:"environment,omitempty" jsonschema:"optional Modal environment"`
}

// CreateVolumeResult represents the MCP tool output for creating a volume.
type CreateVolumeResult struct {
	Output string `json:"output" jsonschema:"creation output from the modal CLI"`
}

// DeleteVolumeInput represents the MCP tool input for deleting a volume.
type DeleteVolumeInput struct {
	VolumeName  string `json:"volume_name" jsonschema:"name of the volume to delete"`
	Confirm     bool   `json:"confirm,omitempty" jsonschema:"must be true to actually delete (safety check)"`
	Environment string `json:"environment,omitempty" jsonschema:"optional Modal environment"`
}

// DeleteVolumeResult represents the MCP tool output for deleting a volume.
type DeleteVolumeResult struct {
	Output string `json:"output" jsonschema:"deletion output or the safety-check message"`
}

// RenameVolumeInput represents the MCP tool input for renaming a volume.
type RenameVolumeInput struct {
	VolumeName  string `json:"volume_name" jsonschema:"current name of the volume"`
	NewName     string `json:"new_name" jsonschema:"new name for the volume"`
	Environment string `json:"environment,omitempty" jsonschema:"optional Modal environment"`
}

// RenameVolumeResult represents the MCP tool output for renaming a volume.
type RenameVolumeResult struct {
	Output string `json:"output" jsonschema:"rename output from the modal CLI"`
}

// UploadToVolumeInput represents the MCP tool input for uploading to a volume.
type UploadToVolumeInput struct {
	VolumeName  string `json:"volume_name" jsonschema:"name of the Modal volume"`
	LocalPath   string `json:"local_path" jsonschema:"path to the local file or directory"`
	RemotePath  string `json:"remote_path,omitempty" jsonschema:"destination path in the volume (default \"/\")"`
	Force       bool   `json:"force,omitempty" jsonschema:"overwrite existing files if true"`
	Environment string `json:"environment,omitempty" jsonschema:"optional Modal environment"`
}

// UploadToVolumeResult represents the MCP tool output for uploading to a volume.
type UploadToVolumeResult struct {
	Output string `json:"output" jsonschema:"upload output from the modal CLI"`
}

// DownloadFromVolumeInput represents the MCP tool input for downloading from a volume.
type DownloadFromVolumeInput struct {
	VolumeName  string `json:"volume_name" jsonschema:"name of the Modal volume"`
	RemotePath  string `json:"remote_path" jsonschema:"path within the volume to download"`
	LocalPath   string `json:"local_path,omitempty" jsonschema:"local destination (default current directory)"`
	Force       bool   `json:"force,omitempty" jsonschema:"overwrite existing local files if true"`
	Environment string `json:"environment,omitempty" jsonschema:"optional Modal environment"`
}

// DownloadFromVolumeResult represents the MCP tool output for downloading from a volume.
type DownloadFromVolumeResult struct {
	Output string `json:"output" jsonschema:"download output from the modal CLI"`
}

// RemoveVolumeFileInput represents the MCP tool input for deleting a volume path.
type RemoveVolumeFileInput struct {
	VolumeName  string `json:"volume_name" jsonschema:"name of the Modal volume"`
	RemotePath  string `json:"remote_path" jsonschema:"path to the file or directory to delete"`
	Recursive   bool   `json:"recursive,omitempty" jsonschema:"delete directories recursively if true"`
	Environment string `json:"environment,omitempty" jsonschema:"optional Modal environment"`
}

// RemoveVolumeFileResult represents the MCP tool output for deleting a volume path.
type RemoveVolumeFileResult struct {
	Output string `json:"output" jsonschema:"removal output from the modal CLI"`
}

// ListVolumesTool defines the MCP tool schema for listing volumes.
func ListVolumesTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "list_volumes",
		Description: "List all Modal volumes",
	}
}

// ListVolumeContentsTool defines the MCP tool schema for browsing a volume.
func ListVolumeContentsTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "list_volume_contents",
		Description: "List files and directories in a Modal volume",
	}
}

// CreateVolumeTool defines the MCP tool schema for creating a volume.
func CreateVolumeTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "create_volume",
		Description: "Create a new Modal volume",
	}
}

// DeleteVolumeTool defines the MCP tool schema for deleting a volume.
func DeleteVolumeTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "delete_volume",
		Description: "Delete a Modal volume. Requires confirm=true to proceed",
	}
}

// RenameVolumeTool defines the MCP tool schema for renaming a volume.
func RenameVolumeTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "rename_volume",
		Description: "Rename a Modal volume",
	}
}

// UploadToVolumeTool defines the MCP tool schema for uploading to a volume.
func UploadToVolumeTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "upload_to_volume",
		Description: "Upload a local file or directory to a Modal volume",
	}
}

// DownloadFromVolumeTool defines the MCP tool schema for downloading from a volume.
func DownloadFromVolumeTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "download_from_volume",
		Description: "Download files from a Modal volume to local disk",
	}
}

// RemoveVolumeFileTool defines the MCP tool schema for deleting a volume path.
func RemoveVolumeFileTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "remove_volume_file",
		Description: "Delete a file or directory from a Modal volume",
	}
}

// ListVolumesHandler executes a volume listing request.
func ListVolumesHandler(runner Runner) mcp.ToolHandlerFor[ListVolumesInput, ListVolumesResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input ListVolumesInput) (*mcp.CallToolResult, ListVolumesResult, error) {
		invocationID, err := NewInvocationID()
		if err != nil {
			return nil, ListVolumesResult{}, fmt.Errorf("generate invocation id: %w", err)
		}

		args := appendEnvFlag([]string{"volume", "list"}, input.Environment)

		out, err := runner.RunJSON(ctx, timeouts.CLIRun, args...)
		if err != nil {
			return nil, ListVolumesResult{}, fmt.Errorf("list volumes: %w", err)
		}
		return CallToolResultWithMetadata(invocationID), ListVolumesResult{Output: out}, nil
	}
}

// ListVolumeContentsHandler executes a volume browse request.
func ListVolumeContentsHandler(runner Runner) mcp.ToolHandlerFor[ListVolumeContentsInput, ListVolumeContentsResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input ListVolumeContentsInput) (*mcp.CallToolResult, ListVolumeContentsResult, error) {
		invocationID, err := NewInvocationID()
		if err != nil {
			return nil, ListVolumeContentsResult{}, fmt.Errorf("generate invocation id: %w", err)
		}

		name, err := requiredField(input.VolumeName, "volume_name")
		if err != nil {
			return nil, ListVolumeContentsResult{}, err
		}
		path := input.Path
		if strings.TrimSpace(path) == "" {
			path = "/"
		}

		args := appendEnvFlag([]string{"volume", "ls", name, path}, input.Environment)

		out, err := runner.Run(ctx, timeouts.CLIRun, args...)
		if err != nil {
			return nil, ListVolumeContentsResult{}, fmt.Errorf("list volume contents: %w", err)
		}
		return CallToolResultWithMetadata(invocationID), ListVolumeContentsResult{Output: out}, nil
	}
}

// CreateVolumeHandler executes a volume creation request.
func CreateVolumeHandler(runner Runner) mcp.ToolHandlerFor[CreateVolumeInput, CreateVolumeResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input CreateVolumeInput) (*mcp.CallToolResult, CreateVolumeResult, error) {
		invocationID, err := NewInvocationID()
		if err != nil {
			return nil, CreateVolumeResult{}, fmt.Errorf("generate invocation id: %w", err)
		}

		name, err := requiredField(input.VolumeName, "volume_name")
		if err != nil {
			return nil, CreateVolumeResult{}, err
		}

		args := appendEnvFlag([]string{"volume", "create", name}, input.Environment)

		out, err := runner.Run(ctx, timeouts.CLIRun, args...)
		if err != nil {
			return nil, CreateVolumeResult{}, fmt.Errorf("create volume: %w", err)
		}
		return CallToolResultWithMetadata(invocationID), CreateVolumeResult{Output: out}, nil
	}
}

// DeleteVolumeHandler executes a volume deletion request behind a confirm gate.
func DeleteVolumeHandler(runner Runner) mcp.ToolHandlerFor[DeleteVolumeInput, DeleteVolumeResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input DeleteVolumeInput) (*mcp.CallToolResult, DeleteVolumeResult, error) {
		invocationID, err := NewInvocationID()
		if err != nil {
			return nil, DeleteVolumeResult{}, fmt.Errorf("generate invocation id: %w", err)
		}

		name, err := requiredField(input.VolumeName, "volume_name")
		if err != nil {
			return nil, DeleteVolumeResult{}, err
		}
		if !input.Confirm {
			return CallToolResultWithMetadata(invocationID), DeleteVolumeResult{Output: volumeDeleteSafetyMessage}, nil
		}

		args := appendEnvFlag([]string{"volume", "delete", name, "--yes"}, input.Environment)

		out, err := runner.Run(ctx, timeouts.CLIRun, args...)
		if err != nil {
			return nil, DeleteVolumeResult{}, fmt.Errorf("delete volume: %w", err)
		}
		return CallToolResultWithMetadata(invocationID), DeleteVolumeResult{Output: out}, nil
	}
}

// RenameVolumeHandler executes a volume rename request.
func RenameVolumeHandler(runner Runner) mcp.ToolHandlerFor[RenameVolumeInput, RenameVolumeResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input RenameVolumeInput) (*mcp.CallToolResult, RenameVolumeResult, error) {
		invocationID, err := NewInvocationID()
		if err != nil {
			return nil, RenameVolumeResult{}, fmt.Errorf("generate invocation id: %w", err)
		}

		name, err := requiredField(input.VolumeName, "volume_name")
		if err != nil {
			return nil, RenameVolumeResult{}, err
		}
		newName, err := requiredField(input.NewName, "new_name")
		if err != nil {
			return nil, RenameVolumeResult{}, err
		}

		args := appendEnvFlag([]string{"volume", "rename", name, newName}, input.Environment)

		out, err := runner.Run(ctx, timeouts.CLIRun, args...)
		if err != nil {
			return nil, RenameVolumeResult{}, fmt.Errorf("rename volume: %w", err)
		}
		return CallToolResultWithMetadata(invocationID), RenameVolumeResult{Output: out}, nil
	}
}

// UploadToVolumeHandler executes a volume upload request.
func UploadToVolumeHandler(runner Runner) mcp.ToolHandlerFor[UploadToVolumeInput, UploadToVolumeResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input UploadToVolumeInput) (*mcp.CallToolResult, UploadToVolumeResult, error) {
		invocationID, err := NewInvocationID()
		if err != nil {
			return nil, UploadToVolumeResult{}, fmt.Errorf("generate invocation id: %w", err)
		}

		name, err := requiredField(input.VolumeName, "volume_name")
		if err != nil {
			return nil, UploadToVolumeResult{}, err
		}
		localPath, err := requiredField(input.LocalPath, "local_path")
		if err != nil {
			return nil, UploadToVolumeResult{}, err
		}
		if _, err := os.Stat(localPath); err != nil {
			return nil, UploadToVolumeResult{}, fmt.Errorf("local path not found: %s", localPath)
		}
		remotePath := input.RemotePath
		if strings.TrimSpace(remotePath) == "" {
			remotePath = "/"
		}

		args := []string{"volume", "put", name, localPath, remotePath}
		if input.Force {
			args = append(args, "--force")
		}
		args = appendEnvFlag(args, input.Environment)

		out, err := runner.Run(ctx, timeouts.CLIRun, args...)
		if err != nil {
			return nil, UploadToVolumeResult{}, fmt.Errorf("upload to volume: %w", err)
		}
		return CallToolResultWithMetadata(invocationID), UploadToVolumeResult{Output: out}, nil
	}
}

// DownloadFromVolumeHandler executes a volume download request.
func DownloadFromVolumeHandler(runner Runner) mcp.ToolHandlerFor[DownloadFromVolumeInput, DownloadFromVolumeResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input DownloadFromVolumeInput) (*mcp.CallToolResult, DownloadFromVolumeResult, error) {
		invocationID, err := NewInvocationID()
		if err != nil {
			return nil, DownloadFromVolumeResult{}, fmt.Errorf("generate invocation id: %w", err)
		}

		name, err := requiredField(input.VolumeName, "volume_name")
		if err != nil {
			return nil, DownloadFromVolumeResult{}, err
		}
		remotePath, err := requiredField(input.RemotePath, "remote_path")
		if err != nil {
			return nil, DownloadFromVolumeResult{}, err
		}
		localPath := input.LocalPath
		if strings.TrimSpace(localPath) == "" {
			localPath = "."
		}

		args := []string{"volume", "get", name, remotePath, localPath}
		if input.Force {
			args = append(args, "--force")
		}
		args = appendEnvFlag(args, input.Environment)

		out, err := runner.Run(ctx, timeouts.CLIRun, args...)
		if err != nil {
			return nil, DownloadFromVolumeResult{}, fmt.Errorf("download from volume: %w", err)
		}
		return CallToolResultWithMetadata(invocationID), DownloadFromVolumeResult{Output: out}, nil
	}
}

// RemoveVolumeFileHandler executes a volume path removal request.
func RemoveVolumeFileHandler(runner Runner) mcp.ToolHandlerFor[RemoveVolumeFileInput, RemoveVolumeFileResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input RemoveVolumeFileInput) (*mcp.CallToolResult, RemoveVolumeFileResult, error) {
		invocationID, err := NewInvocationID()
		if err != nil {
			return nil, RemoveVolumeFileResult{}, fmt.Errorf("generate invocation id: %w", err)
		}

		name, err := requiredField(input.VolumeName, "volume_name")
		if err != nil {
			return nil, RemoveVolumeFileResult{}, err
		}
		remotePath, err := requiredField(input.RemotePath, "remote_path")
		if err != nil {
			return nil, RemoveVolumeFileResult{}, err
		}

		args := []string{"volume", "rm", name, remotePath}
		if input.Recursive {
			args = append(args, "-r")
		}
		args = appendEnvFlag(args, input.Environment)

		out, err := runner.Run(ctx, timeouts.CLIRun, args...)
		if err != nil {
			return nil, RemoveVolumeFileResult{}, fmt.Errorf("remove volume file: %w", err)
		}
		return CallToolResultWithMetadata(invocationID), RemoveVolumeFileResult{Output: out}, nil
	}
}
