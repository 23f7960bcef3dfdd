package service

import (
	"fmt"

	"github.com/louisbranch/modal-mcp/internal/services/mcp/domain"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// registrationTarget is the subset of server registration behavior tool
// modules need.
type registrationTarget interface {
	AddTool(tool *mcp.Tool, handler any) error
}

func registerTool(registrar registrationTarget, tool *mcp.Tool, handler any) error {
	if registrar == nil {
		return fmt.Errorf("tool registrar is not configured")
	}
	if tool == nil {
		return fmt.Errorf("tool definition is not configured")
	}
	if err := registrar.AddTool(tool, handler); err != nil {
		return fmt.Errorf("register tool %q: %w", tool.Name, err)
	}
	return nil
}

func registerAppTools(registrar registrationTarget, runner domain.Runner) error {
	if err := registerTool(registrar, domain.DeployAppTool(), domain.DeployAppHandler(runner)); err != nil {
		return err
	}
	if err := registerTool(registrar, domain.RunAppTool(), domain.RunAppHandler(runner)); err != nil {
		return err
	}
	if err := registerTool(registrar, domain.ListAppsTool(), domain.ListAppsHandler(runner)); err != nil {
		return err
	}
	if err := registerTool(registrar, domain.StopAppTool(), domain.StopAppHandler(runner)); err != nil {
		return err
	}
	return registerTool(registrar, domain.AppLogsTool(), domain.AppLogsHandler(runner))
}

func registerContainerTools(registrar registrationTarget, runner domain.Runner) error {
	if err := registerTool(registrar, domain.ListContainersTool(), domain.ListContainersHandler(runner)); err != nil {
		return err
	}
	if err := registerTool(registrar, domain.ContainerLogsTool(), domain.ContainerLogsHandler(runner)); err != nil {
		return err
	}
	return registerTool(registrar, domain.StopContainerTool(), domain.StopContainerHandler(runner))
}

func registerVolumeTools(registrar registrationTarget, runner domain.Runner) error {
	if err := registerTool(registrar, domain.ListVolumesTool(), domain.ListVolumesHandler(runner)); err != nil {
		return err
	}
	if err := registerTool(registrar, domain.ListVolumeContentsTool(), domain.ListVolumeContentsHandler(runner)); err != nil {
		return err
	}
	if err := registerTool(registrar, domain.CreateVolumeTool(), domain.CreateVolumeHandler(runner)); err != nil {
		return err
	}
	if err := registerTool(registrar, domain.DeleteVolumeTool(), domain.DeleteVolumeHandler(runner)); err != nil {
		return err
	}
	if err := registerTool(registrar, domain.RenameVolumeTool(), domain.RenameVolumeHandler(runner)); err != nil {
		return err
	}
	if err := registerTool(registrar, domain.UploadToVolumeTool(), domain.UploadToVolumeHandler(runner)); err != nil {
		return err
	}
	if err := registerTool(registrar, domain.DownloadFromVolumeTool(), domain.DownloadFromVolumeHandler(runner)); err != nil {
		return err
	}
	return registerTool(registrar, domain.RemoveVolumeFileTool(), domain.RemoveVolumeFileHandler(runner))
}

func registerSandboxTools(registrar registrationTarget, scripts domain.ScriptRunner) error {
	if err := registerTool(registrar, domain.RunSandboxCommandTool(), domain.RunSandboxCommandHandler(scripts)); err != nil {
		return err
	}
	return registerTool(registrar, domain.RunPythonInSandboxTool(), domain.RunPythonInSandboxHandler(scripts))
}

func registerSecretTools(registrar registrationTarget, runner domain.Runner) error {
	if err := registerTool(registrar, domain.ListSecretsTool(), domain.ListSecretsHandler(runner)); err != nil {
		return err
	}
	if err := registerTool(registrar, domain.CreateSecretTool(), domain.CreateSecretHandler(runner)); err != nil {
		return err
	}
	return registerTool(registrar, domain.DeleteSecretTool(), domain.DeleteSecretHandler(runner))
}

func registerQueueTools(registrar registrationTarget, runner domain.Runner) error {
	if err := registerTool(registrar, domain.ListQueuesTool(), domain.ListQueuesHandler(runner)); err != nil {
		return err
	}
	if err := registerTool(registrar, domain.CreateQueueTool(), domain.CreateQueueHandler(runner)); err != nil {
		return err
	}
	if err := registerTool(registrar, domain.DeleteQueueTool(), domain.DeleteQueueHandler(runner)); err != nil {
		return err
	}
	if err := registerTool(registrar, domain.ClearQueueTool(), domain.ClearQueueHandler(runner)); err != nil {
		return err
	}
	if err := registerTool(registrar, domain.PeekQueueTool(), domain.PeekQueueHandler(runner)); err != nil {
		return err
	}
	return registerTool(registrar, domain.QueueLengthTool(), domain.QueueLengthHandler(runner))
}

func registerDictTools(registrar registrationTarget, runner domain.Runner) error {
	if err := registerTool(registrar, domain.ListDictsTool(), domain.ListDictsHandler(runner)); err != nil {
		return err
	}
	if err := registerTool(registrar, domain.CreateDictTool(), domain.CreateDictHandler(runner)); err != nil {
		return err
	}
	if err := registerTool(registrar, domain.DeleteDictTool(), domain.DeleteDictHandler(runner)); err != nil {
		return err
	}
	if err := registerTool(registrar, domain.ClearDictTool(), domain.ClearDictHandler(runner)); err != nil {
		return err
	}
	if err := registerTool(registrar, domain.GetDictValueTool(), domain.GetDictValueHandler(runner)); err != nil {
		return err
	}
	return registerTool(registrar, domain.ListDictItemsTool(), domain.ListDictItemsHandler(runner))
}

func registerEnvironmentTools(registrar registrationTarget, runner domain.Runner) error {
	if err := registerTool(registrar, domain.ListEnvironmentsTool(), domain.ListEnvironmentsHandler(runner)); err != nil {
		return err
	}
	if err := registerTool(registrar, domain.CreateEnvironmentTool(), domain.CreateEnvironmentHandler(runner)); err != nil {
		return err
	}
	return registerTool(registrar, domain.DeleteEnvironmentTool(), domain.DeleteEnvironmentHandler(runner))
}

func registerWorkspaceTools(registrar registrationTarget, runner domain.Runner) error {
	if err := registerTool(registrar, domain.CurrentProfileTool(), domain.CurrentProfileHandler(runner)); err != nil {
		return err
	}
	if err := registerTool(registrar, domain.TokenInfoTool(), domain.TokenInfoHandler(runner)); err != nil {
		return err
	}
	return registerTool(registrar, domain.BillingUsageTool(), domain.BillingUsageHandler(runner))
}
