package domain

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestListVolumeContentsDefaultsPath(t *testing.T) {
	runner := &fakeRunner{output: "dir listing"}
	handler := ListVolumeContentsHandler(runner)

	_, _, err := handler(context.Background(), nil, ListVolumeContentsInput{VolumeName: "models"})
	if err != nil {
		t.Fatalf("list volume contents: %v", err)
	}
	assertArgs(t, runner, "Run", "volume", "ls", "models", "/")
}

func TestDeleteVolumeRequiresConfirmation(t *testing.T) {
	runner := &fakeRunner{}
	handler := DeleteVolumeHandler(runner)

	result, out, err := handler(context.Background(), nil, DeleteVolumeInput{VolumeName: "models"})
	if err != nil {
		t.Fatalf("delete volume: %v", err)
	}
	assertInvocationMeta(t, result)
	if out.Output != volumeDeleteSafetyMessage {
		t.Fatalf("expected safety message, got %q", out.Output)
	}
	if runner.calls != 0 {
		t.Fatal("expected no CLI call without confirmation")
	}
}

func TestDeleteVolumeConfirmed(t *testing.T) {
	runner := &fakeRunner{output: "deleted"}
	handler := DeleteVolumeHandler(runner)

	_, _, err := handler(context.Background(), nil, DeleteVolumeInput{VolumeName: "models", Confirm: true, Environment: "dev"})
	if err != nil {
		t.Fatalf("delete volume: %v", err)
	}
	assertArgs(t, runner, "Run", "volume", "delete", "models", "--yes", "--env", "dev")
}

func TestUploadToVolumeValidatesLocalPath(t *testing.T) {
	runner := &fakeRunner{}
	handler := UploadToVolumeHandler(runner)

	_, _, err := handler(context.Background(), nil, UploadToVolumeInput{
		VolumeName: "models",
		LocalPath:  filepath.Join(t.TempDir(), "missing.bin"),
	})
	if err == nil {
		t.Fatal("expected error for missing local path")
	}
	if runner.calls != 0 {
		t.Fatal("expected no CLI call for invalid input")
	}
}

func TestUploadToVolumeBuildsArgs(t *testing.T) {
	runner := &fakeRunner{output: "uploaded"}
	handler := UploadToVolumeHandler(runner)

	local := filepath.Join(t.TempDir(), "weights.bin")
	if err := os.WriteFile(local, []byte("data"), 0o644); err != nil {
		t.Fatalf("write local file: %v", err)
	}

	_, _, err := handler(context.Background(), nil, UploadToVolumeInput{
		VolumeName: "models",
		LocalPath:  local,
		RemotePath: "/weights",
		Force:      true,
	})
	if err != nil {
		t.Fatalf("upload to volume: %v", err)
	}
	assertArgs(t, runner, "Run", "volume", "put", "models", local, "/weights", "--force")
}

func TestDownloadFromVolumeDefaultsLocalPath(t *testing.T) {
	runner := &fakeRunner{output: "downloaded"}
	handler := DownloadFromVolumeHandler(runner)

	_, _, err := handler(context.Background(), nil, DownloadFromVolumeInput{
		VolumeName: "models",
		RemotePath: "/weights.bin",
	})
	if err != nil {
		t.Fatalf("download from volume: %v", err)
	}
	assertArgs(t, runner, "Run", "volume", "get", "models", "/weights.bin", ".")
}

func TestRemoveVolumeFileRecursive(t *testing.T) {
	runner := &fakeRunner{output: "removed"}
	handler := RemoveVolumeFileHandler(runner)

	_, _, err := handler(context.Background(), nil, RemoveVolumeFileInput{
		VolumeName: "models",
		RemotePath: "/stale",
		Recursive:  true,
	})
	if err != nil {
		t.Fatalf("remove volume file: %v", err)
	}
	assertArgs(t, runner, "Run", "volume", "rm", "models", "/stale", "-r")
}

func TestRenameVolumeRequiresBothNames(t *testing.T) {
	runner := &fakeRunner{}
	handler := RenameVolumeHandler(runner)

	_, _, err := handler(context.Background(), nil, RenameVolumeInput{VolumeName: "models"})
	if err == nil {
		t.Fatal("expected error for missing new name")
	}
	if runner.calls != 0 {
		t.Fatal("expected no CLI call for invalid input")
	}
}
