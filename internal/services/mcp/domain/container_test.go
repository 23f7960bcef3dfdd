package domain

import (
	"context"
	"testing"
)

func TestListContainersUsesJSON(t *testing.T) {
	runner := &fakeRunner{output: "  container_id: ta-1"}
	handler := ListContainersHandler(runner)

	_, _, err := handler(context.Background(), nil, ListContainersInput{Environment: "dev"})
	if err != nil {
		t.Fatalf("list containers: %v", err)
	}
	assertArgs(t, runner, "RunJSON", "container", "list", "--env", "dev")
}

func TestContainerLogsStreams(t *testing.T) {
	runner := &fakeRunner{output: "log lines"}
	handler := ContainerLogsHandler(runner)

	_, _, err := handler(context.Background(), nil, ContainerLogsInput{ContainerID: "ta-123", Duration: 15})
	if err != nil {
		t.Fatalf("container logs: %v", err)
	}
	assertArgs(t, runner, "Stream", "container", "logs", "ta-123")
	if runner.timeout.Seconds() != 15 {
		t.Fatalf("expected 15s stream window, got %s", runner.timeout)
	}
}

func TestStopContainerRequiresID(t *testing.T) {
	runner := &fakeRunner{}
	handler := StopContainerHandler(runner)

	_, _, err := handler(context.Background(), nil, StopContainerInput{})
	if err == nil {
		t.Fatal("expected error for missing container id")
	}
	if runner.calls != 0 {
		t.Fatal("expected no CLI call for invalid input")
	}
}
