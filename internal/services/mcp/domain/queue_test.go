package domain

import (
	"context"
	"testing"
)

func TestPeekQueueDefaultsCount(t *testing.T) {
	runner := &fakeRunner{output: "items"}
	handler := PeekQueueHandler(runner)

	_, _, err := handler(context.Background(), nil, PeekQueueInput{QueueName: "jobs"})
	if err != nil {
		t.Fatalf("peek queue: %v", err)
	}
	assertArgs(t, runner, "Run", "queue", "peek", "jobs", "5")
}

func TestPeekQueueWithPartition(t *testing.T) {
	runner := &fakeRunner{output: "items"}
	handler := PeekQueueHandler(runner)

	_, _, err := handler(context.Background(), nil, PeekQueueInput{QueueName: "jobs", N: 3, Partition: "gpu"})
	if err != nil {
		t.Fatalf("peek queue: %v", err)
	}
	assertArgs(t, runner, "Run", "queue", "peek", "jobs", "3", "-p", "gpu")
}

func TestQueueLengthTotalFlag(t *testing.T) {
	runner := &fakeRunner{output: "42"}
	handler := QueueLengthHandler(runner)

	_, _, err := handler(context.Background(), nil, QueueLengthInput{QueueName: "jobs", Total: true})
	if err != nil {
		t.Fatalf("queue length: %v", err)
	}
	assertArgs(t, runner, "Run", "queue", "len", "jobs", "-t")
}

func TestClearQueueBuildsArgs(t *testing.T) {
	runner := &fakeRunner{output: "cleared"}
	handler := ClearQueueHandler(runner)

	_, _, err := handler(context.Background(), nil, ClearQueueInput{QueueName: "jobs", Partition: "gpu", Environment: "dev"})
	if err != nil {
		t.Fatalf("clear queue: %v", err)
	}
	assertArgs(t, runner, "Run", "queue", "clear", "jobs", "-p", "gpu", "--env", "dev")
}

func TestDeleteQueueRequiresConfirmation(t *testing.T) {
	runner := &fakeRunner{}
	handler := DeleteQueueHandler(runner)

	_, out, err := handler(context.Background(), nil, DeleteQueueInput{QueueName: "jobs"})
	if err != nil {
		t.Fatalf("delete queue: %v", err)
	}
	if out.Output != queueDeleteSafetyMessage {
		t.Fatalf("expected safety message, got %q", out.Output)
	}
	if runner.calls != 0 {
		t.Fatal("expected no CLI call without confirmation")
	}
}
