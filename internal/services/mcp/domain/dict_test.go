package domain

import (
	"context"
	"testing"
)

func TestListDictItemsDefaultsCount(t *testing.T) {
	runner := &fakeRunner{output: "entries"}
	handler := ListDictItemsHandler(runner)

	_, _, err := handler(context.Background(), nil, ListDictItemsInput{DictName: "settings"})
	if err != nil {
		t.Fatalf("list dict items: %v", err)
	}
	assertArgs(t, runner, "Run", "dict", "items", "settings", "20")
}

func TestGetDictValueRequiresKey(t *testing.T) {
	runner := &fakeRunner{}
	handler := GetDictValueHandler(runner)

	_, _, err := handler(context.Background(), nil, GetDictValueInput{DictName: "settings"})
	if err == nil {
		t.Fatal("expected error for missing key")
	}
	if runner.calls != 0 {
		t.Fatal("expected no CLI call for invalid input")
	}
}

func TestGetDictValueBuildsArgs(t *testing.T) {
	runner := &fakeRunner{output: "value"}
	handler := GetDictValueHandler(runner)

	_, _, err := handler(context.Background(), nil, GetDictValueInput{DictName: "settings", Key: "retries"})
	if err != nil {
		t.Fatalf("get dict value: %v", err)
	}
	assertArgs(t, runner, "Run", "dict", "get", "settings", "retries")
}

func TestDeleteDictRequiresConfirmation(t *testing.T) {
	runner := &fakeRunner{}
	handler := DeleteDictHandler(runner)

	_, out, err := handler(context.Background(), nil, DeleteDictInput{DictName: "settings"})
	if err != nil {
		t.Fatalf("delete dict: %v", err)
	}
	if out.Output != dictDeleteSafetyMessage {
		t.Fatalf("expected safety message, got %q", out.Output)
	}
	if runner.calls != 0 {
		t.Fatal("expected no CLI call without confirmation")
	}
}
