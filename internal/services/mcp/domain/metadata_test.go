package domain

import "testing"

func TestCallToolResultWithMetadata(t *testing.T) {
	result := CallToolResultWithMetadata("abc123")
	if result.Meta[invocationIDMetaKey] != "abc123" {
		t.Fatalf("expected invocation id in metadata, got %v", result.Meta)
	}

	empty := CallToolResultWithMetadata("")
	if empty.Meta != nil {
		t.Fatalf("expected no metadata for empty id, got %v", empty.Meta)
	}
}

func TestNewInvocationID(t *testing.T) {
	first, err := NewInvocationID()
	if err != nil {
		t.Fatalf("new invocation id: %v", err)
	}
	second, err := NewInvocationID()
	if err != nil {
		t.Fatalf("new invocation id: %v", err)
	}
	if first == second {
		t.Fatal("expected unique invocation ids")
	}
	if len(first) != 26 {
		t.Fatalf("expected 26-character id, got %d", len(first))
	}
}
