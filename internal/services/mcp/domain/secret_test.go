package domain

import (
	"context"
	"testing"
)

func TestCreateSecretSortsKeys(t *testing.T) {
	runner := &fakeRunner{output: "created"}
	handler := CreateSecretHandler(runner)

	_, _, err := handler(context.Background(), nil, CreateSecretInput{
		SecretName: "db-creds",
		KeyValues: map[string]string{
			"PASSWORD": "hunter2",
			"HOST":     "db.internal",
			"USER":     "svc",
		},
	})
	if err != nil {
		t.Fatalf("create secret: %v", err)
	}
	assertArgs(t, runner, "Run", "secret", "create", "db-creds", "HOST=db.internal", "PASSWORD=hunter2", "USER=svc")
}

func TestCreateSecretRequiresKeyValues(t *testing.T) {
	runner := &fakeRunner{}
	handler := CreateSecretHandler(runner)

	_, _, err := handler(context.Background(), nil, CreateSecretInput{SecretName: "empty"})
	if err == nil {
		t.Fatal("expected error for empty key values")
	}
	if runner.calls != 0 {
		t.Fatal("expected no CLI call for invalid input")
	}
}

func TestDeleteSecretRequiresConfirmation(t *testing.T) {
	runner := &fakeRunner{}
	handler := DeleteSecretHandler(runner)

	_, out, err := handler(context.Background(), nil, DeleteSecretInput{SecretName: "db-creds"})
	if err != nil {
		t.Fatalf("delete secret: %v", err)
	}
	if out.Output != secretDeleteSafetyMessage {
		t.Fatalf("expected safety message, got %q", out.Output)
	}
	if runner.calls != 0 {
		t.Fatal("expected no CLI call without confirmation")
	}
}

func TestDeleteSecretConfirmed(t *testing.T) {
	runner := &fakeRunner{output: "deleted"}
	handler := DeleteSecretHandler(runner)

	_, _, err := handler(context.Background(), nil, DeleteSecretInput{SecretName: "db-creds", Confirm: true})
	if err != nil {
		t.Fatalf("delete secret: %v", err)
	}
	assertArgs(t, runner, "Run", "secret", "delete", "db-creds", "--yes")
}
