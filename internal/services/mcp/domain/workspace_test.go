package domain

import (
	"context"
	"testing"

	"github.com/louisbranch/modal-mcp/internal/platform/timeouts"
)

func TestBillingUsageDefaults(t *testing.T) {
	runner := &fakeRunner{output: "report"}
	handler := BillingUsageHandler(runner)

	_, _, err := handler(context.Background(), nil, BillingUsageInput{})
	if err != nil {
		t.Fatalf("billing usage: %v", err)
	}
	assertArgs(t, runner, "Run", "billing", "report", "--for", "this month", "-r", "d")
	if runner.timeout != timeouts.CLIBilling {
		t.Fatalf("expected billing timeout, got %s", runner.timeout)
	}
}

func TestBillingUsageRejectsUnknownPeriod(t *testing.T) {
	runner := &fakeRunner{}
	handler := BillingUsageHandler(runner)

	_, _, err := handler(context.Background(), nil, BillingUsageInput{Period: "next month"})
	if err == nil {
		t.Fatal("expected error for unsupported period")
	}
	if runner.calls != 0 {
		t.Fatal("expected no CLI call for invalid input")
	}
}

func TestBillingUsageRejectsUnknownResolution(t *testing.T) {
	runner := &fakeRunner{}
	handler := BillingUsageHandler(runner)

	_, _, err := handler(context.Background(), nil, BillingUsageInput{Resolution: "weekly"})
	if err == nil {
		t.Fatal("expected error for unsupported resolution")
	}
}

func TestCurrentProfileBuildsArgs(t *testing.T) {
	runner := &fakeRunner{output: "workspace: main"}
	handler := CurrentProfileHandler(runner)

	_, _, err := handler(context.Background(), nil, CurrentProfileInput{})
	if err != nil {
		t.Fatalf("current profile: %v", err)
	}
	assertArgs(t, runner, "Run", "profile", "current")
}

func TestTokenInfoBuildsArgs(t *testing.T) {
	runner := &fakeRunner{output: "token: ak-..."}
	handler := TokenInfoHandler(runner)

	_, _, err := handler(context.Background(), nil, TokenInfoInput{})
	if err != nil {
		t.Fatalf("token info: %v", err)
	}
	assertArgs(t, runner, "Run", "token", "info")
}
