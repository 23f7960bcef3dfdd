package modalcli

import (
	"strings"
	"testing"
	"time"

	"github.com/louisbranch/modal-mcp/internal/platform/timeouts"
)

func TestStripDecor(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"plain text", "hello world", "hello world"},
		{
			"box drawing removed",
			"┌──┐\nApp  Name\n└──┘",
			"App Name",
		},
		{
			"ansi colors removed",
			"\x1b[1;32mdeployed\x1b[0m my-app",
			"deployed my-app",
		},
		{
			"table padding collapsed",
			"ap-123     my-app      running",
			"ap-123 my-app running",
		},
		{
			"blank lines dropped",
			"first\n\n\n  second  \n",
			"first\nsecond",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := StripDecor(tc.in); got != tc.want {
				t.Errorf("StripDecor(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestFormatJSONArray(t *testing.T) {
	in := `[{"app_id":"ap-1","name":"alpha"},{"app_id":"ap-2","name":"beta"}]`
	want := "  app_id: ap-1\n  name: alpha\n\n  app_id: ap-2\n  name: beta"
	if got := FormatJSON(in); got != want {
		t.Errorf("FormatJSON() = %q, want %q", got, want)
	}
}

func TestFormatJSONEmptyArray(t *testing.T) {
	if got := FormatJSON("[]"); got != "No results." {
		t.Errorf("FormatJSON(\"[]\") = %q, want \"No results.\"", got)
	}
}

func TestFormatJSONObject(t *testing.T) {
	in := `{"workspace":"main","tasks":3,"idle":false,"budget":1.5}`
	want := "budget: 1.5\nidle: false\ntasks: 3\nworkspace: main"
	if got := FormatJSON(in); got != want {
		t.Errorf("FormatJSON() = %q, want %q", got, want)
	}
}

func TestFormatJSONPassthrough(t *testing.T) {
	in := "not json at all"
	if got := FormatJSON(in); got != in {
		t.Errorf("FormatJSON() = %q, want input unchanged", got)
	}
}

func TestFormatJSONPreservesLargeNumbers(t *testing.T) {
	in := `{"bytes":12345678901234567}`
	want := "bytes: 12345678901234567"
	if got := FormatJSON(in); got != want {
		t.Errorf("FormatJSON() = %q, want %q", got, want)
	}
}

func TestTruncateStream(t *testing.T) {
	short := strings.Repeat("a", streamTruncateAt)
	if got := TruncateStream(short); got != short {
		t.Error("output at the limit should pass through")
	}

	long := strings.Repeat("h", streamHeadBytes) + strings.Repeat("m", 10000) + strings.Repeat("t", streamTailBytes)
	got := TruncateStream(long)
	if !strings.Contains(got, "... [truncated middle] ...") {
		t.Fatal("truncated output missing marker")
	}
	if !strings.HasPrefix(got, strings.Repeat("h", streamHeadBytes)) {
		t.Error("head of capture not preserved")
	}
	if !strings.HasSuffix(got, strings.Repeat("t", streamTailBytes)) {
		t.Error("tail of capture not preserved")
	}
}

func TestClampStreamWindow(t *testing.T) {
	cases := []struct {
		in   time.Duration
		want time.Duration
	}{
		{0, timeouts.StreamDefault},
		{-5 * time.Second, timeouts.StreamDefault},
		{1 * time.Second, timeouts.StreamMin},
		{10 * time.Second, 10 * time.Second},
		{5 * time.Minute, timeouts.StreamMax},
	}
	for _, tc := range cases {
		if got := ClampStreamWindow(tc.in); got != tc.want {
			t.Errorf("ClampStreamWindow(%s) = %s, want %s", tc.in, got, tc.want)
		}
	}
}
