package modalcli

import (
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/louisbranch/modal-mcp/internal/platform/timeouts"
)

// ansiSGR matches ANSI color/style escape sequences.
var ansiSGR = regexp.MustCompile(`\x1b\[[0-9;]*m`)

// multiSpace matches runs of two or more spaces left behind by table layout.
var multiSpace = regexp.MustCompile(` {2,}`)

// StripDecor removes the terminal decoration the modal CLI emits even with
// NO_COLOR set: box-drawing runes, ANSI escapes, and table padding. Blank
// lines are dropped so error text stays compact in tool results.
func StripDecor(text string) string {
	if text == "" {
		return ""
	}

	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if r >= 0x2500 && r <= 0x257f {
			continue
		}
		b.WriteRune(r)
	}

	cleaned := ansiSGR.ReplaceAllString(b.String(), "")
	cleaned = multiSpace.ReplaceAllString(cleaned, " ")

	lines := strings.Split(cleaned, "\n")
	kept := lines[:0]
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "\n")
}

// FormatJSON reformats a CLI --json payload into readable key/value lines.
// Arrays render one block per item separated by blank lines; objects render
// one "key: value" line per field. Anything that is not JSON passes through
// untouched.
func FormatJSON(text string) string {
	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()

	var data any
	if err := dec.Decode(&data); err != nil {
		return text
	}

	switch v := data.(type) {
	case []any:
		if len(v) == 0 {
			return "No results."
		}
		blocks := make([]string, 0, len(v))
		for _, item := range v {
			if obj, ok := item.(map[string]any); ok {
				blocks = append(blocks, formatObject(obj, "  "))
				continue
			}
			blocks = append(blocks, "  "+formatValue(item))
		}
		return strings.Join(blocks, "\n\n")
	case map[string]any:
		return formatObject(v, "")
	default:
		return formatValue(v)
	}
}

func formatObject(obj map[string]any, indent string) string {
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	lines := make([]string, 0, len(keys))
	for _, k := range keys {
		lines = append(lines, fmt.Sprintf("%s%s: %s", indent, k, formatValue(obj[k])))
	}
	return strings.Join(lines, "\n")
}

func formatValue(v any) string {
	switch t := v.(type) {
	case nil:
		return "null"
	case string:
		return t
	case json.Number:
		return t.String()
	case bool:
		return fmt.Sprintf("%t", t)
	default:
		raw, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprint(t)
		}
		return string(raw)
	}
}

const (
	// streamTruncateAt is the output size beyond which log captures are cut.
	streamTruncateAt = 30000
	// streamHeadBytes is kept from the start of a truncated capture.
	streamHeadBytes = 5000
	// streamTailBytes is kept from the end of a truncated capture.
	streamTailBytes = 25000
)

// TruncateStream bounds a log capture by keeping the head and tail of the
// text. Log streams favor the tail since recent lines matter most.
func TruncateStream(out string) string {
	if len(out) <= streamTruncateAt {
		return out
	}
	head := out[:streamHeadBytes]
	tail := out[len(out)-streamTailBytes:]
	return head + "\n\n... [truncated middle] ...\n\n" + tail
}

// ClampStreamWindow bounds a requested capture window. A zero or negative
// window falls back to the default.
func ClampStreamWindow(window time.Duration) time.Duration {
	if window <= 0 {
		return timeouts.StreamDefault
	}
	if window < timeouts.StreamMin {
		return timeouts.StreamMin
	}
	if window > timeouts.StreamMax {
		return timeouts.StreamMax
	}
	return window
}
