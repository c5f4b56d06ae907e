package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/machinae/readgate/internal/audit"
	"github.com/machinae/readgate/internal/config"
)

func createTestHome(t *testing.T) string {
	t.Helper()
	home := filepath.Join(t.TempDir(), ".readgate")
	t.Setenv("READGATE_HOME", home)
	return home
}

func loadTestConfig(t *testing.T) *config.Config {
	t.Helper()
	createTestHome(t)
	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	return cfg
}

func writeFixture(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func TestRunHook_OtherToolBypassed(t *testing.T) {
	cfg := loadTestConfig(t)
	sink := &audit.MemorySink{}
	var stdout, stderr bytes.Buffer

	in := strings.NewReader(`{"tool_name": "Bash", "tool_input": {"command": "ls"}}`)
	code, err := runHook(in, &stdout, &stderr, cfg, sink)
	if err != nil {
		t.Fatalf("run hook: %v", err)
	}
	if code != 0 {
		t.Fatalf("expected exit 0, got %d", code)
	}
	if stdout.Len() != 0 || stderr.Len() != 0 {
		t.Fatalf("expected no output, got stdout=%q stderr=%q", stdout.String(), stderr.String())
	}
	if len(sink.All()) != 0 {
		t.Fatal("bypass must not produce an audit entry")
	}
}

func TestRunHook_MalformedInputErrors(t *testing.T) {
	cfg := loadTestConfig(t)
	var stdout, stderr bytes.Buffer

	_, err := runHook(strings.NewReader("{oops"), &stdout, &stderr, cfg, audit.NopSink{})
	if err == nil {
		t.Fatal("expected error for malformed input")
	}
}

func TestRunHook_OversizedReadBlocked(t *testing.T) {
	cfg := loadTestConfig(t)
	path := writeFixture(t, "big.txt", strings.Repeat("line\n", 1500))
	sink := &audit.MemorySink{}
	var stdout, stderr bytes.Buffer

	in := strings.NewReader(`{"tool_name": "Read", "tool_input": {"file_path": ` + jsonString(path) + `}}`)
	code, err := runHook(in, &stdout, &stderr, cfg, sink)
	if err != nil {
		t.Fatalf("run hook: %v", err)
	}
	if code != blockExitCode {
		t.Fatalf("expected exit %d, got %d", blockExitCode, code)
	}
	if !strings.Contains(stderr.String(), "BLOCKED: File exceeds thresholds: 1500 lines (>1000)") {
		t.Fatalf("unexpected stderr: %q", stderr.String())
	}
	if !strings.Contains(stderr.String(), "offset") {
		t.Fatalf("expected guidance on stderr, got %q", stderr.String())
	}
	if stdout.Len() != 0 {
		t.Fatalf("block must not write stdout, got %q", stdout.String())
	}

	entries := sink.All()
	if len(entries) != 1 || entries[0].Status != audit.StatusBlocked {
		t.Fatalf("expected one blocked audit entry, got %+v", entries)
	}
}

func TestRunHook_ExcessiveLimitBlocked(t *testing.T) {
	cfg := loadTestConfig(t)
	path := writeFixture(t, "small.txt", strings.Repeat("line\n", 50))
	var stdout, stderr bytes.Buffer

	in := strings.NewReader(`{"tool_name": "Read", "tool_input": {"file_path": ` + jsonString(path) + `, "limit": 600}}`)
	code, err := runHook(in, &stdout, &stderr, cfg, audit.NopSink{})
	if err != nil {
		t.Fatalf("run hook: %v", err)
	}
	if code != blockExitCode {
		t.Fatalf("expected exit %d, got %d", blockExitCode, code)
	}
	if !strings.Contains(stderr.String(), "limit=600 exceeds maximum 500 lines") {
		t.Fatalf("unexpected stderr: %q", stderr.String())
	}
}

func TestRunHook_OffsetOnlyAmendsLimit(t *testing.T) {
	cfg := loadTestConfig(t)
	path := writeFixture(t, "mid.txt", strings.Repeat("line\n", 50))
	var stdout, stderr bytes.Buffer

	in := strings.NewReader(`{"tool_name": "Read", "tool_input": {"file_path": ` + jsonString(path) + `, "offset": 5}}`)
	code, err := runHook(in, &stdout, &stderr, cfg, audit.NopSink{})
	if err != nil {
		t.Fatalf("run hook: %v", err)
	}
	if code != 0 {
		t.Fatalf("expected exit 0, got %d", code)
	}
	out := stdout.String()
	if !strings.Contains(out, `"hookEventName":"PreToolUse"`) {
		t.Fatalf("expected hook payload, got %q", out)
	}
	if !strings.Contains(out, `"permissionDecision":"allow"`) {
		t.Fatalf("expected allow decision, got %q", out)
	}
	if !strings.Contains(out, `"limit":500`) {
		t.Fatalf("expected injected limit, got %q", out)
	}
}

func TestRunHook_PlainAllowSilent(t *testing.T) {
	cfg := loadTestConfig(t)
	path := writeFixture(t, "tiny.txt", "hello\n")
	var stdout, stderr bytes.Buffer

	in := strings.NewReader(`{"tool_name": "Read", "tool_input": {"file_path": ` + jsonString(path) + `}}`)
	code, err := runHook(in, &stdout, &stderr, cfg, audit.NopSink{})
	if err != nil {
		t.Fatalf("run hook: %v", err)
	}
	if code != 0 {
		t.Fatalf("expected exit 0, got %d", code)
	}
	if stdout.Len() != 0 {
		t.Fatalf("plain allow must not write stdout, got %q", stdout.String())
	}
}

func jsonString(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}
