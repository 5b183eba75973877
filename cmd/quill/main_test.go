package main

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func captureCLI(t *testing.T, args []string) (int, string, string) {
	t.Helper()

	stdout := os.Stdout
	stderr := os.Stderr

	rOut, wOut, err := os.Pipe()
	if err != nil {
		t.Fatalf("stdout pipe: %v", err)
	}
	rErr, wErr, err := os.Pipe()
	if err != nil {
		t.Fatalf("stderr pipe: %v", err)
	}

	os.Stdout = wOut
	os.Stderr = wErr

	code := run(args)

	if err := wOut.Close(); err != nil {
		t.Fatalf("stdout close: %v", err)
	}
	if err := wErr.Close(); err != nil {
		t.Fatalf("stderr close: %v", err)
	}

	os.Stdout = stdout
	os.Stderr = stderr

	outBytes, err := io.ReadAll(rOut)
	if err != nil {
		t.Fatalf("stdout read: %v", err)
	}
	errBytes, err := io.ReadAll(rErr)
	if err != nil {
		t.Fatalf("stderr read: %v", err)
	}

	return code, string(outBytes), string(errBytes)
}

func writeScript(t *testing.T, src string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "prog.quill")
	if err := os.WriteFile(path, []byte(src), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestRunPrintsProgramOutput(t *testing.T) {
	path := writeScript(t, "print 1 + 2\n")
	code, stdout, stderr := captureCLI(t, []string{path})
	if code != 0 {
		t.Fatalf("exit code %d, stderr %q", code, stderr)
	}
	if stdout != "3\n" {
		t.Fatalf("got stdout %q", stdout)
	}
}

func TestRunReportsParseErrorAndExitsNonZero(t *testing.T) {
	path := writeScript(t, "x = = 1\n")
	code, _, stderr := captureCLI(t, []string{path})
	if code == 0 {
		t.Fatal("expected a non-zero exit code for a parse error")
	}
	if !strings.Contains(stderr, "quill:") {
		t.Fatalf("expected a quill-prefixed diagnostic, got %q", stderr)
	}
}

func TestRunReportsRuntimeErrorAndExitsNonZero(t *testing.T) {
	path := writeScript(t, "print 1 / 0\n")
	code, _, stderr := captureCLI(t, []string{path})
	if code == 0 {
		t.Fatal("expected a non-zero exit code for a runtime error")
	}
	if !strings.Contains(stderr, "quill:") {
		t.Fatalf("expected a quill-prefixed diagnostic, got %q", stderr)
	}
}

func TestRunFlushesOutputProducedBeforeARuntimeError(t *testing.T) {
	path := writeScript(t, "print 'before'\nprint 1 / 0\n")
	code, stdout, _ := captureCLI(t, []string{path})
	if code == 0 {
		t.Fatal("expected a non-zero exit code")
	}
	if stdout != "before\n" {
		t.Fatalf("expected output printed before the failure to survive, got %q", stdout)
	}
}

func TestRunWithMissingScriptExitsNonZero(t *testing.T) {
	code, _, stderr := captureCLI(t, []string{filepath.Join(t.TempDir(), "missing.quill")})
	if code == 0 {
		t.Fatal("expected a non-zero exit code for a missing script")
	}
	if !strings.Contains(stderr, "quill:") {
		t.Fatalf("expected a quill-prefixed diagnostic, got %q", stderr)
	}
}

func TestRunNoArgsPrintsUsage(t *testing.T) {
	code, _, stderr := captureCLI(t, nil)
	if code != 1 {
		t.Fatalf("got exit code %d", code)
	}
	if !strings.Contains(stderr, "usage:") {
		t.Fatalf("expected usage text, got %q", stderr)
	}
}

func TestRunVersionFlag(t *testing.T) {
	code, stdout, _ := captureCLI(t, []string{"--version"})
	if code != 0 {
		t.Fatalf("got exit code %d", code)
	}
	if !strings.Contains(stdout, "quill") {
		t.Fatalf("expected version string to mention quill, got %q", stdout)
	}
}

func TestParseArgsPicksSiblingConfig(t *testing.T) {
	dir := t.TempDir()
	scriptPath := filepath.Join(dir, "prog.quill")
	scriptPath2, cfgPath := parseArgs([]string{scriptPath})
	if scriptPath2 != scriptPath {
		t.Fatalf("got script %q", scriptPath2)
	}
	want := filepath.Join(dir, "quill.yaml")
	if cfgPath != want {
		t.Fatalf("got config path %q, want %q", cfgPath, want)
	}
}

func TestParseArgsExplicitConfigFlag(t *testing.T) {
	scriptPath, cfgPath := parseArgs([]string{"-config", "custom.yaml", "prog.quill"})
	if scriptPath != "prog.quill" || cfgPath != "custom.yaml" {
		t.Fatalf("got script %q config %q", scriptPath, cfgPath)
	}
}
