package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// setFlags points the CLI flags at test values and restores them after.
func setFlags(t *testing.T, cfgPath, outDir string) {
	t.Helper()
	origConfig, origOutput, origCleanup := *configFile, *outputDir, *cleanup
	*configFile = cfgPath
	*outputDir = outDir
	*cleanup = "never"
	t.Cleanup(func() {
		*configFile = origConfig
		*outputDir = origOutput
		*cleanup = origCleanup
	})
}

// fakeRendererConfig writes a config whose renderer is a shell script.
func fakeRendererConfig(t *testing.T, script string) string {
	t.Helper()
	dir := t.TempDir()
	tool := filepath.Join(dir, "fakelog")
	if err := os.WriteFile(tool, []byte("#!/bin/sh\n"+script), 0755); err != nil {
		t.Fatalf("Failed to write fake tool: %v", err)
	}
	cfgPath := filepath.Join(dir, "config.yaml")
	cfg := "logging:\n  level: error\nrenderer:\n  command: " + tool + "\n  timeout: 30s\n"
	if err := os.WriteFile(cfgPath, []byte(cfg), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	return cfgPath
}

func makeLogarchive(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "system_logs.logarchive")
	if err := os.MkdirAll(filepath.Join(path, "Persist"), 0755); err != nil {
		t.Fatalf("Failed to create logarchive fixture: %v", err)
	}
	if err := os.WriteFile(filepath.Join(path, "Persist", "0000.tracev3"), []byte("x"), 0644); err != nil {
		t.Fatalf("Failed to write fixture: %v", err)
	}
	return path
}

func reportCount(t *testing.T, dir string) int {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join(dir, "log_report_*.csv"))
	if err != nil {
		t.Fatalf("Glob failed: %v", err)
	}
	return len(matches)
}

func TestRunFullPipeline(t *testing.T) {
	outDir := t.TempDir()
	cfgPath := fakeRendererConfig(t,
		`printf '2024-01-01 00:00:00.000000+0000 host kernel[com.apple.kernel] boot\n2024-01-01 01:30:00.000000+0000 host kernel[com.apple.kernel] done\n'`)
	setFlags(t, cfgPath, outDir)

	if err := run(makeLogarchive(t)); err != nil {
		t.Fatalf("run() error = %v", err)
	}

	if n := reportCount(t, outDir); n != 1 {
		t.Fatalf("Expected 1 report, found %d", n)
	}

	matches, _ := filepath.Glob(filepath.Join(outDir, "log_report_*.csv"))
	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("Failed to read report: %v", err)
	}
	text := string(data)
	if !strings.Contains(text, "TTL (min),90") {
		t.Errorf("Report missing TTL row:\n%s", text)
	}
	if !strings.Contains(text, "com.apple.kernel,2") {
		t.Errorf("Report missing subsystem tally:\n%s", text)
	}
}

func TestRunInvalidInputWritesNothing(t *testing.T) {
	outDir := t.TempDir()
	cfgPath := fakeRendererConfig(t, "exit 0")
	setFlags(t, cfgPath, outDir)

	plain := filepath.Join(t.TempDir(), "notes.txt")
	if err := os.WriteFile(plain, []byte("x"), 0644); err != nil {
		t.Fatalf("Failed to write fixture: %v", err)
	}

	if err := run(plain); err == nil {
		t.Fatal("Expected an error for invalid input")
	}
	if n := reportCount(t, outDir); n != 0 {
		t.Errorf("Expected no report, found %d", n)
	}
}

func TestRunEmptyRenderOutputWritesNothing(t *testing.T) {
	outDir := t.TempDir()
	cfgPath := fakeRendererConfig(t, "exit 0")
	setFlags(t, cfgPath, outDir)

	if err := run(makeLogarchive(t)); err == nil {
		t.Fatal("Expected an error for empty render output")
	}
	if n := reportCount(t, outDir); n != 0 {
		t.Errorf("Expected no report, found %d", n)
	}
}

func TestRunNoTimestampsWritesNothing(t *testing.T) {
	outDir := t.TempDir()
	cfgPath := fakeRendererConfig(t, `printf 'header without digits\nanother line\n'`)
	setFlags(t, cfgPath, outDir)

	if err := run(makeLogarchive(t)); err == nil {
		t.Fatal("Expected an error when no line carries a timestamp")
	}
	if n := reportCount(t, outDir); n != 0 {
		t.Errorf("Expected no report, found %d", n)
	}
}
