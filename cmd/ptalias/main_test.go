package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/ptalias/ptalias/internal/ctx"
	"github.com/ptalias/ptalias/internal/resolve"
	"github.com/ptalias/ptalias/internal/serial"
)

func TestParseModeInsensitiveDefaultsToKZero(t *testing.T) {
	for _, mode := range []string{"", "insensitive"} {
		sel, err := parseMode(mode)
		if err != nil {
			t.Fatalf("parseMode(%q): %v", mode, err)
		}
		if sel != (ctx.Selector{K: 0}) {
			t.Fatalf("parseMode(%q) = %+v, want K=0", mode, sel)
		}
	}
}

func TestParseModeParsesK(t *testing.T) {
	sel, err := parseMode("k=3")
	if err != nil {
		t.Fatalf("parseMode: %v", err)
	}
	if sel != (ctx.Selector{K: 3}) {
		t.Fatalf("parseMode(\"k=3\") = %+v, want K=3", sel)
	}
}

func TestParseModeRejectsGarbage(t *testing.T) {
	if _, err := parseMode("bogus"); err == nil {
		t.Fatalf("want an error for an unrecognized mode string")
	}
}

func TestBuildLoadersJoinsDirAndStripsExtension(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "entry.yaml"), []byte(`vars: []`), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	loaders, err := buildLoaders(dir, []string{"entry.yaml"})
	if err != nil {
		t.Fatalf("buildLoaders: %v", err)
	}
	if len(loaders) != 1 {
		t.Fatalf("want one loader, got %d", len(loaders))
	}
	m, err := loaders[0](resolve.New())
	if err != nil {
		t.Fatalf("loader: %v", err)
	}
	if m.ReadableName() != "entry" {
		t.Fatalf("want the module named after the file with its extension stripped, got %q", m.ReadableName())
	}
}

func TestBuildLoadersReportsMissingFile(t *testing.T) {
	if _, err := buildLoaders(t.TempDir(), []string{"missing.yaml"}); err == nil {
		t.Fatalf("want an error for a missing entry file")
	}
}

func TestRunEndToEndWritesJSONReport(t *testing.T) {
	dir := t.TempDir()
	entry := `
vars: [f, x, r]
functions:
  f:
    pos_params: [p]
    stmts:
      - {op: assign, target: $return, source: p}
stmts:
  - {op: newbuiltin, target: x, type: int, value: 5}
  - {op: newfunction, target: f, func: f}
  - {op: call, target: r, callee: f, pos_args: [x]}
`
	if err := os.WriteFile(filepath.Join(dir, "m.yaml"), []byte(entry), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	outPath := filepath.Join(dir, "report.json")

	err := run([]string{
		"-dir", dir,
		"-entries", "m.yaml",
		"-o", outPath,
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	var report serial.Report
	if err := json.Unmarshal(data, &report); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if report.EventCount <= 0 {
		t.Fatalf("want a positive event count, got %d", report.EventCount)
	}
}

func TestRunRejectsMissingEntries(t *testing.T) {
	if err := run([]string{"-dir", t.TempDir()}); err == nil {
		t.Fatalf("want an error when no entries are given")
	}
}

func TestRunAppliesCallGraphPrefixFilter(t *testing.T) {
	dir := t.TempDir()
	entry := `
vars: [f, x, r]
functions:
  f:
    pos_params: [p]
    stmts:
      - {op: assign, target: $return, source: p}
stmts:
  - {op: newbuiltin, target: x, type: int, value: 5}
  - {op: newfunction, target: f, func: f}
  - {op: call, target: r, callee: f, pos_args: [x]}
`
	if err := os.WriteFile(filepath.Join(dir, "m.yaml"), []byte(entry), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	outPath := filepath.Join(dir, "report.json")

	if err := run([]string{
		"-dir", dir,
		"-entries", "m.yaml",
		"-o", outPath,
		"-call-graph-prefix", "does-not-exist",
	}); err != nil {
		t.Fatalf("run: %v", err)
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	var report serial.Report
	if err := json.Unmarshal(data, &report); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if len(report.CallGraph) != 0 {
		t.Fatalf("want the prefix filter to drop every call graph entry, got %v", report.CallGraph)
	}
}
