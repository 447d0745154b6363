package scripts

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gh-nvat/release-updatez/src/pkg/models"
)

// writeScript drops an executable shell script into dir.
func writeScript(t *testing.T, dir, name, body string) {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0755); err != nil {
		t.Fatalf("failed to write script %s: %v", name, err)
	}
}

func TestDiscover_FiltersAndSorts(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "b.sh", "exit 0")
	writeScript(t, dir, "a.sh", "exit 0")
	writeScript(t, dir, "notes.txt", "not a script")
	if err := os.Mkdir(filepath.Join(dir, "sub.sh"), 0755); err != nil {
		t.Fatalf("failed to create subdirectory: %v", err)
	}

	runner := NewRunner(dir, ".sh")
	paths, err := runner.Discover()
	if err != nil {
		t.Fatalf("Discover() error = %v", err)
	}

	if len(paths) != 2 {
		t.Fatalf("Discover() = %v, want two scripts", paths)
	}
	if filepath.Base(paths[0]) != "a.sh" || filepath.Base(paths[1]) != "b.sh" {
		t.Errorf("Discover() = %v, want sorted by name", paths)
	}
}

func TestRunAll_RecordsOutcomes(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "ok.sh", "exit 0")
	writeScript(t, dir, "fail.sh", "exit 1")

	runner := NewRunner(dir, ".sh")
	results, err := runner.RunAll(context.Background())
	if err != nil {
		t.Fatalf("RunAll() error = %v", err)
	}

	if len(results) != 2 {
		t.Fatalf("RunAll() returned %d results, want 2", len(results))
	}
	// sorted-name execution order: fail.sh then ok.sh
	if results[0].Name != "fail" || results[0].Success {
		t.Errorf("results[0] = %+v, want failed fail", results[0])
	}
	if results[1].Name != "ok" || !results[1].Success {
		t.Errorf("results[1] = %+v, want successful ok", results[1])
	}
	for _, result := range results {
		if result.Duration < 0 {
			t.Errorf("result %s has negative duration", result.Name)
		}
	}
}

func TestRunAll_FailureDoesNotHaltRest(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "touched")
	writeScript(t, dir, "a.sh", "exit 7")
	writeScript(t, dir, "b.sh", "touch "+out)

	runner := NewRunner(dir, ".sh")
	results, err := runner.RunAll(context.Background())
	if err != nil {
		t.Fatalf("RunAll() error = %v", err)
	}

	if !AnyFailed(results) {
		t.Error("AnyFailed() = false, want true")
	}
	if _, err := os.Stat(out); err != nil {
		t.Errorf("later script did not run after failure: %v", err)
	}
}

func TestRunAll_EmptyDirectory(t *testing.T) {
	runner := NewRunner(t.TempDir(), ".sh")
	results, err := runner.RunAll(context.Background())
	if err != nil {
		t.Fatalf("RunAll() error = %v", err)
	}
	if len(results) != 0 {
		t.Errorf("RunAll() = %v, want no results", results)
	}
	if AnyFailed(results) {
		t.Error("AnyFailed() on empty set = true, want false")
	}
}

func TestRunAll_UsesWorkDir(t *testing.T) {
	scriptsDir := t.TempDir()
	workDir := t.TempDir()
	writeScript(t, scriptsDir, "touch.sh", "touch marker")

	runner := NewRunner(scriptsDir, ".sh").WithWorkDir(workDir)
	if _, err := runner.RunAll(context.Background()); err != nil {
		t.Fatalf("RunAll() error = %v", err)
	}

	if _, err := os.Stat(filepath.Join(workDir, "marker")); err != nil {
		t.Errorf("script did not run in work dir: %v", err)
	}
}

func TestRunAll_RelativeScriptsPathWithWorkDir(t *testing.T) {
	base := t.TempDir()
	scriptsDir := filepath.Join(base, "scripts")
	if err := os.Mkdir(scriptsDir, 0755); err != nil {
		t.Fatalf("failed to create scripts directory: %v", err)
	}
	writeScript(t, scriptsDir, "ok.sh", "exit 0")
	workDir := t.TempDir()

	cwd, err := os.Getwd()
	if err != nil {
		t.Fatalf("failed to get working directory: %v", err)
	}
	if err := os.Chdir(base); err != nil {
		t.Fatalf("failed to chdir: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(cwd) })

	// scripts discovered via a relative path must still start when the
	// child process runs in a different directory
	runner := NewRunner("./scripts", ".sh").WithWorkDir(workDir)
	results, err := runner.RunAll(context.Background())
	if err != nil {
		t.Fatalf("RunAll() error = %v", err)
	}

	if len(results) != 1 {
		t.Fatalf("RunAll() returned %d results, want 1", len(results))
	}
	if !results[0].Success {
		t.Errorf("results[0] = %+v, want success", results[0])
	}
}

func TestAnyFailed(t *testing.T) {
	tests := []struct {
		name    string
		results []models.ScriptResult
		want    bool
	}{
		{name: "empty", results: nil, want: false},
		{name: "all success", results: []models.ScriptResult{{Success: true}, {Success: true}}, want: false},
		{name: "one failure", results: []models.ScriptResult{{Success: true}, {Success: false}}, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AnyFailed(tt.results); got != tt.want {
				t.Errorf("AnyFailed() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSummaryTable_SortedByDurationDesc(t *testing.T) {
	results := []models.ScriptResult{
		{Name: "fast", Duration: 100 * time.Millisecond, Success: true},
		{Name: "slow", Duration: 2500 * time.Millisecond, Success: false},
		{Name: "medium", Duration: 800 * time.Millisecond, Success: true},
	}

	table := SummaryTable(results)
	lines := strings.Split(strings.TrimSpace(table), "\n")

	// header + separator + 3 rows
	if len(lines) != 6 {
		t.Fatalf("SummaryTable() has %d lines, want 6:\n%s", len(lines), table)
	}
	if lines[0] != "## Script execution summary" {
		t.Errorf("header = %q", lines[0])
	}
	if !strings.Contains(lines[3], "| slow | 2.50s | ❌ |") {
		t.Errorf("first row = %q, want slow first", lines[3])
	}
	if !strings.Contains(lines[4], "| medium | 0.80s | ✅ |") {
		t.Errorf("second row = %q, want medium", lines[4])
	}
	if !strings.Contains(lines[5], "| fast | 0.10s | ✅ |") {
		t.Errorf("third row = %q, want fast last", lines[5])
	}
}

func TestSummaryTable_RowCountMatchesResults(t *testing.T) {
	for _, count := range []int{0, 1, 4} {
		results := make([]models.ScriptResult, count)
		table := SummaryTable(results)
		rows := strings.Count(table, "\n") - 5 // header, blank, table head, separator, trailing blank
		if rows != count {
			t.Errorf("SummaryTable() with %d results rendered %d rows", count, rows)
		}
	}
}

func TestStem(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{path: "scripts/update_alpha.sh", want: "update_alpha"},
		{path: "releases/alpha.json", want: "alpha"},
		{path: "noext", want: "noext"},
	}
	for _, tt := range tests {
		if got := Stem(tt.path); got != tt.want {
			t.Errorf("Stem(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}
