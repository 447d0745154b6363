// Package scripts executes a directory of independent update scripts as
// child processes and reports their timings.
package scripts

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/gh-nvat/release-updatez/src/pkg/models"
	"github.com/gh-nvat/release-updatez/src/pkg/trace"
)

var logger = log.WithField("package", "scripts")

// ScriptRunner defines sequential execution of the update scripts.
type ScriptRunner interface {
	// RunAll executes every discovered script and returns one result per script
	RunAll(ctx context.Context) ([]models.ScriptResult, error)
}

// Runner executes update scripts one after another in sorted-name order.
// The scripts mutate shared on-disk state, so there is deliberately no
// concurrency, and no runner-imposed timeout: a hanging script hangs the
// run.
type Runner struct {
	dir     string
	ext     string
	workDir string
}

// Ensure Runner implements ScriptRunner
var _ ScriptRunner = (*Runner)(nil)

// NewRunner creates a runner over the scripts directly inside dir with the
// given extension.
func NewRunner(dir, ext string) *Runner {
	return &Runner{dir: dir, ext: ext}
}

// WithWorkDir sets the working directory scripts are started in, so their
// relative writes land in the repository.
func (r *Runner) WithWorkDir(workDir string) *Runner {
	r.workDir = workDir
	return r
}

// Discover lists the update scripts, sorted by name for deterministic
// order. Subdirectories are not searched.
func (r *Runner) Discover() ([]string, error) {
	entries, err := os.ReadDir(r.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list scripts directory: %w", err)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), r.ext) {
			continue
		}
		// absolute, so exec does not re-resolve the path against workDir
		path, err := filepath.Abs(filepath.Join(r.dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("failed to resolve script path: %w", err)
		}
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths, nil
}

// RunAll executes every discovered script, measuring wall-clock duration
// and classifying success as a zero exit status. A failing script is logged
// at error level but does not halt the remaining scripts.
func (r *Runner) RunAll(ctx context.Context) ([]models.ScriptResult, error) {
	paths, err := r.Discover()
	if err != nil {
		return nil, err
	}

	results := make([]models.ScriptResult, 0, len(paths))
	for _, path := range paths {
		name := Stem(path)
		logger.WithField("script", path).Info("start running script")
		_, span := trace.StartSpan(ctx, "script:"+name)

		start := time.Now()
		cmd := exec.Command(path) // timeout handled inside the scripts themselves
		cmd.Dir = r.workDir
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
		runErr := cmd.Run()
		elapsed := time.Since(start)
		span.End()

		result := models.ScriptResult{Name: name, Duration: elapsed, Success: runErr == nil}
		entry := logger.WithField("script", path).WithField("duration", fmt.Sprintf("%.2fs", elapsed.Seconds()))
		if result.Success {
			entry.Info("script succeeded")
		} else {
			entry.WithField("error", runErr).Error("script failed")
		}
		results = append(results, result)
	}
	return results, nil
}

// AnyFailed reports whether at least one script exited non-zero. An empty
// result set counts as success.
func AnyFailed(results []models.ScriptResult) bool {
	for _, result := range results {
		if !result.Success {
			return true
		}
	}
	return false
}

// SummaryTable renders the markdown timing table, slowest script first.
func SummaryTable(results []models.ScriptResult) string {
	sorted := make([]models.ScriptResult, len(results))
	copy(sorted, results)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Duration > sorted[j].Duration
	})

	var b strings.Builder
	b.WriteString("## Script execution summary\n\n")
	b.WriteString("| Name | Duration | Succeeded |\n")
	b.WriteString("|------|----------|-----------|\n")
	for _, result := range sorted {
		mark := "✅"
		if !result.Success {
			mark = "❌"
		}
		b.WriteString(fmt.Sprintf("| %s | %.2fs | %s |\n", result.Name, result.Duration.Seconds(), mark))
	}
	b.WriteString("\n")
	return b.String()
}

// Stem returns a script or data file name without its extension.
func Stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
