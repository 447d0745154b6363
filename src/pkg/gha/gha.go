// Package gha writes the two GitHub Actions sinks this step feeds: the
// append-only step summary stream and the named step outputs file.
package gha

import (
	"fmt"
	"os"
	"time"
)

// Environment variables set by the Actions runner.
const (
	StepSummaryEnv = "GITHUB_STEP_SUMMARY"
	OutputEnv      = "GITHUB_OUTPUT"
)

// StepSummary is the append-only text stream the CI platform renders as the
// run report.
type StepSummary struct {
	file *os.File
}

// NewStepSummary opens the step summary sink the runner points at.
func NewStepSummary() (*StepSummary, error) {
	path := os.Getenv(StepSummaryEnv)
	if path == "" {
		return nil, fmt.Errorf("%s is not set", StepSummaryEnv)
	}
	return OpenStepSummary(path)
}

// OpenStepSummary opens an arbitrary file as the summary sink.
func OpenStepSummary(path string) (*StepSummary, error) {
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open step summary: %w", err)
	}
	return &StepSummary{file: file}, nil
}

// Write appends text verbatim.
func (s *StepSummary) Write(text string) error {
	if _, err := s.file.WriteString(text); err != nil {
		return fmt.Errorf("failed to write step summary: %w", err)
	}
	return nil
}

// Println appends one line.
func (s *StepSummary) Println(line string) error {
	return s.Write(line + "\n")
}

// Close flushes and closes the sink.
func (s *StepSummary) Close() error {
	return s.file.Close()
}

// SetOutput appends one named output value to the file the runner points at.
func SetOutput(name, value string) error {
	path := os.Getenv(OutputEnv)
	if path == "" {
		return fmt.Errorf("%s is not set", OutputEnv)
	}
	return AppendOutput(path, name, value)
}

// AppendOutput writes a heredoc-framed output record, the framing the
// runner requires for multi-line values. The delimiter is randomized per
// record so a value containing a delimiter-looking line cannot break out.
func AppendOutput(path, name, value string) error {
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open output file: %w", err)
	}
	defer func() {
		_ = file.Close()
	}()

	delimiter := fmt.Sprintf("ghadelimiter_%d", time.Now().UnixNano())
	record := fmt.Sprintf("%s<<%s\n%s\n%s\n", name, delimiter, value, delimiter)
	if _, err := file.WriteString(record); err != nil {
		return fmt.Errorf("failed to write output %s: %w", name, err)
	}
	return nil
}
