package models

import "time"

// ScriptResult records the outcome of one update script execution.
// Results are immutable after creation and live only for the current run.
type ScriptResult struct {
	Name     string
	Duration time.Duration
	Success  bool
}
