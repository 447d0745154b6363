package models

// Snapshot maps a data file path to its parsed JSON content at one point in
// time. A file missing on disk at snapshot time is represented as an empty
// object, so creations and deletions diff uniformly.
type Snapshot map[string]any

// Report holds the two rendered text streams of one run. Both buffers are
// append-only while the run builds them and are flushed to their sinks at
// run end.
type Report struct {
	// Products are the file stems of the changed data files, in change-set order.
	Products []string

	// Summary is the update section of the step summary (without the
	// script timing table, which the coordinator prepends).
	Summary string

	// CommitMessage is the machine-consumable commit message: emoji-prefixed
	// subject, then one bulleted section per product.
	CommitMessage string

	// HasChanges is false when the change set was empty and the run reported
	// "No update".
	HasChanges bool
}
