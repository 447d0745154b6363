// Package snapshot reconstructs the before and after content of the data
// files a run touched, using the working tree plus a guarded stash toggle as
// the two snapshot points.
package snapshot

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	log "github.com/sirupsen/logrus"

	"github.com/gh-nvat/release-updatez/src/pkg/gitx"
	"github.com/gh-nvat/release-updatez/src/pkg/models"
)

var logger = log.WithField("package", "snapshot")

// Loader loads JSON content snapshots for a fixed set of repository paths.
type Loader struct {
	git gitx.Stasher
	dir string
}

// NewLoader creates a loader reading paths relative to dir (the working
// tree root). An empty dir means the process working directory.
func NewLoader(git gitx.Stasher, dir string) *Loader {
	return &Loader{git: git, dir: dir}
}

// LoadFiles parses each path as JSON. A path missing on disk loads as the
// empty object, so newly-created and about-to-be-deleted files diff
// uniformly instead of erroring.
func (l *Loader) LoadFiles(paths []string) (models.Snapshot, error) {
	content := make(models.Snapshot, len(paths))
	for _, path := range paths {
		data, err := os.ReadFile(filepath.Join(l.dir, path))
		if os.IsNotExist(err) {
			content[path] = map[string]any{}
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}

		var value any
		if err := json.Unmarshal(data, &value); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
		content[path] = value
	}
	return content, nil
}

// LoadPair captures both snapshots for the change set. Ordering is the
// correctness-critical part: the new content is read from the working tree
// first, then the tree is reverted with a guarded stash to read the old
// content, and the stash is popped before control returns so the tree
// reflects the run output again. Both snapshots carry the same key set.
func (l *Loader) LoadPair(ctx context.Context, paths []string) (oldContent, newContent models.Snapshot, err error) {
	newContent, err = l.LoadFiles(paths)
	if err != nil {
		return nil, nil, err
	}

	logger.WithField("files", len(paths)).Info("reverting working tree for old snapshot")
	err = l.git.WithStashed(ctx, func() error {
		var loadErr error
		oldContent, loadErr = l.LoadFiles(paths)
		return loadErr
	})
	if err != nil {
		return nil, nil, err
	}

	return oldContent, newContent, nil
}
