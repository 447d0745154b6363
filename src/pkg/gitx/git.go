// Package gitx wraps the handful of git operations this step needs: staging
// everything, listing the staged paths, and temporarily reverting the working
// tree with a stash/pop pair. Every call is a child process with a hard
// timeout; a timeout or non-zero exit is an environment failure and
// propagates fatally.
package gitx

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
)

var logger = log.WithField("package", "gitx")

// DefaultTimeout bounds every git invocation. There is no retry policy;
// transient index lock contention is not handled.
const DefaultTimeout = 10 * time.Second

// Stasher defines the version-control operations the snapshot loader needs.
type Stasher interface {
	// AddAll stages every working-tree change, including untracked files
	AddAll(ctx context.Context) error
	// StagedFiles returns the staged-but-uncommitted paths relative to HEAD
	StagedFiles(ctx context.Context) ([]string, error)
	// WithStashed runs fn with the working tree reverted to its pre-run state
	WithStashed(ctx context.Context, fn func() error) error
}

// Client runs git against a single working tree.
type Client struct {
	dir     string
	timeout time.Duration
}

// Ensure Client implements Stasher
var _ Stasher = (*Client)(nil)

// NewClient creates a client for the working tree at dir. An empty dir means
// the process working directory.
func NewClient(dir string) *Client {
	return &Client{dir: dir, timeout: DefaultTimeout}
}

// WithTimeout overrides the per-command timeout.
func (c *Client) WithTimeout(timeout time.Duration) *Client {
	c.timeout = timeout
	return c
}

func (c *Client) run(ctx context.Context, args ...string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	logger.WithField("args", args).Debug("running git")
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = c.dir
	output, err := cmd.CombinedOutput()
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return "", fmt.Errorf("git %s timed out after %s", args[0], c.timeout)
		}
		return "", fmt.Errorf("git %s failed: %w\nOutput: %s", args[0], err, string(output))
	}
	return string(output), nil
}

// AddAll stages every working-tree change into the index. Staging is used
// purely as a change-detection mechanism, not for creating commits; it is
// what makes brand-new files show up in the staged diff.
func (c *Client) AddAll(ctx context.Context) error {
	_, err := c.run(ctx, "add", "--all")
	return err
}

// StagedFiles returns the paths staged relative to the last commit.
func (c *Client) StagedFiles(ctx context.Context) ([]string, error) {
	output, err := c.run(ctx, "diff", "--name-only", "--staged")
	if err != nil {
		return nil, err
	}

	var files []string
	for _, line := range strings.Split(output, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			files = append(files, line)
		}
	}
	return files, nil
}

// Stash sets aside all uncommitted changes, reverting the tree to HEAD.
func (c *Client) Stash(ctx context.Context) error {
	_, err := c.run(ctx, "stash", "--all", "--quiet")
	return err
}

// StashPop restores the most recent stash.
func (c *Client) StashPop(ctx context.Context) error {
	_, err := c.run(ctx, "stash", "pop", "--quiet")
	return err
}

// WithStashed runs fn with the working tree temporarily reverted to its
// last-committed state. The pop runs on every exit path, including a failure
// inside fn and a cancelled context, so the caller never gets control back
// with the tree still reverted. A pop failure is joined with fn's error.
func (c *Client) WithStashed(ctx context.Context, fn func() error) (err error) {
	if err := c.Stash(ctx); err != nil {
		return err
	}
	defer func() {
		// pop must still be attempted when ctx was cancelled mid-callback
		if popErr := c.StashPop(context.WithoutCancel(ctx)); popErr != nil {
			err = errors.Join(err, popErr)
		}
	}()
	return fn()
}
