// Package git commits page files of a local graph directory through the git
// command line.
package git

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// LockFile is created in the work tree while a commit is in progress.
const LockFile = ".nt.lock"

// ErrLocked is returned when the lock is still held after the wait timeout.
var ErrLocked = errors.New("git work tree is locked")

// Client runs git in a work tree, serializing commits across processes with
// a lock file.
type Client struct {
	WorkDir     string
	Logger      *slog.Logger
	LockTimeout time.Duration
}

// NewClient creates a client for the given work tree.
func NewClient(workDir string, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		WorkDir:     workDir,
		Logger:      logger,
		LockTimeout: 5 * time.Second,
	}
}

// Lock acquires the work tree lock, polling until it is free, the context
// ends or LockTimeout elapses. The returned func releases it.
func (c *Client) Lock(ctx context.Context) (func(), error) {
	path := filepath.Join(c.WorkDir, LockFile)
	deadline := time.Now().Add(c.LockTimeout)

	for {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
		if err == nil {
			fmt.Fprintf(f, "%d\n", os.Getpid())
			f.Close()
			return func() { os.Remove(path) }, nil
		}
		if !os.IsExist(err) {
			return nil, fmt.Errorf("acquire lock: %w", err)
		}
		if c.LockTimeout > 0 && time.Now().After(deadline) {
			return nil, fmt.Errorf("%w: %s", ErrLocked, path)
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(10 * time.Millisecond):
		}
	}
}

// Run executes git with args in the work tree and returns its trimmed
// combined output. It does not take the lock.
func (c *Client) Run(ctx context.Context, args ...string) (string, error) {
	c.Logger.Debug("executing git", "args", args, "dir", c.WorkDir)

	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = c.WorkDir
	out, err := cmd.CombinedOutput()
	output := strings.TrimSpace(string(out))
	if err != nil {
		return output, fmt.Errorf("git %s: %w: %s", args[0], err, output)
	}
	return output, nil
}

// IsRepo reports whether the work tree is inside a git repository.
func (c *Client) IsRepo(ctx context.Context) bool {
	out, err := c.Run(ctx, "rev-parse", "--is-inside-work-tree")
	return err == nil && out == "true"
}

// Init creates a repository in the work tree. Re-running it is harmless.
func (c *Client) Init(ctx context.Context) error {
	_, err := c.Run(ctx, "init")
	return err
}

// Add stages files.
func (c *Client) Add(ctx context.Context, files ...string) error {
	if len(files) == 0 {
		return nil
	}
	_, err := c.Run(ctx, append([]string{"add", "--"}, files...)...)
	return err
}

// Commit records the staged changes.
func (c *Client) Commit(ctx context.Context, msg string) error {
	_, err := c.Run(ctx, "commit", "-m", msg)
	return err
}

// Status returns the porcelain status of the given paths, or of the whole
// work tree when none are given.
func (c *Client) Status(ctx context.Context, paths ...string) (string, error) {
	return c.Run(ctx, append([]string{"status", "--porcelain", "--"}, paths...)...)
}

// CommitFiles stages files and commits them under the lock. Files without
// changes produce no commit and no error.
func (c *Client) CommitFiles(ctx context.Context, msg string, files ...string) (bool, error) {
	unlock, err := c.Lock(ctx)
	if err != nil {
		return false, err
	}
	defer unlock()

	if err := c.Add(ctx, files...); err != nil {
		return false, err
	}
	status, err := c.Status(ctx, files...)
	if err != nil {
		return false, err
	}
	if status == "" {
		c.Logger.Debug("nothing to commit", "files", files)
		return false, nil
	}
	if err := c.Commit(ctx, msg); err != nil {
		return false, err
	}
	return true, nil
}
