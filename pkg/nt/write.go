package nt

import (
	"context"
	"fmt"
	"io"

	"github.com/aretw0/nt/pkg/core"
	"github.com/aretw0/nt/pkg/git"
)

// WriteOptions controls Write.
type WriteOptions struct {
	Overwrite bool
	// Commit stages and commits the written file with git.
	Commit bool
}

// WriteResult reports a page file write.
type WriteResult struct {
	Path      string `json:"path"`
	Created   bool   `json:"created"`
	Committed bool   `json:"committed"`
}

// Write replaces the page file of a page with the content of r. Existing
// files are refused unless opts.Overwrite is set.
func (s *Service) Write(ctx context.Context, given string, r io.Reader, opts WriteOptions) (WriteResult, error) {
	local := s.config.Local
	if local == nil {
		return WriteResult{}, core.Guide("The graph directory is not configured.")
	}
	id, err := s.Identify(ctx, given)
	if err != nil {
		return WriteResult{}, err
	}

	res := WriteResult{Created: !local.Exists(id.Name, id.Day)}
	if res.Path, err = local.WritePage(id.Name, id.Day, r, opts.Overwrite); err != nil {
		return res, err
	}
	s.logger.Debug("page file written", "page", id.Name, "path", res.Path, "created", res.Created)

	if !opts.Commit {
		return res, nil
	}
	if s.config.Git == nil || !s.config.Git.IsRepo(ctx) {
		return res, core.Guide("The graph directory is not a git repository.")
	}
	if res.Committed, err = s.config.Git.CommitFiles(ctx, git.PageMessage(id.Name, res.Created), res.Path); err != nil {
		return res, fmt.Errorf("commit %s: %w", res.Path, err)
	}
	return res, nil
}
