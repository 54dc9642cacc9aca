package nt

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"go.uber.org/multierr"

	"github.com/aretw0/nt/pkg/builder"
	"github.com/aretw0/nt/pkg/core"
	"github.com/aretw0/nt/pkg/markup"
	"github.com/aretw0/nt/pkg/outline"
)

// PostOptions controls where posted content lands.
type PostOptions struct {
	Mode builder.Mode
	// Overwrite wipes the page content (not its properties) first.
	Overwrite bool
}

// PostResult reports a post or an update.
type PostResult struct {
	Page    string `json:"page"`
	Created bool   `json:"created"`
	Lines   int    `json:"lines,omitempty"`
	Blocks  int    `json:"blocks"`
}

// Post streams outline text from r into a page, one block per line. An
// empty name targets today's journal page. Missing pages are created.
func (s *Service) Post(ctx context.Context, name string, r io.Reader, opts PostOptions) (PostResult, error) {
	target, res, err := s.prepare(ctx, name, opts)
	if err != nil {
		return res, err
	}

	b := builder.New(s.graph, target, builder.WithLogger(s.logger))
	stats, err := b.Build(ctx, r)
	s.track(b, err)
	res.Lines = stats.Lines
	res.Blocks = stats.Created
	if err != nil {
		return res, fmt.Errorf("post to %q: %w", res.Page, err)
	}
	s.logger.Debug("posted", "page", res.Page, "mode", opts.Mode, "blocks", stats.Created)
	return res, nil
}

// Clip converts HTML into outline blocks and posts them to a page.
func (s *Service) Clip(ctx context.Context, name, html string, opts PostOptions) (PostResult, error) {
	page, err := markup.Clip(html)
	if err != nil {
		return PostResult{}, err
	}
	if len(page) == 0 {
		return PostResult{}, core.ErrEmptyInput
	}
	return s.Post(ctx, name, strings.NewReader(outline.Stringify(page)), opts)
}

// Update inserts a JSON block tree into a page in one batch call, anchored
// like Post: after the last root block, or for prepends after the last
// properties block or at the top.
func (s *Service) Update(ctx context.Context, name string, data []byte, opts PostOptions) (PostResult, error) {
	blocks, err := outline.DecodeTree(data)
	if err != nil {
		return PostResult{}, err
	}
	if len(blocks) == 0 {
		return PostResult{}, core.ErrEmptyInput
	}

	target, res, err := s.prepare(ctx, name, opts)
	if err != nil {
		return res, err
	}
	res.Blocks = blocks.Count()

	ref := core.Ref{Page: target.Page}
	var insert core.InsertOptions
	switch {
	case target.Created:
	case target.Mode == builder.Prepend && target.Anchor != "":
		ref.Block = target.Anchor
		insert.Sibling = true
	case target.Mode == builder.Prepend:
		insert.Before = true
	default:
		existing, err := s.graph.GetPageBlocks(ctx, target.Page)
		if err != nil && !errors.Is(err, core.ErrNotFound) {
			return res, err
		}
		if len(existing) > 0 {
			ref.Block = existing[len(existing)-1].UUID
			insert.Sibling = true
		}
	}

	if err := s.graph.InsertBatch(ctx, ref, blocks, insert); err != nil {
		s.track(nil, err)
		return res, fmt.Errorf("update %q: %w", target.Page, err)
	}
	if target.Created {
		s.removePlaceholder(ctx, target.Page)
	}
	return res, nil
}

// prepare resolves the target page, wipes it for overwrites and creates it
// when missing.
func (s *Service) prepare(ctx context.Context, name string, opts PostOptions) (builder.Target, PostResult, error) {
	if strings.TrimSpace(name) == "" {
		name = s.Today()
	}
	id, err := s.Identify(ctx, name)
	if err != nil {
		return builder.Target{}, PostResult{}, err
	}
	page := id.Name
	res := PostResult{Page: page}

	if opts.Overwrite {
		if _, err := s.Wipe(ctx, page, nil); err != nil {
			s.logger.Warn("wipe had issues, continuing with overwrite", "page", page, "error", err)
		}
	}

	target := builder.Target{Page: page, Mode: opts.Mode}
	info, err := s.lookup(ctx, page)
	if err != nil {
		return target, res, err
	}
	if info == nil {
		if _, err := s.graph.CreatePage(ctx, page, nil); err != nil {
			return target, res, fmt.Errorf("create page %q: %w", page, err)
		}
		target.Created = true
		res.Created = true
		return target, res, nil
	}

	if opts.Mode == builder.Prepend {
		blocks, err := s.graph.GetPageBlocks(ctx, page)
		if err != nil && !errors.Is(err, core.ErrNotFound) {
			return target, res, err
		}
		if len(blocks) > 0 && blocks[0].Properties.Len() > 0 {
			target.Anchor = blocks[0].UUID
		}
	}
	return target, res, nil
}

func (s *Service) removePlaceholder(ctx context.Context, page string) {
	blocks, err := s.graph.GetPageBlocks(ctx, page)
	if err != nil || len(blocks) == 0 {
		return
	}
	first := blocks[0]
	if strings.TrimSpace(first.Content) != "" || len(first.Children) > 0 || first.UUID == "" {
		return
	}
	if err := s.graph.RemoveBlock(ctx, first.UUID); err != nil {
		s.logger.Warn("placeholder cleanup failed", "page", page, "uuid", first.UUID, "error", err)
	}
}

// WipeResult reports a wipe.
type WipeResult struct {
	Deleted      int  `json:"deleted"`
	Properties   int  `json:"properties"`
	Total        int  `json:"total"`
	AlreadyEmpty bool `json:"alreadyEmpty"`
}

// Wipe deletes every top-level block of a page except its properties
// blocks. progress, when set, is called after each deletion attempt. Failed
// deletions do not stop the wipe; they are returned together.
func (s *Service) Wipe(ctx context.Context, page string, progress func(done, total int)) (WipeResult, error) {
	var res WipeResult
	if strings.TrimSpace(page) == "" {
		return res, core.ErrNameRequired
	}
	info, err := s.lookup(ctx, page)
	if err != nil {
		return res, err
	}
	if info == nil {
		res.AlreadyEmpty = true
		return res, nil
	}

	blocks, err := s.graph.GetPageBlocks(ctx, page)
	if err != nil && !errors.Is(err, core.ErrNotFound) {
		return res, err
	}
	var doomed []*core.Block
	for _, b := range blocks {
		if b.Properties.Len() > 0 && b.Content != "" {
			res.Properties++
			continue
		}
		doomed = append(doomed, b)
	}
	if len(doomed) == 0 {
		res.AlreadyEmpty = true
		return res, nil
	}

	res.Total = len(doomed)
	var errs error
	for i, b := range doomed {
		if err := ctx.Err(); err != nil {
			errs = multierr.Append(errs, err)
			break
		}
		if err := s.graph.RemoveBlock(ctx, b.UUID); err != nil {
			s.logger.Debug("block not deleted", "page", page, "uuid", b.UUID, "error", err)
			errs = multierr.Append(errs, fmt.Errorf("delete %s: %w", b.UUID, err))
		} else {
			res.Deleted++
		}
		if progress != nil {
			progress(i+1, res.Total)
		}
	}

	s.mu.Lock()
	s.wipes++
	s.mu.Unlock()

	if errs != nil {
		s.track(nil, errs)
		return res, fmt.Errorf("only deleted %d out of %d blocks: %w", res.Deleted, res.Total, errs)
	}
	s.logger.Debug("page wiped", "page", page, "deleted", res.Deleted, "properties", res.Properties)
	return res, nil
}
