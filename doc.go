// Package nt is the composition root of the nt note tool.
//
// It wires the outline codec, the streaming builder and the graph adapters
// (Logseq HTTP API, in-memory, local graph directory) into a service.
//
// Features:
//
//   - **Outline codec**: indented Logseq outline text to block trees and back (pkg/outline).
//   - **Streaming builder**: posts outline text one block per line, preserving nesting (pkg/builder).
//   - **Selective filter**: named or ad-hoc patterns that keep ancestors of every match.
//   - **Dry runs**: an in-memory graph stands in for the note app.
//
// Usage:
//
//	cfg, err := config.Load("")
//	svc, err := nt.New(cfg, nt.WithLogger(logger))
//
//	// Append two nested blocks to today's journal
//	res, err := svc.Post(ctx, "", strings.NewReader("- A\n  - B"), service.PostOptions{})
package nt
