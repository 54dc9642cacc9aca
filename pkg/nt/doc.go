// Package nt is the application layer of the nt tool.
//
// A Service resolves page names the way Logseq does (case-insensitive
// names, journal dates, aliases) and composes the outline codec, the
// streaming builder and the graph adapters into the operations the command
// line exposes:
//
//	svc := nt.NewService(graph, nt.Config{Local: repo})
//	res, err := svc.Page(ctx, "Deep Work", nt.PageOptions{})
//	_, err = svc.Post(ctx, "", strings.NewReader("- walked for 1h"), nt.PostOptions{})
//
// Reads go through core.Graph; page files of the local graph directory are
// read for plain markdown output and written by Write.
package nt
