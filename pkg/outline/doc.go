// Package outline converts between Logseq-style outline text and block trees.
//
// The grammar is line based:
//
//	# Title                 page header, only as the first statement
//	key:: value, value      property
//	<indent>- content       block; one tab or two spaces per level
//	anything else           continuation of the open block
//
// Parse builds a core.Page, Stringify renders one back, and Select prunes a
// page with line predicates built from a Selection.
package outline
