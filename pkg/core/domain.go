// Package core holds the block tree model shared by the outline codec, the
// streaming builder and the graph adapters.
package core

import "strings"

// Handle identifies a block inside a graph (a uuid for Logseq).
type Handle string

// Marker is a task keyword promoted out of a block's first line.
type Marker string

const (
	MarkerTodo     Marker = "TODO"
	MarkerDoing    Marker = "DOING"
	MarkerDone     Marker = "DONE"
	MarkerWaiting  Marker = "WAITING"
	MarkerCanceled Marker = "CANCELED"
	MarkerNow      Marker = "NOW"
	MarkerLater    Marker = "LATER"
)

// Markers lists every recognized task keyword.
var Markers = []Marker{
	MarkerTodo, MarkerDoing, MarkerDone, MarkerWaiting, MarkerCanceled, MarkerNow, MarkerLater,
}

// Block is a node of the outline tree.
//
// Content may span several lines; the first line drives marker and property
// extraction and is the line filters match against.
type Block struct {
	Content    string     `json:"content,omitempty"`
	Properties Properties `json:"properties,omitempty"`
	Marker     Marker     `json:"marker,omitempty"`
	Collapsed  *bool      `json:"collapsed,omitempty"`
	PreBlock   bool       `json:"preBlock,omitempty"`
	Children   []*Block   `json:"children,omitempty"`
	UUID       Handle     `json:"uuid,omitempty"`
}

// FirstLine returns the first line of the block content.
func (b *Block) FirstLine() string {
	line, _, _ := strings.Cut(b.Content, "\n")
	return line
}

// IsEmpty reports whether the block carries nothing worth keeping.
func (b *Block) IsEmpty() bool {
	return b.Content == "" &&
		b.Properties.Len() == 0 &&
		len(b.Children) == 0 &&
		b.Marker == "" &&
		b.Collapsed == nil &&
		!b.PreBlock
}

// Page is the ordered sequence of root blocks of a page.
type Page []*Block

// Walk visits every block depth-first in document order. Returning false
// from fn stops the descent below that block.
func (p Page) Walk(fn func(b *Block, depth int) bool) {
	var walk func(blocks []*Block, depth int)
	walk = func(blocks []*Block, depth int) {
		for _, b := range blocks {
			if fn(b, depth) {
				walk(b.Children, depth+1)
			}
		}
	}
	walk(p, 0)
}

// Count returns the number of blocks in the tree.
func (p Page) Count() int {
	n := 0
	p.Walk(func(*Block, int) bool {
		n++
		return true
	})
	return n
}

// PageInfo describes a page as known to a graph.
type PageInfo struct {
	ID           int64      `json:"id,omitempty"`
	Name         string     `json:"name"`
	OriginalName string     `json:"originalName"`
	UUID         Handle     `json:"uuid"`
	Journal      bool       `json:"journal"`
	JournalDay   int        `json:"journalDay,omitempty"`
	Properties   Properties `json:"properties,omitempty"`
}

// Title returns the display name of the page.
func (p PageInfo) Title() string {
	if p.OriginalName != "" {
		return p.OriginalName
	}
	return p.Name
}

// SearchHit is a block matched by a full-text search.
type SearchHit struct {
	UUID    Handle `json:"uuid"`
	Content string `json:"content"`
	PageID  int64  `json:"page"`
}

// EventType represents the type of change seen on a watched page file.
type EventType string

const (
	EventCreate EventType = "CREATE"
	EventModify EventType = "MODIFY"
	EventDelete EventType = "DELETE"
)

// Event represents a change to a local page file.
type Event struct {
	Type      EventType
	Path      string
	Timestamp int64 // Unix timestamp
}

func (e Event) String() string {
	return string(e.Type) + " " + e.Path
}
