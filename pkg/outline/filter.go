package outline

import "github.com/aretw0/nt/pkg/core"

// Predicate decides whether a block's first line is wanted.
type Predicate func(line string) bool

// SelectBlock filters a subtree by its blocks' first lines, matched as they
// render (task marker included).
//
// A block passing forceKeep or keep is kept with its children filtered in
// turn; it still vanishes when left with no content, no properties and no
// surviving children. A block failing both survives only as the ancestor of
// a surviving descendant. The input tree is not modified.
func SelectBlock(b *core.Block, keep, forceKeep Predicate) *core.Block {
	if b == nil {
		return nil
	}
	if forceKeep == nil {
		forceKeep = never
	}

	line := ApplyMarker(b.Marker, b.FirstLine())
	kept := forceKeep(line) || keep(line)

	var children []*core.Block
	for _, child := range b.Children {
		if selected := SelectBlock(child, keep, forceKeep); selected != nil {
			children = append(children, selected)
		}
	}

	if !kept && len(children) == 0 {
		return nil
	}
	if b.Content == "" && b.Properties.Len() == 0 && len(children) == 0 {
		return nil
	}

	out := *b
	out.Children = children
	return &out
}

// Select filters every root of page. A nil keep returns page unchanged.
func Select(page core.Page, keep, forceKeep Predicate) core.Page {
	if keep == nil {
		return page
	}
	out := core.Page{}
	for _, b := range page {
		if selected := SelectBlock(b, keep, forceKeep); selected != nil {
			out = append(out, selected)
		}
	}
	return out
}

func never(string) bool { return false }
