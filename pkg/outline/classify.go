package outline

import "strings"

// Kind is the category of a classified line.
type Kind int

const (
	KindHeader Kind = iota + 1
	KindPageProperty
	KindHeaderProperty
	KindBlock
	KindProperty
	KindContent
)

func (k Kind) String() string {
	switch k {
	case KindHeader:
		return "header"
	case KindPageProperty:
		return "page-property"
	case KindHeaderProperty:
		return "header-property"
	case KindBlock:
		return "block"
	case KindProperty:
		return "property"
	case KindContent:
		return "content"
	default:
		return "unknown"
	}
}

// Phase is the position of the classifier within a page.
type Phase int

const (
	// PhasePageProperties: no block yet and no open title.
	PhasePageProperties Phase = iota
	// PhaseHeader: a "# " title was seen; its properties are being collected.
	PhaseHeader
	// PhaseBody: a block line was seen.
	PhaseBody
)

// Line is one classified, non-blank input line.
type Line struct {
	Kind  Kind
	Depth int
	// Text is the trimmed line; for block lines, the text after "- ".
	Text string
	// EndsHeader is set on the first non-property line following a "# " title.
	EndsHeader bool
}

// Classifier categorizes raw lines. Its zero value is ready to use; it
// carries the page phase from one line to the next.
//
// Page and header properties are recognized until the first block line,
// so stray text between them does not end property collection.
type Classifier struct {
	headerSeen    bool
	headerOpen    bool
	blocksStarted bool
}

// Phase returns the current page phase.
func (c *Classifier) Phase() Phase {
	switch {
	case c.blocksStarted:
		return PhaseBody
	case c.headerOpen:
		return PhaseHeader
	default:
		return PhasePageProperties
	}
}

// Classify categorizes raw. Blank lines report false.
func (c *Classifier) Classify(raw string) (Line, bool) {
	raw = strings.TrimRight(raw, "\r")
	text := strings.TrimSpace(raw)
	if text == "" {
		return Line{}, false
	}
	depth := IndentLevel(raw)
	isBlock := isBlockLine(text)

	if !c.blocksStarted {
		if !c.headerSeen && strings.HasPrefix(text, "# ") {
			c.headerSeen, c.headerOpen = true, true
			return Line{Kind: KindHeader, Depth: depth, Text: text}, true
		}
		if strings.Contains(text, "::") && !isBlock {
			kind := KindPageProperty
			if c.headerOpen {
				kind = KindHeaderProperty
			}
			return Line{Kind: kind, Depth: depth, Text: text}, true
		}
	}

	l := Line{Depth: depth, EndsHeader: c.headerOpen}
	c.headerOpen = false
	switch {
	case isBlock:
		c.blocksStarted = true
		l.Kind = KindBlock
		l.Text = strings.TrimSpace(strings.TrimPrefix(text, "-"))
	case strings.Contains(text, "::"):
		l.Kind = KindProperty
		l.Text = text
	default:
		l.Kind = KindContent
		l.Text = text
	}
	return l, true
}

// isBlockLine reports whether a trimmed line opens a block. A lone "-" is an
// empty block.
func isBlockLine(text string) bool {
	return text == "-" || strings.HasPrefix(text, "- ")
}

// IndentLevel returns the depth of a line: one level per leading tab and per
// pair of leading spaces.
func IndentLevel(line string) int {
	tabs, spaces := 0, 0
	for _, r := range line {
		switch r {
		case '\t':
			tabs++
		case ' ':
			spaces++
		default:
			return tabs + spaces/2
		}
	}
	return tabs + spaces/2
}
