package outline

import (
	"log/slog"
	"strings"

	"github.com/aretw0/nt/pkg/core"
)

// Parser builds a block tree from outline text fed one line at a time.
//
// Workflow:
//  1. Each line goes through the Classifier.
//  2. Page and header properties accumulate until the body starts.
//  3. Block lines are attached by depth using a stack of open ancestors.
//  4. Property and content lines land on the most recent block.
//  5. Finish closes the header, prepends page properties and prunes empty blocks.
type Parser struct {
	logger     *slog.Logger
	classifier Classifier

	roots   []*core.Block
	stack   []*core.Block
	current *core.Block

	header      string
	headerOpen  bool
	headerProps core.Properties
	pageProps   core.Properties
	pending     core.Properties

	line int
}

// NewParser returns a parser with an empty tree.
func NewParser(opts ...Option) *Parser {
	o := newOptions(opts)
	return &Parser{logger: o.logger}
}

// Parse converts outline text into a page. Empty input yields ErrEmptyInput.
func Parse(text string, opts ...Option) (core.Page, error) {
	if strings.TrimSpace(text) == "" {
		return nil, core.ErrEmptyInput
	}
	p := NewParser(opts...)
	for _, line := range strings.Split(text, "\n") {
		p.Feed(line)
	}
	return p.Finish(), nil
}

// Feed consumes one raw line.
func (p *Parser) Feed(raw string) {
	p.line++
	l, ok := p.classifier.Classify(raw)
	if !ok {
		return
	}
	if l.EndsHeader {
		p.finalizeHeader()
	}

	switch l.Kind {
	case KindHeader:
		p.header = l.Text
		p.headerOpen = true
	case KindPageProperty:
		props, _ := ExtractProperties(l.Text)
		p.pageProps.Merge(props)
	case KindHeaderProperty:
		props, _ := ExtractProperties(l.Text)
		p.headerProps.Merge(props)
	case KindBlock:
		p.handleBlock(l)
	case KindProperty:
		p.addProperty(l.Text)
	case KindContent:
		p.appendContent(l.Text)
	}
}

// Finish returns the completed page. The parser must not be fed afterwards.
func (p *Parser) Finish() core.Page {
	p.finalizeHeader()

	if p.pending.Len() > 0 {
		p.logger.Debug("properties without a block dropped", "keys", p.pending.Keys())
		p.pending = nil
	}

	roots := prune(p.roots)
	if p.pageProps.Len() > 0 {
		roots = append([]*core.Block{{PreBlock: true, Properties: FormatProperties(p.pageProps)}}, roots...)
	}
	return core.Page(roots)
}

func (p *Parser) finalizeHeader() {
	if !p.headerOpen {
		return
	}
	p.headerOpen = false

	props, clean := ExtractProperties(p.header)
	props.Merge(p.headerProps)

	block := &core.Block{PreBlock: true, Properties: FormatProperties(props)}
	if block.Properties == nil {
		block.Properties = core.Properties{}
	}
	if strings.TrimSpace(clean) != "" {
		block.Content = clean + "\n"
	}
	p.roots = append(p.roots, block)
	p.headerProps = nil
}

func (p *Parser) newBlock(text string) *core.Block {
	marker, rest := ExtractMarker(text)

	var props core.Properties
	if p.pending != nil {
		props = p.pending
		p.pending = nil
	}
	inline, clean := ExtractProperties(rest)
	props.Merge(inline)

	b := &core.Block{Content: clean, Marker: marker}
	if props.Len() > 0 {
		b.Properties = FormatProperties(props)
		promoteCollapsed(b)
	}
	return b
}

func (p *Parser) handleBlock(l Line) {
	b := p.newBlock(l.Text)
	depth := l.Depth

	if len(p.stack) > depth {
		p.stack = p.stack[:depth]
	}
	for len(p.stack) < depth {
		p.logger.Debug("indentation jump", "line", p.line, "depth", depth, "open", len(p.stack))
		switch {
		case len(p.stack) == 0 && len(p.roots) > 0:
			p.stack = append(p.stack, p.roots[len(p.roots)-1])
		case len(p.stack) > 0:
			p.stack = append(p.stack, p.stack[len(p.stack)-1])
		default:
			placeholder := &core.Block{}
			p.roots = append(p.roots, placeholder)
			p.stack = append(p.stack, placeholder)
		}
	}

	if depth == 0 {
		p.roots = append(p.roots, b)
	} else {
		parent := p.stack[depth-1]
		parent.Children = append(parent.Children, b)
	}

	p.stack = append(p.stack, b)
	p.current = b
}

func (p *Parser) addProperty(text string) {
	props, _ := ExtractProperties(text)
	if props.Len() == 0 {
		return
	}
	if p.current == nil {
		p.pending.Merge(props)
		return
	}
	p.current.Properties.Merge(FormatProperties(props))
	promoteCollapsed(p.current)
}

func (p *Parser) appendContent(text string) {
	if p.current == nil {
		p.logger.Warn("content found without current block", "line", p.line, "content", text)
		return
	}
	if p.current.Content == "" {
		p.current.Content = text
		return
	}
	p.current.Content += "\n" + text
}

// prune drops blocks left with nothing to carry, children first.
func prune(blocks []*core.Block) []*core.Block {
	out := blocks[:0:0]
	for _, b := range blocks {
		b.Children = prune(b.Children)
		if len(b.Children) == 0 {
			b.Children = nil
		}
		if b.IsEmpty() {
			continue
		}
		out = append(out, b)
	}
	return out
}
