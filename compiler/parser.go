package compiler

import (
	"sort"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
)

// WhitespaceStrategy selects how inter-element whitespace is normalized.
type WhitespaceStrategy string

const (
	// WhitespaceCondense collapses runs of whitespace in text to one space
	// and drops whitespace-only nodes at element boundaries. Default.
	WhitespaceCondense WhitespaceStrategy = "condense"
	// WhitespacePreserve keeps template text verbatim.
	WhitespacePreserve WhitespaceStrategy = "preserve"
)

// Void elements never take children, so their open tag does not push onto
// the ancestor stack.
var voidTags = mapset.NewThreadUnsafeSet(
	"area", "base", "br", "col", "embed", "hr", "img", "input",
	"link", "meta", "param", "source", "track", "wbr",
)

// parser implements tokenizerEvents and assembles the AST. Children always
// attach to the top of the ancestor stack, so an unclosed element still
// adopts everything up to the tag that implicitly closes it.
type parser struct {
	src         string
	lineOffsets []int
	whitespace  WhitespaceStrategy
	errSink     func(*SyntaxError)

	root  *RootNode
	stack []*ElementNode

	// open-tag state between onOpenTagName and onOpenTagEnd
	pending      *ElementNode
	pendingStart int
	attrNames    map[string]bool
	attrName     string
	attrStart    int
	attrEnd      int
}

func newParser(src string, whitespace WhitespaceStrategy, errSink func(*SyntaxError)) *parser {
	if whitespace == "" {
		whitespace = WhitespaceCondense
	}
	offsets := []int{0}
	for i := 0; i < len(src); i++ {
		if src[i] == '\n' {
			offsets = append(offsets, i+1)
		}
	}
	return &parser{
		src:         src,
		lineOffsets: offsets,
		whitespace:  whitespace,
		errSink:     errSink,
	}
}

func (p *parser) parse(delimiters [2]string) *RootNode {
	p.root = &RootNode{baseNode: baseNode{location: p.locate(0, len(p.src))}}
	newTokenizer(p.src, delimiters, p).run()
	for len(p.stack) > 0 {
		el := p.stack[len(p.stack)-1]
		p.error(ErrMissingEndTag, el.Loc().Start.Offset)
		p.popElement(len(p.src))
	}
	if p.whitespace == WhitespaceCondense {
		p.root.Children = condenseWhitespace(p.root.Children)
	}
	return p.root
}

func (p *parser) posAt(offset int) Position {
	line := sort.Search(len(p.lineOffsets), func(i int) bool {
		return p.lineOffsets[i] > offset
	})
	return Position{Offset: offset, Line: line, Column: offset - p.lineOffsets[line-1] + 1}
}

func (p *parser) locate(start, end int) SourceLocation {
	return SourceLocation{Start: p.posAt(start), End: p.posAt(end), Source: p.src[start:end]}
}

func (p *parser) error(code ErrorCode, offset int) {
	if p.errSink != nil {
		p.errSink(&SyntaxError{Code: code, Loc: p.locate(offset, offset)})
	}
}

func (p *parser) onError(code ErrorCode, offset int) {
	p.error(code, offset)
}

func (p *parser) children() *[]Node {
	if len(p.stack) > 0 {
		return &p.stack[len(p.stack)-1].Children
	}
	return &p.root.Children
}

func (p *parser) append(n Node) {
	c := p.children()
	*c = append(*c, n)
}

// tokenizerEvents

func (p *parser) onText(start, end int) {
	p.append(&TextNode{
		baseNode: baseNode{location: p.locate(start, end)},
		Content:  p.src[start:end],
	})
}

func (p *parser) onInterpolation(start, end int) {
	content := strings.TrimSpace(p.src[start:end])
	p.append(&InterpolationNode{
		baseNode: baseNode{location: p.locate(start, end)},
		Content: &SimpleExpressionNode{
			baseNode: baseNode{location: p.locate(start, end)},
			Content:  content,
		},
	})
}

func (p *parser) onComment(start, end int) {
	p.append(&CommentNode{
		baseNode: baseNode{location: p.locate(start, end)},
		Content:  p.src[start:end],
	})
}

func (p *parser) onOpenTagName(start, end int) {
	p.pendingStart = start - 1 // the '<'
	p.pending = &ElementNode{Tag: p.src[start:end]}
	p.attrNames = map[string]bool{}
}

func (p *parser) onAttrName(start, end int) {
	p.attrName = p.src[start:end]
	p.attrStart = start
	p.attrEnd = end
}

func (p *parser) onAttrValue(start, end int) {
	p.finishAttr(p.src[start:end], true, start, end)
}

func (p *parser) onAttrNoValue() {
	p.finishAttr("", false, p.attrEnd, p.attrEnd)
}

func (p *parser) onOpenTagEnd(end int, selfClosing bool) {
	el := p.pending
	p.pending = nil
	el.IsSelfClosing = selfClosing
	el.location = p.locate(p.pendingStart, min(end+1, len(p.src)))
	p.append(el)
	if !selfClosing && !voidTags.Contains(el.Tag) {
		p.stack = append(p.stack, el)
	}
}

func (p *parser) onCloseTag(start, end int) {
	name := p.src[start:end]
	match := -1
	for i := len(p.stack) - 1; i >= 0; i-- {
		if p.stack[i].Tag == name {
			match = i
			break
		}
	}
	if match < 0 {
		p.error(ErrInvalidEndTag, start)
		return
	}
	// implicitly close anything the end tag skipped over
	for len(p.stack) > match+1 {
		p.error(ErrMissingEndTag, p.stack[len(p.stack)-1].Loc().Start.Offset)
		p.popElement(start)
	}
	p.popElement(end)
}

func (p *parser) popElement(endOffset int) {
	el := p.stack[len(p.stack)-1]
	p.stack = p.stack[:len(p.stack)-1]
	startOffset := el.location.Start.Offset
	el.location = p.locate(startOffset, min(endOffset+1, len(p.src)))
	if p.whitespace == WhitespaceCondense {
		el.Children = condenseWhitespace(el.Children)
	}
}

// finishAttr classifies the pending attribute as a plain attribute or a
// directive. Shorthands: ":x" is v-bind:x, "@x" is v-on:x.
func (p *parser) finishAttr(value string, hasValue bool, valueStart, valueEnd int) {
	name := p.attrName
	loc := p.locate(p.attrStart, valueEnd)

	if p.attrNames[name] {
		p.error(ErrDuplicateAttribute, p.attrStart)
		return
	}
	p.attrNames[name] = true

	var dirName, rest string
	switch {
	case strings.HasPrefix(name, ":"):
		dirName, rest = "bind", name[1:]
	case strings.HasPrefix(name, "@"):
		dirName, rest = "on", name[1:]
	case strings.HasPrefix(name, "v-"):
		dirName, rest = name[2:], ""
		if colon := strings.IndexByte(dirName, ':'); colon >= 0 {
			dirName, rest = dirName[:colon], dirName[colon+1:]
		}
	default:
		p.pending.Props = append(p.pending.Props, &AttributeNode{
			baseNode: baseNode{location: loc},
			Name:     name,
			Value:    value,
		})
		return
	}

	if dirName == "" {
		p.error(ErrInvalidDirective, p.attrStart)
		return
	}

	arg := rest
	var mods []string
	if dot := strings.IndexByte(rest, '.'); dot >= 0 {
		arg = rest[:dot]
		mods = strings.Split(rest[dot+1:], ".")
	} else if dot := strings.IndexByte(dirName, '.'); dot >= 0 {
		dirName, mods = dirName[:dot], strings.Split(dirName[dot+1:], ".")
	}

	var exp *SimpleExpressionNode
	if hasValue {
		exp = &SimpleExpressionNode{
			baseNode: baseNode{location: p.locate(valueStart, valueEnd)},
			Content:  strings.TrimSpace(value),
		}
	}
	p.pending.Props = append(p.pending.Props, &DirectiveNode{
		baseNode:  baseNode{location: loc},
		Name:      dirName,
		Arg:       arg,
		Exp:       exp,
		Modifiers: mods,
	})
}

// condenseWhitespace applies the condense strategy to one child list.
// Whitespace-only text nodes at the boundaries, or ones spanning a newline
// between two elements, disappear; the rest shrink to a single space. Runs
// of whitespace inside regular text collapse to one space.
func condenseWhitespace(children []Node) []Node {
	out := children[:0]
	for i, child := range children {
		text, ok := child.(*TextNode)
		if !ok {
			out = append(out, child)
			continue
		}
		if strings.TrimSpace(text.Content) == "" {
			atBoundary := i == 0 || i == len(children)-1
			betweenElements := !atBoundary &&
				isElementOrComment(children[i-1]) && isElementOrComment(children[i+1]) &&
				strings.ContainsRune(text.Content, '\n')
			if atBoundary || betweenElements {
				continue
			}
			text.Content = " "
		} else {
			text.Content = condenseRuns(text.Content)
		}
		out = append(out, child)
	}
	return out
}

func isElementOrComment(n Node) bool {
	return n.Kind() == KindElement || n.Kind() == KindComment
}

func condenseRuns(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	inRun := false
	for i := 0; i < len(s); i++ {
		if isWhitespaceByte(s[i]) {
			if !inRun {
				b.WriteByte(' ')
				inRun = true
			}
		} else {
			b.WriteByte(s[i])
			inRun = false
		}
	}
	return b.String()
}
