package compiler

import "strings"

// tokenizerEvents decouples syntax recognition from tree building: the
// tokenizer makes one linear pass over the source and reports what it sees
// as byte ranges; the parser assembles the AST from the callbacks.
type tokenizerEvents interface {
	onText(start, end int)
	onInterpolation(start, end int) // inner expression range
	onOpenTagName(start, end int)
	onOpenTagEnd(end int, selfClosing bool)
	onCloseTag(start, end int) // name range of </name>
	onAttrName(start, end int)
	onAttrValue(start, end int)
	onAttrNoValue()
	onComment(start, end int) // inner text of <!-- -->
	onError(code ErrorCode, offset int)
}

type tokenizer struct {
	src        string
	delimOpen  string
	delimClose string
	ev         tokenizerEvents
}

func newTokenizer(src string, delimiters [2]string, ev tokenizerEvents) *tokenizer {
	t := &tokenizer{src: src, delimOpen: delimiters[0], delimClose: delimiters[1], ev: ev}
	if t.delimOpen == "" {
		t.delimOpen, t.delimClose = "{{", "}}"
	}
	return t
}

func isTagNameByte(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c == '-'
}

func isTagNameStart(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

func isWhitespaceByte(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f'
}

// run drives the scan. The machine idles in the text state and branches on
// the interpolation delimiter and on '<'.
func (t *tokenizer) run() {
	i := 0
	textStart := 0
	n := len(t.src)

	flushText := func(end int) {
		if end > textStart {
			t.ev.onText(textStart, end)
		}
	}

	for i < n {
		if strings.HasPrefix(t.src[i:], t.delimOpen) {
			flushText(i)
			i = t.scanInterpolation(i)
			textStart = i
			continue
		}
		if t.src[i] == '<' && i+1 < n {
			next := t.src[i+1]
			switch {
			case next == '!':
				flushText(i)
				i = t.scanComment(i)
				textStart = i
				continue
			case next == '/':
				flushText(i)
				i = t.scanCloseTag(i)
				textStart = i
				continue
			case isTagNameStart(next):
				flushText(i)
				i = t.scanOpenTag(i)
				textStart = i
				continue
			}
		}
		i++
	}
	flushText(n)
}

// scanInterpolation consumes "{{ exp }}" starting at the open delimiter and
// returns the offset just past the close delimiter.
func (t *tokenizer) scanInterpolation(start int) int {
	inner := start + len(t.delimOpen)
	end := strings.Index(t.src[inner:], t.delimClose)
	if end < 0 {
		t.ev.onError(ErrMissingInterpolationEnd, start)
		t.ev.onInterpolation(inner, len(t.src))
		return len(t.src)
	}
	t.ev.onInterpolation(inner, inner+end)
	return inner + end + len(t.delimClose)
}

// scanComment consumes "<!-- ... -->". A malformed "<!" construct is skipped
// to the next '>'.
func (t *tokenizer) scanComment(start int) int {
	if !strings.HasPrefix(t.src[start:], "<!--") {
		gt := strings.IndexByte(t.src[start:], '>')
		if gt < 0 {
			t.ev.onError(ErrUnexpectedEOF, start)
			return len(t.src)
		}
		return start + gt + 1
	}
	inner := start + len("<!--")
	end := strings.Index(t.src[inner:], "-->")
	if end < 0 {
		t.ev.onError(ErrUnexpectedEOF, start)
		t.ev.onComment(inner, len(t.src))
		return len(t.src)
	}
	t.ev.onComment(inner, inner+end)
	return inner + end + len("-->")
}

func (t *tokenizer) scanCloseTag(start int) int {
	i := start + 2 // past "</"
	nameStart := i
	for i < len(t.src) && isTagNameByte(t.src[i]) {
		i++
	}
	t.ev.onCloseTag(nameStart, i)
	for i < len(t.src) && t.src[i] != '>' {
		i++
	}
	if i >= len(t.src) {
		t.ev.onError(ErrUnexpectedEOF, start)
		return len(t.src)
	}
	return i + 1
}

// scanOpenTag consumes "<name attr=... >" including attributes and returns
// the offset past '>'.
func (t *tokenizer) scanOpenTag(start int) int {
	i := start + 1
	nameStart := i
	for i < len(t.src) && isTagNameByte(t.src[i]) {
		i++
	}
	t.ev.onOpenTagName(nameStart, i)

	for {
		for i < len(t.src) && isWhitespaceByte(t.src[i]) {
			i++
		}
		if i >= len(t.src) {
			t.ev.onError(ErrUnexpectedEOF, start)
			t.ev.onOpenTagEnd(len(t.src), false)
			return len(t.src)
		}
		switch t.src[i] {
		case '>':
			t.ev.onOpenTagEnd(i, false)
			return i + 1
		case '/':
			if i+1 < len(t.src) && t.src[i+1] == '>' {
				t.ev.onOpenTagEnd(i, true)
				return i + 2
			}
			i++
		default:
			i = t.scanAttr(i)
		}
	}
}

// scanAttr consumes one attribute: name, optionally ="value" with double,
// single or no quotes.
func (t *tokenizer) scanAttr(start int) int {
	i := start
	for i < len(t.src) {
		c := t.src[i]
		if isWhitespaceByte(c) || c == '=' || c == '>' || (c == '/' && i+1 < len(t.src) && t.src[i+1] == '>') {
			break
		}
		i++
	}
	t.ev.onAttrName(start, i)

	for i < len(t.src) && isWhitespaceByte(t.src[i]) {
		i++
	}
	if i >= len(t.src) || t.src[i] != '=' {
		t.ev.onAttrNoValue()
		return i
	}
	i++ // past '='
	for i < len(t.src) && isWhitespaceByte(t.src[i]) {
		i++
	}
	if i >= len(t.src) {
		t.ev.onError(ErrMissingAttributeValue, start)
		t.ev.onAttrNoValue()
		return i
	}

	quote := t.src[i]
	if quote == '"' || quote == '\'' {
		valueStart := i + 1
		end := strings.IndexByte(t.src[valueStart:], quote)
		if end < 0 {
			t.ev.onError(ErrUnexpectedEOF, i)
			t.ev.onAttrValue(valueStart, len(t.src))
			return len(t.src)
		}
		t.ev.onAttrValue(valueStart, valueStart+end)
		return valueStart + end + 1
	}

	valueStart := i
	for i < len(t.src) && !isWhitespaceByte(t.src[i]) && t.src[i] != '>' {
		i++
	}
	t.ev.onAttrValue(valueStart, i)
	return i
}
