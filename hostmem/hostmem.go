// Package hostmem is an in-memory implementation of the renderer's host
// interface. It backs the reconciler tests (its operation counters make move
// minimality observable) and the benchmark command.
package hostmem

import (
	"fmt"
	"sort"
	"strings"

	"github.com/chibivue-land/chibivue/runtime"
)

type NodeKind uint8

const (
	ElementNode NodeKind = iota
	TextNode
	CommentNode
)

// Node is one host node: an element with children, or a text/comment leaf.
type Node struct {
	Kind  NodeKind
	Tag   string
	Text  string
	Props map[string]any

	parent   *Node
	children []*Node
}

func (n *Node) Parent() *Node     { return n.parent }
func (n *Node) Children() []*Node { return n.children }
func (n *Node) ChildCount() int   { return len(n.children) }
func (n *Node) Child(i int) *Node { return n.children[i] }

func (n *Node) indexIn(parent *Node) int {
	for i, c := range parent.children {
		if c == n {
			return i
		}
	}
	return -1
}

// InnerHTML renders the subtree for assertions.
func (n *Node) InnerHTML() string {
	var sb strings.Builder
	for _, c := range n.children {
		c.writeTo(&sb)
	}
	return sb.String()
}

func (n *Node) writeTo(sb *strings.Builder) {
	switch n.Kind {
	case TextNode:
		sb.WriteString(n.Text)
	case CommentNode:
		sb.WriteString("<!--")
		sb.WriteString(n.Text)
		sb.WriteString("-->")
	case ElementNode:
		sb.WriteByte('<')
		sb.WriteString(n.Tag)
		keys := make([]string, 0, len(n.Props))
		for k := range n.Props {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(sb, " %s=%q", k, fmt.Sprintf("%v", n.Props[k]))
		}
		sb.WriteByte('>')
		if n.Text != "" {
			sb.WriteString(n.Text)
		}
		for _, c := range n.children {
			c.writeTo(sb)
		}
		sb.WriteString("</")
		sb.WriteString(n.Tag)
		sb.WriteByte('>')
	}
}

// Ops implements runtime.NodeOps and counts every host mutation. An Insert
// of a node that already has a parent counts as a move, not an insert.
type Ops struct {
	Creates int
	Inserts int
	Moves   int
	Removes int
	Sets    int
}

var _ runtime.NodeOps = (*Ops)(nil)

// NewContainer returns a detached element to render into.
func NewContainer() *Node {
	return &Node{Kind: ElementNode, Tag: "root", Props: map[string]any{}}
}

func (o *Ops) ResetCounters() {
	*o = Ops{}
}

func (o *Ops) CreateElement(tag string) runtime.HostNode {
	o.Creates++
	return &Node{Kind: ElementNode, Tag: tag, Props: map[string]any{}}
}

func (o *Ops) CreateText(text string) runtime.HostNode {
	o.Creates++
	return &Node{Kind: TextNode, Text: text}
}

func (o *Ops) CreateComment(text string) runtime.HostNode {
	o.Creates++
	return &Node{Kind: CommentNode, Text: text}
}

func (o *Ops) SetText(node runtime.HostNode, text string) {
	o.Sets++
	node.(*Node).Text = text
}

func (o *Ops) SetElementText(el runtime.HostNode, text string) {
	o.Sets++
	n := el.(*Node)
	for _, c := range n.children {
		c.parent = nil
	}
	n.children = nil
	n.Text = text
}

func (o *Ops) Insert(child, parent, anchor runtime.HostNode) {
	c := child.(*Node)
	p := parent.(*Node)
	if c.parent != nil {
		o.Moves++
		c.detach()
	} else {
		o.Inserts++
	}
	c.parent = p
	if anchor == nil {
		p.children = append(p.children, c)
		return
	}
	at := anchor.(*Node).indexIn(p)
	if at < 0 {
		p.children = append(p.children, c)
		return
	}
	p.children = append(p.children[:at], append([]*Node{c}, p.children[at:]...)...)
}

func (o *Ops) Remove(child runtime.HostNode) {
	c, _ := child.(*Node)
	if c == nil {
		return
	}
	o.Removes++
	c.detach()
	c.parent = nil
}

func (o *Ops) Parent(node runtime.HostNode) runtime.HostNode {
	p := node.(*Node).parent
	if p == nil {
		return nil
	}
	return p
}

func (o *Ops) NextSibling(node runtime.HostNode) runtime.HostNode {
	n := node.(*Node)
	if n.parent == nil {
		return nil
	}
	i := n.indexIn(n.parent)
	if i < 0 || i+1 >= len(n.parent.children) {
		return nil
	}
	return n.parent.children[i+1]
}

func (o *Ops) PatchProp(el runtime.HostNode, key string, prevValue, nextValue any) {
	o.Sets++
	n := el.(*Node)
	if nextValue == nil {
		delete(n.Props, key)
		return
	}
	n.Props[key] = nextValue
}

func (n *Node) detach() {
	if n.parent == nil {
		return
	}
	i := n.indexIn(n.parent)
	if i >= 0 {
		n.parent.children = append(n.parent.children[:i], n.parent.children[i+1:]...)
	}
}
