package runtime

import (
	"fmt"
	"sort"

	"github.com/chibivue-land/chibivue/reactivity"
)

// HostNode is an opaque handle to a node owned by the host layer.
type HostNode = any

type nodeSymbol struct{ name string }

func (s *nodeSymbol) String() string { return s.name }

// Built-in vnode types. Everything else is a string element tag.
var (
	Text     = &nodeSymbol{"Text"}
	Comment  = &nodeSymbol{"Comment"}
	Fragment = &nodeSymbol{"Fragment"}
)

// VNode describes one rendered unit. El is the realized host node, owned by
// this vnode once mounted; patching reuses it rather than re-creating.
type VNode struct {
	Type  any // string tag, or Text/Comment/Fragment
	Key   any
	Props map[string]any
	// Children is a string for text content (including the text of Text and
	// Comment nodes) or a []*VNode for element/fragment children.
	Children any

	El HostNode
	// Anchor marks a fragment's end so its children can be moved as a unit.
	Anchor HostNode
}

func isSameVNodeType(n1, n2 *VNode) bool {
	return n1.Type == n2.Type && n1.Key == n2.Key
}

func (n *VNode) text() string {
	s, _ := n.Children.(string)
	return s
}

func (n *VNode) childNodes() []*VNode {
	c, _ := n.Children.([]*VNode)
	return c
}

// CreateVNode builds a vnode, lifting a "key" prop into the Key field.
func CreateVNode(typ any, props map[string]any, children any) *VNode {
	n := &VNode{Type: typ, Props: props, Children: children}
	if props != nil {
		if k, ok := props["key"]; ok {
			n.Key = k
			delete(props, "key")
		}
	}
	return n
}

// CreateElementVNode is the codegen target for plain elements.
func CreateElementVNode(tag string, props map[string]any, children any) *VNode {
	return CreateVNode(tag, props, children)
}

func CreateTextVNode(text string) *VNode {
	return &VNode{Type: Text, Children: text}
}

func CreateCommentVNode(text string) *VNode {
	return &VNode{Type: Comment, Children: text}
}

// ToDisplayString renders an interpolated value the way templates expect.
func ToDisplayString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case *reactivity.Store:
		return fmt.Sprintf("%v", t.Raw())
	case *reactivity.List:
		return fmt.Sprintf("%v", t.Raw())
	default:
		return fmt.Sprintf("%v", v)
	}
}

// Truthy implements template conditional semantics for dynamic values.
func Truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	case int:
		return t != 0
	case int64:
		return t != 0
	case float64:
		return t != 0
	default:
		return true
	}
}

// RenderList is the codegen target for v-for: it maps each item of the
// source to a vnode. Sources: []*VNode-producing ranges over slices, reactive
// lists, integer ranges, stores and maps (sorted by key for determinism).
func RenderList(source any, fn func(item any, index int) *VNode) []*VNode {
	var out []*VNode
	switch s := source.(type) {
	case nil:
	case []any:
		out = make([]*VNode, 0, len(s))
		for i, item := range s {
			out = append(out, fn(item, i))
		}
	case *reactivity.List:
		n := s.Len()
		out = make([]*VNode, 0, n)
		for i := 0; i < n; i++ {
			out = append(out, fn(s.Get(i), i))
		}
	case *reactivity.Store:
		keys := s.Keys()
		out = make([]*VNode, 0, len(keys))
		for i, k := range keys {
			out = append(out, fn(s.Get(k), i))
		}
	case map[string]any:
		keys := make([]string, 0, len(s))
		for k := range s {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		out = make([]*VNode, 0, len(keys))
		for i, k := range keys {
			out = append(out, fn(s[k], i))
		}
	case int:
		out = make([]*VNode, 0, s)
		for i := 0; i < s; i++ {
			out = append(out, fn(i+1, i))
		}
	}
	return out
}
