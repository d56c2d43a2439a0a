package compiler

import (
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
)

// Runtime helpers the generated code may call. Each compile collects the
// subset it needs so the emitted preamble only aliases what the template
// actually uses.
const (
	HelperCreateVNode        = "CreateVNode"
	HelperCreateElementVNode = "CreateElementVNode"
	HelperCreateTextVNode    = "CreateTextVNode"
	HelperCreateCommentVNode = "CreateCommentVNode"
	HelperToDisplayString    = "ToDisplayString"
	HelperRenderList         = "RenderList"
	HelperTruthy             = "Truthy"
	HelperFragment           = "Fragment"
)

// Transform inspects one node on the way down and may return an exit closure
// that runs after the node's children have been transformed. Work that
// depends on fully-transformed children (text merging, codegen node
// construction) happens in exits.
type Transform func(n Node, ctx *TransformContext) func()

type TransformContext struct {
	root       *RootNode
	helpers    mapset.Set[string]
	transforms []Transform
	onError    func(*SyntaxError)
}

func newTransformContext(root *RootNode, onError func(*SyntaxError)) *TransformContext {
	return &TransformContext{
		root:       root,
		// exits run in reverse registration order; transformText must merge
		// children before transformElement snapshots them
		helpers:    mapset.NewThreadUnsafeSet[string](),
		transforms: []Transform{transformElement, transformText},
		onError:    onError,
	}
}

// Helper marks a runtime helper as used and returns its local alias.
func (ctx *TransformContext) Helper(name string) string {
	ctx.helpers.Add(name)
	return "_" + strings.ToLower(name[:1]) + name[1:]
}

func (ctx *TransformContext) error(code ErrorCode, loc *SourceLocation) {
	if ctx.onError != nil {
		ctx.onError(&SyntaxError{Code: code, Loc: *loc})
	}
}

func transformAST(root *RootNode, ctx *TransformContext) {
	ctx.traverseNode(root)
	if len(root.Children) == 1 {
		root.CodegenNode = root.Children[0]
	}
	// multi-root templates render as a fragment
	if len(root.Children) > 1 {
		ctx.Helper(HelperCreateVNode)
		ctx.Helper(HelperFragment)
	}
}

func (ctx *TransformContext) traverseNode(n Node) {
	exits := make([]func(), 0, len(ctx.transforms))
	for _, t := range ctx.transforms {
		if exit := t(n, ctx); exit != nil {
			exits = append(exits, exit)
		}
	}

	switch n := n.(type) {
	case *RootNode:
		n.Children = ctx.traverseChildren(n.Children)
	case *ElementNode:
		n.Children = ctx.traverseChildren(n.Children)
	case *IfNode:
		for _, b := range n.Branches {
			ctx.traverseNode(b)
		}
	case *IfBranchNode:
		n.Children = ctx.traverseChildren(n.Children)
	case *ForNode:
		n.Children = ctx.traverseChildren(n.Children)
	}

	for i := len(exits) - 1; i >= 0; i-- {
		exits[i]()
	}
}

func (ctx *TransformContext) traverseChildren(children []Node) []Node {
	children = ctx.rewriteStructural(children)
	for _, c := range children {
		ctx.traverseNode(c)
	}
	return children
}

// rewriteStructural lowers v-if/v-else-if/v-else sibling groups into IfNodes
// and v-for elements into ForNodes before the children are traversed, so the
// regular transforms see the already-restructured tree.
func (ctx *TransformContext) rewriteStructural(children []Node) []Node {
	out := make([]Node, 0, len(children))
	for i := 0; i < len(children); i++ {
		el, ok := children[i].(*ElementNode)
		if !ok {
			out = append(out, children[i])
			continue
		}

		if d := el.findDirective("for"); d != nil {
			out = append(out, ctx.lowerFor(el, d))
			continue
		}

		if d := el.findDirective("if"); d != nil {
			el.removeDirective("if")
			ifNode := &IfNode{baseNode: baseNode{location: *el.Loc()}}
			ifNode.Branches = append(ifNode.Branches, &IfBranchNode{
				baseNode:  baseNode{location: *el.Loc()},
				Condition: d.Exp,
				Children:  []Node{el},
			})
			i = ctx.collectBranches(ifNode, children, i)
			out = append(out, ifNode)
			continue
		}

		if d := el.findDirective("else-if"); d != nil {
			ctx.error(ErrElseWithoutIf, d.Loc())
			el.removeDirective("else-if")
		}
		if d := el.findDirective("else"); d != nil {
			ctx.error(ErrElseWithoutIf, d.Loc())
			el.removeDirective("else")
		}
		out = append(out, el)
	}
	return out
}

// collectBranches consumes the v-else-if/v-else siblings following the v-if
// element at index i, skipping whitespace-only text between them. Returns the
// index of the last consumed sibling.
func (ctx *TransformContext) collectBranches(ifNode *IfNode, children []Node, i int) int {
	for {
		j := i + 1
		for j < len(children) {
			if t, ok := children[j].(*TextNode); ok && strings.TrimSpace(t.Content) == "" {
				j++
				continue
			}
			break
		}
		if j >= len(children) {
			return i
		}
		el, ok := children[j].(*ElementNode)
		if !ok {
			return i
		}

		if d := el.findDirective("else-if"); d != nil {
			el.removeDirective("else-if")
			if d.Exp == nil {
				ctx.error(ErrInvalidDirective, d.Loc())
			}
			ifNode.Branches = append(ifNode.Branches, &IfBranchNode{
				baseNode:  baseNode{location: *el.Loc()},
				Condition: d.Exp,
				Children:  []Node{el},
			})
			i = j
			continue
		}
		if d := el.findDirective("else"); d != nil {
			el.removeDirective("else")
			ifNode.Branches = append(ifNode.Branches, &IfBranchNode{
				baseNode: baseNode{location: *el.Loc()},
				Children: []Node{el},
			})
			return j
		}
		return i
	}
}

// lowerFor turns an element carrying v-for="(item, i) in source" into a
// ForNode wrapping it. The key binding stays on the element so the vnode
// constructor lifts it; KeyProp just records it.
func (ctx *TransformContext) lowerFor(el *ElementNode, d *DirectiveNode) Node {
	el.removeDirective("for")
	if d.Exp == nil {
		ctx.error(ErrMissingForExpression, d.Loc())
		return el
	}
	content := d.Exp.Content
	sep := strings.Index(content, " in ")
	if sep < 0 {
		ctx.error(ErrMissingForExpression, d.Loc())
		return el
	}

	lhs := strings.TrimSpace(content[:sep])
	lhs = strings.TrimPrefix(lhs, "(")
	lhs = strings.TrimSuffix(lhs, ")")
	valueAlias, indexAlias := lhs, ""
	if comma := strings.IndexByte(lhs, ','); comma >= 0 {
		valueAlias = strings.TrimSpace(lhs[:comma])
		indexAlias = strings.TrimSpace(lhs[comma+1:])
	}
	if valueAlias == "" {
		ctx.error(ErrMissingForExpression, d.Loc())
		return el
	}

	forNode := &ForNode{
		baseNode: baseNode{location: *el.Loc()},
		Source: &SimpleExpressionNode{
			baseNode: baseNode{location: *d.Exp.Loc()},
			Content:  strings.TrimSpace(content[sep+len(" in "):]),
		},
		ValueAlias: valueAlias,
		IndexAlias: indexAlias,
		Children:   []Node{el},
	}
	for _, p := range el.Props {
		if dir, ok := p.(*DirectiveNode); ok && dir.Name == "bind" && dir.Arg == "key" {
			forNode.KeyProp = dir
			break
		}
		if attr, ok := p.(*AttributeNode); ok && attr.Name == "key" {
			forNode.KeyProp = attr
			break
		}
	}
	return forNode
}

// transformText merges runs of adjacent Text and Interpolation siblings into
// one CompoundExpression so they patch as a single text vnode. A lone plain
// text child stays bare; the runtime treats a string child as element text.
func transformText(n Node, ctx *TransformContext) func() {
	switch n.Kind() {
	case KindRoot, KindElement, KindIfBranch, KindFor:
	default:
		return nil
	}
	return func() {
		children := childListOf(n)
		merged := make([]Node, 0, len(children))
		var run []Node

		flush := func() {
			switch len(run) {
			case 0:
			case 1:
				merged = append(merged, run[0])
			default:
				compound := &CompoundExpressionNode{
					baseNode: baseNode{location: *run[0].Loc()},
					Children: run,
				}
				merged = append(merged, compound)
			}
			run = nil
		}

		for _, c := range children {
			switch c.Kind() {
			case KindText, KindInterpolation:
				if c.Kind() == KindInterpolation {
					ctx.Helper(HelperToDisplayString)
				}
				run = append(run, c)
			default:
				flush()
				merged = append(merged, c)
			}
		}
		flush()
		setChildList(n, merged)
	}
}

func childListOf(n Node) []Node {
	switch n := n.(type) {
	case *RootNode:
		return n.Children
	case *ElementNode:
		return n.Children
	case *IfBranchNode:
		return n.Children
	case *ForNode:
		return n.Children
	}
	return nil
}

func setChildList(n Node, children []Node) {
	switch n := n.(type) {
	case *RootNode:
		n.Children = children
	case *ElementNode:
		n.Children = children
	case *IfBranchNode:
		n.Children = children
	case *ForNode:
		n.Children = children
	}
}

// transformElement lowers an element into its VNodeCall codegen node. Runs
// as an exit so the children are already merged and lowered.
func transformElement(n Node, ctx *TransformContext) func() {
	el, ok := n.(*ElementNode)
	if !ok {
		return nil
	}
	return func() {
		props := make([]*PropertyNode, 0, len(el.Props))
		for _, p := range el.Props {
			switch p := p.(type) {
			case *AttributeNode:
				props = append(props, &PropertyNode{Key: p.Name, Static: p.Value})
			case *DirectiveNode:
				switch p.Name {
				case "bind":
					if p.Arg == "" || p.Exp == nil {
						ctx.error(ErrInvalidDirective, p.Loc())
						continue
					}
					props = append(props, &PropertyNode{Key: p.Arg, Exp: p.Exp})
				case "on":
					if p.Arg == "" || p.Exp == nil {
						ctx.error(ErrInvalidDirective, p.Loc())
						continue
					}
					props = append(props, &PropertyNode{
						Key:     "on" + strings.ToUpper(p.Arg[:1]) + p.Arg[1:],
						Exp:     p.Exp,
						Handler: true,
					})
				default:
					ctx.error(ErrInvalidDirective, p.Loc())
				}
			}
		}

		var children any
		switch len(el.Children) {
		case 0:
		case 1:
			children = el.Children[0]
		default:
			children = el.Children
		}

		el.CodegenNode = &VNodeCallNode{
			baseNode: baseNode{location: *el.Loc()},
			Tag:      el.Tag,
			Props:    props,
			Children: children,
		}
		ctx.Helper(HelperCreateElementVNode)
	}
}
