package compiler

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

const runtimeImport = "github.com/chibivue-land/chibivue/runtime"

// generator walks the transformed AST and emits Go source for a render
// function targeting the runtime package. The body is built first; the
// helper-alias preamble is assembled afterwards from the helpers the walk
// actually touched.
type generator struct {
	ctx      *TransformContext
	pkg      string
	funcName string
	body     strings.Builder
}

func generate(root *RootNode, ctx *TransformContext, pkg, funcName string) string {
	if pkg == "" {
		pkg = "main"
	}
	if funcName == "" {
		funcName = "Render"
	}
	g := &generator{ctx: ctx, pkg: pkg, funcName: funcName}
	g.genRoot(root)

	var out strings.Builder
	out.WriteString("// Code generated by chibigen. DO NOT EDIT.\n\n")
	fmt.Fprintf(&out, "package %s\n\n", g.pkg)
	fmt.Fprintf(&out, "import \"%s\"\n\n", runtimeImport)
	g.writeHelperPreamble(&out)
	fmt.Fprintf(&out, "func %s(_ctx *runtime.RenderContext) *runtime.VNode {\n", g.funcName)
	out.WriteString(g.body.String())
	out.WriteString("}\n")
	return out.String()
}

func (g *generator) writeHelperPreamble(out *strings.Builder) {
	names := g.ctx.helpers.ToSlice()
	if len(names) == 0 {
		return
	}
	sort.Strings(names)

	width := 0
	for _, name := range names {
		if n := len(g.ctx.Helper(name)); n > width {
			width = n
		}
	}
	out.WriteString("var (\n")
	for _, name := range names {
		alias := g.ctx.Helper(name)
		fmt.Fprintf(out, "\t%-*s = runtime.%s\n", width, alias, name)
	}
	out.WriteString(")\n\n")
}

func (g *generator) genRoot(root *RootNode) {
	switch len(root.Children) {
	case 0:
		fmt.Fprintf(&g.body, "\treturn %s(%q)\n", g.ctx.Helper(HelperCreateCommentVNode), "")
	case 1:
		fmt.Fprintf(&g.body, "\treturn %s\n", g.genVNode(root.Children[0], "_ctx", 0, "\t"))
	default:
		children := g.genVNodeSlice(root.Children, "_ctx", 0, "\t")
		fmt.Fprintf(&g.body, "\treturn %s(%s, nil, %s)\n",
			g.ctx.Helper(HelperCreateVNode), g.ctx.Helper(HelperFragment), children)
	}
}

// genVNode emits an expression of type *runtime.VNode for one node.
func (g *generator) genVNode(n Node, ctxVar string, depth int, indent string) string {
	switch n := n.(type) {
	case *ElementNode:
		return g.genVNodeCall(n.CodegenNode, ctxVar, depth, indent)
	case *TextNode:
		return fmt.Sprintf("%s(%s)", g.ctx.Helper(HelperCreateTextVNode), strconv.Quote(n.Content))
	case *InterpolationNode:
		return fmt.Sprintf("%s(%s)", g.ctx.Helper(HelperCreateTextVNode), g.genTextExpr(n, ctxVar))
	case *CompoundExpressionNode:
		return fmt.Sprintf("%s(%s)", g.ctx.Helper(HelperCreateTextVNode), g.genTextExpr(n, ctxVar))
	case *CommentNode:
		return fmt.Sprintf("%s(%s)", g.ctx.Helper(HelperCreateCommentVNode), strconv.Quote(n.Content))
	case *IfNode:
		return g.genIf(n, ctxVar, depth, indent)
	case *ForNode:
		return fmt.Sprintf("%s(%s, nil, %s)",
			g.ctx.Helper(HelperCreateVNode), g.ctx.Helper(HelperFragment),
			g.genRenderList(n, ctxVar, depth, indent))
	}
	return fmt.Sprintf("%s(%q)", g.ctx.Helper(HelperCreateCommentVNode), "")
}

func (g *generator) genVNodeCall(call *VNodeCallNode, ctxVar string, depth int, indent string) string {
	return fmt.Sprintf("%s(%s, %s, %s)",
		g.ctx.Helper(HelperCreateElementVNode),
		strconv.Quote(call.Tag),
		g.genProps(call.Props, ctxVar),
		g.genChildren(call.Children, ctxVar, depth, indent))
}

func (g *generator) genProps(props []*PropertyNode, ctxVar string) string {
	if len(props) == 0 {
		return "nil"
	}
	parts := make([]string, 0, len(props))
	for _, p := range props {
		var value string
		if p.Exp != nil {
			value = g.genGet(p.Exp.Content, ctxVar)
		} else {
			value = strconv.Quote(p.Static)
		}
		parts = append(parts, fmt.Sprintf("%s: %s", strconv.Quote(p.Key), value))
	}
	return fmt.Sprintf("map[string]any{%s}", strings.Join(parts, ", "))
}

// genChildren emits the children argument of a vnode call: a string for the
// text fast path, a _renderList call for a lone v-for child, nil, or a
// []*runtime.VNode literal.
func (g *generator) genChildren(children any, ctxVar string, depth int, indent string) string {
	switch c := children.(type) {
	case nil:
		return "nil"
	case *TextNode:
		return strconv.Quote(c.Content)
	case *InterpolationNode:
		return g.genTextExpr(c, ctxVar)
	case *CompoundExpressionNode:
		return g.genTextExpr(c, ctxVar)
	case *ForNode:
		return g.genRenderList(c, ctxVar, depth, indent)
	case Node:
		return fmt.Sprintf("[]*runtime.VNode{%s}", g.genVNode(c, ctxVar, depth, indent))
	case []Node:
		return g.genVNodeSlice(c, ctxVar, depth, indent)
	}
	return "nil"
}

func (g *generator) genVNodeSlice(children []Node, ctxVar string, depth int, indent string) string {
	inner := indent + "\t"
	var b strings.Builder
	b.WriteString("[]*runtime.VNode{\n")
	for _, c := range children {
		b.WriteString(inner)
		b.WriteString(g.genVNode(c, ctxVar, depth, inner))
		b.WriteString(",\n")
	}
	b.WriteString(indent + "}")
	return b.String()
}

// genTextExpr emits a string-typed expression for text, interpolation or a
// merged compound of both.
func (g *generator) genTextExpr(n Node, ctxVar string) string {
	switch n := n.(type) {
	case *TextNode:
		return strconv.Quote(n.Content)
	case *InterpolationNode:
		return fmt.Sprintf("%s(%s)", g.ctx.Helper(HelperToDisplayString), g.genGet(n.Content.Content, ctxVar))
	case *CompoundExpressionNode:
		parts := make([]string, 0, len(n.Children))
		for _, c := range n.Children {
			parts = append(parts, g.genTextExpr(c, ctxVar))
		}
		return strings.Join(parts, " + ")
	}
	return `""`
}

func (g *generator) genGet(path, ctxVar string) string {
	return fmt.Sprintf("%s.Get(%s)", ctxVar, strconv.Quote(path))
}

// genIf emits the branch chain as an immediately invoked closure so it stays
// an expression. A chain without an else branch falls through to a comment
// placeholder vnode.
func (g *generator) genIf(n *IfNode, ctxVar string, depth int, indent string) string {
	inner := indent + "\t"
	var b strings.Builder
	b.WriteString("func() *runtime.VNode {\n")
	hasElse := false
	for _, branch := range n.Branches {
		if branch.Condition == nil {
			hasElse = true
			fmt.Fprintf(&b, "%sreturn %s\n", inner, g.genBranch(branch, ctxVar, depth, inner))
			break
		}
		fmt.Fprintf(&b, "%sif %s(%s) {\n", inner, g.ctx.Helper(HelperTruthy), g.genGet(branch.Condition.Content, ctxVar))
		fmt.Fprintf(&b, "%s\treturn %s\n", inner, g.genBranch(branch, ctxVar, depth, inner+"\t"))
		fmt.Fprintf(&b, "%s}\n", inner)
	}
	if !hasElse {
		fmt.Fprintf(&b, "%sreturn %s(%q)\n", inner, g.ctx.Helper(HelperCreateCommentVNode), "v-if")
	}
	fmt.Fprintf(&b, "%s}()", indent)
	return b.String()
}

func (g *generator) genBranch(branch *IfBranchNode, ctxVar string, depth int, indent string) string {
	if len(branch.Children) == 1 {
		return g.genVNode(branch.Children[0], ctxVar, depth, indent)
	}
	return fmt.Sprintf("%s(%s, nil, %s)",
		g.ctx.Helper(HelperCreateVNode), g.ctx.Helper(HelperFragment),
		g.genVNodeSlice(branch.Children, ctxVar, depth, indent))
}

// genRenderList emits the _renderList call for a ForNode. Loop aliases live
// in a child render context so nested expressions resolve them by name.
func (g *generator) genRenderList(n *ForNode, ctxVar string, depth int, indent string) string {
	inner := indent + "\t"
	childCtx := fmt.Sprintf("_ctx%d", depth+1)

	scope := fmt.Sprintf("%s: _item", strconv.Quote(n.ValueAlias))
	if n.IndexAlias != "" {
		scope += fmt.Sprintf(", %s: _index", strconv.Quote(n.IndexAlias))
	}

	var body string
	if len(n.Children) == 1 {
		body = g.genVNode(n.Children[0], childCtx, depth+1, inner)
	} else {
		body = fmt.Sprintf("%s(%s, nil, %s)",
			g.ctx.Helper(HelperCreateVNode), g.ctx.Helper(HelperFragment),
			g.genVNodeSlice(n.Children, childCtx, depth+1, inner))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s(%s, func(_item any, _index int) *runtime.VNode {\n",
		g.ctx.Helper(HelperRenderList), g.genGet(n.Source.Content, ctxVar))
	// a fully static loop body never touches the child context
	if strings.Contains(body, childCtx) {
		fmt.Fprintf(&b, "%s%s := %s.Child(map[string]any{%s})\n", inner, childCtx, ctxVar, scope)
	}
	fmt.Fprintf(&b, "%sreturn %s\n", inner, body)
	fmt.Fprintf(&b, "%s})", indent)
	return b.String()
}
