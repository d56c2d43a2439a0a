package compiler

// NodeKind tags the AST variants.
type NodeKind uint8

const (
	KindRoot NodeKind = iota
	KindElement
	KindText
	KindComment
	KindInterpolation
	KindSimpleExpression
	KindCompoundExpression
	KindAttribute
	KindDirective
	KindIf
	KindIfBranch
	KindFor
	KindVNodeCall
)

func (k NodeKind) String() string {
	switch k {
	case KindRoot:
		return "Root"
	case KindElement:
		return "Element"
	case KindText:
		return "Text"
	case KindComment:
		return "Comment"
	case KindInterpolation:
		return "Interpolation"
	case KindSimpleExpression:
		return "SimpleExpression"
	case KindCompoundExpression:
		return "CompoundExpression"
	case KindAttribute:
		return "Attribute"
	case KindDirective:
		return "Directive"
	case KindIf:
		return "If"
	case KindIfBranch:
		return "IfBranch"
	case KindFor:
		return "For"
	case KindVNodeCall:
		return "VNodeCall"
	}
	return "Unknown"
}

// Position is a point in the template source.
type Position struct {
	Offset int
	Line   int
	Column int
}

// SourceLocation spans a node's source text; every node carries one for
// diagnostics.
type SourceLocation struct {
	Start  Position
	End    Position
	Source string
}

// Node is the tagged-variant interface over all AST shapes.
type Node interface {
	Kind() NodeKind
	Loc() *SourceLocation
}

type baseNode struct {
	location SourceLocation
}

func (n *baseNode) Loc() *SourceLocation { return &n.location }

type RootNode struct {
	baseNode
	Children []Node
	// CodegenNode is the single expression the render function returns,
	// filled in by the transform pipeline.
	CodegenNode Node
}

func (n *RootNode) Kind() NodeKind { return KindRoot }

type ElementNode struct {
	baseNode
	Tag           string
	Props         []Node // AttributeNode | DirectiveNode
	Children      []Node
	IsSelfClosing bool
	CodegenNode   *VNodeCallNode
}

func (n *ElementNode) Kind() NodeKind { return KindElement }

func (n *ElementNode) findDirective(name string) *DirectiveNode {
	for _, p := range n.Props {
		if d, ok := p.(*DirectiveNode); ok && d.Name == name {
			return d
		}
	}
	return nil
}

func (n *ElementNode) removeDirective(name string) {
	kept := n.Props[:0]
	for _, p := range n.Props {
		if d, ok := p.(*DirectiveNode); ok && d.Name == name {
			continue
		}
		kept = append(kept, p)
	}
	n.Props = kept
}

type TextNode struct {
	baseNode
	Content string
}

func (n *TextNode) Kind() NodeKind { return KindText }

type CommentNode struct {
	baseNode
	Content string
}

func (n *CommentNode) Kind() NodeKind { return KindComment }

type InterpolationNode struct {
	baseNode
	Content *SimpleExpressionNode
}

func (n *InterpolationNode) Kind() NodeKind { return KindInterpolation }

// SimpleExpressionNode is a raw expression (or static string) from the
// template: a directive value, an interpolation body, an attribute value.
type SimpleExpressionNode struct {
	baseNode
	Content  string
	IsStatic bool
}

func (n *SimpleExpressionNode) Kind() NodeKind { return KindSimpleExpression }

// CompoundExpressionNode concatenates adjacent text and interpolation
// siblings into one codegen unit. Children are TextNode or
// InterpolationNode.
type CompoundExpressionNode struct {
	baseNode
	Children []Node
}

func (n *CompoundExpressionNode) Kind() NodeKind { return KindCompoundExpression }

type AttributeNode struct {
	baseNode
	Name  string
	Value string
}

func (n *AttributeNode) Kind() NodeKind { return KindAttribute }

// DirectiveNode is a parsed v-name:arg.mod="exp" (or its : / @ shorthand).
type DirectiveNode struct {
	baseNode
	Name      string // "bind", "on", "if", "else-if", "else", "for", ...
	Arg       string
	Exp       *SimpleExpressionNode
	Modifiers []string
}

func (n *DirectiveNode) Kind() NodeKind { return KindDirective }

// IfNode replaces a v-if element and its v-else-if/v-else siblings.
type IfNode struct {
	baseNode
	Branches    []*IfBranchNode
	CodegenNode Node
}

func (n *IfNode) Kind() NodeKind { return KindIf }

// IfBranchNode holds one branch; a nil Condition is the else branch.
type IfBranchNode struct {
	baseNode
	Condition *SimpleExpressionNode
	Children  []Node
}

func (n *IfBranchNode) Kind() NodeKind { return KindIfBranch }

// ForNode replaces an element carrying v-for="(item, i) in source".
type ForNode struct {
	baseNode
	Source     *SimpleExpressionNode
	ValueAlias string
	IndexAlias string
	Children   []Node
	// KeyProp is the key binding hoisted off the repeated element.
	KeyProp Node
}

func (n *ForNode) Kind() NodeKind { return KindFor }

// VNodeCallNode is the codegen-friendly lowering of an element: the tag, a
// props object and normalized children.
type VNodeCallNode struct {
	baseNode
	Tag   string
	Props []*PropertyNode
	// Children is nil, a single Node (text fast path or merged compound), or
	// a []Node slice.
	Children any
}

func (n *VNodeCallNode) Kind() NodeKind { return KindVNodeCall }

// PropertyNode is one entry of a VNode call's props object.
type PropertyNode struct {
	Key string
	// Static holds a literal string value; Exp a dynamic one. Exactly one is
	// set.
	Static  string
	Exp     *SimpleExpressionNode
	Handler bool // v-on handlers patch unconditionally
}
