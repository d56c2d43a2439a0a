package compiler_test

import (
	"testing"

	"github.com/chibivue-land/chibivue/compiler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func compileClean(t *testing.T, src string, opts *compiler.CompilerOptions) *compiler.CompileResult {
	t.Helper()
	result, err := compiler.Compile(src, opts)
	require.NoError(t, err)
	return result
}

// a lone static text child stays a bare string in the vnode call
func TestCompileSingleTextFastPath(t *testing.T) {
	result := compileClean(t, `<div>hello</div>`, nil)

	div := result.AST.Children[0].(*compiler.ElementNode)
	require.NotNil(t, div.CodegenNode)
	assert.IsType(t, &compiler.TextNode{}, div.CodegenNode.Children)
	assert.Contains(t, result.Code, `_createElementVNode("div", nil, "hello")`)
}

// adjacent text and interpolations merge into one compound child
func TestCompileTextMerge(t *testing.T) {
	result := compileClean(t, `<div>abc {{ d }} {{ e }}</div>`, nil)

	div := result.AST.Children[0].(*compiler.ElementNode)
	compound, ok := div.CodegenNode.Children.(*compiler.CompoundExpressionNode)
	require.True(t, ok, "children should merge into one compound expression")
	assert.Len(t, compound.Children, 4)

	assert.Contains(t, result.Code,
		`"abc " + _toDisplayString(_ctx.Get("d")) + " " + _toDisplayString(_ctx.Get("e"))`)
}

// the full output for a minimal template
func TestCompileGolden(t *testing.T) {
	result := compileClean(t, `<p>hi</p>`, nil)

	assert.Equal(t, `// Code generated by chibigen. DO NOT EDIT.

package main

import "github.com/chibivue-land/chibivue/runtime"

var (
	_createElementVNode = runtime.CreateElementVNode
)

func Render(_ctx *runtime.RenderContext) *runtime.VNode {
	return _createElementVNode("p", nil, "hi")
}
`, result.Code)
}

// v-if chains lower to a branch closure with a comment fallback
func TestCompileIfChain(t *testing.T) {
	result := compileClean(t, `<p v-if="a">A</p><p v-else-if="b">B</p><p v-else>C</p>`, nil)

	require.Len(t, result.AST.Children, 1)
	ifNode := result.AST.Children[0].(*compiler.IfNode)
	require.Len(t, ifNode.Branches, 3)
	assert.Nil(t, ifNode.Branches[2].Condition)

	assert.Contains(t, result.Code, `if _truthy(_ctx.Get("a")) {`)
	assert.Contains(t, result.Code, `if _truthy(_ctx.Get("b")) {`)
	assert.Contains(t, result.Code, `return _createElementVNode("p", nil, "C")`)
	assert.NotContains(t, result.Code, `"v-if"`)
}

// a v-if without an else falls through to a placeholder comment vnode
func TestCompileIfWithoutElse(t *testing.T) {
	result := compileClean(t, `<p v-if="ok">A</p>`, nil)

	assert.Contains(t, result.Code, `return _createCommentVNode("v-if")`)
}

// v-for lowers to RenderList with loop aliases in a child context
func TestCompileForLoop(t *testing.T) {
	result := compileClean(t, `<li v-for="(item, i) in items" :key="item.id">{{ item.label }}</li>`, nil)

	require.Len(t, result.AST.Children, 1)
	forNode := result.AST.Children[0].(*compiler.ForNode)
	assert.Equal(t, "items", forNode.Source.Content)
	assert.Equal(t, "item", forNode.ValueAlias)
	assert.Equal(t, "i", forNode.IndexAlias)
	assert.NotNil(t, forNode.KeyProp)

	assert.Contains(t, result.Code, `_renderList(_ctx.Get("items"), func(_item any, _index int) *runtime.VNode {`)
	assert.Contains(t, result.Code, `_ctx1 := _ctx.Child(map[string]any{"item": _item, "i": _index})`)
	assert.Contains(t, result.Code, `"key": _ctx1.Get("item.id")`)
	assert.Contains(t, result.Code, `_toDisplayString(_ctx1.Get("item.label"))`)
}

// bind and on shorthands become props entries; handlers get an on-prefixed key
func TestCompileBindAndOn(t *testing.T) {
	result := compileClean(t, `<button :disabled="busy" @click="go">Go</button>`, nil)

	assert.Contains(t, result.Code,
		`map[string]any{"disabled": _ctx.Get("busy"), "onClick": _ctx.Get("go")}`)
}

// multiple roots wrap in a fragment
func TestCompileMultiRootFragment(t *testing.T) {
	result := compileClean(t, `<p>a</p><p>b</p>`, nil)

	assert.Contains(t, result.Code, `_createVNode(_fragment, nil, []*runtime.VNode{`)
	assert.Contains(t, result.Code, `runtime.Fragment`)
}

// an empty template renders a comment placeholder
func TestCompileEmptyTemplate(t *testing.T) {
	result := compileClean(t, ``, nil)

	assert.Contains(t, result.Code, `return _createCommentVNode("")`)
}

// package and function names are configurable
func TestCompileNaming(t *testing.T) {
	result := compileClean(t, `<p>hi</p>`, &compiler.CompilerOptions{
		PackageName: "views",
		FuncName:    "RenderHome",
	})

	assert.Contains(t, result.Code, "package views\n")
	assert.Contains(t, result.Code, "func RenderHome(_ctx *runtime.RenderContext) *runtime.VNode {")
}

// identical source and options hit the cache
func TestCompileCache(t *testing.T) {
	a := compileClean(t, `<p>cached</p>`, nil)
	b := compileClean(t, `<p>cached</p>`, nil)
	assert.Same(t, a, b)

	c := compileClean(t, `<p>cached</p>`, &compiler.CompilerOptions{PackageName: "other"})
	assert.NotSame(t, a, c)
}

// syntax errors surface on the result, through OnError, and as the returned error
func TestCompileReportsErrors(t *testing.T) {
	var seen []*compiler.SyntaxError
	result, err := compiler.Compile(`<div><p></div>`, &compiler.CompilerOptions{
		OnError: func(e *compiler.SyntaxError) { seen = append(seen, e) },
	})

	require.Error(t, err)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, compiler.ErrMissingEndTag, result.Errors[0].Code)
	assert.Equal(t, result.Errors[0], seen[0])
	assert.NotEmpty(t, result.Code)
}

// v-else with no preceding v-if is an error
func TestCompileElseWithoutIf(t *testing.T) {
	result, err := compiler.Compile(`<p v-else>x</p>`, nil)

	require.Error(t, err)
	require.NotEmpty(t, result.Errors)
	assert.Equal(t, compiler.ErrElseWithoutIf, result.Errors[0].Code)
}

// v-for without an "in" clause is an error
func TestCompileForMissingExpression(t *testing.T) {
	_, err := compiler.Compile(`<li v-for="items">x</li>`, nil)

	require.Error(t, err)
	syntaxErr, ok := err.(*compiler.SyntaxError)
	require.True(t, ok)
	assert.Equal(t, compiler.ErrMissingForExpression, syntaxErr.Code)
}
