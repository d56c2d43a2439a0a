package hostmem_test

import (
	"testing"

	"github.com/chibivue-land/chibivue/hostmem"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// InnerHTML serializes elements, sorted attributes, text and comments
func TestInnerHTML(t *testing.T) {
	ops := &hostmem.Ops{}
	root := hostmem.NewContainer()

	div := ops.CreateElement("div")
	ops.PatchProp(div, "id", nil, "app")
	ops.PatchProp(div, "class", nil, "box")
	ops.Insert(div, root, nil)

	text := ops.CreateText("hi")
	ops.Insert(text, div, nil)
	comment := ops.CreateComment("note")
	ops.Insert(comment, div, nil)

	assert.Equal(t, `<div class="box" id="app">hi<!--note--></div>`, root.InnerHTML())
}

// inserting before an anchor places the node at the anchor's position
func TestInsertWithAnchor(t *testing.T) {
	ops := &hostmem.Ops{}
	root := hostmem.NewContainer()

	a := ops.CreateText("a")
	c := ops.CreateText("c")
	ops.Insert(a, root, nil)
	ops.Insert(c, root, nil)

	b := ops.CreateText("b")
	ops.Insert(b, root, c)

	assert.Equal(t, "abc", root.InnerHTML())
}

// re-inserting an attached node counts as a move, not an insert
func TestInsertCountsMoves(t *testing.T) {
	ops := &hostmem.Ops{}
	root := hostmem.NewContainer()

	a := ops.CreateText("a")
	b := ops.CreateText("b")
	ops.Insert(a, root, nil)
	ops.Insert(b, root, nil)
	require.Equal(t, 2, ops.Inserts)
	require.Equal(t, 0, ops.Moves)

	ops.Insert(b, root, a) // b before a
	assert.Equal(t, "ba", root.InnerHTML())
	assert.Equal(t, 2, ops.Inserts)
	assert.Equal(t, 1, ops.Moves)
}

// removal detaches the subtree and counts once
func TestRemove(t *testing.T) {
	ops := &hostmem.Ops{}
	root := hostmem.NewContainer()

	div := ops.CreateElement("div")
	ops.Insert(div, root, nil)
	ops.Insert(ops.CreateText("x"), div, nil)

	ops.Remove(div)
	assert.Equal(t, "", root.InnerHTML())
	assert.Equal(t, 1, ops.Removes)
	assert.Nil(t, ops.Parent(div))
}

// NextSibling walks the child list; nil past the end
func TestNextSibling(t *testing.T) {
	ops := &hostmem.Ops{}
	root := hostmem.NewContainer()

	a := ops.CreateText("a")
	b := ops.CreateText("b")
	ops.Insert(a, root, nil)
	ops.Insert(b, root, nil)

	assert.Equal(t, b, ops.NextSibling(a))
	assert.Nil(t, ops.NextSibling(b))
}
