package runtime_test

import (
	"testing"

	"github.com/chibivue-land/chibivue/hostmem"
	"github.com/chibivue-land/chibivue/reactivity"
	"github.com/chibivue-land/chibivue/runtime"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newApp(t *testing.T, state map[string]any, render func(ctx *runtime.RenderContext) *runtime.VNode) (*reactivity.ReactiveSystem, *reactivity.Store, *hostmem.Node) {
	t.Helper()
	rs := reactivity.NewReactiveSystem(func(from reactivity.Source, err error) {
		assert.FailNow(t, err.Error())
	})
	store := reactivity.Reactive(rs, state).(*reactivity.Store)
	r := runtime.NewRenderer(&hostmem.Ops{})
	container := hostmem.NewContainer()
	app := r.CreateApp(rs, runtime.NewRenderContext(store), render)
	app.Mount(container)
	return rs, store, container
}

// mounting renders once; reactive writes re-render
func TestAppReactiveRerender(t *testing.T) {
	renders := 0
	_, store, container := newApp(t, map[string]any{"msg": "hi"}, func(ctx *runtime.RenderContext) *runtime.VNode {
		renders++
		return runtime.CreateElementVNode("p", nil, runtime.ToDisplayString(ctx.Get("msg")))
	})

	require.Equal(t, 1, renders)
	require.Equal(t, "<p>hi</p>", container.InnerHTML())

	store.Set("msg", "yo")
	assert.Equal(t, 2, renders)
	assert.Equal(t, "<p>yo</p>", container.InnerHTML())
}

// batched writes coalesce into a single re-render
func TestAppBatchedWritesRenderOnce(t *testing.T) {
	renders := 0
	rs, store, container := newApp(t, map[string]any{"a": 1, "b": 2}, func(ctx *runtime.RenderContext) *runtime.VNode {
		renders++
		sum := ctx.Get("a").(int) + ctx.Get("b").(int)
		return runtime.CreateElementVNode("p", nil, runtime.ToDisplayString(sum))
	})
	require.Equal(t, 1, renders)

	rs.Batch(func() {
		store.Set("a", 10)
		store.Set("b", 20)
	})
	assert.Equal(t, 2, renders)
	assert.Equal(t, "<p>30</p>", container.InnerHTML())
}

// writes to state the render function never read do not re-render
func TestAppUnreadStateDoesNotRerender(t *testing.T) {
	renders := 0
	_, store, _ := newApp(t, map[string]any{"shown": "x", "hidden": "y"}, func(ctx *runtime.RenderContext) *runtime.VNode {
		renders++
		return runtime.CreateElementVNode("p", nil, runtime.ToDisplayString(ctx.Get("shown")))
	})
	require.Equal(t, 1, renders)

	store.Set("hidden", "z")
	assert.Equal(t, 1, renders)
}

// keyed list re-renders keep host identity for stable keys
func TestAppKeyedListIdentity(t *testing.T) {
	rs := reactivity.NewReactiveSystem(nil)
	store := reactivity.Reactive(rs, map[string]any{
		"items": []any{"a", "b", "c"},
	}).(*reactivity.Store)

	ops := &hostmem.Ops{}
	r := runtime.NewRenderer(ops)
	container := hostmem.NewContainer()

	app := r.CreateApp(rs, runtime.NewRenderContext(store), func(ctx *runtime.RenderContext) *runtime.VNode {
		children := runtime.RenderList(ctx.Get("items"), func(item any, i int) *runtime.VNode {
			key := item.(string)
			return runtime.CreateElementVNode("li", map[string]any{"key": key}, key)
		})
		return runtime.CreateElementVNode("ul", nil, children)
	})
	app.Mount(container)
	require.Equal(t, "<ul><li>a</li><li>b</li><li>c</li></ul>", container.InnerHTML())

	bEl := container.Child(0).Child(1)
	ops.ResetCounters()

	items := store.Get("items").(*reactivity.List)
	items.Set(0, "z") // a -> z: one unmount, one mount, b and c untouched
	require.Equal(t, "<ul><li>z</li><li>b</li><li>c</li></ul>", container.InnerHTML())
	assert.Same(t, bEl, container.Child(0).Child(1))
	assert.Equal(t, 1, ops.Removes)

	app.Unmount()
	assert.Equal(t, "", container.InnerHTML())
}
