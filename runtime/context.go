package runtime

import (
	"strings"

	"github.com/chibivue-land/chibivue/reactivity"
)

// RenderContext resolves the expressions a compiled render function refers
// to: dotted paths looked up first in lexical scopes (v-for aliases), then in
// the backing reactive store, so reads are tracked.
type RenderContext struct {
	state  *reactivity.Store
	scope  map[string]any
	parent *RenderContext
}

func NewRenderContext(state *reactivity.Store) *RenderContext {
	return &RenderContext{state: state}
}

// Child opens a nested scope; v-for bodies use it for item/index aliases.
func (c *RenderContext) Child(scope map[string]any) *RenderContext {
	return &RenderContext{scope: scope, parent: c}
}

// Get resolves a dotted path like "user.name". Missing segments yield nil.
func (c *RenderContext) Get(path string) any {
	segments := strings.Split(path, ".")
	v, ok := c.resolve(segments[0])
	if !ok {
		return nil
	}
	for _, seg := range segments[1:] {
		switch cur := v.(type) {
		case *reactivity.Store:
			v = cur.Get(seg)
		case map[string]any:
			v = cur[seg]
		default:
			return nil
		}
	}
	return v
}

func (c *RenderContext) resolve(name string) (any, bool) {
	for ctx := c; ctx != nil; ctx = ctx.parent {
		if ctx.scope != nil {
			if v, ok := ctx.scope[name]; ok {
				return v, true
			}
		}
		if ctx.state != nil && ctx.state.Has(name) {
			return ctx.state.Get(name), true
		}
	}
	return nil, false
}
