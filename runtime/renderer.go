package runtime

import "reflect"

// NodeOps is the host interface: everything the renderer needs from the
// platform (a DOM binding, the in-memory test host, ...).
type NodeOps interface {
	CreateElement(tag string) HostNode
	CreateText(text string) HostNode
	CreateComment(text string) HostNode
	SetText(node HostNode, text string)
	SetElementText(el HostNode, text string)
	// Insert places child before anchor inside parent; nil anchor appends.
	// Inserting a node that already has a parent moves it.
	Insert(child, parent, anchor HostNode)
	Remove(child HostNode)
	Parent(node HostNode) HostNode
	NextSibling(node HostNode) HostNode
	PatchProp(el HostNode, key string, prevValue, nextValue any)
}

// Renderer mounts and patches vnode trees against a host via NodeOps.
type Renderer struct {
	ops   NodeOps
	roots map[HostNode]*VNode
}

func NewRenderer(ops NodeOps) *Renderer {
	return &Renderer{ops: ops, roots: map[HostNode]*VNode{}}
}

// Render diffs vnode against whatever was last rendered into container.
// A nil vnode unmounts.
func (r *Renderer) Render(vnode *VNode, container HostNode) {
	prev := r.roots[container]
	if vnode == nil {
		if prev != nil {
			r.unmount(prev)
			delete(r.roots, container)
		}
		return
	}
	r.patch(prev, vnode, container, nil)
	r.roots[container] = vnode
}

func (r *Renderer) patch(n1, n2 *VNode, container, anchor HostNode) {
	if n1 == n2 {
		return
	}
	if n1 != nil && !isSameVNodeType(n1, n2) {
		anchor = r.ops.NextSibling(n1.El)
		r.unmount(n1)
		n1 = nil
	}
	switch n2.Type {
	case Text:
		r.processText(n1, n2, container, anchor)
	case Comment:
		r.processComment(n1, n2, container, anchor)
	case Fragment:
		r.processFragment(n1, n2, container, anchor)
	default:
		r.processElement(n1, n2, container, anchor)
	}
}

func (r *Renderer) processText(n1, n2 *VNode, container, anchor HostNode) {
	if n1 == nil {
		n2.El = r.ops.CreateText(n2.text())
		r.ops.Insert(n2.El, container, anchor)
		return
	}
	n2.El = n1.El
	if n2.text() != n1.text() {
		r.ops.SetText(n2.El, n2.text())
	}
}

func (r *Renderer) processComment(n1, n2 *VNode, container, anchor HostNode) {
	if n1 == nil {
		n2.El = r.ops.CreateComment(n2.text())
		r.ops.Insert(n2.El, container, anchor)
		return
	}
	// comments are static
	n2.El = n1.El
}

func (r *Renderer) processFragment(n1, n2 *VNode, container, anchor HostNode) {
	if n1 == nil {
		n2.El = r.ops.CreateText("")
		n2.Anchor = r.ops.CreateText("")
		r.ops.Insert(n2.El, container, anchor)
		r.ops.Insert(n2.Anchor, container, anchor)
		for _, child := range n2.childNodes() {
			r.patch(nil, child, container, n2.Anchor)
		}
		return
	}
	n2.El = n1.El
	n2.Anchor = n1.Anchor
	r.patchChildren(n1, n2, container, n2.Anchor)
}

func (r *Renderer) processElement(n1, n2 *VNode, container, anchor HostNode) {
	if n1 == nil {
		r.mountElement(n2, container, anchor)
		return
	}
	r.patchElement(n1, n2)
}

func (r *Renderer) mountElement(vnode *VNode, container, anchor HostNode) {
	el := r.ops.CreateElement(vnode.Type.(string))
	vnode.El = el
	for key, value := range vnode.Props {
		r.ops.PatchProp(el, key, nil, value)
	}
	switch c := vnode.Children.(type) {
	case string:
		if c != "" {
			r.ops.SetElementText(el, c)
		}
	case []*VNode:
		for _, child := range c {
			r.patch(nil, child, el, nil)
		}
	}
	r.ops.Insert(el, container, anchor)
}

func (r *Renderer) patchElement(n1, n2 *VNode) {
	el := n1.El
	n2.El = el
	r.patchProps(el, n1.Props, n2.Props)
	r.patchChildren(n1, n2, el, nil)
}

func (r *Renderer) patchProps(el HostNode, oldProps, newProps map[string]any) {
	for key, next := range newProps {
		prev, had := oldProps[key]
		if !had || !samePropValue(prev, next) {
			r.ops.PatchProp(el, key, prev, next)
		}
	}
	for key, prev := range oldProps {
		if _, kept := newProps[key]; !kept {
			r.ops.PatchProp(el, key, prev, nil)
		}
	}
}

// patchChildren handles the text/array shape combinations; two keyed arrays
// go through the full reconciler.
func (r *Renderer) patchChildren(n1, n2 *VNode, container, anchor HostNode) {
	newText, newIsText := n2.Children.(string)
	oldChildren := n1.childNodes()

	if newIsText {
		for _, child := range oldChildren {
			r.unmount(child)
		}
		if n1.text() != newText {
			r.ops.SetElementText(container, newText)
		}
		return
	}

	newChildren := n2.childNodes()
	if len(oldChildren) > 0 {
		r.PatchKeyedChildren(oldChildren, newChildren, container, anchor)
		return
	}
	if n1.text() != "" {
		r.ops.SetElementText(container, "")
	}
	for _, child := range newChildren {
		r.patch(nil, child, container, anchor)
	}
}

func (r *Renderer) unmount(vnode *VNode) {
	if vnode.Type == Fragment {
		for _, child := range vnode.childNodes() {
			r.unmount(child)
		}
		r.ops.Remove(vnode.El)
		r.ops.Remove(vnode.Anchor)
		return
	}
	r.ops.Remove(vnode.El)
}

// move relocates an already-mounted vnode; fragments move as a unit.
func (r *Renderer) move(vnode *VNode, container, anchor HostNode) {
	if vnode.Type == Fragment {
		r.ops.Insert(vnode.El, container, anchor)
		for _, child := range vnode.childNodes() {
			r.move(child, container, anchor)
		}
		r.ops.Insert(vnode.Anchor, container, anchor)
		return
	}
	r.ops.Insert(vnode.El, container, anchor)
}

// samePropValue compares prop values: comparable values by ==, handlers and
// other uncomparable values are always considered changed.
func samePropValue(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	ta := reflect.TypeOf(a)
	if ta != reflect.TypeOf(b) || !ta.Comparable() {
		return false
	}
	return a == b
}
