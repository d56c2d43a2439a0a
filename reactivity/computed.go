package reactivity

// Computed is a lazily cached derived value: a subscriber of its inputs and a
// dependency of whatever reads it. Writes upstream only mark it; the getter
// re-runs on the next read, and downstream subscribers are considered dirty
// only if the recomputed value actually differed.
type Computed[T comparable] struct {
	rs     *ReactiveSystem
	sub    subNode
	dep    Dep
	getter func(oldValue T) T
	setter func(v T)
	value  T

	// lastGlobal lets an unchanged world short-circuit the dirty walk.
	lastGlobal uint64
}

func NewComputed[T comparable](rs *ReactiveSystem, getter func(oldValue T) T) *Computed[T] {
	c := &Computed[T]{
		rs:     rs,
		getter: getter,
		sub:    subNode{flags: fActive | fDirty},
	}
	c.dep.rs = rs
	c.dep.owner = c
	return c
}

// NewWritableComputed also accepts writes; the setter decides what upstream
// state to change.
func NewWritableComputed[T comparable](rs *ReactiveSystem, getter func(oldValue T) T, setter func(v T)) *Computed[T] {
	c := NewComputed(rs, getter)
	c.setter = setter
	return c
}

func (c *Computed[T]) isReactiveSource() {}

func (c *Computed[T]) node() *subNode { return &c.sub }

// notify forwards the push phase to this computed's own subscribers without
// recomputing anything.
func (c *Computed[T]) notify() {
	if c.sub.flags&fRunning != 0 {
		return
	}
	c.dep.notifySubs()
}

func (c *Computed[T]) Value() T {
	c.refresh()
	c.dep.track()
	return c.value
}

func (c *Computed[T]) SetValue(v T) {
	if c.setter == nil {
		return
	}
	c.setter(v)
}

// Peek reads without tracking, refreshing if needed.
func (c *Computed[T]) Peek() T {
	c.refresh()
	return c.value
}

func (c *Computed[T]) sourceValue() any { return c.Value() }

// refresh recomputes if and only if some transitive input changed value
// since the last run.
func (c *Computed[T]) refresh() {
	if c.sub.flags&fRunning != 0 {
		return
	}
	if c.lastGlobal == c.rs.globalVersion {
		return
	}
	c.lastGlobal = c.rs.globalVersion

	if c.sub.flags&fDirty == 0 && !c.rs.checkDirty(&c.sub) {
		return
	}

	rs := c.rs
	prevSub := rs.activeSub
	rs.activeSub = c
	rs.startTracking(&c.sub)
	defer func() {
		rs.endTracking(&c.sub)
		rs.activeSub = prevSub
	}()

	oldValue := c.value
	newValue := c.getter(oldValue)
	c.sub.flags &^= fDirty

	if newValue != oldValue {
		c.value = newValue
		c.dep.version++
	}
}

// invalidate is called when the last subscriber goes away: drop our own
// edges and force a full refresh on the next read.
func (c *Computed[T]) invalidate() {
	c.rs.clearTracking(&c.sub)
	c.sub.flags |= fDirty
	c.lastGlobal = 0
}
