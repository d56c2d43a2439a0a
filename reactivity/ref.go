package reactivity

// Ref is a boxed reactive value. Reading under an active subscriber tracks a
// dependency edge; writing an equal value is a no-op.
type Ref[T comparable] struct {
	rs    *ReactiveSystem
	dep   Dep
	value T
}

func NewRef[T comparable](rs *ReactiveSystem, initialValue T) *Ref[T] {
	r := &Ref[T]{rs: rs, value: initialValue}
	r.dep.rs = rs
	return r
}

func (r *Ref[T]) isReactiveSource() {}

func (r *Ref[T]) Value() T {
	r.dep.track()
	return r.value
}

func (r *Ref[T]) SetValue(v T) {
	if r.value == v {
		return
	}
	r.value = v
	r.dep.trigger()
}

// Peek reads without tracking.
func (r *Ref[T]) Peek() T {
	return r.value
}

// sourceValue lets a Ref act as a watch source.
func (r *Ref[T]) sourceValue() any { return r.Value() }
