package reactivity

import (
	"reflect"
	"sort"
)

// Reactive wraps a plain container in a tracked accessor object:
// map[string]any becomes a *Store, []any becomes a *List. Anything else is
// returned as-is; wrapping host objects or arbitrary structs would hide their
// behavior, so the exclusion is deliberate, not an optimization. Repeated
// calls on the same underlying target return the same wrapper.
func Reactive(rs *ReactiveSystem, target any) any {
	switch t := target.(type) {
	case *Store, *List:
		return target
	case map[string]any:
		ptr := reflect.ValueOf(t).Pointer()
		if w, ok := rs.wrapped[ptr]; ok {
			return w
		}
		s := &Store{rs: rs, raw: t, deps: map[string]*Dep{}, iterDep: newDep(rs)}
		rs.wrapped[ptr] = s
		return s
	case []any:
		if len(t) == 0 {
			return &List{rs: rs, raw: t, deps: map[int]*Dep{}, lenDep: newDep(rs)}
		}
		ptr := reflect.ValueOf(t).Pointer()
		if w, ok := rs.wrapped[ptr]; ok {
			return w
		}
		l := &List{rs: rs, raw: t, deps: map[int]*Dep{}, lenDep: newDep(rs)}
		rs.wrapped[ptr] = l
		return l
	default:
		return target
	}
}

// Store is a reactive string-keyed object. Each key gets its own Dep lazily;
// a synthetic iteration Dep stands in for "the set of keys" so Keys/Len
// observers hear about additions and removals that no per-key Dep covers.
type Store struct {
	rs      *ReactiveSystem
	raw     map[string]any
	deps    map[string]*Dep
	iterDep *Dep
}

func (s *Store) depFor(key string) *Dep {
	d, ok := s.deps[key]
	if !ok {
		d = newDep(s.rs)
		s.deps[key] = d
	}
	return d
}

// Get reads one key, tracking it. Nested plain containers wrap lazily, so
// reactivity is deep without eagerly converting the whole tree.
func (s *Store) Get(key string) any {
	s.depFor(key).track()
	return Reactive(s.rs, s.raw[key])
}

// Set writes one key. Writing a value equal to the current one is a no-op.
// Adding a fresh key also notifies iteration observers.
func (s *Store) Set(key string, v any) {
	old, had := s.raw[key]
	if had && sameValue(old, v) {
		return
	}
	s.raw[key] = v
	s.rs.Batch(func() {
		s.depFor(key).trigger()
		if !had {
			s.iterDep.trigger()
		}
	})
}

// Delete removes a key, notifying both its observers and iteration
// observers. Deleting an absent key is a no-op.
func (s *Store) Delete(key string) {
	if _, had := s.raw[key]; !had {
		return
	}
	delete(s.raw, key)
	s.rs.Batch(func() {
		s.depFor(key).trigger()
		s.iterDep.trigger()
	})
}

func (s *Store) Has(key string) bool {
	s.depFor(key).track()
	_, ok := s.raw[key]
	return ok
}

// Keys tracks the iteration dep and returns the sorted key set.
func (s *Store) Keys() []string {
	s.iterDep.track()
	keys := make([]string, 0, len(s.raw))
	for k := range s.raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (s *Store) Len() int {
	s.iterDep.track()
	return len(s.raw)
}

// Raw returns the underlying map without tracking.
func (s *Store) Raw() map[string]any { return s.raw }

// List is a reactive sequence. Index reads track per-index Deps; a synthetic
// length Dep is triggered by every structural change, standing in for the
// array "length" key.
type List struct {
	rs     *ReactiveSystem
	raw    []any
	deps   map[int]*Dep
	lenDep *Dep
}

func (l *List) depFor(i int) *Dep {
	d, ok := l.deps[i]
	if !ok {
		d = newDep(l.rs)
		l.deps[i] = d
	}
	return d
}

func (l *List) Get(i int) any {
	l.depFor(i).track()
	if i < 0 || i >= len(l.raw) {
		return nil
	}
	return Reactive(l.rs, l.raw[i])
}

// Set writes one index. Writing past the current length grows the list,
// which also notifies length observers.
func (l *List) Set(i int, v any) {
	if i < len(l.raw) {
		if sameValue(l.raw[i], v) {
			return
		}
		l.raw[i] = v
		l.depFor(i).trigger()
		return
	}
	for len(l.raw) <= i {
		l.raw = append(l.raw, nil)
	}
	l.raw[i] = v
	l.rs.Batch(func() {
		l.depFor(i).trigger()
		l.lenDep.trigger()
	})
}

func (l *List) Append(vs ...any) {
	if len(vs) == 0 {
		return
	}
	start := len(l.raw)
	l.raw = append(l.raw, vs...)
	l.rs.Batch(func() {
		for i := range vs {
			l.depFor(start + i).trigger()
		}
		l.lenDep.trigger()
	})
}

func (l *List) Pop() any {
	if len(l.raw) == 0 {
		return nil
	}
	last := len(l.raw) - 1
	v := l.raw[last]
	l.raw = l.raw[:last]
	l.rs.Batch(func() {
		l.depFor(last).trigger()
		l.lenDep.trigger()
	})
	return v
}

func (l *List) Len() int {
	l.lenDep.track()
	return len(l.raw)
}

// SetLen truncates or grows the list, notifying removed indices.
func (l *List) SetLen(n int) {
	if n == len(l.raw) {
		return
	}
	l.rs.Batch(func() {
		if n < len(l.raw) {
			for i := n; i < len(l.raw); i++ {
				l.depFor(i).trigger()
			}
			l.raw = l.raw[:n]
		} else {
			for len(l.raw) < n {
				l.raw = append(l.raw, nil)
			}
		}
		l.lenDep.trigger()
	})
}

// Raw returns the underlying slice without tracking.
func (l *List) Raw() []any { return l.raw }

// sameValue approximates Object.is for dynamically typed values: comparable
// values compare by ==, maps/slices/funcs by identity, everything else is
// considered different.
func sameValue(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb {
		return false
	}
	if ta.Comparable() {
		return a == b
	}
	switch ta.Kind() {
	case reflect.Map, reflect.Slice, reflect.Func:
		va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
		if va.Kind() == reflect.Slice && va.Len() != vb.Len() {
			return false
		}
		return va.Pointer() == vb.Pointer()
	}
	return false
}
