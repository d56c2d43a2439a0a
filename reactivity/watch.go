package reactivity

// WatchCallback receives the new and old source values plus an onCleanup
// registrar; registered closures run before the next callback and on stop.
type WatchCallback func(newValue, oldValue any, onCleanup func(func()))

type WatchOptions struct {
	// Immediate fires the callback right away with a nil old value.
	Immediate bool
	// Deep walks the source recursively so nested mutations are observed.
	Deep bool
	// Once stops the watcher after the first callback invocation.
	Once bool
}

// valueSource is satisfied by Ref and Computed so either can be watched
// directly.
type valueSource interface {
	sourceValue() any
}

// Watch observes a source (a getter func() any, a Ref/Computed, or a
// reactive Store/List, the latter implying Deep) and invokes cb when its
// value changes. Returns a stop function; stopping is idempotent.
func Watch(rs *ReactiveSystem, source any, cb WatchCallback, opts WatchOptions) (stop func()) {
	getter, forceDeep := resolveWatchSource(rs, source)
	deep := opts.Deep || forceDeep
	if deep {
		inner := getter
		getter = func() any { return traverse(inner(), map[any]bool{}) }
	}

	var (
		oldValue any
		current  any
		cleanups []func()
	)
	onCleanup := func(fn func()) {
		cleanups = append(cleanups, fn)
	}
	runCleanups := func() {
		for _, fn := range cleanups {
			fn()
		}
		cleanups = nil
	}

	e := newEffect(rs, func() error {
		current = getter()
		return nil
	})
	e.OnStop = runCleanups
	e.scheduler = func() {
		e.run()
		newValue := current
		if !deep && sameValue(newValue, oldValue) {
			return
		}
		runCleanups()
		cb(newValue, oldValue, onCleanup)
		oldValue = newValue
		if opts.Once {
			e.Stop()
		}
	}

	e.run()
	oldValue = current
	if opts.Immediate {
		cb(oldValue, nil, onCleanup)
		if opts.Once {
			e.Stop()
		}
	}

	return e.Stop
}

func resolveWatchSource(rs *ReactiveSystem, source any) (getter func() any, forceDeep bool) {
	switch s := source.(type) {
	case func() any:
		return s, false
	case valueSource:
		return s.sourceValue, false
	case *Store:
		return func() any { return s }, true
	case *List:
		return func() any { return s }, true
	default:
		// Non-reactive source: constant getter, never fires.
		return func() any { return source }, false
	}
}

// traverse reads every reachable cell of a reactive value so the enclosing
// subscriber depends on all of them.
func traverse(v any, seen map[any]bool) any {
	switch s := v.(type) {
	case *Store:
		if seen[s] {
			return v
		}
		seen[s] = true
		for _, k := range s.Keys() {
			traverse(s.Get(k), seen)
		}
	case *List:
		if seen[s] {
			return v
		}
		seen[s] = true
		for i := 0; i < s.Len(); i++ {
			traverse(s.Get(i), seen)
		}
	case valueSource:
		if seen[s] {
			return v
		}
		seen[s] = true
		traverse(s.sourceValue(), seen)
	}
	return v
}
