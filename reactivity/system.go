package reactivity

// ReactiveSystem owns all graph state: the currently active subscriber, the
// batch depth, the queued effect notifications and the global write version.
// Nothing here is process-global, so independent systems (and tests) never
// interfere with each other.
type ReactiveSystem struct {
	onError OnErrorFunc

	activeSub  subscriber
	pauseStack []subscriber

	batchDepth int
	queued     []*Effect

	// globalVersion increments on every write anywhere in the system. A
	// computed whose recorded globalVersion still matches can skip its whole
	// dirty walk.
	globalVersion uint64

	// wrapped keeps Reactive identity-stable: one wrapper per raw target.
	wrapped map[uintptr]any
}

func NewReactiveSystem(onError OnErrorFunc) *ReactiveSystem {
	return &ReactiveSystem{
		onError:       onError,
		globalVersion: 1,
		wrapped:       map[uintptr]any{},
	}
}

// StartBatch suspends effect flushing until the matching EndBatch, so
// several writes coalesce into one round of effect runs.
func (rs *ReactiveSystem) StartBatch() {
	rs.batchDepth++
}

func (rs *ReactiveSystem) EndBatch() {
	rs.batchDepth--
	if rs.batchDepth == 0 {
		rs.processEffectNotifications()
	}
}

func (rs *ReactiveSystem) Batch(cb func()) {
	rs.StartBatch()
	defer rs.EndBatch()
	cb()
}

// PauseTracking makes subsequent reads plain (no dependency edges) until
// ResumeTracking.
func (rs *ReactiveSystem) PauseTracking() {
	rs.pauseStack = append(rs.pauseStack, rs.activeSub)
	rs.activeSub = nil
}

func (rs *ReactiveSystem) ResumeTracking() {
	lastIdx := len(rs.pauseStack) - 1
	rs.activeSub = rs.pauseStack[lastIdx]
	rs.pauseStack = rs.pauseStack[:lastIdx]
}

// Untracked runs fn with tracking paused and returns its result.
func Untracked[T any](rs *ReactiveSystem, fn func() T) T {
	rs.PauseTracking()
	defer rs.ResumeTracking()
	return fn()
}

// Dep is one observable cell: a ref's box, one key of a Store, one index of a
// List, or a computed's output. It holds the head/tail of its subscriber list
// and a version bumped on every value change.
type Dep struct {
	rs      *ReactiveSystem
	version uint64

	subs, subsTail *Link

	// owner is set when this dep is a computed's output, so the pull phase
	// can refresh it before comparing versions.
	owner refresher
}

func newDep(rs *ReactiveSystem) *Dep {
	return &Dep{rs: rs}
}

// track links this dep to the currently active subscriber. Outside any
// subscriber it is a no-op. Re-reading a dep already linked this run reuses
// the existing link instead of allocating a duplicate.
func (d *Dep) track() {
	sub := d.rs.activeSub
	if sub == nil {
		return
	}
	n := sub.node()

	// Fast path: same dep read again back to back.
	tail := n.depsTail
	if tail != nil && tail.dep == d {
		tail.version = d.version
		return
	}

	// Positional reuse: dependency order unchanged since the previous run.
	var next *Link
	if tail == nil {
		next = n.deps
	} else {
		next = tail.nextDep
	}
	if next != nil && next.dep == d {
		next.version = d.version
		n.depsTail = next
		return
	}

	// Out-of-order re-read: reuse the link wherever it sits in the list.
	for l := n.deps; l != nil; l = l.nextDep {
		if l.dep == d {
			l.version = d.version
			return
		}
	}

	l := &Link{dep: d, sub: sub, version: d.version, prevDep: tail, nextDep: next}
	if next != nil {
		next.prevDep = l
	}
	if tail != nil {
		tail.nextDep = l
	} else {
		n.deps = l
	}
	n.depsTail = l

	l.prevSub = d.subsTail
	if d.subsTail != nil {
		d.subsTail.nextSub = l
	} else {
		d.subs = l
	}
	d.subsTail = l
}

// trigger is the push phase: bump versions and notify subscribers. Effects
// are queued, computeds forward to their own subscribers without
// recomputing. With no subscribers it is a no-op.
func (d *Dep) trigger() {
	d.version++
	d.rs.globalVersion++
	d.notifySubs()
	if d.rs.batchDepth == 0 {
		d.rs.processEffectNotifications()
	}
}

func (d *Dep) notifySubs() {
	for l := d.subs; l != nil; l = l.nextSub {
		l.sub.notify()
	}
}

// startTracking prepares a subscriber for a run: every existing link is
// marked stale and reclaimed as the run re-reads it.
func (rs *ReactiveSystem) startTracking(n *subNode) {
	n.depsTail = nil
	n.flags = n.flags&^fNotified | fRunning
	for l := n.deps; l != nil; l = l.nextDep {
		l.version = staleVersion
	}
}

// endTracking removes every link the run did not re-read. Synchronizing the
// whole list after the run keeps correctness simple.
func (rs *ReactiveSystem) endTracking(n *subNode) {
	var next *Link
	for l := n.deps; l != nil; l = next {
		next = l.nextDep
		if l.version == staleVersion {
			rs.unlink(l)
		}
	}
	n.flags &^= fRunning
}

// unlink detaches a link from both of its lists in O(1) and returns the next
// link on the subscriber side. A computed that loses its last subscriber
// drops its own edges so unobserved chains do not pin the graph.
func (rs *ReactiveSystem) unlink(l *Link) *Link {
	next := l.nextDep
	d := l.dep
	n := l.sub.node()

	if l.nextSub != nil {
		l.nextSub.prevSub = l.prevSub
	} else {
		d.subsTail = l.prevSub
	}
	if l.prevSub != nil {
		l.prevSub.nextSub = l.nextSub
	} else {
		d.subs = l.nextSub
	}

	if l.nextDep != nil {
		l.nextDep.prevDep = l.prevDep
	}
	if l.prevDep != nil {
		l.prevDep.nextDep = l.nextDep
	} else {
		n.deps = l.nextDep
	}
	if n.depsTail == l {
		n.depsTail = l.prevDep
	}

	if d.subs == nil && d.owner != nil {
		d.owner.invalidate()
	}
	return next
}

// clearTracking removes all of a subscriber's dependency edges.
func (rs *ReactiveSystem) clearTracking(n *subNode) {
	for l := n.deps; l != nil; {
		l = rs.unlink(l)
	}
	n.deps, n.depsTail = nil, nil
}

// checkDirty is the pull phase: a subscriber is dirty iff some dependency's
// version moved past the version recorded on the link. Computed dependencies
// are refreshed first, so flag-only churn that never changed a value keeps
// every downstream subscriber clean.
func (rs *ReactiveSystem) checkDirty(n *subNode) bool {
	for l := n.deps; l != nil; l = l.nextDep {
		d := l.dep
		if d.owner != nil {
			d.owner.refresh()
		}
		if l.version != d.version {
			return true
		}
	}
	return false
}

// processEffectNotifications drains the queue built up during the push
// phase. Each queued effect re-runs only if actually dirty.
func (rs *ReactiveSystem) processEffectNotifications() {
	for len(rs.queued) > 0 {
		e := rs.queued[0]
		rs.queued = rs.queued[1:]
		e.sub.flags &^= fNotified
		if e.sub.flags&fActive == 0 {
			continue
		}
		if e.sub.flags&fDirty == 0 && !rs.checkDirty(&e.sub) {
			continue
		}
		if e.scheduler != nil {
			e.scheduler()
		} else {
			e.run()
		}
	}
}
