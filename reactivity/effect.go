package reactivity

// ErrFn is the shape of user work run by an effect. A returned error is
// routed to the system's error handler, never panicked.
type ErrFn func() error

// Effect is a re-runnable unit of side-effecting work. It runs once on
// creation, then again whenever a dependency it read actually changed value.
type Effect struct {
	rs  *ReactiveSystem
	sub subNode
	fn  ErrFn

	// scheduler, when set, is invoked instead of run when the effect comes
	// due. Watchers and render effects use it to defer their work.
	scheduler func()

	// OnStop runs once when the effect is stopped.
	OnStop func()
}

func (e *Effect) isReactiveSource() {}

func (e *Effect) node() *subNode { return &e.sub }

func (e *Effect) notify() {
	f := e.sub.flags
	if f&fActive == 0 || f&fNotified != 0 || f&fRunning != 0 {
		return
	}
	e.sub.flags |= fNotified
	e.rs.queued = append(e.rs.queued, e)
}

// NewEffect creates the effect and runs it immediately under tracking.
func NewEffect(rs *ReactiveSystem, fn ErrFn) *Effect {
	e := newEffect(rs, fn)
	e.run()
	return e
}

// newEffect creates without running; watchers drive the first run themselves.
func newEffect(rs *ReactiveSystem, fn ErrFn) *Effect {
	return &Effect{
		rs:  rs,
		fn:  fn,
		sub: subNode{flags: fActive},
	}
}

func (e *Effect) run() {
	rs := e.rs
	prevSub := rs.activeSub
	rs.activeSub = e
	rs.startTracking(&e.sub)
	defer func() {
		rs.endTracking(&e.sub)
		rs.activeSub = prevSub
		if e.sub.flags&fDeferStop != 0 {
			e.cleanup()
		}
	}()
	if err := e.fn(); err != nil && rs.onError != nil {
		rs.onError(e, err)
	}
}

// Stop unlinks every dependency edge and prevents further runs. It is
// idempotent. Calling it from inside the effect's own run defers the
// unlinking until the run completes.
func (e *Effect) Stop() {
	if e.sub.flags&fActive == 0 {
		return
	}
	if e.rs.activeSub == e {
		e.sub.flags |= fDeferStop
		return
	}
	e.cleanup()
}

func (e *Effect) cleanup() {
	e.rs.clearTracking(&e.sub)
	e.sub.flags &^= fActive | fNotified | fDeferStop
	if e.OnStop != nil {
		e.OnStop()
	}
}
