package reactivity

// NewScheduledEffect creates an effect whose re-runs are deferred through a
// caller-provided scheduler: when the effect comes due, schedule receives a
// run function instead of the effect executing inline. The first run happens
// immediately, as with NewEffect. Render effects use this to route updates
// through a job queue.
func NewScheduledEffect(rs *ReactiveSystem, fn ErrFn, schedule func(run func())) *Effect {
	e := newEffect(rs, fn)
	e.scheduler = func() {
		schedule(e.run)
	}
	e.run()
	return e
}
