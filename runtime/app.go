package runtime

import "github.com/chibivue-land/chibivue/reactivity"

// App ties a render function to a reactive system: any reactive state the
// render function reads becomes a dependency, and changes re-render through
// the scheduler so writes in one batch coalesce into a single patch.
type App struct {
	rs        *reactivity.ReactiveSystem
	renderer  *Renderer
	render    func(ctx *RenderContext) *VNode
	ctx       *RenderContext
	scheduler *Scheduler

	container HostNode
	effect    *reactivity.Effect
}

// CreateApp prepares an app around render; nothing runs until Mount.
func (r *Renderer) CreateApp(rs *reactivity.ReactiveSystem, ctx *RenderContext, render func(ctx *RenderContext) *VNode) *App {
	return &App{
		rs:        rs,
		renderer:  r,
		render:    render,
		ctx:       ctx,
		scheduler: NewScheduler(),
	}
}

// Scheduler exposes the app's queue so hosts can register post-flush work.
func (a *App) Scheduler() *Scheduler { return a.scheduler }

// Mount renders into container and installs the render effect. Subsequent
// reactive writes re-render via the job queue.
func (a *App) Mount(container HostNode) {
	a.container = container
	var job *Job
	a.effect = reactivity.NewScheduledEffect(a.rs, func() error {
		vnode := a.render(a.ctx)
		a.renderer.Render(vnode, a.container)
		return nil
	}, func(run func()) {
		if job == nil {
			job = NewJob(run)
		}
		a.scheduler.Enqueue(job)
	})
}

// Unmount stops the render effect and clears the host tree.
func (a *App) Unmount() {
	if a.effect != nil {
		a.effect.Stop()
		a.effect = nil
	}
	a.renderer.Render(nil, a.container)
}
