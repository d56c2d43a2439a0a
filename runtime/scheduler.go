package runtime

// Job is a deduplicatable unit of scheduler work. Enqueueing the same Job
// while it is already pending is a no-op, which is how N synchronous
// mutations coalesce into one re-render.
type Job struct {
	fn      func()
	pending bool
}

func NewJob(fn func()) *Job {
	return &Job{fn: fn}
}

// Scheduler orders re-render work relative to the mutations that caused it.
// The primary queue holds render jobs; the post queue holds callbacks that
// must observe a fully patched host (mount/update hooks), so it drains only
// after the primary queue is empty.
type Scheduler struct {
	queue     []*Job
	postQueue []func()
	flushing  bool
}

func NewScheduler() *Scheduler {
	return &Scheduler{}
}

// Enqueue queues a job and flushes synchronously unless a flush is already
// in progress (re-entrant enqueues are picked up by the running flush).
func (s *Scheduler) Enqueue(job *Job) {
	if job.pending {
		return
	}
	job.pending = true
	s.queue = append(s.queue, job)
	if !s.flushing {
		s.Flush()
	}
}

// EnqueuePost registers a callback to run after the primary queue drains.
func (s *Scheduler) EnqueuePost(fn func()) {
	s.postQueue = append(s.postQueue, fn)
	if !s.flushing {
		s.Flush()
	}
}

// Flush drains the primary queue, then the post queue. Post callbacks may
// enqueue further jobs; the loop continues until both queues are empty.
func (s *Scheduler) Flush() {
	if s.flushing {
		return
	}
	s.flushing = true
	defer func() { s.flushing = false }()

	for len(s.queue) > 0 || len(s.postQueue) > 0 {
		for len(s.queue) > 0 {
			job := s.queue[0]
			s.queue = s.queue[1:]
			job.pending = false
			job.fn()
		}
		if len(s.postQueue) > 0 {
			post := s.postQueue
			s.postQueue = nil
			for _, fn := range post {
				fn()
			}
		}
	}
}
