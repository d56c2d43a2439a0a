package reactivity

type subscriberFlags uint8

const (
	fActive subscriberFlags = 1 << iota
	fRunning
	fNotified
	fDirty
	fDeferStop
)

// staleVersion marks a link that existed before the current tracking run and
// has not been re-read yet. Links still carrying it when the run ends are
// removed.
const staleVersion = ^uint64(0)

// Link is a bidirectional edge between one Dep and one subscriber. It sits on
// two independent doubly linked lists: the subscriber's dependency list
// (prevDep/nextDep) and the dependency's subscriber list (prevSub/nextSub),
// so detaching is O(1) from either side.
type Link struct {
	dep     *Dep
	sub     subscriber
	version uint64

	prevDep, nextDep *Link
	prevSub, nextSub *Link
}

// subNode is the linked-list bookkeeping embedded by every subscriber kind
// (effect, computed, watcher).
type subNode struct {
	deps, depsTail *Link
	flags          subscriberFlags
}

type subscriber interface {
	node() *subNode
	// notify is the push phase: mark and enqueue, never evaluate user code.
	notify()
}

// refresher is implemented by computeds, which are subscribers that also act
// as dependencies of others.
type refresher interface {
	refresh()
	invalidate()
}

// Source identifies where an error came from when routed to the system's
// error handler.
type Source interface {
	isReactiveSource()
}

type OnErrorFunc func(from Source, err error)
