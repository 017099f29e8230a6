package section

import (
	"sync"
	"time"
)

// Tracker holds the active section of one page. It starts with no active
// section and falls back to the first section as soon as it is started.
type Tracker struct {
	list     *List
	strategy Strategy

	mu       sync.Mutex
	active   string
	inBand   map[string]bool
	started  bool
	stopped  bool
	lastSeen time.Time
	nextID   int
	subs     map[int]func(string)
	now      func() time.Time
}

// NewTracker returns an unstarted tracker.
func NewTracker(l *List, s Strategy) *Tracker {
	return &Tracker{
		list:     l,
		strategy: s,
		subs:     make(map[int]func(string)),
		now:      time.Now,
	}
}

// Start moves the tracker to the first section. Calling Start again is a
// no-op.
func (t *Tracker) Start() {
	t.mu.Lock()
	if t.started || t.stopped {
		t.mu.Unlock()
		return
	}
	t.started = true
	t.active = t.list.First()
	t.lastSeen = t.now()
	notify := t.subscribersLocked()
	active := t.active
	t.mu.Unlock()

	for _, fn := range notify {
		fn(active)
	}
}

// Observe applies the strategy to one batch and returns the active id after
// it. The whole batch is resolved under the lock, so readers never see a
// partially applied batch. Observing an unstarted tracker starts it.
func (t *Tracker) Observe(snap Snapshot) (string, error) {
	t.Start()

	t.mu.Lock()
	if t.stopped {
		t.mu.Unlock()
		return "", ErrStopped
	}
	t.lastSeen = t.now()
	id, ok := t.resolveLocked(snap)
	if !ok || id == t.active {
		active := t.active
		t.mu.Unlock()
		return active, nil
	}
	t.active = id
	notify := t.subscribersLocked()
	t.mu.Unlock()

	for _, fn := range notify {
		fn(id)
	}
	return id, nil
}

// resolveLocked applies the strategy. For edge strategies only sections that
// were not crossing in the previous batch can take over, so a section that
// has just entered the band wins over one still lingering in it.
func (t *Tracker) resolveLocked(snap Snapshot) (string, bool) {
	edge, isEdge := t.strategy.(edgeStrategy)
	if !isEdge {
		return t.strategy.Resolve(t.list, snap)
	}
	if snap.ViewportHeight <= 0 {
		return "", false
	}
	crossing := edge.Crossing(t.list, snap)
	prev := t.inBand
	t.inBand = make(map[string]bool, len(crossing))
	var entered string
	for _, id := range crossing {
		t.inBand[id] = true
		if !prev[id] {
			entered = id
		}
	}
	return entered, entered != ""
}

// Active returns the active section id, or "" before Start.
func (t *Tracker) Active() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.active
}

// Started reports whether the tracker has left the no-section state.
func (t *Tracker) Started() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.started
}

// Strategy returns the decision rule in use.
func (t *Tracker) Strategy() Strategy { return t.strategy }

// Subscribe registers fn for active-section changes. Callbacks run after the
// tracker lock is released, so changes from concurrent Observe calls may be
// delivered in any order; read Active for the settled value.
func (t *Tracker) Subscribe(fn func(id string)) (unsubscribe func()) {
	t.mu.Lock()
	id := t.nextID
	t.nextID++
	t.subs[id] = fn
	t.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			t.mu.Lock()
			delete(t.subs, id)
			t.mu.Unlock()
		})
	}
}

// Stop releases every subscription. Later observations return ErrStopped.
func (t *Tracker) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopped = true
	t.subs = make(map[int]func(string))
}

// Stopped reports whether Stop was called.
func (t *Tracker) Stopped() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stopped
}

// Subscribers returns the number of live subscriptions.
func (t *Tracker) Subscribers() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.subs)
}

func (t *Tracker) idleSince() time.Time {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.lastSeen
}

func (t *Tracker) subscribersLocked() []func(string) {
	out := make([]func(string), 0, len(t.subs))
	for _, fn := range t.subs {
		out = append(out, fn)
	}
	return out
}
