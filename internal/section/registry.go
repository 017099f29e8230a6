package section

import (
	"context"
	"sync"
	"time"
)

// DefaultSessionTTL is how long an idle visitor tracker is kept.
const DefaultSessionTTL = 30 * time.Minute

// Registry keeps one Tracker per visitor session and releases trackers
// that have been idle longer than the TTL.
type Registry struct {
	list     *List
	strategy Strategy
	ttl      time.Duration

	mu       sync.Mutex
	trackers map[string]*Tracker
	onCreate func(*Tracker)
	now      func() time.Time
}

// Option configures a Registry.
type Option func(*Registry)

// WithTTL sets the idle TTL.
func WithTTL(ttl time.Duration) Option {
	return func(r *Registry) {
		if ttl > 0 {
			r.ttl = ttl
		}
	}
}

// WithOnCreate registers a hook run for every new tracker, after Start.
func WithOnCreate(fn func(*Tracker)) Option {
	return func(r *Registry) { r.onCreate = fn }
}

// NewRegistry creates an empty registry.
func NewRegistry(l *List, s Strategy, opts ...Option) *Registry {
	r := &Registry{
		list:     l,
		strategy: s,
		ttl:      DefaultSessionTTL,
		trackers: make(map[string]*Tracker),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Get returns the session's tracker, creating and starting it if needed.
func (r *Registry) Get(session string) *Tracker {
	r.mu.Lock()
	t, ok := r.trackers[session]
	if ok {
		r.mu.Unlock()
		return t
	}
	t = NewTracker(r.list, r.strategy)
	t.now = r.now
	t.Start()
	r.trackers[session] = t
	r.mu.Unlock()

	if r.onCreate != nil {
		r.onCreate(t)
	}
	return t
}

// Release stops and forgets the session's tracker.
func (r *Registry) Release(session string) {
	r.mu.Lock()
	t, ok := r.trackers[session]
	delete(r.trackers, session)
	r.mu.Unlock()
	if ok {
		t.Stop()
	}
}

// Len returns the number of live trackers.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.trackers)
}

// Sweep releases trackers idle for longer than the TTL and returns how many
// were released.
func (r *Registry) Sweep() int {
	cutoff := r.now().Add(-r.ttl)

	r.mu.Lock()
	var idle []*Tracker
	for id, t := range r.trackers {
		if t.idleSince().Before(cutoff) {
			idle = append(idle, t)
			delete(r.trackers, id)
		}
	}
	r.mu.Unlock()

	for _, t := range idle {
		t.Stop()
	}
	return len(idle)
}

// Run sweeps every interval until ctx is done, then releases every tracker.
func (r *Registry) Run(ctx context.Context, interval time.Duration, onSweep func(released int)) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	defer r.Close()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n := r.Sweep()
			if onSweep != nil {
				onSweep(n)
			}
		}
	}
}

// Close stops every tracker.
func (r *Registry) Close() {
	r.mu.Lock()
	trackers := r.trackers
	r.trackers = make(map[string]*Tracker)
	r.mu.Unlock()

	for _, t := range trackers {
		t.Stop()
	}
}
