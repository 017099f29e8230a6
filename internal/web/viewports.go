package web

import (
	"sync"
	"time"

	"github.com/elvannunal/portfolio/internal/viewport"
)

// viewports keeps the last reported viewport of each session so resize
// reports that do not change the layout mode can be answered without a
// re-render.
type viewports struct {
	ttl time.Duration

	mu      sync.Mutex
	entries map[string]*screen
	now     func() time.Time
}

type screen struct {
	watcher  *viewport.Watcher
	lastSeen time.Time
}

func newViewports(ttl time.Duration) *viewports {
	return &viewports{ttl: ttl, entries: make(map[string]*screen), now: time.Now}
}

// resize records width for the session. It reports the mode and whether
// the page must re-render: the first report of a session always does.
func (v *viewports) resize(session string, width int) (viewport.Mode, bool) {
	v.mu.Lock()
	e, ok := v.entries[session]
	if !ok {
		e = &screen{watcher: viewport.NewWatcher(width)}
		v.entries[session] = e
	}
	e.lastSeen = v.now()
	v.mu.Unlock()

	if !ok {
		return e.watcher.Mode(), true
	}
	return e.watcher.Resize(width)
}

// reset records that the session was just served a page laid out for
// width.
func (v *viewports) reset(session string, width int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.entries[session] = &screen{watcher: viewport.NewWatcher(width), lastSeen: v.now()}
}

func (v *viewports) sweep() int {
	cutoff := v.now().Add(-v.ttl)
	v.mu.Lock()
	defer v.mu.Unlock()
	n := 0
	for id, e := range v.entries {
		if e.lastSeen.Before(cutoff) {
			delete(v.entries, id)
			n++
		}
	}
	return n
}

func (v *viewports) len() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.entries)
}
