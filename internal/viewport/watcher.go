package viewport

import "sync"

// Watcher tracks the most recently reported viewport width and notifies
// subscribers when the derived mode changes.
type Watcher struct {
	mu     sync.RWMutex
	width  int
	mode   Mode
	nextID int
	subs   map[int]func(Mode)
}

// NewWatcher returns a watcher classified for the initial width.
func NewWatcher(initialWidth int) *Watcher {
	return &Watcher{
		width: initialWidth,
		mode:  Classify(initialWidth),
		subs:  make(map[int]func(Mode)),
	}
}

// Resize records a new width. It returns the resulting mode and whether it
// differs from the previous one. Subscribers run after the lock is released.
func (w *Watcher) Resize(width int) (Mode, bool) {
	mode := Classify(width)

	w.mu.Lock()
	w.width = width
	changed := mode != w.mode
	w.mode = mode
	var notify []func(Mode)
	if changed {
		notify = make([]func(Mode), 0, len(w.subs))
		for _, fn := range w.subs {
			notify = append(notify, fn)
		}
	}
	w.mu.Unlock()

	for _, fn := range notify {
		fn(mode)
	}
	return mode, changed
}

// Mode returns the mode of the latest width.
func (w *Watcher) Mode() Mode {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.mode
}

// Width returns the latest width.
func (w *Watcher) Width() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.width
}

// Subscribe registers fn for mode changes. The returned func removes it.
func (w *Watcher) Subscribe(fn func(Mode)) (unsubscribe func()) {
	w.mu.Lock()
	id := w.nextID
	w.nextID++
	w.subs[id] = fn
	w.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			w.mu.Lock()
			delete(w.subs, id)
			w.mu.Unlock()
		})
	}
}
