// Package prefs holds a visitor's theme and language preferences. A
// Preferences value is passed explicitly into every render; changes are
// broadcast through a Notifier.
package prefs

import (
	"net/http"
	"strings"
	"sync"
)

// Cookie names. The theme cookie mirrors the browser's "theme" storage key
// and uses the same values.
const (
	ThemeCookie    = "theme"
	LanguageCookie = "lang"

	cookieMaxAge = 365 * 24 * 60 * 60
)

// Theme is dark or light.
type Theme string

const (
	Dark  Theme = "dark"
	Light Theme = "light"
)

// Language is a supported UI language.
type Language string

const (
	Turkish Language = "tr"
	English Language = "en"
)

// ParseTheme returns the theme named by s.
func ParseTheme(s string) (Theme, bool) {
	switch Theme(strings.ToLower(strings.TrimSpace(s))) {
	case Dark:
		return Dark, true
	case Light:
		return Light, true
	}
	return "", false
}

// ParseLanguage returns the language named by s.
func ParseLanguage(s string) (Language, bool) {
	switch Language(strings.ToLower(strings.TrimSpace(s))) {
	case Turkish:
		return Turkish, true
	case English:
		return English, true
	}
	return "", false
}

// Toggle returns the other theme.
func (t Theme) Toggle() Theme {
	if t == Dark {
		return Light
	}
	return Dark
}

// Toggle returns the other language.
func (l Language) Toggle() Language {
	if l == Turkish {
		return English
	}
	return Turkish
}

// Preferences is the per-request theme and language.
type Preferences struct {
	Theme    Theme
	Language Language
}

// Dark reports whether the dark theme is active.
func (p Preferences) Dark() bool { return p.Theme == Dark }

// Lang returns the language code.
func (p Preferences) Lang() string { return string(p.Language) }

// FromRequest reads preferences from cookies, falling back to def for
// missing or unknown values.
func FromRequest(r *http.Request, def Preferences) Preferences {
	p := def
	if c, err := r.Cookie(ThemeCookie); err == nil {
		if t, ok := ParseTheme(c.Value); ok {
			p.Theme = t
		}
	}
	if c, err := r.Cookie(LanguageCookie); err == nil {
		if l, ok := ParseLanguage(c.Value); ok {
			p.Language = l
		}
	}
	return p
}

// Write stores p in cookies on w.
func Write(w http.ResponseWriter, p Preferences) {
	http.SetCookie(w, &http.Cookie{
		Name: ThemeCookie, Value: string(p.Theme), Path: "/",
		MaxAge: cookieMaxAge, SameSite: http.SameSiteLaxMode,
	})
	http.SetCookie(w, &http.Cookie{
		Name: LanguageCookie, Value: string(p.Language), Path: "/",
		MaxAge: cookieMaxAge, SameSite: http.SameSiteLaxMode,
	})
}

// Change is a preference transition.
type Change struct {
	From Preferences
	To   Preferences
}

// Notifier broadcasts preference changes to subscribers.
type Notifier struct {
	mu     sync.RWMutex
	nextID int
	subs   map[int]func(Change)
}

// NewNotifier returns a notifier with no subscribers.
func NewNotifier() *Notifier {
	return &Notifier{subs: make(map[int]func(Change))}
}

// Subscribe registers fn; the returned func removes it.
func (n *Notifier) Subscribe(fn func(Change)) (unsubscribe func()) {
	n.mu.Lock()
	id := n.nextID
	n.nextID++
	n.subs[id] = fn
	n.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			n.mu.Lock()
			delete(n.subs, id)
			n.mu.Unlock()
		})
	}
}

// Publish delivers c to every subscriber. Unchanged preferences are not
// published.
func (n *Notifier) Publish(c Change) {
	if c.From == c.To {
		return
	}
	n.mu.RLock()
	fns := make([]func(Change), 0, len(n.subs))
	for _, fn := range n.subs {
		fns = append(fns, fn)
	}
	n.mu.RUnlock()

	for _, fn := range fns {
		fn(c)
	}
}
