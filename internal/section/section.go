// Package section decides which page section is active for navigation
// highlighting, from the section geometry the browser reports.
package section

import (
	"github.com/pkg/errors"
)

// Sentinel errors.
var (
	ErrEmptyList        = errors.New("section list is empty")
	ErrDuplicateSection = errors.New("duplicate section id")
	ErrUnknownSection   = errors.New("unknown section id")
	ErrStopped          = errors.New("tracker stopped")
)

// Section is one navigable page section. LabelKey selects its label from
// the translation bundle.
type Section struct {
	ID       string `json:"id"`
	LabelKey string `json:"labelKey"`
}

// List is an ordered, immutable set of sections in page order.
type List struct {
	sections []Section
	index    map[string]int
}

// NewList validates sections and builds a List. Ids must be non-empty and
// unique.
func NewList(sections ...Section) (*List, error) {
	if len(sections) == 0 {
		return nil, ErrEmptyList
	}
	l := &List{
		sections: make([]Section, len(sections)),
		index:    make(map[string]int, len(sections)),
	}
	for i, s := range sections {
		if s.ID == "" {
			return nil, errors.Wrapf(ErrUnknownSection, "empty id at position %d", i)
		}
		if _, dup := l.index[s.ID]; dup {
			return nil, errors.Wrap(ErrDuplicateSection, s.ID)
		}
		l.sections[i] = s
		l.index[s.ID] = i
	}
	return l, nil
}

// MustList is NewList for static configuration; it panics on error.
func MustList(sections ...Section) *List {
	l, err := NewList(sections...)
	if err != nil {
		panic(err)
	}
	return l
}

// Default is the page's section order.
func Default() *List {
	return MustList(
		Section{ID: "home", LabelKey: "homeLabel"},
		Section{ID: "about", LabelKey: "aboutLabel"},
		Section{ID: "skills", LabelKey: "skillsLabel"},
		Section{ID: "projects", LabelKey: "projectsLabel"},
		Section{ID: "contact", LabelKey: "contactLabel"},
	)
}

// First returns the id of the topmost section.
func (l *List) First() string { return l.sections[0].ID }

// Has reports whether id is configured.
func (l *List) Has(id string) bool {
	_, ok := l.index[id]
	return ok
}

// Position returns the page position of id, or -1.
func (l *List) Position(id string) int {
	if i, ok := l.index[id]; ok {
		return i
	}
	return -1
}

// Len returns the number of sections.
func (l *List) Len() int { return len(l.sections) }

// Sections returns a copy of the sections in page order.
func (l *List) Sections() []Section {
	out := make([]Section, len(l.sections))
	copy(out, l.sections)
	return out
}

// IDs returns the section ids in page order.
func (l *List) IDs() []string {
	ids := make([]string, len(l.sections))
	for i, s := range l.sections {
		ids[i] = s.ID
	}
	return ids
}

// Rect is a section's bounding box relative to the viewport top, in CSS
// pixels.
type Rect struct {
	ID     string  `json:"id"`
	Top    float64 `json:"top"`
	Bottom float64 `json:"bottom"`
}

// Snapshot is one observation batch: the viewport and the rects of the
// sections found in the DOM, in report order.
type Snapshot struct {
	ViewportHeight float64 `json:"viewportHeight"`
	ScrollY        float64 `json:"scrollY"`
	Rects          []Rect  `json:"rects"`
}
