package section

import (
	"strings"

	"github.com/pkg/errors"
)

// Strategy picks the active section from one observation batch. ok is false
// when no configured section satisfies the rule.
type Strategy interface {
	Name() string
	Resolve(l *List, snap Snapshot) (id string, ok bool)
}

// Default band bounds as fractions of the viewport height.
const (
	DefaultBandTop    = 0.40
	DefaultBandBottom = 0.60
)

// BandStrategy marks a section active when its rect crosses a horizontal
// band of the viewport. When several rects cross the band in one batch the
// last one in report order wins. A Tracker using it only switches on
// sections entering the band; see Crossing.
type BandStrategy struct {
	Top    float64
	Bottom float64
}

// NewBandStrategy returns the 40%-60% mid-viewport band.
func NewBandStrategy() BandStrategy {
	return BandStrategy{Top: DefaultBandTop, Bottom: DefaultBandBottom}
}

func (BandStrategy) Name() string { return "band" }

func (b BandStrategy) Resolve(l *List, snap Snapshot) (string, bool) {
	crossing := b.Crossing(l, snap)
	if len(crossing) == 0 {
		return "", false
	}
	return crossing[len(crossing)-1], true
}

// Crossing returns the configured ids whose rects cross the band, in report
// order. It returns nil for a batch without a viewport height.
func (b BandStrategy) Crossing(l *List, snap Snapshot) []string {
	if snap.ViewportHeight <= 0 {
		return nil
	}
	top := snap.ViewportHeight * b.Top
	bottom := snap.ViewportHeight * b.Bottom

	var out []string
	for _, r := range snap.Rects {
		if !l.Has(r.ID) {
			continue
		}
		if r.Top < bottom && r.Bottom > top {
			out = append(out, r.ID)
		}
	}
	return out
}

// edgeStrategy is implemented by strategies that report every section
// satisfying the rule, so a Tracker can react to sections entering it
// rather than to all of them.
type edgeStrategy interface {
	Crossing(l *List, snap Snapshot) []string
}

// DefaultThresholdOffset is the navbar probe line, in pixels from the
// viewport top.
const DefaultThresholdOffset = 150

// ThresholdStrategy probes a fixed line below the viewport top and picks the
// first section, in priority order, whose rect straddles it.
type ThresholdStrategy struct {
	Offset   float64
	Priority []string
}

// NewThresholdStrategy returns the navbar rule over the given priority
// order.
func NewThresholdStrategy(priority ...string) ThresholdStrategy {
	return ThresholdStrategy{Offset: DefaultThresholdOffset, Priority: priority}
}

func (ThresholdStrategy) Name() string { return "threshold" }

func (t ThresholdStrategy) Resolve(l *List, snap Snapshot) (string, bool) {
	rects := make(map[string]Rect, len(snap.Rects))
	for _, r := range snap.Rects {
		if _, seen := rects[r.ID]; !seen {
			rects[r.ID] = r
		}
	}

	priority := t.Priority
	if len(priority) == 0 {
		priority = l.IDs()
	}
	for _, id := range priority {
		if !l.Has(id) {
			continue
		}
		r, ok := rects[id]
		if !ok {
			continue
		}
		if r.Top <= t.Offset && r.Bottom >= t.Offset {
			return id, true
		}
	}
	return "", false
}

// ErrUnknownStrategy is returned by StrategyByName.
var ErrUnknownStrategy = errors.New("unknown section strategy")

// StrategyByName builds a strategy from its config name. The threshold
// strategy uses the navbar priority order: every section except projects.
func StrategyByName(name string, l *List) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "band":
		return NewBandStrategy(), nil
	case "threshold":
		priority := make([]string, 0, l.Len())
		for _, id := range l.IDs() {
			if id != "projects" {
				priority = append(priority, id)
			}
		}
		return NewThresholdStrategy(priority...), nil
	}
	return nil, errors.Wrap(ErrUnknownStrategy, name)
}
