package skills

import (
	"math"

	"github.com/elvannunal/portfolio/internal/viewport"
)

// Ring geometry, in CSS pixels and radians.
const (
	BaseRadius         = 160.0
	RingSpacing        = 55.0
	AngleOffsetPerRing = 0.3
	BadgeMargin        = 160.0
)

// Flow is how non-ring groups are arranged.
type Flow string

const (
	FlowNone  Flow = ""
	FlowWrap  Flow = "wrap"
	FlowStack Flow = "stack"
)

// Position is an offset from the layout center.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Placement is an item placed on a ring.
type Placement struct {
	Item     Item     `json:"item"`
	Index    int      `json:"index"`
	Angle    float64  `json:"angle"`
	Position Position `json:"position"`
}

// Ring holds one category's placements at a shared radius.
type Ring struct {
	Category   Category    `json:"category"`
	Index      int         `json:"index"`
	Radius     float64     `json:"radius"`
	Placements []Placement `json:"placements"`
}

// Group is one category's items in flow order.
type Group struct {
	Category Category `json:"category"`
	Index    int      `json:"index"`
	Items    []Item   `json:"items"`
}

// Result is the layout for a mode. Rings is set for desktop, Groups
// otherwise.
type Result struct {
	Mode   viewport.Mode `json:"mode"`
	Flow   Flow          `json:"flow,omitempty"`
	Size   float64       `json:"size,omitempty"`
	Total  int           `json:"total"`
	Rings  []Ring        `json:"rings,omitempty"`
	Groups []Group       `json:"groups,omitempty"`
}

// RingRadius returns the radius of ring c.
func RingRadius(c int) float64 {
	return BaseRadius + float64(c)*RingSpacing
}

// StartAngle returns the angle of the first item on ring c.
func StartAngle(c int) float64 {
	return -math.Pi/2 + float64(c)*AngleOffsetPerRing
}

// Orbit returns the offset of item index out of total on a ring. A ring
// with no items yields the zero position.
func Orbit(index, total int, radius, startAngle float64) Position {
	if total <= 0 {
		return Position{}
	}
	angle := orbitAngle(index, total, startAngle)
	return Position{X: radius * math.Cos(angle), Y: radius * math.Sin(angle)}
}

func orbitAngle(index, total int, startAngle float64) float64 {
	return startAngle + float64(index)/float64(total)*(2*math.Pi)
}

// Partition splits items by category, keeping the category order and the
// item order within each category. Items of unknown categories are dropped.
func Partition(cats []Category, items []Item) [][]Item {
	pos := make(map[CategoryID]int, len(cats))
	for i, c := range cats {
		pos[c.ID] = i
	}
	out := make([][]Item, len(cats))
	for _, it := range items {
		if i, ok := pos[it.Category]; ok {
			out[i] = append(out[i], it)
		}
	}
	return out
}

// Layout places items for mode. The result depends only on the category
// order, the item order and the mode.
func Layout(cats []Category, items []Item, mode viewport.Mode) Result {
	parts := Partition(cats, items)
	res := Result{Mode: mode}
	for _, p := range parts {
		res.Total += len(p)
	}

	if mode.Ring() {
		outer := 0
		for c, part := range parts {
			if len(part) == 0 {
				continue
			}
			res.Rings = append(res.Rings, placeRing(cats[c], c, part))
			outer = c
		}
		if len(res.Rings) > 0 {
			res.Size = 2*RingRadius(outer) + BadgeMargin
		}
		return res
	}

	res.Flow = FlowWrap
	if mode == viewport.Mobile {
		res.Flow = FlowStack
	}
	for c, part := range parts {
		if len(part) == 0 {
			continue
		}
		res.Groups = append(res.Groups, Group{Category: cats[c], Index: c, Items: part})
	}
	return res
}

func placeRing(cat Category, c int, items []Item) Ring {
	r := Ring{
		Category:   cat,
		Index:      c,
		Radius:     RingRadius(c),
		Placements: make([]Placement, len(items)),
	}
	start := StartAngle(c)
	n := len(items)
	for i, it := range items {
		r.Placements[i] = Placement{
			Item:     it,
			Index:    i,
			Angle:    orbitAngle(i, n, start),
			Position: Orbit(i, n, r.Radius, start),
		}
	}
	return r
}
