// Package viewport classifies browser viewport widths into layout modes.
package viewport

import (
	"strings"

	"github.com/pkg/errors"
)

// Width breakpoints in CSS pixels.
const (
	// TabletMin is the smallest width rendered with the tablet layout.
	TabletMin = 768

	// DesktopMin is the smallest width rendered with the desktop layout.
	DesktopMin = 1280
)

// Mode is a discrete layout classification of the viewport.
type Mode string

const (
	Mobile  Mode = "mobile"
	Tablet  Mode = "tablet"
	Desktop Mode = "desktop"
)

// ErrInvalidMode is returned by ParseMode for unknown mode names.
var ErrInvalidMode = errors.New("invalid viewport mode")

// Classify maps a viewport width to its layout mode. Negative widths are
// treated as mobile.
func Classify(width int) Mode {
	switch {
	case width < TabletMin:
		return Mobile
	case width < DesktopMin:
		return Tablet
	default:
		return Desktop
	}
}

// ParseMode parses a mode name (case-insensitive).
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case Mobile:
		return Mobile, nil
	case Tablet:
		return Tablet, nil
	case Desktop:
		return Desktop, nil
	}
	return "", errors.Wrapf(ErrInvalidMode, "%q", s)
}

func (m Mode) String() string { return string(m) }

// Ring reports whether the mode places items on rings.
func (m Mode) Ring() bool { return m == Desktop }
