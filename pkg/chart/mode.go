package chart

import (
	"fmt"
	"strings"

	"github.com/matzehuels/streamstack/pkg/errors"
	"github.com/matzehuels/streamstack/pkg/stack"
)

// Mode is a chart presentation. The zero value means no mode has been drawn.
type Mode int

const (
	Streamgraph Mode = iota + 1
	StackedArea
	OverlappingArea
)

// Modes lists every mode in trigger order.
var Modes = []Mode{Streamgraph, StackedArea, OverlappingArea}

// String returns the trigger name of m.
func (m Mode) String() string {
	switch m {
	case 0:
		return "none"
	case Streamgraph:
		return "streamgraph"
	case StackedArea:
		return "stack"
	case OverlappingArea:
		return "area"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// Valid reports whether m is one of the three chart modes.
func (m Mode) Valid() bool {
	return m >= Streamgraph && m <= OverlappingArea
}

// Discipline returns the stacking discipline that lays out m.
func (m Mode) Discipline() stack.Discipline {
	switch m {
	case Streamgraph:
		return stack.Wiggle
	case StackedArea:
		return stack.Zero
	default:
		return stack.None
	}
}

// Stacked reports whether layers sit on top of each other in m.
func (m Mode) Stacked() bool { return m == Streamgraph || m == StackedArea }

// ParseMode maps a trigger name to its mode. "stream" is accepted as an
// alias of "streamgraph". Unknown names are an UNKNOWN_MODE error.
func ParseMode(name string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "streamgraph", "stream":
		return Streamgraph, nil
	case "stack", "stacked":
		return StackedArea, nil
	case "area", "overlap":
		return OverlappingArea, nil
	default:
		return 0, errors.New(errors.ErrCodeUnknownMode, "unknown chart mode %q (want streamgraph, stack or area)", name)
	}
}

// ParseModes parses a list of trigger names.
func ParseModes(names []string) ([]Mode, error) {
	modes := make([]Mode, 0, len(names))
	for _, n := range names {
		m, err := ParseMode(n)
		if err != nil {
			return nil, err
		}
		modes = append(modes, m)
	}
	return modes, nil
}
