package marquee

import (
	"fmt"
	"strings"
)

//go:generate go tool stringer -type=Direction

// Direction of scrolling.
type Direction int

// Direction kinds.
const (
	// Forward scrolls text right to left, new runes enter on the right.
	Forward Direction = iota
	// Reverse scrolls text left to right, new runes enter on the left.
	Reverse
)

// ParseDirection parses direction name. Besides "forward" and "reverse"
// it accepts "left" and "right" which name the side text moves towards.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "forward", "left":
		return Forward, nil
	case "reverse", "right":
		return Reverse, nil
	}
	return 0, fmt.Errorf("%w: unknown direction %q", ErrInvalidConfiguration, s)
}

func (d Direction) valid() bool {
	return d == Forward || d == Reverse
}
