package input

import (
	"errors"
	"fmt"
	"strings"

	"github.com/valerio/jeebie-core/jeebie/addr"
)

var ErrUnknownButton = errors.New("unknown button")

// DefaultKeyMap maps keyboard key names to buttons, on top of the button
// names themselves.
var DefaultKeyMap = map[string]addr.Button{
	"z":      addr.ButtonA,
	"x":      addr.ButtonB,
	"enter":  addr.ButtonStart,
	"shift":  addr.ButtonSelect,
	"w":      addr.ButtonUp,
	"s":      addr.ButtonDown,
	"a":      addr.ButtonA,
	"d":      addr.ButtonRight,
	"up":     addr.ButtonUp,
	"down":   addr.ButtonDown,
	"left":   addr.ButtonLeft,
	"right":  addr.ButtonRight,
	"b":      addr.ButtonB,
	"start":  addr.ButtonStart,
	"select": addr.ButtonSelect,
}

// ParseButton returns the button for a button or key name, ignoring case.
func ParseButton(name string) (addr.Button, error) {
	b, ok := DefaultKeyMap[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownButton, name)
	}
	return b, nil
}
