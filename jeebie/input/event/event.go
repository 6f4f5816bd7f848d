package event

import "fmt"

// Type represents the type of input event
type Type int

const (
	Press   Type = iota // Button pressed down
	Release             // Button released
	Tap                 // Pressed, then released a few frames later
)

func (t Type) String() string {
	switch t {
	case Press:
		return "Press"
	case Release:
		return "Release"
	case Tap:
		return "Tap"
	}
	return fmt.Sprintf("Type(%d)", int(t))
}
