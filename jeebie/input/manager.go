package input

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"strings"

	"github.com/valerio/jeebie-core/jeebie/addr"
	"github.com/valerio/jeebie-core/jeebie/input/event"
)

// TapFrames is how long a tapped button is held down.
const TapFrames = 5

var ErrInvalidScript = errors.New("invalid input script")

// Pad is whatever scripted input is delivered to, such as a DMG.
type Pad interface {
	PressButton(b addr.Button)
	ReleaseButton(b addr.Button)
}

// Entry is one scripted input event, due once Frame frames have run.
type Entry struct {
	Frame  uint64
	Button addr.Button
	Type   event.Type
}

// ParseScript reads a comma separated list of FRAME:BUTTON entries. The
// button may be prefixed with + to press it or - to release it; a bare
// name taps it.
//
//	ParseScript("60:start,200:+right,260:-right")
func ParseScript(script string) ([]Entry, error) {
	var entries []Entry
	for _, field := range strings.Split(script, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}

		frameText, name, ok := strings.Cut(field, ":")
		if !ok {
			return nil, fmt.Errorf("%w: %q has no frame", ErrInvalidScript, field)
		}
		frame, err := strconv.ParseUint(strings.TrimSpace(frameText), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: frame in %q: %w", ErrInvalidScript, field, err)
		}

		typ := event.Tap
		switch {
		case strings.HasPrefix(name, "+"):
			typ, name = event.Press, name[1:]
		case strings.HasPrefix(name, "-"):
			typ, name = event.Release, name[1:]
		}
		button, err := ParseButton(name)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidScript, err)
		}

		entries = append(entries, Entry{Frame: frame, Button: button, Type: typ})
	}

	slices.SortStableFunc(entries, func(a, b Entry) int {
		switch {
		case a.Frame < b.Frame:
			return -1
		case a.Frame > b.Frame:
			return 1
		}
		return 0
	})
	return entries, nil
}

// Manager replays scripted input on a pad as frames go by.
type Manager struct {
	pad     Pad
	pending []Entry
}

func NewManager(pad Pad, script []Entry) *Manager {
	m := &Manager{pad: pad}
	for _, e := range script {
		m.schedule(e)
	}
	return m
}

// schedule queues e, expanding taps into a press and a later release.
func (m *Manager) schedule(e Entry) {
	if e.Type == event.Tap {
		m.insert(Entry{Frame: e.Frame, Button: e.Button, Type: event.Press})
		m.insert(Entry{Frame: e.Frame + TapFrames, Button: e.Button, Type: event.Release})
		return
	}
	m.insert(e)
}

func (m *Manager) insert(e Entry) {
	i := len(m.pending)
	for i > 0 && m.pending[i-1].Frame > e.Frame {
		i--
	}
	m.pending = slices.Insert(m.pending, i, e)
}

// Trigger delivers a single event to the pad right away.
func (m *Manager) Trigger(b addr.Button, typ event.Type) {
	switch typ {
	case event.Press:
		m.pad.PressButton(b)
	case event.Release:
		m.pad.ReleaseButton(b)
	case event.Tap:
		m.pad.PressButton(b)
		m.pad.ReleaseButton(b)
	}
}

// Advance delivers every event due by frame. It is meant to be called from
// a frame hook.
func (m *Manager) Advance(frame uint64) {
	for len(m.pending) > 0 && m.pending[0].Frame <= frame {
		e := m.pending[0]
		m.pending = m.pending[1:]
		slog.Debug("Scripted input", "frame", frame, "button", e.Button, "event", e.Type)
		m.Trigger(e.Button, e.Type)
	}
}

// Pending returns the number of events not yet delivered.
func (m *Manager) Pending() int {
	return len(m.pending)
}
