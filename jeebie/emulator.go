package jeebie

import (
	"github.com/valerio/jeebie-core/jeebie/addr"
	"github.com/valerio/jeebie-core/jeebie/debug"
)

// Emulator is the interface frontends drive the machine through.
type Emulator interface {
	RunFrame()
	HandleButton(b addr.Button, pressed bool)
	Snapshot() *debug.Snapshot
	Reset()
}

var _ Emulator = (*DMG)(nil)
