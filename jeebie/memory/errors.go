package memory

import (
	"errors"
	"fmt"
)

// Load-time errors. A cartridge that fails with one of these is never run
// with a substitute mapper.
var (
	ErrMalformedHeader      = errors.New("malformed cartridge header")
	ErrUnknownCartridgeType = errors.New("unknown cartridge type")
	ErrUnsupportedCartridge = errors.New("unsupported cartridge type")
)

// ErrNotImplemented marks hardware behaviour that exists but has not been
// built yet. It is raised as a panic value, wrapped with the missing feature.
var ErrNotImplemented = errors.New("not implemented")

// UnmappedAccessError is the panic value raised when the address space is asked
// to dispatch an address that its region table does not cover.
type UnmappedAccessError struct {
	Address uint16
	Write   bool
}

func (e *UnmappedAccessError) Error() string {
	op := "read"
	if e.Write {
		op = "write"
	}
	return fmt.Sprintf("attempted %s at unmapped address: 0x%04X", op, e.Address)
}

func notImplemented(feature string) error {
	return fmt.Errorf("%w: %s", ErrNotImplemented, feature)
}
