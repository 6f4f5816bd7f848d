package cpu

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidRegister is returned when a register name can't be resolved.
var ErrInvalidRegister = errors.New("invalid register")

// Register identifies an 8-bit register, or the byte HL points to.
type Register uint8

const (
	RegA Register = iota
	RegF
	RegB
	RegC
	RegD
	RegE
	RegH
	RegL
	RegHLIndirect
)

func (r Register) String() string {
	switch r {
	case RegA:
		return "A"
	case RegF:
		return "F"
	case RegB:
		return "B"
	case RegC:
		return "C"
	case RegD:
		return "D"
	case RegE:
		return "E"
	case RegH:
		return "H"
	case RegL:
		return "L"
	case RegHLIndirect:
		return "(HL)"
	}
	return fmt.Sprintf("Register(%d)", uint8(r))
}

// ParseRegister resolves a case-insensitive 8-bit register name.
func ParseRegister(name string) (Register, error) {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "A":
		return RegA, nil
	case "F":
		return RegF, nil
	case "B":
		return RegB, nil
	case "C":
		return RegC, nil
	case "D":
		return RegD, nil
	case "E":
		return RegE, nil
	case "H":
		return RegH, nil
	case "L":
		return RegL, nil
	case "(HL)":
		return RegHLIndirect, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidRegister, name)
}

// Register16 identifies a 16-bit register or register pair.
type Register16 uint8

const (
	RegAF Register16 = iota
	RegBC
	RegDE
	RegHL
	RegSP
	RegPC
)

func (r Register16) String() string {
	switch r {
	case RegAF:
		return "AF"
	case RegBC:
		return "BC"
	case RegDE:
		return "DE"
	case RegHL:
		return "HL"
	case RegSP:
		return "SP"
	case RegPC:
		return "PC"
	}
	return fmt.Sprintf("Register16(%d)", uint8(r))
}

// ParseRegister16 resolves a case-insensitive 16-bit register name.
func ParseRegister16(name string) (Register16, error) {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "AF":
		return RegAF, nil
	case "BC":
		return RegBC, nil
	case "DE":
		return RegDE, nil
	case "HL":
		return RegHL, nil
	case "SP":
		return RegSP, nil
	case "PC":
		return RegPC, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidRegister, name)
}

// ReadRegister returns the value of an 8-bit register. RegHLIndirect reads
// through the bus.
func (c *CPU) ReadRegister(r Register) uint8 {
	switch r {
	case RegA:
		return c.a
	case RegF:
		return c.f
	case RegB:
		return c.b
	case RegC:
		return c.c
	case RegD:
		return c.d
	case RegE:
		return c.e
	case RegH:
		return c.h
	case RegL:
		return c.l
	case RegHLIndirect:
		return c.bus.Read(c.getHL())
	}
	panic(fmt.Sprintf("unknown register %d", uint8(r)))
}

// ReadRegister16 returns the value of a 16-bit register.
func (c *CPU) ReadRegister16(r Register16) uint16 {
	switch r {
	case RegAF:
		return c.getAF()
	case RegBC:
		return c.getBC()
	case RegDE:
		return c.getDE()
	case RegHL:
		return c.getHL()
	case RegSP:
		return c.sp
	case RegPC:
		return c.pc
	}
	panic(fmt.Sprintf("unknown register pair %d", uint8(r)))
}

// AccessRegister reads an 8-bit register by name, e.g. "a" or "(HL)".
func (c *CPU) AccessRegister(name string) (uint8, error) {
	r, err := ParseRegister(name)
	if err != nil {
		return 0, err
	}
	return c.ReadRegister(r), nil
}

// AccessRegister16 reads a 16-bit register by name, e.g. "hl" or "SP".
func (c *CPU) AccessRegister16(name string) (uint16, error) {
	r, err := ParseRegister16(name)
	if err != nil {
		return 0, err
	}
	return c.ReadRegister16(r), nil
}

// Registers is a copy of the register file.
type Registers struct {
	A, F, B, C, D, E, H, L uint8
	SP, PC                 uint16
}

// Registers returns a snapshot of the register file.
func (c *CPU) Registers() Registers {
	return Registers{
		A: c.a, F: c.f, B: c.b, C: c.c, D: c.d, E: c.e, H: c.h, L: c.l,
		SP: c.sp, PC: c.pc,
	}
}

// FlagString returns the flags as "ZNHC", with '-' for each clear flag.
func (r Registers) FlagString() string {
	flags := []byte("----")
	for i, name := range "ZNHC" {
		if r.F&(0x80>>i) != 0 {
			flags[i] = byte(name)
		}
	}
	return string(flags)
}

// reg8 maps the 3-bit register field of an opcode (B,C,D,E,H,L,(HL),A) to a
// register. Index 6 has no register behind it and returns nil.
func (c *CPU) reg8(index uint8) *uint8 {
	switch index & 0x07 {
	case 0:
		return &c.b
	case 1:
		return &c.c
	case 2:
		return &c.d
	case 3:
		return &c.e
	case 4:
		return &c.h
	case 5:
		return &c.l
	case 7:
		return &c.a
	}
	return nil
}

// operand reads the value selected by a 3-bit register field.
func (c *CPU) operand(index uint8) uint8 {
	if r := c.reg8(index); r != nil {
		return *r
	}
	return c.bus.Read(c.getHL())
}

func (c *CPU) setOperand(index uint8, value uint8) {
	if r := c.reg8(index); r != nil {
		*r = value
		return
	}
	c.bus.Write(c.getHL(), value)
}
