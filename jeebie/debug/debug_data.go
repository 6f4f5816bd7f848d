package debug

import "github.com/valerio/jeebie-core/jeebie/cpu"

// CPUState contains all CPU register information for debugging
type CPUState struct {
	cpu.Registers

	State  cpu.State
	IME    bool
	Cycles uint64
	// Pending holds the interrupts both requested and enabled (IE & IF).
	Pending uint8
}

// MemorySnapshot contains a snapshot of memory for disassembly
type MemorySnapshot struct {
	StartAddr uint16
	Bytes     []uint8
}

// Contains reports whether address falls inside the snapshot.
func (m *MemorySnapshot) Contains(address uint16) bool {
	return address >= m.StartAddr && int(address-m.StartAddr) < len(m.Bytes)
}

// Read returns the captured byte at address, 0xFF outside the window.
func (m *MemorySnapshot) Read(address uint16) uint8 {
	if !m.Contains(address) {
		return 0xFF
	}
	return m.Bytes[address-m.StartAddr]
}

// Snapshot contains everything a debugger needs to show the machine state
// at one point in time. It shares no memory with the running machine.
type Snapshot struct {
	CPU             CPUState
	Memory          *MemorySnapshot
	Audio           *AudioData
	InterruptEnable uint8 // IE register at 0xFFFF
	InterruptFlags  uint8 // IF register at 0xFF0F
}
