package debug

// MemoryReader provides read-only access to emulator memory for debug tools
// This interface decouples debug tools from the specific MMU implementation
type MemoryReader interface {
	Read(addr uint16) uint8
}

// SnapshotMemory copies size bytes starting at start. The window is cut
// short at the end of the address space instead of wrapping to 0x0000.
func SnapshotMemory(reader MemoryReader, start uint16, size int) *MemorySnapshot {
	if size < 0 {
		size = 0
	}
	if uint32(start)+uint32(size) > 0x10000 {
		size = int(0x10000 - uint32(start))
	}

	snapshot := &MemorySnapshot{
		StartAddr: start,
		Bytes:     make([]uint8, size),
	}
	for i := range snapshot.Bytes {
		snapshot.Bytes[i] = reader.Read(start + uint16(i))
	}
	return snapshot
}
