package memory

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/edsrzf/mmap-go"
)

// SaveFile is battery-backed cartridge RAM kept in a memory-mapped file.
// The mapped bytes are handed to the MBC as its RAM, so every write lands in
// the file without an explicit save step.
type SaveFile struct {
	path string
	file *os.File
	mmap mmap.MMap
}

// SavePathFor returns the default save file path for a ROM: same directory
// and name, with a .sav extension.
func SavePathFor(romPath string) string {
	ext := filepath.Ext(romPath)
	return strings.TrimSuffix(romPath, ext) + ".sav"
}

// OpenSaveFile maps the save file at path, creating it or growing it to size
// bytes when needed. Existing contents are preserved.
func OpenSaveFile(path string, size int) (*SaveFile, error) {
	if size <= 0 {
		return nil, fmt.Errorf("save file %s: invalid size %d", path, size)
	}

	file, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening save file: %w", err)
	}

	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("stat save file: %w", err)
	}
	if info.Size() < int64(size) {
		if err := file.Truncate(int64(size)); err != nil {
			file.Close()
			return nil, fmt.Errorf("growing save file: %w", err)
		}
		slog.Info("Save file initialised", "path", path, "size", size)
	} else {
		slog.Info("Save file loaded", "path", path, "size", size)
	}

	m, err := mmap.MapRegion(file, size, mmap.RDWR, 0, 0)
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("mapping save file: %w", err)
	}

	return &SaveFile{path: path, file: file, mmap: m}, nil
}

// Bytes returns the mapped RAM.
func (s *SaveFile) Bytes() []byte {
	return s.mmap
}

// Path returns the file path backing the RAM.
func (s *SaveFile) Path() string {
	return s.path
}

// Flush writes dirty pages back to disk.
func (s *SaveFile) Flush() error {
	return s.mmap.Flush()
}

// Close flushes and unmaps the RAM. Bytes must not be used afterwards.
func (s *SaveFile) Close() error {
	if s.mmap == nil {
		return nil
	}
	err := errors.Join(s.mmap.Flush(), s.mmap.Unmap(), s.file.Close())
	s.mmap = nil
	return err
}
