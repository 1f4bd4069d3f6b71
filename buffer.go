package elfy

// This file contains the memory-mapped buffer the rest of the package reads
// ELF structures out of. The buffer carries the file's byte order so that the
// record decoders never need to know about endianness themselves.

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// A MappedBuffer is a file's contents mapped into memory, along with the byte
// order used when decoding multi-byte fields from it. The mapping is always
// private: writes made through a writable buffer modify the in-memory copy
// only, never the underlying file.
type MappedBuffer struct {
	data     []byte
	order    binary.ByteOrder
	writable bool
	fd       int
}

// Maps the entire file at the given path. If writable is true, the returned
// buffer accepts WriteBytes and PersistTo calls; the original file still
// remains untouched, since the mapping is copy-on-write.
func OpenBuffer(path string, order binary.ByteOrder,
	writable bool) (*MappedBuffer, error) {
	fd, e := unix.Open(path, unix.O_RDONLY, 0)
	if e != nil {
		return nil, fmt.Errorf("%w: %s: %s", ErrOpenFailed, path, e)
	}
	var stat unix.Stat_t
	e = unix.Fstat(fd, &stat)
	if e != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("%w: %s: %s", ErrOpenFailed, path, e)
	}
	if stat.Size == 0 {
		unix.Close(fd)
		return nil, fmt.Errorf("%w: %s is empty", ErrMapFailed, path)
	}
	protection := unix.PROT_READ
	if writable {
		protection |= unix.PROT_WRITE
	}
	data, e := unix.Mmap(fd, 0, int(stat.Size), protection, unix.MAP_PRIVATE)
	if e != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("%w: %s: %s", ErrMapFailed, path, e)
	}
	return &MappedBuffer{
		data:     data,
		order:    order,
		writable: writable,
		fd:       fd,
	}, nil
}

// Returns the number of mapped bytes.
func (b *MappedBuffer) Len() uint64 {
	return uint64(len(b.data))
}

// Returns the byte order used when decoding records from the buffer.
func (b *MappedBuffer) Order() binary.ByteOrder {
	return b.order
}

// Returns true if the buffer accepts writes.
func (b *MappedBuffer) Writable() bool {
	return b.writable
}

// Returns the entire mapped region. The slice stays valid until Close.
func (b *MappedBuffer) Bytes() []byte {
	return b.data
}

// Returns the sub-slice [offset, offset+size) of the mapped region, without
// copying. The slice stays valid until Close.
func (b *MappedBuffer) Slice(offset, size uint64) ([]byte, error) {
	end := offset + size
	if (end > uint64(len(b.data))) || (end < offset) {
		return nil, fmt.Errorf("%w: [0x%x, 0x%x) exceeds %d mapped bytes",
			ErrInvalidOffset, offset, end, len(b.data))
	}
	return b.data[offset:end], nil
}

// Decodes the fixed-layout structure pointed to by out from the bytes at the
// given offset, honoring the buffer's byte order. out must be a pointer to a
// type with a fixed binary size.
func (b *MappedBuffer) ReadRecord(offset uint64, out interface{}) error {
	size := binary.Size(out)
	if size < 0 {
		return fmt.Errorf("type %T doesn't have a fixed size", out)
	}
	raw, e := b.Slice(offset, uint64(size))
	if e != nil {
		return e
	}
	e = binary.Read(bytes.NewReader(raw), b.order, out)
	if e != nil {
		return fmt.Errorf("%w: decoding %T at offset 0x%x: %s",
			ErrUnexpectedEOF, out, offset, e)
	}
	return nil
}

// Copies the given bytes into the mapping at the given offset. Fails if the
// buffer was opened read-only, or if the write would run past the end of the
// mapped region.
func (b *MappedBuffer) WriteBytes(toWrite []byte, offset uint64) error {
	if !b.writable {
		return fmt.Errorf("%w: can't write %d bytes at offset 0x%x",
			ErrNotMutable, len(toWrite), offset)
	}
	destination, e := b.Slice(offset, uint64(len(toWrite)))
	if e != nil {
		return e
	}
	copy(destination, toWrite)
	return nil
}

// Creates a new file at the given path containing the buffer's current
// contents. Requires a writable buffer. The file originally mapped is never
// modified.
func (b *MappedBuffer) PersistTo(path string) error {
	if !b.writable {
		return fmt.Errorf("%w: can't persist to %s", ErrNotMutable, path)
	}
	e := os.WriteFile(path, b.data, 0644)
	if e != nil {
		return fmt.Errorf("%w: %s: %s", ErrWriteFailed, path, e)
	}
	return nil
}

// Unmaps the buffer and closes the file descriptor. Calling Close more than
// once is a no-op.
func (b *MappedBuffer) Close() error {
	if b.data == nil {
		return nil
	}
	e := unix.Munmap(b.data)
	b.data = nil
	unix.Close(b.fd)
	b.fd = -1
	return e
}
