package elfy

import (
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeTempFile(t *testing.T, content []byte) string {
	path := filepath.Join(t.TempDir(), "buffer_test.bin")
	e := os.WriteFile(path, content, 0644)
	if e != nil {
		t.Logf("Failed writing temp file: %s\n", e)
		t.FailNow()
	}
	return path
}

func TestOpenBufferErrors(t *testing.T) {
	_, e := OpenBuffer(filepath.Join(t.TempDir(), "missing"),
		binary.LittleEndian, false)
	if !errors.Is(e, ErrOpenFailed) {
		t.Logf("Didn't get expected error opening a missing file: %v\n", e)
		t.FailNow()
	}
	emptyPath := writeTempFile(t, []byte{})
	_, e = OpenBuffer(emptyPath, binary.LittleEndian, false)
	if !errors.Is(e, ErrMapFailed) {
		t.Logf("Didn't get expected error mapping an empty file: %v\n", e)
		t.FailNow()
	}
}

func TestReadRecordEndianness(t *testing.T) {
	path := writeTempFile(t, []byte{0x12, 0x34, 0x56, 0x78})
	buffer, e := OpenBuffer(path, binary.LittleEndian, false)
	if e != nil {
		t.Logf("Failed opening buffer: %s\n", e)
		t.FailNow()
	}
	defer buffer.Close()
	var value uint32
	e = buffer.ReadRecord(0, &value)
	if e != nil {
		t.Logf("Failed reading little-endian record: %s\n", e)
		t.FailNow()
	}
	if value != 0x78563412 {
		t.Logf("Wrong little-endian value: 0x%08x\n", value)
		t.Fail()
	}
	bigBuffer, e := OpenBuffer(path, binary.BigEndian, false)
	if e != nil {
		t.Logf("Failed opening big-endian buffer: %s\n", e)
		t.FailNow()
	}
	defer bigBuffer.Close()
	e = bigBuffer.ReadRecord(0, &value)
	if e != nil {
		t.Logf("Failed reading big-endian record: %s\n", e)
		t.FailNow()
	}
	if value != 0x12345678 {
		t.Logf("Wrong big-endian value: 0x%08x\n", value)
		t.Fail()
	}
	e = buffer.ReadRecord(2, &value)
	if !errors.Is(e, ErrInvalidOffset) {
		t.Logf("Didn't get expected error reading past the end: %v\n", e)
		t.Fail()
	}
}

func TestWriteBytesReadOnly(t *testing.T) {
	original := []byte("unchanging content")
	path := writeTempFile(t, original)
	buffer, e := OpenBuffer(path, binary.LittleEndian, false)
	if e != nil {
		t.Logf("Failed opening buffer: %s\n", e)
		t.FailNow()
	}
	defer buffer.Close()
	e = buffer.WriteBytes([]byte("XX"), 0)
	if !errors.Is(e, ErrNotMutable) {
		t.Logf("Didn't get expected error writing read-only buffer: %v\n", e)
		t.FailNow()
	}
	if string(buffer.Bytes()) != string(original) {
		t.Logf("The read-only buffer was modified.\n")
		t.Fail()
	}
	e = buffer.PersistTo(filepath.Join(t.TempDir(), "copy"))
	if !errors.Is(e, ErrNotMutable) {
		t.Logf("Didn't get expected error persisting read-only buffer: %v\n",
			e)
		t.Fail()
	}
}

func TestWriteBytesAndPersist(t *testing.T) {
	original := []byte("0123456789")
	path := writeTempFile(t, original)
	buffer, e := OpenBuffer(path, binary.LittleEndian, true)
	if e != nil {
		t.Logf("Failed opening writable buffer: %s\n", e)
		t.FailNow()
	}
	defer buffer.Close()
	e = buffer.WriteBytes([]byte{0xaa, 0xbb}, 1)
	if e != nil {
		t.Logf("Failed writing to buffer: %s\n", e)
		t.FailNow()
	}
	e = buffer.WriteBytes([]byte{0xcc}, 10)
	if !errors.Is(e, ErrInvalidOffset) {
		t.Logf("Didn't get expected error writing past the end: %v\n", e)
		t.Fail()
	}
	newPath := filepath.Join(t.TempDir(), "persisted")
	e = buffer.PersistTo(newPath)
	if e != nil {
		t.Logf("Failed persisting buffer: %s\n", e)
		t.FailNow()
	}
	persisted, e := os.ReadFile(newPath)
	if e != nil {
		t.Logf("Failed reading persisted file: %s\n", e)
		t.FailNow()
	}
	expected := []byte("0123456789")
	expected[1] = 0xaa
	expected[2] = 0xbb
	if string(persisted) != string(expected) {
		t.Logf("Wrong persisted content: % x\n", persisted)
		t.Fail()
	}
	// The mapping is private, so the original file must be untouched.
	onDisk, e := os.ReadFile(path)
	if e != nil {
		t.Logf("Failed re-reading original file: %s\n", e)
		t.FailNow()
	}
	if string(onDisk) != "0123456789" {
		t.Logf("The original file was modified: % x\n", onDisk)
		t.Fail()
	}
}
