package elfy

// This file builds the synthetic ELF images the tests run against: a 64-bit
// little-endian shared object for x86-64 and a 32-bit big-endian SPARC
// executable. Building the images in code keeps the repo free of binary test
// files and makes the expected field values visible next to the assertions.

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"
)

// Accumulates an ELF image in memory. Records are appended at the current
// end of the image, and the header is patched last, once the table offsets
// are known.
type testImage struct {
	data  []byte
	order binary.ByteOrder
	t     *testing.T
}

func (im *testImage) append(v interface{}) uint64 {
	offset := uint64(len(im.data))
	data, e := WriteAtOffset(im.data, offset, im.order, v)
	if e != nil {
		im.t.Logf("Failed appending %v to test image: %s\n", v, e)
		im.t.FailNow()
	}
	im.data = data
	return offset
}

func (im *testImage) patch(offset uint64, v interface{}) {
	data, e := WriteAtOffset(im.data, offset, im.order, v)
	if e != nil {
		im.t.Logf("Failed patching test image at %d: %s\n", offset, e)
		im.t.FailNow()
	}
	im.data = data
}

// The .text content of the 64-bit fixture; 64 bytes of int3 padding ending
// in a ret.
func testTextBytes64() []byte {
	content := make([]byte, 64)
	for i := range content {
		content[i] = 0xcc
	}
	content[len(content)-1] = 0xc3
	return content
}

// Name offsets inside the fixture string tables. The layouts are fixed by
// the builders below.
const (
	dynstrLibc    = 1  // "libc.so.6"
	dynstrSoname  = 11 // "libelfy.so"
	dynstrPrintf  = 22 // "printf"
	dynstrFree    = 29 // "free"
	strtabMain    = 1  // "main"
	strtabHelper  = 6  // "helper"
	strtab32Start = 1  // "start"
	strtab32Loop  = 7  // "loop"
)

// Builds a 64-bit little-endian x86-64 shared object with a .text section,
// dynamic and static symbol tables, a rela relocation section, a dynamic
// table, and a SysV hash section covering .dynsym.
//
// Section indices: 0 null, 1 .text, 2 .dynsym, 3 .dynstr, 4 .symtab,
// 5 .strtab, 6 .rela.text, 7 .dynamic, 8 .hash, 9 .shstrtab.
func build64Fixture(t *testing.T) []byte {
	im := &testImage{order: binary.LittleEndian, t: t}
	im.append(&ELF64Header{})
	phdrOffset := im.append(&ELF64ProgramHeader{
		Type:           ProgramHeaderSegment,
		Flags:          4,
		FileOffset:     64,
		VirtualAddress: 0x400040,
		FileSize:       112,
		MemorySize:     112,
		Align:          8,
	})
	im.append(&ELF64ProgramHeader{
		Type:           LoadableSegment,
		Flags:          5,
		FileOffset:     0,
		VirtualAddress: 0x400000,
		FileSize:       0x1000,
		MemorySize:     0x1000,
		Align:          0x1000,
	})
	textOffset := im.append(testTextBytes64())
	dynstr := []byte("\x00libc.so.6\x00libelfy.so\x00printf\x00free\x00")
	dynstrOffset := im.append(dynstr)
	dynsymOffset := im.append(&ELF64Symbol{})
	im.append(&ELF64Symbol{
		Name:  dynstrPrintf,
		Info:  0x12,
		Value: 0x1000,
	})
	im.append(&ELF64Symbol{
		Name:  dynstrFree,
		Info:  0x12,
		Value: 0x1040,
	})
	strtab := []byte("\x00main\x00helper\x00")
	strtabOffset := im.append(strtab)
	symtabOffset := im.append(&ELF64Symbol{})
	im.append(&ELF64Symbol{
		Name:         strtabMain,
		Info:         0x12,
		SectionIndex: 1,
		Value:        0x401000,
		Size:         64,
	})
	im.append(&ELF64Symbol{
		Name:         strtabHelper,
		Info:         0x02,
		SectionIndex: 1,
		Value:        0x401020,
	})
	relaOffset := im.append(&ELF64Rela{
		Address:        0x401010,
		RelocationInfo: ELF64RelocationInfo((1 << 32) | 2),
		AddendValue:    -4,
	})
	im.append(&ELF64Rela{
		Address:        0x401018,
		RelocationInfo: ELF64RelocationInfo((2 << 32) | 1),
	})
	dynamicOffset := im.append(&ELF64DynamicEntry{
		Tag:   ELF64DynamicTag(NeededTag),
		Value: dynstrLibc,
	})
	im.append(&ELF64DynamicEntry{
		Tag:   ELF64DynamicTag(SonameTag),
		Value: dynstrSoname,
	})
	im.append(&ELF64DynamicEntry{})
	// One bucket, three chain entries over .dynsym: the bucket points at
	// printf, whose chain leads to free.
	hashOffset := im.append([]uint32{1, 3, 1, 0, 2, 0})
	shstrtab := []byte("\x00.text\x00.dynsym\x00.dynstr\x00.symtab\x00" +
		".strtab\x00.rela.text\x00.dynamic\x00.hash\x00.shstrtab\x00")
	shstrtabOffset := im.append(shstrtab)
	sectionTableOffset := im.append(&ELF64SectionHeader{})
	im.append(&ELF64SectionHeader{
		Name:           1,
		Type:           BitsSection,
		Flags:          6,
		VirtualAddress: 0x401000,
		FileOffset:     textOffset,
		Size:           64,
		Align:          16,
	})
	im.append(&ELF64SectionHeader{
		Name:        7,
		Type:        DynamicLoaderSymbolSection,
		FileOffset:  dynsymOffset,
		Size:        72,
		LinkedIndex: 3,
		Info:        1,
		EntrySize:   24,
	})
	im.append(&ELF64SectionHeader{
		Name:       15,
		Type:       StringTableSection,
		FileOffset: dynstrOffset,
		Size:       uint64(len(dynstr)),
	})
	im.append(&ELF64SectionHeader{
		Name:        23,
		Type:        SymbolTableSection,
		FileOffset:  symtabOffset,
		Size:        72,
		LinkedIndex: 5,
		Info:        1,
		EntrySize:   24,
	})
	im.append(&ELF64SectionHeader{
		Name:       31,
		Type:       StringTableSection,
		FileOffset: strtabOffset,
		Size:       uint64(len(strtab)),
	})
	im.append(&ELF64SectionHeader{
		Name:        39,
		Type:        RelaSection,
		FileOffset:  relaOffset,
		Size:        48,
		LinkedIndex: 4,
		Info:        1,
		EntrySize:   24,
	})
	im.append(&ELF64SectionHeader{
		Name:        50,
		Type:        DynamicSection,
		FileOffset:  dynamicOffset,
		Size:        48,
		LinkedIndex: 3,
		EntrySize:   16,
	})
	im.append(&ELF64SectionHeader{
		Name:        59,
		Type:        HashSection,
		FileOffset:  hashOffset,
		Size:        24,
		LinkedIndex: 2,
		EntrySize:   4,
	})
	im.append(&ELF64SectionHeader{
		Name:       65,
		Type:       StringTableSection,
		FileOffset: shstrtabOffset,
		Size:       uint64(len(shstrtab)),
	})
	im.patch(0, &ELF64Header{
		Signature:              0x464c457f,
		Class:                  2,
		Endianness:             1,
		Version:                1,
		Type:                   ELFTypeShared,
		Machine:                MachineTypeAMD64,
		Version2:               1,
		EntryPoint:             0x3880,
		ProgramHeaderOffset:    phdrOffset,
		SectionHeaderOffset:    sectionTableOffset,
		HeaderSize:             64,
		ProgramHeaderEntrySize: 56,
		ProgramHeaderEntries:   2,
		SectionHeaderEntrySize: 64,
		SectionHeaderEntries:   10,
		SectionNamesTable:      9,
	})
	return im.data
}

// Builds a 32-bit big-endian SPARC executable with a .text section, a symbol
// table, and a rel (no addend) relocation section.
//
// Section indices: 0 null, 1 .text, 2 .symtab, 3 .strtab, 4 .rel.text,
// 5 .shstrtab.
func build32Fixture(t *testing.T) []byte {
	im := &testImage{order: binary.BigEndian, t: t}
	im.append(&ELF32Header{})
	phdrOffset := im.append(&ELF32ProgramHeader{
		Type:           ProgramHeaderSegment,
		FileOffset:     52,
		VirtualAddress: 0x10034,
		FileSize:       64,
		MemorySize:     64,
		Flags:          4,
		Align:          4,
	})
	im.append(&ELF32ProgramHeader{
		Type:           LoadableSegment,
		FileOffset:     0,
		VirtualAddress: 0x10000,
		FileSize:       0x1000,
		MemorySize:     0x1000,
		Flags:          5,
		Align:          0x1000,
	})
	text := make([]byte, 32)
	textOffset := im.append(text)
	strtab := []byte("\x00start\x00loop\x00")
	strtabOffset := im.append(strtab)
	symtabOffset := im.append(&ELF32Symbol{})
	im.append(&ELF32Symbol{
		Name:         strtab32Start,
		Value:        0x12d28,
		Info:         0x12,
		SectionIndex: 1,
	})
	im.append(&ELF32Symbol{
		Name:         strtab32Loop,
		Value:        0x12d40,
		Info:         0x02,
		SectionIndex: 1,
	})
	relOffset := im.append(&ELF32Rel{
		Address:        0x12d30,
		RelocationInfo: ELF32RelocationInfo((1 << 8) | 3),
	})
	im.append(&ELF32Rel{
		Address:        0x12d38,
		RelocationInfo: ELF32RelocationInfo((2 << 8) | 7),
	})
	shstrtab := []byte("\x00.text\x00.symtab\x00.strtab\x00.rel.text\x00" +
		".shstrtab\x00")
	shstrtabOffset := im.append(shstrtab)
	sectionTableOffset := im.append(&ELF32SectionHeader{})
	im.append(&ELF32SectionHeader{
		Name:           1,
		Type:           BitsSection,
		Flags:          6,
		VirtualAddress: 0x12d28,
		FileOffset:     uint32(textOffset),
		Size:           32,
		Align:          4,
	})
	im.append(&ELF32SectionHeader{
		Name:        7,
		Type:        SymbolTableSection,
		FileOffset:  uint32(symtabOffset),
		Size:        48,
		LinkedIndex: 3,
		Info:        1,
		EntrySize:   16,
	})
	im.append(&ELF32SectionHeader{
		Name:       15,
		Type:       StringTableSection,
		FileOffset: uint32(strtabOffset),
		Size:       uint32(len(strtab)),
	})
	im.append(&ELF32SectionHeader{
		Name:        23,
		Type:        RelSection,
		FileOffset:  uint32(relOffset),
		Size:        16,
		LinkedIndex: 2,
		Info:        1,
		EntrySize:   8,
	})
	im.append(&ELF32SectionHeader{
		Name:       33,
		Type:       StringTableSection,
		FileOffset: uint32(shstrtabOffset),
		Size:       uint32(len(shstrtab)),
	})
	im.patch(0, &ELF32Header{
		Signature:              0x464c457f,
		Class:                  1,
		Endianness:             2,
		Version:                1,
		Type:                   ELFTypeExecutable,
		Machine:                MachineTypeSPARC,
		Version2:               1,
		EntryPoint:             0x12d28,
		ProgramHeaderOffset:    uint32(phdrOffset),
		SectionHeaderOffset:    uint32(sectionTableOffset),
		HeaderSize:             52,
		ProgramHeaderEntrySize: 32,
		ProgramHeaderEntries:   2,
		SectionHeaderEntrySize: 40,
		SectionHeaderEntries:   6,
		SectionNamesTable:      5,
	})
	// The header was written big-endian, which reverses the signature
	// field; the magic bytes are byte-order independent on disk.
	copy(im.data[0:4], []byte{0x7f, 'E', 'L', 'F'})
	return im.data
}

// Writes the image to a file in a test temp directory and returns its path.
func writeFixture(t *testing.T, data []byte) string {
	path := filepath.Join(t.TempDir(), "fixture.elf")
	e := os.WriteFile(path, data, 0644)
	if e != nil {
		t.Logf("Failed writing fixture file: %s\n", e)
		t.FailNow()
	}
	return path
}

func openTestELF64(t *testing.T, writable bool) *File {
	f, e := Open(writeFixture(t, build64Fixture(t)), writable)
	if e != nil {
		t.Logf("Failed opening 64-bit fixture: %s\n", e)
		t.FailNow()
	}
	t.Cleanup(func() { f.Close() })
	return f
}

func openTestELF32(t *testing.T) *File {
	f, e := Open(writeFixture(t, build32Fixture(t)), false)
	if e != nil {
		t.Logf("Failed opening 32-bit fixture: %s\n", e)
		t.FailNow()
	}
	t.Cleanup(func() { f.Close() })
	return f
}
