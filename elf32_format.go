// This package contains functions for reading, and editing in place, ELF
// object files of either class and either byte order.
package elfy

// This file contains the on-disk record layouts for 32-bit ELF files, along
// with the 32-bit-specific relocation info packing. The catalogs shared with
// the 64-bit layouts live in enums.go.

import (
	"fmt"
)

// The header structure for 32-bit ELF files.
type ELF32Header struct {
	Signature              uint32
	Class                  uint8
	Endianness             uint8
	Version                uint8
	OSABI                  uint8
	EABI                   uint8
	Padding                [7]uint8
	Type                   ELFFileType
	Machine                MachineType
	Version2               uint32
	EntryPoint             uint32
	ProgramHeaderOffset    uint32
	SectionHeaderOffset    uint32
	Flags                  uint32
	HeaderSize             uint16
	ProgramHeaderEntrySize uint16
	ProgramHeaderEntries   uint16
	SectionHeaderEntrySize uint16
	SectionHeaderEntries   uint16
	SectionNamesTable      uint16
}

func (h *ELF32Header) String() string {
	return fmt.Sprintf("32-bit ELF file for %s", h.Machine)
}

// Specifies the format for a single entry for a 32-bit ELF program (segment)
// header.
type ELF32ProgramHeader struct {
	Type            ProgramHeaderType
	FileOffset      uint32
	VirtualAddress  uint32
	PhysicalAddress uint32
	FileSize        uint32
	MemorySize      uint32
	Flags           ProgramHeaderFlags
	Align           uint32
}

func (h *ELF32ProgramHeader) String() string {
	return fmt.Sprintf("%s segment at address 0x%x (offset 0x%x in file). "+
		"%d bytes in memory, %d in the file. %s", h.Type, h.VirtualAddress,
		h.FileOffset, h.MemorySize, h.FileSize, h.Flags)
}

// Specifies the format for a single entry for a 32-bit ELF section header.
type ELF32SectionHeader struct {
	Name           uint32
	Type           SectionHeaderType
	Flags          SectionHeaderFlags32
	VirtualAddress uint32
	FileOffset     uint32
	Size           uint32
	LinkedIndex    uint32
	Info           uint32
	Align          uint32
	EntrySize      uint32
}

type SectionHeaderFlags32 uint32

func (f SectionHeaderFlags32) String() string {
	var writeStatus, allocStatus, execStatus string
	if (f & 1) == 0 {
		writeStatus = "not "
	}
	if (f & 2) == 0 {
		allocStatus = "not "
	}
	if (f & 4) == 0 {
		execStatus = "not "
	}
	return fmt.Sprintf("%swritable, %sallocated, %sexecutable", writeStatus,
		allocStatus, execStatus)
}

func (h *ELF32SectionHeader) String() string {
	return fmt.Sprintf("%s section at address 0x%x (offset 0x%x in file). "+
		"%d bytes. %s", h.Type, h.VirtualAddress, h.FileOffset, h.Size,
		h.Flags)
}

// Holds a symbol table entry for a 32-bit ELF
type ELF32Symbol struct {
	Name         uint32
	Value        uint32
	Size         uint32
	Info         ELFSymbolInfo
	Other        uint8
	SectionIndex uint16
}

func (s *ELF32Symbol) String() string {
	return fmt.Sprintf("%d byte %s symbol. Value: %d, associated section: %d",
		s.Size, s.Info, s.Value, s.SectionIndex)
}

// A constant value indicating the type of an entry in the dynamic table.
type ELF32DynamicTag int32

func (t ELF32DynamicTag) String() string {
	return DynamicTag(t).String()
}

// Holds a single entry in a 32-bit ELF .dynamic section. The Value can be
// either an address or a value, depending on the Tag.
type ELF32DynamicEntry struct {
	Tag   ELF32DynamicTag
	Value uint32
}

func (n *ELF32DynamicEntry) String() string {
	return fmt.Sprintf("%s, value 0x%x", n.Tag, n.Value)
}

// Represents the 32-bit info field in a relocation: the symbol table index
// occupies the upper 24 bits, the relocation type the low 8.
type ELF32RelocationInfo uint32

// Returns the relocation type from a 32-bit ELF relocation info field.
func (n ELF32RelocationInfo) Type() uint32 {
	return uint32(n & 0xff)
}

// Returns the symbol table index from a 32-bit ELF relocation info field.
func (n ELF32RelocationInfo) SymbolIndex() uint32 {
	return uint32(n >> 8)
}

func (n ELF32RelocationInfo) String() string {
	return fmt.Sprintf("type %d, symbol index %d", n.Type(), n.SymbolIndex())
}

// A 32-bit relocation without an addend.
type ELF32Rel struct {
	Address        uint32
	RelocationInfo ELF32RelocationInfo
}

func (r *ELF32Rel) String() string {
	return fmt.Sprintf("relocation at address 0x%08x, %s", r.Address,
		r.RelocationInfo)
}

// A 32-bit relocation with an addend.
type ELF32Rela struct {
	Address        uint32
	RelocationInfo ELF32RelocationInfo
	AddendValue    int32
}

func (r *ELF32Rela) String() string {
	return fmt.Sprintf("relocation at address 0x%08x with addend %d, %s",
		r.Address, r.AddendValue, r.RelocationInfo)
}
