package elfy

// This file contains the class-agnostic interfaces over the 32- and 64-bit
// record layouts, along with the boilerplate wrappers implementing them.
// Accessors widen 32-bit fields to 64 bits, so callers never need to care
// which class they're holding. If needed, type assertions recover the
// concrete *ELF32*/*ELF64* records.

// A 32- or 64-bit agnostic way of accessing an ELF file header.
type ELFHeader interface {
	GetClass() ELFClass
	GetDataEncoding() uint8
	GetOSABI() uint8
	GetABIVersion() uint8
	GetType() ELFFileType
	GetMachine() MachineType
	GetEntryPoint() uint64
	GetProgramHeaderOffset() uint64
	GetProgramHeaderEntrySize() uint16
	GetProgramHeaderCount() uint16
	GetSectionHeaderOffset() uint64
	GetSectionHeaderEntrySize() uint16
	GetSectionHeaderCount() uint16
	GetSectionNamesTableIndex() uint16
	GetFlags() uint32
	GetHeaderSize() uint16
	String() string
}

func (h *ELF64Header) GetClass() ELFClass {
	return ELFClass(h.Class)
}

func (h *ELF32Header) GetClass() ELFClass {
	return ELFClass(h.Class)
}

func (h *ELF64Header) GetDataEncoding() uint8 {
	return h.Endianness
}

func (h *ELF32Header) GetDataEncoding() uint8 {
	return h.Endianness
}

func (h *ELF64Header) GetOSABI() uint8 {
	return h.OSABI
}

func (h *ELF32Header) GetOSABI() uint8 {
	return h.OSABI
}

func (h *ELF64Header) GetABIVersion() uint8 {
	return h.EABI
}

func (h *ELF32Header) GetABIVersion() uint8 {
	return h.EABI
}

func (h *ELF64Header) GetType() ELFFileType {
	return h.Type
}

func (h *ELF32Header) GetType() ELFFileType {
	return h.Type
}

func (h *ELF64Header) GetMachine() MachineType {
	return h.Machine
}

func (h *ELF32Header) GetMachine() MachineType {
	return h.Machine
}

func (h *ELF64Header) GetEntryPoint() uint64 {
	return h.EntryPoint
}

func (h *ELF32Header) GetEntryPoint() uint64 {
	return uint64(h.EntryPoint)
}

func (h *ELF64Header) GetProgramHeaderOffset() uint64 {
	return h.ProgramHeaderOffset
}

func (h *ELF32Header) GetProgramHeaderOffset() uint64 {
	return uint64(h.ProgramHeaderOffset)
}

func (h *ELF64Header) GetProgramHeaderEntrySize() uint16 {
	return h.ProgramHeaderEntrySize
}

func (h *ELF32Header) GetProgramHeaderEntrySize() uint16 {
	return h.ProgramHeaderEntrySize
}

func (h *ELF64Header) GetProgramHeaderCount() uint16 {
	return h.ProgramHeaderEntries
}

func (h *ELF32Header) GetProgramHeaderCount() uint16 {
	return h.ProgramHeaderEntries
}

func (h *ELF64Header) GetSectionHeaderOffset() uint64 {
	return h.SectionHeaderOffset
}

func (h *ELF32Header) GetSectionHeaderOffset() uint64 {
	return uint64(h.SectionHeaderOffset)
}

func (h *ELF64Header) GetSectionHeaderEntrySize() uint16 {
	return h.SectionHeaderEntrySize
}

func (h *ELF32Header) GetSectionHeaderEntrySize() uint16 {
	return h.SectionHeaderEntrySize
}

func (h *ELF64Header) GetSectionHeaderCount() uint16 {
	return h.SectionHeaderEntries
}

func (h *ELF32Header) GetSectionHeaderCount() uint16 {
	return h.SectionHeaderEntries
}

func (h *ELF64Header) GetSectionNamesTableIndex() uint16 {
	return h.SectionNamesTable
}

func (h *ELF32Header) GetSectionNamesTableIndex() uint16 {
	return h.SectionNamesTable
}

func (h *ELF64Header) GetFlags() uint32 {
	return h.Flags
}

func (h *ELF32Header) GetFlags() uint32 {
	return h.Flags
}

func (h *ELF64Header) GetHeaderSize() uint16 {
	return h.HeaderSize
}

func (h *ELF32Header) GetHeaderSize() uint16 {
	return h.HeaderSize
}

// This is a 32- or 64-bit agnostic interface for accessing an ELF section's
// flags. Can be converted using type assertions into either
// SectionHeaderFlags64 or SectionHeaderFlags32 values.
type ELFSectionFlags interface {
	Executable() bool
	Allocated() bool
	Writable() bool
	String() string
}

func (f SectionHeaderFlags32) Executable() bool {
	return (f & 4) != 0
}

func (f SectionHeaderFlags32) Allocated() bool {
	return (f & 2) != 0
}

func (f SectionHeaderFlags32) Writable() bool {
	return (f & 1) != 0
}

func (f SectionHeaderFlags64) Executable() bool {
	return (f & 4) != 0
}

func (f SectionHeaderFlags64) Allocated() bool {
	return (f & 2) != 0
}

func (f SectionHeaderFlags64) Writable() bool {
	return (f & 1) != 0
}

// This is a 32- or 64-bit agnostic way of accessing an ELF section header.
type ELFSectionHeader interface {
	GetNameOffset() uint32
	GetType() SectionHeaderType
	GetFlags() ELFSectionFlags
	GetVirtualAddress() uint64
	GetFileOffset() uint64
	GetSize() uint64
	GetLinkedIndex() uint32
	GetInfo() uint32
	GetAlignment() uint64
	GetEntrySize() uint64
	String() string
}

func (h *ELF64SectionHeader) GetNameOffset() uint32 {
	return h.Name
}

func (h *ELF64SectionHeader) GetType() SectionHeaderType {
	return h.Type
}

func (h *ELF64SectionHeader) GetFlags() ELFSectionFlags {
	return h.Flags
}

func (h *ELF64SectionHeader) GetVirtualAddress() uint64 {
	return h.VirtualAddress
}

func (h *ELF64SectionHeader) GetFileOffset() uint64 {
	return h.FileOffset
}

func (h *ELF64SectionHeader) GetSize() uint64 {
	return h.Size
}

func (h *ELF64SectionHeader) GetLinkedIndex() uint32 {
	return h.LinkedIndex
}

func (h *ELF64SectionHeader) GetInfo() uint32 {
	return h.Info
}

func (h *ELF64SectionHeader) GetAlignment() uint64 {
	return h.Align
}

func (h *ELF64SectionHeader) GetEntrySize() uint64 {
	return h.EntrySize
}

func (h *ELF32SectionHeader) GetNameOffset() uint32 {
	return h.Name
}

func (h *ELF32SectionHeader) GetType() SectionHeaderType {
	return h.Type
}

func (h *ELF32SectionHeader) GetFlags() ELFSectionFlags {
	return h.Flags
}

func (h *ELF32SectionHeader) GetVirtualAddress() uint64 {
	return uint64(h.VirtualAddress)
}

func (h *ELF32SectionHeader) GetFileOffset() uint64 {
	return uint64(h.FileOffset)
}

func (h *ELF32SectionHeader) GetSize() uint64 {
	return uint64(h.Size)
}

func (h *ELF32SectionHeader) GetLinkedIndex() uint32 {
	return h.LinkedIndex
}

func (h *ELF32SectionHeader) GetInfo() uint32 {
	return h.Info
}

func (h *ELF32SectionHeader) GetAlignment() uint64 {
	return uint64(h.Align)
}

func (h *ELF32SectionHeader) GetEntrySize() uint64 {
	return uint64(h.EntrySize)
}

// This is a 32- or 64-bit agnostic way of accessing an ELF program header.
type ELFProgramHeader interface {
	GetType() ProgramHeaderType
	GetFlags() ProgramHeaderFlags
	GetFileOffset() uint64
	GetVirtualAddress() uint64
	GetPhysicalAddress() uint64
	GetFileSize() uint64
	GetMemorySize() uint64
	GetAlignment() uint64
	String() string
}

func (h *ELF64ProgramHeader) GetType() ProgramHeaderType {
	return h.Type
}

func (h *ELF64ProgramHeader) GetFlags() ProgramHeaderFlags {
	return h.Flags
}

func (h *ELF64ProgramHeader) GetFileOffset() uint64 {
	return h.FileOffset
}

func (h *ELF64ProgramHeader) GetVirtualAddress() uint64 {
	return h.VirtualAddress
}

func (h *ELF64ProgramHeader) GetPhysicalAddress() uint64 {
	return h.PhysicalAddress
}

func (h *ELF64ProgramHeader) GetFileSize() uint64 {
	return h.FileSize
}

func (h *ELF64ProgramHeader) GetMemorySize() uint64 {
	return h.MemorySize
}

func (h *ELF64ProgramHeader) GetAlignment() uint64 {
	return h.Align
}

func (h *ELF32ProgramHeader) GetType() ProgramHeaderType {
	return h.Type
}

func (h *ELF32ProgramHeader) GetFlags() ProgramHeaderFlags {
	return h.Flags
}

func (h *ELF32ProgramHeader) GetFileOffset() uint64 {
	return uint64(h.FileOffset)
}

func (h *ELF32ProgramHeader) GetVirtualAddress() uint64 {
	return uint64(h.VirtualAddress)
}

func (h *ELF32ProgramHeader) GetPhysicalAddress() uint64 {
	return uint64(h.PhysicalAddress)
}

func (h *ELF32ProgramHeader) GetFileSize() uint64 {
	return uint64(h.FileSize)
}

func (h *ELF32ProgramHeader) GetMemorySize() uint64 {
	return uint64(h.MemorySize)
}

func (h *ELF32ProgramHeader) GetAlignment() uint64 {
	return uint64(h.Align)
}

// This is an interface used to access either 64- or 32-bit ELF symbol table
// entries. GetName returns the symbol's offset into its name string table;
// File.SymbolName resolves it to the actual string.
type ELFSymbol interface {
	GetName() uint32
	GetInfo() ELFSymbolInfo
	GetOther() uint8
	GetVisibility() SymbolVisibility
	GetSectionIndex() uint16
	GetValue() uint64
	GetSize() uint64
	String() string
}

func (s *ELF64Symbol) GetName() uint32 {
	return s.Name
}

func (s *ELF64Symbol) GetInfo() ELFSymbolInfo {
	return s.Info
}

func (s *ELF64Symbol) GetOther() uint8 {
	return s.Other
}

func (s *ELF64Symbol) GetVisibility() SymbolVisibility {
	return SymbolVisibility(s.Other & 3)
}

func (s *ELF64Symbol) GetSectionIndex() uint16 {
	return s.SectionIndex
}

func (s *ELF64Symbol) GetValue() uint64 {
	return s.Value
}

func (s *ELF64Symbol) GetSize() uint64 {
	return s.Size
}

func (s *ELF32Symbol) GetName() uint32 {
	return s.Name
}

func (s *ELF32Symbol) GetInfo() ELFSymbolInfo {
	return s.Info
}

func (s *ELF32Symbol) GetOther() uint8 {
	return s.Other
}

func (s *ELF32Symbol) GetVisibility() SymbolVisibility {
	return SymbolVisibility(s.Other & 3)
}

func (s *ELF32Symbol) GetSectionIndex() uint16 {
	return s.SectionIndex
}

func (s *ELF32Symbol) GetValue() uint64 {
	return uint64(s.Value)
}

func (s *ELF32Symbol) GetSize() uint64 {
	return uint64(s.Size)
}

type ELFDynamicTag interface {
	GetValue() int64
	String() string
}

func (t ELF64DynamicTag) GetValue() int64 {
	return int64(t)
}

func (t ELF32DynamicTag) GetValue() int64 {
	return int64(t)
}

type ELFDynamicEntry interface {
	GetTag() ELFDynamicTag
	GetValue() uint64
	String() string
}

func (n *ELF64DynamicEntry) GetTag() ELFDynamicTag {
	return n.Tag
}

func (n *ELF32DynamicEntry) GetTag() ELFDynamicTag {
	return n.Tag
}

func (n *ELF64DynamicEntry) GetValue() uint64 {
	return n.Value
}

func (n *ELF32DynamicEntry) GetValue() uint64 {
	return uint64(n.Value)
}

// This holds a generic entry in a relocation table for either a 32- or 64-bit
// ELF file, with or without an addend.
type ELFRelocation interface {
	// Returns the address of the relocation
	Offset() uint64
	// Returns the raw relocation type code. DecodedType maps it through the
	// per-machine catalogs.
	Type() uint32
	// Returns the relocation's symbol index.
	SymbolIndex() uint32
	// Returns the addend field for the relocation, or 0 if the relocation did
	// not include an addend.
	Addend() int64
	// Returns true if the relocation came from a table with addends.
	HasAddend() bool
	// Returns the relocation's type decoded against the given machine's
	// catalog.
	DecodedType(machine MachineType) (RelocationType, error)
	String() string
}

func (r *ELF64Rel) Offset() uint64 {
	return r.Address
}

func (r *ELF64Rel) Type() uint32 {
	return r.RelocationInfo.Type()
}

func (r *ELF64Rel) SymbolIndex() uint32 {
	return r.RelocationInfo.SymbolIndex()
}

func (r *ELF64Rel) Addend() int64 {
	return 0
}

func (r *ELF64Rel) HasAddend() bool {
	return false
}

func (r *ELF64Rel) DecodedType(machine MachineType) (RelocationType, error) {
	return DecodeRelocationType(machine, r.Type())
}

func (r *ELF64Rela) Offset() uint64 {
	return r.Address
}

func (r *ELF64Rela) Type() uint32 {
	return r.RelocationInfo.Type()
}

func (r *ELF64Rela) SymbolIndex() uint32 {
	return r.RelocationInfo.SymbolIndex()
}

func (r *ELF64Rela) Addend() int64 {
	return r.AddendValue
}

func (r *ELF64Rela) HasAddend() bool {
	return true
}

func (r *ELF64Rela) DecodedType(machine MachineType) (RelocationType, error) {
	return DecodeRelocationType(machine, r.Type())
}

func (r *ELF32Rel) Offset() uint64 {
	return uint64(r.Address)
}

func (r *ELF32Rel) Type() uint32 {
	return r.RelocationInfo.Type()
}

func (r *ELF32Rel) SymbolIndex() uint32 {
	return r.RelocationInfo.SymbolIndex()
}

func (r *ELF32Rel) Addend() int64 {
	return 0
}

func (r *ELF32Rel) HasAddend() bool {
	return false
}

func (r *ELF32Rel) DecodedType(machine MachineType) (RelocationType, error) {
	return DecodeRelocationType(machine, r.Type())
}

func (r *ELF32Rela) Offset() uint64 {
	return uint64(r.Address)
}

func (r *ELF32Rela) Type() uint32 {
	return r.RelocationInfo.Type()
}

func (r *ELF32Rela) SymbolIndex() uint32 {
	return r.RelocationInfo.SymbolIndex()
}

func (r *ELF32Rela) Addend() int64 {
	return int64(r.AddendValue)
}

func (r *ELF32Rela) HasAddend() bool {
	return true
}

func (r *ELF32Rela) DecodedType(machine MachineType) (RelocationType, error) {
	return DecodeRelocationType(machine, r.Type())
}
