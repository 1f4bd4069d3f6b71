package elfy

// This file contains the File container: it owns the mapped buffer, decodes
// the file header, caches the section header table and the symbol names, and
// exposes the lookup surface the iterators build on.

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
)

// The number of identification bytes at the start of every ELF file.
const identSize = 16

// Dynamic table tags whose value is an offset into .dynstr.
var nameBearingDynamicTags = map[DynamicTag]bool{
	NeededTag:    true,
	SonameTag:    true,
	RPathTag:     true,
	RunPathTag:   true,
	AuxiliaryTag: true,
	FilterTag:    true,
	ConfigTag:    true,
	DepAuditTag:  true,
	AuditTag:     true,
}

// A parsed ELF file of either class. The File exclusively owns the mapped
// buffer; string and data slices returned from its methods borrow from the
// mapping and stay valid until Close. A File must not be used from more than
// one goroutine at a time.
type File struct {
	buffer   *MappedBuffer
	class    ELFClass
	header   ELFHeader
	sections []ELFSectionHeader
	// Content of the section name string table, or nil if the file has none.
	shstrtab []byte
	// Contents of the .strtab and .dynstr sections; either may be nil.
	strtab []byte
	dynstr []byte
	// Maps symbol name offsets to the resolved strings. Offsets shared
	// between .strtab and .dynstr collapse to a single entry.
	symbolNames map[uint32][]byte
}

// Parses the ELF file at the given path. If writable is true, the file's
// contents may be modified in memory with ModifySectionData and saved with
// Persist; the file on disk is never touched either way. The returned File
// must be Closed when no longer needed.
func Open(path string, writable bool) (*File, error) {
	ident, e := readIdent(path)
	if e != nil {
		return nil, e
	}
	if (ident[0] != 0x7f) || (ident[1] != 'E') || (ident[2] != 'L') ||
		(ident[3] != 'F') {
		return nil, fmt.Errorf("%w: % x", ErrBadMagic, ident[0:4])
	}
	var order binary.ByteOrder
	switch ident[5] {
	case 1:
		order = binary.LittleEndian
	case 2:
		order = binary.BigEndian
	default:
		return nil, fmt.Errorf("%w: %d", ErrInvalidEndian, ident[5])
	}
	class := ELFClass(ident[4])
	if (class != ELFClass32) && (class != ELFClass64) {
		return nil, fmt.Errorf("%w: %d", ErrInvalidClass, ident[4])
	}
	buffer, e := OpenBuffer(path, order, writable)
	if e != nil {
		return nil, e
	}
	f := &File{
		buffer:      buffer,
		class:       class,
		symbolNames: make(map[uint32][]byte),
	}
	e = f.parse()
	if e != nil {
		buffer.Close()
		return nil, e
	}
	return f, nil
}

// Reads the identification bytes without mapping the file.
func readIdent(path string) ([identSize]byte, error) {
	var ident [identSize]byte
	handle, e := os.Open(path)
	if e != nil {
		return ident, fmt.Errorf("%w: %s: %s", ErrOpenFailed, path, e)
	}
	defer handle.Close()
	_, e = io.ReadFull(handle, ident[:])
	if e != nil {
		return ident, fmt.Errorf("%w: reading ELF identification: %s",
			ErrUnexpectedEOF, e)
	}
	return ident, nil
}

// Runs the initialization protocol after the buffer has been mapped: header,
// section cache, string tables, symbol name cache.
func (f *File) parse() error {
	e := f.readHeader()
	if e != nil {
		return e
	}
	e = f.buildSectionCache()
	if e != nil {
		return e
	}
	e = f.resolveStringTables()
	if e != nil {
		return e
	}
	return f.buildSymbolNameCache()
}

func (f *File) readHeader() error {
	if f.class == ELFClass64 {
		var header ELF64Header
		e := f.buffer.ReadRecord(0, &header)
		if e != nil {
			return fmt.Errorf("failed reading ELF64 header: %w", e)
		}
		f.header = &header
		return nil
	}
	var header ELF32Header
	e := f.buffer.ReadRecord(0, &header)
	if e != nil {
		return fmt.Errorf("failed reading ELF32 header: %w", e)
	}
	f.header = &header
	return nil
}

func (f *File) buildSectionCache() error {
	count := f.header.GetSectionHeaderCount()
	if count == 0 {
		return nil
	}
	base := f.header.GetSectionHeaderOffset()
	stride := uint64(f.header.GetSectionHeaderEntrySize())
	if stride == 0 {
		return fmt.Errorf("%w: section header entry size is 0", ErrNoEntries)
	}
	f.sections = make([]ELFSectionHeader, 0, count)
	for i := uint64(0); i < uint64(count); i++ {
		section, e := f.readSectionHeaderAt(base + (stride * i))
		if e != nil {
			return fmt.Errorf("failed reading section header %d: %w", i, e)
		}
		f.sections = append(f.sections, section)
	}
	return nil
}

func (f *File) resolveStringTables() error {
	nameTableIndex := f.header.GetSectionNamesTableIndex()
	if nameTableIndex != 0 {
		if int(nameTableIndex) >= len(f.sections) {
			return fmt.Errorf("%w: section names table index %d",
				ErrInvalidSectionIndex, nameTableIndex)
		}
		section := f.sections[nameTableIndex]
		if section.GetSize() != 0 {
			content, e := f.buffer.Slice(section.GetFileOffset(),
				section.GetSize())
			if e != nil {
				return fmt.Errorf("failed reading section names table: %w", e)
			}
			f.shstrtab = content
		}
	}
	// .strtab and .dynstr are found by name, and either may be missing.
	if f.shstrtab == nil {
		return nil
	}
	for _, section := range f.sections {
		name, e := ReadStringAtOffset(section.GetNameOffset(), f.shstrtab)
		if e != nil {
			continue
		}
		if (string(name) != ".strtab") && (string(name) != ".dynstr") {
			continue
		}
		if section.GetSize() == 0 {
			continue
		}
		content, e := f.buffer.Slice(section.GetFileOffset(),
			section.GetSize())
		if e != nil {
			return fmt.Errorf("failed reading %s: %w", name, e)
		}
		if string(name) == ".strtab" {
			if f.strtab == nil {
				f.strtab = content
			}
		} else if f.dynstr == nil {
			f.dynstr = content
		}
	}
	return nil
}

// Pre-resolves the name of every symbol in every symbol table. Each symbol's
// name offset is resolved against the string table its section links to,
// falling back to .strtab and then .dynstr; offsets shared between tables
// keep whichever resolution happened last, which is always a valid string
// for the offset.
func (f *File) buildSymbolNameCache() error {
	for index, section := range f.sections {
		switch section.GetType() {
		case SymbolTableSection, DynamicLoaderSymbolSection:
		default:
			continue
		}
		entrySize := section.GetEntrySize()
		if entrySize == 0 {
			continue
		}
		nameTable := f.linkedStringTable(section)
		count := section.GetSize() / entrySize
		base := section.GetFileOffset()
		for i := uint64(0); i < count; i++ {
			symbol, e := f.readSymbolAt(base + (i * entrySize))
			if e != nil {
				return fmt.Errorf("failed reading symbol %d in section "+
					"%d: %w", i, index, e)
			}
			nameOffset := symbol.GetName()
			if nameOffset == 0 {
				f.symbolNames[0] = nil
				continue
			}
			for _, table := range [][]byte{nameTable, f.strtab, f.dynstr} {
				if table == nil {
					continue
				}
				name, e := ReadStringAtOffset(nameOffset, table)
				if e == nil {
					f.symbolNames[nameOffset] = name
					break
				}
			}
		}
	}
	return nil
}

// Returns the content of the string table section the given section links
// to, or nil if the link doesn't name one.
func (f *File) linkedStringTable(section ELFSectionHeader) []byte {
	linked := section.GetLinkedIndex()
	if int(linked) >= len(f.sections) {
		return nil
	}
	target := f.sections[linked]
	if target.GetType() != StringTableSection {
		return nil
	}
	if target.GetSize() == 0 {
		return nil
	}
	content, e := f.buffer.Slice(target.GetFileOffset(), target.GetSize())
	if e != nil {
		return nil
	}
	return content
}

// Returns the file header. The concrete type is *ELF32Header or *ELF64Header
// depending on the file's class.
func (f *File) Header() ELFHeader {
	return f.header
}

// Returns the file's ELF class.
func (f *File) Class() ELFClass {
	return f.class
}

// Returns the byte order multi-byte fields are encoded in.
func (f *File) ByteOrder() binary.ByteOrder {
	return f.buffer.Order()
}

// Returns the number of sections defined in the ELF file.
func (f *File) SectionCount() uint16 {
	return uint16(len(f.sections))
}

// Returns the number of segments (program headers) defined in the ELF file.
func (f *File) SegmentCount() uint16 {
	return f.header.GetProgramHeaderCount()
}

// Returns the section header at the given index in the section table.
func (f *File) SectionByIndex(index uint16) (ELFSectionHeader, error) {
	if int(index) >= len(f.sections) {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSectionIndex, index)
	}
	return f.sections[index], nil
}

// Returns the first section, in section table order, with the given name.
func (f *File) SectionByName(name string) (ELFSectionHeader, error) {
	if f.shstrtab == nil {
		return nil, fmt.Errorf("%w: can't look up %q",
			ErrNoSectionStringTable, name)
	}
	for _, section := range f.sections {
		sectionName, e := ReadStringAtOffset(section.GetNameOffset(),
			f.shstrtab)
		if e != nil {
			continue
		}
		if string(sectionName) == name {
			return section, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrSectionNotFound, name)
}

// Returns the first section, in section table order, with the given type.
func (f *File) SectionByType(t SectionHeaderType) (ELFSectionHeader, error) {
	for _, section := range f.sections {
		if section.GetType() == t {
			return section, nil
		}
	}
	return nil, fmt.Errorf("%w: no %s", ErrSectionNotFound, t)
}

// Returns the name of the given section, read from the section name string
// table.
func (f *File) SectionName(section ELFSectionHeader) (string, error) {
	if f.shstrtab == nil {
		return "", fmt.Errorf("%w: can't read section names",
			ErrNoSectionStringTable)
	}
	name, e := ReadStringAtOffset(section.GetNameOffset(), f.shstrtab)
	if e != nil {
		return "", fmt.Errorf("failed reading section name: %w", e)
	}
	return string(name), nil
}

// Returns the bytes of the given section. The slice borrows from the mapped
// buffer; modifying it on a writable File modifies the buffer.
func (f *File) SectionData(section ELFSectionHeader) ([]byte, error) {
	if section.GetSize() == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptySection, section.GetType())
	}
	return f.buffer.Slice(section.GetFileOffset(), section.GetSize())
}

// Returns the bytes of the first section with the given name.
func (f *File) SectionDataByName(name string) ([]byte, error) {
	section, e := f.SectionByName(name)
	if e != nil {
		return nil, e
	}
	return f.SectionData(section)
}

// Overwrites the start of the given section's content with the given bytes.
// The payload may be up to the section's size; bytes past the payload, and
// every later section, are left untouched. Requires the File to have been
// opened writable. Only the in-memory buffer changes; use Persist to save
// the result.
func (f *File) ModifySectionData(section ELFSectionHeader,
	content []byte) error {
	if !f.buffer.Writable() {
		return fmt.Errorf("%w: can't modify section content", ErrNotMutable)
	}
	if section.GetSize() == 0 {
		return fmt.Errorf("%w: can't modify %s", ErrEmptySection,
			section.GetType())
	}
	if uint64(len(content)) > section.GetSize() {
		return fmt.Errorf("%w: %d content bytes exceed %d-byte section",
			ErrInvalidOffset, len(content), section.GetSize())
	}
	return f.buffer.WriteBytes(content, section.GetFileOffset())
}

// Writes the buffer's current contents to a new file at the given path.
// Requires the File to have been opened writable.
func (f *File) Persist(path string) error {
	return f.buffer.PersistTo(path)
}

// Returns the name of the given symbol from the pre-resolved name cache. A
// name offset of 0 yields the empty string.
func (f *File) SymbolName(symbol ELFSymbol) (string, error) {
	name, ok := f.symbolNames[symbol.GetName()]
	if !ok {
		return "", fmt.Errorf("%w: offset %d", ErrSymbolNameNotFound,
			symbol.GetName())
	}
	return string(name), nil
}

// Returns the string a dynamic table entry refers to, for the tags whose
// value is a .dynstr offset (needed libraries, the soname, search paths, and
// the audit/filter family). For all other tags ok is false and the name is
// empty, which is not an error. Fails only when a name-bearing tag is
// present but the file has no .dynstr, or the offset is invalid.
func (f *File) DynName(entry ELFDynamicEntry) (name string, ok bool,
	e error) {
	tag := DynamicTag(entry.GetTag().GetValue())
	if !nameBearingDynamicTags[tag] {
		return "", false, nil
	}
	if f.dynstr == nil {
		return "", false, fmt.Errorf("%w: needed for %s",
			ErrDynStringTableNotFound, tag)
	}
	raw, e := ReadStringAtOffset(uint32(entry.GetValue()), f.dynstr)
	if e != nil {
		return "", false, fmt.Errorf("failed reading name for %s: %w", tag, e)
	}
	return string(raw), true, nil
}

// Returns the symbol a relocation refers to. sectionIndex names the
// relocation section the relocation was read from (RelocationIterator's
// SectionIndex reports it); its link field names the symbol table, which
// must be a symbol table section.
func (f *File) RelocationLinkedSymbol(relocation ELFRelocation,
	sectionIndex uint16) (ELFSymbol, error) {
	section, e := f.SectionByIndex(sectionIndex)
	if e != nil {
		return nil, e
	}
	linked := section.GetLinkedIndex()
	if int(linked) >= len(f.sections) {
		return nil, fmt.Errorf("%w: %d", ErrInvalidLinkIndex, linked)
	}
	symbolTable := f.sections[linked]
	switch symbolTable.GetType() {
	case SymbolTableSection, DynamicLoaderSymbolSection:
	default:
		return nil, fmt.Errorf("%w: section %d is a %s",
			ErrInvalidLinkedSection, linked, symbolTable.GetType())
	}
	entrySize := symbolTable.GetEntrySize()
	if entrySize == 0 {
		return nil, fmt.Errorf("%w: symbol table %d", ErrNoEntries, linked)
	}
	index := uint64(relocation.SymbolIndex())
	if index >= (symbolTable.GetSize() / entrySize) {
		return nil, fmt.Errorf("%w: symbol index %d exceeds table %d",
			ErrInvalidOffset, index, linked)
	}
	return f.readSymbolAt(symbolTable.GetFileOffset() + (index * entrySize))
}

// Looks up a symbol by name. Tries the SysV .hash section first when the
// file has one; since a hash section only covers the symbol table it links
// to, a miss there still falls back to a linear scan of all symbol tables.
func (f *File) LookupSymbol(name string) (ELFSymbol, error) {
	symbol, e := f.hashLookup(name)
	if symbol != nil {
		return symbol, nil
	}
	if (e != nil) && !errors.Is(e, ErrSymbolNameNotFound) {
		return nil, e
	}
	iterator := f.Symbols()
	for {
		symbol, e := iterator.Next()
		if e == io.EOF {
			break
		}
		if e != nil {
			return nil, e
		}
		symbolName, e := f.SymbolName(symbol)
		if (e == nil) && (symbolName == name) {
			return symbol, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrSymbolNameNotFound, name)
}

// Attempts a .hash section lookup. Returns (nil, nil) when the file has no
// usable hash section, so the caller can fall back to a scan.
func (f *File) hashLookup(name string) (ELFSymbol, error) {
	hashSection, e := f.SectionByType(HashSection)
	if e != nil {
		return nil, nil
	}
	linked := hashSection.GetLinkedIndex()
	if int(linked) >= len(f.sections) {
		return nil, nil
	}
	symbolTable := f.sections[linked]
	switch symbolTable.GetType() {
	case SymbolTableSection, DynamicLoaderSymbolSection:
	default:
		return nil, nil
	}
	entrySize := symbolTable.GetEntrySize()
	if entrySize == 0 {
		return nil, nil
	}
	content, e := f.SectionData(hashSection)
	if (e != nil) || (len(content) < 8) {
		return nil, nil
	}
	order := f.buffer.Order()
	bucketCount := order.Uint32(content[0:4])
	chainCount := order.Uint32(content[4:8])
	if bucketCount == 0 {
		return nil, nil
	}
	if uint64(len(content)) < 8+(uint64(bucketCount)+uint64(chainCount))*4 {
		return nil, nil
	}
	buckets := content[8 : 8+(bucketCount*4)]
	chains := content[8+(bucketCount*4):]
	bucket := ELF32Hash([]byte(name)) % bucketCount
	index := order.Uint32(buckets[bucket*4 : (bucket*4)+4])
	// The chain can't be longer than the symbol table, which bounds the walk
	// even on a corrupted file.
	for steps := uint32(0); (index != 0) && (steps <= chainCount); steps++ {
		if index >= chainCount {
			break
		}
		symbol, e := f.readSymbolAt(symbolTable.GetFileOffset() +
			(uint64(index) * entrySize))
		if e != nil {
			return nil, e
		}
		symbolName, e := f.SymbolName(symbol)
		if (e == nil) && (symbolName == name) {
			return symbol, nil
		}
		index = order.Uint32(chains[index*4 : (index*4)+4])
	}
	return nil, fmt.Errorf("%w: %q", ErrSymbolNameNotFound, name)
}

// Releases the caches and unmaps the buffer. Slices previously returned from
// the File become invalid.
func (f *File) Close() error {
	f.sections = nil
	f.shstrtab = nil
	f.strtab = nil
	f.dynstr = nil
	f.symbolNames = nil
	return f.buffer.Close()
}

// The class-dispatched record readers below decode a single record at a file
// offset and return it behind the matching interface.

func (f *File) readSectionHeaderAt(offset uint64) (ELFSectionHeader, error) {
	if f.class == ELFClass64 {
		var section ELF64SectionHeader
		e := f.buffer.ReadRecord(offset, &section)
		if e != nil {
			return nil, e
		}
		return &section, nil
	}
	var section ELF32SectionHeader
	e := f.buffer.ReadRecord(offset, &section)
	if e != nil {
		return nil, e
	}
	return &section, nil
}

func (f *File) readProgramHeaderAt(offset uint64) (ELFProgramHeader, error) {
	if f.class == ELFClass64 {
		var segment ELF64ProgramHeader
		e := f.buffer.ReadRecord(offset, &segment)
		if e != nil {
			return nil, e
		}
		return &segment, nil
	}
	var segment ELF32ProgramHeader
	e := f.buffer.ReadRecord(offset, &segment)
	if e != nil {
		return nil, e
	}
	return &segment, nil
}

func (f *File) readSymbolAt(offset uint64) (ELFSymbol, error) {
	if f.class == ELFClass64 {
		var symbol ELF64Symbol
		e := f.buffer.ReadRecord(offset, &symbol)
		if e != nil {
			return nil, e
		}
		return &symbol, nil
	}
	var symbol ELF32Symbol
	e := f.buffer.ReadRecord(offset, &symbol)
	if e != nil {
		return nil, e
	}
	return &symbol, nil
}

func (f *File) readDynamicEntryAt(offset uint64) (ELFDynamicEntry, error) {
	if f.class == ELFClass64 {
		var entry ELF64DynamicEntry
		e := f.buffer.ReadRecord(offset, &entry)
		if e != nil {
			return nil, e
		}
		return &entry, nil
	}
	var entry ELF32DynamicEntry
	e := f.buffer.ReadRecord(offset, &entry)
	if e != nil {
		return nil, e
	}
	return &entry, nil
}

// Reads one relocation record; withAddend selects the rela layout.
func (f *File) readRelocationAt(offset uint64, withAddend bool) (
	ELFRelocation, error) {
	if f.class == ELFClass64 {
		if withAddend {
			var relocation ELF64Rela
			e := f.buffer.ReadRecord(offset, &relocation)
			if e != nil {
				return nil, e
			}
			return &relocation, nil
		}
		var relocation ELF64Rel
		e := f.buffer.ReadRecord(offset, &relocation)
		if e != nil {
			return nil, e
		}
		return &relocation, nil
	}
	if withAddend {
		var relocation ELF32Rela
		e := f.buffer.ReadRecord(offset, &relocation)
		if e != nil {
			return nil, e
		}
		return &relocation, nil
	}
	var relocation ELF32Rel
	e := f.buffer.ReadRecord(offset, &relocation)
	if e != nil {
		return nil, e
	}
	return &relocation, nil
}
