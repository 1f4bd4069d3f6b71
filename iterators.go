package elfy

// This file contains the iterators over a File's header tables and over the
// entry arrays held in sections. All of them are forward-only cursors: Next
// returns io.EOF once the sequence is drained, and Reset rewinds so the same
// sequence is produced again.

import (
	"io"
)

// Walks the program header table in file order.
type SegmentIterator struct {
	f     *File
	index uint16
}

// Returns an iterator over the file's program headers (segments).
func (f *File) Segments() *SegmentIterator {
	return &SegmentIterator{f: f}
}

// Returns the number of segments the iterator will yield in total.
func (it *SegmentIterator) Len() int {
	return int(it.f.SegmentCount())
}

// Returns the next program header, or io.EOF when the table is exhausted.
func (it *SegmentIterator) Next() (ELFProgramHeader, error) {
	if it.index >= it.f.SegmentCount() {
		return nil, io.EOF
	}
	base := it.f.header.GetProgramHeaderOffset()
	stride := uint64(it.f.header.GetProgramHeaderEntrySize())
	segment, e := it.f.readProgramHeaderAt(base +
		(stride * uint64(it.index)))
	if e != nil {
		return nil, e
	}
	it.index++
	return segment, nil
}

// Rewinds the iterator to the first segment.
func (it *SegmentIterator) Reset() {
	it.index = 0
}

// Walks the section header table in file order, starting with the null
// section at index 0.
type SectionIterator struct {
	f     *File
	index uint16
}

// Returns an iterator over the file's section headers.
func (f *File) Sections() *SectionIterator {
	return &SectionIterator{f: f}
}

// Returns the number of sections the iterator will yield in total.
func (it *SectionIterator) Len() int {
	return int(it.f.SectionCount())
}

// Returns the next section header, or io.EOF when the table is exhausted.
func (it *SectionIterator) Next() (ELFSectionHeader, error) {
	if int(it.index) >= len(it.f.sections) {
		return nil, io.EOF
	}
	section := it.f.sections[it.index]
	it.index++
	return section, nil
}

// Rewinds the iterator to the first section.
func (it *SectionIterator) Reset() {
	it.index = 0
}

// The shared cursor under the symbol, dynamic, and relocation iterators: it
// walks every section whose type is in the filter set, in section table
// order, and yields the file offset of one entry at a time in ascending
// order within each section. Sections with a zero entry size are skipped.
type sectionEntryCursor struct {
	f      *File
	filter []SectionHeaderType
	// The total entry count across matching sections, computed once at
	// construction so Reset doesn't lose it.
	total uint64
	// The cache index of the section most recently entered.
	sectionIndex int
	// Positioning within the current section; current is nil before the
	// first matching section is entered and after exhaustion.
	current    ELFSectionHeader
	entryIndex uint64
	entryCount uint64
}

func newSectionEntryCursor(f *File,
	filter []SectionHeaderType) sectionEntryCursor {
	cursor := sectionEntryCursor{
		f:            f,
		filter:       filter,
		sectionIndex: -1,
	}
	for _, section := range f.sections {
		if !cursor.matches(section.GetType()) {
			continue
		}
		if section.GetEntrySize() == 0 {
			continue
		}
		cursor.total += section.GetSize() / section.GetEntrySize()
	}
	return cursor
}

func (c *sectionEntryCursor) matches(t SectionHeaderType) bool {
	for _, filtered := range c.filter {
		if t == filtered {
			return true
		}
	}
	return false
}

// Yields the containing section and file offset of the next entry, or io.EOF
// when every matching section has been drained.
func (c *sectionEntryCursor) next() (ELFSectionHeader, uint64, error) {
	for {
		if (c.current != nil) && (c.entryIndex < c.entryCount) {
			offset := c.current.GetFileOffset() +
				(c.entryIndex * c.current.GetEntrySize())
			c.entryIndex++
			return c.current, offset, nil
		}
		c.current = nil
		c.sectionIndex++
		if c.sectionIndex >= len(c.f.sections) {
			return nil, 0, io.EOF
		}
		section := c.f.sections[c.sectionIndex]
		if !c.matches(section.GetType()) {
			continue
		}
		if section.GetEntrySize() == 0 {
			continue
		}
		c.current = section
		c.entryIndex = 0
		c.entryCount = section.GetSize() / section.GetEntrySize()
	}
}

func (c *sectionEntryCursor) reset() {
	c.sectionIndex = -1
	c.current = nil
	c.entryIndex = 0
	c.entryCount = 0
}

// Returns the cache index of the section the cursor most recently entered.
// Only meaningful after next has returned at least one entry.
func (c *sectionEntryCursor) SectionIndex() uint16 {
	return uint16(c.sectionIndex)
}

// Walks every symbol in every symbol table section (.symtab and .dynsym
// types), one decoded symbol per Next call.
type SymbolIterator struct {
	sectionEntryCursor
}

// Returns an iterator over every symbol in the file's symbol tables.
func (f *File) Symbols() *SymbolIterator {
	return &SymbolIterator{newSectionEntryCursor(f, []SectionHeaderType{
		SymbolTableSection, DynamicLoaderSymbolSection})}
}

// Returns the number of symbols the iterator will yield in total.
func (it *SymbolIterator) Len() int {
	return int(it.total)
}

// Returns the next symbol, or io.EOF when every symbol table is exhausted.
func (it *SymbolIterator) Next() (ELFSymbol, error) {
	_, offset, e := it.next()
	if e != nil {
		return nil, e
	}
	return it.f.readSymbolAt(offset)
}

// Rewinds the iterator; a fresh drain yields the same sequence again.
func (it *SymbolIterator) Reset() {
	it.reset()
}

// Walks every entry in every dynamic linking table section.
type DynamicIterator struct {
	sectionEntryCursor
}

// Returns an iterator over the file's dynamic linking table entries. Note
// that the yielded sequence may extend past the terminating null entry if
// the section is larger than the table, so callers paging through an entire
// table should stop at the entry with a null tag.
func (f *File) DynamicEntries() *DynamicIterator {
	return &DynamicIterator{newSectionEntryCursor(f,
		[]SectionHeaderType{DynamicSection})}
}

// Returns the number of entries the iterator will yield in total.
func (it *DynamicIterator) Len() int {
	return int(it.total)
}

// Returns the next dynamic table entry, or io.EOF at the end.
func (it *DynamicIterator) Next() (ELFDynamicEntry, error) {
	_, offset, e := it.next()
	if e != nil {
		return nil, e
	}
	return it.f.readDynamicEntryAt(offset)
}

// Rewinds the iterator; a fresh drain yields the same sequence again.
func (it *DynamicIterator) Reset() {
	it.reset()
}

// Walks every relocation in every relocation section, decoding the rel or
// rela layout according to each section's type.
type RelocationIterator struct {
	sectionEntryCursor
}

// Returns an iterator over every relocation in the file. Use SectionIndex
// after a Next call to learn which relocation section the last entry came
// from; RelocationLinkedSymbol needs it to follow the section's link.
func (f *File) Relocations() *RelocationIterator {
	return &RelocationIterator{newSectionEntryCursor(f,
		[]SectionHeaderType{RelSection, RelaSection})}
}

// Returns the number of relocations the iterator will yield in total.
func (it *RelocationIterator) Len() int {
	return int(it.total)
}

// Returns the next relocation, or io.EOF at the end.
func (it *RelocationIterator) Next() (ELFRelocation, error) {
	section, offset, e := it.next()
	if e != nil {
		return nil, e
	}
	return it.f.readRelocationAt(offset, section.GetType() == RelaSection)
}

// Rewinds the iterator; a fresh drain yields the same sequence again.
func (it *RelocationIterator) Reset() {
	it.reset()
}
