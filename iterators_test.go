package elfy

import (
	"io"
	"testing"
)

func drainSectionNames(t *testing.T, f *File,
	iterator *SectionIterator) []string {
	names := make([]string, 0, iterator.Len())
	for {
		section, e := iterator.Next()
		if e == io.EOF {
			return names
		}
		if e != nil {
			t.Logf("Failed reading section %d: %s\n", len(names), e)
			t.FailNow()
		}
		name, e := f.SectionName(section)
		if e != nil {
			t.Logf("Failed getting section %d name: %s\n", len(names), e)
			t.FailNow()
		}
		names = append(names, name)
	}
}

func TestSectionIteratorReset(t *testing.T) {
	f := openTestELF64(t, false)
	iterator := f.Sections()
	first := drainSectionNames(t, f, iterator)
	if len(first) != int(f.SectionCount()) {
		t.Logf("Expected %d sections, got %d\n", f.SectionCount(),
			len(first))
		t.Fail()
	}
	iterator.Reset()
	second := drainSectionNames(t, f, iterator)
	if len(first) != len(second) {
		t.Logf("Reset changed the sequence length: %d -> %d\n", len(first),
			len(second))
		t.FailNow()
	}
	for i := range first {
		if first[i] != second[i] {
			t.Logf("Reset changed entry %d: %q -> %q\n", i, first[i],
				second[i])
			t.Fail()
		}
	}
}

func TestSegmentIterator(t *testing.T) {
	f := openTestELF64(t, false)
	iterator := f.Segments()
	if iterator.Len() != 2 {
		t.Logf("Expected 2 segments, got %d\n", iterator.Len())
		t.Fail()
	}
	expected := []ProgramHeaderType{ProgramHeaderSegment, LoadableSegment}
	for i, expectedType := range expected {
		segment, e := iterator.Next()
		if e != nil {
			t.Logf("Failed reading segment %d: %s\n", i, e)
			t.FailNow()
		}
		if segment.GetType() != expectedType {
			t.Logf("Wrong type for segment %d: %s\n", i, segment.GetType())
			t.Fail()
		}
	}
	_, e := iterator.Next()
	if e != io.EOF {
		t.Logf("Expected io.EOF after the last segment, got %v\n", e)
		t.Fail()
	}
	iterator.Reset()
	segment, e := iterator.Next()
	if (e != nil) || (segment.GetType() != ProgramHeaderSegment) {
		t.Logf("Reset didn't rewind to the first segment: %v\n", e)
		t.Fail()
	}
}

func TestSymbolIteratorTotal(t *testing.T) {
	f := openTestELF64(t, false)
	iterator := f.Symbols()
	if iterator.Len() != 6 {
		t.Logf("Expected 6 symbols, got %d\n", iterator.Len())
		t.Fail()
	}
	count := 0
	for {
		_, e := iterator.Next()
		if e == io.EOF {
			break
		}
		if e != nil {
			t.Logf("Failed reading symbol %d: %s\n", count, e)
			t.FailNow()
		}
		count++
	}
	if count != 6 {
		t.Logf("Drained %d symbols, expected 6\n", count)
		t.Fail()
	}
	// Draining must not change the reported total.
	if iterator.Len() != 6 {
		t.Logf("Len changed after draining: %d\n", iterator.Len())
		t.Fail()
	}
	iterator.Reset()
	count = 0
	for {
		_, e := iterator.Next()
		if e == io.EOF {
			break
		}
		if e != nil {
			t.Logf("Failed re-reading symbol %d: %s\n", count, e)
			t.FailNow()
		}
		count++
	}
	if count != 6 {
		t.Logf("Drained %d symbols after Reset, expected 6\n", count)
		t.Fail()
	}
}

func TestRelocationIteratorArms(t *testing.T) {
	f64 := openTestELF64(t, false)
	iterator := f64.Relocations()
	if iterator.Len() != 2 {
		t.Logf("Expected 2 relocations, got %d\n", iterator.Len())
		t.Fail()
	}
	for i := 0; ; i++ {
		relocation, e := iterator.Next()
		if e == io.EOF {
			break
		}
		if e != nil {
			t.Logf("Failed reading relocation %d: %s\n", i, e)
			t.FailNow()
		}
		if !relocation.HasAddend() {
			t.Logf("Relocation %d from a rela section has no addend arm\n",
				i)
			t.Fail()
		}
		// .rela.text is section 6 in the 64-bit fixture.
		if iterator.SectionIndex() != 6 {
			t.Logf("Wrong section index during traversal: %d\n",
				iterator.SectionIndex())
			t.Fail()
		}
	}
	f32 := openTestELF32(t)
	iterator = f32.Relocations()
	relocation, e := iterator.Next()
	if e != nil {
		t.Logf("Failed reading the 32-bit relocation: %s\n", e)
		t.FailNow()
	}
	if relocation.HasAddend() {
		t.Logf("Relocation from a rel section got the addend arm\n")
		t.Fail()
	}
	if relocation.Addend() != 0 {
		t.Logf("Rel relocation has addend %d\n", relocation.Addend())
		t.Fail()
	}
	if (relocation.SymbolIndex() != 1) || (relocation.Type() != 3) {
		t.Logf("Wrong 32-bit info split: symbol %d, type %d\n",
			relocation.SymbolIndex(), relocation.Type())
		t.Fail()
	}
	// .rel.text is section 4 in the 32-bit fixture.
	if iterator.SectionIndex() != 4 {
		t.Logf("Wrong section index during traversal: %d\n",
			iterator.SectionIndex())
		t.Fail()
	}
}

func TestDynamicIterator(t *testing.T) {
	f := openTestELF64(t, false)
	iterator := f.DynamicEntries()
	if iterator.Len() != 3 {
		t.Logf("Expected 3 dynamic entries, got %d\n", iterator.Len())
		t.Fail()
	}
	expected := []DynamicTag{NeededTag, SonameTag, NullTag}
	for i, expectedTag := range expected {
		entry, e := iterator.Next()
		if e != nil {
			t.Logf("Failed reading dynamic entry %d: %s\n", i, e)
			t.FailNow()
		}
		if DynamicTag(entry.GetTag().GetValue()) != expectedTag {
			t.Logf("Wrong tag for dynamic entry %d: %s\n", i,
				entry.GetTag())
			t.Fail()
		}
	}
}
