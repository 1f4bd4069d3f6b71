// The elf_view executable is yet-another-ELF-viewer program joining the likes
// of objdump and readelf, but is probably less complete. It exists primarily
// to facilitate testing of the elfy package.
//
// Example usage: ./elf_view -file <elf_file> -sections
//
// The -file argument defaults to the ELF_VIEW_FILE environment variable when
// it is set.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/rawC1nnamon/elfy"
	"github.com/xyproto/env/v2"
	"golang.org/x/arch/x86/x86asm"
)

func printHeader(f *elfy.File) {
	header := f.Header()
	log.Printf("%s\n", header)
	log.Printf("  type: %s, entry point: 0x%x\n", header.GetType(),
		header.GetEntryPoint())
	log.Printf("  %d segments, %d sections, section names in section %d\n",
		header.GetProgramHeaderCount(), header.GetSectionHeaderCount(),
		header.GetSectionNamesTableIndex())
}

func printSections(f *elfy.File) error {
	iterator := f.Sections()
	for i := 0; ; i++ {
		section, e := iterator.Next()
		if e == io.EOF {
			return nil
		}
		if e != nil {
			return fmt.Errorf("Error reading section %d: %s", i, e)
		}
		var name string
		if i != 0 {
			name, e = f.SectionName(section)
			if e != nil {
				return fmt.Errorf("Error getting section %d name: %s", i, e)
			}
		} else {
			name = "<null section>"
		}
		log.Printf("%d. %s: %s\n", i, name, section)
	}
}

func printSegments(f *elfy.File) error {
	iterator := f.Segments()
	for i := 0; ; i++ {
		segment, e := iterator.Next()
		if e == io.EOF {
			return nil
		}
		if e != nil {
			return fmt.Errorf("Error reading segment %d: %s", i, e)
		}
		log.Printf("%d. %s\n", i, segment)
	}
}

func printSymbols(f *elfy.File) error {
	iterator := f.Symbols()
	log.Printf("%d symbols:\n", iterator.Len())
	for i := 0; ; i++ {
		symbol, e := iterator.Next()
		if e == io.EOF {
			return nil
		}
		if e != nil {
			return fmt.Errorf("Error reading symbol %d: %s", i, e)
		}
		name, e := f.SymbolName(symbol)
		if e != nil {
			name = "<unknown>"
		}
		log.Printf("  %d. %s: %s\n", i, name, symbol)
	}
}

func printDynamicTable(f *elfy.File) error {
	iterator := f.DynamicEntries()
	for i := 0; ; i++ {
		entry, e := iterator.Next()
		if e == io.EOF {
			return nil
		}
		if e != nil {
			return fmt.Errorf("Error reading dynamic entry %d: %s", i, e)
		}
		name, ok, e := f.DynName(entry)
		if e != nil {
			return fmt.Errorf("Error resolving dynamic entry %d name: %s",
				i, e)
		}
		if ok {
			log.Printf("  %d. %s: %s\n", i, entry.GetTag(), name)
		} else {
			log.Printf("  %d. %s\n", i, entry)
		}
		// Entries past the terminating null tag are unused.
		if entry.GetTag().GetValue() == 0 {
			return nil
		}
	}
}

func printRelocations(f *elfy.File) error {
	machine := f.Header().GetMachine()
	iterator := f.Relocations()
	log.Printf("%d relocations:\n", iterator.Len())
	for i := 0; ; i++ {
		relocation, e := iterator.Next()
		if e == io.EOF {
			return nil
		}
		if e != nil {
			return fmt.Errorf("Error reading relocation %d: %s", i, e)
		}
		typeString := fmt.Sprintf("type %d", relocation.Type())
		decoded, e := relocation.DecodedType(machine)
		if e == nil {
			typeString = decoded.String()
		}
		symbolString := ""
		symbol, e := f.RelocationLinkedSymbol(relocation,
			iterator.SectionIndex())
		if e == nil {
			name, e := f.SymbolName(symbol)
			if (e == nil) && (name != "") {
				symbolString = fmt.Sprintf(" (%s)", name)
			}
		}
		log.Printf("  %d. %s: %s%s\n", i, typeString, relocation,
			symbolString)
	}
}

// Prints an instruction listing of the named section. Only x86 and x86-64
// files are supported.
func disassembleSection(f *elfy.File, name string) error {
	var mode int
	switch f.Header().GetMachine() {
	case elfy.MachineTypeAMD64:
		mode = 64
	case elfy.MachineTypeX86:
		mode = 32
	default:
		return fmt.Errorf("Can't disassemble %s code",
			f.Header().GetMachine())
	}
	section, e := f.SectionByName(name)
	if e != nil {
		return fmt.Errorf("Couldn't find section %s: %s", name, e)
	}
	content, e := f.SectionData(section)
	if e != nil {
		return fmt.Errorf("Couldn't read section %s: %s", name, e)
	}
	address := section.GetVirtualAddress()
	log.Printf("Listing of section %s:\n", name)
	for x := 0; x < len(content); {
		instruction, e := x86asm.Decode(content[x:], mode)
		if e != nil {
			// Skip a byte and try to resynchronize.
			log.Printf("  0x%08x: .byte 0x%02x\n", address+uint64(x),
				content[x])
			x++
			continue
		}
		log.Printf("  0x%08x: %s\n", address+uint64(x), instruction)
		x += instruction.Len
	}
	return nil
}

func run() int {
	var inputFile string
	var showHeader, showSections, showSegments, showSymbols, showDynamic,
		showRelocations bool
	var disasmSection string
	var dumpSection int
	flag.StringVar(&inputFile, "file", env.Str("ELF_VIEW_FILE"),
		"The path to the input ELF file. This is required. Defaults to the "+
			"ELF_VIEW_FILE environment variable.")
	flag.BoolVar(&showHeader, "header", false,
		"Print the file header if set.")
	flag.BoolVar(&showSections, "sections", false,
		"Print a list of sections in the ELF file if set.")
	flag.BoolVar(&showSegments, "segments", false,
		"Print a list of segments (program headers) if set.")
	flag.BoolVar(&showSymbols, "symbols", false,
		"Print a list of symbols if set.")
	flag.BoolVar(&showDynamic, "dynamic", false,
		"Prints a list of dynamic linking table entries if set.")
	flag.BoolVar(&showRelocations, "relocations", false,
		"Prints a list of relocations if set.")
	flag.StringVar(&disasmSection, "disasm", "",
		"If a section name is provided, prints an instruction listing of "+
			"the section. x86 and x86-64 files only.")
	flag.IntVar(&dumpSection, "dump_section", -1,
		"If a valid section index is provided, binary contents of the section"+
			" will be dumped to stdout and other output will be surpressed.")
	flag.Parse()
	if inputFile == "" {
		log.Println("Invalid arguments. Run with -help for more information.")
		return 1
	}
	f, e := elfy.Open(inputFile, false)
	if e != nil {
		log.Printf("Failed parsing the input file: %s\n", e)
		return 1
	}
	defer f.Close()
	if dumpSection != -1 {
		section, e := f.SectionByIndex(uint16(dumpSection))
		if e != nil {
			log.Printf("Failed finding section %d: %s\n", dumpSection, e)
			return 1
		}
		content, e := f.SectionData(section)
		if e != nil {
			log.Printf("Failed dumping section contents: %s\n", e)
			return 1
		}
		os.Stdout.Write(content)
		return 0
	}
	log.Printf("Successfully parsed file %s\n", inputFile)
	if showHeader {
		log.Println("==== Header ====")
		printHeader(f)
	}
	if showSections {
		log.Println("==== Sections ====")
		e = printSections(f)
		if e != nil {
			log.Printf("Error printing sections: %s\n", e)
			return 1
		}
	}
	if showSegments {
		log.Println("==== Segments ====")
		e = printSegments(f)
		if e != nil {
			log.Printf("Error printing segments: %s\n", e)
			return 1
		}
	}
	if showSymbols {
		log.Println("==== Symbols ====")
		e = printSymbols(f)
		if e != nil {
			log.Printf("Error printing symbols: %s\n", e)
			return 1
		}
	}
	if showDynamic {
		log.Println("==== Dynamic linking table ====")
		e = printDynamicTable(f)
		if e != nil {
			log.Printf("Error printing the dynamic linking table: %s\n", e)
			return 1
		}
	}
	if showRelocations {
		log.Println("==== Relocations ====")
		e = printRelocations(f)
		if e != nil {
			log.Printf("Error printing relocations: %s\n", e)
			return 1
		}
	}
	if disasmSection != "" {
		e = disassembleSection(f, disasmSection)
		if e != nil {
			log.Printf("Error disassembling: %s\n", e)
			return 1
		}
	}
	return 0
}

func main() {
	log.SetFlags(0)
	log.SetOutput(os.Stdout)
	os.Exit(run())
}
