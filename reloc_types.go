package elfy

// This file contains the per-architecture relocation type catalogs. Each
// machine with a catalog gets its own named type satisfying RelocationType,
// so callers can switch on the concrete type to recover the architecture.
// Unlike the other catalogs in this package, the lookup here reports errors:
// a machine without a catalog and a code outside a machine's catalog are both
// failures rather than "unknown" strings, since a caller asking for a decoded
// relocation type presumably intends to act on it.

import (
	"fmt"
)

// A relocation type decoded for a specific machine architecture. The dynamic
// type of a RelocationType is one of the per-machine types in this file
// (X86_64RelocationType, ARMRelocationType, and so on).
type RelocationType interface {
	// Returns the machine architecture the type belongs to.
	Machine() MachineType
	// Returns the raw numeric code from the relocation's info field.
	Value() uint32
	String() string
}

type X86_64RelocationType uint32
type I386RelocationType uint32
type ARM64RelocationType uint32
type ARMRelocationType uint32
type RISCVRelocationType uint32
type MIPSRelocationType uint32
type SPARCRelocationType uint32
type PowerPCRelocationType uint32
type PowerPC64RelocationType uint32
type S390RelocationType uint32
type AlphaRelocationType uint32
type LoongArchRelocationType uint32

var x86_64RelocationNames = map[uint32]string{
	0:  "R_X86_64_NONE",
	1:  "R_X86_64_64",
	2:  "R_X86_64_PC32",
	3:  "R_X86_64_GOT32",
	4:  "R_X86_64_PLT32",
	5:  "R_X86_64_COPY",
	6:  "R_X86_64_GLOB_DAT",
	7:  "R_X86_64_JUMP_SLOT",
	8:  "R_X86_64_RELATIVE",
	9:  "R_X86_64_GOTPCREL",
	10: "R_X86_64_32",
	11: "R_X86_64_32S",
	12: "R_X86_64_16",
	13: "R_X86_64_PC16",
	14: "R_X86_64_8",
	15: "R_X86_64_PC8",
	16: "R_X86_64_DTPMOD64",
	17: "R_X86_64_DTPOFF64",
	18: "R_X86_64_TPOFF64",
	19: "R_X86_64_TLSGD",
	20: "R_X86_64_TLSLD",
	21: "R_X86_64_DTPOFF32",
	22: "R_X86_64_GOTTPOFF",
	23: "R_X86_64_TPOFF32",
	24: "R_X86_64_PC64",
	25: "R_X86_64_GOTOFF64",
	26: "R_X86_64_GOTPC32",
	32: "R_X86_64_SIZE32",
	33: "R_X86_64_SIZE64",
	34: "R_X86_64_GOTPC32_TLSDESC",
	35: "R_X86_64_TLSDESC_CALL",
	36: "R_X86_64_TLSDESC",
	37: "R_X86_64_IRELATIVE",
	41: "R_X86_64_GOTPCRELX",
	42: "R_X86_64_REX_GOTPCRELX",
}

var i386RelocationNames = map[uint32]string{
	0:  "R_386_NONE",
	1:  "R_386_32",
	2:  "R_386_PC32",
	3:  "R_386_GOT32",
	4:  "R_386_PLT32",
	5:  "R_386_COPY",
	6:  "R_386_GLOB_DAT",
	7:  "R_386_JMP_SLOT",
	8:  "R_386_RELATIVE",
	9:  "R_386_GOTOFF",
	10: "R_386_GOTPC",
	14: "R_386_TLS_TPOFF",
	15: "R_386_TLS_IE",
	16: "R_386_TLS_GOTIE",
	17: "R_386_TLS_LE",
	18: "R_386_TLS_GD",
	19: "R_386_TLS_LDM",
	20: "R_386_16",
	21: "R_386_PC16",
	22: "R_386_8",
	23: "R_386_PC8",
	35: "R_386_TLS_DTPMOD32",
	36: "R_386_TLS_DTPOFF32",
	37: "R_386_TLS_TPOFF32",
	42: "R_386_IRELATIVE",
	43: "R_386_GOT32X",
}

var arm64RelocationNames = map[uint32]string{
	0:    "R_AARCH64_NONE",
	257:  "R_AARCH64_ABS64",
	258:  "R_AARCH64_ABS32",
	259:  "R_AARCH64_ABS16",
	260:  "R_AARCH64_PREL64",
	261:  "R_AARCH64_PREL32",
	262:  "R_AARCH64_PREL16",
	274:  "R_AARCH64_ADR_PREL_LO21",
	275:  "R_AARCH64_ADR_PREL_PG_HI21",
	277:  "R_AARCH64_ADD_ABS_LO12_NC",
	278:  "R_AARCH64_LDST8_ABS_LO12_NC",
	279:  "R_AARCH64_TSTBR14",
	280:  "R_AARCH64_CONDBR19",
	282:  "R_AARCH64_JUMP26",
	283:  "R_AARCH64_CALL26",
	284:  "R_AARCH64_LDST16_ABS_LO12_NC",
	285:  "R_AARCH64_LDST32_ABS_LO12_NC",
	286:  "R_AARCH64_LDST64_ABS_LO12_NC",
	311:  "R_AARCH64_ADR_GOT_PAGE",
	312:  "R_AARCH64_LD64_GOT_LO12_NC",
	1024: "R_AARCH64_COPY",
	1025: "R_AARCH64_GLOB_DAT",
	1026: "R_AARCH64_JUMP_SLOT",
	1027: "R_AARCH64_RELATIVE",
	1028: "R_AARCH64_TLS_DTPMOD64",
	1029: "R_AARCH64_TLS_DTPREL64",
	1030: "R_AARCH64_TLS_TPREL64",
	1031: "R_AARCH64_TLSDESC",
	1032: "R_AARCH64_IRELATIVE",
}

var armRelocationNames = map[uint32]string{
	0:   "R_ARM_NONE",
	1:   "R_ARM_PC24",
	2:   "R_ARM_ABS32",
	3:   "R_ARM_REL32",
	5:   "R_ARM_ABS16",
	8:   "R_ARM_ABS8",
	10:  "R_ARM_THM_CALL",
	20:  "R_ARM_COPY",
	21:  "R_ARM_GLOB_DAT",
	22:  "R_ARM_JUMP_SLOT",
	23:  "R_ARM_RELATIVE",
	24:  "R_ARM_GOTOFF32",
	25:  "R_ARM_BASE_PREL",
	26:  "R_ARM_GOT_BREL",
	27:  "R_ARM_PLT32",
	28:  "R_ARM_CALL",
	29:  "R_ARM_JUMP24",
	30:  "R_ARM_THM_JUMP24",
	38:  "R_ARM_TARGET1",
	40:  "R_ARM_V4BX",
	42:  "R_ARM_PREL31",
	43:  "R_ARM_MOVW_ABS_NC",
	44:  "R_ARM_MOVT_ABS",
	47:  "R_ARM_THM_MOVW_ABS_NC",
	48:  "R_ARM_THM_MOVT_ABS",
	100: "R_ARM_GNU_VTENTRY",
	101: "R_ARM_GNU_VTINHERIT",
}

var riscvRelocationNames = map[uint32]string{
	0:  "R_RISCV_NONE",
	1:  "R_RISCV_32",
	2:  "R_RISCV_64",
	3:  "R_RISCV_RELATIVE",
	4:  "R_RISCV_COPY",
	5:  "R_RISCV_JUMP_SLOT",
	6:  "R_RISCV_TLS_DTPMOD32",
	7:  "R_RISCV_TLS_DTPMOD64",
	8:  "R_RISCV_TLS_DTPREL32",
	9:  "R_RISCV_TLS_DTPREL64",
	10: "R_RISCV_TLS_TPREL32",
	11: "R_RISCV_TLS_TPREL64",
	16: "R_RISCV_BRANCH",
	17: "R_RISCV_JAL",
	18: "R_RISCV_CALL",
	19: "R_RISCV_CALL_PLT",
	20: "R_RISCV_GOT_HI20",
	21: "R_RISCV_TLS_GOT_HI20",
	22: "R_RISCV_TLS_GD_HI20",
	23: "R_RISCV_PCREL_HI20",
	24: "R_RISCV_PCREL_LO12_I",
	25: "R_RISCV_PCREL_LO12_S",
	26: "R_RISCV_HI20",
	27: "R_RISCV_LO12_I",
	28: "R_RISCV_LO12_S",
	51: "R_RISCV_RELAX",
	58: "R_RISCV_IRELATIVE",
}

var mipsRelocationNames = map[uint32]string{
	0:  "R_MIPS_NONE",
	1:  "R_MIPS_16",
	2:  "R_MIPS_32",
	3:  "R_MIPS_REL32",
	4:  "R_MIPS_26",
	5:  "R_MIPS_HI16",
	6:  "R_MIPS_LO16",
	7:  "R_MIPS_GPREL16",
	8:  "R_MIPS_LITERAL",
	9:  "R_MIPS_GOT16",
	10: "R_MIPS_PC16",
	11: "R_MIPS_CALL16",
	12: "R_MIPS_GPREL32",
	18: "R_MIPS_64",
	19: "R_MIPS_GOT_DISP",
	20: "R_MIPS_GOT_PAGE",
	21: "R_MIPS_GOT_OFST",
	22: "R_MIPS_GOT_HI16",
	23: "R_MIPS_GOT_LO16",
	30: "R_MIPS_CALL_HI16",
	31: "R_MIPS_CALL_LO16",
	37: "R_MIPS_JALR",
	38: "R_MIPS_TLS_DTPMOD32",
	47: "R_MIPS_TLS_TPREL32",
}

var sparcRelocationNames = map[uint32]string{
	0:  "R_SPARC_NONE",
	1:  "R_SPARC_8",
	2:  "R_SPARC_16",
	3:  "R_SPARC_32",
	4:  "R_SPARC_DISP8",
	5:  "R_SPARC_DISP16",
	6:  "R_SPARC_DISP32",
	7:  "R_SPARC_WDISP30",
	8:  "R_SPARC_WDISP22",
	9:  "R_SPARC_HI22",
	10: "R_SPARC_22",
	11: "R_SPARC_13",
	12: "R_SPARC_LO10",
	13: "R_SPARC_GOT10",
	14: "R_SPARC_GOT13",
	15: "R_SPARC_GOT22",
	16: "R_SPARC_PC10",
	17: "R_SPARC_PC22",
	18: "R_SPARC_WPLT30",
	19: "R_SPARC_COPY",
	20: "R_SPARC_GLOB_DAT",
	21: "R_SPARC_JMP_SLOT",
	22: "R_SPARC_RELATIVE",
	23: "R_SPARC_UA32",
	32: "R_SPARC_64",
	54: "R_SPARC_UA64",
}

var ppcRelocationNames = map[uint32]string{
	0:  "R_PPC_NONE",
	1:  "R_PPC_ADDR32",
	2:  "R_PPC_ADDR24",
	3:  "R_PPC_ADDR16",
	4:  "R_PPC_ADDR16_LO",
	5:  "R_PPC_ADDR16_HI",
	6:  "R_PPC_ADDR16_HA",
	7:  "R_PPC_ADDR14",
	10: "R_PPC_REL24",
	11: "R_PPC_REL14",
	14: "R_PPC_GOT16",
	15: "R_PPC_GOT16_LO",
	16: "R_PPC_GOT16_HI",
	17: "R_PPC_GOT16_HA",
	18: "R_PPC_PLTREL24",
	19: "R_PPC_COPY",
	20: "R_PPC_GLOB_DAT",
	21: "R_PPC_JMP_SLOT",
	22: "R_PPC_RELATIVE",
	26: "R_PPC_REL32",
}

var ppc64RelocationNames = map[uint32]string{
	0:   "R_PPC64_NONE",
	1:   "R_PPC64_ADDR32",
	2:   "R_PPC64_ADDR24",
	3:   "R_PPC64_ADDR16",
	4:   "R_PPC64_ADDR16_LO",
	5:   "R_PPC64_ADDR16_HI",
	6:   "R_PPC64_ADDR16_HA",
	10:  "R_PPC64_REL24",
	14:  "R_PPC64_GOT16",
	19:  "R_PPC64_COPY",
	20:  "R_PPC64_GLOB_DAT",
	21:  "R_PPC64_JMP_SLOT",
	22:  "R_PPC64_RELATIVE",
	26:  "R_PPC64_REL32",
	38:  "R_PPC64_ADDR64",
	44:  "R_PPC64_REL64",
	51:  "R_PPC64_TOC",
	56:  "R_PPC64_ADDR16_DS",
	57:  "R_PPC64_ADDR16_LO_DS",
	63:  "R_PPC64_TOC16_DS",
	248: "R_PPC64_IRELATIVE",
}

var s390RelocationNames = map[uint32]string{
	0:  "R_390_NONE",
	1:  "R_390_8",
	2:  "R_390_12",
	3:  "R_390_16",
	4:  "R_390_32",
	5:  "R_390_PC32",
	6:  "R_390_GOT12",
	7:  "R_390_GOT32",
	8:  "R_390_PLT32",
	9:  "R_390_COPY",
	10: "R_390_GLOB_DAT",
	11: "R_390_JMP_SLOT",
	12: "R_390_RELATIVE",
	13: "R_390_GOTOFF",
	14: "R_390_GOTPC",
	15: "R_390_GOT16",
	16: "R_390_PC16",
	17: "R_390_PC16DBL",
	18: "R_390_PLT16DBL",
	19: "R_390_PC32DBL",
	20: "R_390_PLT32DBL",
	21: "R_390_GOTPCDBL",
	22: "R_390_64",
	23: "R_390_PC64",
	24: "R_390_GOT64",
	25: "R_390_PLT64",
	26: "R_390_GOTENT",
	61: "R_390_IRELATIVE",
}

var alphaRelocationNames = map[uint32]string{
	0:  "R_ALPHA_NONE",
	1:  "R_ALPHA_REFLONG",
	2:  "R_ALPHA_REFQUAD",
	3:  "R_ALPHA_GPREL32",
	4:  "R_ALPHA_LITERAL",
	5:  "R_ALPHA_LITUSE",
	6:  "R_ALPHA_GPDISP",
	7:  "R_ALPHA_BRADDR",
	8:  "R_ALPHA_HINT",
	9:  "R_ALPHA_SREL16",
	10: "R_ALPHA_SREL32",
	11: "R_ALPHA_SREL64",
	17: "R_ALPHA_GPRELHIGH",
	18: "R_ALPHA_GPRELLOW",
	19: "R_ALPHA_GPREL16",
	24: "R_ALPHA_COPY",
	25: "R_ALPHA_GLOB_DAT",
	26: "R_ALPHA_JMP_SLOT",
	27: "R_ALPHA_RELATIVE",
}

var loongarchRelocationNames = map[uint32]string{
	0:   "R_LARCH_NONE",
	1:   "R_LARCH_32",
	2:   "R_LARCH_64",
	3:   "R_LARCH_RELATIVE",
	4:   "R_LARCH_COPY",
	5:   "R_LARCH_JUMP_SLOT",
	6:   "R_LARCH_TLS_DTPMOD32",
	7:   "R_LARCH_TLS_DTPMOD64",
	8:   "R_LARCH_TLS_DTPREL32",
	9:   "R_LARCH_TLS_DTPREL64",
	10:  "R_LARCH_TLS_TPREL32",
	11:  "R_LARCH_TLS_TPREL64",
	12:  "R_LARCH_IRELATIVE",
	64:  "R_LARCH_B16",
	65:  "R_LARCH_B21",
	66:  "R_LARCH_B26",
	67:  "R_LARCH_ABS_HI20",
	68:  "R_LARCH_ABS_LO12",
	71:  "R_LARCH_PCALA_HI20",
	72:  "R_LARCH_PCALA_LO12",
	75:  "R_LARCH_GOT_PC_HI20",
	76:  "R_LARCH_GOT_PC_LO12",
	100: "R_LARCH_RELAX",
}

func relocationName(names map[uint32]string, machine MachineType,
	value uint32) string {
	name, ok := names[value]
	if !ok {
		return fmt.Sprintf("unknown %s relocation type: %d", machine, value)
	}
	return name
}

func (t X86_64RelocationType) Machine() MachineType { return MachineTypeAMD64 }
func (t X86_64RelocationType) Value() uint32        { return uint32(t) }
func (t X86_64RelocationType) String() string {
	return relocationName(x86_64RelocationNames, t.Machine(), uint32(t))
}

func (t I386RelocationType) Machine() MachineType { return MachineTypeX86 }
func (t I386RelocationType) Value() uint32        { return uint32(t) }
func (t I386RelocationType) String() string {
	return relocationName(i386RelocationNames, t.Machine(), uint32(t))
}

func (t ARM64RelocationType) Machine() MachineType { return MachineTypeARM64 }
func (t ARM64RelocationType) Value() uint32        { return uint32(t) }
func (t ARM64RelocationType) String() string {
	return relocationName(arm64RelocationNames, t.Machine(), uint32(t))
}

func (t ARMRelocationType) Machine() MachineType { return MachineTypeARM }
func (t ARMRelocationType) Value() uint32        { return uint32(t) }
func (t ARMRelocationType) String() string {
	return relocationName(armRelocationNames, t.Machine(), uint32(t))
}

func (t RISCVRelocationType) Machine() MachineType { return MachineTypeRISCV }
func (t RISCVRelocationType) Value() uint32        { return uint32(t) }
func (t RISCVRelocationType) String() string {
	return relocationName(riscvRelocationNames, t.Machine(), uint32(t))
}

func (t MIPSRelocationType) Machine() MachineType { return MachineTypeMIPS }
func (t MIPSRelocationType) Value() uint32        { return uint32(t) }
func (t MIPSRelocationType) String() string {
	return relocationName(mipsRelocationNames, t.Machine(), uint32(t))
}

func (t SPARCRelocationType) Machine() MachineType { return MachineTypeSPARC }
func (t SPARCRelocationType) Value() uint32        { return uint32(t) }
func (t SPARCRelocationType) String() string {
	return relocationName(sparcRelocationNames, t.Machine(), uint32(t))
}

func (t PowerPCRelocationType) Machine() MachineType {
	return MachineTypePowerPC
}
func (t PowerPCRelocationType) Value() uint32 { return uint32(t) }
func (t PowerPCRelocationType) String() string {
	return relocationName(ppcRelocationNames, t.Machine(), uint32(t))
}

func (t PowerPC64RelocationType) Machine() MachineType {
	return MachineTypePowerPC64
}
func (t PowerPC64RelocationType) Value() uint32 { return uint32(t) }
func (t PowerPC64RelocationType) String() string {
	return relocationName(ppc64RelocationNames, t.Machine(), uint32(t))
}

func (t S390RelocationType) Machine() MachineType { return MachineTypeS390 }
func (t S390RelocationType) Value() uint32        { return uint32(t) }
func (t S390RelocationType) String() string {
	return relocationName(s390RelocationNames, t.Machine(), uint32(t))
}

func (t AlphaRelocationType) Machine() MachineType { return MachineTypeAlpha }
func (t AlphaRelocationType) Value() uint32        { return uint32(t) }
func (t AlphaRelocationType) String() string {
	return relocationName(alphaRelocationNames, t.Machine(), uint32(t))
}

func (t LoongArchRelocationType) Machine() MachineType {
	return MachineTypeLoongArch
}
func (t LoongArchRelocationType) Value() uint32 { return uint32(t) }
func (t LoongArchRelocationType) String() string {
	return relocationName(loongarchRelocationNames, t.Machine(), uint32(t))
}

// Converts a raw relocation type code into the catalog entry for the given
// machine. Returns ErrUnknownRelocationArch if no catalog exists for the
// machine, and ErrUnknownRelocationCode if the code isn't in the machine's
// catalog.
func DecodeRelocationType(machine MachineType, code uint32) (RelocationType,
	error) {
	var names map[uint32]string
	var decoded RelocationType
	switch machine {
	case MachineTypeAMD64:
		names, decoded = x86_64RelocationNames, X86_64RelocationType(code)
	case MachineTypeX86:
		names, decoded = i386RelocationNames, I386RelocationType(code)
	case MachineTypeARM64:
		names, decoded = arm64RelocationNames, ARM64RelocationType(code)
	case MachineTypeARM:
		names, decoded = armRelocationNames, ARMRelocationType(code)
	case MachineTypeRISCV:
		names, decoded = riscvRelocationNames, RISCVRelocationType(code)
	case MachineTypeMIPS:
		names, decoded = mipsRelocationNames, MIPSRelocationType(code)
	case MachineTypeSPARC:
		names, decoded = sparcRelocationNames, SPARCRelocationType(code)
	case MachineTypePowerPC:
		names, decoded = ppcRelocationNames, PowerPCRelocationType(code)
	case MachineTypePowerPC64:
		names, decoded = ppc64RelocationNames, PowerPC64RelocationType(code)
	case MachineTypeS390:
		names, decoded = s390RelocationNames, S390RelocationType(code)
	case MachineTypeAlpha:
		names, decoded = alphaRelocationNames, AlphaRelocationType(code)
	case MachineTypeLoongArch:
		names, decoded = loongarchRelocationNames,
			LoongArchRelocationType(code)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownRelocationArch, machine)
	}
	if _, ok := names[code]; !ok {
		return nil, fmt.Errorf("%w: %d for %s", ErrUnknownRelocationCode,
			code, machine)
	}
	return decoded, nil
}
