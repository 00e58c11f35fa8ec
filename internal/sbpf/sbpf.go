// Package sbpf describes the Solana SBF instruction set as far as static
// analysis needs it: opcode numbering, the virtual memory map, and textual
// rendering of decoded instructions.
package sbpf

// sBPF instruction format:
// +------------------------+----------------+------+------+--------+
// |         imm (32)       |   offset (16)  | src  | dst  | opcode |
// +------------------------+----------------+------+------+--------+
// MSB                                                           LSB

const (
	// InsnSize is the size of one encoded instruction slot, in bytes.
	InsnSize = 8

	// FramePtrReg is the frame pointer register number.
	FramePtrReg = 10
)

// Memory map regions. Region virtual addresses are 1<<32 bytes apart;
// region 0 is unused so NULL dereferences fault.
const (
	MMRodataStart = 0x100000000
	MMStackStart  = 0x200000000
	MMHeapStart   = 0x300000000
	MMInputStart  = 0x400000000
)

// Instruction classes (lower 3 bits of opcode).
const (
	ClassLD    = 0x00
	ClassLDX   = 0x01
	ClassST    = 0x02
	ClassSTX   = 0x03
	ClassALU   = 0x04
	ClassJMP   = 0x05
	ClassPQR   = 0x06 // product/quotient/remainder, SBPF v2+
	ClassALU64 = 0x07
)

// Source modifiers.
const (
	SrcImm = 0x00
	SrcReg = 0x08
)

// Memory access widths.
const (
	SizeW  = 0x00
	SizeH  = 0x08
	SizeB  = 0x10
	SizeDW = 0x18
)

// ALU / PQR operations (upper 4 bits of opcode).
const (
	AluAdd  = 0x00
	AluSub  = 0x10
	AluMul  = 0x20
	AluDiv  = 0x30
	AluOr   = 0x40
	AluAnd  = 0x50
	AluLsh  = 0x60
	AluRsh  = 0x70
	AluNeg  = 0x80
	AluMod  = 0x90
	AluXor  = 0xa0
	AluMov  = 0xb0
	AluArsh = 0xc0
	AluEnd  = 0xd0
	AluHor  = 0xf0
)

// Jump operations (upper 4 bits of opcode).
const (
	JmpJA   = 0x00
	JmpJEQ  = 0x10
	JmpJGT  = 0x20
	JmpJGE  = 0x30
	JmpJSET = 0x40
	JmpJNE  = 0x50
	JmpJSGT = 0x60
	JmpJSGE = 0x70
	JmpCall = 0x80
	JmpExit = 0x90
	JmpJLT  = 0xa0
	JmpJLE  = 0xb0
	JmpJSLT = 0xc0
	JmpJSLE = 0xd0
)

// Full opcodes.
const (
	// Wide immediate load (two slots, until v2).
	LD_DW_IMM = ClassLD | SizeDW | SrcImm // 0x18

	// Register-relative loads.
	LD_W_REG  = 0x60 | ClassLDX | SizeW  // 0x61
	LD_H_REG  = 0x60 | ClassLDX | SizeH  // 0x69
	LD_B_REG  = 0x60 | ClassLDX | SizeB  // 0x71
	LD_DW_REG = 0x60 | ClassLDX | SizeDW // 0x79

	// Stores.
	ST_W_IMM  = 0x60 | ClassST | SizeW   // 0x62
	ST_H_IMM  = 0x60 | ClassST | SizeH   // 0x6a
	ST_B_IMM  = 0x60 | ClassST | SizeB   // 0x72
	ST_DW_IMM = 0x60 | ClassST | SizeDW  // 0x7a
	ST_W_REG  = 0x60 | ClassSTX | SizeW  // 0x63
	ST_H_REG  = 0x60 | ClassSTX | SizeH  // 0x6b
	ST_B_REG  = 0x60 | ClassSTX | SizeB  // 0x73
	ST_DW_REG = 0x60 | ClassSTX | SizeDW // 0x7b

	// 32-bit ALU.
	ADD32_IMM  = ClassALU | AluAdd | SrcImm  // 0x04
	ADD32_REG  = ClassALU | AluAdd | SrcReg  // 0x0c
	SUB32_IMM  = ClassALU | AluSub | SrcImm  // 0x14
	SUB32_REG  = ClassALU | AluSub | SrcReg  // 0x1c
	MUL32_IMM  = ClassALU | AluMul | SrcImm  // 0x24
	MUL32_REG  = ClassALU | AluMul | SrcReg  // 0x2c
	DIV32_IMM  = ClassALU | AluDiv | SrcImm  // 0x34
	DIV32_REG  = ClassALU | AluDiv | SrcReg  // 0x3c
	OR32_IMM   = ClassALU | AluOr | SrcImm   // 0x44
	OR32_REG   = ClassALU | AluOr | SrcReg   // 0x4c
	AND32_IMM  = ClassALU | AluAnd | SrcImm  // 0x54
	AND32_REG  = ClassALU | AluAnd | SrcReg  // 0x5c
	LSH32_IMM  = ClassALU | AluLsh | SrcImm  // 0x64
	LSH32_REG  = ClassALU | AluLsh | SrcReg  // 0x6c
	RSH32_IMM  = ClassALU | AluRsh | SrcImm  // 0x74
	RSH32_REG  = ClassALU | AluRsh | SrcReg  // 0x7c
	NEG32      = ClassALU | AluNeg           // 0x84
	MOD32_IMM  = ClassALU | AluMod | SrcImm  // 0x94
	MOD32_REG  = ClassALU | AluMod | SrcReg  // 0x9c
	XOR32_IMM  = ClassALU | AluXor | SrcImm  // 0xa4
	XOR32_REG  = ClassALU | AluXor | SrcReg  // 0xac
	MOV32_IMM  = ClassALU | AluMov | SrcImm  // 0xb4
	MOV32_REG  = ClassALU | AluMov | SrcReg  // 0xbc
	ARSH32_IMM = ClassALU | AluArsh | SrcImm // 0xc4
	ARSH32_REG = ClassALU | AluArsh | SrcReg // 0xcc
	LE         = ClassALU | AluEnd | SrcImm  // 0xd4
	BE         = ClassALU | AluEnd | SrcReg  // 0xdc

	// 64-bit ALU.
	ADD64_IMM  = ClassALU64 | AluAdd | SrcImm  // 0x07
	ADD64_REG  = ClassALU64 | AluAdd | SrcReg  // 0x0f
	SUB64_IMM  = ClassALU64 | AluSub | SrcImm  // 0x17
	SUB64_REG  = ClassALU64 | AluSub | SrcReg  // 0x1f
	MUL64_IMM  = ClassALU64 | AluMul | SrcImm  // 0x27
	MUL64_REG  = ClassALU64 | AluMul | SrcReg  // 0x2f
	DIV64_IMM  = ClassALU64 | AluDiv | SrcImm  // 0x37
	DIV64_REG  = ClassALU64 | AluDiv | SrcReg  // 0x3f
	OR64_IMM   = ClassALU64 | AluOr | SrcImm   // 0x47
	OR64_REG   = ClassALU64 | AluOr | SrcReg   // 0x4f
	AND64_IMM  = ClassALU64 | AluAnd | SrcImm  // 0x57
	AND64_REG  = ClassALU64 | AluAnd | SrcReg  // 0x5f
	LSH64_IMM  = ClassALU64 | AluLsh | SrcImm  // 0x67
	LSH64_REG  = ClassALU64 | AluLsh | SrcReg  // 0x6f
	RSH64_IMM  = ClassALU64 | AluRsh | SrcImm  // 0x77
	RSH64_REG  = ClassALU64 | AluRsh | SrcReg  // 0x7f
	NEG64      = ClassALU64 | AluNeg           // 0x87
	MOD64_IMM  = ClassALU64 | AluMod | SrcImm  // 0x97
	MOD64_REG  = ClassALU64 | AluMod | SrcReg  // 0x9f
	XOR64_IMM  = ClassALU64 | AluXor | SrcImm  // 0xa7
	XOR64_REG  = ClassALU64 | AluXor | SrcReg  // 0xaf
	MOV64_IMM  = ClassALU64 | AluMov | SrcImm  // 0xb7
	MOV64_REG  = ClassALU64 | AluMov | SrcReg  // 0xbf
	ARSH64_IMM = ClassALU64 | AluArsh | SrcImm // 0xc7
	ARSH64_REG = ClassALU64 | AluArsh | SrcReg // 0xcf
	HOR64_IMM  = ClassALU64 | AluHor | SrcImm  // 0xf7, v2+

	// PQR class, SBPF v2+.
	UHMUL64_IMM = ClassPQR | 0x30        // 0x36
	UHMUL64_REG = ClassPQR | 0x30 | 0x08 // 0x3e
	UDIV32_IMM  = ClassPQR | 0x40        // 0x46
	UDIV32_REG  = ClassPQR | 0x40 | 0x08 // 0x4e
	UDIV64_IMM  = ClassPQR | 0x50        // 0x56
	UDIV64_REG  = ClassPQR | 0x50 | 0x08 // 0x5e
	UREM32_IMM  = ClassPQR | 0x60        // 0x66
	UREM32_REG  = ClassPQR | 0x60 | 0x08 // 0x6e
	UREM64_IMM  = ClassPQR | 0x70        // 0x76
	UREM64_REG  = ClassPQR | 0x70 | 0x08 // 0x7e
	LMUL32_IMM  = ClassPQR | 0x80        // 0x86
	LMUL32_REG  = ClassPQR | 0x80 | 0x08 // 0x8e
	LMUL64_IMM  = ClassPQR | 0x90        // 0x96
	LMUL64_REG  = ClassPQR | 0x90 | 0x08 // 0x9e
	SHMUL64_IMM = ClassPQR | 0xb0        // 0xb6
	SHMUL64_REG = ClassPQR | 0xb0 | 0x08 // 0xbe
	SDIV32_IMM  = ClassPQR | 0xc0        // 0xc6
	SDIV32_REG  = ClassPQR | 0xc0 | 0x08 // 0xce
	SDIV64_IMM  = ClassPQR | 0xd0        // 0xd6
	SDIV64_REG  = ClassPQR | 0xd0 | 0x08 // 0xde
	SREM32_IMM  = ClassPQR | 0xe0        // 0xe6
	SREM32_REG  = ClassPQR | 0xe0 | 0x08 // 0xee
	SREM64_IMM  = ClassPQR | 0xf0        // 0xf6
	SREM64_REG  = ClassPQR | 0xf0 | 0x08 // 0xfe

	// Jumps.
	JA       = ClassJMP | JmpJA            // 0x05
	JEQ_IMM  = ClassJMP | JmpJEQ | SrcImm  // 0x15
	JEQ_REG  = ClassJMP | JmpJEQ | SrcReg  // 0x1d
	JGT_IMM  = ClassJMP | JmpJGT | SrcImm  // 0x25
	JGT_REG  = ClassJMP | JmpJGT | SrcReg  // 0x2d
	JGE_IMM  = ClassJMP | JmpJGE | SrcImm  // 0x35
	JGE_REG  = ClassJMP | JmpJGE | SrcReg  // 0x3d
	JSET_IMM = ClassJMP | JmpJSET | SrcImm // 0x45
	JSET_REG = ClassJMP | JmpJSET | SrcReg // 0x4d
	JNE_IMM  = ClassJMP | JmpJNE | SrcImm  // 0x55
	JNE_REG  = ClassJMP | JmpJNE | SrcReg  // 0x5d
	JSGT_IMM = ClassJMP | JmpJSGT | SrcImm // 0x65
	JSGT_REG = ClassJMP | JmpJSGT | SrcReg // 0x6d
	JSGE_IMM = ClassJMP | JmpJSGE | SrcImm // 0x75
	JSGE_REG = ClassJMP | JmpJSGE | SrcReg // 0x7d
	CALL_IMM = ClassJMP | JmpCall          // 0x85
	CALL_REG = ClassJMP | JmpCall | SrcReg // 0x8d
	EXIT     = ClassJMP | JmpExit          // 0x95
	JLT_IMM  = ClassJMP | JmpJLT | SrcImm  // 0xa5
	JLT_REG  = ClassJMP | JmpJLT | SrcReg  // 0xad
	JLE_IMM  = ClassJMP | JmpJLE | SrcImm  // 0xb5
	JLE_REG  = ClassJMP | JmpJLE | SrcReg  // 0xbd
	JSLT_IMM = ClassJMP | JmpJSLT | SrcImm // 0xc5
	JSLT_REG = ClassJMP | JmpJSLT | SrcReg // 0xcd
	JSLE_IMM = ClassJMP | JmpJSLE | SrcImm // 0xd5
	JSLE_REG = ClassJMP | JmpJSLE | SrcReg // 0xdd
)
