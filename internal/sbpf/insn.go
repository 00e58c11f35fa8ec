package sbpf

import "fmt"

// Insn is one decoded sBPF instruction. Wide loads (lddw) occupy two
// encoding slots; the analyzer merges them so Imm carries the full 64-bit
// immediate. Ptr is the program counter of the first slot.
type Insn struct {
	Ptr int    `json:"ptr"`
	Opc uint8  `json:"opc"`
	Dst uint8  `json:"dst"`
	Src uint8  `json:"src"`
	Off int16  `json:"off"`
	Imm int64  `json:"imm"`
}

// Class returns the instruction class bits of the opcode.
func (i Insn) Class() uint8 { return i.Opc & 0x07 }

func offRepr(off int16) string {
	if off < 0 {
		return fmt.Sprintf("-0x%x", -int32(off))
	}
	return fmt.Sprintf("+0x%x", off)
}

func jumpTarget(off int16) string {
	if off < 0 {
		return fmt.Sprintf("-%d", -int32(off))
	}
	return fmt.Sprintf("+%d", off)
}

var aluNames = map[uint8]string{
	AluAdd:  "add",
	AluSub:  "sub",
	AluMul:  "mul",
	AluDiv:  "div",
	AluOr:   "or",
	AluAnd:  "and",
	AluLsh:  "lsh",
	AluRsh:  "rsh",
	AluMod:  "mod",
	AluXor:  "xor",
	AluMov:  "mov",
	AluArsh: "arsh",
}

var pqrNames = map[uint8]string{
	UHMUL64_IMM: "uhmul64",
	UDIV32_IMM:  "udiv32",
	UDIV64_IMM:  "udiv64",
	UREM32_IMM:  "urem32",
	UREM64_IMM:  "urem64",
	LMUL32_IMM:  "lmul32",
	LMUL64_IMM:  "lmul64",
	SHMUL64_IMM: "shmul64",
	SDIV32_IMM:  "sdiv32",
	SDIV64_IMM:  "sdiv64",
	SREM32_IMM:  "srem32",
	SREM64_IMM:  "srem64",
}

var jumpNames = map[uint8]string{
	JmpJEQ:  "jeq",
	JmpJGT:  "jgt",
	JmpJGE:  "jge",
	JmpJSET: "jset",
	JmpJNE:  "jne",
	JmpJSGT: "jsgt",
	JmpJSGE: "jsge",
	JmpJLT:  "jlt",
	JmpJLE:  "jle",
	JmpJSLT: "jslt",
	JmpJSLE: "jsle",
}

var memSuffix = map[uint8]string{
	SizeW:  "w",
	SizeH:  "h",
	SizeB:  "b",
	SizeDW: "dw",
}

// Format renders the base mnemonic text of an instruction, without any
// annotation. The layout follows the conventional sBPF disassembly
// notation (register-relative operands in brackets, relative jump
// targets with an explicit sign).
func (i Insn) Format() string {
	switch i.Class() {
	case ClassLD:
		if i.Opc == LD_DW_IMM {
			return fmt.Sprintf("lddw r%d, 0x%x", i.Dst, uint64(i.Imm))
		}
	case ClassLDX:
		if sfx, ok := memSuffix[i.Opc&0x18]; ok && i.Opc&SrcReg != 0 {
			return fmt.Sprintf("ldx%s r%d, [r%d%s]", sfx, i.Dst, i.Src, offRepr(i.Off))
		}
	case ClassST:
		if sfx, ok := memSuffix[i.Opc&0x18]; ok {
			return fmt.Sprintf("st%s [r%d%s], %d", sfx, i.Dst, offRepr(i.Off), int32(i.Imm))
		}
	case ClassSTX:
		if sfx, ok := memSuffix[i.Opc&0x18]; ok {
			return fmt.Sprintf("stx%s [r%d%s], r%d", sfx, i.Dst, offRepr(i.Off), i.Src)
		}
	case ClassALU, ClassALU64:
		return i.formatAlu()
	case ClassPQR:
		if name, ok := pqrNames[i.Opc&^uint8(SrcReg)]; ok {
			if i.Opc&SrcReg != 0 {
				return fmt.Sprintf("%s r%d, r%d", name, i.Dst, i.Src)
			}
			return fmt.Sprintf("%s r%d, %d", name, i.Dst, int32(i.Imm))
		}
	case ClassJMP:
		return i.formatJump()
	}
	return fmt.Sprintf("unknown op 0x%02x", i.Opc)
}

func (i Insn) formatAlu() string {
	width := "64"
	if i.Class() == ClassALU {
		width = "32"
	}
	switch i.Opc {
	case NEG32, NEG64:
		return fmt.Sprintf("neg%s r%d", width, i.Dst)
	case LE, BE:
		dir := "le"
		if i.Opc == BE {
			dir = "be"
		}
		return fmt.Sprintf("%s%d r%d", dir, int32(i.Imm), i.Dst)
	case HOR64_IMM:
		return fmt.Sprintf("hor64 r%d, %d", i.Dst, int32(i.Imm))
	}
	name, ok := aluNames[i.Opc&0xf0]
	if !ok {
		return fmt.Sprintf("unknown op 0x%02x", i.Opc)
	}
	if i.Opc&SrcReg != 0 {
		return fmt.Sprintf("%s%s r%d, r%d", name, width, i.Dst, i.Src)
	}
	return fmt.Sprintf("%s%s r%d, %d", name, width, i.Dst, int32(i.Imm))
}

func (i Insn) formatJump() string {
	switch i.Opc {
	case JA:
		return fmt.Sprintf("ja %s", jumpTarget(i.Off))
	case CALL_IMM:
		return fmt.Sprintf("call 0x%x", uint32(int32(i.Imm)))
	case CALL_REG:
		return fmt.Sprintf("callx r%d", i.Src)
	case EXIT:
		return "exit"
	}
	name, ok := jumpNames[i.Opc&0xf0]
	if !ok {
		return fmt.Sprintf("unknown op 0x%02x", i.Opc)
	}
	if i.Opc&SrcReg != 0 {
		return fmt.Sprintf("%s r%d, r%d, %s", name, i.Dst, i.Src, jumpTarget(i.Off))
	}
	return fmt.Sprintf("%s r%d, %d, %s", name, i.Dst, int32(i.Imm), jumpTarget(i.Off))
}
