package reverse

import (
	"fmt"

	"github.com/FuzzingLabs/sol-azy/internal/sbpf"
)

// Translate returns a pseudocode gloss of an instruction mirroring the
// target VM's semantics, or ok=false when the opcode has no gloss under
// the given ISA version. Callers treat ok=false as "no annotation".
//
// Width and sign handling is the security-relevant part: under V1 the
// 32-bit ALU result is sign-extended to 64 bits through a signed
// intermediate, while V2+ zero-extends; immediate subtraction swaps its
// operand order starting with V2; move-immediate always sign-extends
// through i32. Jump glosses keep the relative offset field, never an
// absolute target.
func Translate(insn sbpf.Insn, version sbpf.Version) (string, bool) {
	d, s := insn.Dst, insn.Src
	imm := int32(insn.Imm)
	off := insn.Off

	ext32 := "u64"
	if version < sbpf.V2 {
		ext32 = "i32 as i64 as u64"
	}

	switch insn.Opc {
	// 32-bit arithmetic and logic.
	case sbpf.ADD32_IMM:
		return fmt.Sprintf("r%d += %d    ///  r%d = (r%d as u32).wrapping_add(%d) as %s", d, imm, d, d, imm, ext32), true
	case sbpf.ADD32_REG:
		return fmt.Sprintf("r%d += r%d   ///  r%d = (r%d as u32).wrapping_add(r%d as u32) as %s", d, s, d, d, s, ext32), true
	case sbpf.SUB32_IMM:
		if version < sbpf.V2 {
			return fmt.Sprintf("r%d = %d - r%d   ///  r%d = (r%d as u32).wrapping_sub(%d) as u64", d, imm, d, d, d, imm), true
		}
		return fmt.Sprintf("r%d = %d - r%d   ///  r%d = %d.wrapping_sub(r%d as u32) as u64", d, imm, d, d, imm, d), true
	case sbpf.SUB32_REG:
		return fmt.Sprintf("r%d -= r%d   ///  r%d = (r%d as u32).wrapping_sub(r%d as u32) as %s", d, s, d, d, s, ext32), true
	case sbpf.MUL32_IMM:
		if version >= sbpf.V2 {
			return "", false
		}
		return fmt.Sprintf("r%d *= %d   ///  r%d = (r%d as i32).wrapping_mul(%d as i32) as i64 as u64", d, imm, d, d, imm), true
	case sbpf.MUL32_REG:
		if version >= sbpf.V2 {
			return "", false
		}
		return fmt.Sprintf("r%d *= r%d   ///  r%d = (r%d as i32).wrapping_mul(r%d as i32) as i64 as u64", d, s, d, d, s), true
	case sbpf.DIV32_IMM:
		if version >= sbpf.V2 {
			return "", false
		}
		return fmt.Sprintf("r%d /= %d   ///  r%d = ((r%d as u32) / %d) as u64", d, imm, d, d, imm), true
	case sbpf.DIV32_REG:
		if version >= sbpf.V2 {
			return "", false
		}
		return fmt.Sprintf("r%d /= r%d   ///  r%d = ((r%d as u32) / (r%d as u32)) as u64", d, s, d, d, s), true
	case sbpf.MOD32_IMM:
		if version >= sbpf.V2 {
			return "", false
		}
		return fmt.Sprintf("r%d %%= %d   ///  r%d = ((r%d as u32) %% %d) as u64", d, imm, d, d, imm), true
	case sbpf.MOD32_REG:
		if version >= sbpf.V2 {
			return "", false
		}
		return fmt.Sprintf("r%d %%= r%d   ///  r%d = ((r%d as u32) %% (r%d as u32)) as u64", d, s, d, d, s), true
	case sbpf.OR32_IMM:
		return fmt.Sprintf("r%d |= %d   ///  r%d = (r%d as u32).or(%d) as u64", d, imm, d, d, imm), true
	case sbpf.OR32_REG:
		return fmt.Sprintf("r%d |= r%d   ///  r%d = (r%d as u32).or(r%d as u32) as u64", d, s, d, d, s), true
	case sbpf.AND32_IMM:
		return fmt.Sprintf("r%d &= %d   ///  r%d = (r%d as u32).and(%d) as u64", d, imm, d, d, imm), true
	case sbpf.AND32_REG:
		return fmt.Sprintf("r%d &= r%d   ///  r%d = (r%d as u32).and(r%d as u32) as u64", d, s, d, d, s), true
	case sbpf.XOR32_IMM:
		return fmt.Sprintf("r%d ^= %d   ///  r%d = (r%d as u32).xor(%d) as u64", d, imm, d, d, imm), true
	case sbpf.XOR32_REG:
		return fmt.Sprintf("r%d ^= r%d   ///  r%d = (r%d as u32).xor(r%d as u32) as u64", d, s, d, d, s), true
	case sbpf.LSH32_IMM:
		return fmt.Sprintf("r%d <<= %d   ///  r%d = (r%d as u32).wrapping_shl(%d) as u64", d, imm, d, d, imm), true
	case sbpf.LSH32_REG:
		return fmt.Sprintf("r%d <<= r%d   ///  r%d = (r%d as u32).wrapping_shl(r%d as u32) as u64", d, s, d, d, s), true
	case sbpf.RSH32_IMM:
		return fmt.Sprintf("r%d >>= %d   ///  r%d = (r%d as u32).wrapping_shr(%d) as u64", d, imm, d, d, imm), true
	case sbpf.RSH32_REG:
		return fmt.Sprintf("r%d >>= r%d   ///  r%d = (r%d as u32).wrapping_shr(r%d as u32) as u64", d, s, d, d, s), true
	case sbpf.ARSH32_IMM:
		return fmt.Sprintf("r%d >>= %d (signed)  ///  r%d = (r%d as i32).wrapping_shr(%d) as u32 as u64", d, imm, d, d, imm), true
	case sbpf.ARSH32_REG:
		return fmt.Sprintf("r%d >>= r%d (signed)  ///  r%d = (r%d as i32).wrapping_shr(r%d as u32) as u32 as u64", d, s, d, d, s), true
	case sbpf.NEG32:
		if version >= sbpf.V2 {
			return "", false
		}
		return fmt.Sprintf("r%d = -r%d   ///  r%d = (r%d as i32).wrapping_neg() as u32 as u64", d, d, d, d), true
	case sbpf.MOV32_IMM:
		return fmt.Sprintf("r%d = %d as u64", d, imm), true
	case sbpf.MOV32_REG:
		if version < sbpf.V2 {
			return fmt.Sprintf("r%d = r%d as u32 as u64", d, s), true
		}
		return fmt.Sprintf("r%d = r%d as i32 as i64 as u64", d, s), true
	case sbpf.LE:
		if version >= sbpf.V2 {
			return "", false
		}
		return fmt.Sprintf("r%d = r%d as u32 as u64", d, d), true
	case sbpf.BE:
		return fmt.Sprintf("r%d = match %d { 16 => (r%d as u16).swap_bytes() as u64, 32 => (r%d as u32).swap_bytes() as u64, 64 => r%d.swap_bytes(), _ => r%d }", d, imm, d, d, d, d), true

	// 64-bit arithmetic and logic.
	case sbpf.ADD64_IMM:
		return fmt.Sprintf("r%d += %d   ///  r%d = r%d.wrapping_add(%d as i32 as i64 as u64)", d, imm, d, d, imm), true
	case sbpf.ADD64_REG:
		return fmt.Sprintf("r%d += r%d   ///  r%d = r%d.wrapping_add(r%d)", d, s, d, d, s), true
	case sbpf.SUB64_IMM:
		if version < sbpf.V2 {
			return fmt.Sprintf("r%d -= %d   ///  r%d = r%d.wrapping_sub(%d as i32 as i64 as u64)", d, imm, d, d, imm), true
		}
		return fmt.Sprintf("r%d -= %d   ///  r%d = (%d as i32 as i64 as u64).wrapping_sub(r%d)", d, imm, d, imm, d), true
	case sbpf.SUB64_REG:
		return fmt.Sprintf("r%d -= r%d   ///  r%d = r%d.wrapping_sub(r%d)", d, s, d, d, s), true
	case sbpf.MUL64_IMM:
		if version >= sbpf.V2 {
			return "", false
		}
		return fmt.Sprintf("r%d *= %d   ///  r%d = r%d.wrapping_mul(%d as u64)", d, imm, d, d, imm), true
	case sbpf.MUL64_REG:
		if version >= sbpf.V2 {
			return "", false
		}
		return fmt.Sprintf("r%d *= r%d   ///  r%d = r%d.wrapping_mul(r%d)", d, s, d, d, s), true
	case sbpf.DIV64_IMM:
		if version >= sbpf.V2 {
			return "", false
		}
		return fmt.Sprintf("r%d /= %d   ///  r%d = r%d / (%d as u64)", d, imm, d, d, imm), true
	case sbpf.DIV64_REG:
		if version >= sbpf.V2 {
			return "", false
		}
		return fmt.Sprintf("r%d /= r%d   ///  r%d = r%d / r%d", d, s, d, d, s), true
	case sbpf.MOD64_IMM:
		if version >= sbpf.V2 {
			return "", false
		}
		return fmt.Sprintf("r%d %%= %d   ///  r%d = r%d %% (%d as u64)", d, imm, d, d, imm), true
	case sbpf.MOD64_REG:
		if version >= sbpf.V2 {
			return "", false
		}
		return fmt.Sprintf("r%d %%= r%d   ///  r%d = r%d %% r%d", d, s, d, d, s), true
	case sbpf.OR64_IMM:
		return fmt.Sprintf("r%d |= %d   ///  r%d = r%d.or(%d)", d, imm, d, d, imm), true
	case sbpf.OR64_REG:
		return fmt.Sprintf("r%d |= r%d   ///  r%d = r%d.or(r%d)", d, s, d, d, s), true
	case sbpf.AND64_IMM:
		return fmt.Sprintf("r%d &= %d   ///  r%d = r%d.and(%d)", d, imm, d, d, imm), true
	case sbpf.AND64_REG:
		return fmt.Sprintf("r%d &= r%d   ///  r%d = r%d.and(r%d)", d, s, d, d, s), true
	case sbpf.XOR64_IMM:
		return fmt.Sprintf("r%d ^= %d   ///  r%d = r%d.xor(%d)", d, imm, d, d, imm), true
	case sbpf.XOR64_REG:
		return fmt.Sprintf("r%d ^= r%d   ///  r%d = r%d.xor(r%d)", d, s, d, d, s), true
	case sbpf.LSH64_IMM:
		return fmt.Sprintf("r%d <<= %d   ///  r%d = r%d.wrapping_shl(%d)", d, imm, d, d, imm), true
	case sbpf.LSH64_REG:
		return fmt.Sprintf("r%d <<= r%d   ///  r%d = r%d.wrapping_shl(r%d as u32)", d, s, d, d, s), true
	case sbpf.RSH64_IMM:
		return fmt.Sprintf("r%d >>= %d   ///  r%d = r%d.wrapping_shr(%d)", d, imm, d, d, imm), true
	case sbpf.RSH64_REG:
		return fmt.Sprintf("r%d >>= r%d   ///  r%d = r%d.wrapping_shr(r%d as u32)", d, s, d, d, s), true
	case sbpf.ARSH64_IMM:
		return fmt.Sprintf("r%d >>= %d (signed)   ///  r%d = (r%d as i64).wrapping_shr(%d)", d, imm, d, d, imm), true
	case sbpf.ARSH64_REG:
		return fmt.Sprintf("r%d >>= r%d (signed)  ///  r%d = (r%d as i64).wrapping_shr(r%d as u32)", d, s, d, d, s), true
	case sbpf.NEG64:
		if version >= sbpf.V2 {
			return "", false
		}
		return fmt.Sprintf("r%d = -r%d   ///  r%d = (r%d as i64).wrapping_neg() as u64", d, d, d, d), true
	case sbpf.MOV64_IMM:
		return fmt.Sprintf("r%d = %d as i32 as i64 as u64", d, imm), true
	case sbpf.MOV64_REG:
		return fmt.Sprintf("r%d = r%d", d, s), true

	// SBPF v2+ arithmetic.
	case sbpf.HOR64_IMM:
		if version < sbpf.V2 {
			return "", false
		}
		return fmt.Sprintf("r%d = r%d | ((%d as u64) << 32)   ///  r%d = r%d.or((%d as u64).wrapping_shl(32))", d, d, imm, d, d, imm), true
	case sbpf.UHMUL64_IMM:
		if version < sbpf.V2 {
			return "", false
		}
		return fmt.Sprintf("r%d = (r%d * %d) >> 64   ///  r%d = (r%d as u128).wrapping_mul(%d as u128).wrapping_shr(64) as u64", d, d, imm, d, d, imm), true
	case sbpf.UHMUL64_REG:
		if version < sbpf.V2 {
			return "", false
		}
		return fmt.Sprintf("r%d = (r%d * r%d) >> 64   ///  r%d = (r%d as u128).wrapping_mul(r%d as u128).wrapping_shr(64) as u64", d, d, s, d, d, s), true
	case sbpf.UDIV32_IMM:
		if version < sbpf.V2 {
			return "", false
		}
		return fmt.Sprintf("r%d = ((r%d as u32) / %d) as u64", d, d, imm), true
	case sbpf.UDIV32_REG:
		if version < sbpf.V2 {
			return "", false
		}
		return fmt.Sprintf("r%d = ((r%d as u32) / (r%d as u32)) as u64", d, d, s), true
	case sbpf.UDIV64_IMM:
		if version < sbpf.V2 {
			return "", false
		}
		return fmt.Sprintf("r%d = r%d / (%d as u64)", d, d, imm), true
	case sbpf.UDIV64_REG:
		if version < sbpf.V2 {
			return "", false
		}
		return fmt.Sprintf("r%d = r%d / r%d", d, d, s), true
	case sbpf.UREM32_IMM:
		if version < sbpf.V2 {
			return "", false
		}
		return fmt.Sprintf("r%d = ((r%d as u32) %% %d) as u64", d, d, imm), true
	case sbpf.UREM32_REG:
		if version < sbpf.V2 {
			return "", false
		}
		return fmt.Sprintf("r%d = ((r%d as u32) %% (r%d as u32)) as u64", d, d, s), true
	case sbpf.UREM64_IMM:
		if version < sbpf.V2 {
			return "", false
		}
		return fmt.Sprintf("r%d = r%d %% (%d as u64)", d, d, imm), true
	case sbpf.UREM64_REG:
		if version < sbpf.V2 {
			return "", false
		}
		return fmt.Sprintf("r%d = r%d %% r%d", d, d, s), true
	case sbpf.LMUL32_IMM:
		if version < sbpf.V2 {
			return "", false
		}
		return fmt.Sprintf("r%d = (r%d * %d) as u32   ///  r%d = (r%d as i32).wrapping_mul(%d as i32) as u32 as u64", d, d, imm, d, d, imm), true
	case sbpf.LMUL32_REG:
		if version < sbpf.V2 {
			return "", false
		}
		return fmt.Sprintf("r%d = (r%d * r%d) as u32   ///  r%d = (r%d as i32).wrapping_mul(r%d as i32) as u32 as u64", d, d, s, d, d, s), true
	case sbpf.LMUL64_IMM:
		if version < sbpf.V2 {
			return "", false
		}
		return fmt.Sprintf("r%d = (r%d * %d) as u64   ///  r%d = r%d.wrapping_mul(%d as u64)", d, d, imm, d, d, imm), true
	case sbpf.LMUL64_REG:
		if version < sbpf.V2 {
			return "", false
		}
		return fmt.Sprintf("r%d = (r%d * r%d) as u64   ///  r%d = r%d.wrapping_mul(r%d)", d, d, s, d, d, s), true
	case sbpf.SHMUL64_IMM:
		if version < sbpf.V2 {
			return "", false
		}
		return fmt.Sprintf("r%d = (r%d * %d) >> 64   ///  r%d = (r%d as i128).wrapping_mul(%d as i32 as i128).wrapping_shr(64) as i64 as u64", d, d, imm, d, d, imm), true
	case sbpf.SHMUL64_REG:
		if version < sbpf.V2 {
			return "", false
		}
		return fmt.Sprintf("r%d = (r%d * r%d) >> 64   ///  r%d = (r%d as i128).wrapping_mul(r%d as i64 as i128).wrapping_shr(64) as i64 as u64", d, d, s, d, d, s), true
	case sbpf.SDIV32_IMM:
		if version < sbpf.V2 {
			return "", false
		}
		return fmt.Sprintf("r%d = ((r%d as i32) / (%d as i32)) as u32 as u64", d, d, imm), true
	case sbpf.SDIV32_REG:
		if version < sbpf.V2 {
			return "", false
		}
		return fmt.Sprintf("r%d = ((r%d as i32) / (r%d as i32)) as u32 as u64", d, d, s), true
	case sbpf.SDIV64_IMM:
		if version < sbpf.V2 {
			return "", false
		}
		return fmt.Sprintf("r%d = ((r%d as i64) / (%d as i64)) as u64", d, d, imm), true
	case sbpf.SDIV64_REG:
		if version < sbpf.V2 {
			return "", false
		}
		return fmt.Sprintf("r%d = ((r%d as i64) / (r%d as i64)) as u64", d, d, s), true
	case sbpf.SREM32_IMM:
		if version < sbpf.V2 {
			return "", false
		}
		return fmt.Sprintf("r%d = ((r%d as i32) %% (%d as i32)) as u32 as u64", d, d, imm), true
	case sbpf.SREM32_REG:
		if version < sbpf.V2 {
			return "", false
		}
		return fmt.Sprintf("r%d = ((r%d as i32) %% (r%d as i32)) as u32 as u64", d, d, s), true
	case sbpf.SREM64_IMM:
		if version < sbpf.V2 {
			return "", false
		}
		return fmt.Sprintf("r%d = ((r%d as i64) %% (%d as i64)) as u64", d, d, imm), true
	case sbpf.SREM64_REG:
		if version < sbpf.V2 {
			return "", false
		}
		return fmt.Sprintf("r%d = ((r%d as i64) %% (r%d as i64)) as u64", d, d, s), true

	// Wide immediate load (until v2).
	case sbpf.LD_DW_IMM:
		if version >= sbpf.V2 {
			return "", false
		}
		return fmt.Sprintf("r%d load str located at %d", d, insn.Imm), true

	// Jumps: the gloss keeps the relative offset field.
	case sbpf.JA:
		return fmt.Sprintf("if true { pc += %d }", off), true
	case sbpf.JEQ_IMM:
		return jumpImm(d, "==", imm, off), true
	case sbpf.JEQ_REG:
		return jumpReg(d, "==", s, off), true
	case sbpf.JGT_IMM:
		return jumpImm(d, ">", imm, off), true
	case sbpf.JGT_REG:
		return jumpReg(d, ">", s, off), true
	case sbpf.JGE_IMM:
		return jumpImm(d, ">=", imm, off), true
	case sbpf.JGE_REG:
		return jumpReg(d, ">=", s, off), true
	case sbpf.JSET_IMM:
		return fmt.Sprintf("if r%d & %d { pc += %d }   ///  if r%d.and(%d as i32 as i64 as u64) != 0 { pc += %d }", d, imm, off, d, imm, off), true
	case sbpf.JSET_REG:
		return fmt.Sprintf("if r%d & r%d { pc += %d }   ///  if r%d.and(r%d) != 0 { pc += %d }", d, s, off, d, s, off), true
	case sbpf.JNE_IMM:
		return jumpImm(d, "!=", imm, off), true
	case sbpf.JNE_REG:
		return jumpReg(d, "!=", s, off), true
	case sbpf.JSGT_IMM:
		return jumpImmSigned(d, ">", imm, off), true
	case sbpf.JSGT_REG:
		return jumpRegSigned(d, ">", s, off), true
	case sbpf.JSGE_IMM:
		return jumpImmSigned(d, ">=", imm, off), true
	case sbpf.JSGE_REG:
		return jumpRegSigned(d, ">=", s, off), true
	case sbpf.JLT_IMM:
		return jumpImm(d, "<", imm, off), true
	case sbpf.JLT_REG:
		return jumpReg(d, "<", s, off), true
	case sbpf.JLE_IMM:
		return jumpImm(d, "<=", imm, off), true
	case sbpf.JLE_REG:
		return jumpReg(d, "<=", s, off), true
	case sbpf.JSLT_IMM:
		return jumpImmSigned(d, "<", imm, off), true
	case sbpf.JSLT_REG:
		return jumpRegSigned(d, "<", s, off), true
	case sbpf.JSLE_IMM:
		return jumpImmSigned(d, "<=", imm, off), true
	case sbpf.JSLE_REG:
		return jumpRegSigned(d, "<=", s, off), true
	}

	return "", false
}

func jumpImm(d uint8, op string, imm int32, off int16) string {
	return fmt.Sprintf("if r%d %s (%d as i32 as i64 as u64) { pc += %d }", d, op, imm, off)
}

func jumpReg(d uint8, op string, s uint8, off int16) string {
	return fmt.Sprintf("if r%d %s r%d { pc += %d }", d, op, s, off)
}

func jumpImmSigned(d uint8, op string, imm int32, off int16) string {
	return fmt.Sprintf("if (r%d as i64) %s (%d as i32 as i64) { pc += %d }", d, op, imm, off)
}

func jumpRegSigned(d uint8, op string, s uint8, off int16) string {
	return fmt.Sprintf("if (r%d as i64) %s (r%d as i64) { pc += %d }", d, op, s, off)
}
