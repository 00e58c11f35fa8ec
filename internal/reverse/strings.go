package reverse

import (
	"fmt"
	"strings"

	"github.com/FuzzingLabs/sol-azy/internal/sbpf"
)

// MaxImmediateStringBytes is how many bytes are read for the string
// rendering of a load when no explicit length is found nearby.
const MaxImmediateStringBytes = 50

// FormatBytes renders a byte slice as a byte-string literal (b"...").
// Printable ASCII (including spaces) is kept as-is; everything else
// becomes a \xNN escape.
func FormatBytes(slice []byte) string {
	var b strings.Builder
	b.WriteString(`b"`)
	for _, c := range slice {
		if c >= 0x21 && c <= 0x7e || c == ' ' {
			b.WriteByte(c)
		} else {
			fmt.Fprintf(&b, `\x%02x`, c)
		}
	}
	b.WriteByte('"')
	return b.String()
}

// resolveLength picks the read length for a string rendering: the default,
// unless the lookahead instruction is a move-immediate with a strictly
// positive immediate, which is taken as an explicit length.
func resolveLength(next *sbpf.Insn) int {
	if next != nil && (next.Opc == sbpf.MOV64_IMM || next.Opc == sbpf.MOV32_IMM) && next.Imm > 0 {
		return int(next.Imm)
	}
	return MaxImmediateStringBytes
}

// readAt clamps [start, start+length) to the program and formats the
// bytes. A start outside the program yields the empty string.
func readAt(program []byte, start, length int) string {
	if start < 0 || start >= len(program) {
		return ""
	}
	end := start + length
	if end > len(program) {
		end = len(program)
	}
	return FormatBytes(program[start:end])
}

// UpdateStringResolution feeds the current instruction into the register
// tracker and then tries to render the bytes it references as a string
// literal. Two shapes resolve: a wide-immediate load whose value points
// into the read-only data window, and a register-relative load whose base
// register holds a known constant. Everything else yields "".
func UpdateStringResolution(program []byte, insn sbpf.Insn, next *sbpf.Insn, tracker *RegisterTracker) string {
	tracker.Update(insn)

	switch insn.Opc {
	case sbpf.LD_DW_REG, sbpf.LD_B_REG, sbpf.LD_H_REG, sbpf.LD_W_REG:
		value, ok := tracker.Get(insn.Src)
		if !ok || !value.Known {
			return ""
		}
		// Negative offsets must not wrap the address below zero.
		off := int64(insn.Off)
		if off < 0 && value.Const < uint64(-off) {
			return ""
		}
		addr := value.Const + uint64(off)
		if addr < sbpf.MMRodataStart {
			return ""
		}
		start := int(addr - sbpf.MMRodataStart)
		return readAt(program, start, resolveLength(next))

	case sbpf.LD_DW_IMM:
		if insn.Imm <= 0 || uint64(insn.Imm) < sbpf.MMRodataStart {
			return ""
		}
		start := int(uint64(insn.Imm) - sbpf.MMRodataStart)
		return readAt(program, start, resolveLength(next))
	}
	return ""
}
