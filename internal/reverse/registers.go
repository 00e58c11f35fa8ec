package reverse

import "github.com/FuzzingLabs/sol-azy/internal/sbpf"

// RegisterValue is the abstract content of one register: a known 64-bit
// constant or Unknown.
type RegisterValue struct {
	Const uint64
	Known bool
}

// RegisterTracker abstract-interprets a linear instruction stream just
// far enough to reconstruct 64-bit addresses assembled from immediate
// moves. It is deliberately conservative: anything but the three
// immediate-move forms makes the destination register Unknown.
type RegisterTracker struct {
	registers map[uint8]RegisterValue
}

func NewRegisterTracker() *RegisterTracker {
	return &RegisterTracker{registers: make(map[uint8]RegisterValue)}
}

// Update consumes one instruction, updating exactly the destination
// register.
func (t *RegisterTracker) Update(insn sbpf.Insn) {
	switch insn.Opc {
	case sbpf.MOV32_IMM:
		// Low bits of an address are never negative, so the 32-bit
		// immediate is zero-extended here.
		t.registers[insn.Dst] = RegisterValue{Const: uint64(uint32(insn.Imm)), Known: true}
	case sbpf.MOV64_IMM:
		t.registers[insn.Dst] = RegisterValue{Const: uint64(insn.Imm), Known: true}
	case sbpf.HOR64_IMM:
		if cur, ok := t.registers[insn.Dst]; ok && cur.Known {
			high := uint64(uint32(insn.Imm)) << 32
			t.registers[insn.Dst] = RegisterValue{Const: high | (cur.Const & 0xFFFF_FFFF), Known: true}
		} else {
			t.registers[insn.Dst] = RegisterValue{}
		}
	default:
		t.registers[insn.Dst] = RegisterValue{}
	}
}

// Get returns the current value of a register; ok is false if the
// register was never written.
func (t *RegisterTracker) Get(reg uint8) (RegisterValue, bool) {
	v, ok := t.registers[reg]
	return v, ok
}
