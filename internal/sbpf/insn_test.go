package sbpf

import "testing"

func TestInsnFormat(t *testing.T) {
	tests := []struct {
		name     string
		insn     Insn
		expected string
	}{
		{
			"wide immediate load",
			Insn{Opc: LD_DW_IMM, Dst: 1, Imm: 0x100000010},
			"lddw r1, 0x100000010",
		},
		{
			"register load positive offset",
			Insn{Opc: LD_DW_REG, Dst: 1, Src: 2, Off: 0x10},
			"ldxdw r1, [r2+0x10]",
		},
		{
			"register load negative offset",
			Insn{Opc: LD_W_REG, Dst: 3, Src: 10, Off: -8},
			"ldxw r3, [r10-0x8]",
		},
		{
			"immediate store",
			Insn{Opc: ST_W_IMM, Dst: 10, Off: -4, Imm: 42},
			"stw [r10-0x4], 42",
		},
		{
			"register store",
			Insn{Opc: ST_B_REG, Dst: 10, Src: 1, Off: -1},
			"stxb [r10-0x1], r1",
		},
		{
			"alu32 immediate",
			Insn{Opc: ADD32_IMM, Dst: 1, Imm: -5},
			"add32 r1, -5",
		},
		{
			"alu64 register",
			Insn{Opc: XOR64_REG, Dst: 1, Src: 2},
			"xor64 r1, r2",
		},
		{
			"negation",
			Insn{Opc: NEG32, Dst: 4},
			"neg32 r4",
		},
		{
			"byte swap",
			Insn{Opc: BE, Dst: 1, Imm: 16},
			"be16 r1",
		},
		{
			"host byte order",
			Insn{Opc: LE, Dst: 2, Imm: 64},
			"le64 r2",
		},
		{
			"high or",
			Insn{Opc: HOR64_IMM, Dst: 1, Imm: 0x1000},
			"hor64 r1, 4096",
		},
		{
			"pqr immediate",
			Insn{Opc: UDIV32_IMM, Dst: 1, Imm: 3},
			"udiv32 r1, 3",
		},
		{
			"pqr register",
			Insn{Opc: SDIV64_REG, Dst: 1, Src: 2},
			"sdiv64 r1, r2",
		},
		{
			"unconditional jump backwards",
			Insn{Opc: JA, Off: -3},
			"ja -3",
		},
		{
			"conditional jump immediate",
			Insn{Opc: JEQ_IMM, Dst: 1, Imm: 0, Off: 5},
			"jeq r1, 0, +5",
		},
		{
			"conditional jump register",
			Insn{Opc: JSGT_REG, Dst: 1, Src: 2, Off: -10},
			"jsgt r1, r2, -10",
		},
		{
			"call",
			Insn{Opc: CALL_IMM, Imm: 0x1234},
			"call 0x1234",
		},
		{
			"indirect call",
			Insn{Opc: CALL_REG, Src: 5},
			"callx r5",
		},
		{
			"exit",
			Insn{Opc: EXIT},
			"exit",
		},
		{
			"unknown opcode",
			Insn{Opc: 0xff},
			"unknown op 0xff",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.insn.Format(); got != tt.expected {
				t.Errorf("Format() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestInsnClass(t *testing.T) {
	tests := []struct {
		opc      uint8
		expected uint8
	}{
		{LD_DW_IMM, ClassLD},
		{LD_W_REG, ClassLDX},
		{ST_W_IMM, ClassST},
		{ST_W_REG, ClassSTX},
		{ADD32_IMM, ClassALU},
		{JA, ClassJMP},
		{UDIV64_REG, ClassPQR},
		{ADD64_IMM, ClassALU64},
	}
	for _, tt := range tests {
		if got := (Insn{Opc: tt.opc}).Class(); got != tt.expected {
			t.Errorf("Class(0x%02x) = 0x%02x, want 0x%02x", tt.opc, got, tt.expected)
		}
	}
}
