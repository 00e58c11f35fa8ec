package reverse

import (
	"testing"

	"github.com/FuzzingLabs/sol-azy/internal/sbpf"
)

func TestRegisterTrackerUpdate(t *testing.T) {
	tests := []struct {
		name     string
		insns    []sbpf.Insn
		reg      uint8
		expected RegisterValue
	}{
		{
			name: "mov32 zero-extends the immediate",
			insns: []sbpf.Insn{
				{Opc: sbpf.MOV32_IMM, Dst: 1, Imm: -1},
			},
			reg:      1,
			expected: RegisterValue{Const: 0xFFFF_FFFF, Known: true},
		},
		{
			name: "mov64 keeps the full immediate",
			insns: []sbpf.Insn{
				{Opc: sbpf.MOV64_IMM, Dst: 2, Imm: 0x1234},
			},
			reg:      2,
			expected: RegisterValue{Const: 0x1234, Known: true},
		},
		{
			name: "hor64 combines high bits with a known low half",
			insns: []sbpf.Insn{
				{Opc: sbpf.MOV32_IMM, Dst: 3, Imm: 0x1234},
				{Opc: sbpf.HOR64_IMM, Dst: 3, Imm: 0x5678},
			},
			reg:      3,
			expected: RegisterValue{Const: 0x0000_5678_0000_1234, Known: true},
		},
		{
			name: "hor64 on an unwritten register stays unknown",
			insns: []sbpf.Insn{
				{Opc: sbpf.HOR64_IMM, Dst: 4, Imm: 0x5678},
			},
			reg:      4,
			expected: RegisterValue{},
		},
		{
			name: "arithmetic clobbers a known value",
			insns: []sbpf.Insn{
				{Opc: sbpf.MOV64_IMM, Dst: 5, Imm: 0x10},
				{Opc: sbpf.ADD64_IMM, Dst: 5, Imm: 0x10},
			},
			reg:      5,
			expected: RegisterValue{},
		},
		{
			name: "register move clobbers the destination",
			insns: []sbpf.Insn{
				{Opc: sbpf.MOV64_IMM, Dst: 6, Imm: 0x10},
				{Opc: sbpf.MOV64_REG, Dst: 6, Src: 1},
			},
			reg:      6,
			expected: RegisterValue{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tracker := NewRegisterTracker()
			for _, insn := range tt.insns {
				tracker.Update(insn)
			}
			got, ok := tracker.Get(tt.reg)
			if !ok {
				t.Fatalf("Get(r%d) reported the register as never written", tt.reg)
			}
			if got != tt.expected {
				t.Errorf("Get(r%d) = %+v, want %+v", tt.reg, got, tt.expected)
			}
		})
	}
}

func TestRegisterTrackerGetUnwritten(t *testing.T) {
	tracker := NewRegisterTracker()
	if _, ok := tracker.Get(7); ok {
		t.Error("Get on a fresh tracker reported a written register")
	}
}

func TestRegisterTrackerUpdateOnlyTouchesDst(t *testing.T) {
	tracker := NewRegisterTracker()
	tracker.Update(sbpf.Insn{Opc: sbpf.MOV64_IMM, Dst: 1, Imm: 0x42})
	tracker.Update(sbpf.Insn{Opc: sbpf.ADD64_REG, Dst: 2, Src: 1})

	if got, ok := tracker.Get(1); !ok || !got.Known || got.Const != 0x42 {
		t.Errorf("r1 = %+v, %v; want known 0x42", got, ok)
	}
	if got, _ := tracker.Get(2); got.Known {
		t.Errorf("r2 = %+v; want unknown", got)
	}
}
