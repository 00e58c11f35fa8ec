package analysis

import (
	"bytes"
	"reflect"
	"testing"

	"github.com/FuzzingLabs/sol-azy/internal/sbpf"
)

func testAnalysis() *Analysis {
	insns := []sbpf.Insn{
		{Ptr: 0, Opc: sbpf.MOV64_IMM, Dst: 0, Imm: 1},
		{Ptr: 1, Opc: sbpf.EXIT},
		{Ptr: 2, Opc: sbpf.CALL_IMM, Imm: 0},
		{Ptr: 3, Opc: sbpf.JA, Off: 0},
		{Ptr: 4, Opc: sbpf.EXIT},
	}
	nodes := map[int]*CFGNode{
		0: {InsnStart: 0, InsnEnd: 2, DominatorParent: 0, Label: "helper"},
		2: {InsnStart: 2, InsnEnd: 4, DominatorParent: 2, DominatedChildren: []int{4}, Destinations: []int{4}, Label: "entrypoint"},
		4: {InsnStart: 4, InsnEnd: 5, DominatorParent: 2},
	}
	fns := []Function{
		{Entry: 2, Label: "entrypoint"},
		{Entry: 0, Label: "helper"},
	}
	return New(insns, nodes, fns, sbpf.V1)
}

func TestNewSortsFunctions(t *testing.T) {
	anal := testAnalysis()
	for i := 1; i < len(anal.Functions); i++ {
		if anal.Functions[i-1].Entry >= anal.Functions[i].Entry {
			t.Fatalf("function table not ascending: %v", anal.Functions)
		}
	}
}

func TestFunctionEnd(t *testing.T) {
	anal := testAnalysis()

	if got := anal.FunctionEnd(0); got != 2 {
		t.Errorf("FunctionEnd(0) = %d, want the next entry 2", got)
	}
	if got := anal.FunctionEnd(1); got != 5 {
		t.Errorf("FunctionEnd(1) = %d, want one past the last instruction", got)
	}
}

func TestInstructionsForNode(t *testing.T) {
	anal := testAnalysis()

	insns := anal.InstructionsForNode(anal.CFGNodes[2])
	if len(insns) != 2 || insns[0].Opc != sbpf.CALL_IMM {
		t.Errorf("InstructionsForNode = %v", insns)
	}

	if got := anal.InstructionsForNode(nil); got != nil {
		t.Errorf("nil node yielded instructions: %v", got)
	}
	if got := anal.InstructionsForNode(&CFGNode{InsnStart: 0, InsnEnd: 100}); got != nil {
		t.Errorf("out-of-range node yielded instructions: %v", got)
	}
}

func TestDisassembleInstructionResolvesCalls(t *testing.T) {
	anal := testAnalysis()

	call := sbpf.Insn{Opc: sbpf.CALL_IMM, Imm: 0}
	if got := anal.DisassembleInstruction(call); got != "call helper" {
		t.Errorf("known call = %q, want %q", got, "call helper")
	}

	unresolved := sbpf.Insn{Opc: sbpf.CALL_IMM, Imm: 0x1234}
	if got := anal.DisassembleInstruction(unresolved); got != "call 0x1234" {
		t.Errorf("unknown call = %q, want the raw target", got)
	}

	plain := sbpf.Insn{Opc: sbpf.EXIT}
	if got := anal.DisassembleInstruction(plain); got != "exit" {
		t.Errorf("non-call = %q", got)
	}
}

func TestDisassembleLabel(t *testing.T) {
	anal := testAnalysis()
	var buf bytes.Buffer

	// First block: label without a leading blank line.
	if err := anal.DisassembleLabel(&buf, true, 0); err != nil {
		t.Fatal(err)
	}
	if got := buf.String(); got != "helper:\n" {
		t.Errorf("first label = %q", got)
	}

	// Same block again: nothing.
	buf.Reset()
	if err := anal.DisassembleLabel(&buf, false, 0); err != nil {
		t.Fatal(err)
	}
	if buf.Len() != 0 {
		t.Errorf("repeated label emitted %q", buf.String())
	}

	// Later block: blank line then label.
	buf.Reset()
	if err := anal.DisassembleLabel(&buf, false, 2); err != nil {
		t.Fatal(err)
	}
	if got := buf.String(); got != "\nentrypoint:\n" {
		t.Errorf("second label = %q", got)
	}

	// Unlabeled block falls back to its pc.
	buf.Reset()
	if err := anal.DisassembleLabel(&buf, false, 4); err != nil {
		t.Fatal(err)
	}
	if got := buf.String(); got != "\nlbb_4:\n" {
		t.Errorf("fallback label = %q", got)
	}

	// A pc that starts no block emits nothing.
	buf.Reset()
	if err := anal.DisassembleLabel(&buf, false, 3); err != nil {
		t.Fatal(err)
	}
	if buf.Len() != 0 {
		t.Errorf("non-block pc emitted %q", buf.String())
	}
}

func TestResetLabelState(t *testing.T) {
	anal := testAnalysis()
	var buf bytes.Buffer

	if err := anal.DisassembleLabel(&buf, true, 0); err != nil {
		t.Fatal(err)
	}
	anal.ResetLabelState()
	buf.Reset()
	if err := anal.DisassembleLabel(&buf, true, 0); err != nil {
		t.Fatal(err)
	}
	if got := buf.String(); got != "helper:\n" {
		t.Errorf("label after reset = %q", got)
	}
}

func TestIterCFGByFunction(t *testing.T) {
	anal := testAnalysis()

	var got []CFGEntry
	for _, entry := range anal.IterCFGByFunction() {
		got = append(got, CFGEntry{Function: entry.Function, Start: entry.Start})
	}
	want := []CFGEntry{
		{Function: 0, Start: 0},
		{Function: 2, Start: 2},
		{Function: 2, Start: 4},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("IterCFGByFunction grouping = %v, want %v", got, want)
	}
}
