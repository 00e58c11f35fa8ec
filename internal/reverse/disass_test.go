package reverse

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/FuzzingLabs/sol-azy/internal/analysis"
	"github.com/FuzzingLabs/sol-azy/internal/sbpf"
)

// hiProgram is a 64-byte program whose last two bytes are the string
// "hi": a wide immediate pointing at it gets a range that runs to the
// end of the file.
func hiProgram() ([]byte, *analysis.Analysis) {
	program := make([]byte, 64)
	copy(program[62:], "hi")

	insns := []sbpf.Insn{
		{Ptr: 0, Opc: sbpf.LD_DW_IMM, Dst: 1, Imm: int64(sbpf.MMRodataStart) + 62},
		{Ptr: 2, Opc: sbpf.EXIT},
	}
	nodes := map[int]*analysis.CFGNode{
		0: {InsnStart: 0, InsnEnd: 2, DominatorParent: 0, Label: "entrypoint"},
	}
	fns := []analysis.Function{{Entry: 0, Label: "entrypoint"}}
	return program, analysis.New(insns, nodes, fns, sbpf.V1)
}

func TestDisassembleAnnotatesWideImmediate(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "disass-test")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(tmpDir)

	program, anal := hiProgram()
	immTracker := NewImmediateTracker(len(program))
	if err := Disassemble(program, anal, immTracker, NewRegisterTracker(), tmpDir); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(filepath.Join(tmpDir, "disassembly.out"))
	if err != nil {
		t.Fatal(err)
	}
	out := string(data)

	if !strings.HasPrefix(out, "entrypoint:\n") {
		t.Errorf("output does not open with the entry label:\n%s", out)
	}
	if !strings.Contains(out, `lddw r1, 0x10000003e --> b"hi"`) {
		t.Errorf("wide immediate not annotated with its string:\n%s", out)
	}
	if !strings.Contains(out, "r1 load str located at") {
		t.Errorf("lddw pseudocode column missing:\n%s", out)
	}
	if !strings.Contains(out, "exit") {
		t.Errorf("exit line missing:\n%s", out)
	}

	if r, ok := immTracker.GetRange(int(sbpf.MMRodataStart) + 62); !ok || r.End != len(program) {
		t.Errorf("immediate range = %v, %v; want end at the program length", r, ok)
	}
}

func TestWriteImmediateTable(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "imm-table-test")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(tmpDir)

	program, anal := hiProgram()
	immTracker := NewImmediateTracker(len(program))
	if err := Disassemble(program, anal, immTracker, NewRegisterTracker(), tmpDir); err != nil {
		t.Fatal(err)
	}
	if err := WriteImmediateTable(program, immTracker, tmpDir); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(filepath.Join(tmpDir, "immediate_data_table.out"))
	if err != nil {
		t.Fatal(err)
	}

	want := "0x10000003e (+ 0x3e): b\"hi\"\n"
	if string(data) != want {
		t.Errorf("table = %q, want %q", string(data), want)
	}
}

func TestWriteImmediateTableSkipsUnmappableRanges(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "imm-table-skip-test")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(tmpDir)

	program := []byte("0123456789")
	immTracker := NewImmediateTracker(len(program))
	// A start below the data window cannot map to a file offset and must
	// vanish silently.
	immTracker.RegisterOffset(4)
	// Valid start; its range runs to the end of the program.
	immTracker.RegisterOffset(int(sbpf.MMRodataStart) + 4)

	if err := WriteImmediateTable(program, immTracker, tmpDir); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(filepath.Join(tmpDir, "immediate_data_table.out"))
	if err != nil {
		t.Fatal(err)
	}

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 1 {
		t.Fatalf("table has %d rows, want 1:\n%s", len(lines), string(data))
	}
	if want := `0x100000004 (+ 0x4): b"456789"`; lines[0] != want {
		t.Errorf("row = %q, want %q", lines[0], want)
	}
}

func TestDisassembleTruncatesLongAnnotations(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "disass-trunc-test")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(tmpDir)

	// A long run of escaped bytes inflates the rendering well past the
	// line bound.
	program := make([]byte, 0x100)
	insns := []sbpf.Insn{
		{Ptr: 0, Opc: sbpf.LD_DW_IMM, Dst: 1, Imm: int64(sbpf.MMRodataStart)},
		{Ptr: 2, Opc: sbpf.EXIT},
	}
	anal := analysis.New(insns, map[int]*analysis.CFGNode{}, nil, sbpf.V1)

	if err := Disassemble(program, anal, NewImmediateTracker(len(program)), NewRegisterTracker(), tmpDir); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(filepath.Join(tmpDir, "disassembly.out"))
	if err != nil {
		t.Fatal(err)
	}

	var annotated string
	for _, line := range strings.Split(string(data), "\n") {
		if strings.Contains(line, "-->") {
			annotated = line
			break
		}
	}
	if annotated == "" {
		t.Fatalf("no annotated line in output:\n%s", string(data))
	}
	cut := strings.Index(annotated, "…")
	if cut < 0 {
		t.Fatalf("long annotation not truncated: %q", annotated)
	}
	// 4 leading spaces plus the bounded mnemonic column.
	if cut > 4+maxDisassLineLen {
		t.Errorf("truncation mark at byte %d, past the line bound: %q", cut, annotated)
	}
}
