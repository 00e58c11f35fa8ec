package reverse

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/FuzzingLabs/sol-azy/internal/analysis"
	"github.com/FuzzingLabs/sol-azy/internal/sbpf"
)

// maxDisassLineLen bounds the mnemonic+annotation column; longer lines
// are cut and marked with an ellipsis.
const maxDisassLineLen = 2 * MaxImmediateStringBytes

// Disassemble performs the single forward pass over the instruction
// stream and writes one annotated line per instruction to
// disassembly.out under outDir. When immTracker is non-nil, every wide
// immediate pointing into the read-only data window is registered with
// it; when regTracker is non-nil, string annotations are resolved.
func Disassemble(program []byte, anal *analysis.Analysis, immTracker *ImmediateTracker, regTracker *RegisterTracker, outDir string) error {
	slog.Debug("Disassembling", "instructions", len(anal.Instructions))

	f, err := os.Create(filepath.Join(outDir, OutputDisassembly.DefaultFilename()))
	if err != nil {
		return fmt.Errorf("creating disassembly output: %w", err)
	}
	defer f.Close()
	out := bufio.NewWriter(f)

	anal.ResetLabelState()
	for pc, insn := range anal.Instructions {
		if err := anal.DisassembleLabel(out, pc == 0, insn.Ptr); err != nil {
			return err
		}

		// Memory map order is RODATA | STACK | HEAP | INPUTS; only the
		// first window holds immediates worth tabling.
		if insn.Opc == sbpf.LD_DW_IMM &&
			uint64(insn.Imm) >= sbpf.MMRodataStart && uint64(insn.Imm) < sbpf.MMStackStart {
			if immTracker != nil {
				immTracker.RegisterOffset(int(insn.Imm))
			}
		}

		// Lookahead gathers context such as an explicit string length
		// loaded right after the address.
		var next *sbpf.Insn
		if pc+1 < len(anal.Instructions) {
			next = &anal.Instructions[pc+1]
		}

		insnLine := anal.DisassembleInstruction(insn)
		if regTracker != nil {
			if repr := UpdateStringResolution(program, insn, next, regTracker); repr != "" {
				insnLine += " --> " + repr
				if len(insnLine) > maxDisassLineLen+1 {
					insnLine = insnLine[:maxDisassLineLen] + "…"
				}
			}
		}

		rustEq := ""
		if gloss, ok := Translate(insn, anal.Version); ok {
			rustEq = "        " + gloss
		}

		// Width 40 is enough to align the pseudocode column.
		if _, err := fmt.Fprintf(out, "    %-40s%s\n", insnLine, rustEq); err != nil {
			return err
		}
	}
	return out.Flush()
}

// WriteImmediateTable enumerates the tracked immediate ranges as
// "absolute (+ file offset): escaped bytes" lines in
// immediate_data_table.out. Ranges that do not map cleanly into the
// program are skipped.
func WriteImmediateTable(program []byte, immTracker *ImmediateTracker, outDir string) error {
	slog.Debug("Tracking immediates", "ranges", len(immTracker.Ranges()))

	f, err := os.Create(filepath.Join(outDir, OutputImmediateDataTable.DefaultFilename()))
	if err != nil {
		return fmt.Errorf("creating immediate data table: %w", err)
	}
	defer f.Close()
	out := bufio.NewWriter(f)

	const offsetBase = sbpf.MMRodataStart
	for _, r := range immTracker.Ranges() {
		startIdx := r.Start - offsetBase
		// Starts are absolute addresses; an end at or below the base is
		// the tracker's program-length default and is already
		// file-relative.
		endIdx := r.End
		if r.End > offsetBase {
			endIdx = r.End - offsetBase
		}
		if startIdx < 0 || endIdx < 0 {
			continue
		}
		if startIdx >= len(program) || endIdx > len(program) || startIdx >= endIdx {
			continue
		}
		repr := FormatBytes(program[startIdx:endIdx])
		if _, err := fmt.Fprintf(out, "0x%x (+ 0x%x): %s\n", r.Start, startIdx, repr); err != nil {
			return err
		}
	}
	return out.Flush()
}
