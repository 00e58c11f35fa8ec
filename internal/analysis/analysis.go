// Package analysis defines the static-analysis model consumed by the
// disassembly and CFG exporters: the ordered instruction stream, the
// basic-block table with its dominator tree, and the function table.
// Producing this model from an executable (ELF parsing, relocation,
// dataflow) is the job of the upstream bytecode analyzer; this package
// only carries its results and renders labels and instructions.
package analysis

import (
	"fmt"
	"io"
	"sort"

	"github.com/FuzzingLabs/sol-azy/internal/sbpf"
)

// CFGNode is one basic block, keyed in Analysis.CFGNodes by the program
// counter of its first instruction.
type CFGNode struct {
	// Instructions is the half-open index range [Start, End) into
	// Analysis.Instructions covered by this block.
	InsnStart int
	InsnEnd   int

	// DominatorParent is the start pc of the immediate dominator.
	// The function entry block dominates itself.
	DominatorParent int

	// DominatedChildren lists the start pcs of blocks immediately
	// dominated by this one, in ascending order.
	DominatedChildren []int

	// Destinations lists the start pcs the block's last instruction
	// can transfer control to (jump targets and fallthrough).
	Destinations []int

	Label string
}

// Function is one entry of the ordered function table.
type Function struct {
	Entry int
	Label string
}

// Analysis is the full result of the upstream static analysis over one
// program. The exporters treat it as read-only; the only mutable state
// is the last-emitted-block cursor used while printing labels.
type Analysis struct {
	Instructions []sbpf.Insn
	CFGNodes     map[int]*CFGNode
	Functions    []Function
	Version      sbpf.Version

	lastBasicBlock int
}

// New assembles an Analysis and normalizes the parts whose ordering the
// exporters rely on: the function table ascending by entry address, and
// per-node child/destination lists ascending.
func New(insns []sbpf.Insn, nodes map[int]*CFGNode, fns []Function, version sbpf.Version) *Analysis {
	sorted := make([]Function, len(fns))
	copy(sorted, fns)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Entry < sorted[j].Entry })
	for _, node := range nodes {
		sort.Ints(node.DominatedChildren)
		sort.Ints(node.Destinations)
	}
	return &Analysis{
		Instructions:   insns,
		CFGNodes:       nodes,
		Functions:      sorted,
		Version:        version,
		lastBasicBlock: -1,
	}
}

// InstructionsForNode returns the instruction slice covered by a block.
// A range that does not fit the stream yields an empty slice rather
// than a panic.
func (a *Analysis) InstructionsForNode(node *CFGNode) []sbpf.Insn {
	if node == nil || node.InsnStart < 0 || node.InsnEnd > len(a.Instructions) || node.InsnStart > node.InsnEnd {
		return nil
	}
	return a.Instructions[node.InsnStart:node.InsnEnd]
}

// FunctionEnd returns the exclusive pc bound of the function starting at
// the given table index: the next function's entry, or one past the last
// instruction of the stream.
func (a *Analysis) FunctionEnd(idx int) int {
	if idx+1 < len(a.Functions) {
		return a.Functions[idx+1].Entry
	}
	if len(a.Instructions) == 0 {
		return 0
	}
	return a.Instructions[len(a.Instructions)-1].Ptr + 1
}

// DisassembleInstruction renders one instruction, resolving call targets
// to function labels when the target is known.
func (a *Analysis) DisassembleInstruction(insn sbpf.Insn) string {
	if insn.Opc == sbpf.CALL_IMM {
		target := int(int32(insn.Imm))
		for _, fn := range a.Functions {
			if fn.Entry == target && fn.Label != "" {
				return fmt.Sprintf("call %s", fn.Label)
			}
		}
	}
	return insn.Format()
}

// DisassembleLabel writes the basic-block label line when pc starts a
// recognized block that has not just been announced. The first
// instruction of the stream is labeled without a preceding blank line.
func (a *Analysis) DisassembleLabel(w io.Writer, first bool, pc int) error {
	node, ok := a.CFGNodes[pc]
	if !ok || pc == a.lastBasicBlock {
		return nil
	}
	if !first {
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
	}
	label := node.Label
	if label == "" {
		label = fmt.Sprintf("lbb_%d", pc)
	}
	if _, err := fmt.Fprintf(w, "%s:\n", label); err != nil {
		return err
	}
	a.lastBasicBlock = pc
	return nil
}

// ResetLabelState rewinds the label cursor so a fresh pass over the
// stream labels its blocks again.
func (a *Analysis) ResetLabelState() { a.lastBasicBlock = -1 }

// CFGEntry pairs a block with the function that owns it.
type CFGEntry struct {
	Function int
	Start    int
	Node     *CFGNode
}

// IterCFGByFunction returns every basic block grouped by owning function,
// functions in ascending entry order and blocks ascending within each.
func (a *Analysis) IterCFGByFunction() []CFGEntry {
	starts := make([]int, 0, len(a.CFGNodes))
	for start := range a.CFGNodes {
		starts = append(starts, start)
	}
	sort.Ints(starts)

	var entries []CFGEntry
	for idx, fn := range a.Functions {
		end := a.FunctionEnd(idx)
		for _, start := range starts {
			if start >= fn.Entry && start < end {
				entries = append(entries, CFGEntry{Function: fn.Entry, Start: start, Node: a.CFGNodes[start]})
			}
		}
	}
	return entries
}
