package reverse

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/FuzzingLabs/sol-azy/internal/analysis"
	"github.com/FuzzingLabs/sol-azy/internal/sbpf"
)

// maxCellContentLength bounds the operand/annotation part of a CFG table
// cell: mnemonic-sized slack plus the default string read length.
const maxCellContentLength = 15 + MaxImmediateStringBytes

const dotHeader = `digraph {
graph [
rankdir=LR;
concentrate=True;
style=filled;
color=lightgrey;
];
node [
shape=rect;
style=filled;
fillcolor=white;
fontname="Courier New";
];
edge [
fontname="Courier New";
];`

// htmlEscape makes a string safe for the HTML-like DOT labels.
func htmlEscape(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	return strings.ReplaceAll(s, `"`, "&quot;")
}

// ExportCFGToDot serializes the control flow graph as a Graphviz DOT
// file (cfg.dot under outDir): one cluster per emitted function, one
// rect node per basic block with an HTML table row per instruction.
//
// Two filters restrict the output. reduced limits clusters to the
// entrypoint function and everything after it in address order, and the
// edge pass to blocks actually emitted. onlyEntrypoint stops the cluster
// walk entirely once the entrypoint's cluster is out. Either filter also
// turns on the dotted dominator-tree annotation edges.
func ExportCFGToDot(program []byte, anal *analysis.Analysis, outDir string, reduced, onlyEntrypoint bool) error {
	f, err := os.Create(filepath.Join(outDir, OutputCFG.DefaultFilename()))
	if err != nil {
		return fmt.Errorf("creating cfg output: %w", err)
	}
	defer f.Close()
	out := bufio.NewWriter(f)

	if _, err := fmt.Fprintln(out, dotHeader); err != nil {
		return err
	}

	filtered := reduced || onlyEntrypoint
	visited := make(map[int]bool)

	// Clusters may only start once the entrypoint has been observed when
	// a filter is active; the latch never resets.
	entrypointSeen := false
	for _, fn := range anal.Functions {
		entryNode, ok := anal.CFGNodes[fn.Entry]
		if !ok {
			continue
		}
		label := entryNode.Label
		if filtered && !entrypointSeen && label != "entrypoint" {
			continue
		}
		if label == "entrypoint" {
			entrypointSeen = true
		}

		fmt.Fprintf(out, "  subgraph cluster_%d {\n", fn.Entry)
		fmt.Fprintf(out, "    label=%q;\n", htmlEscape(label))
		fmt.Fprintf(out, "    tooltip=lbb_%d;\n", fn.Entry)

		if err := emitCFGNode(out, program, anal, visited, fn.Entry); err != nil {
			return err
		}

		if _, err := fmt.Fprintln(out, "  }"); err != nil {
			return err
		}

		if onlyEntrypoint {
			break
		}
	}

	// Second pass: dominator-tree annotations and control-flow edges.
	for _, entry := range anal.IterCFGByFunction() {
		if filtered {
			if !visited[entry.Start] {
				continue
			}
			if entry.Start != entry.Node.DominatorParent {
				fmt.Fprintf(out, "  lbb_%d -> lbb_%d [style=dotted; arrowhead=none];\n",
					entry.Start, entry.Node.DominatorParent)
			}
		}

		if len(entry.Node.Destinations) == 0 {
			continue
		}
		targets := make([]string, 0, len(entry.Node.Destinations))
		for _, dest := range entry.Node.Destinations {
			targets = append(targets, fmt.Sprintf("lbb_%d", dest))
		}
		fmt.Fprintf(out, "  lbb_%d -> {%s};\n", entry.Start, strings.Join(targets, " "))
	}

	if _, err := fmt.Fprintln(out, "}"); err != nil {
		return err
	}
	return out.Flush()
}

// emitCFGNode writes one basic block as a DOT node and recurses into its
// dominated children. The visited set is both the filter bookkeeping for
// the edge pass and the guard against a malformed self-referential
// dominator edge.
func emitCFGNode(out io.Writer, program []byte, anal *analysis.Analysis, visited map[int]bool, start int) error {
	if visited[start] {
		return nil
	}
	visited[start] = true

	node, ok := anal.CFGNodes[start]
	if !ok {
		return nil
	}
	insns := anal.InstructionsForNode(node)

	// Block emission does not follow linear program order, so string
	// resolution gets a register tracker scoped to this block.
	tracker := NewRegisterTracker()

	var rows strings.Builder
	for i, insn := range insns {
		desc := anal.DisassembleInstruction(insn)
		var next *sbpf.Insn
		if i+1 < len(insns) {
			next = &insns[i+1]
		}
		if repr := UpdateStringResolution(program, insn, next, tracker); repr != "" {
			desc += " --> " + repr
		}
		if split := strings.IndexByte(desc, ' '); split >= 0 {
			rest := desc[split+1:]
			if len(rest) > maxCellContentLength+1 {
				rest = rest[:maxCellContentLength] + "…"
			}
			fmt.Fprintf(&rows, `<tr><td align="left">%s</td><td align="left">%s</td></tr>`,
				htmlEscape(desc[:split]), htmlEscape(rest))
		} else {
			fmt.Fprintf(&rows, `<tr><td align="left">%s</td></tr>`, htmlEscape(desc))
		}
	}

	if _, err := fmt.Fprintf(out,
		"    lbb_%d [label=<<table border=\"0\" cellborder=\"0\" cellpadding=\"3\">%s</table>>];\n",
		start, rows.String()); err != nil {
		return err
	}

	for _, child := range node.DominatedChildren {
		if err := emitCFGNode(out, program, anal, visited, child); err != nil {
			return err
		}
	}
	return nil
}
