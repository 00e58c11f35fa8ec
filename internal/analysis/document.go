package analysis

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/ianlancetaylor/demangle"

	"github.com/FuzzingLabs/sol-azy/internal/sbpf"
)

// Document is the JSON dump format of the upstream bytecode analyzer.
// It mirrors the Analysis model field by field; LoadDocument converts it
// after demangling symbol labels.
type Document struct {
	SBPFVersion  int             `json:"sbpf_version" jsonschema:"title=SBPF Version,description=ISA revision the executable targets (1..3)"`
	Instructions []sbpf.Insn     `json:"instructions" jsonschema:"title=Instructions,description=Ordered decoded instruction stream"`
	CFGNodes     []DocumentNode  `json:"cfg_nodes" jsonschema:"title=CFG Nodes,description=Basic blocks keyed by start pc"`
	Functions    []DocumentEntry `json:"functions" jsonschema:"title=Functions,description=Function table ordered by entry pc"`
}

// DocumentNode is one basic block of the analyzer dump.
type DocumentNode struct {
	StartPC           int    `json:"start_pc"`
	InsnStart         int    `json:"insn_start"`
	InsnEnd           int    `json:"insn_end"`
	DominatorParent   int    `json:"dominator_parent"`
	DominatedChildren []int  `json:"dominated_children"`
	Destinations      []int  `json:"destinations"`
	Label             string `json:"label"`
}

// DocumentEntry is one function-table row of the analyzer dump.
type DocumentEntry struct {
	Entry int    `json:"entry"`
	Label string `json:"label"`
}

// filterLabel demangles Rust/C++ symbol names so clusters and label lines
// read as source identifiers; unmangled labels pass through untouched.
func filterLabel(label string) string {
	if label == "" {
		return label
	}
	return demangle.Filter(label)
}

// FromDocument converts an analyzer dump into the Analysis model.
func FromDocument(doc *Document) *Analysis {
	nodes := make(map[int]*CFGNode, len(doc.CFGNodes))
	for _, dn := range doc.CFGNodes {
		nodes[dn.StartPC] = &CFGNode{
			InsnStart:         dn.InsnStart,
			InsnEnd:           dn.InsnEnd,
			DominatorParent:   dn.DominatorParent,
			DominatedChildren: dn.DominatedChildren,
			Destinations:      dn.Destinations,
			Label:             filterLabel(dn.Label),
		}
	}
	fns := make([]Function, 0, len(doc.Functions))
	for _, fe := range doc.Functions {
		fns = append(fns, Function{Entry: fe.Entry, Label: filterLabel(fe.Label)})
	}
	return New(doc.Instructions, nodes, fns, sbpf.ParseVersion(doc.SBPFVersion))
}

// LoadDocument reads and converts an analyzer dump from disk.
func LoadDocument(path string) (*Analysis, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading analysis document: %w", err)
	}
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decoding analysis document %s: %w", path, err)
	}
	return FromDocument(&doc), nil
}
