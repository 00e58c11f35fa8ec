// Package reverse implements the static reverse-engineering engine for
// compiled SBF programs: annotated disassembly, an immediate data table,
// pseudocode glosses, and Graphviz export of the control flow graph.
package reverse

import "sort"

// ImmediateTracker maintains disjoint [start, end) ranges over the
// program's data address space. Starts are registered as wide-immediate
// loads are encountered; each range ends at the next registered start or
// at the end of the program.
type ImmediateTracker struct {
	starts     []int       // registered starts, ascending
	ends       map[int]int // start -> end
	programLen int
}

// ImmediateRange is one tracked [Start, End) range.
type ImmediateRange struct {
	Start int
	End   int
}

func NewImmediateTracker(programLen int) *ImmediateTracker {
	return &ImmediateTracker{
		ends:       make(map[int]int),
		programLen: programLen,
	}
}

// RegisterOffset declares that a new logical data item begins at newStart.
// The new range ends at the smallest already-registered start strictly
// greater than newStart, or at the program length. Every earlier range
// that still reaches past newStart is truncated to end there, so ranges
// stay pairwise disjoint. Registering the same start twice recomputes the
// same end.
func (t *ImmediateTracker) RegisterOffset(newStart int) {
	newEnd := t.programLen
	idx := sort.SearchInts(t.starts, newStart+1)
	if idx < len(t.starts) {
		newEnd = t.starts[idx]
	}

	// Truncate every predecessor that overlaps the new start. Ranges
	// starting at or after newStart must not be touched.
	for _, start := range t.starts[:idx] {
		if start < newStart && t.ends[start] > newStart {
			t.ends[start] = newStart
		}
	}

	if _, ok := t.ends[newStart]; !ok {
		pos := sort.SearchInts(t.starts, newStart)
		t.starts = append(t.starts, 0)
		copy(t.starts[pos+1:], t.starts[pos:])
		t.starts[pos] = newStart
	}
	t.ends[newStart] = newEnd
}

// GetRange returns the range registered at start, if any.
func (t *ImmediateTracker) GetRange(start int) (ImmediateRange, bool) {
	end, ok := t.ends[start]
	if !ok {
		return ImmediateRange{}, false
	}
	return ImmediateRange{Start: start, End: end}, true
}

// Ranges returns every registered range in ascending start order.
func (t *ImmediateTracker) Ranges() []ImmediateRange {
	out := make([]ImmediateRange, 0, len(t.starts))
	for _, start := range t.starts {
		out = append(out, ImmediateRange{Start: start, End: t.ends[start]})
	}
	return out
}
