package reverse

import (
	"fmt"
	"log/slog"

	"github.com/FuzzingLabs/sol-azy/internal/analysis"
)

// OutputFile names the artifacts one analysis run can produce.
type OutputFile int

const (
	OutputDisassembly OutputFile = iota
	OutputImmediateDataTable
	OutputCFG
)

// DefaultFilename returns the canonical filename for an output artifact.
func (o OutputFile) DefaultFilename() string {
	switch o {
	case OutputDisassembly:
		return "disassembly.out"
	case OutputImmediateDataTable:
		return "immediate_data_table.out"
	case OutputCFG:
		return "cfg.dot"
	}
	return "unknown.out"
}

// Mode selects which outputs AnalyzeProgram generates.
type Mode int

const (
	ModeDisassembly Mode = iota
	ModeCFG
	ModeBoth
)

// ParseMode maps the CLI mode string to a Mode.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "disass":
		return ModeDisassembly, nil
	case "cfg":
		return ModeCFG, nil
	case "both":
		return ModeBoth, nil
	}
	return 0, fmt.Errorf("unknown reverse mode: %q", s)
}

// Options carries the invocation parameters of one analysis run.
type Options struct {
	OutDir         string
	Reduced        bool
	OnlyEntrypoint bool
}

// StageError reports which output stage failed; earlier stages' files
// remain on disk.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string { return fmt.Sprintf("%s stage: %v", e.Stage, e.Err) }
func (e *StageError) Unwrap() error { return e.Err }

// AnalyzeProgram runs the engine over one program according to the mode.
// The trackers are constructed fresh per call and owned by the single
// pass that uses them.
func AnalyzeProgram(mode Mode, program []byte, anal *analysis.Analysis, opts Options) error {
	slog.Debug("Analyzing program", "mode", mode, "out-dir", opts.OutDir, "version", anal.Version.String())

	if mode == ModeDisassembly || mode == ModeBoth {
		immTracker := NewImmediateTracker(len(program))
		regTracker := NewRegisterTracker()
		if err := Disassemble(program, anal, immTracker, regTracker, opts.OutDir); err != nil {
			return &StageError{Stage: "disassembly", Err: err}
		}
		if err := WriteImmediateTable(program, immTracker, opts.OutDir); err != nil {
			return &StageError{Stage: "immediate data table", Err: err}
		}
	}

	if mode == ModeCFG || mode == ModeBoth {
		if err := ExportCFGToDot(program, anal, opts.OutDir, opts.Reduced, opts.OnlyEntrypoint); err != nil {
			return &StageError{Stage: "cfg export", Err: err}
		}
	}
	return nil
}
