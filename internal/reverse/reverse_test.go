package reverse

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestParseMode(t *testing.T) {
	tests := []struct {
		input    string
		expected Mode
		wantErr  bool
	}{
		{"disass", ModeDisassembly, false},
		{"cfg", ModeCFG, false},
		{"both", ModeBoth, false},
		{"", 0, true},
		{"dis", 0, true},
		{"BOTH", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseMode(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseMode(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err == nil && got != tt.expected {
				t.Errorf("ParseMode(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestOutputFileDefaultFilename(t *testing.T) {
	tests := []struct {
		output   OutputFile
		expected string
	}{
		{OutputDisassembly, "disassembly.out"},
		{OutputImmediateDataTable, "immediate_data_table.out"},
		{OutputCFG, "cfg.dot"},
	}
	for _, tt := range tests {
		if got := tt.output.DefaultFilename(); got != tt.expected {
			t.Errorf("DefaultFilename(%d) = %q, want %q", tt.output, got, tt.expected)
		}
	}
}

func TestAnalyzeProgramModes(t *testing.T) {
	tests := []struct {
		name    string
		mode    Mode
		present []string
		absent  []string
	}{
		{
			name:    "disassembly only",
			mode:    ModeDisassembly,
			present: []string{"disassembly.out", "immediate_data_table.out"},
			absent:  []string{"cfg.dot"},
		},
		{
			name:    "cfg only",
			mode:    ModeCFG,
			present: []string{"cfg.dot"},
			absent:  []string{"disassembly.out", "immediate_data_table.out"},
		},
		{
			name:    "both",
			mode:    ModeBoth,
			present: []string{"disassembly.out", "immediate_data_table.out", "cfg.dot"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpDir, err := os.MkdirTemp("", "analyze-test")
			if err != nil {
				t.Fatal(err)
			}
			defer os.RemoveAll(tmpDir)

			program, anal := hiProgram()
			if err := AnalyzeProgram(tt.mode, program, anal, Options{OutDir: tmpDir}); err != nil {
				t.Fatal(err)
			}

			for _, name := range tt.present {
				if _, err := os.Stat(filepath.Join(tmpDir, name)); err != nil {
					t.Errorf("expected output %s missing: %v", name, err)
				}
			}
			for _, name := range tt.absent {
				if _, err := os.Stat(filepath.Join(tmpDir, name)); err == nil {
					t.Errorf("unexpected output %s present", name)
				}
			}
		})
	}
}

func TestAnalyzeProgramStageError(t *testing.T) {
	program, anal := hiProgram()
	err := AnalyzeProgram(ModeBoth, program, anal, Options{OutDir: "/nonexistent/dir"})
	if err == nil {
		t.Fatal("AnalyzeProgram into a missing directory succeeded")
	}

	var stageErr *StageError
	if !errors.As(err, &stageErr) {
		t.Fatalf("error %v is not a StageError", err)
	}
	if stageErr.Stage != "disassembly" {
		t.Errorf("failing stage = %q, want %q", stageErr.Stage, "disassembly")
	}
}
