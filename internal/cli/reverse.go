package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/lipgloss/v2"
	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"

	"github.com/FuzzingLabs/sol-azy/internal/analysis"
	"github.com/FuzzingLabs/sol-azy/internal/logging"
	"github.com/FuzzingLabs/sol-azy/internal/reverse"
	"github.com/FuzzingLabs/sol-azy/internal/sbpf"
	"github.com/FuzzingLabs/sol-azy/internal/ui/colorize"
)

var (
	okStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	pathStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("81"))
)

var reverseCmd = &cobra.Command{
	Use:   "reverse",
	Short: "Disassemble an SBF program and export its control flow graph",
	Long: `Reverse runs the static reverse-engineering engine over a compiled SBF
program. Depending on the mode it writes an annotated disassembly with an
immediate data table, a Graphviz control flow graph, or both.

The analyzer dump (--analysis) is the JSON export of the upstream bytecode
analyzer; see "solazy schema" for its format.`,
	Example: `
# Annotated disassembly only
solazy reverse -m disass --bytecode program.so --analysis analysis.json -o out/

# CFG restricted to the entrypoint cluster
solazy reverse -m cfg --bytecode program.so --analysis analysis.json -o out/ --only-entrypoint
  `,
	RunE: func(cmd *cobra.Command, args []string) error {
		modeStr, _ := cmd.Flags().GetString("mode")
		bytecode, _ := cmd.Flags().GetString("bytecode")
		analysisPath, _ := cmd.Flags().GetString("analysis")
		outDir, _ := cmd.Flags().GetString("out-dir")
		reduced, _ := cmd.Flags().GetBool("reduced")
		onlyEntrypoint, _ := cmd.Flags().GetBool("only-entrypoint")
		versionOverride, _ := cmd.Flags().GetInt("sbpf-version")
		echo, _ := cmd.Flags().GetBool("print")

		logger := logging.NewLogger()
		defer logger.Close()

		mode, err := reverse.ParseMode(modeStr)
		if err != nil {
			return err
		}

		program, err := os.ReadFile(bytecode)
		if err != nil {
			return fmt.Errorf("reading bytecode: %w", err)
		}

		anal, err := analysis.LoadDocument(analysisPath)
		if err != nil {
			return err
		}
		if versionOverride != 0 {
			anal.Version = sbpf.ParseVersion(versionOverride)
		}

		if err := os.MkdirAll(outDir, 0o755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}

		logger.Info("Analyzing program",
			"bytecode", bytecode,
			"instructions", len(anal.Instructions),
			"version", anal.Version.String())

		opts := reverse.Options{
			OutDir:         outDir,
			Reduced:        reduced,
			OnlyEntrypoint: onlyEntrypoint,
		}
		if err := reverse.AnalyzeProgram(mode, program, anal, opts); err != nil {
			var stage *reverse.StageError
			if errors.As(err, &stage) {
				logger.Error("Output stage failed; earlier outputs remain on disk",
					"stage", stage.Stage, "error", stage.Err)
			}
			return err
		}

		for _, of := range producedOutputs(mode) {
			fmt.Printf("%s wrote %s\n", okStyle.Render("✓"),
				pathStyle.Render(filepath.Join(outDir, of.DefaultFilename())))
		}

		if echo && (mode == reverse.ModeDisassembly || mode == reverse.ModeBoth) {
			listing, err := os.ReadFile(filepath.Join(outDir, reverse.OutputDisassembly.DefaultFilename()))
			if err != nil {
				return fmt.Errorf("reading back disassembly: %w", err)
			}
			if term.IsTerminal(os.Stdout.Fd()) {
				fmt.Print(colorize.Disassembly(string(listing)))
			} else {
				fmt.Print(string(listing))
			}
		}
		return nil
	},
}

func producedOutputs(mode reverse.Mode) []reverse.OutputFile {
	switch mode {
	case reverse.ModeDisassembly:
		return []reverse.OutputFile{reverse.OutputDisassembly, reverse.OutputImmediateDataTable}
	case reverse.ModeCFG:
		return []reverse.OutputFile{reverse.OutputCFG}
	default:
		return []reverse.OutputFile{reverse.OutputDisassembly, reverse.OutputImmediateDataTable, reverse.OutputCFG}
	}
}

func init() {
	reverseCmd.Flags().StringP("mode", "m", "both", "Output mode: disass, cfg or both")
	reverseCmd.Flags().String("bytecode", "", "Path to the compiled SBF program (.so)")
	reverseCmd.Flags().String("analysis", "", "Path to the analyzer's JSON dump")
	reverseCmd.Flags().StringP("out-dir", "o", ".", "Directory for output files")
	reverseCmd.Flags().Bool("reduced", false, "Restrict the CFG to the entrypoint function onward")
	reverseCmd.Flags().Bool("only-entrypoint", false, "Emit only the entrypoint function's cluster")
	reverseCmd.Flags().Int("sbpf-version", 0, "Override the ISA version from the analyzer dump (1..3)")
	reverseCmd.Flags().Bool("print", false, "Echo the disassembly to stdout after writing it")
	_ = reverseCmd.MarkFlagRequired("bytecode")
	_ = reverseCmd.MarkFlagRequired("analysis")
	rootCmd.AddCommand(reverseCmd)
}
