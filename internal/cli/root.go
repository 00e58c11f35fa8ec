// Package cli wires the solazy commands. The heavy lifting lives in
// internal/reverse; this package is argument parsing, file I/O and
// terminal presentation.
package cli

import (
	"context"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "solazy",
	Short: "Static analysis toolkit for Solana SBF programs",
	Long: `Solazy is a security-auditing toolkit for compiled Solana SBF programs.
It produces annotated disassembly, an immediate data table, and a Graphviz
control flow graph from the raw bytecode and its analyzer dump.`,
	Example: `
# Disassemble and export the CFG
solazy reverse -m both --bytecode program.so --analysis analysis.json -o out/

# Export a reduced CFG (entrypoint-forward only)
solazy reverse -m cfg --bytecode program.so --analysis analysis.json -o out/ --reduced
  `,
}

func init() {
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolP("plain", "p", false, "Disable styled help rendering")
}

// Execute runs the root command, going through fang for the styled CLI
// experience unless output is piped or --plain was requested.
func Execute() {
	plain := false
	for _, arg := range os.Args[1:] {
		if arg == "--plain" || arg == "-p" {
			plain = true
			break
		}
	}

	// Also bypass fang when output is being piped
	if !plain && !term.IsTerminal(os.Stdout.Fd()) {
		plain = true
	}

	if plain {
		if err := rootCmd.Execute(); err != nil {
			os.Exit(1)
		}
	} else {
		if err := fang.Execute(
			context.Background(),
			rootCmd,
			fang.WithNotifySignal(os.Interrupt),
		); err != nil {
			os.Exit(1)
		}
	}
}
