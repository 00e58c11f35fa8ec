// Package colorize applies terminal syntax highlighting to disassembly
// listings echoed to an interactive terminal. Output files are never
// colorized.
package colorize

import (
	"os"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// getAssemblyLexer returns an assembly lexer with fallbacks. There is no
// dedicated sBPF lexer; the generic assembler lexers tokenize mnemonics,
// registers and numbers well enough for coloring.
func getAssemblyLexer() chroma.Lexer {
	for _, name := range []string{"nasm", "gas", "armasm"} {
		if lexer := lexers.Get(name); lexer != nil {
			return lexer
		}
	}
	return nil
}

func getDisasmStyle() *chroma.Style {
	for _, name := range []string{"disasm-dark", "dracula", "monokai"} {
		if style := styles.Get(name); style != nil {
			return style
		}
	}
	return styles.Fallback
}

func getTerminalFormatter() chroma.Formatter {
	for _, name := range []string{"terminal16m", "terminal256"} {
		if formatter := formatters.Get(name); formatter != nil {
			return formatter
		}
	}
	return formatters.Fallback
}

// Disassembly colorizes a full disassembly listing for terminal display.
// On any tokenization problem, or when SOLAZY_NO_COLOR is set, the input
// is returned untouched.
func Disassembly(code string) string {
	if os.Getenv("SOLAZY_NO_COLOR") != "" {
		return code
	}

	lexer := getAssemblyLexer()
	if lexer == nil {
		return code
	}

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return code
	}

	var buf strings.Builder
	if err := getTerminalFormatter().Format(&buf, getDisasmStyle(), iterator); err != nil {
		return code
	}
	return buf.String()
}
