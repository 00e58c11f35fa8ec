package colorize

import (
	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/styles"
)

func init() {
	// Register the custom disassembly style on package initialization
	_ = DisasmDark
}

// DisasmDark is a custom style for disassembly listings
var DisasmDark = styles.Register(chroma.MustNewStyle("disasm-dark", chroma.StyleEntries{
	chroma.Text:           "#FFFFFF",
	chroma.Background:     "bg:#1e1e1e",
	chroma.Comment:        "#FFFFFF",
	chroma.CommentPreproc: "#FFFFFF",

	// Mnemonics are tokenized as keywords or functions by the generic
	// assembler lexers
	chroma.Keyword:       "#FFFFFF",
	chroma.KeywordPseudo: "#FFFFFF",
	chroma.NameFunction:  "#FFFFFF",

	// Registers
	chroma.Name:         "#7C9C9D",
	chroma.NameBuiltin:  "#7C9C9D",
	chroma.NameVariable: "#7C9C9D",

	// Numbers
	chroma.LiteralNumber:        "#FF5F87",
	chroma.LiteralNumberHex:     "#FF5F87",
	chroma.LiteralNumberBin:     "#FF5F87",
	chroma.LiteralNumberOct:     "#FF5F87",
	chroma.LiteralNumberInteger: "#FF5F87",
	chroma.LiteralNumberFloat:   "#FF5F87",

	// Basic-block labels
	chroma.NameLabel: "#FFD700",

	chroma.Operator:    "#FFFFFF",
	chroma.Punctuation: "#FFFFFF",

	// String annotations (b"...")
	chroma.String: "#EACD53",
}))
