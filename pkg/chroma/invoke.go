package chroma

import (
	"bytes"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/muesli/reflow/wrap"
)

// NewInvokeLexer creates a Chroma lexer for neo-express invocation files.
// They are plain JSON, but argument strings carry meaning by prefix: "@name"
// is a wallet account, "#name" a deployed contract and "0x..." a hash.
func NewInvokeLexer() chroma.Lexer {
	return chroma.MustNewLexer(
		&chroma.Config{
			Name:      "NeoInvoke",
			Aliases:   []string{"neo-invoke"},
			Filenames: []string{"*.neo-invoke.json"},
			MimeTypes: []string{"application/x-neo-invoke+json"},
		},
		func() chroma.Rules {
			return chroma.Rules{
				"root": {
					{Pattern: `\s+`, Type: chroma.Text, Mutator: nil},

					// Keys, the step fields stand out from anything nested in args
					{Pattern: `"(contract|operation|args)"(?=\s*:)`, Type: chroma.NameTag, Mutator: nil},
					{Pattern: `"(?:[^"\\]|\\.)*"(?=\s*:)`, Type: chroma.NameAttribute, Mutator: nil},

					// Argument references
					{Pattern: `"@(?:[^"\\]|\\.)*"`, Type: chroma.NameVariable, Mutator: nil},
					{Pattern: `"#(?:[^"\\]|\\.)*"`, Type: chroma.NameClass, Mutator: nil},
					{Pattern: `"0x[0-9A-Fa-f]*"`, Type: chroma.LiteralNumberHex, Mutator: nil},
					{Pattern: `"(?:[^"\\]|\\.)*"`, Type: chroma.LiteralString, Mutator: nil},

					{Pattern: `-?(0|[1-9][0-9]*)\.[0-9]+([eE][+-]?[0-9]+)?`, Type: chroma.LiteralNumberFloat, Mutator: nil},
					{Pattern: `-?(0|[1-9][0-9]*)([eE][+-]?[0-9]+)?`, Type: chroma.LiteralNumberInteger, Mutator: nil},
					{Pattern: `\b(true|false|null)\b`, Type: chroma.KeywordConstant, Mutator: nil},

					{Pattern: `[\[\]{}:,]`, Type: chroma.Punctuation, Mutator: nil},

					// Anything else is left as text so broken files still render
					{Pattern: `[^\s\[\]{}:,"]+`, Type: chroma.Text, Mutator: nil},
					{Pattern: `"`, Type: chroma.Text, Mutator: nil},
				},
			}
		},
	)
}

// HighlightInvoke returns an invocation file with ANSI syntax highlighting.
func HighlightInvoke(code string) string {
	return HighlightInvokeWithStyleAndWidth(code, "solarized-dark", 0)
}

// HighlightInvokeWithStyleAndWidth highlights with the named chroma style and
// wraps to maxWidth visible characters (0 = no wrapping). Wrapping happens
// after highlighting to keep the ANSI codes intact.
// Returns the original code if highlighting fails.
func HighlightInvokeWithStyleAndWidth(code, styleName string, maxWidth int) string {
	lexer := NewInvokeLexer()

	style := styles.Get(styleName)
	if style == nil {
		style = styles.Fallback
	}

	formatter := formatters.Get("terminal256")
	if formatter == nil {
		formatter = formatters.Fallback
	}

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return code
	}

	var buf bytes.Buffer
	if err := formatter.Format(&buf, style, iterator); err != nil {
		return code
	}

	highlighted := buf.String()
	if maxWidth > 0 {
		highlighted = wrap.String(highlighted, maxWidth)
	}
	return highlighted
}
