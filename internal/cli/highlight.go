package cli

import (
	"io"
	"os"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/quick"
	chromastyles "github.com/alecthomas/chroma/v2/styles"
	"golang.org/x/term"
)

const highlightStyle = "catppuccin-mocha"

func init() {
	// Based on https://github.com/catppuccin/chroma
	chromastyles.Register(chroma.MustNewStyle(highlightStyle, chroma.StyleEntries{
		chroma.Text:                "#cdd6f4",
		chroma.Error:               "#f38ba8",
		chroma.Comment:             "#6c7086 italic",
		chroma.CommentPreproc:      "#f5e0dc",
		chroma.Keyword:             "#cba6f7",
		chroma.KeywordType:         "#f9e2af",
		chroma.Punctuation:         "#9399b2",
		chroma.Name:                "#cdd6f4",
		chroma.NameAttribute:       "#f9e2af",
		chroma.NameTag:             "#cba6f7",
		chroma.Literal:             "#cdd6f4",
		chroma.LiteralNumber:       "#fab387",
		chroma.LiteralString:       "#a6e3a1",
		chroma.LiteralStringEscape: "#f5e0dc",
		chroma.Background:          "", // Transparent background
	}))
}

// isTerminal reports whether w is a terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// writeSource writes src to w, highlighted as lexer when w is a terminal.
func writeSource(w io.Writer, src, lexer string) error {
	if isTerminal(w) {
		return quick.Highlight(w, src, lexer, "terminal256", highlightStyle)
	}
	_, err := io.WriteString(w, src)
	return err
}
