package errors

import (
	"strings"

	"github.com/alecthomas/chroma"
	"github.com/alecthomas/chroma/formatters"
	"github.com/alecthomas/chroma/lexers"
	"github.com/alecthomas/chroma/styles"
)

// Options for rendering a code frame around a diagnostic.
type FrameOptions struct {
	// Used to pick a lexer for syntax highlighting.
	Filename string
	// Name of a chroma style, highlighting is disabled when empty.
	Style   string
	Warning bool
	Color   bool
}

// Renders the lines surrounding line:column in src, underlining width
// characters from column and annotating them with msg.
func CodeFrame(src string, line, column, width int, msg string, opts FrameOptions) string {
	lines := strings.Split(src, "\n")

	if line < 1 || line > len(lines) {
		return ""
	}

	f := frame{
		lines:  lines,
		line:   line,
		column: column,
		width:  width,
		msg:    msg,
		color:  errorColor,
	}

	if opts.Warning {
		f.color = warningColor
	}

	if opts.Color && opts.Style != "" {
		f.highlighted = highlightLines(lines, line, opts.Filename, opts.Style)
	}

	s := f.String()

	if !opts.Color {
		s = StripColor(s)
	}

	return s
}

// Highlights the lines that a frame around focus would show. Lines outside of
// that window are left empty, as are all lines if highlighting fails.
func highlightLines(lines []string, focus int, filename string, styleName string) []string {
	lexer := lexers.Match(filename)

	if lexer == nil {
		lexer = lexers.Get("html")
	}

	if lexer == nil {
		lexer = lexers.Fallback
	}

	lexer = chroma.Coalesce(lexer)
	style := styles.Get(styleName)
	formatter := formatters.Get("terminal256")

	start := focus - 4
	end := focus + 3

	if start < 0 {
		start = 0
	}

	if end > len(lines) {
		end = len(lines)
	}

	highlighted := make([]string, end)

	// Highlight line by line, so a token spanning lines can't leave a color
	// code open across the gutter.
	for i := start; i < end; i++ {
		iterator, err := lexer.Tokenise(nil, lines[i])

		if err != nil {
			return nil
		}

		var b strings.Builder

		if err := formatter.Format(&b, style, iterator); err != nil {
			return nil
		}

		// Some lexers append a newline to their input.
		highlighted[i] = strings.ReplaceAll(b.String(), "\n", "")
	}

	for i := 0; i < start; i++ {
		highlighted[i] = lines[i]
	}

	return highlighted
}
