package errors

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

const (
	errorColor      = "\033[1;31m"
	warningColor    = "\033[1;33m"
	errorFocusColor = "\033[1m"
	errorLineColor  = "\033[2m"
	resetColor      = "\033[0m"
)

var yamlLineErrorRegex = regexp.MustCompile(`yaml: line (\d+): `)
var yamlUnknownFieldRegex = regexp.MustCompile(`line (\d+): field (\S+) not found in type`)
var jsonUnknownFieldRegex = regexp.MustCompile(`^json: unknown field "(.+)"$`)
var ansiRegex = regexp.MustCompile("\033\\[[0-9;]*m")

type codeFrameError struct {
	summary string
	err     error
	msg     string
	src     string
	line    int
	column  int
	file    string
	offset  int
}

func (e *codeFrameError) Error() string {
	var b strings.Builder

	if e.file != "" {
		b.WriteString(fmt.Sprintf("%s%s:%d%s\n", errorFocusColor, e.file, e.offset+e.line, resetColor))
	}

	frame := frame{
		lines:  strings.Split(e.src, "\n"),
		line:   e.line,
		column: e.column,
		offset: e.offset,
		msg:    e.msg,
		color:  errorColor,
	}

	b.WriteString(frame.String())
	return b.String()
}

func (e *codeFrameError) Unwrap() error {
	return e.err
}

// The lines around a single location in a source file, with the location
// underlined and annotated.
type frame struct {
	lines []string
	// One-based line to focus.
	line int
	// One-based column to start underlining at, zero underlines the line.
	column int
	// Number of characters to underline, zero runs to the end of the line.
	width int
	// Added to the line numbers shown in the gutter.
	offset int
	msg    string
	color  string
	// Highlighted copies of lines, used in place of lines if present.
	highlighted []string
}

func (f *frame) String() string {
	line := f.line - 1 // make line zero-based
	startLine := line - 3
	endLine := line + 3

	if startLine < 0 {
		startLine = 0
	}

	if endLine >= len(f.lines) {
		endLine = len(f.lines) - 1
	}

	var b strings.Builder

	for i := startLine; i <= endLine; i++ {
		lineColor := errorLineColor

		if i == line {
			lineColor = errorFocusColor
		}

		text := f.lines[i]

		if i < len(f.highlighted) {
			text = f.highlighted[i]
		}

		lineNumber := f.offset + i + 1
		b.WriteString(fmt.Sprintf("%s%3d%s %s%s\n", lineColor, lineNumber, resetColor, text, resetColor))

		if i == line {
			length := len(f.lines[line])
			start := 0

			if f.column > 0 && f.column-1 <= length {
				start = f.column - 1
			}

			width := length - start

			if f.width > 0 && f.width < width {
				width = f.width
			}

			if width < 1 {
				width = 1
			}

			indent := strings.Repeat(" ", start)
			underline := strings.Repeat("^", width)
			b.WriteString(fmt.Sprintf("    %s%s%s%s\n", indent, f.color, underline, resetColor))
			b.WriteString(fmt.Sprintf("    %s%s%s%s\n", indent, f.color, f.msg, resetColor))
		}
	}

	return b.String()
}

func YamlParseError(err error, file string, src string) error {
	if matches := yamlUnknownFieldRegex.FindStringSubmatch(err.Error()); len(matches) >= 3 {
		line, _ := strconv.Atoi(matches[1])
		return &codeFrameError{
			summary: "unknown config field",
			file:    file,
			line:    line,
			src:     src,
			err:     err,
			msg:     fmt.Sprintf("unknown field %s", matches[2]),
		}
	}

	matches := yamlLineErrorRegex.FindStringSubmatch(err.Error())

	if len(matches) < 2 {
		return err
	}

	line, _ := strconv.Atoi(matches[1])
	msg := yamlLineErrorRegex.ReplaceAllString(err.Error(), "")
	return &codeFrameError{
		summary: "yaml parse error",
		file:    file,
		line:    line,
		src:     src,
		err:     err,
		msg:     msg,
	}
}

// Same as YamlParseError but for front matter, where line numbers are
// relative to the front matter block, which starts after the opening
// delimiter.
func FrontMatterError(err error, file string, src string) error {
	e := YamlParseError(err, file, src)

	if cferr, ok := e.(*codeFrameError); ok {
		cferr.summary = "front matter " + cferr.summary
		cferr.line += 1
	}

	return e
}

func JsonParseError(err error, file string, src string) error {
	if err == nil {
		return nil
	}

	if jsonError, ok := err.(*json.SyntaxError); ok {
		line, column := loc(src, int(jsonError.Offset))

		return &codeFrameError{
			summary: "json parse error",
			file:    file,
			line:    line,
			column:  column,
			src:     src,
			err:     err,
			msg:     jsonError.Error(),
		}
	}

	if typeError, ok := err.(*json.UnmarshalTypeError); ok {
		line, _ := loc(src, int(typeError.Offset))

		return &codeFrameError{
			summary: "json invalid type",
			file:    file,
			line:    line,
			src:     src,
			err:     err,
			msg:     fmt.Sprintf("expected %s to be a %s", typeError.Field, typeError.Type),
		}
	}

	if matches := jsonUnknownFieldRegex.FindStringSubmatch(err.Error()); len(matches) >= 2 {
		key := matches[1]
		offset := strings.Index(src, strconv.Quote(key))

		if offset < 0 {
			offset = 0
		}

		line, column := loc(src, offset)

		return &codeFrameError{
			summary: "unknown config field",
			file:    file,
			line:    line,
			column:  column,
			src:     src,
			err:     err,
			msg:     fmt.Sprintf("unknown field %s", key),
		}
	}

	return err
}

// ConfigError is returned when a config key holds a value outside of the
// allowed set.
type ConfigError struct {
	File    string
	Key     string
	Value   string
	Allowed []string
}

func (e ConfigError) Error() string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("invalid %s in %s: %q", e.Key, e.File, e.Value))

	if len(e.Allowed) > 0 {
		b.WriteString("\n\nAllowed values:\n")
		for _, s := range e.Allowed {
			b.WriteString(fmt.Sprintf("- %s\n", s))
		}
	}

	return b.String()
}

// Converts a byte offset into a one-based line and column.
func loc(src string, offset int) (line int, col int) {
	if offset > len(src) {
		offset = len(src)
	}

	before := src[:offset]
	line = strings.Count(before, "\n") + 1
	col = offset - strings.LastIndexByte(before, '\n')
	return line, col
}

func FmtError(err error) string {
	cferr, ok := err.(*codeFrameError)

	if ok {
		return fmt.Sprintf("%serror:%s %s\n\n%s", errorColor, resetColor, cferr.summary, cferr)
	} else {
		return fmt.Sprintf("%serror:%s %s", errorColor, resetColor, err)
	}
}

// Formats an error the same way as FmtError, minus the terminal colors.
func NoColor(err error) string {
	return StripColor(FmtError(err))
}

func StripColor(s string) string {
	return ansiRegex.ReplaceAllString(s, "")
}
