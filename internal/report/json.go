package report

import (
	"bytes"
	"encoding/json"
	"io"
	"unicode/utf16"
)

// Shape of a file in eslint's JSON output, so existing tooling can consume
// it.
type jsonResult struct {
	FilePath            string       `json:"filePath"`
	Messages            []Diagnostic `json:"messages"`
	ErrorCount          int          `json:"errorCount"`
	WarningCount        int          `json:"warningCount"`
	FixableErrorCount   int          `json:"fixableErrorCount"`
	FixableWarningCount int          `json:"fixableWarningCount"`
	FatalErrorCount     int          `json:"fatalErrorCount"`
	Output              *string      `json:"output,omitempty"`
	Error               string       `json:"error,omitempty"`
}

func (r *Report) jsonResults() []jsonResult {
	results := make([]jsonResult, 0, len(r.Files))

	for _, f := range r.Files {
		res := jsonResult{
			FilePath:            f.Path,
			Messages:            make([]Diagnostic, len(f.Diagnostics)),
			ErrorCount:          f.count(Error, false),
			WarningCount:        f.count(Warning, false),
			FixableErrorCount:   f.count(Error, true),
			FixableWarningCount: f.count(Warning, true),
		}

		for i, d := range f.Diagnostics {
			res.Messages[i] = toUTF16(f.Source, d)
		}

		if f.Output != nil {
			output := string(f.Output)
			res.Output = &output
		}

		if f.Err != nil {
			res.FatalErrorCount = 1
			res.Error = f.Err.Error()
		}

		results = append(results, res)
	}

	return results
}

// Writes the report in eslint's JSON format to w.
func (r *Report) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r.jsonResults())
}

// Diagnostics count columns and fix ranges in bytes, eslint counts them in
// UTF-16 code units. Without the source there is nothing to convert with.
func toUTF16(src []byte, d Diagnostic) Diagnostic {
	if src == nil {
		return d
	}

	d.Column = utf16Column(src, d.Line, d.Column)
	d.EndColumn = utf16Column(src, d.EndLine, d.EndColumn)

	if d.Fix != nil {
		fix := *d.Fix
		fix.Range[0] = utf16Len(src[:clamp(fix.Range[0], len(src))])
		fix.Range[1] = utf16Len(src[:clamp(fix.Range[1], len(src))])
		d.Fix = &fix
	}

	return d
}

// Converts a one-based byte column on a one-based line.
func utf16Column(src []byte, line, column int) int {
	if line < 1 || column < 1 {
		return column
	}

	start := 0

	for i := 1; i < line; i++ {
		nl := bytes.IndexByte(src[start:], '\n')
		if nl < 0 {
			return column
		}
		start += nl + 1
	}

	end := clamp(start+column-1, len(src))
	return utf16Len(src[start:end]) + 1
}

func utf16Len(b []byte) int {
	n := 0
	for _, r := range string(b) {
		n += utf16.RuneLen(r)
	}
	return n
}

func clamp(n, limit int) int {
	if n < 0 {
		return 0
	}
	if n > limit {
		return limit
	}
	return n
}
