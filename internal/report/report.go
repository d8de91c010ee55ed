package report

import (
	"encoding/json"
	"fmt"
	"strings"
)

type Severity int

// Values match the numeric severities used by eslint's formatters.
const (
	Off Severity = iota
	Warning
	Error
)

var severityNames = map[string]Severity{
	"off":   Off,
	"warn":  Warning,
	"error": Error,
}

// Returns the names accepted by ParseSeverity.
func SeverityNames() []string {
	return []string{"error", "warn", "off"}
}

func ParseSeverity(s string) (Severity, bool) {
	sev, ok := severityNames[strings.ToLower(s)]
	return sev, ok
}

func (s Severity) String() string {
	switch s {
	case Warning:
		return "warning"
	case Error:
		return "error"
	default:
		return "off"
	}
}

// Fix is a text replacement over the byte range [Range[0], Range[1]).
type Fix struct {
	Range [2]int `json:"range"`
	Text  string `json:"text"`
}

// Diagnostic is a single problem found in a file.
type Diagnostic struct {
	RuleID    string   `json:"ruleId"`
	MessageID string   `json:"messageId"`
	Message   string   `json:"message"`
	Severity  Severity `json:"severity"`
	Line      int      `json:"line"`
	Column    int      `json:"column"`
	EndLine   int      `json:"endLine"`
	EndColumn int      `json:"endColumn"`
	Fix       *Fix     `json:"fix,omitempty"`
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%d:%d %s %s [%s]", d.Line, d.Column, d.Severity, d.Message, d.RuleID)
}

// FileResult holds the diagnostics for a single file.
type FileResult struct {
	Path        string
	Source      []byte
	Diagnostics []Diagnostic
	// Fixed source, only set when fixes were applied.
	Output []byte
	// Set when the file couldn't be read or parsed.
	Err error
}

func (f *FileResult) count(sev Severity, fixable bool) int {
	n := 0
	for _, d := range f.Diagnostics {
		if d.Severity == sev && (!fixable || d.Fix != nil) {
			n++
		}
	}
	return n
}

// Report collects the results of a lint run.
type Report struct {
	Files []*FileResult
}

func New() *Report {
	return &Report{}
}

func (r *Report) Add(f *FileResult) {
	r.Files = append(r.Files, f)
}

func (r *Report) ErrorCount() int {
	n := 0
	for _, f := range r.Files {
		n += f.count(Error, false)
	}
	return n
}

func (r *Report) WarningCount() int {
	n := 0
	for _, f := range r.Files {
		n += f.count(Warning, false)
	}
	return n
}

func (r *Report) FixableErrorCount() int {
	n := 0
	for _, f := range r.Files {
		n += f.count(Error, true)
	}
	return n
}

func (r *Report) FixableWarningCount() int {
	n := 0
	for _, f := range r.Files {
		n += f.count(Warning, true)
	}
	return n
}

// Returns the number of files that failed to lint.
func (r *Report) FatalCount() int {
	n := 0
	for _, f := range r.Files {
		if f.Err != nil {
			n++
		}
	}
	return n
}

func (r *Report) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.jsonResults())
}
