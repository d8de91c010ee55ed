// Package lint runs the no-target-blank rule over template files and applies
// its fixes.
package lint

import (
	"path/filepath"
	"strings"

	"github.com/danprince/relcheck/internal/markup"
	"github.com/danprince/relcheck/internal/report"
	"github.com/danprince/relcheck/internal/rules"
)

// Upper bound on the number of times Fix will re-lint a file. Each pass
// applies every non-overlapping fix, so this is only reached by fixes that
// keep producing new problems.
const maxFixPasses = 10

type Linter struct {
	Severity report.Severity
}

func New(sev report.Severity) *Linter {
	return &Linter{Severity: sev}
}

// Finds the elements in a file, based on its extension. Markdown files can
// also override options in their front matter.
func elements(name string, src []byte) ([]*markup.Element, rules.Overrides, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".vue":
		p := markup.Parser{TemplateOnly: true}
		return p.Parse(src), rules.Overrides{}, nil
	case ".md", ".markdown":
		return markdownElements(name, src)
	default:
		p := markup.Parser{}
		return p.Parse(src), rules.Overrides{}, nil
	}
}

// Returns the diagnostics for a single file. The name is used to decide how
// to parse src and in errors.
func (l *Linter) Lint(name string, src []byte, opts rules.Options) ([]report.Diagnostic, error) {
	if l.Severity == report.Off {
		return nil, nil
	}

	els, overrides, err := elements(name, src)

	if err != nil {
		return nil, err
	}

	// Options are fixed for the whole file from here on.
	opts = opts.Merge(overrides)

	var diagnostics []report.Diagnostic

	for _, el := range els {
		if el.Name != rules.AnchorTag || !rules.Check(el, opts) {
			continue
		}

		edit := rules.Fix(el)

		diagnostics = append(diagnostics, report.Diagnostic{
			RuleID:    rules.NoTargetBlankID,
			MessageID: rules.MessageID,
			Message:   rules.Message,
			Severity:  l.Severity,
			Line:      el.Pos.Line,
			Column:    el.Pos.Column,
			EndLine:   el.End.Line,
			EndColumn: el.End.Column,
			Fix: &report.Fix{
				Range: [2]int{edit.Range.Start, edit.Range.End},
				Text:  edit.Text,
			},
		})
	}

	return diagnostics, nil
}

// Applies fixes to src until there are none left, then returns the fixed
// source along with any diagnostics that remain.
func (l *Linter) Fix(name string, src []byte, opts rules.Options) ([]byte, []report.Diagnostic, error) {
	for pass := 0; pass < maxFixPasses; pass++ {
		diagnostics, err := l.Lint(name, src, opts)

		if err != nil {
			return src, nil, err
		}

		var edits []markup.Edit

		for _, d := range diagnostics {
			if d.Fix != nil {
				edits = append(edits, markup.Edit{
					Range: markup.Range{Start: d.Fix.Range[0], End: d.Fix.Range[1]},
					Text:  d.Fix.Text,
				})
			}
		}

		if len(edits) == 0 {
			return src, diagnostics, nil
		}

		fixed, applied := markup.Apply(src, edits)

		if applied == 0 {
			return src, diagnostics, nil
		}

		src = fixed
	}

	diagnostics, err := l.Lint(name, src, opts)
	return src, diagnostics, err
}
