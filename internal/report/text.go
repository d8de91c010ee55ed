package report

import (
	"fmt"
	"io"

	"github.com/danprince/relcheck/internal/errors"
)

type TextOptions struct {
	Color bool
	// Chroma style used to highlight code frames, empty disables highlighting.
	Style string
	// Show the source surrounding each diagnostic.
	Frames bool
}

// Writes human-readable output to w.
func (r *Report) WriteText(w io.Writer, opts TextOptions) {
	color := func(code, s string) string {
		if !opts.Color {
			return s
		}
		return code + s + "\033[0m"
	}

	for _, f := range r.Files {
		if f.Err != nil {
			fmt.Fprintln(w, color("\033[4m", f.Path))
			if opts.Color {
				fmt.Fprintln(w, errors.FmtError(f.Err))
			} else {
				fmt.Fprintln(w, errors.NoColor(f.Err))
			}
			fmt.Fprintln(w)
			continue
		}

		if len(f.Diagnostics) == 0 {
			continue
		}

		fmt.Fprintln(w, color("\033[4m", f.Path))

		for _, d := range f.Diagnostics {
			sev := color("\033[31m", "error")
			if d.Severity == Warning {
				sev = color("\033[33m", "warning")
			}

			pos := color("\033[2m", fmt.Sprintf("%d:%d", d.Line, d.Column))
			fmt.Fprintf(w, "  %s  %s  %s  %s\n", pos, sev, d.Message, color("\033[2m", d.RuleID))

			if opts.Frames && f.Source != nil {
				width := 0
				if d.EndLine == d.Line {
					width = d.EndColumn - d.Column
				}

				frame := errors.CodeFrame(string(f.Source), d.Line, d.Column, width, d.Message, errors.FrameOptions{
					Filename: f.Path,
					Style:    opts.Style,
					Warning:  d.Severity == Warning,
					Color:    opts.Color,
				})

				fmt.Fprintln(w)
				fmt.Fprint(w, frame)
				fmt.Fprintln(w)
			}
		}

		fmt.Fprintln(w)
	}

	errs := r.ErrorCount()
	warnings := r.WarningCount()
	problems := errs + warnings

	if problems == 0 && r.FatalCount() == 0 {
		fmt.Fprintln(w, "No problems found.")
		return
	}

	summaryColor := "\033[1;31m"
	if errs == 0 {
		summaryColor = "\033[1;33m"
	}

	if problems > 0 {
		fmt.Fprintln(w, color(summaryColor, fmt.Sprintf("✖ %d %s (%d %s, %d %s)",
			problems, plural(problems, "problem"),
			errs, plural(errs, "error"),
			warnings, plural(warnings, "warning"),
		)))
	}

	fixableErrs := r.FixableErrorCount()
	fixableWarnings := r.FixableWarningCount()

	if fixableErrs+fixableWarnings > 0 {
		fmt.Fprintln(w, color(summaryColor, fmt.Sprintf("  %d %s and %d %s potentially fixable with the `--fix` option.",
			fixableErrs, plural(fixableErrs, "error"),
			fixableWarnings, plural(fixableWarnings, "warning"),
		)))
	}

	if fatal := r.FatalCount(); fatal > 0 {
		fmt.Fprintln(w, color("\033[1;31m", fmt.Sprintf("✖ %d %s could not be linted", fatal, plural(fatal, "file"))))
	}
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}
