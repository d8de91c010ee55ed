package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func diagnostic(sev Severity, fixable bool) Diagnostic {
	d := Diagnostic{
		RuleID:    "no-target-blank",
		MessageID: "noTargetBlank",
		Message:   "insecure link",
		Severity:  sev,
		Line:      1,
		Column:    1,
		EndLine:   1,
		EndColumn: 10,
	}
	if fixable {
		d.Fix = &Fix{Range: [2]int{9, 9}, Text: ` rel="noopener noreferrer"`}
	}
	return d
}

func sample() *Report {
	r := New()
	r.Add(&FileResult{
		Path:        "a.html",
		Source:      []byte(`<a href="//x.com" target="_blank">`),
		Diagnostics: []Diagnostic{diagnostic(Error, true), diagnostic(Error, false)},
	})
	r.Add(&FileResult{
		Path:        "b.vue",
		Diagnostics: []Diagnostic{diagnostic(Warning, true)},
	})
	r.Add(&FileResult{Path: "c.md"})
	r.Add(&FileResult{Path: "d.md", Err: errors.New("bad front matter")})
	return r
}

func TestParseSeverity(t *testing.T) {
	tests := map[string]Severity{
		"error": Error,
		"warn":  Warning,
		"off":   Off,
		"WARN":  Warning,
	}

	for name, expected := range tests {
		actual, ok := ParseSeverity(name)

		if !ok || actual != expected {
			t.Errorf("expected %s to parse as %s, got %s", name, expected, actual)
		}
	}

	if _, ok := ParseSeverity("warning"); ok {
		t.Errorf("expected warning not to be a valid severity name")
	}
}

func TestCounts(t *testing.T) {
	r := sample()

	tests := map[string][2]int{
		"errors":           {r.ErrorCount(), 2},
		"warnings":         {r.WarningCount(), 1},
		"fixable errors":   {r.FixableErrorCount(), 1},
		"fixable warnings": {r.FixableWarningCount(), 1},
		"fatal":            {r.FatalCount(), 1},
	}

	for name, tc := range tests {
		if tc[0] != tc[1] {
			t.Errorf("expected %d %s, got %d", tc[1], name, tc[0])
		}
	}
}

func TestWriteText(t *testing.T) {
	var buf bytes.Buffer
	sample().WriteText(&buf, TextOptions{})
	out := buf.String()

	for _, expected := range []string{
		"a.html\n",
		"  1:1  error  insecure link  no-target-blank\n",
		"b.vue\n",
		"  1:1  warning  insecure link  no-target-blank\n",
		"d.md\n",
		"bad front matter",
		"✖ 3 problems (2 errors, 1 warning)",
		"1 error and 1 warning potentially fixable with the `--fix` option.",
		"✖ 1 file could not be linted",
	} {
		if !strings.Contains(out, expected) {
			t.Errorf("expected output to contain %q, got:\n%s", expected, out)
		}
	}

	if strings.Contains(out, "c.md") {
		t.Errorf("expected clean files to be left out, got:\n%s", out)
	}

	if strings.Contains(out, "\033[") {
		t.Errorf("expected no colors, got:\n%s", out)
	}
}

func TestWriteTextFrames(t *testing.T) {
	var buf bytes.Buffer
	sample().WriteText(&buf, TextOptions{Frames: true})
	out := buf.String()

	if !strings.Contains(out, `<a href="//x.com" target="_blank">`) {
		t.Errorf("expected a code frame with the source line, got:\n%s", out)
	}
}

func TestWriteTextClean(t *testing.T) {
	r := New()
	r.Add(&FileResult{Path: "a.html"})

	var buf bytes.Buffer
	r.WriteText(&buf, TextOptions{Color: true})

	if buf.String() != "No problems found.\n" {
		t.Errorf(`expected "No problems found.", got %q`, buf.String())
	}
}

func TestWriteJSON(t *testing.T) {
	r := sample()
	r.Files[0].Output = []byte(`<a href="//x.com" target="_blank" rel="noopener noreferrer">`)

	var buf bytes.Buffer

	if err := r.WriteJSON(&buf); err != nil {
		t.Fatal(err)
	}

	var results []map[string]any

	if err := json.Unmarshal(buf.Bytes(), &results); err != nil {
		t.Fatal(err)
	}

	if len(results) != 4 {
		t.Fatalf("expected 4 results, got %d", len(results))
	}

	first := results[0]

	if first["filePath"] != "a.html" || first["errorCount"] != 2.0 || first["fixableErrorCount"] != 1.0 {
		t.Errorf("unexpected result %v", first)
	}

	if _, ok := first["output"].(string); !ok {
		t.Errorf("expected the fixed output to be included")
	}

	messages := first["messages"].([]any)
	message := messages[0].(map[string]any)

	if message["ruleId"] != "no-target-blank" || message["severity"] != 2.0 {
		t.Errorf("unexpected message %v", message)
	}

	if _, ok := message["fix"]; !ok {
		t.Errorf("expected the first message to have a fix")
	}

	if _, ok := messages[1].(map[string]any)["fix"]; ok {
		t.Errorf("expected the second message to have no fix")
	}

	if clean := results[2]["messages"].([]any); len(clean) != 0 {
		t.Errorf("expected an empty message list, got %v", clean)
	}

	if results[3]["fatalErrorCount"] != 1.0 || results[3]["error"] != "bad front matter" {
		t.Errorf("unexpected fatal result %v", results[3])
	}
}

func TestWriteJSONColumns(t *testing.T) {
	d := diagnostic(Error, true)
	d.Line, d.Column, d.EndLine, d.EndColumn = 2, 6, 2, 9
	d.Fix.Range = [2]int{8, 11}

	r := New()
	r.Add(&FileResult{
		Path:        "a.html",
		Source:      []byte("é\n😀 <a>"),
		Diagnostics: []Diagnostic{d},
	})

	var buf bytes.Buffer

	if err := r.WriteJSON(&buf); err != nil {
		t.Fatal(err)
	}

	var results []struct {
		Messages []Diagnostic `json:"messages"`
	}

	if err := json.Unmarshal(buf.Bytes(), &results); err != nil {
		t.Fatal(err)
	}

	actual := results[0].Messages[0]

	if actual.Column != 4 || actual.EndColumn != 7 {
		t.Errorf("expected columns 4-7 in UTF-16 units, got %d-%d", actual.Column, actual.EndColumn)
	}

	if actual.Fix == nil || actual.Fix.Range != [2]int{5, 8} {
		t.Errorf("expected the fix range [5 8] in UTF-16 units, got %v", actual.Fix)
	}

	if r.Files[0].Diagnostics[0].Column != 6 || r.Files[0].Diagnostics[0].Fix.Range != [2]int{8, 11} {
		t.Errorf("expected the report's own diagnostics to keep byte offsets")
	}
}
