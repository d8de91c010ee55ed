package errors

import (
	"encoding/json"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestLoc(t *testing.T) {
	type test struct {
		input  string
		offset int
		line   int
		col    int
	}

	tests := []test{
		{
			input:  "hello\nworld",
			offset: 0,
			line:   1,
			col:    1,
		},
		{
			input:  "hello\nworld",
			offset: 6,
			line:   2,
			col:    1,
		},
		{
			input:  "hello\nworld",
			offset: 8,
			line:   2,
			col:    3,
		},
		{
			input:  "hello",
			offset: 100,
			line:   1,
			col:    6,
		},
	}

	for _, tc := range tests {
		line, col := loc(tc.input, tc.offset)
		if line != tc.line || col != tc.col {
			t.Errorf("expected %d:%d, got %d:%d", tc.line, tc.col, line, col)
		}
	}
}

func TestJsonParseError(t *testing.T) {
	src := "{\n  \"severity\": \"error\",\n  \"options\": {\n}"
	var v map[string]any
	err := JsonParseError(json.Unmarshal([]byte(src), &v), ".relcheck.json", src)

	if err == nil {
		t.Fatal("expected an error")
	}

	actual := NoColor(err)

	if !strings.HasPrefix(actual, "error: json parse error") {
		t.Errorf("expected a json parse error, got %q", actual)
	}

	if !strings.Contains(actual, ".relcheck.json:4") {
		t.Errorf("expected error to point at line 4, got %q", actual)
	}
}

func TestJsonUnknownField(t *testing.T) {
	src := "{\n  \"severity\": \"error\",\n  \"allowReferer\": true\n}"

	type config struct {
		Severity string `json:"severity"`
	}

	dec := json.NewDecoder(strings.NewReader(src))
	dec.DisallowUnknownFields()
	var c config
	err := JsonParseError(dec.Decode(&c), ".relcheck.json", src)
	actual := NoColor(err)

	if !strings.Contains(actual, "unknown field allowReferer") {
		t.Errorf("expected unknown field message, got %q", actual)
	}

	if !strings.Contains(actual, ".relcheck.json:3") {
		t.Errorf("expected error to point at line 3, got %q", actual)
	}
}

func TestJsonParseErrorNil(t *testing.T) {
	if err := JsonParseError(nil, "x.json", ""); err != nil {
		t.Errorf("expected nil, got %v", err)
	}
}

func TestYamlUnknownField(t *testing.T) {
	src := "severity: warn\nallowReferer: true\n"

	type config struct {
		Severity string `yaml:"severity"`
	}

	dec := yaml.NewDecoder(strings.NewReader(src))
	dec.KnownFields(true)
	var c config
	err := YamlParseError(dec.Decode(&c), ".relcheck.yaml", src)
	actual := NoColor(err)

	if !strings.Contains(actual, "unknown field allowReferer") {
		t.Errorf("expected unknown field message, got %q", actual)
	}

	if !strings.Contains(actual, ".relcheck.yaml:2") {
		t.Errorf("expected error to point at line 2, got %q", actual)
	}
}

func TestCodeFrame(t *testing.T) {
	src := "<template>\n  <a target=\"_blank\" href=\"//x.com\">x</a>\n</template>"
	actual := CodeFrame(src, 2, 3, 34, "insecure", FrameOptions{})
	expected := strings.Join([]string{
		`  1 <template>`,
		`  2   <a target="_blank" href="//x.com">x</a>`,
		`      ` + strings.Repeat("^", 34),
		`      insecure`,
		`  3 </template>`,
		``,
	}, "\n")

	if actual != expected {
		t.Errorf("expected:\n%s\ngot:\n%s", expected, actual)
	}
}

func TestCodeFrameOutOfRange(t *testing.T) {
	if frame := CodeFrame("one line", 5, 1, 1, "msg", FrameOptions{}); frame != "" {
		t.Errorf("expected an empty frame, got %q", frame)
	}
}

func TestCodeFrameHighlighted(t *testing.T) {
	src := `<a target="_blank" href="http://x.com">x</a>`
	frame := CodeFrame(src, 1, 1, 0, "insecure", FrameOptions{
		Filename: "page.html",
		Style:    "monokai",
		Color:    true,
	})

	if !strings.Contains(frame, "\033[") {
		t.Errorf("expected highlighted output, got %q", frame)
	}

	if StripColor(frame) != CodeFrame(src, 1, 1, 0, "insecure", FrameOptions{}) {
		t.Errorf("expected highlighting to only add color codes, got %q", StripColor(frame))
	}
}

func TestConfigError(t *testing.T) {
	err := ConfigError{
		File:    ".relcheck.json",
		Key:     "severity",
		Value:   "fatal",
		Allowed: []string{"error", "warn", "off"},
	}

	expected := "invalid severity in .relcheck.json: \"fatal\"\n\nAllowed values:\n- error\n- warn\n- off\n"

	if err.Error() != expected {
		t.Errorf("expected %q, got %q", expected, err.Error())
	}
}
