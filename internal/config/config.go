package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/alecthomas/chroma/styles"
	"github.com/danprince/relcheck/internal/errors"
	"github.com/danprince/relcheck/internal/report"
	"github.com/danprince/relcheck/internal/rules"
	"gopkg.in/yaml.v3"
)

// Names of the config files that are picked up automatically, in order of
// preference.
var Files = []string{
	".relcheck.json",
	".relcheck.yaml",
	".relcheck.yml",
}

// Override applies options to every file matching one of its globs.
type Override struct {
	Files   []string        `json:"files" yaml:"files"`
	Options rules.Overrides `json:"options" yaml:"options"`
}

type Config struct {
	// One of "error", "warn" or "off".
	Severity string `json:"severity" yaml:"severity"`
	// Options for every file.
	Options rules.Overrides `json:"options" yaml:"options"`
	// Applied in order on top of Options for matching files.
	Overrides []Override `json:"overrides" yaml:"overrides"`
	// Files and directories to skip.
	Ignore []string `json:"ignore" yaml:"ignore"`
	// File extensions to lint.
	Extensions []string `json:"extensions" yaml:"extensions"`
	// Chroma style for highlighting code frames, or "none".
	SyntaxColor string `json:"syntaxColor" yaml:"syntaxColor"`

	file string
}

var defaultConfig = Config{
	Severity:    "error",
	Extensions:  []string{".vue", ".html", ".htm", ".md"},
	SyntaxColor: "monokai",
}

// Returns a copy of the default config.
func Default() *Config {
	c := defaultConfig
	c.Extensions = append([]string{}, defaultConfig.Extensions...)
	return &c
}

// Returns the first config file that exists in dir.
func Find(dir string) (string, bool) {
	for _, name := range Files {
		file := filepath.Join(dir, name)
		if info, err := os.Stat(file); err == nil && !info.IsDir() {
			return file, true
		}
	}
	return "", false
}

// Reads a config file on top of the defaults. The format is picked based on
// the file's extension, anything other than .yaml/.yml is read as JSON.
func Load(file string) (*Config, error) {
	data, err := os.ReadFile(file)

	if err != nil {
		return nil, err
	}

	c, err := Parse(file, data)

	if err != nil {
		return nil, err
	}

	return c, nil
}

// Parses and validates config data. The name is only used for errors and to
// pick the format.
func Parse(name string, data []byte) (*Config, error) {
	c := Default()
	c.file = name

	switch filepath.Ext(name) {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)

		// An empty file decodes to io.EOF, which leaves the defaults.
		if err := dec.Decode(c); err != nil && err != io.EOF {
			return nil, errors.YamlParseError(err, name, string(data))
		}
	default:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()

		if err := dec.Decode(c); err != nil {
			return nil, errors.JsonParseError(err, name, string(data))
		}
	}

	if err := c.validate(); err != nil {
		return nil, err
	}

	return c, nil
}

// Returns the file the config was loaded from, if any.
func (c *Config) File() string {
	return c.file
}

func (c *Config) validate() error {
	if _, ok := report.ParseSeverity(c.Severity); !ok {
		return errors.ConfigError{
			File:    c.file,
			Key:     "severity",
			Value:   c.Severity,
			Allowed: report.SeverityNames(),
		}
	}

	// "none" isn't part of chroma, but we use it to turn highlighting off.
	if c.SyntaxColor != "" && c.SyntaxColor != "none" && styles.Registry[c.SyntaxColor] == nil {
		var suggestions []string

		for name := range styles.Registry {
			if name[0] == c.SyntaxColor[0] {
				suggestions = append(suggestions, name)
			}
		}

		sort.Strings(suggestions)

		return errors.ConfigError{
			File:    c.file,
			Key:     "syntaxColor",
			Value:   c.SyntaxColor,
			Allowed: suggestions,
		}
	}

	for _, ext := range c.Extensions {
		if !strings.HasPrefix(ext, ".") {
			return fmt.Errorf("invalid extension in %s: %q must start with a dot", c.file, ext)
		}
	}

	globs := append([]string{}, c.Ignore...)

	for i, o := range c.Overrides {
		if len(o.Files) == 0 {
			return fmt.Errorf("invalid override in %s: overrides[%d] has no files", c.file, i)
		}
		globs = append(globs, o.Files...)
	}

	for _, glob := range globs {
		if err := checkGlob(glob); err != nil {
			return fmt.Errorf("invalid glob in %s: %q: %w", c.file, glob, err)
		}
	}

	return nil
}

// Returns the severity diagnostics should be reported with.
func (c *Config) Level() report.Severity {
	sev, _ := report.ParseSeverity(c.Severity)
	return sev
}

// Returns the chroma style for code frames, or an empty string if
// highlighting is disabled.
func (c *Config) Style() string {
	if c.SyntaxColor == "none" {
		return ""
	}
	return c.SyntaxColor
}

// Resolves the options for a file, given its slash separated path relative to
// the directory being linted.
func (c *Config) OptionsFor(path string) rules.Options {
	opts := rules.DefaultOptions.Merge(c.Options)

	for _, o := range c.Overrides {
		if MatchAny(o.Files, path) {
			opts = opts.Merge(o.Options)
		}
	}

	return opts
}

func (c *Config) Ignored(path string) bool {
	return MatchAny(c.Ignore, path)
}

// Reports whether files with this name should be linted.
func (c *Config) Lints(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))

	for _, e := range c.Extensions {
		if strings.ToLower(e) == ext {
			return true
		}
	}

	return false
}
