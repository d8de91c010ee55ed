package lint

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"testing"

	"github.com/cucumber/godog"
	"github.com/danprince/relcheck/internal/report"
	"github.com/danprince/relcheck/internal/rules"
)

type scenario struct {
	linter      *Linter
	opts        rules.Options
	src         []byte
	diagnostics []report.Diagnostic
}

func (s *scenario) givenOptions(raw string) error {
	var ov rules.Overrides
	if err := json.Unmarshal([]byte(raw), &ov); err != nil {
		return fmt.Errorf("bad options %s: %w", raw, err)
	}
	s.opts = rules.DefaultOptions.Merge(ov)
	return nil
}

func (s *scenario) lint(code string) error {
	s.src = []byte(code)
	diagnostics, err := s.linter.Lint("Component.vue", s.src, s.opts)
	s.diagnostics = diagnostics
	return err
}

func (s *scenario) fix(code string) error {
	out, _, err := s.linter.Fix("Component.vue", []byte(code), s.opts)
	if err != nil {
		return err
	}
	return s.lint(string(out))
}

func (s *scenario) noProblems() error {
	return s.problemCount("0")
}

func (s *scenario) problemCount(n string) error {
	expected, err := strconv.Atoi(n)
	if err != nil {
		return err
	}
	if len(s.diagnostics) != expected {
		return fmt.Errorf("expected %d problems, got %d: %v", expected, len(s.diagnostics), s.diagnostics)
	}
	return nil
}

func (s *scenario) messageIs(msg string) error {
	for _, d := range s.diagnostics {
		if d.Message != msg {
			return fmt.Errorf("expected message %q, got %q", msg, d.Message)
		}
	}
	return nil
}

func (s *scenario) fixedTemplateIs(expected string) error {
	out, remaining, err := s.linter.Fix("Component.vue", s.src, s.opts)
	if err != nil {
		return err
	}
	if string(out) != expected {
		return fmt.Errorf("expected fixed template\n%s\ngot\n%s", expected, out)
	}
	if len(remaining) != 0 {
		return fmt.Errorf("expected the fixed template to be clean, got %v", remaining)
	}
	return nil
}

func initializeScenario(ctx *godog.ScenarioContext) {
	s := &scenario{}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		*s = scenario{linter: New(report.Error), opts: rules.DefaultOptions}
		return ctx, nil
	})

	ctx.Step(`^the options (\{.*\})$`, s.givenOptions)
	ctx.Step(`^I lint '(.*)'$`, s.lint)
	ctx.Step(`^I fix '(.*)'$`, s.fix)
	ctx.Step(`^there are no problems$`, s.noProblems)
	ctx.Step(`^there (?:is|are) (\d+) problems?$`, s.problemCount)
	ctx.Step(`^the message is '(.*)'$`, s.messageIs)
	ctx.Step(`^the fixed template is '(.*)'$`, s.fixedTemplateIs)
}

func TestFeatures(t *testing.T) {
	suite := godog.TestSuite{
		Name:                "relcheck",
		ScenarioInitializer: initializeScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"testdata/features"},
			TestingT: t,
			Strict:   true,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}
