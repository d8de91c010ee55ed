package main

import (
	"fmt"
	"os"

	"github.com/danprince/relcheck/internal/config"
	"github.com/danprince/relcheck/internal/errors"
	"github.com/danprince/relcheck/internal/lint"
	"github.com/danprince/relcheck/internal/report"
	"github.com/urfave/cli/v2"
)

const version = "0.1.0"

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, errors.FmtError(err))
		os.Exit(2)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:      "relcheck",
		Usage:     `find links that open in a new tab without rel="noopener noreferrer"`,
		ArgsUsage: "[paths...]",
		Version:   version,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "fix",
				Usage: "add the missing rel tokens in place",
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Value:   "text",
				Usage:   "output format, text or json",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "config file, defaults to .relcheck.{json,yaml,yml} in the working directory",
			},
			&cli.BoolFlag{
				Name:    "watch",
				Aliases: []string{"w"},
				Usage:   "lint again whenever files change",
			},
			&cli.BoolFlag{
				Name:  "allow-referrer",
				Usage: `accept rel="noopener" without noreferrer`,
			},
			&cli.BoolFlag{
				Name:  "enforce-dynamic-links",
				Value: true,
				Usage: "report links whose href is bound to an expression",
			},
			&cli.BoolFlag{
				Name:  "no-color",
				Usage: "disable colors in text output",
			},
			&cli.IntFlag{
				Name:  "max-warnings",
				Value: -1,
				Usage: "fail when there are more warnings than this",
			},
		},
		Action: run,
	}
}

func run(c *cli.Context) error {
	rootDir, err := os.Getwd()

	if err != nil {
		return err
	}

	cfg, err := loadConfig(c, rootDir)

	if err != nil {
		return err
	}

	if c.IsSet("allow-referrer") {
		v := c.Bool("allow-referrer")
		cfg.Options.AllowReferrer = &v
	}

	if c.IsSet("enforce-dynamic-links") {
		v := c.Bool("enforce-dynamic-links")
		cfg.Options.EnforceDynamicLinks = &v
	}

	format := c.String("format")

	if format != "text" && format != "json" {
		return fmt.Errorf("unknown format %q, expected text or json", format)
	}

	runner := lint.NewRunner(rootDir, cfg)
	runner.Fix = c.Bool("fix")
	paths := c.Args().Slice()

	output := func(rep *report.Report) error {
		if format == "json" {
			return rep.WriteJSON(c.App.Writer)
		}

		rep.WriteText(c.App.Writer, report.TextOptions{
			Color:  useColor(c),
			Style:  cfg.Style(),
			Frames: true,
		})

		return nil
	}

	if c.Bool("watch") {
		return watchAndLint(runner, paths, cfg.Ignore, output)
	}

	rep, err := runner.Run(paths)

	if err != nil {
		return err
	}

	if err := output(rep); err != nil {
		return err
	}

	maxWarnings := c.Int("max-warnings")

	switch {
	case rep.FatalCount() > 0:
		return cli.Exit("", 2)
	case rep.ErrorCount() > 0:
		return cli.Exit("", 1)
	case maxWarnings >= 0 && rep.WarningCount() > maxWarnings:
		fmt.Fprintf(c.App.ErrWriter, "too many warnings (%d), maximum allowed is %d\n", rep.WarningCount(), maxWarnings)
		return cli.Exit("", 1)
	}

	return nil
}

// Loads the config given on the command line, then falls back to one in the
// working directory, then the defaults.
func loadConfig(c *cli.Context, rootDir string) (*config.Config, error) {
	if file := c.String("config"); file != "" {
		return config.Load(file)
	}

	if file, ok := config.Find(rootDir); ok {
		return config.Load(file)
	}

	return config.Default(), nil
}

func useColor(c *cli.Context) bool {
	if c.Bool("no-color") || os.Getenv("NO_COLOR") != "" {
		return false
	}

	info, err := os.Stdout.Stat()
	return err == nil && info.Mode()&os.ModeCharDevice != 0
}
