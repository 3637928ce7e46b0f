package flags

import (
	"fmt"

	"github.com/urfave/cli/v2"
)

const EnvVarPrefix = "HTMLREPORT"

// prefixEnvVars derives the environment variable names for a flag.
func prefixEnvVars(name string) []string {
	return []string{EnvVarPrefix + "_" + name}
}

var (
	Input = &cli.StringFlag{
		Name:     "input",
		Value:    "",
		Required: true,
		EnvVars:  prefixEnvVars("INPUT"),
		Usage:    "Path to the result event stream to render, or '-' for stdin",
	}
	Output = &cli.StringFlag{
		Name:    "output",
		Value:   "report.html",
		EnvVars: prefixEnvVars("OUTPUT"),
		Usage:   "Path to write the HTML report to, or '-' for stdout",
	}
	SummaryJSON = &cli.StringFlag{
		Name:    "summary-json",
		Value:   "",
		EnvVars: prefixEnvVars("SUMMARY_JSON"),
		Usage:   "Optional path to write a machine-readable JSON summary of the run",
	}
	Settings = &cli.StringFlag{
		Name:    "settings",
		Value:   "",
		EnvVars: prefixEnvVars("SETTINGS"),
		Usage:   "Path to a YAML report settings file (eg. 'report.yaml')",
	}
	Title = &cli.StringFlag{
		Name:    "title",
		Value:   "",
		EnvVars: prefixEnvVars("TITLE"),
		Usage:   "Report title; defaults to the localized 'Test Report'",
	}
	Description = &cli.StringFlag{
		Name:    "description",
		Value:   "",
		EnvVars: prefixEnvVars("DESCRIPTION"),
		Usage:   "Free-text description shown in the report header",
	}
	Tester = &cli.StringFlag{
		Name:    "tester",
		Value:   "",
		EnvVars: prefixEnvVars("TESTER"),
		Usage:   "Name shown in the report footer (eg. 'QA Team')",
	}
	Language = &cli.StringFlag{
		Name:    "language",
		Value:   "",
		EnvVars: prefixEnvVars("LANGUAGE"),
		Usage:   "Report locale ('zh-CN' or 'en-US'); unknown values fall back to the default",
	}
	Theme = &cli.StringFlag{
		Name:    "theme",
		Value:   "",
		EnvVars: prefixEnvVars("THEME"),
		Usage:   "Initial visual theme ('light' or 'dark')",
	}
	ChartHeight = &cli.IntFlag{
		Name:    "chart-height",
		Value:   0,
		EnvVars: prefixEnvVars("CHART_HEIGHT"),
		Usage:   "Pixel height of the result chart",
	}
	HidePassCases = &cli.BoolFlag{
		Name:    "hide-pass-cases",
		Value:   false,
		EnvVars: prefixEnvVars("HIDE_PASS_CASES"),
		Usage:   "Open the report on the failed-only filter instead of the summary view",
	}
	LogDir = &cli.StringFlag{
		Name:    "log-dir",
		Value:   "",
		EnvVars: prefixEnvVars("LOG_DIR"),
		Usage:   "Directory to persist raw per-test output logs; empty disables",
	}
	Verbosity = &cli.IntFlag{
		Name:    "verbosity",
		Value:   1,
		EnvVars: prefixEnvVars("VERBOSITY"),
		Usage:   "Progress output while collecting: 0 silent, 1 marks, 2 one line per result",
	}
	LogLevel = &cli.StringFlag{
		Name:    "log-level",
		Value:   "info",
		EnvVars: prefixEnvVars("LOG_LEVEL"),
		Usage:   "Log level (debug, info, warn, error)",
	}
	ServeMetrics = &cli.BoolFlag{
		Name:    "serve-metrics",
		Value:   false,
		EnvVars: prefixEnvVars("SERVE_METRICS"),
		Usage:   "Expose healthz and Prometheus metrics endpoints while running",
	}
)

var requiredFlags = []cli.Flag{
	Input,
}

var optionalFlags = []cli.Flag{
	Output,
	SummaryJSON,
	Settings,
	Title,
	Description,
	Tester,
	Language,
	Theme,
	ChartHeight,
	HidePassCases,
	LogDir,
	Verbosity,
	LogLevel,
	ServeMetrics,
}

var Flags []cli.Flag

func init() {
	Flags = append(requiredFlags, optionalFlags...)
}

func CheckRequired(ctx *cli.Context) error {
	for _, f := range requiredFlags {
		if !ctx.IsSet(f.Names()[0]) {
			return fmt.Errorf("flag %s is required", f.Names()[0])
		}
	}
	return nil
}
