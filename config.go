package htmlreport

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"github.com/testops/htmlreport/flags"
	"github.com/testops/htmlreport/report"
)

// Config holds the application configuration
type Config struct {
	Input       string        // Path to the result event stream, "-" for stdin
	Output      string        // Path to write the HTML report, "-" for stdout
	SummaryPath string        // Optional path for the JSON summary export
	LogDir      string        // Optional directory for raw per-test output logs
	Report      report.Config // Rendering settings
	Verbosity   int           // Progress output level while collecting
	Log         *log.Logger
}

// NewConfig creates a new Config from cli context. Rendering settings resolve
// in three layers: documented defaults, then the YAML settings file, then
// explicit CLI flags on top.
func NewConfig(ctx *cli.Context, logger *log.Logger) (*Config, error) {
	if err := flags.CheckRequired(ctx); err != nil {
		return nil, fmt.Errorf("missing required flags: %w", err)
	}

	reportCfg := report.DefaultConfig()

	if path := ctx.String(flags.Settings.Name); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read settings file %q: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &reportCfg); err != nil {
			return nil, fmt.Errorf("failed to parse settings file %q: %w", path, err)
		}
	}

	applyFlagOverrides(ctx, &reportCfg)

	if err := reportCfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid report settings: %w", err)
	}

	return &Config{
		Input:       ctx.String(flags.Input.Name),
		Output:      ctx.String(flags.Output.Name),
		SummaryPath: ctx.String(flags.SummaryJSON.Name),
		LogDir:      ctx.String(flags.LogDir.Name),
		Report:      reportCfg,
		Verbosity:   ctx.Int(flags.Verbosity.Name),
		Log:         logger,
	}, nil
}

// applyFlagOverrides copies explicitly-set CLI flags over the settings-file
// values. Unset flags leave the file (or default) value alone.
func applyFlagOverrides(ctx *cli.Context, cfg *report.Config) {
	if ctx.IsSet(flags.Title.Name) {
		cfg.Title = ctx.String(flags.Title.Name)
	}
	if ctx.IsSet(flags.Description.Name) {
		cfg.Description = ctx.String(flags.Description.Name)
	}
	if ctx.IsSet(flags.Tester.Name) {
		cfg.Tester = ctx.String(flags.Tester.Name)
	}
	if ctx.IsSet(flags.Language.Name) {
		cfg.Language = ctx.String(flags.Language.Name)
	}
	if ctx.IsSet(flags.Theme.Name) {
		cfg.Theme = ctx.String(flags.Theme.Name)
	}
	if ctx.IsSet(flags.ChartHeight.Name) {
		cfg.ChartHeight = ctx.Int(flags.ChartHeight.Name)
	}
	if ctx.IsSet(flags.HidePassCases.Name) {
		cfg.ShowPassCases = !ctx.Bool(flags.HidePassCases.Name)
	}
}
