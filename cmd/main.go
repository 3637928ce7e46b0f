package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/honeycombio/otel-config-go/otelconfig"
	"github.com/urfave/cli/v2"

	htmlreport "github.com/testops/htmlreport"
	"github.com/testops/htmlreport/exitcodes"
	"github.com/testops/htmlreport/flags"
	"github.com/testops/htmlreport/service"
)

var (
	Version   = "v1.0.0"
	GitCommit = ""
	GitDate   = ""
)

func main() {
	app := cli.NewApp()
	app.Version = fmt.Sprintf("%s-%s-%s", Version, GitCommit, GitDate)
	app.Name = "htmlreport"
	app.Usage = "HTML Test Report Generator"
	app.Description = "htmlreport renders test result event streams into HTML reports"
	app.Flags = flags.Flags
	app.Action = run
	app.ExitErrHandler = func(c *cli.Context, err error) {
		var exitErr cli.ExitCoder
		if errors.As(err, &exitErr) {
			// Use the exit code from the ExitCoder
			cli.HandleExitCoder(exitErr)
		} else if err != nil {
			// Check for typed runtime errors
			if htmlreport.IsRuntimeError(err) {
				cli.HandleExitCoder(cli.Exit(err.Error(), exitcodes.RuntimeErr))
			} else if htmlreport.IsTestFailureError(err) {
				cli.HandleExitCoder(cli.Exit(err.Error(), exitcodes.TestFailure))
			} else {
				// For other unspecified errors, default to exit code 1
				cli.HandleExitCoder(cli.Exit(err.Error(), exitcodes.TestFailure))
			}
		}
	}

	// Start telemetry
	shutdown, err := otelconfig.ConfigureOpenTelemetry(
		otelconfig.WithServiceName(app.Name),
		otelconfig.WithServiceVersion(app.Version),
	)
	if err != nil {
		log.Fatal("Failed to setup open telemetry", "message", err)
	}
	defer shutdown()

	if err := app.Run(os.Args); err != nil {
		log.Fatal("Application failed", "message", err)
	}
}

func run(ctx *cli.Context) error {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
	})
	if lvl, err := log.ParseLevel(ctx.String(flags.LogLevel.Name)); err == nil {
		logger.SetLevel(lvl)
	}

	cfg, err := htmlreport.NewConfig(ctx, logger)
	if err != nil {
		// Wrap in RuntimeError to signal this should exit with code 2
		return htmlreport.NewRuntimeError(fmt.Errorf("failed to create config: %w", err))
	}

	if ctx.Bool(flags.ServeMetrics.Name) {
		svc := service.New()
		svc.Start(ctx.Context)
		defer svc.Shutdown()
	}

	gen, err := htmlreport.New(cfg, Version)
	if err != nil {
		return htmlreport.NewRuntimeError(fmt.Errorf("failed to create generator: %w", err))
	}

	return gen.Run(ctx.Context)
}
