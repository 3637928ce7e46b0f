// Package htmlreport wires the pipeline together: it replays a result event
// stream through the collector, aggregates the records, and renders the HTML
// report plus the console and JSON summaries.
package htmlreport

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/testops/htmlreport/collector"
	"github.com/testops/htmlreport/events"
	"github.com/testops/htmlreport/logging"
	"github.com/testops/htmlreport/report"
	"github.com/testops/htmlreport/types"
)

// Generator runs one collect-aggregate-render cycle.
type Generator struct {
	config  *Config
	version string
	tracer  trace.Tracer

	result *report.RunReport
}

// New creates a Generator from a validated config.
func New(config *Config, version string) (*Generator, error) {
	if config == nil {
		return nil, errors.New("config is required")
	}

	config.Log.Debug("Creating generator with config",
		"input", config.Input,
		"output", config.Output,
		"summaryPath", config.SummaryPath,
		"language", config.Report.Language,
		"theme", config.Report.Theme)

	return &Generator{
		config:  config,
		version: version,
		tracer:  otel.Tracer("htmlreport"),
	}, nil
}

// Result returns the aggregated report of the last Run, nil before the first.
func (g *Generator) Result() *report.RunReport {
	return g.result
}

// Run executes the whole pipeline once. Operational failures come back as
// RuntimeError; a run whose report contains failed or errored tests comes
// back as TestFailureError so the caller can map it to exit code 1.
func (g *Generator) Run(ctx context.Context) error {
	_, span := g.tracer.Start(ctx, "generate report")
	defer span.End()

	runID := uuid.New().String()
	g.config.Log.Info("Collecting results...", "run_id", runID, "input", g.config.Input)

	in, closeIn, err := g.openInput()
	if err != nil {
		return NewRuntimeError(err)
	}
	defer closeIn()

	col := collector.New(runID, g.config.Verbosity, g.config.Log)
	if err := events.Replay(in, col, g.config.Log); err != nil {
		return NewRuntimeError(fmt.Errorf("failed to replay event stream: %w", err))
	}
	stopTime := time.Now()

	rep := report.BuildReport(runID, col.Records(), col.StartTime(), stopTime)
	g.result = rep

	if g.config.LogDir != "" {
		if err := g.persistLogs(runID, col.Records()); err != nil {
			return NewRuntimeError(err)
		}
	}

	if err := g.renderHTML(rep); err != nil {
		return NewRuntimeError(err)
	}

	tableFormatter := report.NewTableFormatter(g.config.Log, g.tableSink())
	if err := tableFormatter.FormatResults(rep); err != nil {
		g.config.Log.Error("Error printing results table", "error", err)
	}

	if g.config.SummaryPath != "" {
		if err := g.writeSummary(col.Summary()); err != nil {
			return NewRuntimeError(err)
		}
	}

	NewDefaultMetricsReporter().ReportResults(runID, rep)

	g.config.Log.Info("Report generated",
		"run_id", runID,
		"output", g.config.Output,
		"status", rep.Classification())

	if rep.Summary.Fail+rep.Summary.Error > 0 {
		return NewTestFailureError(resultString(rep))
	}
	return nil
}

// tableSink resolves where the console table goes. When the document itself
// is written to stdout the table moves to stderr, so the sink receives one
// self-contained document and nothing else.
func (g *Generator) tableSink() io.Writer {
	if g.config.Output == "-" {
		return os.Stderr
	}
	return os.Stdout
}

// openInput resolves the event stream source. "-" reads stdin.
func (g *Generator) openInput() (io.Reader, func(), error) {
	if g.config.Input == "-" {
		return os.Stdin, func() {}, nil
	}
	f, err := os.Open(g.config.Input)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open event stream: %w", err)
	}
	return f, func() { f.Close() }, nil
}

// renderHTML composes the document and commits it to the configured sink.
// "-" writes stdout; anything else is an atomic whole-file write.
func (g *Generator) renderHTML(rep *report.RunReport) error {
	formatter, err := report.NewHTMLFormatter(g.config.Report)
	if err != nil {
		return err
	}

	if g.config.Output == "-" {
		return formatter.Render(os.Stdout, rep)
	}

	f, err := os.Create(g.config.Output)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	if err := formatter.Render(f, rep); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// persistLogs writes every record's raw output to the log directory.
func (g *Generator) persistLogs(runID string, records []types.ResultRecord) error {
	fl, err := logging.NewFileLogger(g.config.LogDir, runID)
	if err != nil {
		return err
	}
	for i := range records {
		if err := fl.Consume(&records[i], runID); err != nil {
			return err
		}
	}
	if err := fl.Complete(runID); err != nil {
		return err
	}
	g.config.Log.Info("Persisted raw test logs", "dir", fl.Directory())
	return nil
}

// writeSummary exports the run counters as indented JSON.
func (g *Generator) writeSummary(s collector.Summary) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal summary: %w", err)
	}
	if err := os.WriteFile(g.config.SummaryPath, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("failed to write summary file: %w", err)
	}
	return nil
}

// resultString renders the run counters as a single human-readable line.
func resultString(rep *report.RunReport) string {
	return fmt.Sprintf("%d tests: %d passed, %d failed, %d errored, %d skipped",
		rep.Summary.Total(),
		rep.Summary.Pass,
		rep.Summary.Fail,
		rep.Summary.Error,
		rep.Summary.Skip)
}
