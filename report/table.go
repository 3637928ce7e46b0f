package report

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/testops/htmlreport/types"
)

// TableFormatter renders the run summary as a console table, one section
// per test group with its tests nested underneath.
type TableFormatter struct {
	logger *log.Logger
	out    io.Writer
}

// NewTableFormatter creates a formatter writing to the given sink.
func NewTableFormatter(logger *log.Logger, out io.Writer) *TableFormatter {
	return &TableFormatter{logger: logger, out: out}
}

// FormatResults writes the grouped results table.
func (f *TableFormatter) FormatResults(rep *RunReport) error {
	f.logger.Info("Printing results...")
	t := table.NewWriter()
	t.SetOutputMirror(f.out)

	duration := time.Duration(0)
	if !rep.Summary.StopTime.IsZero() && !rep.Summary.StartTime.IsZero() {
		duration = rep.Summary.StopTime.Sub(rep.Summary.StartTime)
	}
	t.SetTitle(fmt.Sprintf("Test Results (%s)", formatTableDuration(duration)))

	t.AppendHeader(table.Row{
		"Group", "Duration", "Tests", "Passed", "Failed", "Errors", "Skipped", "Status",
	})

	t.SetColumnConfigs([]table.ColumnConfig{
		{Name: "Group", WidthMax: 60, WidthMaxEnforcer: text.WrapSoft},
		{Name: "Duration", Align: text.AlignRight},
		{Name: "Tests", Align: text.AlignRight},
		{Name: "Passed", Align: text.AlignRight},
		{Name: "Failed", Align: text.AlignRight},
		{Name: "Errors", Align: text.AlignRight},
		{Name: "Skipped", Align: text.AlignRight},
	})

	for _, g := range rep.Groups {
		var groupDuration time.Duration
		for _, rec := range g.Records {
			groupDuration += rec.Duration
		}

		t.AppendRow(table.Row{
			g.DisplayName(),
			formatTableDuration(groupDuration),
			g.Total(),
			g.Pass,
			g.Fail,
			g.Error,
			g.Skip,
			statusLabel(g.Classification()),
		})

		for i, rec := range g.Records {
			prefix := "├─"
			if i == len(g.Records)-1 {
				prefix = "└─"
			}

			t.AppendRow(table.Row{
				fmt.Sprintf("%s %s", prefix, rec.Test.Name),
				formatTableDuration(rec.Duration),
				"1",
				boolToInt(rec.Status == types.StatusPass),
				boolToInt(rec.Status == types.StatusFail),
				boolToInt(rec.Status == types.StatusError),
				boolToInt(rec.Status == types.StatusSkip),
				statusLabel(string(rec.Status)),
			})
		}

		t.AppendSeparator()
	}

	switch rep.Classification() {
	case "pass":
		t.SetStyle(table.StyleColoredBlackOnGreenWhite)
	case "skip":
		t.SetStyle(table.StyleColoredBlackOnYellowWhite)
	default:
		t.SetStyle(table.StyleColoredBlackOnRedWhite)
	}

	t.AppendFooter(table.Row{
		"TOTAL",
		formatTableDuration(duration),
		rep.Summary.Total(),
		rep.Summary.Pass,
		rep.Summary.Fail,
		rep.Summary.Error,
		rep.Summary.Skip,
		statusLabel(rep.Classification()),
	})

	t.Render()
	return nil
}

func statusLabel(classification string) string {
	switch classification {
	case "pass":
		return "✓ pass"
	case "fail":
		return "✗ fail"
	case "error":
		return "✗ error"
	case "skip":
		return "- skip"
	default:
		return classification
	}
}

func formatTableDuration(d time.Duration) string {
	return fmt.Sprintf("%.1fs", d.Seconds())
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
