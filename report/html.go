package report

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"strings"
	"time"

	"github.com/testops/htmlreport/i18n"
	"github.com/testops/htmlreport/types"
)

// ToolVersion appears in the generator meta tag and the report footer.
const ToolVersion = "1.0.0"

// Typed records for each document region. The template consumes these; all
// free text passes through html/template's contextual escaping, which is the
// single escaping chokepoint of the system.

type statCard struct {
	Label string
	Value string
	Class string
	Icon  string
}

type testRow struct {
	ID          string
	Style       string
	Desc        string
	StatusLabel string
	Content     string
}

type groupRow struct {
	Style string
	Desc  string
	CID   string
	Count int
	Pass  int
	Fail  int
	Error int
	Skip  int
	Tests []testRow
}

type totalRow struct {
	Count int
	Pass  int
	Fail  int
	Error int
	Skip  int
}

type chartData struct {
	Pass     int
	Fail     int
	Error    int
	Skip     int
	PassRate string // one decimal, "0" for an empty run
}

type footerData struct {
	Tester      string
	GeneratedAt string
}

type reportPage struct {
	Lang          string
	Theme         string
	Version       string
	Title         string
	Description   string
	ChartHeight   int
	DefaultFilter int // initial row filter: 0 summary, 1 failed-only

	Stats  []statCard
	Groups []groupRow
	Total  totalRow
	Chart  chartData
	Footer footerData

	T map[string]string // localized labels
}

// templateLabels are the i18n keys the document template refers to.
var templateLabels = []string{
	"toggle_theme", "test_details", "summary", "failed", "all",
	"test_suite", "total", "pass", "fail", "error", "skip", "view",
	"detail", "total_summary", "execution_details", "copy", "copied",
	"no_output", "pass_rate", "test_execution", "powered_by",
	"generated_on",
}

// HTMLFormatter composes the final report document from a RunReport.
type HTMLFormatter struct {
	cfg  Config
	tmpl *template.Template
}

// NewHTMLFormatter parses the embedded document template for the given
// configuration.
func NewHTMLFormatter(cfg Config) (*HTMLFormatter, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	src, err := loadTemplate()
	if err != nil {
		return nil, err
	}
	tmpl, err := template.New("report").Parse(src)
	if err != nil {
		return nil, fmt.Errorf("failed to parse report template: %w", err)
	}
	return &HTMLFormatter{cfg: cfg, tmpl: tmpl}, nil
}

// Render writes the finished document to the caller's sink. The document is
// composed in memory first so a sink failure never leaves template
// execution half-done; sink errors propagate to the caller.
func (f *HTMLFormatter) Render(w io.Writer, rep *RunReport) error {
	var buf bytes.Buffer
	if err := f.tmpl.Execute(&buf, f.buildPage(rep)); err != nil {
		return fmt.Errorf("failed to execute report template: %w", err)
	}
	if _, err := buf.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write report to sink: %w", err)
	}
	return nil
}

func (f *HTMLFormatter) buildPage(rep *RunReport) reportPage {
	lang := f.cfg.language()

	title := f.cfg.Title
	if title == "" {
		title = i18n.Text("title", lang)
	}

	labels := make(map[string]string, len(templateLabels))
	for _, key := range templateLabels {
		labels[key] = i18n.Text(key, lang)
	}

	defaultFilter := 0
	if !f.cfg.ShowPassCases {
		defaultFilter = 1
	}

	page := reportPage{
		Lang:          lang,
		Theme:         f.cfg.Theme,
		Version:       ToolVersion,
		Title:         title,
		Description:   f.cfg.Description,
		ChartHeight:   f.cfg.ChartHeight,
		DefaultFilter: defaultFilter,
		Stats:         f.buildStatCards(rep, lang),
		Groups:        buildGroupRows(rep, lang),
		Total: totalRow{
			Count: rep.Summary.Total(),
			Pass:  rep.Summary.Pass,
			Fail:  rep.Summary.Fail,
			Error: rep.Summary.Error,
			Skip:  rep.Summary.Skip,
		},
		Chart: chartData{
			Pass:     rep.Summary.Pass,
			Fail:     rep.Summary.Fail,
			Error:    rep.Summary.Error,
			Skip:     rep.Summary.Skip,
			PassRate: chartPassRate(rep.Summary),
		},
		Footer: footerData{
			Tester:      f.cfg.Tester,
			GeneratedAt: formatTimestamp(rep.Summary.StopTime),
		},
		T: labels,
	}
	return page
}

func (f *HTMLFormatter) buildStatCards(rep *RunReport, lang string) []statCard {
	duration := "0:00:00"
	if !rep.Summary.StopTime.IsZero() && !rep.Summary.StartTime.IsZero() {
		duration = formatElapsed(rep.Summary.StopTime.Sub(rep.Summary.StartTime))
	}

	return []statCard{
		{
			Label: i18n.Text("start_time", lang),
			Value: formatTimestamp(rep.Summary.StartTime),
			Class: "info",
			Icon:  "bi-clock-history",
		},
		{
			Label: i18n.Text("duration", lang),
			Value: duration,
			Class: "primary",
			Icon:  "bi-stopwatch",
		},
		{
			Label: i18n.Text("status", lang),
			Value: statusSummary(rep.Summary, lang),
			Class: "success",
			Icon:  "bi-flag-fill",
		},
		{
			Label: i18n.Text("tester", lang),
			Value: f.cfg.Tester,
			Class: "secondary",
			Icon:  "bi-person-fill",
		},
	}
}

func buildGroupRows(rep *RunReport, lang string) []groupRow {
	rows := make([]groupRow, 0, len(rep.Groups))
	for i, g := range rep.Groups {
		gid := i + 1
		row := groupRow{
			Style: g.Classification() + "Class",
			Desc:  g.DisplayName(),
			CID:   GroupID(gid),
			Count: g.Total(),
			Pass:  g.Pass,
			Fail:  g.Fail,
			Error: g.Error,
			Skip:  g.Skip,
		}
		for j, rec := range g.Records {
			row.Tests = append(row.Tests, buildTestRow(rec, gid, j+1, lang))
		}
		rows = append(rows, row)
	}
	return rows
}

func buildTestRow(rec types.ResultRecord, gid, rid int, lang string) testRow {
	id := RowID(rec.Status, gid, rid)

	content := rec.Output + rec.Detail
	if content == "" {
		content = i18n.Text("no_output", lang)
	}

	return testRow{
		ID:          id,
		Style:       caseStyle(rec.Status),
		Desc:        rec.Test.DisplayName(),
		StatusLabel: i18n.Text(string(rec.Status), lang),
		Content:     fmt.Sprintf("%s: %s", id, content),
	}
}

func caseStyle(status types.Status) string {
	switch status {
	case types.StatusFail:
		return "failCase"
	case types.StatusError:
		return "errorCase"
	case types.StatusSkip:
		return "skipCase"
	default:
		return "none"
	}
}

// statusSummary renders the header's status card, e.g. "Pass 4 | Fail 1".
// Empty runs show "N/A".
func statusSummary(s RunSummary, lang string) string {
	var parts []string
	if s.Pass > 0 {
		parts = append(parts, fmt.Sprintf("%s %d", i18n.Text("pass", lang), s.Pass))
	}
	if s.Fail > 0 {
		parts = append(parts, fmt.Sprintf("%s %d", i18n.Text("fail", lang), s.Fail))
	}
	if s.Error > 0 {
		parts = append(parts, fmt.Sprintf("%s %d", i18n.Text("error", lang), s.Error))
	}
	if s.Skip > 0 {
		parts = append(parts, fmt.Sprintf("%s %d", i18n.Text("skip", lang), s.Skip))
	}
	if len(parts) == 0 {
		return "N/A"
	}
	return strings.Join(parts, " | ")
}

// chartPassRate derives the chart's percentage with one-decimal rounding.
func chartPassRate(s RunSummary) string {
	total := s.Total()
	if total == 0 {
		return "0"
	}
	return fmt.Sprintf("%.1f", float64(s.Pass)/float64(total)*100)
}

// formatElapsed renders a wall-clock delta as H:MM:SS.
func formatElapsed(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int(d.Seconds())
	return fmt.Sprintf("%d:%02d:%02d", total/3600, (total/60)%60, total%60)
}

func formatTimestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02 15:04:05")
}
