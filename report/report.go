// Package report turns the collector's flat record list into grouped,
// counted data and composes the final documents from it: the HTML report,
// the console summary table, and the JSON summary.
package report

import (
	"fmt"
	"math"
	"time"

	"github.com/testops/htmlreport/types"
)

// GroupSummary aggregates the records belonging to one test group, in their
// emission order. It is derived data, recomputed on each build.
type GroupSummary struct {
	Name        string
	Description string
	Records     []types.ResultRecord

	Pass  int
	Fail  int
	Error int
	Skip  int
}

// Total returns the record count of the group.
func (g *GroupSummary) Total() int {
	return g.Pass + g.Fail + g.Error + g.Skip
}

// Classification returns the group's dominant visual status.
func (g *GroupSummary) Classification() string {
	return Classify(g.Error, g.Fail, g.Skip)
}

// DisplayName returns "Name: Description" when a description exists.
func (g *GroupSummary) DisplayName() string {
	if g.Description != "" {
		return fmt.Sprintf("%s: %s", g.Name, g.Description)
	}
	return g.Name
}

// RunSummary holds the whole run's counters and timing.
type RunSummary struct {
	Pass  int
	Fail  int
	Error int
	Skip  int

	StartTime time.Time
	StopTime  time.Time
}

// Total returns the sum of the per-status counts.
func (s RunSummary) Total() int {
	return s.Pass + s.Fail + s.Error + s.Skip
}

// PassRate returns pass/total as a percentage rounded to two decimals, 0
// when the run is empty.
func (s RunSummary) PassRate() float64 {
	total := s.Total()
	if total == 0 {
		return 0
	}
	return math.Round(float64(s.Pass)/float64(total)*100*100) / 100
}

// RunReport is the aggregated input to the renderers: ordered group
// summaries plus the run-level counters.
type RunReport struct {
	RunID   string
	Groups  []*GroupSummary
	Summary RunSummary
}

// Classification returns the run's dominant visual status.
func (r *RunReport) Classification() string {
	return Classify(r.Summary.Error, r.Summary.Fail, r.Summary.Skip)
}

// BuildReport groups the emission-ordered records by owning test group in a
// single stable pass. Group order is first-occurrence order; an explicit
// ordered key list is kept alongside the map so no iteration-order guarantee
// is relied upon.
func BuildReport(runID string, records []types.ResultRecord, start, stop time.Time) *RunReport {
	groups := make(map[string]*GroupSummary)
	var order []string

	rep := &RunReport{
		RunID: runID,
		Summary: RunSummary{
			StartTime: start,
			StopTime:  stop,
		},
	}

	for _, rec := range records {
		key := rec.Test.Group.Name
		g, ok := groups[key]
		if !ok {
			g = &GroupSummary{
				Name:        key,
				Description: rec.Test.Group.Description,
			}
			groups[key] = g
			order = append(order, key)
		}
		g.Records = append(g.Records, rec)

		switch rec.Status {
		case types.StatusPass:
			g.Pass++
			rep.Summary.Pass++
		case types.StatusFail:
			g.Fail++
			rep.Summary.Fail++
		case types.StatusError:
			g.Error++
			rep.Summary.Error++
		case types.StatusSkip:
			g.Skip++
			rep.Summary.Skip++
		}
	}

	for _, key := range order {
		rep.Groups = append(rep.Groups, groups[key])
	}
	return rep
}

// Classify returns the dominant visual status for a set of counts. This is
// strict priority, not majority vote: one error among a hundred passes still
// classifies as "error".
func Classify(errorCount, failCount, skipCount int) string {
	if errorCount > 0 {
		return "error"
	}
	if failCount > 0 {
		return "fail"
	}
	if skipCount > 0 {
		return "skip"
	}
	return "pass"
}

// GroupID returns the DOM identifier of a group's detail-toggle control.
// Group ids are 1-based in emission order.
func GroupID(gid int) string {
	return fmt.Sprintf("c%d", gid)
}

// RowID returns the DOM identifier of one test row: a status prefix ("p"
// pass, "f" fail or error, "s" skip) followed by the 1-based group and
// record ids. Identifiers are collision-free within one render and are the
// addressing scheme the client-side show/hide script uses.
func RowID(status types.Status, gid, rid int) string {
	prefix := "p"
	switch status {
	case types.StatusFail, types.StatusError:
		prefix = "f"
	case types.StatusSkip:
		prefix = "s"
	}
	return fmt.Sprintf("%st%d.%d", prefix, gid, rid)
}
