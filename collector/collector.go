// Package collector implements the stateful observer of the test lifecycle.
// It turns start/outcome events pushed by an external test-execution engine
// into immutable ResultRecords, capturing per-test console output and timing
// along the way, and maintains the run-level counters the report is built
// from.
package collector

import (
	"fmt"
	"io"
	"math"
	"os"
	"time"

	"github.com/acarl005/stripansi"
	"github.com/charmbracelet/log"

	"github.com/testops/htmlreport/capture"
	"github.com/testops/htmlreport/metrics"
	"github.com/testops/htmlreport/types"
)

// activeTest tracks a test between its start and stop events.
type activeTest struct {
	test   types.TestCase
	handle *capture.Handle
}

// Collector accumulates one ResultRecord per test (or sub-result) in
// emission order. It is not safe for concurrent use: events must arrive
// strictly sequentially, which is also what the process-wide output capture
// requires.
type Collector struct {
	runID     string
	verbosity int
	logger    *log.Logger

	startTime time.Time
	records   []types.ResultRecord

	passCount  int
	failCount  int
	errorCount int
	skipCount  int

	active        map[string]*activeTest
	hasSubResults map[string]bool
}

// New creates a collector for one run. Verbosity 0 is silent, 1 writes a
// single progress mark per result, 2 writes one line per result.
func New(runID string, verbosity int, logger *log.Logger) *Collector {
	if logger == nil {
		logger = log.Default()
	}
	return &Collector{
		runID:         runID,
		verbosity:     verbosity,
		logger:        logger,
		startTime:     time.Now(),
		active:        make(map[string]*activeTest),
		hasSubResults: make(map[string]bool),
	}
}

// StartTest begins output capture for the test and resets its buffer.
func (c *Collector) StartTest(tc types.TestCase) {
	name := tc.QualifiedName()
	if _, exists := c.active[name]; exists {
		c.malformed("start for already-started test", tc)
		return
	}

	h, err := capture.Begin(name)
	if err != nil {
		// Another test still owns the output channels. Track the test
		// anyway so its outcome is recorded, just without output.
		c.logger.Warn("starting test without output capture", "test", name, "err", err)
		metrics.RecordErrorDetails("capture_begin", err)
	}
	c.active[name] = &activeTest{test: tc, handle: h}
}

// AddSuccess emits a Pass record, unless the test has already reported
// through sub-results: a driver that uses sub-assertions still calls its
// pass hook when the body completes, and counting that would double-count
// against the sub-result records.
func (c *Collector) AddSuccess(tc types.TestCase) {
	at, ok := c.lookup(tc, "pass")
	if !ok {
		return
	}
	output, dur := c.finishCapture(at)
	if c.hasSubResults[tc.QualifiedName()] {
		return
	}
	c.emit(types.StatusPass, tc, output, "", dur)
	c.mark("S", tc.QualifiedName())
}

// AddFailure emits a Fail record with the formatted failure detail. A test
// can end badly even after some of its sub-checks passed, so failures are
// never suppressed.
func (c *Collector) AddFailure(tc types.TestCase, detail string) {
	at, ok := c.lookup(tc, "fail")
	if !ok {
		return
	}
	output, dur := c.finishCapture(at)
	c.emit(types.StatusFail, tc, output, detail, dur)
	c.mark("F", tc.QualifiedName())
}

// AddError emits an Error record with the formatted exception detail.
func (c *Collector) AddError(tc types.TestCase, detail string) {
	at, ok := c.lookup(tc, "error")
	if !ok {
		return
	}
	output, dur := c.finishCapture(at)
	c.emit(types.StatusError, tc, output, detail, dur)
	c.mark("E", tc.QualifiedName())
}

// AddSkip emits a Skip record carrying the skip reason.
func (c *Collector) AddSkip(tc types.TestCase, reason string) {
	at, ok := c.lookup(tc, "skip")
	if !ok {
		return
	}
	output, dur := c.finishCapture(at)
	c.emit(types.StatusSkip, tc, output, "Skipped: "+reason, dur)
	c.mark("s", tc.QualifiedName())
}

// AddSubTest records the outcome of a sub-check performed inside a running
// test body. A nil outcome means the sub-result passed. Any sub-result marks
// the owning test, whatever its outcome, so a later plain AddSuccess is
// suppressed: the sub-result records already tell the test's story.
// Sub-results share the owning test's capture and clock.
func (c *Collector) AddSubTest(tc types.TestCase, subtest string, outcome *types.SubOutcome) {
	at, ok := c.lookup(tc, "subresult")
	if !ok {
		return
	}
	c.hasSubResults[tc.QualifiedName()] = true

	var output string
	var dur time.Duration
	if at.handle != nil {
		output = at.handle.Snapshot()
		dur = at.handle.Elapsed()
	}

	if outcome == nil {
		c.emit(types.StatusPass, tc, output+fmt.Sprintf("\nSubTest Pass: %s", subtest), "", dur)
		c.mark("S", subtest)
		return
	}

	switch outcome.Status {
	case types.StatusError:
		c.emit(types.StatusError, tc, output+fmt.Sprintf("\nSubTest Error: %s", subtest), outcome.Detail, dur)
		c.mark("E", subtest)
	default:
		c.emit(types.StatusFail, tc, output+fmt.Sprintf("\nSubTest Failed: %s", subtest), outcome.Detail, dur)
		c.mark("F", subtest)
	}
}

// StopTest releases output capture. Whatever the buffer still holds was
// already consumed by the terminal event, so it is discarded.
func (c *Collector) StopTest(tc types.TestCase) {
	name := tc.QualifiedName()
	at, exists := c.active[name]
	if !exists {
		c.malformed("stop for unknown test", tc)
		return
	}
	if at.handle != nil {
		at.handle.End()
	}
	delete(c.active, name)
}

// Records returns the emitted records in emission order.
func (c *Collector) Records() []types.ResultRecord {
	out := make([]types.ResultRecord, len(c.records))
	copy(out, c.records)
	return out
}

// StartTime returns the instant the collector was created.
func (c *Collector) StartTime() time.Time {
	return c.startTime
}

// Summary is the machine-readable export of the run-level counters.
type Summary struct {
	Total    int     `json:"total"`
	Pass     int     `json:"pass"`
	Fail     int     `json:"fail"`
	Error    int     `json:"error"`
	Skip     int     `json:"skip"`
	PassRate float64 `json:"passRate"`
}

// Summary exports the incremental counters. Total is their sum; it is never
// recomputed from the record slice.
func (c *Collector) Summary() Summary {
	total := c.passCount + c.failCount + c.errorCount + c.skipCount
	var rate float64
	if total > 0 {
		rate = math.Round(float64(c.passCount)/float64(total)*100*100) / 100
	}
	return Summary{
		Total:    total,
		Pass:     c.passCount,
		Fail:     c.failCount,
		Error:    c.errorCount,
		Skip:     c.skipCount,
		PassRate: rate,
	}
}

// lookup resolves the active entry for a test. Events for tests that never
// started are logged and ignored rather than crashing the run; the report
// must still cover every test that did report correctly.
func (c *Collector) lookup(tc types.TestCase, event string) (*activeTest, bool) {
	at, exists := c.active[tc.QualifiedName()]
	if !exists {
		c.malformed(event+" for unknown test", tc)
		return nil, false
	}
	return at, true
}

func (c *Collector) malformed(msg string, tc types.TestCase) {
	c.logger.Warn("ignoring malformed event: "+msg, "test", tc.QualifiedName())
	metrics.RecordError("malformed_event")
}

// finishCapture ends the test's capture and returns what it held. Safe when
// the test started without a handle.
func (c *Collector) finishCapture(at *activeTest) (string, time.Duration) {
	if at.handle == nil {
		return "", 0
	}
	return at.handle.End()
}

// emit appends one immutable record and bumps the matching counter in the
// same step.
func (c *Collector) emit(status types.Status, tc types.TestCase, output, detail string, dur time.Duration) {
	c.records = append(c.records, types.ResultRecord{
		Status:   status,
		Test:     tc,
		Output:   stripansi.Strip(output),
		Detail:   detail,
		Duration: dur,
	})

	switch status {
	case types.StatusPass:
		c.passCount++
	case types.StatusFail:
		c.failCount++
	case types.StatusError:
		c.errorCount++
	case types.StatusSkip:
		c.skipCount++
	}

	metrics.RecordResult(c.runID, tc.Group.Name, status)
}

// mark writes a verbose progress indicator. It goes to the channel saved
// before capture began, never the buffer, to avoid recursive capture.
func (c *Collector) mark(mark, name string) {
	if c.verbosity <= 0 {
		return
	}
	w := c.progressWriter()
	if c.verbosity > 1 {
		fmt.Fprintf(w, "%s  %s\n", mark, name)
	} else {
		fmt.Fprint(w, mark)
	}
}

// progressWriter prefers the stderr saved by a live capture handle; while a
// test owns the output channels, os.Stderr is the capture pipe.
func (c *Collector) progressWriter() io.Writer {
	for _, at := range c.active {
		if at.handle != nil {
			return at.handle.Original()
		}
	}
	return os.Stderr
}
