package collector

import (
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/testops/htmlreport/types"
)

func newTestCollector() *Collector {
	logger := log.New(os.Stderr)
	return New("test-run", 0, logger)
}

func makeTest(group, name string) types.TestCase {
	return types.TestCase{
		Name:  name,
		Group: types.Group{Name: group},
	}
}

func TestCollector_PassCapturesOutput(t *testing.T) {
	c := newTestCollector()
	tc := makeTest("demo", "test_one")

	c.StartTest(tc)
	fmt.Fprint(os.Stdout, "body output\n")
	c.AddSuccess(tc)
	c.StopTest(tc)

	records := c.Records()
	require.Len(t, records, 1)
	assert.Equal(t, types.StatusPass, records[0].Status)
	assert.Contains(t, records[0].Output, "body output")
	assert.Empty(t, records[0].Detail)
	assert.GreaterOrEqual(t, records[0].Duration, time.Duration(0))
}

func TestCollector_FailureCarriesDetail(t *testing.T) {
	c := newTestCollector()
	tc := makeTest("demo", "test_one")

	c.StartTest(tc)
	c.AddFailure(tc, "AssertionError: 1 != 2")
	c.StopTest(tc)

	records := c.Records()
	require.Len(t, records, 1)
	assert.Equal(t, types.StatusFail, records[0].Status)
	assert.Equal(t, "AssertionError: 1 != 2", records[0].Detail)
}

func TestCollector_SkipDetailPrefix(t *testing.T) {
	c := newTestCollector()
	tc := makeTest("demo", "test_one")

	c.StartTest(tc)
	c.AddSkip(tc, "not supported on this platform")
	c.StopTest(tc)

	records := c.Records()
	require.Len(t, records, 1)
	assert.Equal(t, types.StatusSkip, records[0].Status)
	assert.Equal(t, "Skipped: not supported on this platform", records[0].Detail)
}

// A passing sub-result followed by the test's own pass hook must produce one
// record, not two.
func TestCollector_SubResultPassSuppressesSuccess(t *testing.T) {
	c := newTestCollector()
	tc := makeTest("demo", "test_one")

	c.StartTest(tc)
	c.AddSubTest(tc, "sub_check", nil)
	c.AddSuccess(tc)
	c.StopTest(tc)

	records := c.Records()
	require.Len(t, records, 1)
	assert.Equal(t, types.StatusPass, records[0].Status)
	assert.Contains(t, records[0].Output, "SubTest Pass: sub_check")

	s := c.Summary()
	assert.Equal(t, 1, s.Total)
	assert.Equal(t, 1, s.Pass)
}

// A failure arriving after a passing sub-result is never suppressed: the test
// body still ended badly.
func TestCollector_FailureAfterSubResultPassStillEmits(t *testing.T) {
	c := newTestCollector()
	tc := makeTest("demo", "test_one")

	c.StartTest(tc)
	c.AddSubTest(tc, "sub_check", nil)
	c.AddFailure(tc, "teardown assertion failed")
	c.StopTest(tc)

	records := c.Records()
	require.Len(t, records, 2)
	assert.Equal(t, types.StatusPass, records[0].Status)
	assert.Equal(t, types.StatusFail, records[1].Status)

	s := c.Summary()
	assert.Equal(t, 2, s.Total)
	assert.Equal(t, 1, s.Pass)
	assert.Equal(t, 1, s.Fail)
}

// A failing sub-result followed by the test's own pass hook yields exactly
// one record: the failure already told the test's story, and a trailing
// top-level Pass would both double-count and contradict it.
func TestCollector_SubResultFailureSuppressesLaterSuccess(t *testing.T) {
	c := newTestCollector()
	tc := makeTest("demo", "test_one")

	c.StartTest(tc)
	c.AddSubTest(tc, "sub_check", &types.SubOutcome{Status: types.StatusFail, Detail: "boom"})
	c.AddSuccess(tc)
	c.StopTest(tc)

	records := c.Records()
	require.Len(t, records, 1)
	assert.Equal(t, types.StatusFail, records[0].Status)
	assert.Contains(t, records[0].Output, "SubTest Failed: sub_check")

	s := c.Summary()
	assert.Equal(t, 1, s.Total)
	assert.Equal(t, 1, s.Fail)
	assert.Equal(t, 0, s.Pass)
}

func TestCollector_SubResultErrorSuppressesLaterSuccess(t *testing.T) {
	c := newTestCollector()
	tc := makeTest("demo", "test_one")

	c.StartTest(tc)
	c.AddSubTest(tc, "sub_check", &types.SubOutcome{Status: types.StatusError, Detail: "kaboom"})
	c.AddSuccess(tc)
	c.StopTest(tc)

	records := c.Records()
	require.Len(t, records, 1)
	assert.Equal(t, types.StatusError, records[0].Status)

	s := c.Summary()
	assert.Equal(t, 1, s.Total)
	assert.Equal(t, 1, s.Error)
	assert.Equal(t, 0, s.Pass)
}

func TestCollector_SubResultFailureAndError(t *testing.T) {
	c := newTestCollector()
	tc := makeTest("demo", "test_one")

	c.StartTest(tc)
	c.AddSubTest(tc, "sub_fail", &types.SubOutcome{Status: types.StatusFail, Detail: "boom"})
	c.AddSubTest(tc, "sub_err", &types.SubOutcome{Status: types.StatusError, Detail: "kaboom"})
	c.StopTest(tc)

	records := c.Records()
	require.Len(t, records, 2)

	assert.Equal(t, types.StatusFail, records[0].Status)
	assert.Contains(t, records[0].Output, "SubTest Failed: sub_fail")
	assert.Equal(t, "boom", records[0].Detail)

	assert.Equal(t, types.StatusError, records[1].Status)
	assert.Contains(t, records[1].Output, "SubTest Error: sub_err")
	assert.Equal(t, "kaboom", records[1].Detail)
}

func TestCollector_MalformedEventsIgnored(t *testing.T) {
	c := newTestCollector()
	tc := makeTest("demo", "never_started")

	// None of these may panic or emit records.
	c.AddSuccess(tc)
	c.AddFailure(tc, "detail")
	c.AddError(tc, "detail")
	c.AddSkip(tc, "reason")
	c.AddSubTest(tc, "sub", nil)
	c.StopTest(tc)

	assert.Empty(t, c.Records())
	assert.Equal(t, 0, c.Summary().Total)
}

func TestCollector_MalformedDoesNotInvalidateEarlierRecords(t *testing.T) {
	c := newTestCollector()
	good := makeTest("demo", "test_good")

	c.StartTest(good)
	c.AddSuccess(good)
	c.StopTest(good)

	c.AddFailure(makeTest("demo", "phantom"), "no start event")

	records := c.Records()
	require.Len(t, records, 1)
	assert.Equal(t, types.StatusPass, records[0].Status)
}

func TestCollector_DuplicateStartIgnored(t *testing.T) {
	c := newTestCollector()
	tc := makeTest("demo", "test_one")

	c.StartTest(tc)
	c.StartTest(tc)
	c.AddSuccess(tc)
	c.StopTest(tc)

	require.Len(t, c.Records(), 1)
}

func TestCollector_SummaryCountersAndPassRate(t *testing.T) {
	c := newTestCollector()

	run := func(name string, finish func(types.TestCase)) {
		tc := makeTest("demo", name)
		c.StartTest(tc)
		finish(tc)
		c.StopTest(tc)
	}

	run("t1", func(tc types.TestCase) { c.AddSuccess(tc) })
	run("t2", func(tc types.TestCase) { c.AddSuccess(tc) })
	run("t3", func(tc types.TestCase) { c.AddSuccess(tc) })
	run("t4", func(tc types.TestCase) { c.AddFailure(tc, "nope") })

	s := c.Summary()
	assert.Equal(t, 4, s.Total)
	assert.Equal(t, 3, s.Pass)
	assert.Equal(t, 1, s.Fail)
	assert.Equal(t, 0, s.Error)
	assert.Equal(t, 0, s.Skip)
	assert.InDelta(t, 75.0, s.PassRate, 0.001)
}

func TestCollector_EmptyRunSummary(t *testing.T) {
	c := newTestCollector()
	s := c.Summary()
	assert.Equal(t, 0, s.Total)
	assert.Equal(t, 0.0, s.PassRate)
}

func TestCollector_StripsANSISequences(t *testing.T) {
	c := newTestCollector()
	tc := makeTest("demo", "test_one")

	c.StartTest(tc)
	fmt.Fprint(os.Stdout, "\x1b[31mred text\x1b[0m\n")
	c.AddSuccess(tc)
	c.StopTest(tc)

	records := c.Records()
	require.Len(t, records, 1)
	assert.Contains(t, records[0].Output, "red text")
	assert.NotContains(t, records[0].Output, "\x1b[31m")
}

func TestCollector_RecordsAreCopied(t *testing.T) {
	c := newTestCollector()
	tc := makeTest("demo", "test_one")

	c.StartTest(tc)
	c.AddSuccess(tc)
	c.StopTest(tc)

	records := c.Records()
	records[0].Status = types.StatusFail

	assert.Equal(t, types.StatusPass, c.Records()[0].Status)
}
