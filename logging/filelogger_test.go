package logging

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/testops/htmlreport/types"
)

func record(name string, status types.Status) *types.ResultRecord {
	return &types.ResultRecord{
		Status: status,
		Test: types.TestCase{
			Name:  name,
			Group: types.Group{Name: "g"},
		},
		Output:   "some output",
		Duration: 2 * time.Second,
	}
}

func TestFileLogger_ConsumeAndComplete(t *testing.T) {
	base := t.TempDir()
	l, err := NewFileLogger(base, "run-1")
	require.NoError(t, err)

	require.NoError(t, l.Consume(record("test_pass", types.StatusPass), "run-1"))
	require.NoError(t, l.Consume(record("test_fail", types.StatusFail), "run-1"))
	require.NoError(t, l.Complete("run-1"))

	runDir := filepath.Join(base, RunDirectoryPrefix+"run-1")
	assert.Equal(t, runDir, l.Directory())

	// Per-test logs
	assert.FileExists(t, filepath.Join(runDir, "g.test_pass.log"))
	assert.FileExists(t, filepath.Join(runDir, "g.test_fail.log"))

	// Only the failure lands in failed/
	assert.FileExists(t, filepath.Join(runDir, "failed", "g.test_fail.log"))
	assert.NoFileExists(t, filepath.Join(runDir, "failed", "g.test_pass.log"))

	// Combined log holds both
	data, err := os.ReadFile(filepath.Join(runDir, AllLogsFilename))
	require.NoError(t, err)
	assert.Contains(t, string(data), "g.test_pass")
	assert.Contains(t, string(data), "g.test_fail")

	// Summary counts the consumed records
	summary, err := os.ReadFile(filepath.Join(runDir, SummaryFilename))
	require.NoError(t, err)
	assert.Contains(t, string(summary), "records: 2")
}

func TestFileLogger_ErrorGoesToFailedDir(t *testing.T) {
	base := t.TempDir()
	l, err := NewFileLogger(base, "run-2")
	require.NoError(t, err)

	require.NoError(t, l.Consume(record("test_err", types.StatusError), "run-2"))
	assert.FileExists(t, filepath.Join(l.Directory(), "failed", "g.test_err.log"))
}

func TestFileLogger_RecordContent(t *testing.T) {
	base := t.TempDir()
	l, err := NewFileLogger(base, "run-3")
	require.NoError(t, err)

	rec := record("test_fail", types.StatusFail)
	rec.Detail = "AssertionError: boom"
	require.NoError(t, l.Consume(rec, "run-3"))

	data, err := os.ReadFile(filepath.Join(l.Directory(), "g.test_fail.log"))
	require.NoError(t, err)
	content := string(data)
	assert.Contains(t, content, "g.test_fail [fail] (2.0s)")
	assert.Contains(t, content, "some output")
	assert.Contains(t, content, "AssertionError: boom")
}

// Sub-results share the owning test's qualified name; every record must
// survive in the per-test file, not just the last one written.
func TestFileLogger_SameTestRecordsAccumulate(t *testing.T) {
	base := t.TempDir()
	l, err := NewFileLogger(base, "run-4")
	require.NoError(t, err)

	first := record("test_subs", types.StatusFail)
	first.Output = "SubTest Failed: check_a"
	second := record("test_subs", types.StatusPass)
	second.Output = "SubTest Pass: check_b"

	require.NoError(t, l.Consume(first, "run-4"))
	require.NoError(t, l.Consume(second, "run-4"))

	data, err := os.ReadFile(filepath.Join(l.Directory(), "g.test_subs.log"))
	require.NoError(t, err)
	content := string(data)
	assert.Contains(t, content, "SubTest Failed: check_a")
	assert.Contains(t, content, "SubTest Pass: check_b")
}

func TestSafeFilename(t *testing.T) {
	assert.Equal(t, "a_b_c_d", safeFilename("a/b:c d"))
}
