package report

import (
	"bytes"
	"os"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/testops/htmlreport/types"
)

func TestTableFormatter_FormatResults(t *testing.T) {
	var buf bytes.Buffer
	f := NewTableFormatter(log.New(os.Stderr), &buf)

	err := f.FormatResults(sampleReport())
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "AuthTests")
	assert.Contains(t, out, "SSOTests")
	assert.Contains(t, out, "test_login")
	assert.Contains(t, out, "TOTAL")
}

func TestTableFormatter_EmptyReport(t *testing.T) {
	var buf bytes.Buffer
	f := NewTableFormatter(log.New(os.Stderr), &buf)

	rep := BuildReport("empty-run", nil, time.Now(), time.Now())
	err := f.FormatResults(rep)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "TOTAL")
}

func TestStatusLabel(t *testing.T) {
	assert.Equal(t, "✓ pass", statusLabel("pass"))
	assert.Equal(t, "✗ fail", statusLabel("fail"))
	assert.Equal(t, "✗ error", statusLabel("error"))
	assert.Equal(t, "- skip", statusLabel("skip"))
}

func TestBoolToInt(t *testing.T) {
	assert.Equal(t, 1, boolToInt(true))
	assert.Equal(t, 0, boolToInt(false))
}

func TestTableFormatter_GroupDuration(t *testing.T) {
	records := []types.ResultRecord{
		{
			Status:   types.StatusPass,
			Test:     types.TestCase{Name: "t1", Group: types.Group{Name: "g"}},
			Duration: 2 * time.Second,
		},
		{
			Status:   types.StatusPass,
			Test:     types.TestCase{Name: "t2", Group: types.Group{Name: "g"}},
			Duration: 3 * time.Second,
		},
	}
	start := time.Now()
	rep := BuildReport("run-1", records, start, start.Add(6*time.Second))

	var buf bytes.Buffer
	f := NewTableFormatter(log.New(os.Stderr), &buf)
	require.NoError(t, f.FormatResults(rep))

	// Group row sums its records' durations.
	assert.Contains(t, buf.String(), "5.0s")
}
