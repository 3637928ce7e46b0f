// Package logging persists the raw per-test output of a run to disk, so the
// full text survives even when the HTML report truncates or a sink fails.
package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/testops/htmlreport/types"
)

const (
	RunDirectoryPrefix = "testrun-" // Standardized prefix for run directories
	SummaryFilename    = "summary.log"
	AllLogsFilename    = "all.log"
)

// ResultSink is an interface for different ways of consuming test results
type ResultSink interface {
	// Consume processes a single test result
	Consume(result *types.ResultRecord, runID string) error
	// Complete is called when all results have been consumed
	Complete(runID string) error
}

// FileLogger handles writing test output to files. Each run gets its own
// directory; failing and erroring tests additionally land in a failed/
// subdirectory so CI archiving can grab just those.
type FileLogger struct {
	baseDir   string // Base directory for logs
	logDir    string // This run's directory
	failedDir string // Directory for failed and errored tests
	runID     string

	mu       sync.Mutex
	consumed int
}

// NewFileLogger creates the run's directory structure under baseDir.
func NewFileLogger(baseDir, runID string) (*FileLogger, error) {
	logDir := filepath.Join(baseDir, RunDirectoryPrefix+runID)
	failedDir := filepath.Join(logDir, "failed")
	if err := os.MkdirAll(failedDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	return &FileLogger{
		baseDir:   baseDir,
		logDir:    logDir,
		failedDir: failedDir,
		runID:     runID,
	}, nil
}

// Directory returns this run's log directory.
func (l *FileLogger) Directory() string {
	return l.logDir
}

// Consume appends one record's output and detail to its log file and to the
// combined log. Appending matters: a test with sub-results produces several
// records under the same qualified name, and all of them belong in its file.
func (l *FileLogger) Consume(result *types.ResultRecord, runID string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	body := formatRecord(result)

	name := safeFilename(result.Test.QualifiedName()) + ".log"
	if err := appendFile(filepath.Join(l.logDir, name), body); err != nil {
		return fmt.Errorf("failed to write test log: %w", err)
	}

	if result.Status == types.StatusFail || result.Status == types.StatusError {
		if err := appendFile(filepath.Join(l.failedDir, name), body); err != nil {
			return fmt.Errorf("failed to write failed-test log: %w", err)
		}
	}

	if err := appendFile(filepath.Join(l.logDir, AllLogsFilename), body); err != nil {
		return fmt.Errorf("failed to append combined log: %w", err)
	}

	l.consumed++
	return nil
}

func appendFile(path, body string) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = f.WriteString(body)
	return err
}

// Complete writes the run-level summary file.
func (l *FileLogger) Complete(runID string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	summary := fmt.Sprintf("run: %s\nrecords: %d\n", runID, l.consumed)
	if err := os.WriteFile(filepath.Join(l.logDir, SummaryFilename), []byte(summary), 0644); err != nil {
		return fmt.Errorf("failed to write summary log: %w", err)
	}
	return nil
}

func formatRecord(r *types.ResultRecord) string {
	var b strings.Builder
	fmt.Fprintf(&b, "=== %s [%s] (%.1fs)\n", r.Test.QualifiedName(), r.Status, r.Duration.Seconds())
	if r.Output != "" {
		b.WriteString(r.Output)
		if !strings.HasSuffix(r.Output, "\n") {
			b.WriteByte('\n')
		}
	}
	if r.Detail != "" {
		b.WriteString(r.Detail)
		if !strings.HasSuffix(r.Detail, "\n") {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// safeFilename replaces path-hostile characters in a test name.
func safeFilename(name string) string {
	replacer := strings.NewReplacer("/", "_", "\\", "_", ":", "_", " ", "_")
	return replacer.Replace(name)
}
