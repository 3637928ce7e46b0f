// Package capture redirects the process-wide stdout/stderr pair into an
// in-memory buffer for the duration of one test, so prints made by the test
// body end up in the report instead of interleaved with the tool's own
// diagnostics.
//
// The output channels are a single shared resource: at most one capture
// handle may be live at a time, and Begin fails rather than nesting. End
// restores the original channels unconditionally and is safe to call on
// every exit path, including after a panic.
package capture

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// ErrCaptureActive is returned by Begin when another handle still owns the
// output channels.
var ErrCaptureActive = errors.New("output capture already active")

var (
	mu     sync.Mutex
	active *Handle
)

// Handle represents exclusive ownership of the redirected output channels
// for one test's duration.
type Handle struct {
	name    string
	start   time.Time
	buf     *tailBuffer
	pipeR   *os.File
	pipeW   *os.File
	stdout  *os.File
	stderr  *os.File
	done    chan struct{}
	ended   bool
	output  string
	elapsed time.Duration
}

// Begin swaps os.Stdout and os.Stderr for a pipe draining into a bounded
// buffer and records the start instant. It fails with ErrCaptureActive if a
// previous handle has not been ended.
func Begin(name string) (*Handle, error) {
	mu.Lock()
	defer mu.Unlock()

	if active != nil {
		return nil, fmt.Errorf("cannot begin capture for %q while %q holds the output channels: %w",
			name, active.name, ErrCaptureActive)
	}

	r, w, err := os.Pipe()
	if err != nil {
		return nil, fmt.Errorf("failed to create capture pipe: %w", err)
	}

	h := &Handle{
		name:   name,
		start:  time.Now(),
		buf:    newTailBuffer(0),
		pipeR:  r,
		pipeW:  w,
		stdout: os.Stdout,
		stderr: os.Stderr,
		done:   make(chan struct{}),
	}

	go func() {
		_, _ = io.Copy(h.buf, r)
		close(h.done)
	}()

	os.Stdout = w
	os.Stderr = w
	active = h
	return h, nil
}

// End restores the original output channels and returns the captured text
// and the elapsed time since Begin. It is idempotent: calling End on an
// already-ended handle returns the same values.
func (h *Handle) End() (string, time.Duration) {
	mu.Lock()
	defer mu.Unlock()

	if h.ended {
		return h.output, h.elapsed
	}

	os.Stdout = h.stdout
	os.Stderr = h.stderr
	_ = h.pipeW.Close()
	<-h.done
	_ = h.pipeR.Close()

	h.output = h.buf.String()
	h.elapsed = time.Since(h.start)
	h.ended = true
	if active == h {
		active = nil
	}
	return h.output, h.elapsed
}

// Snapshot returns the text captured so far without releasing the channels.
// Used for sub-results, which report mid-test.
func (h *Handle) Snapshot() string {
	mu.Lock()
	ended := h.ended
	mu.Unlock()
	if ended {
		return h.output
	}
	return h.buf.String()
}

// Elapsed returns the time since capture began. Sub-results do not get
// independent timers; they share the owning test's clock.
func (h *Handle) Elapsed() time.Duration {
	mu.Lock()
	defer mu.Unlock()
	if h.ended {
		return h.elapsed
	}
	return time.Since(h.start)
}

// Truncated reports whether the buffer dropped leading output.
func (h *Handle) Truncated() bool {
	return h.buf.Truncated()
}

// Original returns the saved stderr channel. Verbose status logging writes
// here so it bypasses the buffer instead of capturing itself recursively.
func (h *Handle) Original() io.Writer {
	return h.stderr
}
