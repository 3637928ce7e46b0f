// Package events defines the wire form of the test lifecycle stream and the
// replayer that drives a collector from it. The stream is JSON lines, one
// event per line, in strict execution order per test.
package events

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"

	"github.com/testops/htmlreport/metrics"
	"github.com/testops/htmlreport/types"
)

// Action identifies the lifecycle point an event describes.
type Action string

const (
	ActionStart     Action = "start"
	ActionOutput    Action = "output"
	ActionPass      Action = "pass"
	ActionFail      Action = "fail"
	ActionError     Action = "error"
	ActionSkip      Action = "skip"
	ActionSubResult Action = "subresult"
	ActionStop      Action = "stop"
)

// Event is one line of the run stream.
type Event struct {
	Action           Action       `json:"action"`
	Group            string       `json:"group"`
	GroupDescription string       `json:"groupDescription,omitempty"`
	Test             string       `json:"test"`
	Description      string       `json:"description,omitempty"`
	Output           string       `json:"output,omitempty"`
	Detail           string       `json:"detail,omitempty"`
	Reason           string       `json:"reason,omitempty"`
	SubTest          string       `json:"subtest,omitempty"`
	SubStatus        types.Status `json:"subStatus,omitempty"`
}

// TestCase builds the test identity carried by the event.
func (e Event) TestCase() types.TestCase {
	return types.TestCase{
		Name:        e.Test,
		Description: e.Description,
		Group: types.Group{
			Name:        e.Group,
			Description: e.GroupDescription,
		},
	}
}

// Handler receives lifecycle events in stream order. The collector
// implements it; one call per lifecycle point, push model.
type Handler interface {
	StartTest(tc types.TestCase)
	AddSuccess(tc types.TestCase)
	AddFailure(tc types.TestCase, detail string)
	AddError(tc types.TestCase, detail string)
	AddSkip(tc types.TestCase, reason string)
	AddSubTest(tc types.TestCase, subtest string, outcome *types.SubOutcome)
	StopTest(tc types.TestCase)
}

const maxLineBytes = 1024 * 1024

// Replay reads a JSON-lines event stream and pushes each event to the
// handler. Malformed lines and unknown actions are logged and skipped; the
// stream's well-formed remainder still produces a report.
func Replay(r io.Reader, h Handler, logger *log.Logger) error {
	if logger == nil {
		logger = log.Default()
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var ev Event
		if err := json.Unmarshal(line, &ev); err != nil {
			logger.Warn("skipping malformed event line", "line", lineNo, "err", err)
			metrics.RecordError("malformed_event_line")
			continue
		}
		dispatch(ev, h, logger, lineNo)
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read event stream: %w", err)
	}
	return nil
}

func dispatch(ev Event, h Handler, logger *log.Logger, lineNo int) {
	tc := ev.TestCase()
	switch ev.Action {
	case ActionStart:
		h.StartTest(tc)
	case ActionOutput:
		// Goes through os.Stdout on purpose: while the test's capture
		// handle is live this lands in its buffer, exactly as a live
		// print from the test body would.
		fmt.Fprint(os.Stdout, ev.Output)
	case ActionPass:
		h.AddSuccess(tc)
	case ActionFail:
		h.AddFailure(tc, ev.Detail)
	case ActionError:
		h.AddError(tc, ev.Detail)
	case ActionSkip:
		h.AddSkip(tc, ev.Reason)
	case ActionSubResult:
		h.AddSubTest(tc, ev.SubTest, subOutcome(ev))
	case ActionStop:
		h.StopTest(tc)
	default:
		logger.Warn("skipping event with unknown action", "line", lineNo, "action", ev.Action)
		metrics.RecordError("unknown_event_action")
	}
}

// subOutcome maps the event's sub-result status to the collector's outcome
// argument. An empty or pass status means the sub-result passed.
func subOutcome(ev Event) *types.SubOutcome {
	switch ev.SubStatus {
	case types.StatusFail:
		return &types.SubOutcome{Status: types.StatusFail, Detail: ev.Detail}
	case types.StatusError:
		return &types.SubOutcome{Status: types.StatusError, Detail: ev.Detail}
	default:
		return nil
	}
}
