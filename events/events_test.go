package events

import (
	"os"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/testops/htmlreport/types"
)

// recordingHandler notes every dispatched call in order.
type recordingHandler struct {
	calls    []string
	outcomes []*types.SubOutcome
}

func (h *recordingHandler) StartTest(tc types.TestCase) {
	h.calls = append(h.calls, "start:"+tc.QualifiedName())
}
func (h *recordingHandler) AddSuccess(tc types.TestCase) {
	h.calls = append(h.calls, "pass:"+tc.QualifiedName())
}
func (h *recordingHandler) AddFailure(tc types.TestCase, detail string) {
	h.calls = append(h.calls, "fail:"+tc.QualifiedName()+":"+detail)
}
func (h *recordingHandler) AddError(tc types.TestCase, detail string) {
	h.calls = append(h.calls, "error:"+tc.QualifiedName()+":"+detail)
}
func (h *recordingHandler) AddSkip(tc types.TestCase, reason string) {
	h.calls = append(h.calls, "skip:"+tc.QualifiedName()+":"+reason)
}
func (h *recordingHandler) AddSubTest(tc types.TestCase, subtest string, outcome *types.SubOutcome) {
	h.calls = append(h.calls, "subresult:"+tc.QualifiedName()+":"+subtest)
	h.outcomes = append(h.outcomes, outcome)
}
func (h *recordingHandler) StopTest(tc types.TestCase) {
	h.calls = append(h.calls, "stop:"+tc.QualifiedName())
}

func replayLines(t *testing.T, h Handler, lines ...string) {
	t.Helper()
	r := strings.NewReader(strings.Join(lines, "\n"))
	require.NoError(t, Replay(r, h, log.New(os.Stderr)))
}

func TestReplay_DispatchesInOrder(t *testing.T) {
	h := &recordingHandler{}
	replayLines(t, h,
		`{"action":"start","group":"g","test":"t1"}`,
		`{"action":"pass","group":"g","test":"t1"}`,
		`{"action":"stop","group":"g","test":"t1"}`,
		`{"action":"start","group":"g","test":"t2"}`,
		`{"action":"fail","group":"g","test":"t2","detail":"assert failed"}`,
		`{"action":"stop","group":"g","test":"t2"}`,
	)

	assert.Equal(t, []string{
		"start:g.t1",
		"pass:g.t1",
		"stop:g.t1",
		"start:g.t2",
		"fail:g.t2:assert failed",
		"stop:g.t2",
	}, h.calls)
}

func TestReplay_SkipAndError(t *testing.T) {
	h := &recordingHandler{}
	replayLines(t, h,
		`{"action":"start","group":"g","test":"t1"}`,
		`{"action":"skip","group":"g","test":"t1","reason":"not supported"}`,
		`{"action":"start","group":"g","test":"t2"}`,
		`{"action":"error","group":"g","test":"t2","detail":"panic"}`,
	)

	assert.Contains(t, h.calls, "skip:g.t1:not supported")
	assert.Contains(t, h.calls, "error:g.t2:panic")
}

func TestReplay_SubResultOutcomes(t *testing.T) {
	h := &recordingHandler{}
	replayLines(t, h,
		`{"action":"subresult","group":"g","test":"t1","subtest":"sub_pass"}`,
		`{"action":"subresult","group":"g","test":"t1","subtest":"sub_fail","subStatus":"fail","detail":"boom"}`,
		`{"action":"subresult","group":"g","test":"t1","subtest":"sub_err","subStatus":"error","detail":"kaboom"}`,
	)

	require.Len(t, h.outcomes, 3)
	assert.Nil(t, h.outcomes[0])

	require.NotNil(t, h.outcomes[1])
	assert.Equal(t, types.StatusFail, h.outcomes[1].Status)
	assert.Equal(t, "boom", h.outcomes[1].Detail)

	require.NotNil(t, h.outcomes[2])
	assert.Equal(t, types.StatusError, h.outcomes[2].Status)
	assert.Equal(t, "kaboom", h.outcomes[2].Detail)
}

func TestReplay_SkipsMalformedLines(t *testing.T) {
	h := &recordingHandler{}
	replayLines(t, h,
		`{"action":"start","group":"g","test":"t1"}`,
		`this is not json`,
		``,
		`{"action":"pass","group":"g","test":"t1"}`,
	)

	assert.Equal(t, []string{"start:g.t1", "pass:g.t1"}, h.calls)
}

func TestReplay_SkipsUnknownActions(t *testing.T) {
	h := &recordingHandler{}
	replayLines(t, h,
		`{"action":"teleport","group":"g","test":"t1"}`,
		`{"action":"start","group":"g","test":"t1"}`,
	)

	assert.Equal(t, []string{"start:g.t1"}, h.calls)
}

func TestReplay_EmptyStream(t *testing.T) {
	h := &recordingHandler{}
	replayLines(t, h)
	assert.Empty(t, h.calls)
}

func TestEvent_TestCase(t *testing.T) {
	ev := Event{
		Group:            "AuthTests",
		GroupDescription: "auth flows",
		Test:             "test_login",
		Description:      "logs in",
	}
	tc := ev.TestCase()
	assert.Equal(t, "AuthTests.test_login", tc.QualifiedName())
	assert.Equal(t, "auth flows", tc.Group.Description)
	assert.Equal(t, "test_login: logs in", tc.DisplayName())
}
