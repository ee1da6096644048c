package agent

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/kaiwa-ai/kaiwa/internal/console"
	"github.com/kaiwa-ai/kaiwa/internal/conversation"
	"github.com/kaiwa-ai/kaiwa/internal/errors"
	"github.com/kaiwa-ai/kaiwa/internal/model/contract"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scriptedCompleter struct {
	responses []*contract.CompletionResponse
	errs      []error
	calls     int
	snapshots [][]contract.Message
}

func (c *scriptedCompleter) Complete(_ context.Context, messages []contract.Message, _ []contract.ToolDef) (*contract.CompletionResponse, error) {
	idx := c.calls
	c.calls++
	c.snapshots = append(c.snapshots, messages)
	if idx < len(c.errs) && c.errs[idx] != nil {
		return nil, c.errs[idx]
	}
	if idx >= len(c.responses) {
		return &contract.CompletionResponse{Content: "done"}, nil
	}
	return c.responses[idx], nil
}

type recordingResolver struct {
	resolved []contract.ToolCall
}

func (r *recordingResolver) Resolve(_ context.Context, call *contract.ToolCall) Result {
	r.resolved = append(r.resolved, *call)
	return Result{CallID: call.ID, Name: call.Name, Output: `{"ok":true}`}
}

func newTestLoop(client Completer, resolver Resolver, log *conversation.Log, cfg LoopConfig) *Loop {
	return NewLoop(client, resolver, log, nil, console.NewPrinter(io.Discard), cfg)
}

func TestLoopFinalAnswerWithoutTools(t *testing.T) {
	log := conversation.New("system")
	log.AppendUser("hello")

	client := &scriptedCompleter{responses: []*contract.CompletionResponse{{Content: "hi there"}}}
	loop := newTestLoop(client, &recordingResolver{}, log, LoopConfig{})

	require.NoError(t, loop.Run(context.Background()))
	assert.Equal(t, 1, client.calls)
	assert.Equal(t, 3, log.Len()) // system, user, assistant
}

func TestLoopResolvesEveryCallInOrder(t *testing.T) {
	log := conversation.New("system")
	log.AppendUser("list then read")

	client := &scriptedCompleter{responses: []*contract.CompletionResponse{
		{ToolCalls: []*contract.ToolCall{
			{ID: "call_1", Name: "list_directory", Arguments: `{"path":"."}`},
			{ID: "call_2", Name: "read_file", Arguments: `{"path":"go.mod"}`},
		}},
		{Content: "all done"},
	}}
	resolver := &recordingResolver{}
	loop := newTestLoop(client, resolver, log, LoopConfig{})

	require.NoError(t, loop.Run(context.Background()))

	require.Len(t, resolver.resolved, 2)
	assert.Equal(t, "call_1", resolver.resolved[0].ID)
	assert.Equal(t, "call_2", resolver.resolved[1].ID)

	var toolTurns []contract.Message
	for _, msg := range log.Snapshot() {
		if msg.Role == contract.RoleTool {
			toolTurns = append(toolTurns, msg)
		}
	}
	require.Len(t, toolTurns, 2)
	assert.Equal(t, "call_1", toolTurns[0].ToolCallID)
	assert.Equal(t, "call_2", toolTurns[1].ToolCallID)

	// The second round must see the tool turns that closed the first.
	require.Equal(t, 2, client.calls)
	assert.Greater(t, len(client.snapshots[1]), len(client.snapshots[0]))
}

func TestLoopRejectsToolCallWithoutID(t *testing.T) {
	log := conversation.New("system")
	log.AppendUser("go")

	client := &scriptedCompleter{responses: []*contract.CompletionResponse{
		{ToolCalls: []*contract.ToolCall{{Name: "read_file", Arguments: `{}`}}},
	}}
	loop := newTestLoop(client, &recordingResolver{}, log, LoopConfig{})

	err := loop.Run(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrDesync)
}

func TestLoopRejectsDuplicateToolCallID(t *testing.T) {
	log := conversation.New("system")
	log.AppendUser("go")

	client := &scriptedCompleter{responses: []*contract.CompletionResponse{
		{ToolCalls: []*contract.ToolCall{
			{ID: "call_1", Name: "read_file", Arguments: `{}`},
			{ID: "call_1", Name: "list_directory", Arguments: `{}`},
		}},
	}}
	resolver := &recordingResolver{}
	loop := newTestLoop(client, resolver, log, LoopConfig{})

	err := loop.Run(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrDesync)
	assert.Len(t, resolver.resolved, 1)
}

func TestLoopRetriesTransientErrors(t *testing.T) {
	log := conversation.New("system")
	log.AppendUser("hello")

	client := &scriptedCompleter{
		errs:      []error{errors.ErrTransient, nil},
		responses: []*contract.CompletionResponse{nil, {Content: "recovered"}},
	}
	loop := newTestLoop(client, &recordingResolver{}, log, LoopConfig{MaxRetries: 2, RetryBackoff: time.Millisecond})

	require.NoError(t, loop.Run(context.Background()))
	assert.Equal(t, 2, client.calls)
}

func TestLoopDoesNotRetryAuthErrors(t *testing.T) {
	log := conversation.New("system")
	log.AppendUser("hello")

	client := &scriptedCompleter{errs: []error{errors.ErrAuth}}
	loop := newTestLoop(client, &recordingResolver{}, log, LoopConfig{MaxRetries: 3, RetryBackoff: time.Millisecond})

	err := loop.Run(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrAuth)
	assert.Equal(t, 1, client.calls)
}

func TestLoopGivesUpAfterMaxRetries(t *testing.T) {
	log := conversation.New("system")
	log.AppendUser("hello")

	client := &scriptedCompleter{errs: []error{errors.ErrTransient, errors.ErrTransient, errors.ErrTransient}}
	loop := newTestLoop(client, &recordingResolver{}, log, LoopConfig{MaxRetries: 2, RetryBackoff: time.Millisecond})

	err := loop.Run(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrTransient)
	assert.Equal(t, 3, client.calls)
}

func TestLoopStopsAtMaxRounds(t *testing.T) {
	log := conversation.New("system")
	log.AppendUser("loop forever")

	endless := &contract.CompletionResponse{ToolCalls: []*contract.ToolCall{
		{ID: "call_x", Name: "read_file", Arguments: `{}`},
	}}
	client := &scriptedCompleter{responses: []*contract.CompletionResponse{
		endless, endless, endless, endless, endless,
	}}
	loop := newTestLoop(client, &recordingResolver{}, log, LoopConfig{MaxRounds: 3})

	err := loop.Run(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrInternal)
	assert.Equal(t, 3, client.calls)
}
