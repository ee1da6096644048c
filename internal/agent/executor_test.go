package agent

import (
	"context"
	"encoding/json"
	"io"
	"testing"

	"github.com/kaiwa-ai/kaiwa/internal/approval"
	"github.com/kaiwa-ai/kaiwa/internal/config"
	"github.com/kaiwa-ai/kaiwa/internal/console"
	"github.com/kaiwa-ai/kaiwa/internal/model/contract"
	"github.com/kaiwa-ai/kaiwa/internal/tool"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTool struct {
	name     string
	risk     tool.RiskLevel
	output   json.RawMessage
	err      error
	executed int
}

func (f *fakeTool) Name() string        { return f.name }
func (f *fakeTool) Description() string { return "fake tool" }
func (f *fakeTool) Risk() tool.RiskLevel {
	return f.risk
}

func (f *fakeTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"path": map[string]interface{}{"type": "string"},
		},
		"required": []string{"path"},
	}
}

func (f *fakeTool) Execute(_ context.Context, _ json.RawMessage) (json.RawMessage, error) {
	f.executed++
	return f.output, f.err
}

type staticGate struct {
	decision approval.Decision
	asked    int
}

func (g *staticGate) Authorize(_ context.Context, _ approval.Request) approval.Decision {
	g.asked++
	return g.decision
}

func newTestExecutor(t *testing.T, ft *fakeTool, gate approval.Gate) *Executor {
	t.Helper()
	registry := tool.NewRegistry()
	registry.Register(ft)
	policy := approval.NewPolicy(config.GovernanceConfig{})
	return NewExecutor(registry, policy, gate, console.NewPrinter(io.Discard))
}

func decodeResult(t *testing.T, result Result) map[string]interface{} {
	t.Helper()
	var payload map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(result.Output), &payload))
	return payload
}

func TestExecutorSuccess(t *testing.T) {
	ft := &fakeTool{name: "read_file", risk: tool.RiskLow, output: json.RawMessage(`{"content":"ok"}`)}
	gate := &staticGate{decision: approval.Approved}
	exec := newTestExecutor(t, ft, gate)

	result := exec.Resolve(context.Background(), &contract.ToolCall{
		ID: "call_1", Name: "read_file", Arguments: `{"path":"go.mod"}`,
	})

	assert.False(t, result.IsError)
	assert.Equal(t, "call_1", result.CallID)
	assert.Equal(t, `{"content":"ok"}`, result.Output)
	assert.Equal(t, 1, ft.executed)
	assert.Zero(t, gate.asked, "low-risk tools must not prompt")
}

func TestExecutorUnknownTool(t *testing.T) {
	ft := &fakeTool{name: "read_file", risk: tool.RiskLow}
	exec := newTestExecutor(t, ft, &staticGate{decision: approval.Approved})

	result := exec.Resolve(context.Background(), &contract.ToolCall{
		ID: "call_1", Name: "teleport", Arguments: `{}`,
	})

	assert.True(t, result.IsError)
	payload := decodeResult(t, result)
	assert.Equal(t, float64(exitCodeUnknownTool), payload["exit_code"])
	assert.Contains(t, payload["error"], "unsupported tool")
}

func TestExecutorInvalidArguments(t *testing.T) {
	ft := &fakeTool{name: "read_file", risk: tool.RiskLow}
	exec := newTestExecutor(t, ft, &staticGate{decision: approval.Approved})

	result := exec.Resolve(context.Background(), &contract.ToolCall{
		ID: "call_1", Name: "read_file", Arguments: `{"path":42}`,
	})

	assert.True(t, result.IsError)
	assert.Zero(t, ft.executed)
	payload := decodeResult(t, result)
	assert.Equal(t, float64(exitCodeInvalidArgs), payload["exit_code"])
}

func TestExecutorDenialProducesErrorResult(t *testing.T) {
	ft := &fakeTool{name: "execute_shell_command", risk: tool.RiskHigh, output: json.RawMessage(`{}`)}
	gate := &staticGate{decision: approval.Denied}
	exec := newTestExecutor(t, ft, gate)

	result := exec.Resolve(context.Background(), &contract.ToolCall{
		ID: "call_1", Name: "execute_shell_command", Arguments: `{"path":"x"}`,
	})

	assert.True(t, result.IsError)
	assert.Zero(t, ft.executed, "denied tools must never run")
	assert.Equal(t, 1, gate.asked)
	payload := decodeResult(t, result)
	assert.Equal(t, "Action denied by user.", payload["error"])
	assert.Equal(t, float64(exitCodeDenied), payload["exit_code"])
}

func TestExecutorApprovedHighRiskRuns(t *testing.T) {
	ft := &fakeTool{name: "execute_shell_command", risk: tool.RiskHigh, output: json.RawMessage(`{"exit_code":0}`)}
	gate := &staticGate{decision: approval.Approved}
	exec := newTestExecutor(t, ft, gate)

	result := exec.Resolve(context.Background(), &contract.ToolCall{
		ID: "call_1", Name: "execute_shell_command", Arguments: `{"path":"x"}`,
	})

	assert.False(t, result.IsError)
	assert.Equal(t, 1, gate.asked)
	assert.Equal(t, 1, ft.executed)
}

func TestExecutorExecutionFailure(t *testing.T) {
	ft := &fakeTool{name: "read_file", risk: tool.RiskLow, err: assert.AnError}
	exec := newTestExecutor(t, ft, &staticGate{decision: approval.Approved})

	result := exec.Resolve(context.Background(), &contract.ToolCall{
		ID: "call_1", Name: "read_file", Arguments: `{"path":"missing"}`,
	})

	assert.True(t, result.IsError)
	payload := decodeResult(t, result)
	assert.Contains(t, payload["error"], "tool execution failed")
	assert.Equal(t, float64(exitCodeExecFailure), payload["exit_code"])
}
