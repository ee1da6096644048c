package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/kaiwa-ai/kaiwa/internal/approval"
	"github.com/kaiwa-ai/kaiwa/internal/console"
	"github.com/kaiwa-ai/kaiwa/internal/model/contract"
	"github.com/kaiwa-ai/kaiwa/internal/tool"
)

// Result is one resolved tool call, ready to append as a tool turn.
// Every tool-call request produces exactly one Result; failures and
// approval denials become error results instead of aborting the loop.
type Result struct {
	CallID  string
	Name    string
	Output  string
	IsError bool
}

// Exit code conventions carried in error payloads, matching what the
// shell tool reports so the model sees one vocabulary.
const (
	exitCodeDenied      = -4
	exitCodeInvalidArgs = -5
	exitCodeUnknownTool = -6
	exitCodeExecFailure = -7
)

// Executor resolves a single tool call: lookup, argument validation,
// approval gating, then execution.
type Executor struct {
	registry *tool.Registry
	policy   *approval.Policy
	gate     approval.Gate
	printer  *console.Printer
}

func NewExecutor(registry *tool.Registry, policy *approval.Policy, gate approval.Gate, printer *console.Printer) *Executor {
	return &Executor{
		registry: registry,
		policy:   policy,
		gate:     gate,
		printer:  printer,
	}
}

func (e *Executor) Resolve(ctx context.Context, call *contract.ToolCall) Result {
	e.printer.ToolCallRequest(call.Name, call.ID, call.Arguments)

	t, err := e.registry.Get(call.Name)
	if err != nil {
		e.printer.Error(fmt.Sprintf("Unsupported tool requested: %s", call.Name))
		return errorResult(call, fmt.Sprintf("unsupported tool: %s", call.Name), exitCodeUnknownTool)
	}

	input := json.RawMessage(call.Arguments)
	if err := tool.ValidateInput(t.Parameters(), input); err != nil {
		e.printer.Error(fmt.Sprintf("Cannot execute tool %q: %v", call.Name, err))
		return errorResult(call, fmt.Sprintf("invalid arguments: %v", err), exitCodeInvalidArgs)
	}

	if e.policy.RequiresApproval(call.Name, riskOf(t)) {
		if e.gate.Authorize(ctx, approval.Request{ToolName: call.Name, Arguments: input}) != approval.Approved {
			e.printer.Status("Action skipped by user.")
			return errorResult(call, "Action denied by user.", exitCodeDenied)
		}
	}

	e.printer.Status(fmt.Sprintf("Running tool: %s...", call.Name))
	start := time.Now()
	output, err := t.Execute(ctx, input)
	duration := time.Since(start)

	if err != nil {
		slog.Warn("tool execution failed", "tool", call.Name, "error", err, "duration", duration)
		e.printer.Error(fmt.Sprintf("Error executing tool %q: %v", call.Name, err))
		result := errorResult(call, fmt.Sprintf("tool execution failed: %v", err), exitCodeExecFailure)
		e.printer.ToolResult(call.Name, call.ID, result.Output)
		return result
	}

	slog.Debug("tool execution finished", "tool", call.Name, "duration", duration)
	e.printer.Status(fmt.Sprintf("Tool %s finished.", call.Name))

	result := Result{CallID: call.ID, Name: call.Name, Output: string(output)}
	e.printer.ToolResult(call.Name, call.ID, result.Output)
	return result
}

func errorResult(call *contract.ToolCall, message string, exitCode int) Result {
	return Result{
		CallID:  call.ID,
		Name:    call.Name,
		Output:  mustMarshal(map[string]interface{}{"error": message, "exit_code": exitCode}),
		IsError: true,
	}
}

func riskOf(t tool.Tool) tool.RiskLevel {
	if provider, ok := t.(tool.RiskProvider); ok {
		return provider.Risk()
	}
	return tool.RiskLow
}

func mustMarshal(payload map[string]interface{}) string {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Sprintf(`{"error":%q}`, err.Error())
	}
	return string(data)
}
