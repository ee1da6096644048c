package builtin

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	toolcore "github.com/kaiwa-ai/kaiwa/internal/tool"
)

func init() {
	toolcore.RegisterBuiltin("execute_python_code", func(options toolcore.BuiltinOptions) (toolcore.Tool, error) {
		timeout := options.PythonTimeout
		if timeout <= 0 {
			timeout = toolcore.DefaultPythonTimeout
		}
		bin := strings.TrimSpace(options.PythonBin)
		if bin == "" {
			bin = "python3"
		}
		return &PythonCodeTool{Bin: bin, DefaultTimeout: timeout}, nil
	})
}

// PythonCodeTool executes a snippet with `python -c` in a separate
// process. Failures inside the snippet surface through stderr and the
// exit code; the error field is for subprocess-level problems only.
type PythonCodeTool struct {
	Bin            string
	DefaultTimeout time.Duration
}

type pythonCodeInput struct {
	Code           string `json:"code"`
	TimeoutSeconds int    `json:"timeout_seconds"`
}

func (t *PythonCodeTool) Name() string { return "execute_python_code" }

func (t *PythonCodeTool) Description() string {
	return "Executes a given snippet of Python code in a separate process and returns its stdout and stderr. " +
		"WARNING: This is highly dangerous and executes with the agent's permissions. Requires careful user approval."
}

func (t *PythonCodeTool) Risk() toolcore.RiskLevel { return toolcore.RiskHigh }

func (t *PythonCodeTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"code": map[string]interface{}{
				"type":        "string",
				"description": "The Python code snippet to execute.",
			},
			"timeout_seconds": map[string]interface{}{
				"type":        "integer",
				"description": "Optional timeout in seconds for the execution.",
				"default":     30,
			},
		},
		"required": []string{"code"},
	}
}

func (t *PythonCodeTool) Execute(ctx context.Context, input json.RawMessage) (json.RawMessage, error) {
	var args pythonCodeInput
	if err := json.Unmarshal(input, &args); err != nil {
		return nil, fmt.Errorf("invalid input: %w", err)
	}
	if strings.TrimSpace(args.Code) == "" {
		return nil, fmt.Errorf("code is required")
	}

	timeout := t.DefaultTimeout
	if args.TimeoutSeconds > 0 {
		timeout = time.Duration(args.TimeoutSeconds) * time.Second
	}
	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, t.Bin, "-c", args.Code)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	result := shellResult{
		Stdout: strings.TrimSpace(stdout.String()),
		Stderr: strings.TrimSpace(stderr.String()),
	}

	switch {
	case runCtx.Err() == context.DeadlineExceeded:
		result.ExitCode = -1
		result.Error = fmt.Sprintf("python execution timed out after %s", timeout)
	case err == nil:
		result.ExitCode = 0
	default:
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
			if result.Stderr == "" {
				result.Stderr = fmt.Sprintf("python process exited with code %d", result.ExitCode)
			}
		} else {
			result.ExitCode = -2
			result.Error = fmt.Sprintf("python executable not found or failed to start: %v", err)
		}
	}

	return json.Marshal(result)
}
