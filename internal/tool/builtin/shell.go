package builtin

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"
	"time"

	toolcore "github.com/kaiwa-ai/kaiwa/internal/tool"
)

func init() {
	toolcore.RegisterBuiltin("execute_shell_command", func(options toolcore.BuiltinOptions) (toolcore.Tool, error) {
		timeout := options.ShellTimeout
		if timeout <= 0 {
			timeout = toolcore.DefaultShellTimeout
		}
		return &ShellCommandTool{DefaultTimeout: timeout}, nil
	})
}

// ShellCommandTool runs a command line through the platform shell and
// reports stdout, stderr, and the exit code. A non-zero exit code is a
// normal result, not a tool failure; the error field is reserved for
// problems running the shell itself. Exit code conventions:
// -1 timeout, -2 working directory missing, -3 the shell could not be
// started.
type ShellCommandTool struct {
	DefaultTimeout time.Duration
}

type shellCommandInput struct {
	Command          string `json:"command"`
	WorkingDirectory string `json:"working_directory"`
	TimeoutSeconds   int    `json:"timeout_seconds"`
}

type shellResult struct {
	Stdout   string `json:"stdout"`
	Stderr   string `json:"stderr"`
	ExitCode int    `json:"exit_code"`
	Error    string `json:"error,omitempty"`
}

func (t *ShellCommandTool) Name() string { return "execute_shell_command" }

func (t *ShellCommandTool) Description() string {
	return "Execute a shell command and return its stdout, stderr, and exit code. Use OS-specific commands (cmd.exe on Windows, sh/bash on Linux/macOS). Requires user approval."
}

func (t *ShellCommandTool) Risk() toolcore.RiskLevel { return toolcore.RiskHigh }

func (t *ShellCommandTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"command": map[string]interface{}{
				"type":        "string",
				"description": "The shell command string to execute.",
			},
			"working_directory": map[string]interface{}{
				"type":        "string",
				"description": "Optional directory path to execute the command in.",
			},
			"timeout_seconds": map[string]interface{}{
				"type":        "integer",
				"description": "Optional timeout in seconds.",
				"default":     60,
			},
		},
		"required": []string{"command"},
	}
}

func (t *ShellCommandTool) Execute(ctx context.Context, input json.RawMessage) (json.RawMessage, error) {
	var args shellCommandInput
	if err := json.Unmarshal(input, &args); err != nil {
		return nil, fmt.Errorf("invalid input: %w", err)
	}
	if strings.TrimSpace(args.Command) == "" {
		return nil, fmt.Errorf("command is required")
	}

	workdir := args.WorkingDirectory
	if workdir != "" {
		if info, err := os.Stat(workdir); err != nil || !info.IsDir() {
			return json.Marshal(shellResult{
				ExitCode: -2,
				Error:    fmt.Sprintf("working directory not found: %s", workdir),
			})
		}
	}

	timeout := t.DefaultTimeout
	if args.TimeoutSeconds > 0 {
		timeout = time.Duration(args.TimeoutSeconds) * time.Second
	}
	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var cmd *exec.Cmd
	if runtime.GOOS == "windows" {
		cmd = exec.CommandContext(runCtx, "cmd", "/C", args.Command)
	} else {
		cmd = exec.CommandContext(runCtx, "/bin/sh", "-c", args.Command)
	}
	cmd.Dir = workdir

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
		result.Error = fmt.Sprintf("timeout after %s", timeout)
	case err == nil:
		result.ExitCode = 0
	default:
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
		} else {
			result.ExitCode = -3
			result.Error = fmt.Sprintf("execution failed: %v", err)
			if result.Stderr == "" {
				result.Stderr = err.Error()
			}
		}
	}

	return json.Marshal(result)
}
