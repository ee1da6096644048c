package agent

import (
	"fmt"
	"runtime"
	"strings"
	"time"
)

// BuildSystemPrompt seeds the conversation with the environment, the
// callable tools, and the approval norms.
func BuildSystemPrompt(toolNames []string, interactive bool) string {
	task := "executing a single task given by the user"
	if interactive {
		task = "ready for interactive user requests"
	}

	return fmt.Sprintf(
		"You are kaiwa, a helpful coding assistant running in a CLI environment on %s, %s. "+
			"Available tools: %s. "+
			"Be precise and careful. Ensure shell commands match the OS. Dangerous actions require user approval "+
			"(especially execute_shell_command and execute_python_code). Current date: %s.",
		osInfo(), task, strings.Join(toolNames, ", "),
		time.Now().Format("2006-01-02 15:04:05"),
	)
}

func osInfo() string {
	return fmt.Sprintf("%s (%s)", runtime.GOOS, runtime.GOARCH)
}
