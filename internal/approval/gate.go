package approval

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/kaiwa-ai/kaiwa/internal/console"
)

type Decision int

const (
	Denied Decision = iota
	Approved
)

// Request is one tool call awaiting confirmation.
type Request struct {
	ToolName  string
	Arguments json.RawMessage
}

// Gate obtains interactive confirmation for dangerous tool calls.
type Gate interface {
	Authorize(ctx context.Context, req Request) Decision
}

// ConsoleGate renders the tool name and full argument payload, then
// solicits a yes/no answer. Only an explicit affirmative approves;
// anything else, including EOF and interrupts, denies.
type ConsoleGate struct {
	in      *bufio.Reader
	out     io.Writer
	printer *console.Printer
}

func NewConsoleGate(in *bufio.Reader, out io.Writer, printer *console.Printer) *ConsoleGate {
	return &ConsoleGate{in: in, out: out, printer: printer}
}

func (g *ConsoleGate) Authorize(ctx context.Context, req Request) Decision {
	fmt.Fprintln(g.out, "\n-------------------------------------")
	g.printer.Warning("The assistant wants to perform the following action:")
	fmt.Fprintf(g.out, "  Tool: %s\n", req.ToolName)
	fmt.Fprintf(g.out, "  Arguments: %s\n", formatArguments(req.Arguments))

	if req.ToolName == "execute_python_code" || req.ToolName == "execute_shell_command" {
		g.printer.SevereWarning("Executing commands or code is EXTREMELY DANGEROUS and runs with your full permissions.")
	} else {
		g.printer.Warning("Writing files, creating directories, or accessing the web can be dangerous.")
	}
	fmt.Fprintln(g.out, "-------------------------------------")

	for {
		select {
		case <-ctx.Done():
			g.printer.Error("Interrupted. Assuming 'No'.")
			return Denied
		default:
		}

		fmt.Fprint(g.out, "Allow this action? (y/N): ")
		line, err := g.in.ReadString('\n')
		if err != nil && line == "" {
			g.printer.Error("Input closed. Assuming 'No'.")
			return Denied
		}

		switch strings.ToLower(strings.TrimSpace(line)) {
		case "y", "yes":
			return Approved
		case "n", "no", "":
			return Denied
		default:
			fmt.Fprintln(g.out, "Invalid input. Please enter 'y' or 'n'.")
		}
	}
}

func formatArguments(raw json.RawMessage) string {
	var decoded interface{}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return string(raw)
	}
	pretty, err := json.MarshalIndent(decoded, "  ", "  ")
	if err != nil {
		return string(raw)
	}
	return string(pretty)
}
