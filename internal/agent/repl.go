package agent

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/kaiwa-ai/kaiwa/internal/config"
	"github.com/kaiwa-ai/kaiwa/internal/console"
	"github.com/kaiwa-ai/kaiwa/internal/conversation"
	"github.com/kaiwa-ai/kaiwa/internal/errors"
	"github.com/kaiwa-ai/kaiwa/internal/tool"

	"github.com/google/shlex"
)

// REPL is the interactive driver: it blocks on console input, feeds
// user turns into the loop, and keeps the session alive across
// recoverable failures.
type REPL struct {
	loop     *Loop
	log      *conversation.Log
	registry *tool.Registry
	printer  *console.Printer
	in       *bufio.Reader
	out      io.Writer
	cfg      *config.Config
}

func NewREPL(loop *Loop, log *conversation.Log, registry *tool.Registry, printer *console.Printer, in *bufio.Reader, out io.Writer, cfg *config.Config) *REPL {
	return &REPL{
		loop:     loop,
		log:      log,
		registry: registry,
		printer:  printer,
		in:       in,
		out:      out,
		cfg:      cfg,
	}
}

func (r *REPL) Run(ctx context.Context) error {
	fmt.Fprintf(r.out, "Starting interactive session (Model: %s, Temp: %.2f, Top-P: %.2f, OS: %s)\n",
		r.cfg.API.Model, r.cfg.API.Temperature, r.cfg.API.TopP, osInfo())
	fmt.Fprintln(r.out, "Type 'quit' or 'exit' to end. Slash commands: /tools, /config, /exit.")
	r.printer.Warning("Review dangerous actions (execute_shell_command, execute_python_code, file ops, web fetch) VERY carefully.")

	for {
		select {
		case <-ctx.Done():
			fmt.Fprintln(r.out, "\nExiting...")
			return nil
		default:
		}

		fmt.Fprintf(r.out, "\n%s\n", r.printer.UserLabel())
		line, err := r.in.ReadString('\n')
		if err != nil && line == "" {
			fmt.Fprintln(r.out, "\nExiting...")
			return nil
		}

		input := strings.TrimSpace(line)
		if input == "" {
			continue
		}

		switch strings.ToLower(input) {
		case "quit", "exit":
			return nil
		}

		if strings.HasPrefix(input, "/") {
			if done := r.handleCommand(input); done {
				return nil
			}
			continue
		}

		r.log.AppendUser(input)
		if err := r.loop.Run(ctx); err != nil {
			if errors.IsFatal(err) {
				return err
			}
			if ctx.Err() != nil {
				fmt.Fprintln(r.out, "\nExiting...")
				return nil
			}
			r.printer.Error(err.Error())
		}
	}
}

// handleCommand executes a slash command. It reports true when the
// session should end.
func (r *REPL) handleCommand(input string) bool {
	parts, err := shlex.Split(input)
	if err != nil {
		parts = strings.Fields(input)
	}
	if len(parts) == 0 {
		return false
	}

	switch parts[0] {
	case "/exit", "/quit":
		return true
	case "/tools":
		for _, d := range r.registry.Descriptors() {
			marker := " "
			if d.Dangerous() {
				marker = "!"
			}
			fmt.Fprintf(r.out, "%s %-24s %s\n", marker, d.Definition.Name, d.Definition.Description)
		}
		r.printer.Info("Tools marked '!' require approval before running.")
	case "/config":
		fmt.Fprintf(r.out, "model: %s\nbase_url: %s\ntemperature: %.2f\ntop_p: %.2f\napi_key: %s\n",
			r.cfg.API.Model, valueOrDefault(r.cfg.API.BaseURL, "(default)"),
			r.cfg.API.Temperature, r.cfg.API.TopP, redactKey(r.cfg.API.Key))
	default:
		r.printer.Error(fmt.Sprintf("Unknown command: %s", parts[0]))
	}
	return false
}

func redactKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}

func valueOrDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
