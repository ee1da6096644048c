package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/kaiwa-ai/kaiwa/internal/agent"
	"github.com/kaiwa-ai/kaiwa/internal/approval"
	"github.com/kaiwa-ai/kaiwa/internal/config"
	"github.com/kaiwa-ai/kaiwa/internal/console"
	"github.com/kaiwa-ai/kaiwa/internal/conversation"
	"github.com/kaiwa-ai/kaiwa/internal/model/openai"
	"github.com/kaiwa-ai/kaiwa/internal/session"
	"github.com/kaiwa-ai/kaiwa/internal/tool"
	_ "github.com/kaiwa-ai/kaiwa/internal/tool/builtin"

	"github.com/muesli/cancelreader"
)

// components wires the full runtime: registry, approval gate, model
// client, conversation log, and the turn loop, sharing one buffered
// stdin between the REPL, the gate, and the ask_user tool.
type components struct {
	cfg         *config.Config
	printer     *console.Printer
	stdin       *bufio.Reader
	cancelStdin func() bool
	registry    *tool.Registry
	log         *conversation.Log
	loop        *agent.Loop
}

func buildComponents(cfg *config.Config, interactive bool) (*components, error) {
	// Reads on a plain os.Stdin are restarted by the runtime after a
	// signal, so a blocked prompt would outlive a canceled context.
	// cancelreader makes the read fail instead.
	var stdinSource io.Reader = os.Stdin
	cancelStdin := func() bool { return false }
	if reader, err := cancelreader.NewReader(os.Stdin); err == nil {
		stdinSource = reader
		cancelStdin = reader.Cancel
	}
	stdin := bufio.NewReader(stdinSource)
	printer := console.NewPrinter(os.Stdout)

	fetchTimeout := config.DurationOrDefault(cfg.Tools.FetchTimeout, tool.DefaultFetchTimeout)
	registry, err := tool.BuildRegistry(tool.BuiltinOptions{
		ShellTimeout:   config.DurationOrDefault(cfg.Tools.ShellTimeout, tool.DefaultShellTimeout),
		PythonTimeout:  config.DurationOrDefault(cfg.Tools.PythonTimeout, tool.DefaultPythonTimeout),
		PythonBin:      cfg.Tools.PythonBin,
		FetchTimeout:   fetchTimeout,
		FetchUserAgent: cfg.Tools.FetchUserAgent,
		FetchMaxBytes:  cfg.Tools.FetchMaxBytes,
		HTTPClient:     &http.Client{Timeout: fetchTimeout},
		Stdin:          stdin,
		Stdout:         os.Stdout,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize tools: %w", err)
	}

	policy := approval.NewPolicy(cfg.Governance)
	gate := approval.NewConsoleGate(stdin, os.Stdout, printer)
	executor := agent.NewExecutor(registry, policy, gate, printer)

	log := conversation.New(agent.BuildSystemPrompt(registry.Names(), interactive))
	loop := agent.NewLoop(openai.New(cfg.API), executor, log, registry.Definitions(), printer, agent.LoopConfig{
		MaxRounds:    cfg.Agent.MaxRounds,
		MaxRetries:   cfg.Agent.MaxRetries,
		RetryBackoff: config.DurationOrDefault(cfg.Agent.RetryBackoff, time.Second),
	})

	return &components{
		cfg:         cfg,
		printer:     printer,
		stdin:       stdin,
		cancelStdin: cancelStdin,
		registry:    registry,
		log:         log,
		loop:        loop,
	}, nil
}

// cancelStdinOnDone unblocks any pending console read once the context
// is canceled so an interrupt ends the session without another Enter.
func (c *components) cancelStdinOnDone(ctx context.Context) {
	go func() {
		<-ctx.Done()
		c.cancelStdin()
	}()
}

func runSinglePrompt(cfg *config.Config, prompt string) error {
	c, err := buildComponents(cfg, false)
	if err != nil {
		return err
	}

	handler := NewSignalHandler()
	handler.Start()
	defer handler.Stop()
	c.cancelStdinOnDone(handler.Context())

	c.log.AppendUser(prompt)
	if err := c.loop.Run(handler.Context()); err != nil {
		if handler.Context().Err() != nil {
			c.printer.Status("Interrupted.")
			return nil
		}
		return err
	}
	return nil
}

func runInteractive(cfg *config.Config) error {
	lock, err := session.Acquire(cfg.Session.LockPath)
	if err != nil {
		return err
	}
	defer lock.Release()

	c, err := buildComponents(cfg, true)
	if err != nil {
		return err
	}

	handler := NewSignalHandler()
	handler.Start()
	defer handler.Stop()
	c.cancelStdinOnDone(handler.Context())

	repl := agent.NewREPL(c.loop, c.log, c.registry, c.printer, c.stdin, os.Stdout, cfg)
	return repl.Run(handler.Context())
}
