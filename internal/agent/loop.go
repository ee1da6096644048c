package agent

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/kaiwa-ai/kaiwa/internal/console"
	"github.com/kaiwa-ai/kaiwa/internal/conversation"
	"github.com/kaiwa-ai/kaiwa/internal/errors"
	"github.com/kaiwa-ai/kaiwa/internal/model/contract"
)

// Completer is the external API client boundary.
type Completer interface {
	Complete(ctx context.Context, messages []contract.Message, tools []contract.ToolDef) (*contract.CompletionResponse, error)
}

// Resolver turns one tool-call request into exactly one Result.
type Resolver interface {
	Resolve(ctx context.Context, call *contract.ToolCall) Result
}

// Loop drives one task to completion: request a completion, resolve
// any tool calls, append the results, and repeat until the model
// produces a final text answer.
type Loop struct {
	client       Completer
	resolver     Resolver
	log          *conversation.Log
	tools        []contract.ToolDef
	printer      *console.Printer
	maxRounds    int
	maxRetries   int
	retryBackoff time.Duration
}

type LoopConfig struct {
	MaxRounds    int
	MaxRetries   int
	RetryBackoff time.Duration
}

func NewLoop(client Completer, resolver Resolver, log *conversation.Log, tools []contract.ToolDef, printer *console.Printer, cfg LoopConfig) *Loop {
	if cfg.MaxRounds <= 0 {
		cfg.MaxRounds = 16
	}
	if cfg.RetryBackoff <= 0 {
		cfg.RetryBackoff = time.Second
	}
	return &Loop{
		client:       client,
		resolver:     resolver,
		log:          log,
		tools:        tools,
		printer:      printer,
		maxRounds:    cfg.MaxRounds,
		maxRetries:   cfg.MaxRetries,
		retryBackoff: cfg.RetryBackoff,
	}
}

// Run executes tool-call rounds until a final (non-tool-call) answer
// arrives. The pending user turn must already be appended.
func (l *Loop) Run(ctx context.Context) error {
	for round := 0; round < l.maxRounds; round++ {
		l.printer.Status("Waiting for assistant...")

		resp, err := l.complete(ctx)
		if err != nil {
			return err
		}

		l.log.AppendAssistant(resp)

		if len(resp.ToolCalls) == 0 {
			if resp.Content != "" {
				l.printer.Assistant(resp.Content)
			}
			return nil
		}

		// Each request resolves to exactly one tool turn, in request
		// order, before the next completion is requested.
		seen := make(map[string]struct{}, len(resp.ToolCalls))
		for _, call := range resp.ToolCalls {
			if call.ID == "" {
				return fmt.Errorf("tool call for %q carries no id: %w", call.Name, errors.ErrDesync)
			}
			if _, dup := seen[call.ID]; dup {
				return fmt.Errorf("duplicate tool call id %q: %w", call.ID, errors.ErrDesync)
			}
			seen[call.ID] = struct{}{}

			result := l.resolver.Resolve(ctx, call)
			l.log.AppendToolResult(result.CallID, result.Name, result.Output)
		}
	}

	return fmt.Errorf("no final answer after %d tool-call rounds: %w", l.maxRounds, errors.ErrInternal)
}

func (l *Loop) complete(ctx context.Context) (*contract.CompletionResponse, error) {
	var lastErr error
	for attempt := 0; attempt <= l.maxRetries; attempt++ {
		if attempt > 0 {
			slog.Warn("retrying completion request", "attempt", attempt, "error", lastErr)
			l.printer.Warning(fmt.Sprintf("Request failed (%v), retrying...", lastErr))
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(l.retryBackoff):
			}
		}

		resp, err := l.client.Complete(ctx, l.log.Snapshot(), l.tools)
		if err == nil {
			return resp, nil
		}
		lastErr = err
		if !errors.IsRetryable(err) {
			return nil, err
		}
	}
	return nil, lastErr
}
