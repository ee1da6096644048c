package builtin

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	toolcore "github.com/kaiwa-ai/kaiwa/internal/tool"
)

func init() {
	toolcore.RegisterBuiltin("ask_user", func(options toolcore.BuiltinOptions) (toolcore.Tool, error) {
		in := options.Stdin
		if in == nil {
			in = bufio.NewReader(os.Stdin)
		}
		out := options.Stdout
		if out == nil {
			out = os.Stdout
		}
		return &AskUserTool{In: in, Out: out}, nil
	})
}

// AskUserTool lets the model solicit clarification mid-loop. It blocks
// on interactive input without ending the turn.
type AskUserTool struct {
	In  *bufio.Reader
	Out io.Writer
}

type askUserInput struct {
	Question string `json:"question"`
}

func (t *AskUserTool) Name() string { return "ask_user" }

func (t *AskUserTool) Description() string {
	return "Asks the human user a question and returns their response."
}

func (t *AskUserTool) Risk() toolcore.RiskLevel { return toolcore.RiskLow }

func (t *AskUserTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"question": map[string]interface{}{
				"type":        "string",
				"description": "The question to ask the user.",
			},
		},
		"required": []string{"question"},
	}
}

func (t *AskUserTool) Execute(ctx context.Context, input json.RawMessage) (json.RawMessage, error) {
	var args askUserInput
	if err := json.Unmarshal(input, &args); err != nil {
		return nil, fmt.Errorf("invalid input: %w", err)
	}

	fmt.Fprintf(t.Out, "\nAssistant asks: %s\nYour response: ", args.Question)

	line, err := t.In.ReadString('\n')
	if err != nil && line == "" {
		return nil, fmt.Errorf("input stream closed while asking user")
	}

	return json.Marshal(map[string]interface{}{
		"response": strings.TrimSpace(line),
	})
}
