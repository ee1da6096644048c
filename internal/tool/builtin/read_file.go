package builtin

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	toolcore "github.com/kaiwa-ai/kaiwa/internal/tool"
)

func init() {
	toolcore.RegisterBuiltin("read_file", func(options toolcore.BuiltinOptions) (toolcore.Tool, error) {
		return &ReadFileTool{}, nil
	})
}

// ReadFileTool returns the entire content of a file.
type ReadFileTool struct{}

type readFileInput struct {
	Path string `json:"path"`
}

func (t *ReadFileTool) Name() string { return "read_file" }

func (t *ReadFileTool) Description() string {
	return "Reads the entire content of a specified file."
}

func (t *ReadFileTool) Risk() toolcore.RiskLevel { return toolcore.RiskLow }

func (t *ReadFileTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"path": map[string]interface{}{
				"type":        "string",
				"description": "The relative or absolute path to the file to read.",
			},
		},
		"required": []string{"path"},
	}
}

func (t *ReadFileTool) Execute(ctx context.Context, input json.RawMessage) (json.RawMessage, error) {
	var args readFileInput
	if err := json.Unmarshal(input, &args); err != nil {
		return nil, fmt.Errorf("invalid input: %w", err)
	}

	info, err := os.Stat(args.Path)
	if err != nil {
		return nil, fmt.Errorf("read failed: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("read failed: not a file: %s", args.Path)
	}

	content, err := os.ReadFile(args.Path)
	if err != nil {
		return nil, fmt.Errorf("read failed: %w", err)
	}

	return json.Marshal(map[string]interface{}{
		"content": string(content),
	})
}
