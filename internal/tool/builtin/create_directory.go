package builtin

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	toolcore "github.com/kaiwa-ai/kaiwa/internal/tool"
)

func init() {
	toolcore.RegisterBuiltin("create_directory", func(options toolcore.BuiltinOptions) (toolcore.Tool, error) {
		return &CreateDirectoryTool{}, nil
	})
}

// CreateDirectoryTool creates a directory including parents.
type CreateDirectoryTool struct{}

type createDirectoryInput struct {
	Path string `json:"path"`
}

func (t *CreateDirectoryTool) Name() string { return "create_directory" }

func (t *CreateDirectoryTool) Description() string {
	return "Creates a new directory, including any necessary parent directories. Requires user approval."
}

func (t *CreateDirectoryTool) Risk() toolcore.RiskLevel { return toolcore.RiskHigh }

func (t *CreateDirectoryTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"path": map[string]interface{}{
				"type":        "string",
				"description": "The relative or absolute directory path to create.",
			},
		},
		"required": []string{"path"},
	}
}

func (t *CreateDirectoryTool) Execute(ctx context.Context, input json.RawMessage) (json.RawMessage, error) {
	var args createDirectoryInput
	if err := json.Unmarshal(input, &args); err != nil {
		return nil, fmt.Errorf("invalid input: %w", err)
	}

	if info, err := os.Stat(args.Path); err == nil && !info.IsDir() {
		return nil, fmt.Errorf("create dir failed: path exists but is a file: %s", args.Path)
	}

	if err := os.MkdirAll(args.Path, 0o755); err != nil {
		return nil, fmt.Errorf("create dir failed: %w", err)
	}

	return json.Marshal(map[string]interface{}{
		"success": true,
	})
}
