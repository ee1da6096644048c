package builtin

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toolcore "github.com/kaiwa-ai/kaiwa/internal/tool"

	"github.com/natefinch/atomic"
)

func init() {
	toolcore.RegisterBuiltin("write_file", func(options toolcore.BuiltinOptions) (toolcore.Tool, error) {
		return &WriteFileTool{}, nil
	})
}

// WriteFileTool writes content to a file atomically: the content lands
// in a temp file first and is renamed into place, so an interrupted
// write never leaves a truncated target.
type WriteFileTool struct{}

type writeFileInput struct {
	Path      string `json:"path"`
	Content   string `json:"content"`
	Overwrite bool   `json:"overwrite"`
}

func (t *WriteFileTool) Name() string { return "write_file" }

func (t *WriteFileTool) Description() string {
	return "Writes content to a specified file. Creates directories if needed. Requires user approval."
}

func (t *WriteFileTool) Risk() toolcore.RiskLevel { return toolcore.RiskHigh }

func (t *WriteFileTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"path": map[string]interface{}{
				"type":        "string",
				"description": "The relative or absolute path to the file to write.",
			},
			"content": map[string]interface{}{
				"type":        "string",
				"description": "The content to write to the file.",
			},
			"overwrite": map[string]interface{}{
				"type":        "boolean",
				"description": "Whether to overwrite the file if it exists.",
				"default":     false,
			},
		},
		"required": []string{"path", "content"},
	}
}

func (t *WriteFileTool) Execute(ctx context.Context, input json.RawMessage) (json.RawMessage, error) {
	var args writeFileInput
	if err := json.Unmarshal(input, &args); err != nil {
		return nil, fmt.Errorf("invalid input: %w", err)
	}

	if info, err := os.Stat(args.Path); err == nil {
		if info.IsDir() {
			return nil, fmt.Errorf("write failed: path is a directory: %s", args.Path)
		}
		if !args.Overwrite {
			return nil, fmt.Errorf("write failed: file exists and overwrite is false: %s", args.Path)
		}
	}

	if dir := filepath.Dir(args.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("write failed: %w", err)
		}
	}

	if err := atomic.WriteFile(args.Path, strings.NewReader(args.Content)); err != nil {
		return nil, fmt.Errorf("write failed: %w", err)
	}

	return json.Marshal(map[string]interface{}{
		"success":       true,
		"bytes_written": len(args.Content),
	})
}
