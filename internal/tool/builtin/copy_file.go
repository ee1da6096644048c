package builtin

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	toolcore "github.com/kaiwa-ai/kaiwa/internal/tool"

	"github.com/natefinch/atomic"
)

func init() {
	toolcore.RegisterBuiltin("copy_file", func(options toolcore.BuiltinOptions) (toolcore.Tool, error) {
		return &CopyFileTool{}, nil
	})
}

// CopyFileTool copies a source file to a destination path.
type CopyFileTool struct{}

type copyFileInput struct {
	SourcePath      string `json:"source_path"`
	DestinationPath string `json:"destination_path"`
	Overwrite       bool   `json:"overwrite"`
}

func (t *CopyFileTool) Name() string { return "copy_file" }

func (t *CopyFileTool) Description() string {
	return "Copies a source file to a destination path. Creates destination directories if needed. Requires user approval."
}

func (t *CopyFileTool) Risk() toolcore.RiskLevel { return toolcore.RiskHigh }

func (t *CopyFileTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"source_path": map[string]interface{}{
				"type":        "string",
				"description": "The relative or absolute path of the file to copy.",
			},
			"destination_path": map[string]interface{}{
				"type":        "string",
				"description": "The relative or absolute path where the file should be copied.",
			},
			"overwrite": map[string]interface{}{
				"type":        "boolean",
				"description": "Whether to overwrite the destination file if it already exists.",
				"default":     false,
			},
		},
		"required": []string{"source_path", "destination_path"},
	}
}

func (t *CopyFileTool) Execute(ctx context.Context, input json.RawMessage) (json.RawMessage, error) {
	var args copyFileInput
	if err := json.Unmarshal(input, &args); err != nil {
		return nil, fmt.Errorf("invalid input: %w", err)
	}

	srcInfo, err := os.Stat(args.SourcePath)
	if err != nil {
		return nil, fmt.Errorf("copy failed: source not found: %s", args.SourcePath)
	}
	if srcInfo.IsDir() {
		return nil, fmt.Errorf("copy failed: source is a directory: %s", args.SourcePath)
	}

	if destInfo, err := os.Stat(args.DestinationPath); err == nil {
		if destInfo.IsDir() {
			return nil, fmt.Errorf("copy failed: destination is a directory: %s", args.DestinationPath)
		}
		if !args.Overwrite {
			return nil, fmt.Errorf("copy failed: destination exists and overwrite is false: %s", args.DestinationPath)
		}
	}

	if dir := filepath.Dir(args.DestinationPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("copy failed: %w", err)
		}
	}

	src, err := os.Open(args.SourcePath)
	if err != nil {
		return nil, fmt.Errorf("copy failed: %w", err)
	}
	defer src.Close()

	if err := atomic.WriteFile(args.DestinationPath, src); err != nil {
		return nil, fmt.Errorf("copy failed: %w", err)
	}

	return json.Marshal(map[string]interface{}{
		"success":      true,
		"bytes_copied": srcInfo.Size(),
	})
}
