package builtin

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	toolcore "github.com/kaiwa-ai/kaiwa/internal/tool"
)

func init() {
	toolcore.RegisterBuiltin("list_directory", func(options toolcore.BuiltinOptions) (toolcore.Tool, error) {
		return &ListDirectoryTool{}, nil
	})
}

// ListDirectoryTool lists files and subdirectories. Directory entries
// carry a trailing separator so the model can tell them apart.
type ListDirectoryTool struct{}

type listDirectoryInput struct {
	Path      string `json:"path"`
	Recursive bool   `json:"recursive"`
}

func (t *ListDirectoryTool) Name() string { return "list_directory" }

func (t *ListDirectoryTool) Description() string {
	return "Lists the files and subdirectories within a specified directory."
}

func (t *ListDirectoryTool) Risk() toolcore.RiskLevel { return toolcore.RiskLow }

func (t *ListDirectoryTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"path": map[string]interface{}{
				"type":        "string",
				"description": "The relative or absolute path to the directory.",
				"default":     ".",
			},
			"recursive": map[string]interface{}{
				"type":        "boolean",
				"description": "Whether to list contents recursively (use with caution).",
				"default":     false,
			},
		},
		"required": []string{},
	}
}

func (t *ListDirectoryTool) Execute(ctx context.Context, input json.RawMessage) (json.RawMessage, error) {
	var args listDirectoryInput
	if err := json.Unmarshal(input, &args); err != nil {
		return nil, fmt.Errorf("invalid input: %w", err)
	}
	if args.Path == "" {
		args.Path = "."
	}

	info, err := os.Stat(args.Path)
	if err != nil {
		return nil, fmt.Errorf("list failed: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("list failed: not a directory: %s", args.Path)
	}

	var entries []string
	if args.Recursive {
		err = filepath.WalkDir(args.Path, func(path string, d fs.DirEntry, walkErr error) error {
			if walkErr != nil {
				return walkErr
			}
			if path == args.Path {
				return nil
			}
			rel, relErr := filepath.Rel(args.Path, path)
			if relErr != nil {
				return relErr
			}
			if d.IsDir() {
				rel += string(os.PathSeparator)
			}
			entries = append(entries, rel)
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("list failed: %w", err)
		}
		sort.Strings(entries)
	} else {
		dirEntries, err := os.ReadDir(args.Path)
		if err != nil {
			return nil, fmt.Errorf("list failed: %w", err)
		}
		for _, entry := range dirEntries {
			name := entry.Name()
			if entry.IsDir() {
				name += string(os.PathSeparator)
			}
			entries = append(entries, name)
		}
	}

	if entries == nil {
		entries = []string{}
	}
	return json.Marshal(map[string]interface{}{
		"entries": entries,
	})
}
