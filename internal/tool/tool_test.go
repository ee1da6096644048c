package tool

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubTool struct {
	name string
	risk RiskLevel
}

func (t *stubTool) Name() string        { return t.name }
func (t *stubTool) Description() string { return "stub" }
func (t *stubTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"type":       "object",
		"properties": map[string]interface{}{},
	}
}
func (t *stubTool) Execute(ctx context.Context, input json.RawMessage) (json.RawMessage, error) {
	return json.Marshal(map[string]string{"status": "ok"})
}
func (t *stubTool) Risk() RiskLevel { return t.risk }

func TestRegistryKeepsRegistrationOrder(t *testing.T) {
	registry := NewRegistry()
	registry.Register(&stubTool{name: "read_file"})
	registry.Register(&stubTool{name: "execute_shell_command", risk: RiskHigh})
	registry.Register(&stubTool{name: "ask_user"})

	assert.Equal(t, []string{"read_file", "execute_shell_command", "ask_user"}, registry.Names())

	defs := registry.Definitions()
	require.Len(t, defs, 3)
	assert.Equal(t, "read_file", defs[0].Name)
	assert.Equal(t, "ask_user", defs[2].Name)
}

func TestRegistryLookup(t *testing.T) {
	registry := NewRegistry()
	registry.Register(&stubTool{name: "read_file"})

	_, err := registry.Get("read_file")
	require.NoError(t, err)

	_, err = registry.Get(" read_file ")
	assert.NoError(t, err, "lookups are whitespace-normalized")

	_, err = registry.Get("write_file")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrToolNotFound)
}

func TestDescriptorsCarryRisk(t *testing.T) {
	registry := NewRegistry()
	registry.Register(&stubTool{name: "execute_shell_command", risk: RiskHigh})
	registry.Register(&stubTool{name: "list_directory", risk: RiskLow})

	descriptors := registry.Descriptors()
	require.Len(t, descriptors, 2)
	assert.True(t, descriptors[0].Dangerous())
	assert.False(t, descriptors[1].Dangerous())
}
