package conversation

import (
	"testing"

	"github.com/kaiwa-ai/kaiwa/internal/model/contract"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSeedsSystemTurn(t *testing.T) {
	log := New("you are a CLI assistant")

	snapshot := log.Snapshot()
	require.Len(t, snapshot, 1)
	assert.Equal(t, contract.RoleSystem, snapshot[0].Role)
	assert.Equal(t, "you are a CLI assistant", snapshot[0].Content)
}

func TestAppendIsAppendOnly(t *testing.T) {
	log := New("system")
	log.AppendUser("hello")

	before := log.Snapshot()

	log.AppendAssistant(&contract.CompletionResponse{
		ToolCalls: []*contract.ToolCall{{ID: "call_1", Name: "list_directory", Arguments: `{"path":"."}`}},
	})
	log.AppendToolResult("call_1", "list_directory", `{"entries":[]}`)

	after := log.Snapshot()
	require.Len(t, after, len(before)+2)
	assert.Equal(t, before, after[:len(before)], "prior turns are a strict prefix")

	assert.Equal(t, contract.RoleAssistant, after[2].Role)
	require.Len(t, after[2].ToolCalls, 1)
	assert.Equal(t, contract.RoleTool, after[3].Role)
	assert.Equal(t, "call_1", after[3].ToolCallID)
	assert.Equal(t, "list_directory", after[3].Name)
}

func TestSnapshotIsACopy(t *testing.T) {
	log := New("system")
	log.AppendUser("hi")

	snapshot := log.Snapshot()
	snapshot[0].Content = "tampered"

	assert.Equal(t, "system", log.Snapshot()[0].Content)
}
