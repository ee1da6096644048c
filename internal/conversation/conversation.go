package conversation

import (
	"github.com/kaiwa-ai/kaiwa/internal/model/contract"
)

// Log is the append-only conversation history. Turns are never removed,
// reordered, or mutated after being appended; the snapshot sent on each
// API call is the full chronological sequence.
type Log struct {
	turns []contract.Message
}

// New seeds the log with the system turn describing available behavior
// and tool usage norms.
func New(systemPrompt string) *Log {
	l := &Log{}
	l.Append(contract.Message{Role: contract.RoleSystem, Content: systemPrompt})
	return l
}

func (l *Log) Append(turn contract.Message) {
	l.turns = append(l.turns, turn)
}

func (l *Log) AppendUser(text string) {
	l.Append(contract.Message{Role: contract.RoleUser, Content: text})
}

// AppendAssistant records a model response turn, including any tool
// calls it carries so the API sees matching tool_call_id references on
// the following tool turns.
func (l *Log) AppendAssistant(resp *contract.CompletionResponse) {
	l.Append(contract.Message{
		Role:      contract.RoleAssistant,
		Content:   resp.Content,
		ToolCalls: resp.ToolCalls,
	})
}

func (l *Log) AppendToolResult(callID, toolName, content string) {
	l.Append(contract.Message{
		Role:       contract.RoleTool,
		Name:       toolName,
		ToolCallID: callID,
		Content:    content,
	})
}

// Snapshot returns a copy of the turn sequence. Callers may not use it
// to mutate the log.
func (l *Log) Snapshot() []contract.Message {
	snapshot := make([]contract.Message, len(l.turns))
	copy(snapshot, l.turns)
	return snapshot
}

func (l *Log) Len() int {
	return len(l.turns)
}
