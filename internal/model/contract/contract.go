package contract

// Conversation roles as used by OpenAI-compatible chat completion APIs.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleTool      = "tool"
)

// Message is one turn in the conversation history. Turns are immutable
// once appended to a conversation log.
type Message struct {
	Role       string      `json:"role"`
	Content    string      `json:"content"`
	Name       string      `json:"name,omitempty"`
	ToolCallID string      `json:"tool_call_id,omitempty"`
	ToolCalls  []*ToolCall `json:"tool_calls,omitempty"`
}

// ToolCall is a model-issued request to invoke a named tool. Arguments
// is the raw JSON string exactly as returned by the API.
type ToolCall struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

// ToolDef describes one callable tool to the model.
type ToolDef struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	Parameters  map[string]interface{} `json:"parameters,omitempty"`
}

// CompletionRequest carries one full snapshot of the conversation plus
// the tool schemas and sampling parameters for a single API call.
type CompletionRequest struct {
	Model       string    `json:"model"`
	Temperature float32   `json:"temperature"`
	TopP        float32   `json:"top_p"`
	Messages    []Message `json:"messages"`
	Tools       []ToolDef `json:"tools,omitempty"`
}

// CompletionResponse is either a final text answer (ToolCalls empty) or
// a batch of tool-call requests to resolve before the next call.
type CompletionResponse struct {
	Content   string      `json:"content"`
	ToolCalls []*ToolCall `json:"tool_calls,omitempty"`
}
