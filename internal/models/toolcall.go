package models

// ToolCall is a function invocation emitted by an agent during a turn.
type ToolCall struct {
	ID        string         `json:"id"`
	Function  string         `json:"function"`
	Arguments map[string]any `json:"arguments"`
}

// ToolResult is the sandbox's answer to a single tool call. Sandbox-level
// failures (unknown product, insufficient stock, bad arguments) are carried
// in Error with Success=false; they are fed back to the agent, never raised.
type ToolResult struct {
	Success bool           `json:"success"`
	Payload map[string]any `json:"payload,omitempty"`
	Error   string         `json:"error,omitempty"`
}

// ToolCallRecord is the immutable log entry for one executed tool call.
type ToolCallRecord struct {
	Tool      string         `json:"tool"`
	Arguments map[string]any `json:"arguments"`
	Result    ToolResult     `json:"result"`
}
