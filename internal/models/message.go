package models

// Message roles as they appear in a conversation transcript.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleTool      = "tool"
)

// Message is one entry in a conversation transcript.
type Message struct {
	Role       string     `json:"role"`
	Content    string     `json:"content"`
	ToolCalls  []ToolCall `json:"tool_calls,omitempty"`
	ToolCallID string     `json:"tool_call_id,omitempty"`
	Name       string     `json:"name,omitempty"`
}

// CountTurns returns the number of user and assistant messages in a
// transcript. Tool and system messages do not count as turns.
func CountTurns(transcript []Message) int {
	n := 0
	for _, m := range transcript {
		if m.Role == RoleUser || m.Role == RoleAssistant {
			n++
		}
	}
	return n
}

// TranscriptText concatenates the content of every message that has any,
// separated by single spaces. Used by keyword-based evaluators.
func TranscriptText(transcript []Message) string {
	var b []byte
	for _, m := range transcript {
		if m.Content == "" {
			continue
		}
		if len(b) > 0 {
			b = append(b, ' ')
		}
		b = append(b, m.Content...)
	}
	return string(b)
}
