package contract

import "context"

type AgentType string

const (
	AgentTypeRouter    AgentType = "router"
	AgentTypeStorage   AgentType = "storage"
	AgentTypeRetrieval AgentType = "retrieval"
)

type ToolRequest struct {
	Tool string         `json:"tool"`
	Args map[string]any `json:"args,omitempty"`
}

// ToolResult is what a tool call hands back to the model. Core failures are
// carried as plain text in Error so the agent can phrase them; a Go error is
// reserved for infrastructure faults.
type ToolResult struct {
	Tool   string `json:"tool"`
	Result any    `json:"result,omitempty"`
	Error  string `json:"error,omitempty"`
}

// Specialist runs one task-focused conversation turn end to end, including
// any tool calls it needs.
type Specialist interface {
	Handle(ctx context.Context, userMessage string) (string, error)
}
