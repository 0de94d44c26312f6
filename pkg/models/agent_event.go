package models

import "time"

// AgentEvent is the unified event shape for the Agent tool loop: versioned
// for forward compatibility, a single Type discriminator, monotonic
// Sequence for cross-goroutine ordering, and at most one non-nil payload
// per event.
type AgentEvent struct {
	Version  int
	Type     AgentEventType
	Time     time.Time
	Sequence uint64
	AgentID  string
	GenID    string // identifies one generate() call

	Iteration int

	Text  *TextEventPayload
	LLM   *LLMEventPayload
	Tool  *ToolCallEventPayload
	Error *ErrorEventPayload
}

// AgentEventType enumerates the events an Agent's tool loop emits.
type AgentEventType string

const (
	AgentEventSendStarted              AgentEventType = "send.started"
	AgentEventSendCompleted            AgentEventType = "send.completed"
	AgentEventLLMCallStarted           AgentEventType = "llm.call_started"
	AgentEventLLMCallCompleted         AgentEventType = "llm.call_completed"
	AgentEventToolCallDetected         AgentEventType = "tool.call_detected"
	AgentEventToolExecutionCompleted   AgentEventType = "tool.execution_completed"
	AgentEventToolMaxIterationsReached AgentEventType = "tool.max_iterations_reached"
	AgentEventSystemPromptSet          AgentEventType = "agent.system_prompt_set"
	AgentEventMessageReceived          AgentEventType = "agent.message_received"
	AgentEventForked                   AgentEventType = "agent.forked"
)

// TextEventPayload carries free-form text, used by MessageReceived and
// SystemPromptSet.
type TextEventPayload struct {
	Text string
}

// LLMEventPayload describes one round-trip through the LLM Session.
type LLMEventPayload struct {
	Content string
	Usage   *TokenUsage
}

// ToolCallEventPayload describes a detected or completed tool call.
type ToolCallEventPayload struct {
	ToolName string
	Params   map[string]any
	Result   *ToolResult
}

// ErrorEventPayload standardizes error reporting on the event stream.
type ErrorEventPayload struct {
	Message string
	Err     error
}
