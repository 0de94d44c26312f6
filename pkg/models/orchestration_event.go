package models

import "time"

// OrchestrationEventType enumerates the events an orchestration run emits.
type OrchestrationEventType string

const (
	OrchestrationEventRunStarted            OrchestrationEventType = "orch.run_started"
	OrchestrationEventRunCompleted          OrchestrationEventType = "orch.run_completed"
	OrchestrationEventRoundStarted          OrchestrationEventType = "orch.round_started"
	OrchestrationEventRoundCompleted        OrchestrationEventType = "orch.round_completed"
	OrchestrationEventAgentSelected         OrchestrationEventType = "orch.agent_selected"
	OrchestrationEventAgentResponded        OrchestrationEventType = "orch.agent_responded"
	OrchestrationEventAgentFailed           OrchestrationEventType = "orch.agent_failed"
	OrchestrationEventConvergenceChecked    OrchestrationEventType = "orch.convergence_checked"
	OrchestrationEventRalphIterationStarted OrchestrationEventType = "orch.ralph_iteration_started"
	OrchestrationEventRalphTaskCompleted    OrchestrationEventType = "orch.ralph_task_completed"
	OrchestrationEventTaskClaimed           OrchestrationEventType = "orch.task_claimed"
	OrchestrationEventTaskCompleted         OrchestrationEventType = "orch.task_completed"
	OrchestrationEventTaskFailed            OrchestrationEventType = "orch.task_failed"
)

// OrchestrationEvent is the unified event shape for the orchestration
// engine.
type OrchestrationEvent struct {
	Type      OrchestrationEventType
	Time      time.Time
	Round     int
	AgentID   string
	AgentName string
	TaskID    string
	Score     float64
	Err       error
}

// McpEvent is the unified event shape for remote tool-protocol transports.
type McpEvent struct {
	Type       McpEventType
	Time       time.Time
	ToolName   string
	ServerName string
	CacheHit   bool
	Err        error
}

// McpEventType enumerates remote tool-transport events.
type McpEventType string

const (
	McpEventServerStarted            McpEventType = "mcp.server_started"
	McpEventToolListRequested        McpEventType = "mcp.tool_list_requested"
	McpEventToolListReturned         McpEventType = "mcp.tool_list_returned"
	McpEventToolCallReceived         McpEventType = "mcp.tool_call_received"
	McpEventToolCallCompleted        McpEventType = "mcp.tool_call_completed"
	McpEventRemoteToolCallStarted    McpEventType = "mcp.remote_tool_call_started"
	McpEventRemoteToolCallCompleted  McpEventType = "mcp.remote_tool_call_completed"
	McpEventConnectionInitialized    McpEventType = "mcp.connection_initialized"
	McpEventConnectionClosed         McpEventType = "mcp.connection_closed"
	McpEventCacheHit                 McpEventType = "mcp.cache_hit"
	McpEventCacheExpired             McpEventType = "mcp.cache_expired"
	McpEventToolsDiscovered          McpEventType = "mcp.tools_discovered"
	McpEventToolError                McpEventType = "mcp.tool_error"
	McpEventRequestRejected          McpEventType = "mcp.request_rejected"
)
