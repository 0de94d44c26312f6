// Package events implements a fire-and-forget sink for the three event
// families (Agent, Orchestration, Mcp). Handlers cannot abort the
// operation they observe by erroring; the interface has no return value
// for exactly that reason.
package events

import "github.com/cloudllm-ai/cloudllm-go/pkg/models"

// Handler receives events from the Agent tool loop, the Orchestration
// engine, and the tool-protocol layer. Implementations must be safe for
// concurrent use and must not block the caller for long: a slow handler
// slows down whichever component is emitting.
type Handler interface {
	HandleAgentEvent(models.AgentEvent)
	HandleOrchestrationEvent(models.OrchestrationEvent)
	HandleMcpEvent(models.McpEvent)
}

// NopHandler discards every event. It is the default when a caller doesn't
// care about observability.
type NopHandler struct{}

func (NopHandler) HandleAgentEvent(models.AgentEvent)                 {}
func (NopHandler) HandleOrchestrationEvent(models.OrchestrationEvent) {}
func (NopHandler) HandleMcpEvent(models.McpEvent)                     {}

// MultiHandler fans a single event out to every wrapped Handler in order.
type MultiHandler struct {
	handlers []Handler
}

// NewMultiHandler wraps handlers for fan-out delivery.
func NewMultiHandler(handlers ...Handler) *MultiHandler {
	return &MultiHandler{handlers: handlers}
}

func (m *MultiHandler) HandleAgentEvent(e models.AgentEvent) {
	for _, h := range m.handlers {
		h.HandleAgentEvent(e)
	}
}

func (m *MultiHandler) HandleOrchestrationEvent(e models.OrchestrationEvent) {
	for _, h := range m.handlers {
		h.HandleOrchestrationEvent(e)
	}
}

func (m *MultiHandler) HandleMcpEvent(e models.McpEvent) {
	for _, h := range m.handlers {
		h.HandleMcpEvent(e)
	}
}

// CallbackHandler adapts plain function values to Handler, for callers who
// only want to react to one or two event families.
type CallbackHandler struct {
	OnAgent         func(models.AgentEvent)
	OnOrchestration func(models.OrchestrationEvent)
	OnMcp           func(models.McpEvent)
}

func (c CallbackHandler) HandleAgentEvent(e models.AgentEvent) {
	if c.OnAgent != nil {
		c.OnAgent(e)
	}
}

func (c CallbackHandler) HandleOrchestrationEvent(e models.OrchestrationEvent) {
	if c.OnOrchestration != nil {
		c.OnOrchestration(e)
	}
}

func (c CallbackHandler) HandleMcpEvent(e models.McpEvent) {
	if c.OnMcp != nil {
		c.OnMcp(e)
	}
}
