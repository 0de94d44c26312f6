// Package agent implements an Agent's identity, bounded session, and tool
// loop: the unit that turns a user message into a reply, detecting and
// dispatching tool calls along the way.
package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/cloudllm-ai/cloudllm-go/internal/contextstrategy"
	"github.com/cloudllm-ai/cloudllm-go/internal/events"
	"github.com/cloudllm-ai/cloudllm-go/internal/llmsession"
	"github.com/cloudllm-ai/cloudllm-go/internal/observability"
	"github.com/cloudllm-ai/cloudllm-go/internal/tools"
	"github.com/cloudllm-ai/cloudllm-go/pkg/models"
)

// DefaultMaxToolIterations is the fixed cap on tool-call round-trips within
// a single Send. An agent's metadata may only lower this, never raise it.
const DefaultMaxToolIterations = 5

// MaxToolIterationsKey is the Agent.Metadata key carrying a per-agent
// override of the tool iteration cap.
const MaxToolIterationsKey = "max_tool_iterations"

// Agent is one LLM-backed participant: an identity, a bounded Session, a
// shared tool registry handle, an event sink, and a compaction strategy.
type Agent struct {
	ID          string
	DisplayName string
	Expertise   string
	Personality string
	Metadata    map[string]any

	BasePrompt string

	Session         *llmsession.Session
	Tools           *tools.Registry
	Events          events.Handler
	ContextStrategy contextstrategy.Strategy

	// Metrics, when set, records LLM round-trip, tool execution, and
	// iteration-count metrics for every Send call. Nil disables recording.
	Metrics *observability.Metrics

	// Logger, when set, logs LLM call and tool dispatch outcomes. Nil
	// disables logging.
	Logger *observability.Logger

	seq *events.Sequencer
}

// New builds an Agent. An empty id is replaced with a generated uuid. A nil
// Tools registry is treated as an empty one (no catalog, no tool loop). A
// nil Events handler discards every event. A nil ContextStrategy defaults
// to Trim.
func New(id, displayName, basePrompt string, session *llmsession.Session, registry *tools.Registry, handler events.Handler, strategy contextstrategy.Strategy) *Agent {
	if id == "" {
		id = uuid.NewString()
	}
	if registry == nil {
		registry = tools.NewRegistry()
	}
	if handler == nil {
		handler = events.NopHandler{}
	}
	if strategy == nil {
		strategy = contextstrategy.Trim{}
	}
	return &Agent{
		ID:              id,
		DisplayName:     displayName,
		BasePrompt:      basePrompt,
		Session:         session,
		Tools:           registry,
		Events:          handler,
		ContextStrategy: strategy,
		seq:             &events.Sequencer{},
	}
}

func (a *Agent) maxToolIterations() int {
	if a.Metadata != nil {
		if raw, ok := a.Metadata[MaxToolIterationsKey]; ok {
			if n, ok := raw.(int); ok && n > 0 && n < DefaultMaxToolIterations {
				return n
			}
		}
	}
	return DefaultMaxToolIterations
}

func (a *Agent) emit(eventType models.AgentEventType, genID string, iteration int, text *models.TextEventPayload, llm *models.LLMEventPayload, tool *models.ToolCallEventPayload, errPayload *models.ErrorEventPayload) {
	a.Events.HandleAgentEvent(models.AgentEvent{
		Version:   1,
		Type:      eventType,
		Time:      time.Now(),
		Sequence:  a.seq.Next(),
		AgentID:   a.ID,
		GenID:     genID,
		Iteration: iteration,
		Text:      text,
		LLM:       llm,
		Tool:      tool,
		Error:     errPayload,
	})
}

// Send runs one full tool loop: it sends userMessage, and while the model's
// replies contain a tool call, dispatches it and feeds the result back,
// until the model answers without one, or the iteration cap is hit.
func (a *Agent) Send(ctx context.Context, userMessage string) (string, models.TokenUsage, error) {
	ctx = observability.AddAgentID(ctx, a.ID)
	genID := uuid.NewString()
	a.emit(models.AgentEventSendStarted, genID, 0, &models.TextEventPayload{Text: userMessage}, nil, nil, nil)

	catalog := a.Tools.ListTools()
	prompt := effectiveSystemPrompt(a.DisplayName, a.Expertise, a.Personality, a.BasePrompt, catalog)
	a.Session.SetSystemMessage(prompt)
	a.emit(models.AgentEventSystemPromptSet, genID, 0, &models.TextEventPayload{Text: prompt}, nil, nil, nil)

	var total models.TokenUsage
	maxIterations := a.maxToolIterations()

	role := models.RoleUser
	message := userMessage
	toolCalls := 0

	model := a.Session.Client().ModelName()

	for iteration := 0; ; iteration++ {
		a.emit(models.AgentEventLLMCallStarted, genID, iteration, nil, nil, nil, nil)
		llmStart := time.Now()
		content, usage, err := a.Session.SendMessage(ctx, role, message, nil, nil)
		llmDuration := time.Since(llmStart).Seconds()
		if err != nil {
			a.emit(models.AgentEventSendCompleted, genID, iteration, nil, nil, nil, &models.ErrorEventPayload{Message: err.Error(), Err: err})
			if a.Metrics != nil {
				a.Metrics.RecordLLMRequest(a.ID, model, "error", llmDuration, 0, 0)
				a.Metrics.RecordError("agent", "llm_call_failed")
			}
			if a.Logger != nil {
				a.Logger.Error(ctx, "llm call failed", "agent_id", a.ID, "iteration", iteration, "error", err.Error())
			}
			return "", total, err
		}
		inputTokens, outputTokens := 0, 0
		if usage != nil {
			total = total.Add(*usage)
			inputTokens, outputTokens = usage.InputTokens, usage.OutputTokens
		}
		if a.Metrics != nil {
			a.Metrics.RecordLLMRequest(a.ID, model, "success", llmDuration, inputTokens, outputTokens)
		}
		a.emit(models.AgentEventLLMCallCompleted, genID, iteration, nil, &models.LLMEventPayload{Content: content, Usage: usage}, nil, nil)

		name, params, ok := detectToolCall(content)
		if !ok {
			if a.Logger != nil {
				a.Logger.Info(ctx, "agent responded", "agent_id", a.ID, "iteration", iteration)
			}
			if a.Metrics != nil {
				a.Metrics.RecordToolIterations(a.ID, toolCalls)
			}
			a.emit(models.AgentEventSendCompleted, genID, iteration, &models.TextEventPayload{Text: content}, nil, nil, nil)
			return content, total, nil
		}

		a.emit(models.AgentEventToolCallDetected, genID, iteration, nil, nil, &models.ToolCallEventPayload{ToolName: name, Params: params}, nil)

		if toolCalls >= maxIterations {
			if a.Metrics != nil {
				a.Metrics.RecordToolIterations(a.ID, toolCalls)
			}
			a.emit(models.AgentEventToolMaxIterationsReached, genID, iteration, nil, nil, &models.ToolCallEventPayload{ToolName: name, Params: params}, nil)
			warned := content + "\n[Warning: Maximum tool iterations reached]"
			a.emit(models.AgentEventSendCompleted, genID, iteration, &models.TextEventPayload{Text: warned}, nil, nil, nil)
			return warned, total, nil
		}
		toolCalls++

		if a.Logger != nil {
			a.Logger.Info(ctx, "dispatching tool call", "agent_id", a.ID, "tool_name", name, "iteration", iteration)
		}
		toolStart := time.Now()
		result, toolErr := a.Tools.ExecuteTool(ctx, name, params)
		toolDuration := time.Since(toolStart).Seconds()
		toolStatus := "success"
		if toolErr != nil || !result.Success {
			toolStatus = "error"
		}
		if a.Metrics != nil {
			a.Metrics.RecordToolExecution(name, toolStatus, toolDuration)
			if toolStatus == "error" {
				a.Metrics.RecordError("tool", "execution_failed")
			}
		}
		if toolErr != nil && a.Logger != nil {
			a.Logger.Error(ctx, "tool execution failed", "agent_id", a.ID, "tool_name", name, "error", toolErr.Error())
		}
		a.emit(models.AgentEventToolExecutionCompleted, genID, iteration, nil, nil, &models.ToolCallEventPayload{ToolName: name, Params: params, Result: &result}, nil)

		message = toolResultMessage(name, result, toolErr)
		role = models.RoleUser
	}
}

func toolResultMessage(name string, result models.ToolResult, toolErr error) string {
	if toolErr != nil {
		return fmt.Sprintf("Tool '%s' failed. Error: %s", name, toolErr.Error())
	}
	if !result.Success {
		return fmt.Sprintf("Tool '%s' failed. Error: %s", name, result.Error)
	}
	output, err := json.Marshal(result.Output)
	if err != nil {
		output = []byte(fmt.Sprint(result.Output))
	}
	return fmt.Sprintf("Tool '%s' executed successfully. Result: %s", name, string(output))
}

// Fork builds a new Agent sharing this one's tool registry and event
// handler, with a fresh empty Session against the same client and token
// budget, and a no-op context strategy — the primitive Parallel and
// Hierarchical orchestration modes use for per-round fan-out so agents
// never race on one Session.
func (a *Agent) Fork(id, displayName string) *Agent {
	forkedSession := llmsession.New(a.Session.Client(), "", a.Session.MaxTokens())
	forked := &Agent{
		ID:              id,
		DisplayName:     displayName,
		Expertise:       a.Expertise,
		Personality:     a.Personality,
		Metadata:        a.Metadata,
		BasePrompt:      a.BasePrompt,
		Session:         forkedSession,
		Tools:           a.Tools,
		Events:          a.Events,
		ContextStrategy: contextstrategy.NoOp{},
		Metrics:         a.Metrics,
		Logger:          a.Logger,
		seq:             a.seq,
	}
	forked.emit(models.AgentEventForked, "", 0, &models.TextEventPayload{Text: a.ID}, nil, nil, nil)
	return forked
}
