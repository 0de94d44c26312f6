// Package orchestration implements the orchestration engine: the ordered
// set of agents, the shared message log, and the six dispatch modes that
// sequence them.
package orchestration

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/cloudllm-ai/cloudllm-go/internal/agent"
	"github.com/cloudllm-ai/cloudllm-go/internal/events"
	"github.com/cloudllm-ai/cloudllm-go/internal/memory"
	"github.com/cloudllm-ai/cloudllm-go/internal/observability"
	"github.com/cloudllm-ai/cloudllm-go/pkg/models"
)

// Mode selects one of the six dispatch algorithms.
type Mode string

const (
	ModeParallel            Mode = "parallel"
	ModeRoundRobin          Mode = "round_robin"
	ModeModerated           Mode = "moderated"
	ModeHierarchical        Mode = "hierarchical"
	ModeDebate              Mode = "debate"
	ModeRalph               Mode = "ralph"
	ModeAnthropicAgentTeams Mode = "anthropic_agent_teams"
)

// DefaultConvergenceThreshold is the Debate mode's default early-stop
// threshold on average round-over-round Jaccard similarity.
const DefaultConvergenceThreshold = 0.75

// Orchestration holds an ordered list of agents, a global message log, a
// per-agent hub-routing cursor, and dispatches runs according to Mode.
type Orchestration struct {
	mu sync.Mutex

	order   []string
	agents  map[string]*agent.Agent
	log     []models.OrchestrationMessage
	cursors map[string]int

	Mode            Mode
	SystemContext   string
	TokenBudgetHint int

	Events events.Handler

	// Memory is the coordination substrate for AnthropicAgentTeams. Nil for
	// every other mode.
	Memory *memory.Protocol

	// Metrics, when set, records round/run counters and the active-agent
	// gauge for this orchestration. Nil disables recording.
	Metrics *observability.Metrics

	// Logger, when set, logs run/round/agent-outcome events as they're
	// emitted. Nil disables logging.
	Logger *observability.Logger
}

// New builds an empty Orchestration in the given mode. A nil handler
// discards every event.
func New(mode Mode, handler events.Handler) *Orchestration {
	if handler == nil {
		handler = events.NopHandler{}
	}
	return &Orchestration{
		agents:  make(map[string]*agent.Agent),
		cursors: make(map[string]int),
		Mode:    mode,
		Events:  handler,
	}
}

// AddAgent registers a, propagating the orchestration's event handler to it
// so its AgentEvents flow through the same callback. Re-adding an existing
// id is an error.
func (o *Orchestration) AddAgent(a *agent.Agent) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if _, exists := o.agents[a.ID]; exists {
		return fmt.Errorf("orchestration: agent %q already registered", a.ID)
	}
	if o.Events != nil {
		a.Events = o.Events
	}
	o.agents[a.ID] = a
	o.order = append(o.order, a.ID)
	o.cursors[a.ID] = 0
	if o.Metrics != nil {
		o.Metrics.SetActiveAgents(string(o.Mode), len(o.order))
	}
	return nil
}

func (o *Orchestration) agentByID(id string) (*agent.Agent, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	a, ok := o.agents[id]
	return a, ok
}

func (o *Orchestration) agentOrder() []string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]string(nil), o.order...)
}

// OrchestrationResponse is the outcome of a Run: the log (or the slice
// produced by the run), how many rounds/iterations actually executed, a
// completeness flag, an optional mode-specific convergence score, and the
// summed token usage across every agent invocation.
type OrchestrationResponse struct {
	RunID            string
	Log              []models.OrchestrationMessage
	Rounds           int
	IsComplete       bool
	ConvergenceScore *float64
	Usage            models.TokenUsage
}

// RunOptions carries the mode-specific parameters a Run needs beyond the
// common prompt/rounds pair.
type RunOptions struct {
	ModeratorID          string
	Layers               [][]string
	MaxRounds            int
	ConvergenceThreshold float64
	Tasks                []models.RalphTask
	MaxIterations        int
	PoolID               string
	WorkItems            []models.WorkItem
}

// Run appends prompt to the log and dispatches by Mode. rounds is used by
// Parallel, RoundRobin, and Moderated; the other modes read their own
// iteration bound from opts.
func (o *Orchestration) Run(ctx context.Context, prompt string, rounds int, opts RunOptions) (*OrchestrationResponse, error) {
	if len(o.agentOrder()) == 0 {
		return nil, fmt.Errorf("orchestration: no agents registered")
	}
	runID := uuid.NewString()
	ctx = observability.AddRunID(ctx, runID)
	ctx = observability.AddMode(ctx, string(o.Mode))

	o.appendMessage("", "user", prompt, nil)
	o.emit(ctx, models.OrchestrationEvent{Type: models.OrchestrationEventRunStarted})
	start := time.Now()

	var resp *OrchestrationResponse
	var err error
	switch o.Mode {
	case ModeParallel:
		resp, err = o.runParallel(ctx, prompt, rounds)
	case ModeRoundRobin:
		resp, err = o.runRoundRobin(ctx, prompt, rounds)
	case ModeModerated:
		resp, err = o.runModerated(ctx, prompt, rounds, opts.ModeratorID)
	case ModeHierarchical:
		resp, err = o.runHierarchical(ctx, prompt, opts.Layers)
	case ModeDebate:
		resp, err = o.runDebate(ctx, prompt, opts.MaxRounds, opts.ConvergenceThreshold)
	case ModeRalph:
		resp, err = o.runRalph(ctx, opts.Tasks, opts.MaxIterations)
	case ModeAnthropicAgentTeams:
		resp, err = o.runTeams(ctx, opts.PoolID, opts.WorkItems, opts.MaxIterations)
	default:
		return nil, fmt.Errorf("orchestration: unknown mode %q", o.Mode)
	}
	if err != nil {
		return nil, err
	}
	resp.RunID = runID
	o.emit(ctx, models.OrchestrationEvent{Type: models.OrchestrationEventRunCompleted, Round: resp.Rounds})
	if o.Metrics != nil {
		o.Metrics.RecordOrchestrationRound(string(o.Mode), time.Since(start).Seconds())
		o.Metrics.RecordOrchestrationRun(string(o.Mode), resp.IsComplete, resp.ConvergenceScore)
	}
	return resp, nil
}

func (o *Orchestration) emit(ctx context.Context, ev models.OrchestrationEvent) {
	ev.Time = time.Now()
	o.Events.HandleOrchestrationEvent(ev)
	o.log(ctx, ev)
}

// log writes a line for the event types a careful operator would want to
// see in a running log: round boundaries and per-agent outcomes. Nothing
// else flows through here; the full event stream is Events' job.
func (o *Orchestration) log(ctx context.Context, ev models.OrchestrationEvent) {
	if o.Logger == nil {
		return
	}
	switch ev.Type {
	case models.OrchestrationEventRunStarted:
		o.Logger.Info(ctx, "orchestration run started", "mode", string(o.Mode))
	case models.OrchestrationEventRoundStarted:
		o.Logger.Info(ctx, "orchestration round started", "mode", string(o.Mode), "round", ev.Round)
	case models.OrchestrationEventAgentResponded:
		o.Logger.Info(ctx, "agent responded", "agent_id", ev.AgentID, "round", ev.Round)
	case models.OrchestrationEventAgentFailed:
		msg := ""
		if ev.Err != nil {
			msg = ev.Err.Error()
		}
		o.Logger.Error(ctx, "agent failed", "agent_id", ev.AgentID, "round", ev.Round, "error", msg)
	case models.OrchestrationEventRunCompleted:
		o.Logger.Info(ctx, "orchestration run completed", "mode", string(o.Mode), "rounds", ev.Round)
	}
}

// appendMessage appends an OrchestrationMessage to the log and returns it.
func (o *Orchestration) appendMessage(agentID, agentName, content string, metadata map[string]any) models.OrchestrationMessage {
	o.mu.Lock()
	defer o.mu.Unlock()
	msg := models.OrchestrationMessage{
		Timestamp: time.Now(),
		AgentID:   agentID,
		AgentName: agentName,
		Role:      models.RoleAssistant,
		Content:   content,
		Metadata:  metadata,
	}
	if agentID == "" {
		msg.Role = models.RoleUser
	}
	o.log = append(o.log, msg)
	return msg
}

func (o *Orchestration) logSnapshot() []models.OrchestrationMessage {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]models.OrchestrationMessage(nil), o.log...)
}

func (o *Orchestration) logLen() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.log)
}

// advanceCursor sets id's cursor to the current log length without
// injecting anything, used by modes that only need "seen" bookkeeping.
func (o *Orchestration) advanceCursor(id string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.cursors[id] = len(o.log)
}

// routeTo implements the hub-routing invariant: every log message with
// index >= id's cursor and a different author is injected into id's session
// as a labelled user message, then id's cursor advances to the log's
// current length.
func (o *Orchestration) routeTo(id string) {
	o.mu.Lock()
	cursor := o.cursors[id]
	var pending []models.OrchestrationMessage
	for i := cursor; i < len(o.log); i++ {
		if o.log[i].AgentID != id {
			pending = append(pending, o.log[i])
		}
	}
	o.cursors[id] = len(o.log)
	a := o.agents[id]
	o.mu.Unlock()

	for _, m := range pending {
		name := m.AgentName
		if name == "" {
			name = "user"
		}
		a.Session.InjectMessage(models.RoleUser, fmt.Sprintf("[%s]: %s", name, m.Content))
	}
}
