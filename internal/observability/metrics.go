package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides a centralized interface for collecting runtime metrics.
//
// The metrics system is built on Prometheus and tracks:
//   - LLM round-trip performance and token consumption per agent
//   - Tool execution patterns and latencies
//   - Orchestration round/iteration throughput and convergence
//   - Memory Store size for capacity planning
//
// Usage:
//
//	metrics := observability.NewMetrics()
//	defer metrics.LLMRequestDuration("assistant", "gpt-5").Observe(time.Since(start).Seconds())
type Metrics struct {
	// LLMRequestDuration measures LLM round-trip latency in seconds.
	// Labels: agent_id, model
	LLMRequestDuration *prometheus.HistogramVec

	// LLMRequestCounter counts LLM round-trips by agent and status.
	// Labels: agent_id, model, status (success|error)
	LLMRequestCounter *prometheus.CounterVec

	// LLMTokensUsed tracks token consumption.
	// Labels: agent_id, model, type (input|output)
	LLMTokensUsed *prometheus.CounterVec

	// ToolExecutionCounter counts tool invocations.
	// Labels: tool_name, status (success|error)
	ToolExecutionCounter *prometheus.CounterVec

	// ToolExecutionDuration measures tool execution time in seconds.
	// Labels: tool_name
	// Buckets: 0.01s, 0.05s, 0.1s, 0.5s, 1s, 5s, 10s, 30s, 60s
	ToolExecutionDuration *prometheus.HistogramVec

	// ToolIterationsPerSend records how many tool round-trips a single
	// Agent.Send call needed before returning a final answer.
	ToolIterationsPerSend *prometheus.HistogramVec

	// ErrorCounter tracks errors by component and error type.
	// Labels: component (agent|tool|orchestration|memory), error_type
	ErrorCounter *prometheus.CounterVec

	// OrchestrationRoundDuration measures wall-clock time per round/iteration.
	// Labels: mode
	OrchestrationRoundDuration *prometheus.HistogramVec

	// OrchestrationRunsTotal counts completed orchestration runs by mode and
	// completeness.
	// Labels: mode, completed (true|false)
	OrchestrationRunsTotal *prometheus.CounterVec

	// OrchestrationConvergenceScore records the final convergence score of
	// runs that produce one (Debate, Ralph, AnthropicAgentTeams).
	// Labels: mode
	OrchestrationConvergenceScore *prometheus.HistogramVec

	// ActiveAgents is a gauge tracking currently registered agents per
	// orchestration mode.
	// Labels: mode
	ActiveAgents *prometheus.GaugeVec

	// MemoryStoreSize is a gauge tracking the current key count held by the
	// Memory Store.
	MemoryStoreSize prometheus.Gauge

	// MemorySweepExpired counts entries reaped by the background sweep.
	MemorySweepExpired prometheus.Counter
}

// NewMetrics creates and registers all Prometheus metrics. This should be
// called once at application startup; all metrics register with
// Prometheus's default registry.
func NewMetrics() *Metrics {
	return &Metrics{
		LLMRequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "orchestration_llm_request_duration_seconds",
				Help:    "Duration of LLM round-trips in seconds",
				Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60},
			},
			[]string{"agent_id", "model"},
		),

		LLMRequestCounter: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "orchestration_llm_requests_total",
				Help: "Total number of LLM round-trips by agent, model, and status",
			},
			[]string{"agent_id", "model", "status"},
		),

		LLMTokensUsed: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "orchestration_llm_tokens_total",
				Help: "Total number of tokens used by agent, model, and type",
			},
			[]string{"agent_id", "model", "type"},
		),

		ToolExecutionCounter: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "orchestration_tool_executions_total",
				Help: "Total number of tool executions by tool name and status",
			},
			[]string{"tool_name", "status"},
		),

		ToolExecutionDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "orchestration_tool_execution_duration_seconds",
				Help:    "Duration of tool executions in seconds",
				Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30, 60},
			},
			[]string{"tool_name"},
		),

		ToolIterationsPerSend: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "orchestration_tool_iterations_per_send",
				Help:    "Number of tool round-trips within a single Agent.Send call",
				Buckets: []float64{0, 1, 2, 3, 4, 5},
			},
			[]string{"agent_id"},
		),

		ErrorCounter: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "orchestration_errors_total",
				Help: "Total number of errors by component and error type",
			},
			[]string{"component", "error_type"},
		),

		OrchestrationRoundDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "orchestration_round_duration_seconds",
				Help:    "Duration of a single orchestration round or iteration",
				Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120},
			},
			[]string{"mode"},
		),

		OrchestrationRunsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "orchestration_runs_total",
				Help: "Total number of orchestration runs by mode and completeness",
			},
			[]string{"mode", "completed"},
		),

		OrchestrationConvergenceScore: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "orchestration_convergence_score",
				Help:    "Final convergence score of runs that produce one",
				Buckets: []float64{0, 0.25, 0.5, 0.75, 0.9, 1},
			},
			[]string{"mode"},
		),

		ActiveAgents: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "orchestration_active_agents",
				Help: "Current number of registered agents by orchestration mode",
			},
			[]string{"mode"},
		),

		MemoryStoreSize: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "orchestration_memory_store_keys",
				Help: "Current number of live keys in the Memory Store",
			},
		),

		MemorySweepExpired: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "orchestration_memory_sweep_expired_total",
				Help: "Total number of entries reaped by the Memory Store's background sweep",
			},
		),
	}
}

// RecordLLMRequest records metrics for an LLM round-trip.
func (m *Metrics) RecordLLMRequest(agentID, model, status string, durationSeconds float64, inputTokens, outputTokens int) {
	m.LLMRequestCounter.WithLabelValues(agentID, model, status).Inc()
	m.LLMRequestDuration.WithLabelValues(agentID, model).Observe(durationSeconds)
	if inputTokens > 0 {
		m.LLMTokensUsed.WithLabelValues(agentID, model, "input").Add(float64(inputTokens))
	}
	if outputTokens > 0 {
		m.LLMTokensUsed.WithLabelValues(agentID, model, "output").Add(float64(outputTokens))
	}
}

// RecordToolExecution records metrics for a tool execution.
func (m *Metrics) RecordToolExecution(toolName, status string, durationSeconds float64) {
	m.ToolExecutionCounter.WithLabelValues(toolName, status).Inc()
	m.ToolExecutionDuration.WithLabelValues(toolName).Observe(durationSeconds)
}

// RecordToolIterations records how many tool round-trips a Send call took.
func (m *Metrics) RecordToolIterations(agentID string, iterations int) {
	m.ToolIterationsPerSend.WithLabelValues(agentID).Observe(float64(iterations))
}

// RecordError increments the error counter for a given component and error type.
func (m *Metrics) RecordError(component, errorType string) {
	m.ErrorCounter.WithLabelValues(component, errorType).Inc()
}

// RecordOrchestrationRound records a completed round/iteration's duration.
func (m *Metrics) RecordOrchestrationRound(mode string, durationSeconds float64) {
	m.OrchestrationRoundDuration.WithLabelValues(mode).Observe(durationSeconds)
}

// RecordOrchestrationRun records a completed run's mode and completeness,
// and its convergence score when one was produced.
func (m *Metrics) RecordOrchestrationRun(mode string, completed bool, convergenceScore *float64) {
	completedLabel := "false"
	if completed {
		completedLabel = "true"
	}
	m.OrchestrationRunsTotal.WithLabelValues(mode, completedLabel).Inc()
	if convergenceScore != nil {
		m.OrchestrationConvergenceScore.WithLabelValues(mode).Observe(*convergenceScore)
	}
}

// SetActiveAgents sets the current agent count for a mode.
func (m *Metrics) SetActiveAgents(mode string, count int) {
	m.ActiveAgents.WithLabelValues(mode).Set(float64(count))
}

// SetMemoryStoreSize sets the current Memory Store key count.
func (m *Metrics) SetMemoryStoreSize(keys int) {
	m.MemoryStoreSize.Set(float64(keys))
}

// RecordMemorySweepExpired increments the count of entries reaped by a
// background sweep pass.
func (m *Metrics) RecordMemorySweepExpired(count int) {
	m.MemorySweepExpired.Add(float64(count))
}
