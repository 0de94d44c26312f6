package orchestration

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudllm-ai/cloudllm-go/internal/memory"
	"github.com/cloudllm-ai/cloudllm-go/pkg/models"
)

// runTeams implements the decentralized AnthropicAgentTeams pool: agents
// claim and complete WorkItems via the shared Memory, parsed heuristically
// from their natural-language responses.
func (o *Orchestration) runTeams(ctx context.Context, poolID string, tasks []models.WorkItem, maxIterations int) (*OrchestrationResponse, error) {
	if o.Memory == nil {
		return nil, fmt.Errorf("orchestration: anthropic agent teams mode requires a Memory protocol")
	}
	if len(tasks) == 0 {
		score := 1.0
		return &OrchestrationResponse{Log: o.logSnapshot(), Rounds: 0, IsComplete: true, ConvergenceScore: &score}, nil
	}

	order := o.agentOrder()
	claimed := make(map[string]string, len(tasks))
	completed := make(map[string]bool, len(tasks))
	var total models.TokenUsage
	iterations := 0

	for iterations < maxIterations && len(completed) < len(tasks) {
		for _, id := range order {
			available := availableTasks(tasks, claimed, completed)
			if len(available) == 0 {
				break
			}
			o.routeTo(id)
			a, ok := o.agentByID(id)
			if !ok {
				continue
			}
			content, usage, err := a.Send(ctx, buildTeamsPrompt(poolID, available))
			if err != nil {
				o.emit(ctx, models.OrchestrationEvent{Type: models.OrchestrationEventTaskFailed, Round: iterations, AgentID: id, AgentName: a.DisplayName, Err: err})
				continue
			}
			total = total.Add(usage)
			o.appendMessage(id, a.DisplayName, content, nil)

			lower := strings.ToLower(content)
			for _, t := range available {
				if !strings.Contains(lower, strings.ToLower(t.ID)) {
					continue
				}
				if _, already := claimed[t.ID]; !already {
					claimed[t.ID] = id
					o.Memory.Execute(memory.CommandRequest{Command: fmt.Sprintf("P teams:%s:claimed:%s %s", poolID, t.ID, id)})
					o.emit(ctx, models.OrchestrationEvent{Type: models.OrchestrationEventTaskClaimed, Round: iterations, AgentID: id, AgentName: a.DisplayName, TaskID: t.ID})
				}
				if containsAny(lower, "complete", "done", "finished") && !completed[t.ID] {
					completed[t.ID] = true
					o.Memory.Execute(memory.CommandRequest{Command: fmt.Sprintf("P teams:%s:completed:%s %s", poolID, t.ID, id)})
					o.emit(ctx, models.OrchestrationEvent{Type: models.OrchestrationEventTaskCompleted, Round: iterations, AgentID: id, AgentName: a.DisplayName, TaskID: t.ID})
				}
				break
			}
		}
		iterations++
	}

	score := float64(len(completed)) / float64(len(tasks))
	return &OrchestrationResponse{
		Log:              o.logSnapshot(),
		Rounds:           iterations,
		IsComplete:       len(completed) == len(tasks),
		ConvergenceScore: &score,
		Usage:            total,
	}, nil
}

func availableTasks(tasks []models.WorkItem, claimed map[string]string, completed map[string]bool) []models.WorkItem {
	out := make([]models.WorkItem, 0, len(tasks))
	for _, t := range tasks {
		if completed[t.ID] {
			continue
		}
		if _, ok := claimed[t.ID]; ok {
			continue
		}
		out = append(out, t)
	}
	return out
}

func buildTeamsPrompt(poolID string, available []models.WorkItem) string {
	var b strings.Builder
	b.WriteString("Use the memory tool to LIST unclaimed tasks, then claim exactly one by writing:\n")
	b.WriteString(fmt.Sprintf("  P teams:%s:claimed:<task_id> <your_agent_id>\n", poolID))
	b.WriteString("Complete it and record your result with:\n")
	b.WriteString(fmt.Sprintf("  P teams:%s:completed:<task_id> <result>\n\n", poolID))
	b.WriteString("Available tasks:\n")
	for _, t := range available {
		b.WriteString(fmt.Sprintf("- %s: %s\n  Acceptance criteria: %s\n", t.ID, t.Description, t.AcceptanceCriteria))
	}
	return b.String()
}

func containsAny(s string, substrs ...string) bool {
	for _, sub := range substrs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
