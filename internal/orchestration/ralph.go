package orchestration

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudllm-ai/cloudllm-go/pkg/models"
)

// runRalph drives agents against a shared checklist, extracting
// [TASK_COMPLETE:<id>] markers from each response until every task is
// marked done or maxIterations is reached.
func (o *Orchestration) runRalph(ctx context.Context, tasks []models.RalphTask, maxIterations int) (*OrchestrationResponse, error) {
	if len(tasks) == 0 {
		score := 1.0
		return &OrchestrationResponse{Log: o.logSnapshot(), Rounds: 0, IsComplete: true, ConvergenceScore: &score}, nil
	}

	order := o.agentOrder()
	completed := make(map[string]bool, len(tasks))
	var total models.TokenUsage
	iterations := 0

	for iterations < maxIterations && len(completed) < len(tasks) {
		o.emit(ctx, models.OrchestrationEvent{Type: models.OrchestrationEventRalphIterationStarted, Round: iterations})

		for _, id := range order {
			if len(completed) == len(tasks) {
				break
			}
			o.routeTo(id)
			a, ok := o.agentByID(id)
			if !ok {
				continue
			}
			content, usage, err := a.Send(ctx, buildChecklistPrompt(tasks, completed))
			if err != nil {
				o.emit(ctx, models.OrchestrationEvent{Type: models.OrchestrationEventAgentFailed, Round: iterations, AgentID: id, AgentName: a.DisplayName, Err: err})
				continue
			}
			total = total.Add(usage)
			o.appendMessage(id, a.DisplayName, content, nil)

			newlyCompleted := false
			for _, taskID := range extractTaskCompletions(content, tasks) {
				if !completed[taskID] {
					completed[taskID] = true
					newlyCompleted = true
				}
			}
			if newlyCompleted {
				o.emit(ctx, models.OrchestrationEvent{Type: models.OrchestrationEventRalphTaskCompleted, Round: iterations, AgentID: id, AgentName: a.DisplayName})
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

func buildChecklistPrompt(tasks []models.RalphTask, completed map[string]bool) string {
	var b strings.Builder
	b.WriteString("Checklist:\n")
	for _, t := range tasks {
		mark := " "
		if completed[t.ID] {
			mark = "x"
		}
		b.WriteString(fmt.Sprintf("[%s] %s — %s\n", mark, t.Title, t.Description))
	}
	b.WriteString("\nWork on the next incomplete task. When you finish one, embed a marker of the form [TASK_COMPLETE:<id>] in your response.")
	return b.String()
}

// extractTaskCompletions scans content for every occurrence of the literal
// marker "[TASK_COMPLETE:", taking characters up to the next "]" as the id,
// trimming whitespace, and discarding ids that don't match a known task.
func extractTaskCompletions(content string, tasks []models.RalphTask) []string {
	valid := make(map[string]bool, len(tasks))
	for _, t := range tasks {
		valid[t.ID] = true
	}

	const marker = "[TASK_COMPLETE:"
	var out []string
	rest := content
	for {
		idx := strings.Index(rest, marker)
		if idx < 0 {
			break
		}
		rest = rest[idx+len(marker):]
		end := strings.Index(rest, "]")
		if end < 0 {
			break
		}
		id := strings.TrimSpace(rest[:end])
		rest = rest[end+1:]
		if valid[id] {
			out = append(out, id)
		}
	}
	return out
}
