package orchestration

import (
	"context"

	"github.com/cloudllm-ai/cloudllm-go/pkg/models"
)

// runRoundRobin iterates agents in insertion order each round, hub-routing
// unseen messages into each agent before sending it the same user prompt.
func (o *Orchestration) runRoundRobin(ctx context.Context, prompt string, rounds int) (*OrchestrationResponse, error) {
	var total models.TokenUsage
	order := o.agentOrder()
	executed := 0

	for round := 0; round < rounds; round++ {
		o.emit(ctx, models.OrchestrationEvent{Type: models.OrchestrationEventRoundStarted, Round: round})
		for _, id := range order {
			o.routeTo(id)
			a, ok := o.agentByID(id)
			if !ok {
				continue
			}
			o.emit(ctx, models.OrchestrationEvent{Type: models.OrchestrationEventAgentSelected, Round: round, AgentID: id, AgentName: a.DisplayName})
			content, usage, err := a.Send(ctx, prompt)
			if err != nil {
				o.emit(ctx, models.OrchestrationEvent{Type: models.OrchestrationEventAgentFailed, Round: round, AgentID: id, AgentName: a.DisplayName, Err: err})
				continue
			}
			total = total.Add(usage)
			o.appendMessage(id, a.DisplayName, content, nil)
			o.emit(ctx, models.OrchestrationEvent{Type: models.OrchestrationEventAgentResponded, Round: round, AgentID: id, AgentName: a.DisplayName})
		}
		executed++
		o.emit(ctx, models.OrchestrationEvent{Type: models.OrchestrationEventRoundCompleted, Round: round})
	}

	return &OrchestrationResponse{Log: o.logSnapshot(), Rounds: executed, IsComplete: true, Usage: total}, nil
}
