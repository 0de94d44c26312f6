package orchestration

import (
	"context"
	"sync"

	"github.com/cloudllm-ai/cloudllm-go/pkg/models"
)

type agentOutcome struct {
	id, name, content string
	usage             models.TokenUsage
	err               error
}

// runParallel forks every agent each round and fans the prompt out as
// concurrent sends, never injecting hub-routed context: each round is a
// clean slate built only from the shared prompt.
func (o *Orchestration) runParallel(ctx context.Context, prompt string, rounds int) (*OrchestrationResponse, error) {
	var total models.TokenUsage
	order := o.agentOrder()

	for round := 0; round < rounds; round++ {
		o.emit(ctx, models.OrchestrationEvent{Type: models.OrchestrationEventRoundStarted, Round: round})

		results := make(chan agentOutcome, len(order))
		var wg sync.WaitGroup
		for _, id := range order {
			wg.Add(1)
			go func(id string) {
				defer wg.Done()
				base, ok := o.agentByID(id)
				if !ok {
					return
				}
				forked := base.Fork(id, base.DisplayName)
				content, usage, err := forked.Send(ctx, prompt)
				results <- agentOutcome{id: id, name: base.DisplayName, content: content, usage: usage, err: err}
			}(id)
		}
		go func() {
			wg.Wait()
			close(results)
		}()

		outcomes := make([]agentOutcome, 0, len(order))
		for out := range results {
			outcomes = append(outcomes, out)
		}

		for _, out := range outcomes {
			if out.err != nil {
				o.emit(ctx, models.OrchestrationEvent{Type: models.OrchestrationEventAgentFailed, Round: round, AgentID: out.id, AgentName: out.name, Err: out.err})
				continue
			}
			total = total.Add(out.usage)
			o.appendMessage(out.id, out.name, out.content, nil)
			o.advanceCursor(out.id)
			o.emit(ctx, models.OrchestrationEvent{Type: models.OrchestrationEventAgentResponded, Round: round, AgentID: out.id, AgentName: out.name})
		}
		o.emit(ctx, models.OrchestrationEvent{Type: models.OrchestrationEventRoundCompleted, Round: round})
	}

	return &OrchestrationResponse{Log: o.logSnapshot(), Rounds: rounds, IsComplete: true, Usage: total}, nil
}
