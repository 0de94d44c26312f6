package orchestration

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/cloudllm-ai/cloudllm-go/pkg/models"
)

// runHierarchical runs each layer in parallel (like Parallel), feeding the
// prior layer's synthesized output forward as the next layer's input.
func (o *Orchestration) runHierarchical(ctx context.Context, prompt string, layers [][]string) (*OrchestrationResponse, error) {
	if len(layers) == 0 {
		return nil, fmt.Errorf("orchestration: hierarchical mode requires at least one layer")
	}

	var total models.TokenUsage
	input := prompt

	for i, layer := range layers {
		o.emit(ctx, models.OrchestrationEvent{Type: models.OrchestrationEventRoundStarted, Round: i})

		outcomes := make([]agentOutcome, len(layer))
		var wg sync.WaitGroup
		for j, id := range layer {
			wg.Add(1)
			go func(j int, id string) {
				defer wg.Done()
				base, ok := o.agentByID(id)
				if !ok {
					outcomes[j] = agentOutcome{id: id, err: fmt.Errorf("agent %q not registered", id)}
					return
				}
				forked := base.Fork(id, base.DisplayName)
				content, usage, err := forked.Send(ctx, input)
				outcomes[j] = agentOutcome{id: id, name: base.DisplayName, content: content, usage: usage, err: err}
			}(j, id)
		}
		wg.Wait()

		var b strings.Builder
		b.WriteString(fmt.Sprintf("Original task: %s\n\nLayer %d results:\n", prompt, i))
		for _, out := range outcomes {
			if out.err != nil {
				o.emit(ctx, models.OrchestrationEvent{Type: models.OrchestrationEventAgentFailed, Round: i, AgentID: out.id, AgentName: out.name, Err: out.err})
				continue
			}
			total = total.Add(out.usage)
			o.appendMessage(out.id, out.name, out.content, map[string]any{"layer": i})
			o.advanceCursor(out.id)
			o.emit(ctx, models.OrchestrationEvent{Type: models.OrchestrationEventAgentResponded, Round: i, AgentID: out.id, AgentName: out.name})
			b.WriteString(fmt.Sprintf("%s: %s\n\n", out.name, out.content))
		}
		input = b.String()
		o.emit(ctx, models.OrchestrationEvent{Type: models.OrchestrationEventRoundCompleted, Round: i})
	}

	return &OrchestrationResponse{Log: o.logSnapshot(), Rounds: len(layers), IsComplete: true, Usage: total}, nil
}
