package orchestration

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudllm-ai/cloudllm-go/pkg/models"
)

// runModerated has a moderator agent pick an expert each round (by name, via
// a fuzzy substring match over display names) and routes the user prompt to
// that expert alone.
func (o *Orchestration) runModerated(ctx context.Context, prompt string, rounds int, moderatorID string) (*OrchestrationResponse, error) {
	moderator, ok := o.agentByID(moderatorID)
	if !ok {
		return nil, fmt.Errorf("orchestration: moderator %q not registered", moderatorID)
	}
	order := o.agentOrder()
	experts := make([]string, 0, len(order))
	for _, id := range order {
		if id != moderatorID {
			experts = append(experts, id)
		}
	}
	if len(experts) == 0 {
		return nil, fmt.Errorf("orchestration: moderated mode requires at least one non-moderator agent")
	}

	var total models.TokenUsage
	executed := 0

	for round := 0; round < rounds; round++ {
		o.emit(ctx, models.OrchestrationEvent{Type: models.OrchestrationEventRoundStarted, Round: round})

		modPrompt := buildModeratorPrompt(prompt, round, experts, o)
		o.routeTo(moderatorID)
		modReply, usage, err := moderator.Send(ctx, modPrompt)
		if err != nil {
			o.emit(ctx, models.OrchestrationEvent{Type: models.OrchestrationEventAgentFailed, Round: round, AgentID: moderatorID, AgentName: moderator.DisplayName, Err: err})
			continue
		}
		total = total.Add(usage)

		expertID := o.matchExpert(experts, modReply)
		expert, _ := o.agentByID(expertID)
		o.emit(ctx, models.OrchestrationEvent{Type: models.OrchestrationEventAgentSelected, Round: round, AgentID: expertID, AgentName: expert.DisplayName})

		o.routeTo(expertID)
		content, usage2, err := expert.Send(ctx, prompt)
		if err != nil {
			o.emit(ctx, models.OrchestrationEvent{Type: models.OrchestrationEventAgentFailed, Round: round, AgentID: expertID, AgentName: expert.DisplayName, Err: err})
			continue
		}
		total = total.Add(usage2)

		o.appendMessage(expertID, expert.DisplayName, content, map[string]any{"moderator": moderatorID, "round": round})
		o.emit(ctx, models.OrchestrationEvent{Type: models.OrchestrationEventAgentResponded, Round: round, AgentID: expertID, AgentName: expert.DisplayName})
		executed++
		o.emit(ctx, models.OrchestrationEvent{Type: models.OrchestrationEventRoundCompleted, Round: round})
	}

	return &OrchestrationResponse{Log: o.logSnapshot(), Rounds: executed, IsComplete: true, Usage: total}, nil
}

func buildModeratorPrompt(prompt string, round int, expertIDs []string, o *Orchestration) string {
	names := make([]string, 0, len(expertIDs))
	for _, id := range expertIDs {
		a, ok := o.agentByID(id)
		if ok {
			names = append(names, a.DisplayName)
		}
	}
	if round == 0 {
		return fmt.Sprintf("%s\n\nAvailable experts: %s\n\nRespond with ONLY the expert name.", prompt, strings.Join(names, ", "))
	}
	return fmt.Sprintf("%s\n\n%s\n\nAvailable experts: %s\n\nRespond with ONLY the expert name.", prompt, o.synopsis(), strings.Join(names, ", "))
}

// synopsis renders the current message log as a short "Name: content" per
// line, for the moderator's later-round prompt.
func (o *Orchestration) synopsis() string {
	var b strings.Builder
	b.WriteString("Conversation so far:")
	for _, m := range o.logSnapshot() {
		name := m.AgentName
		if name == "" {
			name = "user"
		}
		b.WriteString(fmt.Sprintf("\n%s: %s", name, m.Content))
	}
	return b.String()
}

// matchExpert case-insensitively substring-matches reply against the
// display names of expertIDs; falls back to the first expert if none match.
func (o *Orchestration) matchExpert(expertIDs []string, reply string) string {
	lower := strings.ToLower(reply)
	for _, id := range expertIDs {
		a, ok := o.agentByID(id)
		if !ok {
			continue
		}
		if a.DisplayName != "" && strings.Contains(lower, strings.ToLower(a.DisplayName)) {
			return id
		}
	}
	return expertIDs[0]
}
