package orchestration

import (
	"context"
	"strings"
	"unicode"

	"github.com/cloudllm-ai/cloudllm-go/pkg/models"
)

// runDebate repeats RoundRobin-style hub-routed turns up to maxRounds,
// checking convergence from round 2 onward via average Jaccard similarity
// between each round's responses and the previous round's, paired by
// insertion order.
func (o *Orchestration) runDebate(ctx context.Context, prompt string, maxRounds int, threshold float64) (*OrchestrationResponse, error) {
	if threshold <= 0 {
		threshold = DefaultConvergenceThreshold
	}
	order := o.agentOrder()

	var total models.TokenUsage
	var prevRound, currRound []models.OrchestrationMessage
	var score *float64
	complete := false
	executed := 0

	for round := 0; round < maxRounds; round++ {
		o.emit(ctx, models.OrchestrationEvent{Type: models.OrchestrationEventRoundStarted, Round: round})

		currRound = currRound[:0]
		for _, id := range order {
			o.routeTo(id)
			a, ok := o.agentByID(id)
			if !ok {
				continue
			}
			content, usage, err := a.Send(ctx, prompt)
			if err != nil {
				o.emit(ctx, models.OrchestrationEvent{Type: models.OrchestrationEventAgentFailed, Round: round, AgentID: id, AgentName: a.DisplayName, Err: err})
				continue
			}
			total = total.Add(usage)
			msg := o.appendMessage(id, a.DisplayName, content, nil)
			currRound = append(currRound, msg)
			o.emit(ctx, models.OrchestrationEvent{Type: models.OrchestrationEventAgentResponded, Round: round, AgentID: id, AgentName: a.DisplayName})
		}
		executed++
		o.emit(ctx, models.OrchestrationEvent{Type: models.OrchestrationEventRoundCompleted, Round: round})

		if round >= 1 {
			avg := averageJaccard(prevRound, currRound)
			score = &avg
			o.emit(ctx, models.OrchestrationEvent{Type: models.OrchestrationEventConvergenceChecked, Round: round, Score: avg})
			if avg >= threshold {
				complete = true
				prevRound = append([]models.OrchestrationMessage(nil), currRound...)
				break
			}
		}
		prevRound = append([]models.OrchestrationMessage(nil), currRound...)
	}

	isComplete := complete || executed >= maxRounds
	return &OrchestrationResponse{Log: o.logSnapshot(), Rounds: executed, IsComplete: isComplete, ConvergenceScore: score, Usage: total}, nil
}

// averageJaccard pairs prev[i] with curr[i] by insertion order and averages
// their word-set Jaccard similarity, over the shorter of the two slices.
func averageJaccard(prev, curr []models.OrchestrationMessage) float64 {
	n := len(prev)
	if len(curr) < n {
		n = len(curr)
	}
	if n == 0 {
		return 0
	}
	var sum float64
	for i := 0; i < n; i++ {
		sum += jaccard(wordSet(prev[i].Content), wordSet(curr[i].Content))
	}
	return sum / float64(n)
}

func wordSet(s string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, w := range strings.Fields(strings.ToLower(s)) {
		cleaned := stripNonAlnum(w)
		if len(cleaned) > 2 {
			set[cleaned] = struct{}{}
		}
	}
	return set
}

func stripNonAlnum(s string) string {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1
	}
	inter := 0
	for w := range a {
		if _, ok := b[w]; ok {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}
