package contextstrategy

import (
	"context"
	"strings"

	"github.com/cloudllm-ai/cloudllm-go/internal/llmsession"
	"github.com/cloudllm-ai/cloudllm-go/pkg/models"
)

// NoveltyAware wraps another Strategy, deferring to it only when the recent
// conversation looks repetitive rather than novel. Below ModerateRatio it
// never compacts; above HighRatio it always defers to the wrapped strategy;
// in between, it measures how much of the recent window's word-bigrams are
// unseen in the rest of the history and only compacts when that novelty
// fraction drops below NoveltyThreshold (i.e. the recent turns are mostly
// restating what's already there).
type NoveltyAware struct {
	Inner            Strategy
	HighRatio        float64
	ModerateRatio    float64
	RecentWindow     int
	NoveltyThreshold float64
}

// NewNoveltyAware returns a NoveltyAware with spec defaults (high=0.90,
// moderate=0.70, recent window=4, novelty threshold=0.30).
func NewNoveltyAware(inner Strategy) *NoveltyAware {
	return &NoveltyAware{
		Inner:            inner,
		HighRatio:        0.90,
		ModerateRatio:    0.70,
		RecentWindow:     4,
		NoveltyThreshold: 0.30,
	}
}

func (n *NoveltyAware) ShouldCompact(session *llmsession.Session) bool {
	ratio := usageRatio(session)
	if ratio >= n.HighRatio {
		return true
	}
	if ratio < n.ModerateRatio {
		return false
	}
	return novelty(session.History(), n.RecentWindow) < n.NoveltyThreshold
}

func (n *NoveltyAware) Compact(ctx context.Context, session *llmsession.Session, chain ThoughtChain, agentID string) (Result, error) {
	return n.Inner.Compact(ctx, session, chain, agentID)
}

// novelty returns the fraction of the recent window's word-bigrams that
// don't already appear earlier in history. 1.0 when there's no prior
// history to compare against (nothing to call repetitive yet).
func novelty(history []models.Message, window int) float64 {
	if window <= 0 || len(history) == 0 {
		return 1.0
	}
	if window > len(history) {
		window = len(history)
	}
	recent := history[len(history)-window:]
	prior := history[:len(history)-window]

	priorBigrams := bigramSet(prior)
	recentBigrams := bigramSet(recent)
	if len(recentBigrams) == 0 {
		return 1.0
	}
	if len(priorBigrams) == 0 {
		return 1.0
	}

	novel := 0
	for bg := range recentBigrams {
		if !priorBigrams[bg] {
			novel++
		}
	}
	return float64(novel) / float64(len(recentBigrams))
}

func bigramSet(messages []models.Message) map[string]bool {
	set := make(map[string]bool)
	for _, m := range messages {
		words := strings.Fields(strings.ToLower(m.Content))
		for i := 0; i+1 < len(words); i++ {
			set[words[i]+" "+words[i+1]] = true
		}
	}
	return set
}
