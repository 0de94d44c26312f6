// Package contextstrategy implements pluggable context-compaction policy:
// when a Session's history is getting expensive and what to do about it.
package contextstrategy

import (
	"context"

	"github.com/cloudllm-ai/cloudllm-go/internal/llmsession"
)

// ThoughtChain receives a record of compaction having occurred. It is
// optional; strategies that compact check for a non-nil chain before
// appending to it.
type ThoughtChain interface {
	AppendCompaction(agentID, summary string)
}

// Result describes the outcome of a Compact call.
type Result struct {
	Compacted bool
	Summary   string
}

// Strategy decides when and how a Session's history gets compacted.
type Strategy interface {
	ShouldCompact(session *llmsession.Session) bool
	Compact(ctx context.Context, session *llmsession.Session, chain ThoughtChain, agentID string) (Result, error)
}

func usageRatio(session *llmsession.Session) float64 {
	max := session.MaxTokens()
	if max <= 0 {
		return 0
	}
	return float64(session.EstimatedTokens()) / float64(max)
}
