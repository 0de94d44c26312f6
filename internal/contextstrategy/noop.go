package contextstrategy

import (
	"context"

	"github.com/cloudllm-ai/cloudllm-go/internal/llmsession"
)

// NoOp never compacts. Forked agents spawned for a single Parallel or
// Hierarchical round get a NoOp strategy: their Session is short-lived, so
// compaction would only throw away context they still need.
type NoOp struct{}

func (NoOp) ShouldCompact(*llmsession.Session) bool { return false }

func (NoOp) Compact(ctx context.Context, session *llmsession.Session, chain ThoughtChain, agentID string) (Result, error) {
	return Result{Compacted: false}, nil
}
