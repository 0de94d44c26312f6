package contextstrategy

import (
	"context"

	"github.com/cloudllm-ai/cloudllm-go/internal/llmsession"
)

// TrimThreshold is the usage ratio (estimated/max tokens) at which Trim
// reports a session should compact.
const TrimThreshold = 0.85

// Trim is the default Strategy. It relies entirely on the Session's own
// built-in oldest-message trimming: ShouldCompact reports true once usage
// crosses the threshold, but Compact itself is a no-op, since the next
// SendMessage call will trim on its own.
type Trim struct{}

func (Trim) ShouldCompact(session *llmsession.Session) bool {
	return usageRatio(session) >= TrimThreshold
}

func (Trim) Compact(ctx context.Context, session *llmsession.Session, chain ThoughtChain, agentID string) (Result, error) {
	return Result{Compacted: false}, nil
}
