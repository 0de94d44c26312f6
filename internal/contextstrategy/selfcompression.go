package contextstrategy

import (
	"context"
	"strconv"
	"strings"

	"github.com/cloudllm-ai/cloudllm-go/internal/llmsession"
	"github.com/cloudllm-ai/cloudllm-go/pkg/models"
)

// SelfCompressionThreshold is the usage ratio at which SelfCompression
// triggers.
const SelfCompressionThreshold = 0.80

const defaultCompressionPrompt = `Summarize this conversation so it can replace the full history. ` +
	`Be concise but keep every fact that later turns might depend on. ` +
	`On its own final line write "REFS: " followed by a comma-separated list ` +
	`of the message indices (0-based) your summary draws on.`

// SelfCompression asks the model itself to produce a structured summary of
// the conversation, then replaces the history with that summary as the new
// system message. Unlike Trim, this actually shrinks the token estimate
// instead of just capping it.
type SelfCompression struct {
	// Prompt overrides the compression instruction sent to the model.
	Prompt string
}

// NewSelfCompression returns a SelfCompression using the default prompt.
func NewSelfCompression() *SelfCompression {
	return &SelfCompression{Prompt: defaultCompressionPrompt}
}

func (s *SelfCompression) ShouldCompact(session *llmsession.Session) bool {
	return usageRatio(session) >= SelfCompressionThreshold
}

func (s *SelfCompression) Compact(ctx context.Context, session *llmsession.Session, chain ThoughtChain, agentID string) (Result, error) {
	prompt := s.Prompt
	if prompt == "" {
		prompt = defaultCompressionPrompt
	}

	content, _, err := session.SendMessage(ctx, models.RoleUser, prompt, nil, nil)
	if err != nil {
		return Result{}, err
	}

	summary, _ := parseCompressionResponse(content)
	if chain != nil {
		chain.AppendCompaction(agentID, summary)
	}

	session.ClearHistory()
	session.SetSystemMessage(summary)
	return Result{Compacted: true, Summary: summary}, nil
}

// parseCompressionResponse splits the model's reply into the summary body
// and the back-referenced message indices on the trailing "REFS:" line.
// Unknown or malformed indices are dropped rather than failing the parse.
func parseCompressionResponse(content string) (summary string, refs []int) {
	const marker = "REFS:"
	idx := strings.LastIndex(content, marker)
	if idx < 0 {
		return strings.TrimSpace(content), nil
	}
	summary = strings.TrimSpace(content[:idx])
	tail := strings.TrimSpace(content[idx+len(marker):])
	for _, tok := range strings.Split(tail, ",") {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		if n, err := strconv.Atoi(tok); err == nil {
			refs = append(refs, n)
		}
	}
	return summary, refs
}
