package contextstrategy

import (
	"context"
	"strings"
	"testing"

	"github.com/cloudllm-ai/cloudllm-go/internal/llmsession"
	"github.com/cloudllm-ai/cloudllm-go/pkg/models"
)

type stubClient struct {
	reply string
}

func (c *stubClient) SendMessage(ctx context.Context, messages []models.Message, grokTools, openaiTools []models.ToolMetadata) (models.Message, error) {
	return models.NewMessage(models.RoleAssistant, c.reply), nil
}
func (c *stubClient) GetLastUsage() *models.TokenUsage { return nil }
func (c *stubClient) ModelName() string                { return "stub" }

func fillSession(t *testing.T, s *llmsession.Session, n int, content string) {
	t.Helper()
	for i := 0; i < n; i++ {
		if _, _, err := s.SendMessage(context.Background(), models.RoleUser, content, nil, nil); err != nil {
			t.Fatalf("SendMessage: %v", err)
		}
	}
}

func TestTrimShouldCompactCrossesThreshold(t *testing.T) {
	s := llmsession.New(&stubClient{reply: "ok"}, "sys", 40)
	strat := Trim{}
	if strat.ShouldCompact(s) {
		t.Fatalf("expected fresh session below threshold")
	}
	fillSession(t, s, 5, strings.Repeat("x", 20))
	if !strat.ShouldCompact(s) {
		t.Fatalf("expected full session to cross trim threshold")
	}
	result, err := strat.Compact(context.Background(), s, nil, "agent")
	if err != nil || result.Compacted {
		t.Fatalf("expected Trim.Compact to be a no-op, got %+v err=%v", result, err)
	}
}

func TestSelfCompressionParsesRefsAndReplacesHistory(t *testing.T) {
	reply := "conversation was about Go modules.\nREFS: 0, 1, 2"
	s := llmsession.New(&stubClient{reply: reply}, "sys", 8192)
	fillSession(t, s, 3, "some prior turn")

	strat := NewSelfCompression()
	result, err := strat.Compact(context.Background(), s, nil, "agent-1")
	if err != nil {
		t.Fatalf("Compact: %v", err)
	}
	if !result.Compacted {
		t.Fatalf("expected SelfCompression to report compacted")
	}
	if strings.Contains(result.Summary, "REFS:") {
		t.Fatalf("expected REFS line stripped from summary, got %q", result.Summary)
	}
	history := s.History()
	if len(history) != 1 || history[0].Role != models.RoleSystem {
		t.Fatalf("expected history collapsed to a single system message, got %+v", history)
	}
}

type recordingChain struct {
	agentID string
	summary string
}

func (r *recordingChain) AppendCompaction(agentID, summary string) {
	r.agentID = agentID
	r.summary = summary
}

func TestSelfCompressionAppendsToChainWhenPresent(t *testing.T) {
	s := llmsession.New(&stubClient{reply: "summary text\nREFS: 0"}, "sys", 8192)
	chain := &recordingChain{}
	strat := NewSelfCompression()
	if _, err := strat.Compact(context.Background(), s, chain, "agent-9"); err != nil {
		t.Fatalf("Compact: %v", err)
	}
	if chain.agentID != "agent-9" || chain.summary != "summary text" {
		t.Fatalf("expected chain to receive compaction record, got %+v", chain)
	}
}

func TestNoveltyAwareNeverCompactsBelowModerate(t *testing.T) {
	s := llmsession.New(&stubClient{reply: "ok"}, "sys", 1000)
	n := NewNoveltyAware(Trim{})
	if n.ShouldCompact(s) {
		t.Fatalf("expected no compaction far below moderate ratio")
	}
}

func TestNoveltyAwareAlwaysCompactsAboveHigh(t *testing.T) {
	s := llmsession.New(&stubClient{reply: "ok"}, "sys", 10)
	fillSession(t, s, 5, strings.Repeat("y", 40))
	n := NewNoveltyAware(Trim{})
	if !n.ShouldCompact(s) {
		t.Fatalf("expected compaction once usage exceeds high ratio")
	}
}

func TestNoOpNeverCompacts(t *testing.T) {
	s := llmsession.New(&stubClient{reply: "ok"}, "sys", 10)
	fillSession(t, s, 5, strings.Repeat("z", 40))

	var strat NoOp
	if strat.ShouldCompact(s) {
		t.Fatalf("expected NoOp to never report ShouldCompact")
	}
	result, err := strat.Compact(context.Background(), s, nil, "agent")
	if err != nil {
		t.Fatalf("Compact: %v", err)
	}
	if result.Compacted {
		t.Fatalf("expected NoOp.Compact to report Compacted=false")
	}
}
