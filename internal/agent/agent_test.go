package agent

import (
	"context"
	"testing"

	"github.com/cloudllm-ai/cloudllm-go/internal/llmsession"
	"github.com/cloudllm-ai/cloudllm-go/internal/tools"
	"github.com/cloudllm-ai/cloudllm-go/pkg/models"
)

// scriptedClient returns one reply per call, in order, looping on the last
// reply once exhausted.
type scriptedClient struct {
	replies []string
	calls   int
}

func (c *scriptedClient) SendMessage(ctx context.Context, messages []models.Message, grokTools, openaiTools []models.ToolMetadata) (models.Message, error) {
	idx := c.calls
	if idx >= len(c.replies) {
		idx = len(c.replies) - 1
	}
	c.calls++
	return models.NewMessage(models.RoleAssistant, c.replies[idx]), nil
}

func (c *scriptedClient) GetLastUsage() *models.TokenUsage {
	return &models.TokenUsage{InputTokens: 1, OutputTokens: 1, TotalTokens: 2}
}
func (c *scriptedClient) ModelName() string { return "scripted" }

func addTool() *tools.Custom {
	c := tools.NewCustom("math")
	c.Register(models.ToolMetadata{
		Name:        "add",
		Description: "adds two numbers",
		Parameters: []models.ToolParameter{
			{Name: "a", Type: models.ParamNumber, Required: true},
			{Name: "b", Type: models.ParamNumber, Required: true},
		},
	}, func(ctx context.Context, params map[string]any) (models.ToolResult, error) {
		a, _ := params["a"].(float64)
		b, _ := params["b"].(float64)
		return models.ToolResult{Success: true, Output: a + b}, nil
	})
	return c
}

func TestSendWithoutToolCallReturnsFinalAnswer(t *testing.T) {
	client := &scriptedClient{replies: []string{"the answer is 4"}}
	session := llmsession.New(client, "base", 8192)
	a := New("", "Assistant", "you are helpful", session, nil, nil, nil)

	content, usage, err := a.Send(context.Background(), "what is 2+2?")
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if content != "the answer is 4" {
		t.Fatalf("unexpected content: %q", content)
	}
	if usage.TotalTokens != 2 {
		t.Fatalf("expected aggregated usage, got %+v", usage)
	}
}

func TestSendDispatchesToolAndContinues(t *testing.T) {
	client := &scriptedClient{replies: []string{
		`Let me compute that. {"tool_call":{"name":"add","parameters":{"a":2,"b":3}}}`,
		"the sum is 5",
	}}
	session := llmsession.New(client, "base", 8192)
	registry := tools.NewRegistry()
	if err := registry.AddProtocol(context.Background(), addTool()); err != nil {
		t.Fatalf("AddProtocol: %v", err)
	}
	a := New("", "Assistant", "you are helpful", session, registry, nil, nil)

	content, usage, err := a.Send(context.Background(), "what is 2+3?")
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if content != "the sum is 5" {
		t.Fatalf("unexpected final content: %q", content)
	}
	if usage.TotalTokens != 4 {
		t.Fatalf("expected usage aggregated across both round-trips, got %+v", usage)
	}

	history := session.History()
	foundToolResultMessage := false
	for _, m := range history {
		if m.Role == models.RoleUser && m.Content != "" && containsAll(m.Content, "add", "executed successfully") {
			foundToolResultMessage = true
		}
	}
	if !foundToolResultMessage {
		t.Fatalf("expected tool result fed back as a user message, history=%+v", history)
	}
}

func TestSendStopsAtMaxIterationsWithWarning(t *testing.T) {
	call := `{"tool_call":{"name":"add","parameters":{"a":1,"b":1}}}`
	replies := make([]string, 0, DefaultMaxToolIterations+1)
	for i := 0; i < DefaultMaxToolIterations+1; i++ {
		replies = append(replies, call)
	}
	client := &scriptedClient{replies: replies}
	session := llmsession.New(client, "base", 8192)
	registry := tools.NewRegistry()
	if err := registry.AddProtocol(context.Background(), addTool()); err != nil {
		t.Fatalf("AddProtocol: %v", err)
	}
	a := New("", "Assistant", "base", session, registry, nil, nil)

	content, _, err := a.Send(context.Background(), "loop forever")
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if !containsAll(content, "Maximum tool iterations reached") {
		t.Fatalf("expected max-iterations warning suffix, got %q", content)
	}
}

func TestForkSharesRegistryWithFreshSession(t *testing.T) {
	client := &scriptedClient{replies: []string{"ok"}}
	session := llmsession.New(client, "base", 8192)
	registry := tools.NewRegistry()
	parent := New("parent", "Parent", "base", session, registry, nil, nil)
	parent.Session.InjectMessage(models.RoleUser, "private parent context")

	child := parent.Fork("child", "Child")
	if child.Tools != parent.Tools {
		t.Fatalf("expected forked agent to share the tool registry handle")
	}
	if child.Session == parent.Session {
		t.Fatalf("expected forked agent to get its own session")
	}
	for _, m := range child.Session.History() {
		if containsAll(m.Content, "private parent context") {
			t.Fatalf("expected forked session not to inherit parent history")
		}
	}
}

func containsAll(s string, substrs ...string) bool {
	for _, sub := range substrs {
		if !contains(s, sub) {
			return false
		}
	}
	return true
}

func contains(s, sub string) bool {
	return len(sub) == 0 || indexOf(s, sub) >= 0
}
