// Package llmsession implements the bounded conversation history an Agent
// sends to its LLM client: a system prompt, a rolling message history
// capped to a token budget, and a cheap token estimator that decides when
// the oldest non-system messages get trimmed.
package llmsession

import (
	"context"
	"sync"

	"github.com/cloudllm-ai/cloudllm-go/pkg/models"
)

// ClientWrapper is the narrow interface a concrete LLM provider client must
// satisfy. Session holds one and never constructs or owns its lifecycle.
type ClientWrapper interface {
	// SendMessage sends the full message history (system prompt included)
	// to the model, optionally advertising tool catalogs in whichever
	// provider-specific shape the implementation expects, and returns the
	// model's reply.
	SendMessage(ctx context.Context, messages []models.Message, grokTools, openaiTools []models.ToolMetadata) (models.Message, error)

	// GetLastUsage returns token usage for the most recent SendMessage
	// call, or nil if the provider doesn't report usage.
	GetLastUsage() *models.TokenUsage

	// ModelName identifies the underlying model for logging/metrics.
	ModelName() string
}

// DefaultMaxTokens is used when a caller constructs a Session with a
// non-positive budget.
const DefaultMaxTokens = 8192

// Session is a single agent's bounded conversation history. It is mutable
// state tied to one Agent and is never copied; forking an agent builds a
// fresh Session rather than cloning one.
type Session struct {
	mu sync.Mutex

	client    ClientWrapper
	maxTokens int

	history         []models.Message
	estimatedTokens int

	lastUsage *models.TokenUsage
}

// New builds a Session around client with the given system prompt (empty
// means no system message) and token budget.
func New(client ClientWrapper, systemPrompt string, maxTokens int) *Session {
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}
	s := &Session{client: client, maxTokens: maxTokens}
	if systemPrompt != "" {
		msg := models.NewMessage(models.RoleSystem, systemPrompt)
		s.history = append(s.history, msg)
		s.estimatedTokens = estimateTokens(systemPrompt)
	}
	return s
}

// estimateTokens is a cheap, monotonic-in-length stand-in for a real
// tokenizer: roughly four characters per token, floored at one.
func estimateTokens(s string) int {
	n := len(s) / 4
	if n < 1 {
		n = 1
	}
	return n
}

// hasSystem reports whether history[0] is the system message.
func (s *Session) hasSystem() bool {
	return len(s.history) > 0 && s.history[0].Role == models.RoleSystem
}

// trimLocked drops the oldest non-system messages until the projected total
// (current estimate plus incoming) fits within maxTokens, or until only the
// system message (if any) remains. Must be called with mu held.
func (s *Session) trimLocked(incoming int) {
	firstNonSystem := 0
	if s.hasSystem() {
		firstNonSystem = 1
	}
	for s.estimatedTokens+incoming > s.maxTokens && len(s.history) > firstNonSystem {
		oldest := s.history[firstNonSystem]
		s.history = append(s.history[:firstNonSystem], s.history[firstNonSystem+1:]...)
		s.estimatedTokens -= estimateTokens(oldest.Content)
	}
}

// SendMessage appends a message with the given role and content, trimming
// the oldest non-system history first if needed, sends the full history to
// the client, appends the reply, and returns the reply content and token
// usage (nil if the client didn't report any).
func (s *Session) SendMessage(ctx context.Context, role models.Role, content string, grokTools, openaiTools []models.ToolMetadata) (string, *models.TokenUsage, error) {
	s.mu.Lock()
	incoming := estimateTokens(content)
	s.trimLocked(incoming)
	msg := models.NewMessage(role, content)
	s.history = append(s.history, msg)
	s.estimatedTokens += incoming
	historySnapshot := append([]models.Message(nil), s.history...)
	client := s.client
	s.mu.Unlock()

	reply, err := client.SendMessage(ctx, historySnapshot, grokTools, openaiTools)
	if err != nil {
		return "", nil, err
	}
	usage := client.GetLastUsage()

	s.mu.Lock()
	replyIncoming := estimateTokens(reply.Content)
	s.trimLocked(replyIncoming)
	s.history = append(s.history, reply)
	s.estimatedTokens += replyIncoming
	s.lastUsage = usage
	s.mu.Unlock()

	return reply.Content, usage, nil
}

// InjectMessage appends a message to history without invoking the client.
// This is the mechanism hub-routing uses to deliver another agent's
// response into this session.
func (s *Session) InjectMessage(role models.Role, content string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	incoming := estimateTokens(content)
	s.trimLocked(incoming)
	s.history = append(s.history, models.NewMessage(role, content))
	s.estimatedTokens += incoming
}

// ClearHistory removes every non-system message and resets the token
// estimate to just the system prompt's cost.
func (s *Session) ClearHistory() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.hasSystem() {
		system := s.history[0]
		s.history = []models.Message{system}
		s.estimatedTokens = estimateTokens(system.Content)
		return
	}
	s.history = nil
	s.estimatedTokens = 0
}

// History returns a snapshot of the current message history.
func (s *Session) History() []models.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Message(nil), s.history...)
}

// EstimatedTokens returns the current rolling token estimate.
func (s *Session) EstimatedTokens() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.estimatedTokens
}

// MaxTokens returns the configured token budget.
func (s *Session) MaxTokens() int {
	return s.maxTokens
}

// LastUsage returns the token usage from the most recent SendMessage call.
func (s *Session) LastUsage() *models.TokenUsage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastUsage
}

// SetSystemMessage replaces the system message (inserting one at index 0 if
// none exists), used by context strategies that inject a resolved summary
// as the new system message after compaction.
func (s *Session) SetSystemMessage(content string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	msg := models.NewMessage(models.RoleSystem, content)
	if s.hasSystem() {
		old := s.history[0]
		s.history[0] = msg
		s.estimatedTokens += estimateTokens(content) - estimateTokens(old.Content)
		return
	}
	s.history = append([]models.Message{msg}, s.history...)
	s.estimatedTokens += estimateTokens(content)
}

// Client returns the underlying ClientWrapper, used when forking a new
// Session that must share the same client.
func (s *Session) Client() ClientWrapper {
	return s.client
}
