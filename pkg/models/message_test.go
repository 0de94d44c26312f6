package models

import "testing"

func TestTokenUsage_Add(t *testing.T) {
	a := TokenUsage{InputTokens: 10, OutputTokens: 5, TotalTokens: 15}
	b := TokenUsage{InputTokens: 2, OutputTokens: 3, TotalTokens: 5}
	got := a.Add(b)
	want := TokenUsage{InputTokens: 12, OutputTokens: 8, TotalTokens: 20}
	if got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestNewMessage(t *testing.T) {
	m := NewMessage(RoleUser, "hello")
	if m.Role != RoleUser || m.Content != "hello" {
		t.Fatalf("unexpected message: %+v", m)
	}
}
