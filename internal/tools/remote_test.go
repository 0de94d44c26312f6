package tools

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cloudllm-ai/cloudllm-go/pkg/models"
)

func newTestServer(t *testing.T, listCalls *int) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/tools" && r.Method == http.MethodGet:
			*listCalls++
			_ = json.NewEncoder(w).Encode([]models.ToolMetadata{{Name: "search", Description: "web search"}})
		case r.URL.Path == "/tools/execute" && r.Method == http.MethodPost:
			var req remoteExecuteRequest
			_ = json.NewDecoder(r.Body).Decode(&req)
			_ = json.NewEncoder(w).Encode(models.ToolResult{Success: true, Output: req.Params["query"]})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
}

func TestRemoteListAndExecute(t *testing.T) {
	var calls int
	srv := newTestServer(t, &calls)
	defer srv.Close()

	r := NewRemote("remote", srv.URL, nil, time.Minute)
	list, err := r.ListTools(context.Background())
	if err != nil || len(list) != 1 || list[0].Name != "search" {
		t.Fatalf("expected single search tool, got %+v err=%v", list, err)
	}

	result, err := r.Execute(context.Background(), "search", map[string]any{"query": "go"})
	if err != nil || result.Output != "go" {
		t.Fatalf("expected executed result echoing query, got %+v err=%v", result, err)
	}
}

func TestRemoteListCachesWithinTTL(t *testing.T) {
	var calls int
	srv := newTestServer(t, &calls)
	defer srv.Close()

	r := NewRemote("remote", srv.URL, nil, time.Minute)
	ctx := context.Background()
	if _, err := r.ListTools(ctx); err != nil {
		t.Fatalf("ListTools: %v", err)
	}
	if _, err := r.ListTools(ctx); err != nil {
		t.Fatalf("ListTools: %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected cached second call, got %d upstream calls", calls)
	}
}

func TestRemoteListRefetchesAfterTTL(t *testing.T) {
	var calls int
	srv := newTestServer(t, &calls)
	defer srv.Close()

	r := NewRemote("remote", srv.URL, nil, time.Millisecond)
	ctx := context.Background()
	if _, err := r.ListTools(ctx); err != nil {
		t.Fatalf("ListTools: %v", err)
	}
	time.Sleep(5 * time.Millisecond)
	if _, err := r.ListTools(ctx); err != nil {
		t.Fatalf("ListTools: %v", err)
	}
	if calls != 2 {
		t.Fatalf("expected refetch after TTL expiry, got %d upstream calls", calls)
	}
}
