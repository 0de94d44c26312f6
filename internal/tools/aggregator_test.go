package tools

import (
	"context"
	"testing"

	"github.com/cloudllm-ai/cloudllm-go/pkg/models"
)

func TestAggregatorRoutesByName(t *testing.T) {
	a := NewCustom("a")
	a.Register(models.ToolMetadata{Name: "from_a"}, func(ctx context.Context, params map[string]any) (models.ToolResult, error) {
		return models.ToolResult{Success: true, Output: "a"}, nil
	})
	b := NewCustom("b")
	b.Register(models.ToolMetadata{Name: "from_b"}, func(ctx context.Context, params map[string]any) (models.ToolResult, error) {
		return models.ToolResult{Success: true, Output: "b"}, nil
	})

	agg := NewAggregator("unified", a, b)
	ctx := context.Background()

	list, err := agg.ListTools(ctx)
	if err != nil || len(list) != 2 {
		t.Fatalf("expected union of 2 tools, got %+v err=%v", list, err)
	}

	result, err := agg.Execute(ctx, "from_b", nil)
	if err != nil || result.Output != "b" {
		t.Fatalf("expected routed execution to source b, got %+v err=%v", result, err)
	}
}

func TestAggregatorFirstRegisteredWinsOnCollision(t *testing.T) {
	a := NewCustom("a")
	a.Register(models.ToolMetadata{Name: "dup"}, func(ctx context.Context, params map[string]any) (models.ToolResult, error) {
		return models.ToolResult{Success: true, Output: "a"}, nil
	})
	b := NewCustom("b")
	b.Register(models.ToolMetadata{Name: "dup"}, func(ctx context.Context, params map[string]any) (models.ToolResult, error) {
		return models.ToolResult{Success: true, Output: "b"}, nil
	})

	agg := NewAggregator("unified", a, b)
	ctx := context.Background()
	if _, err := agg.ListTools(ctx); err != nil {
		t.Fatalf("ListTools: %v", err)
	}
	result, err := agg.Execute(ctx, "dup", nil)
	if err != nil || result.Output != "a" {
		t.Fatalf("expected first-registered source to win, got %+v err=%v", result, err)
	}
}
