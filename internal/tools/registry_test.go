package tools

import (
	"context"
	"testing"

	"github.com/cloudllm-ai/cloudllm-go/pkg/models"
)

func TestRegistryExecuteAndList(t *testing.T) {
	ctx := context.Background()
	c := NewCustom("custom")
	c.Register(models.ToolMetadata{
		Name:        "echo",
		Description: "echoes input",
		Parameters: []models.ToolParameter{
			{Name: "text", Type: models.ParamString, Required: true},
		},
	}, func(ctx context.Context, params map[string]any) (models.ToolResult, error) {
		return models.ToolResult{Success: true, Output: params["text"]}, nil
	})

	r := NewRegistry()
	if err := r.AddProtocol(ctx, c); err != nil {
		t.Fatalf("AddProtocol: %v", err)
	}

	list := r.ListTools()
	if len(list) != 1 || list[0].Name != "echo" {
		t.Fatalf("expected single echo tool, got %+v", list)
	}

	result, err := r.ExecuteTool(ctx, "echo", map[string]any{"text": "hi"})
	if err != nil {
		t.Fatalf("ExecuteTool: %v", err)
	}
	if result.Output != "hi" {
		t.Fatalf("expected echoed output, got %+v", result)
	}
}

func TestRegistryExecuteMissingRequiredParam(t *testing.T) {
	ctx := context.Background()
	c := NewCustom("custom")
	c.Register(models.ToolMetadata{
		Name: "echo",
		Parameters: []models.ToolParameter{
			{Name: "text", Type: models.ParamString, Required: true},
		},
	}, func(ctx context.Context, params map[string]any) (models.ToolResult, error) {
		return models.ToolResult{Success: true}, nil
	})

	r := NewRegistry()
	if err := r.AddProtocol(ctx, c); err != nil {
		t.Fatalf("AddProtocol: %v", err)
	}

	_, err := r.ExecuteTool(ctx, "echo", map[string]any{})
	if err == nil {
		t.Fatalf("expected validation error for missing required param")
	}
}

func TestRegistryRejectsNameCollision(t *testing.T) {
	ctx := context.Background()
	a := NewCustom("a")
	a.Register(models.ToolMetadata{Name: "dup"}, noop)
	b := NewCustom("b")
	b.Register(models.ToolMetadata{Name: "dup"}, noop)

	r := NewRegistry()
	if err := r.AddProtocol(ctx, a); err != nil {
		t.Fatalf("AddProtocol a: %v", err)
	}
	if err := r.AddProtocol(ctx, b); err == nil {
		t.Fatalf("expected collision error registering protocol b")
	}
	// a's tool must still be reachable; registration of b must not shadow it.
	if _, err := r.ExecuteTool(ctx, "dup", nil); err != nil {
		t.Fatalf("expected a's tool still reachable: %v", err)
	}
}

func TestRegistryExecuteUnknownTool(t *testing.T) {
	r := NewRegistry()
	_, err := r.ExecuteTool(context.Background(), "nope", nil)
	if err == nil {
		t.Fatalf("expected not-found error")
	}
}

func TestRegistryRemoveProtocol(t *testing.T) {
	ctx := context.Background()
	c := NewCustom("custom")
	c.Register(models.ToolMetadata{Name: "echo"}, noop)

	r := NewRegistry()
	if err := r.AddProtocol(ctx, c); err != nil {
		t.Fatalf("AddProtocol: %v", err)
	}
	if err := r.RemoveProtocol(ctx, "custom"); err != nil {
		t.Fatalf("RemoveProtocol: %v", err)
	}
	if len(r.ListTools()) != 0 {
		t.Fatalf("expected empty tool list after removal")
	}
	if _, err := r.ExecuteTool(ctx, "echo", nil); err == nil {
		t.Fatalf("expected not-found after protocol removal")
	}
}

func noop(ctx context.Context, params map[string]any) (models.ToolResult, error) {
	return models.ToolResult{Success: true}, nil
}
