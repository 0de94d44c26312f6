package tools

import (
	"context"
	"testing"

	"github.com/cloudllm-ai/cloudllm-go/internal/memory"
)

func TestMemoryAdapterRoundTrip(t *testing.T) {
	store := memory.New()
	adapter := NewMemoryAdapter("memory", memory.NewProtocol(store))

	ctx := context.Background()
	result, err := adapter.Execute(ctx, MemoryToolName, map[string]any{"command": "P k v"})
	if err != nil || !result.Success {
		t.Fatalf("expected successful put, got result=%+v err=%v", result, err)
	}

	result, err = adapter.Execute(ctx, MemoryToolName, map[string]any{"command": "G k"})
	if err != nil || !result.Success {
		t.Fatalf("expected successful get, got result=%+v err=%v", result, err)
	}
	out, ok := result.Output.(map[string]any)
	if !ok || out["value"] != "v" {
		t.Fatalf("expected value v in output, got %+v", result.Output)
	}
}

func TestMemoryAdapterMissingKey(t *testing.T) {
	adapter := NewMemoryAdapter("memory", memory.NewProtocol(memory.New()))
	result, _ := adapter.Execute(context.Background(), MemoryToolName, map[string]any{"command": "G nope"})
	if result.Success {
		t.Fatalf("expected failed result for missing key")
	}
}

func TestMemoryAdapterListsSingleTool(t *testing.T) {
	adapter := NewMemoryAdapter("memory", memory.NewProtocol(memory.New()))
	list, err := adapter.ListTools(context.Background())
	if err != nil || len(list) != 1 || list[0].Name != MemoryToolName {
		t.Fatalf("expected single memory tool, got %+v err=%v", list, err)
	}
}
