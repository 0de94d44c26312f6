package tools

import (
	"context"
	"fmt"

	"github.com/cloudllm-ai/cloudllm-go/internal/errtax"
	"github.com/cloudllm-ai/cloudllm-go/internal/memory"
	"github.com/cloudllm-ai/cloudllm-go/pkg/models"
)

// MemoryToolName is the single tool the MemoryAdapter protocol exposes.
const MemoryToolName = "memory"

// MemoryAdapter wraps a Memory Store's wire protocol as a single tool named
// "memory", so an Agent reaches the TTL key-value store through the same
// tool-call mechanism as any other tool.
type MemoryAdapter struct {
	id       string
	protocol *memory.Protocol
}

// NewMemoryAdapter wraps protocol as a tool protocol identified by id.
func NewMemoryAdapter(id string, protocol *memory.Protocol) *MemoryAdapter {
	return &MemoryAdapter{id: id, protocol: protocol}
}

func (m *MemoryAdapter) Identifier() string { return m.id }

func (m *MemoryAdapter) metadata() models.ToolMetadata {
	return models.ToolMetadata{
		Name:        MemoryToolName,
		Description: "Read and write the shared TTL key-value memory store. " + memory.Specification(),
		Parameters: []models.ToolParameter{
			{Name: "command", Type: models.ParamString, Description: "verb and arguments, e.g. 'P key value 60' or 'G key'", Required: true},
		},
	}
}

func (m *MemoryAdapter) ListTools(ctx context.Context) ([]models.ToolMetadata, error) {
	return []models.ToolMetadata{m.metadata()}, nil
}

func (m *MemoryAdapter) GetToolMetadata(ctx context.Context, name string) (models.ToolMetadata, bool) {
	if name != MemoryToolName {
		return models.ToolMetadata{}, false
	}
	return m.metadata(), true
}

func (m *MemoryAdapter) Execute(ctx context.Context, name string, params map[string]any) (models.ToolResult, error) {
	if name != MemoryToolName {
		return models.ToolResult{}, errtax.New(errtax.NotFound, name, "memory adapter only exposes the memory tool")
	}
	command, _ := params["command"].(string)
	if command == "" {
		return models.ToolResult{Success: false, Error: "missing required parameter: command"}, nil
	}
	resp := m.protocol.Execute(memory.CommandRequest{Command: command})
	return responseToToolResult(resp), nil
}

func responseToToolResult(resp memory.Response) models.ToolResult {
	if resp.Status == "ERR" {
		return models.ToolResult{Success: false, Error: resp.Error}
	}
	if resp.Status == "ERR:NOT_FOUND" {
		return models.ToolResult{Success: false, Error: "not found"}
	}
	output := map[string]any{}
	if resp.Status != "" {
		output["status"] = resp.Status
	}
	if resp.Value != "" {
		output["value"] = resp.Value
	}
	if resp.Meta != nil {
		output["added_utc"] = resp.Meta.AddedUTC
		output["expires_in"] = resp.Meta.ExpiresIn.String()
	}
	if resp.Keys != nil {
		output["keys"] = resp.Keys
	}
	if resp.KeysWithMeta != nil {
		output["keys"] = resp.KeysWithMeta
	}
	if resp.Specification != "" {
		output["specification"] = resp.Specification
	}
	if resp.TotalBytes != 0 {
		output["total_bytes"] = fmt.Sprint(resp.TotalBytes)
	}
	if resp.KeysBytes != 0 {
		output["keys_bytes"] = fmt.Sprint(resp.KeysBytes)
	}
	if resp.ValuesBytes != 0 {
		output["values_bytes"] = fmt.Sprint(resp.ValuesBytes)
	}
	return models.ToolResult{Success: true, Output: output}
}
