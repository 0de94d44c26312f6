package tools

import (
	"context"

	"github.com/cloudllm-ai/cloudllm-go/internal/errtax"
	"github.com/cloudllm-ai/cloudllm-go/pkg/models"
)

// Handler is an in-process tool function. Synchronous handlers simply
// return; handlers wanting asynchronous behaviour do so by spawning their
// own goroutine internally and blocking on a channel/context, since Execute
// itself is always called synchronously from the registry's point of view.
type Handler func(ctx context.Context, params map[string]any) (models.ToolResult, error)

type customTool struct {
	meta    models.ToolMetadata
	handler Handler
}

// Custom is a Protocol backed by in-process function values, grounding
// hand-written tools registered directly by the hosting application.
type Custom struct {
	id    string
	tools map[string]customTool
}

// NewCustom returns an empty Custom protocol identified by id.
func NewCustom(id string) *Custom {
	return &Custom{id: id, tools: make(map[string]customTool)}
}

// Register adds a function-backed tool. Calling Register again for the same
// name replaces it; collision detection across protocols happens at
// Registry.AddProtocol time, not here.
func (c *Custom) Register(meta models.ToolMetadata, handler Handler) {
	c.tools[meta.Name] = customTool{meta: meta, handler: handler}
}

func (c *Custom) Identifier() string { return c.id }

func (c *Custom) Execute(ctx context.Context, name string, params map[string]any) (models.ToolResult, error) {
	t, ok := c.tools[name]
	if !ok {
		return models.ToolResult{}, errtax.New(errtax.NotFound, name, "tool not registered with custom protocol "+c.id)
	}
	return t.handler(ctx, params)
}

func (c *Custom) ListTools(ctx context.Context) ([]models.ToolMetadata, error) {
	out := make([]models.ToolMetadata, 0, len(c.tools))
	for _, t := range c.tools {
		out = append(out, t.meta)
	}
	return out, nil
}

func (c *Custom) GetToolMetadata(ctx context.Context, name string) (models.ToolMetadata, bool) {
	t, ok := c.tools[name]
	return t.meta, ok
}
