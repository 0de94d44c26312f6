package tools

import (
	"context"

	"github.com/cloudllm-ai/cloudllm-go/internal/errtax"
	"github.com/cloudllm-ai/cloudllm-go/pkg/models"
)

// Aggregator presents several underlying protocols as a single Protocol,
// routing execute calls by tool name and union-ing list_tools. It is the
// "unified server" shape: useful when a caller wants one Protocol handle
// covering tools that actually live behind several sources, without
// registering each source with a Registry separately.
type Aggregator struct {
	id      string
	sources []Protocol
	owner   map[string]Protocol
}

// NewAggregator builds an Aggregator over sources, identified by id. Tool
// name collisions across sources are resolved first-registered-wins, same
// as the Registry's add-time rejection but local to this aggregate.
func NewAggregator(id string, sources ...Protocol) *Aggregator {
	return &Aggregator{id: id, sources: sources, owner: make(map[string]Protocol)}
}

func (a *Aggregator) Identifier() string { return a.id }

func (a *Aggregator) ListTools(ctx context.Context) ([]models.ToolMetadata, error) {
	a.owner = make(map[string]Protocol)
	var out []models.ToolMetadata
	for _, src := range a.sources {
		list, err := src.ListTools(ctx)
		if err != nil {
			continue
		}
		for _, meta := range list {
			if _, taken := a.owner[meta.Name]; taken {
				continue
			}
			a.owner[meta.Name] = src
			out = append(out, meta)
		}
	}
	return out, nil
}

func (a *Aggregator) GetToolMetadata(ctx context.Context, name string) (models.ToolMetadata, bool) {
	src, ok := a.owner[name]
	if !ok {
		return models.ToolMetadata{}, false
	}
	return src.GetToolMetadata(ctx, name)
}

func (a *Aggregator) Execute(ctx context.Context, name string, params map[string]any) (models.ToolResult, error) {
	src, ok := a.owner[name]
	if !ok {
		if _, err := a.ListTools(ctx); err != nil {
			return models.ToolResult{}, err
		}
		src, ok = a.owner[name]
		if !ok {
			return models.ToolResult{}, errtax.New(errtax.NotFound, name, "tool not exposed by any aggregated source")
		}
	}
	return src.Execute(ctx, name, params)
}
