// Package tools implements tool protocol aggregation and registration: a
// small interface that any tool source can satisfy, and a registry that
// aggregates many sources behind one name space.
package tools

import (
	"context"

	"github.com/cloudllm-ai/cloudllm-go/pkg/models"
)

// Protocol is the interface every tool source implements, whether the tools
// are in-process functions, a remote HTTP service, or an adapter over
// another subsystem. Implementations must be safe for concurrent use.
type Protocol interface {
	// Identifier names this protocol within a Registry.
	Identifier() string

	// Execute runs the named tool with the given parameters.
	Execute(ctx context.Context, name string, params map[string]any) (models.ToolResult, error)

	// ListTools returns the tools this protocol currently exposes.
	ListTools(ctx context.Context) ([]models.ToolMetadata, error)

	// GetToolMetadata returns a single tool's metadata, or ok=false if the
	// protocol doesn't expose a tool by that name.
	GetToolMetadata(ctx context.Context, name string) (models.ToolMetadata, bool)
}

// Initializer is implemented by protocols that need a setup step before
// their first use (e.g. opening a connection). Optional: the registry
// calls it when present via a type assertion.
type Initializer interface {
	Initialize(ctx context.Context) error
}

// Shutdowner is implemented by protocols that hold resources needing an
// orderly close. Optional, same convention as Initializer.
type Shutdowner interface {
	Shutdown(ctx context.Context) error
}
