package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/cloudllm-ai/cloudllm-go/internal/errtax"
	"github.com/cloudllm-ai/cloudllm-go/pkg/models"
)

// Registry aggregates tools from multiple Protocol sources behind a single
// flat name space. Tool names must be unique across every registered
// protocol; a colliding registration is rejected rather than shadowing the
// first registrant.
type Registry struct {
	mu        sync.RWMutex
	protocols map[string]Protocol
	owner     map[string]string // tool name -> protocol identifier
	cache     []models.ToolMetadata
	schemas   map[string]*jsonschema.Schema
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		protocols: make(map[string]Protocol),
		owner:     make(map[string]string),
		schemas:   make(map[string]*jsonschema.Schema),
	}
}

// AddProtocol registers a Protocol, discovering its tools immediately. It
// fails cleanly if any discovered tool name collides with one already
// present under a different protocol, without mutating the registry.
func (r *Registry) AddProtocol(ctx context.Context, p Protocol) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := p.Identifier()
	if _, exists := r.protocols[id]; exists {
		return errtax.New(errtax.InvalidConfiguration, id, "protocol already registered")
	}

	discovered, err := p.ListTools(ctx)
	if err != nil {
		return errtax.Wrap(errtax.ProtocolError, id, err)
	}
	for _, meta := range discovered {
		if owner, exists := r.owner[meta.Name]; exists {
			return errtax.New(errtax.InvalidConfiguration, meta.Name,
				fmt.Sprintf("tool name collides with one already registered by protocol %q", owner))
		}
	}

	if initer, ok := p.(Initializer); ok {
		if err := initer.Initialize(ctx); err != nil {
			return errtax.Wrap(errtax.ProtocolError, id, err)
		}
	}

	r.protocols[id] = p
	for _, meta := range discovered {
		r.owner[meta.Name] = id
		if schema, err := compileSchema(meta); err == nil {
			r.schemas[meta.Name] = schema
		}
	}
	r.invalidateCacheLocked()
	return nil
}

// RemoveProtocol evicts a protocol and every tool name it owns.
func (r *Registry) RemoveProtocol(ctx context.Context, identifier string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.protocols[identifier]
	if !ok {
		return errtax.New(errtax.NotFound, identifier, "protocol not registered")
	}
	for name, owner := range r.owner {
		if owner == identifier {
			delete(r.owner, name)
			delete(r.schemas, name)
		}
	}
	delete(r.protocols, identifier)
	r.invalidateCacheLocked()

	if shutdowner, ok := p.(Shutdowner); ok {
		return shutdowner.Shutdown(ctx)
	}
	return nil
}

// ExecuteTool validates params against the tool's declared schema (when one
// compiled cleanly) and dispatches to the owning protocol.
func (r *Registry) ExecuteTool(ctx context.Context, name string, params map[string]any) (models.ToolResult, error) {
	r.mu.RLock()
	owner, ok := r.owner[name]
	if !ok {
		r.mu.RUnlock()
		return models.ToolResult{}, errtax.New(errtax.NotFound, name, "tool not registered")
	}
	p := r.protocols[owner]
	schema := r.schemas[name]
	r.mu.RUnlock()

	if schema != nil {
		if err := validateParams(schema, params); err != nil {
			return models.ToolResult{}, errtax.Wrap(errtax.InvalidParameters, name, err)
		}
	}
	return p.Execute(ctx, name, params)
}

// ListTools returns the current union of tools across every registered
// protocol, refreshing the cached flat list only when the tool set changed
// since the last call.
func (r *Registry) ListTools() []models.ToolMetadata {
	r.mu.RLock()
	if r.cache != nil {
		defer r.mu.RUnlock()
		return append([]models.ToolMetadata(nil), r.cache...)
	}
	r.mu.RUnlock()

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cache != nil {
		return append([]models.ToolMetadata(nil), r.cache...)
	}
	ctx := context.Background()
	flat := make([]models.ToolMetadata, 0, len(r.owner))
	for id, p := range r.protocols {
		list, err := p.ListTools(ctx)
		if err != nil {
			continue
		}
		for _, meta := range list {
			if r.owner[meta.Name] == id {
				flat = append(flat, meta)
			}
		}
	}
	r.cache = flat
	return append([]models.ToolMetadata(nil), flat...)
}

func (r *Registry) invalidateCacheLocked() {
	r.cache = nil
}

// compileSchema builds a JSON Schema from a tool's declared parameter list so
// ExecuteTool can validate arguments before dispatch.
func compileSchema(meta models.ToolMetadata) (*jsonschema.Schema, error) {
	schemaDoc := parametersToSchema(meta.Parameters)
	raw, err := json.Marshal(schemaDoc)
	if err != nil {
		return nil, err
	}
	return jsonschema.CompileString("tool:"+meta.Name+".json", string(raw))
}

func parametersToSchema(params []models.ToolParameter) map[string]any {
	properties := map[string]any{}
	required := []string{}
	for _, p := range params {
		properties[p.Name] = parameterToSchema(p)
		if p.Required {
			required = append(required, p.Name)
		}
	}
	schema := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

func parameterToSchema(p models.ToolParameter) map[string]any {
	out := map[string]any{"type": jsonSchemaType(p.Type)}
	if p.Description != "" {
		out["description"] = p.Description
	}
	if p.Type == models.ParamArray && p.Items != nil {
		out["items"] = parameterToSchema(*p.Items)
	}
	if p.Type == models.ParamObject && len(p.Properties) > 0 {
		out["properties"] = func() map[string]any {
			props := map[string]any{}
			for _, sub := range p.Properties {
				props[sub.Name] = parameterToSchema(sub)
			}
			return props
		}()
	}
	return out
}

func jsonSchemaType(t models.ParameterType) string {
	switch t {
	case models.ParamString:
		return "string"
	case models.ParamNumber:
		return "number"
	case models.ParamInteger:
		return "integer"
	case models.ParamBoolean:
		return "boolean"
	case models.ParamArray:
		return "array"
	case models.ParamObject:
		return "object"
	default:
		return "string"
	}
}

func validateParams(schema *jsonschema.Schema, params map[string]any) error {
	// jsonschema validates against decoded JSON values (map[string]interface{}
	// with float64 numbers), so round-trip params through JSON first.
	raw, err := json.Marshal(params)
	if err != nil {
		return err
	}
	var decoded any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return err
	}
	return schema.Validate(decoded)
}
