// Package tools is the fixed capability set the reasoning engine may invoke:
// current time, weather, web search, and the calendar event operations. Every
// capability returns plain structured data; failures become structured error
// values and never cross the boundary as Go errors or panics.
package tools

import (
	"context"
	"fmt"

	"github.com/sharunashwanth/mittai-agent/internal/engine"
)

// Tool is one registry entry: a named, schema-typed operation plus whether it
// mutates state.
type Tool struct {
	Name        string
	Description string
	Parameters  map[string]any // JSON schema for the argument object
	Write       bool
	Handler     func(ctx context.Context, args map[string]any) (any, error)
}

// Registry dispatches capability invocations by table lookup.
type Registry struct {
	order []string
	tools map[string]Tool
}

func NewRegistry(tools ...Tool) *Registry {
	r := &Registry{tools: make(map[string]Tool, len(tools))}
	for _, t := range tools {
		if _, dup := r.tools[t.Name]; dup {
			continue
		}
		r.tools[t.Name] = t
		r.order = append(r.order, t.Name)
	}
	return r
}

// Dispatch invokes the named capability. The result is always a structured
// value: unknown names, handler errors and panics all come back as error
// payloads the engine can reason about.
func (r *Registry) Dispatch(ctx context.Context, name string, args map[string]any) (result any) {
	defer func() {
		if p := recover(); p != nil {
			result = errorPayload(fmt.Sprintf("capability %s panicked: %v", name, p))
		}
	}()

	t, ok := r.tools[name]
	if !ok {
		return errorPayload(fmt.Sprintf("unknown capability: %s", name))
	}
	if args == nil {
		args = map[string]any{}
	}
	res, err := t.Handler(ctx, args)
	if err != nil {
		return errorPayload(err.Error())
	}
	return res
}

// Definitions exposes the registry to the reasoning engine, in registration order.
func (r *Registry) Definitions() []engine.ToolDefinition {
	defs := make([]engine.ToolDefinition, 0, len(r.order))
	for _, name := range r.order {
		t := r.tools[name]
		defs = append(defs, engine.ToolDefinition{
			Name:        t.Name,
			Description: t.Description,
			Parameters:  t.Parameters,
		})
	}
	return defs
}

// Names returns the registered capability names in registration order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// IsWrite reports whether the named capability mutates state.
func (r *Registry) IsWrite(name string) bool {
	return r.tools[name].Write
}

func errorPayload(msg string) map[string]any {
	return map[string]any{"status": "error", "message": msg}
}

func objectSchema(properties map[string]any, required ...string) map[string]any {
	schema := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}
