// Package engine drives the black-box reasoning model. One Step call is one
// reasoning turn: the model streams natural-language deltas and may request
// capability invocations; the caller executes them and feeds the results back
// as tool messages before the next Step.
package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Message is one entry of the context window handed to the model.
type Message struct {
	Role       string
	Content    string
	ToolCalls  []ToolCall // assistant messages that requested capabilities
	ToolCallID string     // tool-result messages
}

// ToolCall is a capability-invocation request surfaced by the model.
type ToolCall struct {
	ID           string
	Name         string
	Arguments    map[string]any
	RawArguments string
}

// ToolDefinition declaratively exposes a capability to the model.
type ToolDefinition struct {
	Name        string
	Description string
	Parameters  map[string]any // JSON schema
}

// DeltaHandler receives streaming text fragments.
type DeltaHandler func(delta string) error

// StepResult is the outcome of one reasoning step: the full text produced by
// the step and the capability invocations it requested, in request order.
type StepResult struct {
	Text      string
	ToolCalls []ToolCall
}

// Engine is the reasoning model behind the orchestration loop.
type Engine interface {
	Step(ctx context.Context, msgs []Message, tools []ToolDefinition, onDelta DeltaHandler) (StepResult, error)
	Mode() string
}

// Config controls engine construction.
type Config struct {
	Mode    string
	APIKey  string
	BaseURL string
	Model   string
}

// NewEngine picks an implementation by mode. In auto mode the OpenAI-backed
// engine is used when an API key is configured, otherwise the mock.
func NewEngine(cfg Config) (Engine, error) {
	mode := strings.ToLower(strings.TrimSpace(cfg.Mode))
	if mode == "" {
		mode = "auto"
	}
	switch mode {
	case "auto":
		if strings.TrimSpace(cfg.APIKey) != "" {
			return NewOpenAIEngine(cfg.APIKey, cfg.BaseURL, cfg.Model), nil
		}
		return NewMockEngine(), nil
	case "openai":
		if strings.TrimSpace(cfg.APIKey) == "" {
			return nil, errors.New("api key is required for openai engine mode")
		}
		return NewOpenAIEngine(cfg.APIKey, cfg.BaseURL, cfg.Model), nil
	case "mock":
		return NewMockEngine(), nil
	default:
		return nil, fmt.Errorf("unsupported engine mode %q", cfg.Mode)
	}
}
