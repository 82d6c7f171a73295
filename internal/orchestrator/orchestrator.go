// Package orchestrator turns one user turn into a live stream of output
// events and a finalized transcript update, driving the reasoning engine
// through as many capability-invocation steps as it asks for.
package orchestrator

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/sharunashwanth/mittai-agent/internal/engine"
	"github.com/sharunashwanth/mittai-agent/internal/observability"
	"github.com/sharunashwanth/mittai-agent/internal/session"
	"github.com/sharunashwanth/mittai-agent/internal/tools"
)

const defaultMaxSteps = 8

const systemPrompt = `You are a helpful assistant with strong reasoning capabilities. Think step-by-step and use the available tools in the correct sequence to answer the user.

Weather: you can provide current weather (current_weather) and a 5-day forecast (weather_forecast). Historical weather is not available; say so and offer the current weather or forecast instead.

Documents: when the conversation contains an uploaded document, answer from the document when the information is clearly present and say "According to the uploaded document...". When it is not present, say so explicitly, use web_search, and be transparent about the source.

Scheduling: when asked to schedule something conditional on weather, get the current date with current_datetime, compute the target date, check the forecast, check for an existing event with check_event_exists, and only then create_event. Explain your reasoning about the weather and any existing events.

Event queries: convert natural-language date expressions to YYYY-MM-DD using current_datetime first (tomorrow = today + 1 day, next week = today + 7), then call query_events with a date range and/or keyword.

When a tool fails, explain what went wrong and suggest an alternative. When you need missing information from the user, explain what you already determined and why you need it.`

// Orchestrator owns the run loop. Concurrent runs on different conversation
// ids are independent; concurrent runs on the same id are not serialized and
// interleave in transcript arrival order.
type Orchestrator struct {
	sessions *session.Manager
	eng      engine.Engine
	registry *tools.Registry
	metrics  *observability.Metrics
	maxSteps int
}

func New(sessions *session.Manager, eng engine.Engine, registry *tools.Registry, metrics *observability.Metrics, maxSteps int) *Orchestrator {
	if maxSteps <= 0 {
		maxSteps = defaultMaxSteps
	}
	return &Orchestrator{
		sessions: sessions,
		eng:      eng,
		registry: registry,
		metrics:  metrics,
		maxSteps: maxSteps,
	}
}

// Run appends the user turn, drives the engine to completion and streams
// output events as they are produced. The channel closes when the run is
// finalized; by then exactly one assistant turn has been appended, carrying
// whatever text was streamed even if the engine failed mid-run.
func (o *Orchestrator) Run(ctx context.Context, conversationID, userText string) <-chan Event {
	out := make(chan Event)
	go func() {
		defer close(out)
		o.run(ctx, conversationID, userText, out)
	}()
	return out
}

func (o *Orchestrator) run(ctx context.Context, conversationID, userText string, out chan<- Event) {
	o.sessions.AppendTurn(conversationID, session.Turn{Role: session.RoleUser, Content: userText})
	o.metrics.Turns.WithLabelValues(session.RoleUser).Inc()
	o.metrics.Conversations.Set(float64(o.sessions.Count()))

	// Full transcript so far, including the turn just appended and any
	// injected document text.
	msgs := contextMessages(o.sessions.Transcript(conversationID))
	defs := o.registry.Definitions()

	var answer strings.Builder
	emit := func(ev Event, kind string) error {
		select {
		case out <- ev:
			o.metrics.StreamEvents.WithLabelValues(kind).Inc()
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	for step := 0; step < o.maxSteps; step++ {
		stepStart := time.Now()
		res, err := o.eng.Step(ctx, msgs, defs, func(delta string) error {
			answer.WriteString(delta)
			return emit(TextDelta{Content: delta}, "text")
		})
		o.metrics.ObserveEngineStep(time.Since(stepStart))
		if err != nil {
			// Irrecoverable engine failure: terminate early, the text
			// already streamed is still committed below.
			break
		}
		if len(res.ToolCalls) == 0 {
			break
		}

		calls := make([]AnnouncedCall, len(res.ToolCalls))
		for i, tc := range res.ToolCalls {
			calls[i] = AnnouncedCall{Name: tc.Name, Args: tc.Arguments}
		}
		if err := emit(ToolCallAnnouncement{Calls: calls}, "tool_call"); err != nil {
			break
		}

		msgs = append(msgs, engine.Message{
			Role:      "assistant",
			Content:   res.Text,
			ToolCalls: res.ToolCalls,
		})
		for _, tc := range res.ToolCalls {
			msgs = append(msgs, engine.Message{
				Role:       "tool",
				ToolCallID: tc.ID,
				Content:    o.invoke(ctx, tc),
			})
		}
	}

	o.sessions.AppendTurn(conversationID, session.Turn{Role: session.RoleAssistant, Content: answer.String()})
	o.metrics.Turns.WithLabelValues(session.RoleAssistant).Inc()
}

// invoke dispatches one capability and renders its structured result for the
// engine's context. Dispatch never raises, so a failed tool comes back as an
// error payload the engine can narrate.
func (o *Orchestrator) invoke(ctx context.Context, tc engine.ToolCall) string {
	result := o.registry.Dispatch(ctx, tc.Name, tc.Arguments)
	o.metrics.ToolInvocations.WithLabelValues(tc.Name, outcomeOf(result)).Inc()

	payload, err := json.Marshal(result)
	if err != nil {
		payload = []byte(fmt.Sprintf(`{"status":"error","message":"unencodable result: %v"}`, err))
	}
	return string(payload)
}

func outcomeOf(result any) string {
	m, ok := result.(map[string]any)
	if !ok {
		return "ok"
	}
	if m["status"] == "error" {
		return "error"
	}
	if _, failed := m["error"]; failed {
		return "error"
	}
	return "ok"
}

func contextMessages(transcript []session.Turn) []engine.Message {
	msgs := make([]engine.Message, 0, len(transcript)+1)
	msgs = append(msgs, engine.Message{Role: "system", Content: systemPrompt})
	for _, t := range transcript {
		msgs = append(msgs, engine.Message{Role: t.Role, Content: t.Content})
	}
	return msgs
}
