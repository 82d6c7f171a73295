package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// OpenAIEngine runs reasoning steps over the Chat Completions API with
// function calling, streaming text deltas as they arrive. Pointed at
// OpenRouter by default so any hosted model name works.
type OpenAIEngine struct {
	client openai.Client
	model  string
}

func NewOpenAIEngine(apiKey, baseURL, model string) *OpenAIEngine {
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if strings.TrimSpace(baseURL) != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	return &OpenAIEngine{
		client: openai.NewClient(opts...),
		model:  model,
	}
}

func (e *OpenAIEngine) Mode() string { return "openai" }

func (e *OpenAIEngine) Step(ctx context.Context, msgs []Message, tools []ToolDefinition, onDelta DeltaHandler) (StepResult, error) {
	params := openai.ChatCompletionNewParams{
		Model:    e.model,
		Messages: buildMessages(msgs),
	}
	if len(tools) > 0 {
		defs := make([]openai.ChatCompletionToolParam, len(tools))
		for i, t := range tools {
			defs[i] = openai.ChatCompletionToolParam{
				Type: "function",
				Function: openai.FunctionDefinitionParam{
					Name:        t.Name,
					Description: openai.String(t.Description),
					Parameters:  t.Parameters,
				},
			}
		}
		params.Tools = defs
	}

	stream := e.client.Chat.Completions.NewStreaming(ctx, params)
	var text strings.Builder
	agg := map[int64]*aggCall{}
	order := []int64{}

	for stream.Next() {
		chunk := stream.Current()
		for _, choice := range chunk.Choices {
			if choice.Delta.Content != "" {
				text.WriteString(choice.Delta.Content)
				if onDelta != nil {
					if err := onDelta(choice.Delta.Content); err != nil {
						return StepResult{}, err
					}
				}
			}
			for _, tc := range choice.Delta.ToolCalls {
				ac, ok := agg[tc.Index]
				if !ok {
					ac = &aggCall{}
					agg[tc.Index] = ac
					order = append(order, tc.Index)
				}
				if tc.ID != "" {
					ac.id = tc.ID
				}
				if tc.Function.Name != "" {
					ac.name = tc.Function.Name
				}
				ac.args += tc.Function.Arguments
			}
		}
	}
	if err := stream.Err(); err != nil {
		return StepResult{}, fmt.Errorf("model streaming error: %w", err)
	}

	res := StepResult{Text: text.String()}
	for _, idx := range order {
		ac := agg[idx]
		args := map[string]any{}
		if strings.TrimSpace(ac.args) != "" {
			// Tolerate malformed argument JSON; the capability layer reports
			// missing arguments as a structured error the model can read.
			_ = json.Unmarshal([]byte(ac.args), &args)
		}
		res.ToolCalls = append(res.ToolCalls, ToolCall{
			ID:           ac.id,
			Name:         ac.name,
			Arguments:    args,
			RawArguments: ac.args,
		})
	}
	return res, nil
}

// aggCall accumulates streamed tool-call fragments until the step finishes.
type aggCall struct{ id, name, args string }

func buildMessages(msgs []Message) []openai.ChatCompletionMessageParamUnion {
	out := make([]openai.ChatCompletionMessageParamUnion, 0, len(msgs))
	for _, m := range msgs {
		switch m.Role {
		case "system":
			out = append(out, openai.SystemMessage(m.Content))
		case "user":
			out = append(out, openai.UserMessage(m.Content))
		case "assistant":
			if len(m.ToolCalls) == 0 {
				out = append(out, openai.AssistantMessage(m.Content))
				continue
			}
			calls := make([]openai.ChatCompletionMessageToolCallParam, len(m.ToolCalls))
			for i, tc := range m.ToolCalls {
				calls[i] = openai.ChatCompletionMessageToolCallParam{
					ID:   tc.ID,
					Type: "function",
					Function: openai.ChatCompletionMessageToolCallFunctionParam{
						Name:      tc.Name,
						Arguments: tc.RawArguments,
					},
				}
			}
			out = append(out, openai.ChatCompletionMessageParamUnion{
				OfAssistant: &openai.ChatCompletionAssistantMessageParam{
					Role:      "assistant",
					ToolCalls: calls,
				},
			})
		case "tool":
			out = append(out, openai.ToolMessage(m.Content, m.ToolCallID))
		default:
			if m.Content != "" {
				out = append(out, openai.UserMessage(m.Content))
			}
		}
	}
	return out
}
