package engine

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// MockEngine provides deterministic reasoning steps when no model API key is
// configured, and scripted step sequences for tests.
type MockEngine struct {
	mu        sync.Mutex
	scripted  []StepResult
	failAfter int
	stepErr   error
}

func NewMockEngine() *MockEngine { return &MockEngine{failAfter: -1} }

// Script queues step results returned by successive Step calls, in order.
func (e *MockEngine) Script(steps ...StepResult) *MockEngine {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.scripted = append(e.scripted, steps...)
	return e
}

// FailAfter makes the nth Step call (zero-based) return err instead of a result.
func (e *MockEngine) FailAfter(n int, err error) *MockEngine {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.failAfter = n
	e.stepErr = err
	return e
}

func (e *MockEngine) Mode() string { return "mock" }

func (e *MockEngine) Step(ctx context.Context, msgs []Message, _ []ToolDefinition, onDelta DeltaHandler) (StepResult, error) {
	select {
	case <-ctx.Done():
		return StepResult{}, ctx.Err()
	default:
	}

	e.mu.Lock()
	if e.failAfter == 0 {
		err := e.stepErr
		e.mu.Unlock()
		return StepResult{}, err
	}
	if e.failAfter > 0 {
		e.failAfter--
	}
	var res StepResult
	if len(e.scripted) > 0 {
		res = e.scripted[0]
		e.scripted = e.scripted[1:]
	} else {
		res = StepResult{Text: echoReply(msgs)}
	}
	e.mu.Unlock()

	if onDelta != nil && res.Text != "" {
		// Stream word-by-word so consumers see genuine incremental delivery.
		words := strings.SplitAfter(res.Text, " ")
		for _, w := range words {
			if w == "" {
				continue
			}
			if err := onDelta(w); err != nil {
				return StepResult{}, err
			}
		}
	}
	return res, nil
}

func echoReply(msgs []Message) string {
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].Role == "user" {
			text := strings.TrimSpace(msgs[i].Content)
			if text == "" {
				break
			}
			return fmt.Sprintf("I heard you: %s", text)
		}
	}
	return "I am listening."
}
