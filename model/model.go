package model

import (
	"context"
	"encoding/json"

	"github.com/coursemate/coursemate/core"
)

// StopReason is the backend's signal for why generation stopped.
type StopReason string

const (
	// StopReasonToolUse indicates the backend requests one or more tool executions.
	StopReasonToolUse StopReason = "tool_use"
	// StopReasonEndTurn indicates a natural completion carrying the final text.
	StopReasonEndTurn StopReason = "end_turn"
	// StopReasonOther covers provider-specific reasons (length, content filter, ...).
	StopReasonOther StopReason = "other"
)

// ToolCall represents a function call request surfaced by a backend.
// Unified across vendors so downstream logic does not need per-provider branching.
type ToolCall struct {
	ID        string          `json:"id"`                  // Correlation id, echoed back in the result turn
	Name      string          `json:"name"`                // Tool name
	Arguments json.RawMessage `json:"arguments,omitempty"` // JSON object of arguments
}

// ArgumentMap decodes the call's raw JSON arguments into a map. An empty
// payload decodes to an empty map; keys are not validated here (validation
// is the executor's responsibility).
func (tc ToolCall) ArgumentMap() (map[string]any, error) {
	if len(tc.Arguments) == 0 {
		return map[string]any{}, nil
	}
	var args map[string]any
	if err := json.Unmarshal(tc.Arguments, &args); err != nil {
		return nil, err
	}
	return args, nil
}

// ToolDefinition declaratively exposes a callable function to the backend.
type ToolDefinition struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"` // JSON Schema
}

// Request captures the normalized backend input produced by the orchestrator.
type Request struct {
	System   string           `json:"system"`          // System prompt text
	Messages []core.Content   `json:"messages"`        // Ordered conversation turns
	Tools    []ToolDefinition `json:"tools,omitempty"` // Tool catalog; nil forces a text-only answer
}

// Response is the normalized backend output: either a final text answer or
// an ordered list of tool call requests, tagged with a stop reason.
type Response struct {
	Text       string     `json:"text,omitempty"`
	ToolCalls  []ToolCall `json:"tool_calls,omitempty"`
	StopReason StopReason `json:"stop_reason"`
}

// AssistantContent converts the response into an assistant conversation turn
// preserving text before tool calls, matching the order providers emit them.
func (r *Response) AssistantContent() core.Content {
	parts := make([]core.Part, 0, len(r.ToolCalls)+1)
	if r.Text != "" {
		parts = append(parts, core.TextPart{Text: r.Text})
	}
	for _, tc := range r.ToolCalls {
		parts = append(parts, core.FunctionCallPart{FunctionCall: core.FunctionCall{
			ID:        tc.ID,
			Name:      tc.Name,
			Arguments: string(tc.Arguments),
		}})
	}
	return core.Content{Role: core.RoleAssistant, Parts: parts}
}

// Info contains metadata about a backend implementation.
type Info struct {
	Name          string `json:"name"`
	Provider      string `json:"provider"` // "anthropic", "openai", "mock", ...
	SupportsTools bool   `json:"supports_tools"`
}

// Backend is the minimal interface required to drive generation. Send blocks
// until the provider answers; callers impose any timeout through ctx.
type Backend interface {
	Send(ctx context.Context, req Request) (*Response, error)

	// Info returns information about the backend implementation.
	Info() Info
}
