package tool

import (
	"context"
	"fmt"
	"time"

	"github.com/coursemate/coursemate/logging"
	"github.com/coursemate/coursemate/model"
)

// Registry maps tool names to implementations and resolves the backend's
// tool call requests. It implements the executor contract expected by the
// orchestrator: look up, validate and run one named tool per call.
//
// Registration is expected to happen during setup; Execute may then be called
// concurrently.
type Registry struct {
	tools  map[string]Tool
	order  []string
	logger logging.Logger
}

// NewRegistry constructs an empty registry. A nil logger is substituted with
// a NoOpLogger.
func NewRegistry(logger logging.Logger) *Registry {
	if logger == nil {
		logger = logging.NoOpLogger{}
	}
	return &Registry{tools: make(map[string]Tool), logger: logger}
}

// Register adds a tool, replacing any previous tool with the same name.
func (r *Registry) Register(t Tool) {
	if _, exists := r.tools[t.Name()]; !exists {
		r.order = append(r.order, t.Name())
	}
	r.tools[t.Name()] = t
}

// Len reports the number of registered tools.
func (r *Registry) Len() int { return len(r.tools) }

// Definitions returns the tool catalog in registration order, in the
// normalized shape sent to the backend.
func (r *Registry) Definitions() []model.ToolDefinition {
	defs := make([]model.ToolDefinition, 0, len(r.order))
	for _, name := range r.order {
		t := r.tools[name]
		defs = append(defs, model.ToolDefinition{
			Name:        t.Name(),
			Description: t.Description(),
			Parameters:  t.Parameters(),
		})
	}
	return defs
}

// Execute runs the named tool with the given arguments. Argument keys are not
// validated by the caller; schema validation happens in the tool itself.
// Unknown tool names fail with a *ToolError.
func (r *Registry) Execute(ctx context.Context, name string, args map[string]any) (string, error) {
	impl, ok := r.tools[name]
	if !ok {
		r.logger.Warn("tool.call.unknown", "tool", name)
		return "", NewToolError(name, fmt.Sprintf("tool %s not found", name), "UNKNOWN_TOOL")
	}

	start := time.Now()
	r.logger.Debug("tool.call.start", "tool", name)

	result, err := impl.Call(ctx, args)
	logging.LogToolCall(r.logger, name, time.Since(start), err)
	if err != nil {
		return "", err
	}

	return result, nil
}
