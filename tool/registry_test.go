package tool

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEchoTool(name string) *FunctionTool {
	params := map[string]any{"type": "object", "properties": map[string]any{}}
	return NewFunctionTool(name, "Echoes its name", params,
		func(_ context.Context, _ map[string]any) (string, error) {
			return name, nil
		})
}

func TestRegistry_RegisterAndExecute(t *testing.T) {
	r := NewRegistry(nil)
	r.Register(newEchoTool("search_course_content"))
	assert.Equal(t, 1, r.Len())

	result, err := r.Execute(context.Background(), "search_course_content", map[string]any{})
	assert.NoError(t, err)
	assert.Equal(t, "search_course_content", result)
}

func TestRegistry_UnknownTool(t *testing.T) {
	r := NewRegistry(nil)

	_, err := r.Execute(context.Background(), "missing", map[string]any{})
	require.Error(t, err)
	toolErr, ok := err.(*ToolError)
	assert.True(t, ok)
	assert.Equal(t, "UNKNOWN_TOOL", toolErr.Code)
	assert.Equal(t, "missing", toolErr.Tool)
}

func TestRegistry_DefinitionsInRegistrationOrder(t *testing.T) {
	r := NewRegistry(nil)
	r.Register(newEchoTool("get_course_outline"))
	r.Register(newEchoTool("search_course_content"))

	defs := r.Definitions()
	require.Len(t, defs, 2)
	assert.Equal(t, "get_course_outline", defs[0].Name)
	assert.Equal(t, "search_course_content", defs[1].Name)
	assert.Equal(t, "Echoes its name", defs[0].Description)
	assert.NotNil(t, defs[0].Parameters)
}

func TestRegistry_ReplaceKeepsOrder(t *testing.T) {
	r := NewRegistry(nil)
	r.Register(newEchoTool("a"))
	r.Register(newEchoTool("b"))

	params := map[string]any{"type": "object", "properties": map[string]any{}}
	replacement := NewFunctionTool("a", "Replaced", params,
		func(_ context.Context, _ map[string]any) (string, error) {
			return "v2", nil
		})
	r.Register(replacement)

	assert.Equal(t, 2, r.Len())
	defs := r.Definitions()
	assert.Equal(t, "a", defs[0].Name)
	assert.Equal(t, "Replaced", defs[0].Description)

	result, err := r.Execute(context.Background(), "a", map[string]any{})
	assert.NoError(t, err)
	assert.Equal(t, "v2", result)
}

func TestRegistry_ExecutePropagatesToolError(t *testing.T) {
	params := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"query": map[string]any{"type": "string"},
		},
		"required": []string{"query"},
	}
	r := NewRegistry(nil)
	r.Register(NewFunctionTool("search_course_content", "Search", params,
		func(_ context.Context, _ map[string]any) (string, error) {
			return "", nil
		}))

	_, err := r.Execute(context.Background(), "search_course_content", map[string]any{})
	require.Error(t, err)
	toolErr, ok := err.(*ToolError)
	assert.True(t, ok)
	assert.Equal(t, "VALIDATION_ERROR", toolErr.Code)
}
