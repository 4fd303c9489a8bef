package orchestrator

import (
	"context"
	"encoding/json"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/coursemate/coursemate/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestOrchestrator(executor Executor, parallelism int) *Orchestrator {
	backend := model.NewMockBackend("test")
	return New(backend, func(opts *Options) {
		opts.Tools = searchCatalog
		opts.Executor = executor
		opts.ToolParallelism = parallelism
	})
}

func TestDispatchCalls_ParallelPreservesOrder(t *testing.T) {
	// Later calls finish first; results must still land at the index of the
	// originating request.
	slowFirst := executorFunc(func(_ context.Context, _ string, args map[string]any) (string, error) {
		idx := args["idx"].(string)
		if idx == "0" {
			time.Sleep(30 * time.Millisecond)
		}
		return "result-" + idx, nil
	})

	o := newTestOrchestrator(slowFirst, 4)

	calls := make([]model.ToolCall, 4)
	for i := range calls {
		raw, _ := json.Marshal(map[string]string{"idx": fmt.Sprintf("%d", i)})
		calls[i] = model.ToolCall{ID: fmt.Sprintf("t%d", i), Name: "search_course_content", Arguments: raw}
	}

	responses := o.dispatchCalls(context.Background(), "run", calls)

	require.Len(t, responses, 4)
	for i, fr := range responses {
		assert.Equal(t, fmt.Sprintf("t%d", i), fr.ID)
		assert.Equal(t, fmt.Sprintf("result-%d", i), fr.Response)
	}
}

func TestDispatchCalls_BoundedParallelism(t *testing.T) {
	var active, peak int32
	counting := executorFunc(func(context.Context, string, map[string]any) (string, error) {
		cur := atomic.AddInt32(&active, 1)
		for {
			old := atomic.LoadInt32(&peak)
			if cur <= old || atomic.CompareAndSwapInt32(&peak, old, cur) {
				break
			}
		}
		time.Sleep(10 * time.Millisecond)
		atomic.AddInt32(&active, -1)
		return "ok", nil
	})

	o := newTestOrchestrator(counting, 2)

	calls := make([]model.ToolCall, 6)
	for i := range calls {
		calls[i] = model.ToolCall{ID: fmt.Sprintf("t%d", i), Name: "search_course_content", Arguments: json.RawMessage(`{}`)}
	}

	o.dispatchCalls(context.Background(), "run", calls)

	assert.LessOrEqual(t, atomic.LoadInt32(&peak), int32(2))
}

func TestExecuteCall_PanicRecovered(t *testing.T) {
	panicking := executorFunc(func(context.Context, string, map[string]any) (string, error) {
		panic("tool blew up")
	})

	o := newTestOrchestrator(panicking, 0)
	fr := o.executeCall(context.Background(), "run", model.ToolCall{
		ID: "t1", Name: "search_course_content", Arguments: json.RawMessage(`{}`),
	})

	assert.True(t, fr.Failed)
	assert.Contains(t, fr.Response, "Tool execution failed:")
	assert.Contains(t, fr.Response, "tool blew up")
}

func TestExecuteCall_MalformedArguments(t *testing.T) {
	var invoked bool
	executor := executorFunc(func(context.Context, string, map[string]any) (string, error) {
		invoked = true
		return "", nil
	})

	o := newTestOrchestrator(executor, 0)
	fr := o.executeCall(context.Background(), "run", model.ToolCall{
		ID: "t1", Name: "search_course_content", Arguments: json.RawMessage(`{not json`),
	})

	assert.True(t, fr.Failed)
	assert.Contains(t, fr.Response, "Tool execution failed:")
	assert.False(t, invoked, "executor never sees undecodable arguments")
}

func TestRunToolRound_SingleCombinedResultTurn(t *testing.T) {
	o := newTestOrchestrator(okExecutor("found it"), 0)
	state := NewRoundState("q", "", 2, "")
	state.StartNewRound()

	calls := []model.ToolCall{
		{ID: "t1", Name: "search_course_content", Arguments: json.RawMessage(`{"query":"a"}`)},
		{ID: "t2", Name: "search_course_content", Arguments: json.RawMessage(`{"query":"b"}`)},
	}

	cont := o.runToolRound(context.Background(), "run", state, calls)

	assert.True(t, cont, "round 1 of 2 continues")
	assert.Equal(t, 2, state.TotalToolsUsed())

	msgs := state.Messages()
	last := msgs[len(msgs)-1]
	responses := last.FunctionResponses()
	require.Len(t, responses, 2, "one combined turn, one result per request")
	assert.Equal(t, "t1", responses[0].ID)
	assert.Equal(t, "t2", responses[1].ID)
}
