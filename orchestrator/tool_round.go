package orchestrator

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/coursemate/coursemate/core"
	"github.com/coursemate/coursemate/model"
)

// runToolRound executes every requested tool in order, appends one combined
// tool-result turn carrying a result for each request and returns whether the
// loop should continue. A failing tool never aborts the round: the backend's
// next call needs a complete, well-formed result turn for each request it
// issued.
func (o *Orchestrator) runToolRound(ctx context.Context, runID string, state *RoundState, calls []model.ToolCall) bool {
	responses := o.dispatchCalls(ctx, runID, calls)

	state.RecordToolUse(len(calls))

	if len(responses) > 0 {
		parts := make([]core.Part, len(responses))
		for i, fr := range responses {
			parts[i] = core.FunctionResponsePart{FunctionResponse: fr}
		}
		state.appendMessage(core.Content{Role: core.RoleTool, Parts: parts})
	}

	return state.ShouldContinueRounds()
}

// dispatchCalls runs the batch, optionally with bounded parallelism. Results
// are always placed at the index of the originating request so the combined
// turn preserves request order; the backend correlates by id, not position,
// but concurrent dispatch must never silently reorder results.
func (o *Orchestrator) dispatchCalls(ctx context.Context, runID string, calls []model.ToolCall) []core.FunctionResponse {
	n := len(calls)
	responses := make([]core.FunctionResponse, n)

	// Fast path: single call or sequential dispatch.
	if n == 1 || o.toolParallelism < 2 {
		for i, tc := range calls {
			responses[i] = o.executeCall(ctx, runID, tc)
		}
		return responses
	}

	maxPar := o.toolParallelism
	if maxPar > n {
		maxPar = n
	}

	sem := make(chan struct{}, maxPar)
	var wg sync.WaitGroup

	batchStart := time.Now()
	for i := range calls {
		wg.Add(1)
		sem <- struct{}{}
		go func(idx int, tc model.ToolCall) {
			defer wg.Done()
			defer func() { <-sem }()
			responses[idx] = o.executeCall(ctx, runID, tc)
		}(i, calls[i])
	}
	wg.Wait()

	o.logger.Debug("orchestrator.tools.batch.complete",
		"run_id", runID,
		"count", n,
		"parallelism", maxPar,
		"duration_ms", time.Since(batchStart).Milliseconds(),
	)

	return responses
}

// executeCall invokes the Executor for one request and converts any failure
// (argument decoding, execution error, panic) into an inline result string so
// the run continues.
func (o *Orchestrator) executeCall(ctx context.Context, runID string, tc model.ToolCall) core.FunctionResponse {
	fr := core.FunctionResponse{ID: tc.ID, Name: tc.Name}

	args, err := tc.ArgumentMap()
	var result string
	if err == nil {
		func() { // panic safety
			defer func() {
				if r := recover(); r != nil {
					err = fmt.Errorf("panic: %v", r)
					o.logger.Error("orchestrator.tool.panic", "run_id", runID, "tool", tc.Name, "recover", r)
				}
			}()
			result, err = o.executor.Execute(ctx, tc.Name, args)
		}()
	}

	if err != nil {
		o.logger.Warn("orchestrator.tool.failed", "run_id", runID, "tool", tc.Name, "error", err.Error())
		fr.Response = toolFailurePrefix + err.Error()
		fr.Failed = true
		return fr
	}

	fr.Response = result
	return fr
}
