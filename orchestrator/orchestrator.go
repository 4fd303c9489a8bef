package orchestrator

import (
	"context"
	"time"

	"github.com/coursemate/coursemate/core"
	"github.com/coursemate/coursemate/logging"
	"github.com/coursemate/coursemate/model"
)

// Executor resolves one tool call requested by the backend. Argument keys are
// passed through unvalidated; validation is the executor's responsibility.
type Executor interface {
	Execute(ctx context.Context, name string, args map[string]any) (string, error)
}

// Options configures an Orchestrator.
type Options struct {
	// Tools is the catalog advertised to the backend while the round state
	// allows tool use. Empty means text-only generation.
	Tools []model.ToolDefinition
	// Executor resolves the backend's tool call requests. When nil, tool
	// requests terminate the loop and the synthesis path produces the answer.
	Executor Executor
	// MaxRounds bounds backend calls on the normal path (default 2). The
	// synthesis call does not count against it.
	MaxRounds int
	// SystemPrompt overrides the static policy prompt.
	SystemPrompt string
	// ToolParallelism bounds concurrent tool executions within a round.
	// Values below 2 dispatch sequentially.
	ToolParallelism int
	// Logger receives structured progress events. Defaults to NoOpLogger.
	Logger logging.Logger
}

// Orchestrator drives the sequential tool-augmented conversation loop. It is
// immutable after construction and safe for concurrent Generate calls; all
// per-run mutable state lives in a RoundState owned by a single call.
type Orchestrator struct {
	backend         model.Backend
	tools           []model.ToolDefinition
	executor        Executor
	maxRounds       int
	systemPrompt    string
	toolParallelism int
	logger          logging.Logger
}

// New constructs an Orchestrator for the given backend with optional overrides.
func New(backend model.Backend, optFns ...func(o *Options)) *Orchestrator {
	opts := Options{
		MaxRounds:    DefaultMaxRounds,
		SystemPrompt: DefaultSystemPrompt,
		Logger:       logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.MaxRounds < 1 {
		opts.MaxRounds = DefaultMaxRounds
	}
	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}

	return &Orchestrator{
		backend:         backend,
		tools:           opts.Tools,
		executor:        opts.Executor,
		maxRounds:       opts.MaxRounds,
		systemPrompt:    opts.SystemPrompt,
		toolParallelism: opts.ToolParallelism,
		logger:          opts.Logger,
	}
}

// Generate runs the full orchestration loop for one query and returns the
// final answer. historyContext is an optional prior-conversation summary
// folded into the system prompt.
//
// Every internal failure is converted into a usable string answer; the only
// non-nil error ever returned is the context's cancellation error, in which
// case no fabricated answer is produced.
func (o *Orchestrator) Generate(ctx context.Context, query, historyContext string) (string, error) {
	runID := core.NewID()
	state := NewRoundState(query, historyContext, o.maxRounds, o.systemPrompt)

	o.logger.Info("orchestrator.run.start",
		"run_id", runID,
		"max_rounds", state.maxRounds,
		"has_history", historyContext != "",
		"tool_count", len(o.tools),
	)

	for !state.IsComplete() {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		resp, err := o.executeRound(ctx, state)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return "", ctxErr
			}
			o.recoverBackendFailure(runID, state, err)
			break
		}

		if !o.processResponse(ctx, runID, state, resp) {
			break
		}
	}

	if err := ctx.Err(); err != nil {
		return "", err
	}

	// The tool-round gate can exit the loop on the last tool round with
	// results but no synthesized text; the extra no-tool call produces a
	// coherent answer instead of raw tool output.
	if !state.hasFinalResponse && !state.failed {
		text, err := o.synthesize(ctx, runID, state)
		if err != nil {
			return "", err
		}
		state.SetFinal(text)
	}

	answer := state.FinalAnswer()
	o.logger.Info("orchestrator.run.complete",
		"run_id", runID,
		"rounds", state.currentRound,
		"tools_used", state.totalToolsUsed,
		"failed", state.failed,
	)
	return answer, nil
}

// executeRound performs one backend call: starts a new round, builds the
// request from the round state and sends it.
func (o *Orchestrator) executeRound(ctx context.Context, state *RoundState) (*model.Response, error) {
	state.StartNewRound()

	req := model.Request{
		System:   state.systemPrompt,
		Messages: state.Messages(),
	}
	if len(o.tools) > 0 && state.ShouldAllowTools() {
		req.Tools = o.tools
	}

	start := time.Now()
	resp, err := o.backend.Send(ctx, req)
	logging.LogBackendCall(o.logger, o.backend.Info().Provider, time.Since(start), err)
	return resp, err
}

// processResponse appends the assistant turn and routes on the stop reason.
// It returns false when the loop should exit. A tool_use response with zero
// calls still takes the tool-round path: it records no usage, gates false and
// leaves the synthesis call to produce the answer.
func (o *Orchestrator) processResponse(ctx context.Context, runID string, state *RoundState, resp *model.Response) bool {
	state.appendMessage(resp.AssistantContent())

	if resp.StopReason == model.StopReasonToolUse && o.executor != nil {
		return o.runToolRound(ctx, runID, state, resp.ToolCalls)
	}

	state.SetFinal(resp.Text)
	return false
}

// recoverBackendFailure applies the asymmetric recovery policy for a failed
// backend call. Past the first round the conversation may hold a usable
// partial answer; salvaging it is best-effort, not a correctness guarantee.
// On the first round there is nothing to scavenge, so a generic user-facing
// message is surfaced instead of the raw backend error.
func (o *Orchestrator) recoverBackendFailure(runID string, state *RoundState, err error) {
	o.logger.Error("orchestrator.backend.error",
		"run_id", runID,
		"round", state.currentRound,
		"error", err.Error(),
	)

	if state.currentRound > 1 && len(state.messages) > 0 {
		if text := lastAssistantText(state.messages); text != "" {
			state.SetFinal(text)
			return
		}
		state.SetFinal(salvageFailedMessage)
		return
	}

	state.SetFailure(firstRoundErrorMessage)
}

// synthesize issues the one extra no-tool backend call that forces a coherent
// final answer from the accumulated context. It does not count against the
// round budget. If the call itself fails the salvage chain takes over. The
// returned error is non-nil only on context cancellation.
func (o *Orchestrator) synthesize(ctx context.Context, runID string, state *RoundState) (string, error) {
	if len(state.messages) <= 1 {
		return synthesisFailedMessage, nil
	}

	req := model.Request{
		System:   state.systemPrompt + synthesisInstruction,
		Messages: state.Messages(),
	}

	resp, err := o.backend.Send(ctx, req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		o.logger.Warn("orchestrator.synthesis.failed", "run_id", runID, "error", err.Error())
		return o.scavenge(state), nil
	}
	if resp.Text == "" {
		return o.scavenge(state), nil
	}
	return resp.Text, nil
}

// scavenge is the last-resort degradation chain once synthesis has failed:
// most recent assistant text, then successful tool results, then a fixed
// message. Strictly descending, never an unhandled failure.
func (o *Orchestrator) scavenge(state *RoundState) string {
	if text := lastAssistantText(state.messages); text != "" {
		return text
	}
	if summary := toolResultSummary(state.messages); summary != "" {
		return summary
	}
	return synthesisFailedMessage
}

// lastAssistantText scans the conversation in reverse for the most recent
// assistant turn containing non-empty text.
func lastAssistantText(messages []core.Content) string {
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role != core.RoleAssistant {
			continue
		}
		if text := messages[i].Text(); text != "" {
			return text
		}
	}
	return ""
}

// toolResultSummary joins the first two successful tool results into a short
// answer, mirroring what the backend would have been asked to synthesize.
func toolResultSummary(messages []core.Content) string {
	var results []string
	for _, msg := range messages {
		if msg.Role != core.RoleTool {
			continue
		}
		for _, fr := range msg.FunctionResponses() {
			if fr.Failed || fr.Response == "" {
				continue
			}
			results = append(results, fr.Response)
			if len(results) == 2 {
				return toolSummaryPreamble + results[0] + "; " + results[1]
			}
		}
	}
	if len(results) == 0 {
		return ""
	}
	return toolSummaryPreamble + results[0]
}
