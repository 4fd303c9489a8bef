package orchestrator

import "github.com/coursemate/coursemate/core"

const (
	// DefaultMaxRounds bounds backend rounds when the caller does not choose.
	DefaultMaxRounds = 2

	// maxTotalToolUses is the safety ceiling on tool invocations per run,
	// independent of the round budget. Once reached, further rounds run
	// without a tool catalog, forcing a text-only answer.
	maxTotalToolUses = 5
)

// Fixed user-facing fallback strings. Raw backend error text is never
// surfaced to avoid leaking provider internals.
const (
	noResponseMessage      = "No response generated"
	firstRoundErrorMessage = "I encountered an error while processing your request. Please try again."
	salvageFailedMessage   = "I was unable to complete your request due to an error."
	synthesisFailedMessage = "I was unable to generate a complete response."
	toolFailurePrefix      = "Tool execution failed: "
	toolSummaryPreamble    = "Based on the search results:\n\n"
)

// RoundState is the mutable record of one orchestration run: round counter,
// accumulated messages, tool-usage counters and terminal flags. It is owned
// exclusively by the Orchestrator that created it, never shared across runs
// and discarded once the final answer is returned, so it needs no locking.
type RoundState struct {
	initialQuery   string
	historyContext string
	maxRounds      int
	currentRound   int

	// messages is the append-only conversation log and the sole memory
	// passed to the backend each round. Entries are never rewritten.
	messages     []core.Content
	systemPrompt string

	totalToolsUsed int
	toolsThisRound int

	hasFinalResponse bool
	finalText        string
	failed           bool
	failureText      string
}

// NewRoundState creates the state for one run. The system prompt is built
// once here by combining the static policy prompt with the prior-conversation
// summary; both are immutable afterwards. maxRounds values below 1 fall back
// to DefaultMaxRounds.
func NewRoundState(query, historyContext string, maxRounds int, basePrompt string) *RoundState {
	if maxRounds < 1 {
		maxRounds = DefaultMaxRounds
	}
	if basePrompt == "" {
		basePrompt = DefaultSystemPrompt
	}

	systemPrompt := basePrompt
	if historyContext != "" {
		systemPrompt += historyPreamble + historyContext
	}

	return &RoundState{
		initialQuery:   query,
		historyContext: historyContext,
		maxRounds:      maxRounds,
		systemPrompt:   systemPrompt,
		messages:       []core.Content{core.NewUserText(query)},
	}
}

// IsComplete reports whether the run is terminal: a final response is set, a
// failure is set, or the round budget is exhausted.
func (s *RoundState) IsComplete() bool {
	return s.hasFinalResponse || s.failed || s.currentRound >= s.maxRounds
}

// ShouldContinueRounds is the gate checked after a tool round to decide
// whether to loop again. A round that produced plain text is already terminal
// via the response path, so this predicate additionally requires that at
// least one tool was used in the just-completed round.
func (s *RoundState) ShouldContinueRounds() bool {
	return !s.hasFinalResponse &&
		!s.failed &&
		s.currentRound < s.maxRounds &&
		s.toolsThisRound > 0
}

// ShouldAllowTools reports whether the in-flight backend call may carry a
// tool catalog. Checked after StartNewRound, so the final budgeted round and
// any round past the safety ceiling run without tools, forcing a text-only
// answer.
func (s *RoundState) ShouldAllowTools() bool {
	return s.currentRound < s.maxRounds && s.totalToolsUsed < maxTotalToolUses
}

// StartNewRound increments the round counter and resets the per-round tool
// counter. Called exactly once per backend call on the normal path.
func (s *RoundState) StartNewRound() {
	s.currentRound++
	s.toolsThisRound = 0
}

// RecordToolUse adds n attempted tool invocations to both counters.
func (s *RoundState) RecordToolUse(n int) {
	s.toolsThisRound += n
	s.totalToolsUsed += n
}

// SetFinal records the final response. It is a one-shot terminal write;
// later calls on an already terminal state are ignored.
func (s *RoundState) SetFinal(text string) {
	if s.hasFinalResponse || s.failed {
		return
	}
	s.finalText = text
	s.hasFinalResponse = true
}

// SetFailure records a terminal failure with a user-facing message. It is a
// one-shot terminal write; later calls on an already terminal state are ignored.
func (s *RoundState) SetFailure(text string) {
	if s.hasFinalResponse || s.failed {
		return
	}
	s.failureText = text
	s.failed = true
}

// FinalAnswer returns the failure message if the run failed, otherwise the
// final text, otherwise a fixed placeholder. The result is always non-empty.
func (s *RoundState) FinalAnswer() string {
	if s.failed {
		return s.failureText
	}
	if s.finalText == "" {
		return noResponseMessage
	}
	return s.finalText
}

// CurrentRound returns the number of backend calls started on the normal path.
func (s *RoundState) CurrentRound() int { return s.currentRound }

// TotalToolsUsed returns the monotonic tool-usage counter for the run.
func (s *RoundState) TotalToolsUsed() int { return s.totalToolsUsed }

// Messages returns a copy of the conversation log for safe external reads;
// the backend request path uses the same copy semantics.
func (s *RoundState) Messages() []core.Content {
	messages := make([]core.Content, len(s.messages))
	copy(messages, s.messages)
	return messages
}

// appendMessage adds one turn to the append-only log.
func (s *RoundState) appendMessage(c core.Content) {
	s.messages = append(s.messages, c)
}
