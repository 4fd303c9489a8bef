package orchestrator

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewRoundState_Defaults(t *testing.T) {
	state := NewRoundState("What is X?", "", 0, "")

	assert.Equal(t, DefaultMaxRounds, state.maxRounds)
	assert.Equal(t, DefaultSystemPrompt, state.systemPrompt)
	assert.Equal(t, 0, state.CurrentRound())
	assert.Len(t, state.Messages(), 1)
	assert.Equal(t, "What is X?", state.Messages()[0].Text())
}

func TestNewRoundState_HistoryFoldedIntoSystemPrompt(t *testing.T) {
	state := NewRoundState("follow-up", "User: hi\nAssistant: hello", 2, "base prompt")

	assert.True(t, strings.HasPrefix(state.systemPrompt, "base prompt"))
	assert.Contains(t, state.systemPrompt, "Previous conversation:")
	assert.Contains(t, state.systemPrompt, "User: hi")
	// History is folded into the system prompt, never into the message log.
	assert.Len(t, state.Messages(), 1)
}

func TestRoundState_IsComplete(t *testing.T) {
	state := NewRoundState("q", "", 2, "p")
	assert.False(t, state.IsComplete())

	state.StartNewRound()
	assert.False(t, state.IsComplete())

	state.StartNewRound()
	assert.True(t, state.IsComplete(), "round budget exhausted")

	fresh := NewRoundState("q", "", 2, "p")
	fresh.SetFinal("answer")
	assert.True(t, fresh.IsComplete())

	failed := NewRoundState("q", "", 2, "p")
	failed.SetFailure("boom")
	assert.True(t, failed.IsComplete())
}

func TestRoundState_ShouldContinueRounds(t *testing.T) {
	state := NewRoundState("q", "", 2, "p")
	state.StartNewRound()

	// No tools used this round: the response path is terminal instead.
	assert.False(t, state.ShouldContinueRounds())

	state.RecordToolUse(1)
	assert.True(t, state.ShouldContinueRounds())

	// Final response wins over everything.
	state.SetFinal("done")
	assert.False(t, state.ShouldContinueRounds())
}

func TestRoundState_ShouldContinueRounds_BudgetExhausted(t *testing.T) {
	state := NewRoundState("q", "", 1, "p")
	state.StartNewRound()
	state.RecordToolUse(1)

	assert.False(t, state.ShouldContinueRounds(), "no rounds left")
}

func TestRoundState_ShouldAllowTools(t *testing.T) {
	state := NewRoundState("q", "", 3, "p")
	assert.True(t, state.ShouldAllowTools())

	state.StartNewRound()
	state.RecordToolUse(maxTotalToolUses)
	assert.False(t, state.ShouldAllowTools(), "safety ceiling reached")

	other := NewRoundState("q", "", 2, "p")
	other.StartNewRound()
	assert.True(t, other.ShouldAllowTools())
	other.StartNewRound()
	assert.False(t, other.ShouldAllowTools(), "final budgeted round is text-only")
}

func TestRoundState_ToolCounters(t *testing.T) {
	state := NewRoundState("q", "", 3, "p")

	state.StartNewRound()
	state.RecordToolUse(2)
	assert.Equal(t, 2, state.toolsThisRound)
	assert.Equal(t, 2, state.TotalToolsUsed())

	state.StartNewRound()
	assert.Equal(t, 0, state.toolsThisRound, "per-round counter resets")
	assert.Equal(t, 2, state.TotalToolsUsed(), "run counter accumulates")

	state.RecordToolUse(3)
	assert.Equal(t, 5, state.TotalToolsUsed())
}

func TestRoundState_TerminalWritesAreOneShot(t *testing.T) {
	state := NewRoundState("q", "", 2, "p")
	state.SetFinal("first")
	state.SetFinal("second")
	assert.Equal(t, "first", state.FinalAnswer())

	state.SetFailure("late failure")
	assert.Equal(t, "first", state.FinalAnswer())

	failed := NewRoundState("q", "", 2, "p")
	failed.SetFailure("broken")
	failed.SetFinal("too late")
	assert.Equal(t, "broken", failed.FinalAnswer())
}

func TestRoundState_FinalAnswerFallback(t *testing.T) {
	state := NewRoundState("q", "", 2, "p")
	assert.Equal(t, noResponseMessage, state.FinalAnswer())
}

func TestRoundState_MessagesAreCopied(t *testing.T) {
	state := NewRoundState("q", "", 2, "p")
	msgs := state.Messages()
	msgs[0].Role = "mutated"

	assert.Equal(t, "user", state.Messages()[0].Role)
}
