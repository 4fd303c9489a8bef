package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContent_TextConcatenatesTextParts(t *testing.T) {
	c := Content{
		Role: RoleAssistant,
		Parts: []Part{
			TextPart{Text: "Hello "},
			FunctionCallPart{FunctionCall: FunctionCall{ID: "t1", Name: "search"}},
			TextPart{Text: "world"},
		},
	}
	assert.Equal(t, "Hello world", c.Text())
}

func TestContent_FunctionCallsAndResponses(t *testing.T) {
	c := Content{
		Role: RoleTool,
		Parts: []Part{
			FunctionResponsePart{FunctionResponse: FunctionResponse{ID: "t1", Name: "search", Response: "r1"}},
			FunctionResponsePart{FunctionResponse: FunctionResponse{ID: "t2", Name: "search", Response: "r2", Failed: true}},
		},
	}

	assert.Empty(t, c.FunctionCalls())
	responses := c.FunctionResponses()
	require.Len(t, responses, 2)
	assert.Equal(t, "t1", responses[0].ID)
	assert.True(t, responses[1].Failed)
	assert.Empty(t, c.Text())
}

func TestNewUserText(t *testing.T) {
	c := NewUserText("hi")
	assert.Equal(t, RoleUser, c.Role)
	assert.Equal(t, "hi", c.Text())
}

func TestNewAssistantText(t *testing.T) {
	c := NewAssistantText("hello")
	assert.Equal(t, RoleAssistant, c.Role)
	assert.Equal(t, "hello", c.Text())
}

func TestSession_AddExchange(t *testing.T) {
	s := NewSession("s1")
	before := s.Updated

	s.AddExchange(Exchange{Query: "q", Answer: "a"})

	exchanges := s.Exchanges()
	require.Len(t, exchanges, 1)
	assert.False(t, exchanges[0].At.IsZero(), "zero timestamp is filled in")
	assert.False(t, s.Updated.Before(before))
}

func TestSession_ExchangesReturnsCopy(t *testing.T) {
	s := NewSession("s1")
	s.AddExchange(Exchange{Query: "q", Answer: "a", At: time.Now()})

	exchanges := s.Exchanges()
	exchanges[0].Query = "mutated"

	assert.Equal(t, "q", s.Exchanges()[0].Query)
}

func TestSession_Clone(t *testing.T) {
	s := NewSession("s1")
	s.AddExchange(Exchange{Query: "q1", Answer: "a1", At: time.Now()})

	clone := s.Clone()
	clone.AddExchange(Exchange{Query: "q2", Answer: "a2", At: time.Now()})

	assert.Len(t, s.Exchanges(), 1)
	assert.Len(t, clone.Exchanges(), 2)
	assert.Equal(t, s.ID, clone.ID)
}

func TestNewID(t *testing.T) {
	a := NewID()
	b := NewID()
	assert.NotEmpty(t, a)
	assert.NotEqual(t, a, b)
}
