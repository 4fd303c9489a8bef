package session

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/coursemate/coursemate/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exchange(q, a string) core.Exchange {
	return core.Exchange{Query: q, Answer: a, At: time.Now()}
}

func TestInMemoryStore_HistoryUnknownSession(t *testing.T) {
	store := NewInMemoryStore()

	history, err := store.History("nope")
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestInMemoryStore_HistoryFormat(t *testing.T) {
	store := NewInMemoryStore()
	require.NoError(t, store.AppendExchange("s1", exchange("What is MCP?", "A protocol.")))

	history, err := store.History("s1")
	require.NoError(t, err)
	assert.Equal(t, "User: What is MCP?\nAssistant: A protocol.", history)
}

func TestInMemoryStore_HistoryTruncatesToMostRecent(t *testing.T) {
	store := NewInMemoryStore()
	for i := 1; i <= 4; i++ {
		q := fmt.Sprintf("q%d", i)
		a := fmt.Sprintf("a%d", i)
		require.NoError(t, store.AppendExchange("s1", exchange(q, a)))
	}

	history, err := store.History("s1")
	require.NoError(t, err)
	assert.NotContains(t, history, "q1")
	assert.NotContains(t, history, "q2")
	assert.Contains(t, history, "User: q3")
	assert.Contains(t, history, "User: q4")
	assert.Contains(t, history, "Assistant: a4")
}

func TestInMemoryStore_SetMaxHistory(t *testing.T) {
	store := NewInMemoryStore()
	store.SetMaxHistory(1)
	require.NoError(t, store.AppendExchange("s1", exchange("q1", "a1")))
	require.NoError(t, store.AppendExchange("s1", exchange("q2", "a2")))

	history, err := store.History("s1")
	require.NoError(t, err)
	assert.Equal(t, "User: q2\nAssistant: a2", history)

	// Values below 1 are ignored.
	store.SetMaxHistory(0)
	history, err = store.History("s1")
	require.NoError(t, err)
	assert.Equal(t, "User: q2\nAssistant: a2", history)
}

func TestInMemoryStore_GetReturnsClone(t *testing.T) {
	store := NewInMemoryStore()
	require.NoError(t, store.AppendExchange("s1", exchange("q1", "a1")))

	sess, err := store.Get("s1")
	require.NoError(t, err)
	sess.AddExchange(exchange("q2", "a2"))

	history, err := store.History("s1")
	require.NoError(t, err)
	assert.NotContains(t, history, "q2", "mutating the clone never touches the store")
}

func TestInMemoryStore_GetCreatesLazily(t *testing.T) {
	store := NewInMemoryStore()

	sess, err := store.Get("fresh")
	require.NoError(t, err)
	assert.Equal(t, "fresh", sess.ID)
	assert.Empty(t, sess.Exchanges())
}

func TestInMemoryStore_ConcurrentAppend(t *testing.T) {
	store := NewInMemoryStore()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_ = store.AppendExchange("s1", exchange(fmt.Sprintf("q%d", n), "a"))
		}(i)
	}
	wg.Wait()

	sess, err := store.Get("s1")
	require.NoError(t, err)
	assert.Len(t, sess.Exchanges(), 20)
}
