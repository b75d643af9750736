package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestInvalidateBySpace(t *testing.T) {
	c := NewInstance(time.Minute)
	require.True(t, c.Set("ws-1", 0, Key("ws-1", "list", map[string]interface{}{"page": 1}), 1))
	require.True(t, c.Set("ws-1", 0, Key("ws-1", "list", map[string]interface{}{"page": 2}), 2))
	require.True(t, c.Set("ws-10", 0, Key("ws-10", "list", map[string]interface{}{"page": 1}), 3))

	c.Invalidate("ws-1")

	_, ok := c.Get(Key("ws-1", "list", map[string]interface{}{"page": 1}))
	require.False(t, ok)
	_, ok = c.Get(Key("ws-1", "list", map[string]interface{}{"page": 2}))
	require.False(t, ok)
	value, ok := c.Get(Key("ws-10", "list", map[string]interface{}{"page": 1}))
	require.True(t, ok)
	require.Equal(t, 3, value)
}

func TestSetAfterInvalidateIsDropped(t *testing.T) {
	c := NewInstance(time.Minute)
	key := Key("ws-1", "summary", nil)

	// a reader captured the generation, then a writer committed and invalidated
	generation := c.Generation("ws-1")
	c.Invalidate("ws-1")

	require.False(t, c.Set("ws-1", generation, key, "stale"))
	_, ok := c.Get(key)
	require.False(t, ok)

	require.True(t, c.Set("ws-1", c.Generation("ws-1"), key, "fresh"))
	value, ok := c.Get(key)
	require.True(t, ok)
	require.Equal(t, "fresh", value)
}

func TestGenerationIsPerSpace(t *testing.T) {
	c := NewInstance(time.Minute)
	generation := c.Generation("ws-2")
	c.Invalidate("ws-1")
	require.Equal(t, generation, c.Generation("ws-2"))
	require.True(t, c.Set("ws-2", generation, Key("ws-2", "list", nil), 1))
}

func TestKeyIsStable(t *testing.T) {
	a := Key("ws1", "list", map[string]interface{}{"page": 1, "status": "pending", "user": "u1"})
	b := Key("ws1", "list", map[string]interface{}{"user": "u1", "status": "pending", "page": 1})
	require.Equal(t, a, b)
	require.Equal(t, "ws:ws1:list|page=1|status=pending|user=u1", a)
}
