package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetSet(t *testing.T) {
	c := New(time.Minute)
	c.Set(Key("acct-1", "usage"), 42)

	v, ok := c.Get(Key("acct-1", "usage"))
	require.True(t, ok)
	assert.Equal(t, 42, v)

	_, ok = c.Get(Key("acct-2", "usage"))
	assert.False(t, ok)
}

func TestExpiry(t *testing.T) {
	c := New(10 * time.Millisecond)
	c.Set("k", "v")

	time.Sleep(20 * time.Millisecond)
	_, ok := c.Get("k")
	assert.False(t, ok)
}

func TestInvalidateAccount(t *testing.T) {
	c := New(time.Minute)
	c.Set(Key("acct-1", "usage"), 1)
	c.Set(Key("acct-1", "content"), 2)
	c.Set(Key("acct-2", "usage"), 3)

	c.InvalidateAccount("acct-1")

	_, ok := c.Get(Key("acct-1", "usage"))
	assert.False(t, ok)
	_, ok = c.Get(Key("acct-1", "content"))
	assert.False(t, ok)
	_, ok = c.Get(Key("acct-2", "usage"))
	assert.True(t, ok)
}
