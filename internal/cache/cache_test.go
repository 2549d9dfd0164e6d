package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyJoinsOperationAndArguments(t *testing.T) {
	assert.Equal(t, "servers", Key("servers"))
	assert.Equal(t, "players:main:xp:0:50", Key("players", "main", "xp", 0, 50))
	assert.Equal(t, "player_search:pro:Viper", Key("player_search", "pro", "Viper"))
}

func TestMemoryRoundTrip(t *testing.T) {
	c := NewMemory()

	_, ok := c.Get("missing")
	assert.False(t, ok)

	c.Set("servers", []string{"a", "b"}, time.Minute)
	got, ok := c.Get("servers")
	require.True(t, ok)
	assert.Equal(t, []string{"a", "b"}, got)

	c.Delete("servers")
	_, ok = c.Get("servers")
	assert.False(t, ok)
}

func TestMemoryEntriesExpire(t *testing.T) {
	c := NewMemory()
	c.Set("short", 1, 10*time.Millisecond)

	_, ok := c.Get("short")
	require.True(t, ok)

	time.Sleep(25 * time.Millisecond)
	_, ok = c.Get("short")
	assert.False(t, ok)
}
