// Package cache is the memoization layer in front of the upstream fetch
// operations. Entries expire by age only; at this data volume there is no
// capacity eviction. Concurrent misses for the same key may each hit
// upstream; per-key single-flight is the known extension point if upstream
// load ever becomes a concern.
package cache

import (
	"fmt"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/fx"
)

// Cache is injected everywhere a memoized read happens so tests can swap in
// a zero-TTL double.
type Cache interface {
	Get(key string) (any, bool)
	Set(key string, value any, ttl time.Duration)
	Delete(key string)
}

// Key builds a cache key from an operation name and its full argument tuple.
func Key(op string, args ...any) string {
	var b strings.Builder
	b.WriteString(op)
	for _, a := range args {
		b.WriteByte(':')
		fmt.Fprint(&b, a)
	}
	return b.String()
}

type memory struct {
	store *gocache.Cache
}

func NewMemory() Cache {
	return &memory{store: gocache.New(gocache.NoExpiration, time.Minute)}
}

func (m *memory) Get(key string) (any, bool) {
	return m.store.Get(key)
}

func (m *memory) Set(key string, value any, ttl time.Duration) {
	m.store.Set(key, value, ttl)
}

func (m *memory) Delete(key string) {
	m.store.Delete(key)
}

var Module = fx.Provide(NewMemory)
