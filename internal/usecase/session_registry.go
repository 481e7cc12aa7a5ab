package usecase

import (
	"context"
	"sync"
	"time"
)

type registryEntry[T any] struct {
	value    T
	lastSeen time.Time
}

// SessionRegistryはセッション(またはユーザー)ごとのオブジェクトを1つだけ作って使い回す
// 最初のForで作られ、Evictされるまで同じものを返す
type SessionRegistry[T any] struct {
	mu      sync.Mutex
	entries map[string]*registryEntry[T]
	build   func(ctx context.Context, key string) T
	now     func() time.Time
}

func NewSessionRegistry[T any](build func(ctx context.Context, key string) T) *SessionRegistry[T] {
	return &SessionRegistry[T]{
		entries: map[string]*registryEntry[T]{},
		build:   build,
		now:     time.Now,
	}
}

func (r *SessionRegistry[T]) For(ctx context.Context, key string) T {
	r.mu.Lock()
	defer r.mu.Unlock()

	if e, ok := r.entries[key]; ok {
		e.lastSeen = r.now()
		return e.value
	}
	v := r.build(ctx, key)
	r.entries[key] = &registryEntry[T]{value: v, lastSeen: r.now()}
	return v
}

// Evictはidle以上使われていないものを捨てる。捨てた数を返す
func (r *SessionRegistry[T]) Evict(idle time.Duration) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := r.now().Add(-idle)
	n := 0
	for k, e := range r.entries {
		if e.lastSeen.Before(cutoff) {
			delete(r.entries, k)
			n++
		}
	}
	return n
}
