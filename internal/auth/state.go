package auth

import (
	"crypto/rand"
	"encoding/base64"
	"sync"
	"time"
)

const stateTTL = 10 * time.Minute

// stateStore 一次性 OAuth state 令牌，带过期清理
type stateStore struct {
	mu    sync.Mutex
	items map[string]time.Time
}

func newStateStore() *stateStore {
	return &stateStore{
		items: make(map[string]time.Time),
	}
}

func (s *stateStore) issue() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.purgeExpiredLocked(time.Now())

	state := newRandomToken(24)
	s.items[state] = time.Now().Add(stateTTL)
	return state
}

func (s *stateStore) consume(state string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.purgeExpiredLocked(time.Now())

	expiresAt, ok := s.items[state]
	if !ok {
		return false
	}
	delete(s.items, state)
	return time.Now().Before(expiresAt)
}

func (s *stateStore) purgeExpiredLocked(now time.Time) {
	for k, v := range s.items {
		if now.After(v) {
			delete(s.items, k)
		}
	}
}

func newRandomToken(n int) string {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		// crypto/rand 失败说明系统熵源不可用，直接 panic
		panic(err)
	}
	return base64.RawURLEncoding.EncodeToString(b)
}
