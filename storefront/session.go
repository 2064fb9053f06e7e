package storefront

import "sync"

// SessionKeyUsername holds the logged-in shopper's display name.
const SessionKeyUsername = "username"

// SessionStore is the key-value storage that survives between screens.
type SessionStore interface {
	Get(key string) (string, bool)
	Set(key, value string)
	Delete(key string)
	Clear()
}

// MemorySession is a SessionStore kept in process memory.
type MemorySession struct {
	mu     sync.RWMutex
	values map[string]string
}

func NewMemorySession() *MemorySession {
	return &MemorySession{values: make(map[string]string)}
}

func (s *MemorySession) Get(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	return v, ok
}

func (s *MemorySession) Set(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
}

func (s *MemorySession) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
}

func (s *MemorySession) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values = make(map[string]string)
}
