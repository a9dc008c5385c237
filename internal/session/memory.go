package session

import (
	"context"
	"sync"
	"time"

	"regen-insight/server/internal/errs"
)

type memoryEntry struct {
	rec       Record
	expiresAt time.Time
}

// MemoryStore is an in-process Store used when Redis is disabled.
type MemoryStore struct {
	mu        sync.RWMutex
	ttl       time.Duration
	sessions  map[string]memoryEntry // token hash -> entry
	principal map[string]string      // kind:principal -> token hash
	now       func() time.Time
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		ttl:       ttl,
		sessions:  make(map[string]memoryEntry),
		principal: make(map[string]string),
		now:       time.Now,
	}
}

func (s *MemoryStore) Put(_ context.Context, tokenHash string, rec Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	pk := principalKey(rec.Kind, rec.PrincipalID)
	if old, ok := s.principal[pk]; ok {
		delete(s.sessions, old)
	}
	s.sessions[tokenHash] = memoryEntry{rec: rec, expiresAt: s.now().Add(s.ttl)}
	s.principal[pk] = tokenHash
	return nil
}

func (s *MemoryStore) Get(_ context.Context, tokenHash string) (*Record, error) {
	s.mu.RLock()
	entry, ok := s.sessions[tokenHash]
	s.mu.RUnlock()
	if !ok {
		return nil, errs.ErrSessionExpired
	}
	if s.now().After(entry.expiresAt) {
		s.mu.Lock()
		if cur, ok := s.sessions[tokenHash]; ok && s.now().After(cur.expiresAt) {
			delete(s.sessions, tokenHash)
			delete(s.principal, principalKey(cur.rec.Kind, cur.rec.PrincipalID))
		}
		s.mu.Unlock()
		return nil, errs.ErrSessionExpired
	}
	rec := entry.rec
	return &rec, nil
}

func (s *MemoryStore) Delete(_ context.Context, tokenHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if entry, ok := s.sessions[tokenHash]; ok {
		delete(s.sessions, tokenHash)
		delete(s.principal, principalKey(entry.rec.Kind, entry.rec.PrincipalID))
	}
	return nil
}

func (s *MemoryStore) DeleteByPrincipal(_ context.Context, kind, principalID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	pk := principalKey(kind, principalID)
	if hash, ok := s.principal[pk]; ok {
		delete(s.sessions, hash)
		delete(s.principal, pk)
	}
	return nil
}
