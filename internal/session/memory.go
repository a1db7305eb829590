package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/SoniDharini/Fleet-Flow/internal/models"
)

// MemoryStore is an in-memory session store. Sessions do not survive a
// restart of the console.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string]models.Session
	now  func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string]models.Session), now: time.Now}
}

var _ Store = (*MemoryStore)(nil)

func (s *MemoryStore) Create(_ context.Context, sess models.Session) (string, error) {
	id := uuid.NewString()
	s.mu.Lock()
	s.data[id] = sess
	s.mu.Unlock()
	return id, nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (models.Session, error) {
	s.mu.RLock()
	sess, ok := s.data[id]
	s.mu.RUnlock()
	if !ok {
		return models.Session{}, ErrNotFound
	}
	if sess.Expired(s.now()) {
		// Expired; delete lazily
		s.mu.Lock()
		delete(s.data, id)
		s.mu.Unlock()
		return models.Session{}, ErrNotFound
	}
	return sess, nil
}

func (s *MemoryStore) Save(_ context.Context, id string, sess models.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.data[id]; !ok {
		return ErrNotFound
	}
	s.data[id] = sess
	return nil
}

func (s *MemoryStore) Update(_ context.Context, id string, fn func(*models.Session) error) (models.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.data[id]
	if !ok || sess.Expired(s.now()) {
		return models.Session{}, ErrNotFound
	}
	if err := fn(&sess); err != nil {
		return models.Session{}, err
	}
	s.data[id] = sess
	return sess, nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	delete(s.data, id)
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Sweep(_ context.Context, now time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for k, v := range s.data {
		if v.Expired(now) {
			delete(s.data, k)
			n++
		}
	}
	return n, nil
}

func (s *MemoryStore) List(_ context.Context) ([]Entry, error) {
	now := s.now()
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Entry, 0, len(s.data))
	for k, v := range s.data {
		if v.Expired(now) {
			continue
		}
		out = append(out, Entry{ID: k, Session: v})
	}
	return out, nil
}
