package cache

import (
	"context"
	"encoding/json"
	"sync"
	"time"
)

type item struct {
	data    []byte
	expires time.Time
}

// Memory is a process-local Cache. Values are stored encoded so callers
// never share mutable state.
type Memory struct {
	mu    sync.RWMutex
	items map[string]item
	now   func() time.Time
}

var _ Cache = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{items: make(map[string]item), now: time.Now}
}

func (m *Memory) Get(_ context.Context, key string, dst any) (bool, error) {
	m.mu.RLock()
	it, ok := m.items[key]
	m.mu.RUnlock()
	if !ok || !it.expires.After(m.now()) {
		return false, nil
	}
	if err := json.Unmarshal(it.data, dst); err != nil {
		return false, err
	}
	return true, nil
}

func (m *Memory) Set(_ context.Context, key string, v any, ttl time.Duration) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.items[key] = item{data: data, expires: m.now().Add(ttl)}
	m.mu.Unlock()
	return nil
}

func (m *Memory) Delete(_ context.Context, keys ...string) error {
	m.mu.Lock()
	for _, k := range keys {
		delete(m.items, k)
	}
	m.mu.Unlock()
	return nil
}

// StartSweeper removes expired entries every interval until ctx is done.
func (m *Memory) StartSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				now := m.now()
				m.mu.Lock()
				for k, it := range m.items {
					if !it.expires.After(now) {
						delete(m.items, k)
					}
				}
				m.mu.Unlock()
			}
		}
	}()
}
