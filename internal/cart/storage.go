package cart

import (
	"context"
	"sync"
)

// MemoryStorage keeps cart snapshots in process memory. It backs anonymous
// sessions and tests; the interface leaves room for a durable implementation.
type MemoryStorage struct {
	mu        sync.Mutex
	snapshots map[string][]byte
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		snapshots: make(map[string][]byte),
	}
}

func (s *MemoryStorage) Save(_ context.Context, key string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	buf := make([]byte, len(data))
	copy(buf, data)
	s.snapshots[key] = buf
	return nil
}

func (s *MemoryStorage) Load(_ context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, ok := s.snapshots[key]
	if !ok {
		return nil, nil
	}

	buf := make([]byte, len(data))
	copy(buf, data)
	return buf, nil
}

func (s *MemoryStorage) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.snapshots, key)
	return nil
}
