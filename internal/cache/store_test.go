package cache

import (
	"errors"
	"sync"
)

// memStore is an in-memory ports.DocumentStore that counts writes.
type memStore struct {
	mu      sync.Mutex
	data    []byte
	loadErr error
	saveErr error
	writes  int
}

func (s *memStore) Load() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	return append([]byte(nil), s.data...), nil
}

func (s *memStore) Save(data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveErr != nil {
		return s.saveErr
	}
	s.data = append([]byte(nil), data...)
	s.writes++
	return nil
}

func (s *memStore) Path() string { return "mem" }

func (s *memStore) Writes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writes
}

var errDiskFull = errors.New("disk full")
