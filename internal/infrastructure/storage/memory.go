package storage

import (
	"context"
	"sort"
	"strings"
	"sync"
)

// MemoryStore almacén en memoria para desarrollo local y tests.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string]map[string]Document
}

// NewMemoryStore construye un almacén vacío.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string]map[string]Document)}
}

func (s *MemoryStore) Get(_ context.Context, collection, id string) (Document, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.data[collection][id]
	if !ok {
		return nil, false, nil
	}
	return copyDocument(doc), true, nil
}

func (s *MemoryStore) Set(_ context.Context, collection, id string, doc Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	col, ok := s.data[collection]
	if !ok {
		col = make(map[string]Document)
		s.data[collection] = col
	}
	col[strings.Clone(id)] = copyDocument(doc)
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, collection, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data[collection], id)
	return nil
}

// List devuelve los documentos ordenados por ID.
func (s *MemoryStore) List(_ context.Context, collection string, limit int) ([]Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	col := s.data[collection]
	ids := make([]string, 0, len(col))
	for id := range col {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	if limit >= 0 && len(ids) > limit {
		ids = ids[:limit]
	}
	out := make([]Entry, 0, len(ids))
	for _, id := range ids {
		out = append(out, Entry{ID: id, Data: copyDocument(col[id])})
	}
	return out, nil
}

func (s *MemoryStore) Close() error { return nil }

func copyDocument(d Document) Document {
	out := make(Document, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}
