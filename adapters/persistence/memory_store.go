package persistence

import (
	"context"
	"reflect"
	"sync"

	"github.com/khoahotran/virtual-study-partner/internal/domain/document"
)

// MemoryStore keeps collections in-process. It backs the "memory" driver
// and the tests; documents are returned in insertion order.
type MemoryStore struct {
	mu      sync.RWMutex
	data    map[string][]document.Document
	uniques map[string][]string // collection -> unique fields
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		data:    make(map[string][]document.Document),
		uniques: make(map[string][]string),
	}
}

func matches(doc, filter document.Document) bool {
	for k, want := range filter {
		got, ok := doc[k]
		if !ok || !reflect.DeepEqual(got, want) {
			return false
		}
	}
	return true
}

// conflicts reports whether candidate collides with a stored document on a
// unique field. skip is the index of the document being updated, or -1.
func (m *MemoryStore) conflicts(collection string, candidate document.Document, skip int) bool {
	for _, field := range m.uniques[collection] {
		v, ok := candidate[field]
		if !ok {
			continue
		}
		for i, existing := range m.data[collection] {
			if i != skip && reflect.DeepEqual(existing[field], v) {
				return true
			}
		}
	}
	return false
}

func (m *MemoryStore) InsertOne(_ context.Context, collection string, doc document.Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.conflicts(collection, doc, -1) {
		return ErrDuplicateKey
	}
	m.data[collection] = append(m.data[collection], doc.Clone())
	return nil
}

func (m *MemoryStore) FindOne(_ context.Context, collection string, filter document.Document) (document.Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, doc := range m.data[collection] {
		if matches(doc, filter) {
			return doc.Clone(), nil
		}
	}
	return nil, ErrNoDocument
}

func (m *MemoryStore) FindAll(_ context.Context, collection string) ([]document.Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	docs := make([]document.Document, 0, len(m.data[collection]))
	for _, doc := range m.data[collection] {
		docs = append(docs, doc.Clone())
	}
	return docs, nil
}

func (m *MemoryStore) UpdateOne(_ context.Context, collection string, filter, set document.Document) (UpdateResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, doc := range m.data[collection] {
		if !matches(doc, filter) {
			continue
		}
		merged := doc.Merge(set)
		if reflect.DeepEqual(merged, doc) {
			return UpdateResult{Matched: 1}, nil
		}
		if m.conflicts(collection, merged, i) {
			return UpdateResult{}, ErrDuplicateKey
		}
		m.data[collection][i] = merged
		return UpdateResult{Matched: 1, Modified: 1}, nil
	}
	return UpdateResult{}, nil
}

func (m *MemoryStore) EnsureUnique(_ context.Context, collection, field string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, f := range m.uniques[collection] {
		if f == field {
			return nil
		}
	}
	m.uniques[collection] = append(m.uniques[collection], field)
	return nil
}

// Len is a test helper.
func (m *MemoryStore) Len(collection string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.data[collection])
}

func (m *MemoryStore) Ping(context.Context) error { return nil }

func (m *MemoryStore) Close(context.Context) error { return nil }
