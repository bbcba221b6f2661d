// internal/app/store/announcements/memstore.go
package announcementstore

import (
	"context"
	"sync"

	"github.com/dalemusser/bulletin/internal/app/system/docfilter"
	"github.com/dalemusser/bulletin/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemStore keeps announcements in process memory. It backs the "memory"
// store backend and the service tests. It is safe for concurrent use.
type MemStore struct {
	mu   sync.RWMutex
	docs []bson.M
}

func NewMemStore() *MemStore {
	return &MemStore{}
}

func (m *MemStore) Find(ctx context.Context, p docfilter.Predicate) ([]bson.M, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []bson.M
	for _, d := range m.docs {
		if p.Match(d) {
			out = append(out, clone(d))
		}
	}
	return out, nil
}

func (m *MemStore) FindOne(ctx context.Context, id string) (bson.M, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	if i := m.indexOf(id); i >= 0 {
		return clone(m.docs[i]), nil
	}
	return nil, ErrNotFound
}

// Insert keeps a caller-supplied _id; otherwise it assigns a new ObjectID.
func (m *MemStore) Insert(ctx context.Context, doc bson.D) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	stored := make(bson.M, len(doc)+1)
	for _, e := range doc {
		stored[e.Key] = e.Value
	}
	if _, ok := stored[models.FieldID]; !ok {
		stored[models.FieldID] = primitive.NewObjectID()
	}

	m.mu.Lock()
	m.docs = append(m.docs, stored)
	m.mu.Unlock()

	return models.IDString(stored[models.FieldID]), nil
}

func (m *MemStore) UpdateOne(ctx context.Context, id string, set bson.D) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.indexOf(id)
	if i < 0 {
		return 0, nil
	}
	for _, e := range set {
		m.docs[i][e.Key] = e.Value
	}
	return 1, nil
}

func (m *MemStore) DeleteOne(ctx context.Context, id string) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.indexOf(id)
	if i < 0 {
		return 0, nil
	}
	m.docs = append(m.docs[:i], m.docs[i+1:]...)
	return 1, nil
}

// Ping always succeeds.
func (m *MemStore) Ping(ctx context.Context) error {
	return ctx.Err()
}

// Len returns the number of stored documents.
func (m *MemStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.docs)
}

// caller holds m.mu
func (m *MemStore) indexOf(id string) int {
	for i, d := range m.docs {
		if models.IDString(d[models.FieldID]) == id {
			return i
		}
	}
	return -1
}

func clone(d bson.M) bson.M {
	out := make(bson.M, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}
