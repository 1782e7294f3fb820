// Package storetest provides an in-memory PersonRepository for tests.
package storetest

import (
	"context"
	"errors"
	"reflect"
	"sync"

	"github.com/deppfellow/crm-api/internal/model"
	"github.com/deppfellow/crm-api/internal/repository"
)

// Memory keeps documents in insertion order and mimics the MongoDB
// semantics the API depends on: first match by person_id, $set merges and
// an unchanged merge reporting zero modified documents.
//
// The Err hooks, when set, are consulted before the matching operation and
// let tests simulate store failures.
type Memory struct {
	mu   sync.Mutex
	docs []model.Person

	FindAllErr func() error
	FindErr    func(id string) error
	InsertErr  func(doc model.Person) error
	UpdateErr  func(personID string) error
	DeleteErr  func(personID string) error
	PingErr    func() error
}

var _ repository.PersonRepository = (*Memory)(nil)

// NewMemory returns an empty store.
func NewMemory() *Memory {
	return &Memory{}
}

// Len returns the number of stored documents.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.docs)
}

// Docs returns a copy of every stored document in insertion order.
func (m *Memory) Docs() []model.Person {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]model.Person, 0, len(m.docs))
	for _, d := range m.docs {
		out = append(out, d.Clone())
	}
	return out
}

func (m *Memory) FindAll(_ context.Context) ([]model.Person, error) {
	if m.FindAllErr != nil {
		if err := m.FindAllErr(); err != nil {
			return nil, err
		}
	}
	return m.Docs(), nil
}

func (m *Memory) FindByStoreID(_ context.Context, id string) (model.Person, bool, error) {
	if m.FindErr != nil {
		if err := m.FindErr(id); err != nil {
			return nil, false, err
		}
	}
	if _, err := repository.ParseStoreID(id); err != nil {
		return nil, false, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for _, d := range m.docs {
		if d.StoreID() == id {
			return d.Clone(), true, nil
		}
	}
	return nil, false, nil
}

func (m *Memory) FindByPersonID(_ context.Context, personID string) (model.Person, bool, error) {
	if m.FindErr != nil {
		if err := m.FindErr(personID); err != nil {
			return nil, false, err
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if i := m.indexOf(personID); i >= 0 {
		return m.docs[i].Clone(), true, nil
	}
	return nil, false, nil
}

func (m *Memory) Insert(_ context.Context, doc model.Person) (string, error) {
	if m.InsertErr != nil {
		if err := m.InsertErr(doc); err != nil {
			return "", err
		}
	}

	stored := doc.Clone()
	id := stored.StoreID()
	if id == "" {
		id = repository.NewStoreID()
		stored[model.FieldStoreID] = id
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.docs = append(m.docs, stored)
	return id, nil
}

func (m *Memory) UpdateByPersonID(_ context.Context, personID string, fields model.Person) (model.UpdateResult, error) {
	if m.UpdateErr != nil {
		if err := m.UpdateErr(personID); err != nil {
			return model.UpdateResult{}, err
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.indexOf(personID)
	if i < 0 {
		return model.UpdateResult{}, nil
	}

	doc := m.docs[i]
	if newID, ok := fields[model.FieldStoreID]; ok && !reflect.DeepEqual(newID, doc[model.FieldStoreID]) {
		return model.UpdateResult{}, errors.New("the _id field is immutable")
	}

	result := model.UpdateResult{MatchedCount: 1}
	merged := doc.Clone()
	for k, v := range fields.Clone() {
		merged[k] = v
	}
	if !reflect.DeepEqual(merged, doc) {
		m.docs[i] = merged
		result.ModifiedCount = 1
	}
	return result, nil
}

func (m *Memory) DeleteByPersonID(_ context.Context, personID string) (int64, error) {
	if m.DeleteErr != nil {
		if err := m.DeleteErr(personID); err != nil {
			return 0, err
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.indexOf(personID)
	if i < 0 {
		return 0, nil
	}
	m.docs = append(m.docs[:i], m.docs[i+1:]...)
	return 1, nil
}

func (m *Memory) Ping(_ context.Context) error {
	if m.PingErr != nil {
		return m.PingErr()
	}
	return nil
}

// indexOf must be called with mu held.
func (m *Memory) indexOf(personID string) int {
	for i, d := range m.docs {
		if v, ok := d[model.FieldPersonID]; ok && v == personID {
			return i
		}
	}
	return -1
}
