package dispatch

import (
	"errors"
	"sort"

	"github.com/matsen/alfpass/internal/storage"
)

// memStore is an in-memory Store. Insertion order stands in for created_at.
type memStore struct {
	secrets map[string]string
	order   map[string]int
	seq     int

	// failOn makes the named operation return errFake.
	failOn string
	// keepOnClear leaves this many entries behind after Clear.
	keepOnClear int
}

var errFake = errors.New("disk I/O error")

func newMemStore() *memStore {
	return &memStore{secrets: make(map[string]string), order: make(map[string]int)}
}

func (m *memStore) Save(label, secret string) error {
	if m.failOn == "save" {
		return &storage.StorageError{Op: storage.OpSave, Err: errFake}
	}
	m.seq++
	m.secrets[label] = secret
	m.order[label] = m.seq
	return nil
}

func (m *memStore) Get(label string) (string, error) {
	if m.failOn == "get" {
		return "", &storage.StorageError{Op: storage.OpGet, Err: errFake}
	}
	s, ok := m.secrets[label]
	if !ok {
		return "", storage.ErrNotFound
	}
	return s, nil
}

func (m *memStore) List() ([]string, error) {
	if m.failOn == "list" {
		return nil, &storage.StorageError{Op: storage.OpList, Err: errFake}
	}
	labels := make([]string, 0, len(m.secrets))
	for l := range m.secrets {
		labels = append(labels, l)
	}
	sort.Slice(labels, func(i, j int) bool { return m.order[labels[i]] > m.order[labels[j]] })
	return labels, nil
}

func (m *memStore) Delete(label string) (bool, error) {
	if m.failOn == "delete" {
		return false, &storage.StorageError{Op: storage.OpDelete, Err: errFake}
	}
	if _, ok := m.secrets[label]; !ok {
		return false, nil
	}
	delete(m.secrets, label)
	delete(m.order, label)
	return true, nil
}

func (m *memStore) Clear() (int, error) {
	if m.failOn == "clear" {
		return 0, &storage.StorageError{Op: storage.OpClear, Err: errFake}
	}
	n := len(m.secrets)
	labels, _ := m.List()
	for i, l := range labels {
		if i < m.keepOnClear {
			continue
		}
		delete(m.secrets, l)
		delete(m.order, l)
	}
	return n, nil
}
