// Package nvs is the consumed, not implemented, non-volatile key-value
// store port (spec §4.A). The real implementation lives in the hardware
// flash driver; this package only defines the contract and a RAM-only
// fallback that the host build and the tests use directly.
package nvs

import (
	"sync"

	"github.com/raytag/endpoint/internal/errs"
)

// Store is the minimal interface the core consumes. Namespaces are plain
// strings ("wifi", "game"); keys are scoped within a namespace.
type Store interface {
	GetString(ns, key string) (string, bool)
	PutString(ns, key, value string) error
	GetUint8(ns, key string) (uint8, bool)
	PutUint8(ns, key string, value uint8) error
	GetUint32(ns, key string) (uint32, bool)
	PutUint32(ns, key string, value uint32) error
	EraseNamespace(ns string) error
}

// MemStore is a RAM-only Store. It never fails. Nothing switches to it
// when another Store returns a Storage error.
type MemStore struct {
	mu   sync.Mutex
	data map[string]map[string]any
}

// NewMemStore constructs an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{data: make(map[string]map[string]any)}
}

func (m *MemStore) ns(name string) map[string]any {
	if m.data == nil {
		m.data = make(map[string]map[string]any)
	}
	n, ok := m.data[name]
	if !ok {
		n = make(map[string]any)
		m.data[name] = n
	}
	return n
}

func (m *MemStore) GetString(ns, key string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.ns(ns)[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

func (m *MemStore) PutString(ns, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ns(ns)[key] = value
	return nil
}

func (m *MemStore) GetUint8(ns, key string) (uint8, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.ns(ns)[key]
	if !ok {
		return 0, false
	}
	u, ok := v.(uint8)
	return u, ok
}

func (m *MemStore) PutUint8(ns, key string, value uint8) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ns(ns)[key] = value
	return nil
}

func (m *MemStore) GetUint32(ns, key string) (uint32, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.ns(ns)[key]
	if !ok {
		return 0, false
	}
	u, ok := v.(uint32)
	return u, ok
}

func (m *MemStore) PutUint32(ns, key string, value uint32) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ns(ns)[key] = value
	return nil
}

func (m *MemStore) EraseNamespace(ns string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, ns)
	return nil
}

// FailingStore wraps a Store and fails every write, used in tests to
// exercise the Storage error path (spec §7).
type FailingStore struct {
	Store
}

func (f *FailingStore) PutString(ns, key, value string) error {
	return errs.New(errs.KindStorage, "nvs.put_string")
}

func (f *FailingStore) PutUint8(ns, key string, value uint8) error {
	return errs.New(errs.KindStorage, "nvs.put_u8")
}

func (f *FailingStore) PutUint32(ns, key string, value uint32) error {
	return errs.New(errs.KindStorage, "nvs.put_u32")
}

func (f *FailingStore) EraseNamespace(ns string) error {
	return errs.New(errs.KindStorage, "nvs.erase_namespace")
}
