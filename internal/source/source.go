// Package source provides the byte sources bundle backends read from: a
// directory tree with optional xz-compressed files, an SQLite database and an
// in-memory map for tests and embedding.
package source

import (
	"bytes"
	"errors"
	"io"
	"sort"
	"sync"
	"sync/atomic"

	resberror "github.com/msto63/resb/foundation/core/error"
)

// ErrNotFound is returned (possibly wrapped) when a named resource does not exist
var ErrNotFound = errors.New("source: resource not found")

// Source opens named byte streams. Names are slash separated and relative,
// e.g. "units/fr_CA.res". A source may be opened any number of times.
type Source interface {
	Open(name string) (io.ReadCloser, error)
}

// IsNotFound reports whether err means the named resource does not exist
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func notFound(name string) error {
	return resberror.Wrap(ErrNotFound, name).
		WithCode(resberror.CodeNotFound).
		WithDetail("name", name)
}

// ReadAll opens name and reads it completely
func ReadAll(src Source, name string) ([]byte, error) {
	rc, err := src.Open(name)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

// Memory is an in-memory Source. It counts Open calls per name.
type Memory struct {
	mu    sync.RWMutex
	files map[string][]byte
	opens map[string]*atomic.Int64
}

// NewMemory creates an empty in-memory source
func NewMemory() *Memory {
	return &Memory{
		files: make(map[string][]byte),
		opens: make(map[string]*atomic.Int64),
	}
}

// Put stores a copy of data under name
func (m *Memory) Put(name string, data []byte) {
	cp := make([]byte, len(data))
	copy(cp, data)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[name] = cp
}

// Open returns a reader over the stored bytes
func (m *Memory) Open(name string) (io.ReadCloser, error) {
	m.mu.Lock()
	c, ok := m.opens[name]
	if !ok {
		c = new(atomic.Int64)
		m.opens[name] = c
	}
	data, found := m.files[name]
	m.mu.Unlock()

	c.Add(1)
	if !found {
		return nil, notFound(name)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

// Opens returns how many times name was opened, found or not
func (m *Memory) Opens(name string) int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if c, ok := m.opens[name]; ok {
		return c.Load()
	}
	return 0
}

// Names returns the stored names in sorted order
func (m *Memory) Names() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	names := make([]string, 0, len(m.files))
	for n := range m.files {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Multi tries each source in order and returns the first hit
type Multi []Source

// Open returns the first source's stream that has name
func (m Multi) Open(name string) (io.ReadCloser, error) {
	for _, s := range m {
		rc, err := s.Open(name)
		if err == nil {
			return rc, nil
		}
		if !IsNotFound(err) {
			return nil, err
		}
	}
	return nil, notFound(name)
}
