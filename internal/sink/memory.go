package sink

import (
	"context"
	"sort"
	"sync"
)

// File is a file held by the memory sink.
type File struct {
	ContentType string
	Data        []byte
}

// Memory keeps saved files in memory. It backs dry runs and tests.
type Memory struct {
	mu    sync.RWMutex
	files map[string]File
}

func NewMemory() *Memory {
	return &Memory{files: make(map[string]File)}
}

func (m *Memory) Driver() Driver { return DriverMemory }

func (m *Memory) Save(_ context.Context, name, contentType string, data []byte) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[name] = File{ContentType: contentType, Data: append([]byte(nil), data...)}
	return "memory://" + name, nil
}

// Get returns a saved file.
func (m *Memory) Get(name string) (File, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	f, ok := m.files[name]
	return f, ok
}

// Names lists saved files in order.
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
