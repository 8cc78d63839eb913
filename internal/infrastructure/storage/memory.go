package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
)

const memoryScheme = "memory://"

// MemoryStorage keeps uploaded objects in process. Used with the memory store driver.
type MemoryStorage struct {
	mu      sync.RWMutex
	objects map[string][]byte
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{objects: make(map[string][]byte)}
}

func (m *MemoryStorage) UploadFile(ctx context.Context, file io.Reader, contentType, folder string, isPublic bool) (string, error) {
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, file); err != nil {
		return "", fmt.Errorf("failed to read upload: %w", err)
	}

	name := ObjectName(folder, contentType, isPublic, time.Now())

	m.mu.Lock()
	m.objects[name] = buf.Bytes()
	m.mu.Unlock()

	return memoryScheme + name, nil
}

func (m *MemoryStorage) DeleteFile(ctx context.Context, fileURL string) error {
	name := strings.TrimPrefix(fileURL, memoryScheme)

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.objects[name]; !ok {
		return fmt.Errorf("object %s not found", name)
	}
	delete(m.objects, name)
	return nil
}

// Object returns the stored bytes for a URL produced by UploadFile.
func (m *MemoryStorage) Object(fileURL string) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	data, ok := m.objects[strings.TrimPrefix(fileURL, memoryScheme)]
	return data, ok
}
