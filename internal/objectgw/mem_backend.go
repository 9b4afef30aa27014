package objectgw

import (
	"context"
	"sync"
)

// MemBackend is an in-memory Backend fake, generalized from the teacher's
// infra/files_mem.go MemFiles (a mutex-guarded map-of-maps) collapsed to
// a flat key->bytes map since the object store's keys are already fully
// qualified paths.
type MemBackend struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemBackend builds an empty in-memory blob store.
func NewMemBackend() *MemBackend {
	return &MemBackend{data: make(map[string][]byte)}
}

func (b *MemBackend) PutText(ctx context.Context, key string, contents []byte, contentType string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	cp := make([]byte, len(contents))
	copy(cp, contents)
	b.data[key] = cp
	return nil
}

func (b *MemBackend) Get(ctx context.Context, key string) ([]byte, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	v, ok := b.data[key]
	if !ok {
		return nil, ErrNotFound
	}
	cp := make([]byte, len(v))
	copy(cp, v)
	return cp, nil
}
