package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"

	"dgm-demo/internal/domain/entity"
	"dgm-demo/internal/domain/port"
)

type blob struct {
	data        []byte
	contentType string
}

// MemoryBlobStore держит бинарные картинки в памяти до явного Release
type MemoryBlobStore struct {
	mu    sync.RWMutex
	blobs map[string]blob
}

// NewMemoryBlobStore создаёт пустое хранилище
func NewMemoryBlobStore() *MemoryBlobStore {
	return &MemoryBlobStore{
		blobs: make(map[string]blob),
	}
}

// Put сохраняет данные под новой ссылкой blob:<uuid>
func (s *MemoryBlobStore) Put(data []byte, contentType string) (entity.ImageRef, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return entity.ImageRef{}, fmt.Errorf("generate blob id: %w", err)
	}

	ref := entity.ImageRef{
		URI:         entity.BlobScheme + id.String(),
		ContentType: contentType,
	}

	s.mu.Lock()
	s.blobs[ref.URI] = blob{data: data, contentType: contentType}
	s.mu.Unlock()

	return ref, nil
}

// Get возвращает данные по ссылке
func (s *MemoryBlobStore) Get(ref entity.ImageRef) ([]byte, string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.blobs[ref.URI]
	if !ok {
		return nil, "", false
	}
	return b.data, b.contentType, true
}

// Release освобождает ссылки
func (s *MemoryBlobStore) Release(refs ...entity.ImageRef) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, ref := range refs {
		if ref.IsBlob() {
			delete(s.blobs, ref.URI)
		}
	}
}

// Len возвращает количество занятых ссылок
func (s *MemoryBlobStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.blobs)
}

// SaveBlob записывает картинку из хранилища в dir/name.<ext> и возвращает путь.
func SaveBlob(store port.BlobStore, ref entity.ImageRef, dir, name string) (string, error) {
	data, contentType, ok := store.Get(ref)
	if !ok {
		return "", fmt.Errorf("blob %s is not available", ref.URI)
	}

	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}

	path := filepath.Join(dir, name+"."+entity.ExtensionFor(contentType))
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}

	return path, nil
}

var _ port.BlobStore = (*MemoryBlobStore)(nil)
