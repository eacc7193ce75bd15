package port

import "dgm-demo/internal/domain/entity"

// BlobStore хранит бинарные картинки и выдаёт на них ссылки blob:<id>
type BlobStore interface {
	// Put сохраняет данные и возвращает ссылку
	Put(data []byte, contentType string) (entity.ImageRef, error)

	// Get возвращает данные и тип по ссылке
	Get(ref entity.ImageRef) ([]byte, string, bool)

	// Release освобождает ссылки; ссылки не-blob игнорируются
	Release(refs ...entity.ImageRef)

	// Len возвращает количество занятых ссылок
	Len() int
}
