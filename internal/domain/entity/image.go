package entity

import "strings"

// BlobScheme префикс ссылок на локально сохранённые бинарные картинки.
const BlobScheme = "blob:"

// ImageRef ссылка на картинку, которую может показать слой представления.
type ImageRef struct {
	URI         string // URL или blob:<uuid>
	ContentType string // известен только для blob-ссылок
}

// IsBlob сообщает, ссылается ли картинка на локальные данные.
func (r ImageRef) IsBlob() bool {
	return strings.HasPrefix(r.URI, BlobScheme)
}

func (r ImageRef) String() string {
	return r.URI
}

// CollaboratorResponse ответ внешнего сервиса визуализации как есть.
type CollaboratorResponse struct {
	StatusCode  int
	ContentType string
	Body        []byte
}

// OK сообщает, что статус из диапазона 2xx.
func (r *CollaboratorResponse) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}
