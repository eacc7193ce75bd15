package entity

import (
	"github.com/h2non/filetype"
	"github.com/h2non/filetype/types"
)

// DefaultContentType используется, если тип файла определить не удалось.
const DefaultContentType = "application/octet-stream"

// SelectedFile выбранный пользователем файл.
type SelectedFile struct {
	Name        string
	ContentType string
	Data        []byte
}

// NewSelectedFile создаёт файл. Если тип не объявлен, он определяется по содержимому.
func NewSelectedFile(name, contentType string, data []byte) *SelectedFile {
	if contentType == "" {
		contentType = SniffContentType(data)
	}
	return &SelectedFile{
		Name:        name,
		ContentType: contentType,
		Data:        data,
	}
}

// Size возвращает размер файла в байтах.
func (f *SelectedFile) Size() int {
	return len(f.Data)
}

// SniffContentType определяет MIME-тип по сигнатуре данных.
func SniffContentType(data []byte) string {
	kind, err := filetype.Match(data)
	if err != nil || kind == filetype.Unknown {
		return DefaultContentType
	}
	return kind.MIME.Value
}

// ExtensionFor возвращает расширение файла без точки для MIME-типа.
func ExtensionFor(contentType string) string {
	switch contentType {
	case "image/jpeg":
		return "jpg"
	case "image/png":
		return "png"
	case "image/gif":
		return "gif"
	case "image/webp":
		return "webp"
	}
	ext := "bin"
	if contentType == "" {
		// filetype регистрирует Unknown с пустым MIME
		return ext
	}
	filetype.Types.Range(func(_, v interface{}) bool {
		if t, ok := v.(types.Type); ok && t.MIME.Value == contentType {
			ext = t.Extension
			return false
		}
		return true
	})
	return ext
}
