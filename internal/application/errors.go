package app

import (
	"errors"
	"fmt"
)

// Тексты ошибок показываются пользователю как есть.
var (
	ErrUploadFailed          = errors.New("Upload failed")
	ErrInvalidResponseFormat = errors.New("Invalid response format")
	ErrMalformedJSON         = errors.New("Malformed JSON response")
	ErrNotOnDemo             = errors.New("open the demo view to upload an image")
	ErrInvalidView           = errors.New("unknown view")
)

// StatusError ответ сервиса со статусом вне 2xx.
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP error! status: %d", e.StatusCode)
}

// UnsupportedTypeError ответ с типом, который не является ни JSON, ни картинкой.
// Возникает только при включённом строгом режиме.
type UnsupportedTypeError struct {
	ContentType string
}

func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("Unsupported response type: %s", e.ContentType)
}

// failureMessage сводит любую ошибку к одной строке для состояния Failed.
func failureMessage(err error) string {
	if err == nil {
		return ErrUploadFailed.Error()
	}
	switch {
	case errors.Is(err, ErrMalformedJSON):
		return ErrMalformedJSON.Error()
	case errors.Is(err, ErrInvalidResponseFormat):
		return ErrInvalidResponseFormat.Error()
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return ErrUploadFailed.Error()
}
