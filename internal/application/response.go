package app

import (
	"encoding/json"
	"fmt"
	"mime"
	"strings"

	"dgm-demo/internal/domain/entity"
)

// payload декодированное тело ответа, вариант выбирается по Content-Type.
type payload interface {
	isPayload()
}

// imageListPayload ответ вида {"images": [...]}
type imageListPayload struct {
	images []string
}

// binaryPayload ответ с одной картинкой в теле
type binaryPayload struct {
	data        []byte
	contentType string
}

func (imageListPayload) isPayload() {}
func (binaryPayload) isPayload()    {}

// classifyResponse проверяет статус и выбирает способ декодирования тела.
func classifyResponse(resp *entity.CollaboratorResponse, strict bool) (payload, error) {
	if !resp.OK() {
		return nil, &StatusError{StatusCode: resp.StatusCode}
	}

	if isJSONContentType(resp.ContentType) {
		return decodeImageList(resp.Body)
	}

	mediaType := baseMediaType(resp.ContentType)
	if strict && !strings.HasPrefix(mediaType, "image/") {
		return nil, &UnsupportedTypeError{ContentType: resp.ContentType}
	}

	return binaryPayload{data: resp.Body, contentType: mediaType}, nil
}

func decodeImageList(body []byte) (payload, error) {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(body, &doc); err != nil {
		if _, ok := err.(*json.UnmarshalTypeError); ok {
			// Валидный JSON, но не объект.
			return nil, ErrInvalidResponseFormat
		}
		return nil, fmt.Errorf("%w: %v", ErrMalformedJSON, err)
	}

	raw, ok := doc["images"]
	if !ok {
		return nil, ErrInvalidResponseFormat
	}

	var images []string
	if err := json.Unmarshal(raw, &images); err != nil || images == nil {
		return nil, ErrInvalidResponseFormat
	}

	return imageListPayload{images: images}, nil
}

func isJSONContentType(contentType string) bool {
	return strings.Contains(strings.ToLower(contentType), "application/json")
}

// baseMediaType отбрасывает параметры вроде charset. Пустая строка значит, что тип не объявлен.
func baseMediaType(contentType string) string {
	if contentType == "" {
		return ""
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(contentType))
	}
	return mediaType
}
