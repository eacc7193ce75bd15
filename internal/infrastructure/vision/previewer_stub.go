//go:build !gocv
// +build !gocv

package vision

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"dgm-demo/internal/domain/port"
)

// Previewer без OpenCV: картинки не уменьшаются.
type Previewer struct {
	MaxSide int
	Quality int
}

// NewPreviewer создаёт превьюер-заглушку (без OpenCV).
func NewPreviewer(maxSide int) *Previewer {
	return &Previewer{
		MaxSide: maxSide,
		Quality: 90,
	}
}

// Preview возвращает данные без изменений, если сборка без тега gocv.
func (p *Previewer) Preview(imageData []byte) ([]byte, error) {
	return imageData, nil
}

// Dimensions читает только заголовок картинки (png, jpeg, gif).
func (p *Previewer) Dimensions(imageData []byte) (int, int, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(imageData))
	if err != nil {
		return 0, 0, fmt.Errorf("failed to decode image: %w", err)
	}
	return cfg.Width, cfg.Height, nil
}

var _ port.ImagePreviewer = (*Previewer)(nil)
