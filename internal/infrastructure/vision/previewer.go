//go:build gocv
// +build gocv

package vision

import (
	"bytes"
	"errors"
	"image"
	"image/jpeg"

	"gocv.io/x/gocv"

	"dgm-demo/internal/domain/port"
)

// Previewer уменьшает картинки перед отправкой в мессенджер.
type Previewer struct {
	MaxSide int // максимальная сторона в пикселях, 0 без ограничения
	Quality int // качество JPEG
}

// NewPreviewer создаёт превьюер с ограничением стороны.
func NewPreviewer(maxSide int) *Previewer {
	return &Previewer{
		MaxSide: maxSide,
		Quality: 90,
	}
}

// Preview возвращает картинку как есть, если она уже влезает, иначе уменьшенный JPEG.
func (p *Previewer) Preview(imageData []byte) ([]byte, error) {
	mat, err := decodeToMat(imageData)
	if err != nil {
		return nil, err
	}
	defer mat.Close()

	if p.MaxSide <= 0 || (mat.Cols() <= p.MaxSide && mat.Rows() <= p.MaxSide) {
		return imageData, nil
	}

	// Сохраняем пропорции.
	scale := float64(p.MaxSide) / float64(maxInt(mat.Cols(), mat.Rows()))
	newW := maxInt(int(float64(mat.Cols())*scale), 1)
	newH := maxInt(int(float64(mat.Rows())*scale), 1)

	resized := gocv.NewMat()
	defer resized.Close()
	gocv.Resize(mat, &resized, image.Pt(newW, newH), 0, 0, gocv.InterpolationArea)

	img, err := resized.ToImage()
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: p.Quality}); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// Dimensions возвращает ширину и высоту декодированной картинки.
func (p *Previewer) Dimensions(imageData []byte) (int, int, error) {
	mat, err := decodeToMat(imageData)
	if err != nil {
		return 0, 0, err
	}
	defer mat.Close()
	return mat.Cols(), mat.Rows(), nil
}

// decodeToMat превращает байты изображения в gocv.Mat.
func decodeToMat(imageData []byte) (gocv.Mat, error) {
	mat, err := gocv.IMDecode(imageData, gocv.IMReadColor)
	if err == nil && !mat.Empty() {
		return mat, nil
	}
	if !mat.Empty() {
		mat.Close()
	}
	return gocv.NewMat(), errors.New("failed to decode image")
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

var _ port.ImagePreviewer = (*Previewer)(nil)
