package port

// ImagePreviewer готовит картинку к показу
type ImagePreviewer interface {
	// Preview уменьшает картинку до допустимого размера
	Preview(imageData []byte) ([]byte, error)

	// Dimensions возвращает ширину и высоту картинки
	Dimensions(imageData []byte) (width, height int, err error)
}
