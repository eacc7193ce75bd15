package port

import (
	"context"

	"dgm-demo/internal/domain/entity"
)

// Visualizer интерфейс внешнего сервиса визуализации
type Visualizer interface {
	// Visualize отправляет файл и возвращает ответ как есть.
	// Ошибка означает сбой транспорта; статус ответа не проверяется.
	Visualize(ctx context.Context, file *entity.SelectedFile) (*entity.CollaboratorResponse, error)
}
