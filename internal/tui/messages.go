package tui

import "dgm-demo/internal/domain/entity"

// StateChangedMsg новое состояние загрузки от контроллера
type StateChangedMsg struct {
	State entity.Submission
}

// ResultsSavedMsg результат сохранения картинок на диск
type ResultsSavedMsg struct {
	Paths []string
	Error error
}

// FileReadErrorMsg файл по введённому пути прочитать не удалось
type FileReadErrorMsg struct {
	Path  string
	Error error
}
