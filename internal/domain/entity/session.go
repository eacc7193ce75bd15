package entity

// View экран, который сейчас видит пользователь
type View string

const (
	ViewLanding View = "landing" // Главная страница
	ViewDocs    View = "docs"    // Документация
	ViewDemo    View = "demo"    // Демо с загрузкой изображения
)

// Valid проверяет, что экран известен.
func (v View) Valid() bool {
	switch v {
	case ViewLanding, ViewDocs, ViewDemo:
		return true
	}
	return false
}

// Session представляет пользователя (чат Telegram или терминал)
type Session struct {
	ID     int64 // Telegram User ID
	ChatID int64 // Telegram Chat ID
	View   View  // Текущий экран
}

// NewSession создаёт новую сессию на главной странице
func NewSession(userID, chatID int64) *Session {
	return &Session{
		ID:     userID,
		ChatID: chatID,
		View:   ViewLanding,
	}
}

// SetView переключает экран. Состояние загрузки при этом не сбрасывается.
func (s *Session) SetView(view View) {
	s.View = view
}
