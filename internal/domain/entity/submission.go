package entity

// Phase фаза отправки изображения
type Phase string

const (
	PhaseIdle      Phase = "idle"      // Ничего не отправлялось
	PhaseInFlight  Phase = "in_flight" // Запрос в процессе
	PhaseSucceeded Phase = "succeeded" // Получены визуализации
	PhaseFailed    Phase = "failed"    // Ошибка загрузки
)

// Submission состояние загрузки, по которому рисуется экран демо.
// Generation растёт с каждой новой отправкой.
type Submission struct {
	Phase      Phase
	Generation uint64
	Images     []ImageRef
	Message    string
}

// Idle возвращает начальное состояние.
func Idle() Submission {
	return Submission{Phase: PhaseIdle}
}

// InFlight возвращает состояние "идёт загрузка" без ошибки и без картинок.
func InFlight(generation uint64) Submission {
	return Submission{Phase: PhaseInFlight, Generation: generation}
}

// Succeeded возвращает успешное состояние со списком картинок (может быть пустым).
func Succeeded(generation uint64, images []ImageRef) Submission {
	if images == nil {
		images = []ImageRef{}
	}
	return Submission{Phase: PhaseSucceeded, Generation: generation, Images: images}
}

// Failed возвращает состояние ошибки с сообщением для пользователя.
func Failed(generation uint64, message string) Submission {
	return Submission{Phase: PhaseFailed, Generation: generation, Message: message}
}

// IsBusy сообщает, нужно ли показывать индикатор загрузки.
func (s Submission) IsBusy() bool {
	return s.Phase == PhaseInFlight
}

// HasError сообщает, нужно ли показывать сообщение об ошибке.
func (s Submission) HasError() bool {
	return s.Phase == PhaseFailed
}

// HasResults сообщает, есть ли что показать в сетке результатов.
func (s Submission) HasResults() bool {
	return s.Phase == PhaseSucceeded && len(s.Images) > 0
}

// ShowsPlaceholder показывать ли заглушку вместо результатов.
func (s Submission) ShowsPlaceholder() bool {
	return !s.IsBusy() && !s.HasError() && !s.HasResults()
}

// Settled сообщает, завершился ли запрос.
func (s Submission) Settled() bool {
	return s.Phase == PhaseSucceeded || s.Phase == PhaseFailed
}

// Clone возвращает копию с собственным срезом картинок.
func (s Submission) Clone() Submission {
	if s.Images != nil {
		images := make([]ImageRef, len(s.Images))
		copy(images, s.Images)
		s.Images = images
	}
	return s
}
