package app

import (
	"context"
	"errors"
	"sync"

	"dgm-demo/internal/domain/entity"
	"dgm-demo/internal/domain/port"
)

// DemoService держит по одному контроллеру загрузки на сессию.
type DemoService struct {
	sessions    *SessionService
	visualizer  port.Visualizer
	blobs       port.BlobStore
	options     ControllerOptions
	controllers map[int64]*UploadController
	mu          sync.RWMutex
}

// NewDemoService создаёт сервис экрана демо.
func NewDemoService(sessions *SessionService, visualizer port.Visualizer, blobs port.BlobStore, options ControllerOptions) *DemoService {
	return &DemoService{
		sessions:    sessions,
		visualizer:  visualizer,
		blobs:       blobs,
		options:     options,
		controllers: make(map[int64]*UploadController),
	}
}

// Controller возвращает контроллер сессии, создавая его при первом обращении.
func (s *DemoService) Controller(userID int64) *UploadController {
	s.mu.RLock()
	ctrl, ok := s.controllers[userID]
	s.mu.RUnlock()
	if ok {
		return ctrl
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if ctrl, ok := s.controllers[userID]; ok {
		return ctrl
	}
	ctrl = NewUploadController(s.visualizer, s.blobs, s.options)
	s.controllers[userID] = ctrl
	return ctrl
}

// Upload отправляет файл, если пользователь на экране демо.
func (s *DemoService) Upload(ctx context.Context, userID, chatID int64, file *entity.SelectedFile) (<-chan struct{}, error) {
	if s.visualizer == nil {
		return nil, errors.New("visualizer is not configured")
	}

	session, err := s.sessions.Get(ctx, userID, chatID)
	if err != nil {
		return nil, err
	}
	if session.View != entity.ViewDemo {
		return nil, ErrNotOnDemo
	}

	return s.Controller(userID).Submit(ctx, file), nil
}

// State возвращает состояние загрузки сессии.
func (s *DemoService) State(userID int64) entity.Submission {
	return s.Controller(userID).State()
}

// Subscribe подписывает на изменения состояния загрузки сессии.
func (s *DemoService) Subscribe(userID int64) (<-chan entity.Submission, func()) {
	return s.Controller(userID).Subscribe()
}

// Close закрывает все контроллеры.
func (s *DemoService) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, ctrl := range s.controllers {
		ctrl.Close()
		delete(s.controllers, id)
	}
}
