package app

import (
	"context"

	"dgm-demo/internal/domain/entity"
	"dgm-demo/internal/domain/port"
)

type SessionService struct {
	repo port.SessionRepository
}

func NewSessionService(repo port.SessionRepository) *SessionService {
	return &SessionService{repo: repo}
}

func (s *SessionService) Get(ctx context.Context, userID, chatID int64) (*entity.Session, error) {
	return s.repo.Get(ctx, userID, chatID)
}

// Navigate переключает экран. Загрузка на экране демо при этом не сбрасывается.
func (s *SessionService) Navigate(ctx context.Context, userID, chatID int64, view entity.View) (*entity.Session, error) {
	if !view.Valid() {
		return nil, ErrInvalidView
	}

	session, err := s.repo.Get(ctx, userID, chatID)
	if err != nil {
		return nil, err
	}

	session.SetView(view)
	if err := s.repo.Save(ctx, session); err != nil {
		return nil, err
	}

	return session, nil
}

func (s *SessionService) OpenDocs(ctx context.Context, userID, chatID int64) (*entity.Session, error) {
	return s.Navigate(ctx, userID, chatID, entity.ViewDocs)
}

func (s *SessionService) OpenDemo(ctx context.Context, userID, chatID int64) (*entity.Session, error) {
	return s.Navigate(ctx, userID, chatID, entity.ViewDemo)
}

func (s *SessionService) Back(ctx context.Context, userID, chatID int64) (*entity.Session, error) {
	return s.Navigate(ctx, userID, chatID, entity.ViewLanding)
}
