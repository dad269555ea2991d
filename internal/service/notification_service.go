package service

import (
	"context"
	"strings"

	"refuge/internal/domain"
	"refuge/internal/repository"
)

// NotificationService лента уведомлений. Notify присоединяется к транзакции вызывающего.
type NotificationService struct {
	repo repository.NotificationRepository
}

func NewNotificationService(repo repository.NotificationRepository) *NotificationService {
	return &NotificationService{repo: repo}
}

func (s *NotificationService) Notify(ctx context.Context, userID int64, message string) (*domain.Notification, error) {
	if userID <= 0 || strings.TrimSpace(message) == "" {
		return nil, ErrInvalidInput
	}
	n := domain.Notification{UserID: userID, Message: message}
	if err := s.repo.Create(ctx, &n); err != nil {
		return nil, err
	}
	return &n, nil
}

func (s *NotificationService) List(ctx context.Context, userID int64, includeRead bool) ([]domain.Notification, error) {
	return s.repo.List(ctx, userID, includeRead)
}

func (s *NotificationService) MarkRead(ctx context.Context, userID, id int64) error {
	if id <= 0 {
		return ErrInvalidInput
	}
	return s.repo.MarkRead(ctx, userID, id)
}

func (s *NotificationService) MarkAllRead(ctx context.Context, userID int64) (int64, error) {
	return s.repo.MarkAllRead(ctx, userID)
}
