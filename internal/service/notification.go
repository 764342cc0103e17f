package service

import (
	"context"

	"fleet-rental-backend/internal/domain"
	"fleet-rental-backend/internal/repository"
)

type notificationService struct {
	store repository.Store
}

func NewNotificationService(store repository.Store) NotificationService {
	return &notificationService{store: store}
}

func (s *notificationService) GetNotifications(ctx context.Context, userID int64, page, pageSize int) ([]domain.Notification, int, error) {
	return s.store.Repos().Notifications.List(ctx, userID, page, pageSize)
}

func (s *notificationService) MarkAsRead(ctx context.Context, userID, notificationID int64) error {
	return s.store.Repos().Notifications.MarkAsRead(ctx, notificationID, userID)
}
