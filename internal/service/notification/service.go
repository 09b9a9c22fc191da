package notification

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/tempohq/attendance-backend-go/internal/domain/notification"
	"github.com/tempohq/attendance-backend-go/internal/pkg/realtime"
)

type NotificationServiceImpl struct {
	repo notification.Repository
	hub  *realtime.Hub
}

func NewNotificationService(repo notification.Repository, hub *realtime.Hub) *NotificationServiceImpl {
	return &NotificationServiceImpl{
		repo: repo,
		hub:  hub,
	}
}

// Notify persists the notification and pushes it to the recipient's live
// sessions. Persistence is the source of truth; the live push is best-effort.
func (s *NotificationServiceImpl) Notify(ctx context.Context, n *notification.Notification) error {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}

	if err := s.repo.Create(ctx, n); err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}

	s.hub.PublishTo(n.RecipientID, realtime.Envelope{
		Type:    realtime.EventNotification,
		Payload: notification.ToResponse(n),
	})

	return nil
}

// NotifyBatch persists related notifications in one write, then pushes each
// to its recipient's live sessions.
func (s *NotificationServiceImpl) NotifyBatch(ctx context.Context, ns []*notification.Notification) error {
	if len(ns) == 0 {
		return nil
	}

	for _, n := range ns {
		if n.ID == "" {
			n.ID = uuid.New().String()
		}
		if n.CreatedAt.IsZero() {
			n.CreatedAt = time.Now()
		}
	}

	if err := s.repo.CreateBatch(ctx, ns); err != nil {
		return fmt.Errorf("failed to create notifications: %w", err)
	}

	for _, n := range ns {
		s.hub.PublishTo(n.RecipientID, realtime.Envelope{
			Type:    realtime.EventNotification,
			Payload: notification.ToResponse(n),
		})
	}
	return nil
}

func (s *NotificationServiceImpl) List(ctx context.Context, recipientID string, page, pageSize int, unreadOnly bool) (*notification.ListResponse, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	notifications, total, err := s.repo.GetByRecipient(ctx, recipientID, page, pageSize, unreadOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}

	unread, err := s.repo.GetUnreadCount(ctx, recipientID)
	if err != nil {
		return nil, fmt.Errorf("failed to count unread notifications: %w", err)
	}

	responses := make([]notification.Response, 0, len(notifications))
	for _, n := range notifications {
		responses = append(responses, notification.ToResponse(n))
	}

	return &notification.ListResponse{
		Notifications: responses,
		Total:         total,
		UnreadCount:   unread,
		Page:          page,
		PageSize:      pageSize,
	}, nil
}

func (s *NotificationServiceImpl) UnreadCount(ctx context.Context, recipientID string) (int, error) {
	return s.repo.GetUnreadCount(ctx, recipientID)
}

func (s *NotificationServiceImpl) MarkAsRead(ctx context.Context, recipientID string, req notification.MarkAsReadRequest) error {
	if len(req.NotificationIDs) == 0 {
		return nil
	}
	return s.repo.MarkAsRead(ctx, req.NotificationIDs, recipientID)
}

func (s *NotificationServiceImpl) MarkAllAsRead(ctx context.Context, recipientID string) error {
	return s.repo.MarkAllAsRead(ctx, recipientID)
}

var _ notification.Service = (*NotificationServiceImpl)(nil)
