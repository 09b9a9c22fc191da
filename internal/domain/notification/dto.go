package notification

import (
	"context"
	"time"
)

// Service defines business logic for notifications.
type Service interface {
	// Notify persists a notification and pushes it to the recipient's
	// connected sessions. Creation happens only through the dispatcher or
	// administrative action.
	Notify(ctx context.Context, n *Notification) error

	// NotifyBatch persists related notifications in one write and pushes
	// each to its recipient's connected sessions.
	NotifyBatch(ctx context.Context, ns []*Notification) error

	List(ctx context.Context, recipientID string, page, pageSize int, unreadOnly bool) (*ListResponse, error)
	UnreadCount(ctx context.Context, recipientID string) (int, error)
	MarkAsRead(ctx context.Context, recipientID string, req MarkAsReadRequest) error
	MarkAllAsRead(ctx context.Context, recipientID string) error
}

type MarkAsReadRequest struct {
	NotificationIDs []string `json:"notification_ids"`
}

type Response struct {
	ID        string     `json:"id"`
	SenderID  *string    `json:"sender_id,omitempty"`
	Title     string     `json:"title"`
	Message   string     `json:"message"`
	Category  Category   `json:"category"`
	IsRead    bool       `json:"is_read"`
	ReadAt    *time.Time `json:"read_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

type ListResponse struct {
	Notifications []Response `json:"notifications"`
	Total         int        `json:"total"`
	UnreadCount   int        `json:"unread_count"`
	Page          int        `json:"page"`
	PageSize      int        `json:"page_size"`
}

type UnreadCountResponse struct {
	UnreadCount int `json:"unread_count"`
}

// ToResponse maps a Notification entity to its API projection.
func ToResponse(n *Notification) Response {
	return Response{
		ID:        n.ID,
		SenderID:  n.SenderID,
		Title:     n.Title,
		Message:   n.Message,
		Category:  n.Category,
		IsRead:    n.IsRead,
		ReadAt:    n.ReadAt,
		CreatedAt: n.CreatedAt,
	}
}
