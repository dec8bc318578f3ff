package repository

import (
	"context"
	"fmt"

	"couple-space-backend/internal/models"

	"github.com/jackc/pgx/v5"
)

const notificationColumns = `id, user_id, type, message, date, read, created_at`

// NotificationRepository handles database operations for notifications
type NotificationRepository struct {
	db DBTX
}

// NewNotificationRepository creates a new notification repository
func NewNotificationRepository(db DBTX) *NotificationRepository {
	return &NotificationRepository{db: db}
}

// Exists checks for a notification with the same (user_id, type, date, message)
func (r *NotificationRepository) Exists(ctx context.Context, userID, notifType, date, message string) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM notifications
			WHERE user_id = $1 AND type = $2 AND date = $3 AND message = $4
		)
	`
	var exists bool
	if err := r.db.QueryRow(ctx, query, userID, notifType, date, message).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check notification existence: %w", err)
	}
	return exists, nil
}

// CreateIfAbsent inserts the notification unless its dedup tuple already
// exists. It reports whether a row was inserted.
func (r *NotificationRepository) CreateIfAbsent(ctx context.Context, n *models.Notification) (bool, error) {
	query := `
		INSERT INTO notifications (id, user_id, type, message, date, read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (user_id, type, date, message) DO NOTHING
	`
	result, err := r.db.Exec(ctx, query, n.ID, n.UserID, n.Type, n.Message, n.Date, n.Read, n.CreatedAt)
	if err != nil {
		return false, fmt.Errorf("failed to create notification: %w", mapError(err))
	}
	return result.RowsAffected() > 0, nil
}

// GetByID retrieves a notification by ID
func (r *NotificationRepository) GetByID(ctx context.Context, id string) (*models.Notification, error) {
	query := `SELECT ` + notificationColumns + ` FROM notifications WHERE id = $1`
	n, err := scanNotification(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("failed to get notification: %w", mapError(err))
	}
	return n, nil
}

// ListByUser retrieves a user's notifications, newest first
func (r *NotificationRepository) ListByUser(ctx context.Context, userID string, limit int) ([]*models.Notification, error) {
	query := `
		SELECT ` + notificationColumns + `
		FROM notifications
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`
	rows, err := r.db.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get notifications: %w", err)
	}
	defer rows.Close()

	var notifications []*models.Notification
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan notification: %w", err)
		}
		notifications = append(notifications, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating notifications: %w", err)
	}
	return notifications, nil
}

// MarkRead sets the read flag of a notification
func (r *NotificationRepository) MarkRead(ctx context.Context, id string) error {
	result, err := r.db.Exec(ctx, `UPDATE notifications SET read = TRUE WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to mark notification read: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("failed to mark notification read: %w", ErrNotFound)
	}
	return nil
}

// CountUnread counts a user's unread notifications
func (r *NotificationRepository) CountUnread(ctx context.Context, userID string) (int, error) {
	query := `SELECT COUNT(*) FROM notifications WHERE user_id = $1 AND read = FALSE`
	var count int64
	if err := r.db.QueryRow(ctx, query, userID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count unread notifications: %w", err)
	}
	return int(count), nil
}

func scanNotification(row pgx.Row) (*models.Notification, error) {
	var n models.Notification
	if err := row.Scan(&n.ID, &n.UserID, &n.Type, &n.Message, &n.Date, &n.Read, &n.CreatedAt); err != nil {
		return nil, err
	}
	return &n, nil
}
