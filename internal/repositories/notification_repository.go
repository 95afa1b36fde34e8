package repositories

import (
	"context"
	"errors"

	"github.com/jmoiron/sqlx"

	"photo-service/internal/models"
)

var ErrNotificationNotFound = errors.New("notification not found")

// NotificationRepository is the durable, per-recipient notification log.
type NotificationRepository interface {
	Create(ctx context.Context, recipientID int, actorID *int, verb string, imageID, commentID *int) (models.Notification, error)
	ListForUser(ctx context.Context, userID int) ([]models.Notification, error)
	DeleteOwned(ctx context.Context, notificationID int, ownerID int) error
}

// NotificationRepo is a sqlx implementation of NotificationRepository.
type NotificationRepo struct {
	db *sqlx.DB
}

// NewNotificationRepo constructs a NotificationRepo.
func NewNotificationRepo(db *sqlx.DB) *NotificationRepo {
	return &NotificationRepo{db: db}
}

// Create durably persists a notification before returning it.
func (r *NotificationRepo) Create(ctx context.Context, recipientID int, actorID *int, verb string, imageID, commentID *int) (models.Notification, error) {
	var notif models.Notification
	err := r.db.QueryRowxContext(ctx,
		`INSERT INTO notifications (user_id, actor_id, verb, image_id, comment_id)
         VALUES ($1, $2, $3, $4, $5)
         RETURNING id, user_id, actor_id, verb, image_id, comment_id, unread, created_at`,
		recipientID, actorID, verb, imageID, commentID).StructScan(&notif)
	return notif, err
}

// ListForUser returns the recipient's notifications, newest first.
func (r *NotificationRepo) ListForUser(ctx context.Context, userID int) ([]models.Notification, error) {
	var notifs []models.Notification
	err := r.db.SelectContext(ctx, &notifs,
		`SELECT id, user_id, actor_id, verb, image_id, comment_id, unread, created_at
         FROM notifications WHERE user_id=$1 ORDER BY created_at DESC`, userID)
	return notifs, err
}

// DeleteOwned removes a notification only when ownerID is its recipient.
// A notification that is missing or belongs to someone else is the same
// outcome, so callers cannot probe for other users' notifications.
func (r *NotificationRepo) DeleteOwned(ctx context.Context, notificationID int, ownerID int) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM notifications WHERE id=$1 AND user_id=$2`, notificationID, ownerID)
	if err != nil {
		return err
	}
	count, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrNotificationNotFound
	}
	return nil
}
