package notifier

import (
	"context"
	"log"
	"time"

	"photo-service/internal/models"
	"photo-service/internal/observability"
	"photo-service/internal/rabbitmq"
	"photo-service/internal/repositories"
	"photo-service/internal/ws"
)

// publishTimeout bounds the pub/sub handoff so a slow broker cannot block
// the request handler that triggered the notification.
const publishTimeout = 2 * time.Second

// Notifier bridges domain events into a durable notification plus a
// best-effort push. The store write is authoritative; everything after it is
// allowed to fail.
type Notifier struct {
	repo      repositories.NotificationRepository
	hub       *ws.Hub
	publisher rabbitmq.Publisher
}

// New constructs a Notifier. publisher may be a noop when no broker is
// configured.
func New(repo repositories.NotificationRepository, hub *ws.Hub, publisher rabbitmq.Publisher) *Notifier {
	return &Notifier{repo: repo, hub: hub, publisher: publisher}
}

// Deliver persists the notification, then pushes it to the recipient's live
// connections and the pub/sub exchange. A failed store write is returned to
// the caller; push failures are logged and swallowed, so a recipient with no
// open connection still ends up with exactly the durable record.
func (n *Notifier) Deliver(ctx context.Context, recipientID int, actor *models.User, verb string, imageID, commentID *int) (models.Notification, error) {
	var actorID *int
	var actorName *string
	if actor != nil {
		actorID = &actor.ID
		actorName = &actor.Username
	}

	notif, err := n.repo.Create(ctx, recipientID, actorID, verb, imageID, commentID)
	if err != nil {
		return models.Notification{}, err
	}

	payload := models.NotificationPayload{
		ID:        notif.ID,
		Actor:     actorName,
		Verb:      notif.Verb,
		ImageID:   notif.ImageID,
		CommentID: notif.CommentID,
		Unread:    notif.Unread,
		CreatedAt: notif.CreatedAt.UTC().Format(time.RFC3339Nano),
	}

	outcome := "stored_only"
	if n.hub != nil && n.hub.ClientCount(recipientID) > 0 {
		n.hub.BroadcastNotification(recipientID, payload)
		outcome = "pushed"
	}

	if n.publisher != nil {
		pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
		defer cancel()
		event := models.NotificationEvent{Type: "notification", Notification: &payload}
		if err := n.publisher.Publish(pubCtx, rabbitmq.NotificationRoutingKey(recipientID), event); err != nil {
			log.Printf("notification publish failed (stored id=%d): %v", notif.ID, err)
			outcome = "publish_error"
		}
	}
	observability.IncNotificationDelivered(outcome)

	return notif, nil
}
