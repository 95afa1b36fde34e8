package models

import "time"

// Notification is the durable record of a push. Created once by the
// dispatcher, never updated; deleting it is how a recipient acknowledges it.
type Notification struct {
	ID        int       `db:"id" json:"id"`
	UserID    int       `db:"user_id" json:"user_id"`
	ActorID   *int      `db:"actor_id" json:"actor_id,omitempty"`
	Verb      string    `db:"verb" json:"verb"`
	ImageID   *int      `db:"image_id" json:"image_id,omitempty"`
	CommentID *int      `db:"comment_id" json:"comment_id,omitempty"`
	Unread    bool      `db:"unread" json:"unread"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// NotificationPayload is the wire shape pushed over the websocket and the
// pub/sub exchange. Actor carries the username, not the id.
type NotificationPayload struct {
	ID        int     `json:"id"`
	Actor     *string `json:"actor"`
	Verb      string  `json:"verb"`
	ImageID   *int    `json:"image_id"`
	CommentID *int    `json:"comment_id"`
	Unread    bool    `json:"unread"`
	CreatedAt string  `json:"created_at"`
}

// NotificationEvent is the frame written to notification websockets.
type NotificationEvent struct {
	Type         string               `json:"type"`
	Notification *NotificationPayload `json:"notification,omitempty"`
}
