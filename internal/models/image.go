package models

import (
	"time"

	"github.com/lib/pq"
)

// Image privacy levels.
const (
	PrivacyPublic  = "PUBLIC"
	PrivacyPrivate = "PRIVATE"
)

// Image is an uploaded photo. Deletion is soft: deleted images stay in the
// table but disappear from every listing.
type Image struct {
	ID           int            `db:"id" json:"id"`
	EventID      int            `db:"event_id" json:"event_id"`
	AlbumID      *int           `db:"album_id" json:"album_id,omitempty"`
	UploadedBy   int            `db:"uploaded_by" json:"uploaded_by"`
	OriginalURL  string         `db:"original_url" json:"original_url"`
	ThumbnailURL string         `db:"thumbnail_url" json:"thumbnail_url,omitempty"`
	CameraModel  *string        `db:"camera_model" json:"camera_model,omitempty"`
	Aperture     *string        `db:"aperture" json:"aperture,omitempty"`
	ShutterSpeed *string        `db:"shutter_speed" json:"shutter_speed,omitempty"`
	ISO          *string        `db:"iso" json:"iso,omitempty"`
	Tags         pq.StringArray `db:"tags" json:"tags"`
	Privacy      string         `db:"privacy" json:"privacy"`
	IsDeleted    bool           `db:"is_deleted" json:"-"`
	UploadedAt   time.Time      `db:"uploaded_at" json:"uploaded_at"`
}

// ImageFilter narrows image listings. Zero values mean "no constraint".
type ImageFilter struct {
	EventID        int
	Photographer   string
	Privacy        string
	UploadedAfter  *time.Time
	UploadedBefore *time.Time
}
