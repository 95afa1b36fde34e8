package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"photo-service/internal/models"
)

var (
	ErrEventNotFound = errors.New("event not found")
	ErrAlbumNotFound = errors.New("album not found")
)

// EventRepository abstracts event and album persistence.
type EventRepository interface {
	Create(ctx context.Context, event models.Event) (models.Event, error)
	Get(ctx context.Context, eventID int) (models.Event, error)
	List(ctx context.Context) ([]models.Event, error)
	Update(ctx context.Context, event models.Event) (models.Event, error)
	Delete(ctx context.Context, eventID int) error
	CreateAlbum(ctx context.Context, album models.Album) (models.Album, error)
	GetAlbum(ctx context.Context, albumID int) (models.Album, error)
	ListAlbums(ctx context.Context, eventID int) ([]models.Album, error)
	DeleteAlbum(ctx context.Context, albumID int) error
}

// EventRepo is a sqlx implementation of EventRepository.
type EventRepo struct {
	db *sqlx.DB
}

// NewEventRepo constructs an EventRepo.
func NewEventRepo(db *sqlx.DB) *EventRepo {
	return &EventRepo{db: db}
}

const eventColumns = `id, name, description, start_date, end_date, cover_photo, is_public, created_by, created_at`

// Create inserts an event.
func (r *EventRepo) Create(ctx context.Context, event models.Event) (models.Event, error) {
	var created models.Event
	err := r.db.QueryRowxContext(ctx,
		`INSERT INTO events (name, description, start_date, end_date, cover_photo, is_public, created_by)
         VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING `+eventColumns,
		event.Name, event.Description, event.StartDate, event.EndDate,
		event.CoverPhoto, event.IsPublic, event.CreatedBy).StructScan(&created)
	return created, err
}

// Get fetches an event by id.
func (r *EventRepo) Get(ctx context.Context, eventID int) (models.Event, error) {
	var event models.Event
	err := r.db.GetContext(ctx, &event, `SELECT `+eventColumns+` FROM events WHERE id=$1`, eventID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Event{}, ErrEventNotFound
	}
	return event, err
}

// List returns all events, newest first.
func (r *EventRepo) List(ctx context.Context) ([]models.Event, error) {
	var events []models.Event
	err := r.db.SelectContext(ctx, &events, `SELECT `+eventColumns+` FROM events ORDER BY created_at DESC`)
	return events, err
}

// Update rewrites the mutable event fields.
func (r *EventRepo) Update(ctx context.Context, event models.Event) (models.Event, error) {
	var updated models.Event
	err := r.db.QueryRowxContext(ctx,
		`UPDATE events SET name=$2, description=$3, start_date=$4, end_date=$5, cover_photo=$6, is_public=$7
         WHERE id=$1 RETURNING `+eventColumns,
		event.ID, event.Name, event.Description, event.StartDate, event.EndDate,
		event.CoverPhoto, event.IsPublic).StructScan(&updated)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Event{}, ErrEventNotFound
	}
	return updated, err
}

// Delete removes an event and, via cascades, its albums and images.
func (r *EventRepo) Delete(ctx context.Context, eventID int) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM events WHERE id=$1`, eventID)
	if err != nil {
		return err
	}
	count, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrEventNotFound
	}
	return nil
}

// CreateAlbum inserts an album under an event.
func (r *EventRepo) CreateAlbum(ctx context.Context, album models.Album) (models.Album, error) {
	var created models.Album
	err := r.db.QueryRowxContext(ctx,
		`INSERT INTO albums (event_id, name, description, created_by)
         VALUES ($1, $2, $3, $4) RETURNING id, event_id, name, description, created_by, created_at`,
		album.EventID, album.Name, album.Description, album.CreatedBy).StructScan(&created)
	return created, err
}

// GetAlbum fetches an album by id.
func (r *EventRepo) GetAlbum(ctx context.Context, albumID int) (models.Album, error) {
	var album models.Album
	err := r.db.GetContext(ctx, &album,
		`SELECT id, event_id, name, description, created_by, created_at FROM albums WHERE id=$1`, albumID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Album{}, ErrAlbumNotFound
	}
	return album, err
}

// ListAlbums returns the albums of an event in creation order.
func (r *EventRepo) ListAlbums(ctx context.Context, eventID int) ([]models.Album, error) {
	var albums []models.Album
	err := r.db.SelectContext(ctx, &albums,
		`SELECT id, event_id, name, description, created_by, created_at FROM albums WHERE event_id=$1 ORDER BY created_at`,
		eventID)
	return albums, err
}

// DeleteAlbum removes an album; its images fall back to the event.
func (r *EventRepo) DeleteAlbum(ctx context.Context, albumID int) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM albums WHERE id=$1`, albumID)
	if err != nil {
		return err
	}
	count, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrAlbumNotFound
	}
	return nil
}
