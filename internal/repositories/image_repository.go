package repositories

import (
	"context"
	"database/sql"
	"errors"
	"strconv"

	"github.com/jmoiron/sqlx"

	"photo-service/internal/models"
)

var ErrImageNotFound = errors.New("image not found")

const imageColumns = `id, event_id, album_id, uploaded_by, original_url, thumbnail_url,
    camera_model, aperture, shutter_speed, iso, tags, privacy, is_deleted, uploaded_at`

const imageColumnsPrefixed = `i.id, i.event_id, i.album_id, i.uploaded_by, i.original_url, i.thumbnail_url,
    i.camera_model, i.aperture, i.shutter_speed, i.iso, i.tags, i.privacy, i.is_deleted, i.uploaded_at`

// ImageRepository abstracts image persistence.
type ImageRepository interface {
	Create(ctx context.Context, image models.Image) (models.Image, error)
	Get(ctx context.Context, imageID int) (models.Image, error)
	List(ctx context.Context, filter models.ImageFilter, viewerID int) ([]models.Image, error)
	ListForEvent(ctx context.Context, eventID int, viewerID int) ([]models.Image, error)
	Update(ctx context.Context, image models.Image) (models.Image, error)
	SoftDelete(ctx context.Context, imageID int, ownerID int) error
}

// ImageRepo is a sqlx implementation of ImageRepository.
type ImageRepo struct {
	db *sqlx.DB
}

// NewImageRepo constructs an ImageRepo.
func NewImageRepo(db *sqlx.DB) *ImageRepo {
	return &ImageRepo{db: db}
}

// Create registers uploaded image metadata.
func (r *ImageRepo) Create(ctx context.Context, image models.Image) (models.Image, error) {
	if image.Privacy == "" {
		image.Privacy = models.PrivacyPublic
	}
	if image.Tags == nil {
		image.Tags = []string{}
	}
	var created models.Image
	err := r.db.QueryRowxContext(ctx,
		`INSERT INTO images (event_id, album_id, uploaded_by, original_url, thumbnail_url,
            camera_model, aperture, shutter_speed, iso, tags, privacy)
         VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
         RETURNING `+imageColumns,
		image.EventID, image.AlbumID, image.UploadedBy, image.OriginalURL, image.ThumbnailURL,
		image.CameraModel, image.Aperture, image.ShutterSpeed, image.ISO, image.Tags,
		image.Privacy).StructScan(&created)
	return created, err
}

// Get fetches a single non-deleted image.
func (r *ImageRepo) Get(ctx context.Context, imageID int) (models.Image, error) {
	var image models.Image
	err := r.db.GetContext(ctx, &image,
		`SELECT `+imageColumns+` FROM images WHERE id=$1 AND is_deleted=FALSE`,
		imageID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Image{}, ErrImageNotFound
	}
	return image, err
}

// List returns images matching the filter that the viewer may see: public
// ones plus the viewer's own. viewerID 0 means unauthenticated.
func (r *ImageRepo) List(ctx context.Context, filter models.ImageFilter, viewerID int) ([]models.Image, error) {
	query := `SELECT ` + imageColumnsPrefixed + ` FROM images i
        JOIN users u ON u.id = i.uploaded_by
        WHERE i.is_deleted = FALSE
        AND (i.privacy = 'PUBLIC' OR i.uploaded_by = $1)`
	args := []any{viewerID}

	if filter.EventID != 0 {
		args = append(args, filter.EventID)
		query += ` AND i.event_id = $` + strconv.Itoa(len(args))
	}
	if filter.Photographer != "" {
		args = append(args, filter.Photographer)
		query += ` AND u.username ILIKE '%' || $` + strconv.Itoa(len(args)) + ` || '%'`
	}
	if filter.Privacy != "" {
		args = append(args, filter.Privacy)
		query += ` AND i.privacy = $` + strconv.Itoa(len(args))
	}
	if filter.UploadedAfter != nil {
		args = append(args, *filter.UploadedAfter)
		query += ` AND i.uploaded_at >= $` + strconv.Itoa(len(args))
	}
	if filter.UploadedBefore != nil {
		args = append(args, *filter.UploadedBefore)
		query += ` AND i.uploaded_at <= $` + strconv.Itoa(len(args))
	}
	query += ` ORDER BY i.uploaded_at DESC`

	var images []models.Image
	err := r.db.SelectContext(ctx, &images, query, args...)
	return images, err
}

// ListForEvent returns the event's images visible to the viewer, newest first.
func (r *ImageRepo) ListForEvent(ctx context.Context, eventID int, viewerID int) ([]models.Image, error) {
	return r.List(ctx, models.ImageFilter{EventID: eventID}, viewerID)
}

// Update rewrites the mutable metadata fields.
func (r *ImageRepo) Update(ctx context.Context, image models.Image) (models.Image, error) {
	if image.Tags == nil {
		image.Tags = []string{}
	}
	var updated models.Image
	err := r.db.QueryRowxContext(ctx,
		`UPDATE images SET album_id=$2, thumbnail_url=$3, tags=$4, privacy=$5,
             camera_model=$6, aperture=$7, shutter_speed=$8, iso=$9
         WHERE id=$1 AND is_deleted=FALSE
         RETURNING `+imageColumns,
		image.ID, image.AlbumID, image.ThumbnailURL, image.Tags, image.Privacy,
		image.CameraModel, image.Aperture, image.ShutterSpeed, image.ISO).StructScan(&updated)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Image{}, ErrImageNotFound
	}
	return updated, err
}

// SoftDelete hides an image owned by ownerID. Missing and not-owned are the
// same outcome.
func (r *ImageRepo) SoftDelete(ctx context.Context, imageID int, ownerID int) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE images SET is_deleted=TRUE WHERE id=$1 AND uploaded_by=$2 AND is_deleted=FALSE`,
		imageID, ownerID)
	if err != nil {
		return err
	}
	count, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrImageNotFound
	}
	return nil
}
