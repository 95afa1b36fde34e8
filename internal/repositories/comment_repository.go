package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"photo-service/internal/models"
)

var (
	ErrCommentNotFound = errors.New("comment not found")
	ErrParentMismatch  = errors.New("parent comment belongs to a different image")
	ErrParentNotFound  = errors.New("parent comment not found")
)

const commentColumns = `id, user_id, image_id, parent_id, text, created_at, updated_at`

// CommentRepository abstracts comment persistence. Comments live in a flat
// table; the reply tree is derived at read time.
type CommentRepository interface {
	Create(ctx context.Context, userID, imageID int, parentID *int, text string) (models.Comment, error)
	Get(ctx context.Context, commentID int) (models.Comment, error)
	ListForImage(ctx context.Context, imageID int) ([]models.Comment, error)
	UpdateText(ctx context.Context, commentID int, text string) (models.Comment, error)
	Delete(ctx context.Context, commentID int) error
}

// CommentRepo is a sqlx implementation of CommentRepository.
type CommentRepo struct {
	db *sqlx.DB
}

// NewCommentRepo constructs a CommentRepo.
func NewCommentRepo(db *sqlx.DB) *CommentRepo {
	return &CommentRepo{db: db}
}

// Create inserts a comment. When parentID is set the parent must exist and
// reference the same image.
func (r *CommentRepo) Create(ctx context.Context, userID, imageID int, parentID *int, text string) (models.Comment, error) {
	if parentID != nil {
		var parentImageID int
		err := r.db.GetContext(ctx, &parentImageID, `SELECT image_id FROM comments WHERE id=$1`, *parentID)
		if errors.Is(err, sql.ErrNoRows) {
			return models.Comment{}, ErrParentNotFound
		}
		if err != nil {
			return models.Comment{}, err
		}
		if parentImageID != imageID {
			return models.Comment{}, ErrParentMismatch
		}
	}

	var comment models.Comment
	err := r.db.QueryRowxContext(ctx,
		`INSERT INTO comments (user_id, image_id, parent_id, text)
         VALUES ($1, $2, $3, $4) RETURNING `+commentColumns,
		userID, imageID, parentID, text).StructScan(&comment)
	return comment, err
}

// Get fetches a comment by id.
func (r *CommentRepo) Get(ctx context.Context, commentID int) (models.Comment, error) {
	var comment models.Comment
	err := r.db.GetContext(ctx, &comment, `SELECT `+commentColumns+` FROM comments WHERE id=$1`, commentID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Comment{}, ErrCommentNotFound
	}
	return comment, err
}

// ListForImage returns the image's comments in creation order.
func (r *CommentRepo) ListForImage(ctx context.Context, imageID int) ([]models.Comment, error) {
	var comments []models.Comment
	err := r.db.SelectContext(ctx, &comments,
		`SELECT `+commentColumns+` FROM comments WHERE image_id=$1 ORDER BY created_at`, imageID)
	return comments, err
}

// UpdateText replaces the comment body and bumps updated_at.
func (r *CommentRepo) UpdateText(ctx context.Context, commentID int, text string) (models.Comment, error) {
	var comment models.Comment
	err := r.db.QueryRowxContext(ctx,
		`UPDATE comments SET text=$2, updated_at=NOW() WHERE id=$1 RETURNING `+commentColumns,
		commentID, text).StructScan(&comment)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Comment{}, ErrCommentNotFound
	}
	return comment, err
}

// Delete removes a comment; replies go with it via the parent_id cascade.
func (r *CommentRepo) Delete(ctx context.Context, commentID int) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM comments WHERE id=$1`, commentID)
	if err != nil {
		return err
	}
	count, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrCommentNotFound
	}
	return nil
}
