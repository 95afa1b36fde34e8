package repositories

import (
	"context"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"photo-service/internal/models"
)

var (
	ErrReactionExists   = errors.New("reaction already exists")
	ErrReactionNotFound = errors.New("reaction not found")
)

// uniqueViolation is the Postgres error code for a unique constraint breach.
const uniqueViolation = "23505"

// ReactionRepository abstracts like/favorite persistence.
type ReactionRepository interface {
	Create(ctx context.Context, userID, imageID int, reactionType string) (models.Reaction, error)
	Delete(ctx context.Context, userID, imageID int, reactionType string) error
	Summarize(ctx context.Context, imageID int, viewerID int) (models.ReactionSummary, error)
}

// ReactionRepo is a sqlx implementation of ReactionRepository.
type ReactionRepo struct {
	db *sqlx.DB
}

// NewReactionRepo constructs a ReactionRepo.
func NewReactionRepo(db *sqlx.DB) *ReactionRepo {
	return &ReactionRepo{db: db}
}

// Create inserts a reaction. A second reaction of the same type by the same
// user on the same image returns ErrReactionExists.
func (r *ReactionRepo) Create(ctx context.Context, userID, imageID int, reactionType string) (models.Reaction, error) {
	var reaction models.Reaction
	err := r.db.QueryRowxContext(ctx,
		`INSERT INTO reactions (user_id, image_id, reaction_type)
         VALUES ($1, $2, $3) RETURNING id, user_id, image_id, reaction_type, created_at`,
		userID, imageID, reactionType).StructScan(&reaction)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation {
			return models.Reaction{}, ErrReactionExists
		}
		return models.Reaction{}, err
	}
	return reaction, nil
}

// Delete removes the caller's reaction of the given type.
func (r *ReactionRepo) Delete(ctx context.Context, userID, imageID int, reactionType string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM reactions WHERE user_id=$1 AND image_id=$2 AND reaction_type=$3`,
		userID, imageID, reactionType)
	if err != nil {
		return err
	}
	count, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrReactionNotFound
	}
	return nil
}

// Summarize returns per-type counts plus the viewer's own flags.
func (r *ReactionRepo) Summarize(ctx context.Context, imageID int, viewerID int) (models.ReactionSummary, error) {
	var summary models.ReactionSummary
	err := r.db.GetContext(ctx, &summary, `SELECT
        COUNT(*) FILTER (WHERE reaction_type='LIKE') AS like_count,
        COUNT(*) FILTER (WHERE reaction_type='FAVORITE') AS favorite_count,
        BOOL_OR(reaction_type='LIKE' AND user_id=$2) IS TRUE AS user_liked,
        BOOL_OR(reaction_type='FAVORITE' AND user_id=$2) IS TRUE AS user_favorited
        FROM reactions WHERE image_id=$1`, imageID, viewerID)
	return summary, err
}
