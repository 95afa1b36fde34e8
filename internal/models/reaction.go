package models

import "time"

// Reaction types. A user may hold at most one reaction of each type per image.
const (
	ReactionLike     = "LIKE"
	ReactionFavorite = "FAVORITE"
)

// Reaction records a like or favorite on an image.
type Reaction struct {
	ID           int       `db:"id" json:"id"`
	UserID       int       `db:"user_id" json:"user_id"`
	ImageID      int       `db:"image_id" json:"image_id"`
	ReactionType string    `db:"reaction_type" json:"reaction_type"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// ValidReactionType reports whether t is a known reaction type.
func ValidReactionType(t string) bool {
	return t == ReactionLike || t == ReactionFavorite
}

// ReactionSummary is the per-image aggregate returned by the API.
type ReactionSummary struct {
	LikeCount     int  `db:"like_count" json:"like_count"`
	FavoriteCount int  `db:"favorite_count" json:"favorite_count"`
	UserLiked     bool `db:"user_liked" json:"user_liked"`
	UserFavorited bool `db:"user_favorited" json:"user_favorited"`
}
