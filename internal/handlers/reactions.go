package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"photo-service/internal/models"
	"photo-service/internal/notifier"
	"photo-service/internal/repositories"
)

const (
	verbLiked     = "liked your photo"
	verbFavorited = "favorited your photo"
)

// ReactionHandler manages likes and favorites on images.
type ReactionHandler struct {
	reactionRepo repositories.ReactionRepository
	imageRepo    repositories.ImageRepository
	userRepo     repositories.UserRepository
	notifier     *notifier.Notifier
}

// NewReactionHandler builds a ReactionHandler.
func NewReactionHandler(reactionRepo repositories.ReactionRepository, imageRepo repositories.ImageRepository, userRepo repositories.UserRepository, n *notifier.Notifier) *ReactionHandler {
	return &ReactionHandler{reactionRepo: reactionRepo, imageRepo: imageRepo, userRepo: userRepo, notifier: n}
}

// CreateReaction records a like or favorite and notifies the image owner.
// Reacting twice with the same type is a conflict.
func (h *ReactionHandler) CreateReaction(c *gin.Context) {
	imageID, err := strconv.Atoi(c.Param("image_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid image id"})
		return
	}

	var req struct {
		Type string `json:"type" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !models.ValidReactionType(req.Type) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "type must be LIKE or FAVORITE"})
		return
	}

	image, err := h.imageRepo.Get(c.Request.Context(), imageID)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, repositories.ErrImageNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": "image not found"})
		return
	}

	userID := c.GetInt("userID")
	reaction, err := h.reactionRepo.Create(c.Request.Context(), userID, imageID, req.Type)
	if err != nil {
		if errors.Is(err, repositories.ErrReactionExists) {
			c.JSON(http.StatusConflict, gin.H{"error": "already reacted"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not store reaction"})
		return
	}

	h.notifyReacted(c, image, userID, req.Type)

	c.JSON(http.StatusCreated, reaction)
}

// DeleteReaction withdraws the caller's like or favorite.
func (h *ReactionHandler) DeleteReaction(c *gin.Context) {
	imageID, err := strconv.Atoi(c.Param("image_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid image id"})
		return
	}
	reactionType := c.Param("type")
	if !models.ValidReactionType(reactionType) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "type must be LIKE or FAVORITE"})
		return
	}

	err = h.reactionRepo.Delete(c.Request.Context(), c.GetInt("userID"), imageID, reactionType)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, repositories.ErrReactionNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": "reaction not found"})
		return
	}
	c.Status(http.StatusNoContent)
}

// GetReactionSummary returns per-image reaction counts and the caller's own
// reaction state.
func (h *ReactionHandler) GetReactionSummary(c *gin.Context) {
	imageID, err := strconv.Atoi(c.Param("image_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid image id"})
		return
	}

	if _, err := h.imageRepo.Get(c.Request.Context(), imageID); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, repositories.ErrImageNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": "image not found"})
		return
	}

	summary, err := h.reactionRepo.Summarize(c.Request.Context(), imageID, c.GetInt("userID"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load reactions"})
		return
	}
	c.JSON(http.StatusOK, summary)
}

// notifyReacted tells the image owner about a new reaction. Self-reactions
// stay silent, and delivery problems do not fail the request.
func (h *ReactionHandler) notifyReacted(c *gin.Context, image models.Image, actorID int, reactionType string) {
	if image.UploadedBy == actorID {
		return
	}

	verb := verbLiked
	if reactionType == models.ReactionFavorite {
		verb = verbFavorited
	}
	actor, err := h.userRepo.GetByID(c.Request.Context(), actorID)
	if err != nil {
		log.Printf("reactions: load actor %d for notification: %v", actorID, err)
		return
	}
	if _, err := h.notifier.Deliver(c.Request.Context(), image.UploadedBy, &actor, verb, &image.ID, nil); err != nil {
		log.Printf("reactions: deliver notification to user %d: %v", image.UploadedBy, err)
	}
}
