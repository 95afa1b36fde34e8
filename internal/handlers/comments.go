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
	verbCommented = "commented on your photo"
	verbReplied   = "replied to your comment"
)

// CommentHandler manages threaded comments on images.
type CommentHandler struct {
	commentRepo repositories.CommentRepository
	imageRepo   repositories.ImageRepository
	userRepo    repositories.UserRepository
	notifier    *notifier.Notifier
}

// NewCommentHandler builds a CommentHandler.
func NewCommentHandler(commentRepo repositories.CommentRepository, imageRepo repositories.ImageRepository, userRepo repositories.UserRepository, n *notifier.Notifier) *CommentHandler {
	return &CommentHandler{commentRepo: commentRepo, imageRepo: imageRepo, userRepo: userRepo, notifier: n}
}

// CreateComment posts a comment (or a reply) on an image and notifies the
// image owner, or the parent comment's author for replies.
func (h *CommentHandler) CreateComment(c *gin.Context) {
	imageID, err := strconv.Atoi(c.Param("image_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid image id"})
		return
	}

	var req struct {
		Text     string `json:"text" binding:"required"`
		ParentID *int   `json:"parent_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
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
	comment, err := h.commentRepo.Create(c.Request.Context(), userID, imageID, req.ParentID, req.Text)
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrParentNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "parent comment not found"})
		case errors.Is(err, repositories.ErrParentMismatch):
			c.JSON(http.StatusBadRequest, gin.H{"error": "parent comment belongs to a different image"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create comment"})
		}
		return
	}

	h.notifyCommented(c, image, comment)

	c.JSON(http.StatusCreated, comment)
}

// ListComments returns the comment tree of an image.
func (h *CommentHandler) ListComments(c *gin.Context) {
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

	comments, err := h.commentRepo.ListForImage(c.Request.Context(), imageID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load comments"})
		return
	}

	authorIDs := make([]int, 0, len(comments))
	seen := make(map[int]bool, len(comments))
	for _, cm := range comments {
		if !seen[cm.UserID] {
			seen[cm.UserID] = true
			authorIDs = append(authorIDs, cm.UserID)
		}
	}
	usernames, err := h.userRepo.UsernamesByIDs(c.Request.Context(), authorIDs)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load comment authors"})
		return
	}

	tree := models.BuildCommentTree(comments, usernames)
	if tree == nil {
		tree = []*models.CommentNode{}
	}
	c.JSON(http.StatusOK, gin.H{"comments": tree})
}

// UpdateComment edits the text of the caller's own comment.
func (h *CommentHandler) UpdateComment(c *gin.Context) {
	comment, ok := h.ownComment(c)
	if !ok {
		return
	}

	var req struct {
		Text string `json:"text" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updated, err := h.commentRepo.UpdateText(c.Request.Context(), comment.ID, req.Text)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not update comment"})
		return
	}
	c.JSON(http.StatusOK, updated)
}

// DeleteComment removes the caller's own comment and all replies beneath it.
func (h *CommentHandler) DeleteComment(c *gin.Context) {
	comment, ok := h.ownComment(c)
	if !ok {
		return
	}

	if err := h.commentRepo.Delete(c.Request.Context(), comment.ID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not delete comment"})
		return
	}
	c.Status(http.StatusNoContent)
}

// notifyCommented delivers the notifications for a fresh comment: the image
// owner hears about the comment, and a reply's parent author hears about the
// reply. When the owner also wrote the parent they get the reply notification
// only, and nobody is notified about their own activity. Delivery problems do
// not fail the comment request.
func (h *CommentHandler) notifyCommented(c *gin.Context, image models.Image, comment models.Comment) {
	ctx := c.Request.Context()

	parentAuthorID := 0
	if comment.ParentID != nil {
		parent, err := h.commentRepo.Get(ctx, *comment.ParentID)
		if err != nil {
			log.Printf("comments: load parent %d for notification: %v", *comment.ParentID, err)
			return
		}
		parentAuthorID = parent.UserID
	}

	notifyParent := parentAuthorID != 0 && parentAuthorID != comment.UserID
	notifyOwner := image.UploadedBy != comment.UserID && image.UploadedBy != parentAuthorID
	if !notifyParent && !notifyOwner {
		return
	}

	actor, err := h.userRepo.GetByID(ctx, comment.UserID)
	if err != nil {
		log.Printf("comments: load actor %d for notification: %v", comment.UserID, err)
		return
	}

	if notifyParent {
		if _, err := h.notifier.Deliver(ctx, parentAuthorID, &actor, verbReplied, &image.ID, &comment.ID); err != nil {
			log.Printf("comments: deliver notification to user %d: %v", parentAuthorID, err)
		}
	}
	if notifyOwner {
		if _, err := h.notifier.Deliver(ctx, image.UploadedBy, &actor, verbCommented, &image.ID, &comment.ID); err != nil {
			log.Printf("comments: deliver notification to user %d: %v", image.UploadedBy, err)
		}
	}
}

func (h *CommentHandler) ownComment(c *gin.Context) (models.Comment, bool) {
	commentID, err := strconv.Atoi(c.Param("comment_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid comment id"})
		return models.Comment{}, false
	}

	comment, err := h.commentRepo.Get(c.Request.Context(), commentID)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, repositories.ErrCommentNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": "comment not found"})
		return models.Comment{}, false
	}
	if comment.UserID != c.GetInt("userID") {
		c.JSON(http.StatusForbidden, gin.H{"error": "not the comment author"})
		return models.Comment{}, false
	}
	return comment, true
}
