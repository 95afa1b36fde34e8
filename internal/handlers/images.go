package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"photo-service/internal/models"
	"photo-service/internal/repositories"
)

// ImageHandler manages image upload metadata and listing.
type ImageHandler struct {
	imageRepo repositories.ImageRepository
	eventRepo repositories.EventRepository
}

// NewImageHandler builds an ImageHandler.
func NewImageHandler(imageRepo repositories.ImageRepository, eventRepo repositories.EventRepository) *ImageHandler {
	return &ImageHandler{imageRepo: imageRepo, eventRepo: eventRepo}
}

// CreateImage registers an uploaded image under an event.
func (h *ImageHandler) CreateImage(c *gin.Context) {
	var req struct {
		EventID      int      `json:"event_id" binding:"required"`
		AlbumID      *int     `json:"album_id"`
		OriginalURL  string   `json:"original_url" binding:"required"`
		ThumbnailURL string   `json:"thumbnail_url"`
		CameraModel  *string  `json:"camera_model"`
		Aperture     *string  `json:"aperture"`
		ShutterSpeed *string  `json:"shutter_speed"`
		ISO          *string  `json:"iso"`
		Tags         []string `json:"tags"`
		Privacy      string   `json:"privacy"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Privacy != "" && req.Privacy != models.PrivacyPublic && req.Privacy != models.PrivacyPrivate {
		c.JSON(http.StatusBadRequest, gin.H{"error": "privacy must be PUBLIC or PRIVATE"})
		return
	}
	if _, err := h.eventRepo.Get(c.Request.Context(), req.EventID); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, repositories.ErrEventNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": "event not found"})
		return
	}

	image, err := h.imageRepo.Create(c.Request.Context(), models.Image{
		EventID:      req.EventID,
		AlbumID:      req.AlbumID,
		UploadedBy:   c.GetInt("userID"),
		OriginalURL:  req.OriginalURL,
		ThumbnailURL: req.ThumbnailURL,
		CameraModel:  req.CameraModel,
		Aperture:     req.Aperture,
		ShutterSpeed: req.ShutterSpeed,
		ISO:          req.ISO,
		Tags:         req.Tags,
		Privacy:      req.Privacy,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not store image"})
		return
	}
	c.JSON(http.StatusCreated, image)
}

// ListImages returns images visible to the caller, filtered by query params.
func (h *ImageHandler) ListImages(c *gin.Context) {
	filter, err := imageFilterFromQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	images, err := h.imageRepo.List(c.Request.Context(), filter, c.GetInt("userID"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load images"})
		return
	}
	if images == nil {
		images = []models.Image{}
	}
	c.JSON(http.StatusOK, gin.H{"images": images})
}

// GetImage returns a single non-deleted image the caller may see.
func (h *ImageHandler) GetImage(c *gin.Context) {
	image, ok := h.visibleImage(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, image)
}

// UpdateImage patches image metadata. Only the uploader may edit.
func (h *ImageHandler) UpdateImage(c *gin.Context) {
	imageID, err := strconv.Atoi(c.Param("image_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid image id"})
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
	if image.UploadedBy != c.GetInt("userID") {
		c.JSON(http.StatusForbidden, gin.H{"error": "not the image owner"})
		return
	}

	var req struct {
		AlbumID      *int     `json:"album_id"`
		ThumbnailURL *string  `json:"thumbnail_url"`
		CameraModel  *string  `json:"camera_model"`
		Aperture     *string  `json:"aperture"`
		ShutterSpeed *string  `json:"shutter_speed"`
		ISO          *string  `json:"iso"`
		Tags         []string `json:"tags"`
		Privacy      *string  `json:"privacy"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.AlbumID != nil {
		image.AlbumID = req.AlbumID
	}
	if req.ThumbnailURL != nil {
		image.ThumbnailURL = *req.ThumbnailURL
	}
	if req.CameraModel != nil {
		image.CameraModel = req.CameraModel
	}
	if req.Aperture != nil {
		image.Aperture = req.Aperture
	}
	if req.ShutterSpeed != nil {
		image.ShutterSpeed = req.ShutterSpeed
	}
	if req.ISO != nil {
		image.ISO = req.ISO
	}
	if req.Tags != nil {
		image.Tags = req.Tags
	}
	if req.Privacy != nil {
		if *req.Privacy != models.PrivacyPublic && *req.Privacy != models.PrivacyPrivate {
			c.JSON(http.StatusBadRequest, gin.H{"error": "privacy must be PUBLIC or PRIVATE"})
			return
		}
		image.Privacy = *req.Privacy
	}

	updated, err := h.imageRepo.Update(c.Request.Context(), image)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not update image"})
		return
	}
	c.JSON(http.StatusOK, updated)
}

// DeleteImage soft-deletes an image owned by the caller.
func (h *ImageHandler) DeleteImage(c *gin.Context) {
	imageID, err := strconv.Atoi(c.Param("image_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid image id"})
		return
	}

	err = h.imageRepo.SoftDelete(c.Request.Context(), imageID, c.GetInt("userID"))
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, repositories.ErrImageNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": "image not found"})
		return
	}
	c.Status(http.StatusNoContent)
}

// visibleImage loads the :image_id route param and enforces privacy: a
// private image is visible only to its uploader.
func (h *ImageHandler) visibleImage(c *gin.Context) (models.Image, bool) {
	imageID, err := strconv.Atoi(c.Param("image_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid image id"})
		return models.Image{}, false
	}

	image, err := h.imageRepo.Get(c.Request.Context(), imageID)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, repositories.ErrImageNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": "image not found"})
		return models.Image{}, false
	}
	if image.Privacy == models.PrivacyPrivate && image.UploadedBy != c.GetInt("userID") {
		c.JSON(http.StatusNotFound, gin.H{"error": "image not found"})
		return models.Image{}, false
	}
	return image, true
}

func imageFilterFromQuery(c *gin.Context) (models.ImageFilter, error) {
	var filter models.ImageFilter

	if raw := c.Query("event_id"); raw != "" {
		eventID, err := strconv.Atoi(raw)
		if err != nil {
			return filter, errors.New("invalid event_id filter")
		}
		filter.EventID = eventID
	}
	filter.Photographer = c.Query("photographer")
	if privacy := c.Query("privacy"); privacy != "" {
		if privacy != models.PrivacyPublic && privacy != models.PrivacyPrivate {
			return filter, errors.New("privacy must be PUBLIC or PRIVATE")
		}
		filter.Privacy = privacy
	}
	if raw := c.Query("uploaded_after"); raw != "" {
		ts, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return filter, errors.New("uploaded_after must be RFC3339")
		}
		filter.UploadedAfter = &ts
	}
	if raw := c.Query("uploaded_before"); raw != "" {
		ts, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return filter, errors.New("uploaded_before must be RFC3339")
		}
		filter.UploadedBefore = &ts
	}
	return filter, nil
}
