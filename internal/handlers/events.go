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

// EventHandler manages event and album endpoints.
type EventHandler struct {
	eventRepo repositories.EventRepository
	imageRepo repositories.ImageRepository
}

// NewEventHandler builds an EventHandler.
func NewEventHandler(eventRepo repositories.EventRepository, imageRepo repositories.ImageRepository) *EventHandler {
	return &EventHandler{eventRepo: eventRepo, imageRepo: imageRepo}
}

type eventRequest struct {
	Name        string     `json:"name" binding:"required"`
	Description string     `json:"description"`
	StartDate   *time.Time `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
	CoverPhoto  string     `json:"cover_photo"`
	IsPublic    *bool      `json:"is_public"`
}

// ListEvents returns all events.
func (h *EventHandler) ListEvents(c *gin.Context) {
	events, err := h.eventRepo.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load events"})
		return
	}
	if events == nil {
		events = []models.Event{}
	}
	c.JSON(http.StatusOK, gin.H{"events": events})
}

// CreateEvent stores a new event owned by the caller.
func (h *EventHandler) CreateEvent(c *gin.Context) {
	var req eventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	isPublic := true
	if req.IsPublic != nil {
		isPublic = *req.IsPublic
	}
	event, err := h.eventRepo.Create(c.Request.Context(), models.Event{
		Name:        req.Name,
		Description: req.Description,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		CoverPhoto:  req.CoverPhoto,
		IsPublic:    isPublic,
		CreatedBy:   c.GetInt("userID"),
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create event"})
		return
	}
	c.JSON(http.StatusCreated, event)
}

// GetEvent returns one event with the images the caller may see.
func (h *EventHandler) GetEvent(c *gin.Context) {
	eventID, err := strconv.Atoi(c.Param("event_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event id"})
		return
	}

	event, err := h.eventRepo.Get(c.Request.Context(), eventID)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, repositories.ErrEventNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": "event not found"})
		return
	}

	images, err := h.imageRepo.ListForEvent(c.Request.Context(), eventID, c.GetInt("userID"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load images"})
		return
	}
	if images == nil {
		images = []models.Image{}
	}

	c.JSON(http.StatusOK, gin.H{"event": event, "images": images})
}

// UpdateEvent patches an event owned by the caller.
func (h *EventHandler) UpdateEvent(c *gin.Context) {
	eventID, err := strconv.Atoi(c.Param("event_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event id"})
		return
	}

	event, ok := h.ownedEvent(c, eventID)
	if !ok {
		return
	}

	var req struct {
		Name        *string    `json:"name"`
		Description *string    `json:"description"`
		StartDate   *time.Time `json:"start_date"`
		EndDate     *time.Time `json:"end_date"`
		CoverPhoto  *string    `json:"cover_photo"`
		IsPublic    *bool      `json:"is_public"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Name != nil {
		event.Name = *req.Name
	}
	if req.Description != nil {
		event.Description = *req.Description
	}
	if req.StartDate != nil {
		event.StartDate = req.StartDate
	}
	if req.EndDate != nil {
		event.EndDate = req.EndDate
	}
	if req.CoverPhoto != nil {
		event.CoverPhoto = *req.CoverPhoto
	}
	if req.IsPublic != nil {
		event.IsPublic = *req.IsPublic
	}

	updated, err := h.eventRepo.Update(c.Request.Context(), event)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not update event"})
		return
	}
	c.JSON(http.StatusOK, updated)
}

// DeleteEvent removes an event owned by the caller.
func (h *EventHandler) DeleteEvent(c *gin.Context) {
	eventID, err := strconv.Atoi(c.Param("event_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event id"})
		return
	}

	if _, ok := h.ownedEvent(c, eventID); !ok {
		return
	}

	if err := h.eventRepo.Delete(c.Request.Context(), eventID); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, repositories.ErrEventNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": "could not delete event"})
		return
	}
	c.Status(http.StatusNoContent)
}

// ListAlbums returns the albums of an event.
func (h *EventHandler) ListAlbums(c *gin.Context) {
	eventID, err := strconv.Atoi(c.Param("event_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event id"})
		return
	}

	albums, err := h.eventRepo.ListAlbums(c.Request.Context(), eventID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load albums"})
		return
	}
	if albums == nil {
		albums = []models.Album{}
	}
	c.JSON(http.StatusOK, gin.H{"albums": albums})
}

// CreateAlbum stores a new album under an event.
func (h *EventHandler) CreateAlbum(c *gin.Context) {
	eventID, err := strconv.Atoi(c.Param("event_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event id"})
		return
	}

	if _, err := h.eventRepo.Get(c.Request.Context(), eventID); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, repositories.ErrEventNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": "event not found"})
		return
	}

	var req struct {
		Name        string `json:"name" binding:"required"`
		Description string `json:"description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	album, err := h.eventRepo.CreateAlbum(c.Request.Context(), models.Album{
		EventID:     eventID,
		Name:        req.Name,
		Description: req.Description,
		CreatedBy:   c.GetInt("userID"),
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create album"})
		return
	}
	c.JSON(http.StatusCreated, album)
}

// DeleteAlbum removes an album created by the caller.
func (h *EventHandler) DeleteAlbum(c *gin.Context) {
	albumID, err := strconv.Atoi(c.Param("album_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid album id"})
		return
	}

	album, err := h.eventRepo.GetAlbum(c.Request.Context(), albumID)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, repositories.ErrAlbumNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": "album not found"})
		return
	}
	if album.CreatedBy != c.GetInt("userID") {
		c.JSON(http.StatusForbidden, gin.H{"error": "not the album owner"})
		return
	}

	if err := h.eventRepo.DeleteAlbum(c.Request.Context(), albumID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not delete album"})
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *EventHandler) ownedEvent(c *gin.Context, eventID int) (models.Event, bool) {
	event, err := h.eventRepo.Get(c.Request.Context(), eventID)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, repositories.ErrEventNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": "event not found"})
		return models.Event{}, false
	}
	if event.CreatedBy != c.GetInt("userID") {
		c.JSON(http.StatusForbidden, gin.H{"error": "not the event owner"})
		return models.Event{}, false
	}
	return event, true
}
