package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"photo-service/internal/mocks"
	"photo-service/internal/models"
	"photo-service/internal/repositories"
)

func setupImageRouter(imageRepo *mocks.ImageRepositoryMock, eventRepo *mocks.EventRepositoryMock) *gin.Engine {
	gin.SetMode(gin.TestMode)
	handler := NewImageHandler(imageRepo, eventRepo)

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("userID", 1)
		c.Next()
	})
	r.POST("/images", handler.CreateImage)
	r.GET("/images", handler.ListImages)
	r.GET("/images/:image_id", handler.GetImage)
	r.PATCH("/images/:image_id", handler.UpdateImage)
	r.DELETE("/images/:image_id", handler.DeleteImage)
	return r
}

func TestCreateImage(t *testing.T) {
	imageRepo := new(mocks.ImageRepositoryMock)
	eventRepo := new(mocks.EventRepositoryMock)
	router := setupImageRouter(imageRepo, eventRepo)

	eventRepo.On("Get", mock.Anything, 5).Return(models.Event{ID: 5}, nil).Once()
	imageRepo.On("Create", mock.Anything, mock.MatchedBy(func(img models.Image) bool {
		return img.EventID == 5 && img.UploadedBy == 1 && img.OriginalURL == "https://cdn/img.jpg"
	})).Return(models.Image{ID: 2, EventID: 5, UploadedBy: 1, OriginalURL: "https://cdn/img.jpg"}, nil).Once()

	body := bytes.NewBufferString(`{"event_id":5,"original_url":"https://cdn/img.jpg","tags":["stage"]}`)
	req := httptest.NewRequest(http.MethodPost, "/images", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	imageRepo.AssertExpectations(t)
}

func TestCreateImageBadPrivacy(t *testing.T) {
	router := setupImageRouter(new(mocks.ImageRepositoryMock), new(mocks.EventRepositoryMock))

	body := bytes.NewBufferString(`{"event_id":5,"original_url":"https://cdn/img.jpg","privacy":"FRIENDS"}`)
	req := httptest.NewRequest(http.MethodPost, "/images", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListImagesParsesFilters(t *testing.T) {
	imageRepo := new(mocks.ImageRepositoryMock)
	router := setupImageRouter(imageRepo, new(mocks.EventRepositoryMock))

	after, err := time.Parse(time.RFC3339, "2026-01-01T00:00:00Z")
	require.NoError(t, err)
	imageRepo.On("List", mock.Anything, mock.MatchedBy(func(f models.ImageFilter) bool {
		return f.EventID == 5 && f.Photographer == "alice" && f.Privacy == models.PrivacyPublic &&
			f.UploadedAfter != nil && f.UploadedAfter.Equal(after)
	}), 1).Return([]models.Image{}, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/images?event_id=5&photographer=alice&privacy=PUBLIC&uploaded_after=2026-01-01T00:00:00Z", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	imageRepo.AssertExpectations(t)
}

func TestListImagesBadDateFilter(t *testing.T) {
	router := setupImageRouter(new(mocks.ImageRepositoryMock), new(mocks.EventRepositoryMock))

	req := httptest.NewRequest(http.MethodGet, "/images?uploaded_after=yesterday", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetImagePrivateHiddenFromOthers(t *testing.T) {
	imageRepo := new(mocks.ImageRepositoryMock)
	router := setupImageRouter(imageRepo, new(mocks.EventRepositoryMock))

	imageRepo.On("Get", mock.Anything, 2).Return(models.Image{ID: 2, UploadedBy: 9, Privacy: models.PrivacyPrivate}, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/images/2", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetImagePrivateVisibleToUploader(t *testing.T) {
	imageRepo := new(mocks.ImageRepositoryMock)
	router := setupImageRouter(imageRepo, new(mocks.EventRepositoryMock))

	imageRepo.On("Get", mock.Anything, 2).Return(models.Image{ID: 2, UploadedBy: 1, Privacy: models.PrivacyPrivate}, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/images/2", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
}

func TestUpdateImageNotOwner(t *testing.T) {
	imageRepo := new(mocks.ImageRepositoryMock)
	router := setupImageRouter(imageRepo, new(mocks.EventRepositoryMock))

	imageRepo.On("Get", mock.Anything, 2).Return(models.Image{ID: 2, UploadedBy: 9}, nil).Once()

	req := httptest.NewRequest(http.MethodPatch, "/images/2", bytes.NewBufferString(`{"privacy":"PRIVATE"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusForbidden, rec.Code)
	imageRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestUpdateImageExifFields(t *testing.T) {
	imageRepo := new(mocks.ImageRepositoryMock)
	router := setupImageRouter(imageRepo, new(mocks.EventRepositoryMock))

	camera := "Canon EOS R5"
	iso := "800"
	imageRepo.On("Get", mock.Anything, 2).Return(models.Image{ID: 2, UploadedBy: 1, Privacy: models.PrivacyPublic}, nil).Once()
	imageRepo.On("Update", mock.Anything, mock.MatchedBy(func(img models.Image) bool {
		return img.CameraModel != nil && *img.CameraModel == camera &&
			img.ISO != nil && *img.ISO == iso
	})).Return(models.Image{ID: 2, UploadedBy: 1, Privacy: models.PrivacyPublic, CameraModel: &camera, ISO: &iso}, nil).Once()

	body := bytes.NewBufferString(`{"camera_model":"Canon EOS R5","iso":"800"}`)
	req := httptest.NewRequest(http.MethodPatch, "/images/2", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var got models.Image
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.NotNil(t, got.CameraModel)
	assert.Equal(t, camera, *got.CameraModel)
	require.NotNil(t, got.ISO)
	assert.Equal(t, iso, *got.ISO)
	imageRepo.AssertExpectations(t)
}

func TestDeleteImage(t *testing.T) {
	imageRepo := new(mocks.ImageRepositoryMock)
	router := setupImageRouter(imageRepo, new(mocks.EventRepositoryMock))

	imageRepo.On("SoftDelete", mock.Anything, 2, 1).Return(nil).Once()

	req := httptest.NewRequest(http.MethodDelete, "/images/2", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNoContent, rec.Code)
	imageRepo.AssertExpectations(t)
}

func TestDeleteImageNotOwnedLooksMissing(t *testing.T) {
	imageRepo := new(mocks.ImageRepositoryMock)
	router := setupImageRouter(imageRepo, new(mocks.EventRepositoryMock))

	imageRepo.On("SoftDelete", mock.Anything, 2, 1).Return(repositories.ErrImageNotFound).Once()

	req := httptest.NewRequest(http.MethodDelete, "/images/2", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
