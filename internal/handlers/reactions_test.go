package handlers

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"photo-service/internal/mocks"
	"photo-service/internal/models"
	"photo-service/internal/notifier"
	"photo-service/internal/repositories"
	"photo-service/internal/ws"
)

type reactionTestDeps struct {
	reactionRepo     *mocks.ReactionRepositoryMock
	imageRepo        *mocks.ImageRepositoryMock
	userRepo         *mocks.UserRepositoryMock
	notificationRepo *mocks.NotificationRepositoryMock
	publisher        *mocks.PublisherMock
	router           *gin.Engine
}

func setupReactionRouter(t *testing.T) reactionTestDeps {
	t.Helper()
	gin.SetMode(gin.TestMode)

	deps := reactionTestDeps{
		reactionRepo:     new(mocks.ReactionRepositoryMock),
		imageRepo:        new(mocks.ImageRepositoryMock),
		userRepo:         new(mocks.UserRepositoryMock),
		notificationRepo: new(mocks.NotificationRepositoryMock),
		publisher:        new(mocks.PublisherMock),
	}
	notify := notifier.New(deps.notificationRepo, ws.NewHub(), deps.publisher)
	handler := NewReactionHandler(deps.reactionRepo, deps.imageRepo, deps.userRepo, notify)

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("userID", 1)
		c.Next()
	})
	r.POST("/images/:image_id/reactions", handler.CreateReaction)
	r.DELETE("/images/:image_id/reactions/:type", handler.DeleteReaction)
	r.GET("/images/:image_id/reactions", handler.GetReactionSummary)
	deps.router = r
	return deps
}

func TestCreateReactionNotifiesOwner(t *testing.T) {
	deps := setupReactionRouter(t)

	deps.imageRepo.On("Get", mock.Anything, 4).Return(models.Image{ID: 4, UploadedBy: 2}, nil).Once()
	deps.reactionRepo.On("Create", mock.Anything, 1, 4, models.ReactionLike).
		Return(models.Reaction{ID: 6, UserID: 1, ImageID: 4, ReactionType: models.ReactionLike}, nil).Once()
	deps.userRepo.On("GetByID", mock.Anything, 1).Return(models.User{ID: 1, Username: "alice"}, nil).Once()
	deps.notificationRepo.On("Create", mock.Anything, 2, mock.Anything, "liked your photo", mock.Anything, (*int)(nil)).
		Return(models.Notification{ID: 70, UserID: 2, Verb: "liked your photo", Unread: true, CreatedAt: time.Now()}, nil).Once()
	deps.publisher.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()

	req := httptest.NewRequest(http.MethodPost, "/images/4/reactions", bytes.NewBufferString(`{"type":"LIKE"}`))
	rec := httptest.NewRecorder()
	deps.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	deps.reactionRepo.AssertExpectations(t)
	deps.notificationRepo.AssertExpectations(t)
}

func TestCreateFavoriteUsesFavoriteVerb(t *testing.T) {
	deps := setupReactionRouter(t)

	deps.imageRepo.On("Get", mock.Anything, 4).Return(models.Image{ID: 4, UploadedBy: 2}, nil).Once()
	deps.reactionRepo.On("Create", mock.Anything, 1, 4, models.ReactionFavorite).
		Return(models.Reaction{ID: 7, UserID: 1, ImageID: 4, ReactionType: models.ReactionFavorite}, nil).Once()
	deps.userRepo.On("GetByID", mock.Anything, 1).Return(models.User{ID: 1, Username: "alice"}, nil).Once()
	deps.notificationRepo.On("Create", mock.Anything, 2, mock.Anything, "favorited your photo", mock.Anything, (*int)(nil)).
		Return(models.Notification{ID: 71, UserID: 2, Verb: "favorited your photo", Unread: true, CreatedAt: time.Now()}, nil).Once()
	deps.publisher.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()

	req := httptest.NewRequest(http.MethodPost, "/images/4/reactions", bytes.NewBufferString(`{"type":"FAVORITE"}`))
	rec := httptest.NewRecorder()
	deps.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	deps.notificationRepo.AssertExpectations(t)
}

func TestCreateReactionDuplicateConflicts(t *testing.T) {
	deps := setupReactionRouter(t)

	deps.imageRepo.On("Get", mock.Anything, 4).Return(models.Image{ID: 4, UploadedBy: 2}, nil).Once()
	deps.reactionRepo.On("Create", mock.Anything, 1, 4, models.ReactionLike).
		Return(models.Reaction{}, repositories.ErrReactionExists).Once()

	req := httptest.NewRequest(http.MethodPost, "/images/4/reactions", bytes.NewBufferString(`{"type":"LIKE"}`))
	rec := httptest.NewRecorder()
	deps.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusConflict, rec.Code)
	deps.notificationRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateReactionInvalidType(t *testing.T) {
	deps := setupReactionRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/images/4/reactions", bytes.NewBufferString(`{"type":"WOW"}`))
	rec := httptest.NewRecorder()
	deps.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSelfReactionStaysSilent(t *testing.T) {
	deps := setupReactionRouter(t)

	deps.imageRepo.On("Get", mock.Anything, 4).Return(models.Image{ID: 4, UploadedBy: 1}, nil).Once()
	deps.reactionRepo.On("Create", mock.Anything, 1, 4, models.ReactionLike).
		Return(models.Reaction{ID: 8, UserID: 1, ImageID: 4, ReactionType: models.ReactionLike}, nil).Once()

	req := httptest.NewRequest(http.MethodPost, "/images/4/reactions", bytes.NewBufferString(`{"type":"LIKE"}`))
	rec := httptest.NewRecorder()
	deps.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	deps.notificationRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestDeleteReactionNotFound(t *testing.T) {
	deps := setupReactionRouter(t)

	deps.reactionRepo.On("Delete", mock.Anything, 1, 4, models.ReactionLike).Return(repositories.ErrReactionNotFound).Once()

	req := httptest.NewRequest(http.MethodDelete, "/images/4/reactions/LIKE", nil)
	rec := httptest.NewRecorder()
	deps.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteReaction(t *testing.T) {
	deps := setupReactionRouter(t)

	deps.reactionRepo.On("Delete", mock.Anything, 1, 4, models.ReactionFavorite).Return(nil).Once()

	req := httptest.NewRequest(http.MethodDelete, "/images/4/reactions/FAVORITE", nil)
	rec := httptest.NewRecorder()
	deps.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNoContent, rec.Code)
	deps.reactionRepo.AssertExpectations(t)
}

func TestGetReactionSummary(t *testing.T) {
	deps := setupReactionRouter(t)

	deps.imageRepo.On("Get", mock.Anything, 4).Return(models.Image{ID: 4}, nil).Once()
	deps.reactionRepo.On("Summarize", mock.Anything, 4, 1).
		Return(models.ReactionSummary{LikeCount: 3, FavoriteCount: 1, UserLiked: true}, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/images/4/reactions", nil)
	rec := httptest.NewRecorder()
	deps.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	deps.reactionRepo.AssertExpectations(t)
}
