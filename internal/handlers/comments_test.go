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
	"photo-service/internal/notifier"
	"photo-service/internal/repositories"
	"photo-service/internal/ws"
)

type commentTestDeps struct {
	commentRepo      *mocks.CommentRepositoryMock
	imageRepo        *mocks.ImageRepositoryMock
	userRepo         *mocks.UserRepositoryMock
	notificationRepo *mocks.NotificationRepositoryMock
	publisher        *mocks.PublisherMock
	router           *gin.Engine
}

func setupCommentRouter(t *testing.T) commentTestDeps {
	t.Helper()
	gin.SetMode(gin.TestMode)

	deps := commentTestDeps{
		commentRepo:      new(mocks.CommentRepositoryMock),
		imageRepo:        new(mocks.ImageRepositoryMock),
		userRepo:         new(mocks.UserRepositoryMock),
		notificationRepo: new(mocks.NotificationRepositoryMock),
		publisher:        new(mocks.PublisherMock),
	}
	notify := notifier.New(deps.notificationRepo, ws.NewHub(), deps.publisher)
	handler := NewCommentHandler(deps.commentRepo, deps.imageRepo, deps.userRepo, notify)

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("userID", 1)
		c.Next()
	})
	r.POST("/images/:image_id/comments", handler.CreateComment)
	r.GET("/images/:image_id/comments", handler.ListComments)
	r.PATCH("/comments/:comment_id", handler.UpdateComment)
	r.DELETE("/comments/:comment_id", handler.DeleteComment)
	deps.router = r
	return deps
}

func TestCreateCommentNotifiesImageOwner(t *testing.T) {
	deps := setupCommentRouter(t)

	deps.imageRepo.On("Get", mock.Anything, 4).Return(models.Image{ID: 4, UploadedBy: 2}, nil).Once()
	deps.commentRepo.On("Create", mock.Anything, 1, 4, (*int)(nil), "nice shot").
		Return(models.Comment{ID: 10, UserID: 1, ImageID: 4, Text: "nice shot"}, nil).Once()
	deps.userRepo.On("GetByID", mock.Anything, 1).Return(models.User{ID: 1, Username: "alice"}, nil).Once()
	deps.notificationRepo.On("Create", mock.Anything, 2, mock.Anything, "commented on your photo", mock.Anything, mock.Anything).
		Return(models.Notification{ID: 50, UserID: 2, Verb: "commented on your photo", Unread: true, CreatedAt: time.Now()}, nil).Once()
	deps.publisher.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()

	req := httptest.NewRequest(http.MethodPost, "/images/4/comments", bytes.NewBufferString(`{"text":"nice shot"}`))
	rec := httptest.NewRecorder()
	deps.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	deps.commentRepo.AssertExpectations(t)
	deps.notificationRepo.AssertExpectations(t)
	deps.publisher.AssertExpectations(t)
}

func TestCreateCommentOnOwnImageStaysSilent(t *testing.T) {
	deps := setupCommentRouter(t)

	deps.imageRepo.On("Get", mock.Anything, 4).Return(models.Image{ID: 4, UploadedBy: 1}, nil).Once()
	deps.commentRepo.On("Create", mock.Anything, 1, 4, (*int)(nil), "my own").
		Return(models.Comment{ID: 11, UserID: 1, ImageID: 4, Text: "my own"}, nil).Once()

	req := httptest.NewRequest(http.MethodPost, "/images/4/comments", bytes.NewBufferString(`{"text":"my own"}`))
	rec := httptest.NewRecorder()
	deps.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	deps.notificationRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateReplyNotifiesParentAuthor(t *testing.T) {
	deps := setupCommentRouter(t)

	parentID := 9
	deps.imageRepo.On("Get", mock.Anything, 4).Return(models.Image{ID: 4, UploadedBy: 2}, nil).Once()
	deps.commentRepo.On("Create", mock.Anything, 1, 4, &parentID, "agreed").
		Return(models.Comment{ID: 12, UserID: 1, ImageID: 4, ParentID: &parentID, Text: "agreed"}, nil).Once()
	deps.commentRepo.On("Get", mock.Anything, 9).Return(models.Comment{ID: 9, UserID: 3, ImageID: 4}, nil).Once()
	deps.userRepo.On("GetByID", mock.Anything, 1).Return(models.User{ID: 1, Username: "alice"}, nil).Once()
	deps.notificationRepo.On("Create", mock.Anything, 3, mock.Anything, "replied to your comment", mock.Anything, mock.Anything).
		Return(models.Notification{ID: 51, UserID: 3, Verb: "replied to your comment", Unread: true, CreatedAt: time.Now()}, nil).Once()
	deps.notificationRepo.On("Create", mock.Anything, 2, mock.Anything, "commented on your photo", mock.Anything, mock.Anything).
		Return(models.Notification{ID: 52, UserID: 2, Verb: "commented on your photo", Unread: true, CreatedAt: time.Now()}, nil).Once()
	deps.publisher.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(nil).Twice()

	req := httptest.NewRequest(http.MethodPost, "/images/4/comments", bytes.NewBufferString(`{"text":"agreed","parent_id":9}`))
	rec := httptest.NewRecorder()
	deps.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	deps.notificationRepo.AssertExpectations(t)
	deps.publisher.AssertExpectations(t)
}

func TestCreateReplyToImageOwnerNotifiesOnce(t *testing.T) {
	deps := setupCommentRouter(t)

	parentID := 9
	deps.imageRepo.On("Get", mock.Anything, 4).Return(models.Image{ID: 4, UploadedBy: 3}, nil).Once()
	deps.commentRepo.On("Create", mock.Anything, 1, 4, &parentID, "same").
		Return(models.Comment{ID: 14, UserID: 1, ImageID: 4, ParentID: &parentID, Text: "same"}, nil).Once()
	deps.commentRepo.On("Get", mock.Anything, 9).Return(models.Comment{ID: 9, UserID: 3, ImageID: 4}, nil).Once()
	deps.userRepo.On("GetByID", mock.Anything, 1).Return(models.User{ID: 1, Username: "alice"}, nil).Once()
	deps.notificationRepo.On("Create", mock.Anything, 3, mock.Anything, "replied to your comment", mock.Anything, mock.Anything).
		Return(models.Notification{ID: 53, UserID: 3, Verb: "replied to your comment", Unread: true, CreatedAt: time.Now()}, nil).Once()
	deps.publisher.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()

	req := httptest.NewRequest(http.MethodPost, "/images/4/comments", bytes.NewBufferString(`{"text":"same","parent_id":9}`))
	rec := httptest.NewRecorder()
	deps.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	deps.notificationRepo.AssertExpectations(t)
	deps.notificationRepo.AssertNotCalled(t, "Create", mock.Anything, 3, mock.Anything, "commented on your photo", mock.Anything, mock.Anything)
}

func TestCreateCommentParentOnOtherImage(t *testing.T) {
	deps := setupCommentRouter(t)

	parentID := 9
	deps.imageRepo.On("Get", mock.Anything, 4).Return(models.Image{ID: 4, UploadedBy: 2}, nil).Once()
	deps.commentRepo.On("Create", mock.Anything, 1, 4, &parentID, "huh").
		Return(models.Comment{}, repositories.ErrParentMismatch).Once()

	req := httptest.NewRequest(http.MethodPost, "/images/4/comments", bytes.NewBufferString(`{"text":"huh","parent_id":9}`))
	rec := httptest.NewRecorder()
	deps.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateCommentDeliveryFailureDoesNotFailRequest(t *testing.T) {
	deps := setupCommentRouter(t)

	deps.imageRepo.On("Get", mock.Anything, 4).Return(models.Image{ID: 4, UploadedBy: 2}, nil).Once()
	deps.commentRepo.On("Create", mock.Anything, 1, 4, (*int)(nil), "nice").
		Return(models.Comment{ID: 13, UserID: 1, ImageID: 4, Text: "nice"}, nil).Once()
	deps.userRepo.On("GetByID", mock.Anything, 1).Return(models.User{ID: 1, Username: "alice"}, nil).Once()
	deps.notificationRepo.On("Create", mock.Anything, 2, mock.Anything, "commented on your photo", mock.Anything, mock.Anything).
		Return(models.Notification{}, assert.AnError).Once()

	req := httptest.NewRequest(http.MethodPost, "/images/4/comments", bytes.NewBufferString(`{"text":"nice"}`))
	rec := httptest.NewRecorder()
	deps.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
}

func TestListCommentsBuildsTree(t *testing.T) {
	deps := setupCommentRouter(t)

	parentID := 1
	deps.imageRepo.On("Get", mock.Anything, 4).Return(models.Image{ID: 4}, nil).Once()
	deps.commentRepo.On("ListForImage", mock.Anything, 4).Return([]models.Comment{
		{ID: 1, UserID: 2, ImageID: 4, Text: "root"},
		{ID: 2, UserID: 3, ImageID: 4, ParentID: &parentID, Text: "reply"},
	}, nil).Once()
	deps.userRepo.On("UsernamesByIDs", mock.Anything, []int{2, 3}).Return(map[int]string{2: "bob", 3: "carol"}, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/images/4/comments", nil)
	rec := httptest.NewRecorder()
	deps.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Comments []struct {
			ID       int    `json:"id"`
			Username string `json:"username"`
			Replies  []struct {
				ID       int    `json:"id"`
				Username string `json:"username"`
			} `json:"replies"`
		} `json:"comments"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Len(t, resp.Comments, 1)
	assert.Equal(t, "bob", resp.Comments[0].Username)
	require.Len(t, resp.Comments[0].Replies, 1)
	assert.Equal(t, "carol", resp.Comments[0].Replies[0].Username)
}

func TestUpdateCommentNotAuthor(t *testing.T) {
	deps := setupCommentRouter(t)

	deps.commentRepo.On("Get", mock.Anything, 10).Return(models.Comment{ID: 10, UserID: 99, ImageID: 4}, nil).Once()

	req := httptest.NewRequest(http.MethodPatch, "/comments/10", bytes.NewBufferString(`{"text":"edited"}`))
	rec := httptest.NewRecorder()
	deps.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusForbidden, rec.Code)
	deps.commentRepo.AssertNotCalled(t, "UpdateText", mock.Anything, mock.Anything, mock.Anything)
}

func TestDeleteCommentCascades(t *testing.T) {
	deps := setupCommentRouter(t)

	deps.commentRepo.On("Get", mock.Anything, 10).Return(models.Comment{ID: 10, UserID: 1, ImageID: 4}, nil).Once()
	deps.commentRepo.On("Delete", mock.Anything, 10).Return(nil).Once()

	req := httptest.NewRequest(http.MethodDelete, "/comments/10", nil)
	rec := httptest.NewRecorder()
	deps.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNoContent, rec.Code)
	deps.commentRepo.AssertExpectations(t)
}
