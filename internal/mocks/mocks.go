package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"photo-service/internal/idp"
	"photo-service/internal/mailer"
	"photo-service/internal/models"
	"photo-service/internal/repositories"
)

type UserRepositoryMock struct {
	mock.Mock
}

func (m *UserRepositoryMock) Create(ctx context.Context, username, email, passwordHash string, active bool) (models.User, error) {
	args := m.Called(ctx, username, email, passwordHash, active)
	var user models.User
	if val := args.Get(0); val != nil {
		user = val.(models.User)
	}
	return user, args.Error(1)
}

func (m *UserRepositoryMock) GetByID(ctx context.Context, id int) (models.User, error) {
	args := m.Called(ctx, id)
	var user models.User
	if val := args.Get(0); val != nil {
		user = val.(models.User)
	}
	return user, args.Error(1)
}

func (m *UserRepositoryMock) GetByUsername(ctx context.Context, username string) (models.User, error) {
	args := m.Called(ctx, username)
	var user models.User
	if val := args.Get(0); val != nil {
		user = val.(models.User)
	}
	return user, args.Error(1)
}

func (m *UserRepositoryMock) GetByEmail(ctx context.Context, email string) (models.User, error) {
	args := m.Called(ctx, email)
	var user models.User
	if val := args.Get(0); val != nil {
		user = val.(models.User)
	}
	return user, args.Error(1)
}

func (m *UserRepositoryMock) UsernameExists(ctx context.Context, username string) (bool, error) {
	args := m.Called(ctx, username)
	return args.Bool(0), args.Error(1)
}

func (m *UserRepositoryMock) Search(ctx context.Context, query string, limit int) ([]models.UserSummary, error) {
	args := m.Called(ctx, query, limit)
	var users []models.UserSummary
	if val := args.Get(0); val != nil {
		users = val.([]models.UserSummary)
	}
	return users, args.Error(1)
}

func (m *UserRepositoryMock) SetOTP(ctx context.Context, userID int, code string, expiresAt time.Time) error {
	args := m.Called(ctx, userID, code, expiresAt)
	return args.Error(0)
}

func (m *UserRepositoryMock) ClearOTPAndActivate(ctx context.Context, userID int) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *UserRepositoryMock) UpdateCredentials(ctx context.Context, userID int, username, passwordHash string) error {
	args := m.Called(ctx, userID, username, passwordHash)
	return args.Error(0)
}

func (m *UserRepositoryMock) UpdateProfile(ctx context.Context, userID int, bio *string, batch *int, department *string) error {
	args := m.Called(ctx, userID, bio, batch, department)
	return args.Error(0)
}

func (m *UserRepositoryMock) UpdateOAuthProfile(ctx context.Context, userID int, batch *int, department, displayPicture string) error {
	args := m.Called(ctx, userID, batch, department, displayPicture)
	return args.Error(0)
}

func (m *UserRepositoryMock) UsernamesByIDs(ctx context.Context, ids []int) (map[int]string, error) {
	args := m.Called(ctx, ids)
	var names map[int]string
	if val := args.Get(0); val != nil {
		names = val.(map[int]string)
	}
	return names, args.Error(1)
}

type EventRepositoryMock struct {
	mock.Mock
}

func (m *EventRepositoryMock) Create(ctx context.Context, event models.Event) (models.Event, error) {
	args := m.Called(ctx, event)
	var created models.Event
	if val := args.Get(0); val != nil {
		created = val.(models.Event)
	}
	return created, args.Error(1)
}

func (m *EventRepositoryMock) Get(ctx context.Context, eventID int) (models.Event, error) {
	args := m.Called(ctx, eventID)
	var event models.Event
	if val := args.Get(0); val != nil {
		event = val.(models.Event)
	}
	return event, args.Error(1)
}

func (m *EventRepositoryMock) List(ctx context.Context) ([]models.Event, error) {
	args := m.Called(ctx)
	var events []models.Event
	if val := args.Get(0); val != nil {
		events = val.([]models.Event)
	}
	return events, args.Error(1)
}

func (m *EventRepositoryMock) Update(ctx context.Context, event models.Event) (models.Event, error) {
	args := m.Called(ctx, event)
	var updated models.Event
	if val := args.Get(0); val != nil {
		updated = val.(models.Event)
	}
	return updated, args.Error(1)
}

func (m *EventRepositoryMock) Delete(ctx context.Context, eventID int) error {
	args := m.Called(ctx, eventID)
	return args.Error(0)
}

func (m *EventRepositoryMock) CreateAlbum(ctx context.Context, album models.Album) (models.Album, error) {
	args := m.Called(ctx, album)
	var created models.Album
	if val := args.Get(0); val != nil {
		created = val.(models.Album)
	}
	return created, args.Error(1)
}

func (m *EventRepositoryMock) GetAlbum(ctx context.Context, albumID int) (models.Album, error) {
	args := m.Called(ctx, albumID)
	var album models.Album
	if val := args.Get(0); val != nil {
		album = val.(models.Album)
	}
	return album, args.Error(1)
}

func (m *EventRepositoryMock) ListAlbums(ctx context.Context, eventID int) ([]models.Album, error) {
	args := m.Called(ctx, eventID)
	var albums []models.Album
	if val := args.Get(0); val != nil {
		albums = val.([]models.Album)
	}
	return albums, args.Error(1)
}

func (m *EventRepositoryMock) DeleteAlbum(ctx context.Context, albumID int) error {
	args := m.Called(ctx, albumID)
	return args.Error(0)
}

type ImageRepositoryMock struct {
	mock.Mock
}

func (m *ImageRepositoryMock) Create(ctx context.Context, image models.Image) (models.Image, error) {
	args := m.Called(ctx, image)
	var created models.Image
	if val := args.Get(0); val != nil {
		created = val.(models.Image)
	}
	return created, args.Error(1)
}

func (m *ImageRepositoryMock) Get(ctx context.Context, imageID int) (models.Image, error) {
	args := m.Called(ctx, imageID)
	var image models.Image
	if val := args.Get(0); val != nil {
		image = val.(models.Image)
	}
	return image, args.Error(1)
}

func (m *ImageRepositoryMock) List(ctx context.Context, filter models.ImageFilter, viewerID int) ([]models.Image, error) {
	args := m.Called(ctx, filter, viewerID)
	var images []models.Image
	if val := args.Get(0); val != nil {
		images = val.([]models.Image)
	}
	return images, args.Error(1)
}

func (m *ImageRepositoryMock) ListForEvent(ctx context.Context, eventID int, viewerID int) ([]models.Image, error) {
	args := m.Called(ctx, eventID, viewerID)
	var images []models.Image
	if val := args.Get(0); val != nil {
		images = val.([]models.Image)
	}
	return images, args.Error(1)
}

func (m *ImageRepositoryMock) Update(ctx context.Context, image models.Image) (models.Image, error) {
	args := m.Called(ctx, image)
	var updated models.Image
	if val := args.Get(0); val != nil {
		updated = val.(models.Image)
	}
	return updated, args.Error(1)
}

func (m *ImageRepositoryMock) SoftDelete(ctx context.Context, imageID int, ownerID int) error {
	args := m.Called(ctx, imageID, ownerID)
	return args.Error(0)
}

type CommentRepositoryMock struct {
	mock.Mock
}

func (m *CommentRepositoryMock) Create(ctx context.Context, userID, imageID int, parentID *int, text string) (models.Comment, error) {
	args := m.Called(ctx, userID, imageID, parentID, text)
	var comment models.Comment
	if val := args.Get(0); val != nil {
		comment = val.(models.Comment)
	}
	return comment, args.Error(1)
}

func (m *CommentRepositoryMock) Get(ctx context.Context, commentID int) (models.Comment, error) {
	args := m.Called(ctx, commentID)
	var comment models.Comment
	if val := args.Get(0); val != nil {
		comment = val.(models.Comment)
	}
	return comment, args.Error(1)
}

func (m *CommentRepositoryMock) ListForImage(ctx context.Context, imageID int) ([]models.Comment, error) {
	args := m.Called(ctx, imageID)
	var comments []models.Comment
	if val := args.Get(0); val != nil {
		comments = val.([]models.Comment)
	}
	return comments, args.Error(1)
}

func (m *CommentRepositoryMock) UpdateText(ctx context.Context, commentID int, text string) (models.Comment, error) {
	args := m.Called(ctx, commentID, text)
	var comment models.Comment
	if val := args.Get(0); val != nil {
		comment = val.(models.Comment)
	}
	return comment, args.Error(1)
}

func (m *CommentRepositoryMock) Delete(ctx context.Context, commentID int) error {
	args := m.Called(ctx, commentID)
	return args.Error(0)
}

type ReactionRepositoryMock struct {
	mock.Mock
}

func (m *ReactionRepositoryMock) Create(ctx context.Context, userID, imageID int, reactionType string) (models.Reaction, error) {
	args := m.Called(ctx, userID, imageID, reactionType)
	var reaction models.Reaction
	if val := args.Get(0); val != nil {
		reaction = val.(models.Reaction)
	}
	return reaction, args.Error(1)
}

func (m *ReactionRepositoryMock) Delete(ctx context.Context, userID, imageID int, reactionType string) error {
	args := m.Called(ctx, userID, imageID, reactionType)
	return args.Error(0)
}

func (m *ReactionRepositoryMock) Summarize(ctx context.Context, imageID int, viewerID int) (models.ReactionSummary, error) {
	args := m.Called(ctx, imageID, viewerID)
	var summary models.ReactionSummary
	if val := args.Get(0); val != nil {
		summary = val.(models.ReactionSummary)
	}
	return summary, args.Error(1)
}

type NotificationRepositoryMock struct {
	mock.Mock
}

func (m *NotificationRepositoryMock) Create(ctx context.Context, recipientID int, actorID *int, verb string, imageID, commentID *int) (models.Notification, error) {
	args := m.Called(ctx, recipientID, actorID, verb, imageID, commentID)
	var notification models.Notification
	if val := args.Get(0); val != nil {
		notification = val.(models.Notification)
	}
	return notification, args.Error(1)
}

func (m *NotificationRepositoryMock) ListForUser(ctx context.Context, userID int) ([]models.Notification, error) {
	args := m.Called(ctx, userID)
	var notifications []models.Notification
	if val := args.Get(0); val != nil {
		notifications = val.([]models.Notification)
	}
	return notifications, args.Error(1)
}

func (m *NotificationRepositoryMock) DeleteOwned(ctx context.Context, notificationID int, ownerID int) error {
	args := m.Called(ctx, notificationID, ownerID)
	return args.Error(0)
}

type MailerMock struct {
	mock.Mock
}

func (m *MailerMock) SendOTP(to, code string) error {
	args := m.Called(to, code)
	return args.Error(0)
}

type IDPClientMock struct {
	mock.Mock
}

func (m *IDPClientMock) AuthorizeURL() string {
	args := m.Called()
	return args.String(0)
}

func (m *IDPClientMock) ExchangeCode(ctx context.Context, code string) (idp.Profile, error) {
	args := m.Called(ctx, code)
	var profile idp.Profile
	if val := args.Get(0); val != nil {
		profile = val.(idp.Profile)
	}
	return profile, args.Error(1)
}

var _ repositories.UserRepository = (*UserRepositoryMock)(nil)
var _ repositories.EventRepository = (*EventRepositoryMock)(nil)
var _ repositories.ImageRepository = (*ImageRepositoryMock)(nil)
var _ repositories.CommentRepository = (*CommentRepositoryMock)(nil)
var _ repositories.ReactionRepository = (*ReactionRepositoryMock)(nil)
var _ repositories.NotificationRepository = (*NotificationRepositoryMock)(nil)
var _ mailer.Mailer = (*MailerMock)(nil)
var _ idp.Client = (*IDPClientMock)(nil)
