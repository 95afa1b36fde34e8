package notifier

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"photo-service/internal/mocks"
	"photo-service/internal/models"
	"photo-service/internal/rabbitmq"
	"photo-service/internal/ws"
)

func TestDeliverStoresThenPublishes(t *testing.T) {
	repo := new(mocks.NotificationRepositoryMock)
	publisher := new(mocks.PublisherMock)
	n := New(repo, ws.NewHub(), publisher)

	actor := models.User{ID: 2, Username: "alice"}
	imageID := 4
	stored := models.Notification{ID: 9, UserID: 1, ActorID: &actor.ID, Verb: "liked your photo", ImageID: &imageID, Unread: true, CreatedAt: time.Now()}

	repo.On("Create", mock.Anything, 1, &actor.ID, "liked your photo", &imageID, (*int)(nil)).Return(stored, nil).Once()
	publisher.On("Publish", mock.Anything, rabbitmq.NotificationRoutingKey(1), mock.MatchedBy(func(event models.NotificationEvent) bool {
		return event.Type == "notification" && event.Notification != nil && event.Notification.ID == 9
	})).Return(nil).Once()

	notif, err := n.Deliver(context.Background(), 1, &actor, "liked your photo", &imageID, nil)
	require.NoError(t, err)
	assert.Equal(t, 9, notif.ID)

	repo.AssertExpectations(t)
	publisher.AssertExpectations(t)
}

func TestDeliverStoreFailurePropagates(t *testing.T) {
	repo := new(mocks.NotificationRepositoryMock)
	publisher := new(mocks.PublisherMock)
	n := New(repo, ws.NewHub(), publisher)

	repo.On("Create", mock.Anything, 1, (*int)(nil), "commented on your photo", (*int)(nil), (*int)(nil)).
		Return(models.Notification{}, assert.AnError).Once()

	_, err := n.Deliver(context.Background(), 1, nil, "commented on your photo", nil, nil)
	require.Error(t, err)

	repo.AssertExpectations(t)
	publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything)
}

func TestDeliverPublishFailureIsSwallowed(t *testing.T) {
	repo := new(mocks.NotificationRepositoryMock)
	publisher := new(mocks.PublisherMock)
	n := New(repo, ws.NewHub(), publisher)

	stored := models.Notification{ID: 3, UserID: 1, Verb: "replied to your comment", Unread: true, CreatedAt: time.Now()}
	repo.On("Create", mock.Anything, 1, (*int)(nil), "replied to your comment", (*int)(nil), (*int)(nil)).Return(stored, nil).Once()
	publisher.On("Publish", mock.Anything, rabbitmq.NotificationRoutingKey(1), mock.Anything).Return(assert.AnError).Once()

	notif, err := n.Deliver(context.Background(), 1, nil, "replied to your comment", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 3, notif.ID)

	repo.AssertExpectations(t)
	publisher.AssertExpectations(t)
}

func TestDeliverWithoutConnectionsStaysDurable(t *testing.T) {
	repo := new(mocks.NotificationRepositoryMock)
	publisher := new(mocks.PublisherMock)
	hub := ws.NewHub()
	n := New(repo, hub, publisher)

	stored := models.Notification{ID: 5, UserID: 8, Verb: "favorited your photo", Unread: true, CreatedAt: time.Now()}
	repo.On("Create", mock.Anything, 8, (*int)(nil), "favorited your photo", (*int)(nil), (*int)(nil)).Return(stored, nil).Once()
	publisher.On("Publish", mock.Anything, rabbitmq.NotificationRoutingKey(8), mock.Anything).Return(nil).Once()

	notif, err := n.Deliver(context.Background(), 8, nil, "favorited your photo", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 5, notif.ID)
	assert.Equal(t, 0, hub.ClientCount(8))

	repo.AssertExpectations(t)
	publisher.AssertExpectations(t)
}
