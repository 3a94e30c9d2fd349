package notifier

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matchup-gg/matchup/internal/events"
	"github.com/matchup-gg/matchup/internal/models"
)

type recordingStore struct {
	inserted []models.Notification
}

func (s *recordingStore) Insert(_ context.Context, n *models.Notification) error {
	s.inserted = append(s.inserted, *n)
	return nil
}

func quietService(store NotificationStore) *Service {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return &Service{store: store, log: log, popTimeout: time.Second}
}

func TestLobbyJoinNotification(t *testing.T) {
	ev := models.LobbyJoinEvent{
		Type:      models.EventLobbyUserJoined,
		LobbyID:   uuid.New(),
		OwnerID:   uuid.New(),
		PlayerID:  uuid.New(),
		LobbyName: "football @ Riverside Park",
		CreatedAt: time.Now().UTC(),
	}

	n := LobbyJoinNotification(ev)
	assert.Equal(t, ev.OwnerID, n.UserID, "the owner is notified, not the joiner")
	assert.Equal(t, ev.PlayerID, n.FromUserID)
	assert.Equal(t, models.NotificationLobbyJoin, n.Type)
	assert.Equal(t, ev.LobbyID, n.LobbyID)
	assert.Equal(t, "A player joined your lobby: football @ Riverside Park", n.Message)
	assert.Equal(t, ev.CreatedAt, n.CreatedAt)
}

func TestFriendRequestNotification(t *testing.T) {
	ev := models.FriendRequestEvent{
		Type:       models.EventFriendRequestSent,
		FromUserID: uuid.New(),
		ToUserID:   uuid.New(),
		CreatedAt:  time.Now().UTC(),
	}

	n := FriendRequestNotification(ev)
	assert.Equal(t, ev.ToUserID, n.UserID)
	assert.Equal(t, ev.FromUserID, n.FromUserID)
	assert.Equal(t, models.NotificationFriendRequest, n.Type)
	assert.Equal(t, uuid.Nil, n.LobbyID)
	assert.Equal(t, "You have a new friend request", n.Message)
}

func TestNotificationFallbackTimestamp(t *testing.T) {
	n := FriendRequestNotification(models.FriendRequestEvent{
		FromUserID: uuid.New(),
		ToUserID:   uuid.New(),
	})
	assert.False(t, n.CreatedAt.IsZero(), "missing event time falls back to now")
}

func TestHandleDispatchesByQueue(t *testing.T) {
	store := &recordingStore{}
	svc := quietService(store)
	ctx := context.Background()

	joinPayload, err := json.Marshal(models.LobbyJoinEvent{
		Type:      models.EventLobbyUserJoined,
		LobbyID:   uuid.New(),
		OwnerID:   uuid.New(),
		PlayerID:  uuid.New(),
		LobbyName: "tennis @ City Courts",
	})
	require.NoError(t, err)
	require.NoError(t, svc.handle(ctx, events.LobbyQueue, joinPayload))

	friendPayload, err := json.Marshal(models.FriendRequestEvent{
		Type:       models.EventFriendRequestSent,
		FromUserID: uuid.New(),
		ToUserID:   uuid.New(),
	})
	require.NoError(t, err)
	require.NoError(t, svc.handle(ctx, events.FriendQueue, friendPayload))

	require.Len(t, store.inserted, 2)
	assert.Equal(t, models.NotificationLobbyJoin, store.inserted[0].Type)
	assert.Equal(t, models.NotificationFriendRequest, store.inserted[1].Type)
}

func TestHandleRejectsMalformedPayload(t *testing.T) {
	store := &recordingStore{}
	svc := quietService(store)

	err := svc.handle(context.Background(), events.LobbyQueue, []byte("not json"))
	assert.Error(t, err)
	assert.Empty(t, store.inserted)
}

func TestHandleUnknownQueue(t *testing.T) {
	svc := quietService(&recordingStore{})
	err := svc.handle(context.Background(), "notifications:bogus", []byte("{}"))
	assert.Error(t, err)
}
