package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matchup-gg/matchup/internal/database/memory"
	"github.com/matchup-gg/matchup/internal/handlers"
	"github.com/matchup-gg/matchup/internal/middleware"
	"github.com/matchup-gg/matchup/internal/models"
)

type notificationFixture struct {
	mux   *http.ServeMux
	store *memory.NotificationStore
	user  uuid.UUID
}

func newNotificationFixture(t *testing.T) *notificationFixture {
	t.Helper()
	store := memory.NewNotificationStore()
	mux := http.NewServeMux()
	handlers.NewNotificationServer(store, quietLogger()).Register(mux, middleware.RequireAuth(testSecret))
	return &notificationFixture{mux: mux, store: store, user: uuid.New()}
}

func (f *notificationFixture) insert(t *testing.T, userID uuid.UUID, read bool, createdAt time.Time) uuid.UUID {
	t.Helper()
	n := &models.Notification{
		UserID:     userID,
		Type:       models.NotificationFriendRequest,
		FromUserID: uuid.New(),
		Message:    "You have a new friend request",
		Read:       read,
		CreatedAt:  createdAt,
	}
	require.NoError(t, f.store.Insert(context.Background(), n))
	return n.ID
}

type inboxResponse struct {
	Notifications []models.Notification `json:"notifications"`
	Total         int                   `json:"total"`
	UnreadCount   int                   `json:"unreadCount"`
}

func (f *notificationFixture) inbox(t *testing.T, bearer string) inboxResponse {
	t.Helper()
	rec := doJSON(t, f.mux, http.MethodGet, "/notifications", bearer, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp inboxResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp
}

func TestNotificationInboxListsUnreadOnly(t *testing.T) {
	f := newNotificationFixture(t)
	now := time.Now().UTC()

	older := f.insert(t, f.user, false, now.Add(-time.Hour))
	newer := f.insert(t, f.user, false, now)
	f.insert(t, f.user, true, now.Add(-2*time.Hour))
	f.insert(t, uuid.New(), false, now)

	resp := f.inbox(t, bearerFor(t, f.user, "User"))
	require.Len(t, resp.Notifications, 2, "read and foreign notifications stay out of the inbox")
	assert.Equal(t, 2, resp.Total)
	assert.Equal(t, 2, resp.UnreadCount)
	assert.Equal(t, newer, resp.Notifications[0].ID, "newest first")
	assert.Equal(t, older, resp.Notifications[1].ID)
}

func TestNotificationInboxEmpty(t *testing.T) {
	f := newNotificationFixture(t)
	resp := f.inbox(t, bearerFor(t, f.user, "User"))
	assert.NotNil(t, resp.Notifications)
	assert.Empty(t, resp.Notifications)
	assert.Equal(t, 0, resp.UnreadCount)
}

func TestMarkNotificationRead(t *testing.T) {
	f := newNotificationFixture(t)
	bearer := bearerFor(t, f.user, "User")
	id := f.insert(t, f.user, false, time.Now().UTC())

	rec := doJSON(t, f.mux, http.MethodPatch, "/notifications/"+id.String()+"/read", bearer, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var body map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, id.String(), body["notificationId"])
	assert.Equal(t, true, body["read"])

	resp := f.inbox(t, bearer)
	assert.Empty(t, resp.Notifications, "a read notification leaves the inbox")
	assert.Equal(t, 0, resp.UnreadCount)
}

func TestMarkNotificationReadForbiddenForOtherUser(t *testing.T) {
	f := newNotificationFixture(t)
	id := f.insert(t, f.user, false, time.Now().UTC())

	rec := doJSON(t, f.mux, http.MethodPatch, "/notifications/"+id.String()+"/read", bearerFor(t, uuid.New(), "Other"), nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "NOT_NOTIFICATION_OWNER", errorCode(t, rec))

	resp := f.inbox(t, bearerFor(t, f.user, "User"))
	require.Len(t, resp.Notifications, 1, "a rejected mark-read must not change the row")
	assert.False(t, resp.Notifications[0].Read)
}

func TestMarkNotificationReadNotFound(t *testing.T) {
	f := newNotificationFixture(t)
	rec := doJSON(t, f.mux, http.MethodPatch, "/notifications/"+uuid.NewString()+"/read", bearerFor(t, f.user, "User"), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "NOTIFICATION_NOT_FOUND", errorCode(t, rec))
}

func TestMarkNotificationReadBadID(t *testing.T) {
	f := newNotificationFixture(t)
	rec := doJSON(t, f.mux, http.MethodPatch, "/notifications/nope/read", bearerFor(t, f.user, "User"), nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMarkAllNotificationsRead(t *testing.T) {
	f := newNotificationFixture(t)
	bearer := bearerFor(t, f.user, "User")
	f.insert(t, f.user, false, time.Now().UTC())
	f.insert(t, f.user, false, time.Now().UTC().Add(-time.Minute))

	rec := doJSON(t, f.mux, http.MethodPost, "/notifications/read", bearer, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	resp := f.inbox(t, bearer)
	assert.Empty(t, resp.Notifications)
	assert.Equal(t, 0, resp.UnreadCount)
}
