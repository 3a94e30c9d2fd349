package lobbyclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matchup-gg/matchup/internal/apperr"
	"github.com/matchup-gg/matchup/internal/httpx"
	"github.com/matchup-gg/matchup/internal/models"
)

func TestLobbyFetch(t *testing.T) {
	want := models.Lobby{
		ID:         uuid.New(),
		Sport:      "football",
		Location:   "Riverside Park",
		MaxPlayers: 10,
		OwnerID:    uuid.New(),
		Status:     models.LobbyFinished,
		UpdatedAt:  time.Now().UTC().Truncate(time.Second),
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/lobbies/"+want.ID.String(), r.URL.Path)
		httpx.WriteJSON(w, http.StatusOK, want)
	}))
	defer srv.Close()

	c := New(srv.URL, 0)
	got, err := c.Lobby(context.Background(), want.ID)
	require.NoError(t, err)
	assert.Equal(t, want.ID, got.ID)
	assert.Equal(t, want.Status, got.Status)
	assert.True(t, want.UpdatedAt.Equal(got.UpdatedAt))
}

func TestLobbyNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := New(srv.URL, 0)
	_, err := c.Lobby(context.Background(), uuid.New())
	assert.Equal(t, apperr.NotFound, apperr.KindOf(err))
	assert.Equal(t, "LOBBY_NOT_FOUND", apperr.CodeOf(err))
}

func TestLobbyServerErrorIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := New(srv.URL, 0)
	_, err := c.Lobby(context.Background(), uuid.New())
	assert.Equal(t, apperr.Unavailable, apperr.KindOf(err), "a 500 must not read as a missing lobby")
	assert.Equal(t, "REMOTE_UNAVAILABLE", apperr.CodeOf(err))
}

func TestLobbyConnectionRefusedIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // nothing listens on the address anymore

	c := New(srv.URL, time.Second)
	_, err := c.Lobby(context.Background(), uuid.New())
	assert.Equal(t, apperr.Unavailable, apperr.KindOf(err))
}

func TestLobbyMalformedBodyIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer srv.Close()

	c := New(srv.URL, 0)
	_, err := c.Lobby(context.Background(), uuid.New())
	assert.Equal(t, apperr.Unavailable, apperr.KindOf(err))
}
