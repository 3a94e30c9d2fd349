package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matchup-gg/matchup/internal/auth"
	"github.com/matchup-gg/matchup/internal/database/memory"
	"github.com/matchup-gg/matchup/internal/handlers"
	"github.com/matchup-gg/matchup/internal/lobby"
	"github.com/matchup-gg/matchup/internal/middleware"
	"github.com/matchup-gg/matchup/internal/models"
)

const testSecret = "test-secret"

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return log
}

func newLobbyMux(t *testing.T) *http.ServeMux {
	t.Helper()
	svc := lobby.NewService(memory.NewLobbyStore(), nil, quietLogger())
	mux := http.NewServeMux()
	handlers.NewLobbyServer(svc, quietLogger()).Register(mux, middleware.RequireAuth(testSecret))
	return mux
}

func bearerFor(t *testing.T, id uuid.UUID, name string) string {
	t.Helper()
	token, err := auth.CreateToken(&models.User{
		ID:          id,
		Email:       name + "@example.com",
		DisplayName: name,
		Role:        models.RoleUser,
	}, testSecret, time.Hour)
	require.NoError(t, err)
	return "Bearer " + token
}

func doJSON(t *testing.T, mux *http.ServeMux, method, path, bearer string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if bearer != "" {
		req.Header.Set("Authorization", bearer)
	}
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func decodeLobby(t *testing.T, rec *httptest.ResponseRecorder) models.Lobby {
	t.Helper()
	var l models.Lobby
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&l))
	return l
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body.Error.Code
}

func createLobbyReq(maxPlayers int) map[string]any {
	return map[string]any{
		"sport":      "football",
		"location":   "Riverside Park",
		"time":       time.Now().Add(24 * time.Hour).Format(time.RFC3339),
		"maxPlayers": maxPlayers,
	}
}

func TestCreateLobby(t *testing.T) {
	mux := newLobbyMux(t)
	owner := uuid.New()

	rec := doJSON(t, mux, http.MethodPost, "/lobbies", bearerFor(t, owner, "Owner"), createLobbyReq(6))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	l := decodeLobby(t, rec)
	assert.Equal(t, owner, l.OwnerID)
	assert.Equal(t, models.LobbyOpen, l.Status)
	require.Len(t, l.Players, 1)
	assert.Equal(t, "Owner", l.Players[0].DisplayName)
}

func TestCreateLobbyRequiresAuth(t *testing.T) {
	mux := newLobbyMux(t)
	rec := doJSON(t, mux, http.MethodPost, "/lobbies", "", createLobbyReq(6))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "AUTHENTICATION_REQUIRED", errorCode(t, rec))
}

func TestCreateLobbyValidation(t *testing.T) {
	mux := newLobbyMux(t)
	bearer := bearerFor(t, uuid.New(), "Owner")

	rec := doJSON(t, mux, http.MethodPost, "/lobbies", bearer, createLobbyReq(1))
	assert.Equal(t, http.StatusBadRequest, rec.Code, "capacity below 2")

	rec = doJSON(t, mux, http.MethodPost, "/lobbies", bearer, createLobbyReq(51))
	assert.Equal(t, http.StatusBadRequest, rec.Code, "capacity above 50")

	body := createLobbyReq(6)
	body["sport"] = "curling"
	rec = doJSON(t, mux, http.MethodPost, "/lobbies", bearer, body)
	assert.Equal(t, http.StatusBadRequest, rec.Code, "unknown sport")
	assert.Equal(t, "INVALID_INPUT", errorCode(t, rec))
}

func TestGetLobbyIsPublic(t *testing.T) {
	mux := newLobbyMux(t)
	owner := uuid.New()
	rec := doJSON(t, mux, http.MethodPost, "/lobbies", bearerFor(t, owner, "Owner"), createLobbyReq(6))
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decodeLobby(t, rec)

	rec = doJSON(t, mux, http.MethodGet, "/lobbies/"+created.ID.String(), "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, created.ID, decodeLobby(t, rec).ID)
}

func TestGetLobbyNotFound(t *testing.T) {
	mux := newLobbyMux(t)
	rec := doJSON(t, mux, http.MethodGet, "/lobbies/"+uuid.NewString(), "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "LOBBY_NOT_FOUND", errorCode(t, rec))
}

func TestGetLobbyBadID(t *testing.T) {
	mux := newLobbyMux(t)
	rec := doJSON(t, mux, http.MethodGet, "/lobbies/not-a-uuid", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListLobbiesStatusFilter(t *testing.T) {
	mux := newLobbyMux(t)
	owner := uuid.New()
	bearer := bearerFor(t, owner, "Owner")

	rec := doJSON(t, mux, http.MethodPost, "/lobbies", bearer, createLobbyReq(6))
	require.Equal(t, http.StatusCreated, rec.Code)
	finished := decodeLobby(t, rec)
	rec = doJSON(t, mux, http.MethodPatch, "/lobbies/"+finished.ID.String()+"/finish", bearer, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, mux, http.MethodPost, "/lobbies", bearer, createLobbyReq(6))
	require.Equal(t, http.StatusCreated, rec.Code)

	var lobbies []models.Lobby
	rec = doJSON(t, mux, http.MethodGet, "/lobbies", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&lobbies))
	assert.Len(t, lobbies, 1, "finished lobbies are hidden by default")

	rec = doJSON(t, mux, http.MethodGet, "/lobbies?status=FINISHED", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&lobbies))
	require.Len(t, lobbies, 1)
	assert.Equal(t, finished.ID, lobbies[0].ID)

	rec = doJSON(t, mux, http.MethodGet, "/lobbies?status=OPEN,FINISHED", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&lobbies))
	assert.Len(t, lobbies, 2, "comma-separated statuses are accepted")

	rec = doJSON(t, mux, http.MethodGet, "/lobbies?status=bogus", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestJoinLeaveFlow(t *testing.T) {
	mux := newLobbyMux(t)
	owner, player := uuid.New(), uuid.New()
	ownerBearer := bearerFor(t, owner, "Owner")
	playerBearer := bearerFor(t, player, "Player")

	rec := doJSON(t, mux, http.MethodPost, "/lobbies", ownerBearer, createLobbyReq(2))
	require.Equal(t, http.StatusCreated, rec.Code)
	l := decodeLobby(t, rec)
	base := "/lobbies/" + l.ID.String()

	rec = doJSON(t, mux, http.MethodPost, base+"/join", playerBearer, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	joined := decodeLobby(t, rec)
	assert.Equal(t, models.LobbyFull, joined.Status)

	// Full lobby turns the next joiner away.
	rec = doJSON(t, mux, http.MethodPost, base+"/join", bearerFor(t, uuid.New(), "Late"), nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "LOBBY_FULL", errorCode(t, rec))

	rec = doJSON(t, mux, http.MethodPost, base+"/leave", playerBearer, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, models.LobbyOpen, decodeLobby(t, rec).Status)

	rec = doJSON(t, mux, http.MethodPost, base+"/leave", ownerBearer, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "OWNER_CANNOT_LEAVE", errorCode(t, rec))
}

func TestKickPlayer(t *testing.T) {
	mux := newLobbyMux(t)
	owner, target := uuid.New(), uuid.New()
	ownerBearer := bearerFor(t, owner, "Owner")

	rec := doJSON(t, mux, http.MethodPost, "/lobbies", ownerBearer, createLobbyReq(4))
	require.Equal(t, http.StatusCreated, rec.Code)
	l := decodeLobby(t, rec)
	base := "/lobbies/" + l.ID.String()

	rec = doJSON(t, mux, http.MethodPost, base+"/join", bearerFor(t, target, "Target"), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, mux, http.MethodDelete, fmt.Sprintf("%s/players/%s", base, target), bearerFor(t, uuid.New(), "Rando"), nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "NOT_LOBBY_OWNER", errorCode(t, rec))

	rec = doJSON(t, mux, http.MethodDelete, fmt.Sprintf("%s/players/%s", base, target), ownerBearer, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Message string       `json:"message"`
		Lobby   models.Lobby `json:"lobby"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Contains(t, resp.Message, "Target")
	assert.False(t, resp.Lobby.HasPlayer(target))
}

func TestUpdateLobby(t *testing.T) {
	mux := newLobbyMux(t)
	owner := uuid.New()
	ownerBearer := bearerFor(t, owner, "Owner")

	rec := doJSON(t, mux, http.MethodPost, "/lobbies", ownerBearer, createLobbyReq(4))
	require.Equal(t, http.StatusCreated, rec.Code)
	l := decodeLobby(t, rec)

	rec = doJSON(t, mux, http.MethodPatch, "/lobbies/"+l.ID.String(), ownerBearer, map[string]any{"location": "City Courts"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "City Courts", decodeLobby(t, rec).Location)

	rec = doJSON(t, mux, http.MethodPatch, "/lobbies/"+l.ID.String(), bearerFor(t, uuid.New(), "Rando"), map[string]any{"location": "Elsewhere"})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = doJSON(t, mux, http.MethodPatch, "/lobbies/"+l.ID.String(), ownerBearer, map[string]any{})
	assert.Equal(t, http.StatusBadRequest, rec.Code, "empty patch")
}

func TestFinishAndDelete(t *testing.T) {
	mux := newLobbyMux(t)
	owner := uuid.New()
	ownerBearer := bearerFor(t, owner, "Owner")

	rec := doJSON(t, mux, http.MethodPost, "/lobbies", ownerBearer, createLobbyReq(4))
	require.Equal(t, http.StatusCreated, rec.Code)
	l := decodeLobby(t, rec)
	base := "/lobbies/" + l.ID.String()

	rec = doJSON(t, mux, http.MethodPatch, base+"/finish", bearerFor(t, uuid.New(), "Rando"), nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = doJSON(t, mux, http.MethodPatch, base+"/finish", ownerBearer, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, models.LobbyFinished, decodeLobby(t, rec).Status)

	rec = doJSON(t, mux, http.MethodPatch, base+"/finish", ownerBearer, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "ALREADY_FINISHED", errorCode(t, rec))

	rec = doJSON(t, mux, http.MethodDelete, base, ownerBearer, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Message string `json:"message"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "lobby deleted", resp.Message)

	rec = doJSON(t, mux, http.MethodGet, base, "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteCancelsActiveLobby(t *testing.T) {
	mux := newLobbyMux(t)
	owner := uuid.New()
	ownerBearer := bearerFor(t, owner, "Owner")

	rec := doJSON(t, mux, http.MethodPost, "/lobbies", ownerBearer, createLobbyReq(4))
	require.Equal(t, http.StatusCreated, rec.Code)
	l := decodeLobby(t, rec)
	base := "/lobbies/" + l.ID.String()

	rec = doJSON(t, mux, http.MethodDelete, base, ownerBearer, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Message string `json:"message"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "lobby cancelled", resp.Message)

	rec = doJSON(t, mux, http.MethodGet, base, "", nil)
	require.Equal(t, http.StatusOK, rec.Code, "cancelled lobbies stay readable")
	assert.Equal(t, models.LobbyCancelled, decodeLobby(t, rec).Status)
}
