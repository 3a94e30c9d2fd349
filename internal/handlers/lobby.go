// Package handlers holds the HTTP surface of each service.
package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/matchup-gg/matchup/internal/apperr"
	"github.com/matchup-gg/matchup/internal/httpx"
	"github.com/matchup-gg/matchup/internal/lobby"
	"github.com/matchup-gg/matchup/internal/middleware"
	"github.com/matchup-gg/matchup/internal/models"
)

var errBadPayload = apperr.New(apperr.InvalidInput, "INVALID_INPUT", "invalid request payload")
var errBadID = apperr.New(apperr.InvalidInput, "INVALID_INPUT", "invalid id")

// LobbyServer exposes the lobby lifecycle engine over HTTP.
type LobbyServer struct {
	svc      *lobby.Service
	log      *logrus.Logger
	validate *validator.Validate
}

func NewLobbyServer(svc *lobby.Service, log *logrus.Logger) *LobbyServer {
	return &LobbyServer{svc: svc, log: log, validate: validator.New()}
}

// Register wires the lobby routes. Mutations require a principal; the read
// endpoints stay public so the rating service can fetch lobby state without
// a user token.
func (s *LobbyServer) Register(mux *http.ServeMux, authed func(http.Handler) http.Handler) {
	mux.Handle("POST /lobbies", authed(http.HandlerFunc(s.create)))
	mux.HandleFunc("GET /lobbies", s.list)
	mux.HandleFunc("GET /lobbies/{id}", s.get)
	mux.Handle("PATCH /lobbies/{id}", authed(http.HandlerFunc(s.update)))
	mux.Handle("POST /lobbies/{id}/join", authed(http.HandlerFunc(s.join)))
	mux.Handle("POST /lobbies/{id}/leave", authed(http.HandlerFunc(s.leave)))
	mux.Handle("DELETE /lobbies/{id}/players/{playerId}", authed(http.HandlerFunc(s.kick)))
	mux.Handle("PATCH /lobbies/{id}/finish", authed(http.HandlerFunc(s.finish)))
	mux.Handle("DELETE /lobbies/{id}", authed(http.HandlerFunc(s.deleteOrCancel)))
}

func (s *LobbyServer) fail(w http.ResponseWriter, op string, err error) {
	if apperr.KindOf(err) == apperr.Internal {
		s.log.WithField("op", op).WithError(err).Error("lobby operation failed")
	}
	httpx.WriteError(w, err)
}

func pathID(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(r.PathValue(name))
	if err != nil {
		return uuid.Nil, errBadID
	}
	return id, nil
}

type createLobbyRequest struct {
	Sport       string    `json:"sport" validate:"required"`
	Location    string    `json:"location" validate:"required"`
	Time        time.Time `json:"time" validate:"required"`
	MaxPlayers  int       `json:"maxPlayers" validate:"required,min=2,max=50"`
	Description string    `json:"description" validate:"omitempty,max=500"`
}

func (s *LobbyServer) create(w http.ResponseWriter, r *http.Request) {
	p := middleware.PrincipalFrom(r.Context())

	var req createLobbyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.fail(w, "create", errBadPayload)
		return
	}
	if err := s.validate.Struct(req); err != nil {
		s.fail(w, "create", apperr.Wrap(err, apperr.InvalidInput, "INVALID_INPUT", "missing or out-of-range fields"))
		return
	}

	l, err := s.svc.Create(r.Context(), p.UserID, p.DisplayName, lobby.CreateInput{
		Sport:       req.Sport,
		Location:    req.Location,
		Time:        req.Time,
		MaxPlayers:  req.MaxPlayers,
		Description: req.Description,
	})
	if err != nil {
		s.fail(w, "create", err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, l)
}

func (s *LobbyServer) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var raw []string
	for _, v := range q["status"] {
		raw = append(raw, strings.Split(v, ",")...)
	}
	statuses, err := lobby.ParseStatuses(raw)
	if err != nil {
		s.fail(w, "list", err)
		return
	}

	lobbies, err := s.svc.List(r.Context(), q.Get("sport"), statuses)
	if err != nil {
		s.fail(w, "list", err)
		return
	}
	if lobbies == nil {
		lobbies = []models.Lobby{}
	}
	httpx.WriteJSON(w, http.StatusOK, lobbies)
}

func (s *LobbyServer) get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.fail(w, "get", err)
		return
	}
	l, err := s.svc.Get(r.Context(), id)
	if err != nil {
		s.fail(w, "get", err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, l)
}

type updateLobbyRequest struct {
	Sport       *string    `json:"sport"`
	Location    *string    `json:"location"`
	Time        *time.Time `json:"time"`
	MaxPlayers  *int       `json:"maxPlayers" validate:"omitempty,min=2,max=50"`
	Description *string    `json:"description" validate:"omitempty,max=500"`
}

func (s *LobbyServer) update(w http.ResponseWriter, r *http.Request) {
	p := middleware.PrincipalFrom(r.Context())
	id, err := pathID(r, "id")
	if err != nil {
		s.fail(w, "update", err)
		return
	}

	var req updateLobbyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.fail(w, "update", errBadPayload)
		return
	}
	if err := s.validate.Struct(req); err != nil {
		s.fail(w, "update", apperr.Wrap(err, apperr.InvalidInput, "INVALID_INPUT", "out-of-range fields"))
		return
	}

	l, err := s.svc.Update(r.Context(), id, p.UserID, lobby.UpdatePatch{
		Sport:       req.Sport,
		Location:    req.Location,
		Time:        req.Time,
		MaxPlayers:  req.MaxPlayers,
		Description: req.Description,
	})
	if err != nil {
		s.fail(w, "update", err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, l)
}

func (s *LobbyServer) join(w http.ResponseWriter, r *http.Request) {
	p := middleware.PrincipalFrom(r.Context())
	id, err := pathID(r, "id")
	if err != nil {
		s.fail(w, "join", err)
		return
	}
	l, err := s.svc.Join(r.Context(), id, p.UserID, p.DisplayName)
	if err != nil {
		s.fail(w, "join", err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, l)
}

func (s *LobbyServer) leave(w http.ResponseWriter, r *http.Request) {
	p := middleware.PrincipalFrom(r.Context())
	id, err := pathID(r, "id")
	if err != nil {
		s.fail(w, "leave", err)
		return
	}
	l, err := s.svc.Leave(r.Context(), id, p.UserID)
	if err != nil {
		s.fail(w, "leave", err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, l)
}

func (s *LobbyServer) kick(w http.ResponseWriter, r *http.Request) {
	p := middleware.PrincipalFrom(r.Context())
	id, err := pathID(r, "id")
	if err != nil {
		s.fail(w, "kick", err)
		return
	}
	targetID, err := pathID(r, "playerId")
	if err != nil {
		s.fail(w, "kick", err)
		return
	}
	l, removed, err := s.svc.Kick(r.Context(), id, p.UserID, targetID)
	if err != nil {
		s.fail(w, "kick", err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"message": "player " + removed.DisplayName + " removed from lobby",
		"lobby":   l,
	})
}

func (s *LobbyServer) finish(w http.ResponseWriter, r *http.Request) {
	p := middleware.PrincipalFrom(r.Context())
	id, err := pathID(r, "id")
	if err != nil {
		s.fail(w, "finish", err)
		return
	}
	l, err := s.svc.Finish(r.Context(), id, p.UserID)
	if err != nil {
		s.fail(w, "finish", err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, l)
}

func (s *LobbyServer) deleteOrCancel(w http.ResponseWriter, r *http.Request) {
	p := middleware.PrincipalFrom(r.Context())
	id, err := pathID(r, "id")
	if err != nil {
		s.fail(w, "delete", err)
		return
	}
	deleted, err := s.svc.DeleteOrCancel(r.Context(), id, p.UserID)
	if err != nil {
		s.fail(w, "delete", err)
		return
	}
	msg := "lobby cancelled"
	if deleted {
		msg = "lobby deleted"
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]string{"message": msg})
}
