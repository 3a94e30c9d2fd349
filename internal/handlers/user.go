package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/matchup-gg/matchup/internal/apperr"
	"github.com/matchup-gg/matchup/internal/auth"
	"github.com/matchup-gg/matchup/internal/database"
	"github.com/matchup-gg/matchup/internal/httpx"
	"github.com/matchup-gg/matchup/internal/middleware"
	"github.com/matchup-gg/matchup/internal/models"
)

// UserServer handles registration, login, and the friend graph.
type UserServer struct {
	users   *database.UserStore
	friends *database.FriendStore
	events  FriendEventSink
	log     *logrus.Logger

	jwtSecret string
	tokenTTL  time.Duration

	validate *validator.Validate
}

// FriendEventSink publishes friend-request events for the notifier.
type FriendEventSink interface {
	PublishFriendRequest(ctx context.Context, ev models.FriendRequestEvent) error
}

func NewUserServer(users *database.UserStore, friends *database.FriendStore, events FriendEventSink, log *logrus.Logger, jwtSecret string, tokenTTL time.Duration) *UserServer {
	return &UserServer{
		users:     users,
		friends:   friends,
		events:    events,
		log:       log,
		jwtSecret: jwtSecret,
		tokenTTL:  tokenTTL,
		validate:  validator.New(),
	}
}

func (s *UserServer) Register(mux *http.ServeMux, authed func(http.Handler) http.Handler) {
	mux.HandleFunc("POST /users", s.create)
	mux.HandleFunc("POST /users/login", s.login)
	mux.Handle("GET /users/me", authed(http.HandlerFunc(s.me)))

	mux.Handle("POST /friends", authed(http.HandlerFunc(s.addFriend)))
	mux.Handle("POST /friends/accept", authed(http.HandlerFunc(s.acceptFriend)))
	mux.Handle("GET /friends", authed(http.HandlerFunc(s.listFriends)))
	mux.Handle("DELETE /friends/{id}", authed(http.HandlerFunc(s.removeFriend)))
}

func (s *UserServer) fail(w http.ResponseWriter, op string, err error) {
	if apperr.KindOf(err) == apperr.Internal {
		s.log.WithField("op", op).WithError(err).Error("user operation failed")
	}
	httpx.WriteError(w, err)
}

type createUserRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=8"`
	DisplayName string `json:"displayName" validate:"required"`
}

func (s *UserServer) create(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.fail(w, "create", errBadPayload)
		return
	}
	if err := s.validate.Struct(req); err != nil {
		s.fail(w, "create", apperr.Wrap(err, apperr.InvalidInput, "INVALID_INPUT", "missing or invalid fields"))
		return
	}

	user := models.User{
		Email:       req.Email,
		Password:    req.Password,
		DisplayName: req.DisplayName,
		Role:        models.RoleUser,
	}
	if err := s.users.Create(r.Context(), &user); err != nil {
		s.fail(w, "create", err)
		return
	}
	user.Password = ""
	httpx.WriteJSON(w, http.StatusCreated, user)
}

type loginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

func (s *UserServer) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.fail(w, "login", errBadPayload)
		return
	}
	user, err := s.users.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		s.fail(w, "login", err)
		return
	}
	token, err := auth.CreateToken(user, s.jwtSecret, s.tokenTTL)
	if err != nil {
		s.fail(w, "login", err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, loginResponse{Token: token, User: user})
}

func (s *UserServer) me(w http.ResponseWriter, r *http.Request) {
	p := middleware.PrincipalFrom(r.Context())
	user, err := s.users.GetByID(r.Context(), p.UserID)
	if err != nil {
		s.fail(w, "me", err)
		return
	}
	user.Password = ""
	httpx.WriteJSON(w, http.StatusOK, user)
}

type friendRequest struct {
	FriendID uuid.UUID `json:"friendId" validate:"required"`
}

var errSelfFriend = apperr.New(apperr.InvalidInput, "SELF_FRIEND", "you cannot friend yourself")

func (s *UserServer) addFriend(w http.ResponseWriter, r *http.Request) {
	p := middleware.PrincipalFrom(r.Context())

	var req friendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.fail(w, "addFriend", errBadPayload)
		return
	}
	if req.FriendID == uuid.Nil {
		s.fail(w, "addFriend", errBadPayload)
		return
	}
	if req.FriendID == p.UserID {
		s.fail(w, "addFriend", errSelfFriend)
		return
	}
	if _, err := s.users.GetByID(r.Context(), req.FriendID); err != nil {
		s.fail(w, "addFriend", err)
		return
	}
	if err := s.friends.Request(r.Context(), p.UserID, req.FriendID); err != nil {
		s.fail(w, "addFriend", err)
		return
	}

	// Best-effort notification event; the request is already stored.
	if s.events != nil {
		ev := models.FriendRequestEvent{
			Type:       models.EventFriendRequestSent,
			FromUserID: p.UserID,
			ToUserID:   req.FriendID,
			CreatedAt:  time.Now().UTC(),
		}
		if err := s.events.PublishFriendRequest(r.Context(), ev); err != nil {
			s.log.WithError(err).Warn("failed to publish friend request event")
		}
	}

	httpx.WriteJSON(w, http.StatusCreated, map[string]string{"message": "friend request sent"})
}

func (s *UserServer) acceptFriend(w http.ResponseWriter, r *http.Request) {
	p := middleware.PrincipalFrom(r.Context())

	var req friendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.fail(w, "acceptFriend", errBadPayload)
		return
	}
	// The pending row was written as (requester, recipient).
	if err := s.friends.Accept(r.Context(), req.FriendID, p.UserID); err != nil {
		s.fail(w, "acceptFriend", err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]string{"message": "friend request accepted"})
}

func (s *UserServer) listFriends(w http.ResponseWriter, r *http.Request) {
	p := middleware.PrincipalFrom(r.Context())
	fs, err := s.friends.List(r.Context(), p.UserID)
	if err != nil {
		s.fail(w, "listFriends", err)
		return
	}
	if fs == nil {
		fs = []models.Friend{}
	}
	httpx.WriteJSON(w, http.StatusOK, fs)
}

func (s *UserServer) removeFriend(w http.ResponseWriter, r *http.Request) {
	p := middleware.PrincipalFrom(r.Context())
	friendID, err := pathID(r, "id")
	if err != nil {
		s.fail(w, "removeFriend", err)
		return
	}
	if err := s.friends.Remove(r.Context(), p.UserID, friendID); err != nil {
		s.fail(w, "removeFriend", err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]string{"message": "friend removed"})
}
