package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/matchup-gg/matchup/internal/apperr"
	"github.com/matchup-gg/matchup/internal/httpx"
	"github.com/matchup-gg/matchup/internal/middleware"
	"github.com/matchup-gg/matchup/internal/models"
)

// NotificationReadStore is the slice of storage the notification API needs.
type NotificationReadStore interface {
	ListUnreadForUser(ctx context.Context, userID uuid.UUID, limit int) ([]models.Notification, error)
	CountUnread(ctx context.Context, userID uuid.UUID) (int, error)
	MarkRead(ctx context.Context, id, userID uuid.UUID) error
	MarkAllRead(ctx context.Context, userID uuid.UUID) error
}

// NotificationServer is the pull-based read API over stored notifications.
// The inbox lists unread records only; reading one removes it from the list.
type NotificationServer struct {
	store NotificationReadStore
	log   *logrus.Logger
}

func NewNotificationServer(store NotificationReadStore, log *logrus.Logger) *NotificationServer {
	return &NotificationServer{store: store, log: log}
}

func (s *NotificationServer) Register(mux *http.ServeMux, authed func(http.Handler) http.Handler) {
	mux.Handle("GET /notifications", authed(http.HandlerFunc(s.list)))
	mux.Handle("PATCH /notifications/{id}/read", authed(http.HandlerFunc(s.markRead)))
	mux.Handle("POST /notifications/read", authed(http.HandlerFunc(s.markAllRead)))
}

func (s *NotificationServer) fail(w http.ResponseWriter, op string, err error) {
	if apperr.KindOf(err) == apperr.Internal {
		s.log.WithField("op", op).WithError(err).Error("notification operation failed")
	}
	httpx.WriteError(w, err)
}

type notificationListResponse struct {
	Notifications []models.Notification `json:"notifications"`
	Total         int                   `json:"total"`
	UnreadCount   int                   `json:"unreadCount"`
}

func (s *NotificationServer) list(w http.ResponseWriter, r *http.Request) {
	p := middleware.PrincipalFrom(r.Context())
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	ns, err := s.store.ListUnreadForUser(r.Context(), p.UserID, limit)
	if err != nil {
		s.fail(w, "list", err)
		return
	}
	unread, err := s.store.CountUnread(r.Context(), p.UserID)
	if err != nil {
		s.fail(w, "list", err)
		return
	}
	if ns == nil {
		ns = []models.Notification{}
	}
	httpx.WriteJSON(w, http.StatusOK, notificationListResponse{
		Notifications: ns,
		Total:         len(ns),
		UnreadCount:   unread,
	})
}

func (s *NotificationServer) markRead(w http.ResponseWriter, r *http.Request) {
	p := middleware.PrincipalFrom(r.Context())
	id, err := pathID(r, "id")
	if err != nil {
		s.fail(w, "markRead", err)
		return
	}
	if err := s.store.MarkRead(r.Context(), id, p.UserID); err != nil {
		s.fail(w, "markRead", err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"message":        "notification marked as read",
		"notificationId": id,
		"read":           true,
	})
}

func (s *NotificationServer) markAllRead(w http.ResponseWriter, r *http.Request) {
	p := middleware.PrincipalFrom(r.Context())
	if err := s.store.MarkAllRead(r.Context(), p.UserID); err != nil {
		s.fail(w, "markAllRead", err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]string{"message": "notifications marked read"})
}
