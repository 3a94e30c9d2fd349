package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/matchup-gg/matchup/internal/apperr"
	"github.com/matchup-gg/matchup/internal/httpx"
	"github.com/matchup-gg/matchup/internal/middleware"
	"github.com/matchup-gg/matchup/internal/models"
	"github.com/matchup-gg/matchup/internal/rating"
)

// RatingServer exposes the rating engine's operations over HTTP. Every
// route requires an authenticated principal.
type RatingServer struct {
	engine   *rating.Engine
	log      *logrus.Logger
	validate *validator.Validate
}

func NewRatingServer(engine *rating.Engine, log *logrus.Logger) *RatingServer {
	return &RatingServer{engine: engine, log: log, validate: validator.New()}
}

func (s *RatingServer) Register(mux *http.ServeMux, authed func(http.Handler) http.Handler) {
	mux.Handle("POST /ratings", authed(http.HandlerFunc(s.submit)))
	mux.Handle("GET /ratings/me", authed(http.HandlerFunc(s.myRatings)))
	mux.Handle("GET /ratings/me/stats", authed(http.HandlerFunc(s.myStats)))
	mux.Handle("GET /ratings/eligible/{lobbyId}", authed(http.HandlerFunc(s.eligibleUsers)))
}

func (s *RatingServer) fail(w http.ResponseWriter, op string, err error) {
	switch apperr.KindOf(err) {
	case apperr.Internal:
		s.log.WithField("op", op).WithError(err).Error("rating operation failed")
	case apperr.Unavailable:
		s.log.WithField("op", op).WithError(err).Warn("lobby service unreachable")
	}
	httpx.WriteError(w, err)
}

type submitRatingRequest struct {
	ToUserID uuid.UUID             `json:"toUserId" validate:"required"`
	LobbyID  uuid.UUID             `json:"lobbyId" validate:"required"`
	Type     models.RatingType     `json:"type" validate:"required"`
	Category models.RatingCategory `json:"category" validate:"required"`
}

func (s *RatingServer) submit(w http.ResponseWriter, r *http.Request) {
	p := middleware.PrincipalFrom(r.Context())

	var req submitRatingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.fail(w, "submit", errBadPayload)
		return
	}
	if err := s.validate.Struct(req); err != nil {
		s.fail(w, "submit", apperr.Wrap(err, apperr.InvalidInput, "INVALID_INPUT", "missing fields"))
		return
	}

	rec, err := s.engine.Submit(r.Context(), p.UserID, rating.SubmitInput{
		ToUserID: req.ToUserID,
		LobbyID:  req.LobbyID,
		Type:     req.Type,
		Category: req.Category,
	})
	if err != nil {
		s.fail(w, "submit", err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, rec)
}

func (s *RatingServer) myRatings(w http.ResponseWriter, r *http.Request) {
	p := middleware.PrincipalFrom(r.Context())
	q := r.URL.Query()

	rs, err := s.engine.MyRatings(r.Context(), p.UserID, rating.Filter{
		Type:     models.RatingType(q.Get("type")),
		Category: models.RatingCategory(q.Get("category")),
	})
	if err != nil {
		s.fail(w, "myRatings", err)
		return
	}
	if rs == nil {
		rs = []models.Rating{}
	}
	httpx.WriteJSON(w, http.StatusOK, rs)
}

func (s *RatingServer) myStats(w http.ResponseWriter, r *http.Request) {
	p := middleware.PrincipalFrom(r.Context())
	stats, err := s.engine.Stats(r.Context(), p.UserID)
	if err != nil {
		s.fail(w, "myStats", err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, stats)
}

func (s *RatingServer) eligibleUsers(w http.ResponseWriter, r *http.Request) {
	p := middleware.PrincipalFrom(r.Context())
	lobbyID, err := pathID(r, "lobbyId")
	if err != nil {
		s.fail(w, "eligibleUsers", err)
		return
	}
	players, err := s.engine.EligibleUsers(r.Context(), p.UserID, lobbyID)
	if err != nil {
		s.fail(w, "eligibleUsers", err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, players)
}
