// Package rating validates and records anonymized peer feedback for
// finished lobbies.
package rating

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/matchup-gg/matchup/internal/models"
)

// ratingWindow is how long after a lobby finishes that ratings are accepted.
// Exactly 72.0 hours still passes.
const ratingWindow = 72 * time.Hour

// Filter narrows a received-ratings listing.
type Filter struct {
	Type     models.RatingType
	Category models.RatingCategory
}

// Store persists ratings. Insert must enforce the (from, to, lobby)
// uniqueness atomically and return ErrDuplicate on a second submit; that
// constraint, not a read-then-write check, is the duplicate-race guard.
type Store interface {
	Insert(ctx context.Context, r *models.Rating) error
	ListForUser(ctx context.Context, toUserID uuid.UUID, f Filter) ([]models.Rating, error)
	ListByRater(ctx context.Context, fromUserID, lobbyID uuid.UUID) ([]models.Rating, error)
	CountByTypeCategory(ctx context.Context, toUserID uuid.UUID) (map[models.RatingType]map[models.RatingCategory]int, error)
}

// LobbyDirectory fetches the authoritative lobby state across the service
// boundary. Implementations must distinguish "lobby not found" from
// transport failure; eligibility is re-derived from this on every request
// and never cached.
type LobbyDirectory interface {
	Lobby(ctx context.Context, id uuid.UUID) (*models.Lobby, error)
}

// Engine is the rating validator and recorder.
type Engine struct {
	store   Store
	lobbies LobbyDirectory
	now     func() time.Time
}

func NewEngine(store Store, lobbies LobbyDirectory) *Engine {
	return &Engine{store: store, lobbies: lobbies, now: time.Now}
}

// SubmitInput is one peer rating to record.
type SubmitInput struct {
	ToUserID uuid.UUID
	LobbyID  uuid.UUID
	Type     models.RatingType
	Category models.RatingCategory
}

// checkEligibility fetches the lobby and verifies the rater may rate in it:
// the lobby is finished, the window has not lapsed, and the rater played.
func (e *Engine) checkEligibility(ctx context.Context, raterID, lobbyID uuid.UUID) (*models.Lobby, error) {
	l, err := e.lobbies.Lobby(ctx, lobbyID)
	if err != nil {
		return nil, err
	}
	if l.Status != models.LobbyFinished {
		return nil, ErrNotFinished
	}
	if e.now().Sub(l.UpdatedAt) > ratingWindow {
		return nil, ErrWindowExpired
	}
	if !l.HasPlayer(raterID) {
		return nil, ErrNotParticipant
	}
	return l, nil
}

// Submit validates and records a rating. Checks run in a fixed order:
// self-rating, lobby eligibility, target membership, type/category
// consistency, then the atomic uniqueness-guarded insert.
func (e *Engine) Submit(ctx context.Context, fromUserID uuid.UUID, in SubmitInput) (*models.Rating, error) {
	if fromUserID == in.ToUserID {
		return nil, ErrSelfRating
	}
	l, err := e.checkEligibility(ctx, fromUserID, in.LobbyID)
	if err != nil {
		return nil, err
	}
	if !l.HasPlayer(in.ToUserID) {
		return nil, ErrTargetNotInMatch
	}
	if models.CategoriesFor(in.Type) == nil {
		return nil, ErrInvalidType
	}
	if !models.ValidCategory(in.Type, in.Category) {
		return nil, ErrCategoryMismatch
	}
	r := &models.Rating{
		ID:         uuid.New(),
		FromUserID: fromUserID,
		ToUserID:   in.ToUserID,
		LobbyID:    in.LobbyID,
		Type:       in.Type,
		Category:   in.Category,
		CreatedAt:  e.now(),
	}
	if err := e.store.Insert(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

// MyRatings lists ratings received by userID, newest first, with the sender
// stripped.
func (e *Engine) MyRatings(ctx context.Context, userID uuid.UUID, f Filter) ([]models.Rating, error) {
	if f.Type != "" && models.CategoriesFor(f.Type) == nil {
		return nil, ErrInvalidType
	}
	if f.Category != "" && !models.ValidCategory(models.RatingLike, f.Category) && !models.ValidCategory(models.RatingDislike, f.Category) {
		return nil, ErrInvalidCategory
	}
	rs, err := e.store.ListForUser(ctx, userID, f)
	if err != nil {
		return nil, fmt.Errorf("list ratings: %w", err)
	}
	for i := range rs {
		rs[i].FromUserID = uuid.Nil
	}
	return rs, nil
}

// Stats aggregates all ratings received by userID. Every category appears,
// zero or not.
func (e *Engine) Stats(ctx context.Context, userID uuid.UUID) (*models.RatingStats, error) {
	counts, err := e.store.CountByTypeCategory(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("count ratings: %w", err)
	}
	stats := &models.RatingStats{
		Likes:    zeroFilled(models.RatingLike),
		Dislikes: zeroFilled(models.RatingDislike),
	}
	for c, n := range counts[models.RatingLike] {
		stats.Likes.Categories[c] = n
		stats.Likes.Total += n
	}
	for c, n := range counts[models.RatingDislike] {
		stats.Dislikes.Categories[c] = n
		stats.Dislikes.Total += n
	}
	stats.TotalRatings = stats.Likes.Total + stats.Dislikes.Total
	return stats, nil
}

func zeroFilled(t models.RatingType) models.RatingTypeStats {
	s := models.RatingTypeStats{Categories: make(map[models.RatingCategory]int)}
	for _, c := range models.CategoriesFor(t) {
		s.Categories[c] = 0
	}
	return s
}

// EligibleUsers runs the same eligibility check as Submit and returns the
// lobby players the caller may still rate: everyone on the roster except the
// caller and anyone already rated by them in this lobby.
func (e *Engine) EligibleUsers(ctx context.Context, userID, lobbyID uuid.UUID) ([]models.LobbyPlayer, error) {
	l, err := e.checkEligibility(ctx, userID, lobbyID)
	if err != nil {
		return nil, err
	}
	mine, err := e.store.ListByRater(ctx, userID, lobbyID)
	if err != nil {
		return nil, fmt.Errorf("list own ratings: %w", err)
	}
	rated := make(map[uuid.UUID]bool, len(mine))
	for _, r := range mine {
		rated[r.ToUserID] = true
	}
	eligible := make([]models.LobbyPlayer, 0, len(l.Players))
	for _, p := range l.Players {
		if p.UserID == userID || rated[p.UserID] {
			continue
		}
		eligible = append(eligible, p)
	}
	return eligible, nil
}
