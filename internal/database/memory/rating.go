package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/matchup-gg/matchup/internal/models"
	"github.com/matchup-gg/matchup/internal/rating"
)

type ratingKey struct {
	from  uuid.UUID
	to    uuid.UUID
	lobby uuid.UUID
}

// RatingStore keeps ratings in memory with the same composite uniqueness the
// postgres schema enforces.
type RatingStore struct {
	mu      sync.Mutex
	byKey   map[ratingKey]struct{}
	ratings []models.Rating
}

func NewRatingStore() *RatingStore {
	return &RatingStore{byKey: make(map[ratingKey]struct{})}
}

func (s *RatingStore) Insert(_ context.Context, r *models.Rating) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := ratingKey{from: r.FromUserID, to: r.ToUserID, lobby: r.LobbyID}
	if _, dup := s.byKey[k]; dup {
		return rating.ErrDuplicate
	}
	s.byKey[k] = struct{}{}
	s.ratings = append(s.ratings, *r)
	return nil
}

func (s *RatingStore) ListForUser(_ context.Context, toUserID uuid.UUID, f rating.Filter) ([]models.Rating, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Rating
	for _, r := range s.ratings {
		if r.ToUserID != toUserID {
			continue
		}
		if f.Type != "" && r.Type != f.Type {
			continue
		}
		if f.Category != "" && r.Category != f.Category {
			continue
		}
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *RatingStore) ListByRater(_ context.Context, fromUserID, lobbyID uuid.UUID) ([]models.Rating, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Rating
	for _, r := range s.ratings {
		if r.FromUserID == fromUserID && r.LobbyID == lobbyID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *RatingStore) CountByTypeCategory(_ context.Context, toUserID uuid.UUID) (map[models.RatingType]map[models.RatingCategory]int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	counts := make(map[models.RatingType]map[models.RatingCategory]int)
	for _, r := range s.ratings {
		if r.ToUserID != toUserID {
			continue
		}
		if counts[r.Type] == nil {
			counts[r.Type] = make(map[models.RatingCategory]int)
		}
		counts[r.Type][r.Category]++
	}
	return counts, nil
}
