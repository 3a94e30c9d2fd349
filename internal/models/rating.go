package models

import (
	"time"

	"github.com/google/uuid"
)

// RatingType is the polarity of a peer rating.
type RatingType string

const (
	RatingLike    RatingType = "LIKE"
	RatingDislike RatingType = "DISLIKE"
)

// RatingCategory qualifies a rating. Each type has a disjoint set of four
// valid categories.
type RatingCategory string

const (
	CategoryFriendly      RatingCategory = "Friendly"
	CategoryCommunicative RatingCategory = "Communicative"
	CategorySporty        RatingCategory = "Sporty"
	CategoryFair          RatingCategory = "Fair"

	CategoryToxic      RatingCategory = "Toxic"
	CategoryAggressive RatingCategory = "Aggressive"
	CategorySloppy     RatingCategory = "Sloppy"
	CategoryUnfair     RatingCategory = "Unfair"
)

// LikeCategories and DislikeCategories are the valid category sets per type,
// in the order stats are reported.
var (
	LikeCategories    = []RatingCategory{CategoryFriendly, CategoryCommunicative, CategorySporty, CategoryFair}
	DislikeCategories = []RatingCategory{CategoryToxic, CategoryAggressive, CategorySloppy, CategoryUnfair}
)

// CategoriesFor returns the valid category set for t, or nil for an unknown type.
func CategoriesFor(t RatingType) []RatingCategory {
	switch t {
	case RatingLike:
		return LikeCategories
	case RatingDislike:
		return DislikeCategories
	}
	return nil
}

// ValidCategory reports whether c belongs to the category set of t.
func ValidCategory(t RatingType, c RatingCategory) bool {
	for _, v := range CategoriesFor(t) {
		if v == c {
			return true
		}
	}
	return false
}

// Rating is an anonymized peer judgment tied to a finished lobby.
// FromUserID is never serialized; the rater stays anonymous in every read API.
type Rating struct {
	ID         uuid.UUID      `json:"id"`
	FromUserID uuid.UUID      `json:"-"`
	ToUserID   uuid.UUID      `json:"toUserId"`
	LobbyID    uuid.UUID      `json:"lobbyId"`
	Type       RatingType     `json:"type"`
	Category   RatingCategory `json:"category"`
	CreatedAt  time.Time      `json:"createdAt"`
}

// RatingTypeStats aggregates one rating type, with every category present
// even when zero.
type RatingTypeStats struct {
	Total      int                    `json:"total"`
	Categories map[RatingCategory]int `json:"categories"`
}

// RatingStats is the aggregate view of all ratings received by a user.
type RatingStats struct {
	TotalRatings int             `json:"totalRatings"`
	Likes        RatingTypeStats `json:"likes"`
	Dislikes     RatingTypeStats `json:"dislikes"`
}
