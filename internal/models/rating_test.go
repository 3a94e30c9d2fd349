package models

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoriesFor(t *testing.T) {
	assert.Equal(t, LikeCategories, CategoriesFor(RatingLike))
	assert.Equal(t, DislikeCategories, CategoriesFor(RatingDislike))
	assert.Nil(t, CategoriesFor("NEUTRAL"))
}

func TestValidCategoryDisjointSets(t *testing.T) {
	for _, c := range LikeCategories {
		assert.True(t, ValidCategory(RatingLike, c))
		assert.False(t, ValidCategory(RatingDislike, c))
	}
	for _, c := range DislikeCategories {
		assert.True(t, ValidCategory(RatingDislike, c))
		assert.False(t, ValidCategory(RatingLike, c))
	}
}

func TestRatingJSONHidesRater(t *testing.T) {
	r := Rating{
		ID:         uuid.New(),
		FromUserID: uuid.New(),
		ToUserID:   uuid.New(),
		LobbyID:    uuid.New(),
		Type:       RatingLike,
		Category:   CategoryFriendly,
	}
	raw, err := json.Marshal(r)
	require.NoError(t, err)

	var fields map[string]any
	require.NoError(t, json.Unmarshal(raw, &fields))
	assert.NotContains(t, fields, "fromUserId")
	assert.NotContains(t, string(raw), r.FromUserID.String())
}
