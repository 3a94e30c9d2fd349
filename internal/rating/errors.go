package rating

import "github.com/matchup-gg/matchup/internal/apperr"

var (
	ErrSelfRating       = apperr.New(apperr.InvalidInput, "SELF_RATING", "you cannot rate yourself")
	ErrNotFinished      = apperr.New(apperr.InvalidState, "LOBBY_NOT_FINISHED", "ratings are only allowed for finished lobbies")
	ErrWindowExpired    = apperr.New(apperr.InvalidState, "RATING_WINDOW_EXPIRED", "the 72-hour rating window has expired")
	ErrNotParticipant   = apperr.New(apperr.Forbidden, "NOT_A_PARTICIPANT", "you did not play in this lobby")
	ErrTargetNotInMatch = apperr.New(apperr.InvalidInput, "TARGET_NOT_IN_MATCH", "the rated user did not play in this lobby")
	ErrInvalidType      = apperr.New(apperr.InvalidInput, "INVALID_RATING_TYPE", "rating type must be LIKE or DISLIKE")
	ErrInvalidCategory  = apperr.New(apperr.InvalidInput, "INVALID_RATING_CATEGORY", "unknown rating category")
	ErrCategoryMismatch = apperr.New(apperr.InvalidInput, "CATEGORY_MISMATCH", "category does not match the rating type")
	ErrDuplicate        = apperr.New(apperr.InvalidState, "DUPLICATE_RATING", "you already rated this user for this lobby")
)
