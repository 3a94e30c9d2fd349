package lobby

import "github.com/matchup-gg/matchup/internal/apperr"

var (
	ErrNotFound  = apperr.New(apperr.NotFound, "LOBBY_NOT_FOUND", "lobby not found")
	ErrNotOwner  = apperr.New(apperr.Forbidden, "NOT_LOBBY_OWNER", "only the lobby owner may perform this action")
	ErrClosed    = apperr.New(apperr.InvalidState, "LOBBY_CLOSED", "lobby is finished or cancelled")
	ErrCancelled = apperr.New(apperr.InvalidState, "LOBBY_CANCELLED", "lobby has been cancelled")

	ErrFull             = apperr.New(apperr.InvalidState, "LOBBY_FULL", "lobby is already full")
	ErrAlreadyMember    = apperr.New(apperr.InvalidState, "ALREADY_JOINED", "user already joined this lobby")
	ErrNotMember        = apperr.New(apperr.InvalidState, "NOT_A_MEMBER", "user is not in this lobby")
	ErrOwnerCannotLeave = apperr.New(apperr.InvalidState, "OWNER_CANNOT_LEAVE", "the owner cannot leave their own lobby; cancel it instead")
	ErrSelfKick         = apperr.New(apperr.InvalidState, "OWNER_SELF_KICK", "the owner cannot kick themselves")
	ErrPlayerNotFound   = apperr.New(apperr.NotFound, "PLAYER_NOT_FOUND", "player is not in this lobby")
	ErrAlreadyFinished  = apperr.New(apperr.InvalidState, "ALREADY_FINISHED", "lobby is already finished")
)
