package service

import "errors"

// Terminal, caller-visible outcomes. The api layer maps each class to an
// HTTP status: not-found 404, forbidden 403, invalid-state 409,
// validation 400. None of these is ever retried inside the engine.
var (
	// not found
	ErrBattleNotFound    = errors.New("battle not found")
	ErrCharacterNotFound = errors.New("character not found")
	ErrUserNotFound      = errors.New("user not found")
	ErrOpponentNotFound  = errors.New("opponent not found")

	// forbidden
	ErrNotParticipant = errors.New("caller is not a participant of this battle")

	// invalid state
	ErrBattleNotActive    = errors.New("battle is not active")
	ErrBattleNotInLobby   = errors.New("battle is no longer in lobby")
	ErrLobbyOnlyPvp       = errors.New("only PVP battles use a lobby")
	ErrNotYourTurn        = errors.New("it is not your turn")
	ErrSpecialAlreadyUsed = errors.New("special already used")

	// validation
	ErrSelfChallenge   = errors.New("cannot challenge yourself")
	ErrLevelTooLow     = errors.New("level requirement not met")
	ErrInvalidMode     = errors.New("invalid battle mode")
	ErrMissingOpponent = errors.New("PVP requires an opponent user")
)
