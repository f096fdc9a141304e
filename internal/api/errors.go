package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Dutrix96/batalla/internal/constants"
	"github.com/Dutrix96/batalla/internal/service"
)

// serviceError maps a battle service sentinel to the HTTP response the
// client acts on: 404 nothing-like-that-exists, 403 you-don't-belong-here,
// 409 refresh-your-view, 400 fix-your-request.
func serviceError(c *gin.Context, err error) {
	var status int
	var msg string
	switch {
	case errors.Is(err, service.ErrBattleNotFound):
		status, msg = http.StatusNotFound, constants.ErrBattleNotFound
	case errors.Is(err, service.ErrCharacterNotFound):
		status, msg = http.StatusNotFound, constants.ErrCharacterNotFound
	case errors.Is(err, service.ErrUserNotFound):
		status, msg = http.StatusNotFound, constants.ErrUserNotFound
	case errors.Is(err, service.ErrOpponentNotFound):
		status, msg = http.StatusNotFound, constants.ErrOpponentNotFound
	case errors.Is(err, service.ErrNotParticipant):
		status, msg = http.StatusForbidden, constants.ErrNotParticipant
	case errors.Is(err, service.ErrBattleNotActive):
		status, msg = http.StatusConflict, constants.ErrBattleNotActive
	case errors.Is(err, service.ErrBattleNotInLobby):
		status, msg = http.StatusConflict, constants.ErrBattleNotInLobby
	case errors.Is(err, service.ErrLobbyOnlyPvp):
		status, msg = http.StatusConflict, constants.ErrLobbyOnlyPvp
	case errors.Is(err, service.ErrNotYourTurn):
		status, msg = http.StatusConflict, constants.ErrNotYourTurn
	case errors.Is(err, service.ErrSpecialAlreadyUsed):
		status, msg = http.StatusConflict, constants.ErrSpecialAlreadyUsed
	case errors.Is(err, service.ErrSelfChallenge):
		status, msg = http.StatusBadRequest, constants.ErrSelfChallenge
	case errors.Is(err, service.ErrLevelTooLow):
		status, msg = http.StatusBadRequest, constants.ErrLevelTooLow
	case errors.Is(err, service.ErrInvalidMode), errors.Is(err, service.ErrMissingOpponent):
		status, msg = http.StatusBadRequest, constants.ErrInvalidRequest
	default:
		status, msg = http.StatusInternalServerError, constants.ErrFailedUpdateBattle
	}
	c.JSON(status, gin.H{constants.JSONKeyError: msg})
}
