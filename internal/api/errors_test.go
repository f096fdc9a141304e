package api

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/Dutrix96/batalla/internal/service"
)

func mappedStatus(t *testing.T, err error) int {
	t.Helper()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	serviceError(c, err)
	return w.Code
}

func TestServiceErrorMapping(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		err    error
		status int
	}{
		{service.ErrBattleNotFound, http.StatusNotFound},
		{service.ErrCharacterNotFound, http.StatusNotFound},
		{service.ErrUserNotFound, http.StatusNotFound},
		{service.ErrOpponentNotFound, http.StatusNotFound},

		{service.ErrNotParticipant, http.StatusForbidden},

		{service.ErrBattleNotActive, http.StatusConflict},
		{service.ErrBattleNotInLobby, http.StatusConflict},
		{service.ErrLobbyOnlyPvp, http.StatusConflict},
		{service.ErrNotYourTurn, http.StatusConflict},
		{service.ErrSpecialAlreadyUsed, http.StatusConflict},

		{service.ErrSelfChallenge, http.StatusBadRequest},
		{service.ErrLevelTooLow, http.StatusBadRequest},
		{service.ErrInvalidMode, http.StatusBadRequest},
		{service.ErrMissingOpponent, http.StatusBadRequest},
	}
	for _, tc := range cases {
		if got := mappedStatus(t, tc.err); got != tc.status {
			t.Fatalf("%v mapped to %d, want %d", tc.err, got, tc.status)
		}
	}
}

func TestServiceErrorMapping_WrappedSentinel(t *testing.T) {
	gin.SetMode(gin.TestMode)
	wrapped := fmt.Errorf("attack: %w", service.ErrNotYourTurn)
	if got := mappedStatus(t, wrapped); got != http.StatusConflict {
		t.Fatalf("wrapped sentinel mapped to %d, want %d", got, http.StatusConflict)
	}
}

func TestServiceErrorMapping_UnknownIsInternal(t *testing.T) {
	gin.SetMode(gin.TestMode)
	if got := mappedStatus(t, errors.New("disk I/O error")); got != http.StatusInternalServerError {
		t.Fatalf("unknown error mapped to %d, want %d", got, http.StatusInternalServerError)
	}
}
