package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Dutrix96/batalla/internal/constants"
	"github.com/Dutrix96/batalla/internal/dedupe"
	"github.com/Dutrix96/batalla/internal/game"
	"github.com/Dutrix96/batalla/internal/storage"
)

const (
	defaultRankingTake = 50
	maxRankingTake     = 200
)

// UserHandler serves account-facing reads like the leaderboard.
type UserHandler struct {
	repo storage.Repository
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(repo storage.Repository) *UserHandler {
	return &UserHandler{repo: repo}
}

// RankingEntry is the public leaderboard row. Emails stay private.
type RankingEntry struct {
	ID     uint   `json:"id"`
	Name   string `json:"name"`
	Level  int    `json:"level"`
	XP     int    `json:"xp"`
	Wins   int    `json:"wins"`
	Losses int    `json:"losses"`
}

func rankingEntries(users []game.User) []RankingEntry {
	out := make([]RankingEntry, 0, len(users))
	for _, u := range users {
		out = append(out, RankingEntry{
			ID:     u.ID,
			Name:   u.Name,
			Level:  u.Level,
			XP:     u.XP,
			Wins:   u.Wins,
			Losses: u.Losses,
		})
	}
	return out
}

// Ranking returns the leaderboard ordered by level, xp and wins. Concurrent
// identical requests collapse to a single database query.
func (h *UserHandler) Ranking(c *gin.Context) {
	take := defaultRankingTake
	if raw := c.Query("take"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
			return
		}
		if n > maxRankingTake {
			n = maxRankingTake
		}
		take = n
	}

	key := "ranking:" + strconv.Itoa(take)
	v, err, _ := dedupe.RankingGroup.Do(key, func() (any, error) {
		users, err := h.repo.GetRanking(take)
		if err != nil {
			return nil, err
		}
		return rankingEntries(users), nil
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedFetchRanking})
		return
	}
	c.JSON(http.StatusOK, v)
}
