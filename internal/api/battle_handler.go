package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Dutrix96/batalla/internal/constants"
	"github.com/Dutrix96/batalla/internal/game"
	"github.com/Dutrix96/batalla/internal/logging"
	"github.com/Dutrix96/batalla/internal/matchmaking"
	"github.com/Dutrix96/batalla/internal/realtime"
	"github.com/Dutrix96/batalla/internal/service"
)

// BattleHandler groups the battle, lobby and matchmaking HTTP handlers.
type BattleHandler struct {
	svc   *service.Battles
	queue *matchmaking.Queue
	hub   *realtime.Hub
}

// NewBattleHandler creates a new BattleHandler.
func NewBattleHandler(svc *service.Battles, queue *matchmaking.Queue, hub *realtime.Hub) *BattleHandler {
	return &BattleHandler{svc: svc, queue: queue, hub: hub}
}

func battleIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("battleID"), 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidBattleID})
		return 0, false
	}
	return uint(id), true
}

// broadcastState pushes the current projection to the battle room: the lobby
// view while picks are pending, the full state view afterwards.
func (h *BattleHandler) broadcastState(b *game.Battle) {
	if b.Status == game.StatusLobby {
		h.hub.BroadcastBattle(b.ID, constants.EventBattleLobby, game.NewLobbyView(b))
		return
	}
	h.hub.BroadcastBattle(b.ID, constants.EventBattleState, game.NewStateView(b))
}

type CreateBattlePayload struct {
	Mode                 game.BattleMode `json:"mode"`
	InitiatorCharacterID uint            `json:"initiator_character_id"`
	OpponentCharacterID  uint            `json:"opponent_character_id"`
	OpponentUserID       *uint           `json:"opponent_user_id"`
}

// CreateBattle creates an ACTIVE battle with both characters known up front.
// PVE opponents are machine-controlled; PVP requires a distinct opponent user.
func (h *BattleHandler) CreateBattle(c *gin.Context) {
	var req CreateBattlePayload
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	userID := currentUserID(c)

	b, err := h.svc.CreateBattle(userID, service.CreateBattleInput{
		Mode:                 req.Mode,
		InitiatorCharacterID: req.InitiatorCharacterID,
		OpponentCharacterID:  req.OpponentCharacterID,
		OpponentUserID:       req.OpponentUserID,
	})
	if err != nil {
		serviceError(c, err)
		return
	}

	logging.Info("battle created", logging.Fields{
		constants.LogFieldBattleID: b.ID,
		constants.LogFieldUserID:   userID,
		constants.LogFieldMode:     string(b.Mode),
	})
	c.JSON(http.StatusCreated, game.NewStateView(b))
}

type PvpLobbyPayload struct {
	OpponentUserID uint `json:"opponent_user_id"`
}

// CreatePvpLobby opens a PVP battle in LOBBY state for a direct challenge.
// Both players pick characters afterwards via SelectCharacter.
func (h *BattleHandler) CreatePvpLobby(c *gin.Context) {
	var req PvpLobbyPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	userID := currentUserID(c)

	b, err := h.svc.CreatePvpLobby(userID, req.OpponentUserID)
	if err != nil {
		serviceError(c, err)
		return
	}

	// let the challenged player know even before they join the room
	h.hub.SendToUser(req.OpponentUserID, constants.EventBattleLobby, game.NewLobbyView(b))

	logging.Info("pvp lobby created", logging.Fields{
		constants.LogFieldBattleID: b.ID,
		constants.LogFieldUserID:   userID,
	})
	c.JSON(http.StatusCreated, game.NewLobbyView(b))
}

type SelectCharacterPayload struct {
	BattleID    uint `json:"battle_id"`
	CharacterID uint `json:"character_id"`
}

// SelectCharacter records the caller's pick on a LOBBY battle. When both
// sides have picked the battle goes ACTIVE and the room gets the full state.
func (h *BattleHandler) SelectCharacter(c *gin.Context) {
	var req SelectCharacterPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	userID := currentUserID(c)

	b, err := h.svc.SelectCharacter(userID, req.BattleID, req.CharacterID)
	if err != nil {
		serviceError(c, err)
		return
	}

	h.broadcastState(b)

	if b.Status == game.StatusLobby {
		c.JSON(http.StatusOK, game.NewLobbyView(b))
		return
	}
	c.JSON(http.StatusOK, game.NewStateView(b))
}

type AttackPayload struct {
	BattleID uint `json:"battle_id"`
	Special  bool `json:"special"`
}

// Attack resolves the caller's turn and fans the results out to the battle
// room: one event per attack, the new state, and a finished notice when the
// battle ends.
func (h *BattleHandler) Attack(c *gin.Context) {
	var req AttackPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	userID := currentUserID(c)

	b, events, err := h.svc.Attack(userID, req.BattleID, req.Special)
	if err != nil {
		serviceError(c, err)
		return
	}

	for _, ev := range events {
		h.hub.BroadcastBattle(b.ID, constants.EventBattleAttack, ev)
	}
	state := game.NewStateView(b)
	h.hub.BroadcastBattle(b.ID, constants.EventBattleState, state)
	if b.Status == game.StatusFinished {
		h.hub.BroadcastBattle(b.ID, constants.EventBattleFinished, state)
		logging.Info("battle finished", logging.Fields{
			constants.LogFieldBattleID: b.ID,
			constants.LogFieldUserID:   userID,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"battle": state,
		"events": events,
	})
}

// GetBattle returns the caller's view of one battle: the lobby projection
// while picks are pending, the full state otherwise.
func (h *BattleHandler) GetBattle(c *gin.Context) {
	battleID, ok := battleIDParam(c)
	if !ok {
		return
	}
	userID := currentUserID(c)

	b, err := h.svc.GetState(userID, battleID)
	if err != nil {
		serviceError(c, err)
		return
	}

	if b.Status == game.StatusLobby {
		c.JSON(http.StatusOK, game.NewLobbyView(b))
		return
	}
	c.JSON(http.StatusOK, game.NewStateView(b))
}

// ListMyBattles returns the caller's battle history, newest first.
func (h *BattleHandler) ListMyBattles(c *gin.Context) {
	userID := currentUserID(c)
	summaries, err := h.svc.ListMyBattles(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedFetchBattles})
		return
	}
	c.JSON(http.StatusOK, summaries)
}

// EnqueuePvp puts the caller in the matchmaking slot or matches them against
// the player already waiting. On a match both players are notified over their
// sockets with the new battle id.
func (h *BattleHandler) EnqueuePvp(c *gin.Context) {
	userID := currentUserID(c)

	res, err := h.queue.Enqueue(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedMatchmaking})
		return
	}

	if res.Status == matchmaking.StatusMatched {
		payload := gin.H{"battle_id": res.BattleID}
		h.hub.SendToUser(res.Users[0], constants.EventPvpMatched, payload)
		h.hub.SendToUser(res.Users[1], constants.EventPvpMatched, payload)
		logging.Info("pvp matched", logging.Fields{
			constants.LogFieldBattleID: res.BattleID,
		})
	}

	c.JSON(http.StatusOK, res)
}

// CancelPvp clears the caller's matchmaking ticket. Always reports CANCELED,
// even when nothing was queued.
func (h *BattleHandler) CancelPvp(c *gin.Context) {
	userID := currentUserID(c)
	c.JSON(http.StatusOK, h.queue.Cancel(userID))
}
