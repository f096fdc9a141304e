package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/Dutrix96/batalla/internal/constants"
	"github.com/Dutrix96/batalla/internal/game"
	"github.com/Dutrix96/batalla/internal/logging"
	"github.com/Dutrix96/batalla/internal/realtime"
	"github.com/Dutrix96/batalla/internal/service"
)

// WSHandler upgrades authenticated clients and routes their room joins.
type WSHandler struct {
	svc      *service.Battles
	hub      *realtime.Hub
	sessions *SessionManager
	upgrader websocket.Upgrader
}

// NewWSHandler creates a new WSHandler.
func NewWSHandler(svc *service.Battles, hub *realtime.Hub, sessions *SessionManager) *WSHandler {
	return &WSHandler{
		svc:      svc,
		hub:      hub,
		sessions: sessions,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// the session token already gates the upgrade
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// clientFrame is the only inbound message shape: a battle room join.
type clientFrame struct {
	Type     string `json:"type"`
	BattleID uint   `json:"battle_id"`
}

// wsToken extracts the session token for the upgrade request. Browser
// websocket clients cannot set an Authorization header, so a query parameter
// is accepted alongside the cookie.
func wsToken(c *gin.Context) string {
	if tok := c.Query("token"); tok != "" {
		return tok
	}
	return sessionToken(c)
}

// Serve authenticates the upgrade, registers the socket and then loops on
// inbound frames. A battle:join is honored only for battle participants; on
// success the caller immediately receives the current projection.
func (h *WSHandler) Serve(c *gin.Context) {
	tok := wsToken(c)
	if tok == "" {
		c.JSON(http.StatusUnauthorized, gin.H{constants.JSONKeyError: constants.ErrAuthRequired})
		return
	}
	_, userID, err := h.sessions.Parse(tok)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{constants.JSONKeyError: constants.ErrInvalidSession})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error
		return
	}
	h.hub.Register(userID, conn)
	defer func() {
		h.hub.Unregister(conn)
		_ = conn.Close()
	}()

	logging.Info("websocket connected", logging.Fields{
		constants.LogFieldUserID: userID,
	})

	for {
		var frame clientFrame
		if err := conn.ReadJSON(&frame); err != nil {
			return
		}
		if frame.Type != constants.ClientEventBattleJoin {
			continue
		}
		h.joinBattle(conn, userID, frame.BattleID)
	}
}

func (h *WSHandler) joinBattle(conn *websocket.Conn, userID, battleID uint) {
	b, err := h.svc.GetState(userID, battleID)
	if err != nil {
		logging.Warn("battle join denied", logging.Fields{
			constants.LogFieldBattleID: battleID,
			constants.LogFieldUserID:   userID,
		})
		h.hub.SendTo(conn, constants.EventBattleError, gin.H{
			constants.JSONKeyError:     constants.ErrNotParticipant,
			constants.LogFieldBattleID: battleID,
		})
		return
	}
	h.hub.JoinBattle(battleID, conn)

	// push the current projection so the client renders without a refetch
	if b.Status == game.StatusLobby {
		h.hub.SendTo(conn, constants.EventBattleLobby, game.NewLobbyView(b))
		return
	}
	h.hub.SendTo(conn, constants.EventBattleState, game.NewStateView(b))
}
