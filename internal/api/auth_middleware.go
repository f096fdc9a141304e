package api

import (
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Dutrix96/batalla/internal/constants"
	"github.com/Dutrix96/batalla/internal/game"
)

// Context keys populated by AuthRequired.
const (
	ctxUserID    = "userID"
	ctxUserEmail = "userEmail"
	ctxUserRole  = "userRole"
)

// setSessionCookie sets the session cookie with appropriate flags for dev/prod.
func setSessionCookie(c *gin.Context, token string, ttl time.Duration) {
	secure := os.Getenv(constants.EnvSessionSecureCookie) == "1"
	c.SetCookie(constants.CookieSessionName, token, int(ttl.Seconds()), "/", "", secure, true)
}

// sessionToken extracts the token from the session cookie or, failing that,
// from a Bearer authorization header.
func sessionToken(c *gin.Context) string {
	if token, err := c.Cookie(constants.CookieSessionName); err == nil && token != "" {
		return token
	}
	auth := c.GetHeader("Authorization")
	if strings.HasPrefix(auth, constants.BearerPrefix) {
		return strings.TrimPrefix(auth, constants.BearerPrefix)
	}
	return ""
}

// AuthRequired validates the session and injects identity into the context.
func AuthRequired(sessions *SessionManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := sessionToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{constants.JSONKeyError: constants.ErrAuthRequired})
			return
		}
		claims, userID, err := sessions.Parse(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{constants.JSONKeyError: constants.ErrInvalidSession})
			return
		}
		c.Set(ctxUserID, userID)
		c.Set(ctxUserEmail, claims.Email)
		c.Set(ctxUserRole, claims.Role)
		c.Next()
	}
}

// AdminRequired gates the character template admin surface.
func AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, _ := c.Get(ctxUserRole)
		if s, _ := role.(string); s != string(game.RoleAdmin) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{constants.JSONKeyError: constants.ErrAdminRequired})
			return
		}
		c.Next()
	}
}

// currentUserID returns the authenticated user id injected by AuthRequired.
func currentUserID(c *gin.Context) uint {
	v, _ := c.Get(ctxUserID)
	id, _ := v.(uint)
	return id
}
