package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/Dutrix96/batalla/internal/constants"
	"github.com/Dutrix96/batalla/internal/storage"
)

// AuthHandler implements the identity boundary: Google OAuth code exchange,
// account upsert and session minting. The engine itself only ever sees the
// authenticated user id.
type AuthHandler struct {
	repo         storage.Repository
	sessions     *SessionManager
	clientID     string
	clientSecret string
}

// NewAuthHandler creates the auth boundary handler.
func NewAuthHandler(repo storage.Repository, sessions *SessionManager, clientID, clientSecret string) *AuthHandler {
	return &AuthHandler{repo: repo, sessions: sessions, clientID: clientID, clientSecret: clientSecret}
}

type googleOAuthCallbackRequest struct {
	Code string `json:"code"`
}

// GoogleOAuthCallback exchanges the one-time code, reads the Google profile
// and establishes a session for the matching account (created on first
// login).
func (h *AuthHandler) GoogleOAuthCallback(c *gin.Context) {
	var req googleOAuthCallbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	if h.clientID == "" || h.clientSecret == "" {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrMissingGoogleEnv})
		return
	}

	conf := &oauth2.Config{
		ClientID:     h.clientID,
		ClientSecret: h.clientSecret,
		RedirectURL:  constants.GoogleOAuthRedirect,
		Scopes:       constants.GoogleUserInfoScopes,
		Endpoint:     google.Endpoint,
	}

	token, err := conf.Exchange(context.Background(), req.Code)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{constants.JSONKeyError: constants.ErrFailedExchangeToken, constants.JSONKeyDetails: err.Error()})
		return
	}

	client := conf.Client(context.Background(), token)
	resp, err := client.Get(constants.GoogleUserInfoURL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedGetUserInfo, constants.JSONKeyDetails: err.Error()})
		return
	}
	defer resp.Body.Close()

	userData, err := io.ReadAll(resp.Body)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedGetUserInfo})
		return
	}

	var payload map[string]any
	_ = json.Unmarshal(userData, &payload)
	email, _ := payload["email"].(string)
	name, _ := payload["name"].(string)
	if email == "" {
		c.JSON(http.StatusUnauthorized, gin.H{constants.JSONKeyError: constants.ErrNoEmailInGoogleProfile})
		return
	}

	user, err := h.repo.UpsertUserByEmail(email, name)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedCreateSession})
		return
	}

	sess, err := h.sessions.Create(user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedCreateSession})
		return
	}
	setSessionCookie(c, sess, sessionTTL)

	c.JSON(http.StatusOK, gin.H{"user": user, "token": sess})
}

// Me returns the authenticated account's profile and progression stats.
func (h *AuthHandler) Me(c *gin.Context) {
	user, err := h.repo.GetUserByID(currentUserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedFetchUser})
		return
	}
	if user == nil {
		c.JSON(http.StatusNotFound, gin.H{constants.JSONKeyError: constants.ErrUserNotFound})
		return
	}
	c.JSON(http.StatusOK, user)
}
