package constants

// Centralized constants for env keys, routes and shared strings.
const (
	// Environment variable keys read outside the config.Env struct (the
	// struct's env tags carry the rest).
	EnvAddr                = "BATALLA_ADDR"
	EnvSessionSecureCookie = "SESSION_SECURE_COOKIE"

	// Session / cookie names
	CookieSessionName = "b_session"

	// Authorization prefix
	BearerPrefix = "Bearer "

	// Google OAuth constants
	GoogleOAuthRedirect = "postmessage"
	GoogleUserInfoURL   = "https://www.googleapis.com/oauth2/v2/userinfo"
)

var (
	// Scopes for Google userinfo
	GoogleUserInfoScopes = []string{
		"https://www.googleapis.com/auth/userinfo.email",
		"https://www.googleapis.com/auth/userinfo.profile",
	}
)

// Routes used by the backend router
const (
	RouteAPIPrefix          = "/api"
	RouteHealthz            = "/healthz"
	RouteVersion            = "/version"
	RouteWebsocket          = "/ws"
	RouteAuthGoogleCallback = "/auth/google/callback"
	RouteAuthMe             = "/auth/me"
	RouteCharacters         = "/characters"
	RouteCharacterByID      = "/characters/:characterID"
	RouteUsersRanking       = "/users/ranking"
	RouteBattles            = "/battles"
	RouteBattleByID         = "/battles/:battleID"
	RoutePvpLobby           = "/battles/pvp-lobby"
	RouteSelectCharacter    = "/battles/select-character"
	RouteAttack             = "/battles/attack"
	RoutePvpQueue           = "/battles/pvp-queue"
)

// Realtime event names (the client contract mirrors the socket topics of the
// web frontend).
const (
	EventBattleState    = "battle:state"
	EventBattleLobby    = "battle:lobby_state"
	EventBattleAttack   = "battle:attack"
	EventBattleFinished = "battle:finished"
	EventBattleError    = "battle:error"
	EventPvpMatched     = "pvp:matched"

	ClientEventBattleJoin = "battle:join"
)

// Common JSON response keys
const (
	JSONKeyError   = "error"
	JSONKeyMessage = "message"
	JSONKeyStatus  = "status"
	JSONKeyDetails = "details"
)

// Common error messages used across API handlers
const (
	ErrInvalidRequest   = "Invalid request"
	ErrInvalidBattleID  = "Invalid battle ID"
	ErrMissingGoogleEnv = "Missing GOOGLE_CLIENT_ID/GOOGLE_CLIENT_SECRET in environment"

	ErrBattleNotFound     = "Battle not found"
	ErrCharacterNotFound  = "Character not found"
	ErrUserNotFound       = "User not found"
	ErrOpponentNotFound   = "Opponent not found"
	ErrNotParticipant     = "You are not a participant of this battle"
	ErrBattleNotActive    = "Battle is not active"
	ErrBattleNotInLobby   = "Battle is no longer in lobby"
	ErrLobbyOnlyPvp       = "Only PVP battles use a lobby"
	ErrNotYourTurn        = "It is not your turn"
	ErrSpecialAlreadyUsed = "Special already used"
	ErrSelfChallenge      = "You cannot challenge yourself"
	ErrLevelTooLow        = "Your level is too low for that character"

	ErrFailedCreateBattle    = "Failed to create battle"
	ErrFailedUpdateBattle    = "Failed to update battle"
	ErrFailedFetchBattles    = "Failed to fetch battles"
	ErrFailedFetchCharacters = "Failed to fetch characters"
	ErrFailedSaveCharacter   = "Failed to save character"
	ErrFailedDeleteCharacter = "Failed to delete character"
	ErrFailedFetchRanking    = "Failed to fetch ranking"
	ErrFailedFetchUser       = "Failed to fetch user"
	ErrFailedMatchmaking     = "Matchmaking failed"
	ErrCharacterNameRequired = "Character name is required"

	ErrFailedExchangeToken    = "Failed to exchange token"
	ErrFailedGetUserInfo      = "Failed to get user info"
	ErrNoEmailInGoogleProfile = "No email in Google profile"
	ErrFailedCreateSession    = "Failed to create session"

	ErrAuthRequired   = "Authentication required"
	ErrInvalidSession = "Invalid session"
	ErrAdminRequired  = "Admin role required"
)

// Logging field names
const (
	LogFieldBattleID = "battle_id"
	LogFieldUserID   = "user_id"
	LogFieldMode     = "mode"
	LogFieldSide     = "side"
	LogFieldEvent    = "event"
	LogFieldAddr     = "addr"
	LogFieldTicketID = "ticket_id"
)
