package main

import (
	"net/http"

	"github.com/Dutrix96/batalla/internal/api"
	"github.com/Dutrix96/batalla/internal/config"
	"github.com/Dutrix96/batalla/internal/constants"
	"github.com/Dutrix96/batalla/internal/engine"
	"github.com/Dutrix96/batalla/internal/logging"
	"github.com/Dutrix96/batalla/internal/matchmaking"
	"github.com/Dutrix96/batalla/internal/progression"
	"github.com/Dutrix96/batalla/internal/realtime"
	"github.com/Dutrix96/batalla/internal/service"
	"github.com/Dutrix96/batalla/internal/storage"

	"github.com/gin-gonic/gin"
)

func main() {
	env, err := config.ParseEnv()
	if err != nil {
		logging.Fatal("Invalid environment", err, nil)
	}

	// Gameplay configuration file (required). Path comes from BATALLA_CONFIG
	// or defaults to ./batalla_config.json in the working directory.
	cfg, err := config.LoadConfig(env.ConfigPath)
	if err != nil {
		logging.Fatal("Missing or invalid batalla configuration", err, logging.Fields{
			"config_path": env.ConfigPath,
			"hint":        "create a batalla_config.json with a 'character_list' array of characters (name,max_hp,attack,required_level) and optional keys: server.address, winner_xp, loser_xp, machine_special_threshold_percent",
		})
	}

	db, err := storage.OpenAndMigrate(env.DBPath, cfg.Characters)
	if err != nil {
		logging.Fatal("Failed to initialize database", err, nil)
	}
	repo := storage.NewSQLiteRepository(db)

	battles := service.NewBattles(repo, service.Policy{
		Engine:      engine.Policy{MachineSpecialThresholdPercent: cfg.MachineSpecialThresholdPercent},
		Progression: progression.Policy{WinnerXP: cfg.WinnerXP, LoserXP: cfg.LoserXP},
	})
	queue := matchmaking.NewQueue(battles)
	hub := realtime.NewHub()

	sessions := api.NewSessionManager(env.SessionSecret)
	authHandler := api.NewAuthHandler(repo, sessions, env.GoogleClientID, env.GoogleClientSecret)
	battleHandler := api.NewBattleHandler(battles, queue, hub)
	characterHandler := api.NewCharacterHandler(repo)
	userHandler := api.NewUserHandler(repo)
	wsHandler := api.NewWSHandler(battles, hub, sessions)

	router := gin.Default()

	router.GET(constants.RouteHealthz, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{constants.JSONKeyStatus: "ok"})
	})
	router.GET(constants.RouteWebsocket, wsHandler.Serve)

	apiRoutes := router.Group(constants.RouteAPIPrefix)
	{
		apiRoutes.POST(constants.RouteAuthGoogleCallback, authHandler.GoogleOAuthCallback)
		apiRoutes.GET(constants.RouteVersion, api.Version)

		protected := apiRoutes.Group("")
		protected.Use(api.AuthRequired(sessions))

		protected.GET(constants.RouteAuthMe, authHandler.Me)
		protected.GET(constants.RouteCharacters, characterHandler.ListCharacters)
		protected.GET(constants.RouteUsersRanking, userHandler.Ranking)

		protected.POST(constants.RouteBattles, battleHandler.CreateBattle)
		protected.GET(constants.RouteBattles, battleHandler.ListMyBattles)
		protected.POST(constants.RoutePvpLobby, battleHandler.CreatePvpLobby)
		protected.POST(constants.RouteSelectCharacter, battleHandler.SelectCharacter)
		protected.POST(constants.RouteAttack, battleHandler.Attack)
		protected.POST(constants.RoutePvpQueue, battleHandler.EnqueuePvp)
		protected.DELETE(constants.RoutePvpQueue, battleHandler.CancelPvp)
		protected.GET(constants.RouteBattleByID, battleHandler.GetBattle)

		admin := protected.Group("")
		admin.Use(api.AdminRequired())
		admin.POST(constants.RouteCharacters, characterHandler.CreateCharacter)
		admin.PATCH(constants.RouteCharacterByID, characterHandler.UpdateCharacter)
		admin.DELETE(constants.RouteCharacterByID, characterHandler.DeleteCharacter)
	}

	addr := cfg.ServerAddress
	if env.Addr != "" {
		addr = env.Addr
	}
	logging.Info("Server started", logging.Fields{constants.LogFieldAddr: addr})
	if err := router.Run(addr); err != nil {
		logging.Fatal("Failed to start server", err, nil)
	}
}
