package api

import (
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerfiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/vietanh2810/basepoint-api/docs"
	v1 "github.com/vietanh2810/basepoint-api/internal/api/handler/v1"
	"github.com/vietanh2810/basepoint-api/internal/api/middleware"
	"github.com/vietanh2810/basepoint-api/internal/config"
)

// Services are the application services the HTTP layer talks to.
type Services struct {
	Auth      v1.AuthService
	Users     v1.UserService
	Territory v1.TerritoryService
	Factions  v1.FactionService
	Feed      *v1.FeedHub
}

type Server struct {
	Config   *config.AppConfig
	Router   *gin.Engine
	registry *prometheus.Registry
}

// NewServer mounts every route on a fresh engine. Request metrics are
// registered on registry and served, with everything else it holds, at
// /metrics.
func NewServer(conf *config.AppConfig, svcs Services, registry *prometheus.Registry) *Server {
	gin.SetMode(conf.Gin.Mode)
	engine := gin.New()

	s := &Server{
		Config:   conf,
		Router:   engine,
		registry: registry,
	}

	s.MountMiddlewares()
	s.MountHandlers(
		v1.NewAuthHandler(conf.API, svcs.Auth),
		v1.NewUserHandler(svcs.Users),
		v1.NewTerritoryHandler(svcs.Territory, svcs.Users),
		v1.NewFactionHandler(svcs.Factions, svcs.Users),
		svcs.Feed,
	)

	return s
}

func (s *Server) MountMiddlewares() {
	// Logger and Recovery are needed unless we use gin.Default().
	s.Router.Use(gin.Logger())
	s.Router.Use(gin.Recovery())
	s.Router.Use(requestid.New())
	s.Router.Use(middleware.ConfigCORS(s.Config.API.AllowedCORSDomains))
	s.Router.Use(middleware.Metrics(s.registry))
}

func (s *Server) MountHandlers(
	authHandler *v1.AuthHandler,
	userHandler *v1.UserHandler,
	territoryHandler *v1.TerritoryHandler,
	factionHandler *v1.FactionHandler,
	feed *v1.FeedHub,
) {
	const basePath = "/api/v1"

	auth := s.Router.Group(basePath)
	{
		auth.POST("/auth/signup", authHandler.HandleSignup)
		auth.POST("/auth/login", authHandler.HandleLogin)
	}

	private := s.Router.Group(basePath, middleware.NewAuthenticator(s.Config.API.JWTSigningKey).VerifyJWT())
	{
		private.GET("/users/:userID", userHandler.HandleGetUser)

		private.GET("/basepoints", territoryHandler.HandleListPoints)
		private.POST("/basepoints", territoryHandler.HandleRegisterPoint)
		private.GET("/basepoints/by-name/:name", territoryHandler.HandleGetPointByName)
		private.PUT("/basepoints/:pointID", territoryHandler.HandleUpdatePoint)
		private.DELETE("/basepoints/:pointID", territoryHandler.HandleDeactivatePoint)
		private.POST("/basepoints/:pointID/reactivate", territoryHandler.HandleReactivatePoint)

		private.POST("/captures", territoryHandler.HandleSubmitCapture)
		private.GET("/captures/recent", territoryHandler.HandleRecentCaptures)
		private.DELETE("/captures/:captureID", territoryHandler.HandleRemoveCapture)

		private.GET("/session", territoryHandler.HandleGetSession)
		private.POST("/session/start", territoryHandler.HandleStartSession)
		private.POST("/session/stop", territoryHandler.HandleStopSession)

		private.GET("/territory/status", territoryHandler.HandleGetStatus)
		private.GET("/territory/summary", territoryHandler.HandleGetSummary)

		private.GET("/factions", factionHandler.HandleListFactions)
		private.POST("/factions", factionHandler.HandleCreateFaction)
		private.GET("/factions/by-name/:name", factionHandler.HandleGetFactionByName)
		private.GET("/factions/:factionID", factionHandler.HandleGetFaction)
		private.GET("/factions/:factionID/treasury", factionHandler.HandleListTransactions)
		private.POST("/factions/:factionID/treasury", factionHandler.HandleAdjustTreasury)
		private.GET("/factions/:factionID/members", factionHandler.HandleListMembers)
		private.POST("/factions/:factionID/members", factionHandler.HandleAssignMember)

		if feed != nil {
			private.GET("/feed", feed.HandleFeed)
		}
	}

	s.Router.GET("/", v1.HandleHealthcheck)
	s.Router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{Registry: s.registry})))

	// Setup Swagger UI.
	docs.SwaggerInfo.Host = s.Config.API.BaseURL
	docs.SwaggerInfo.BasePath = basePath
	docs.SwaggerInfo.Title = "Basepoint API"
	docs.SwaggerInfo.Description = "Territory capture ledger, holder views and faction treasury."
	docs.SwaggerInfo.Version = "1.0"
	s.Router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerfiles.Handler))
}
