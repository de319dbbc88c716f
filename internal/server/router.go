package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/yungbote/fincompass-backend/internal/handlers"
	"github.com/yungbote/fincompass-backend/internal/middleware"
)

type RouterConfig struct {
	AuthHandler         *handlers.AuthHandler
	AuthMiddleware      *middleware.AuthMiddleware
	AdminMiddleware     *middleware.AdminMiddleware
	UserHandler         *handlers.UserHandler
	OutlookHandler      *handlers.OutlookHandler
	RelationshipHandler *handlers.RelationshipHandler
	BatchHandler        *handlers.BatchHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()
	router.Use(otelgin.Middleware("fincompass-backend"))

	// Cors
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{
			"http://localhost:80",
			"http://localhost:3000",
			"http://localhost:5174",
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With", "X-Admin-Token"},
		AllowCredentials: true,
	}))

	// ===============
	// || Public    ||
	// ===============
	router.GET("/healthcheck", handlers.HealthCheck)
	router.POST("/register", cfg.AuthHandler.Register)
	router.POST("/login", cfg.AuthHandler.Login)
	router.POST("/refresh", cfg.AuthHandler.Refresh)

	// ===============
	// || Protected ||
	// ===============
	protected := router.Group("/")
	protected.Use(cfg.AuthMiddleware.RequireAuth())
	// Auth
	protected.POST("/logout", cfg.AuthHandler.Logout)
	// User
	protected.GET("/user", cfg.UserHandler.GetMe)
	protected.PUT("/user/tier", cfg.UserHandler.UpdateTier)
	// Relationship status
	protected.GET("/relationship", cfg.RelationshipHandler.Get)
	protected.PUT("/relationship", cfg.RelationshipHandler.Update)
	// Daily outlook
	protected.GET("/outlook/today", cfg.OutlookHandler.GetToday)
	protected.POST("/outlook/actions/:action_id", cfg.OutlookHandler.CompleteAction)
	protected.POST("/outlook/rating", cfg.OutlookHandler.Rate)
	protected.GET("/outlook/streak", cfg.OutlookHandler.StreakInfo)
	protected.GET("/outlook/history", cfg.OutlookHandler.History)

	// ===============
	// || Admin     ||
	// ===============
	admin := router.Group("/admin")
	admin.Use(cfg.AdminMiddleware.RequireAdmin())
	admin.POST("/outlook/batch", cfg.BatchHandler.Run)

	return router
}
