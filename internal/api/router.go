package api

import (
	"net/http"
	"slices"
	"time"

	"azarpredictor-backend/config"
	adminAccount "azarpredictor-backend/internal/api/admin/account"
	adminLedger "azarpredictor-backend/internal/api/admin/ledger"
	adminSession "azarpredictor-backend/internal/api/admin/session"
	"azarpredictor-backend/internal/api/health"
	"azarpredictor-backend/internal/api/prediction"
	userRoutes "azarpredictor-backend/internal/api/user"
	"azarpredictor-backend/internal/middleware"
	"azarpredictor-backend/internal/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

// Dependencies are the wired components the router mounts.
type Dependencies struct {
	Config      *config.Config
	DB          *gorm.DB
	Redis       *redis.Client
	Accounts    *services.AccountService
	Predictions *services.PredictionService
	Ledger      *services.LedgerService
	Denylist    *services.TokenDenylist
	// Metrics serves /metrics when set.
	Metrics http.Handler
}

func NewRouter(deps Dependencies) *gin.Engine {
	cfg := deps.Config

	router := gin.New()
	router.Use(gin.Recovery(), middleware.Logger())
	router.Use(cors.New(corsConfig(cfg.CORSOrigins)))

	health.RegisterRoutes(router, health.NewHandler(deps.DB, deps.Redis))
	if deps.Metrics != nil {
		router.GET("/metrics", gin.WrapH(deps.Metrics))
	}

	api := router.Group("/api")
	{
		prediction.RegisterRoutes(api, prediction.NewHandler(deps.Predictions, cfg.DemoUserID))
		userRoutes.RegisterRoutes(api, userRoutes.NewHandler(deps.Accounts, cfg.DemoUserID))

		// Admin routes exist only when tokens can be verified.
		if cfg.JWTSecret != "" {
			admin := api.Group("/admin")
			admin.Use(middleware.AdminAuthMiddleware(cfg.JWTSecret, deps.Denylist))
			{
				adminSession.RegisterRoutes(admin, adminSession.NewHandler(cfg.JWTSecret, deps.Denylist))
				adminAccount.RegisterRoutes(admin, adminAccount.NewHandler(deps.Accounts))
				adminLedger.RegisterRoutes(admin, adminLedger.NewHandler(deps.Ledger))
			}
		}
	}

	return router
}

func corsConfig(origins []string) cors.Config {
	c := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders: []string{"Content-Length", middleware.RequestIDHeader},
		MaxAge:        5 * time.Minute,
	}
	if len(origins) == 0 || slices.Contains(origins, "*") {
		c.AllowAllOrigins = true
		return c
	}
	c.AllowOrigins = origins
	c.AllowCredentials = true
	return c
}
