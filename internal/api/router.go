package api

import (
	"github.com/gin-gonic/gin"
	v1 "github.com/guardianapis/product-switch/internal/api/v1"
	"github.com/guardianapis/product-switch/internal/config"
	"github.com/guardianapis/product-switch/internal/logger"
	"github.com/guardianapis/product-switch/internal/rest/middleware"
)

type Handlers struct {
	Switch *v1.SwitchHandler
	Health *v1.HealthHandler
}

func NewRouter(handlers Handlers, cfg *config.Configuration, log *logger.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.SentryMiddleware(cfg))
	router.Use(middleware.RequestLogger(log))
	router.Use(middleware.ErrorHandler(log))

	router.GET("/health", handlers.Health.Health)

	v1Group := router.Group("/v1")
	registerV1Routes(v1Group, handlers)

	return router
}

func registerV1Routes(router *gin.RouterGroup, handlers Handlers) {
	subscriptions := router.Group("/subscriptions")
	{
		subscriptions.POST("/:subscriptionNumber/switch", handlers.Switch.SwitchProduct)
	}
}
