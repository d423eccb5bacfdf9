package main

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/noah-isme/room-booking-api/internal/handler"
	"github.com/noah-isme/room-booking-api/internal/middleware"
	"github.com/noah-isme/room-booking-api/internal/service"
	"github.com/noah-isme/room-booking-api/pkg/config"
	"github.com/noah-isme/room-booking-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/room-booking-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/room-booking-api/pkg/middleware/requestid"
)

type routerDeps struct {
	bookings   *handler.BookingHandler
	metrics    *handler.MetricsHandler
	metricsSvc *service.MetricsService
}

func newRouter(cfg *config.Config, logr *zap.Logger, deps routerDeps) *gin.Engine {
	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(deps.metricsSvc))

	r.GET("/health", deps.metrics.Health)
	r.GET("/ready", deps.metrics.Ready)
	r.GET("/metrics", deps.metrics.Prometheus)
	r.GET("/metrics/summary", deps.metrics.Summary)

	rooms := r.Group(cfg.APIPrefix)
	rooms.Use(middleware.WithResponseMeta())
	rooms.POST("/book", middleware.RequireJSON(), deps.bookings.Book)
	rooms.POST("/view", middleware.RequireJSON(), deps.bookings.View)
	rooms.POST("/view/export", middleware.RequireJSON(), deps.bookings.Export)
	rooms.GET("/bookings/:reference", deps.bookings.Booking)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}
	return r
}
