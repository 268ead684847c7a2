package main

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/noah-isme/wellness-booking-api/internal/handler"
	"github.com/noah-isme/wellness-booking-api/internal/middleware"
	"github.com/noah-isme/wellness-booking-api/internal/models"
	"github.com/noah-isme/wellness-booking-api/pkg/config"
	"github.com/noah-isme/wellness-booking-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/wellness-booking-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/wellness-booking-api/pkg/middleware/requestid"
)

type routerDeps struct {
	auth          middleware.TokenValidator
	metrics       middleware.RequestObserver
	limiter       *middleware.RateLimiter
	calendar      *handler.CalendarHandler
	availability  *handler.AvailabilityHandler
	observability *handler.MetricsHandler
}

func newRouter(cfg *config.Config, logr *zap.Logger, deps routerDeps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(deps.metrics))
	r.Use(middleware.WithResponseMeta())

	r.GET("/health", deps.observability.Health)
	r.GET("/ready", deps.observability.Ready)
	r.GET("/metrics", deps.observability.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)

	calendar := api.Group("/calendar")
	calendar.GET("/month", middleware.RateLimit(deps.limiter), deps.calendar.Month)
	calendar.GET("/feed/:token", middleware.RateLimit(deps.limiter), deps.calendar.Feed)

	authed := api.Group("")
	authed.Use(middleware.JWT(deps.auth))

	teamRoles := middleware.RequireRoles(models.RoleAdmin, models.RoleInstructor, models.RoleTeamMember)
	adminOnly := middleware.RequireRoles(models.RoleAdmin)

	authed.POST("/calendar/feeds", teamRoles, deps.calendar.IssueFeed)
	authed.GET("/calendar/month/export", adminOnly, deps.calendar.Export)

	availability := authed.Group("/availability", adminOnly)
	availability.POST("/exceptions", middleware.Audit(logr, "create", "availability_exception"), deps.availability.CreateException)
	availability.DELETE("/exceptions/:id", middleware.Audit(logr, "delete", "availability_exception"), deps.availability.DeleteException)
	availability.POST("/blocked-dates", middleware.Audit(logr, "create", "blocked_date"), deps.availability.CreateBlockedDate)
	availability.DELETE("/blocked-dates/:id", middleware.Audit(logr, "delete", "blocked_date"), deps.availability.DeleteBlockedDate)

	return r
}
