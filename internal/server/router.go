package server

import (
	"context"
	"log/slog"

	"rental-backend/internal/auth"
	"rental-backend/internal/config"
	"rental-backend/internal/database"
	"rental-backend/internal/handlers"
	"rental-backend/internal/middleware"
	"rental-backend/internal/models"
	"rental-backend/internal/ratelimit"
	"rental-backend/internal/repository"
	"rental-backend/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"
)

// Deps is everything the router needs. Limiter and Registry may be nil;
// an in-memory limiter and a private registry are used then.
type Deps struct {
	Config   *config.Config
	Log      *slog.Logger
	DB       *gorm.DB
	Limiter  ratelimit.Limiter
	Registry *prometheus.Registry
}

func NewRouter(d Deps) *gin.Engine {
	if d.Limiter == nil {
		d.Limiter = ratelimit.NewMemory()
	}
	if d.Registry == nil {
		d.Registry = prometheus.NewRegistry()
	}

	issuer := auth.NewIssuer(d.Config.JWTSecret, d.Config.AccessTokenTTL, d.Config.RefreshTokenTTL)
	userRepo := repository.NewUsers(d.DB)
	vehicleRepo := repository.NewVehicles(d.DB)
	audit := database.NewAudit(d.DB, d.Log)

	authH := handlers.NewAuthHandler(services.NewSessions(userRepo, issuer), audit, d.Config.AllowAdminSignup)
	userH := handlers.NewUserHandler(services.NewUsers(userRepo), audit)
	vehicleH := handlers.NewVehicleHandler(services.NewVehicles(vehicleRepo), audit)

	metrics := middleware.NewMetrics(d.Registry)
	requireAuth := middleware.RequireAuth(issuer, userRepo)
	adminOnly := middleware.RequireRole(models.RoleAdmin)
	throttle := middleware.RateLimit(d.Limiter, d.Config.AuthRateLimit, d.Config.AuthRateWindow, metrics)

	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(d.Log), metrics.Handler())

	// AUTH
	authGroup := r.Group("/auth")
	authGroup.POST("/register", throttle, authH.Register)
	authGroup.POST("/login", throttle, authH.Login)
	authGroup.POST("/refresh", authH.Refresh)
	authGroup.POST("/logout", requireAuth, authH.Logout)

	// USERS
	users := r.Group("/users")
	users.Use(requireAuth)
	users.GET("/me", userH.Me)
	users.PUT("/me", userH.UpdateMe)
	users.DELETE("/me", userH.DeleteMe)
	users.GET("", adminOnly, userH.List)
	users.GET("/:id", adminOnly, userH.Get)
	users.PUT("/:id", adminOnly, userH.Update)
	users.DELETE("/:id", adminOnly, userH.Delete)

	// VEHICLES
	vehicles := r.Group("/vehicles")
	vehicles.Use(requireAuth)
	vehicles.POST("/vehicle", vehicleH.Create)
	vehicles.GET("/vehicle/:id", vehicleH.Get)
	vehicles.PUT("/vehicle/:id", vehicleH.Update)
	vehicles.DELETE("/vehicle/:id", vehicleH.Delete)
	vehicles.GET("/vehicle/search/:vin", vehicleH.SearchByVIN)
	vehicles.GET("/vehicles", vehicleH.List)
	vehicles.GET("/price/:maxPrice", vehicleH.ByMaxPrice)
	vehicles.GET("/admin/vehicles", adminOnly, vehicleH.List)

	// AUDIT
	r.GET("/audit", requireAuth, adminOnly, handlers.ListAuditLogs(audit))

	// HEALTHCHECK
	r.GET("/health", handlers.Health(func(ctx context.Context) error {
		return database.Ping(ctx, d.DB)
	}))
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(d.Registry, promhttp.HandlerOpts{})))

	return r
}
