package http

import (
	"context"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/mkurali/userhub/internal/auth"
	"github.com/mkurali/userhub/internal/config"
	"github.com/mkurali/userhub/internal/http/handlers"
	"github.com/mkurali/userhub/internal/http/middlewares"
	"github.com/mkurali/userhub/internal/observability"
	"github.com/mkurali/userhub/internal/repo/postgres"
	"github.com/mkurali/userhub/internal/security"
)

const maxRequestBody = 10 << 20 // 10 MiB

func NewRouter(log *slog.Logger, pool *pgxpool.Pool, rdb *redis.Client, cfg config.Config) *gin.Engine {
	if cfg.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}

	handlers.SetVerbose(cfg.Env == "dev")

	r := gin.New()

	// middleware, outermost first

	r.Use(gin.Recovery())
	r.Use(middlewares.RequestID())
	r.Use(middlewares.RequestLogger(log))
	r.Use(middlewares.SecurityHeaders())

	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(middlewares.CORSMiddleware(cfg.CORSAllowedOrigins))
	}

	r.Use(otelgin.Middleware("userhub"))

	reg := prometheus.NewRegistry()
	prom := observability.NewProm(reg)
	r.Use(prom.GinHandleMiddleware())

	// global request ceiling per client IP, before any routing-sensitive work
	if rdb != nil {
		limiter := middlewares.NewRateLimiter(rdb, cfg.RateLimit, cfg.RateWindow)
		r.Use(limiter.Middleware(middlewares.KeyByIP))
	}

	r.Use(middlewares.MaxBodyBytes(maxRequestBody))
	r.Use(middlewares.RequireJSON())

	// health
	ping := func() error {
		if pool == nil {
			return nil
		}

		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
		defer cancel()

		return pool.Ping(ctx)
	}

	health := handlers.NewHealthHandler(ping)
	r.GET("/health", health.Health)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	// wire up the store and the crypto primitives

	usersRepo := postgres.NewUsersRepo(pool, prom)
	jwtManager := auth.NewManager(cfg.JWTSecret, cfg.JWTTTL)
	hasher := security.BcryptHasher{}

	authHandler := handlers.NewAuthHandler(usersRepo, jwtManager, hasher)
	usersHandler := handlers.NewUsersHandler(usersRepo, hasher)
	authmw := middlewares.NewAuthMiddleware(jwtManager, usersRepo)

	authGroup := r.Group("/auth")
	{
		authGroup.POST("/login", authHandler.Login)
		authGroup.POST("/register", authHandler.Register)
		authGroup.GET("/profile", authmw.RequireAuth(), authHandler.Profile)
		authGroup.POST("/refresh", authmw.RequireAuth(), authHandler.Refresh)
	}

	users := r.Group("/users", authmw.RequireAuth())
	{
		users.GET("", authmw.RequireAdmin(), usersHandler.List)
		users.GET("/role/:role", authmw.RequireAdmin(), usersHandler.ListByRole)
		users.POST("", authmw.RequireAdmin(), usersHandler.Create)
		users.GET("/:id", authmw.RequireSelfOrAdmin("id"), usersHandler.GetByID)
		users.PUT("/:id", authmw.RequireSelfOrAdmin("id"), usersHandler.Update)
		users.DELETE("/:id", authmw.RequireAdmin(), usersHandler.Delete)
	}

	r.NoRoute(func(ctx *gin.Context) {
		handlers.RespondNotFound(ctx, "Route "+ctx.Request.URL.Path+" not found")
	})

	return r
}
