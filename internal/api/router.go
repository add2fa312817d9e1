package api

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/onestop/forum-service/internal/cache"
	"github.com/onestop/forum-service/internal/db"
	"github.com/onestop/forum-service/internal/forum"
	"github.com/onestop/forum-service/pkg/config"
	"github.com/onestop/forum-service/pkg/logging"
	"github.com/onestop/forum-service/pkg/telemetry"
)

// Router wires the forum services to the HTTP surface
type Router struct {
	threads     *forum.Threads
	ledger      *forum.Ledger
	notifier    *forum.Notifier
	db          *db.DB
	development bool
	corsOrigin  string
	logger      *zap.Logger
}

// NewRouter creates a new API router
func NewRouter(database *db.DB, redisCache *cache.Cache, cfg *config.Config) *Router {
	gate := forum.NewGate(cfg.Forum.Moderators)
	notifier := forum.NewNotifier(database, redisCache, &cfg.Forum)

	return &Router{
		threads:     forum.NewThreads(database, gate, notifier, &cfg.Forum),
		ledger:      forum.NewLedger(database),
		notifier:    notifier,
		db:          database,
		development: cfg.IsDevelopment(),
		corsOrigin:  cfg.Server.CORSOrigin,
		logger:      logging.WithComponent("api-router"),
	}
}

// SetupRoutes sets up all API routes
func (r *Router) SetupRoutes(engine *gin.Engine) {
	engine.Use(cors.New(cors.Config{
		AllowOrigins:     []string{r.corsOrigin},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", HeaderUserID, HeaderUserEmail, HeaderUserName},
		AllowCredentials: true,
	}))
	engine.Use(traceRequests())
	engine.Use(Identity())

	// Health check endpoints
	engine.GET("/health", r.healthHandler)
	engine.GET("/.well-known/healthcheck.json", r.healthHandler)

	g := engine.Group("/api/forum")
	{
		g.GET("/posts", r.listPosts)
		g.GET("/posts/:id", r.getPost)
		g.POST("/posts", RequireAuth(), r.createPost)
		g.PUT("/posts/:id", RequireAuth(), r.updatePost)
		g.DELETE("/posts/:id", RequireAuth(), r.deletePost)
		g.POST("/posts/:id/comments", RequireAuth(), r.createComment)
		g.POST("/posts/:id/vote", RequireAuth(), r.votePost)
		g.POST("/posts/:id/lock", RequireAuth(), r.lockPost)
		g.POST("/posts/:id/unlock", RequireAuth(), r.unlockPost)
		g.POST("/comments/:id/vote", RequireAuth(), r.voteComment)
		g.DELETE("/comments/:id", RequireAuth(), r.deleteComment)
		g.GET("/notifications", RequireAuth(), r.listNotifications)
		g.GET("/notifications/unread", RequireAuth(), r.unreadNotifications)
		g.POST("/notifications/:id/read", RequireAuth(), r.markNotificationRead)
	}
}

// traceRequests opens a span per request
func traceRequests() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, span := telemetry.StartSpan(c.Request.Context(), "http "+c.FullPath())
		defer span.End()

		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// healthHandler handles health check requests
func (r *Router) healthHandler(c *gin.Context) {
	status := "OK"
	code := http.StatusOK
	if err := r.db.Health(c.Request.Context()); err != nil {
		r.logger.Error("Database health check failed", zap.Error(err))
		status = "DEGRADED"
		code = http.StatusServiceUnavailable
	}

	c.JSON(code, gin.H{
		"status":  status,
		"service": "onestop-forum",
	})
}
