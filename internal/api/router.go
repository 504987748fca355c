package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/yatube/yatube/internal/account"
	"github.com/yatube/yatube/internal/auth"
	"github.com/yatube/yatube/internal/blog"
	"github.com/yatube/yatube/internal/cache"
	"github.com/yatube/yatube/internal/db"
	"github.com/yatube/yatube/pkg/config"
	"github.com/yatube/yatube/pkg/logging"
	"github.com/yatube/yatube/pkg/telemetry"
)

// IndexCachePrefix prefixes page cache keys of the home listing
const IndexCachePrefix = "index_page"

// Router sets up API routes
type Router struct {
	blog     *blog.Service
	accounts *account.Service
	sessions *auth.Manager
	cache    cache.Store
	db       *db.DB
	cfg      *config.Config
	logger   *zap.Logger
}

// NewRouter creates a new API router
func NewRouter(cfg *config.Config, database *db.DB, store cache.Store, sessions *auth.Manager) *Router {
	repo := db.NewRepository(database.DB)
	return &Router{
		blog:     blog.NewService(repo, cfg.Blog.PostsPerPage),
		accounts: account.NewService(repo),
		sessions: sessions,
		cache:    store,
		db:       database,
		cfg:      cfg,
		logger:   logging.WithComponent("api-router"),
	}
}

// SetupRoutes sets up all API routes
func (r *Router) SetupRoutes(engine *gin.Engine) {
	engine.Use(requestLogger(), tracing(), r.session())

	// Health check endpoints
	engine.GET("/health", r.healthHandler)
	engine.GET("/.well-known/healthcheck.json", r.healthHandler)
	engine.GET("/metrics", gin.WrapH(telemetry.MetricsHandler()))

	if r.cfg.Server.MediaRoot != "" {
		engine.Static("/media", r.cfg.Server.MediaRoot)
	}

	// Listings
	engine.GET("/", cache.Page(r.cache, IndexCachePrefix, r.cfg.Blog.IndexCacheTTL), r.index)
	engine.GET("/group/:slug/", r.groupPosts)
	engine.GET("/profile/:username/", r.profile)
	engine.GET("/posts/:post_id/", r.postDetail)

	// Writes
	private := engine.Group("/", loginRequired())
	private.GET("/create/", r.createPostForm)
	private.POST("/create/", r.createPost)
	private.GET("/posts/:post_id/edit/", r.editPostForm)
	private.POST("/posts/:post_id/edit/", r.editPost)
	private.POST("/posts/:post_id/comment/", r.addComment)
	private.GET("/follow/", r.followIndex)
	private.GET("/profile/:username/follow/", r.profileFollow)
	private.POST("/profile/:username/follow/", r.profileFollow)
	private.GET("/profile/:username/unfollow/", r.profileUnfollow)
	private.POST("/profile/:username/unfollow/", r.profileUnfollow)

	// Accounts
	engine.GET("/auth/signup/", r.signupForm)
	engine.POST("/auth/signup/", r.signup)
	engine.GET("/auth/login/", r.loginForm)
	engine.POST("/auth/login/", r.login)
	engine.GET("/auth/logout/", r.logout)
	engine.POST("/auth/logout/", r.logout)

	engine.NoRoute(func(c *gin.Context) {
		respondError(c, NewError(http.StatusNotFound, "page not found"))
	})
}

// healthChecker is implemented by stores backed by a remote server
type healthChecker interface {
	Health(ctx context.Context) error
}

// healthHandler handles health check requests
func (r *Router) healthHandler(c *gin.Context) {
	ctx := c.Request.Context()
	if err := r.db.Health(ctx); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":  "DOWN",
			"service": "yatube-api",
			"error":   "database: " + err.Error(),
		})
		return
	}
	if hc, ok := r.cache.(healthChecker); ok {
		if err := hc.Health(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":  "DOWN",
				"service": "yatube-api",
				"error":   "cache: " + err.Error(),
			})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{
		"status":  "OK",
		"service": "yatube-api",
	})
}
