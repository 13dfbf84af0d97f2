package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mongodb/grip"
	"github.com/mongodb/grip/message"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/pageza/feedback/backend/config"
	"github.com/pageza/feedback/backend/internal/api"
	"github.com/pageza/feedback/backend/internal/database"
	"github.com/pageza/feedback/backend/internal/middleware"
	"github.com/pageza/feedback/backend/internal/repository"
	"github.com/pageza/feedback/backend/internal/service"
	"github.com/pageza/feedback/backend/internal/session"
)

// Server represents the HTTP server
type Server struct {
	router *gin.Engine
	http   *http.Server
	db     *gorm.DB
	cfg    *config.Config
}

// New wires the site. With a nil redisClient pending challenges live in
// process memory and submissions are not rate limited.
func New(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) *Server {
	if cfg.Environment.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(middleware.RequestID(), middleware.RequestLogger(), middleware.Recovery())

	var (
		challenges session.ChallengeStore
		submit     []gin.HandlerFunc
	)
	if redisClient != nil {
		challenges = session.NewRedisStore(redisClient, cfg.ChallengeTTL)
		if cfg.SubmitRateLimit > 0 {
			limiter := middleware.NewSubmitRateLimiter(redisClient, cfg.SubmitRateLimit, cfg.SubmitRateWindow)
			submit = append(submit, limiter.SubmitMiddleware("/"))
		}
	} else {
		challenges = session.NewMemoryStore(cfg.ChallengeTTL)
	}

	feedbackService := service.NewFeedbackService(repository.NewFeedbackRepository(db), cfg.FeedbackPerPage)
	sessions := session.NewManager([]byte(cfg.SessionSecret), cfg.Environment.IsProduction())

	s := &Server{
		router: router,
		db:     db,
		cfg:    cfg,
	}
	router.GET("/health", s.health)
	api.NewFeedbackHandler(feedbackService, challenges, sessions).RegisterRoutes(router, submit...)

	grip.Info(message.Fields{
		"message":      "routes registered",
		"environment":  string(cfg.Environment),
		"redis":        redisClient != nil,
		"rate_limited": len(submit) > 0,
	})
	return s
}

func (s *Server) health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := database.HealthCheck(ctx, s.db); err != nil {
		grip.Warning(message.WrapError(err, message.Fields{
			"message": "health check failed",
		}))
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves until Shutdown is called
func (s *Server) Start() error {
	s.http = &http.Server{
		Addr:              s.cfg.Addr(),
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	grip.Info(message.Fields{
		"message": "starting server",
		"addr":    s.http.Addr,
	})
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully stops the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.http != nil {
		return s.http.Shutdown(ctx)
	}
	return nil
}
