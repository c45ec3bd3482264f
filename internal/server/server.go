package server

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/stackit-dev/stackit/backend/internal/auth"
	"github.com/stackit-dev/stackit/backend/internal/config"
	"github.com/stackit-dev/stackit/backend/internal/handlers"
	"github.com/stackit-dev/stackit/backend/internal/logging"
	"github.com/stackit-dev/stackit/backend/internal/middleware"
)

// HealthChecker reports the state of a backing dependency.
type HealthChecker interface {
	Health() map[string]string
}

type Server struct {
	cfg     config.ServerConfig
	log     *logrus.Logger
	handler *handlers.Handler
	tokens  *auth.TokenManager
	health  HealthChecker
}

func New(cfg config.ServerConfig, log *logrus.Logger, handler *handlers.Handler, tokens *auth.TokenManager, health HealthChecker) *Server {
	return &Server{cfg: cfg, log: log, handler: handler, tokens: tokens, health: health}
}

// HTTPServer wraps the router in an http.Server with production timeouts.
func (s *Server) HTTPServer() *http.Server {
	return &http.Server{
		Addr:         "0.0.0.0:" + s.cfg.Port,
		Handler:      s.RegisterRoutes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
}

// RegisterRoutes sets up all application routes
func (s *Server) RegisterRoutes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), logging.RequestLogger(s.log))

	// Cookies carry the session, so the origin must be explicit.
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{s.cfg.CORSOrigin},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Accept", "Authorization", "Content-Type", "X-Requested-With", logging.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", logging.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", s.healthHandler)

	requireAuth := middleware.AuthMiddleware(s.tokens)
	api := r.Group(s.cfg.APIPrefix)

	authRoutes := api.Group("/auth")
	{
		authRoutes.POST("/signup", s.handler.Auth.Signup)
		authRoutes.POST("/login", s.handler.Auth.Login)
		authRoutes.GET("/logout", s.handler.Auth.Logout)
		authRoutes.GET("/me", requireAuth, s.handler.Auth.Me)
	}

	question := api.Group("/question")
	{
		question.GET("/get", s.handler.Question.Get)
		question.GET("/filter/:filter", s.handler.Question.Filter)
		question.POST("/search", s.handler.Question.Search)

		question.POST("/create", requireAuth, s.handler.Question.Create)
		question.POST("/upvote/:questionid", requireAuth, s.handler.Question.Upvote)
		question.POST("/downvote/:questionid", requireAuth, s.handler.Question.Downvote)
	}

	answer := api.Group("/answer")
	{
		answer.GET("/get/:questionid", s.handler.Answer.Get)

		protected := answer.Group("")
		protected.Use(requireAuth)
		{
			protected.POST("/submit/:questionid", s.handler.Answer.Submit)
			protected.POST("/upvote", s.handler.Answer.Upvote)
			protected.POST("/downvote", s.handler.Answer.Downvote)
			protected.POST("/comment", s.handler.Answer.Comment)
			protected.POST("/comments", s.handler.Answer.Comments)
			protected.GET("/notifications", s.handler.Answer.Notifications)
			protected.POST("/notification", s.handler.Answer.Notification)
			protected.POST("/delete", s.handler.Answer.Delete)
		}
	}

	aiRoutes := api.Group("/ai", requireAuth)
	{
		aiRoutes.POST("/markdown", s.handler.AI.Markdown)
		aiRoutes.POST("/tags", s.handler.AI.Tags)
	}

	return r
}

func (s *Server) healthHandler(c *gin.Context) {
	if s.health == nil {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
		return
	}

	stats := s.health.Health()
	status := http.StatusOK
	if stats["status"] != "up" {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, stats)
}
