package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"userapi/internal/config"
	"userapi/internal/handler"
	"userapi/internal/middleware"
	"userapi/internal/repository"
	"userapi/internal/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
	"go.uber.org/zap"
)

type Server struct {
	router *gin.Engine
	log    *zap.Logger
}

func NewServer(db *sqlx.DB, cfg *config.Config, log *zap.Logger, accessLog *logrus.Logger) (*Server, error) {
	tokens, err := service.NewTokenService(cfg.Auth.JWTSecret)
	if err != nil {
		return nil, err
	}

	hasher := service.NewPasswordHasher(cfg.Auth.BcryptCost)
	userRepo := repository.NewUserRepository(db, log)

	authService := service.NewAuthService(userRepo, hasher, tokens, log)
	userService := service.NewUserService(userRepo, hasher, log)

	authHandler := handler.NewAuthHandler(authService, userService, log)
	userHandler := handler.NewUserHandler(userService, log)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(accessLog))
	router.Use(cors.Default())

	s := &Server{router: router, log: log}
	s.setupRoutes(authHandler, userHandler, middleware.AuthMiddleware(tokens, log))

	return s, nil
}

func (s *Server) setupRoutes(authHandler handler.AuthHandler, userHandler handler.UserHandler, authRequired gin.HandlerFunc) {
	// Ping route for health check
	s.router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})

	login := s.router.Group("/login")
	{
		login.POST("", authHandler.Login)
		login.GET("/authenticateToken", authRequired, authHandler.AuthenticateToken)
		login.GET("/last/:id", authRequired, authHandler.LastLogin)
		login.PUT("/password/:id", authRequired, authHandler.UpdatePassword)
		login.DELETE("/password/:id", authRequired, authHandler.DisableLogin)
	}

	users := s.router.Group("/users")
	{
		users.POST("", userHandler.Create)
		users.GET("", authRequired, userHandler.List)
		users.GET("/:id", authRequired, userHandler.GetByID)
		users.PUT("/:id", authRequired, userHandler.Update)
		users.DELETE("/:id", authRequired, userHandler.Delete)
	}
}

// Handler exposes the routed engine, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves until the context is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:    addr,
		Handler: s.router,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.log.Error("Server shutdown failed", zap.Error(err))
		}
	}()

	s.log.Info("Server starting", zap.String("addr", addr))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
