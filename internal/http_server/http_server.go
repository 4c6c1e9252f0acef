// Package http_server assembles the gin engine and owns the listener
// lifecycle.
package http_server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"openbook_server/internal/config"
	"openbook_server/internal/infrastructure/logger"
	"openbook_server/internal/router"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type Server struct {
	srv *http.Server
}

// New builds the engine with logging, recovery, CORS and the static
// file mount, then registers the route table.
func New(cfg *config.Config) *Server {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(logger.GinLogger(), logger.GinRecovery(true))

	corsCfg := cors.DefaultConfig()
	corsCfg.AllowAllOrigins = true
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "Authorization")
	engine.Use(cors.New(corsCfg))

	engine.Static("/static/files", cfg.StaticSrcConfig.StaticFilePath)
	router.Register(engine)

	return &Server{
		srv: &http.Server{
			Addr:    fmt.Sprintf("%s:%d", cfg.MainConfig.Host, cfg.MainConfig.Port),
			Handler: engine,
		},
	}
}

// Run blocks serving requests until the listener fails or Shutdown is
// called.
func (s *Server) Run() error {
	if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests with a deadline.
func (s *Server) Shutdown(timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.srv.Shutdown(ctx)
}
