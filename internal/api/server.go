// internal/api/server.go

// Package api exposes the query answering pipeline over HTTP.
package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"krishisahay/internal/common/config"
	"krishisahay/internal/common/logger"
	"krishisahay/internal/pipeline"
)

// Server is the Gin-based HTTP server fronting the pipeline.
type Server struct {
	config   *config.Config
	engine   *gin.Engine
	server   *http.Server
	pipeline *pipeline.Pipeline
	logger   logger.Logger
}

func NewServer(cfg *config.Config, p *pipeline.Pipeline, log logger.Logger) *Server {
	if cfg.App.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{
		config:   cfg,
		engine:   gin.New(),
		pipeline: p,
		logger:   log.WithFields(map[string]interface{}{"component": "http"}),
	}

	s.registerMiddlewares()
	s.registerRoutes()

	return s
}

func (s *Server) registerMiddlewares() {
	s.engine.Use(gin.Recovery())
	s.engine.Use(s.requestIDMiddleware())
	s.engine.Use(s.loggingMiddleware())
	s.engine.Use(s.corsMiddleware())
}

func (s *Server) registerRoutes() {
	s.engine.GET("/", s.handleHealth)
	s.engine.POST("/ask", s.handleAsk)
	s.engine.POST("/feedback", s.handleFeedback)
	s.engine.POST("/app-feedback", s.handleAppFeedback)
	s.engine.GET("/app-feedback", s.handleListAppFeedback)
}

// Engine exposes the router, mainly for tests.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) Start() error {
	addr := fmt.Sprintf("0.0.0.0:%d", s.config.Server.Port)

	readTimeout := config.GetDuration(s.config.Server.ReadTimeout)
	if readTimeout <= 0 {
		readTimeout = 30 * time.Second
	}
	idleTimeout := config.GetDuration(s.config.Server.IdleTimeout)
	if idleTimeout <= 0 {
		idleTimeout = 60 * time.Second
	}

	s.server = &http.Server{
		Addr:        addr,
		Handler:     s.engine,
		ReadTimeout: readTimeout,
		IdleTimeout: idleTimeout,
	}

	s.logger.Info("starting http server", map[string]interface{}{"addr": addr})
	return s.server.ListenAndServe()
}

func (s *Server) Stop(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
