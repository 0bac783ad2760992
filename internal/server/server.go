// Package server exposes schema parsing and the question session over HTTP.
package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/tordrt/askdb/internal/ddl"
	"github.com/tordrt/askdb/internal/session"
)

// Server holds the dependencies of the HTTP handlers
type Server struct {
	parser   session.SchemaParser
	sessions *session.Store
	mode     ddl.Mode
	logger   zerolog.Logger
}

// New creates a server. mode is used when a request does not name one.
func New(parser session.SchemaParser, sessions *session.Store, mode ddl.Mode, logger zerolog.Logger) *Server {
	return &Server{
		parser:   parser,
		sessions: sessions,
		mode:     mode,
		logger:   logger,
	}
}

// Router builds the gin engine with all routes registered
func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), s.requestLogger())

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
		})
	})

	api := router.Group("/api/v1")
	{
		api.POST("/schema/parse", s.parseSchema)

		api.GET("/samples", s.listSamples)
		api.GET("/samples/:name", s.getSample)

		sessions := api.Group("/sessions")
		sessions.POST("", s.createSession)
		sessions.GET("/:id", s.getSession)
		sessions.DELETE("/:id", s.deleteSession)
		sessions.PUT("/:id/schema", s.loadSessionSchema)
		sessions.POST("/:id/ask", s.ask)
		sessions.DELETE("/:id/messages", s.clearMessages)
	}

	return router
}

// HTTPServer wraps the router in a configured http.Server
func (s *Server) HTTPServer(addr string) *http.Server {
	return &http.Server{
		Addr:         addr,
		Handler:      s.Router(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 90 * time.Second,
	}
}

// requestLogger logs one line per request
func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		event := s.logger.Info()
		if c.Writer.Status() >= http.StatusInternalServerError {
			event = s.logger.Error()
		}
		event.
			Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Int("status", c.Writer.Status()).
			Dur("latency", time.Since(start)).
			Msg("request")
	}
}
