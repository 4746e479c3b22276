// Package server exposes the ledger core over HTTP for the auth, income-entry
// and dashboard surfaces. Handlers only translate between HTTP and the core;
// every invariant lives in the session controller and the ledger engine.
package server

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/arrotondami/wealth-engine/internal/ledger"
	"github.com/arrotondami/wealth-engine/internal/session"
)

type Server struct {
	engine   *ledger.Engine
	sessions *session.Controller
	log      *zap.Logger
}

func New(engine *ledger.Engine, sessions *session.Controller, log *zap.Logger) *Server {
	return &Server{engine: engine, sessions: sessions, log: log}
}

// Router builds the gin engine with all routes registered.
func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(corsMiddleware)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	api := router.Group("/api")
	{
		api.POST("/session/login", s.handleLogin)
		api.POST("/session/logout", s.handleLogout)
		api.GET("/session", s.handleSession)

		api.GET("/records", s.handleListRecords)
		api.POST("/records", s.handleAddRecord)
		api.DELETE("/records/:id", s.handleDeleteRecord)

		api.GET("/goal", s.handleGetGoal)
		api.PUT("/goal", s.handleSetGoal)

		api.GET("/aggregates", s.handleAggregates)
	}

	return router
}

func corsMiddleware(c *gin.Context) {
	c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
	c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
	c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
	if c.Request.Method == "OPTIONS" {
		c.AbortWithStatus(204)
		return
	}
	c.Next()
}
