package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	donationapi "github.com/hk2807/sevaledger/backend/internal/donation/api"
	expenseapi "github.com/hk2807/sevaledger/backend/internal/expense/api"
	ledgerapi "github.com/hk2807/sevaledger/backend/internal/ledger/api"
	reportapi "github.com/hk2807/sevaledger/backend/internal/report/api"
)

// Server wraps the HTTP service.
type Server struct {
	engine *gin.Engine
	logger *zap.Logger
	port   string
	server *http.Server
}

// NewServer builds the gin engine with the gateway middleware stack and
// registers every module's routes under /api/v1.
func NewServer(
	logger *zap.Logger,
	cfgPort string,
	cfgMode string,
	fundHandler *ledgerapi.FundHandler,
	donationHandler *donationapi.DonationHandler,
	expenseHandler *expenseapi.ExpenseHandler,
	reportHandler *reportapi.ReportHandler,
) *Server {
	if cfgMode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	r.Use(gin.Recovery())

	// Request logging through zap.
	r.Use(func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		cost := time.Since(start)
		logger.Info("HTTP Request",
			zap.Int("status", c.Writer.Status()),
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.String("query", query),
			zap.String("ip", c.ClientIP()),
			zap.Duration("cost", cost),
		)
	})

	corsCfg := cors.DefaultConfig()
	corsCfg.AllowAllOrigins = true
	corsCfg.AllowHeaders = []string{"Content-Type", "Authorization", "X-Request-ID"}
	r.Use(cors.New(corsCfg))

	// Placeholder identity until the real auth gateway lands in front of
	// this service. Everything downstream reads x-user-id.
	r.Use(func(c *gin.Context) {
		c.Set("x-user-id", "admin-001")
		c.Next()
	})

	v1 := r.Group("/api/v1")
	{
		fundHandler.RegisterRoutes(v1)
		donationHandler.RegisterRoutes(v1)
		expenseHandler.RegisterRoutes(v1)
		reportHandler.RegisterRoutes(v1)

		v1.GET("/health", func(c *gin.Context) {
			c.JSON(200, gin.H{"status": "UP"})
		})
	}

	return &Server{
		engine: r,
		logger: logger,
		port:   cfgPort,
	}
}

// Run starts serving and blocks until the listener stops.
func (s *Server) Run() error {
	s.server = &http.Server{
		Addr:    ":" + s.port,
		Handler: s.engine,
	}
	s.logger.Info("sevaledger API started", zap.String("port", s.port))
	return s.server.ListenAndServe()
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
