// Package diag serves bring-up diagnostics over HTTP: board identity read
// through the mailbox, plus Prometheus metrics.
package diag

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/danmuck/mboxctl/internal/firmware"
	"github.com/danmuck/mboxctl/internal/mailbox/property"
	"github.com/danmuck/mboxctl/internal/observability"
)

type Server struct {
	app     string
	fw      *firmware.Client
	router  *gin.Engine
	started time.Time
}

func NewServer(app string, fw *firmware.Client, corsOrigins []string) *Server {
	observability.RegisterMetrics()
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(observability.RequestLogger(log.Logger))
	r.Use(observability.RequestMetricsMiddleware(app))
	if len(corsOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins: corsOrigins,
			AllowMethods: []string{"GET"},
			AllowHeaders: []string{"Origin", "Content-Type"},
			MaxAge:       12 * time.Hour,
		}))
	}
	_ = r.SetTrustedProxies([]string{"127.0.0.1", "::1"})

	s := &Server{app: app, fw: fw, router: r, started: time.Now()}
	s.registerRoutes()
	return s
}

func (s *Server) HTTPRouter() *gin.Engine {
	return s.router
}

func (s *Server) Run(addr string) error {
	return s.router.Run(addr)
}

func (s *Server) registerRoutes() {
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
			"app":    s.app,
			"uptime": time.Since(s.started).String(),
		})
	})

	s.router.GET("/board", func(c *gin.Context) {
		info, err := s.fw.BoardInfo()
		if err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, info)
	})

	s.router.GET("/mac", func(c *gin.Context) {
		mac, err := s.fw.MACAddress()
		if err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"mac": property.MACString(mac)})
	})

	s.router.GET("/temperature", func(c *gin.Context) {
		milli, err := s.fw.Temperature()
		if err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"millidegrees_c": milli})
	})

	s.router.GET("/clock/:id", func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 0, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid clock id"})
			return
		}
		rate, err := s.fw.ClockRate(uint32(id))
		if err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"clock": id, "rate_hz": rate})
	})

	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))
}
