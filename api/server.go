package api

import (
	"context"
	"crypto/subtle"
	"net/http"
	"strings"
	"time"

	"gitpulse/config"
	"gitpulse/database"
	"gitpulse/service"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// Server exposes the sync trigger endpoint to the external scheduler
type Server struct {
	router      *gin.Engine
	httpServer  *http.Server
	db          *database.DB
	syncService service.SyncService
	secret      string
}

// NewServer creates the HTTP server and registers routes
func NewServer(cfg *config.Config, syncService service.SyncService, db *database.DB) *Server {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{
		router:      gin.New(),
		db:          db,
		syncService: syncService,
		secret:      cfg.CronSecret,
	}
	s.router.Use(gin.Recovery())

	s.registerRoutes()

	s.httpServer = &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: s.router,
	}

	return s
}

func (s *Server) registerRoutes() {
	s.router.GET("/health", s.healthCheck)

	authed := s.router.Group("/api", s.requireCronSecret)
	authed.POST("/sync", s.runSync)
	authed.GET("/status", s.latestRun)
}

// Start runs the HTTP server until it is shut down
func (s *Server) Start() error {
	log.WithField("addr", s.httpServer.Addr).Info("HTTP server listening")
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown stops the HTTP server gracefully
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP makes the server usable directly in httptest
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// requireCronSecret rejects requests that do not carry the pre-shared
// scheduler secret. Runs before any work is attempted.
func (s *Server) requireCronSecret(c *gin.Context) {
	header := c.GetHeader("Authorization")
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || subtle.ConstantTimeCompare([]byte(token), []byte(s.secret)) != 1 {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error": "unauthorized",
		})
		return
	}
	c.Next()
}

// healthCheck handles GET /health
func (s *Server) healthCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if s.db != nil {
		if err := s.db.Ping(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "degraded",
				"error":  err.Error(),
			})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}

// runSync handles POST /api/sync: one full batch invocation, triggered
// by the external scheduler. The report is the response body.
func (s *Server) runSync(c *gin.Context) {
	report, err := s.syncService.Run(c.Request.Context())
	if err != nil {
		log.WithError(err).Error("Sync run failed")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, report)
}

// latestRun handles GET /api/status
func (s *Server) latestRun(c *gin.Context) {
	run, err := s.syncService.LatestRun(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": err.Error(),
		})
		return
	}
	if run == nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "no sync runs recorded yet",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"runId":           run.ID,
		"startedAt":       run.StartedAt,
		"finishedAt":      run.FinishedAt,
		"totalUsers":      run.TotalUsers,
		"processedUsers":  run.ProcessedUsers,
		"successCount":    run.SuccessCount,
		"failureCount":    run.FailureCount,
		"totalDaysSynced": run.TotalDaysSynced,
	})
}
