// Package dashboard exposes the metrics and workflow APIs over HTTP.
package dashboard

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"social_dashboard/internal/config"
	"social_dashboard/internal/content"
	"social_dashboard/internal/storage"
)

// Server wires the HTTP routes to storage, reporting, and the workflow
// manager. External calls (scraping, generation) run synchronously inside
// the request; there are no background workers.
type Server struct {
	store      storage.Storage
	mgr        *content.Manager
	cfg        *config.Config
	log        *slog.Logger
	httpClient *http.Client
}

// New creates a Server over the given storage and configuration.
func New(store storage.Storage, cfg *config.Config, log *slog.Logger) *Server {
	return &Server{
		store:      store,
		mgr:        content.NewManager(store),
		cfg:        cfg,
		log:        log,
		httpClient: http.DefaultClient,
	}
}

// Router builds the gin engine with all routes registered.
func (s *Server) Router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	{
		api.GET("/stats", s.getStats)
		api.GET("/followers", s.getFollowers)
		api.GET("/impressions", s.getImpressions)
		api.GET("/posts/top", s.getTopPosts)
		api.GET("/posts/linkedin", s.getLinkedInPosts)
		api.GET("/posts/twitter", s.getTwitterPosts)

		api.GET("/pipeline", s.listPipeline)
		api.POST("/pipeline", s.addPipelineItem)
		api.PATCH("/pipeline/:id/status", s.updatePipelineStatus)
		api.PATCH("/pipeline/:id/draft", s.updatePipelineDraft)
		api.POST("/pipeline/import", s.importInspiration)

		api.GET("/calendar", s.listCalendar)
		api.POST("/calendar", s.addCalendarItem)
		api.PATCH("/calendar/:id/draft", s.updateCalendarDraft)

		api.POST("/refresh", s.refresh)
		api.POST("/generate", s.generate)
	}

	return r
}

// Run starts the HTTP server on the configured address, blocking until it
// fails.
func (s *Server) Run() error {
	s.log.Info("dashboard listening", "addr", s.cfg.ListenAddr)
	return s.Router().Run(s.cfg.ListenAddr)
}
