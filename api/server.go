package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/epiwatch/epiwatch-api/pipeline"
	"github.com/epiwatch/epiwatch-api/store"
)

// Server serves the early-warning HTTP API: ingestion, on-demand
// pipeline stages, and read endpoints over the stored scores, alerts
// and forecasts.
type Server struct {
	server     *http.Server
	mongoStore store.EpidemicStore
	pipeline   *pipeline.Pipeline
	traceMode  bool
}

func NewServer(mongoStore store.EpidemicStore, p *pipeline.Pipeline, traceMode bool) *Server {
	return &Server{
		mongoStore: mongoStore,
		pipeline:   p,
		traceMode:  traceMode,
	}
}

// Run starts listening. It blocks until the listener fails or Shutdown
// is called.
func (s *Server) Run(addr string) error {
	if !s.traceMode {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Logger())
	r.Use(gin.Recovery())
	r.Use(s.DumpRequest)

	s.setupRouter(r)

	s.server = &http.Server{
		Addr:    addr,
		Handler: r,
	}
	return s.server.ListenAndServe()
}

func (s *Server) setupRouter(r *gin.Engine) {
	r.GET("/healthz", s.healthz)

	ingest := r.Group("/ingest")
	{
		ingest.POST("/regions", s.ingestRegions)
		ingest.POST("/cases", s.ingestCases)
	}

	run := r.Group("/pipeline")
	{
		run.POST("/run", s.runPipeline)
		run.POST("/risk", s.computeRiskScores)
		run.POST("/alerts", s.generateAlerts)
		run.POST("/forecasts", s.generateForecasts)
	}

	r.GET("/risk", s.listRiskScores)
	r.GET("/risk/summary", s.riskSummary)
	r.GET("/hotspots", s.hotspots)
	r.GET("/alerts", s.listAlerts)
	r.GET("/regions/:regionID/alerts", s.listRegionAlerts)
	r.GET("/forecasts", s.listForecasts)
	r.GET("/evaluation", s.evaluation)
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

func (s *Server) healthz(c *gin.Context) {
	if err := s.mongoStore.Ping(); err != nil {
		abortWithEncoding(c, http.StatusServiceUnavailable, errorInternalServer, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}
