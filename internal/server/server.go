// Package server exposes the estimation pipeline over HTTP.
//
// Routes:
//
//	GET  /healthz    liveness probe
//	GET  /materials  base catalog
//	POST /estimate   wall source in, itemized estimate out
//	POST /mesh       wall source in, triangle meshes out
//	POST /chart      wall source in, HTML cost chart out
//	POST /import     xlsx layout upload (form field "file") in, estimate out
package server

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/chazu/mortar/internal/service"
	"github.com/chazu/mortar/pkg/estimate"
	"github.com/chazu/mortar/pkg/report"
	"github.com/chazu/mortar/pkg/sheet"
	"github.com/chazu/mortar/pkg/tessellate"
)

const (
	// MaxBodyBytes bounds request bodies, uploads included.
	MaxBodyBytes = 4 << 20

	shutdownTimeout = 5 * time.Second
	requestIDHeader = "X-Request-ID"
)

// Server serves the HTTP API.
type Server struct {
	svc    *service.Service
	logger *log.Logger
	engine *gin.Engine
}

// New builds the router. A nil logger means log.Default().
func New(svc *service.Service, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	gin.SetMode(gin.ReleaseMode)

	s := &Server{svc: svc, logger: logger, engine: gin.New()}
	s.engine.Use(gin.Recovery(), s.requestID(), s.logRequests(), limitBody(MaxBodyBytes))

	s.engine.GET("/healthz", s.handleHealth)
	s.engine.GET("/materials", s.handleMaterials)
	s.engine.POST("/estimate", s.handleEstimate)
	s.engine.POST("/mesh", s.handleMesh)
	s.engine.POST("/chart", s.handleChart)
	s.engine.POST("/import", s.handleImport)
	return s
}

// Handler returns the router for use with httptest or a custom server.
func (s *Server) Handler() http.Handler { return s.engine }

// Run listens on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server: shutdown: %w", err)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Middleware
// ---------------------------------------------------------------------------

func (s *Server) requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("requestID", id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

func (s *Server) logRequests() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Info("request",
			"id", c.GetString("requestID"),
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start).Round(time.Millisecond),
		)
	}
}

func limitBody(n int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, n)
		c.Next()
	}
}

// ---------------------------------------------------------------------------
// Handlers
// ---------------------------------------------------------------------------

type estimateRequest struct {
	Source  string `json:"source" binding:"required"`
	Scale   int    `json:"scale" binding:"min=0"`
	Workers int    `json:"workers" binding:"min=0"`
}

type meshRequest struct {
	Source   string  `json:"source" binding:"required"`
	Scale    float64 `json:"scale" binding:"min=0"`
	Openings bool    `json:"openings"`
}

type chartRequest struct {
	Source     string `json:"source" binding:"required"`
	Title      string `json:"title"`
	ByMaterial bool   `json:"byMaterial"`
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleMaterials(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"materials": s.svc.Materials()})
}

func (s *Server) handleEstimate(c *gin.Context) {
	var req estimateRequest
	if !bind(c, &req) {
		return
	}
	res := s.svc.Estimate(c.Request.Context(), req.Source, estimate.Options{Scale: req.Scale, Workers: req.Workers})
	s.respond(c, res)
}

func (s *Server) handleMesh(c *gin.Context) {
	var req meshRequest
	if !bind(c, &req) {
		return
	}
	res := s.svc.Mesh(c.Request.Context(), req.Source, tessellate.Options{Scale: req.Scale, Openings: req.Openings})
	s.respond(c, res)
}

func (s *Server) handleChart(c *gin.Context) {
	var req chartRequest
	if !bind(c, &req) {
		return
	}
	res := s.svc.Estimate(c.Request.Context(), req.Source, estimate.Options{})
	if !res.OK() {
		s.respond(c, res)
		return
	}
	var buf bytes.Buffer
	if err := report.Render(&buf, res.Estimate, report.Options{Title: req.Title, ByMaterial: req.ByMaterial}); err != nil {
		s.logger.Error("chart render failed", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}

func (s *Server) handleImport(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing form file \"file\": " + err.Error()})
		return
	}
	f, err := fh.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	defer f.Close()

	p, err := sheet.Read(f, s.svc.Catalog())
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	s.respond(c, s.svc.EstimateProject(c.Request.Context(), p, estimate.Options{}))
}

// bind decodes a JSON body and answers 400 on failure.
func bind(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return false
	}
	return true
}

// respond writes a pipeline result: 200 when it succeeded, 422 when the
// source or project was rejected.
func (s *Server) respond(c *gin.Context, res service.Result) {
	status := http.StatusOK
	if !res.OK() {
		status = http.StatusUnprocessableEntity
		s.logger.Debug("rejected", "id", c.GetString("requestID"), "errors", len(res.Errors))
	}
	c.JSON(status, res)
}
