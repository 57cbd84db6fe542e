package main

import (
	"net/http"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"giraffe-kg/internal/ingest"
	"giraffe-kg/internal/kg"
	"giraffe-kg/internal/mirror"
	kgerrors "giraffe-kg/pkg/errors"
)

// server owns the single graph instance. The graph itself has no internal
// locking, so the RWMutex here is the mutual-exclusion boundary for all
// HTTP access.
type server struct {
	mu        sync.RWMutex
	graph     *kg.Graph
	processor *ingest.Processor
	mirror    *mirror.Mirror // nil when the mirror is disabled
	dataDir   string
	log       *zap.Logger
}

func (s *server) router(production bool) *gin.Engine {
	if production {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(ginLogger(s.log))
	router.Use(gin.Recovery())

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api")
	{
		api.POST("/entities", s.handleAddEntity)
		api.GET("/entities", s.handleFindEntitiesByType)
		api.GET("/entities/:id", s.handleGetEntity)
		api.GET("/entities/:id/neighbors", s.handleNeighbors)
		api.POST("/relationships", s.handleAddRelationship)
		api.GET("/paths", s.handleShortestPath)
		api.GET("/stats", s.handleStats)

		api.POST("/records/mutations", s.handleAddMutation)
		api.POST("/records/samples", s.handleAddSample)
		api.POST("/records/extractions", s.handleApplyExtraction)

		api.POST("/export", s.handleExport)
		api.POST("/import", s.handleImport)
		api.POST("/snapshot", s.handleSnapshot)
		api.POST("/restore", s.handleRestore)
		api.POST("/mirror/sync", s.handleMirrorSync)
	}

	return router
}

func (s *server) handleAddEntity(c *gin.Context) {
	var req struct {
		ID         string        `json:"id" binding:"required"`
		Type       string        `json:"type" binding:"required"`
		Properties kg.Properties `json:"properties"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	s.mu.Lock()
	warnings, err := s.graph.AddEntity(req.ID, kg.EntityType(req.Type), req.Properties)
	s.mu.Unlock()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": req.ID, "warnings": warnings})
}

func (s *server) handleGetEntity(c *gin.Context) {
	s.mu.RLock()
	entity, ok := s.graph.Entity(c.Param("id"))
	s.mu.RUnlock()
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "entity not found"})
		return
	}
	c.JSON(http.StatusOK, entity)
}

func (s *server) handleFindEntitiesByType(c *gin.Context) {
	entityType := c.Query("type")
	if entityType == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "type query parameter is required"})
		return
	}

	s.mu.RLock()
	ids := s.graph.FindEntitiesByType(kg.EntityType(entityType))
	s.mu.RUnlock()

	c.JSON(http.StatusOK, gin.H{"type": entityType, "ids": emptyIfNil(ids)})
}

func (s *server) handleNeighbors(c *gin.Context) {
	s.mu.RLock()
	hasEntity := s.graph.HasEntity(c.Param("id"))
	neighbors := s.graph.Neighbors(c.Param("id"), kg.RelationshipType(c.Query("type")))
	s.mu.RUnlock()

	if !hasEntity {
		c.JSON(http.StatusNotFound, gin.H{"error": "entity not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": c.Param("id"), "neighbors": emptyIfNil(neighbors)})
}

func (s *server) handleAddRelationship(c *gin.Context) {
	var req struct {
		Source     string        `json:"source" binding:"required"`
		Target     string        `json:"target" binding:"required"`
		Type       string        `json:"type" binding:"required"`
		Properties kg.Properties `json:"properties"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	s.mu.Lock()
	warnings, err := s.graph.AddRelationship(req.Source, req.Target, kg.RelationshipType(req.Type), req.Properties)
	s.mu.Unlock()
	if err != nil {
		if kgerrors.IsMissingEndpoint(err) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		s.log.Error("Failed to add relationship", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to add relationship"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"warnings": warnings})
}

func (s *server) handleShortestPath(c *gin.Context) {
	source := c.Query("source")
	target := c.Query("target")
	if source == "" || target == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "source and target query parameters are required"})
		return
	}

	s.mu.RLock()
	path := s.graph.ShortestPath(source, target)
	s.mu.RUnlock()

	// No path is a result, not an error
	c.JSON(http.StatusOK, gin.H{"source": source, "target": target, "path": emptyIfNil(path)})
}

func (s *server) handleStats(c *gin.Context) {
	s.mu.RLock()
	stats := s.graph.Stats()
	s.mu.RUnlock()
	c.JSON(http.StatusOK, stats)
}

func (s *server) handleAddMutation(c *gin.Context) {
	var rec ingest.MutationRecord
	if err := c.ShouldBindJSON(&rec); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	s.mu.Lock()
	variantID, report, err := s.processor.AddMutation(rec)
	s.mu.Unlock()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"variant_id": variantID, "report": report})
}

func (s *server) handleAddSample(c *gin.Context) {
	var rec ingest.SampleRecord
	if err := c.ShouldBindJSON(&rec); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	s.mu.Lock()
	report, err := s.processor.AddSample(rec)
	s.mu.Unlock()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"report": report})
}

func (s *server) handleApplyExtraction(c *gin.Context) {
	var ex ingest.Extraction
	if err := c.ShouldBindJSON(&ex); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	s.mu.Lock()
	report, err := s.processor.ApplyExtraction(ex)
	s.mu.Unlock()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"report": report})
}

func (s *server) handleExport(c *gin.Context) {
	path, ok := s.resolveFile(c, "graph.json")
	if !ok {
		return
	}

	s.mu.RLock()
	err := s.graph.ExportJSON(path)
	s.mu.RUnlock()
	if err != nil {
		s.log.Error("Export failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"path": path})
}

func (s *server) handleImport(c *gin.Context) {
	path, ok := s.resolveFile(c, "graph.json")
	if !ok {
		return
	}

	s.mu.Lock()
	err := s.graph.ImportJSON(path)
	s.mu.Unlock()
	if err != nil {
		s.log.Error("Import failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"path": path})
}

func (s *server) handleSnapshot(c *gin.Context) {
	path, ok := s.resolveFile(c, "graph.snapshot")
	if !ok {
		return
	}

	s.mu.RLock()
	err := s.graph.SaveSnapshot(path)
	s.mu.RUnlock()
	if err != nil {
		s.log.Error("Snapshot failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"path": path})
}

func (s *server) handleRestore(c *gin.Context) {
	path, ok := s.resolveFile(c, "graph.snapshot")
	if !ok {
		return
	}

	s.mu.Lock()
	err := s.graph.LoadSnapshot(path)
	s.mu.Unlock()
	if err != nil {
		s.log.Error("Restore failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"path": path})
}

func (s *server) handleMirrorSync(c *gin.Context) {
	if s.mirror == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Neo4j mirror is not enabled"})
		return
	}

	s.mu.RLock()
	err := s.mirror.Sync(c.Request.Context(), s.graph)
	s.mu.RUnlock()
	if err != nil {
		s.log.Error("Mirror sync failed", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "mirror sync failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "synced"})
}

// resolveFile maps an optional request filename into the data directory,
// rejecting anything that would escape it
func (s *server) resolveFile(c *gin.Context, defaultName string) (string, bool) {
	var req struct {
		Filename string `json:"filename"`
	}
	// Empty body is fine, the default name applies
	_ = c.ShouldBindJSON(&req)

	name := req.Filename
	if name == "" {
		name = defaultName
	}
	if strings.Contains(name, "..") || filepath.IsAbs(name) || filepath.Base(name) != name {
		c.JSON(http.StatusBadRequest, gin.H{"error": "filename must be a plain name inside the data directory"})
		return "", false
	}
	return filepath.Join(s.dataDir, name), true
}

func emptyIfNil(ids []string) []string {
	if ids == nil {
		return []string{}
	}
	return ids
}

// ginLogger is a custom logger middleware for Gin
func ginLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()

		if raw != "" {
			path = path + "?" + raw
		}

		log.Info("HTTP Request",
			zap.Int("status", status),
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.Duration("latency", latency),
			zap.String("ip", c.ClientIP()),
		)
	}
}
