// Package admin implements the local admin HTTP surface (spec §6
// expansion): health/status/seed endpoints over the in-memory simulation
// gateways, for exploring the control loop without a real cloud account.
// It is not part of the production invocation path.
package admin

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"

	"github.com/riverflow-io/riverflow/internal/coordinator"
	"github.com/riverflow-io/riverflow/internal/wfcore"
)

// APIResponse mirrors the teacher's success/data/error envelope.
type APIResponse struct {
	Success bool           `json:"success"`
	Data    map[string]any `json:"data,omitempty"`
	Error   string         `json:"error,omitempty"`
}

func sendResponse(c *gin.Context, statusCode int, success bool, data map[string]any, errorMsg string) {
	c.JSON(statusCode, APIResponse{Success: success, Data: data, Error: errorMsg})
}

func sendSuccess(c *gin.Context, data map[string]any) { sendResponse(c, http.StatusOK, true, data, "") }
func sendError(c *gin.Context, statusCode int, errorMsg string) {
	sendResponse(c, statusCode, false, nil, errorMsg)
}

// Server holds the coordinator under simulation and the status from its
// most recent pass.
type Server struct {
	coord *coordinator.Coordinator

	mu         sync.Mutex
	lastStatus wfcore.ApplicationStatus
	lastErr    error
	generation int
}

// New wraps a Coordinator for admin-surface use.
func New(coord *coordinator.Coordinator) *Server {
	return &Server{coord: coord}
}

// NewRouter builds the Gin router, grounded on the teacher's
// cmd/api/server/server.go router/middleware shape.
func (s *Server) NewRouter() *gin.Engine {
	r := gin.Default()
	r.Use(gin.Logger())
	r.Use(gin.Recovery())

	r.GET("/health", s.handleHealth)
	r.GET("/status", s.handleStatus)
	r.POST("/seed", s.handleSeed)

	return r
}

func (s *Server) handleHealth(c *gin.Context) {
	sendSuccess(c, map[string]any{"status": "healthy"})
}

func (s *Server) handleStatus(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.generation == 0 {
		sendError(c, http.StatusNotFound, "no coordinator pass has run yet; POST /seed first")
		return
	}
	errMsg := ""
	if s.lastErr != nil {
		errMsg = s.lastErr.Error()
	}
	sendSuccess(c, map[string]any{
		"generation": s.generation,
		"components": s.lastStatus.Components,
		"error":      errMsg,
	})
}

func (s *Server) handleSeed(c *gin.Context) {
	var status wfcore.ApplicationStatus
	var runErr error
	s.coord.Run(c.Request.Context(), wfcore.CoordinatorEvent{}, func(err error, st wfcore.ApplicationStatus) {
		runErr, status = err, st
	})

	s.mu.Lock()
	s.lastStatus, s.lastErr, s.generation = status, runErr, s.generation+1
	s.mu.Unlock()

	if runErr != nil {
		sendError(c, http.StatusInternalServerError, runErr.Error())
		return
	}
	sendSuccess(c, map[string]any{"generation": s.generation, "components": status.Components})
}
