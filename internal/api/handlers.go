package api

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"vaultagent/internal/observability"
	"vaultagent/internal/worker"
)

const serviceName = "VaultAgent"

// QueryProcessor is the orchestrator surface the transport needs.
type QueryProcessor interface {
	ProcessQuery(ctx context.Context, query, sessionID, principal string) string
	ClearMemory(sessionID string) bool
}

// Handler wires HTTP routes to the orchestrator, funneling each session's
// requests through the worker manager so they execute one at a time.
type Handler struct {
	orch    QueryProcessor
	workers *worker.Manager
	log     zerolog.Logger
}

// NewHandler constructs a Handler instance.
func NewHandler(orch QueryProcessor, workers *worker.Manager, log zerolog.Logger) *Handler {
	return &Handler{
		orch:    orch,
		workers: workers,
		log:     log,
	}
}

// RegisterRoutes attaches all HTTP routes to the router.
func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.POST("/api/chat", h.chat)
	router.POST("/api/clear-memory", h.clearMemory)
	router.GET("/health", h.health)
	router.GET("/", h.info)
	router.GET("/metrics", gin.WrapH(observability.MetricsHandler()))
}

type chatRequest struct {
	Message       string `json:"message"`
	SessionID     string `json:"session_id"`
	UserPrincipal string `json:"user_principal"`
}

func (h *Handler) chat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "message is required"})
		return
	}
	sessionID := strings.TrimSpace(req.SessionID)
	if sessionID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "session_id is required"})
		return
	}

	h.log.Info().Str("session_id", sessionID).Msg("chat message received")

	ctx := c.Request.Context()
	response := h.workers.Do(sessionID, func() string {
		return h.orch.ProcessQuery(ctx, req.Message, sessionID, strings.TrimSpace(req.UserPrincipal))
	})

	c.JSON(http.StatusOK, gin.H{
		"response":  response,
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

type clearMemoryRequest struct {
	SessionID string `json:"session_id"`
}

func (h *Handler) clearMemory(c *gin.Context) {
	var req clearMemoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	sessionID := strings.TrimSpace(req.SessionID)
	if sessionID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "session_id is required"})
		return
	}

	var existed bool
	h.workers.Do(sessionID, func() string {
		existed = h.orch.ClearMemory(sessionID)
		return ""
	})

	message := "No conversation memory found for this session"
	if existed {
		message = "Conversation memory cleared"
	}
	h.log.Info().Str("session_id", sessionID).Bool("existed", existed).Msg("memory clear requested")

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": message,
	})
}

func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"service":   serviceName,
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

func (h *Handler) info(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"name":        serviceName,
		"endpoints":   []string{"/api/chat", "/api/clear-memory", "/health", "/metrics", "/"},
		"description": "AI agent for ICP vault operations and investment management. Supports user portfolio tracking, admin functions, and comprehensive investment reporting.",
	})
}
