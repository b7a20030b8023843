package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"sms-forward-relay-go/internal/backend"
	"sms-forward-relay-go/internal/metrics"
	"sms-forward-relay-go/internal/models"
	"sms-forward-relay-go/internal/registration"
	"sms-forward-relay-go/internal/repository"
	"sms-forward-relay-go/internal/syncer"
)

// Dispatcher forwards an inbound message through the rule pipeline
type Dispatcher interface {
	Dispatch(ctx context.Context, msg models.Message)
}

// Handlers contains all HTTP handlers
type Handlers struct {
	db           *gorm.DB
	repo         *repository.Repository
	dispatcher   Dispatcher
	syncer       *syncer.Syncer
	registration *registration.Service
	backend      *backend.Client
	metrics      *metrics.Metrics
}

// NewHandlers creates new HTTP handlers
func NewHandlers(db *gorm.DB, repo *repository.Repository, d Dispatcher, s *syncer.Syncer, r *registration.Service, b *backend.Client, m *metrics.Metrics) *Handlers {
	return &Handlers{db: db, repo: repo, dispatcher: d, syncer: s, registration: r, backend: b, metrics: m}
}

// SetupRoutes sets up all HTTP routes
func (h *Handlers) SetupRoutes(router *gin.Engine) {
	// Health check
	router.GET("/healthz", h.HealthCheck)

	// Prometheus metrics
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API routes
	api := router.Group("/api/v1")
	{
		// Inbound messages from the automation bridge
		api.POST("/messages", h.ReceiveMessage)

		// Forwarding rules
		api.GET("/rules", h.GetRules)
		api.POST("/rules", h.CreateRule)
		api.GET("/rules/:id", h.GetRule)
		api.PUT("/rules/:id", h.UpdateRule)
		api.DELETE("/rules/:id", h.DeleteRule)
		api.POST("/rules/:id/test", h.TestRule)

		// Forward logs
		api.GET("/logs", h.GetLogs)
		api.GET("/logs/:id", h.GetLog)

		// Registration
		api.POST("/register", h.Register)
		api.GET("/registration", h.GetRegistration)

		// Profile sync control
		api.POST("/sync/start", h.StartSync)
		api.POST("/sync/stop", h.StopSync)
		api.POST("/sync/run-once", h.RunSyncOnce)
		api.GET("/sync/status", h.GetSyncStatus)
	}
}

// HealthCheck handles health check requests
func (h *Handlers) HealthCheck(c *gin.Context) {
	response := models.HealthResponse{
		Status:    "ok",
		Timestamp: time.Now(),
		Database:  "ok",
		Metrics:   make(map[string]string),
	}

	if err := h.db.Raw("SELECT 1").Error; err != nil {
		response.Status = "error"
		response.Database = "error"
		logrus.Errorf("Database health check failed: %v", err)
	}

	if h.syncer.IsRunning() {
		response.Metrics["sync"] = "running"
		response.Metrics["next_run"] = h.syncer.NextRun().Format(time.RFC3339)
		response.Metrics["last_run"] = h.syncer.LastRun().Format(time.RFC3339)
	} else {
		response.Metrics["sync"] = "stopped"
	}

	if _, ok := h.registration.RegistrationID(); ok {
		response.Metrics["registration"] = "registered"
	} else {
		response.Metrics["registration"] = "unregistered"
	}

	statusCode := http.StatusOK
	if response.Status == "error" {
		statusCode = http.StatusServiceUnavailable
	}

	c.JSON(statusCode, response)
}
