package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// StartSync starts the periodic profile sync
func (h *Handlers) StartSync(c *gin.Context) {
	if err := h.syncer.Start(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusOK)
}

// StopSync stops the periodic profile sync
func (h *Handlers) StopSync(c *gin.Context) {
	if err := h.syncer.Stop(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusOK)
}

// RunSyncOnce triggers a profile sync immediately
func (h *Handlers) RunSyncOnce(c *gin.Context) {
	h.syncer.RunOnce()
	c.Status(http.StatusOK)
}

// GetSyncStatus returns the sync scheduler status
func (h *Handlers) GetSyncStatus(c *gin.Context) {
	status := "stopped"
	if h.syncer.IsRunning() {
		status = "running"
	}

	resp := gin.H{
		"status":   status,
		"next_run": h.syncer.NextRun(),
		"last_run": h.syncer.LastRun(),
	}

	if reg, err := h.repo.GetRegistration(); err == nil && reg != nil && reg.LastProfileSync != nil {
		resp["last_profile_sync"] = reg.LastProfileSync
	}

	c.JSON(http.StatusOK, resp)
}
