package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"sms-forward-relay-go/internal/models"
)

// Register runs the registration flow against the backend
func (h *Handlers) Register(c *gin.Context) {
	if err := h.registration.RegisterIfNeeded(c.Request.Context()); err != nil {
		c.JSON(http.StatusBadGateway, models.ErrorResponse{
			Error:   "registration_failed",
			Message: err.Error(),
			Code:    http.StatusBadGateway,
		})
		return
	}
	registrationID, _ := h.registration.RegistrationID()
	c.JSON(http.StatusOK, gin.H{"status": "success", "registration_id": registrationID})
}

// GetRegistration returns the device registration state
func (h *Handlers) GetRegistration(c *gin.Context) {
	reg, err := h.repo.GetRegistration()
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "database_error",
			Message: "Failed to fetch registration",
			Code:    http.StatusInternalServerError,
		})
		return
	}
	if reg == nil {
		c.JSON(http.StatusOK, gin.H{"registered": false})
		return
	}
	resp := gin.H{
		"registered":  reg.Registered,
		"device_uuid": reg.DeviceUUID,
	}
	if reg.Registered {
		resp["registration_id"] = reg.RegistrationID
	}
	if reg.LastProfileSync != nil {
		resp["last_profile_sync"] = reg.LastProfileSync
	}
	c.JSON(http.StatusOK, resp)
}
