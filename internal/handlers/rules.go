package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"sms-forward-relay-go/internal/models"
)

// GetRules returns all forwarding rules
func (h *Handlers) GetRules(c *gin.Context) {
	rules, err := h.repo.LoadRules()
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "database_error",
			Message: "Failed to fetch rules",
			Code:    http.StatusInternalServerError,
		})
		return
	}
	responses := make([]models.ForwardingRuleResponse, 0, len(rules))
	for _, rule := range rules {
		responses = append(responses, models.NewForwardingRuleResponse(rule))
	}
	c.JSON(http.StatusOK, responses)
}

// CreateRule creates a new forwarding rule and pushes the destination
// to the backend. A backend push failure is logged but does not block
// the local create; the destination will be reconciled on a later sync.
func (h *Handlers) CreateRule(c *gin.Context) {
	var req models.ForwardingRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "validation_error",
			Message: "Invalid request body",
			Code:    http.StatusBadRequest,
		})
		return
	}

	rule, err := req.ToRule()
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
			Code:    http.StatusBadRequest,
		})
		return
	}

	if err := h.repo.CreateRule(rule); err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "database_error",
			Message: "Failed to create rule",
			Code:    http.StatusInternalServerError,
		})
		return
	}

	if registrationID, ok := h.registration.RegistrationID(); ok {
		if err := h.backend.SaveDestination(c.Request.Context(), registrationID, *rule); err != nil {
			logrus.Warnf("Failed to push destination to backend: %v", err)
		}
	}

	c.JSON(http.StatusCreated, models.NewForwardingRuleResponse(*rule))
}

// GetRule returns a single rule by ID
func (h *Handlers) GetRule(c *gin.Context) {
	rule, ok := h.findRule(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, models.NewForwardingRuleResponse(*rule))
}

// UpdateRule replaces the schedule of an existing rule. The destination
// identity is immutable; changing where messages go is a delete and a
// create, matching how the backend models destinations.
func (h *Handlers) UpdateRule(c *gin.Context) {
	rule, ok := h.findRule(c)
	if !ok {
		return
	}

	var req models.ForwardingRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "validation_error",
			Message: "Invalid request body",
			Code:    http.StatusBadRequest,
		})
		return
	}

	updated, err := req.ToRule()
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
			Code:    http.StatusBadRequest,
		})
		return
	}
	if updated.Type != rule.Type || updated.Destination != rule.Destination {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "validation_error",
			Message: "Destination is immutable, delete and recreate the rule instead",
			Code:    http.StatusBadRequest,
		})
		return
	}

	rule.ScheduleEnabled = updated.ScheduleEnabled
	rule.AllDay = updated.AllDay
	rule.StartTime = updated.StartTime
	rule.EndTime = updated.EndTime
	rule.Days = updated.Days

	if err := h.repo.SaveRule(rule); err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "database_error",
			Message: "Failed to update rule",
			Code:    http.StatusInternalServerError,
		})
		return
	}
	c.JSON(http.StatusOK, models.NewForwardingRuleResponse(*rule))
}

// DeleteRule deletes a rule. Phone destinations are removed from the
// backend first (the only destination kind the API can delete); other
// kinds are removed locally and will reappear on the next profile sync
// until deleted server-side.
func (h *Handlers) DeleteRule(c *gin.Context) {
	rule, ok := h.findRule(c)
	if !ok {
		return
	}

	if rule.Type == models.DestinationPhone {
		if registrationID, regOK := h.registration.RegistrationID(); regOK {
			if err := h.backend.DeletePhone(c.Request.Context(), registrationID, rule.Destination); err != nil {
				logrus.Warnf("Failed to delete phone destination on backend: %v", err)
			}
		}
	} else {
		logrus.Warnf("Deleting %s rule locally only, it may reappear on the next profile sync", rule.Type)
	}

	if err := h.repo.DeleteRule(rule.ID); err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "database_error",
			Message: "Failed to delete rule",
			Code:    http.StatusInternalServerError,
		})
		return
	}
	c.Status(http.StatusNoContent)
}

// TestRule asks the backend to verify the rule's destination end to end
func (h *Handlers) TestRule(c *gin.Context) {
	rule, ok := h.findRule(c)
	if !ok {
		return
	}

	registrationID, regOK := h.registration.RegistrationID()
	if !regOK {
		c.JSON(http.StatusConflict, models.ErrorResponse{
			Error:   "not_registered",
			Message: "Device is not registered",
			Code:    http.StatusConflict,
		})
		return
	}

	if err := h.backend.TestConnection(c.Request.Context(), registrationID, *rule); err != nil {
		c.JSON(http.StatusBadGateway, models.ErrorResponse{
			Error:   "test_failed",
			Message: err.Error(),
			Code:    http.StatusBadGateway,
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

// findRule resolves the :id parameter to a rule or writes the error response
func (h *Handlers) findRule(c *gin.Context) (*models.ForwardingRule, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid_id", Message: "Invalid rule ID", Code: http.StatusBadRequest})
		return nil, false
	}
	rule, err := h.repo.GetRule(uint(id))
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "database_error", Message: "Failed to fetch rule", Code: http.StatusInternalServerError})
		return nil, false
	}
	if rule == nil {
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "not_found", Message: "Rule not found", Code: http.StatusNotFound})
		return nil, false
	}
	return rule, true
}
