package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"sms-forward-relay-go/internal/models"
)

// GetLogs returns recent forward logs, newest first
func (h *Handlers) GetLogs(c *gin.Context) {
	limit := 50
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 || parsed > 500 {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid_limit", Message: "Invalid limit", Code: http.StatusBadRequest})
			return
		}
		limit = parsed
	}

	logs, err := h.repo.ListLogs(limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "database_error",
			Message: "Failed to fetch logs",
			Code:    http.StatusInternalServerError,
		})
		return
	}

	responses := make([]models.ForwardLogResponse, 0, len(logs))
	for _, log := range logs {
		responses = append(responses, logResponse(log))
	}
	c.JSON(http.StatusOK, responses)
}

// GetLog returns a single forward log entry by ID
func (h *Handlers) GetLog(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid_id", Message: "Invalid log ID", Code: http.StatusBadRequest})
		return
	}
	log, err := h.repo.GetLog(uint(id))
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "database_error", Message: "Failed to fetch log", Code: http.StatusInternalServerError})
		return
	}
	if log == nil {
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "not_found", Message: "Log not found", Code: http.StatusNotFound})
		return
	}
	c.JSON(http.StatusOK, logResponse(*log))
}

func logResponse(log models.ForwardLog) models.ForwardLogResponse {
	return models.ForwardLogResponse{
		ID:          log.ID,
		Sender:      log.Sender,
		Status:      log.Status,
		ActiveRules: log.ActiveRules,
		Sent:        log.Sent,
		Failed:      log.Failed,
		ErrorMsg:    log.ErrorMsg,
		CreatedAt:   log.CreatedAt,
	}
}
