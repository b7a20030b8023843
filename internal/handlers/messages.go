package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"sms-forward-relay-go/internal/models"
)

// inboundMessageRequest accepts the field aliases the Shortcuts bridge
// is known to send for the same data
type inboundMessageRequest struct {
	Message     string `json:"message"`
	Text        string `json:"text"`
	Body        string `json:"body"`
	Sender      string `json:"sender"`
	From        string `json:"from"`
	PhoneNumber string `json:"phoneNumber"`
	Timestamp   string `json:"timestamp"`
	Date        string `json:"date"`
	Subject     string `json:"subject"`
}

func (r *inboundMessageRequest) text() string {
	if r.Message != "" {
		return r.Message
	}
	if r.Text != "" {
		return r.Text
	}
	return r.Body
}

func (r *inboundMessageRequest) sender() string {
	if r.Sender != "" {
		return r.Sender
	}
	if r.From != "" {
		return r.From
	}
	return r.PhoneNumber
}

// timestampFormats the bridge has been observed to use
var timestampFormats = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02 15:04:05 -0700",
}

func parseTimestamp(value string) (time.Time, bool) {
	for _, format := range timestampFormats {
		if t, err := time.ParseInLocation(format, value, time.Local); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ReceiveMessage accepts an inbound message from the automation bridge
// and runs the dispatch pipeline. Delivery is fire-and-forget: once the
// payload parses the response is 202 regardless of whether the message
// ends up forwarded, dropped or failed.
func (h *Handlers) ReceiveMessage(c *gin.Context) {
	var req inboundMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "validation_error",
			Message: "Invalid request body",
			Code:    http.StatusBadRequest,
		})
		return
	}

	text := req.text()
	sender := req.sender()
	if text == "" || sender == "" {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "validation_error",
			Message: "Missing message or sender",
			Code:    http.StatusBadRequest,
		})
		return
	}

	timestamp := time.Now()
	if req.Timestamp != "" {
		if t, ok := parseTimestamp(req.Timestamp); ok {
			timestamp = t
		}
	} else if req.Date != "" {
		if t, ok := parseTimestamp(req.Date); ok {
			timestamp = t
		}
	}

	msg := models.Message{
		Text:      text,
		Sender:    sender,
		Timestamp: timestamp,
		Subject:   req.Subject,
	}

	h.dispatcher.Dispatch(c.Request.Context(), msg)

	c.JSON(http.StatusAccepted, gin.H{"status": "accepted"})
}
