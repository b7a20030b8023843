package handlers

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sms-forward-relay-go/internal/models"
)

type fakeDispatcher struct {
	calls    int
	messages []models.Message
}

func (f *fakeDispatcher) Dispatch(ctx context.Context, msg models.Message) {
	f.calls++
	f.messages = append(f.messages, msg)
}

func messageRouter(d Dispatcher) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	h := &Handlers{dispatcher: d}
	router.POST("/api/v1/messages", h.ReceiveMessage)
	return router
}

func postMessage(router *gin.Engine, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/messages", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestReceiveMessageDispatchesAndAccepts(t *testing.T) {
	d := &fakeDispatcher{}
	router := messageRouter(d)

	w := postMessage(router, `{"message":"code 1234","sender":"+15557654321","timestamp":"2024-01-01 10:30:00","subject":"otp"}`)

	assert.Equal(t, http.StatusAccepted, w.Code)
	require.Equal(t, 1, d.calls)
	msg := d.messages[0]
	assert.Equal(t, "code 1234", msg.Text)
	assert.Equal(t, "+15557654321", msg.Sender)
	assert.Equal(t, "otp", msg.Subject)
	assert.Equal(t, 10, msg.Timestamp.Hour())
	assert.Equal(t, 30, msg.Timestamp.Minute())
}

func TestReceiveMessageFieldAliases(t *testing.T) {
	d := &fakeDispatcher{}
	router := messageRouter(d)

	w := postMessage(router, `{"text":"hello","from":"+15550001111"}`)

	assert.Equal(t, http.StatusAccepted, w.Code)
	require.Equal(t, 1, d.calls)
	assert.Equal(t, "hello", d.messages[0].Text)
	assert.Equal(t, "+15550001111", d.messages[0].Sender)

	w = postMessage(router, `{"body":"hi","phoneNumber":"+15550002222"}`)
	assert.Equal(t, http.StatusAccepted, w.Code)
	require.Equal(t, 2, d.calls)
	assert.Equal(t, "hi", d.messages[1].Text)
	assert.Equal(t, "+15550002222", d.messages[1].Sender)
}

func TestReceiveMessageMissingFields(t *testing.T) {
	d := &fakeDispatcher{}
	router := messageRouter(d)

	w := postMessage(router, `{"message":"hello"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = postMessage(router, `{"sender":"+15550001111"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = postMessage(router, `not json`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	assert.Zero(t, d.calls)
}

func TestReceiveMessageUnparsableTimestampFallsBackToNow(t *testing.T) {
	d := &fakeDispatcher{}
	router := messageRouter(d)

	before := time.Now()
	w := postMessage(router, `{"message":"hello","sender":"+15550001111","timestamp":"last tuesday"}`)
	after := time.Now()

	assert.Equal(t, http.StatusAccepted, w.Code)
	require.Equal(t, 1, d.calls)
	ts := d.messages[0].Timestamp
	assert.False(t, ts.Before(before))
	assert.False(t, ts.After(after))
}
