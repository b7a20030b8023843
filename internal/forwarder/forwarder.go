// Package forwarder is the per-message dispatch pipeline: decide
// whether an inbound message should be forwarded and, if so, submit it
// to the backend exactly once. Delivery is at-most-once and
// best-effort; the message source never observes the outcome.
package forwarder

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"sms-forward-relay-go/internal/backend"
	"sms-forward-relay-go/internal/metrics"
	"sms-forward-relay-go/internal/models"
	"sms-forward-relay-go/internal/schedule"
)

// Store is the slice of the local store the dispatcher needs
type Store interface {
	GetRegistration() (*models.Registration, error)
	LoadRules() ([]models.ForwardingRule, error)
	LogForwardAttempt(log *models.ForwardLog) error
}

// Backend submits a message for server-side fan-out
type Backend interface {
	Forward(ctx context.Context, registrationID string, msg models.Message) (*backend.ForwardDetails, error)
}

// Dispatcher runs the forward pipeline for inbound messages
type Dispatcher struct {
	store   Store
	backend Backend
	metrics *metrics.Metrics
}

// New creates a dispatcher
func New(store Store, backend Backend, m *metrics.Metrics) *Dispatcher {
	return &Dispatcher{store: store, backend: backend, metrics: m}
}

// Dispatch forwards an inbound message through the active rules. The
// pipeline aborts silently when the device is unregistered, the rule
// cache is empty, or no rule's schedule matches the message timestamp;
// messages outside every active window are dropped, not queued. On a
// match exactly one forward call is made and the backend fans the
// message out per destination. Failures are recorded and never retried.
func (d *Dispatcher) Dispatch(ctx context.Context, msg models.Message) {
	d.metrics.MessagesReceived.Inc()
	start := time.Now()
	defer func() {
		d.metrics.DispatchTime.Observe(time.Since(start).Seconds())
	}()

	logrus.Infof("Received message from %s (%d chars)", msg.Sender, len(msg.Text))

	reg, err := d.store.GetRegistration()
	if err != nil {
		logrus.Errorf("Cannot forward, failed to read registration: %v", err)
		return
	}
	if reg == nil || !reg.Registered || reg.RegistrationID == "" {
		logrus.Error("Cannot forward: device not registered")
		return
	}

	rules, err := d.store.LoadRules()
	if err != nil {
		logrus.Errorf("Cannot forward, failed to load rules: %v", err)
		return
	}
	if len(rules) == 0 {
		logrus.Warn("No forwarding rules found, message will not be forwarded")
		return
	}

	active := schedule.Filter(rules, msg.Timestamp)
	if len(active) == 0 {
		logrus.Info("No active rules match current schedule, message will not be forwarded")
		d.metrics.MessagesDropped.Inc()
		d.logAttempt(&models.ForwardLog{
			Sender: msg.Sender,
			Status: models.ForwardStatusDropped,
		})
		return
	}

	logrus.Infof("Found %d active rule(s) for forwarding", len(active))

	details, err := d.backend.Forward(ctx, reg.RegistrationID, msg)
	if err != nil {
		logrus.Errorf("Error forwarding message: %v", err)
		d.metrics.ForwardFailures.Inc()
		d.logAttempt(&models.ForwardLog{
			Sender:      msg.Sender,
			Status:      models.ForwardStatusFailure,
			ActiveRules: len(active),
			ErrorMsg:    err.Error(),
		})
		return
	}

	logrus.Infof("Message forwarded successfully, sent: %d, failed: %d", details.Sent, details.Failed)
	d.metrics.ForwardSuccesses.Inc()
	d.logAttempt(&models.ForwardLog{
		Sender:      msg.Sender,
		Status:      models.ForwardStatusSuccess,
		ActiveRules: len(active),
		Sent:        details.Sent,
		Failed:      details.Failed,
	})
}

func (d *Dispatcher) logAttempt(log *models.ForwardLog) {
	if err := d.store.LogForwardAttempt(log); err != nil {
		logrus.Errorf("Failed to record forward attempt: %v", err)
	}
}
