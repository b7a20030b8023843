package backend

import (
	"sms-forward-relay-go/internal/models"
)

// Wire timestamp format used by the forward endpoint
const timestampFormat = "2006-01-02 15:04:05"

// DeviceDetails describes the registering device. The ios_version wire
// name is kept from the mobile client API the backend was built for.
type DeviceDetails struct {
	DeviceName string `json:"device_name"`
	OSVersion  string `json:"ios_version"`
	AppVersion string `json:"app_version"`
}

// RegisterRequest is the body for the register endpoint
type RegisterRequest struct {
	UUID    string         `json:"uuid"`
	Details *DeviceDetails `json:"details,omitempty"`
}

// RegisterResponse is the register endpoint response
type RegisterResponse struct {
	Status         string `json:"status"`
	RegistrationID string `json:"registration_id"`
	Message        string `json:"message"`
}

// Success reports whether the backend accepted the registration
func (r RegisterResponse) Success() bool {
	return r.Status == "success"
}

// ProfileRequest is the body for the get-profile endpoint
type ProfileRequest struct {
	RegistrationID string `json:"registration_id"`
}

// ProfileResponse is the get-profile endpoint response
type ProfileResponse struct {
	Status  string   `json:"status"`
	Profile *Profile `json:"profile"`
	Message string   `json:"message"`
}

// Profile is the server-held device profile. Only the destinations are
// consumed here; the subscription block is parsed and otherwise ignored
// (entitlement is not this service's concern).
type Profile struct {
	RegistrationDate string       `json:"registration_date"`
	Subscription     Subscription `json:"subscription"`
	Destinations     Destinations `json:"destinations"`
}

// Subscription is the profile's subscription block
type Subscription struct {
	Status    string `json:"status"`
	ProductID string `json:"product_id"`
}

// Active reports whether the subscription is active
func (s Subscription) Active() bool {
	return s.Status == "active"
}

// Destinations groups the per-channel destination lists
type Destinations struct {
	Emails   []EmailDestination   `json:"emails"`
	Phones   []PhoneDestination   `json:"phones"`
	Webhooks []WebhookDestination `json:"webhooks"`
}

// EmailDestination is a server-held email destination
type EmailDestination struct {
	Email     string `json:"email"`
	CreatedAt string `json:"created_at"`
}

// PhoneDestination is a server-held phone destination
type PhoneDestination struct {
	PhoneNumber string `json:"phone_number"`
	CreatedAt   string `json:"created_at"`
}

// WebhookDestination is a server-held webhook destination
type WebhookDestination struct {
	URL       string `json:"url"`
	IsSlack   string `json:"is_slack"`
	CreatedAt string `json:"created_at"`
}

// Slack reports whether the webhook is a Slack webhook. The backend
// encodes the flag as the string "1" or "true".
func (w WebhookDestination) Slack() bool {
	return w.IsSlack == "1" || w.IsSlack == "true" || w.IsSlack == "True" || w.IsSlack == "TRUE"
}

// ForwardRequest is the body for the forward endpoint
type ForwardRequest struct {
	RegistrationID string  `json:"registration_id"`
	Message        string  `json:"message"`
	Sender         string  `json:"sender"`
	Timestamp      string  `json:"timestamp"`
	Subject        *string `json:"subject,omitempty"`
}

// NewForwardRequest builds a forward request from an inbound message
func NewForwardRequest(registrationID string, msg models.Message) ForwardRequest {
	req := ForwardRequest{
		RegistrationID: registrationID,
		Message:        msg.Text,
		Sender:         msg.Sender,
		Timestamp:      msg.Timestamp.Format(timestampFormat),
	}
	if msg.Subject != "" {
		subject := msg.Subject
		req.Subject = &subject
	}
	return req
}

// ForwardResponse is the forward endpoint response
type ForwardResponse struct {
	Status  string          `json:"status"`
	Details *ForwardDetails `json:"details"`
	Message string          `json:"message"`
}

// Success reports whether the backend accepted the message
func (r ForwardResponse) Success() bool {
	return r.Status == "success"
}

// ForwardDetails reports the server-side fan-out outcome
type ForwardDetails struct {
	Sent   int `json:"sent"`
	Failed int `json:"failed"`
}

type saveEmailRequest struct {
	RegistrationID string `json:"registration_id"`
	Email          string `json:"email"`
}

type savePhoneRequest struct {
	RegistrationID string `json:"registration_id"`
	PhoneNumber    string `json:"phone_number"`
}

type deletePhoneRequest struct {
	RegistrationID string `json:"registration_id"`
	PhoneNumber    string `json:"phone_number"`
}

type saveURLRequest struct {
	RegistrationID string `json:"registration_id"`
	URL            string `json:"url"`
	IsSlack        string `json:"is_slack"`
}

type testConnectionRequest struct {
	RegistrationID string `json:"registration_id"`
	Type           string `json:"type"`
	Value          string `json:"value"`
}

type statusResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}
