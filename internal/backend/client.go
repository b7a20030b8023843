// Package backend is the JSON client for the remote forwarding API.
// The backend owns the destination lists and performs the per-channel
// fan-out; this client only registers the device, fetches the profile,
// pushes destination edits and submits messages for forwarding.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"sms-forward-relay-go/internal/config"
	"sms-forward-relay-go/internal/models"
)

// API endpoint paths
const (
	registerPath       = "/aft_register.php"
	getProfilePath     = "/aft_getprofile.php"
	forwardPath        = "/aft_forward.php"
	saveEmailPath      = "/aft_saveemail.php"
	savePhonePath      = "/aft_savenumber.php"
	deletePhonePath    = "/aft_delnumber.php"
	saveURLPath        = "/aft_saveurl.php"
	testConnectionPath = "/aft_test_connection.php"
)

// Client talks to the remote forwarding API
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a backend API client
func NewClient(cfg *config.BackendConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		baseURL:    cfg.BaseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// post sends a JSON body to the given path and decodes the response
func (c *Client) post(ctx context.Context, path string, body, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request to %s failed: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("request to %s returned status %d", path, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response from %s: %w", path, err)
	}
	return nil
}

// Register registers the device UUID with the backend
func (c *Client) Register(ctx context.Context, uuid string, details *DeviceDetails) (*RegisterResponse, error) {
	var resp RegisterResponse
	if err := c.post(ctx, registerPath, RegisterRequest{UUID: uuid, Details: details}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// FetchProfile fetches the server-held profile for the registration id
func (c *Client) FetchProfile(ctx context.Context, registrationID string) (*Profile, error) {
	var resp ProfileResponse
	if err := c.post(ctx, getProfilePath, ProfileRequest{RegistrationID: registrationID}, &resp); err != nil {
		return nil, err
	}
	if resp.Status != "success" || resp.Profile == nil {
		return nil, fmt.Errorf("profile fetch rejected: %s", resp.Message)
	}
	return resp.Profile, nil
}

// Forward submits a message for server-side fan-out to every
// destination the backend holds for this registration id.
func (c *Client) Forward(ctx context.Context, registrationID string, msg models.Message) (*ForwardDetails, error) {
	var resp ForwardResponse
	if err := c.post(ctx, forwardPath, NewForwardRequest(registrationID, msg), &resp); err != nil {
		return nil, err
	}
	if !resp.Success() {
		return nil, fmt.Errorf("forward rejected: %s", resp.Message)
	}
	if resp.Details != nil {
		return resp.Details, nil
	}
	return &ForwardDetails{}, nil
}

// SaveDestination pushes a newly created destination to the backend
func (c *Client) SaveDestination(ctx context.Context, registrationID string, rule models.ForwardingRule) error {
	var (
		path string
		body interface{}
	)
	switch rule.Type {
	case models.DestinationEmail:
		path = saveEmailPath
		body = saveEmailRequest{RegistrationID: registrationID, Email: rule.Destination}
	case models.DestinationPhone:
		path = savePhonePath
		body = savePhoneRequest{RegistrationID: registrationID, PhoneNumber: rule.Destination}
	case models.DestinationSlack:
		path = saveURLPath
		body = saveURLRequest{RegistrationID: registrationID, URL: rule.Destination, IsSlack: "1"}
	case models.DestinationAPI:
		path = saveURLPath
		body = saveURLRequest{RegistrationID: registrationID, URL: rule.Destination, IsSlack: "0"}
	default:
		return fmt.Errorf("unknown destination type %q", rule.Type)
	}

	var resp statusResponse
	if err := c.post(ctx, path, body, &resp); err != nil {
		return err
	}
	if resp.Status != "success" {
		return fmt.Errorf("save destination rejected: %s", resp.Message)
	}
	return nil
}

// DeletePhone removes a phone destination from the backend. Phone is
// the only destination kind the API exposes a delete endpoint for.
func (c *Client) DeletePhone(ctx context.Context, registrationID, phoneNumber string) error {
	var resp statusResponse
	if err := c.post(ctx, deletePhonePath, deletePhoneRequest{RegistrationID: registrationID, PhoneNumber: phoneNumber}, &resp); err != nil {
		return err
	}
	if resp.Status != "success" {
		return fmt.Errorf("delete phone rejected: %s", resp.Message)
	}
	return nil
}

// TestConnection asks the backend to verify a destination end to end.
// Slack and generic API destinations both test as "webhook".
func (c *Client) TestConnection(ctx context.Context, registrationID string, rule models.ForwardingRule) error {
	connType := "webhook"
	switch rule.Type {
	case models.DestinationEmail:
		connType = "email"
	case models.DestinationPhone:
		connType = "phone"
	}

	var resp statusResponse
	req := testConnectionRequest{RegistrationID: registrationID, Type: connType, Value: rule.Destination}
	if err := c.post(ctx, testConnectionPath, req, &resp); err != nil {
		return err
	}
	if resp.Status != "success" {
		return fmt.Errorf("test connection failed: %s", resp.Message)
	}
	return nil
}
