// Package registration manages the device identity: a locally
// generated UUID exchanged with the backend for a registration id that
// every other API call is keyed on.
package registration

import (
	"context"
	"fmt"
	"os"
	"runtime"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"sms-forward-relay-go/internal/backend"
	"sms-forward-relay-go/internal/config"
	"sms-forward-relay-go/internal/models"
)

// Store is the slice of the local store the service needs
type Store interface {
	GetRegistration() (*models.Registration, error)
	SaveRegistration(reg *models.Registration) error
}

// Backend registers a device UUID
type Backend interface {
	Register(ctx context.Context, uuid string, details *backend.DeviceDetails) (*backend.RegisterResponse, error)
}

// Service runs the registration flow
type Service struct {
	store   Store
	backend Backend
	device  config.DeviceConfig
}

// NewService creates a registration service
func NewService(store Store, backend Backend, device config.DeviceConfig) *Service {
	return &Service{store: store, backend: backend, device: device}
}

// RegisterIfNeeded ensures the device holds a registration id. The
// device UUID is created once and persisted before the network call so
// the same identity is presented on every retry.
func (s *Service) RegisterIfNeeded(ctx context.Context) error {
	reg, err := s.store.GetRegistration()
	if err != nil {
		return err
	}
	if reg == nil {
		reg = &models.Registration{DeviceUUID: uuid.NewString()}
		if err := s.store.SaveRegistration(reg); err != nil {
			return err
		}
		logrus.Infof("Created device UUID %s", reg.DeviceUUID)
	}

	if reg.Registered && reg.RegistrationID != "" {
		return nil
	}

	resp, err := s.backend.Register(ctx, reg.DeviceUUID, s.deviceDetails())
	if err != nil {
		return fmt.Errorf("registration failed: %w", err)
	}
	if !resp.Success() || resp.RegistrationID == "" {
		return fmt.Errorf("registration rejected: %s", resp.Message)
	}

	reg.RegistrationID = resp.RegistrationID
	reg.Registered = true
	if err := s.store.SaveRegistration(reg); err != nil {
		return err
	}

	logrus.Info("Device registered with backend")
	return nil
}

// RegistrationID returns the registration id when the device is registered
func (s *Service) RegistrationID() (string, bool) {
	reg, err := s.store.GetRegistration()
	if err != nil || reg == nil || !reg.Registered || reg.RegistrationID == "" {
		return "", false
	}
	return reg.RegistrationID, true
}

func (s *Service) deviceDetails() *backend.DeviceDetails {
	name := s.device.Name
	if name == "" {
		if hostname, err := os.Hostname(); err == nil {
			name = hostname
		}
	}
	return &backend.DeviceDetails{
		DeviceName: name,
		OSVersion:  runtime.GOOS + "/" + runtime.GOARCH,
		AppVersion: s.device.AppVersion,
	}
}
