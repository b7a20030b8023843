// Package syncer periodically reconciles the local rule cache with the
// server-held destination lists.
package syncer

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"sms-forward-relay-go/internal/backend"
	"sms-forward-relay-go/internal/config"
	"sms-forward-relay-go/internal/metrics"
	"sms-forward-relay-go/internal/models"
	"sms-forward-relay-go/internal/rules"
	"sms-forward-relay-go/internal/schedule"
)

// Store is the slice of the local store the syncer needs
type Store interface {
	GetRegistration() (*models.Registration, error)
	LoadRules() ([]models.ForwardingRule, error)
	ReplaceRules(rules []models.ForwardingRule) error
	SetLastProfileSync(t time.Time) error
}

// Backend fetches the server-held profile
type Backend interface {
	FetchProfile(ctx context.Context, registrationID string) (*backend.Profile, error)
}

// Syncer manages the periodic profile sync
type Syncer struct {
	cron      *cron.Cron
	entryID   cron.EntryID
	config    *config.SyncConfig
	store     Store
	backend   Backend
	metrics   *metrics.Metrics
	ctx       context.Context
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	isRunning bool
	mu        sync.RWMutex
	syncMu    sync.Mutex
}

// New creates a syncer
func New(cfg *config.SyncConfig, store Store, backend Backend, m *metrics.Metrics) *Syncer {
	ctx, cancel := context.WithCancel(context.Background())

	return &Syncer{
		cron:    cron.New(cron.WithSeconds()),
		config:  cfg,
		store:   store,
		backend: backend,
		metrics: m,
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Start starts the periodic sync
func (s *Syncer) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("syncer is already running")
	}

	spec := fmt.Sprintf("0 */%d * * * *", s.config.IntervalMinutes)

	entryID, err := s.cron.AddFunc(spec, s.syncProfile)
	if err != nil {
		return fmt.Errorf("failed to add cron job: %w", err)
	}

	s.entryID = entryID
	if s.ctx.Err() != nil {
		s.ctx, s.cancel = context.WithCancel(context.Background())
	}
	s.cron.Start()
	s.isRunning = true

	logrus.Infof("Profile sync started with interval: %d minutes", s.config.IntervalMinutes)
	return nil
}

// Stop stops the periodic sync
func (s *Syncer) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return nil
	}

	s.cancel()

	ctx := s.cron.Stop()
	select {
	case <-ctx.Done():
		logrus.Info("Profile sync stopped gracefully")
	case <-time.After(30 * time.Second):
		logrus.Warn("Profile sync stop timeout, forcing shutdown")
	}

	s.isRunning = false
	return nil
}

// IsRunning returns whether the periodic sync is running
func (s *Syncer) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// RunOnce triggers a sync immediately (for manual triggering)
func (s *Syncer) RunOnce() {
	logrus.Info("Running profile sync once")
	s.syncProfile()
}

// syncProfile fetches the server profile and applies the rule merge.
// The merge preserves local schedule edits; any failure along the way
// leaves the previous local rule set untouched.
func (s *Syncer) syncProfile() {
	s.wg.Add(1)
	defer s.wg.Done()

	// serialize concurrent syncs, the merge assumes a single-writer
	// snapshot of the local rules
	s.syncMu.Lock()
	defer s.syncMu.Unlock()

	s.metrics.SyncCount.Inc()

	reg, err := s.store.GetRegistration()
	if err != nil {
		logrus.Errorf("Profile sync failed to read registration: %v", err)
		s.metrics.SyncFailures.Inc()
		return
	}
	if reg == nil || !reg.Registered || reg.RegistrationID == "" {
		logrus.Debug("Device not registered, skipping profile sync")
		return
	}

	ctx, cancel := context.WithTimeout(s.ctx, 60*time.Second)
	defer cancel()

	profile, err := s.backend.FetchProfile(ctx, reg.RegistrationID)
	if err != nil {
		logrus.Errorf("Profile fetch failed: %v", err)
		s.metrics.SyncFailures.Inc()
		return
	}

	local, err := s.store.LoadRules()
	if err != nil {
		logrus.Errorf("Profile sync failed to load local rules: %v", err)
		s.metrics.SyncFailures.Inc()
		return
	}

	merged := rules.Merge(local, rules.FromProfile(profile))

	if err := s.store.ReplaceRules(merged); err != nil {
		logrus.Errorf("Profile sync failed to persist merged rules: %v", err)
		s.metrics.SyncFailures.Inc()
		return
	}

	now := time.Now()
	if err := s.store.SetLastProfileSync(now); err != nil {
		logrus.Errorf("Failed to record profile sync time: %v", err)
	}

	s.metrics.TotalRules.Set(float64(len(merged)))
	s.metrics.ActiveRules.Set(float64(len(schedule.Filter(merged, now))))

	logrus.Infof("Profile sync completed, %d rule(s) after merge", len(merged))
}

// NextRun returns the time of the next scheduled sync
func (s *Syncer) NextRun() time.Time {
	if !s.IsRunning() {
		return time.Time{}
	}
	return s.cron.Entry(s.entryID).Next
}

// LastRun returns the time of the last sync
func (s *Syncer) LastRun() time.Time {
	if !s.IsRunning() {
		return time.Time{}
	}
	return s.cron.Entry(s.entryID).Prev
}

// Wait waits for any in-flight sync to finish
func (s *Syncer) Wait() {
	s.wg.Wait()
}
