// Package repository is the local per-device store: the forwarding
// rule cache, the registration record and the forward attempt log.
package repository

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"sms-forward-relay-go/internal/models"
)

type Repository struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// LoadRules returns the cached rule set in stored order
func (r *Repository) LoadRules() ([]models.ForwardingRule, error) {
	var rules []models.ForwardingRule
	result := r.db.Order("id").Find(&rules)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to load rules: %w", result.Error)
	}
	return rules, nil
}

// ReplaceRules swaps the whole rule cache for the given set in one
// transaction, preserving the given order. Used after a profile merge;
// a failed sync never leaves a partially applied cache behind.
func (r *Repository) ReplaceRules(rules []models.ForwardingRule) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.ForwardingRule{}).Error; err != nil {
			return err
		}
		for i := range rules {
			rules[i].ID = 0
			if err := tx.Create(&rules[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to replace rules: %w", err)
	}
	return nil
}

// CreateRule inserts a new rule
func (r *Repository) CreateRule(rule *models.ForwardingRule) error {
	if err := r.db.Create(rule).Error; err != nil {
		return fmt.Errorf("failed to create rule: %w", err)
	}
	return nil
}

// GetRule returns a rule by id, or nil when absent
func (r *Repository) GetRule(id uint) (*models.ForwardingRule, error) {
	var rule models.ForwardingRule
	result := r.db.First(&rule, id)
	if result.Error == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if result.Error != nil {
		return nil, fmt.Errorf("failed to get rule: %w", result.Error)
	}
	return &rule, nil
}

// SaveRule persists changes to an existing rule
func (r *Repository) SaveRule(rule *models.ForwardingRule) error {
	if err := r.db.Save(rule).Error; err != nil {
		return fmt.Errorf("failed to save rule: %w", err)
	}
	return nil
}

// DeleteRule removes a rule by id
func (r *Repository) DeleteRule(id uint) error {
	if err := r.db.Delete(&models.ForwardingRule{}, id).Error; err != nil {
		return fmt.Errorf("failed to delete rule: %w", err)
	}
	return nil
}

// CountRules returns the number of cached rules
func (r *Repository) CountRules() (int64, error) {
	var count int64
	if err := r.db.Model(&models.ForwardingRule{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count rules: %w", err)
	}
	return count, nil
}

// GetRegistration returns the device registration record, or nil when
// the device has never been initialized
func (r *Repository) GetRegistration() (*models.Registration, error) {
	var reg models.Registration
	result := r.db.First(&reg)
	if result.Error == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if result.Error != nil {
		return nil, fmt.Errorf("failed to get registration: %w", result.Error)
	}
	return &reg, nil
}

// SaveRegistration inserts or updates the registration record
func (r *Repository) SaveRegistration(reg *models.Registration) error {
	if err := r.db.Save(reg).Error; err != nil {
		return fmt.Errorf("failed to save registration: %w", err)
	}
	return nil
}

// SetLastProfileSync records the completion time of a profile sync
func (r *Repository) SetLastProfileSync(t time.Time) error {
	reg, err := r.GetRegistration()
	if err != nil {
		return err
	}
	if reg == nil {
		return fmt.Errorf("no registration record")
	}
	reg.LastProfileSync = &t
	return r.SaveRegistration(reg)
}

// LogForwardAttempt records the outcome of a dispatch
func (r *Repository) LogForwardAttempt(log *models.ForwardLog) error {
	log.CreatedAt = time.Now()
	if err := r.db.Create(log).Error; err != nil {
		return fmt.Errorf("failed to log forward attempt: %w", err)
	}
	return nil
}

// ListLogs returns the most recent forward logs, newest first
func (r *Repository) ListLogs(limit int) ([]models.ForwardLog, error) {
	var logs []models.ForwardLog
	result := r.db.Order("id desc").Limit(limit).Find(&logs)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list logs: %w", result.Error)
	}
	return logs, nil
}

// GetLog returns a forward log entry by id, or nil when absent
func (r *Repository) GetLog(id uint) (*models.ForwardLog, error) {
	var log models.ForwardLog
	result := r.db.First(&log, id)
	if result.Error == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if result.Error != nil {
		return nil, fmt.Errorf("failed to get log: %w", result.Error)
	}
	return &log, nil
}
