// Package schedule decides whether a forwarding rule is active at a
// given instant. The predicate is pure and evaluates the timestamp in
// whatever location the caller hands in, which is expected to be the
// device-local clock.
package schedule

import (
	"time"

	"sms-forward-relay-go/internal/models"
)

// IsActive reports whether the rule's schedule admits forwarding at
// the given instant.
//
// A rule without a schedule is always active. With a schedule, the
// instant's weekday must be in the rule's day set (an empty set means
// active on no day). All-day rules need nothing further. Timed rules
// compare minutes since midnight against the window, inclusive at both
// ends; a window whose start is later than its end wraps past midnight
// (e.g. 22:00-06:00). A timed rule missing either bound is treated as
// active for the whole matched day rather than silently dropping
// messages on a half-configured rule.
func IsActive(rule models.ForwardingRule, at time.Time) bool {
	if !rule.ScheduleEnabled {
		return true
	}

	// time.Weekday already uses 0=Sunday..6=Saturday
	if !rule.Days.Contains(at.Weekday()) {
		return false
	}

	if rule.AllDay {
		return true
	}

	if rule.StartTime == nil || rule.EndTime == nil {
		return true
	}

	current := at.Hour()*60 + at.Minute()
	start := rule.StartTime.Minutes()
	end := rule.EndTime.Minutes()

	if start <= end {
		return current >= start && current <= end
	}
	// window crosses midnight, e.g. 22:00-06:00
	return current >= start || current <= end
}

// Filter returns the rules active at the given instant, in input order.
func Filter(rules []models.ForwardingRule, at time.Time) []models.ForwardingRule {
	var active []models.ForwardingRule
	for _, rule := range rules {
		if IsActive(rule, at) {
			active = append(active, rule)
		}
	}
	return active
}
