package models

import (
	"fmt"
	"time"
)

// ForwardingRuleRequest is the request body for creating or updating a rule
type ForwardingRuleRequest struct {
	Type            string  `json:"type" binding:"required"`
	Destination     string  `json:"destination" binding:"required"`
	ScheduleEnabled bool    `json:"schedule_enabled"`
	AllDay          *bool   `json:"all_day"`
	StartTime       *string `json:"start_time"`
	EndTime         *string `json:"end_time"`
	Days            []int   `json:"days"`
}

// ToRule validates the request and converts it to a ForwardingRule.
// A timed schedule (enabled, not all-day) must carry both bounds so
// that a half-configured rule can never be created through the API.
func (r *ForwardingRuleRequest) ToRule() (*ForwardingRule, error) {
	destType := DestinationType(r.Type)
	if !destType.Valid() {
		return nil, fmt.Errorf("unknown destination type %q", r.Type)
	}

	allDay := true
	if r.AllDay != nil {
		allDay = *r.AllDay
	}

	rule := &ForwardingRule{
		Type:            destType,
		Destination:     r.Destination,
		ScheduleEnabled: r.ScheduleEnabled,
		AllDay:          allDay,
		Days:            DaySet{},
	}

	for _, day := range r.Days {
		if day < 0 || day > 6 {
			return nil, fmt.Errorf("weekday index %d out of range", day)
		}
		rule.Days[time.Weekday(day)] = struct{}{}
	}

	if r.StartTime != nil {
		t, err := ParseTimeOfDay(*r.StartTime)
		if err != nil {
			return nil, err
		}
		rule.StartTime = &t
	}
	if r.EndTime != nil {
		t, err := ParseTimeOfDay(*r.EndTime)
		if err != nil {
			return nil, err
		}
		rule.EndTime = &t
	}

	if rule.ScheduleEnabled && !rule.AllDay {
		if rule.StartTime == nil || rule.EndTime == nil {
			return nil, fmt.Errorf("a timed schedule requires both start_time and end_time")
		}
	}

	return rule, nil
}

// ForwardingRuleResponse is the response shape for a rule
type ForwardingRuleResponse struct {
	ID              uint      `json:"id"`
	Type            string    `json:"type"`
	Destination     string    `json:"destination"`
	ScheduleEnabled bool      `json:"schedule_enabled"`
	AllDay          bool      `json:"all_day"`
	StartTime       *string   `json:"start_time,omitempty"`
	EndTime         *string   `json:"end_time,omitempty"`
	Days            []int     `json:"days"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// NewForwardingRuleResponse converts a rule to its response shape
func NewForwardingRuleResponse(rule ForwardingRule) ForwardingRuleResponse {
	resp := ForwardingRuleResponse{
		ID:              rule.ID,
		Type:            string(rule.Type),
		Destination:     rule.Destination,
		ScheduleEnabled: rule.ScheduleEnabled,
		AllDay:          rule.AllDay,
		Days:            rule.Days.Sorted(),
		CreatedAt:       rule.CreatedAt,
		UpdatedAt:       rule.UpdatedAt,
	}
	if rule.StartTime != nil {
		s := rule.StartTime.String()
		resp.StartTime = &s
	}
	if rule.EndTime != nil {
		s := rule.EndTime.String()
		resp.EndTime = &s
	}
	return resp
}

// ForwardLogResponse is the response shape for a forward log entry
type ForwardLogResponse struct {
	ID          uint      `json:"id"`
	Sender      string    `json:"sender"`
	Status      string    `json:"status"`
	ActiveRules int       `json:"active_rules"`
	Sent        int       `json:"sent"`
	Failed      int       `json:"failed"`
	ErrorMsg    string    `json:"error_msg,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Database  string            `json:"database"`
	Metrics   map[string]string `json:"metrics,omitempty"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}
