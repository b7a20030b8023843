package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"sort"
	"time"
)

// DestinationType identifies the kind of forwarding destination
type DestinationType string

const (
	DestinationEmail DestinationType = "email"
	DestinationPhone DestinationType = "phone"
	DestinationSlack DestinationType = "slack"
	DestinationAPI   DestinationType = "api"
)

// Valid reports whether the destination type is a known value
func (t DestinationType) Valid() bool {
	switch t {
	case DestinationEmail, DestinationPhone, DestinationSlack, DestinationAPI:
		return true
	}
	return false
}

// TimeOfDay is a wall-clock time without a date component.
// It is stored and serialized as "HH:MM".
type TimeOfDay struct {
	Hour   int
	Minute int
}

// ParseTimeOfDay parses a "HH:MM" string
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	var t TimeOfDay
	if _, err := fmt.Sscanf(s, "%d:%d", &t.Hour, &t.Minute); err != nil {
		return TimeOfDay{}, fmt.Errorf("invalid time of day %q: %w", s, err)
	}
	if t.Hour < 0 || t.Hour > 23 || t.Minute < 0 || t.Minute > 59 {
		return TimeOfDay{}, fmt.Errorf("time of day %q out of range", s)
	}
	return t, nil
}

// Minutes returns minutes since midnight (0..1439)
func (t TimeOfDay) Minutes() int {
	return t.Hour*60 + t.Minute
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// MarshalJSON implements json.Marshaler
func (t TimeOfDay) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// UnmarshalJSON implements json.Unmarshaler
func (t *TimeOfDay) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseTimeOfDay(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Value implements driver.Valuer
func (t TimeOfDay) Value() (driver.Value, error) {
	return t.String(), nil
}

// Scan implements sql.Scanner
func (t *TimeOfDay) Scan(value interface{}) error {
	var s string
	switch v := value.(type) {
	case string:
		s = v
	case []byte:
		s = string(v)
	default:
		return fmt.Errorf("cannot scan %T into TimeOfDay", value)
	}
	parsed, err := ParseTimeOfDay(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// DaySet is a set of weekdays. The persisted and serialized form is a
// sorted array of integers in the 0=Sunday..6=Saturday convention,
// which matches time.Weekday directly.
type DaySet map[time.Weekday]struct{}

// NewDaySet builds a DaySet from the given weekdays
func NewDaySet(days ...time.Weekday) DaySet {
	set := make(DaySet, len(days))
	for _, d := range days {
		set[d] = struct{}{}
	}
	return set
}

// Contains reports whether the weekday is in the set
func (d DaySet) Contains(day time.Weekday) bool {
	_, ok := d[day]
	return ok
}

// Sorted returns the weekdays as a sorted int slice
func (d DaySet) Sorted() []int {
	days := make([]int, 0, len(d))
	for day := range d {
		days = append(days, int(day))
	}
	sort.Ints(days)
	return days
}

// MarshalJSON implements json.Marshaler
func (d DaySet) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Sorted())
}

// UnmarshalJSON implements json.Unmarshaler
func (d *DaySet) UnmarshalJSON(data []byte) error {
	var days []int
	if err := json.Unmarshal(data, &days); err != nil {
		return err
	}
	set := make(DaySet, len(days))
	for _, day := range days {
		if day < 0 || day > 6 {
			return fmt.Errorf("weekday index %d out of range", day)
		}
		set[time.Weekday(day)] = struct{}{}
	}
	*d = set
	return nil
}

// Value implements driver.Valuer
func (d DaySet) Value() (driver.Value, error) {
	data, err := json.Marshal(d)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// Scan implements sql.Scanner
func (d *DaySet) Scan(value interface{}) error {
	var data []byte
	switch v := value.(type) {
	case string:
		data = []byte(v)
	case []byte:
		data = v
	default:
		return fmt.Errorf("cannot scan %T into DaySet", value)
	}
	if len(data) == 0 {
		*d = DaySet{}
		return nil
	}
	return json.Unmarshal(data, d)
}

// RuleKey is the reconciliation identity of a rule. Rules derived from
// the server carry no local ID continuity across syncs, so the
// (type, destination) pair is the key instead.
type RuleKey struct {
	Type        DestinationType
	Destination string
}

// ForwardingRule is a user-configured forwarding destination plus an
// optional activation schedule. Destinations are server-authoritative;
// the schedule fields are local-only and the server never sees them.
type ForwardingRule struct {
	ID              uint            `json:"id" gorm:"primaryKey;autoIncrement"`
	Type            DestinationType `json:"type" gorm:"type:varchar(16);not null;uniqueIndex:idx_rule_destination"`
	Destination     string          `json:"destination" gorm:"type:varchar(255);not null;uniqueIndex:idx_rule_destination"`
	ScheduleEnabled bool            `json:"schedule_enabled" gorm:"default:false"`
	AllDay          bool            `json:"all_day" gorm:"default:true"`
	StartTime       *TimeOfDay      `json:"start_time,omitempty" gorm:"type:varchar(5)"`
	EndTime         *TimeOfDay      `json:"end_time,omitempty" gorm:"type:varchar(5)"`
	Days            DaySet          `json:"days" gorm:"type:varchar(64)"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// TableName specifies the table name for ForwardingRule
func (ForwardingRule) TableName() string {
	return "forwarding_rules"
}

// Key returns the reconciliation key for the rule
func (r ForwardingRule) Key() RuleKey {
	return RuleKey{Type: r.Type, Destination: r.Destination}
}

// Registration is the single-row device identity record
type Registration struct {
	ID              uint       `json:"id" gorm:"primaryKey;autoIncrement"`
	DeviceUUID      string     `json:"device_uuid" gorm:"type:varchar(64);not null;uniqueIndex"`
	RegistrationID  string     `json:"registration_id" gorm:"type:varchar(255)"`
	Registered      bool       `json:"registered" gorm:"default:false"`
	LastProfileSync *time.Time `json:"last_profile_sync,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// TableName specifies the table name for Registration
func (Registration) TableName() string {
	return "registrations"
}

// Message is an inbound text message handed over by the automation bridge
type Message struct {
	Text      string    `json:"text"`
	Sender    string    `json:"sender"`
	Timestamp time.Time `json:"timestamp"`
	Subject   string    `json:"subject,omitempty"`
}

// Forward attempt statuses
const (
	ForwardStatusSuccess = "success"
	ForwardStatusFailure = "failure"
	ForwardStatusDropped = "dropped"
)

// ForwardLog records the outcome of a single dispatch attempt
type ForwardLog struct {
	ID          uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	Sender      string    `json:"sender" gorm:"type:varchar(64);index"`
	Status      string    `json:"status" gorm:"type:varchar(50);not null"` // success, failure, dropped
	ActiveRules int       `json:"active_rules"`
	Sent        int       `json:"sent"`
	Failed      int       `json:"failed"`
	ErrorMsg    string    `json:"error_msg" gorm:"type:text"`
	CreatedAt   time.Time `json:"created_at"`
}

// TableName specifies the table name for ForwardLog
func (ForwardLog) TableName() string {
	return "forward_logs"
}
