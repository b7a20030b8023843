package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimeOfDay(t *testing.T) {
	parsed, err := ParseTimeOfDay("09:30")
	require.NoError(t, err)
	assert.Equal(t, 9, parsed.Hour)
	assert.Equal(t, 30, parsed.Minute)
	assert.Equal(t, 570, parsed.Minutes())
	assert.Equal(t, "09:30", parsed.String())

	_, err = ParseTimeOfDay("24:00")
	assert.Error(t, err)
	_, err = ParseTimeOfDay("nonsense")
	assert.Error(t, err)
}

func TestDaySetRoundTrip(t *testing.T) {
	set := NewDaySet(time.Friday, time.Monday)
	assert.True(t, set.Contains(time.Monday))
	assert.False(t, set.Contains(time.Tuesday))
	assert.Equal(t, []int{1, 5}, set.Sorted())

	value, err := set.Value()
	require.NoError(t, err)

	var scanned DaySet
	require.NoError(t, scanned.Scan(value))
	assert.Equal(t, set, scanned)
}

func TestRuleKey(t *testing.T) {
	a := ForwardingRule{ID: 1, Type: DestinationEmail, Destination: "a@b.com"}
	b := ForwardingRule{ID: 2, Type: DestinationEmail, Destination: "a@b.com"}
	c := ForwardingRule{Type: DestinationPhone, Destination: "a@b.com"}

	// the key ignores the local id so server-origin rules match across syncs
	assert.Equal(t, a.Key(), b.Key())
	assert.NotEqual(t, a.Key(), c.Key())
}

func TestRuleRequestValidation(t *testing.T) {
	start := "09:00"
	end := "17:00"
	no := false

	req := &ForwardingRuleRequest{
		Type:            "email",
		Destination:     "a@b.com",
		ScheduleEnabled: true,
		AllDay:          &no,
		StartTime:       &start,
		EndTime:         &end,
		Days:            []int{1, 3},
	}
	rule, err := req.ToRule()
	require.NoError(t, err)
	assert.True(t, rule.Days.Contains(time.Monday))
	assert.True(t, rule.Days.Contains(time.Wednesday))
	require.NotNil(t, rule.StartTime)
	assert.Equal(t, 9, rule.StartTime.Hour)

	// a timed schedule missing a bound is rejected at creation time
	req.EndTime = nil
	_, err = req.ToRule()
	assert.Error(t, err)

	req.EndTime = &end
	req.Type = "pigeon"
	_, err = req.ToRule()
	assert.Error(t, err)

	req.Type = "email"
	req.Days = []int{7}
	_, err = req.ToRule()
	assert.Error(t, err)
}

func TestRuleRequestDefaults(t *testing.T) {
	req := &ForwardingRuleRequest{Type: "slack", Destination: "https://hooks.slack.com/x"}
	rule, err := req.ToRule()
	require.NoError(t, err)
	assert.False(t, rule.ScheduleEnabled)
	assert.True(t, rule.AllDay)
	assert.Empty(t, rule.Days)
}
