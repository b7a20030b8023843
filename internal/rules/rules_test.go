package rules

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sms-forward-relay-go/internal/backend"
	"sms-forward-relay-go/internal/models"
)

func serverRule(destType models.DestinationType, destination string) models.ForwardingRule {
	return models.ForwardingRule{
		Type:        destType,
		Destination: destination,
		AllDay:      true,
		Days:        models.DaySet{},
	}
}

func TestMergePreservesLocalSchedule(t *testing.T) {
	start := models.TimeOfDay{Hour: 9, Minute: 0}
	end := models.TimeOfDay{Hour: 17, Minute: 0}
	local := []models.ForwardingRule{{
		ID:              7,
		Type:            models.DestinationEmail,
		Destination:     "a@b.com",
		ScheduleEnabled: true,
		AllDay:          false,
		StartTime:       &start,
		EndTime:         &end,
		Days:            models.NewDaySet(time.Monday),
	}}
	server := []models.ForwardingRule{serverRule(models.DestinationEmail, "a@b.com")}

	merged := Merge(local, server)

	require.Len(t, merged, 1)
	assert.True(t, merged[0].ScheduleEnabled)
	assert.False(t, merged[0].AllDay)
	assert.Equal(t, &start, merged[0].StartTime)
	assert.Equal(t, &end, merged[0].EndTime)
	assert.True(t, merged[0].Days.Contains(time.Monday))
}

func TestMergeDropsStaleLocalRules(t *testing.T) {
	local := []models.ForwardingRule{
		{Type: models.DestinationEmail, Destination: "gone@b.com", ScheduleEnabled: true},
		{Type: models.DestinationPhone, Destination: "+15551234567"},
	}
	server := []models.ForwardingRule{serverRule(models.DestinationPhone, "+15551234567")}

	merged := Merge(local, server)

	require.Len(t, merged, 1)
	assert.Equal(t, models.DestinationPhone, merged[0].Type)
}

func TestMergeKeepsServerOrder(t *testing.T) {
	server := []models.ForwardingRule{
		serverRule(models.DestinationEmail, "a@b.com"),
		serverRule(models.DestinationPhone, "+15551234567"),
		serverRule(models.DestinationSlack, "https://hooks.slack.com/x"),
	}
	local := []models.ForwardingRule{
		{Type: models.DestinationSlack, Destination: "https://hooks.slack.com/x", ScheduleEnabled: true, Days: models.NewDaySet(time.Friday)},
		{Type: models.DestinationEmail, Destination: "a@b.com"},
	}

	merged := Merge(local, server)

	require.Len(t, merged, 3)
	assert.Equal(t, "a@b.com", merged[0].Destination)
	assert.Equal(t, "+15551234567", merged[1].Destination)
	assert.Equal(t, "https://hooks.slack.com/x", merged[2].Destination)
	assert.True(t, merged[2].ScheduleEnabled)
}

func TestMergeNewServerRuleGetsDefaultSchedule(t *testing.T) {
	server := []models.ForwardingRule{serverRule(models.DestinationAPI, "https://example.com/hook")}

	merged := Merge(nil, server)

	require.Len(t, merged, 1)
	assert.False(t, merged[0].ScheduleEnabled)
	assert.True(t, merged[0].AllDay)
	assert.Nil(t, merged[0].StartTime)
	assert.Nil(t, merged[0].EndTime)
	assert.Empty(t, merged[0].Days)
}

func TestMergeIdempotent(t *testing.T) {
	local := []models.ForwardingRule{
		{Type: models.DestinationEmail, Destination: "a@b.com", ScheduleEnabled: true, Days: models.NewDaySet(time.Monday)},
	}
	server := []models.ForwardingRule{
		serverRule(models.DestinationEmail, "a@b.com"),
		serverRule(models.DestinationPhone, "+15551234567"),
	}

	once := Merge(local, server)
	twice := Merge(local, server)

	assert.Equal(t, once, twice)
	// merging the output against the same server list is stable too
	assert.Equal(t, once, Merge(once, server))
}

func TestFromProfileFlattensInServerOrder(t *testing.T) {
	profile := &backend.Profile{
		Destinations: backend.Destinations{
			Emails: []backend.EmailDestination{{Email: "a@b.com"}},
			Phones: []backend.PhoneDestination{{PhoneNumber: "+15551234567"}},
			Webhooks: []backend.WebhookDestination{
				{URL: "https://hooks.slack.com/x", IsSlack: "1"},
				{URL: "https://example.com/hook", IsSlack: "0"},
			},
		},
	}

	result := FromProfile(profile)

	require.Len(t, result, 4)
	assert.Equal(t, models.DestinationEmail, result[0].Type)
	assert.Equal(t, models.DestinationPhone, result[1].Type)
	assert.Equal(t, models.DestinationSlack, result[2].Type)
	assert.Equal(t, models.DestinationAPI, result[3].Type)

	for _, rule := range result {
		assert.False(t, rule.ScheduleEnabled)
		assert.True(t, rule.AllDay)
	}
}

func TestFromProfileNil(t *testing.T) {
	assert.Nil(t, FromProfile(nil))
}
