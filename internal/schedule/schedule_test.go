package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"sms-forward-relay-go/internal/models"
)

// 2024-01-01 was a Monday
func monday(hour, minute int) time.Time {
	return time.Date(2024, 1, 1, hour, minute, 0, 0, time.UTC)
}

func tuesday(hour, minute int) time.Time {
	return time.Date(2024, 1, 2, hour, minute, 0, 0, time.UTC)
}

func friday(hour, minute int) time.Time {
	return time.Date(2024, 1, 5, hour, minute, 0, 0, time.UTC)
}

func timedRule(start, end models.TimeOfDay, days ...time.Weekday) models.ForwardingRule {
	return models.ForwardingRule{
		Type:            models.DestinationEmail,
		Destination:     "a@b.com",
		ScheduleEnabled: true,
		AllDay:          false,
		StartTime:       &start,
		EndTime:         &end,
		Days:            models.NewDaySet(days...),
	}
}

func TestScheduleDisabledAlwaysActive(t *testing.T) {
	rule := models.ForwardingRule{
		Type:        models.DestinationPhone,
		Destination: "+15551234567",
	}

	assert.True(t, IsActive(rule, monday(3, 0)))
	assert.True(t, IsActive(rule, friday(23, 59)))
	// schedule fields are ignored entirely when the schedule is off
	rule.Days = models.NewDaySet(time.Wednesday)
	assert.True(t, IsActive(rule, monday(12, 0)))
}

func TestAllDayRule(t *testing.T) {
	rule := models.ForwardingRule{
		Type:            models.DestinationSlack,
		Destination:     "https://hooks.slack.com/services/T0/B0/x",
		ScheduleEnabled: true,
		AllDay:          true,
		Days:            models.NewDaySet(time.Monday),
	}

	assert.True(t, IsActive(rule, monday(0, 0)))
	assert.True(t, IsActive(rule, monday(23, 59)))
	assert.False(t, IsActive(rule, tuesday(12, 0)))
}

func TestEmptyDaySetActiveOnNoDay(t *testing.T) {
	rule := models.ForwardingRule{
		Type:            models.DestinationEmail,
		Destination:     "a@b.com",
		ScheduleEnabled: true,
		AllDay:          true,
		Days:            models.DaySet{},
	}

	for day := 0; day < 7; day++ {
		at := time.Date(2024, 1, 1+day, 12, 0, 0, 0, time.UTC)
		assert.False(t, IsActive(rule, at))
	}
}

func TestSameDayWindowInclusiveBounds(t *testing.T) {
	rule := timedRule(
		models.TimeOfDay{Hour: 9, Minute: 0},
		models.TimeOfDay{Hour: 17, Minute: 0},
		time.Monday,
	)

	assert.True(t, IsActive(rule, monday(9, 0)), "window start is inclusive")
	assert.True(t, IsActive(rule, monday(12, 30)))
	assert.True(t, IsActive(rule, monday(17, 0)), "window end is inclusive")
	assert.False(t, IsActive(rule, monday(8, 59)))
	assert.False(t, IsActive(rule, monday(17, 1)))
	assert.False(t, IsActive(rule, tuesday(12, 0)), "wrong weekday")
}

func TestMidnightCrossingWindow(t *testing.T) {
	rule := timedRule(
		models.TimeOfDay{Hour: 22, Minute: 0},
		models.TimeOfDay{Hour: 6, Minute: 0},
		time.Friday,
	)

	assert.True(t, IsActive(rule, friday(23, 0)))
	assert.True(t, IsActive(rule, friday(22, 0)))
	assert.True(t, IsActive(rule, friday(5, 0)), "early morning falls in the wrapped window")
	assert.True(t, IsActive(rule, friday(6, 0)))
	assert.False(t, IsActive(rule, friday(12, 0)))
	assert.False(t, IsActive(rule, friday(6, 1)))
	assert.False(t, IsActive(rule, friday(21, 59)))
}

func TestMissingBoundFallsBackToAllDay(t *testing.T) {
	start := models.TimeOfDay{Hour: 9, Minute: 0}
	rule := models.ForwardingRule{
		Type:            models.DestinationAPI,
		Destination:     "https://example.com/hook",
		ScheduleEnabled: true,
		AllDay:          false,
		StartTime:       &start,
		Days:            models.NewDaySet(time.Monday),
	}

	// a half-configured window must not drop messages on a matched day
	assert.True(t, IsActive(rule, monday(3, 0)))
	assert.False(t, IsActive(rule, tuesday(3, 0)))
}

func TestFilterKeepsInputOrder(t *testing.T) {
	always := models.ForwardingRule{Type: models.DestinationEmail, Destination: "a@b.com"}
	offDay := timedRule(
		models.TimeOfDay{Hour: 9, Minute: 0},
		models.TimeOfDay{Hour: 17, Minute: 0},
		time.Saturday,
	)
	inWindow := timedRule(
		models.TimeOfDay{Hour: 9, Minute: 0},
		models.TimeOfDay{Hour: 17, Minute: 0},
		time.Monday,
	)
	inWindow.Destination = "c@d.com"

	active := Filter([]models.ForwardingRule{always, offDay, inWindow}, monday(10, 0))

	assert.Len(t, active, 2)
	assert.Equal(t, "a@b.com", active[0].Destination)
	assert.Equal(t, "c@d.com", active[1].Destination)
}
