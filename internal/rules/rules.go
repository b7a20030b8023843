// Package rules reconciles the locally cached forwarding rules with
// the destination list delivered by the backend on a profile sync.
package rules

import (
	"sms-forward-relay-go/internal/backend"
	"sms-forward-relay-go/internal/models"
)

// Merge combines server-delivered rules with the local cache.
//
// The server is the source of truth for which destinations exist; the
// schedule is a device-side feature the server knows nothing about.
// For every server rule whose (type, destination) key matches a local
// rule, the merged rule takes the server's identity fields and the
// local rule's schedule. Server rules unknown locally are emitted
// as-is. Local rules absent from the server list are dropped. Output
// order follows the server list. Merge is pure; callers persist the
// result themselves and must not apply a partial merge on failure.
func Merge(local, server []models.ForwardingRule) []models.ForwardingRule {
	byKey := make(map[models.RuleKey]models.ForwardingRule, len(local))
	for _, rule := range local {
		byKey[rule.Key()] = rule
	}

	merged := make([]models.ForwardingRule, 0, len(server))
	for _, serverRule := range server {
		if localRule, ok := byKey[serverRule.Key()]; ok {
			serverRule.ScheduleEnabled = localRule.ScheduleEnabled
			serverRule.AllDay = localRule.AllDay
			serverRule.StartTime = localRule.StartTime
			serverRule.EndTime = localRule.EndTime
			serverRule.Days = localRule.Days
		}
		merged = append(merged, serverRule)
	}
	return merged
}

// FromProfile flattens a backend profile into forwarding rules with a
// default schedule (always active): emails first, then phones, then
// webhooks, matching the server's destination ordering. A webhook
// flagged as Slack becomes a slack rule, otherwise a generic api rule.
func FromProfile(profile *backend.Profile) []models.ForwardingRule {
	if profile == nil {
		return nil
	}

	dests := profile.Destinations
	rules := make([]models.ForwardingRule, 0, len(dests.Emails)+len(dests.Phones)+len(dests.Webhooks))

	for _, email := range dests.Emails {
		rules = append(rules, defaultRule(models.DestinationEmail, email.Email))
	}
	for _, phone := range dests.Phones {
		rules = append(rules, defaultRule(models.DestinationPhone, phone.PhoneNumber))
	}
	for _, webhook := range dests.Webhooks {
		destType := models.DestinationAPI
		if webhook.Slack() {
			destType = models.DestinationSlack
		}
		rules = append(rules, defaultRule(destType, webhook.URL))
	}
	return rules
}

func defaultRule(destType models.DestinationType, destination string) models.ForwardingRule {
	return models.ForwardingRule{
		Type:        destType,
		Destination: destination,
		AllDay:      true,
		Days:        models.DaySet{},
	}
}
