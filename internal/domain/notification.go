package domain

import (
	"fmt"
	"sort"
	"time"
)

const (
	NotificationReward  = "reward"
	NotificationCapture = "capture"
)

type NotificationField struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Notification is a channel-agnostic message for the notifier fan-out.
type Notification struct {
	Kind      string              `json:"kind"`
	Channel   string              `json:"channel"`
	Title     string              `json:"title"`
	Body      string              `json:"body"`
	Fields    []NotificationField `json:"fields,omitempty"`
	Timestamp time.Time           `json:"timestamp"`
}

// Notification renders a reward cycle: one field per credited faction plus the total.
func (s RewardSummary) Notification(channel string) Notification {
	credits := append([]FactionCredit(nil), s.Credits...)
	sort.Slice(credits, func(i, j int) bool {
		if credits[i].Amount != credits[j].Amount {
			return credits[i].Amount > credits[j].Amount
		}
		return credits[i].FactionName < credits[j].FactionName
	})

	fields := make([]NotificationField, 0, len(credits)+1)
	for _, c := range credits {
		fields = append(fields, NotificationField{
			Name:  c.FactionName,
			Value: fmt.Sprintf("+%d (%d points held)", c.Amount, c.Points),
		})
	}
	fields = append(fields, NotificationField{Name: "Total", Value: fmt.Sprintf("%d", s.Total)})

	body := "No faction holds a basepoint."
	if len(credits) > 0 {
		body = fmt.Sprintf("%d faction(s) credited at %d per point.", len(credits), s.PerPoint)
	}
	return Notification{
		Kind:      NotificationReward,
		Channel:   channel,
		Title:     "Basepoint rewards",
		Body:      body,
		Fields:    fields,
		Timestamp: s.RanAt,
	}
}

// CaptureNotification announces an accepted capture.
func CaptureNotification(channel string, e CaptureEvent) Notification {
	return Notification{
		Kind:    NotificationCapture,
		Channel: channel,
		Title:   "Basepoint captured",
		Body:    fmt.Sprintf("%s captured %s", e.FactionName, e.PointName),
		Fields: []NotificationField{
			{Name: "Captured by", Value: e.CapturedBy},
			{Name: "Evidence", Value: e.EvidenceURL},
		},
		Timestamp: e.CapturedAt,
	}
}
