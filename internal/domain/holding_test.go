package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2026, 3, 1, 20, 0, 0, 0, time.UTC)

func at(seconds int) time.Time {
	return t0.Add(time.Duration(seconds) * time.Second)
}

func capture(id uint, faction, point string, seconds int) CaptureEvent {
	return CaptureEvent{ID: id, FactionName: faction, PointName: point, CapturedAt: at(seconds)}
}

func removed(e CaptureEvent) CaptureEvent {
	ts := e.CapturedAt.Add(time.Minute)
	e.RemovedAt = &ts
	return e
}

func TestCurrentHolders(t *testing.T) {
	tests := []struct {
		name   string
		events []CaptureEvent
		want   map[string]string
	}{
		{
			name:   "empty ledger",
			events: nil,
			want:   map[string]string{},
		},
		{
			name: "latest capture wins regardless of insertion order",
			events: []CaptureEvent{
				capture(3, "Red", "Alpha", 5),
				capture(1, "Blue", "Alpha", 20),
				capture(2, "Green", "Alpha", 10),
			},
			want: map[string]string{"Alpha": "Blue"},
		},
		{
			name: "identical timestamps resolve to larger id",
			events: []CaptureEvent{
				capture(7, "Blue", "Alpha", 10),
				capture(4, "Red", "Alpha", 10),
			},
			want: map[string]string{"Alpha": "Blue"},
		},
		{
			name: "removed events are ignored",
			events: []CaptureEvent{
				capture(1, "Red", "Alpha", 0),
				removed(capture(2, "Blue", "Alpha", 10)),
				removed(capture(3, "Blue", "Bravo", 10)),
			},
			want: map[string]string{"Alpha": "Red"},
		},
		{
			name: "points resolve independently",
			events: []CaptureEvent{
				capture(1, "Red", "Alpha", 0),
				capture(2, "Blue", "Bravo", 5),
				capture(3, "Blue", "Alpha", 10),
			},
			want: map[string]string{"Alpha": "Blue", "Bravo": "Blue"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := make(map[string]string)
			for point, h := range CurrentHolders(tc.events) {
				got[point] = h.FactionName
			}
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestCurrentHolderNoEvents(t *testing.T) {
	_, ok := CurrentHolder([]CaptureEvent{capture(1, "Red", "Bravo", 0)}, "Alpha")
	assert.False(t, ok)
}

func TestActiveCounts(t *testing.T) {
	events := []CaptureEvent{
		capture(1, "Red", "Alpha", 0),
		capture(2, "Red", "Bravo", 1),
		capture(3, "Blue", "Charlie", 2),
		capture(4, "Red", "Charlie", 3),
		capture(5, "Blue", "Delta", 4),
		removed(capture(6, "Green", "Delta", 5)),
		capture(7, "Green", "Alpha", -10),
	}

	counts := ActiveCounts(events)
	assert.Equal(t, map[string]int{"Red": 3, "Blue": 1}, counts)
	assert.Zero(t, counts["Green"])

	sum := 0
	for _, n := range counts {
		sum += n
	}
	assert.Equal(t, len(CurrentHolders(events)), sum)

	assert.Equal(t, []FactionCount{
		{FactionName: "Red", Points: 3},
		{FactionName: "Blue", Points: 1},
	}, SortedCounts(counts))
}

func TestLongestHolderScenario(t *testing.T) {
	events := []CaptureEvent{
		capture(1, "Red", "Alpha", 0),
		capture(2, "Blue", "Alpha", 10),
		capture(3, "Red", "Alpha", 25),
	}

	current, ok := CurrentHolder(events, "Alpha")
	require.True(t, ok)
	assert.Equal(t, "Red", current.FactionName)

	// Red 10s + 5s, Blue 15s: the tie goes to Red, first in the point's history.
	longest := LongestHolder(events, "Alpha", at(30))
	assert.Equal(t, "Red", longest.FactionName)
	assert.Equal(t, 15*time.Second, longest.Held)
}

func TestLongestHolderSumsIntervals(t *testing.T) {
	events := []CaptureEvent{
		capture(1, "Blue", "Alpha", 0),
		capture(2, "Red", "Alpha", 10),
		capture(3, "Blue", "Alpha", 14),
		capture(4, "Red", "Alpha", 20),
		capture(5, "Green", "Alpha", 24),
	}

	// Blue 10 + 6 = 16 beats Red 4 + 4 and Green 12 even though Green's
	// single interval is the longest.
	longest := LongestHolder(events, "Alpha", at(36))
	assert.Equal(t, "Blue", longest.FactionName)
	assert.Equal(t, 16*time.Second, longest.Held)
}

func TestLongestHolderExcludesRemoved(t *testing.T) {
	events := []CaptureEvent{
		capture(1, "Red", "Alpha", 0),
		removed(capture(2, "Blue", "Alpha", 5)),
		capture(3, "Blue", "Alpha", 25),
	}

	longest := LongestHolder(events, "Alpha", at(30))
	assert.Equal(t, "Red", longest.FactionName)
	assert.Equal(t, 25*time.Second, longest.Held)
}

func TestLongestHolderNoHolder(t *testing.T) {
	longest := LongestHolder([]CaptureEvent{removed(capture(1, "Red", "Alpha", 0))}, "Alpha", at(30))
	assert.False(t, longest.HasHolder())
	assert.Equal(t, NoHolder, longest.FactionName)
	assert.Zero(t, longest.Held)
}

func TestLongestHolderClampsBeforeReference(t *testing.T) {
	events := []CaptureEvent{capture(1, "Red", "Alpha", 50)}
	longest := LongestHolder(events, "Alpha", at(30))
	assert.Equal(t, "Red", longest.FactionName)
	assert.Zero(t, longest.Held)
}

func TestReferenceEnd(t *testing.T) {
	now := at(100)
	ended := at(40)

	assert.Equal(t, now, SessionState{IsActive: true, EndedAt: &ended}.ReferenceEnd(now))
	assert.Equal(t, ended, SessionState{IsActive: false, EndedAt: &ended}.ReferenceEnd(now))
	assert.Equal(t, now, SessionState{}.ReferenceEnd(now))
}

func TestRecentCaptures(t *testing.T) {
	var events []CaptureEvent
	for i := 1; i <= 8; i++ {
		events = append(events, capture(uint(i), "Red", "Alpha", i))
	}
	events = append(events, removed(capture(9, "Blue", "Alpha", 100)))

	recent := RecentCaptures(events, 0)
	require.Len(t, recent, DefaultRecentLimit)
	assert.Equal(t, uint(8), recent[0].ID)
	assert.Equal(t, uint(4), recent[4].ID)

	assert.Len(t, RecentCaptures(events, 20), 8)
}

func TestSummarize(t *testing.T) {
	events := []CaptureEvent{
		capture(1, "Red", "Alpha", 0),
		capture(2, "Blue", "Retired", 5),
	}

	summary := Summarize(events, []string{"Alpha", "Bravo"}, at(10))
	require.Len(t, summary, 3)

	assert.Equal(t, "Alpha", summary[0].PointName)
	assert.Equal(t, "Red", summary[0].CurrentHolder)
	assert.Equal(t, "Red", summary[0].LongestHolder)
	assert.Equal(t, 10*time.Second, summary[0].LongestHeld)

	assert.Equal(t, "Bravo", summary[1].PointName)
	assert.Equal(t, NoHolder, summary[1].CurrentHolder)
	assert.Equal(t, NoHolder, summary[1].LongestHolder)
	assert.Nil(t, summary[1].HeldSince)

	assert.Equal(t, "Retired", summary[2].PointName)
	assert.Equal(t, "Blue", summary[2].CurrentHolder)
	assert.Equal(t, "Blue", summary[2].LongestHolder)
	assert.Equal(t, 5*time.Second, summary[2].LongestHeld)
}

func TestRewardNotification(t *testing.T) {
	summary := RewardSummary{
		RanAt:    t0,
		PerPoint: 2,
		Total:    8,
		Credits: []FactionCredit{
			{FactionName: "Blue", Points: 1, Amount: 2},
			{FactionName: "Red", Points: 3, Amount: 6},
		},
	}

	n := summary.Notification("rewards")
	assert.Equal(t, NotificationReward, n.Kind)
	assert.Equal(t, "rewards", n.Channel)
	assert.Equal(t, []NotificationField{
		{Name: "Red", Value: "+6 (3 points held)"},
		{Name: "Blue", Value: "+2 (1 points held)"},
		{Name: "Total", Value: "8"},
	}, n.Fields)
}
