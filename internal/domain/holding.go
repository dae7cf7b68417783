package domain

import (
	"sort"
	"time"
)

// NoHolder is reported for points without any active capture.
const NoHolder = ""

// DefaultRecentLimit is how many captures the recent view shows when no limit is given.
const DefaultRecentLimit = 5

// Holding is the current owner of a point, derived from the ledger.
type Holding struct {
	PointName   string    `json:"point_name"`
	FactionName string    `json:"faction_name"`
	CaptureID   uint      `json:"capture_id"`
	Since       time.Time `json:"since"`
}

// LongestHolding is the faction that held a point for the greatest total time.
type LongestHolding struct {
	PointName   string        `json:"point_name"`
	FactionName string        `json:"faction_name"`
	Held        time.Duration `json:"held"`
}

func (h LongestHolding) HasHolder() bool {
	return h.FactionName != NoHolder
}

// capturedBefore orders events by capture time, then by id.
func capturedBefore(a, b CaptureEvent) bool {
	if a.CapturedAt.Equal(b.CapturedAt) {
		return a.ID < b.ID
	}
	return a.CapturedAt.Before(b.CapturedAt)
}

func activeOnly(events []CaptureEvent) []CaptureEvent {
	active := make([]CaptureEvent, 0, len(events))
	for _, e := range events {
		if !e.IsRemoved() {
			active = append(active, e)
		}
	}
	return active
}

// CurrentHolders returns the latest active capture per point. Identical
// capture times are resolved in favour of the larger id.
func CurrentHolders(events []CaptureEvent) map[string]Holding {
	latest := make(map[string]CaptureEvent)
	for _, e := range activeOnly(events) {
		cur, ok := latest[e.PointName]
		if !ok || capturedBefore(cur, e) {
			latest[e.PointName] = e
		}
	}

	holders := make(map[string]Holding, len(latest))
	for point, e := range latest {
		holders[point] = Holding{
			PointName:   point,
			FactionName: e.FactionName,
			CaptureID:   e.ID,
			Since:       e.CapturedAt,
		}
	}
	return holders
}

// CurrentHolder resolves a single point. ok is false when nobody holds it.
func CurrentHolder(events []CaptureEvent, pointName string) (Holding, bool) {
	h, ok := CurrentHolders(pointEvents(events, pointName))[pointName]
	return h, ok
}

// ActiveCounts returns how many distinct points each faction currently holds.
// Factions holding nothing are absent.
func ActiveCounts(events []CaptureEvent) map[string]int {
	counts := make(map[string]int)
	for _, h := range CurrentHolders(events) {
		counts[h.FactionName]++
	}
	return counts
}

// SortedCounts flattens counts, highest first, then by faction name.
func SortedCounts(counts map[string]int) []FactionCount {
	out := make([]FactionCount, 0, len(counts))
	for faction, n := range counts {
		out = append(out, FactionCount{FactionName: faction, Points: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Points != out[j].Points {
			return out[i].Points > out[j].Points
		}
		return out[i].FactionName < out[j].FactionName
	})
	return out
}

func pointEvents(events []CaptureEvent, pointName string) []CaptureEvent {
	var out []CaptureEvent
	for _, e := range events {
		if e.PointName == pointName {
			out = append(out, e)
		}
	}
	return out
}

// LongestHolder sums every holding interval of pointName per faction. The
// last interval runs until referenceEnd. On equal totals the faction that
// appears first in the point's history wins.
func LongestHolder(events []CaptureEvent, pointName string, referenceEnd time.Time) LongestHolding {
	history := activeOnly(pointEvents(events, pointName))
	if len(history) == 0 {
		return LongestHolding{PointName: pointName, FactionName: NoHolder}
	}
	sort.SliceStable(history, func(i, j int) bool {
		return capturedBefore(history[i], history[j])
	})

	totals := make(map[string]time.Duration)
	var order []string
	for i, e := range history {
		end := referenceEnd
		if i+1 < len(history) {
			end = history[i+1].CapturedAt
		}
		held := end.Sub(e.CapturedAt)
		if held < 0 {
			held = 0
		}
		if _, seen := totals[e.FactionName]; !seen {
			order = append(order, e.FactionName)
		}
		totals[e.FactionName] += held
	}

	best := LongestHolding{PointName: pointName, FactionName: order[0], Held: totals[order[0]]}
	for _, faction := range order[1:] {
		if totals[faction] > best.Held {
			best.FactionName = faction
			best.Held = totals[faction]
		}
	}
	return best
}

// LongestHolders runs LongestHolder for every point seen in events.
func LongestHolders(events []CaptureEvent, referenceEnd time.Time) map[string]LongestHolding {
	out := make(map[string]LongestHolding)
	for _, e := range activeOnly(events) {
		if _, done := out[e.PointName]; done {
			continue
		}
		out[e.PointName] = LongestHolder(events, e.PointName, referenceEnd)
	}
	return out
}

// RecentCaptures returns active captures newest first. limit <= 0 uses
// DefaultRecentLimit.
func RecentCaptures(events []CaptureEvent, limit int) []CaptureEvent {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}
	recent := activeOnly(events)
	sort.SliceStable(recent, func(i, j int) bool {
		return capturedBefore(recent[j], recent[i])
	})
	if len(recent) > limit {
		recent = recent[:limit]
	}
	return recent
}

// Summarize builds the per-point retrospective for the given point names plus
// any point present in the ledger, ordered by name.
func Summarize(events []CaptureEvent, pointNames []string, referenceEnd time.Time) []PointSummary {
	names := make(map[string]struct{}, len(pointNames))
	for _, n := range pointNames {
		names[n] = struct{}{}
	}
	for _, e := range activeOnly(events) {
		names[e.PointName] = struct{}{}
	}

	current := CurrentHolders(events)
	longest := LongestHolders(events, referenceEnd)
	out := make([]PointSummary, 0, len(names))
	for name := range names {
		s := PointSummary{PointName: name, CurrentHolder: NoHolder, LongestHolder: NoHolder}
		if h, ok := current[name]; ok {
			since := h.Since
			s.CurrentHolder = h.FactionName
			s.HeldSince = &since
		}
		if l, ok := longest[name]; ok {
			s.LongestHolder = l.FactionName
			s.LongestHeld = l.Held
		}
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PointName < out[j].PointName })
	return out
}
