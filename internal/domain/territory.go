package domain

import "time"

// ContestedPoint is a registry entry for a basepoint factions can capture.
type ContestedPoint struct {
	ID          uint      `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	IsActive    bool      `json:"is_active"`
	CreatedBy   string    `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CaptureEvent is a single claim of a point by a faction. Events reference
// points by name; removal only stamps RemovedAt.
type CaptureEvent struct {
	ID          uint       `json:"id"`
	FactionName string     `json:"faction_name"`
	PointName   string     `json:"point_name"`
	CapturedBy  string     `json:"captured_by"`
	EvidenceURL string     `json:"evidence_url"`
	CapturedAt  time.Time  `json:"captured_at"`
	RemovedAt   *time.Time `json:"removed_at,omitempty"`
	RemovedBy   string     `json:"removed_by,omitempty"`
}

func (e CaptureEvent) IsRemoved() bool {
	return e.RemovedAt != nil
}

// SessionState is the persisted start/stop gate for capturing.
type SessionState struct {
	IsActive  bool       `json:"is_active"`
	StartedBy string     `json:"started_by"`
	StartedAt *time.Time `json:"started_at,omitempty"`
	EndedAt   *time.Time `json:"ended_at,omitempty"`
}

// ReferenceEnd is the instant open holding intervals are measured up to:
// now while the session runs, the end of the last session otherwise.
func (s SessionState) ReferenceEnd(now time.Time) time.Time {
	if s.IsActive {
		return now
	}
	if s.EndedAt != nil {
		return *s.EndedAt
	}
	return now
}

type FactionCount struct {
	FactionName string `json:"faction_name"`
	Points      int    `json:"points"`
}

type TerritoryStatus struct {
	Session        SessionState   `json:"session"`
	Counts         []FactionCount `json:"counts"`
	HeldPoints     int            `json:"held_points"`
	RecentCaptures []CaptureEvent `json:"recent_captures"`
}

type PointSummary struct {
	PointName     string        `json:"point_name"`
	CurrentHolder string        `json:"current_holder"`
	HeldSince     *time.Time    `json:"held_since,omitempty"`
	LongestHolder string        `json:"longest_holder"`
	LongestHeld   time.Duration `json:"longest_held"`
}
