package domain

import "time"

type Faction struct {
	ID          uint      `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Balance     int       `json:"balance"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// FactionCredit is one faction's share of a reward cycle.
type FactionCredit struct {
	FactionName string `json:"faction_name"`
	Points      int    `json:"points"`
	Amount      int    `json:"amount"`
	Balance     int    `json:"balance"`
}

// RewardSummary describes one completed reward cycle.
type RewardSummary struct {
	RanAt    time.Time       `json:"ran_at"`
	Credits  []FactionCredit `json:"credits"`
	Failed   []string        `json:"failed,omitempty"`
	Total    int             `json:"total"`
	PerPoint int             `json:"per_point"`
}
