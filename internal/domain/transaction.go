package domain

import (
	"time"
)

type TreasuryTransactionType string

const (
	TreasuryCredit TreasuryTransactionType = "Credit"
	TreasuryDebit  TreasuryTransactionType = "Debit"
)

// TreasuryTransaction is the audit row written alongside every balance change.
type TreasuryTransaction struct {
	ID           uint                    `json:"id"`
	FactionID    uint                    `json:"faction_id"`
	Amount       int                     `json:"amount"`
	Type         TreasuryTransactionType `json:"type"`
	Memo         string                  `json:"memo"`
	Actor        string                  `json:"actor"`
	BalanceAfter int                     `json:"balance_after"`
	CreatedAt    time.Time               `json:"created_at"`
}

func (tt *TreasuryTransaction) IsValid() bool {
	if tt.FactionID == 0 {
		return false
	}
	if tt.Amount <= 0 {
		return false
	}
	return tt.Type == TreasuryCredit || tt.Type == TreasuryDebit
}
