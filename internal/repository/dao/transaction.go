package dao

import (
	"time"
)

type TreasuryTransactionType string

const (
	TreasuryCredit TreasuryTransactionType = "Credit"
	TreasuryDebit  TreasuryTransactionType = "Debit"
)

type TreasuryTransaction struct {
	ID           uint                    `gorm:"primaryKey"`
	FactionID    uint                    `gorm:"not null;index"`
	Amount       int                     `gorm:"not null"`
	Type         TreasuryTransactionType `gorm:"not null"`
	Memo         string
	Actor        string `gorm:"not null"`
	BalanceAfter int    `gorm:"not null"`
	CreatedAt    time.Time
}

func (TreasuryTransaction) TableName() string {
	return "treasury_transactions"
}
