package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

type Faction struct {
	ID          uint   `gorm:"primaryKey"`
	Name        string `gorm:"uniqueIndex:idx_factions_name;not null"`
	Description string
	Balance     int `gorm:"not null;default:0"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (Faction) TableName() string {
	return "factions"
}

type FactionDAO struct {
	db *gorm.DB
}

func NewFactionDAO(db *gorm.DB) *FactionDAO {
	return &FactionDAO{
		db: db,
	}
}

func (d *FactionDAO) Insert(ctx context.Context, faction Faction) (Faction, error) {
	faction.Balance = 0
	if err := d.db.WithContext(ctx).Create(&faction).Error; err != nil {
		if isUniqueViolation(err, "idx_factions_name") {
			return Faction{}, ErrFactionNameExists
		}
		return Faction{}, err
	}

	return faction, nil
}

func (d *FactionDAO) FindByID(ctx context.Context, id uint) (Faction, error) {
	var faction Faction
	if err := d.db.WithContext(ctx).First(&faction, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Faction{}, ErrFactionNotFound
		}
		return Faction{}, err
	}

	return faction, nil
}

func (d *FactionDAO) FindByName(ctx context.Context, name string) (Faction, error) {
	var faction Faction
	if err := d.db.WithContext(ctx).Where("name = ?", name).First(&faction).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Faction{}, ErrFactionNotFound
		}
		return Faction{}, err
	}

	return faction, nil
}

func (d *FactionDAO) List(ctx context.Context) ([]Faction, error) {
	var factions []Faction
	if err := d.db.WithContext(ctx).Order("name").Find(&factions).Error; err != nil {
		return nil, err
	}

	return factions, nil
}

// CreditOrDebit moves the balance with a single storage-side increment and
// records the treasury transaction in the same database transaction. A debit
// never takes the balance below zero.
func (d *FactionDAO) CreditOrDebit(ctx context.Context, factionID uint, amount int, isCredit bool, memo, actor string) (int, error) {
	if amount <= 0 {
		return 0, ErrInvalidAmount
	}

	var balance int
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var result *gorm.DB
		if isCredit {
			result = tx.Model(&Faction{}).
				Where("id = ?", factionID).
				UpdateColumn("balance", gorm.Expr("balance + ?", amount))
		} else {
			result = tx.Model(&Faction{}).
				Where("id = ? AND balance >= ?", factionID, amount).
				UpdateColumn("balance", gorm.Expr("balance - ?", amount))
		}
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			var count int64
			if err := tx.Model(&Faction{}).Where("id = ?", factionID).Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				return ErrFactionNotFound
			}
			return ErrInsufficientBalance
		}

		var faction Faction
		if err := tx.Select("balance").First(&faction, factionID).Error; err != nil {
			return err
		}
		balance = faction.Balance

		txType := TreasuryDebit
		if isCredit {
			txType = TreasuryCredit
		}
		return tx.Create(&TreasuryTransaction{
			FactionID:    factionID,
			Amount:       amount,
			Type:         txType,
			Memo:         memo,
			Actor:        actor,
			BalanceAfter: balance,
		}).Error
	})
	if err != nil {
		return 0, err
	}

	return balance, nil
}

func (d *FactionDAO) ListTransactions(ctx context.Context, factionID uint, limit int) ([]TreasuryTransaction, error) {
	var transactions []TreasuryTransaction
	if err := d.db.WithContext(ctx).
		Where("faction_id = ?", factionID).
		Order("id DESC").
		Limit(limit).
		Find(&transactions).Error; err != nil {
		return nil, err
	}

	return transactions, nil
}
