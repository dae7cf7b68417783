package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

// sessionRowID is the id of the single session_states row.
const sessionRowID = 1

type SessionState struct {
	ID        uint `gorm:"primaryKey"`
	IsActive  bool `gorm:"not null;default:false"`
	StartedBy string
	StartedAt *time.Time
	EndedAt   *time.Time
	UpdatedAt time.Time
}

func (SessionState) TableName() string {
	return "session_states"
}

type SessionDAO struct {
	db *gorm.DB
}

func NewSessionDAO(db *gorm.DB) *SessionDAO {
	return &SessionDAO{
		db: db,
	}
}

func ensureSessionRow(tx *gorm.DB) error {
	var state SessionState
	return tx.FirstOrCreate(&state, SessionState{ID: sessionRowID}).Error
}

func (d *SessionDAO) Get(ctx context.Context) (SessionState, error) {
	var state SessionState
	if err := d.db.WithContext(ctx).First(&state, sessionRowID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return SessionState{ID: sessionRowID}, nil
		}
		return SessionState{}, err
	}

	return state, nil
}

// Start flips the row to active only if it is inactive, so concurrent starts
// cannot both succeed.
func (d *SessionDAO) Start(ctx context.Context, actor string, at time.Time) (SessionState, error) {
	var state SessionState
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureSessionRow(tx); err != nil {
			return err
		}

		result := tx.Model(&SessionState{}).
			Where("id = ? AND is_active = ?", sessionRowID, false).
			Updates(map[string]any{
				"is_active":  true,
				"started_by": actor,
				"started_at": at,
				"ended_at":   nil,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrSessionAlreadyActive
		}

		return tx.First(&state, sessionRowID).Error
	})
	if err != nil {
		return SessionState{}, err
	}

	return state, nil
}

// Stop ends the running session. StartedBy and StartedAt are kept for display.
func (d *SessionDAO) Stop(ctx context.Context, at time.Time) (SessionState, error) {
	var state SessionState
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&SessionState{}).
			Where("id = ? AND is_active = ?", sessionRowID, true).
			Updates(map[string]any{
				"is_active": false,
				"ended_at":  at,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrSessionNotActive
		}

		return tx.First(&state, sessionRowID).Error
	})
	if err != nil {
		return SessionState{}, err
	}

	return state, nil
}
