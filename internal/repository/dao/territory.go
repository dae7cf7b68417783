package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

type ContestedPoint struct {
	ID          uint   `gorm:"primaryKey"`
	Name        string `gorm:"uniqueIndex:idx_contested_points_name;not null"`
	Description string
	IsActive    bool   `gorm:"not null;default:true"`
	CreatedBy   string `gorm:"not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (ContestedPoint) TableName() string {
	return "contested_points"
}

type CaptureEvent struct {
	ID          uint       `gorm:"primaryKey"`
	FactionName string     `gorm:"not null;index"`
	PointName   string     `gorm:"not null;index"`
	CapturedBy  string     `gorm:"not null"`
	EvidenceURL string     `gorm:"not null"`
	CapturedAt  time.Time  `gorm:"not null;index"`
	RemovedAt   *time.Time `gorm:"index"`
	RemovedBy   string
}

func (CaptureEvent) TableName() string {
	return "capture_events"
}

type TerritoryDAO struct {
	db *gorm.DB
}

func NewTerritoryDAO(db *gorm.DB) *TerritoryDAO {
	return &TerritoryDAO{
		db: db,
	}
}

func (d *TerritoryDAO) InsertPoint(ctx context.Context, point ContestedPoint) (ContestedPoint, error) {
	var existing int64
	if err := d.db.WithContext(ctx).Model(&ContestedPoint{}).Where("name = ?", point.Name).Count(&existing).Error; err != nil {
		return ContestedPoint{}, err
	}
	if existing > 0 {
		return ContestedPoint{}, ErrPointNameExists
	}

	point.IsActive = true
	if err := d.db.WithContext(ctx).Create(&point).Error; err != nil {
		if isUniqueViolation(err, "idx_contested_points_name") {
			return ContestedPoint{}, ErrPointNameExists
		}
		return ContestedPoint{}, err
	}

	return point, nil
}

// DeactivatePoint reports false when id is unknown.
func (d *TerritoryDAO) DeactivatePoint(ctx context.Context, id uint) (bool, error) {
	result := d.db.WithContext(ctx).Model(&ContestedPoint{}).
		Where("id = ?", id).
		Updates(map[string]any{"is_active": false})
	if result.Error != nil {
		return false, result.Error
	}

	return result.RowsAffected > 0, nil
}

// ReactivatePoint reports false when id is unknown.
func (d *TerritoryDAO) ReactivatePoint(ctx context.Context, id uint) (bool, error) {
	result := d.db.WithContext(ctx).Model(&ContestedPoint{}).
		Where("id = ?", id).
		Updates(map[string]any{"is_active": true})
	if result.Error != nil {
		return false, result.Error
	}

	return result.RowsAffected > 0, nil
}

// UpdatePoint renames and redescribes a point. It reports false when id is
// unknown and ErrPointNameExists when newName belongs to another point.
func (d *TerritoryDAO) UpdatePoint(ctx context.Context, id uint, newName, newDescription string) (bool, error) {
	var updated bool
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var point ContestedPoint
		if err := tx.First(&point, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}

		var clash int64
		if err := tx.Model(&ContestedPoint{}).Where("name = ? AND id <> ?", newName, id).Count(&clash).Error; err != nil {
			return err
		}
		if clash > 0 {
			return ErrPointNameExists
		}

		result := tx.Model(&point).Updates(map[string]any{
			"name":        newName,
			"description": newDescription,
		})
		if result.Error != nil {
			if isUniqueViolation(result.Error, "idx_contested_points_name") {
				return ErrPointNameExists
			}
			return result.Error
		}
		updated = true

		return nil
	})
	if err != nil {
		return false, err
	}

	return updated, nil
}

func (d *TerritoryDAO) ListPoints(ctx context.Context, includeInactive bool) ([]ContestedPoint, error) {
	var points []ContestedPoint
	query := d.db.WithContext(ctx).Order("id")
	if !includeInactive {
		query = query.Where("is_active = ?", true)
	}
	if err := query.Find(&points).Error; err != nil {
		return nil, err
	}

	return points, nil
}

func (d *TerritoryDAO) FindPointByName(ctx context.Context, name string) (ContestedPoint, error) {
	var point ContestedPoint
	if err := d.db.WithContext(ctx).Where("name = ?", name).First(&point).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ContestedPoint{}, ErrPointNotFound
		}
		return ContestedPoint{}, err
	}

	return point, nil
}

func (d *TerritoryDAO) FindPointByID(ctx context.Context, id uint) (ContestedPoint, error) {
	var point ContestedPoint
	if err := d.db.WithContext(ctx).First(&point, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ContestedPoint{}, ErrPointNotFound
		}
		return ContestedPoint{}, err
	}

	return point, nil
}

func (d *TerritoryDAO) InsertCapture(ctx context.Context, event CaptureEvent) (CaptureEvent, error) {
	event.ID = 0
	event.RemovedAt = nil
	event.RemovedBy = ""
	if err := d.db.WithContext(ctx).Create(&event).Error; err != nil {
		return CaptureEvent{}, err
	}

	return event, nil
}

// ListActiveCaptures returns every capture that has not been removed, in no
// particular order.
func (d *TerritoryDAO) ListActiveCaptures(ctx context.Context) ([]CaptureEvent, error) {
	var events []CaptureEvent
	if err := d.db.WithContext(ctx).Where("removed_at IS NULL").Find(&events).Error; err != nil {
		return nil, err
	}

	return events, nil
}

func (d *TerritoryDAO) FindCaptureByID(ctx context.Context, id uint) (CaptureEvent, error) {
	var event CaptureEvent
	if err := d.db.WithContext(ctx).First(&event, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return CaptureEvent{}, ErrCaptureNotFound
		}
		return CaptureEvent{}, err
	}

	return event, nil
}

// RemoveCapture stamps removed_at once. A second call, or an unknown id,
// reports false.
func (d *TerritoryDAO) RemoveCapture(ctx context.Context, id uint, actor string, at time.Time) (bool, error) {
	result := d.db.WithContext(ctx).Model(&CaptureEvent{}).
		Where("id = ? AND removed_at IS NULL", id).
		Updates(map[string]any{"removed_at": at, "removed_by": actor})
	if result.Error != nil {
		return false, result.Error
	}

	return result.RowsAffected == 1, nil
}
