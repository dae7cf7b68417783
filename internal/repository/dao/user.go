package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

type User struct {
	ID uint `gorm:"primaryKey"`

	Email    string `gorm:"uniqueIndex:uni_users_email;not null"`
	Password string `gorm:"not null"`

	Role string `gorm:"not null"` // "admin" or "member"
	Name string `gorm:"not null"`

	FactionID *uint    `gorm:"index"`
	Faction   *Faction `gorm:"foreignKey:FactionID"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

type UserDAO struct {
	db *gorm.DB
}

func NewUserDAO(db *gorm.DB) *UserDAO {
	return &UserDAO{
		db: db,
	}
}

func (d *UserDAO) Insert(ctx context.Context, user User) (User, error) {
	result := d.db.WithContext(ctx).Omit("Faction").Create(&user)
	if result.Error != nil {
		if isUniqueViolation(result.Error, "uni_users_email") {
			return User{}, ErrUserEmailExists
		}

		return User{}, result.Error
	}

	return user, nil
}

func (d *UserDAO) FindByID(ctx context.Context, id uint) (User, error) {
	user := User{}
	result := d.db.WithContext(ctx).Preload("Faction").First(&user, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return User{}, ErrUserNotFound
		}

		return User{}, result.Error
	}

	return user, nil
}

func (d *UserDAO) FindByEmail(ctx context.Context, email string) (User, error) {
	user := User{}
	result := d.db.WithContext(ctx).Preload("Faction").Where("email = ?", email).First(&user)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return User{}, ErrUserNotFound
		}

		return User{}, result.Error
	}

	return user, nil
}

// SetFaction moves a user into a faction, or out of any faction when
// factionID is nil.
func (d *UserDAO) SetFaction(ctx context.Context, userID uint, factionID *uint) error {
	result := d.db.WithContext(ctx).Model(&User{}).
		Where("id = ?", userID).
		Update("faction_id", factionID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}

	return nil
}

func (d *UserDAO) FindByFaction(ctx context.Context, factionID uint) ([]User, error) {
	var users []User
	result := d.db.WithContext(ctx).Where("faction_id = ?", factionID).Order("id").Find(&users)
	if result.Error != nil {
		return nil, result.Error
	}

	return users, nil
}
