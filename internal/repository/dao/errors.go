package dao

import (
	"errors"
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	ErrUserEmailExists      = errors.New("user already exists")
	ErrUserNotFound         = errors.New("user not found")
	ErrPointNameExists      = errors.New("basepoint name already exists")
	ErrPointNotFound        = errors.New("basepoint not found")
	ErrCaptureNotFound      = errors.New("capture not found")
	ErrSessionAlreadyActive = errors.New("session already active")
	ErrSessionNotActive     = errors.New("session not active")
	ErrFactionNotFound      = errors.New("faction not found")
	ErrFactionNameExists    = errors.New("faction name already exists")
	ErrInsufficientBalance  = errors.New("insufficient faction balance")
	ErrInvalidAmount        = errors.New("amount must be positive")
)

// isUniqueViolation reports a unique constraint failure from either driver.
func isUniqueViolation(err error, constraint string) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgerrcode.UniqueViolation &&
			(constraint == "" || strings.Contains(pgErr.ConstraintName, constraint))
	}

	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
