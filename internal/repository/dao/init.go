package dao

import "gorm.io/gorm"

func InitTables(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&Faction{},
		&User{},
		&TreasuryTransaction{},
		&ContestedPoint{},
		&CaptureEvent{},
		&SessionState{},
	); err != nil {
		return err
	}

	return ensureSessionRow(db)
}
