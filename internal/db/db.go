package db

import (
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/vietanh2810/basepoint-api/internal/config"
	"github.com/vietanh2810/basepoint-api/internal/repository/dao"
)

func gormConfig() *gorm.Config {
	return &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Warn),
		TranslateError: true,
	}
}

func OpenPostgres(conf *config.PostgresConfig) (*gorm.DB, error) {
	return OpenPostgresWithURL(conf.DSN())
}

func OpenPostgresWithURL(url string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(url), gormConfig())
	if err != nil {
		return nil, fmt.Errorf("gorm.Open -> %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("db.DB -> %w", err)
	}
	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetConnMaxIdleTime(5 * time.Minute)

	return db, nil
}

// OpenSQLite opens a file-backed database. An empty path gives a private
// in-memory database.
func OpenSQLite(path string) (*gorm.DB, error) {
	dsn := "file::memory:"
	if path != "" {
		dsn = fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", path)
	}
	db, err := gorm.Open(sqlite.Open(dsn), gormConfig())
	if err != nil {
		return nil, fmt.Errorf("gorm.Open -> %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("db.DB -> %w", err)
	}
	// SQLite allows a single writer.
	sqlDB.SetMaxOpenConns(1)

	return db, nil
}

// Open picks the driver from config. DATABASE_URL, when set, wins over the
// postgres section.
func Open(conf *config.AppConfig, databaseURL string) (*gorm.DB, error) {
	var (
		gdb *gorm.DB
		err error
	)
	switch {
	case conf.Database.Driver == config.DriverSQLite:
		gdb, err = OpenSQLite(conf.Database.SQLitePath)
	case databaseURL != "":
		gdb, err = OpenPostgresWithURL(databaseURL)
	default:
		gdb, err = OpenPostgres(conf.Postgres)
	}
	if err != nil {
		return nil, err
	}

	return gdb, nil
}

// Migrate creates or updates the schema and seeds singleton rows.
func Migrate(gdb *gorm.DB) error {
	if err := dao.InitTables(gdb); err != nil {
		return fmt.Errorf("dao.InitTables -> %w", err)
	}
	return nil
}
