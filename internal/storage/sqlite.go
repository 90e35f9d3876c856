package storage

import (
	"errors"
	"fmt"
	"reflect"
	"time"

	go_sqlite "github.com/glebarez/go-sqlite"
	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// Item is a single key-value pair in the database.
type Item struct {
	Key       string `gorm:"primaryKey"`
	Value     string
	UpdatedAt time.Time
}

// SQL is a Backend persisting to a sqlite database through gorm.
type SQL struct {
	db *gorm.DB
}

// Connect opens the sqlite database, migrates the schema and configures the
// connection pool.
func Connect(dsn string) (*SQL, error) {
	config := &gorm.Config{
		// Set generated timestamps in UTC
		NowFunc: func() time.Time {
			return time.Now().In(time.UTC)
		},
		Logger: &zerologAdapter{
			Logger: log.Logger,
		},
	}

	db, err := gorm.Open(sqlite.Open(dsn), config)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	err = db.AutoMigrate(Item{})
	if err != nil {
		return nil, fmt.Errorf("error during DB migration: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database object: %w", err)
	}

	// Get new connections after one hour
	sqlDB.SetConnMaxLifetime(time.Hour)

	// This is done to prevent SQLITE_BUSY errors. The engine assumes a single
	// active writer anyway, so a single connection loses us nothing.
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetMaxOpenConns(1)

	return &SQL{db: db}, nil
}

// DB returns the underlying gorm handle, e.g. for health checks.
func (s *SQL) DB() *gorm.DB {
	return s.db
}

// Ping verifies the database connection.
func (s *SQL) Ping() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}

	return sqlDB.Ping()
}

// Close closes the database connection.
func (s *SQL) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}

	return sqlDB.Close()
}

func (s *SQL) Get(key string) (string, bool, error) {
	var item Item
	err := s.db.First(&item, "key = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}

	if err != nil {
		return "", false, generalError(err)
	}

	return item.Value, true, nil
}

func (s *SQL) Set(key, value string) error {
	err := s.db.Save(&Item{Key: key, Value: value}).Error
	if err != nil {
		return generalError(err)
	}

	return nil
}

func (s *SQL) Delete(key string) error {
	err := s.db.Delete(&Item{}, "key = ?", key).Error
	if err != nil {
		return generalError(err)
	}

	return nil
}

// generalError handles unspecified database errors.
//
// For these errors, we cannot provide the user with a helpful message.
// Instead, the error is logged and a general message is returned so that
// server admins can debug.
func generalError(err error) error {
	if err.Error() == "sql: database is closed" || reflect.TypeOf(err) == reflect.TypeOf(&go_sqlite.Error{}) {
		log.Error().Msgf("%T: %v", err, err.Error())
		return ErrStorage
	}

	return err
}
