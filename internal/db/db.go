package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"
)

// GormStore keeps records in a single kv_entries table.
type GormStore struct {
	db *gorm.DB
}

func dialector(cfg Config) (gorm.Dialector, error) {
	switch cfg.Backend {
	case BackendMySQL:
		return mysql.Open(cfg.DSN), nil
	case BackendPostgres:
		return postgres.Open(cfg.DSN), nil
	case BackendSQLite:
		return sqlite.Open(cfg.DSN), nil
	}
	return nil, fmt.Errorf("db: backend %q is not SQL", cfg.Backend)
}

func OpenGormStore(cfg Config) (*GormStore, error) {
	d, err := dialector(cfg)
	if err != nil {
		return nil, err
	}
	gdb, err := gorm.Open(d, &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Warn)})
	if err != nil {
		return nil, fmt.Errorf("db: connect %s: %w", cfg.Backend, err)
	}
	return NewGormStore(gdb)
}

// NewGormStore wraps an open connection and migrates the table.
func NewGormStore(gdb *gorm.DB) (*GormStore, error) {
	if err := gdb.AutoMigrate(&KVEntry{}); err != nil {
		return nil, fmt.Errorf("db: migrate: %w", err)
	}
	return &GormStore{db: gdb}, nil
}

func (s *GormStore) Get(ctx context.Context, key string) ([]byte, error) {
	var e KVEntry
	err := s.db.WithContext(ctx).Where("record_key = ?", key).First(&e).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("db: get %s: %w", key, err)
	}
	return []byte(e.RecordValue), nil
}

func (s *GormStore) Put(ctx context.Context, key string, value []byte) error {
	e := KVEntry{RecordKey: key, RecordValue: datatypes.JSON(value), UpdatedAt: time.Now()}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "record_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"record_value", "updated_at"}),
	}).Create(&e).Error
	if err != nil {
		return fmt.Errorf("db: put %s: %w", key, err)
	}
	return nil
}

func (s *GormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

var _ Store = (*GormStore)(nil)
