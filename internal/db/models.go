package db

import (
	"time"

	"gorm.io/datatypes"
)

// KVEntry is one key/value record in the SQL backends.
type KVEntry struct {
	RecordKey   string         `gorm:"column:record_key;primaryKey;size:191"`
	RecordValue datatypes.JSON `gorm:"column:record_value"`
	UpdatedAt   time.Time      `gorm:"column:updated_at"`
}

func (KVEntry) TableName() string { return "kv_entries" }
