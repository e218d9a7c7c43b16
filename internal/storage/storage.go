package storage

import (
	"errors"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// StateBlob is one durable key/value row. The terminal keeps client-side
// state (the session, nothing else today) as opaque JSON blobs, the same
// way the browser build kept them in localStorage.
type StateBlob struct {
	Key       string `gorm:"primaryKey;size:64"`
	Value     string
	UpdatedAt time.Time
}

// Store is the durable client-side state store backed by a local sqlite
// file. It is NOT a server database: bills, categories and everything else
// live behind the remote API.
type Store struct {
	db *gorm.DB
}

// Open opens (or creates) the state file and syncs the schema.
func Open(path string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(&StateBlob{}); err != nil {
		return nil, err
	}

	return &Store{db: db}, nil
}

// Load returns the blob stored under key, or ok=false if there is none.
func (s *Store) Load(key string) ([]byte, bool, error) {
	var row StateBlob
	err := s.db.First(&row, "key = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return []byte(row.Value), true, nil
}

// Save writes the blob under key, replacing any previous value.
func (s *Store) Save(key string, value []byte) error {
	row := StateBlob{Key: key, Value: string(value), UpdatedAt: time.Now()}
	return s.db.Save(&row).Error
}

// Delete removes the blob under key. Deleting a missing key is not an error.
func (s *Store) Delete(key string) error {
	return s.db.Delete(&StateBlob{}, "key = ?", key).Error
}
