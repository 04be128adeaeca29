// Package session persists the bearer token across client restarts.
//
// Storage is a single-table sqlite database local to the client instance.
// Only the token lives here; everything else is server-side.
package session

import (
	"github.com/glebarez/sqlite"
	"github.com/go-faster/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

const tokenKey = "token"

type entry struct {
	Key   string `gorm:"primaryKey;size:64"`
	Value string
}

func (entry) TableName() string { return "session" }

// Store is a persistent key-value session store.
type Store struct {
	db *gorm.DB
}

// Open creates or opens the session database at path. ":memory:" is
// accepted for throwaway sessions.
func Open(path string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, errors.Wrap(err, "open session db")
	}
	if err := db.AutoMigrate(&entry{}); err != nil {
		return nil, errors.Wrap(err, "migrate session db")
	}
	return &Store{db: db}, nil
}

// SetToken stores the bearer token, replacing any previous one.
func (s *Store) SetToken(token string) error {
	err := s.db.
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(&entry{Key: tokenKey, Value: token}).Error
	return errors.Wrap(err, "save token")
}

// Token returns the stored bearer token, or "" when no session exists.
func (s *Store) Token() (string, error) {
	var e entry
	err := s.db.First(&e, "key = ?", tokenKey).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", errors.Wrap(err, "load token")
	}
	return e.Value, nil
}

// RemoveToken deletes the stored token. Removing an absent token is not an
// error.
func (s *Store) RemoveToken() error {
	err := s.db.Delete(&entry{}, "key = ?", tokenKey).Error
	return errors.Wrap(err, "remove token")
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	db, err := s.db.DB()
	if err != nil {
		return errors.Wrap(err, "unwrap session db")
	}
	return db.Close()
}
