// Package session persists the current login across restarts. Every
// auth-dependent code path reads and writes through one injected
// Store, so there is exactly one place token naming and lifetime are
// decided. Last writer wins.
package session

import (
	"encoding/json"
	"errors"
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"nft-storefront/internal/model"
)

// ErrNoSession is returned by Load when nobody is logged in.
var ErrNoSession = errors.New("no stored session")

// record is the single persisted row.
type record struct {
	ID           uint `gorm:"primaryKey"`
	AccessToken  string
	RefreshToken string
	UserJSON     string
	UpdatedAt    int64 `gorm:"autoUpdateTime"`
}

func (record) TableName() string { return "sessions" }

type Store struct {
	db *gorm.DB
}

func Open(path string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open session db: %w", err)
	}
	if err := db.AutoMigrate(&record{}); err != nil {
		return nil, fmt.Errorf("migrate session db: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Save(sess *model.Session) error {
	userJSON := ""
	if sess.User != nil {
		b, err := json.Marshal(sess.User)
		if err != nil {
			return fmt.Errorf("encode session user: %w", err)
		}
		userJSON = string(b)
	}

	rec := &record{
		ID:           1,
		AccessToken:  sess.Token,
		RefreshToken: sess.RefreshToken,
		UserJSON:     userJSON,
	}
	err := s.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"access_token", "refresh_token", "user_json", "updated_at",
		}),
	}).Create(rec).Error
	if err != nil {
		return fmt.Errorf("store session: %w", err)
	}
	return nil
}

func (s *Store) Load() (*model.Session, error) {
	var rec record
	err := s.db.First(&rec, 1).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNoSession
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}

	sess := &model.Session{
		Token:        rec.AccessToken,
		RefreshToken: rec.RefreshToken,
	}
	if rec.UserJSON != "" {
		var user model.User
		if err := json.Unmarshal([]byte(rec.UserJSON), &user); err != nil {
			// Corrupted user blob: drop it but keep the tokens.
			return sess, nil
		}
		sess.User = &user
	}
	return sess, nil
}

func (s *Store) Clear() error {
	err := s.db.Delete(&record{}, 1).Error
	if err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}
