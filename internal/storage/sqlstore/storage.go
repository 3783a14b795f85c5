package sqlstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"

	"github.com/mcoot/flashdeck/internal/model"
	"github.com/mcoot/flashdeck/internal/storage"
)

// setting is one row of the key-value table
type setting struct {
	Name      string `gorm:"primaryKey;size:255"`
	Value     string `gorm:"type:text;not null"`
	UpdatedAt time.Time
}

func (setting) TableName() string {
	return "settings"
}

// Storage is a SQL-backed key-value implementation of the storage interface
type Storage struct {
	db *gorm.DB
}

// New opens the database described by cfg and migrates the settings table
func New(cfg Config) (*Storage, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case DriverSQLite, "":
		dialector = sqlite.Open(cfg.DSN)
	case DriverPostgres:
		dialector = postgres.Open(cfg.DSN)
	default:
		return nil, fmt.Errorf("unsupported sql driver %q", cfg.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, err
	}

	return NewWithDB(db)
}

// NewWithDB creates a Storage on an existing connection
func NewWithDB(db *gorm.DB) (*Storage, error) {
	if err := db.AutoMigrate(&setting{}); err != nil {
		return nil, fmt.Errorf("failed to migrate settings table: %w", err)
	}
	return &Storage{db: db}, nil
}

// Close closes the underlying connection pool
func (s *Storage) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// get returns the value stored under name and whether it exists
func get(tx *gorm.DB, name string) (string, bool, error) {
	var row setting
	err := tx.Take(&row, "name = ?", name).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", false, nil
		}
		return "", false, err
	}
	return row.Value, true, nil
}

// put inserts or replaces the value stored under name
func put(tx *gorm.DB, name, value string) error {
	return tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&setting{Name: name, Value: value}).Error
}

// Credential operations

func (s *Storage) CreateCredential(ctx context.Context, cred *model.Credential) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		users, err := loadUsers(tx)
		if err != nil {
			return err
		}
		if _, ok := users[cred.Username]; ok {
			return model.ErrDuplicateUser
		}
		users[cred.Username] = *cred

		data, err := json.Marshal(users)
		if err != nil {
			return err
		}
		return put(tx, usersKey, string(data))
	})
}

func (s *Storage) GetCredential(ctx context.Context, username string) (*model.Credential, error) {
	users, err := loadUsers(s.db.WithContext(ctx))
	if err != nil {
		return nil, err
	}
	cred, ok := users[username]
	if !ok {
		return nil, model.ErrUserNotFound
	}
	return &cred, nil
}

// loadUsers reads the single users record (username -> credential)
func loadUsers(tx *gorm.DB) (map[string]model.Credential, error) {
	value, ok, err := get(tx, usersKey)
	if err != nil {
		return nil, err
	}
	users := make(map[string]model.Credential)
	if !ok {
		return users, nil
	}
	if err := json.Unmarshal([]byte(value), &users); err != nil {
		return nil, fmt.Errorf("%w: users record: %v", model.ErrDeserialization, err)
	}
	return users, nil
}

// Session state operations

func (s *Storage) SaveSessionState(ctx context.Context, state model.SessionState) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := put(tx, isLoggedInKey, strconv.FormatBool(state.LoggedIn)); err != nil {
			return err
		}
		return put(tx, currentUsernameKey, state.Username)
	})
}

func (s *Storage) GetSessionState(ctx context.Context) (model.SessionState, error) {
	db := s.db.WithContext(ctx)

	var state model.SessionState
	flag, ok, err := get(db, isLoggedInKey)
	if err != nil {
		return state, err
	}
	if ok {
		state.LoggedIn, _ = strconv.ParseBool(flag)
	}

	username, _, err := get(db, currentUsernameKey)
	if err != nil {
		return state, err
	}
	state.Username = username
	return state, nil
}

// Streak operations

func (s *Storage) SaveStreak(ctx context.Context, username string, streak model.Streak) error {
	data, err := json.Marshal(streak)
	if err != nil {
		return err
	}
	return put(s.db.WithContext(ctx), streakKey(username), string(data))
}

func (s *Storage) GetStreak(ctx context.Context, username string) (model.Streak, error) {
	value, ok, err := get(s.db.WithContext(ctx), streakKey(username))
	if err != nil {
		return model.Streak{}, err
	}
	if !ok {
		return model.Streak{}, model.ErrStreakNotFound
	}

	var streak model.Streak
	if err := json.Unmarshal([]byte(value), &streak); err != nil {
		return model.Streak{}, fmt.Errorf("%w: streak %s: %v", model.ErrDeserialization, username, err)
	}
	return streak, nil
}

// Deck operations

func (s *Storage) SaveDeckData(ctx context.Context, username string, data []byte) error {
	return put(s.db.WithContext(ctx), gamesKey(username), string(data))
}

func (s *Storage) GetDeckData(ctx context.Context, username string) ([]byte, error) {
	value, ok, err := get(s.db.WithContext(ctx), gamesKey(username))
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, model.ErrDeckNotFound
	}
	return []byte(value), nil
}
