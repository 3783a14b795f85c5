package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mcoot/flashdeck/internal/model"
	"github.com/mcoot/flashdeck/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface
type Storage struct {
	client *redis.Client
	keys   keys
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}

	return NewWithClient(client, cfg), nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	prefix := cfg.KeyPrefix
	if prefix == "" {
		prefix = DefaultConfig().KeyPrefix
	}
	return &Storage{
		client: client,
		keys:   keys{prefix: prefix},
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Credential operations

func (s *Storage) CreateCredential(ctx context.Context, cred *model.Credential) error {
	data, err := json.Marshal(cred)
	if err != nil {
		return err
	}

	// HSETNX only writes when the field is absent, so an existing
	// account is never overwritten
	created, err := s.client.HSetNX(ctx, s.keys.users(), cred.Username, data).Result()
	if err != nil {
		return err
	}
	if !created {
		return model.ErrDuplicateUser
	}
	return nil
}

func (s *Storage) GetCredential(ctx context.Context, username string) (*model.Credential, error) {
	data, err := s.client.HGet(ctx, s.keys.users(), username).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrUserNotFound
		}
		return nil, err
	}

	var cred model.Credential
	if err := json.Unmarshal(data, &cred); err != nil {
		return nil, fmt.Errorf("%w: credential %s: %v", model.ErrDeserialization, username, err)
	}
	return &cred, nil
}

// Session state operations

func (s *Storage) SaveSessionState(ctx context.Context, state model.SessionState) error {
	// Use pipeline so the flag and username change together
	pipe := s.client.TxPipeline()
	pipe.Set(ctx, s.keys.isLoggedIn(), strconv.FormatBool(state.LoggedIn), 0)
	if state.Username == "" {
		pipe.Del(ctx, s.keys.currentUsername())
	} else {
		pipe.Set(ctx, s.keys.currentUsername(), state.Username, 0)
	}
	_, err := pipe.Exec(ctx)
	return err
}

func (s *Storage) GetSessionState(ctx context.Context) (model.SessionState, error) {
	values, err := s.client.MGet(ctx, s.keys.isLoggedIn(), s.keys.currentUsername()).Result()
	if err != nil {
		return model.SessionState{}, err
	}

	var state model.SessionState
	if v, ok := values[0].(string); ok {
		state.LoggedIn, _ = strconv.ParseBool(v)
	}
	if v, ok := values[1].(string); ok {
		state.Username = v
	}
	return state, nil
}

// Streak operations

func (s *Storage) SaveStreak(ctx context.Context, username string, streak model.Streak) error {
	data, err := json.Marshal(streak)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.keys.streak(username), data, 0).Err()
}

func (s *Storage) GetStreak(ctx context.Context, username string) (model.Streak, error) {
	data, err := s.client.Get(ctx, s.keys.streak(username)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return model.Streak{}, model.ErrStreakNotFound
		}
		return model.Streak{}, err
	}

	var streak model.Streak
	if err := json.Unmarshal(data, &streak); err != nil {
		return model.Streak{}, fmt.Errorf("%w: streak %s: %v", model.ErrDeserialization, username, err)
	}
	return streak, nil
}

// Deck operations

func (s *Storage) SaveDeckData(ctx context.Context, username string, data []byte) error {
	return s.client.Set(ctx, s.keys.games(username), data, 0).Err()
}

func (s *Storage) GetDeckData(ctx context.Context, username string) ([]byte, error) {
	data, err := s.client.Get(ctx, s.keys.games(username)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrDeckNotFound
		}
		return nil, err
	}
	return data, nil
}
