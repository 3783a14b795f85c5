package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode"

	"golang.org/x/crypto/bcrypt"

	"github.com/mcoot/flashdeck/internal/dependencies/clock"
	"github.com/mcoot/flashdeck/internal/events"
	"github.com/mcoot/flashdeck/internal/model"
	"github.com/mcoot/flashdeck/internal/storage"
	"github.com/mcoot/flashdeck/pkg/validator"
)

const (
	maxUsernameLength = 64
	// bcrypt only accepts passwords up to 72 bytes
	maxPasswordBytes = 72
)

// DeckLoader is the part of the deck store the session manager drives:
// decks are loaded on login or restore and dropped on logout.
type DeckLoader interface {
	Load(ctx context.Context, username string) ([]model.Game, error)
	Reset()
}

// Config holds configuration for the auth service
type Config struct {
	BcryptCost        int
	MinPasswordLength int
}

// DefaultConfig returns default auth configuration
func DefaultConfig() Config {
	return Config{
		BcryptCost:        bcrypt.DefaultCost,
		MinPasswordLength: 1,
	}
}

// Service handles registration, login and the daily login streak
type Service struct {
	storage storage.Storage
	decks   DeckLoader
	clock   clock.Clock
	bus     *events.Bus
	logger  *slog.Logger
	cfg     Config
}

// New creates a new auth Service
func New(storage storage.Storage, decks DeckLoader, clock clock.Clock, bus *events.Bus, cfg Config, logger *slog.Logger) *Service {
	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = DefaultConfig().BcryptCost
	}
	if cfg.MinPasswordLength == 0 {
		cfg.MinPasswordLength = DefaultConfig().MinPasswordLength
	}
	return &Service{
		storage: storage,
		decks:   decks,
		clock:   clock,
		bus:     bus,
		logger:  logger.With(slog.String("component", "auth")),
		cfg:     cfg,
	}
}

// Register creates an account. It does not log the user in.
func (s *Service) Register(ctx context.Context, username, password string) error {
	if err := validateUsername(username); err != nil {
		return err
	}
	if len(password) < s.cfg.MinPasswordLength {
		return model.ErrPasswordTooShort
	}
	if len(password) > maxPasswordBytes {
		return model.ErrPasswordTooLong
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cfg.BcryptCost)
	if err != nil {
		return err
	}

	cred := &model.Credential{
		Username:     username,
		PasswordHash: string(hash),
		CreatedAt:    s.clock.Now(),
	}
	if err := s.storage.CreateCredential(ctx, cred); err != nil {
		if !errors.Is(err, model.ErrDuplicateUser) {
			s.logger.Error("failed to save credential",
				slog.String("username", username),
				slog.String("error", err.Error()))
		}
		return err
	}

	s.logger.Info("user registered", slog.String("username", username))
	return nil
}

// Login checks the password, loads the user's decks, counts the day
// towards the streak and marks the user as logged in on this installation.
// Unknown users and wrong passwords both fail with
// model.ErrInvalidCredentials. A failed login leaves the persisted session
// and streak as they were.
func (s *Service) Login(ctx context.Context, username, password string) (*model.Session, error) {
	cred, err := s.storage.GetCredential(ctx, username)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			return nil, model.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(cred.PasswordHash), []byte(password)); err != nil {
		return nil, model.ErrInvalidCredentials
	}

	prev, err := s.storage.GetSessionState(ctx)
	if err != nil {
		return nil, err
	}

	streak, changed, err := s.updateStreak(ctx, username)
	if err != nil {
		return nil, err
	}

	if _, err := s.decks.Load(ctx, username); err != nil {
		return nil, fmt.Errorf("failed to load decks: %w", err)
	}

	if err := s.storage.SaveSessionState(ctx, model.SessionState{LoggedIn: true, Username: username}); err != nil {
		s.rollbackLogin(ctx, prev)
		return nil, err
	}

	if changed {
		if err := s.storage.SaveStreak(ctx, username, streak); err != nil {
			s.logger.Error("failed to save streak",
				slog.String("username", username),
				slog.String("error", err.Error()))
			s.rollbackLogin(ctx, prev)
			return nil, err
		}

		s.logger.Debug("streak updated",
			slog.String("username", username),
			slog.Int("count", streak.Count),
			slog.String("day", streak.LastLogin.String()))
		s.bus.Publish(events.Event{Kind: events.StreakUpdated, Username: username})
	}

	s.logger.Info("user logged in",
		slog.String("username", username),
		slog.Int("streak", streak.Count))

	s.bus.Publish(events.Event{Kind: events.SessionChanged, Username: username})
	return &model.Session{Username: username, Streak: streak}, nil
}

// updateStreak counts today's login against the stored streak. The result
// is not persisted; changed is false when today was already counted.
func (s *Service) updateStreak(ctx context.Context, username string) (model.Streak, bool, error) {
	streak, err := s.Streak(ctx, username)
	if err != nil {
		return model.Streak{}, false, err
	}
	now := s.clock.Now()
	changed := streak.RecordLogin(model.DayOf(now, now.Location()))
	return streak, changed, nil
}

// rollbackLogin puts back the session that was active before a failed
// login and the decks that belong to it
func (s *Service) rollbackLogin(ctx context.Context, prev model.SessionState) {
	if err := s.storage.SaveSessionState(ctx, prev); err != nil {
		s.logger.Error("failed to restore previous session",
			slog.String("username", prev.Username),
			slog.String("error", err.Error()))
	}

	if prev.LoggedIn && prev.Username != "" {
		if _, err := s.decks.Load(ctx, prev.Username); err == nil {
			return
		}
	}
	s.decks.Reset()
	s.bus.Publish(events.Event{Kind: events.DeckChanged})
}

// Logout clears the installation's session. In-memory deck state is
// abandoned, not saved.
func (s *Service) Logout(ctx context.Context) error {
	state, err := s.storage.GetSessionState(ctx)
	if err != nil {
		return err
	}

	if err := s.storage.SaveSessionState(ctx, model.SessionState{}); err != nil {
		return err
	}
	s.decks.Reset()

	if state.LoggedIn {
		s.logger.Info("user logged out", slog.String("username", state.Username))
	}
	s.bus.Publish(events.Event{Kind: events.SessionChanged})
	return nil
}

// Restore resumes a session persisted by an earlier Login and loads its
// decks. It does not count towards the streak.
func (s *Service) Restore(ctx context.Context) (*model.Session, error) {
	session, err := s.Current(ctx)
	if err != nil {
		return nil, err
	}

	if _, err := s.decks.Load(ctx, session.Username); err != nil {
		return nil, fmt.Errorf("failed to load decks: %w", err)
	}

	s.logger.Debug("session restored", slog.String("username", session.Username))
	s.bus.Publish(events.Event{Kind: events.SessionChanged, Username: session.Username})
	return session, nil
}

// Current returns the persisted session, or model.ErrNotLoggedIn
func (s *Service) Current(ctx context.Context) (*model.Session, error) {
	state, err := s.storage.GetSessionState(ctx)
	if err != nil {
		return nil, err
	}
	if !state.LoggedIn || state.Username == "" {
		return nil, model.ErrNotLoggedIn
	}

	streak, err := s.Streak(ctx, state.Username)
	if err != nil {
		return nil, err
	}
	return &model.Session{Username: state.Username, Streak: streak}, nil
}

// Streak returns a user's login streak. Users who never logged in, or
// whose streak record cannot be read, have a zero streak.
func (s *Service) Streak(ctx context.Context, username string) (model.Streak, error) {
	streak, err := s.storage.GetStreak(ctx, username)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrStreakNotFound):
			return model.Streak{}, nil
		case errors.Is(err, model.ErrDeserialization):
			s.logger.Warn("discarding unreadable streak",
				slog.String("username", username),
				slog.String("error", err.Error()))
			return model.Streak{}, nil
		}
		return model.Streak{}, err
	}
	return streak, nil
}

func validateUsername(username string) error {
	if err := validator.ValidateVar(username, fmt.Sprintf("required,max=%d", maxUsernameLength)); err != nil {
		return model.ErrInvalidUsername
	}
	if strings.IndexFunc(username, unicode.IsSpace) >= 0 {
		return model.ErrInvalidUsername
	}
	return nil
}
