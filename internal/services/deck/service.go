package deck

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/mcoot/flashdeck/internal/dependencies/ids"
	"github.com/mcoot/flashdeck/internal/events"
	"github.com/mcoot/flashdeck/internal/model"
	"github.com/mcoot/flashdeck/internal/storage"
)

// Service holds the logged-in user's games and persists them.
// Every save writes the whole collection back to storage.
type Service struct {
	storage storage.Storage
	ids     ids.Generator
	bus     *events.Bus
	logger  *slog.Logger

	mu       sync.Mutex
	username string
	games    []model.Game
}

// New creates a new deck Service
func New(storage storage.Storage, ids ids.Generator, bus *events.Bus, logger *slog.Logger) *Service {
	return &Service{
		storage: storage,
		ids:     ids,
		bus:     bus,
		logger:  logger.With(slog.String("component", "deck")),
	}
}

// Load reads the persisted games for username and makes them the active
// deck. A missing or corrupt deck loads as empty; only storage failures
// are returned.
func (s *Service) Load(ctx context.Context, username string) ([]model.Game, error) {
	games, err := s.read(ctx, username)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.username = username
	s.games = games
	out := cloneGames(games)
	s.mu.Unlock()

	s.logger.Debug("deck loaded",
		slog.String("username", username),
		slog.Int("game_count", len(games)))

	s.bus.Publish(events.Event{Kind: events.DeckChanged, Username: username})
	return out, nil
}

func (s *Service) read(ctx context.Context, username string) ([]model.Game, error) {
	data, err := s.storage.GetDeckData(ctx, username)
	if err != nil {
		if errors.Is(err, model.ErrDeckNotFound) {
			return []model.Game{}, nil
		}
		s.logger.Error("failed to read deck",
			slog.String("username", username),
			slog.String("error", err.Error()))
		return nil, err
	}

	games, err := model.DecodeDeck(data)
	if err != nil {
		s.logger.Warn("discarding unreadable deck",
			slog.String("username", username),
			slog.String("error", err.Error()))
		return []model.Game{}, nil
	}
	return games, nil
}

// Reset forgets the active user and any in-memory games
func (s *Service) Reset() {
	s.mu.Lock()
	s.username = ""
	s.games = nil
	s.mu.Unlock()
}

// Username returns the owner of the active deck, or "" when none is loaded
func (s *Service) Username() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.username
}

// Games returns a copy of the active deck in order
func (s *Service) Games() []model.Game {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneGames(s.games)
}

// Game returns a copy of the game with the given ID
func (s *Service) Game(id model.GameID) (model.Game, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.username == "" {
		return model.Game{}, model.ErrNotLoggedIn
	}
	i := indexOf(s.games, id)
	if i < 0 {
		return model.Game{}, model.ErrGameNotFound
	}
	return s.games[i].Clone(), nil
}

// SaveGame upserts game by ID: an existing game is replaced at its
// position, a new one is appended. The whole deck is then persisted; if
// that write fails the in-memory deck is left unchanged.
func (s *Service) SaveGame(ctx context.Context, game model.Game) error {
	if err := game.Validate(); err != nil {
		return err
	}
	game = game.Clone()

	s.mu.Lock()
	if s.username == "" {
		s.mu.Unlock()
		return model.ErrNotLoggedIn
	}
	username := s.username

	next := cloneGames(s.games)
	replaced := false
	if i := indexOf(next, game.ID); i >= 0 {
		next[i] = game
		replaced = true
	} else {
		next = append(next, game)
	}

	if err := s.persist(ctx, username, next); err != nil {
		s.mu.Unlock()
		return err
	}
	s.games = next
	s.mu.Unlock()

	s.logger.Info("game saved",
		slog.String("username", username),
		slog.String("game_id", string(game.ID)),
		slog.Int("card_count", len(game.Cards)),
		slog.Bool("replaced", replaced))

	s.bus.Publish(events.Event{Kind: events.DeckChanged, Username: username, GameID: string(game.ID)})
	return nil
}

func (s *Service) persist(ctx context.Context, username string, games []model.Game) error {
	data, err := model.EncodeDeck(games)
	if err != nil {
		return err
	}
	if err := s.storage.SaveDeckData(ctx, username, data); err != nil {
		s.logger.Error("failed to save deck",
			slog.String("username", username),
			slog.String("error", err.Error()))
		return err
	}
	return nil
}

// Edit flow. Each helper edits a copy of one game and saves it.

// CreateGame appends a new, empty game
func (s *Service) CreateGame(ctx context.Context, title string) (model.Game, error) {
	game := model.Game{
		ID:    model.GameID(s.ids.NewID()),
		Title: title,
		Cards: []model.Flashcard{},
	}
	if err := s.SaveGame(ctx, game); err != nil {
		return model.Game{}, err
	}
	return game, nil
}

// RenameGame changes a game's title
func (s *Service) RenameGame(ctx context.Context, id model.GameID, title string) (model.Game, error) {
	return s.edit(ctx, id, func(g *model.Game) error {
		g.Title = title
		return nil
	})
}

// AddCard appends a new card to a game
func (s *Service) AddCard(ctx context.Context, gameID model.GameID, question, answer string) (model.Flashcard, error) {
	card := model.Flashcard{
		ID:       model.CardID(s.ids.NewID()),
		Question: question,
		Answer:   answer,
	}
	_, err := s.edit(ctx, gameID, func(g *model.Game) error {
		g.Cards = append(g.Cards, card)
		return nil
	})
	if err != nil {
		return model.Flashcard{}, err
	}
	return card, nil
}

// UpdateCard replaces a card's question and answer, keeping its ID and position
func (s *Service) UpdateCard(ctx context.Context, gameID model.GameID, cardID model.CardID, question, answer string) (model.Game, error) {
	return s.edit(ctx, gameID, func(g *model.Game) error {
		card := g.GetCard(cardID)
		if card == nil {
			return model.ErrCardNotFound
		}
		card.Question = question
		card.Answer = answer
		return nil
	})
}

// RemoveCard deletes a card from a game
func (s *Service) RemoveCard(ctx context.Context, gameID model.GameID, cardID model.CardID) (model.Game, error) {
	return s.edit(ctx, gameID, func(g *model.Game) error {
		return g.RemoveCard(cardID)
	})
}

// MoveCard changes a card's position within its game
func (s *Service) MoveCard(ctx context.Context, gameID model.GameID, cardID model.CardID, to int) (model.Game, error) {
	return s.edit(ctx, gameID, func(g *model.Game) error {
		return g.MoveCard(cardID, to)
	})
}

func (s *Service) edit(ctx context.Context, id model.GameID, fn func(*model.Game) error) (model.Game, error) {
	game, err := s.Game(id)
	if err != nil {
		return model.Game{}, err
	}
	if err := fn(&game); err != nil {
		return model.Game{}, err
	}
	if err := s.SaveGame(ctx, game); err != nil {
		return model.Game{}, err
	}
	return game, nil
}

func indexOf(games []model.Game, id model.GameID) int {
	for i := range games {
		if games[i].ID == id {
			return i
		}
	}
	return -1
}

func cloneGames(games []model.Game) []model.Game {
	out := make([]model.Game, len(games))
	for i := range games {
		out[i] = games[i].Clone()
	}
	return out
}
