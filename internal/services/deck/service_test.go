package deck

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/flashdeck/internal/dependencies/mocks"
	"github.com/mcoot/flashdeck/internal/events"
	"github.com/mcoot/flashdeck/internal/model"
	"github.com/mcoot/flashdeck/internal/storage/memory"
	"github.com/mcoot/flashdeck/internal/testutil"
)

var errDiskFull = errors.New("disk full")

// flakyStorage fails deck writes on demand
type flakyStorage struct {
	*memory.Storage
	failSaves bool
}

func (f *flakyStorage) SaveDeckData(ctx context.Context, username string, data []byte) error {
	if f.failSaves {
		return errDiskFull
	}
	return f.Storage.SaveDeckData(ctx, username, data)
}

type ServiceSuite struct {
	suite.Suite
	storage *flakyStorage
	ids     *mocks.MockIDs
	bus     *events.Bus
	logs    *bytes.Buffer
	service *Service
	ctx     context.Context
	events  []events.Event
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	logger, logs := testutil.CaptureLogger()
	s.logs = logs
	s.storage = &flakyStorage{Storage: memory.New()}
	s.ids = mocks.NewMockIDs()
	s.bus = events.NewBus(logger)
	s.service = New(s.storage, s.ids, s.bus, logger)
	s.ctx = context.Background()
	s.events = nil
	s.bus.Subscribe(func(e events.Event) { s.events = append(s.events, e) })
}

func (s *ServiceSuite) loadAlice() {
	_, err := s.service.Load(s.ctx, "alice")
	s.Require().NoError(err)
}

func (s *ServiceSuite) game(id, title string) model.Game {
	return model.Game{ID: model.GameID(id), Title: title, Cards: []model.Flashcard{}}
}

func (s *ServiceSuite) persisted(username string) []model.Game {
	data, err := s.storage.GetDeckData(s.ctx, username)
	s.Require().NoError(err)
	games, err := model.DecodeDeck(data)
	s.Require().NoError(err)
	return games
}

func titles(games []model.Game) []string {
	out := make([]string, len(games))
	for i, g := range games {
		out[i] = g.Title
	}
	return out
}

// Load tests

func (s *ServiceSuite) TestLoadMissingDeckIsEmpty() {
	games, err := s.service.Load(s.ctx, "alice")
	s.Require().NoError(err)
	s.Empty(games)
	s.Equal("alice", s.service.Username())
}

func (s *ServiceSuite) TestLoadCorruptDeckIsEmpty() {
	_ = s.storage.SaveDeckData(s.ctx, "alice", []byte(`{"this is":"not a deck"`))

	games, err := s.service.Load(s.ctx, "alice")
	s.Require().NoError(err)
	s.Empty(games)
	s.Contains(s.logs.String(), "discarding unreadable deck")
}

func (s *ServiceSuite) TestLoadIsNamespacedByUser() {
	s.loadAlice()
	s.Require().NoError(s.service.SaveGame(s.ctx, s.game("g1", "Alice's")))

	games, err := s.service.Load(s.ctx, "bob")
	s.Require().NoError(err)
	s.Empty(games)

	games, err = s.service.Load(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal([]string{"Alice's"}, titles(games))
}

func (s *ServiceSuite) TestLoadPublishesDeckChanged() {
	s.loadAlice()

	s.Require().Len(s.events, 1)
	s.Equal(events.DeckChanged, s.events[0].Kind)
	s.Equal("alice", s.events[0].Username)
}

// SaveGame tests

func (s *ServiceSuite) TestSaveGameRequiresLogin() {
	err := s.service.SaveGame(s.ctx, s.game("g1", "t"))
	s.ErrorIs(err, model.ErrNotLoggedIn)
}

func (s *ServiceSuite) TestSaveGameAppendsNewGames() {
	s.loadAlice()

	s.Require().NoError(s.service.SaveGame(s.ctx, s.game("g0", "zero")))
	s.Require().NoError(s.service.SaveGame(s.ctx, s.game("g1", "one")))

	s.Equal([]string{"zero", "one"}, titles(s.service.Games()))
	s.Equal([]string{"zero", "one"}, titles(s.persisted("alice")))
}

func (s *ServiceSuite) TestSaveGameReplacesInPlace() {
	s.loadAlice()
	for _, g := range []model.Game{s.game("g0", "0"), s.game("g1", "1"), s.game("g2", "2")} {
		s.Require().NoError(s.service.SaveGame(s.ctx, g))
	}

	s.Require().NoError(s.service.SaveGame(s.ctx, s.game("g1", "1'")))

	s.Equal([]string{"0", "1'", "2"}, titles(s.service.Games()))
	s.Equal([]string{"0", "1'", "2"}, titles(s.persisted("alice")))
}

func (s *ServiceSuite) TestSaveGameRejectsInvalidGame() {
	s.loadAlice()

	game := s.game("g1", "t")
	game.Cards = []model.Flashcard{{ID: "c"}, {ID: "c"}}

	s.ErrorIs(s.service.SaveGame(s.ctx, game), model.ErrInvalidGame)
	s.Empty(s.service.Games())
}

func (s *ServiceSuite) TestSaveGameRollsBackOnWriteFailure() {
	s.loadAlice()
	s.Require().NoError(s.service.SaveGame(s.ctx, s.game("g1", "before")))

	s.storage.failSaves = true
	err := s.service.SaveGame(s.ctx, s.game("g1", "after"))
	s.ErrorIs(err, errDiskFull)

	s.Equal([]string{"before"}, titles(s.service.Games()))
}

func (s *ServiceSuite) TestSaveGameCopiesInput() {
	s.loadAlice()
	game := s.game("g1", "t")
	game.Cards = append(game.Cards, model.Flashcard{ID: "c1", Question: "q"})
	s.Require().NoError(s.service.SaveGame(s.ctx, game))

	game.Cards[0].Question = "mutated"

	stored, err := s.service.Game("g1")
	s.Require().NoError(err)
	s.Equal("q", stored.Cards[0].Question)
}

func (s *ServiceSuite) TestSaveGamePublishesDeckChanged() {
	s.loadAlice()
	s.events = nil

	s.Require().NoError(s.service.SaveGame(s.ctx, s.game("g1", "t")))

	s.Require().Len(s.events, 1)
	s.Equal(events.DeckChanged, s.events[0].Kind)
	s.Equal("g1", s.events[0].GameID)
}

func (s *ServiceSuite) TestResetForgetsDeck() {
	s.loadAlice()
	s.Require().NoError(s.service.SaveGame(s.ctx, s.game("g1", "t")))

	s.service.Reset()

	s.Empty(s.service.Username())
	s.Empty(s.service.Games())
	s.ErrorIs(s.service.SaveGame(s.ctx, s.game("g2", "t")), model.ErrNotLoggedIn)
}

// Edit flow tests

func (s *ServiceSuite) TestCreateGameAssignsID() {
	s.loadAlice()
	s.ids.Queue("game-1")

	game, err := s.service.CreateGame(s.ctx, "Capitals")
	s.Require().NoError(err)
	s.Equal(model.GameID("game-1"), game.ID)
	s.Equal("Capitals", game.Title)
	s.Empty(game.Cards)
	s.Len(s.persisted("alice"), 1)
}

func (s *ServiceSuite) TestRenameGame() {
	s.loadAlice()
	game, _ := s.service.CreateGame(s.ctx, "Old")

	renamed, err := s.service.RenameGame(s.ctx, game.ID, "New")
	s.Require().NoError(err)
	s.Equal("New", renamed.Title)
	s.Equal([]string{"New"}, titles(s.persisted("alice")))
}

func (s *ServiceSuite) TestRenameUnknownGame() {
	s.loadAlice()
	_, err := s.service.RenameGame(s.ctx, "missing", "New")
	s.ErrorIs(err, model.ErrGameNotFound)
}

func (s *ServiceSuite) TestCardEditFlow() {
	s.loadAlice()
	s.ids.Queue("g", "c1", "c2", "c3")
	game, _ := s.service.CreateGame(s.ctx, "Capitals")

	_, err := s.service.AddCard(s.ctx, game.ID, "France?", "Paris")
	s.Require().NoError(err)
	_, err = s.service.AddCard(s.ctx, game.ID, "Spain?", "Madrid")
	s.Require().NoError(err)
	_, err = s.service.AddCard(s.ctx, game.ID, "Italy?", "Rome")
	s.Require().NoError(err)

	_, err = s.service.UpdateCard(s.ctx, game.ID, "c2", "Spain?", "Madrid!")
	s.Require().NoError(err)
	_, err = s.service.MoveCard(s.ctx, game.ID, "c3", 0)
	s.Require().NoError(err)
	_, err = s.service.RemoveCard(s.ctx, game.ID, "c1")
	s.Require().NoError(err)

	stored := s.persisted("alice")[0]
	s.Equal([]model.Flashcard{
		{ID: "c3", Question: "Italy?", Answer: "Rome"},
		{ID: "c2", Question: "Spain?", Answer: "Madrid!"},
	}, stored.Cards)
}

func (s *ServiceSuite) TestEditUnknownCard() {
	s.loadAlice()
	game, _ := s.service.CreateGame(s.ctx, "t")

	_, err := s.service.UpdateCard(s.ctx, game.ID, "missing", "q", "a")
	s.ErrorIs(err, model.ErrCardNotFound)
	_, err = s.service.RemoveCard(s.ctx, game.ID, "missing")
	s.ErrorIs(err, model.ErrCardNotFound)
}
