package study

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/flashdeck/internal/model"
)

type SessionSuite struct {
	suite.Suite
	game    model.Game
	session *Session
}

func TestSessionSuite(t *testing.T) {
	suite.Run(t, new(SessionSuite))
}

func (s *SessionSuite) SetupTest() {
	s.game = model.Game{
		ID:    "g1",
		Title: "Capitals",
		Cards: []model.Flashcard{
			{ID: "c1", Question: "France?", Answer: "Paris"},
			{ID: "c2", Question: "Spain?", Answer: "Madrid"},
		},
	}
	s.session = New(s.game)
}

func (s *SessionSuite) side(id model.CardID) Side {
	side, err := s.session.Side(id)
	s.Require().NoError(err)
	return side
}

func (s *SessionSuite) TestNewSessionStartsOnQuestions() {
	card, side, err := s.session.Current()
	s.Require().NoError(err)
	s.Equal(model.CardID("c1"), card.ID)
	s.Equal(SideQuestion, side)
	s.Equal(SideQuestion, s.side("c1"))
	s.Equal(SideQuestion, s.side("c2"))
	s.False(s.session.Done())
	s.Equal("Capitals", s.session.Title())
	s.Equal(model.GameID("g1"), s.session.GameID())
}

func (s *SessionSuite) TestFlipToggles() {
	side, err := s.session.Flip()
	s.Require().NoError(err)
	s.Equal(SideAnswer, side)

	side, err = s.session.Flip()
	s.Require().NoError(err)
	s.Equal(SideQuestion, side)
	s.Equal(2, s.session.Flips())
}

func (s *SessionSuite) TestReturningToACardShowsQuestion() {
	_, _ = s.session.Flip()
	s.Equal(SideAnswer, s.side("c1"))

	done, err := s.session.Next()
	s.Require().NoError(err)
	s.False(done)

	s.Require().NoError(s.session.Prev())
	_, side, err := s.session.Current()
	s.Require().NoError(err)
	s.Equal(SideQuestion, side)
}

func (s *SessionSuite) TestAdvancingShowsQuestion() {
	_, _ = s.session.Toggle("c2")
	s.Equal(SideAnswer, s.side("c2"))

	_, _ = s.session.Next()

	card, side, err := s.session.Current()
	s.Require().NoError(err)
	s.Equal(model.CardID("c2"), card.ID)
	s.Equal(SideQuestion, side)
}

func (s *SessionSuite) TestNextPastLastCardCompletes() {
	done, err := s.session.Next()
	s.Require().NoError(err)
	s.False(done)

	done, err = s.session.Next()
	s.Require().NoError(err)
	s.True(done)
	s.True(s.session.Done())

	index, total := s.session.Position()
	s.Equal(2, index)
	s.Equal(2, total)
}

func (s *SessionSuite) TestCompletedSessionIsTerminal() {
	_, _ = s.session.Next()
	_, _ = s.session.Next()

	_, _, err := s.session.Current()
	s.ErrorIs(err, ErrSessionComplete)
	_, err = s.session.Flip()
	s.ErrorIs(err, ErrSessionComplete)
	_, err = s.session.Toggle("c1")
	s.ErrorIs(err, ErrSessionComplete)
	done, err := s.session.Next()
	s.True(done)
	s.ErrorIs(err, ErrSessionComplete)
	s.ErrorIs(s.session.Prev(), ErrSessionComplete)
	s.ErrorIs(s.session.Jump(0), ErrSessionComplete)
}

func (s *SessionSuite) TestPrevOnFirstCardIsNoop() {
	s.Require().NoError(s.session.Prev())

	index, _ := s.session.Position()
	s.Equal(0, index)
}

func (s *SessionSuite) TestJump() {
	s.Require().NoError(s.session.Jump(1))
	card, _, _ := s.session.Current()
	s.Equal(model.CardID("c2"), card.ID)

	s.ErrorIs(s.session.Jump(2), ErrInvalidIndex)
	s.ErrorIs(s.session.Jump(-1), ErrInvalidIndex)
}

func (s *SessionSuite) TestFlipStateOnlyCoversGameCards() {
	_, err := s.session.Toggle("other")
	s.ErrorIs(err, ErrCardNotInGame)

	_, err = s.session.Side("other")
	s.ErrorIs(err, ErrCardNotInGame)
	s.Len(s.session.Cards(), 2)
}

func (s *SessionSuite) TestCardsReportsSides() {
	_, _ = s.session.Toggle("c2")

	views := s.session.Cards()
	s.Equal([]CardView{
		{Card: s.game.Cards[0], Side: SideQuestion},
		{Card: s.game.Cards[1], Side: SideAnswer},
	}, views)
}

func (s *SessionSuite) TestSessionUsesSnapshot() {
	s.game.Cards[0].Question = "edited after start"

	card, _, _ := s.session.Current()
	s.Equal("France?", card.Question)
}

func (s *SessionSuite) TestEmptyGameIsCompleteImmediately() {
	session := New(model.Game{ID: "empty", Title: "Nothing"})

	s.True(session.Done())
	_, _, err := session.Current()
	s.ErrorIs(err, ErrSessionComplete)
	s.Empty(session.Cards())
}

type gameMap map[model.GameID]model.Game

func (m gameMap) Game(id model.GameID) (model.Game, error) {
	g, ok := m[id]
	if !ok {
		return model.Game{}, model.ErrGameNotFound
	}
	return g, nil
}

func (s *SessionSuite) TestStartLooksUpGame() {
	src := gameMap{"g1": s.game}

	session, err := Start(src, "g1")
	s.Require().NoError(err)
	_, total := session.Position()
	s.Equal(2, total)

	_, err = Start(src, "missing")
	s.ErrorIs(err, model.ErrGameNotFound)
}
