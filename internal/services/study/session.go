// Package study runs a single review pass over one game's flashcards.
//
// A Session walks the cards in order. Each card shows its question first;
// Flip toggles to the answer and back. Whenever the cursor lands on a card,
// whether for the first time or by going back to it, that card starts again
// on its question. Sessions live only in memory and never write to the deck.
package study

import (
	"errors"

	"github.com/mcoot/flashdeck/internal/model"
)

// Errors
var (
	ErrSessionComplete = errors.New("study session is complete")
	ErrCardNotInGame   = errors.New("card is not part of this game")
	ErrInvalidIndex    = errors.New("card index out of range")
)

// Side is the face of a card currently showing
type Side string

const (
	SideQuestion Side = "question"
	SideAnswer   Side = "answer"
)

func (s Side) flipped() Side {
	if s == SideAnswer {
		return SideQuestion
	}
	return SideAnswer
}

// CardView is one card with its current side, as shown in the
// scroll-all-cards layout
type CardView struct {
	Card model.Flashcard
	Side Side
}

// Session is the flip state of one review pass. It is not safe for
// concurrent use.
type Session struct {
	gameID model.GameID
	title  string
	cards  []model.Flashcard
	sides  map[model.CardID]Side
	index  int
	done   bool
	flips  int
}

// New starts a session over a snapshot of game's cards.
// A game without cards is complete from the start.
func New(game model.Game) *Session {
	snapshot := game.Clone()
	s := &Session{
		gameID: snapshot.ID,
		title:  snapshot.Title,
		cards:  snapshot.Cards,
		sides:  make(map[model.CardID]Side, len(snapshot.Cards)),
	}
	for _, c := range s.cards {
		s.sides[c.ID] = SideQuestion
	}
	s.done = len(s.cards) == 0
	return s
}

// GameSource gives read-only access to saved games
type GameSource interface {
	Game(id model.GameID) (model.Game, error)
}

// Start begins a session over the saved game with the given ID
func Start(src GameSource, id model.GameID) (*Session, error) {
	game, err := src.Game(id)
	if err != nil {
		return nil, err
	}
	return New(game), nil
}

// GameID returns the ID of the game under review
func (s *Session) GameID() model.GameID {
	return s.gameID
}

// Title returns the title of the game under review
func (s *Session) Title() string {
	return s.title
}

// Done reports whether the session has moved past the last card
func (s *Session) Done() bool {
	return s.done
}

// Position returns the zero-based index of the current card and the
// number of cards. Once done, index equals total.
func (s *Session) Position() (index, total int) {
	if s.done {
		return len(s.cards), len(s.cards)
	}
	return s.index, len(s.cards)
}

// Flips returns how many times any card has been turned over
func (s *Session) Flips() int {
	return s.flips
}

// Current returns the card under the cursor and its side
func (s *Session) Current() (model.Flashcard, Side, error) {
	if s.done {
		return model.Flashcard{}, "", ErrSessionComplete
	}
	card := s.cards[s.index]
	return card, s.sides[card.ID], nil
}

// Flip turns the current card over and returns the side now showing
func (s *Session) Flip() (Side, error) {
	if s.done {
		return "", ErrSessionComplete
	}
	return s.toggle(s.cards[s.index].ID), nil
}

// Toggle turns over any card of the game by ID, for layouts that show
// every card at once
func (s *Session) Toggle(id model.CardID) (Side, error) {
	if s.done {
		return "", ErrSessionComplete
	}
	if _, ok := s.sides[id]; !ok {
		return "", ErrCardNotInGame
	}
	return s.toggle(id), nil
}

func (s *Session) toggle(id model.CardID) Side {
	side := s.sides[id].flipped()
	s.sides[id] = side
	s.flips++
	return side
}

// Side returns the side currently showing for a card
func (s *Session) Side(id model.CardID) (Side, error) {
	side, ok := s.sides[id]
	if !ok {
		return "", ErrCardNotInGame
	}
	return side, nil
}

// Next advances to the following card. Advancing past the last card ends
// the session and reports done.
func (s *Session) Next() (done bool, err error) {
	if s.done {
		return true, ErrSessionComplete
	}
	if s.index == len(s.cards)-1 {
		s.done = true
		return true, nil
	}
	s.enter(s.index + 1)
	return false, nil
}

// Prev goes back one card. On the first card it does nothing.
func (s *Session) Prev() error {
	if s.done {
		return ErrSessionComplete
	}
	if s.index > 0 {
		s.enter(s.index - 1)
	}
	return nil
}

// Jump moves the cursor to the card at index
func (s *Session) Jump(index int) error {
	if s.done {
		return ErrSessionComplete
	}
	if index < 0 || index >= len(s.cards) {
		return ErrInvalidIndex
	}
	s.enter(index)
	return nil
}

// enter moves the cursor and shows the card's question
func (s *Session) enter(index int) {
	s.index = index
	s.sides[s.cards[index].ID] = SideQuestion
}

// Cards returns every card in study order with its current side
func (s *Session) Cards() []CardView {
	views := make([]CardView, len(s.cards))
	for i, c := range s.cards {
		views[i] = CardView{Card: c, Side: s.sides[c.ID]}
	}
	return views
}
