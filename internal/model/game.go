package model

import "fmt"

// GameID uniquely identifies a game within a user's deck
type GameID string

// CardID uniquely identifies a flashcard within its game
type CardID string

// Flashcard is a single question/answer pair
type Flashcard struct {
	ID       CardID `json:"id"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// Game is a named, ordered collection of flashcards.
// Study order follows the order of Cards.
type Game struct {
	ID    GameID      `json:"id"`
	Title string      `json:"title"`
	Cards []Flashcard `json:"cards"`
}

// Clone returns a deep copy of the game
func (g Game) Clone() Game {
	cards := make([]Flashcard, len(g.Cards))
	copy(cards, g.Cards)
	g.Cards = cards
	return g
}

// CardIndex returns the position of the card with the given ID, or -1
func (g *Game) CardIndex(id CardID) int {
	for i := range g.Cards {
		if g.Cards[i].ID == id {
			return i
		}
	}
	return -1
}

// GetCard returns the card with the given ID, or nil if not found
func (g *Game) GetCard(id CardID) *Flashcard {
	if i := g.CardIndex(id); i >= 0 {
		return &g.Cards[i]
	}
	return nil
}

// RemoveCard deletes the card with the given ID, keeping the order of the rest
func (g *Game) RemoveCard(id CardID) error {
	i := g.CardIndex(id)
	if i < 0 {
		return ErrCardNotFound
	}
	g.Cards = append(g.Cards[:i], g.Cards[i+1:]...)
	return nil
}

// MoveCard moves a card to a new position. Indices past the end are clamped.
func (g *Game) MoveCard(id CardID, to int) error {
	from := g.CardIndex(id)
	if from < 0 {
		return ErrCardNotFound
	}
	if to < 0 {
		to = 0
	}
	if to >= len(g.Cards) {
		to = len(g.Cards) - 1
	}
	card := g.Cards[from]
	g.Cards = append(g.Cards[:from], g.Cards[from+1:]...)
	g.Cards = append(g.Cards[:to], append([]Flashcard{card}, g.Cards[to:]...)...)
	return nil
}

// Validate checks identifier invariants: a non-empty game ID and
// non-empty, unique card IDs.
func (g *Game) Validate() error {
	if g.ID == "" {
		return fmt.Errorf("%w: missing id", ErrInvalidGame)
	}
	seen := make(map[CardID]bool, len(g.Cards))
	for _, c := range g.Cards {
		if c.ID == "" {
			return fmt.Errorf("%w: card with missing id", ErrInvalidGame)
		}
		if seen[c.ID] {
			return fmt.Errorf("%w: duplicate card id %q", ErrInvalidGame, c.ID)
		}
		seen[c.ID] = true
	}
	return nil
}

// ValidateDeck checks every game and that game IDs are unique
func ValidateDeck(games []Game) error {
	seen := make(map[GameID]bool, len(games))
	for i := range games {
		if err := games[i].Validate(); err != nil {
			return err
		}
		if seen[games[i].ID] {
			return fmt.Errorf("%w: duplicate game id %q", ErrInvalidGame, games[i].ID)
		}
		seen[games[i].ID] = true
	}
	return nil
}
