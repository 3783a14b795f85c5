package model

import (
	"encoding/json"
	"fmt"
)

// EncodeDeck serializes a user's games as a JSON array.
// An empty or nil deck encodes as [] rather than null.
func EncodeDeck(games []Game) ([]byte, error) {
	if games == nil {
		games = []Game{}
	}
	out := make([]Game, len(games))
	for i, g := range games {
		if g.Cards == nil {
			g.Cards = []Flashcard{}
		}
		out[i] = g
	}
	return json.Marshal(out)
}

// DecodeDeck parses a deck previously written by EncodeDeck.
// Every failure wraps ErrDeserialization.
func DecodeDeck(data []byte) ([]Game, error) {
	var games []Game
	if err := json.Unmarshal(data, &games); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDeserialization, err)
	}
	if games == nil {
		return nil, fmt.Errorf("%w: deck is null", ErrDeserialization)
	}
	for i := range games {
		if games[i].Cards == nil {
			games[i].Cards = []Flashcard{}
		}
	}
	if err := ValidateDeck(games); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDeserialization, err)
	}
	return games, nil
}
