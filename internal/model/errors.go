package model

import "errors"

// Common errors used across the application
var (
	// Account errors
	ErrUserNotFound       = errors.New("user not found")
	ErrDuplicateUser      = errors.New("username already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidUsername    = errors.New("invalid username")
	ErrPasswordTooShort   = errors.New("password too short")
	ErrPasswordTooLong    = errors.New("password too long")
	ErrNotLoggedIn        = errors.New("no user is logged in")

	// Deck errors
	ErrDeckNotFound    = errors.New("deck not found")
	ErrDeserialization = errors.New("failed to deserialize deck")
	ErrGameNotFound    = errors.New("game not found")
	ErrCardNotFound    = errors.New("card not found")
	ErrInvalidGame     = errors.New("invalid game")

	// Streak errors
	ErrStreakNotFound = errors.New("streak not found")
)
