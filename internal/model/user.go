package model

import "time"

// Credential is a registered account.
// Created on registration and never updated.
type Credential struct {
	Username     string    `json:"username"`
	PasswordHash string    `json:"password_hash"` // bcrypt hash
	CreatedAt    time.Time `json:"created_at"`
}

// SessionState records which account is active on this installation
type SessionState struct {
	LoggedIn bool
	Username string
}

// Session is the view of a logged-in account handed to callers
type Session struct {
	Username string
	Streak   Streak
}

// Streak counts consecutive calendar days with at least one login
type Streak struct {
	Count     int `json:"count"`
	Longest   int `json:"longest"`
	LastLogin Day `json:"lastLoginDate"`
}

// RecordLogin applies a login on the given day and reports whether the
// streak changed. A second login on the same day is a no-op.
func (s *Streak) RecordLogin(today Day) bool {
	switch {
	case !s.LastLogin.IsZero() && s.LastLogin == today:
		return false
	case !s.LastLogin.IsZero() && s.LastLogin == today.Prev():
		s.Count++
	default:
		s.Count = 1
	}
	if s.Count > s.Longest {
		s.Longest = s.Count
	}
	s.LastLogin = today
	return true
}
