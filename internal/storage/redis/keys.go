package redis

import "fmt"

// keys builds the Redis key for each entity type under a prefix.
// Names mirror the local settings layout: users, isLoggedIn,
// currentUsername, streak_<username> and games_<username>.
type keys struct {
	prefix string
}

// users returns the key of the HASH username -> credential JSON
func (k keys) users() string {
	return fmt.Sprintf("%s:users", k.prefix)
}

// isLoggedIn returns the key of the installation's logged-in flag
func (k keys) isLoggedIn() string {
	return fmt.Sprintf("%s:isLoggedIn", k.prefix)
}

// currentUsername returns the key of the installation's active account
func (k keys) currentUsername() string {
	return fmt.Sprintf("%s:currentUsername", k.prefix)
}

// streak returns the key of a user's streak record
func (k keys) streak(username string) string {
	return fmt.Sprintf("%s:streak_%s", k.prefix, username)
}

// games returns the key of a user's encoded deck
func (k keys) games(username string) string {
	return fmt.Sprintf("%s:games_%s", k.prefix, username)
}
