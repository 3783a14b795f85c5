package sqlstore

// Setting names in the key-value table
const (
	usersKey           = "users"
	isLoggedInKey      = "isLoggedIn"
	currentUsernameKey = "currentUsername"
)

func streakKey(username string) string {
	return "streak_" + username
}

func gamesKey(username string) string {
	return "games_" + username
}
