package domain

import "regexp"

var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9._]+$`)

// ValidUsername reports whether s contains only letters, digits, underscores and periods.
func ValidUsername(s string) bool {
	return usernamePattern.MatchString(s)
}

type Profile struct {
	ID             string // Platform user id
	FullName       string
	Username       string
	Biography      string
	AvatarURL      string // High resolution profile picture
	PostCount      int
	FollowerCount  int
	FollowingCount int
	IsPrivate      bool
	IsVerified     bool
}

// ProfileResult is a profile together with the first page of its timeline.
type ProfileResult struct {
	Profile   Profile
	FirstPage FeedPage
}
