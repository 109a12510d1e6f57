package domain

import "strings"

// Session is the locally persisted sign-in state: just enough to call the
// backend on the user's behalf and render the navigation bar before the
// profile arrives.
type Session struct {
	UserID         string `json:"id"`
	CachedName     string `json:"name,omitempty"`
	CachedImageURL string `json:"image_url,omitempty"`
}

// IsPlaceholderID reports whether id is one of the sentinel strings that
// earlier clients wrote when no user was signed in.
func IsPlaceholderID(id string) bool {
	switch strings.TrimSpace(id) {
	case "null", "undefined":
		return true
	}
	return false
}

// UsableUserID reports whether id can be sent to the backend.
func UsableUserID(id string) bool {
	return strings.TrimSpace(id) != "" && !IsPlaceholderID(id)
}

// Valid reports whether the session carries a usable user id.
func (s Session) Valid() bool {
	return UsableUserID(s.UserID)
}
