// Package navbar derives the navigation bar's signed-in indicator. It first
// renders whatever the session cache holds and then replaces it with the
// backend profile; if that fetch fails the cached values stay on screen.
package navbar

import (
	"context"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/alexisbeaulieu97/libaas/internal/domain"
	"github.com/alexisbeaulieu97/libaas/internal/logger"
)

// Phase describes how trustworthy the displayed identity is.
type Phase int

const (
	// SignedOut means no usable user id was found.
	SignedOut Phase = iota
	// Stale means the identity comes from the local cache only.
	Stale
	// Fresh means the identity was confirmed by the backend.
	Fresh
)

func (p Phase) String() string {
	switch p {
	case Stale:
		return "stale"
	case Fresh:
		return "fresh"
	default:
		return "signed-out"
	}
}

// State is what the navigation bar renders.
type State struct {
	Phase      Phase
	UserID     string
	Name       string
	ImageURL   string
	RefreshErr error
}

// SignedIn reports whether a user is shown.
func (s State) SignedIn() bool {
	return s.Phase != SignedOut
}

// Initial is the avatar fallback letter.
func (s State) Initial() string {
	name := strings.TrimSpace(s.Name)
	if name == "" {
		return "?"
	}
	r, _ := utf8.DecodeRuneInString(name)
	return string(unicode.ToUpper(r))
}

// FirstName is the greeting shown next to the avatar.
func (s State) FirstName() string {
	fields := strings.Fields(s.Name)
	if len(fields) == 0 {
		return "Profile"
	}
	return fields[0]
}

// SessionSource is the session repository as seen by the navbar.
type SessionSource interface {
	Current() (domain.Session, bool)
	UpdateCache(name, imageURL string) error
}

// ProfileFetcher loads the backend profile.
type ProfileFetcher interface {
	Profile(ctx context.Context, userID string) (domain.Profile, error)
}

// Loader resolves State.
type Loader struct {
	sessions SessionSource
	profiles ProfileFetcher
	log      *logger.Logger
}

// NewLoader returns a Loader.
func NewLoader(sessions SessionSource, profiles ProfileFetcher, log *logger.Logger) *Loader {
	return &Loader{sessions: sessions, profiles: profiles, log: log.Component("navbar")}
}

// Resolve returns the optimistic state from local storage alone.
func (l *Loader) Resolve() State {
	sess, ok := l.sessions.Current()
	if !ok || !sess.Valid() {
		return State{Phase: SignedOut}
	}
	return State{
		Phase:    Stale,
		UserID:   sess.UserID,
		Name:     sess.CachedName,
		ImageURL: sess.CachedImageURL,
	}
}

// Refresh confirms state against the backend. On failure the input is
// returned unchanged apart from RefreshErr.
func (l *Loader) Refresh(ctx context.Context, state State) State {
	if state.Phase == SignedOut {
		return state
	}

	profile, err := l.profiles.Profile(ctx, state.UserID)
	if err != nil {
		l.log.WithFields(map[string]any{"user_id": state.UserID}).WarnErr(err, "failed to refresh navbar profile")
		state.RefreshErr = err
		return state
	}

	if err := l.sessions.UpdateCache(profile.Name, profile.ImageURL); err != nil {
		l.log.WarnErr(err, "failed to update cached user")
	}

	return State{
		Phase:    Fresh,
		UserID:   state.UserID,
		Name:     profile.Name,
		ImageURL: profile.ImageURL,
	}
}

// Check runs Resolve followed by Refresh.
func (l *Loader) Check(ctx context.Context) State {
	return l.Refresh(ctx, l.Resolve())
}
