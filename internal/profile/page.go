// Package profile is the state machine behind the profile screen: loading
// the profile, editing it, replacing the photo and generating style
// insights. Each operation has its own busy flag so one never blocks another.
package profile

import (
	"context"
	"errors"
	"sync"

	"github.com/alexisbeaulieu97/libaas/internal/domain"
	"github.com/alexisbeaulieu97/libaas/internal/logger"
)

// Status is the page's load state.
type Status int

const (
	StatusLoading Status = iota
	StatusError
	StatusReady
)

func (s Status) String() string {
	switch s {
	case StatusError:
		return "error"
	case StatusReady:
		return "ready"
	default:
		return "loading"
	}
}

// RedirectSignIn is the redirect target when nobody is signed in.
const RedirectSignIn = "signin"

// MsgNoUser is shown when no user id could be resolved.
const MsgNoUser = "No user ID found. Please log in again."

var (
	// ErrTerminal is returned by Load once the page has left the loading state.
	ErrTerminal = errors.New("profile page already loaded")
	// ErrNotReady is returned by operations that need a loaded profile.
	ErrNotReady = errors.New("profile is not loaded")
	// ErrBusy is returned when the same operation is already in flight.
	ErrBusy = errors.New("operation already in progress")
	// ErrNotEditing is returned by Save outside edit mode.
	ErrNotEditing = errors.New("profile is not being edited")
	// ErrNoStagedPhoto is returned by UploadPhoto with nothing staged.
	ErrNoStagedPhoto = errors.New("no photo selected")
)

// Backend is the slice of the API client the page uses.
type Backend interface {
	Profile(ctx context.Context, userID string) (domain.Profile, error)
	UpdateProfile(ctx context.Context, update domain.ProfileUpdate) error
	UpdateProfilePhoto(ctx context.Context, userID string, photo domain.Photo) (string, error)
	StyleInsights(ctx context.Context, userID string) (*domain.StyleInsights, error)
}

// Sessions is the slice of the session repository the page uses.
type Sessions interface {
	UserID() string
	UpdateCache(name, imageURL string) error
	SignOut() error
}

// Preview describes a staged photo that has not been uploaded yet.
type Preview struct {
	Name string
	MIME string
	Size int
}

// Snapshot is a copy of everything the screen renders.
type Snapshot struct {
	Status     Status
	Error      string
	RedirectTo string
	UserID     string
	Profile    domain.Profile
	AI         domain.AIInsights

	Editing bool
	Draft   domain.ProfileUpdate
	Saving  bool

	Staged    *Preview
	Uploading bool

	InsightsLoading bool
	Insights        *domain.StyleInsights
	InsightsError   string
}

// Page holds the profile screen state. It is safe for concurrent use.
type Page struct {
	backend  Backend
	sessions Sessions
	log      *logger.Logger

	mu         sync.Mutex
	explicitID string
	started    bool
	snap       Snapshot
	staged     *domain.Photo
}

// NewPage returns a page in the loading state. A non-empty userID takes
// precedence over the signed-in session.
func NewPage(userID string, backend Backend, sessions Sessions, log *logger.Logger) *Page {
	return &Page{
		backend:    backend,
		sessions:   sessions,
		log:        log.Component("profile"),
		explicitID: userID,
		snap:       Snapshot{Status: StatusLoading},
	}
}

// Snapshot returns a copy of the current state.
func (p *Page) Snapshot() Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()

	snap := p.snap
	if snap.Staged != nil {
		staged := *snap.Staged
		snap.Staged = &staged
	}
	return snap
}

// Load resolves the user and fetches the profile. It runs at most once per
// Page; a failed load is final.
func (p *Page) Load(ctx context.Context) error {
	p.mu.Lock()
	if p.started {
		p.mu.Unlock()
		return ErrTerminal
	}
	p.started = true

	userID := p.explicitID
	if !domain.UsableUserID(userID) && p.sessions != nil {
		userID = p.sessions.UserID()
	}
	if !domain.UsableUserID(userID) {
		p.snap.Status = StatusError
		p.snap.Error = MsgNoUser
		p.snap.RedirectTo = RedirectSignIn
		p.mu.Unlock()
		return errors.New(MsgNoUser)
	}
	p.snap.UserID = userID
	p.mu.Unlock()

	profile, err := p.backend.Profile(ctx, userID)

	p.mu.Lock()
	defer p.mu.Unlock()

	if err != nil {
		p.log.WithFields(map[string]any{"user_id": userID}).Error(err, "failed to load profile")
		p.snap.Status = StatusError
		p.snap.Error = errorMessage(err, "Failed to load profile")
		return err
	}

	p.snap.Status = StatusReady
	p.snap.Profile = profile
	p.snap.AI = domain.DeriveAIInsights(profile.ClipInsights)
	p.snap.Insights = profile.PersistedInsights()
	return nil
}

// BeginEdit opens the edit form seeded from the loaded profile.
func (p *Page) BeginEdit() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.snap.Status != StatusReady {
		return ErrNotReady
	}
	if !p.snap.Editing {
		p.snap.Editing = true
		p.snap.Draft = domain.UpdateFromProfile(p.snap.UserID, p.snap.Profile)
	}
	return nil
}

// SetDraft replaces the form values while editing.
func (p *Page) SetDraft(draft domain.ProfileUpdate) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.snap.Editing {
		return ErrNotEditing
	}
	draft.UserID = p.snap.UserID
	p.snap.Draft = draft
	return nil
}

// CancelEdit discards the draft.
func (p *Page) CancelEdit() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.snap.Saving {
		return
	}
	p.snap.Editing = false
	p.snap.Draft = domain.ProfileUpdate{}
}

// Save submits the draft. On failure the form stays open with the draft
// intact; on success the profile reflects the draft and the form closes.
func (p *Page) Save(ctx context.Context) error {
	p.mu.Lock()
	switch {
	case p.snap.Status != StatusReady:
		p.mu.Unlock()
		return ErrNotReady
	case !p.snap.Editing:
		p.mu.Unlock()
		return ErrNotEditing
	case p.snap.Saving:
		p.mu.Unlock()
		return ErrBusy
	}
	draft := p.snap.Draft
	if err := draft.Validate(); err != nil {
		p.mu.Unlock()
		return err
	}
	p.snap.Saving = true
	p.mu.Unlock()

	err := p.backend.UpdateProfile(ctx, draft)

	p.mu.Lock()
	p.snap.Saving = false
	if err != nil {
		p.mu.Unlock()
		p.log.Error(err, "failed to save profile")
		return err
	}
	draft.Apply(&p.snap.Profile)
	p.snap.Editing = false
	name, image := p.snap.Profile.Name, p.snap.Profile.ImageURL
	p.mu.Unlock()

	p.updateCache(name, image)
	return nil
}

// StagePhoto validates a new photo and holds it for confirmation. Nothing
// is sent until UploadPhoto.
func (p *Page) StagePhoto(name string, data []byte) (Preview, error) {
	photo, err := domain.NewPhoto(name, data)
	if err != nil {
		return Preview{}, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.snap.Status != StatusReady {
		return Preview{}, ErrNotReady
	}
	if p.snap.Uploading {
		return Preview{}, ErrBusy
	}
	preview := Preview{Name: photo.Name, MIME: photo.MIME, Size: photo.Size()}
	p.staged = &photo
	p.snap.Staged = &preview
	return preview, nil
}

// UploadPhoto sends the staged photo and adopts the returned image URL.
func (p *Page) UploadPhoto(ctx context.Context) error {
	p.mu.Lock()
	if p.snap.Uploading {
		p.mu.Unlock()
		return ErrBusy
	}
	if p.staged == nil {
		p.mu.Unlock()
		return ErrNoStagedPhoto
	}
	photo := *p.staged
	userID := p.snap.UserID
	p.snap.Uploading = true
	p.mu.Unlock()

	imageURL, err := p.backend.UpdateProfilePhoto(ctx, userID, photo)

	p.mu.Lock()
	p.snap.Uploading = false
	if err != nil {
		p.mu.Unlock()
		p.log.Error(err, "failed to upload profile photo")
		return err
	}
	p.snap.Profile.ImageURL = imageURL
	p.staged = nil
	p.snap.Staged = nil
	name := p.snap.Profile.Name
	p.mu.Unlock()

	p.updateCache(name, imageURL)
	return nil
}

// CancelPhoto drops the staged photo; the confirmed image is shown again.
func (p *Page) CancelPhoto() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.snap.Uploading {
		return
	}
	p.staged = nil
	p.snap.Staged = nil
}

// GenerateInsights requests a fresh style report.
func (p *Page) GenerateInsights(ctx context.Context) error {
	p.mu.Lock()
	if p.snap.Status != StatusReady {
		p.mu.Unlock()
		return ErrNotReady
	}
	if p.snap.InsightsLoading {
		p.mu.Unlock()
		return ErrBusy
	}
	p.snap.InsightsLoading = true
	p.snap.InsightsError = ""
	userID := p.snap.UserID
	p.mu.Unlock()

	insights, err := p.backend.StyleInsights(ctx, userID)

	p.mu.Lock()
	defer p.mu.Unlock()
	p.snap.InsightsLoading = false
	if err != nil {
		p.snap.InsightsError = errorMessage(err, "Failed to generate insights")
		p.log.Error(err, "failed to generate style insights")
		return err
	}
	p.snap.Insights = insights
	return nil
}

// SignOut clears the local sign-in state.
func (p *Page) SignOut() error {
	if p.sessions == nil {
		return nil
	}
	return p.sessions.SignOut()
}

func (p *Page) updateCache(name, imageURL string) {
	if p.sessions == nil {
		return
	}
	if err := p.sessions.UpdateCache(name, imageURL); err != nil {
		p.log.WarnErr(err, "failed to update cached user")
	}
}
