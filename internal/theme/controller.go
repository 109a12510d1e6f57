// Package theme holds the single source of truth for the active colour
// scheme and keeps the renderer, the preference store, other running
// instances and the backend in step with it.
package theme

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/alexisbeaulieu97/libaas/internal/domain"
	"github.com/alexisbeaulieu97/libaas/internal/logger"
	"github.com/alexisbeaulieu97/libaas/internal/storage"
)

// PreferenceKey is the preference store key holding the theme.
const PreferenceKey = "theme"

// Prefs is the persistent preference store.
type Prefs interface {
	Get(key string) (string, bool)
	Set(key, value string)
	Save() error
}

// Syncer records the preference on the backend.
type Syncer interface {
	UpdateTheme(ctx context.Context, userID string, theme domain.Theme) error
}

// Sessions reports who, if anyone, is signed in.
type Sessions interface {
	UserID() string
}

// Document is whatever the theme is painted onto.
type Document interface {
	SetDark(dark bool)
}

// Options wires a Controller.
type Options struct {
	Prefs             Prefs
	Sessions          Sessions
	Syncer            Syncer
	Document          Document
	SystemPrefersDark func() bool
	// SyncTimeout bounds each backend write. Zero leaves it unbounded.
	SyncTimeout time.Duration
	Logger      *logger.Logger
}

// Controller is the only writer of the active theme.
type Controller struct {
	mu          sync.Mutex
	theme       domain.Theme
	ready       bool
	prefs       Prefs
	sessions    Sessions
	syncer      Syncer
	doc         Document
	systemDark  func() bool
	syncTimeout time.Duration
	log         *logger.Logger
	subscribers []chan domain.Theme
	syncs       sync.WaitGroup
}

// New returns an uninitialised controller. Call Init before rendering.
func New(opts Options) *Controller {
	systemDark := opts.SystemPrefersDark
	if systemDark == nil {
		systemDark = func() bool { return false }
	}
	return &Controller{
		theme:       domain.ThemeLight,
		prefs:       opts.Prefs,
		sessions:    opts.Sessions,
		syncer:      opts.Syncer,
		doc:         opts.Document,
		systemDark:  systemDark,
		syncTimeout: opts.SyncTimeout,
		log:         opts.Logger.Component("theme"),
	}
}

// Init resolves the starting theme from the stored preference, falling back
// to the system preference, and paints it. Calling Init again is a no-op.
func (c *Controller) Init() domain.Theme {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.ready {
		return c.theme
	}

	resolved := domain.ThemeFromDark(c.systemDark())
	if c.prefs != nil {
		if stored, ok := c.prefs.Get(PreferenceKey); ok {
			if parsed, err := domain.ParseTheme(stored); err == nil {
				resolved = parsed
			} else {
				c.log.Warn("ignoring invalid stored theme " + stored)
			}
		}
	}

	c.applyLocked(resolved)
	c.ready = true
	return resolved
}

// Ready reports whether Init has run. Nothing should be drawn before it.
func (c *Controller) Ready() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ready
}

// Theme returns the active theme.
func (c *Controller) Theme() domain.Theme {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.theme
}

// Toggle flips the theme. See Set.
func (c *Controller) Toggle() domain.Theme {
	c.mu.Lock()
	defer c.mu.Unlock()

	next := c.theme.Toggle()
	c.commitLocked(next)
	return next
}

// Set paints theme, persists it and, when someone is signed in, records it
// on the backend in the background. A failed backend write is logged and
// the local change stands.
func (c *Controller) Set(theme domain.Theme) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.ready && c.theme == theme {
		return
	}
	c.commitLocked(theme)
}

func (c *Controller) commitLocked(theme domain.Theme) {
	c.applyLocked(theme)
	c.ready = true

	if c.prefs != nil {
		c.prefs.Set(PreferenceKey, theme.String())
		if err := c.prefs.Save(); err != nil {
			c.log.WarnErr(err, "failed to persist theme preference")
		}
	}

	c.syncBackend(theme)
}

// Adopt applies a theme written by another instance. Invalid values are
// ignored. The backend is not contacted and the store is not rewritten.
func (c *Controller) Adopt(value string) bool {
	parsed, err := domain.ParseTheme(value)
	if err != nil {
		return false
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.ready && c.theme == parsed {
		return false
	}
	c.applyLocked(parsed)
	c.ready = true
	return true
}

// Watch adopts theme changes arriving on changes until ctx is done or the
// channel closes.
func (c *Controller) Watch(ctx context.Context, changes <-chan storage.Change) {
	for {
		select {
		case <-ctx.Done():
			return
		case change, ok := <-changes:
			if !ok {
				return
			}
			if change.Key != PreferenceKey || change.Deleted {
				continue
			}
			if c.Adopt(change.NewValue) {
				c.log.Debug("adopted theme from another instance: " + change.NewValue)
			}
		}
	}
}

// Subscribe returns a channel that receives every applied theme. Sends never
// block; a slow subscriber only sees the most recent value it had room for.
func (c *Controller) Subscribe() <-chan domain.Theme {
	c.mu.Lock()
	defer c.mu.Unlock()

	ch := make(chan domain.Theme, 1)
	c.subscribers = append(c.subscribers, ch)
	return ch
}

// Wait blocks until background backend writes have finished.
func (c *Controller) Wait() {
	c.syncs.Wait()
}

func (c *Controller) applyLocked(theme domain.Theme) {
	c.theme = theme
	if c.doc != nil {
		c.doc.SetDark(theme.IsDark())
	}
	for _, ch := range c.subscribers {
		select {
		case ch <- theme:
		default:
		}
	}
}

func (c *Controller) syncBackend(theme domain.Theme) {
	if c.syncer == nil || c.sessions == nil {
		return
	}
	userID := c.sessions.UserID()
	if !domain.UsableUserID(userID) {
		return
	}

	c.syncs.Add(1)
	go func() {
		defer c.syncs.Done()

		ctx, cancel := context.WithCancel(context.Background())
		if c.syncTimeout > 0 {
			ctx, cancel = context.WithTimeout(ctx, c.syncTimeout)
		}
		defer cancel()

		if err := c.syncer.UpdateTheme(ctx, userID, theme); err != nil {
			c.log.WithFields(map[string]any{"user_id": userID, "theme": theme.String()}).WarnErr(err, "failed to sync theme to backend")
			return
		}
		c.log.Debug("theme synced to backend")
	}()
}

// LipglossDocument paints themes by flipping the renderer's dark-background
// flag, which every adaptive colour consults.
type LipglossDocument struct {
	Renderer *lipgloss.Renderer
}

// SetDark implements Document.
func (d LipglossDocument) SetDark(dark bool) {
	if d.Renderer != nil {
		d.Renderer.SetHasDarkBackground(dark)
		return
	}
	lipgloss.SetHasDarkBackground(dark)
}

// DetectSystemDark asks the terminal whether its background is dark.
func DetectSystemDark() bool {
	return lipgloss.HasDarkBackground()
}
