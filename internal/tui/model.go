package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/alexisbeaulieu97/libaas/internal/domain"
	"github.com/alexisbeaulieu97/libaas/internal/logger"
	"github.com/alexisbeaulieu97/libaas/internal/marketing"
	"github.com/alexisbeaulieu97/libaas/internal/navbar"
	"github.com/alexisbeaulieu97/libaas/internal/profile"
	"github.com/alexisbeaulieu97/libaas/internal/wardrobe"
)

// ThemeController is the theme state the UI reads and toggles.
type ThemeController interface {
	Ready() bool
	Theme() domain.Theme
	Toggle() domain.Theme
}

// NavbarLoader resolves the signed-in indicator.
type NavbarLoader interface {
	Resolve() navbar.State
	Refresh(ctx context.Context, state navbar.State) navbar.State
}

// Gallery is the wardrobe screen state.
type Gallery interface {
	Load(ctx context.Context) error
	UploadFiles(ctx context.Context, paths []string) error
	Delete(ctx context.Context, itemID string, confirmed bool) error
	SetFilter(f domain.Filter)
	Filter() domain.Filter
	Recommend(ctx context.Context, occasion string) ([]domain.OutfitRecommendation, error)
	Reset()
	ClearSuccess()
	ClearMessages()
	Snapshot() wardrobe.Snapshot
}

// ProfilePage is the profile screen state. A fresh page is built for every
// visit after a sign-in change.
type ProfilePage interface {
	Load(ctx context.Context) error
	Snapshot() profile.Snapshot
	BeginEdit() error
	SetDraft(draft domain.ProfileUpdate) error
	CancelEdit()
	Save(ctx context.Context) error
	StagePhoto(name string, data []byte) (profile.Preview, error)
	UploadPhoto(ctx context.Context) error
	CancelPhoto()
	GenerateInsights(ctx context.Context) error
	SignOut() error
}

// Deps wires the model to the rest of the application.
type Deps struct {
	Theme          ThemeController
	Navbar         NavbarLoader
	Gallery        Gallery
	NewProfilePage func() ProfilePage
	Marquee        *marketing.Marquee
	AuthEvents     <-chan struct{}
	ThemeEvents    <-chan domain.Theme
	RequestTimeout time.Duration
	Now            func() time.Time
	Logger         *logger.Logger
}

// Model is the root Bubble Tea model.
type Model struct {
	deps Deps
	log  *logger.Logger

	// Navigation
	screen   Screen
	viewMode ViewMode
	nav      navbar.State

	// Component state
	spinner spinner.Model
	input   textinput.Model
	purpose inputPurpose
	before  string

	// Home
	cardCursor int

	// Wardrobe
	galleryLoaded bool
	successSeq    int
	itemCursor    int
	occasion      string

	// Profile
	page      ProfilePage
	formField int

	// Confirmation state
	confirmAction  string
	confirmTarget  string
	confirmMessage string

	// Errors
	showError bool
	errorMsg  string
	notice    string

	// Dimensions
	width  int
	height int
}

// NewModel builds the root model with the optimistic navbar state.
func NewModel(deps Deps) Model {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Marquee == nil {
		deps.Marquee = marketing.NewMarquee(marketing.DefaultPairs())
	}

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = spinnerStyle

	in := textinput.New()
	in.CharLimit = 512

	m := Model{
		deps:       deps,
		log:        deps.Logger.Component("tui"),
		screen:     ScreenHome,
		viewMode:   ViewMain,
		spinner:    s,
		input:      in,
		cardCursor: -1,
		width:      80,
		height:     24,
	}
	if deps.Navbar != nil {
		m.nav = deps.Navbar.Resolve()
	}
	return m
}

// Init starts the spinner, the marquee, the event bridges and the first
// navbar refresh.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		m.spinner.Tick,
		marqueeTickCmd(),
		waitForAuthCmd(m.deps.AuthEvents),
		waitForThemeCmd(m.deps.ThemeEvents),
	}
	if m.deps.Navbar != nil {
		cmds = append(cmds, refreshNavbarCmd(m.deps.Navbar, m.nav, m.deps.RequestTimeout))
	}
	return tea.Batch(cmds...)
}

// Screen returns the active screen.
func (m Model) Screen() Screen {
	return m.screen
}

// ViewMode returns the current overlay mode.
func (m Model) ViewMode() ViewMode {
	return m.viewMode
}

// Navbar returns the signed-in indicator state.
func (m Model) Navbar() navbar.State {
	return m.nav
}

// listedItems is the wardrobe in display order: visible items grouped by
// category. The item cursor indexes into it.
func (m Model) listedItems() []domain.WardrobeItem {
	if m.deps.Gallery == nil {
		return nil
	}
	var items []domain.WardrobeItem
	for _, group := range m.deps.Gallery.Snapshot().Groups {
		items = append(items, group.Items...)
	}
	return items
}

// selectedItem returns the wardrobe item under the cursor.
func (m Model) selectedItem() (domain.WardrobeItem, bool) {
	items := m.listedItems()
	if m.itemCursor < 0 || m.itemCursor >= len(items) {
		return domain.WardrobeItem{}, false
	}
	return items[m.itemCursor], true
}

func (m *Model) clampItemCursor() {
	n := len(m.listedItems())
	switch {
	case n == 0:
		m.itemCursor = 0
	case m.itemCursor >= n:
		m.itemCursor = n - 1
	case m.itemCursor < 0:
		m.itemCursor = 0
	}
}

func (m *Model) setError(msg string) {
	m.showError = true
	m.errorMsg = msg
}

func (m *Model) clearError() {
	m.showError = false
	m.errorMsg = ""
}
