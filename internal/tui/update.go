package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/alexisbeaulieu97/libaas/internal/domain"
	"github.com/alexisbeaulieu97/libaas/internal/profile"
)

const (
	minWidth  = 60
	minHeight = 20
)

// Update handles incoming messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	// System messages
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		ApplyMaxWidth(m.width)

		if m.width < minWidth || m.height < minHeight {
			m.setError(fmt.Sprintf("Terminal too small (%dx%d). Minimum size: %dx%d",
				m.width, m.height, minWidth, minHeight))
		} else if m.showError && strings.HasPrefix(m.errorMsg, "Terminal too small") {
			m.clearError()
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	// Bridges
	case MarqueeTickMsg:
		m.deps.Marquee.Tick()
		return m, marqueeTickCmd()

	case AuthChangedMsg:
		return m.handleAuthChange()

	case ThemeChangedMsg:
		return m, waitForThemeCmd(m.deps.ThemeEvents)

	case NavbarMsg:
		// A refresh started before a sign-in change must not overwrite the new identity.
		if msg.State.UserID == m.nav.UserID {
			m.nav = msg.State
		}
		return m, nil

	// Wardrobe
	case GalleryLoadedMsg:
		m.clampItemCursor()
		return m, nil

	case UploadCompleteMsg, DeleteCompleteMsg:
		m.clampItemCursor()
		if m.deps.Gallery != nil && m.deps.Gallery.Snapshot().Success != "" {
			m.successSeq++
			return m, expireSuccessCmd(m.successSeq)
		}
		return m, nil

	case SuccessExpiredMsg:
		// A newer banner re-arms the timer; only the latest one clears it.
		if msg.Seq == m.successSeq && m.deps.Gallery != nil {
			m.deps.Gallery.ClearSuccess()
		}
		return m, nil

	case OutfitsCompleteMsg:
		return m, nil

	// Profile
	case ProfileLoadedMsg, InsightsCompleteMsg:
		return m, nil

	case ProfileSavedMsg:
		if msg.Err != nil {
			m.setError("Failed to update profile: " + describeError(msg.Err))
			return m, nil
		}
		m.notice = "Profile updated successfully!"
		return m, nil

	case PhotoStagedMsg:
		if msg.Err != nil {
			m.setError(describeError(msg.Err))
			return m, nil
		}
		m.notice = fmt.Sprintf("Selected %s. Press u to upload or c to cancel.", msg.Preview.Name)
		return m, nil

	case PhotoUploadedMsg:
		if msg.Err != nil {
			m.setError("Failed to upload photo: " + describeError(msg.Err))
			return m, nil
		}
		m.notice = "Profile photo updated!"
		return m, nil

	case SignedOutMsg:
		if msg.Err != nil {
			m.setError("Failed to sign out: " + describeError(msg.Err))
			return m, nil
		}
		m.screen = ScreenHome
		m.notice = ""
		return m, nil

	case ErrorMsg:
		m.setError(msg.Message)
		return m, nil

	case ClearErrorMsg:
		m.clearError()
		return m, nil
	}

	if m.viewMode == ViewInput {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

// handleAuthChange drops every per-user state and reloads what the active
// screen shows.
func (m Model) handleAuthChange() (tea.Model, tea.Cmd) {
	if m.deps.Navbar != nil {
		m.nav = m.deps.Navbar.Resolve()
	}
	m.page = nil
	m.formField = 0
	m.galleryLoaded = false
	m.itemCursor = 0
	m.notice = ""
	m.successSeq++
	if m.deps.Gallery != nil {
		m.deps.Gallery.Reset()
	}

	cmds := []tea.Cmd{waitForAuthCmd(m.deps.AuthEvents)}
	if m.deps.Navbar != nil {
		cmds = append(cmds, refreshNavbarCmd(m.deps.Navbar, m.nav, m.deps.RequestTimeout))
	}
	cmds = append(cmds, m.enterScreen(m.screen))
	return m, tea.Batch(cmds...)
}

// enterScreen switches screens and starts whatever the screen needs loaded.
func (m *Model) enterScreen(screen Screen) tea.Cmd {
	if m.screen == ScreenHome && screen != ScreenHome {
		m.releaseCard()
	}
	m.screen = screen
	m.notice = ""

	switch screen {
	case ScreenWardrobe, ScreenGenerate:
		if !m.galleryLoaded && m.deps.Gallery != nil {
			m.galleryLoaded = true
			return tea.Batch(m.spinner.Tick, loadGalleryCmd(m.deps.Gallery, m.deps.RequestTimeout))
		}
	case ScreenProfile:
		if m.page == nil && m.deps.NewProfilePage != nil {
			m.page = m.deps.NewProfilePage()
			m.formField = 0
			return tea.Batch(m.spinner.Tick, loadProfileCmd(m.page, m.deps.RequestTimeout))
		}
	}
	return nil
}

// handleKeyPress handles keyboard input based on current view mode
func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.viewMode {
	case ViewHelp:
		return m.handleHelpKeys(msg)
	case ViewConfirm:
		return m.handleConfirmKeys(msg)
	case ViewInput:
		return m.handleInputKeys(msg)
	default:
		return m.handleMainKeys(msg)
	}
}

// handleMainKeys handles the global shortcuts, then the active screen's keys
func (m Model) handleMainKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key := msg.String(); key {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "?":
		m.viewMode = ViewHelp
		return m, nil

	case "t":
		if m.deps.Theme != nil {
			m.deps.Theme.Toggle()
		}
		return m, nil

	// Clear error banner
	case "x":
		if m.showError {
			m.clearError()
			return m, nil
		}
		m.notice = ""
		if m.deps.Gallery != nil {
			m.deps.Gallery.ClearMessages()
		}
		return m, nil

	case "1", "2", "3", "4":
		cmd := m.enterScreen(Screens[int(key[0]-'1')])
		return m, cmd
	}

	switch m.screen {
	case ScreenWardrobe:
		return m.handleWardrobeKeys(msg)
	case ScreenGenerate:
		return m.handleGenerateKeys(msg)
	case ScreenProfile:
		return m.handleProfileKeys(msg)
	default:
		return m.handleHomeKeys(msg)
	}
}

// handleHomeKeys moves the card focus; a focused card is flipped and the
// marquee holds still while anything is focused.
func (m Model) handleHomeKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "right", "l":
		m.focusCard(m.cardCursor + 1)
	case "left", "h":
		if m.cardCursor < 0 {
			m.focusCard(0)
		} else {
			m.focusCard(m.cardCursor - 1)
		}
	case "esc":
		m.releaseCard()
	case "p":
		if m.cardCursor >= 0 {
			return m, nil
		}
		if m.deps.Marquee.Paused() {
			m.deps.Marquee.Resume()
		} else {
			m.deps.Marquee.Pause()
		}
	case "enter":
		cmd := m.enterScreen(ScreenWardrobe)
		return m, cmd
	}
	return m, nil
}

func (m *Model) focusCard(pos int) {
	cards := m.deps.Marquee.Window(m.cardsPerRow())
	if len(cards) == 0 {
		return
	}
	if pos < 0 {
		pos = 0
	}
	if pos >= len(cards) {
		pos = len(cards) - 1
	}
	if m.cardCursor >= 0 && m.cardCursor < len(cards) {
		m.deps.Marquee.Flip(cards[m.cardCursor].Index, false)
	}
	m.deps.Marquee.Pause()
	m.deps.Marquee.Flip(cards[pos].Index, true)
	m.cardCursor = pos
}

func (m *Model) releaseCard() {
	if m.cardCursor < 0 {
		return
	}
	cards := m.deps.Marquee.Window(m.cardsPerRow())
	if m.cardCursor < len(cards) {
		m.deps.Marquee.Flip(cards[m.cardCursor].Index, false)
	}
	m.cardCursor = -1
	m.deps.Marquee.Resume()
}

// handleWardrobeKeys handles keys on the wardrobe screen
func (m Model) handleWardrobeKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	g := m.deps.Gallery
	if g == nil {
		return m, nil
	}

	switch msg.String() {
	case "up", "k":
		m.itemCursor--
		m.clampItemCursor()
	case "down", "j":
		m.itemCursor++
		m.clampItemCursor()

	case "r":
		m.galleryLoaded = true
		return m, tea.Batch(m.spinner.Tick, loadGalleryCmd(g, m.deps.RequestTimeout))

	case "u":
		if g.Snapshot().Uploading {
			return m, nil
		}
		cmd := m.openInput(inputUpload, "Photo paths, separated by commas", "")
		return m, cmd

	case "/":
		cmd := m.openInput(inputSearch, "Search by name", g.Filter().Search)
		return m, cmd

	case "c", "C":
		f := g.Filter()
		f.Category = domain.Cycle(domain.Categories, orDefault(f.Category, domain.AllCategories), step(msg.String()))
		g.SetFilter(f)
		m.itemCursor = 0

	case "s", "S":
		f := g.Filter()
		f.Style = domain.Cycle(domain.Styles, orDefault(f.Style, domain.AllStyles), step(msg.String()))
		g.SetFilter(f)
		m.itemCursor = 0

	case "esc":
		g.SetFilter(domain.DefaultFilter())
		m.itemCursor = 0

	case "d", "delete":
		item, ok := m.selectedItem()
		if !ok {
			return m, nil
		}
		m.confirmAction = actionDelete
		m.confirmTarget = item.ID.String()
		m.confirmMessage = fmt.Sprintf("Are you sure you want to delete %q?", itemName(item))
		m.viewMode = ViewConfirm
	}
	return m, nil
}

// handleGenerateKeys handles keys on the outfit screen
func (m Model) handleGenerateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	g := m.deps.Gallery
	if g == nil {
		return m, nil
	}

	switch msg.String() {
	case "o":
		cmd := m.openInput(inputOccasion, "Occasion, e.g. wedding, eid, office", m.occasion)
		return m, cmd
	case "g", "enter":
		if g.Snapshot().Recommending {
			return m, nil
		}
		return m, tea.Batch(m.spinner.Tick, recommendCmd(g, m.occasion, m.deps.RequestTimeout))
	case "r":
		m.galleryLoaded = true
		return m, tea.Batch(m.spinner.Tick, loadGalleryCmd(g, m.deps.RequestTimeout))
	}
	return m, nil
}

// handleProfileKeys handles keys on the profile screen
func (m Model) handleProfileKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.page == nil {
		return m, nil
	}
	snap := m.page.Snapshot()
	if snap.Editing {
		return m.handleFormKeys(msg, snap)
	}

	switch msg.String() {
	case "r":
		if snap.Status != profile.StatusError {
			return m, nil
		}
		m.page = nil
		cmd := m.enterScreen(ScreenProfile)
		return m, cmd

	case "e":
		if err := m.page.BeginEdit(); err != nil {
			m.setError(describeError(err))
			return m, nil
		}
		m.formField = 0
		m.notice = ""

	case "p":
		if snap.Status != profile.StatusReady || snap.Uploading {
			return m, nil
		}
		cmd := m.openInput(inputPhoto, "Path to a JPG, PNG or GIF under 5MB", "")
		return m, cmd

	case "u":
		if snap.Staged == nil || snap.Uploading {
			return m, nil
		}
		return m, tea.Batch(m.spinner.Tick, uploadPhotoCmd(m.page, m.deps.RequestTimeout))

	case "c":
		m.page.CancelPhoto()
		m.notice = ""

	case "i":
		if snap.Status != profile.StatusReady || snap.InsightsLoading {
			return m, nil
		}
		return m, tea.Batch(m.spinner.Tick, insightsCmd(m.page, m.deps.RequestTimeout))

	case "o":
		m.confirmAction = actionSignOut
		m.confirmTarget = ""
		m.confirmMessage = "Are you sure you want to sign out?"
		m.viewMode = ViewConfirm
	}
	return m, nil
}

// handleFormKeys drives the profile edit form
func (m Model) handleFormKeys(msg tea.KeyMsg, snap profile.Snapshot) (tea.Model, tea.Cmd) {
	field := profileForm[m.formField]

	switch msg.String() {
	case "up", "k":
		m.formField = (m.formField - 1 + len(profileForm)) % len(profileForm)
	case "down", "j", "tab":
		m.formField = (m.formField + 1) % len(profileForm)

	case "left", "h", "right", "l":
		if !field.isChoice() {
			return m, nil
		}
		draft := snap.Draft
		field.cycle(&draft, step(msg.String()))
		_ = m.page.SetDraft(draft)

	case "enter":
		if field.isChoice() {
			draft := snap.Draft
			field.cycle(&draft, 1)
			_ = m.page.SetDraft(draft)
			return m, nil
		}
		cmd := m.openInput(inputField, field.label, field.get(snap.Draft))
		return m, cmd

	case "s", "ctrl+s":
		if snap.Saving {
			return m, nil
		}
		return m, tea.Batch(m.spinner.Tick, saveProfileCmd(m.page, m.deps.RequestTimeout))

	case "esc":
		m.page.CancelEdit()
	}
	return m, nil
}

// handleHelpKeys handles keys in help view
func (m Model) handleHelpKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "?", "esc", "q":
		m.viewMode = ViewMain
	case "ctrl+c":
		return m, tea.Quit
	}
	return m, nil
}

// handleConfirmKeys handles keys in confirmation dialog
func (m Model) handleConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		action, target := m.confirmAction, m.confirmTarget
		m.resetConfirm()

		switch action {
		case actionDelete:
			if m.deps.Gallery != nil {
				return m, deleteCmd(m.deps.Gallery, target, m.deps.RequestTimeout)
			}
		case actionSignOut:
			if m.page != nil {
				return m, signOutCmd(m.page)
			}
		}
		return m, nil

	case "n", "N", "esc":
		m.resetConfirm()
	case "ctrl+c":
		return m, tea.Quit
	}
	return m, nil
}

func (m *Model) resetConfirm() {
	m.confirmAction = ""
	m.confirmTarget = ""
	m.confirmMessage = ""
	m.viewMode = ViewMain
}

// handleInputKeys feeds the text input and submits it on enter
func (m Model) handleInputKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit

	case "esc":
		if m.purpose == inputSearch && m.deps.Gallery != nil {
			f := m.deps.Gallery.Filter()
			f.Search = m.before
			m.deps.Gallery.SetFilter(f)
		}
		m.closeInput()
		return m, nil

	case "enter":
		value := strings.TrimSpace(m.input.Value())
		purpose := m.purpose
		m.closeInput()
		cmd := m.submitInput(purpose, value)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.purpose == inputSearch && m.deps.Gallery != nil {
		f := m.deps.Gallery.Filter()
		f.Search = m.input.Value()
		m.deps.Gallery.SetFilter(f)
		m.itemCursor = 0
	}
	return m, cmd
}

func (m *Model) submitInput(purpose inputPurpose, value string) tea.Cmd {
	switch purpose {
	case inputUpload:
		paths := splitPaths(value)
		if len(paths) == 0 || m.deps.Gallery == nil {
			return nil
		}
		return tea.Batch(m.spinner.Tick, uploadCmd(m.deps.Gallery, paths, m.deps.RequestTimeout))

	case inputOccasion:
		m.occasion = value
		if m.deps.Gallery == nil {
			return nil
		}
		return tea.Batch(m.spinner.Tick, recommendCmd(m.deps.Gallery, value, m.deps.RequestTimeout))

	case inputPhoto:
		if value == "" || m.page == nil {
			return nil
		}
		return stagePhotoCmd(m.page, expandHome(value))

	case inputField:
		if m.page == nil {
			return nil
		}
		draft := m.page.Snapshot().Draft
		profileForm[m.formField].set(&draft, value)
		if err := m.page.SetDraft(draft); err != nil {
			m.setError(describeError(err))
		}
	}
	return nil
}

func (m *Model) openInput(purpose inputPurpose, placeholder, value string) tea.Cmd {
	m.purpose = purpose
	m.before = value
	m.input.Placeholder = placeholder
	m.input.SetValue(value)
	m.input.CursorEnd()
	m.viewMode = ViewInput
	return m.input.Focus()
}

func (m *Model) closeInput() {
	m.input.Blur()
	m.input.SetValue("")
	m.purpose = inputNone
	m.before = ""
	m.viewMode = ViewMain
}

// splitPaths splits a comma separated list, expanding a leading ~.
func splitPaths(value string) []string {
	var paths []string
	for _, part := range strings.Split(value, ",") {
		part = strings.TrimFunc(part, func(r rune) bool { return unicode.IsSpace(r) || r == '"' || r == '\'' })
		if part != "" {
			paths = append(paths, expandHome(part))
		}
	}
	return paths
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

// step maps shifted or leftward keys to a backwards cycle.
func step(key string) int {
	switch key {
	case "C", "S", "left", "h":
		return -1
	default:
		return 1
	}
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

func itemName(item domain.WardrobeItem) string {
	if item.Name != "" {
		return item.Name
	}
	return "this item"
}
