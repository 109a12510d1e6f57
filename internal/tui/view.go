package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/alexisbeaulieu97/libaas/internal/marketing"
	"github.com/alexisbeaulieu97/libaas/internal/navbar"
)

// View renders the current model state. Nothing is drawn until the theme
// has been resolved so the first frame never flashes the wrong palette.
func (m Model) View() string {
	if m.deps.Theme != nil && !m.deps.Theme.Ready() {
		return ""
	}

	switch m.viewMode {
	case ViewHelp:
		return m.renderHelpView()
	case ViewConfirm:
		return m.renderConfirmView()
	}

	var content strings.Builder
	content.WriteString(m.renderNavbar())
	content.WriteString("\n")

	if m.showError {
		content.WriteString(m.renderErrorBanner())
		content.WriteString("\n")
	}

	switch m.screen {
	case ScreenWardrobe:
		content.WriteString(m.renderWardrobe())
	case ScreenGenerate:
		content.WriteString(m.renderGenerate())
	case ScreenProfile:
		content.WriteString(m.renderProfile())
	default:
		content.WriteString(m.renderHome())
	}

	if m.viewMode == ViewInput {
		content.WriteString("\n\n")
		content.WriteString(m.input.View())
	}

	content.WriteString("\n")
	content.WriteString(m.renderFooter())
	return content.String()
}

// renderNavbar renders the brand, the screen tabs and the signed-in user
func (m Model) renderNavbar() string {
	tabs := make([]string, 0, len(Screens))
	for i, screen := range Screens {
		label := string(rune('1'+i)) + " " + screen.String()
		if screen == m.screen {
			tabs = append(tabs, activeTabStyle.Render(label))
		} else {
			tabs = append(tabs, tabStyle.Render(label))
		}
	}
	left := lipgloss.JoinHorizontal(lipgloss.Center,
		brandStyle.Render("✦ "+marketing.Brand),
		"  ",
		lipgloss.JoinHorizontal(lipgloss.Center, tabs...),
	)

	right := m.renderUser(m.nav)
	if m.deps.Theme != nil {
		icon := "☀ light"
		if m.deps.Theme.Theme().IsDark() {
			icon = "☾ dark"
		}
		right = mutedStyle.Render(icon) + "  " + right
	}

	gap := m.width - 2 - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 2 {
		return headerStyle.Render(lipgloss.JoinVertical(lipgloss.Left, left, right))
	}
	return headerStyle.Render(left + strings.Repeat(" ", gap) + right)
}

func (m Model) renderUser(state navbar.State) string {
	if !state.SignedIn() {
		return mutedStyle.Render("Sign in: libaas login")
	}
	user := avatarStyle.Render(state.Initial()) + " " + bodyStyle.Render(state.FirstName())
	if state.RefreshErr != nil {
		user += mutedStyle.Render(" (offline)")
	}
	return user
}

// renderFooter renders the footer with keyboard shortcuts
func (m Model) renderFooter() string {
	var hints []string
	switch m.viewMode {
	case ViewInput:
		hints = []string{"enter: submit", "esc: cancel"}
		return footerStyle.Render(strings.Join(hints, "  •  "))
	}

	switch m.screen {
	case ScreenHome:
		hints = []string{"←/→: flip card", "p: pause", "enter: get started"}
	case ScreenWardrobe:
		hints = []string{"↑/↓: select", "u: upload", "/: search", "c/s: category/style", "d: delete", "r: reload"}
	case ScreenGenerate:
		hints = []string{"o: occasion", "g: generate", "r: reload wardrobe"}
	case ScreenProfile:
		hints = m.profileHints()
	}

	hints = append(hints, "1-4: screens", "t: theme", "?: help")
	if m.showError {
		hints = append(hints, "x: dismiss error")
	}
	hints = append(hints, "q: quit")

	return footerStyle.Render(strings.Join(hints, "  •  "))
}

// renderErrorBanner renders an error message banner
func (m Model) renderErrorBanner() string {
	return errorBannerStyle.Render(m.errorMsg)
}

// renderHelpView renders the help overlay
func (m Model) renderHelpView() string {
	rows := [][2]string{
		{"1-4", "Switch screen: Home, My Wardrobe, Generate Look, Profile"},
		{"t", "Toggle light and dark theme"},
		{"x", "Dismiss messages"},
		{"?", "Toggle this help"},
		{"q, Ctrl+C", "Quit"},
		{"", ""},
		{"←/→", "Home: flip a card and hold the marquee"},
		{"p", "Home: pause or resume the marquee"},
		{"u", "Wardrobe: upload photos (auto-categorized)"},
		{"/", "Wardrobe: search by name"},
		{"c / C", "Wardrobe: next / previous category"},
		{"s / S", "Wardrobe: next / previous style"},
		{"d", "Wardrobe: delete selected item"},
		{"o, g", "Generate Look: set occasion, generate outfits"},
		{"e", "Profile: edit details (s saves, esc cancels)"},
		{"p, u, c", "Profile: choose, upload or cancel a new photo"},
		{"i", "Profile: generate style insights"},
		{"o", "Profile: sign out"},
	}

	lines := make([]string, 0, len(rows))
	for _, row := range rows {
		if row[0] == "" {
			lines = append(lines, "")
			continue
		}
		lines = append(lines, helpKeyStyle.Render(row[0])+helpDescStyle.Render(row[1]))
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		titleStyle.Render("❓ "+marketing.Brand+" Help"),
		"",
		lipgloss.NewStyle().Padding(0, 2).Render(strings.Join(lines, "\n")),
		footerStyle.Render("Press ? or Esc to close"),
	)
}

// renderConfirmView renders a confirmation dialog
func (m Model) renderConfirmView() string {
	message := m.confirmMessage
	if message == "" {
		message = "Confirm action?"
	}

	dialog := dialogStyle.Render(
		lipgloss.JoinVertical(
			lipgloss.Center,
			"⚠️  "+message,
			"",
			mutedStyle.Render("y = Yes    n = No    Esc = Cancel"),
		),
	)

	return lipgloss.NewStyle().
		Width(m.width).
		Height(m.height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(dialog)
}

// clip keeps at most height lines, scrolled so that focus stays visible.
func clip(lines []string, focus, height int) []string {
	if height <= 0 || len(lines) <= height {
		return lines
	}
	start := focus - height/2
	if start < 0 {
		start = 0
	}
	if start+height > len(lines) {
		start = len(lines) - height
	}
	out := append([]string(nil), lines[start:start+height]...)
	if start > 0 {
		out[0] = mutedStyle.Render("▲ More above")
	}
	if start+height < len(lines) {
		out[len(out)-1] = mutedStyle.Render("▼ More below")
	}
	return out
}
