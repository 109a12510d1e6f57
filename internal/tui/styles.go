package tui

import (
	"github.com/charmbracelet/lipgloss"
)

// ac builds a colour that follows the renderer's dark-background flag, so a
// theme switch repaints every style without rebuilding it.
func ac(light, dark string) lipgloss.AdaptiveColor {
	return lipgloss.AdaptiveColor{Light: light, Dark: dark}
}

var (
	// Colors
	brandColor   = ac("#059669", "#34D399") // Emerald
	accentColor  = ac("#CA8A04", "#FACC15") // Gold
	textColor    = ac("#111827", "#F3F4F6")
	mutedColor   = ac("#6B7280", "#9CA3AF")
	borderColor  = ac("#D1D5DB", "#374151")
	successColor = ac("#16A34A", "#4ADE80")
	errorColor   = ac("#DC2626", "#F87171")
	beforeColor  = ac("#EA580C", "#FB923C")
	panelColor   = ac("#F9FAFB", "#111827")

	// Navbar
	brandStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(brandColor)

	tabStyle = lipgloss.NewStyle().
			Foreground(mutedColor).
			Padding(0, 1)

	activeTabStyle = lipgloss.NewStyle().
			Foreground(brandColor).
			Bold(true).
			Underline(true).
			Padding(0, 1)

	avatarStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(panelColor).
			Background(brandColor).
			Padding(0, 1)

	headerStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(borderColor).
			PaddingBottom(0).
			MarginBottom(1)

	// Content
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(textColor)

	heroAccentStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(brandColor)

	sectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(brandColor).
			MarginTop(1)

	bodyStyle = lipgloss.NewStyle().
			Foreground(textColor)

	mutedStyle = lipgloss.NewStyle().
			Foreground(mutedColor)

	labelStyle = lipgloss.NewStyle().
			Foreground(mutedColor).
			Bold(true).
			Width(14)

	cardStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(borderColor).
			Padding(0, 1).
			Width(cardWidth - 2)

	focusedCardStyle = cardStyle.
				BorderForeground(accentColor)

	beforeTagStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(beforeColor)

	afterTagStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(successColor)

	stepNumberStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(panelColor).
			Background(brandColor).
			Padding(0, 1)

	// List items
	itemStyle = lipgloss.NewStyle().
			PaddingLeft(2)

	selectedItemStyle = lipgloss.NewStyle().
				PaddingLeft(1).
				Foreground(accentColor).
				Bold(true).
				BorderStyle(lipgloss.NormalBorder()).
				BorderLeft(true).
				BorderForeground(brandColor)

	tagStyle = lipgloss.NewStyle().
			Foreground(brandColor)

	// Footer style
	footerStyle = lipgloss.NewStyle().
			Foreground(mutedColor).
			BorderStyle(lipgloss.NormalBorder()).
			BorderTop(true).
			BorderForeground(borderColor).
			MarginTop(1)

	// Banners
	errorBannerStyle = lipgloss.NewStyle().
				Foreground(errorColor).
				Bold(true).
				Padding(0, 1).
				MarginBottom(1).
				BorderStyle(lipgloss.ThickBorder()).
				BorderForeground(errorColor)

	successBannerStyle = lipgloss.NewStyle().
				Foreground(successColor).
				Padding(0, 1).
				MarginBottom(1).
				BorderStyle(lipgloss.NormalBorder()).
				BorderForeground(successColor)

	// Dialogs
	dialogStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accentColor).
			Padding(1, 2).
			Width(50).
			Align(lipgloss.Center)

	helpKeyStyle = lipgloss.NewStyle().
			Foreground(accentColor).
			Bold(true).
			Width(12)

	helpDescStyle = lipgloss.NewStyle().
			Foreground(textColor)

	// Spinner style
	spinnerStyle = lipgloss.NewStyle().
			Foreground(brandColor)
)

// cardWidth is the horizontal space one marquee card takes.
const cardWidth = 26

// ApplyMaxWidth applies a maximum width to all relevant styles
func ApplyMaxWidth(width int) {
	itemStyle = itemStyle.MaxWidth(width - 4)
	selectedItemStyle = selectedItemStyle.MaxWidth(width - 4)
	headerStyle = headerStyle.Width(width - 2)
	footerStyle = footerStyle.Width(width - 2)
}
