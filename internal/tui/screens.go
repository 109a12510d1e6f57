package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/alexisbeaulieu97/libaas/internal/domain"
	"github.com/alexisbeaulieu97/libaas/internal/marketing"
	"github.com/alexisbeaulieu97/libaas/internal/navbar"
	"github.com/alexisbeaulieu97/libaas/internal/profile"
	"github.com/alexisbeaulieu97/libaas/internal/wardrobe"
)

// chrome is the vertical space taken by the navbar and footer.
const chrome = 8

func (m Model) cardsPerRow() int {
	n := (m.width - 4) / cardWidth
	if n < 1 {
		n = 1
	}
	return n
}

func (m Model) textWidth() int {
	w := m.width - 4
	if w > 78 {
		w = 78
	}
	if w < 20 {
		w = 20
	}
	return w
}

func (m Model) wrap(style lipgloss.Style, text string) string {
	return style.Width(m.textWidth()).Render(text)
}

// renderHome renders the landing screen
func (m Model) renderHome() string {
	hero := marketing.DefaultHero()
	var b strings.Builder

	b.WriteString(titleStyle.Render(hero.Title[0]))
	b.WriteString("\n")
	b.WriteString(heroAccentStyle.Render(hero.Title[1]))
	b.WriteString("\n\n")
	b.WriteString(m.wrap(bodyStyle, hero.Body))
	b.WriteString("\n\n")
	b.WriteString(tagStyle.Render("[enter] "+hero.Primary) + "   " + mutedStyle.Render(hero.Secondary+": libaas gateway"))
	b.WriteString("\n")

	b.WriteString(sectionStyle.Render("Style Transformations"))
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render("Discover versatile fashion styles powered by AI. Use ←/→ to see the transformation!"))
	b.WriteString("\n")
	b.WriteString(m.renderMarquee())
	b.WriteString("\n")

	b.WriteString(sectionStyle.Render("How It Works"))
	b.WriteString("\n")
	b.WriteString(m.wrap(mutedStyle, marketing.HowItWorksIntro))
	b.WriteString("\n")
	for i, s := range marketing.Steps() {
		b.WriteString(stepNumberStyle.Render(fmt.Sprint(i+1)) + " " + titleStyle.Render(s.Title))
		b.WriteString("\n")
		b.WriteString(m.wrap(itemStyle, s.Description))
		b.WriteString("\n")
	}

	b.WriteString(m.renderSiteFooter())
	return b.String()
}

func (m Model) renderMarquee() string {
	cards := m.deps.Marquee.Window(m.cardsPerRow())
	rendered := make([]string, 0, len(cards))
	for pos, card := range cards {
		tag := beforeTagStyle.Render(card.Label)
		if card.Flipped {
			tag = afterTagStyle.Render(card.Label)
		}
		style := cardStyle
		if pos == m.cardCursor {
			style = focusedCardStyle
		}
		rendered = append(rendered, style.Render(tag+"\n"+card.Caption))
	}

	row := lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
	if m.deps.Marquee.Paused() {
		row += "\n" + mutedStyle.Render("⏸ paused")
	}
	return row
}

func (m Model) renderSiteFooter() string {
	footer := marketing.DefaultFooter()

	links := make([]string, 0, len(footer.Explore))
	for _, link := range footer.Explore {
		for i, screen := range Screens {
			if screen.String() == link.Name {
				links = append(links, fmt.Sprintf("%d %s", i+1, link.Name))
			}
		}
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		sectionStyle.Render(marketing.Brand),
		m.wrap(mutedStyle, footer.Tagline),
		labelStyle.Render("Explore")+bodyStyle.Render(strings.Join(links, "  ")),
		labelStyle.Render("Follow")+bodyStyle.Render(strings.Join(footer.Social, "  ")),
		mutedStyle.Render(marketing.Copyright(m.deps.Now())),
	)
}

// renderWardrobe renders the wardrobe gallery
func (m Model) renderWardrobe() string {
	if m.deps.Gallery == nil {
		return mutedStyle.Render("Wardrobe unavailable")
	}
	snap := m.deps.Gallery.Snapshot()

	var b strings.Builder
	b.WriteString(titleStyle.Render("My Wardrobe"))
	b.WriteString(mutedStyle.Render(fmt.Sprintf("  %d items", len(snap.Items))))
	b.WriteString("\n")
	b.WriteString(m.renderMessages(snap.Error, snap.Success))
	b.WriteString(m.renderFilter(snap.Filter))
	b.WriteString("\n\n")

	switch {
	case snap.Loading:
		b.WriteString(m.spinner.View() + " Loading your wardrobe...")
		return b.String()
	case snap.Uploading:
		b.WriteString(m.spinner.View() + " Uploading and categorizing...")
		b.WriteString("\n\n")
	}

	if snap.Error == wardrobe.MsgSignIn {
		b.WriteString(mutedStyle.Render("Run libaas login, then press r."))
		return b.String()
	}
	if len(snap.Items) == 0 {
		b.WriteString(mutedStyle.Render("Your wardrobe is empty. Press u to upload photos."))
		return b.String()
	}
	if len(snap.Visible) == 0 {
		b.WriteString(mutedStyle.Render("No items match your filters. Press esc to reset."))
		return b.String()
	}

	var lines []string
	focus, idx := 0, 0
	for _, group := range snap.Groups {
		lines = append(lines, sectionStyle.UnsetMarginTop().Render(fmt.Sprintf("%s (%d)", group.Category, len(group.Items))))
		for _, item := range group.Items {
			line := itemName(item) + describeItem(item)
			if idx == m.itemCursor {
				focus = len(lines)
				lines = append(lines, selectedItemStyle.Render("▸ "+line))
			} else {
				lines = append(lines, itemStyle.Render(line))
			}
			idx++
		}
	}

	b.WriteString(strings.Join(clip(lines, focus, m.height-chrome-6), "\n"))
	return b.String()
}

func describeItem(item domain.WardrobeItem) string {
	var parts []string
	for _, v := range []string{item.SubCategory, item.Color, item.Style, item.Pattern} {
		if v != "" {
			parts = append(parts, v)
		}
	}
	out := ""
	if len(parts) > 0 {
		out = mutedStyle.Render("  " + strings.Join(parts, " · "))
	}
	if len(item.Tags) > 0 {
		out += "  " + tagStyle.Render("#"+strings.Join(item.Tags, " #"))
	}
	return out
}

func (m Model) renderFilter(f domain.Filter) string {
	search := f.Search
	if search == "" {
		search = "none"
	}
	return labelStyle.Render("Search") + bodyStyle.Render(search) + "\n" +
		labelStyle.Render("Category") + tagStyle.Render(orDefault(f.Category, domain.AllCategories)) + "\n" +
		labelStyle.Render("Style") + tagStyle.Render(orDefault(f.Style, domain.AllStyles))
}

func (m Model) renderMessages(errMsg, success string) string {
	var b strings.Builder
	if errMsg != "" {
		b.WriteString(errorBannerStyle.Render(errMsg))
		b.WriteString("\n")
	}
	if success != "" {
		b.WriteString(successBannerStyle.Render(success))
		b.WriteString("\n")
	}
	if m.notice != "" {
		b.WriteString(successBannerStyle.Render(m.notice))
		b.WriteString("\n")
	}
	return b.String()
}

// renderGenerate renders the outfit generator
func (m Model) renderGenerate() string {
	if m.deps.Gallery == nil {
		return mutedStyle.Render("Wardrobe unavailable")
	}
	snap := m.deps.Gallery.Snapshot()

	var b strings.Builder
	b.WriteString(titleStyle.Render("Generate Look"))
	b.WriteString("\n")
	b.WriteString(m.renderMessages(snap.Error, ""))
	b.WriteString(labelStyle.Render("Occasion") + bodyStyle.Render(orDefault(m.occasion, "Any")))
	b.WriteString("\n")
	b.WriteString(labelStyle.Render("Wardrobe") + bodyStyle.Render(fmt.Sprintf("%d items", len(snap.Items))))
	b.WriteString("\n\n")

	if snap.Loading {
		b.WriteString(m.spinner.View() + " Loading your wardrobe...")
		return b.String()
	}
	if len(snap.Items) == 0 {
		b.WriteString(mutedStyle.Render("Upload some items first on the My Wardrobe screen (2)."))
		return b.String()
	}
	if snap.Recommending {
		b.WriteString(m.spinner.View() + " Styling your look...")
		return b.String()
	}
	if len(snap.Recommendations) == 0 {
		b.WriteString(mutedStyle.Render("Press g to generate outfits from your wardrobe."))
		return b.String()
	}

	byID := domain.IndexByID(snap.Items)

	var lines []string
	for i, rec := range snap.Recommendations {
		name := rec.Name
		if name == "" {
			name = fmt.Sprintf("Look %d", i+1)
		}
		head := stepNumberStyle.Render(fmt.Sprint(i+1)) + " " + titleStyle.Render(name)
		if rec.Occasion != "" {
			head += mutedStyle.Render("  " + rec.Occasion)
		}
		lines = append(lines, head)
		if rec.Description != "" {
			lines = append(lines, m.wrap(itemStyle, rec.Description))
		}
		for _, item := range rec.Garments(byID) {
			lines = append(lines, itemStyle.Render("• "+itemName(item)+mutedStyle.Render("  "+orDefault(item.Category, domain.Uncategorized))))
		}
		lines = append(lines, "")
	}
	b.WriteString(strings.Join(clip(lines, 0, m.height-chrome-6), "\n"))
	return b.String()
}

// renderProfile renders the profile screen
func (m Model) renderProfile() string {
	if m.page == nil {
		return m.spinner.View() + " Loading profile..."
	}
	snap := m.page.Snapshot()

	switch snap.Status {
	case profile.StatusLoading:
		return m.spinner.View() + " Loading profile..."
	case profile.StatusError:
		out := errorBannerStyle.Render(snap.Error) + "\n"
		if snap.RedirectTo == profile.RedirectSignIn {
			out += mutedStyle.Render("Run libaas login to sign in.") + "\n"
		}
		return out + mutedStyle.Render("Press r to retry.")
	}

	var lines []string
	p := snap.Profile
	lines = append(lines,
		avatarStyle.Render(navbar.State{Name: p.Name}.Initial())+" "+titleStyle.Render(p.Name)+mutedStyle.Render("  "+p.Email),
	)
	if m.notice != "" {
		lines = append(lines, successBannerStyle.Render(m.notice))
	}

	lines = append(lines, sectionStyle.Render("Photo"))
	lines = append(lines, labelStyle.Render("Current")+bodyStyle.Render(orDefault(p.ImageURL, "None")))
	if snap.Staged != nil {
		lines = append(lines, labelStyle.Render("Selected")+bodyStyle.Render(
			fmt.Sprintf("%s (%s, %.1f KB)", snap.Staged.Name, snap.Staged.MIME, float64(snap.Staged.Size)/1024)))
	}
	if snap.Uploading {
		lines = append(lines, m.spinner.View()+" Uploading photo...")
	}

	if snap.Editing {
		lines = append(lines, sectionStyle.Render("Edit Profile"))
		lines = append(lines, m.renderForm(snap.Draft)...)
		if snap.Saving {
			lines = append(lines, m.spinner.View()+" Saving...")
		}
	} else {
		lines = append(lines, sectionStyle.Render("Details"))
		lines = append(lines,
			labelStyle.Render("Gender")+bodyStyle.Render(orDefault(domain.OptionName(domain.GenderOptions, p.Gender), "Not specified")),
			labelStyle.Render("Country")+bodyStyle.Render(orDefault(p.Country, "Not specified")),
			labelStyle.Render("Height")+bodyStyle.Render(orDefault(p.Height.String(), "Not specified")),
			labelStyle.Render("Body Shape")+bodyStyle.Render(orDefault(domain.OptionName(domain.BodyShapeOptions, p.BodyShape), "Not specified")),
			labelStyle.Render("Skin Tone")+bodyStyle.Render(orDefault(domain.OptionName(domain.SkinToneOptions, p.SkinTone), "Not specified")),
		)
	}

	lines = append(lines, m.renderAI(snap.AI)...)
	lines = append(lines, m.renderInsights(snap)...)

	return strings.Join(clip(lines, 0, m.height-chrome), "\n")
}

func (m Model) renderForm(draft domain.ProfileUpdate) []string {
	lines := make([]string, 0, len(profileForm))
	for i, field := range profileForm {
		value := field.display(draft)
		if field.isChoice() {
			value = "‹ " + value + " ›"
		}
		line := labelStyle.Render(field.label) + value
		if i == m.formField {
			lines = append(lines, selectedItemStyle.Render(line))
		} else {
			lines = append(lines, itemStyle.Render(line))
		}
	}
	return lines
}

func (m Model) renderAI(ai domain.AIInsights) []string {
	lines := []string{sectionStyle.Render("AI Style Analysis")}
	lines = append(lines, labelStyle.Render("Top Match")+bodyStyle.Render(fmt.Sprintf("%s (%s%%)", ai.TopLabel, ai.TopConfidence)))
	for _, pred := range ai.TopPredictions {
		lines = append(lines, itemStyle.Render(fmt.Sprintf("%-28s %5s%%", pred.Label, pred.Percent)))
	}
	lines = append(lines,
		labelStyle.Render("Colors")+bodyStyle.Render(strings.Join(ai.Colors, ", ")),
		labelStyle.Render("Fits")+bodyStyle.Render(strings.Join(ai.Fits, ", ")),
		labelStyle.Render("Patterns")+bodyStyle.Render(strings.Join(ai.Patterns, ", ")),
	)
	return lines
}

func (m Model) renderInsights(snap profile.Snapshot) []string {
	lines := []string{sectionStyle.Render("Style Insights")}
	if snap.InsightsLoading {
		return append(lines, m.spinner.View()+" Generating insights...")
	}
	if snap.InsightsError != "" {
		lines = append(lines, errorBannerStyle.Render(snap.InsightsError))
	}
	in := snap.Insights
	if in.Empty() {
		return append(lines, mutedStyle.Render("Press i to generate personalized style insights."))
	}

	if in.Summary != "" {
		lines = append(lines, m.wrap(bodyStyle, in.Summary))
	}
	list := func(title string, values []string) {
		if len(values) == 0 {
			return
		}
		lines = append(lines, labelStyle.Render(title))
		for _, v := range values {
			lines = append(lines, m.wrap(itemStyle, "• "+v))
		}
	}
	if len(in.ColorPalette) > 0 {
		lines = append(lines, labelStyle.Render("Palette")+tagStyle.Render(strings.Join(in.ColorPalette, "  ")))
	}
	list("Recommended", in.StyleRecommendations)
	list("Essentials", in.WardrobeEssentials)
	list("Do", in.FashionDos)
	list("Don't", in.FashionDonts)
	if in.CulturalTips != "" {
		lines = append(lines, labelStyle.Render("Cultural Tips"), m.wrap(itemStyle, in.CulturalTips))
	}
	return lines
}

func (m Model) profileHints() []string {
	if m.page == nil {
		return nil
	}
	snap := m.page.Snapshot()
	switch {
	case snap.Status == profile.StatusError:
		return []string{"r: retry"}
	case snap.Editing:
		return []string{"↑/↓: field", "←/→: choose", "enter: edit", "s: save", "esc: cancel"}
	case snap.Staged != nil:
		return []string{"u: upload photo", "c: cancel photo", "e: edit", "i: insights", "o: sign out"}
	default:
		return []string{"e: edit", "p: new photo", "i: insights", "o: sign out"}
	}
}
