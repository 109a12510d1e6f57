package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alexisbeaulieu97/libaas/internal/domain"
	"github.com/alexisbeaulieu97/libaas/internal/profile"
	liberrors "github.com/alexisbeaulieu97/libaas/pkg/errors"
)

func newProfileCmd(flags *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "View and edit your profile",
	}

	cmd.AddCommand(newProfileShowCmd(flags))
	cmd.AddCommand(newProfileUpdateCmd(flags))
	cmd.AddCommand(newProfilePhotoCmd(flags))
	cmd.AddCommand(newProfileInsightsCmd(flags))

	return cmd
}

// loadPage builds and loads a profile page, turning a failed load into a
// command error.
func loadPage(ctx context.Context, app *AppContext, userID, operation string) (*profile.Page, error) {
	page := app.ProfilePage(userID)
	if err := page.Load(ctx); err != nil {
		snap := page.Snapshot()
		if snap.RedirectTo == profile.RedirectSignIn {
			return nil, newCommandError(operation, "resolving the signed-in user", errors.New(snap.Error), "Run 'libaas login' to sign in.")
		}
		return nil, newCommandError(operation, "loading the profile", err, backendSuggestion(err))
	}
	return page, nil
}

type profileShowOptions struct {
	userID     string
	jsonOutput bool
}

func newProfileShowCmd(flags *rootFlags) *cobra.Command {
	opts := &profileShowOptions{}

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show profile details and AI style analysis",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, flags, func(ctx context.Context, app *AppContext) error {
				page, err := loadPage(ctx, app, opts.userID, "show profile")
				if err != nil {
					return err
				}
				snap := page.Snapshot()
				if opts.jsonOutput {
					return renderProfileJSON(cmd.OutOrStdout(), snap)
				}
				return renderProfile(cmd.OutOrStdout(), snap)
			})
		},
	}

	cmd.Flags().StringVar(&opts.userID, "user", "", "Show another user's profile by id")
	cmd.Flags().BoolVar(&opts.jsonOutput, "json", false, "Output in JSON format")

	return cmd
}

type profileJSONPayload struct {
	UserID        string                `json:"user_id"`
	Profile       domain.Profile        `json:"profile"`
	TopLabel      string                `json:"top_label"`
	TopConfidence string                `json:"top_confidence"`
	Colors        []string              `json:"colors"`
	Fits          []string              `json:"fits"`
	Patterns      []string              `json:"patterns"`
	Insights      *domain.StyleInsights `json:"style_insights,omitempty"`
}

func renderProfileJSON(w io.Writer, snap profile.Snapshot) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(profileJSONPayload{
		UserID:        snap.UserID,
		Profile:       snap.Profile,
		TopLabel:      snap.AI.TopLabel,
		TopConfidence: snap.AI.TopConfidence,
		Colors:        snap.AI.Colors,
		Fits:          snap.AI.Fits,
		Patterns:      snap.AI.Patterns,
		Insights:      snap.Insights,
	})
}

func renderProfile(w io.Writer, snap profile.Snapshot) error {
	p := snap.Profile
	notSet := "Not specified"

	_, _ = fmt.Fprintf(w, "%s <%s>\n\n", valueOrFallback(p.Name, "(no name)"), p.Email)
	_, _ = fmt.Fprintf(w, "Gender:      %s\n", valueOrFallback(domain.OptionName(domain.GenderOptions, p.Gender), notSet))
	_, _ = fmt.Fprintf(w, "Country:     %s\n", valueOrFallback(p.Country, notSet))
	_, _ = fmt.Fprintf(w, "Height:      %s\n", valueOrFallback(p.Height.String(), notSet))
	_, _ = fmt.Fprintf(w, "Body shape:  %s\n", valueOrFallback(domain.OptionName(domain.BodyShapeOptions, p.BodyShape), notSet))
	_, _ = fmt.Fprintf(w, "Skin tone:   %s\n", valueOrFallback(domain.OptionName(domain.SkinToneOptions, p.SkinTone), notSet))
	_, _ = fmt.Fprintf(w, "Photo:       %s\n", valueOrFallback(p.ImageURL, "None"))

	ai := snap.AI
	_, _ = fmt.Fprintf(w, "\nAI style analysis\n")
	_, _ = fmt.Fprintf(w, "  Top match: %s (%s%%)\n", ai.TopLabel, ai.TopConfidence)
	for _, pred := range ai.TopPredictions {
		_, _ = fmt.Fprintf(w, "    %-28s %5s%%\n", pred.Label, pred.Percent)
	}
	_, _ = fmt.Fprintf(w, "  Colors:    %s\n", strings.Join(ai.Colors, ", "))
	_, _ = fmt.Fprintf(w, "  Fits:      %s\n", strings.Join(ai.Fits, ", "))
	_, _ = fmt.Fprintf(w, "  Patterns:  %s\n", strings.Join(ai.Patterns, ", "))

	if !snap.Insights.Empty() {
		_, _ = fmt.Fprintln(w)
		renderInsights(w, snap.Insights)
	}
	return nil
}

func renderInsights(w io.Writer, in *domain.StyleInsights) {
	_, _ = fmt.Fprintln(w, "Style insights")
	if in.Summary != "" {
		_, _ = fmt.Fprintf(w, "  %s\n", in.Summary)
	}
	if len(in.ColorPalette) > 0 {
		_, _ = fmt.Fprintf(w, "  Palette: %s\n", strings.Join(in.ColorPalette, ", "))
	}
	list := func(title string, values []string) {
		if len(values) == 0 {
			return
		}
		_, _ = fmt.Fprintf(w, "  %s:\n", title)
		for _, v := range values {
			_, _ = fmt.Fprintf(w, "    • %s\n", v)
		}
	}
	list("Recommended styles", in.StyleRecommendations)
	list("Wardrobe essentials", in.WardrobeEssentials)
	list("Do", in.FashionDos)
	list("Don't", in.FashionDonts)
	if in.CulturalTips != "" {
		_, _ = fmt.Fprintf(w, "  Cultural tips: %s\n", in.CulturalTips)
	}
}

type profileUpdateOptions struct {
	name      string
	gender    string
	country   string
	height    string
	bodyShape string
	skinTone  string
}

func newProfileUpdateCmd(flags *rootFlags) *cobra.Command {
	opts := &profileUpdateOptions{}

	cmd := &cobra.Command{
		Use:   "update",
		Short: "Update profile details",
		Long: `Update one or more profile fields. Fields that are not passed keep
their current value; pass an empty string to clear an optional field.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, flags, func(ctx context.Context, app *AppContext) error {
				return runProfileUpdate(ctx, cmd, app, opts)
			})
		},
	}

	cmd.Flags().StringVar(&opts.name, "name", "", "Full name")
	cmd.Flags().StringVar(&opts.gender, "gender", "", "male, female or other")
	cmd.Flags().StringVar(&opts.country, "country", "", "Country")
	cmd.Flags().StringVar(&opts.height, "height", "", "Height, e.g. 5'6\" or 168cm")
	cmd.Flags().StringVar(&opts.bodyShape, "body-shape", "", "hourglass, pear, rectangle, inverted or round")
	cmd.Flags().StringVar(&opts.skinTone, "skin-tone", "", "fair, warm, olive, tan or deep")

	return cmd
}

func runProfileUpdate(ctx context.Context, cmd *cobra.Command, app *AppContext, opts *profileUpdateOptions) error {
	changed := cmd.Flags().Changed
	if !changed("name") && !changed("gender") && !changed("country") && !changed("height") &&
		!changed("body-shape") && !changed("skin-tone") {
		return newCommandError("update profile", "reading flags", errors.New("nothing to update"), "Pass at least one of --name, --gender, --country, --height, --body-shape or --skin-tone.")
	}

	page, err := loadPage(ctx, app, "", "update profile")
	if err != nil {
		return err
	}
	if err := page.BeginEdit(); err != nil {
		return newCommandError("update profile", "opening the profile for editing", err, "Try again.")
	}

	draft := page.Snapshot().Draft
	if changed("name") {
		draft.Name = strings.TrimSpace(opts.name)
	}
	if changed("country") {
		draft.Country = strings.TrimSpace(opts.country)
	}
	if changed("height") {
		draft.Height = strings.TrimSpace(opts.height)
	}
	choices := []struct {
		flag    string
		value   string
		options []domain.Option
		target  *string
	}{
		{"gender", opts.gender, domain.GenderOptions, &draft.Gender},
		{"body-shape", opts.bodyShape, domain.BodyShapeOptions, &draft.BodyShape},
		{"skin-tone", opts.skinTone, domain.SkinToneOptions, &draft.SkinTone},
	}
	for _, c := range choices {
		if !changed(c.flag) {
			continue
		}
		if strings.TrimSpace(c.value) == "" && c.flag != "gender" {
			*c.target = ""
			continue
		}
		id, ok := optionID(c.options, c.value)
		if !ok {
			return newCommandError("update profile", "validating --"+c.flag, fmt.Errorf("unknown value %q", c.value), "Use one of: "+optionIDs(c.options)+".")
		}
		*c.target = id
	}

	if err := page.SetDraft(draft); err != nil {
		return newCommandError("update profile", "applying changes", err, "Try again.")
	}
	if err := page.Save(ctx); err != nil {
		return newCommandError("update profile", "saving the profile", err, backendSuggestion(err))
	}

	_, _ = fmt.Fprintln(cmd.OutOrStdout(), "✓ Profile updated successfully!")
	return renderProfile(cmd.OutOrStdout(), page.Snapshot())
}

func newProfilePhotoCmd(flags *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "photo <path>",
		Short: "Replace your profile photo",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, flags, func(ctx context.Context, app *AppContext) error {
				return runProfilePhoto(ctx, cmd, app, args[0])
			})
		},
	}

	return cmd
}

func runProfilePhoto(ctx context.Context, cmd *cobra.Command, app *AppContext, path string) error {
	photo, err := domain.ReadPhoto(path)
	if err != nil {
		var vErr *liberrors.ValidationError
		if errors.As(err, &vErr) {
			return newCommandError("update photo", "validating "+path, err, "Use a JPG, PNG or GIF under 5MB.")
		}
		return newCommandError("update photo", "reading "+path, err, "Check the path and try again.")
	}

	page, err := loadPage(ctx, app, "", "update photo")
	if err != nil {
		return err
	}

	preview, err := page.StagePhoto(photo.Name, photo.Data)
	if err != nil {
		return newCommandError("update photo", "staging "+path, err, "Try again in a moment.")
	}
	if err := page.UploadPhoto(ctx); err != nil {
		return newCommandError("update photo", "uploading "+preview.Name, err, backendSuggestion(err))
	}

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "✓ Profile photo updated: %s\n", page.Snapshot().Profile.ImageURL)
	return nil
}

type profileInsightsOptions struct {
	jsonOutput bool
}

func newProfileInsightsCmd(flags *rootFlags) *cobra.Command {
	opts := &profileInsightsOptions{}

	cmd := &cobra.Command{
		Use:   "insights",
		Short: "Generate personalised style insights",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, flags, func(ctx context.Context, app *AppContext) error {
				page, err := loadPage(ctx, app, "", "generate insights")
				if err != nil {
					return err
				}
				if err := page.GenerateInsights(ctx); err != nil {
					return newCommandError("generate insights", "asking LibaasAI for a style report", errors.New(page.Snapshot().InsightsError), backendSuggestion(err))
				}

				insights := page.Snapshot().Insights
				if opts.jsonOutput {
					encoder := json.NewEncoder(cmd.OutOrStdout())
					encoder.SetIndent("", "  ")
					return encoder.Encode(insights)
				}
				renderInsights(cmd.OutOrStdout(), insights)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&opts.jsonOutput, "json", false, "Output in JSON format")

	return cmd
}

// optionID accepts an option id or its display name, case-insensitively.
func optionID(options []domain.Option, value string) (string, bool) {
	value = strings.TrimSpace(value)
	for _, o := range options {
		if strings.EqualFold(o.ID, value) || strings.EqualFold(o.Name, value) {
			return o.ID, true
		}
	}
	return "", false
}

func optionIDs(options []domain.Option) string {
	ids := make([]string, 0, len(options))
	for _, o := range options {
		ids = append(ids, o.ID)
	}
	return strings.Join(ids, ", ")
}
