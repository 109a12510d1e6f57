package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/alexisbeaulieu97/libaas/internal/domain"
	"github.com/alexisbeaulieu97/libaas/internal/wardrobe"
)

func newWardrobeCmd(flags *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "wardrobe",
		Aliases: []string{"wr"},
		Short:   "Manage your digital wardrobe",
	}

	cmd.AddCommand(newWardrobeListCmd(flags))
	cmd.AddCommand(newWardrobeUploadCmd(flags))
	cmd.AddCommand(newWardrobeDeleteCmd(flags))

	return cmd
}

// loadGallery fetches the signed-in user's wardrobe.
func loadGallery(ctx context.Context, app *AppContext, operation string) (*wardrobe.Gallery, error) {
	gallery := app.Gallery()
	if err := gallery.Load(ctx); err != nil {
		if errors.Is(err, wardrobe.ErrNoSession) {
			return nil, newCommandError(operation, "resolving the signed-in user", err, "Run 'libaas login' to sign in.")
		}
		return nil, newCommandError(operation, "loading the wardrobe", err, backendSuggestion(err))
	}
	return gallery, nil
}

type wardrobeListOptions struct {
	jsonOutput bool
	search     string
	category   string
	style      string
}

func newWardrobeListCmd(flags *rootFlags) *cobra.Command {
	opts := &wardrobeListOptions{}

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List wardrobe items grouped by category",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, flags, func(ctx context.Context, app *AppContext) error {
				return runWardrobeList(ctx, cmd, app, opts)
			})
		},
	}

	cmd.Flags().BoolVar(&opts.jsonOutput, "json", false, "Output in JSON format")
	cmd.Flags().StringVarP(&opts.search, "search", "s", "", "Only show items whose name contains this text")
	cmd.Flags().StringVarP(&opts.category, "category", "c", domain.AllCategories, "Only show this category")
	cmd.Flags().StringVar(&opts.style, "style", domain.AllStyles, "Only show items tagged with this style")

	return cmd
}

func runWardrobeList(ctx context.Context, cmd *cobra.Command, app *AppContext, opts *wardrobeListOptions) error {
	category, ok := matchChoice(domain.Categories, opts.category, domain.AllCategories)
	if !ok {
		return newCommandError("list wardrobe", "validating --category", fmt.Errorf("unknown category %q", opts.category), "Use one of: "+strings.Join(domain.Categories, ", ")+".")
	}
	style, ok := matchChoice(domain.Styles, opts.style, domain.AllStyles)
	if !ok {
		return newCommandError("list wardrobe", "validating --style", fmt.Errorf("unknown style %q", opts.style), "Use one of: "+strings.Join(domain.Styles, ", ")+".")
	}

	gallery, err := loadGallery(ctx, app, "list wardrobe")
	if err != nil {
		return err
	}
	gallery.SetFilter(domain.Filter{Search: opts.search, Category: category, Style: style})
	snap := gallery.Snapshot()

	if opts.jsonOutput {
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		return encoder.Encode(snap.Visible)
	}

	out := cmd.OutOrStdout()
	switch {
	case len(snap.Items) == 0:
		_, _ = fmt.Fprintln(out, "Your wardrobe is empty.")
		_, _ = fmt.Fprintln(out, "\nRun 'libaas wardrobe upload <photo>...' to add items.")
		return nil
	case len(snap.Visible) == 0:
		_, _ = fmt.Fprintln(out, "No items match your filters.")
		return nil
	}

	renderGroups(out, snap.Groups)
	_, _ = fmt.Fprintf(out, "\n%d of %d items\n", len(snap.Visible), len(snap.Items))
	return nil
}

func renderGroups(w io.Writer, groups []domain.CategoryGroup) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "ID\tNAME\tCATEGORY\tTAGS")
	for _, g := range groups {
		for _, item := range g.Items {
			_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
				item.ID,
				valueOrFallback(item.Name, "(unnamed)"),
				g.Category,
				strings.Join(item.Tags, ", "),
			)
		}
	}
	_ = tw.Flush()
}

// matchChoice accepts a choice case-insensitively and returns its canonical
// spelling. An empty value selects all.
func matchChoice(choices []string, value, all string) (string, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return all, true
	}
	for _, c := range choices {
		if strings.EqualFold(c, value) {
			return c, true
		}
	}
	return "", false
}

func newWardrobeUploadCmd(flags *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "upload <photo>...",
		Short: "Upload clothing photos",
		Long: `Upload one or more clothing photos. LibaasAI tags each photo with a
category and style. The batch is all or nothing: if any photo fails, the
wardrobe is left unchanged.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, flags, func(ctx context.Context, app *AppContext) error {
				gallery := app.Gallery()
				if err := gallery.UploadFiles(ctx, args); err != nil {
					if errors.Is(err, wardrobe.ErrNoSession) {
						return newCommandError("upload photos", "resolving the signed-in user", err, "Run 'libaas login' to sign in.")
					}
					return newCommandError("upload photos", gallery.Snapshot().Error, err, backendSuggestion(err))
				}

				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "✓ %s\n", gallery.Snapshot().Success)
				return nil
			})
		},
	}

	return cmd
}

type wardrobeDeleteOptions struct {
	force bool
}

func newWardrobeDeleteCmd(flags *rootFlags) *cobra.Command {
	opts := &wardrobeDeleteOptions{}

	cmd := &cobra.Command{
		Use:     "delete <item-id>",
		Aliases: []string{"rm"},
		Short:   "Remove an item from your wardrobe",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, flags, func(ctx context.Context, app *AppContext) error {
				return runWardrobeDelete(ctx, cmd, app, args[0], opts)
			})
		},
	}

	cmd.Flags().BoolVarP(&opts.force, "force", "f", false, "Delete without confirmation")

	return cmd
}

func runWardrobeDelete(ctx context.Context, cmd *cobra.Command, app *AppContext, itemID string, opts *wardrobeDeleteOptions) error {
	confirmed := opts.force
	if !confirmed {
		var err error
		confirmed, err = confirm(cmd, "delete item", "Are you sure you want to delete this item?", "Use --force when running in non-interactive environments.")
		if err != nil {
			return err
		}
		if !confirmed {
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
			return nil
		}
	}

	gallery := app.Gallery()
	if err := gallery.Delete(ctx, itemID, confirmed); err != nil {
		if errors.Is(err, wardrobe.ErrNoSession) {
			return newCommandError("delete item", "resolving the signed-in user", err, "Run 'libaas login' to sign in.")
		}
		return newCommandError("delete item", "deleting "+itemID, err, backendSuggestion(err))
	}

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "✓ Deleted %s\n", itemID)
	return nil
}
